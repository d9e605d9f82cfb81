package ws

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"
)

func makeEvent(id uint64, at time.Time) *Event {
	return &Event{
		Type: "moderation.proposed",
		ID:   id,
		Data: json.RawMessage(`{"edit_id":"e` + strconv.FormatUint(id, 10) + `"}`),
		Time: at,
	}
}

func TestEventBuffer_SinceReplaysNewerEvents(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)
	defer eb.Stop()

	now := time.Now()
	for i := uint64(1); i <= 5; i++ {
		eb.Append(makeEvent(i, now))
	}

	got := eb.Since(2)
	if len(got) != 3 {
		t.Fatalf("expected 3 events after ID 2, got %d", len(got))
	}
	if got[0].ID != 3 || got[2].ID != 5 {
		t.Errorf("unexpected replay range %d..%d", got[0].ID, got[len(got)-1].ID)
	}

	if got := eb.Since(5); got != nil {
		t.Errorf("expected nil for fully caught-up client, got %d events", len(got))
	}

	if got := eb.Since(0); len(got) != 5 {
		t.Errorf("expected full replay from 0, got %d events", len(got))
	}
}

func TestEventBuffer_EmptyBuffer(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)
	defer eb.Stop()

	if got := eb.Since(0); got != nil {
		t.Errorf("expected nil from empty buffer, got %v", got)
	}
	if id := eb.OldestID(); id != 0 {
		t.Errorf("expected OldestID 0 for empty buffer, got %d", id)
	}
}

func TestEventBuffer_EvictsOverCapacity(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)
	defer eb.Stop()

	now := time.Now()
	for i := uint64(1); i <= 6; i++ {
		eb.Append(makeEvent(i, now))
	}

	if id := eb.OldestID(); id != 4 {
		t.Errorf("expected oldest retained ID 4, got %d", id)
	}
	if got := eb.Since(0); len(got) != 3 {
		t.Errorf("expected 3 retained events, got %d", len(got))
	}
}

func TestEventBuffer_ExpiresOldEvents(t *testing.T) {
	eb := NewEventBuffer(10, time.Minute)
	defer eb.Stop()

	stale := time.Now().Add(-2 * time.Minute)
	eb.Append(makeEvent(1, stale))
	eb.Append(makeEvent(2, stale))
	// Appending a fresh event prunes the expired prefix.
	eb.Append(makeEvent(3, time.Now()))

	if id := eb.OldestID(); id != 3 {
		t.Errorf("expected stale events pruned, oldest %d", id)
	}
}

func TestEventBuffer_SinceReturnsCopy(t *testing.T) {
	eb := NewEventBuffer(10, time.Hour)
	defer eb.Stop()

	eb.Append(makeEvent(1, time.Now()))
	got := eb.Since(0)
	got[0].Type = "mutated"

	if again := eb.Since(0); again[0].Type != "moderation.proposed" {
		t.Error("Since must return a copy, not the backing slice")
	}
}

func TestEventSequence(t *testing.T) {
	seq := NewEventSequence()

	if got := seq.Next(); got != 1 {
		t.Fatalf("expected first ID 1, got %d", got)
	}
	if got := seq.Next(); got != 2 {
		t.Fatalf("expected second ID 2, got %d", got)
	}
}
