package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/service"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
	data   []json.RawMessage
}

func (b *recordingBroadcaster) BroadcastEvent(eventType string, data json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
	b.data = append(b.data, data)
}

func (b *recordingBroadcaster) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEventWorker_PublishAndBroadcast(t *testing.T) {
	b := &recordingBroadcaster{}
	w := service.NewEventWorker(b, quietLogger(), 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Publish("moderation.proposed", map[string]string{"edit_id": "e1"})
	w.Publish("moderation.approved", map[string]string{"edit_id": "e1"})

	deadline := time.After(2 * time.Second)
	for len(b.snapshot()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for broadcasts, got %v", b.snapshot())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done

	events := b.snapshot()
	if events[0] != "moderation.proposed" || events[1] != "moderation.approved" {
		t.Errorf("unexpected event order %v", events)
	}

	var payload map[string]string
	if err := json.Unmarshal(b.data[0], &payload); err != nil {
		t.Fatalf("broadcast payload is not JSON: %v", err)
	}
	if payload["edit_id"] != "e1" {
		t.Errorf("unexpected payload %v", payload)
	}
}

func TestEventWorker_DrainsOnShutdown(t *testing.T) {
	b := &recordingBroadcaster{}
	w := service.NewEventWorker(b, quietLogger(), 16)

	// Queue events before the worker starts, then cancel immediately. The
	// worker must still deliver everything queued.
	for i := 0; i < 5; i++ {
		w.Publish("moderation.denied", map[string]int{"n": i})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	if got := len(b.snapshot()); got != 5 {
		t.Errorf("expected 5 drained events, got %d", got)
	}
	if w.QueueDepth() != 0 {
		t.Errorf("expected empty queue, got depth %d", w.QueueDepth())
	}
}

func TestEventWorker_DropsWhenFull(t *testing.T) {
	b := &recordingBroadcaster{}
	w := service.NewEventWorker(b, quietLogger(), 16)

	// No worker running: queue fills to capacity and further events drop
	// without blocking.
	for i := 0; i < 40; i++ {
		w.Publish("moderation.proposed", map[string]int{"n": i})
	}

	if w.QueueDepth() != 16 {
		t.Errorf("expected queue depth 16, got %d", w.QueueDepth())
	}
}

func TestEventWorker_SkipsUnmarshalable(t *testing.T) {
	b := &recordingBroadcaster{}
	w := service.NewEventWorker(b, quietLogger(), 16)

	w.Publish("moderation.proposed", make(chan int))

	if w.QueueDepth() != 0 {
		t.Errorf("unmarshalable event must not be queued, got depth %d", w.QueueDepth())
	}
}
