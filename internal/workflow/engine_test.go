package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/models"
	"github.com/netrika/netrika/internal/workflow"
)

type mockLedger struct {
	createEdit func(ctx context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error)
	getEdit    func(ctx context.Context, editID string) (*models.PendingEdit, error)
	deny       func(ctx context.Context, editID, moderatorID, feedback string) error
}

func (m *mockLedger) CreateEdit(ctx context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error) {
	return m.createEdit(ctx, req, proposerID)
}

func (m *mockLedger) GetEdit(ctx context.Context, editID string) (*models.PendingEdit, error) {
	return m.getEdit(ctx, editID)
}

func (m *mockLedger) Deny(ctx context.Context, editID, moderatorID, feedback string) error {
	return m.deny(ctx, editID, moderatorID, feedback)
}

type mockResolver struct {
	entityType    string
	exists        func(ctx context.Context, entityID string) error
	validateNew   func(data json.RawMessage) error
	validatePatch func(data json.RawMessage) error
	approveNew    func(ctx context.Context, edit *models.PendingEdit, moderatorID string) (string, error)
	approveFields func(ctx context.Context, edit *models.PendingEdit, moderatorID string) error
	directUpdate  func(ctx context.Context, entityID string, patch models.FieldPatch, adminID, reason string) (json.RawMessage, error)
}

func (m *mockResolver) EntityType() string {
	if m.entityType != "" {
		return m.entityType
	}
	return models.EntityTypePolitician
}

func (m *mockResolver) Exists(ctx context.Context, entityID string) error {
	if m.exists == nil {
		return nil
	}
	return m.exists(ctx, entityID)
}

func (m *mockResolver) ValidateNew(data json.RawMessage) error {
	if m.validateNew == nil {
		return nil
	}
	return m.validateNew(data)
}

func (m *mockResolver) ValidatePatch(data json.RawMessage) error {
	if m.validatePatch == nil {
		return nil
	}
	return m.validatePatch(data)
}

func (m *mockResolver) ApproveNew(ctx context.Context, edit *models.PendingEdit, moderatorID string) (string, error) {
	return m.approveNew(ctx, edit, moderatorID)
}

func (m *mockResolver) ApproveFields(ctx context.Context, edit *models.PendingEdit, moderatorID string) error {
	return m.approveFields(ctx, edit, moderatorID)
}

func (m *mockResolver) DirectUpdate(ctx context.Context, entityID string, patch models.FieldPatch, adminID, reason string) (json.RawMessage, error) {
	return m.directUpdate(ctx, entityID, patch, adminID, reason)
}

type mockSink struct {
	events []string
}

func (m *mockSink) Publish(eventType string, _ any) {
	m.events = append(m.events, eventType)
}

var (
	adminCaller = models.Identity{ID: "admin-1", Role: models.RoleAdmin}
	userCaller  = models.Identity{ID: "user-1", Role: models.RoleUser}
)

func newEngine(ledger workflow.Ledger, resolver workflow.EntityResolver, sink workflow.EventSink) *workflow.Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	eng := workflow.NewEngine(ledger, sink, log)
	if resolver != nil {
		eng.Register(resolver)
	}
	return eng
}

func validProposal() models.ProposeRequest {
	return models.ProposeRequest{
		EntityType:   models.EntityTypePolitician,
		Data:         json.RawMessage(`{"full_name":"Asha Verma"}`),
		ChangeReason: "new candidate filing",
	}
}

func TestPropose(t *testing.T) {
	t.Run("new entity proposal stored and published", func(t *testing.T) {
		sink := &mockSink{}
		ledger := &mockLedger{
			createEdit: func(_ context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error) {
				if proposerID != "user-1" {
					t.Errorf("unexpected proposer %q", proposerID)
				}
				return &models.PendingEdit{
					ID:           "edit-1",
					EntityType:   req.EntityType,
					ProposedData: req.Data,
					ProposerID:   proposerID,
					Status:       models.EditStatusPending,
				}, nil
			},
		}
		eng := newEngine(ledger, &mockResolver{}, sink)

		edit, err := eng.Propose(context.Background(), userCaller, validProposal())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if edit.ID != "edit-1" {
			t.Errorf("unexpected edit ID %q", edit.ID)
		}
		if len(sink.events) != 1 || sink.events[0] != workflow.EventEditProposed {
			t.Errorf("expected one proposed event, got %v", sink.events)
		}
	})

	t.Run("unauthenticated caller", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		_, err := eng.Propose(context.Background(), models.Identity{}, validProposal())
		if !errors.Is(err, models.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("non-admin without reason", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		req := validProposal()
		req.ChangeReason = ""
		_, err := eng.Propose(context.Background(), userCaller, req)
		if !errors.Is(err, models.ErrMissingReason) {
			t.Fatalf("expected ErrMissingReason, got %v", err)
		}
	})

	t.Run("admin may omit reason", func(t *testing.T) {
		ledger := &mockLedger{
			createEdit: func(_ context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error) {
				return &models.PendingEdit{ID: "edit-2", ProposerID: proposerID, Status: models.EditStatusPending}, nil
			},
		}
		eng := newEngine(ledger, &mockResolver{}, nil)

		req := validProposal()
		req.ChangeReason = ""
		if _, err := eng.Propose(context.Background(), adminCaller, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unsupported entity type", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		req := validProposal()
		req.EntityType = "party"
		_, err := eng.Propose(context.Background(), userCaller, req)
		if !errors.Is(err, models.ErrUnsupportedEntityType) {
			t.Fatalf("expected ErrUnsupportedEntityType, got %v", err)
		}
	})

	t.Run("invalid new-entity payload maps to invalid payload", func(t *testing.T) {
		resolver := &mockResolver{
			validateNew: func(json.RawMessage) error { return errors.New("full_name is required") },
		}
		eng := newEngine(&mockLedger{}, resolver, nil)

		_, err := eng.Propose(context.Background(), userCaller, validProposal())
		if !errors.Is(err, models.ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("field edit checks target exists first", func(t *testing.T) {
		patchChecked := false
		resolver := &mockResolver{
			exists:        func(_ context.Context, _ string) error { return models.ErrPoliticianNotFound },
			validatePatch: func(json.RawMessage) error { patchChecked = true; return nil },
		}
		eng := newEngine(&mockLedger{}, resolver, nil)

		target := "p-1"
		req := validProposal()
		req.EntityID = &target
		_, err := eng.Propose(context.Background(), userCaller, req)
		if !errors.Is(err, models.ErrPoliticianNotFound) {
			t.Fatalf("expected ErrPoliticianNotFound, got %v", err)
		}
		if patchChecked {
			t.Error("patch must not be validated when the target is missing")
		}
	})
}

func TestApprove(t *testing.T) {
	pendingNew := func() *models.PendingEdit {
		return &models.PendingEdit{
			ID:           "edit-1",
			EntityType:   models.EntityTypePolitician,
			ProposedData: json.RawMessage(`{"full_name":"A"}`),
			ProposerID:   "user-1",
			Status:       models.EditStatusPending,
		}
	}

	t.Run("new entity approval creates and reports entity", func(t *testing.T) {
		sink := &mockSink{}
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) { return pendingNew(), nil },
		}
		resolver := &mockResolver{
			approveNew: func(_ context.Context, edit *models.PendingEdit, moderatorID string) (string, error) {
				if moderatorID != "admin-1" {
					t.Errorf("unexpected moderator %q", moderatorID)
				}
				return "pol-9", nil
			},
		}
		eng := newEngine(ledger, resolver, sink)

		result, err := eng.Approve(context.Background(), adminCaller, "edit-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.EntityID != "pol-9" || !result.Created {
			t.Errorf("unexpected result %+v", result)
		}
		if len(sink.events) != 1 || sink.events[0] != workflow.EventEditApproved {
			t.Errorf("expected one approved event, got %v", sink.events)
		}
	})

	t.Run("field edit approval patches target", func(t *testing.T) {
		target := "pol-3"
		edit := pendingNew()
		edit.EntityID = &target
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) { return edit, nil },
		}
		resolver := &mockResolver{
			approveFields: func(_ context.Context, _ *models.PendingEdit, _ string) error { return nil },
		}
		eng := newEngine(ledger, resolver, nil)

		result, err := eng.Approve(context.Background(), adminCaller, "edit-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.EntityID != target || result.Created {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		_, err := eng.Approve(context.Background(), userCaller, "edit-1")
		if !errors.Is(err, models.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("already resolved edit", func(t *testing.T) {
		edit := pendingNew()
		edit.Status = models.EditStatusDenied
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) { return edit, nil },
		}
		eng := newEngine(ledger, &mockResolver{}, nil)

		_, err := eng.Approve(context.Background(), adminCaller, "edit-1")
		if !errors.Is(err, models.ErrEditNotPending) {
			t.Fatalf("expected ErrEditNotPending, got %v", err)
		}
	})

	t.Run("missing edit", func(t *testing.T) {
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) {
				return nil, models.ErrEditNotFound
			},
		}
		eng := newEngine(ledger, &mockResolver{}, nil)

		_, err := eng.Approve(context.Background(), adminCaller, "nope")
		if !errors.Is(err, models.ErrEditNotFound) {
			t.Fatalf("expected ErrEditNotFound, got %v", err)
		}
	})

	t.Run("edit without attribution", func(t *testing.T) {
		edit := pendingNew()
		edit.ProposerID = ""
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) { return edit, nil },
		}
		eng := newEngine(ledger, &mockResolver{}, nil)

		_, err := eng.Approve(context.Background(), adminCaller, "edit-1")
		if !errors.Is(err, models.ErrMissingAttribution) {
			t.Fatalf("expected ErrMissingAttribution, got %v", err)
		}
	})

	t.Run("resolver conflict propagates", func(t *testing.T) {
		ledger := &mockLedger{
			getEdit: func(_ context.Context, _ string) (*models.PendingEdit, error) { return pendingNew(), nil },
		}
		resolver := &mockResolver{
			approveNew: func(_ context.Context, _ *models.PendingEdit, _ string) (string, error) {
				return "", models.ErrEditNotPending
			},
		}
		eng := newEngine(ledger, resolver, nil)

		_, err := eng.Approve(context.Background(), adminCaller, "edit-1")
		if !errors.Is(err, models.ErrEditNotPending) {
			t.Fatalf("expected ErrEditNotPending, got %v", err)
		}
	})
}

func TestDeny(t *testing.T) {
	t.Run("records feedback", func(t *testing.T) {
		sink := &mockSink{}
		var gotFeedback string
		ledger := &mockLedger{
			deny: func(_ context.Context, editID, moderatorID, feedback string) error {
				if editID != "edit-1" || moderatorID != "admin-1" {
					t.Errorf("unexpected deny args %q %q", editID, moderatorID)
				}
				gotFeedback = feedback
				return nil
			},
		}
		eng := newEngine(ledger, nil, sink)

		if err := eng.Deny(context.Background(), adminCaller, "edit-1", "duplicate submission"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotFeedback != "duplicate submission" {
			t.Errorf("unexpected feedback %q", gotFeedback)
		}
		if len(sink.events) != 1 || sink.events[0] != workflow.EventEditDenied {
			t.Errorf("expected one denied event, got %v", sink.events)
		}
	})

	t.Run("defaults empty feedback", func(t *testing.T) {
		var gotFeedback string
		ledger := &mockLedger{
			deny: func(_ context.Context, _, _, feedback string) error {
				gotFeedback = feedback
				return nil
			},
		}
		eng := newEngine(ledger, nil, nil)

		if err := eng.Deny(context.Background(), adminCaller, "edit-1", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotFeedback != "No feedback provided" {
			t.Errorf("unexpected default feedback %q", gotFeedback)
		}
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, nil, nil)

		err := eng.Deny(context.Background(), userCaller, "edit-1", "nope")
		if !errors.Is(err, models.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})
}

func TestDirectUpdate(t *testing.T) {
	patch := models.FieldPatch{"party": json.RawMessage(`"New Party"`)}

	t.Run("applies and returns snapshot", func(t *testing.T) {
		sink := &mockSink{}
		resolver := &mockResolver{
			directUpdate: func(_ context.Context, entityID string, p models.FieldPatch, adminID, reason string) (json.RawMessage, error) {
				if entityID != "pol-1" || adminID != "admin-1" {
					t.Errorf("unexpected args %q %q", entityID, adminID)
				}
				if reason != "manual fix" {
					t.Errorf("unexpected reason %q", reason)
				}
				return json.RawMessage(`{"id":"pol-1"}`), nil
			},
		}
		eng := newEngine(&mockLedger{}, resolver, sink)

		snapshot, err := eng.DirectUpdate(context.Background(), adminCaller, models.EntityTypePolitician, "pol-1",
			models.DirectUpdateRequest{Patch: patch, Reason: "manual fix"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(snapshot) != `{"id":"pol-1"}` {
			t.Errorf("unexpected snapshot %s", snapshot)
		}
		if len(sink.events) != 1 || sink.events[0] != workflow.EventDirectUpdate {
			t.Errorf("expected one direct update event, got %v", sink.events)
		}
	})

	t.Run("defaults empty reason", func(t *testing.T) {
		var gotReason string
		resolver := &mockResolver{
			directUpdate: func(_ context.Context, _ string, _ models.FieldPatch, _, reason string) (json.RawMessage, error) {
				gotReason = reason
				return json.RawMessage(`{}`), nil
			},
		}
		eng := newEngine(&mockLedger{}, resolver, nil)

		_, err := eng.DirectUpdate(context.Background(), adminCaller, models.EntityTypePolitician, "pol-1",
			models.DirectUpdateRequest{Patch: patch})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotReason != "Direct admin update" {
			t.Errorf("unexpected default reason %q", gotReason)
		}
	})

	t.Run("invalid patch rejected before resolver", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		_, err := eng.DirectUpdate(context.Background(), adminCaller, models.EntityTypePolitician, "pol-1",
			models.DirectUpdateRequest{Patch: models.FieldPatch{"salary": json.RawMessage(`1`)}})
		if !errors.Is(err, models.ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		eng := newEngine(&mockLedger{}, &mockResolver{}, nil)

		_, err := eng.DirectUpdate(context.Background(), userCaller, models.EntityTypePolitician, "pol-1",
			models.DirectUpdateRequest{Patch: patch})
		if !errors.Is(err, models.ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})
}
