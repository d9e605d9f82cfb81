package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/metrics"
	"github.com/netrika/netrika/internal/models"
)

// Defaults applied when a moderator or admin omits free-text reasons.
const (
	defaultDenyFeedback       = "No feedback provided"
	defaultDirectUpdateReason = "Direct admin update"
)

// Engine is the moderation workflow engine. All operations take the
// authenticated caller explicitly and enforce role requirements before
// touching any store.
type Engine struct {
	ledger    Ledger
	resolvers map[string]EntityResolver
	events    EventSink
	log       *logrus.Logger
}

// NewEngine creates an Engine. The sink may be nil when no event feed is
// wired (CLI usage, tests).
func NewEngine(ledger Ledger, events EventSink, log *logrus.Logger) *Engine {
	return &Engine{
		ledger:    ledger,
		resolvers: make(map[string]EntityResolver),
		events:    events,
		log:       log,
	}
}

// Register adds an entity type resolver. Proposals for unregistered types
// are rejected at the boundary rather than parked in the ledger.
func (e *Engine) Register(r EntityResolver) {
	e.resolvers[r.EntityType()] = r
}

// resolver returns the resolver for an entity type.
func (e *Engine) resolver(entityType string) (EntityResolver, error) {
	r, ok := e.resolvers[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedEntityType, entityType)
	}

	return r, nil
}

// Propose submits a new pending edit. Any authenticated caller may propose;
// non-admin callers must supply a change reason. The payload is validated
// against the entity type's schema before it enters the ledger.
func (e *Engine) Propose(ctx context.Context, caller models.Identity, req models.ProposeRequest) (*models.PendingEdit, error) {
	if !caller.Authenticated() {
		return nil, models.ErrUnauthenticated
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.ChangeReason == "" && !caller.IsAdmin() {
		return nil, models.ErrMissingReason
	}

	r, err := e.resolver(req.EntityType)
	if err != nil {
		return nil, err
	}

	if req.EntityID != nil {
		if err := r.Exists(ctx, *req.EntityID); err != nil {
			return nil, err
		}

		if err := r.ValidatePatch(req.Data); err != nil {
			return nil, fmt.Errorf("%w: %s", models.ErrInvalidPayload, err)
		}
	} else if err := r.ValidateNew(req.Data); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidPayload, err)
	}

	edit, err := e.ledger.CreateEdit(ctx, req, caller.ID)
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"edit_id":     edit.ID,
		"entity_type": edit.EntityType,
		"proposer_id": caller.ID,
		"new_entity":  edit.IsNewEntity(),
	}).Info("edit proposed")

	e.publish(EventEditProposed, edit)

	return edit, nil
}

// Approve resolves a pending edit in the caller's favor. New-entity edits
// create the entity; field edits patch the target. The resolver commits the
// entity write, the ledger transition, and the revision in one transaction.
func (e *Engine) Approve(ctx context.Context, caller models.Identity, editID string) (*models.ApproveResult, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	edit, err := e.ledger.GetEdit(ctx, editID)
	if err != nil {
		return nil, err
	}

	if edit.Status != models.EditStatusPending {
		return nil, fmt.Errorf("%w (status %q)", models.ErrEditNotPending, edit.Status)
	}

	r, err := e.resolver(edit.EntityType)
	if err != nil {
		return nil, err
	}

	if edit.ProposerID == "" {
		return nil, models.ErrMissingAttribution
	}

	result := models.ApproveResult{EditID: edit.ID}

	if edit.IsNewEntity() {
		entityID, err := r.ApproveNew(ctx, edit, caller.ID)
		if err != nil {
			return nil, err
		}

		result.EntityID = entityID
		result.Created = true
	} else {
		if err := r.ApproveFields(ctx, edit, caller.ID); err != nil {
			return nil, err
		}

		result.EntityID = *edit.EntityID
	}

	metrics.ModerationDecisions.WithLabelValues("approved").Inc()

	e.log.WithFields(logrus.Fields{
		"edit_id":      edit.ID,
		"entity_type":  edit.EntityType,
		"entity_id":    result.EntityID,
		"moderator_id": caller.ID,
		"created":      result.Created,
	}).Info("edit approved")

	e.publish(EventEditApproved, result)

	return &result, nil
}

// Deny resolves a pending edit against the proposer, recording feedback.
// The target entity is never touched and no revision is written.
func (e *Engine) Deny(ctx context.Context, caller models.Identity, editID, reason string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if reason == "" {
		reason = defaultDenyFeedback
	}

	if err := e.ledger.Deny(ctx, editID, caller.ID, reason); err != nil {
		return err
	}

	metrics.ModerationDecisions.WithLabelValues("denied").Inc()

	e.log.WithFields(logrus.Fields{
		"edit_id":      editID,
		"moderator_id": caller.ID,
	}).Info("edit denied")

	e.publish(EventEditDenied, map[string]string{
		"edit_id":  editID,
		"feedback": reason,
	})

	return nil
}

// DirectUpdate applies an admin patch to an entity, bypassing the ledger.
// A revision attributed to the admin on both sides is still appended, so
// even bypass edits leave an audit trail.
func (e *Engine) DirectUpdate(
	ctx context.Context, caller models.Identity, entityType, entityID string, req models.DirectUpdateRequest,
) (json.RawMessage, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	r, err := e.resolver(entityType)
	if err != nil {
		return nil, err
	}

	reason := req.Reason
	if reason == "" {
		reason = defaultDirectUpdateReason
	}

	snapshot, err := r.DirectUpdate(ctx, entityID, req.Patch, caller.ID, reason)
	if err != nil {
		return nil, err
	}

	metrics.ModerationDecisions.WithLabelValues("direct_update").Inc()

	e.log.WithFields(logrus.Fields{
		"entity_type": entityType,
		"entity_id":   entityID,
		"admin_id":    caller.ID,
	}).Info("direct admin update applied")

	e.publish(EventDirectUpdate, map[string]string{
		"entity_type": entityType,
		"entity_id":   entityID,
	})

	return snapshot, nil
}

// requireAdmin checks that the caller is an authenticated admin.
func requireAdmin(caller models.Identity) error {
	if !caller.Authenticated() {
		return models.ErrUnauthenticated
	}

	if !caller.IsAdmin() {
		return models.ErrNotAuthorized
	}

	return nil
}

// publish forwards an event to the sink when one is wired.
func (e *Engine) publish(eventType string, data any) {
	if e.events == nil {
		return
	}

	e.events.Publish(eventType, data)
}
