// Package workflow implements the moderation state machine that turns
// proposed edits into approved entity mutations or denials.
//
// The engine holds no persistence of its own: the ledger and per-entity-type
// resolvers are injected as narrow interfaces, and every operation takes the
// authenticated caller explicitly. Transactional atomicity for approvals
// lives inside the resolver implementations.
package workflow

import (
	"context"
	"encoding/json"

	"github.com/netrika/netrika/internal/models"
)

// Ledger is the pending-edit persistence interface the engine depends on.
type Ledger interface {
	CreateEdit(ctx context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error)
	GetEdit(ctx context.Context, editID string) (*models.PendingEdit, error)
	Deny(ctx context.Context, editID, moderatorID, feedback string) error
}

// EntityResolver adapts the engine to one entity type. Implementations own
// payload schema validation and the transactional writes that apply an
// approved edit: entity write, ledger transition, and revision append must
// commit or roll back together.
type EntityResolver interface {
	EntityType() string

	// Exists reports whether the target entity is present, returning the
	// entity type's not-found sentinel when it is not.
	Exists(ctx context.Context, entityID string) error

	ValidateNew(data json.RawMessage) error
	ValidatePatch(data json.RawMessage) error

	// ApproveNew creates the entity from a new-entity edit and returns the
	// assigned entity ID.
	ApproveNew(ctx context.Context, edit *models.PendingEdit, moderatorID string) (string, error)

	// ApproveFields applies a field-edit patch to the target entity.
	ApproveFields(ctx context.Context, edit *models.PendingEdit, moderatorID string) error

	// DirectUpdate applies an admin patch outside the ledger and returns the
	// updated entity snapshot.
	DirectUpdate(ctx context.Context, entityID string, patch models.FieldPatch, adminID, reason string) (json.RawMessage, error)
}

// EventSink receives moderation lifecycle events. Implementations must not
// block; the engine publishes on the request path.
type EventSink interface {
	Publish(eventType string, data any)
}

// Moderation event types published to the sink.
const (
	EventEditProposed = "moderation.proposed"
	EventEditApproved = "moderation.approved"
	EventEditDenied   = "moderation.denied"
	EventDirectUpdate = "moderation.direct_update"
)
