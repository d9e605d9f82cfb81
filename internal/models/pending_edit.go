package models

import (
	"encoding/json"
	"time"
)

// EditStatus is the lifecycle state of a pending edit.
type EditStatus string

// Edit lifecycle states. Transitions are one-directional: pending edits move
// to approved or denied exactly once and terminal states are final.
const (
	EditStatusPending  EditStatus = "pending"
	EditStatusApproved EditStatus = "approved"
	EditStatusDenied   EditStatus = "denied"
)

// Terminal reports whether the status admits no further transitions.
func (s EditStatus) Terminal() bool {
	return s == EditStatusApproved || s == EditStatusDenied
}

// PendingEdit is a proposed creation or modification of an entity awaiting
// moderator decision. EntityID is null only while a new-entity proposal is
// pending; approval stamps the freshly created entity's identifier. Rows are
// never deleted; the ledger doubles as the proposal audit trail.
type PendingEdit struct {
	ID            string          `json:"id"`
	EntityType    string          `json:"entity_type"`
	EntityID      *string         `json:"entity_id,omitempty"`
	ProposedData  json.RawMessage `json:"proposed_data"`
	ChangeReason  string          `json:"change_reason,omitempty"`
	ProposerID    string          `json:"proposer_id"`
	Status        EditStatus      `json:"status"`
	ModeratorID   *string         `json:"moderator_id,omitempty"`
	AdminFeedback *string         `json:"admin_feedback,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsNewEntity reports whether the edit proposes a brand-new entity rather
// than a change to an existing one.
func (e *PendingEdit) IsNewEntity() bool {
	return e.EntityID == nil
}

// ProposeRequest is the payload for submitting a new pending edit.
type ProposeRequest struct {
	EntityType   string          `json:"entity_type"`
	EntityID     *string         `json:"entity_id,omitempty"`
	Data         json.RawMessage `json:"data"`
	ChangeReason string          `json:"change_reason,omitempty"`
}

// maxProposedDataBytes caps the proposed payload size.
const maxProposedDataBytes = 131072

// Validate checks structural requirements on a ProposeRequest. Entity-type
// specific payload validation happens in the workflow engine.
func (r *ProposeRequest) Validate() error {
	if r.EntityType == "" {
		return ErrMissingEntityType
	}

	if len(r.EntityType) > 100 {
		return ErrFieldTooLong("entity_type", 100)
	}

	if r.EntityID != nil && *r.EntityID == "" {
		return ErrMissingEntityID
	}

	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrMissingData
	}

	if len(r.Data) > maxProposedDataBytes {
		return ErrFieldTooLong("data", maxProposedDataBytes)
	}

	if len(r.ChangeReason) > 2000 {
		return ErrFieldTooLong("change_reason", 2000)
	}

	return nil
}

// DenyRequest is the payload for denying a pending edit.
type DenyRequest struct {
	Reason string `json:"reason,omitempty"`
}

// DirectUpdateRequest is the payload for an admin-only direct entity update
// that bypasses the ledger.
type DirectUpdateRequest struct {
	Patch  FieldPatch `json:"patch"`
	Reason string     `json:"reason,omitempty"`
}

// Validate checks a DirectUpdateRequest.
func (r *DirectUpdateRequest) Validate() error {
	if len(r.Reason) > 2000 {
		return ErrFieldTooLong("reason", 2000)
	}

	return r.Patch.Validate()
}

// ListPendingOpts holds filters for paging through the pending queue.
type ListPendingOpts struct {
	EntityType string
	Page       int
	PageSize   int
}

// ApproveResult reports the outcome of a successful approval.
type ApproveResult struct {
	EditID   string `json:"edit_id"`
	EntityID string `json:"entity_id"`
	Created  bool   `json:"created"`
}
