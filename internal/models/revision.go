package models

import (
	"encoding/json"
	"time"
)

// Revision is an immutable snapshot of an accepted change to an entity.
// Exactly one revision is appended per approval or direct admin update;
// revisions are never updated or deleted. EditID is null for direct admin
// edits that bypassed the ledger.
type Revision struct {
	ID           int64           `json:"id"`
	EntityType   string          `json:"entity_type"`
	EntityID     string          `json:"entity_id"`
	Data         json.RawMessage `json:"data"`
	SubmitterID  string          `json:"submitter_id"`
	ApproverID   string          `json:"approver_id"`
	EditID       *string         `json:"edit_id,omitempty"`
	ChangeReason *string         `json:"change_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
