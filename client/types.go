package client

import (
	"encoding/json"
	"time"
)

// Politician is a canonical politician record as returned by the API.
type Politician struct {
	ID                string             `json:"id"`
	FullName          string             `json:"full_name"`
	DateOfBirth       *string            `json:"date_of_birth,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	Party             string             `json:"party,omitempty"`
	Constituency      string             `json:"constituency,omitempty"`
	Biography         string             `json:"biography,omitempty"`
	PhotoAssetID      *string            `json:"photo_asset_id,omitempty"`
	PhotoURL          string             `json:"photo_url,omitempty"`
	ReviewStatus      string             `json:"review_status"`
	Education         []EducationEntry   `json:"education,omitempty"`
	Career            []CareerEntry      `json:"career,omitempty"`
	CriminalRecords   []CriminalRecord   `json:"criminal_records,omitempty"`
	AssetDeclarations []AssetDeclaration `json:"asset_declarations,omitempty"`
	ContactInfo       *ContactInfo       `json:"contact_info,omitempty"`
	SocialLinks       *SocialLinks       `json:"social_links,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// EducationEntry is one schooling record.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	EndYear     int    `json:"end_year,omitempty"`
}

// CareerEntry is one position in a career journey.
type CareerEntry struct {
	Organization string `json:"organization"`
	Position     string `json:"position"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CriminalRecord is one case entry.
type CriminalRecord struct {
	CaseNumber string `json:"case_number,omitempty"`
	Court      string `json:"court,omitempty"`
	Charge     string `json:"charge"`
	Status     string `json:"status,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// AssetDeclaration is one declared asset for a reporting year.
type AssetDeclaration struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
	Value       int64  `json:"value,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// ContactInfo holds public contact details.
type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// SocialLinks holds social media handles.
type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// PendingEdit is a proposed mutation awaiting moderation.
type PendingEdit struct {
	ID            string          `json:"id"`
	EntityType    string          `json:"entity_type"`
	EntityID      *string         `json:"entity_id,omitempty"`
	ProposedData  json.RawMessage `json:"proposed_data"`
	ChangeReason  string          `json:"change_reason,omitempty"`
	ProposerID    string          `json:"proposer_id"`
	Status        string          `json:"status"`
	ModeratorID   *string         `json:"moderator_id,omitempty"`
	AdminFeedback *string         `json:"admin_feedback,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Revision is an immutable audit snapshot of an applied change.
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

// ProposeRequest submits a new pending edit.
type ProposeRequest struct {
	EntityType   string          `json:"entity_type"`
	EntityID     *string         `json:"entity_id,omitempty"`
	Data         json.RawMessage `json:"data"`
	ChangeReason string          `json:"change_reason,omitempty"`
}

// DenyRequest carries moderator feedback for a denial.
type DenyRequest struct {
	Reason string `json:"reason,omitempty"`
}

// DirectUpdateRequest is an admin-only patch that bypasses the edit queue.
type DirectUpdateRequest struct {
	Patch  map[string]json.RawMessage `json:"patch"`
	Reason string                     `json:"reason,omitempty"`
}

// ApproveResult reports the outcome of a successful approval.
type ApproveResult struct {
	EditID   string `json:"edit_id"`
	EntityID string `json:"entity_id"`
	Created  bool   `json:"created"`
}

// PoliticianListOptions filters a politician listing.
type PoliticianListOptions struct {
	Party  string
	Query  string
	Limit  int
	Offset int
}

// PendingListOptions pages through the pending edit queue.
type PendingListOptions struct {
	EntityType string
	Page       int
	PageSize   int
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	Politicians   int `json:"politicians"`
	PendingEdits  int `json:"pending_edits"`
	ApprovedEdits int `json:"approved_edits"`
	DeniedEdits   int `json:"denied_edits"`
	Revisions     int `json:"revisions"`
}
