// Package models defines data types for the Netrika moderation core.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityTypePolitician is the entity type tag for politician records.
const EntityTypePolitician = "politician"

// ReviewStatusApproved marks a politician record visible to end users.
const ReviewStatusApproved = "approved"

// Politician is the canonical, queryable record for a politician.
// Rows are mutated only through the moderation workflow, never directly
// by end users.
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

// EducationEntry is one schooling record in a politician's history.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	EndYear     int    `json:"end_year,omitempty"`
}

// CareerEntry is one position in a politician's career journey.
type CareerEntry struct {
	Organization string `json:"organization"`
	Position     string `json:"position"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CriminalRecord is one case entry in a politician's record.
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

// ContactInfo holds a politician's public contact details.
type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// SocialLinks holds a politician's social media handles.
type SocialLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// PoliticianInput is the full proposed payload for a new politician. Any
// client-supplied identifier is ignored; the store assigns a fresh one on
// approval.
type PoliticianInput struct {
	FullName          string             `json:"full_name"`
	DateOfBirth       *string            `json:"date_of_birth,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	Party             string             `json:"party,omitempty"`
	Constituency      string             `json:"constituency,omitempty"`
	Biography         string             `json:"biography,omitempty"`
	PhotoAssetID      *string            `json:"photo_asset_id,omitempty"`
	Education         []EducationEntry   `json:"education,omitempty"`
	Career            []CareerEntry      `json:"career,omitempty"`
	CriminalRecords   []CriminalRecord   `json:"criminal_records,omitempty"`
	AssetDeclarations []AssetDeclaration `json:"asset_declarations,omitempty"`
	ContactInfo       *ContactInfo       `json:"contact_info,omitempty"`
	SocialLinks       *SocialLinks       `json:"social_links,omitempty"`
}

// PoliticianListOpts filters and pages a politician listing.
type PoliticianListOpts struct {
	Party  string
	Query  string
	Limit  int
	Offset int
}

// dateLayout is the wire format for date_of_birth.
const dateLayout = "2006-01-02"

// Validate checks a PoliticianInput for required fields and limits.
func (p *PoliticianInput) Validate() error {
	if p.FullName == "" {
		return ErrMissingFullName
	}

	if len(p.FullName) > 255 {
		return ErrFieldTooLong("full_name", 255)
	}

	if len(p.Biography) > 65536 {
		return ErrFieldTooLong("biography", 65536)
	}

	if p.DateOfBirth != nil {
		if _, err := time.Parse(dateLayout, *p.DateOfBirth); err != nil {
			return fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrInvalidPayload)
		}
	}

	for _, e := range p.Education {
		if e.Institution == "" {
			return fmt.Errorf("%w: education entries require an institution", ErrInvalidPayload)
		}
	}

	for _, c := range p.Career {
		if c.Organization == "" || c.Position == "" {
			return fmt.Errorf("%w: career entries require organization and position", ErrInvalidPayload)
		}
	}

	for _, r := range p.CriminalRecords {
		if r.Charge == "" {
			return fmt.Errorf("%w: criminal record entries require a charge", ErrInvalidPayload)
		}
	}

	return nil
}

// DecodePoliticianInput strictly decodes a proposed-data payload into a
// PoliticianInput and validates it. Unknown fields are decode failures so
// malformed payloads surface at the boundary instead of being silently
// carried in the ledger.
func DecodePoliticianInput(data json.RawMessage) (*PoliticianInput, error) {
	if len(data) == 0 {
		return nil, ErrMissingData
	}

	var in PoliticianInput

	dec := newStrictDecoder(data)
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding politician payload: %w", err)
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	return &in, nil
}
