package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/netrika/netrika/internal/models"
)

// politicianColumns lists the columns selected for politician queries.
const politicianColumns = `id, full_name, date_of_birth, gender, party, constituency,
	biography, photo_asset_id, review_status, education, career,
	criminal_records, asset_declarations, contact_info, social_links,
	created_at, updated_at`

// editColumns lists the columns selected for pending edit queries.
const editColumns = `id, entity_type, entity_id, proposed_data, change_reason,
	proposer_id, status, moderator_id, admin_feedback, created_at, updated_at`

// revisionColumns lists the columns selected for revision queries.
const revisionColumns = `id, entity_type, entity_id, data, submitter_id,
	approver_id, edit_id, change_reason, created_at`

// scanPolitician scans a single row into a models.Politician.
func scanPolitician(scan func(dest ...any) error) (*models.Politician, error) {
	var p models.Politician
	var dob *time.Time
	var education, career, criminalRecords, assetDeclarations []byte
	var contactInfo, socialLinks []byte

	err := scan(
		&p.ID,
		&p.FullName,
		&dob,
		&p.Gender,
		&p.Party,
		&p.Constituency,
		&p.Biography,
		&p.PhotoAssetID,
		&p.ReviewStatus,
		&education,
		&career,
		&criminalRecords,
		&assetDeclarations,
		&contactInfo,
		&socialLinks,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dob != nil {
		s := dob.Format("2006-01-02")
		p.DateOfBirth = &s
	}

	sections := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"education", education, &p.Education},
		{"career", career, &p.Career},
		{"criminal_records", criminalRecords, &p.CriminalRecords},
		{"asset_declarations", assetDeclarations, &p.AssetDeclarations},
		{"contact_info", contactInfo, &p.ContactInfo},
		{"social_links", socialLinks, &p.SocialLinks},
	}
	for _, s := range sections {
		if len(s.raw) == 0 {
			continue
		}

		if err := json.Unmarshal(s.raw, s.dst); err != nil {
			return nil, fmt.Errorf("unmarshalling politician %s: %w", s.name, err)
		}
	}

	return &p, nil
}

// scanEdit scans a single row into a models.PendingEdit.
func scanEdit(scan func(dest ...any) error) (*models.PendingEdit, error) {
	var e models.PendingEdit
	var proposed []byte

	err := scan(
		&e.ID,
		&e.EntityType,
		&e.EntityID,
		&proposed,
		&e.ChangeReason,
		&e.ProposerID,
		&e.Status,
		&e.ModeratorID,
		&e.AdminFeedback,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.ProposedData = json.RawMessage(proposed)

	return &e, nil
}

// scanRevision scans a single row into a models.Revision.
func scanRevision(scan func(dest ...any) error) (*models.Revision, error) {
	var r models.Revision
	var data []byte

	err := scan(
		&r.ID,
		&r.EntityType,
		&r.EntityID,
		&data,
		&r.SubmitterID,
		&r.ApproverID,
		&r.EditID,
		&r.ChangeReason,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Data = json.RawMessage(data)

	return &r, nil
}

// collectPoliticians scans all rows into a politician slice.
func collectPoliticians(rows pgx.Rows) ([]models.Politician, error) {
	politicians := make([]models.Politician, 0, 16)

	for rows.Next() {
		p, err := scanPolitician(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning politician row: %w", err)
		}

		politicians = append(politicians, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating politician rows: %w", err)
	}

	return politicians, nil
}

// collectEdits scans all rows into a pending edit slice.
func collectEdits(rows pgx.Rows) ([]models.PendingEdit, error) {
	edits := make([]models.PendingEdit, 0, 16)

	for rows.Next() {
		e, err := scanEdit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning pending edit row: %w", err)
		}

		edits = append(edits, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending edit rows: %w", err)
	}

	return edits, nil
}

// collectRevisions scans all rows into a revision slice.
func collectRevisions(rows pgx.Rows) ([]models.Revision, error) {
	revisions := make([]models.Revision, 0, 16)

	for rows.Next() {
		r, err := scanRevision(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning revision row: %w", err)
		}

		revisions = append(revisions, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revision rows: %w", err)
	}

	return revisions, nil
}
