package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/netrika/netrika/internal/models"
	"github.com/netrika/netrika/internal/workflow"
)

// Compile-time check: *PoliticianStore must satisfy workflow.EntityResolver.
var _ workflow.EntityResolver = (*PoliticianStore)(nil)

// PoliticianStore handles politician reads and the transactional moderation
// writes. Every write spans the entity row, the ledger transition, and the
// revision append in one transaction so no half-applied approval can ever
// be observed.
type PoliticianStore struct {
	Base
}

// NewPoliticianStore creates a new PoliticianStore.
func NewPoliticianStore(base Base) *PoliticianStore {
	return &PoliticianStore{Base: base}
}

// EntityType returns the entity type this store resolves.
func (s *PoliticianStore) EntityType() string {
	return models.EntityTypePolitician
}

// ValidateNew checks a proposed new-politician payload.
func (s *PoliticianStore) ValidateNew(data json.RawMessage) error {
	_, err := models.DecodePoliticianInput(data)

	return err
}

// ValidatePatch checks a proposed field-edit payload.
func (s *PoliticianStore) ValidatePatch(data json.RawMessage) error {
	_, err := models.DecodeFieldPatch(data)

	return err
}

// Exists checks that a politician row exists for the given ID.
func (s *PoliticianStore) Exists(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.ErrPoliticianNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var found bool
	err := s.Pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM politicians WHERE id = $1)", id).Scan(&found)
	if err != nil {
		return fmt.Errorf("checking politician existence: %w", err)
	}

	if !found {
		return models.ErrPoliticianNotFound
	}

	return nil
}

// Get returns a politician by ID.
func (s *PoliticianStore) Get(ctx context.Context, id string) (*models.Politician, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrPoliticianNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+politicianColumns+" FROM politicians WHERE id = $1", id)

	p, err := scanPolitician(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPoliticianNotFound
		}

		return nil, fmt.Errorf("scanning politician: %w", err)
	}

	return p, nil
}

// List returns politicians matching the filters, ordered by name.
func (s *PoliticianStore) List(ctx context.Context, opts models.PoliticianListOpts) ([]models.Politician, bool, error) {
	limit := clampLimit(opts.Limit, 50)
	offset := clampOffset(opts.Offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where := []string{"review_status = $1"}
	args := []any{models.ReviewStatusApproved}

	if opts.Party != "" {
		args = append(args, opts.Party)
		where = append(where, fmt.Sprintf("party = $%d", len(args)))
	}

	if opts.Query != "" {
		args = append(args, "%"+opts.Query+"%")
		where = append(where, fmt.Sprintf("full_name ILIKE $%d", len(args)))
	}

	query := fmt.Sprintf(
		"SELECT %s FROM politicians WHERE %s ORDER BY full_name, id LIMIT $%d OFFSET $%d",
		politicianColumns, strings.Join(where, " AND "), len(args)+1, len(args)+2,
	)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying politicians: %w", err)
	}
	defer rows.Close()

	politicians, err := collectPoliticians(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(politicians) > limit
	if hasMore {
		politicians = politicians[:limit]
	}

	return politicians, hasMore, nil
}

// Count returns the number of approved politician records.
func (s *PoliticianStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	err := s.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM politicians WHERE review_status = $1", models.ReviewStatusApproved,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting politicians: %w", err)
	}

	return count, nil
}

// ApproveNew creates the politician from an approved new-entity edit,
// resolves the edit, and appends the first revision, all in one transaction.
// Returns the ID assigned to the new record.
func (s *PoliticianStore) ApproveNew(ctx context.Context, edit *models.PendingEdit, moderatorID string) (string, error) {
	in, err := models.DecodePoliticianInput(edit.ProposedData)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return "", err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	p, err := insertPoliticianTx(ctx, tx, in)
	if err != nil {
		return "", err
	}

	if err := markEditApprovedTx(ctx, tx, edit.ID, moderatorID, p.ID); err != nil {
		return "", err
	}

	snapshot, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshalling revision snapshot: %w", err)
	}

	err = appendRevisionTx(ctx, tx, revisionParams{
		EntityType:   models.EntityTypePolitician,
		EntityID:     p.ID,
		Data:         snapshot,
		SubmitterID:  edit.ProposerID,
		ApproverID:   moderatorID,
		EditID:       &edit.ID,
		ChangeReason: &edit.ChangeReason,
	})
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing new politician approval: %w", err)
	}

	s.notify("politicians", "insert")
	s.notify("pending_edits", "update")

	return p.ID, nil
}

// ApproveFields applies an approved field edit to its politician, resolves
// the edit, and appends the post-update revision, all in one transaction.
func (s *PoliticianStore) ApproveFields(ctx context.Context, edit *models.PendingEdit, moderatorID string) error {
	patch, err := models.DecodeFieldPatch(edit.ProposedData)
	if err != nil {
		return err
	}

	if edit.EntityID == nil {
		return models.ErrMissingEntityID
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	p, err := applyPatchTx(ctx, tx, *edit.EntityID, patch)
	if err != nil {
		return err
	}

	if err := markEditApprovedTx(ctx, tx, edit.ID, moderatorID, p.ID); err != nil {
		return err
	}

	snapshot, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling revision snapshot: %w", err)
	}

	err = appendRevisionTx(ctx, tx, revisionParams{
		EntityType:   models.EntityTypePolitician,
		EntityID:     p.ID,
		Data:         snapshot,
		SubmitterID:  edit.ProposerID,
		ApproverID:   moderatorID,
		EditID:       &edit.ID,
		ChangeReason: &edit.ChangeReason,
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing field edit approval: %w", err)
	}

	s.notify("politicians", "update")
	s.notify("pending_edits", "update")

	return nil
}

// DirectUpdate applies an admin patch to a politician without a ledger entry,
// appending a revision attributed to the admin as both submitter and approver.
// Returns the updated record snapshot.
func (s *PoliticianStore) DirectUpdate(
	ctx context.Context, entityID string, patch models.FieldPatch, adminID, reason string,
) (json.RawMessage, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	p, err := applyPatchTx(ctx, tx, entityID, patch)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshalling revision snapshot: %w", err)
	}

	err = appendRevisionTx(ctx, tx, revisionParams{
		EntityType:   models.EntityTypePolitician,
		EntityID:     p.ID,
		Data:         snapshot,
		SubmitterID:  adminID,
		ApproverID:   adminID,
		ChangeReason: &reason,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing direct update: %w", err)
	}

	s.notify("politicians", "update")

	return snapshot, nil
}

// insertPoliticianTx inserts a politician row from a validated input and
// returns the stored record.
func insertPoliticianTx(ctx context.Context, tx pgx.Tx, in *models.PoliticianInput) (*models.Politician, error) {
	sections := make([][]byte, 0, 6)

	for _, v := range []any{in.Education, in.Career, in.CriminalRecords, in.AssetDeclarations} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshalling politician section: %w", err)
		}

		if string(raw) == "null" {
			raw = []byte("[]")
		}

		sections = append(sections, raw)
	}

	for _, v := range []any{in.ContactInfo, in.SocialLinks} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshalling politician section: %w", err)
		}

		if string(raw) == "null" {
			raw = nil
		}

		sections = append(sections, raw)
	}

	query := `INSERT INTO politicians (
			full_name, date_of_birth, gender, party, constituency, biography,
			photo_asset_id, education, career, criminal_records,
			asset_declarations, contact_info, social_links
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + politicianColumns

	row := tx.QueryRow(ctx, query,
		in.FullName, in.DateOfBirth, in.Gender, in.Party, in.Constituency, in.Biography,
		in.PhotoAssetID, sections[0], sections[1], sections[2], sections[3], sections[4], sections[5],
	)

	p, err := scanPolitician(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning inserted politician: %w", err)
	}

	return p, nil
}

// patchColumn maps a patchable field to its column kind. Order is fixed so
// the generated SQL is deterministic.
type patchColumn struct {
	name string
	kind string
}

var patchColumns = []patchColumn{
	{"full_name", "text"},
	{"date_of_birth", "date"},
	{"gender", "text"},
	{"party", "text"},
	{"constituency", "text"},
	{"biography", "text"},
	{"photo_asset_id", "uuid"},
	{"education", "jsonb"},
	{"career", "jsonb"},
	{"criminal_records", "jsonb"},
	{"asset_declarations", "jsonb"},
	{"contact_info", "jsonb"},
	{"social_links", "jsonb"},
}

// applyPatchTx applies a validated field patch to a politician row within an
// existing transaction and returns the updated record.
func applyPatchTx(ctx context.Context, tx pgx.Tx, id string, patch models.FieldPatch) (*models.Politician, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrPoliticianNotFound
	}

	set := make([]string, 0, len(patch)+1)
	args := []any{id}

	for _, col := range patchColumns {
		raw, ok := patch[col.name]
		if !ok {
			continue
		}

		arg, err := patchArg(col, raw)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		switch col.kind {
		case "date":
			set = append(set, fmt.Sprintf("%s = $%d::date", col.name, len(args)))
		case "uuid":
			set = append(set, fmt.Sprintf("%s = $%d::uuid", col.name, len(args)))
		default:
			set = append(set, fmt.Sprintf("%s = $%d", col.name, len(args)))
		}
	}

	set = append(set, "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE politicians SET %s WHERE id = $1 RETURNING %s",
		strings.Join(set, ", "), politicianColumns,
	)

	row := tx.QueryRow(ctx, query, args...)

	p, err := scanPolitician(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPoliticianNotFound
		}

		return nil, fmt.Errorf("scanning patched politician: %w", err)
	}

	return p, nil
}

// patchArg converts one patch value into a query argument. JSON null clears
// nullable columns; string-kinded values are unwrapped from their JSON
// encoding, jsonb values are passed through raw.
func patchArg(col patchColumn, raw json.RawMessage) (any, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	switch col.kind {
	case "jsonb":
		return []byte(raw), nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", col.name, err)
		}

		return s, nil
	}
}
