package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/netrika/netrika/internal/models"
	"github.com/netrika/netrika/internal/workflow"
)

// Compile-time check: *LedgerStore must satisfy workflow.Ledger.
var _ workflow.Ledger = (*LedgerStore)(nil)

// LedgerStore handles pending edit persistence. Rows are inserted by
// proposers and resolved exactly once by the moderation workflow; they are
// never deleted so the ledger doubles as the proposal audit trail.
type LedgerStore struct {
	Base
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(base Base) *LedgerStore {
	return &LedgerStore{Base: base}
}

// CreateEdit inserts a new pending edit from a validated propose request and
// returns the created record.
func (s *LedgerStore) CreateEdit(ctx context.Context, req models.ProposeRequest, proposerID string) (*models.PendingEdit, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO pending_edits (entity_type, entity_id, proposed_data, change_reason, proposer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + editColumns

	row := s.Pool.QueryRow(ctx, query, req.EntityType, req.EntityID, []byte(req.Data), req.ChangeReason, proposerID)

	e, err := scanEdit(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning created edit: %w", err)
	}

	s.notify("pending_edits", "insert")

	return e, nil
}

// GetEdit returns a pending edit by ID.
func (s *LedgerStore) GetEdit(ctx context.Context, editID string) (*models.PendingEdit, error) {
	if _, err := uuid.Parse(editID); err != nil {
		return nil, models.ErrEditNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+editColumns+" FROM pending_edits WHERE id = $1", editID)

	e, err := scanEdit(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEditNotFound
		}

		return nil, fmt.Errorf("scanning edit: %w", err)
	}

	return e, nil
}

// defaultPageSize is the pending queue page size when none is given.
const defaultPageSize = 20

// ListPending returns one page of pending edits, newest first, plus the
// total pending count for pagination.
func (s *LedgerStore) ListPending(ctx context.Context, opts models.ListPendingOpts) ([]models.PendingEdit, int, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	pageSize := clampLimit(opts.PageSize, defaultPageSize)
	offset := (page - 1) * pageSize

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	where := "WHERE status = 'pending'"
	args := []any{}
	argIdx := 1

	if opts.EntityType != "" {
		where += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, opts.EntityType)
		argIdx++
	}

	var total int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM pending_edits "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting pending edits: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM pending_edits %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		editColumns, where, argIdx, argIdx+1,
	)
	args = append(args, pageSize, offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying pending edits: %w", err)
	}
	defer rows.Close()

	edits, err := collectEdits(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("committing pending edit query: %w", err)
	}

	return edits, total, nil
}

// ListForEntity returns the full proposal history for an entity, newest
// first, including denied and still-pending edits.
func (s *LedgerStore) ListForEntity(
	ctx context.Context, entityType, entityID string, limit, offset int,
) ([]models.PendingEdit, bool, error) {
	limit = clampLimit(limit, 50)
	offset = clampOffset(offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+editColumns+` FROM pending_edits
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		entityType, entityID, limit+1, offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying entity edit history: %w", err)
	}
	defer rows.Close()

	edits, err := collectEdits(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(edits) > limit
	if hasMore {
		edits = edits[:limit]
	}

	return edits, hasMore, nil
}

// Deny transitions a pending edit to denied, stamping the moderator and
// feedback. The status precondition is an atomic conditional update so two
// racing moderators cannot both resolve the same edit.
func (s *LedgerStore) Deny(ctx context.Context, editID, moderatorID, feedback string) error {
	if _, err := uuid.Parse(editID); err != nil {
		return models.ErrEditNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx,
		`UPDATE pending_edits
		SET status = 'denied', moderator_id = $2, admin_feedback = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		editID, moderatorID, feedback,
	)
	if err != nil {
		return fmt.Errorf("denying edit: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return editResolutionConflict(ctx, tx, editID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing deny: %w", err)
	}

	s.notify("pending_edits", "update")

	return nil
}

// markEditApprovedTx transitions an edit to approved within an existing
// transaction, stamping the moderator and resolved entity. Package-level so
// PoliticianStore can call it inside its approval transaction. The WHERE
// status = 'pending' guard plus the affected-row check is the race barrier:
// the losing side of a concurrent resolution sees zero rows.
func markEditApprovedTx(ctx context.Context, tx pgx.Tx, editID, moderatorID, entityID string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE pending_edits
		SET status = 'approved', moderator_id = $2, entity_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		editID, moderatorID, entityID,
	)
	if err != nil {
		return fmt.Errorf("approving edit: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return editResolutionConflict(ctx, tx, editID)
	}

	return nil
}

// editResolutionConflict distinguishes "edit does not exist" from "edit is
// no longer pending" after a conditional update matched zero rows.
func editResolutionConflict(ctx context.Context, tx pgx.Tx, editID string) error {
	var status string

	err := tx.QueryRow(ctx, "SELECT status FROM pending_edits WHERE id = $1", editID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrEditNotFound
		}

		return fmt.Errorf("probing edit status: %w", err)
	}

	return fmt.Errorf("%w (status %q)", models.ErrEditNotPending, strings.ToLower(status))
}
