package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/netrika/netrika/internal/models"
)

// RevisionStore reads the append-only revision log. Revisions are written
// through appendRevisionTx inside the moderation transactions so a revision
// row never exists without its entity write.
type RevisionStore struct {
	Base
}

// NewRevisionStore creates a new RevisionStore.
func NewRevisionStore(base Base) *RevisionStore {
	return &RevisionStore{Base: base}
}

// ListForEntity returns revisions for an entity, newest first.
func (s *RevisionStore) ListForEntity(
	ctx context.Context, entityType, entityID string, limit, offset int,
) ([]models.Revision, bool, error) {
	limit = clampLimit(limit, 50)
	offset = clampOffset(offset)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+revisionColumns+` FROM revisions
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		entityType, entityID, limit+1, offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	revisions, err := collectRevisions(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(revisions) > limit
	if hasMore {
		revisions = revisions[:limit]
	}

	return revisions, hasMore, nil
}

// revisionParams holds the fields for one revision log entry.
type revisionParams struct {
	EntityType   string
	EntityID     string
	Data         []byte
	SubmitterID  string
	ApproverID   string
	EditID       *string
	ChangeReason *string
}

// appendRevisionTx inserts a revision within an existing transaction.
// Package-level so the moderation transactions in PoliticianStore can append
// the snapshot atomically with the entity write and ledger update.
func appendRevisionTx(ctx context.Context, tx pgx.Tx, p revisionParams) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO revisions (entity_type, entity_id, data, submitter_id, approver_id, edit_id, change_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.EntityType, p.EntityID, p.Data, p.SubmitterID, p.ApproverID, p.EditID, p.ChangeReason,
	)
	if err != nil {
		return fmt.Errorf("appending revision: %w", err)
	}

	return nil
}
