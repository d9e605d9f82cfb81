package api

import (
	"context"
	"encoding/json"

	"github.com/netrika/netrika/internal/models"
)

// PoliticianRepository defines politician read operations used by PoliticianHandler.
type PoliticianRepository interface {
	List(ctx context.Context, opts models.PoliticianListOpts) ([]models.Politician, bool, error)
	Get(ctx context.Context, id string) (*models.Politician, error)
}

// EditRepository defines ledger read operations used by EditHandler.
type EditRepository interface {
	GetEdit(ctx context.Context, editID string) (*models.PendingEdit, error)
	ListPending(ctx context.Context, opts models.ListPendingOpts) ([]models.PendingEdit, int, error)
	ListForEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.PendingEdit, bool, error)
}

// RevisionRepository defines revision log reads used by PoliticianHandler.
type RevisionRepository interface {
	ListForEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.Revision, bool, error)
}

// Workflow defines the moderation operations used by the edit and admin handlers.
type Workflow interface {
	Propose(ctx context.Context, caller models.Identity, req models.ProposeRequest) (*models.PendingEdit, error)
	Approve(ctx context.Context, caller models.Identity, editID string) (*models.ApproveResult, error)
	Deny(ctx context.Context, caller models.Identity, editID, reason string) error
	DirectUpdate(ctx context.Context, caller models.Identity, entityType, entityID string, req models.DirectUpdateRequest) (json.RawMessage, error)
}
