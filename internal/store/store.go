// Package store provides focused, single-concern data access stores
// for the Netrika moderation core.
//
// Each store owns one domain (politicians, pending edits, revisions) and
// embeds shared helpers (Pool, logger) via the Base struct. Stores never
// import each other; logic shared across stores within one transaction
// lives in package-level ...Tx helpers (ledger.go, revision.go).
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/dbpool"
	"github.com/netrika/netrika/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// notify sends a pg_notify on the netrika_changes channel (best-effort, post-commit).
func (b *Base) notify(table, op string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table": table,
		"op":    op,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('netrika_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + table + " notification")
	}
}

// GetIdentityByAPIKey looks up a caller identity by hashed API key.
func (b *Base) GetIdentityByAPIKey(ctx context.Context, apiKey string) (models.Identity, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	hash := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(hash[:])

	var ident models.Identity

	err := b.Pool.QueryRow(ctx,
		"SELECT id, name, role FROM users WHERE api_key_hash = $1", apiKeyHash,
	).Scan(&ident.ID, &ident.Name, &ident.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Identity{}, models.ErrIdentityNotFound
		}

		return models.Identity{}, fmt.Errorf("looking up identity by API key: %w", err)
	}

	return ident, nil
}
