package store_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/db"
	"github.com/netrika/netrika/internal/db/migrations"
	"github.com/netrika/netrika/internal/dbpool"
	"github.com/netrika/netrika/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		t.Fatalf("migrating test DB: %v", err)
	}

	sharedEnv = &testEnv{
		pool: pool,
		log:  log,
	}

	return sharedEnv
}

// testFixture is the shared setup for store tests: a Base plus one regular
// user and one admin, removed along with their writes after the test.
type testFixture struct {
	base    store.Base
	userID  string
	adminID string
}

func insertTestUser(t *testing.T, env *testEnv, role string) string {
	t.Helper()

	id := uuid.New().String()
	hash := sha256.Sum256([]byte("test-key-" + id))

	_, err := env.pool.Exec(context.Background(),
		"INSERT INTO users (id, name, role, api_key_hash) VALUES ($1, $2, $3, $4)",
		id, fmt.Sprintf("test-%s-%s", role, id[:8]), role, hex.EncodeToString(hash[:]),
	)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	return id
}

func setupFixture(t *testing.T) *testFixture {
	t.Helper()

	env := getTestEnv(t)
	f := &testFixture{
		base:    store.Base{Pool: env.pool, Log: env.log},
		userID:  insertTestUser(t, env, "user"),
		adminID: insertTestUser(t, env, "admin"),
	}

	t.Cleanup(func() {
		ctx := context.Background()
		// Delete in dependency order: revisions, pending edits, users.
		// Politicians are cleaned per-test since they carry no user FK.
		env.pool.Exec(ctx, "DELETE FROM revisions WHERE submitter_id IN ($1, $2) OR approver_id IN ($1, $2)", f.userID, f.adminID) //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM pending_edits WHERE proposer_id IN ($1, $2)", f.userID, f.adminID)                         //nolint:errcheck // best-effort cleanup
		env.pool.Exec(ctx, "DELETE FROM users WHERE id IN ($1, $2)", f.userID, f.adminID)                                          //nolint:errcheck // best-effort cleanup
	})

	return f
}

// cleanupPolitician removes a politician row created during a test.
func cleanupPolitician(t *testing.T, f *testFixture, id string) {
	t.Helper()

	t.Cleanup(func() {
		f.base.Pool.Exec(context.Background(), "DELETE FROM politicians WHERE id = $1", id) //nolint:errcheck // best-effort cleanup
	})
}
