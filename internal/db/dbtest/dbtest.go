// Package dbtest starts a throwaway Postgres via testcontainers for store
// tests. Tests using it are skipped under -short or without a Docker provider.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/albapepper/scoracle-live/internal/config"
	"github.com/albapepper/scoracle-live/internal/db"
)

const image = "postgres:16-alpine"

// NewPool starts a Postgres container, applies the schema and returns a
// connected pool. The container is terminated when the test finishes.
func NewPool(t *testing.T) (*db.Pool, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres-backed test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("scoracle_test"),
		postgres.WithUsername("scoracle"),
		postgres.WithPassword("scoracle"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	if err := db.Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := db.New(ctx, &config.Config{
		DatabaseURL:    dsn,
		DBPoolMinConns: 1,
		DBPoolMaxConns: 4,
		DBPoolMaxLife:  time.Hour,
	})
	if err != nil {
		t.Fatalf("connect pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool, dsn
}

// Reset truncates all tables and restarts id sequences.
func Reset(t *testing.T, pool *db.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"TRUNCATE "+config.CommentaryTable+", "+config.MatchesTable+" RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}
