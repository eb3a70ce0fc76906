// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema migration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-live/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Querier is the subset of pgxpool.Pool used by the stores. Satisfied by
// *pgxpool.Pool, *Pool, pgx.Tx and *pgx.Conn.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The schema must exist
// before calling New because statements are prepared on connect.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies schema.sql over a dedicated connection.
func Migrate(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	// No arguments: pgx uses the simple protocol, which allows multiple statements.
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Column lists shared by the statements and the store scanners.
const (
	MatchColumns = "id, sport, home_team, away_team, status::text, start_time, end_time, home_score, away_score, created_at"

	CommentaryColumns = "id, match_id, minute, sequence, period, event_type, actor, team, message, metadata, tags, created_at"
)

// Statements maps prepared statement names to SQL. Exported so tests and
// tools can inspect what the stores depend on.
var Statements = map[string]string{
	// Health
	"health_check": "SELECT 1",

	// Matches
	"match_insert": `INSERT INTO matches (sport, home_team, away_team, status, start_time, end_time, home_score, away_score)
		VALUES ($1, $2, $3, $4::text::match_status, $5, $6, $7, $8)
		RETURNING ` + MatchColumns,
	"match_list":            "SELECT " + MatchColumns + " FROM matches ORDER BY created_at DESC, id DESC LIMIT $1",
	"match_by_id":           "SELECT " + MatchColumns + " FROM matches WHERE id = $1",
	"match_list_unfinished": "SELECT " + MatchColumns + " FROM matches WHERE status <> 'finished' AND (start_time, id) > ($1::timestamptz, $2) ORDER BY start_time, id LIMIT $3",
	"match_update_status":   "UPDATE matches SET status = $2::text::match_status WHERE id = $1",
	"match_update_score":    "UPDATE matches SET home_score = $2, away_score = $3 WHERE id = $1 RETURNING " + MatchColumns,
	"match_delete":          "DELETE FROM matches WHERE id = $1",

	// Commentary
	"commentary_insert": `INSERT INTO commentary (match_id, minute, sequence, period, event_type, actor, team, message, metadata, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + CommentaryColumns,
	"commentary_list":  "SELECT " + CommentaryColumns + " FROM commentary WHERE match_id = $1 ORDER BY sequence ASC, id ASC LIMIT $2",
	"commentary_count": "SELECT COUNT(*) FROM commentary WHERE match_id = $1",

	// Live feed
	"feed_notify": "SELECT pg_notify($1, $2)",
}

// registerPreparedStatements registers all statements the API and CLI use.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range Statements {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
