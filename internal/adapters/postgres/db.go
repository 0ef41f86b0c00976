package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps pgxpool.Pool and provides a shared connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new DB connection pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	// The landmark store serves read-mostly proximity queries from a
	// handful of request handlers; a small pool is plenty.
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// HasPostGIS probes whether the PostGIS extension is installed. The
// result decides the proximity strategy once during composition.
func (db *DB) HasPostGIS(ctx context.Context) bool {
	var n int
	err := db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM pg_extension WHERE extname = 'postgis'`).Scan(&n)
	return err == nil && n > 0
}

// Close releases pool resources.
func (db *DB) Close() {
	db.Pool.Close()
}
