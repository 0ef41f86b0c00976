package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/brcarts/playatracker/internal/core/domain"
)

// BoundaryRepo implements ports.BoundaryRepository with pgx.
type BoundaryRepo struct {
	db *DB
}

// NewBoundaryRepo creates a new BoundaryRepo.
func NewBoundaryRepo(db *DB) *BoundaryRepo {
	return &BoundaryRepo{db: db}
}

// Upsert inserts or updates a boundary, keyed by (name, type).
func (r *BoundaryRepo) Upsert(ctx context.Context, b *domain.Boundary) error {
	rings, err := json.Marshal(b.Rings)
	if err != nil {
		return fmt.Errorf("marshal rings: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO boundaries (name, type, rings, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, type) DO UPDATE
		SET rings = EXCLUDED.rings, active = EXCLUDED.active
	`, b.Name, b.Type, rings, b.Active)
	return err
}

// GetActiveFence returns the active perimeter fence boundary, or nil
// (no error) when none is configured — containment is then undefined
// and callers must treat it as false.
func (r *BoundaryRepo) GetActiveFence(ctx context.Context) (*domain.Boundary, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, type, rings, active, created_at
		FROM boundaries WHERE active AND type = 'fence'
		ORDER BY created_at DESC LIMIT 1
	`)
	b, err := scanBoundary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// ListActive returns all active boundaries.
func (r *BoundaryRepo) ListActive(ctx context.Context) ([]domain.Boundary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, type, rings, active, created_at
		FROM boundaries WHERE active ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bs []domain.Boundary
	for rows.Next() {
		b, err := scanBoundary(rows)
		if err != nil {
			return nil, err
		}
		bs = append(bs, *b)
	}
	return bs, rows.Err()
}

func scanBoundary(row pgx.Row) (*domain.Boundary, error) {
	var b domain.Boundary
	var rings []byte
	if err := row.Scan(&b.ID, &b.Name, &b.Type, &rings, &b.Active, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rings, &b.Rings); err != nil {
		return nil, fmt.Errorf("unmarshal rings for %s: %w", b.Name, err)
	}
	return &b, nil
}
