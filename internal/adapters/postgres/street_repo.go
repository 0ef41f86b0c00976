package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/brcarts/playatracker/internal/core/domain"
)

// StreetRepo implements ports.StreetRepository with pgx. Street paths
// are stored as JSONB coordinate arrays; they are descriptive address
// data, never queried spatially.
type StreetRepo struct {
	db *DB
}

// NewStreetRepo creates a new StreetRepo.
func NewStreetRepo(db *DB) *StreetRepo {
	return &StreetRepo{db: db}
}

const streetUpsert = `
	INSERT INTO streets (name, type, width, path, active)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name, type) DO UPDATE
	SET width = EXCLUDED.width, path = EXCLUDED.path, active = EXCLUDED.active
`

// Upsert inserts or updates a single street, keyed by (name, type).
func (r *StreetRepo) Upsert(ctx context.Context, st *domain.Street) error {
	path, err := json.Marshal(st.Path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, streetUpsert, st.Name, st.Type, st.Width, path, st.Active)
	return err
}

// UpsertBatch inserts many streets using pgx.Batch.
func (r *StreetRepo) UpsertBatch(ctx context.Context, sts []domain.Street) error {
	batch := &pgx.Batch{}
	for _, st := range sts {
		path, err := json.Marshal(st.Path)
		if err != nil {
			return fmt.Errorf("marshal path for %s: %w", st.Name, err)
		}
		batch.Queue(streetUpsert, st.Name, st.Type, st.Width, path, st.Active)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range sts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// ListActive returns all active streets.
func (r *StreetRepo) ListActive(ctx context.Context) ([]domain.Street, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, type, width, path, active, created_at
		FROM streets WHERE active ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sts []domain.Street
	for rows.Next() {
		var st domain.Street
		var path []byte
		if err := rows.Scan(&st.ID, &st.Name, &st.Type, &st.Width, &path, &st.Active, &st.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(path, &st.Path); err != nil {
			return nil, fmt.Errorf("unmarshal path for %s: %w", st.Name, err)
		}
		sts = append(sts, st)
	}
	return sts, rows.Err()
}
