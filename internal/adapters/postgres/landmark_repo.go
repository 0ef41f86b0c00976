package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/brcarts/playatracker/internal/core/domain"
)

// LandmarkRepo implements ports.LandmarkRepository with pgx.
type LandmarkRepo struct {
	db *DB
}

// NewLandmarkRepo creates a new LandmarkRepo.
func NewLandmarkRepo(db *DB) *LandmarkRepo {
	return &LandmarkRepo{db: db}
}

const landmarkUpsert = `
	INSERT INTO landmarks (name, type, lat, lng, radius_m, active, properties)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (name, type) DO UPDATE
	SET lat = EXCLUDED.lat, lng = EXCLUDED.lng,
	    radius_m = EXCLUDED.radius_m,
	    active = EXCLUDED.active,
	    properties = EXCLUDED.properties
`

// Upsert inserts or updates a single landmark, keyed by (name, type)
// so that re-imports never duplicate rows.
func (r *LandmarkRepo) Upsert(ctx context.Context, lm *domain.Landmark) error {
	_, err := r.db.Pool.Exec(ctx, landmarkUpsert,
		lm.Name, lm.Type, lm.Location.Lat, lm.Location.Lng,
		lm.RadiusMeters, lm.Active, lm.Properties)
	return err
}

// UpsertBatch inserts many landmarks using pgx.Batch.
func (r *LandmarkRepo) UpsertBatch(ctx context.Context, lms []domain.Landmark) error {
	batch := &pgx.Batch{}
	for _, lm := range lms {
		batch.Queue(landmarkUpsert,
			lm.Name, lm.Type, lm.Location.Lat, lm.Location.Lng,
			lm.RadiusMeters, lm.Active, lm.Properties)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range lms {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

const landmarkColumns = `
	id, name, type, lat, lng, radius_m, active,
	COALESCE(properties, '{}'), created_at
`

func scanLandmark(row pgx.Row) (*domain.Landmark, error) {
	var lm domain.Landmark
	err := row.Scan(
		&lm.ID, &lm.Name, &lm.Type,
		&lm.Location.Lat, &lm.Location.Lng,
		&lm.RadiusMeters, &lm.Active, &lm.Properties, &lm.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lm, nil
}

// GetByName returns a landmark by its (name, type) import key.
func (r *LandmarkRepo) GetByName(ctx context.Context, name string, typ domain.LandmarkType) (*domain.Landmark, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+landmarkColumns+` FROM landmarks WHERE name = $1 AND type = $2`,
		name, typ)
	return scanLandmark(row)
}

// ListActive returns every active landmark in stable id order.
func (r *LandmarkRepo) ListActive(ctx context.Context) ([]domain.Landmark, error) {
	return r.list(ctx,
		`SELECT `+landmarkColumns+` FROM landmarks WHERE active ORDER BY id`)
}

// ListByType returns active landmarks of one type.
func (r *LandmarkRepo) ListByType(ctx context.Context, typ domain.LandmarkType) ([]domain.Landmark, error) {
	return r.list(ctx,
		`SELECT `+landmarkColumns+` FROM landmarks WHERE active AND type = $1 ORDER BY id`,
		typ)
}

func (r *LandmarkRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Landmark, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lms []domain.Landmark
	for rows.Next() {
		lm, err := scanLandmark(rows)
		if err != nil {
			return nil, err
		}
		lms = append(lms, *lm)
	}
	return lms, rows.Err()
}

// Count returns the total number of landmark rows.
func (r *LandmarkRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM landmarks`).Scan(&n)
	return n, err
}
