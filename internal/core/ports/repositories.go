package ports

import (
	"context"

	"github.com/brcarts/playatracker/internal/core/domain"
)

// LandmarkRepository persists landmarks. Writes happen only during
// geographic data import; the running service reads.
type LandmarkRepository interface {
	Upsert(ctx context.Context, lm *domain.Landmark) error
	UpsertBatch(ctx context.Context, lms []domain.Landmark) error
	GetByName(ctx context.Context, name string, typ domain.LandmarkType) (*domain.Landmark, error)
	ListActive(ctx context.Context) ([]domain.Landmark, error)
	ListByType(ctx context.Context, typ domain.LandmarkType) ([]domain.Landmark, error)
	Count(ctx context.Context) (int, error)
}

// StreetRepository persists streets (descriptive address data only).
type StreetRepository interface {
	Upsert(ctx context.Context, st *domain.Street) error
	UpsertBatch(ctx context.Context, sts []domain.Street) error
	ListActive(ctx context.Context) ([]domain.Street, error)
}

// BoundaryRepository persists polygon boundaries such as the perimeter
// fence.
type BoundaryRepository interface {
	Upsert(ctx context.Context, b *domain.Boundary) error
	GetActiveFence(ctx context.Context) (*domain.Boundary, error)
	ListActive(ctx context.Context) ([]domain.Boundary, error)
}

// ProximityQuery finds landmarks near a point, nearest first. Two
// implementations exist: one backed by a spatial index and a geometric
// scan fallback. Both must return the same ordering for the same
// inputs; the choice is made once at startup from a capability probe.
type ProximityQuery interface {
	FindWithin(ctx context.Context, lat, lng, radiusMeters float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error)
}
