package usecases_test

import (
	"context"
	"sync"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/ports"
)

// --- Mock LandmarkRepository ---

type mockLandmarkRepo struct {
	listActiveFn func(ctx context.Context) ([]domain.Landmark, error)
}

func (m *mockLandmarkRepo) Upsert(ctx context.Context, lm *domain.Landmark) error       { return nil }
func (m *mockLandmarkRepo) UpsertBatch(ctx context.Context, lms []domain.Landmark) error { return nil }
func (m *mockLandmarkRepo) GetByName(ctx context.Context, name string, typ domain.LandmarkType) (*domain.Landmark, error) {
	return nil, nil
}
func (m *mockLandmarkRepo) ListByType(ctx context.Context, typ domain.LandmarkType) ([]domain.Landmark, error) {
	return nil, nil
}
func (m *mockLandmarkRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockLandmarkRepo) ListActive(ctx context.Context) ([]domain.Landmark, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

// --- Mock BoundaryRepository ---

type mockBoundaryRepo struct {
	getActiveFenceFn func(ctx context.Context) (*domain.Boundary, error)
}

func (m *mockBoundaryRepo) Upsert(ctx context.Context, b *domain.Boundary) error { return nil }
func (m *mockBoundaryRepo) ListActive(ctx context.Context) ([]domain.Boundary, error) {
	return nil, nil
}

func (m *mockBoundaryRepo) GetActiveFence(ctx context.Context) (*domain.Boundary, error) {
	if m.getActiveFenceFn != nil {
		return m.getActiveFenceFn(ctx)
	}
	return nil, nil
}

// --- Mock ProximityQuery ---

type mockProximityQuery struct {
	findWithinFn func(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error)
}

func (m *mockProximityQuery) FindWithin(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
	if m.findWithinFn != nil {
		return m.findWithinFn(ctx, lat, lng, radius, types, limit)
	}
	return nil, nil
}

// --- Mock DeviceTracker ---

type mockTracker struct {
	currentFn func(ctx context.Context) (*ports.TrackerState, error)
}

func (m *mockTracker) CurrentPosition(ctx context.Context) (*ports.TrackerState, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx)
	}
	return nil, ports.ErrTrackerUnavailable
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, context.Canceled // any error means miss
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Fixed Randomizer ---

type fixedRand struct{ n int }

func (f fixedRand) Intn(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}
