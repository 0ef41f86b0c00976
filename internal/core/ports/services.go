package ports

import (
	"context"
	"errors"
	"time"

	"github.com/brcarts/playatracker/internal/core/domain"
)

// ErrTrackerUnavailable is returned by DeviceTracker implementations
// for every transport, timeout, or missing-attribute condition. The
// resolver treats it as "advance to the next source".
var ErrTrackerUnavailable = errors.New("device tracker unavailable")

// TrackerState is one live reading from the upstream device tracker.
type TrackerState struct {
	Lat         float64
	Lng         float64
	Accuracy    *float64
	Battery     *float64
	LastUpdated time.Time
}

// DeviceTracker reads live GPS attributes from the home-automation
// collaborator. Calls must complete within a bounded timeout; a single
// failure is final, never retried.
type DeviceTracker interface {
	CurrentPosition(ctx context.Context) (*TrackerState, error)
}

// CacheService provides ephemeral get/set-with-TTL semantics. The
// simulation writer and the resolver share it; absence degrades to
// always-compute.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher announces resolved and simulated positions to the
// message bus for live consumers (WebSocket relay, displays).
type EventPublisher interface {
	PublishLocation(ctx context.Context, sample *domain.LocationSample) error
	PublishSimulated(ctx context.Context, pt domain.GeoPoint) error
}

// Randomizer supplies the randomness for the no-GPS landmark fallback.
// Injected so tests can pin the selection.
type Randomizer interface {
	Intn(n int) int
}
