package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/ports"
	"github.com/brcarts/playatracker/internal/pkg/brc"
	"github.com/brcarts/playatracker/internal/pkg/geospatial"
)

// ErrNoLocation means even the last-resort fallback produced nothing:
// no live fix, no simulated coordinate, and zero active landmarks to
// borrow a position from. The HTTP layer maps it to 503.
var ErrNoLocation = errors.New("no location obtainable from any source")

// Cache keys shared with the external simulation writer.
const (
	locationCacheKey = "location:current"
	SimCoordsKey     = "sim:coords"
)

// SimCoords is the payload the simulator writes into the cache.
type SimCoords struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// LocationService resolves the car's current position through a
// layered source chain and composes the full LocationSample.
type LocationService struct {
	landmarks ports.LandmarkRepository
	tracker   ports.DeviceTracker
	proximity *ProximityService
	cache     ports.CacheService
	publisher ports.EventPublisher
	grid      brc.Grid
	rand      ports.Randomizer

	simEnabled bool
	ttlSeconds int
	now        func() time.Time
}

// NewLocationService creates a new LocationService. cache, tracker and
// publisher may be nil; each absence degrades a layer, never the call.
func NewLocationService(
	landmarks ports.LandmarkRepository,
	tracker ports.DeviceTracker,
	proximity *ProximityService,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	grid brc.Grid,
	rand ports.Randomizer,
	simEnabled bool,
	ttlSeconds int,
) *LocationService {
	if ttlSeconds <= 0 {
		ttlSeconds = 30
	}
	return &LocationService{
		landmarks:  landmarks,
		tracker:    tracker,
		proximity:  proximity,
		cache:      cache,
		publisher:  publisher,
		grid:       grid,
		rand:       rand,
		simEnabled: simEnabled,
		ttlSeconds: ttlSeconds,
		now:        time.Now,
	}
}

// Current returns the most recent LocationSample, serving concurrent
// callers an identical snapshot within the TTL window. On a miss the
// sample is recomputed; racing callers may compute redundantly rather
// than queue behind a lock.
func (s *LocationService) Current(ctx context.Context) (*domain.LocationSample, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, locationCacheKey); err == nil {
			var sample domain.LocationSample
			if err := json.Unmarshal(data, &sample); err == nil {
				return &sample, nil
			}
		}
	}

	sample, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	// A degraded sample is not cached: the next caller retries the
	// proximity lookup instead of pinning empty lists for a TTL window.
	if s.cache != nil && !sample.ProximityDegraded {
		if data, err := json.Marshal(sample); err == nil {
			_ = s.cache.Set(ctx, locationCacheKey, data, s.ttlSeconds)
		}
	}

	// Best effort: displays catch the next sample if the bus is down.
	if s.publisher != nil {
		if err := s.publisher.PublishLocation(ctx, sample); err != nil {
			slog.Debug("location publish failed", "error", err)
		}
	}

	return sample, nil
}

// resolve walks the source chain and composes the sample. Address,
// proximity, and presentation all use the exact coordinates the chain
// produced — nothing is re-fetched between steps.
func (s *LocationService) resolve(ctx context.Context) (*domain.LocationSample, error) {
	sample, err := s.resolveCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	pos := s.grid.Resolve(sample.Lat, sample.Lng)
	sample.Address = pos.Address
	sample.Section = pos.Section
	sample.DistanceFromCenterM = pos.DistanceFromCenter
	sample.DistanceFromCenterMiles = geospatial.MetersToMiles(pos.DistanceFromCenter)

	if s.proximity != nil {
		prox, err := s.proximity.Around(ctx, sample.Lat, sample.Lng)
		if err != nil {
			// The position is still usable without proximity data.
			slog.Warn("proximity lookup failed, reporting bare position", "error", err)
			sample.ProximityDegraded = true
		} else {
			sample.NearbyLandmarks = prox.Landmarks
			sample.NearbyToilets = prox.Toilets
			sample.WithinFence = prox.WithinFence
		}
	}

	sample.MapMode = DeriveMapMode(sample.NearbyLandmarks)
	sample.VisualEffects = DeriveEffects(sample.NearbyLandmarks)

	return sample, nil
}

// resolveCoordinates tries sources in priority order: simulated
// coordinate, live tracker, random active landmark. It never returns
// an empty position with a nil error.
func (s *LocationService) resolveCoordinates(ctx context.Context) (*domain.LocationSample, error) {
	if s.simEnabled {
		if sample := s.simulatedPosition(ctx); sample != nil {
			return sample, nil
		}
	}

	if s.tracker != nil {
		state, err := s.tracker.CurrentPosition(ctx)
		if err == nil {
			return &domain.LocationSample{
				Lat:       state.Lat,
				Lng:       state.Lng,
				Timestamp: s.now(),
				Accuracy:  state.Accuracy,
				Battery:   state.Battery,
				Source:    domain.SourceLive,
			}, nil
		}
		// Unavailable is the expected failure here; anything else is
		// still just a missed source.
		if !errors.Is(err, ports.ErrTrackerUnavailable) {
			slog.Warn("device tracker error", "error", err)
		}
	}

	return s.randomLandmarkPosition(ctx)
}

func (s *LocationService) simulatedPosition(ctx context.Context) *domain.LocationSample {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, SimCoordsKey)
	if err != nil {
		return nil
	}
	var sc SimCoords
	if err := json.Unmarshal(data, &sc); err != nil {
		slog.Warn("bad simulated coordinate in cache", "error", err)
		return nil
	}
	return &domain.LocationSample{
		Lat:       sc.Lat,
		Lng:       sc.Lng,
		Timestamp: s.now(),
		Source:    domain.SourceSimulated,
	}
}

// randomLandmarkPosition is the last resort: park the car on some
// active landmark so downstream consumers always have a position,
// tagged so they can tell filler from telemetry.
func (s *LocationService) randomLandmarkPosition(ctx context.Context) (*domain.LocationSample, error) {
	lms, err := s.landmarks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: landmark fallback: %v", ErrNoLocation, err)
	}
	if len(lms) == 0 {
		return nil, ErrNoLocation
	}

	idx := 0
	if s.rand != nil {
		idx = s.rand.Intn(len(lms))
	}
	lm := lms[idx]

	return &domain.LocationSample{
		Lat:       lm.Location.Lat,
		Lng:       lm.Location.Lng,
		Timestamp: s.now(),
		Source:    domain.SourceRandom,
	}, nil
}
