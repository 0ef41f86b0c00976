package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/ports"
	"github.com/brcarts/playatracker/internal/pkg/geospatial"
)

// RadiusTable maps landmark types to their proximity query radius in
// meters. Camps and sacred sites announce themselves from further away
// than a porta-potty bank does.
type RadiusTable struct {
	Camp    float64 // center, sacred, plaza
	Service float64
	Art     float64
	Toilet  float64
	Default float64
}

// DefaultRadii returns the production radius table.
func DefaultRadii() RadiusTable {
	return RadiusTable{Camp: 300, Service: 150, Art: 100, Toilet: 75, Default: 100}
}

// For returns the query radius for one landmark type.
func (r RadiusTable) For(t domain.LandmarkType) float64 {
	switch t {
	case domain.LandmarkCenter, domain.LandmarkSacred, domain.LandmarkPlaza:
		return r.Camp
	case domain.LandmarkService:
		return r.Service
	case domain.LandmarkArt:
		return r.Art
	case domain.LandmarkToilet:
		return r.Toilet
	default:
		return r.Default
	}
}

// Max returns the widest non-toilet radius, used as the single query
// radius before per-type filtering.
func (r RadiusTable) Max() float64 {
	max := r.Default
	for _, v := range []float64{r.Camp, r.Service, r.Art} {
		if v > max {
			max = v
		}
	}
	return max
}

// ProximityResult is the raw proximity answer for one coordinate pair.
type ProximityResult struct {
	Landmarks   []domain.NearbyLandmark `json:"landmarks"`
	Toilets     []domain.NearbyLandmark `json:"toilets"`
	WithinFence bool                    `json:"within_fence"`
}

// ProximityService finds nearby landmarks and evaluates perimeter
// containment. The query strategy (indexed or geometric scan) is
// injected once at composition time.
type ProximityService struct {
	query      ports.ProximityQuery
	boundaries ports.BoundaryRepository
	cache      ports.CacheService
	radii      RadiusTable
	limit      int
}

// NewProximityService creates a new ProximityService.
func NewProximityService(query ports.ProximityQuery, boundaries ports.BoundaryRepository, cache ports.CacheService, radii RadiusTable) *ProximityService {
	return &ProximityService{
		query:      query,
		boundaries: boundaries,
		cache:      cache,
		radii:      radii,
		limit:      25,
	}
}

var landmarkQueryTypes = []domain.LandmarkType{
	domain.LandmarkCenter, domain.LandmarkSacred, domain.LandmarkPlaza,
	domain.LandmarkService, domain.LandmarkArt, domain.LandmarkCPN,
	domain.LandmarkOther,
}

// Around returns nearby landmarks, nearby toilets, and fence
// containment for a point. Results come back nearest first; equal
// distances keep store order.
func (s *ProximityService) Around(ctx context.Context, lat, lng float64) (*ProximityResult, error) {
	cacheKey := fmt.Sprintf("proximity:%.5f:%.5f", lat, lng)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var res ProximityResult
			if err := json.Unmarshal(data, &res); err == nil {
				return &res, nil
			}
		}
	}

	hits, err := s.query.FindWithin(ctx, lat, lng, s.radii.Max(), landmarkQueryTypes, s.limit)
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}

	res := &ProximityResult{
		Landmarks: filterByTypeRadius(dedupe(hits), s.radii),
	}

	toilets, err := s.query.FindWithin(ctx, lat, lng, s.radii.Toilet, []domain.LandmarkType{domain.LandmarkToilet}, s.limit)
	if err != nil {
		return nil, fmt.Errorf("toilet query: %w", err)
	}
	res.Toilets = dedupe(toilets)

	res.WithinFence = s.withinFence(ctx, lat, lng)

	// Cache for half a minute; proximity moves with the car.
	if s.cache != nil {
		if data, err := json.Marshal(res); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30)
		}
	}

	return res, nil
}

// WithinFence reports whether the point lies inside the active
// perimeter fence. No fence configured means containment is undefined
// and reported as false.
func (s *ProximityService) WithinFence(ctx context.Context, lat, lng float64) bool {
	return s.withinFence(ctx, lat, lng)
}

func (s *ProximityService) withinFence(ctx context.Context, lat, lng float64) bool {
	fence, err := s.boundaries.GetActiveFence(ctx)
	if err != nil {
		slog.Warn("fence lookup failed", "error", err)
		return false
	}
	if fence == nil {
		return false
	}
	ring := fence.PrimaryRing()
	if ring == nil {
		return false
	}
	return geospatial.PointInRing(lat, lng, ring)
}

// dedupe removes repeated (name, type) hits, keeping the first — the
// nearest, since input is distance-ordered.
func dedupe(hits []domain.NearbyLandmark) []domain.NearbyLandmark {
	if len(hits) < 2 {
		return hits
	}
	seen := make(map[string]bool, len(hits))
	out := hits[:0]
	for _, h := range hits {
		key := h.Name + "\x00" + string(h.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

// filterByTypeRadius drops hits that fell inside the widest query
// radius but outside their own type's radius.
func filterByTypeRadius(hits []domain.NearbyLandmark, radii RadiusTable) []domain.NearbyLandmark {
	out := hits[:0]
	for _, h := range hits {
		if h.DistanceMeters <= radii.For(h.Type) {
			out = append(out, h)
		}
	}
	return out
}
