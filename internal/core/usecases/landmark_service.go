package usecases

import (
	"context"
	"encoding/json"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/ports"
)

// LandmarkInfo is the public listing shape for one landmark.
type LandmarkInfo struct {
	Name        string              `json:"name"`
	Lat         float64             `json:"lat"`
	Lng         float64             `json:"lng"`
	Type        domain.LandmarkType `json:"type"`
	Priority    int                 `json:"priority"`
	Description string              `json:"description,omitempty"`
}

// LandmarkService serves the read-only landmark listing.
type LandmarkService struct {
	landmarks ports.LandmarkRepository
	cache     ports.CacheService
}

// NewLandmarkService creates a new LandmarkService.
func NewLandmarkService(landmarks ports.LandmarkRepository, cache ports.CacheService) *LandmarkService {
	return &LandmarkService{landmarks: landmarks, cache: cache}
}

// ListActive returns every active landmark with its derived priority.
// Landmarks are immutable at runtime, so the cache window is generous.
func (s *LandmarkService) ListActive(ctx context.Context) ([]LandmarkInfo, error) {
	const cacheKey = "landmarks:active"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var infos []LandmarkInfo
			if err := json.Unmarshal(data, &infos); err == nil {
				return infos, nil
			}
		}
	}

	lms, err := s.landmarks.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]LandmarkInfo, 0, len(lms))
	for i := range lms {
		lm := &lms[i]
		infos = append(infos, LandmarkInfo{
			Name:        lm.Name,
			Lat:         lm.Location.Lat,
			Lng:         lm.Location.Lng,
			Type:        lm.Type,
			Priority:    lm.Priority(),
			Description: lm.Description(),
		})
	}

	if s.cache != nil {
		if data, err := json.Marshal(infos); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 3600)
		}
	}

	return infos, nil
}
