package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/usecases"
	"github.com/brcarts/playatracker/internal/pkg/metrics"
)

// LocationHandler returns the current resolved position of the car.
// The resolver always produces a usable position; 503 is reserved for
// the case where even the fallback chain came up empty.
func LocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sample, err := deps.Location.Current(c.Context())
		if err != nil {
			if errors.Is(err, usecases.ErrNoLocation) {
				return errUnavailable(c, "no location obtainable from any source")
			}
			return errInternal(c, err.Error())
		}

		metrics.LocationResolutions.WithLabelValues(string(sample.Source)).Inc()

		return c.JSON(fiber.Map{
			"lat":                        sample.Lat,
			"lng":                        sample.Lng,
			"timestamp":                  sample.Timestamp,
			"accuracy":                   sample.Accuracy,
			"battery":                    sample.Battery,
			"address":                    sample.Address,
			"section":                    sample.Section,
			"distance_from_center_miles": sample.DistanceFromCenterMiles,
			"within_fence":               sample.WithinFence,
			"source":                     sample.Source,
		})
	}
}

// proximityResponse is the wire shape for /v1/proximity. When no
// location is available it stays empty but valid — never an error.
type proximityResponse struct {
	Landmarks     []domain.NearbyLandmark `json:"landmarks"`
	Toilets       []domain.NearbyLandmark `json:"toilets"`
	WithinFence   bool                    `json:"within_fence"`
	MapMode       domain.MapMode          `json:"map_mode"`
	VisualEffects []domain.VisualEffect   `json:"visual_effects"`
}

// ProximityHandler returns nearby landmarks and derived presentation
// state for the current position.
func ProximityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := proximityResponse{
			Landmarks:     []domain.NearbyLandmark{},
			Toilets:       []domain.NearbyLandmark{},
			MapMode:       domain.MapModeNormal,
			VisualEffects: []domain.VisualEffect{},
		}

		sample, err := deps.Location.Current(c.Context())
		if err != nil {
			if errors.Is(err, usecases.ErrNoLocation) {
				return c.JSON(resp)
			}
			return errInternal(c, err.Error())
		}

		// A bare position is fine for /location; here proximity IS the
		// payload, so a failed lookup cannot pass as "nothing nearby".
		if sample.ProximityDegraded {
			return errUnavailable(c, "proximity lookup failed")
		}

		if sample.NearbyLandmarks != nil {
			resp.Landmarks = sample.NearbyLandmarks
		}
		if sample.NearbyToilets != nil {
			resp.Toilets = sample.NearbyToilets
		}
		resp.WithinFence = sample.WithinFence
		resp.MapMode = sample.MapMode
		if sample.VisualEffects != nil {
			resp.VisualEffects = sample.VisualEffects
		}

		return c.JSON(resp)
	}
}

// LandmarksHandler lists every active landmark. Landmarks never change
// at runtime, so the response is cacheable for a long time.
func LandmarksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		infos, err := deps.Landmarks.ListActive(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		if infos == nil {
			infos = []usecases.LandmarkInfo{}
		}
		c.Set("Cache-Control", "public, max-age=86400, immutable")
		return c.JSON(infos)
	}
}
