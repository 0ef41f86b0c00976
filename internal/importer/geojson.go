package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/ports"
)

// FeatureCollection is the subset of GeoJSON this importer understands.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Stats counts what one import run actually did.
type Stats struct {
	Landmarks  int
	Streets    int
	Boundaries int
	Skipped    int
}

// Importer loads GeoJSON geographic data into the landmark store.
// Point features become landmarks, LineStrings become streets, and
// Polygons become boundaries. Malformed features are skipped one at a
// time; a bad record never aborts the batch.
type Importer struct {
	landmarks  ports.LandmarkRepository
	streets    ports.StreetRepository
	boundaries ports.BoundaryRepository
}

func New(landmarks ports.LandmarkRepository, streets ports.StreetRepository, boundaries ports.BoundaryRepository) *Importer {
	return &Importer{landmarks: landmarks, streets: streets, boundaries: boundaries}
}

// Import parses a GeoJSON FeatureCollection and upserts its features.
// Re-importing the same data updates rows in place; the (name, type)
// key makes the whole operation idempotent.
func (im *Importer) Import(ctx context.Context, data []byte) (Stats, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return Stats{}, fmt.Errorf("parse feature collection: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return Stats{}, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	var stats Stats
	var batch []domain.Landmark

	for i, f := range fc.Features {
		switch f.Geometry.Type {
		case "Point":
			lm, err := pointLandmark(f)
			if err != nil {
				slog.Warn("skipping feature", "index", i, "error", err)
				stats.Skipped++
				continue
			}
			batch = append(batch, *lm)
			stats.Landmarks++

		case "LineString":
			st, err := lineStreet(f)
			if err != nil {
				slog.Warn("skipping feature", "index", i, "error", err)
				stats.Skipped++
				continue
			}
			if err := im.streets.Upsert(ctx, st); err != nil {
				return stats, fmt.Errorf("upsert street %q: %w", st.Name, err)
			}
			stats.Streets++

		case "Polygon":
			b, err := polygonBoundary(f)
			if err != nil {
				slog.Warn("skipping feature", "index", i, "error", err)
				stats.Skipped++
				continue
			}
			if err := im.boundaries.Upsert(ctx, b); err != nil {
				return stats, fmt.Errorf("upsert boundary %q: %w", b.Name, err)
			}
			stats.Boundaries++

		default:
			slog.Warn("skipping feature with unsupported geometry",
				"index", i, "geometry", f.Geometry.Type)
			stats.Skipped++
		}
	}

	if len(batch) > 0 {
		if err := im.landmarks.UpsertBatch(ctx, batch); err != nil {
			return stats, fmt.Errorf("upsert landmarks: %w", err)
		}
	}

	return stats, nil
}

// fenceRing is the surveyed perimeter trash fence. Seeded once; the
// yearly geographic import does not carry it.
var fenceRing = domain.Ring{
	{Lat: 40.7834, Lng: -119.2327},
	{Lat: 40.7644, Lng: -119.2077},
	{Lat: 40.7766, Lng: -119.1762},
	{Lat: 40.8031, Lng: -119.1817},
	{Lat: 40.8074, Lng: -119.2166},
	{Lat: 40.7834, Lng: -119.2327},
}

// SeedFence upserts the fixed perimeter fence boundary.
func (im *Importer) SeedFence(ctx context.Context) error {
	fence := &domain.Boundary{
		Name:   "Trash Fence",
		Type:   "fence",
		Rings:  []domain.Ring{fenceRing},
		Active: true,
	}
	if err := im.boundaries.Upsert(ctx, fence); err != nil {
		return fmt.Errorf("seed fence: %w", err)
	}
	return nil
}

func pointLandmark(f Feature) (*domain.Landmark, error) {
	name := stringProp(f.Properties, "name")
	if name == "" {
		return nil, fmt.Errorf("point feature without name")
	}

	var coords []float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("landmark %q: bad coordinates: %w", name, err)
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("landmark %q: expected [lng, lat], got %d values", name, len(coords))
	}

	typ := domain.LandmarkType(stringProp(f.Properties, "type"))
	if typ == "" {
		typ = domain.LandmarkOther
	}

	radius := floatProp(f.Properties, "radius")
	if radius <= 0 {
		radius = domain.DefaultRadius(typ)
	}

	return &domain.Landmark{
		Name:         name,
		Type:         typ,
		Location:     domain.GeoPoint{Lat: coords[1], Lng: coords[0]},
		RadiusMeters: radius,
		Active:       true,
		Properties:   f.Properties,
	}, nil
}

func lineStreet(f Feature) (*domain.Street, error) {
	name := stringProp(f.Properties, "name")
	if name == "" {
		return nil, fmt.Errorf("line feature without name")
	}

	var coords [][]float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("street %q: bad coordinates: %w", name, err)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("street %q: empty coordinate sequence", name)
	}

	path := make([]domain.GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("street %q: short coordinate pair", name)
		}
		path = append(path, domain.GeoPoint{Lat: c[1], Lng: c[0]})
	}

	typ := domain.StreetType(stringProp(f.Properties, "type"))
	if typ != domain.StreetRadial && typ != domain.StreetArc {
		return nil, fmt.Errorf("street %q: unknown type %q", name, typ)
	}

	width := floatProp(f.Properties, "width")
	if width <= 0 {
		width = 9 // survey default
	}

	return &domain.Street{
		Name:   name,
		Type:   typ,
		Width:  width,
		Path:   path,
		Active: true,
	}, nil
}

func polygonBoundary(f Feature) (*domain.Boundary, error) {
	name := stringProp(f.Properties, "name")
	if name == "" {
		return nil, fmt.Errorf("polygon feature without name")
	}

	var coords [][][]float64
	if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("boundary %q: bad coordinates: %w", name, err)
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("boundary %q: no rings", name)
	}

	rings := make([]domain.Ring, 0, len(coords))
	for _, rawRing := range coords {
		ring := make(domain.Ring, 0, len(rawRing))
		for _, c := range rawRing {
			if len(c) < 2 {
				return nil, fmt.Errorf("boundary %q: short coordinate pair", name)
			}
			ring = append(ring, domain.GeoPoint{Lat: c[1], Lng: c[0]})
		}
		if !ring.Closed() {
			return nil, fmt.Errorf("boundary %q: ring not closed", name)
		}
		rings = append(rings, ring)
	}

	typ := stringProp(f.Properties, "type")
	if typ == "" {
		typ = "block"
	}

	return &domain.Boundary{
		Name:   name,
		Type:   typ,
		Rings:  rings,
		Active: true,
	}, nil
}

func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func floatProp(props map[string]any, key string) float64 {
	if props == nil {
		return 0
	}
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
