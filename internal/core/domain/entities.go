package domain

import (
	"time"
)

// LandmarkType classifies a point of interest on the playa.
type LandmarkType string

const (
	LandmarkCenter  LandmarkType = "center"
	LandmarkSacred  LandmarkType = "sacred"
	LandmarkPlaza   LandmarkType = "plaza"
	LandmarkService LandmarkType = "service"
	LandmarkArt     LandmarkType = "art"
	LandmarkToilet  LandmarkType = "toilet"
	LandmarkCPN     LandmarkType = "cpn"
	LandmarkOther   LandmarkType = "other"
)

// DefaultRadius returns the proximity radius in meters applied to a
// landmark type when the imported feature does not carry its own.
func DefaultRadius(t LandmarkType) float64 {
	switch t {
	case LandmarkCenter, LandmarkSacred, LandmarkPlaza:
		return 300
	case LandmarkService:
		return 150
	case LandmarkArt:
		return 100
	case LandmarkToilet:
		return 75
	case LandmarkCPN:
		return 50
	default:
		return 100
	}
}

// PriorityFor ranks landmark types for display ordering. Lower is more
// important; center and sacred sites outrank everything else.
func PriorityFor(t LandmarkType) int {
	switch t {
	case LandmarkCenter:
		return 0
	case LandmarkSacred:
		return 1
	case LandmarkPlaza:
		return 2
	case LandmarkService:
		return 3
	case LandmarkArt:
		return 4
	case LandmarkToilet:
		return 5
	case LandmarkCPN:
		return 6
	default:
		return 7
	}
}

// Landmark is a named point of interest. Landmarks are bulk-imported
// from geographic data files and read-only at runtime.
type Landmark struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         LandmarkType   `json:"type"`
	Location     GeoPoint       `json:"location"`
	RadiusMeters float64        `json:"radius_meters"`
	Active       bool           `json:"active"`
	Properties   map[string]any `json:"properties,omitempty"`
	Distance     *float64       `json:"distance,omitempty"` // computed field
	CreatedAt    time.Time      `json:"created_at"`
}

// Priority derives a display rank from the landmark type.
func (l *Landmark) Priority() int { return PriorityFor(l.Type) }

// Description pulls the free-form description out of the properties
// bag, if the imported feature carried one.
func (l *Landmark) Description() string {
	if l.Properties == nil {
		return ""
	}
	if d, ok := l.Properties["description"].(string); ok {
		return d
	}
	return ""
}

// StreetType is either radial (clock-position streets running out from
// the center) or arc (concentric named rings).
type StreetType string

const (
	StreetRadial StreetType = "radial"
	StreetArc    StreetType = "arc"
)

// Street is a named line feature, used only for descriptive address
// lookup — never for routing.
type Street struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      StreetType `json:"type"`
	Width     float64    `json:"width"`
	Path      []GeoPoint `json:"path"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// Boundary is a named polygon, e.g. the perimeter trash fence or a
// city block.
type Boundary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Rings     []Ring    `json:"rings"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// PrimaryRing returns the outer ring, or nil when the boundary has no
// usable ring.
func (b *Boundary) PrimaryRing() Ring {
	if b == nil || len(b.Rings) == 0 {
		return nil
	}
	return b.Rings[0]
}

// Source tags where a reported position actually came from.
type Source string

const (
	SourceLive      Source = "live"
	SourceSimulated Source = "simulated"
	SourceRandom    Source = "random_location"
)

// Section classifies a position relative to the city grid.
type Section string

const (
	SectionInTheCity  Section = "in_the_city"
	SectionInnerPlaya Section = "inner_playa"
	SectionOuterPlaya Section = "outer_playa"
	SectionDeepPlaya  Section = "deep_playa"
	SectionUnknown    Section = "unknown"
)

// MapMode is a discrete presentation state driving display styling.
type MapMode string

const (
	MapModeNormal    MapMode = "normal"
	MapModeMan       MapMode = "man"
	MapModeTemple    MapMode = "temple"
	MapModePlaza     MapMode = "plaza"
	MapModeArt       MapMode = "art"
	MapModeServices  MapMode = "services"
	MapModeEmergency MapMode = "emergency"
)

// NearbyLandmark is one proximity hit, distance in meters from the
// query point.
type NearbyLandmark struct {
	Name           string       `json:"name"`
	Type           LandmarkType `json:"type"`
	DistanceMeters float64      `json:"distance_meters"`
}

// VisualEffect describes one presentation effect derived from a
// nearby landmark type.
type VisualEffect struct {
	Type        string  `json:"type"`
	Color       string  `json:"color"`
	Intensity   float64 `json:"intensity"`
	Description string  `json:"description,omitempty"`
}

// LocationSample is one fully resolved position. It is never persisted
// as a row; the cache holds the most recent sample only.
type LocationSample struct {
	Lat                     float64          `json:"lat"`
	Lng                     float64          `json:"lng"`
	Timestamp               time.Time        `json:"timestamp"`
	Accuracy                *float64         `json:"accuracy,omitempty"`
	Battery                 *float64         `json:"battery,omitempty"`
	Source                  Source           `json:"source"`
	Address                 string           `json:"address"`
	Section                 Section          `json:"section"`
	DistanceFromCenterM     float64          `json:"distance_from_center_meters"`
	DistanceFromCenterMiles float64          `json:"distance_from_center_miles"`
	WithinFence             bool             `json:"within_fence"`
	NearbyLandmarks         []NearbyLandmark `json:"nearby_landmarks"`
	NearbyToilets           []NearbyLandmark `json:"nearby_toilets"`
	MapMode                 MapMode          `json:"map_mode"`
	VisualEffects           []VisualEffect   `json:"visual_effects"`

	// ProximityDegraded marks a sample whose position resolved but whose
	// proximity lookup failed. Kept off the wire and out of the cache;
	// consumers that exist only to serve proximity must not treat the
	// empty lists as "nothing nearby".
	ProximityDegraded bool `json:"-"`
}
