package geospatial_test

import (
	"math"
	"testing"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/pkg/geospatial"
)

func TestHaversine_KnownDistance(t *testing.T) {
	// Center Camp to the Man is roughly 0.72 km.
	d := geospatial.Haversine(40.786958, -119.202994, 40.780839, -119.208103)
	if d < 650 || d > 850 {
		t.Errorf("expected ~700-800m, got %.1f", d)
	}
}

func TestHaversine_ZeroDistance(t *testing.T) {
	if d := geospatial.Haversine(40.78, -119.20, 40.78, -119.20); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestBearing_CardinalDirections(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"due north", 40.78, -119.20, 40.80, -119.20, 0},
		{"due south", 40.80, -119.20, 40.78, -119.20, 180},
		{"due east", 40.78, -119.20, 40.78, -119.18, 90},
		{"due west", 40.78, -119.18, 40.78, -119.20, 270},
	}
	for _, tc := range cases {
		got := geospatial.Bearing(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
		if math.Abs(got-tc.want) > 0.5 {
			t.Errorf("%s: expected %.0f°, got %.2f°", tc.name, tc.want, got)
		}
	}
}

func TestBearing_Range(t *testing.T) {
	for _, dst := range []domain.GeoPoint{
		{Lat: 40.79, Lng: -119.21}, {Lat: 40.77, Lng: -119.19},
		{Lat: 40.78, Lng: -119.25}, {Lat: 40.81, Lng: -119.20},
	} {
		b := geospatial.Bearing(40.786958, -119.202994, dst.Lat, dst.Lng)
		if b < 0 || b >= 360 {
			t.Errorf("bearing %f out of [0,360)", b)
		}
	}
}

// Trash fence ring used across the tests below.
func fenceRing() domain.Ring {
	return domain.Ring{
		{Lat: 40.7834, Lng: -119.2327},
		{Lat: 40.7644, Lng: -119.2077},
		{Lat: 40.7766, Lng: -119.1762},
		{Lat: 40.8031, Lng: -119.1817},
		{Lat: 40.8074, Lng: -119.2166},
		{Lat: 40.7834, Lng: -119.2327},
	}
}

func TestPointInRing_Fence(t *testing.T) {
	ring := fenceRing()

	if !geospatial.PointInRing(40.7864, -119.2065, ring) {
		t.Error("point near the Man should be inside the fence")
	}
	if geospatial.PointInRing(40.60, -119.40, ring) {
		t.Error("Gerlach-side point should be outside the fence")
	}
}

func TestPointInRing_RotationInvariant(t *testing.T) {
	ring := fenceRing()
	open := ring[:len(ring)-1] // drop closing duplicate

	for shift := 0; shift < len(open); shift++ {
		rotated := make(domain.Ring, 0, len(open)+1)
		for i := 0; i < len(open); i++ {
			rotated = append(rotated, open[(i+shift)%len(open)])
		}
		rotated = append(rotated, rotated[0])

		if !geospatial.PointInRing(40.7864, -119.2065, rotated) {
			t.Errorf("shift %d: inside point flipped to outside", shift)
		}
		if geospatial.PointInRing(40.60, -119.40, rotated) {
			t.Errorf("shift %d: outside point flipped to inside", shift)
		}
	}
}

// The half-open convention: a point exactly on the left edge of a unit
// square is inside, a point exactly on the right edge is outside.
func TestPointInRing_EdgeConvention(t *testing.T) {
	square := domain.Ring{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 1, Lng: 1},
		{Lat: 1, Lng: 0},
		{Lat: 0, Lng: 0},
	}

	if !geospatial.PointInRing(0.5, 0, square) {
		t.Error("point on left (min-lng) edge should be inside")
	}
	if geospatial.PointInRing(0.5, 1, square) {
		t.Error("point on right (max-lng) edge should be outside")
	}
	if !geospatial.PointInRing(0.5, 0.5, square) {
		t.Error("center should be inside")
	}
	if geospatial.PointInRing(1.5, 0.5, square) {
		t.Error("point above should be outside")
	}
}

func TestPointInRing_DegenerateRing(t *testing.T) {
	if geospatial.PointInRing(0, 0, domain.Ring{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}) {
		t.Error("two-point ring can contain nothing")
	}
	if geospatial.PointInRing(0, 0, nil) {
		t.Error("nil ring can contain nothing")
	}
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(40.786958, -119.202994, 500)
	if minLat >= maxLat || minLng >= maxLng {
		t.Fatal("degenerate box")
	}
	// The east edge of the box must sit roughly the radius away.
	if got := geospatial.Haversine(40.786958, -119.202994, 40.786958, maxLng); got < 490 || got > 510 {
		t.Errorf("east box edge %.1fm out, expected ~500m", got)
	}
}

func TestMetersToMiles(t *testing.T) {
	if got := geospatial.MetersToMiles(1609.344); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected 1 mile, got %f", got)
	}
}
