// Package brc converts geographic coordinates into Black Rock City
// addresses. All functions are pure and total: bad input degrades to
// sentinel values, never to an error, because address resolution must
// never block location reporting.
package brc

import (
	"fmt"
	"math"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/pkg/geospatial"
)

// Breakpoint names one concentric street and its radius from the
// city center in meters.
type Breakpoint struct {
	Name   string
	Radius float64
}

// Grid holds the survey constants of one year's city plan. The layout
// is re-surveyed every year, so none of these values are baked into
// the algorithms — they arrive through configuration.
type Grid struct {
	Center domain.GeoPoint

	// NoonBearing is the true bearing of the 12:00 axis. The grid's
	// 12:00 does not point north; the whole clock face is rotated.
	NoonBearing float64

	// ArcStart and ArcEnd bound the occupied arc in clock hours.
	// Bearings resolving outside the arc have no radial street.
	ArcStart float64
	ArcEnd   float64

	// Breakpoints are ordered by ascending radius. A distance between
	// two breakpoints resolves to the outer street.
	Breakpoints []Breakpoint

	// DeepPlayaRadius separates the outer playa from the deep playa.
	DeepPlayaRadius float64
}

// DefaultGrid returns the survey values the service ships with. They
// describe one specific year; deployments override them in config.
func DefaultGrid() Grid {
	return Grid{
		Center:      domain.GeoPoint{Lat: 40.786400, Lng: -119.203500},
		NoonBearing: 31.5,
		ArcStart:    2.0,
		ArcEnd:      10.0,
		Breakpoints: []Breakpoint{
			{Name: "Esplanade", Radius: 762},
			{Name: "A", Radius: 896},
			{Name: "B", Radius: 984},
			{Name: "C", Radius: 1073},
			{Name: "D", Radius: 1161},
			{Name: "E", Radius: 1250},
			{Name: "F", Radius: 1352},
			{Name: "G", Radius: 1440},
			{Name: "H", Radius: 1529},
			{Name: "I", Radius: 1617},
			{Name: "J", Radius: 1705},
			{Name: "K", Radius: 1794},
		},
		DeepPlayaRadius: 8047, // 5 miles
	}
}

// Position is a fully resolved address for one coordinate pair.
type Position struct {
	Bearing            float64
	DistanceFromCenter float64
	RadialStreet       string
	ConcentricStreet   string
	HasRadial          bool
	HasConcentric      bool
	Address            string
	Section            domain.Section
}

// clockHours maps a true bearing onto the rotated clock face, rounded
// to the nearest of the 24 half-hour positions. 0.0 is returned as 12.0.
func (g Grid) clockHours(bearing float64) float64 {
	rel := math.Mod(bearing-g.NoonBearing+360, 360)
	hours := rel / 30.0 // 30° per clock hour

	slot := math.Round(hours*2) / 2
	if slot >= 12 {
		slot -= 12
	}
	if slot == 0 {
		slot = 12
	}
	return slot
}

// RadialStreet maps a bearing to its "H:MM" clock street. The second
// return is false when the bearing falls outside the occupied arc.
func (g Grid) RadialStreet(bearing float64) (string, bool) {
	if math.IsNaN(bearing) {
		return "", false
	}
	slot := g.clockHours(bearing)
	if slot < g.ArcStart || slot > g.ArcEnd {
		return "", false
	}

	h := int(slot)
	m := "00"
	if slot != math.Trunc(slot) {
		m = "30"
	}
	return fmt.Sprintf("%d:%s", h, m), true
}

// ConcentricStreet buckets a distance from center against the ordered
// breakpoints. A distance exactly on a breakpoint resolves outward to
// the next street; past the last breakpoint there is no street.
func (g Grid) ConcentricStreet(distanceMeters float64) (string, bool) {
	if math.IsNaN(distanceMeters) || distanceMeters < 0 {
		return "", false
	}
	for _, bp := range g.Breakpoints {
		if distanceMeters < bp.Radius {
			return bp.Name, true
		}
	}
	return "", false
}

// Section classifies a position from its resolved streets and distance.
func (g Grid) Section(hasRadial, hasConcentric bool, distanceMeters float64) domain.Section {
	if math.IsNaN(distanceMeters) || distanceMeters < 0 {
		return domain.SectionUnknown
	}
	if hasRadial && hasConcentric {
		return domain.SectionInTheCity
	}
	if len(g.Breakpoints) > 0 && distanceMeters < g.Breakpoints[0].Radius {
		return domain.SectionInnerPlaya
	}
	if distanceMeters <= g.DeepPlayaRadius {
		return domain.SectionOuterPlaya
	}
	return domain.SectionDeepPlaya
}

// Resolve computes the full address record for one coordinate pair.
func (g Grid) Resolve(lat, lng float64) Position {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return Position{Address: "Unknown", Section: domain.SectionUnknown}
	}

	p := Position{
		Bearing:            geospatial.Bearing(g.Center.Lat, g.Center.Lng, lat, lng),
		DistanceFromCenter: geospatial.Haversine(g.Center.Lat, g.Center.Lng, lat, lng),
	}

	p.RadialStreet, p.HasRadial = g.RadialStreet(p.Bearing)
	p.ConcentricStreet, p.HasConcentric = g.ConcentricStreet(p.DistanceFromCenter)
	p.Section = g.Section(p.HasRadial, p.HasConcentric, p.DistanceFromCenter)

	switch {
	case p.HasRadial && p.HasConcentric:
		p.Address = p.RadialStreet + " & " + p.ConcentricStreet
	case p.Section == domain.SectionInnerPlaya:
		p.Address = "Inner Playa"
	case p.Section == domain.SectionDeepPlaya:
		p.Address = "Deep Playa"
	default:
		p.Address = "Open Playa"
	}
	return p
}
