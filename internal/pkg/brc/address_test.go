package brc_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/pkg/brc"
)

func TestRadialStreet_SlotSet(t *testing.T) {
	g := brc.DefaultGrid()

	// Sweep the whole compass; every resolved street must come from
	// the fixed set of half-hour slots inside the arc.
	valid := map[string]bool{}
	for h := 2; h <= 10; h++ {
		valid[strconv.Itoa(h)+":00"] = true
		if h < 10 {
			valid[strconv.Itoa(h)+":30"] = true
		}
	}

	for bearing := 0.0; bearing < 360; bearing += 1.0 {
		name, ok := g.RadialStreet(bearing)
		if !ok {
			continue
		}
		if !valid[name] {
			t.Fatalf("bearing %.0f resolved to street %q outside the slot set", bearing, name)
		}
		// Determinism: same input, same output.
		again, ok2 := g.RadialStreet(bearing)
		if !ok2 || again != name {
			t.Fatalf("bearing %.0f not deterministic: %q vs %q", bearing, name, again)
		}
	}
}

func TestRadialStreet_ClockPositions(t *testing.T) {
	g := brc.DefaultGrid()

	cases := []struct {
		offset float64 // degrees past the noon axis
		want   string
		ok     bool
	}{
		{60, "2:00", true},    // 2 hours past noon
		{75, "2:30", true},    // half-hour slot
		{180, "6:00", true},   // the gate axis
		{300, "10:00", true},  // end of the arc
		{0, "", false},        // 12:00 faces the temple, no street
		{330, "", false},      // 11:00, outside the arc
		{30, "", false},       // 1:00, outside the arc
	}
	for _, tc := range cases {
		bearing := math.Mod(g.NoonBearing+tc.offset, 360)
		got, ok := g.RadialStreet(bearing)
		if ok != tc.ok || got != tc.want {
			t.Errorf("offset %.0f°: got (%q,%v), want (%q,%v)", tc.offset, got, ok, tc.want, tc.ok)
		}
	}
}

func TestConcentricStreet_Monotonic(t *testing.T) {
	g := brc.DefaultGrid()

	last := -1
	index := func(name string) int {
		for i, bp := range g.Breakpoints {
			if bp.Name == name {
				return i
			}
		}
		return -1
	}

	for d := 0.0; d < 2000; d += 5 {
		name, ok := g.ConcentricStreet(d)
		if !ok {
			// Once past the last street there is no going back.
			if d <= g.Breakpoints[len(g.Breakpoints)-1].Radius-1 {
				t.Fatalf("lost street coverage at %.0fm", d)
			}
			continue
		}
		if i := index(name); i < last {
			t.Fatalf("band index regressed at %.0fm: %d -> %d", d, last, i)
		} else {
			last = i
		}
	}
}

func TestConcentricStreet_TiesRoundOutward(t *testing.T) {
	g := brc.DefaultGrid()

	// Exactly on the Esplanade radius resolves to the next street out.
	name, ok := g.ConcentricStreet(g.Breakpoints[0].Radius)
	if !ok || name != g.Breakpoints[1].Name {
		t.Errorf("tie at Esplanade radius: got (%q,%v), want (%q,true)", name, ok, g.Breakpoints[1].Name)
	}

	// Exactly on the outermost radius is beyond the last street.
	if name, ok := g.ConcentricStreet(g.Breakpoints[len(g.Breakpoints)-1].Radius); ok {
		t.Errorf("tie at outermost radius should be beyond last street, got %q", name)
	}
}

func TestConcentricStreet_BadInput(t *testing.T) {
	g := brc.DefaultGrid()
	if _, ok := g.ConcentricStreet(math.NaN()); ok {
		t.Error("NaN distance must not resolve")
	}
	if _, ok := g.ConcentricStreet(-10); ok {
		t.Error("negative distance must not resolve")
	}
}

func TestSection_Bands(t *testing.T) {
	g := brc.DefaultGrid()

	cases := []struct {
		hasRadial, hasConcentric bool
		d                        float64
		want                     domain.Section
	}{
		{true, true, 1000, domain.SectionInTheCity},
		{false, false, 300, domain.SectionInnerPlaya},
		{true, false, 3000, domain.SectionOuterPlaya},
		{false, false, 9000, domain.SectionDeepPlaya},
		{false, false, math.NaN(), domain.SectionUnknown},
	}
	for i, tc := range cases {
		if got := g.Section(tc.hasRadial, tc.hasConcentric, tc.d); got != tc.want {
			t.Errorf("case %d: got %s, want %s", i, got, tc.want)
		}
	}
}

func TestResolve_InsideCity(t *testing.T) {
	g := brc.DefaultGrid()

	// A point roughly 1km from center along the 6:00 axis lands on a
	// lettered street at 6:00.
	bearing := g.NoonBearing + 180
	lat := g.Center.Lat + math.Cos(bearing*math.Pi/180)*1000/111320
	lng := g.Center.Lng + math.Sin(bearing*math.Pi/180)*1000/(111320*math.Cos(g.Center.Lat*math.Pi/180))

	p := g.Resolve(lat, lng)
	if !p.HasRadial || p.RadialStreet != "6:00" {
		t.Errorf("expected 6:00 radial, got %q (ok=%v, bearing=%.1f)", p.RadialStreet, p.HasRadial, p.Bearing)
	}
	if !p.HasConcentric {
		t.Errorf("expected a concentric street at %.0fm", p.DistanceFromCenter)
	}
	if p.Section != domain.SectionInTheCity {
		t.Errorf("expected in_the_city, got %s", p.Section)
	}
	if !strings.Contains(p.Address, "&") {
		t.Errorf("expected composed address, got %q", p.Address)
	}
}

func TestResolve_DeepPlaya(t *testing.T) {
	g := brc.DefaultGrid()

	// ~11km out is deep playa regardless of bearing.
	p := g.Resolve(g.Center.Lat+0.1, g.Center.Lng)
	if p.Section != domain.SectionDeepPlaya {
		t.Errorf("expected deep_playa at %.0fm, got %s", p.DistanceFromCenter, p.Section)
	}
	if p.Address != "Deep Playa" {
		t.Errorf("expected sentinel address, got %q", p.Address)
	}
}

func TestResolve_BadCoordinates(t *testing.T) {
	g := brc.DefaultGrid()
	p := g.Resolve(math.NaN(), -119.2)
	if p.Section != domain.SectionUnknown || p.Address != "Unknown" {
		t.Errorf("NaN input must degrade to sentinels, got %+v", p)
	}
}
