package geospatial

import "github.com/brcarts/playatracker/internal/core/domain"

// PointInRing reports whether (lat, lng) lies inside the ring using an
// even-odd ray cast toward +longitude.
//
// Edge convention (half-open): the strict comparisons below put a point
// that sits exactly on an edge on exactly one side — edges whose upper
// endpoint is crossed count, edges whose lower endpoint is crossed do
// not, and a point exactly on a rightward edge tests outside. The ring
// may carry its closing duplicate vertex; the crossing test never
// counts a zero-length edge, so the duplicate cannot double-count.
func PointInRing(lat, lng float64, ring domain.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lng
		yj, xj := ring[j].Lat, ring[j].Lng

		if (yi > lat) != (yj > lat) {
			// x coordinate where the edge crosses the point's latitude
			cross := (xj-xi)*(lat-yi)/(yj-yi) + xi
			if lng < cross {
				inside = !inside
			}
		}
	}
	return inside
}
