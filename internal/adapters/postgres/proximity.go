package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/pkg/geospatial"
	"github.com/brcarts/playatracker/internal/pkg/metrics"
)

// IndexedProximity answers within-distance queries with PostGIS. It is
// an optimization over ScanProximity, never a source of different
// results: both order nearest first and break distance ties by row id.
type IndexedProximity struct {
	db *DB
}

// NewIndexedProximity creates the spatially-indexed strategy.
func NewIndexedProximity(db *DB) *IndexedProximity {
	return &IndexedProximity{db: db}
}

// FindWithin returns active landmarks of the given types within
// radiusMeters of the point, nearest first.
func (p *IndexedProximity) FindWithin(ctx context.Context, lat, lng, radiusMeters float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
	start := time.Now()
	defer func() {
		metrics.ProximityQueryDuration.WithLabelValues("indexed").Observe(time.Since(start).Seconds())
	}()

	rows, err := p.db.Pool.Query(ctx, `
		SELECT name, type,
		       ST_Distance(
		         ST_SetSRID(ST_MakePoint(lng, lat), 4326)::geography,
		         ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		       ) AS distance
		FROM landmarks
		WHERE active
		  AND type = ANY($3)
		  AND ST_DWithin(
		        ST_SetSRID(ST_MakePoint(lng, lat), 4326)::geography,
		        ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
		        $4)
		ORDER BY distance, id
		LIMIT $5
	`, lng, lat, typeStrings(types), radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []domain.NearbyLandmark
	for rows.Next() {
		var h domain.NearbyLandmark
		if err := rows.Scan(&h.Name, &h.Type, &h.DistanceMeters); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ScanProximity is the geometric fallback strategy for stores without
// PostGIS: a bounding-box prefilter in SQL, then Haversine in-process.
type ScanProximity struct {
	db *DB
}

// NewScanProximity creates the geometric fallback strategy.
func NewScanProximity(db *DB) *ScanProximity {
	return &ScanProximity{db: db}
}

// FindWithin loads bounding-box candidates in id order and computes
// exact distances in-process. The stable sort keeps store order for
// equal distances, matching the indexed strategy's tie-break.
func (p *ScanProximity) FindWithin(ctx context.Context, lat, lng, radiusMeters float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
	start := time.Now()
	defer func() {
		metrics.ProximityQueryDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	}()

	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(lat, lng, radiusMeters)

	rows, err := p.db.Pool.Query(ctx, `
		SELECT name, type, lat, lng
		FROM landmarks
		WHERE active
		  AND type = ANY($1)
		  AND lat BETWEEN $2 AND $3
		  AND lng BETWEEN $4 AND $5
		ORDER BY id
	`, typeStrings(types), minLat, maxLat, minLng, maxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cands []scanCandidate
	for rows.Next() {
		var c scanCandidate
		if err := rows.Scan(&c.Name, &c.Type, &c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rankByDistance(lat, lng, radiusMeters, cands, limit), nil
}

// scanCandidate is one bounding-box row, carried in store (id) order.
type scanCandidate struct {
	Name string
	Type domain.LandmarkType
	Lat  float64
	Lng  float64
}

// rankByDistance computes exact distances for bounding-box candidates
// and orders them the way the indexed strategy does: nearest first,
// candidate order preserved on equal distances.
func rankByDistance(lat, lng, radiusMeters float64, cands []scanCandidate, limit int) []domain.NearbyLandmark {
	var hits []domain.NearbyLandmark
	for _, c := range cands {
		d := geospatial.Haversine(lat, lng, c.Lat, c.Lng)
		if d <= radiusMeters {
			hits = append(hits, domain.NearbyLandmark{Name: c.Name, Type: c.Type, DistanceMeters: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].DistanceMeters < hits[j].DistanceMeters
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func typeStrings(types []domain.LandmarkType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
