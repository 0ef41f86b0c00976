package importer_test

import (
	"context"
	"testing"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/importer"
)

// ---- In-memory repos ----

type memLandmarkRepo struct {
	rows map[string]domain.Landmark
}

func newMemLandmarkRepo() *memLandmarkRepo {
	return &memLandmarkRepo{rows: make(map[string]domain.Landmark)}
}

func key(name string, typ domain.LandmarkType) string { return name + "\x00" + string(typ) }

func (m *memLandmarkRepo) Upsert(ctx context.Context, lm *domain.Landmark) error {
	m.rows[key(lm.Name, lm.Type)] = *lm
	return nil
}
func (m *memLandmarkRepo) UpsertBatch(ctx context.Context, lms []domain.Landmark) error {
	for _, lm := range lms {
		m.rows[key(lm.Name, lm.Type)] = lm
	}
	return nil
}
func (m *memLandmarkRepo) GetByName(ctx context.Context, name string, typ domain.LandmarkType) (*domain.Landmark, error) {
	if lm, ok := m.rows[key(name, typ)]; ok {
		return &lm, nil
	}
	return nil, nil
}
func (m *memLandmarkRepo) ListActive(ctx context.Context) ([]domain.Landmark, error) {
	var out []domain.Landmark
	for _, lm := range m.rows {
		out = append(out, lm)
	}
	return out, nil
}
func (m *memLandmarkRepo) ListByType(ctx context.Context, typ domain.LandmarkType) ([]domain.Landmark, error) {
	var out []domain.Landmark
	for _, lm := range m.rows {
		if lm.Type == typ {
			out = append(out, lm)
		}
	}
	return out, nil
}
func (m *memLandmarkRepo) Count(ctx context.Context) (int, error) { return len(m.rows), nil }

type memStreetRepo struct {
	rows map[string]domain.Street
}

func newMemStreetRepo() *memStreetRepo { return &memStreetRepo{rows: make(map[string]domain.Street)} }

func (m *memStreetRepo) Upsert(ctx context.Context, st *domain.Street) error {
	m.rows[st.Name+"\x00"+string(st.Type)] = *st
	return nil
}
func (m *memStreetRepo) UpsertBatch(ctx context.Context, sts []domain.Street) error {
	for i := range sts {
		if err := m.Upsert(ctx, &sts[i]); err != nil {
			return err
		}
	}
	return nil
}
func (m *memStreetRepo) ListActive(ctx context.Context) ([]domain.Street, error) {
	var out []domain.Street
	for _, st := range m.rows {
		out = append(out, st)
	}
	return out, nil
}

type memBoundaryRepo struct {
	rows map[string]domain.Boundary
}

func newMemBoundaryRepo() *memBoundaryRepo {
	return &memBoundaryRepo{rows: make(map[string]domain.Boundary)}
}

func (m *memBoundaryRepo) Upsert(ctx context.Context, b *domain.Boundary) error {
	m.rows[b.Name+"\x00"+b.Type] = *b
	return nil
}
func (m *memBoundaryRepo) GetActiveFence(ctx context.Context) (*domain.Boundary, error) {
	for _, b := range m.rows {
		if b.Type == "fence" && b.Active {
			return &b, nil
		}
	}
	return nil, nil
}
func (m *memBoundaryRepo) ListActive(ctx context.Context) ([]domain.Boundary, error) {
	var out []domain.Boundary
	for _, b := range m.rows {
		out = append(out, b)
	}
	return out, nil
}

func newImporter() (*importer.Importer, *memLandmarkRepo, *memStreetRepo, *memBoundaryRepo) {
	lms := newMemLandmarkRepo()
	sts := newMemStreetRepo()
	bnd := newMemBoundaryRepo()
	return importer.New(lms, sts, bnd), lms, sts, bnd
}

// ---- Tests ----

const cityGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Center Camp", "type": "center", "description": "the heart of the city"},
			"geometry": {"type": "Point", "coordinates": [-119.202994, 40.786958]}
		},
		{
			"type": "Feature",
			"properties": {"name": "The Temple", "type": "sacred"},
			"geometry": {"type": "Point", "coordinates": [-119.1966, 40.7911]}
		},
		{
			"type": "Feature",
			"properties": {"name": "Esplanade", "type": "arc", "width": 12},
			"geometry": {"type": "LineString", "coordinates": [[-119.21, 40.78], [-119.20, 40.79], [-119.19, 40.79]]}
		},
		{
			"type": "Feature",
			"properties": {"name": "Block A1", "type": "block"},
			"geometry": {"type": "Polygon", "coordinates": [[[-119.21, 40.78], [-119.20, 40.78], [-119.20, 40.79], [-119.21, 40.78]]]}
		}
	]
}`

func TestImport_FeatureKinds(t *testing.T) {
	im, lms, sts, bnd := newImporter()

	stats, err := im.Import(context.Background(), []byte(cityGeoJSON))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if stats.Landmarks != 2 {
		t.Errorf("expected 2 landmarks, got %d", stats.Landmarks)
	}
	if stats.Streets != 1 {
		t.Errorf("expected 1 street, got %d", stats.Streets)
	}
	if stats.Boundaries != 1 {
		t.Errorf("expected 1 boundary, got %d", stats.Boundaries)
	}
	if stats.Skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", stats.Skipped)
	}

	lm, err := lms.GetByName(context.Background(), "Center Camp", domain.LandmarkCenter)
	if err != nil || lm == nil {
		t.Fatalf("Center Camp not stored: %v", err)
	}
	if lm.Location.Lat != 40.786958 || lm.Location.Lng != -119.202994 {
		t.Errorf("coordinates swapped or wrong: %+v", lm.Location)
	}
	if lm.RadiusMeters != 300 {
		t.Errorf("expected default center radius 300, got %v", lm.RadiusMeters)
	}
	if lm.Description() != "the heart of the city" {
		t.Errorf("description lost: %q", lm.Description())
	}

	if len(sts.rows) != 1 {
		t.Errorf("expected 1 street row, got %d", len(sts.rows))
	}
	if len(bnd.rows) != 1 {
		t.Errorf("expected 1 boundary row, got %d", len(bnd.rows))
	}
}

func TestImport_Idempotent(t *testing.T) {
	im, lms, _, _ := newImporter()
	ctx := context.Background()

	if _, err := im.Import(ctx, []byte(cityGeoJSON)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	first, _ := lms.Count(ctx)

	if _, err := im.Import(ctx, []byte(cityGeoJSON)); err != nil {
		t.Fatalf("second import: %v", err)
	}
	second, _ := lms.Count(ctx)

	if first != second {
		t.Errorf("re-import duplicated rows: %d then %d", first, second)
	}
}

func TestImport_SkipsMalformedRecords(t *testing.T) {
	bad := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "No Coords", "type": "art"},
				"geometry": {"type": "Point", "coordinates": []}
			},
			{
				"type": "Feature",
				"properties": {"name": "Bad Coords", "type": "art"},
				"geometry": {"type": "Point", "coordinates": ["x", "y"]}
			},
			{
				"type": "Feature",
				"properties": {"type": "art"},
				"geometry": {"type": "Point", "coordinates": [-119.2, 40.78]}
			},
			{
				"type": "Feature",
				"properties": {"name": "Open Ring", "type": "block"},
				"geometry": {"type": "Polygon", "coordinates": [[[-119.21, 40.78], [-119.20, 40.78], [-119.20, 40.79]]]}
			},
			{
				"type": "Feature",
				"properties": {"name": "Good", "type": "art"},
				"geometry": {"type": "Point", "coordinates": [-119.2, 40.78]}
			}
		]
	}`

	im, lms, _, _ := newImporter()
	stats, err := im.Import(context.Background(), []byte(bad))
	if err != nil {
		t.Fatalf("import should survive bad records: %v", err)
	}

	if stats.Skipped != 4 {
		t.Errorf("expected 4 skipped, got %d", stats.Skipped)
	}
	if stats.Landmarks != 1 {
		t.Errorf("expected 1 landmark imported, got %d", stats.Landmarks)
	}

	n, _ := lms.Count(context.Background())
	if n != 1 {
		t.Errorf("expected 1 stored landmark, got %d", n)
	}
}

func TestImport_RejectsNonCollection(t *testing.T) {
	im, _, _, _ := newImporter()
	if _, err := im.Import(context.Background(), []byte(`{"type": "Feature"}`)); err == nil {
		t.Fatal("expected error for non-FeatureCollection input")
	}
}

func TestSeedFence(t *testing.T) {
	im, _, _, bnd := newImporter()
	ctx := context.Background()

	if err := im.SeedFence(ctx); err != nil {
		t.Fatalf("seed fence: %v", err)
	}

	fence, err := bnd.GetActiveFence(ctx)
	if err != nil || fence == nil {
		t.Fatalf("fence not stored: %v", err)
	}

	ring := fence.PrimaryRing()
	if !ring.Closed() {
		t.Error("fence ring must be closed")
	}
	if len(ring) != 6 {
		t.Errorf("expected 6 ring points, got %d", len(ring))
	}

	// Seeding twice keeps one fence.
	if err := im.SeedFence(ctx); err != nil {
		t.Fatalf("re-seed fence: %v", err)
	}
	if len(bnd.rows) != 1 {
		t.Errorf("re-seed duplicated the fence: %d rows", len(bnd.rows))
	}
}
