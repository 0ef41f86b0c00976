package usecases_test

import (
	"context"
	"testing"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/usecases"
)

func fenceBoundary() *domain.Boundary {
	return &domain.Boundary{
		Name: "trash fence", Type: "fence", Active: true,
		Rings: []domain.Ring{{
			{Lat: 40.7834, Lng: -119.2327},
			{Lat: 40.7644, Lng: -119.2077},
			{Lat: 40.7766, Lng: -119.1762},
			{Lat: 40.8031, Lng: -119.1817},
			{Lat: 40.8074, Lng: -119.2166},
			{Lat: 40.7834, Lng: -119.2327},
		}},
	}
}

func TestProximityService_CenterCampScenario(t *testing.T) {
	// Center Camp 100m away must show up with its type and trigger
	// the matching map mode.
	query := &mockProximityQuery{
		findWithinFn: func(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
			for _, typ := range types {
				if typ == domain.LandmarkToilet {
					return nil, nil
				}
			}
			return []domain.NearbyLandmark{
				{Name: "Center Camp", Type: domain.LandmarkCenter, DistanceMeters: 100},
			}, nil
		},
	}
	svc := usecases.NewProximityService(query, &mockBoundaryRepo{}, nil, usecases.DefaultRadii())

	res, err := svc.Around(context.Background(), 40.7878, -119.2030)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Landmarks) != 1 || res.Landmarks[0].Type != domain.LandmarkCenter {
		t.Fatalf("expected Center Camp hit, got %+v", res.Landmarks)
	}
	if mode := usecases.DeriveMapMode(res.Landmarks); mode != domain.MapModeMan {
		t.Errorf("expected man mode, got %s", mode)
	}
}

func TestProximityService_PerTypeRadiusFilter(t *testing.T) {
	// An art piece at 250m falls inside the widest query radius but
	// outside the art radius; it must be filtered out.
	query := &mockProximityQuery{
		findWithinFn: func(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
			if types[0] == domain.LandmarkToilet {
				return nil, nil
			}
			return []domain.NearbyLandmark{
				{Name: "The Man", Type: domain.LandmarkCenter, DistanceMeters: 250},
				{Name: "Distant Art", Type: domain.LandmarkArt, DistanceMeters: 250},
			}, nil
		},
	}
	svc := usecases.NewProximityService(query, &mockBoundaryRepo{}, nil, usecases.DefaultRadii())

	res, err := svc.Around(context.Background(), 40.78, -119.20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Landmarks) != 1 || res.Landmarks[0].Name != "The Man" {
		t.Fatalf("art outside its type radius must be dropped, got %+v", res.Landmarks)
	}
}

func TestProximityService_Dedupe(t *testing.T) {
	query := &mockProximityQuery{
		findWithinFn: func(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
			if types[0] == domain.LandmarkToilet {
				return nil, nil
			}
			return []domain.NearbyLandmark{
				{Name: "3:00 Plaza", Type: domain.LandmarkPlaza, DistanceMeters: 50},
				{Name: "3:00 Plaza", Type: domain.LandmarkPlaza, DistanceMeters: 50},
				{Name: "3:00 Plaza", Type: domain.LandmarkService, DistanceMeters: 60},
			}, nil
		},
	}
	svc := usecases.NewProximityService(query, &mockBoundaryRepo{}, nil, usecases.DefaultRadii())

	res, err := svc.Around(context.Background(), 40.78, -119.20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same name twice with the same type collapses; a different type
	// under the same name is a distinct landmark.
	if len(res.Landmarks) != 2 {
		t.Fatalf("expected 2 after dedupe, got %d: %+v", len(res.Landmarks), res.Landmarks)
	}
}

func TestProximityService_WithinFence(t *testing.T) {
	boundaries := &mockBoundaryRepo{
		getActiveFenceFn: func(ctx context.Context) (*domain.Boundary, error) {
			return fenceBoundary(), nil
		},
	}
	svc := usecases.NewProximityService(&mockProximityQuery{}, boundaries, nil, usecases.DefaultRadii())

	if !svc.WithinFence(context.Background(), 40.7864, -119.2065) {
		t.Error("point near the Man must be inside the fence")
	}
	if svc.WithinFence(context.Background(), 40.60, -119.40) {
		t.Error("far point must be outside the fence")
	}
}

func TestProximityService_NoFenceConfigured(t *testing.T) {
	svc := usecases.NewProximityService(&mockProximityQuery{}, &mockBoundaryRepo{}, nil, usecases.DefaultRadii())

	// Containment undefined without a fence: false, never an error.
	if svc.WithinFence(context.Background(), 40.7864, -119.2065) {
		t.Error("no active fence must report false")
	}
}

func TestProximityService_CachedResult(t *testing.T) {
	cache := newMemCache()
	calls := 0
	query := &mockProximityQuery{
		findWithinFn: func(ctx context.Context, lat, lng, radius float64, types []domain.LandmarkType, limit int) ([]domain.NearbyLandmark, error) {
			calls++
			return nil, nil
		},
	}
	svc := usecases.NewProximityService(query, &mockBoundaryRepo{}, cache, usecases.DefaultRadii())

	if _, err := svc.Around(context.Background(), 40.78, -119.20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Around(context.Background(), 40.78, -119.20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 { // landmark + toilet query, once
		t.Errorf("expected one computed round (2 queries), got %d queries", calls)
	}
}
