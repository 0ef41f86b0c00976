package usecases

import (
	"github.com/brcarts/playatracker/internal/core/domain"
)

// mapModes keys the display mode off a landmark type. Only the
// nearest landmark decides the mode.
var mapModes = map[domain.LandmarkType]domain.MapMode{
	domain.LandmarkCenter:  domain.MapModeMan,
	domain.LandmarkSacred:  domain.MapModeTemple,
	domain.LandmarkPlaza:   domain.MapModePlaza,
	domain.LandmarkArt:     domain.MapModeArt,
	domain.LandmarkService: domain.MapModeServices,
}

// effects maps each landmark type to its single effect descriptor.
var effects = map[domain.LandmarkType]domain.VisualEffect{
	domain.LandmarkCenter: {
		Type: "pulse", Color: "#FFD700", Intensity: 0.9,
		Description: "golden pulse around the Man",
	},
	domain.LandmarkSacred: {
		Type: "glow", Color: "#FFFFFF", Intensity: 0.8,
		Description: "soft white temple glow",
	},
	domain.LandmarkPlaza: {
		Type: "ripple", Color: "#00CED1", Intensity: 0.6,
		Description: "plaza ripple",
	},
	domain.LandmarkArt: {
		Type: "sparkle", Color: "#FF69B4", Intensity: 0.7,
		Description: "art piece sparkle",
	},
	domain.LandmarkService: {
		Type: "beacon", Color: "#1E90FF", Intensity: 0.5,
		Description: "service area beacon",
	},
	domain.LandmarkToilet: {
		Type: "marker", Color: "#4169E1", Intensity: 0.3,
		Description: "toilet marker",
	},
}

// DeriveMapMode picks the display mode from the nearest landmark's
// type. An empty list means nothing notable around: normal mode.
func DeriveMapMode(nearby []domain.NearbyLandmark) domain.MapMode {
	if len(nearby) == 0 {
		return domain.MapModeNormal
	}
	if mode, ok := mapModes[nearby[0].Type]; ok {
		return mode
	}
	return domain.MapModeNormal
}

// DeriveEffects collects the effect descriptor of every nearby
// landmark, in distance order. Each type maps to at most one
// descriptor but the list itself is not deduplicated: two nearby art
// pieces contribute two sparkles.
func DeriveEffects(nearby []domain.NearbyLandmark) []domain.VisualEffect {
	var out []domain.VisualEffect
	for _, h := range nearby {
		if fx, ok := effects[h.Type]; ok {
			out = append(out, fx)
		}
	}
	return out
}
