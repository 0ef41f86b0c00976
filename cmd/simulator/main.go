package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/brcarts/playatracker/internal/adapters/nats"
	"github.com/brcarts/playatracker/internal/adapters/valkey"
	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/core/usecases"
	"github.com/brcarts/playatracker/internal/pkg/config"
	"github.com/brcarts/playatracker/internal/pkg/logging"
)

// route is the default simulated drive: a loop past the big landmarks.
// Each tick moves one interpolation step toward the next waypoint, so
// the car appears to cruise rather than teleport.
var route = []domain.GeoPoint{
	{Lat: 40.786400, Lng: -119.203500}, // the Man
	{Lat: 40.786958, Lng: -119.202994}, // Center Camp
	{Lat: 40.780800, Lng: -119.217500}, // 3:00 side
	{Lat: 40.791100, Lng: -119.196600}, // Temple
	{Lat: 40.793500, Lng: -119.210000}, // 9:00 side
}

const stepsPerLeg = 12

func main() {
	cfg, err := config.Load("playatracker-simulator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("simulator", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, simulating without broadcast", "error", err)
	} else {
		defer publisher.Close()
	}

	interval := 5 * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Keep the coordinate alive a few ticks past a crash, then let the
	// resolver fall through to the next source.
	ttl := int(3 * interval / time.Second)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("simulator starting", "waypoints", len(route), "interval", interval.String())

	leg, step := 0, 0
	writePosition(ctx, cache, publisher, position(leg, step), ttl)

	for {
		select {
		case <-ticker.C:
			step++
			if step >= stepsPerLeg {
				step = 0
				leg = (leg + 1) % len(route)
			}
			writePosition(ctx, cache, publisher, position(leg, step), ttl)

		case sig := <-quit:
			slog.Info("simulator stopping", "signal", sig.String())
			cancel()
			return
		}
	}
}

// position interpolates linearly along the current leg. Legs are short
// enough that straight-line interpolation in degrees is fine.
func position(leg, step int) domain.GeoPoint {
	from := route[leg]
	to := route[(leg+1)%len(route)]
	f := float64(step) / float64(stepsPerLeg)
	return domain.GeoPoint{
		Lat: from.Lat + (to.Lat-from.Lat)*f,
		Lng: from.Lng + (to.Lng-from.Lng)*f,
	}
}

func writePosition(ctx context.Context, cache *valkey.Cache, publisher *natsadapter.Publisher, pt domain.GeoPoint, ttl int) {
	sc := usecases.SimCoords{Lat: pt.Lat, Lng: pt.Lng, Timestamp: time.Now()}
	data, err := json.Marshal(sc)
	if err != nil {
		slog.Error("marshal simulated coordinate", "error", err)
		return
	}

	if err := cache.Set(ctx, usecases.SimCoordsKey, data, ttl); err != nil {
		slog.Error("write simulated coordinate", "error", err)
		return
	}

	if publisher != nil {
		if err := publisher.PublishSimulated(ctx, pt); err != nil {
			slog.Debug("simulated publish failed", "error", err)
		}
	}

	slog.Debug("simulated position", "lat", pt.Lat, "lng", pt.Lng)
}
