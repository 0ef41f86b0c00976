package http

import (
	"github.com/nats-io/nats.go"
	"github.com/brcarts/playatracker/internal/adapters/postgres"
	"github.com/brcarts/playatracker/internal/adapters/valkey"
	"github.com/brcarts/playatracker/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Location  *usecases.LocationService
	Proximity *usecases.ProximityService
	Landmarks *usecases.LandmarkService
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
