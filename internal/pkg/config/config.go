package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/brcarts/playatracker/internal/core/domain"
	"github.com/brcarts/playatracker/internal/pkg/brc"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	NATS          NATSConfig          `mapstructure:"nats"`
	Valkey        ValkeyConfig        `mapstructure:"valkey"`
	HomeAssistant HomeAssistantConfig `mapstructure:"homeassistant"`
	Location      LocationConfig      `mapstructure:"location"`
	Grid          GridConfig          `mapstructure:"grid"`
	Telemetry     TelemetryConfig     `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// HomeAssistantConfig points at the device tracker entity carrying the
// car's GPS.
type HomeAssistantConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TrackerEntity  string `mapstructure:"tracker_entity"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LocationConfig tunes the resolver and its cache window.
type LocationConfig struct {
	SimulationEnabled bool `mapstructure:"simulation_enabled"`
	CacheTTLSeconds   int  `mapstructure:"cache_ttl_seconds"`
}

// GridConfig carries one year's city survey. The defaults describe a
// single plan; every deployment season overrides them.
type GridConfig struct {
	CenterLat       float64            `mapstructure:"center_lat"`
	CenterLng       float64            `mapstructure:"center_lng"`
	NoonBearing     float64            `mapstructure:"noon_bearing"`
	ArcStart        float64            `mapstructure:"arc_start"`
	ArcEnd          float64            `mapstructure:"arc_end"`
	DeepPlayaRadius float64            `mapstructure:"deep_playa_radius"`
	Streets         []GridStreetConfig `mapstructure:"streets"`
}

type GridStreetConfig struct {
	Name   string  `mapstructure:"name"`
	Radius float64 `mapstructure:"radius"`
}

// Grid materializes the configured city plan; unset street lists fall
// back to the shipped defaults.
func (g GridConfig) Grid() brc.Grid {
	grid := brc.DefaultGrid()
	grid.Center = domain.GeoPoint{Lat: g.CenterLat, Lng: g.CenterLng}
	grid.NoonBearing = g.NoonBearing
	grid.ArcStart = g.ArcStart
	grid.ArcEnd = g.ArcEnd
	grid.DeepPlayaRadius = g.DeepPlayaRadius
	if len(g.Streets) > 0 {
		grid.Breakpoints = grid.Breakpoints[:0]
		for _, s := range g.Streets {
			grid.Breakpoints = append(grid.Breakpoints, brc.Breakpoint{Name: s.Name, Radius: s.Radius})
		}
	}
	return grid
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	def := brc.DefaultGrid()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "playa")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "playatracker")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("homeassistant.base_url", "http://localhost:8123")
	v.SetDefault("homeassistant.token", "")
	v.SetDefault("homeassistant.tracker_entity", "device_tracker.art_car")
	v.SetDefault("homeassistant.timeout_seconds", 3)
	v.SetDefault("location.simulation_enabled", false)
	v.SetDefault("location.cache_ttl_seconds", 30)
	v.SetDefault("grid.center_lat", def.Center.Lat)
	v.SetDefault("grid.center_lng", def.Center.Lng)
	v.SetDefault("grid.noon_bearing", def.NoonBearing)
	v.SetDefault("grid.arc_start", def.ArcStart)
	v.SetDefault("grid.arc_end", def.ArcEnd)
	v.SetDefault("grid.deep_playa_radius", def.DeepPlayaRadius)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: PLAYATRACKER_DATABASE_HOST → database.host
	v.SetEnvPrefix("PLAYATRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.HomeAssistant.TimeoutSeconds <= 0 {
		errs = append(errs, "homeassistant.timeout_seconds must be positive")
	}
	if c.Location.CacheTTLSeconds <= 0 {
		errs = append(errs, "location.cache_ttl_seconds must be positive")
	}
	if c.Grid.ArcStart < 0 || c.Grid.ArcEnd > 12 || c.Grid.ArcStart >= c.Grid.ArcEnd {
		errs = append(errs, fmt.Sprintf("grid arc [%0.1f, %0.1f] must satisfy 0 <= start < end <= 12",
			c.Grid.ArcStart, c.Grid.ArcEnd))
	}
	if c.Grid.DeepPlayaRadius <= 0 {
		errs = append(errs, "grid.deep_playa_radius must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
