package config

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`

	VenueID  string `envconfig:"VENUE_ID" default:"venue_sample"`
	VenueDir string `envconfig:"VENUE_DIR"`

	Engine Engine
}

// Engine holds the interaction knobs of the seat map. The zone bounds are an
// open index interval over the dataset's seat order.
type Engine struct {
	ZoneLo    int    `envconfig:"ZONE_LO" default:"500"`
	ZoneHi    int    `envconfig:"ZONE_HI" default:"850"`
	FrameLoop string `envconfig:"FRAME_LOOP" default:"demand"`

	MarkerRadius   float64 `envconfig:"MARKER_RADIUS" default:"7"`
	InactiveColor  string  `envconfig:"COLOR_INACTIVE" default:"#e2e2e2"`
	ZoneColor      string  `envconfig:"COLOR_ZONE" default:"#ffa500"`
	HighlightColor string  `envconfig:"COLOR_HIGHLIGHT" default:"#ff0000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
