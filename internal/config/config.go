package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:""`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	// Preview streaming
	PreviewFPS int `envconfig:"PREVIEW_FPS" default:"30"`

	// Thumbnail batch rendering; 0 means one worker per CPU.
	RenderWorkers int `envconfig:"RENDER_WORKERS" default:"0"`

	// Canvas the validator measures media offsets against.
	ReferenceCanvasWidth  float64 `envconfig:"REFERENCE_CANVAS_WIDTH" default:"390"`
	ReferenceCanvasHeight float64 `envconfig:"REFERENCE_CANVAS_HEIGHT" default:"844"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.PreviewFPS <= 0 || cfg.PreviewFPS > 120 {
		return nil, fmt.Errorf("PREVIEW_FPS must be in 1..120, got %d", cfg.PreviewFPS)
	}
	if cfg.ReferenceCanvasWidth <= 0 || cfg.ReferenceCanvasHeight <= 0 {
		return nil, fmt.Errorf("reference canvas must be positive, got %vx%v", cfg.ReferenceCanvasWidth, cfg.ReferenceCanvasHeight)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level returns the configured slog level, falling back to info.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return lvl, nil
}
