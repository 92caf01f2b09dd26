package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/ski-resort/internal/world"
)

// config is the process configuration, read from SKI_* environment variables.
type config struct {
	Width         int
	Length        int
	Gen           world.GenConfig
	DBPath        string // "off" disables the journal
	APIPort       int
	CatalogPath   string // Empty uses the built-in catalog
	FrameInterval time.Duration
	IntentLimit   int // Intents per client per second; 0 disables limiting
	LogLevel      slog.Level
}

func defaultConfig() config {
	return config{
		Width:         95,
		Length:        50,
		Gen:           world.DefaultGenConfig(),
		DBPath:        "data/skiresort.db",
		APIPort:       8080,
		FrameInterval: 16 * time.Millisecond,
		IntentLimit:   240,
		LogLevel:      slog.LevelInfo,
	}
}

// loadConfig overlays defaults with whatever getenv returns.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := defaultConfig()

	ints := []struct {
		key string
		dst *int
	}{
		{"SKI_WIDTH", &cfg.Width},
		{"SKI_LENGTH", &cfg.Length},
		{"SKI_API_PORT", &cfg.APIPort},
		{"SKI_INTENT_LIMIT", &cfg.IntentLimit},
	}
	for _, e := range ints {
		if v := getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return cfg, fmt.Errorf("%s: invalid value %q", e.key, v)
			}
			*e.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"SKI_PEAK_HEIGHT", &cfg.Gen.PeakHeight},
		{"SKI_PEAK_WIDTH", &cfg.Gen.PeakWidth},
		{"SKI_SLOPE_HEIGHT", &cfg.Gen.SlopeHeight},
		{"SKI_TREE_DENSITY", &cfg.Gen.TreeDensity},
	}
	for _, e := range floats {
		if v := getenv(e.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("%s: invalid value %q", e.key, v)
			}
			*e.dst = f
		}
	}

	if v := getenv("SKI_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SKI_SEED: invalid value %q", v)
		}
		cfg.Gen.Seed = seed
	}
	if v := getenv("SKI_FRAME_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return cfg, fmt.Errorf("SKI_FRAME_MS: invalid value %q", v)
		}
		cfg.FrameInterval = time.Duration(ms) * time.Millisecond
	}
	if v := getenv("SKI_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.CatalogPath = getenv("SKI_CATALOG")

	if v := getenv("SKI_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return cfg, fmt.Errorf("SKI_LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}
