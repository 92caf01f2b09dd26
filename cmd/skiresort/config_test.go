package main

import (
	"log/slog"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 95 || cfg.Length != 50 {
		t.Errorf("expected 95x50, got %dx%d", cfg.Width, cfg.Length)
	}
	if cfg.Gen.PeakHeight != 10 || cfg.Gen.PeakWidth != 30 || cfg.Gen.SlopeHeight != 40 {
		t.Errorf("unexpected generation defaults %+v", cfg.Gen)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(env(map[string]string{
		"SKI_WIDTH":        "5",
		"SKI_LENGTH":       "7",
		"SKI_SEED":         "-9",
		"SKI_PEAK_HEIGHT":  "0",
		"SKI_SLOPE_HEIGHT": "12.5",
		"SKI_FRAME_MS":     "33",
		"SKI_DB_PATH":      "off",
		"SKI_CATALOG":      "catalog.json",
		"SKI_LOG_LEVEL":    "debug",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 5 || cfg.Length != 7 || cfg.Gen.Seed != -9 {
		t.Errorf("unexpected dimensions or seed: %+v", cfg)
	}
	if cfg.Gen.PeakHeight != 0 || cfg.Gen.SlopeHeight != 12.5 {
		t.Errorf("unexpected generation overrides %+v", cfg.Gen)
	}
	if cfg.FrameInterval != 33*time.Millisecond || cfg.DBPath != "off" || cfg.CatalogPath != "catalog.json" {
		t.Errorf("unexpected process overrides %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	for _, vars := range []map[string]string{
		{"SKI_WIDTH": "wide"},
		{"SKI_LENGTH": "-1"},
		{"SKI_PEAK_WIDTH": "x"},
		{"SKI_SEED": "1.5"},
		{"SKI_FRAME_MS": "0"},
		{"SKI_LOG_LEVEL": "loud"},
	} {
		if _, err := loadConfig(env(vars)); err == nil {
			t.Errorf("%v: expected error", vars)
		}
	}
}
