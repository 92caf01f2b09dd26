// Command skiresort generates a ski hill and serves it for editing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/ski-resort/internal/api"
	"github.com/talgya/ski-resort/internal/catalog"
	"github.com/talgya/ski-resort/internal/engine"
	"github.com/talgya/ski-resort/internal/persistence"
	"github.com/talgya/ski-resort/internal/scene"
	"github.com/talgya/ski-resort/internal/world"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// ── Catalog ───────────────────────────────────────────────────────
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("catalog loaded", "types", cat.Len(), "path", cfg.CatalogPath)

	// ── Terrain (always regenerated; the journal is not a save file) ──
	start := time.Now()
	cfg.Gen.TreeType = catalog.TypeTree
	cfg.Gen.Footprints = cat
	grid := world.Generate(cfg.Width, cfg.Length, cfg.Gen)
	sess := engine.NewSession(grid, cat)
	if err := grid.CheckIntegrity(); err != nil {
		slog.Error("generated grid is inconsistent", "error", err)
		os.Exit(1)
	}
	slog.Info("terrain generated",
		"width", grid.Width,
		"length", grid.Length,
		"seed", grid.Config.Seed,
		"cells", humanize.Comma(int64(grid.CellCount())),
		"trees", humanize.Comma(int64(grid.Objects().Len())),
		"took", time.Since(start),
	)
	for s, n := range world.SurfaceCounts(grid) {
		slog.Info("surface", "type", s, "count", humanize.Comma(int64(n)))
	}
	for m, n := range world.MaterialCounts(grid) {
		slog.Debug("material", "type", m, "count", humanize.Comma(int64(n)))
	}

	sc := scene.New(cat)
	sc.Build(sess)

	loop := engine.NewLoop(sess)
	loop.Interval = cfg.FrameInterval
	loop.AddRefresher(sc)

	// ── Journal ───────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.DBPath != "off" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			slog.Error("failed to create data directory", "error", err)
			os.Exit(1)
		}
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.BeginSession(grid); err != nil {
			slog.Error("failed to start journal session", "error", err)
			os.Exit(1)
		}
		loop.OnFrame = func(frame uint64, changes []world.Change) {
			if err := db.RecordChanges(frame, changes); err != nil {
				slog.Error("journal write failed", "frame", frame, "error", err)
			}
		}
		slog.Info("database opened", "path", cfg.DBPath)
	} else {
		slog.Warn("journal disabled")
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Loop:        loop,
		Scene:       sc,
		Journal:     db,
		Port:        cfg.APIPort,
		Started:     time.Now(),
		IntentLimit: cfg.IntentLimit,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nResort ready: %s cells, %s trees.\n",
		humanize.Comma(int64(grid.CellCount())), humanize.Comma(int64(grid.Objects().Len())))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	loop.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if db != nil {
		if err := db.SaveMeta("last_frame", strconv.FormatUint(loop.Frame(), 10)); err != nil {
			slog.Error("failed to record last frame", "error", err)
		}
	}

	fmt.Printf("Stopped after %s frames.\n", humanize.Comma(int64(loop.Frame())))
}
