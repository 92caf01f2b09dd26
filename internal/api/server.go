// Package api serves the resort to the UI over HTTP. GET endpoints read a
// consistent snapshot through the frame loop; POST /intent queues input for
// the next frame.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talgya/ski-resort/internal/catalog"
	"github.com/talgya/ski-resort/internal/engine"
	"github.com/talgya/ski-resort/internal/persistence"
	"github.com/talgya/ski-resort/internal/scene"
	"github.com/talgya/ski-resort/internal/world"
)

const (
	maxIntentBytes     = 4 << 10
	defaultChangeLimit = 50
	maxChangeLimit     = 500
)

// Server serves the session over HTTP.
type Server struct {
	Loop    *engine.Loop
	Scene   *scene.Scene
	Journal *persistence.DB // Nil disables /changes
	Port    int
	Started time.Time

	// IntentLimit caps intents per client per second. Zero disables limiting.
	IntentLimit int

	srv *http.Server
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/map", s.handleMap)
		r.Get("/cell/{q}/{r}", s.handleCell)
		r.Get("/selection", s.handleSelection)
		r.Get("/changes", s.handleChanges)

		if s.IntentLimit > 0 {
			r.With(NewRateLimiter(s.IntentLimit, time.Second).Middleware).Post("/intent", s.handleIntent)
		} else {
			r.Post("/intent", s.handleIntent)
		}
	})
	return r
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "intent_limit", s.IntentLimit)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var cells, objects int
	var cfg world.GenConfig
	var width, length int
	s.Loop.View(func(sess *engine.Session) {
		cells = sess.Grid.CellCount()
		objects = sess.Grid.Objects().Len()
		cfg = sess.Grid.Config
		width, length = sess.Grid.Width, sess.Grid.Length
	})

	status := map[string]any{
		"frame":          s.Loop.Frame(),
		"pending":        s.Loop.Pending(),
		"width":          width,
		"length":         length,
		"seed":           cfg.Seed,
		"cells":          cells,
		"objects":        objects,
		"cells_display":  humanize.Comma(int64(cells)),
		"started":        humanize.Time(s.Started),
		"journal_active": s.Journal != nil,
	}
	if s.Journal != nil {
		status["session"] = s.Journal.SessionID()
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var types []catalog.StructureType
	s.Loop.View(func(sess *engine.Session) {
		types = sess.Catalog.Types()
	})
	respondJSON(w, http.StatusOK, types)
}

type cellEntry struct {
	Q        int                `json:"q"`
	R        int                `json:"r"`
	Height   int                `json:"height"`
	Surface  string             `json:"surface"`
	Material string             `json:"material,omitempty"` // Empty when hidden
	Slope    float64            `json:"slope"`
	Corners  *[6]float64        `json:"corners,omitempty"`
	Objects  []world.InstanceID `json:"objects,omitempty"`
}

// cell describes pos. Callers hold the loop view.
func (s *Server) cell(sess *engine.Session, pos world.HexCoord, detail bool) (cellEntry, error) {
	h, ok := sess.Grid.Height(pos)
	if !ok {
		return cellEntry{}, fmt.Errorf("cell %v: %w", pos, world.ErrUnknownCell)
	}
	surf, err := sess.Grid.Surface(pos)
	if err != nil {
		return cellEntry{}, err
	}
	e := cellEntry{
		Q:       pos.Q,
		R:       pos.R,
		Height:  h,
		Surface: surf.String(),
		Slope:   sess.Grid.Slope(pos),
		Objects: sess.Grid.ObjectsAt(pos),
	}
	if m, ok := s.Scene.Material(pos); ok {
		e.Material = m.String()
	}
	if detail {
		corners := sess.Grid.CornerHeights(pos)
		e.Corners = &corners
	}
	return e, nil
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		Width      int                  `json:"width"`
		Length     int                  `json:"length"`
		Seed       int64                `json:"seed"`
		Cells      []cellEntry          `json:"cells"`
		Placements []scene.Placement    `json:"placements"`
		Hover      scene.HoverIndicator `json:"hover"`
	}

	s.Loop.View(func(sess *engine.Session) {
		resp.Width, resp.Length, resp.Seed = sess.Grid.Width, sess.Grid.Length, sess.Grid.Config.Seed
		resp.Cells = make([]cellEntry, 0, sess.Grid.CellCount())
		for _, pos := range sess.Grid.Cells() {
			e, err := s.cell(sess, pos, false)
			if err != nil {
				// Integrity problem: skip the cell rather than fail the whole map.
				slog.Error("map cell skipped", "cell", pos, "error", err)
				continue
			}
			resp.Cells = append(resp.Cells, e)
		}
		resp.Placements = s.Scene.Placements()
		resp.Hover = s.Scene.Hover()
	})
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	q, err := strconv.Atoi(chi.URLParam(r, "q"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid q coordinate")
		return
	}
	rr, err := strconv.Atoi(chi.URLParam(r, "r"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid r coordinate")
		return
	}

	var e cellEntry
	s.Loop.View(func(sess *engine.Session) {
		e, err = s.cell(sess, world.HexCoord{Q: q, R: rr}, true)
	})
	switch {
	case errors.Is(err, world.ErrUnknownCell):
		respondError(w, http.StatusNotFound, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
	default:
		respondJSON(w, http.StatusOK, e)
	}
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		Cursor    engine.Cursor      `json:"cursor"`
		Inspected *engine.Inspection `json:"inspected"`
	}
	s.Loop.View(func(sess *engine.Session) {
		if info, ok := sess.Inspect(); ok {
			resp.Inspected = &info
		}
		resp.Cursor = sess.Cursor
		// Detach slices from session state before the view ends.
		resp.Cursor.Hover.IDs = append([]world.InstanceID(nil), sess.Cursor.Hover.IDs...)
		resp.Cursor.PendingLift = append([]world.LiftNode(nil), sess.Cursor.PendingLift...)
	})
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		respondError(w, http.StatusServiceUnavailable, "journal disabled")
		return
	}
	limit := defaultChangeLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxChangeLimit)
	}
	changes, err := s.Journal.RecentChanges(limit)
	if err != nil {
		slog.Error("read journal", "error", err)
		respondError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	if changes == nil {
		changes = []persistence.ChangeRecord{}
	}
	respondJSON(w, http.StatusOK, changes)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIntentBytes)
	var in engine.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid intent: "+err.Error())
		return
	}
	s.Loop.Submit(in)
	respondJSON(w, http.StatusAccepted, map[string]any{
		"queued":  in.Kind.String(),
		"pending": s.Loop.Pending(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
