// Package statusserver implements pace's read-only HTTP surface (`pace
// serve`): GET /status and GET /reflect over the façade, grounded on the
// teacher's embedded mux-routed server in cmd/claude-monitor/server.go
// and internal/infrastructure/http/handlers.go, trimmed to the
// read-only reporting slice this spec calls for (no activity-ingest or
// session-management endpoints — those belong to the CLI, not this
// ambient surface).
package statusserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pace-org/pace-go/internal/facade"
	"github.com/pace-org/pace-go/internal/pacelog"
	"github.com/pace-org/pace-go/internal/pacetime"
)

// Server is the embedded read-only status server.
type Server struct {
	facade *facade.Facade
	clock  pacetime.Clock
	log    *pacelog.Logger

	router *mux.Router
	http   *http.Server
}

// Config configures a new Server.
type Config struct {
	Facade *facade.Facade
	Clock  pacetime.Clock
	Logger *pacelog.Logger
	Addr   string
}

// New constructs a Server wired to facade, routed the way the teacher
// wires its EmbeddedServer (mux.NewRouter + HandleFunc per path).
func New(cfg Config) *Server {
	clock := cfg.Clock
	if clock == nil {
		clock = pacetime.DefaultClock
	}
	logger := cfg.Logger
	if logger == nil {
		logger = pacelog.Default("statusserver", pacelog.LevelInfo)
	}

	s := &Server{facade: cfg.Facade, clock: clock, log: logger}
	s.router = mux.NewRouter()
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/reflect", s.handleReflect).Methods("GET")

	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:9217"
	}
	s.http = &http.Server{Addr: addr, Handler: s.router}
	return s
}

// Router exposes the underlying mux.Router for tests and for embedding
// in a larger handler tree.
func (s *Server) Router() *mux.Router { return s.router }

// ListenAndServe starts the HTTP server; blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("status server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusResponse is the body of GET /status: the active and held
// activity, if any, plus the most recent few records.
type statusResponse struct {
	Active *activityView   `json:"active,omitempty"`
	Held   *activityView   `json:"held,omitempty"`
	Recent []*activityView `json:"recent"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := statusResponse{}

	if active, ok, err := s.facade.MostRecentActiveActivity(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	} else if ok {
		resp.Active = viewOf(active)
	}

	if held, ok, err := s.facade.MostRecentHeldActivity(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	} else if ok {
		resp.Held = viewOf(held)
	}

	recent, err := s.facade.ListMostRecent(ctx, 0, 9)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, a := range recent {
		resp.Recent = append(resp.Recent, viewOf(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleReflect resolves a symbolic `frame` query parameter (today,
// yesterday, current_week, last_week, current_month, last_month,
// current_year, last_year) or an explicit `from`/`to` RFC 3339 pair,
// then returns the reflection summary for that range (spec §4.7).
func (s *Server) handleReflect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rng, err := s.resolveRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, ok, err := s.facade.Reflect(ctx, rng)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"empty": true})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) resolveRange(r *http.Request) (pacetime.TimeRange, error) {
	q := r.URL.Query()

	if from, to := q.Get("from"), q.Get("to"); from != "" && to != "" {
		fromDT, err := pacetime.ParseRFC3339(from)
		if err != nil {
			return pacetime.TimeRange{}, fmt.Errorf("statusserver: invalid from: %w", err)
		}
		toDT, err := pacetime.ParseRFC3339(to)
		if err != nil {
			return pacetime.TimeRange{}, fmt.Errorf("statusserver: invalid to: %w", err)
		}
		return pacetime.NewTimeRange(fromDT, toDT)
	}

	kind, err := parseFrameKind(q.Get("frame"))
	if err != nil {
		return pacetime.TimeRange{}, err
	}
	frame := pacetime.TimeFrame{Kind: kind}
	return frame.Resolve(s.clock, time.UTC)
}

func parseFrameKind(frame string) (pacetime.TimeFrameKind, error) {
	switch frame {
	case "", "today":
		return pacetime.FrameToday, nil
	case "yesterday":
		return pacetime.FrameYesterday, nil
	case "current_week":
		return pacetime.FrameCurrentWeek, nil
	case "last_week":
		return pacetime.FrameLastWeek, nil
	case "current_month":
		return pacetime.FrameCurrentMonth, nil
	case "last_month":
		return pacetime.FrameLastMonth, nil
	case "current_year":
		return pacetime.FrameCurrentYear, nil
	case "last_year":
		return pacetime.FrameLastYear, nil
	default:
		return 0, fmt.Errorf("statusserver: unknown frame %q", frame)
	}
}
