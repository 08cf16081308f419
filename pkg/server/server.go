// Package server exposes the allocator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/allocator"
	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/core/services"
	"github.com/jakechorley/working-groups/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// Deps holds the collaborators the handlers need
type Deps struct {
	Sheet     services.GroupSheet
	History   services.HistoryWriter // nil when no store is configured
	Collector metrics.Collector
	// Gatherer backs /metrics. The endpoint is not mounted when nil
	Gatherer prometheus.Gatherer
	Config   *config.Config
	Logger   *zap.Logger
}

type server struct {
	deps Deps
}

// GroupsResponse is the body of a successful /api/groups call
type GroupsResponse struct {
	RunID            string                           `json:"runId"`
	Seed             string                           `json:"seed"`
	Saved            bool                             `json:"saved"`
	WorkingGroups    []*model.WorkingGroup            `json:"workingGroups"`
	Unplaced         []allocator.UnplacedMember       `json:"unplaced"`
	DuplicateNames   []string                         `json:"duplicateNames"`
	ValidationErrors []allocator.GroupValidationError `json:"validationErrors"`
	Members          []model.Member                   `json:"members"`
}

// NewRouter creates the HTTP router
func NewRouter(deps Deps) *chi.Mux {
	if deps.Collector == nil {
		deps.Collector = metrics.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	srv := &server{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/", srv.handleRoot)
	r.Get("/api/health", srv.handleHealth)
	r.Get("/api/groups", srv.handleGroups)
	r.Get("/api/grupper", srv.handleGroups)
	r.Get("/api/members", srv.handleMembers)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Run serves the router on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.deps.Logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Working groups allocator. GET /api/groups to allocate.",
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleGroups(w http.ResponseWriter, r *http.Request) {
	save := true
	if raw := r.URL.Query().Get("save"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid save parameter %q", raw))
			return
		}
		save = parsed
	}

	result, err := services.AllocateGroups(
		r.Context(),
		s.deps.Sheet,
		s.deps.History,
		s.deps.Collector,
		s.deps.Config,
		s.deps.Logger,
		services.AllocateGroupsOptions{
			Seed:   r.URL.Query().Get("seed"),
			DryRun: !save,
		},
	)
	if err != nil {
		s.deps.Logger.Error("Allocation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := result.Outcome
	writeJSON(w, http.StatusOK, GroupsResponse{
		RunID:            result.RunID,
		Seed:             result.Seed,
		Saved:            result.Saved,
		WorkingGroups:    outcome.Groups,
		Unplaced:         nonNil(outcome.Unplaced),
		DuplicateNames:   nonNil(outcome.DuplicateNames),
		ValidationErrors: nonNil(outcome.ValidationErrors),
		Members:          result.Members,
	})
}

func (s *server) handleMembers(w http.ResponseWriter, _ *http.Request) {
	result, err := services.ListMembers(s.deps.Sheet, s.deps.Collector, s.deps.Config, s.deps.Logger)
	if err != nil {
		s.deps.Logger.Error("Listing members failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string][]model.Member{
		"members":  nonNil(result.Eligible),
		"excluded": nonNil(result.Excluded),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// nonNil keeps empty lists as [] rather than null in responses
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
