package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShelterSource returns the shelters from the most recent pipeline run.
type ShelterSource interface {
	Latest() []domain.Shelter
}

// Server exposes health, readiness, metrics, and the latest shelter list.
type Server struct {
	httpServer *http.Server
	source     ShelterSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// /shelters routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, source ShelterSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /shelters", s.handleShelters)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type sheltersResponse struct {
	Count    int              `json:"count"`
	Shelters []domain.Shelter `json:"shelters"`
}

// handleShelters serves the latest run's shelters, optionally filtered by
// ?region= (exact match on the classified region).
func (s *Server) handleShelters(w http.ResponseWriter, r *http.Request) {
	shelters := s.source.Latest()
	if shelters == nil {
		sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no completed pipeline run"})
		return
	}

	if region := r.URL.Query().Get("region"); region != "" {
		filtered := make([]domain.Shelter, 0, len(shelters))
		for _, sh := range shelters {
			if sh.Source.Region == region {
				filtered = append(filtered, sh)
			}
		}
		shelters = filtered
	}

	sharedobs.WriteJSON(w, http.StatusOK, sheltersResponse{Count: len(shelters), Shelters: shelters})
}
