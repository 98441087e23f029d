// Package chi maps the search orchestrator onto a thin HTTP surface.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodfind/internal/domain"
	domsearch "github.com/kailas-cloud/prodfind/internal/domain/search"
	"github.com/kailas-cloud/prodfind/internal/logger"
	"github.com/kailas-cloud/prodfind/internal/usecase/health"
)

// Orchestrator is the core search contract the transport exposes.
type Orchestrator interface {
	Search(ctx context.Context, query string, maxResults int) (domsearch.Result, error)
}

// HealthChecker reports aggregated component readiness.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Server holds the handlers for the search API.
type Server struct {
	search     Orchestrator
	health     HealthChecker
	maxResults int
	logger     *zap.Logger
}

// NewServer creates the HTTP server layer.
func NewServer(search Orchestrator, healthSvc HealthChecker, maxResults int, log *zap.Logger) *Server {
	return &Server{search: search, health: healthSvc, maxResults: maxResults, logger: log}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
}

// searchRequest is the POST /v1/search body.
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxResults == 0 {
		req.MaxResults = s.maxResults
	}

	ctx := logger.ContextWithLogger(r.Context(), s.logger)

	result, err := s.search.Search(ctx, req.Query, req.MaxResults)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}

	if result.Products == nil {
		result.Products = []domsearch.Candidate{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != health.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		s.logger.Error("search dependency unavailable", zap.Error(err), zap.String("path", r.URL.Path))
		writeError(w, http.StatusServiceUnavailable, "search backend unavailable")
	default:
		s.logger.Error("search failed", zap.Error(err), zap.String("path", r.URL.Path))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
