package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a MatrixInspector as a read-only JSON API.
type Server struct {
	Inspector ports.MatrixInspector
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the logger used for request errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler serves h on /metrics instead of the default Prometheus registry.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// Environment is one entry of GET /environments.
type Environment struct {
	Name string `json:"name"`
	domain.Selector
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler. Nothing it serves executes commands.
func NewHandler(inspector ports.MatrixInspector, opts ...Option) http.Handler {
	s := &Server{
		Inspector: inspector,
		logger:    slog.Default(),
		metrics:   promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.Health)
	r.Get("/environments", s.ListEnvironments)
	r.Get("/groups", s.ListGroups)
	r.Get("/plan/{selector}", s.GetPlan)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEnvironments handles GET /environments.
func (s *Server) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs, err := s.Inspector.Environments()
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]Environment, len(envs))
	for i, sel := range envs {
		out[i] = Environment{Name: sel.String(), Selector: sel}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// ListGroups handles GET /groups.
func (s *Server) ListGroups(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Inspector.Groups())
}

// GetPlan handles GET /plan/{selector}. Repeated "posargs" query values
// replace the {posargs} placeholder.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.Inspector.Plan(chi.URLParam(r, "selector"), r.URL.Query()["posargs"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	store := s.Inspector.Runs()
	if store == nil {
		s.writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	store := s.Inspector.Runs()
	if store == nil {
		s.writeError(w, domain.ErrRunNotFound)
		return
	}
	rec, err := store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSelector):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownGroup),
		errors.Is(err, domain.ErrUnknownAxisValue),
		errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrEmptyGroup),
		errors.Is(err, domain.ErrCompositeCycle),
		errors.Is(err, domain.ErrDuplicateMember):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
