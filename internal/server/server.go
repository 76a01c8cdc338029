// Package server exposes BOREAL over HTTP: submit an optimization run
// against a benchmark problem, fetch earlier results, health and metrics.
package server

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/copyleftdev/BOREAL/internal/bridge"
	"github.com/copyleftdev/BOREAL/internal/config"
	"github.com/copyleftdev/BOREAL/internal/logging"
	"github.com/copyleftdev/BOREAL/internal/metrics"
	"github.com/copyleftdev/BOREAL/internal/problem"
	"github.com/copyleftdev/BOREAL/internal/solver/native"
)

// RunRequest describes one optimization run over a named benchmark problem.
type RunRequest struct {
	Problem        string `json:"problem"`
	Dimension      int    `json:"dimension,omitempty"`
	PopulationSize int    `json:"population_size"`
	Seed           int64  `json:"seed"`
	Verbosity      uint   `json:"verbosity,omitempty"`
}

// RunResult is the stored outcome of a completed run.
type RunResult struct {
	ID           string           `json:"id"`
	Problem      string           `json:"problem"`
	SolverStatus string           `json:"solver_status"`
	BestX        []float64        `json:"best_x"`
	BestF        []float64        `json:"best_f"`
	Log          []bridge.LogLine `json:"log,omitempty"`
	Duration     string           `json:"duration"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Server runs optimizations synchronously over the native capability and
// keeps finished results in memory.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	reg     *prometheus.Registry

	mu   sync.RWMutex
	runs map[string]*RunResult
}

// New creates a server with its own prometheus registry.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(reg),
		reg:     reg,
		runs:    make(map[string]*RunResult),
	}
}

// Router builds the chi router with logging and recovery middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(s.logger))
	r.Use(logging.Recoverer(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/optimize", s.handleOptimize)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PopulationSize <= 0 {
		req.PopulationSize = 20
	}

	prob, err := problem.ByName(req.Problem, req.Dimension)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rng := rand.New(rand.NewSource(req.Seed))
	pop, err := problem.NewPopulation(prob, req.PopulationSize, rng)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opt := bridge.New(
		bridge.WithCapability(native.Factory(nil)),
		bridge.WithLogger(s.logger),
		bridge.WithMetrics(s.metrics),
		bridge.WithSeed(req.Seed),
	)
	if err := opt.SetVerbosity(req.Verbosity); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	pop, err = opt.Evolve(pop)
	if err != nil {
		var bErr *bridge.Error
		status := http.StatusInternalServerError
		if errors.As(err, &bErr) && bErr.Kind == bridge.KindPrecondition {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}

	best := pop.Get(pop.BestIndex())
	result := &RunResult{
		ID:           uuid.NewString(),
		Problem:      prob.Name(),
		SolverStatus: opt.LastStatus().String(),
		BestX:        best.X,
		BestF:        best.F,
		Log:          opt.Log(),
		Duration:     time.Since(start).String(),
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.runs[result.ID] = result
	s.mu.Unlock()

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	result, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
