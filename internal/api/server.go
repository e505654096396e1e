// Package api provides the HTTP API server for TaskPulse.
package api

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
	"github.com/go-chi/cors"

	"github.com/taskpulse/taskpulse/internal/analytics"
	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/learning"
	"github.com/taskpulse/taskpulse/internal/logging"
	"github.com/taskpulse/taskpulse/internal/sample"
	"github.com/taskpulse/taskpulse/internal/storage"
)

const defaultTaskLimit = 50

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	store     *storage.TaskStore
	learner   *learning.Learner
	predictor *engine.Predictor
	wsHub     *WebSocketHub

	sampleSeed int64
	sampleSize int
}

// Config for the server
type Config struct {
	Port      int
	Store     *storage.TaskStore
	Learner   *learning.Learner
	Predictor *engine.Predictor

	// Reset/seed behavior
	SampleSeed int64
	SampleSize int
}

// New creates a new API server
func New(cfg Config) *Server {
	if cfg.Predictor == nil {
		cfg.Predictor = engine.NewPredictor()
	}
	if cfg.Learner == nil {
		cfg.Learner = learning.NewLearner()
	}
	if cfg.SampleSeed == 0 {
		cfg.SampleSeed = sample.DefaultSeed
	}
	if cfg.SampleSize == 0 {
		cfg.SampleSize = sample.DefaultSize
	}

	s := &Server{
		store:      cfg.Store,
		learner:    cfg.Learner,
		predictor:  cfg.Predictor,
		wsHub:      NewWebSocketHub(),
		sampleSeed: cfg.SampleSeed,
		sampleSize: cfg.SampleSize,
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/patterns", s.handlePatterns)
		r.Get("/tasks", s.handleGetTasks)
		r.Post("/tasks", s.handleAddTask)
		r.Get("/health", s.handleHealth)
		r.Post("/reset", s.handleReset)

		// WebSocket event stream
		r.Get("/ws", s.wsHub.ServeWS)
	})

	s.router = r
}

// Router returns the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go s.wsHub.Run()

	logging.Info("API server starting on http://localhost%s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Broadcast sends a message to all WebSocket clients
func (s *Server) Broadcast(msgType string, data interface{}) {
	s.wsHub.Broadcast(WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// --- Handlers ---

// handlePredict validates the input, consults the learner first and
// the rule table for unseen triples, appends the outcome to history,
// and feeds it back to the learner.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var input core.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred, ok := s.learner.Predict(input)
	if !ok {
		pred = s.predictor.Predict(input)
	}

	rec := core.NewTaskRecord(input, pred.Priority)
	if err := s.store.Append(r.Context(), rec); err != nil {
		logging.Error("append task: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to record task")
		return
	}
	s.learner.Observe(rec)

	s.Broadcast("prediction", map[string]interface{}{
		"task":       rec,
		"prediction": pred,
	})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"prediction": map[string]interface{}{
			"priority":   pred.Priority,
			"confidence": pred.Confidence,
			"reasoning":  pred.Reasoning,
		},
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.All(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"analytics": analytics.Aggregate(history),
	})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"patterns":        s.learner.Patterns(),
		"task_types":      core.TaskTypes,
		"time_periods":    core.TimesOfDay,
		"urgency_levels":  core.Urgencies,
		"priority_levels": core.Priorities,
	})
}

func (s *Server) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	limit := defaultTaskLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	tasks, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []core.TaskRecord{}
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tasks":   tasks,
	})
}

// handleAddTask records an already-resolved task outcome directly,
// feeding the learner without running a prediction.
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var input struct {
		core.TaskInput
		Priority core.Priority `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := input.TaskInput.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if input.Priority != core.PriorityHigh && input.Priority != core.PriorityMedium && input.Priority != core.PriorityLow {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%v: priority", core.ErrInvalidInput))
		return
	}

	rec := core.NewTaskRecord(input.TaskInput, input.Priority)
	if err := s.store.Append(r.Context(), rec); err != nil {
		logging.Error("append task: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to record task")
		return
	}
	s.learner.Observe(rec)

	s.Broadcast("task", rec)

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"task":    rec,
	})
}

// handleHealth reports degraded when the store cannot be read, so the
// probe does not mask a broken database behind a zero count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Warn("health count failed: %v", err)
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "degraded",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"total_tasks": count,
	})
}

// handleReset wipes the history, reseeds it with weighted samples,
// and rebuilds the learner.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	records := sample.NewGenerator(s.sampleSeed).Generate(s.sampleSize)

	if err := s.store.Reset(r.Context(), records); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.learner.Rebuild(records)

	s.Broadcast("reset", map[string]interface{}{"total_tasks": len(records)})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Data reset successfully",
		"total_tasks": len(records),
	})
}
