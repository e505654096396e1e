package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskpulse/taskpulse/internal/logging"
	"github.com/taskpulse/taskpulse/internal/storage"
)

// Service keeps the in-memory learner reconciled with the task store.
// Requests update the learner incrementally; the background loop
// periodically rebuilds it from scratch so external writes to the
// database do not drift out of the model.
type Service struct {
	store   *storage.TaskStore
	learner *Learner

	running bool
	stopCh  chan struct{}
	mu      sync.Mutex

	config ServiceConfig
}

// ServiceConfig configures the learning service
type ServiceConfig struct {
	RebuildInterval time.Duration
}

// DefaultServiceConfig returns sensible defaults
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		RebuildInterval: 5 * time.Minute,
	}
}

// NewService creates a new learning service
func NewService(store *storage.TaskStore, learner *Learner, config ServiceConfig) *Service {
	if config.RebuildInterval == 0 {
		config.RebuildInterval = DefaultServiceConfig().RebuildInterval
	}
	return &Service{
		store:   store,
		learner: learner,
		config:  config,
		stopCh:  make(chan struct{}),
	}
}

// Learner returns the managed learner
func (s *Service) Learner() *Learner {
	return s.learner
}

// Start runs an initial reconcile and launches the rebuild loop
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("learning service already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.Reconcile(ctx); err != nil {
		logging.Warn("initial learner reconcile failed: %v", err)
	}

	go s.runRebuildLoop(ctx)

	logging.Info("Learning service started (rebuild every %s)", s.config.RebuildInterval)
	return nil
}

// Stop stops the rebuild loop
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}

// Reconcile rebuilds the learner from the full task history
func (s *Service) Reconcile(ctx context.Context) error {
	records, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	s.learner.Rebuild(records)
	logging.Debug("learner rebuilt from %d records", len(records))
	return nil
}

func (s *Service) runRebuildLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Reconcile(ctx); err != nil {
				logging.Warn("learner reconcile failed: %v", err)
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
