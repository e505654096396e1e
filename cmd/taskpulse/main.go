// TaskPulse Daemon - serves priority predictions and analytics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/api"
	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/learning"
	"github.com/taskpulse/taskpulse/internal/logging"
	"github.com/taskpulse/taskpulse/internal/sample"
	"github.com/taskpulse/taskpulse/internal/storage"
)

var (
	dataDir    string
	port       int
	configPath string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskpulse",
		Short: "TaskPulse Daemon - task priority prediction service",
		RunE:  runDaemon,
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".taskpulse")

	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Data directory")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	// .env is optional; the environment wins either way
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if debug || cfg.Features.DebugMode {
		logging.SetLevel(logging.DEBUG)
	}

	logging.Info("Starting TaskPulse daemon...")

	// Open database
	dbPath := filepath.Join(cfg.DataDir, "taskpulse.db")
	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewTaskStore(db)

	// Seed an empty database so the learner and analytics have
	// something to work with on first boot
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect history: %w", err)
	}
	if count == 0 {
		records := sample.NewGenerator(cfg.Sample.Seed).Generate(cfg.Sample.Size)
		if err := store.Reset(ctx, records); err != nil {
			return fmt.Errorf("failed to seed history: %w", err)
		}
		logging.Info("Seeded %d sample tasks", len(records))
	} else {
		logging.Info("Loaded %d historical tasks", count)
	}

	// Build the learner and keep it reconciled with the store
	learner := learning.NewLearner()
	learningSvc := learning.NewService(store, learner, learning.ServiceConfig{
		RebuildInterval: cfg.Learning.RebuildInterval(),
	})
	if err := learningSvc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start learning service: %w", err)
	}
	defer learningSvc.Stop()

	// HTTP API
	server := api.New(api.Config{
		Port:       cfg.Server.Port,
		Store:      store,
		Learner:    learner,
		Predictor:  engine.NewPredictor(),
		SampleSeed: cfg.Sample.Seed,
		SampleSize: cfg.Sample.Size,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("Received %s, shutting down...", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logging.Warn("graceful shutdown failed: %v", err)
	}

	logging.Info("TaskPulse daemon stopped")
	return nil
}
