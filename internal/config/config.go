// Package config handles TaskPulse configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`

	// Server
	Server ServerConfig `json:"server"`

	// Remote prediction endpoint (used by the CLI client)
	Remote RemoteConfig `json:"remote"`

	// Learning
	Learning LearningConfig `json:"learning"`

	// Sample data seeding
	Sample SampleConfig `json:"sample"`

	// Features
	Features FeatureConfig `json:"features"`
}

// ServerConfig for the HTTP server
type ServerConfig struct {
	Port int    `json:"port"`
	Host string `json:"host"`
}

// RemoteConfig for the prediction client
type RemoteConfig struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Timeout returns the remote timeout as a duration
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// LearningConfig for the pattern learner
type LearningConfig struct {
	RebuildIntervalMinutes int `json:"rebuild_interval_minutes"`
}

// RebuildInterval returns the rebuild interval as a duration
func (l LearningConfig) RebuildInterval() time.Duration {
	return time.Duration(l.RebuildIntervalMinutes) * time.Minute
}

// SampleConfig for synthetic history seeding
type SampleConfig struct {
	Seed int64 `json:"seed"`
	Size int   `json:"size"`
}

// FeatureConfig for feature flags
type FeatureConfig struct {
	DebugMode bool `json:"debug_mode"`
}

// Default returns default configuration
func Default() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		DataDir: filepath.Join(home, ".taskpulse"),
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Remote: RemoteConfig{
			URL:            "http://localhost:8080",
			TimeoutSeconds: 5,
		},
		Learning: LearningConfig{
			RebuildIntervalMinutes: 5,
		},
		Sample: SampleConfig{
			Seed: 42,
			Size: 100,
		},
		Features: FeatureConfig{
			DebugMode: false,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil // Use defaults
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides config values from the environment
func (c *Config) applyEnv() {
	if dir := os.Getenv("TASKPULSE_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if raw := os.Getenv("TASKPULSE_PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			c.Server.Port = port
		}
	}
	if url := os.Getenv("TASKPULSE_SERVER"); url != "" {
		c.Remote.URL = url
	}
	if os.Getenv("TASKPULSE_DEBUG") == "1" {
		c.Features.DebugMode = true
	}
}

// Save saves config to file
func (c *Config) Save(path string) error {
	if path == "" {
		path = filepath.Join(c.DataDir, "config.json")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
