// Package inference implements the remote prediction client with
// transparent local fallback. Any failure on the wire - dial error,
// timeout, non-2xx status, malformed body, or an unsuccessful
// envelope - is swallowed here: the caller always gets a usable
// prediction, and only the Source marker and a WARN log record which
// path produced it.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/taskpulse/taskpulse/internal/analytics"
	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/logging"
)

// Client talks to a TaskPulse prediction server
type Client struct {
	baseURL    string
	httpClient *http.Client
	local      *engine.Predictor
}

// Config for the client
type Config struct {
	BaseURL string        // Prediction server URL (default: http://localhost:8080)
	Timeout time.Duration // Request timeout; remote calls are always bounded
}

// DefaultConfig returns sensible defaults, honoring TASKPULSE_SERVER
func DefaultConfig() Config {
	baseURL := os.Getenv("TASKPULSE_SERVER")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

// NewClient creates a new client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		local: engine.NewPredictor(),
	}
}

type predictRequest struct {
	TaskType  core.TaskType  `json:"task_type"`
	TimeOfDay core.TimeOfDay `json:"time_of_day"`
	Urgency   core.Urgency   `json:"urgency"`
}

type predictResponse struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error"`
	Prediction *core.Prediction `json:"prediction"`
}

// Predict attempts a remote prediction and falls back to the local
// rule engine on any failure. Callers reading only priority,
// confidence, and reasoning cannot tell the two paths apart.
func (c *Client) Predict(ctx context.Context, in core.TaskInput) core.Prediction {
	pred, err := c.predictRemote(ctx, in)
	if err != nil {
		logging.Warn("remote prediction failed, using local rules: %v", err)
		return c.local.Predict(in)
	}
	return pred
}

func (c *Client) predictRemote(ctx context.Context, in core.TaskInput) (core.Prediction, error) {
	body, err := json.Marshal(predictRequest{
		TaskType:  in.TaskType,
		TimeOfDay: in.TimeOfDay,
		Urgency:   in.Urgency,
	})
	if err != nil {
		return core.Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.post(ctx, "/api/predict", body)
	if err != nil {
		return core.Prediction{}, err
	}

	var parsed predictResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return core.Prediction{}, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	if !parsed.Success {
		return core.Prediction{}, fmt.Errorf("%w: %s", core.ErrRemoteUnavailable, parsed.Error)
	}
	if parsed.Prediction == nil || parsed.Prediction.Priority == "" {
		return core.Prediction{}, fmt.Errorf("%w: missing prediction", core.ErrMalformedResponse)
	}
	if !validPriority(parsed.Prediction.Priority) {
		return core.Prediction{}, fmt.Errorf("%w: unknown priority %q", core.ErrMalformedResponse, parsed.Prediction.Priority)
	}
	if parsed.Prediction.Confidence < 0.0 || parsed.Prediction.Confidence > 1.0 {
		return core.Prediction{}, fmt.Errorf("%w: confidence %f out of range", core.ErrMalformedResponse, parsed.Prediction.Confidence)
	}

	pred := *parsed.Prediction
	pred.Source = core.SourceRemote
	if pred.Reasoning == "" {
		// Reasoning is derivable locally; the remote only owns the
		// priority/confidence pair.
		pred.Reasoning = engine.Explain(in)
	}

	return pred, nil
}

func validPriority(p core.Priority) bool {
	for _, known := range core.Priorities {
		if p == known {
			return true
		}
	}
	return false
}

type analyticsResponse struct {
	Success   bool               `json:"success"`
	Error     string             `json:"error"`
	Analytics *analytics.Summary `json:"analytics"`
}

// Analytics fetches the distribution summary. Any failure yields the
// empty summary, never an error-shaped placeholder.
func (c *Client) Analytics(ctx context.Context) analytics.Summary {
	resp, err := c.get(ctx, "/api/analytics")
	if err != nil {
		logging.Warn("analytics fetch failed: %v", err)
		return analytics.Empty()
	}

	var parsed analyticsResponse
	if err := json.Unmarshal(resp, &parsed); err != nil || !parsed.Success || parsed.Analytics == nil {
		logging.Warn("analytics response malformed")
		return analytics.Empty()
	}

	s := *parsed.Analytics
	if s.PriorityDistribution == nil {
		s.PriorityDistribution = make(map[core.Priority]int)
	}
	if s.TimeDistribution == nil {
		s.TimeDistribution = make(map[core.TimeOfDay]int)
	}
	if s.TaskTypeDistribution == nil {
		s.TaskTypeDistribution = make(map[core.TaskType]int)
	}
	if s.UrgencyDistribution == nil {
		s.UrgencyDistribution = make(map[core.Urgency]int)
	}
	return s
}

// HealthStatus is the server's health report
type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	TotalTasks int       `json:"total_tasks"`
}

// Health checks the server's health endpoint
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	resp, err := c.get(ctx, "/api/health")
	if err != nil {
		return HealthStatus{}, err
	}

	var status HealthStatus
	if err := json.Unmarshal(resp, &status); err != nil {
		return HealthStatus{}, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	return status, nil
}

type tasksResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Tasks   []core.TaskRecord `json:"tasks"`
}

// Tasks fetches the most recent history entries
func (c *Client) Tasks(ctx context.Context, limit int) ([]core.TaskRecord, error) {
	path := "/api/tasks"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var parsed tasksResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("%w: %s", core.ErrRemoteUnavailable, parsed.Error)
	}
	return parsed.Tasks, nil
}

// PatternSnapshot mirrors the server's pattern listing
type PatternSnapshot struct {
	TaskType    core.TaskType         `json:"task_type"`
	TimeOfDay   core.TimeOfDay        `json:"time_of_day"`
	Urgency     core.Urgency          `json:"urgency"`
	Counts      map[core.Priority]int `json:"counts"`
	SampleCount int                   `json:"sample_count"`
}

type patternsResponse struct {
	Success  bool              `json:"success"`
	Error    string            `json:"error"`
	Patterns []PatternSnapshot `json:"patterns"`
}

// Patterns fetches the learner's pattern snapshot
func (c *Client) Patterns(ctx context.Context) ([]PatternSnapshot, error) {
	resp, err := c.get(ctx, "/api/patterns")
	if err != nil {
		return nil, err
	}

	var parsed patternsResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("%w: %s", core.ErrRemoteUnavailable, parsed.Error)
	}
	return parsed.Patterns, nil
}

type resetResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	TotalTasks int    `json:"total_tasks"`
}

// Reset asks the server to wipe and reseed its history
func (c *Client) Reset(ctx context.Context) (int, error) {
	resp, err := c.post(ctx, "/api/reset", nil)
	if err != nil {
		return 0, err
	}

	var parsed resetResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)
	}
	if !parsed.Success {
		return 0, fmt.Errorf("%w: %s", core.ErrRemoteUnavailable, parsed.Error)
	}
	return parsed.TotalTasks, nil
}

// --- HTTP plumbing ---

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
