package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/engine"
)

var testInput = core.TaskInput{
	TaskType:  core.TaskCoding,
	TimeOfDay: core.TimeMorning,
	Urgency:   core.UrgencyHigh,
}

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, Timeout: 500 * time.Millisecond})
}

// assertLocalFallback checks that the prediction is byte-for-byte the
// local predictor's output for the same input.
func assertLocalFallback(t *testing.T, got core.Prediction, in core.TaskInput) {
	t.Helper()
	want := engine.NewPredictor().Predict(in)
	if got != want {
		t.Errorf("fallback output differs from local predictor:\n got %+v\nwant %+v", got, want)
	}
}

// --- Predict Tests ---

func TestClient_Predict_RemoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/predict" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.TaskType != testInput.TaskType {
			t.Errorf("task_type: got %s, want %s", req.TaskType, testInput.TaskType)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"prediction": map[string]interface{}{
				"priority":   "MEDIUM",
				"confidence": 0.66,
				"reasoning":  "remote says so",
			},
		})
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)

	if pred.Priority != core.PriorityMedium {
		t.Errorf("priority: got %s, want MEDIUM", pred.Priority)
	}
	if pred.Confidence != 0.66 {
		t.Errorf("confidence: got %f, want 0.66", pred.Confidence)
	}
	if pred.Reasoning != "remote says so" {
		t.Errorf("reasoning: got %q", pred.Reasoning)
	}
	if pred.Source != core.SourceRemote {
		t.Errorf("source: got %s, want remote", pred.Source)
	}
}

func TestClient_Predict_RemoteOmitsReasoning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"prediction": map[string]interface{}{
				"priority":   "HIGH",
				"confidence": 0.9,
			},
		})
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)

	if pred.Reasoning != engine.Explain(testInput) {
		t.Errorf("expected locally generated reasoning, got %q", pred.Reasoning)
	}
}

func TestClient_Predict_FallbackOnServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "model offline",
		})
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnMissingPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnUnknownPriority(t *testing.T) {
	for _, bad := range []string{"BANANA", "high", "URGENT"} {
		t.Run(bad, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": true,
					"prediction": map[string]interface{}{
						"priority":   bad,
						"confidence": 0.5,
					},
				})
			}))
			defer srv.Close()

			pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
			assertLocalFallback(t, pred, testInput)
		})
	}
}

func TestClient_Predict_FallbackOnConfidenceOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"prediction": map[string]interface{}{
				"priority":   "HIGH",
				"confidence": 1.5,
			},
		})
	}))
	defer srv.Close()

	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	assertLocalFallback(t, pred, testInput)
}

func TestClient_Predict_FallbackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	start := time.Now()
	pred := newTestClient(srv.URL).Predict(context.Background(), testInput)
	elapsed := time.Since(start)

	assertLocalFallback(t, pred, testInput)
	if elapsed > 1500*time.Millisecond {
		t.Errorf("timeout not bounded: took %s", elapsed)
	}
}

func TestClient_Predict_FallbackEquivalenceAcrossInputs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for _, tt := range core.TaskTypes {
		for _, tod := range core.TimesOfDay {
			for _, u := range core.Urgencies {
				in := core.TaskInput{TaskType: tt, TimeOfDay: tod, Urgency: u}
				assertLocalFallback(t, c.Predict(context.Background(), in), in)
			}
		}
	}
}

// --- Analytics Tests ---

func TestClient_Analytics_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"analytics": map[string]interface{}{
				"total_tasks":            3,
				"priority_distribution":  map[string]int{"HIGH": 2, "LOW": 1},
				"time_distribution":      map[string]int{"morning": 3},
				"task_type_distribution": map[string]int{"coding": 3},
				"urgency_distribution":   map[string]int{"high": 3},
			},
		})
	}))
	defer srv.Close()

	s := newTestClient(srv.URL).Analytics(context.Background())

	if s.TotalTasks != 3 {
		t.Errorf("total: got %d, want 3", s.TotalTasks)
	}
	if s.PriorityDistribution[core.PriorityHigh] != 2 {
		t.Errorf("unexpected priority distribution: %v", s.PriorityDistribution)
	}
}

func TestClient_Analytics_FailureYieldsEmptySummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := newTestClient(srv.URL).Analytics(context.Background())

	if s.TotalTasks != 0 {
		t.Errorf("expected empty summary, got %d tasks", s.TotalTasks)
	}
	if s.PriorityDistribution == nil || len(s.PriorityDistribution) != 0 {
		t.Errorf("expected empty non-nil priority map, got %v", s.PriorityDistribution)
	}
	if s.TimeDistribution == nil || s.TaskTypeDistribution == nil || s.UrgencyDistribution == nil {
		t.Error("expected non-nil maps in empty summary")
	}
}

// --- Health / Reset Tests ---

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"timestamp":   time.Now().UTC(),
			"total_tasks": 42,
		})
	}))
	defer srv.Close()

	status, err := newTestClient(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status.Status != "healthy" || status.TotalTasks != 42 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestClient_Reset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":     true,
			"message":     "Data reset successfully",
			"total_tasks": 100,
		})
	}))
	defer srv.Close()

	total, err := newTestClient(srv.URL).Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if total != 100 {
		t.Errorf("total: got %d, want 100", total)
	}
}

func TestClient_Tasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit: got %q, want 10", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"tasks": []map[string]interface{}{
				{"id": "t1", "task_type": "email", "time_of_day": "morning", "urgency": "high", "priority": "HIGH"},
			},
		})
	}))
	defer srv.Close()

	tasks, err := newTestClient(srv.URL).Tasks(context.Background(), 10)
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].TaskType != core.TaskEmail {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}
