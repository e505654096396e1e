package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// capture redirects the default logger into a buffer for one test,
// restoring the previous level and output afterwards.
func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()

	origLevel := defaultLogger.level
	origOutput := defaultLogger.output
	t.Cleanup(func() {
		defaultLogger.level = origLevel
		defaultLogger.output = origOutput
	})

	var buf bytes.Buffer
	SetLevel(level)
	SetOutput(&buf)
	return &buf
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestLog_LevelFiltering(t *testing.T) {
	buf := capture(t, WARN)

	Debug("pattern table rebuilt")
	Info("prediction served")
	Warn("remote prediction failed, using local rules")
	Error("append task failed")

	out := buf.String()
	if strings.Contains(out, "prediction served") {
		t.Error("INFO should be filtered at WARN level")
	}
	if strings.Contains(out, "pattern table rebuilt") {
		t.Error("DEBUG should be filtered at WARN level")
	}
	if !strings.Contains(out, "remote prediction failed") {
		t.Error("WARN should pass at WARN level")
	}
	if !strings.Contains(out, "append task failed") {
		t.Error("ERROR should pass at WARN level")
	}
}

func TestLog_FormatArgs(t *testing.T) {
	buf := capture(t, INFO)

	Info("seeded %d sample tasks with seed %d", 100, 42)

	if !strings.Contains(buf.String(), "seeded 100 sample tasks with seed 42") {
		t.Errorf("format args not applied: %q", buf.String())
	}
}

func TestLog_LevelTag(t *testing.T) {
	buf := capture(t, DEBUG)

	Warn("websocket broadcast buffer full")

	if !strings.Contains(buf.String(), "[WARN]") {
		t.Errorf("expected [WARN] tag in output: %q", buf.String())
	}
}

func TestWithField(t *testing.T) {
	buf := capture(t, INFO)

	WithField("source", "rules").Info("prediction served")

	out := buf.String()
	if !strings.Contains(out, "source=rules") {
		t.Errorf("field not rendered: %q", out)
	}
	if !strings.Contains(out, "prediction served") {
		t.Errorf("message missing: %q", out)
	}
}

func TestWithFields(t *testing.T) {
	buf := capture(t, INFO)

	WithFields(map[string]interface{}{
		"task_type": "email",
		"priority":  "HIGH",
	}).Info("task recorded")

	out := buf.String()
	if !strings.Contains(out, "task_type=email") || !strings.Contains(out, "priority=HIGH") {
		t.Errorf("fields not rendered: %q", out)
	}
}

func TestWithField_DoesNotMutateParent(t *testing.T) {
	buf := capture(t, INFO)

	child := WithField("source", "learned")
	child.WithField("confidence", 0.75)

	Info("plain message")
	if strings.Contains(buf.String(), "source=") {
		t.Errorf("default logger picked up the child's field: %q", buf.String())
	}

	buf.Reset()
	child.Info("learned path")
	if strings.Contains(buf.String(), "confidence=") {
		t.Errorf("grandchild field leaked into child: %q", buf.String())
	}
}

func TestLog_ConcurrentWrites(t *testing.T) {
	buf := capture(t, INFO)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Info("prediction %d served", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Count(buf.String(), "\n")
	if lines != 20 {
		t.Errorf("expected 20 log lines, got %d", lines)
	}
}
