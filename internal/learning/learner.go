// Package learning implements frequency-based pattern learning over
// task history. The model is a pure tally: for each exact attribute
// triple it counts which priorities past tasks resolved to, and
// predicts by majority vote.
package learning

import (
	"fmt"
	"sync"

	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/engine"
)

// Pattern is a snapshot of the learned counts for one attribute triple
type Pattern struct {
	TaskType    core.TaskType         `json:"task_type"`
	TimeOfDay   core.TimeOfDay        `json:"time_of_day"`
	Urgency     core.Urgency          `json:"urgency"`
	Counts      map[core.Priority]int `json:"counts"`
	SampleCount int                   `json:"sample_count"`
}

// Learner accumulates priority counts per attribute triple.
// Safe for concurrent use; the API serves requests in parallel.
type Learner struct {
	mu     sync.RWMutex
	counts map[string]map[core.Priority]int
	total  int
}

// NewLearner creates an empty learner
func NewLearner() *Learner {
	return &Learner{
		counts: make(map[string]map[core.Priority]int),
	}
}

func patternKey(in core.TaskInput) string {
	return fmt.Sprintf("%s_%s_%s", in.TaskType, in.TimeOfDay, in.Urgency)
}

// Observe records one resolved task
func (l *Learner) Observe(rec core.TaskRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observeLocked(rec)
}

func (l *Learner) observeLocked(rec core.TaskRecord) {
	key := patternKey(rec.Input())
	if l.counts[key] == nil {
		l.counts[key] = make(map[core.Priority]int)
	}
	l.counts[key][rec.Priority]++
	l.total++
}

// Rebuild replaces the learned counts with a fresh tally over records.
// Because the model is pure counting, incremental Observe calls and a
// full Rebuild over the same history produce identical state.
func (l *Learner) Rebuild(records []core.TaskRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts = make(map[string]map[core.Priority]int)
	l.total = 0
	for _, rec := range records {
		l.observeLocked(rec)
	}
}

// Predict returns the majority priority for the input's triple with
// confidence = share of the winning label. ok is false when the triple
// has never been observed; the caller then uses the rule engine.
// Ties break in canonical priority order (HIGH, MEDIUM, LOW) so the
// result is deterministic.
func (l *Learner) Predict(in core.TaskInput) (core.Prediction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts, ok := l.counts[patternKey(in)]
	if !ok {
		return core.Prediction{}, false
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return core.Prediction{}, false
	}

	var best core.Priority
	bestCount := -1
	for _, p := range core.Priorities {
		if c := counts[p]; c > bestCount {
			best = p
			bestCount = c
		}
	}

	return core.Prediction{
		Priority:   best,
		Confidence: float64(bestCount) / float64(total),
		Reasoning:  engine.Explain(in),
		Source:     core.SourceLearned,
	}, true
}

// Patterns returns a snapshot of all learned triples
func (l *Learner) Patterns() []Pattern {
	l.mu.RLock()
	defer l.mu.RUnlock()

	patterns := make([]Pattern, 0, len(l.counts))
	for _, tt := range core.TaskTypes {
		for _, tod := range core.TimesOfDay {
			for _, u := range core.Urgencies {
				key := patternKey(core.TaskInput{TaskType: tt, TimeOfDay: tod, Urgency: u})
				counts, ok := l.counts[key]
				if !ok {
					continue
				}

				snapshot := make(map[core.Priority]int, len(counts))
				sample := 0
				for p, c := range counts {
					snapshot[p] = c
					sample += c
				}

				patterns = append(patterns, Pattern{
					TaskType:    tt,
					TimeOfDay:   tod,
					Urgency:     u,
					Counts:      snapshot,
					SampleCount: sample,
				})
			}
		}
	}
	return patterns
}

// Size returns the number of observations the learner has seen
func (l *Learner) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}
