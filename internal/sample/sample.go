// Package sample generates deterministic synthetic task history.
// The daemon seeds an empty database with it, and POST /api/reset
// replaces the history with a fresh batch.
package sample

import (
	"math/rand"
	"time"

	"github.com/taskpulse/taskpulse/internal/core"
	"github.com/taskpulse/taskpulse/internal/engine"
)

// DefaultSeed makes generated history reproducible across runs
const DefaultSeed = 42

// DefaultSize is the number of records seeded on reset or first boot
const DefaultSize = 100

// noiseRate is the share of records whose priority is replaced with a
// uniformly random label, so the learner never sees a perfectly clean
// signal.
const noiseRate = 0.15

// Attribute weights. Mornings and afternoons dominate, most tasks are
// of medium urgency, and email is the most common task type.
var (
	taskTypeWeights = []int{25, 20, 15, 15, 15, 10} // email, coding, meeting, personal, research, review
	timeWeights     = []int{40, 40, 20}             // morning, afternoon, evening
	urgencyWeights  = []int{20, 50, 30}             // high, medium, low
)

// Generator produces weighted synthetic task records
type Generator struct {
	rng       *rand.Rand
	predictor *engine.Predictor
	now       time.Time
}

// NewGenerator creates a generator for the given seed
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		predictor: engine.NewPredictor(),
		now:       time.Now().UTC(),
	}
}

// Generate returns n records. Each record's base priority comes from
// the rule table; a noiseRate share gets a random priority instead.
// Timestamps are spread backwards over the last 30 days.
func (g *Generator) Generate(n int) []core.TaskRecord {
	records := make([]core.TaskRecord, 0, n)

	for i := 0; i < n; i++ {
		in := core.TaskInput{
			TaskType:  core.TaskTypes[g.weightedIndex(taskTypeWeights)],
			TimeOfDay: core.TimesOfDay[g.weightedIndex(timeWeights)],
			Urgency:   core.Urgencies[g.weightedIndex(urgencyWeights)],
		}

		priority := g.predictor.Predict(in).Priority
		if g.rng.Float64() < noiseRate {
			priority = core.Priorities[g.rng.Intn(len(core.Priorities))]
		}

		rec := core.NewTaskRecord(in, priority)
		rec.CreatedAt = g.now.AddDate(0, 0, -(1 + g.rng.Intn(30)))
		records = append(records, rec)
	}

	return records
}

// weightedIndex picks an index with probability proportional to its
// weight
func (g *Generator) weightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}

	roll := g.rng.Intn(total)
	for i, w := range weights {
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}
