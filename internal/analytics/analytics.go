// Package analytics aggregates task history into distribution
// summaries for display. It is a pure tally: no filtering, smoothing,
// or weighting.
package analytics

import (
	"github.com/taskpulse/taskpulse/internal/core"
)

// Summary holds frequency distributions over the recorded history.
// Values never observed are absent from their mapping, not present
// with a zero count. An empty history yields empty (non-nil) maps.
type Summary struct {
	TotalTasks           int                       `json:"total_tasks"`
	PriorityDistribution map[core.Priority]int     `json:"priority_distribution"`
	TimeDistribution     map[core.TimeOfDay]int    `json:"time_distribution"`
	TaskTypeDistribution map[core.TaskType]int     `json:"task_type_distribution"`
	UrgencyDistribution  map[core.Urgency]int      `json:"urgency_distribution"`
}

// Empty returns a summary with zero tasks and empty mappings
func Empty() Summary {
	return Summary{
		PriorityDistribution: make(map[core.Priority]int),
		TimeDistribution:     make(map[core.TimeOfDay]int),
		TaskTypeDistribution: make(map[core.TaskType]int),
		UrgencyDistribution:  make(map[core.Urgency]int),
	}
}

// Aggregate tallies the history into per-dimension distributions.
// The counts in each mapping sum to len(history).
func Aggregate(history []core.TaskRecord) Summary {
	s := Empty()
	s.TotalTasks = len(history)

	for _, rec := range history {
		s.PriorityDistribution[rec.Priority]++
		s.TimeDistribution[rec.TimeOfDay]++
		s.TaskTypeDistribution[rec.TaskType]++
		s.UrgencyDistribution[rec.Urgency]++
	}

	return s
}
