package engine

import (
	"strings"

	"github.com/taskpulse/taskpulse/internal/core"
)

// Reason fragments. These deliberately do not trace the matched rule:
// the explanation is an additive description of the input, checked in
// a fixed order, decoupled from the priority decision.
const (
	reasonHighUrgency   = "High urgency task"
	reasonMorning       = "Morning time slot (typically high productivity)"
	reasonCreative      = "Creative/technical task"
	reasonCommunication = "Communication task"

	// ReasonFallback is returned when no fragment applies
	ReasonFallback = "Based on learned patterns"
)

const reasonSeparator = " + "

// Explain derives a human-readable justification for an input triple.
// It never fails; when no fragment applies it returns ReasonFallback.
func Explain(in core.TaskInput) string {
	var reasons []string

	if in.Urgency == core.UrgencyHigh {
		reasons = append(reasons, reasonHighUrgency)
	}
	if in.TimeOfDay == core.TimeMorning {
		reasons = append(reasons, reasonMorning)
	}
	if in.TaskType == core.TaskCoding || in.TaskType == core.TaskResearch {
		reasons = append(reasons, reasonCreative)
	}
	if in.TaskType == core.TaskEmail {
		reasons = append(reasons, reasonCommunication)
	}

	if len(reasons) == 0 {
		return ReasonFallback
	}

	return strings.Join(reasons, reasonSeparator)
}
