// Package engine implements the local priority inference engine:
// an ordered rule table, a first-match-wins interpreter, and the
// reasoning generator.
package engine

import (
	"github.com/taskpulse/taskpulse/internal/core"
)

// Condition is a predicate over a task input. Each attribute lists the
// values it accepts; an empty list is a wildcard. A condition matches
// when every non-empty list contains the input's value.
type Condition struct {
	TaskTypes  []core.TaskType
	TimesOfDay []core.TimeOfDay
	Urgencies  []core.Urgency
}

// Matches reports whether the condition accepts the input
func (c Condition) Matches(in core.TaskInput) bool {
	if len(c.TaskTypes) > 0 && !containsTaskType(c.TaskTypes, in.TaskType) {
		return false
	}
	if len(c.TimesOfDay) > 0 && !containsTimeOfDay(c.TimesOfDay, in.TimeOfDay) {
		return false
	}
	if len(c.Urgencies) > 0 && !containsUrgency(c.Urgencies, in.Urgency) {
		return false
	}
	return true
}

// Rule pairs a condition with its outcome. Rules live in an ordered
// table; the first satisfied condition determines the outcome.
type Rule struct {
	Name       string
	Condition  Condition
	Priority   core.Priority
	Confidence float64
}

// DefaultRules returns the canonical rule table. Order is semantically
// significant: more specific rules precede more general ones, and the
// trailing catch-all guarantees every input matches something. An
// evening task with high urgency is LOW 0.70, not HIGH 0.80, because
// the evening rule comes first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "urgent_morning",
			Condition:  Condition{Urgencies: []core.Urgency{core.UrgencyHigh}, TimesOfDay: []core.TimeOfDay{core.TimeMorning}},
			Priority:   core.PriorityHigh,
			Confidence: 0.90,
		},
		{
			Name:       "email_afternoon",
			Condition:  Condition{TaskTypes: []core.TaskType{core.TaskEmail}, TimesOfDay: []core.TimeOfDay{core.TimeAfternoon}},
			Priority:   core.PriorityMedium,
			Confidence: 0.80,
		},
		{
			Name:       "creative_morning",
			Condition:  Condition{TaskTypes: []core.TaskType{core.TaskCoding, core.TaskResearch}, TimesOfDay: []core.TimeOfDay{core.TimeMorning}},
			Priority:   core.PriorityHigh,
			Confidence: 0.85,
		},
		{
			Name:       "meeting_afternoon",
			Condition:  Condition{TaskTypes: []core.TaskType{core.TaskMeeting}, TimesOfDay: []core.TimeOfDay{core.TimeAfternoon}},
			Priority:   core.PriorityMedium,
			Confidence: 0.75,
		},
		{
			Name:       "evening_winddown",
			Condition:  Condition{TimesOfDay: []core.TimeOfDay{core.TimeEvening}},
			Priority:   core.PriorityLow,
			Confidence: 0.70,
		},
		{
			Name:       "high_urgency",
			Condition:  Condition{Urgencies: []core.Urgency{core.UrgencyHigh}},
			Priority:   core.PriorityHigh,
			Confidence: 0.80,
		},
		{
			Name:       "medium_urgency",
			Condition:  Condition{Urgencies: []core.Urgency{core.UrgencyMedium}},
			Priority:   core.PriorityMedium,
			Confidence: 0.70,
		},
		{
			Name:       "default",
			Condition:  Condition{}, // matches everything
			Priority:   core.PriorityLow,
			Confidence: 0.60,
		},
	}
}

// Evaluate scans the table in order and returns the first rule whose
// condition matches. ok is false only when no rule matches, which
// cannot happen for a table ending in a catch-all.
func Evaluate(rules []Rule, in core.TaskInput) (Rule, bool) {
	for _, r := range rules {
		if r.Condition.Matches(in) {
			return r, true
		}
	}
	return Rule{}, false
}

func containsTaskType(set []core.TaskType, v core.TaskType) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsTimeOfDay(set []core.TimeOfDay, v core.TimeOfDay) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsUrgency(set []core.Urgency, v core.Urgency) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
