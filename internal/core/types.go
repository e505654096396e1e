// Package core defines the fundamental types for TaskPulse.
// Every other package speaks in terms of these types.
package core

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Enumerations - the three input attributes and the predicted label
// -----------------------------------------------------------------------------

// TaskType is the kind of work a task represents
type TaskType string

const (
	TaskEmail    TaskType = "email"
	TaskCoding   TaskType = "coding"
	TaskMeeting  TaskType = "meeting"
	TaskPersonal TaskType = "personal"
	TaskResearch TaskType = "research"
	TaskReview   TaskType = "review"
)

// TaskTypes lists all task types in canonical order
var TaskTypes = []TaskType{TaskEmail, TaskCoding, TaskMeeting, TaskPersonal, TaskResearch, TaskReview}

// TimeOfDay is the slot in which a task would be worked on
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
)

// TimesOfDay lists all time slots in canonical order
var TimesOfDay = []TimeOfDay{TimeMorning, TimeAfternoon, TimeEvening}

// Urgency is the caller-declared time pressure on a task
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Urgencies lists all urgency levels in canonical order
var Urgencies = []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}

// Priority is the predicted label
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists all priority labels in canonical order
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// -----------------------------------------------------------------------------
// TASK INPUT - the triple every prediction starts from
// -----------------------------------------------------------------------------

// TaskInput is the validated triple fed to the predictors.
// All three attributes are required; an input that fails Validate
// must never reach a predictor.
type TaskInput struct {
	TaskType  TaskType  `json:"task_type" validate:"required,oneof=email coding meeting personal research review"`
	TimeOfDay TimeOfDay `json:"time_of_day" validate:"required,oneof=morning afternoon evening"`
	Urgency   Urgency   `json:"urgency" validate:"required,oneof=high medium low"`
}

var validate = validator.New()

// Validate checks that all three attributes are present and within their
// enumerations. Returns an error wrapping ErrInvalidInput on failure.
func (in TaskInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// PREDICTION - the output handed to the presentation layer
// -----------------------------------------------------------------------------

// PredictionSource identifies which path produced a prediction.
// Callers reading only priority/confidence/reasoning cannot tell the
// paths apart; the marker exists for logging and diagnostics.
type PredictionSource string

const (
	SourceRules   PredictionSource = "rules"   // rule table, first match
	SourceLearned PredictionSource = "learned" // frequency patterns over history
	SourceRemote  PredictionSource = "remote"  // prediction endpoint
)

// Prediction is the result of a single prediction request.
// Produced fresh per invocation, never mutated.
type Prediction struct {
	Priority   Priority         `json:"priority"`
	Confidence float64          `json:"confidence"` // 0.0 to 1.0
	Reasoning  string           `json:"reasoning"`
	Source     PredictionSource `json:"source,omitempty"`
}

// -----------------------------------------------------------------------------
// TASK RECORD - the unit of history
// -----------------------------------------------------------------------------

// TaskRecord is a task input together with the priority it resolved to.
// The history store persists these; the learner and the aggregator
// consume them.
type TaskRecord struct {
	ID        string    `json:"id"`
	TaskType  TaskType  `json:"task_type"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Urgency   Urgency   `json:"urgency"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskRecord builds a record for an input and its resolved priority
func NewTaskRecord(in TaskInput, priority Priority) TaskRecord {
	return TaskRecord{
		ID:        uuid.NewString(),
		TaskType:  in.TaskType,
		TimeOfDay: in.TimeOfDay,
		Urgency:   in.Urgency,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
}

// Input returns the record's attribute triple
func (r TaskRecord) Input() TaskInput {
	return TaskInput{TaskType: r.TaskType, TimeOfDay: r.TimeOfDay, Urgency: r.Urgency}
}
