package model

import (
	"time"
)

// Level is the low/medium/high scale used for priority and energy.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Weight maps a level onto 1..3. Unknown or empty levels weigh 1.
func (l Level) Weight() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	default:
		return 1
	}
}

// Valid reports whether l is empty or one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case "", LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Importance bounds for Task.Importance.
const (
	MinImportance = 1
	MaxImportance = 5
)

// Task is a unit of work submitted for scheduling.
//
// Two input shapes are accepted: the importance/duration/deadline shape and the
// priority/time_estimate/energy_level shape. Both map onto this one struct; the
// accessor methods resolve whichever fields are present.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Importance is 1-5. Zero means "not given"; Priority is used instead.
	Importance  int   `json:"importance,omitempty" yaml:"importance,omitempty"`
	Priority    Level `json:"priority,omitempty" yaml:"priority,omitempty"`
	EnergyLevel Level `json:"energy_level,omitempty" yaml:"energy_level,omitempty"`

	// Duration in minutes.
	Duration     int `json:"duration" yaml:"duration"`
	TimeEstimate int `json:"time_estimate,omitempty" yaml:"time_estimate,omitempty"`

	Dependencies []string   `json:"dependencies" yaml:"dependencies"`
	Deadline     *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// EffectiveImportance returns Importance, or the priority weight when
// Importance was not supplied.
func (t *Task) EffectiveImportance() int {
	if t.Importance > 0 {
		return t.Importance
	}
	return t.Priority.Weight()
}

// PriorityLevel returns Priority, or a level derived from Importance.
func (t *Task) PriorityLevel() Level {
	if t.Priority != "" {
		return t.Priority
	}
	switch {
	case t.Importance >= 4:
		return LevelHigh
	case t.Importance == 3:
		return LevelMedium
	case t.Importance > 0:
		return LevelLow
	}
	return ""
}

// Estimate is the duration estimate in minutes, preferring TimeEstimate.
func (t *Task) Estimate() int {
	if t.TimeEstimate > 0 {
		return t.TimeEstimate
	}
	return t.Duration
}

// DeadlineOr returns the deadline, or fallback when none is set.
func (t *Task) DeadlineOr(fallback time.Time) time.Time {
	if t.Deadline == nil {
		return fallback
	}
	return *t.Deadline
}

// DurationTime returns Duration as a time.Duration.
func (t *Task) DurationTime() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}

// CompletionStatus tags a scheduled task.
type CompletionStatus string

const (
	CompletionPending    CompletionStatus = "pending"
	CompletionInProgress CompletionStatus = "in_progress"
	CompletionCompleted  CompletionStatus = "completed"
)

// ScheduledTask is a Task placed on the timeline.
type ScheduledTask struct {
	Task
	ScheduledStart   time.Time        `json:"scheduled_start"`
	ScheduledEnd     time.Time        `json:"scheduled_end"`
	CompletionStatus CompletionStatus `json:"completion_status"`
}
