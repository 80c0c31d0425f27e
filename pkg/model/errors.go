package model

import (
	"fmt"
	"strings"
)

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrMissingDependency  ErrorCode = "MISSING_DEPENDENCY"
	ErrCyclicDependency   ErrorCode = "CYCLIC_DEPENDENCY"
	ErrNoFeasibleSchedule ErrorCode = "NO_FEASIBLE_SCHEDULE"
	ErrNoEntryPoint       ErrorCode = "NO_ENTRY_POINT"
	ErrTaskLimitExceeded  ErrorCode = "TASK_LIMIT_EXCEEDED"
	ErrInternal           ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the taskflow API.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// ErrorKind classifies a SchedulingError.
type ErrorKind string

const (
	KindMissingDependency  ErrorKind = "missing_dependency"
	KindCyclicDependency   ErrorKind = "cyclic_dependency"
	KindNoFeasibleSchedule ErrorKind = "no_feasible_schedule"
	KindNoEntryPoint       ErrorKind = "no_entry_point"
	KindTaskLimitExceeded  ErrorKind = "task_limit_exceeded"
	KindInvalidTask        ErrorKind = "invalid_task"
	KindUnknownStrategy    ErrorKind = "unknown_strategy"
)

// SchedulingError is returned by the graph builder, the strategies and the
// scheduling service. Compare with errors.Is against the Err* sentinels below.
type SchedulingError struct {
	Kind    ErrorKind
	TaskIDs []string
	Message string
	Fields  []FieldError
}

func (e *SchedulingError) Error() string {
	if len(e.TaskIDs) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.TaskIDs, ", "))
}

// Is matches any SchedulingError of the same kind.
func (e *SchedulingError) Is(target error) bool {
	t, ok := target.(*SchedulingError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrKindMissingDependency  = &SchedulingError{Kind: KindMissingDependency}
	ErrKindCyclicDependency   = &SchedulingError{Kind: KindCyclicDependency}
	ErrKindNoFeasibleSchedule = &SchedulingError{Kind: KindNoFeasibleSchedule}
	ErrKindNoEntryPoint       = &SchedulingError{Kind: KindNoEntryPoint}
	ErrKindTaskLimitExceeded  = &SchedulingError{Kind: KindTaskLimitExceeded}
	ErrKindInvalidTask        = &SchedulingError{Kind: KindInvalidTask}
	ErrKindUnknownStrategy    = &SchedulingError{Kind: KindUnknownStrategy}
)

// NewSchedulingError builds a SchedulingError of the given kind.
func NewSchedulingError(kind ErrorKind, msg string, taskIDs ...string) *SchedulingError {
	return &SchedulingError{Kind: kind, Message: msg, TaskIDs: taskIDs}
}

// InvalidTransitionError is returned when a task status transition is invalid.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s status transition: %s → %s (entity %s)", e.Entity, e.From, e.To, e.ID)
}
