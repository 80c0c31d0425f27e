package model

// TaskStatus is the lifecycle status of a stored task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if the task no longer takes part in scheduling.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ValidTaskTransitions defines the allowed status transitions for stored tasks.
var ValidTaskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusPending, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusCancelled:  {TaskStatusPending},
}

// CanTransitionTo returns true if moving from the current status to next is valid.
// Staying in the same status is always allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range ValidTaskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
