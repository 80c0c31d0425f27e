package model

import "time"

// TaskRecord is a Task owned by a user and kept in the task store.
type TaskRecord struct {
	Task
	UserID    string     `json:"user_id"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Dependency links a task to a task it waits on.
type Dependency struct {
	TaskID       string `json:"task_id"`
	DependencyID string `json:"dependency_id"`
}

// TaskPatch is a partial update of a stored task. Nil fields are left as is.
type TaskPatch struct {
	Name         *string     `json:"name,omitempty"`
	Description  *string     `json:"description,omitempty"`
	Importance   *int        `json:"importance,omitempty"`
	Priority     *Level      `json:"priority,omitempty"`
	EnergyLevel  *Level      `json:"energy_level,omitempty"`
	Duration     *int        `json:"duration,omitempty"`
	TimeEstimate *int        `json:"time_estimate,omitempty"`
	Deadline     *time.Time  `json:"deadline,omitempty"`
	Status       *TaskStatus `json:"status,omitempty"`
}

// Apply copies the set fields onto rec.
func (p *TaskPatch) Apply(rec *TaskRecord) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Importance != nil {
		rec.Importance = *p.Importance
	}
	if p.Priority != nil {
		rec.Priority = *p.Priority
	}
	if p.EnergyLevel != nil {
		rec.EnergyLevel = *p.EnergyLevel
	}
	if p.Duration != nil {
		rec.Duration = *p.Duration
	}
	if p.TimeEstimate != nil {
		rec.TimeEstimate = *p.TimeEstimate
	}
	if p.Deadline != nil {
		dl := *p.Deadline
		rec.Deadline = &dl
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
}
