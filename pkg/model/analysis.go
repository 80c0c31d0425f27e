package model

// Feasibility is the verdict of the feasibility analysis for one task.
type Feasibility string

const (
	FeasibilityImpossible Feasibility = "impossible"
	FeasibilitySkip       Feasibility = "skip"
	FeasibilityFeasible   Feasibility = "feasible"
)

// Subtask is a suggested slice of an oversized task.
type Subtask struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// Suggestion is the analysis result for one task.
type Suggestion struct {
	TaskID      string      `json:"task_id"`
	Task        string      `json:"task"`
	Status      Feasibility `json:"status"`
	Reason      string      `json:"reason"`
	MinutesLeft float64     `json:"minutes_left"`
	Actions     []string    `json:"actions,omitempty"`
	Subtasks    []Subtask   `json:"subtasks,omitempty"`
}
