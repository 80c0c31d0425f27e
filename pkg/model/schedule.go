package model

// StrategyID names a scheduling strategy.
type StrategyID string

const (
	StrategyGreedy             StrategyID = "greedy"
	StrategyWeightedGreedy     StrategyID = "weighted_greedy"
	StrategyPriorityQueue      StrategyID = "priority_queue"
	StrategyTopological        StrategyID = "topological"
	StrategyDynamicProgramming StrategyID = "dynamic_programming"
	StrategyDijkstra           StrategyID = "dijkstra"
)

// Strategies lists every strategy in a stable order.
var Strategies = []StrategyID{
	StrategyGreedy,
	StrategyWeightedGreedy,
	StrategyPriorityQueue,
	StrategyTopological,
	StrategyDynamicProgramming,
	StrategyDijkstra,
}

// String returns the string representation of the strategy id.
func (s StrategyID) String() string {
	return string(s)
}

// ScheduleRequest is the body accepted by the schedule endpoints.
type ScheduleRequest struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// Metrics summarizes a produced schedule. Durations are in minutes.
type Metrics struct {
	TotalDuration   int     `json:"total_duration"`
	Makespan        int     `json:"makespan"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// ScheduleResponse is the ordered schedule plus its metrics.
type ScheduleResponse struct {
	Strategy       StrategyID      `json:"strategy"`
	ScheduledTasks []ScheduledTask `json:"scheduled_tasks"`
	Metrics
	// Unscheduled holds ids of input tasks the strategy left out.
	Unscheduled []string `json:"unscheduled,omitempty"`
}

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	ID               StrategyID `json:"id"`
	Description      string     `json:"description"`
	UsesDependencies bool       `json:"uses_dependencies"`
}
