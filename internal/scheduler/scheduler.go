// Package scheduler holds the scheduling strategies and the metrics computed
// over their output. Every strategy is a pure, synchronous computation over an
// immutable task batch; "now" is passed in explicitly.
package scheduler

import (
	"context"
	"time"

	"github.com/me/taskflow/internal/graph"
	"github.com/me/taskflow/pkg/model"
)

// Request is the input to one strategy run.
type Request struct {
	Tasks []model.Task
	// Graph is built by the caller when the strategy uses dependencies,
	// nil otherwise.
	Graph *graph.Graph
	// Now anchors the timeline; the first task starts here.
	Now time.Time
}

// Strategy turns a task batch into an ordered, back-to-back schedule.
type Strategy interface {
	Name() model.StrategyID
	Description() string
	// UsesDependencies reports whether Request.Graph must be set.
	UsesDependencies() bool
	Schedule(ctx context.Context, req Request) ([]model.ScheduledTask, error)
}

// Config holds strategy tuning.
type Config struct {
	// MaxDPTasks bounds the dynamic programming strategy. Zero disables the check.
	MaxDPTasks int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MaxDPTasks: 16}
}
