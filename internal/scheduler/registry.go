package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/me/taskflow/pkg/model"
)

// Registry maps StrategyID values to their Strategy implementations.
// Registration happens at startup before concurrent access, so no mutex is needed.
type Registry struct {
	strategies map[model.StrategyID]Strategy
	order      []model.StrategyID
	logger     *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		strategies: make(map[model.StrategyID]Strategy),
		logger:     logger.With("component", "strategy-registry"),
	}
}

// NewDefaultRegistry returns a Registry holding all built-in strategies.
func NewDefaultRegistry(cfg Config, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(Greedy{})
	r.Register(WeightedGreedy{})
	r.Register(PriorityQueue{})
	r.Register(Topological{})
	r.Register(DynamicProgramming{MaxTasks: cfg.MaxDPTasks})
	r.Register(Dijkstra{})
	return r
}

// Register adds a Strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	id := s.Name()
	if _, ok := r.strategies[id]; !ok {
		r.order = append(r.order, id)
	}
	r.strategies[id] = s
	r.logger.Debug("strategy registered", "strategy", id)
}

// Get returns the Strategy for id or an UnknownStrategy error.
func (r *Registry) Get(id model.StrategyID) (Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, model.NewSchedulingError(model.KindUnknownStrategy,
			fmt.Sprintf("no strategy registered for %q", id))
	}
	return s, nil
}

// List describes the registered strategies in registration order.
func (r *Registry) List() []model.StrategyInfo {
	out := make([]model.StrategyInfo, 0, len(r.order))
	for _, id := range r.order {
		s := r.strategies[id]
		out = append(out, model.StrategyInfo{
			ID:               id,
			Description:      s.Description(),
			UsesDependencies: s.UsesDependencies(),
		})
	}
	return out
}
