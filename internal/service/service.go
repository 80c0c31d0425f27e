// Package service is the scheduling facade. It resolves strategies by name,
// builds the dependency graph for the strategies that need it and attaches
// metrics to the result. It also runs the per-user flows on top of the task
// store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/taskflow/internal/graph"
	"github.com/me/taskflow/internal/scheduler"
	"github.com/me/taskflow/internal/store"
	"github.com/me/taskflow/pkg/model"
)

// Service runs scheduling requests.
type Service struct {
	registry *scheduler.Registry
	store    store.Store
	logger   *slog.Logger
	clock    func() time.Time
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithClock replaces time.Now as the source of the scheduling anchor.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithStore enables the per-user operations.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// New creates a Service over the given strategy registry.
func New(registry *scheduler.Registry, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		logger:   logger.With("component", "service"),
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategies describes every registered strategy.
func (s *Service) Strategies() []model.StrategyInfo {
	return s.registry.List()
}

// Schedule runs the named strategy over tasks, anchored at the service clock.
func (s *Service) Schedule(ctx context.Context, id model.StrategyID, tasks []model.Task) (*model.ScheduleResponse, error) {
	strategy, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTasks(tasks); err != nil {
		return nil, err
	}

	req := scheduler.Request{Tasks: tasks, Now: s.clock()}
	if strategy.UsesDependencies() {
		g, err := graph.Build(tasks)
		if err != nil {
			return nil, err
		}
		req.Graph = g
	}

	start := time.Now()
	scheduled, err := strategy.Schedule(ctx, req)
	if err != nil {
		s.logger.Debug("strategy failed", "strategy", id, "tasks", len(tasks), "error", err)
		return nil, err
	}

	resp := &model.ScheduleResponse{
		Strategy:       id,
		ScheduledTasks: scheduled,
		Metrics:        scheduler.CalculateMetrics(scheduled),
		Unscheduled:    unscheduled(tasks, scheduled),
	}
	s.logger.Debug("schedule computed",
		"strategy", id,
		"tasks", len(tasks),
		"scheduled", len(scheduled),
		"skipped", resp.Unscheduled,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// Validate checks a batch for field errors, unknown dependencies and cycles,
// and returns a dependency-respecting order of the task ids.
func (s *Service) Validate(tasks []model.Task) ([]string, error) {
	if err := ValidateTasks(tasks); err != nil {
		return nil, err
	}
	if _, err := graph.Build(tasks); err != nil {
		return nil, err
	}
	return graph.Validate(tasks)
}

// Analyze reports, for each task, whether it can still finish before its
// deadline.
func (s *Service) Analyze(tasks []model.Task) ([]model.Suggestion, error) {
	if err := ValidateTasks(tasks); err != nil {
		return nil, err
	}
	return scheduler.Analyze(tasks, s.clock()), nil
}

// unscheduled returns the ids of tasks missing from scheduled, in input order.
func unscheduled(tasks []model.Task, scheduled []model.ScheduledTask) []string {
	if len(scheduled) == len(tasks) {
		return nil
	}
	placed := make(map[string]bool, len(scheduled))
	for i := range scheduled {
		placed[scheduled[i].ID] = true
	}
	var out []string
	for i := range tasks {
		if !placed[tasks[i].ID] {
			out = append(out, tasks[i].ID)
		}
	}
	return out
}

// ValidateTasks checks the fields of every task in a batch. Dependency
// references are checked by the graph builder, not here.
func ValidateTasks(tasks []model.Task) error {
	var fields []model.FieldError
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		path := fmt.Sprintf("tasks[%d]", i)
		switch {
		case t.ID == "":
			fields = append(fields, model.FieldError{Field: "id", Path: path, Message: "id is required"})
		case seen[t.ID]:
			fields = append(fields, model.FieldError{Field: "id", Path: path, Message: fmt.Sprintf("duplicate id %q", t.ID)})
		}
		seen[t.ID] = true
		fields = append(fields, checkTask(path, t)...)
	}
	if len(fields) > 0 {
		return &model.SchedulingError{
			Kind:    model.KindInvalidTask,
			Message: "invalid tasks",
			Fields:  fields,
		}
	}
	return nil
}

// checkTask validates everything about t except its id.
func checkTask(path string, t *model.Task) []model.FieldError {
	var fields []model.FieldError
	add := func(field, msg string) {
		fields = append(fields, model.FieldError{Field: field, Path: path, Message: msg})
	}

	if t.Name == "" {
		add("name", "name is required")
	}
	if t.Duration <= 0 {
		add("duration", "duration must be a positive number of minutes")
	}
	if t.TimeEstimate < 0 {
		add("time_estimate", "time_estimate must not be negative")
	}
	switch {
	case t.Importance == 0 && t.Priority == "":
		add("importance", "importance or priority is required")
	case t.Importance != 0 && (t.Importance < model.MinImportance || t.Importance > model.MaxImportance):
		add("importance", fmt.Sprintf("importance must be between %d and %d", model.MinImportance, model.MaxImportance))
	}
	if !t.Priority.Valid() {
		add("priority", fmt.Sprintf("unknown priority %q", t.Priority))
	}
	if !t.EnergyLevel.Valid() {
		add("energy_level", fmt.Sprintf("unknown energy level %q", t.EnergyLevel))
	}
	return fields
}

// HasStore reports whether the per-user operations are available.
func (s *Service) HasStore() bool {
	return s.store != nil
}
