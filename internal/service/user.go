package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/me/taskflow/internal/graph"
	"github.com/me/taskflow/pkg/model"
)

// ErrNoStore is returned by the per-user operations when the service was
// built without a task store.
var ErrNoStore = errors.New("task store not configured")

// CreateTask stores a new task for userID. The id is always assigned by the store.
func (s *Service) CreateTask(ctx context.Context, userID string, task model.Task) (*model.TaskRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if fields := checkTask("task", &task); len(fields) > 0 {
		return nil, &model.SchedulingError{Kind: model.KindInvalidTask, Message: "invalid task", Fields: fields}
	}

	task.ID = ""
	rec := &model.TaskRecord{Task: task, UserID: userID, Status: model.TaskStatusPending}
	if err := s.store.CreateTask(ctx, rec); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.logger.Info("task created", "user_id", userID, "task_id", rec.ID)
	return rec, nil
}

// GetTask returns one of userID's tasks. Tasks of other users are reported
// as not found.
func (s *Service) GetTask(ctx context.Context, userID, id string) (*model.TaskRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	rec, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, model.NewNotFoundError("task", id)
	}
	return rec, nil
}

// ListTasks returns a page of userID's tasks and the total count.
func (s *Service) ListTasks(ctx context.Context, userID string, opts model.ListOptions) ([]*model.TaskRecord, int, error) {
	if s.store == nil {
		return nil, 0, ErrNoStore
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, 0, model.NewValidationError("invalid status filter",
			model.FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", opts.Status)})
	}
	return s.store.ListTasksByUser(ctx, userID, opts)
}

// UpdateTask applies patch to one of userID's tasks.
func (s *Service) UpdateTask(ctx context.Context, userID, id string, patch model.TaskPatch) (*model.TaskRecord, error) {
	rec, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(rec)

	fields := checkTask("task", &rec.Task)
	if !rec.Status.Valid() {
		fields = append(fields, model.FieldError{Field: "status", Path: "task", Message: fmt.Sprintf("unknown status %q", rec.Status)})
	}
	if len(fields) > 0 {
		return nil, &model.SchedulingError{Kind: model.KindInvalidTask, Message: "invalid task", Fields: fields}
	}

	if err := s.store.UpdateTask(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("task updated", "user_id", userID, "task_id", id, "status", rec.Status)
	return rec, nil
}

// DeleteTask removes one of userID's tasks.
func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "user_id", userID, "task_id", id)
	return nil
}

// AddDependency makes taskID wait on dependencyID. The edge is refused when
// it would close a cycle among userID's tasks.
func (s *Service) AddDependency(ctx context.Context, userID, taskID, dependencyID string) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	if _, err := s.GetTask(ctx, userID, dependencyID); err != nil {
		return err
	}
	if taskID == dependencyID {
		return model.NewSchedulingError(model.KindCyclicDependency, "task cannot depend on itself", taskID)
	}

	recs, err := s.allTasks(ctx, userID)
	if err != nil {
		return err
	}
	tasks := make([]model.Task, len(recs))
	for i, rec := range recs {
		tasks[i] = rec.Task
		if rec.ID == taskID {
			tasks[i].Dependencies = append(append([]string{}, rec.Dependencies...), dependencyID)
		}
	}
	if _, err := graph.Validate(tasks); err != nil {
		return err
	}

	if err := s.store.AddDependency(ctx, taskID, dependencyID); err != nil {
		return err
	}
	s.logger.Info("dependency added", "user_id", userID, "task_id", taskID, "dependency_id", dependencyID)
	return nil
}

// RemoveDependency deletes the edge taskID -> dependencyID.
func (s *Service) RemoveDependency(ctx context.Context, userID, taskID, dependencyID string) error {
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.store.RemoveDependency(ctx, taskID, dependencyID); err != nil {
		return err
	}
	s.logger.Info("dependency removed", "user_id", userID, "task_id", taskID, "dependency_id", dependencyID)
	return nil
}

// ScheduleUser schedules userID's open tasks with the named strategy.
// Dependencies on completed or cancelled tasks count as satisfied.
func (s *Service) ScheduleUser(ctx context.Context, userID string, id model.StrategyID) (*model.ScheduleResponse, error) {
	if _, err := s.registry.Get(id); err != nil {
		return nil, err
	}
	tasks, err := s.openTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Schedule(ctx, id, tasks)
}

// AnalyzeUser runs the feasibility analysis over userID's open tasks.
func (s *Service) AnalyzeUser(ctx context.Context, userID string) ([]model.Suggestion, error) {
	tasks, err := s.openTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Analyze(tasks)
}

// openTasks loads userID's non-terminal tasks with dependencies pruned to
// other open tasks.
func (s *Service) openTasks(ctx context.Context, userID string) ([]model.Task, error) {
	recs, err := s.allTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if !rec.Status.IsTerminal() {
			open[rec.ID] = true
		}
	}

	tasks := make([]model.Task, 0, len(open))
	for _, rec := range recs {
		if !open[rec.ID] {
			continue
		}
		t := rec.Task
		deps := make([]string, 0, len(t.Dependencies))
		for _, dep := range t.Dependencies {
			if open[dep] {
				deps = append(deps, dep)
			}
		}
		t.Dependencies = deps
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// allTasks pages through every task userID owns.
func (s *Service) allTasks(ctx context.Context, userID string) ([]*model.TaskRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	opts := model.ListOptions{Limit: 500}
	var all []*model.TaskRecord
	for {
		page, total, err := s.store.ListTasksByUser(ctx, userID, opts)
		if err != nil {
			return nil, fmt.Errorf("list tasks for %s: %w", userID, err)
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
		opts.Offset += len(page)
	}
}
