package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/me/taskflow/pkg/model"
)

func mustCreateTask(t *testing.T, svc *Service, userID string, tk model.Task) *model.TaskRecord {
	t.Helper()
	rec, err := svc.CreateTask(context.Background(), userID, tk)
	if err != nil {
		t.Fatalf("CreateTask(%s): %v", tk.Name, err)
	}
	return rec
}

func isNotFound(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrNotFound
}

func TestCreateTask(t *testing.T) {
	svc := testStoreService(t)

	rec := mustCreateTask(t, svc, "u1", task("client-supplied", 3, 30, time.Hour))
	if rec.ID == "client-supplied" || rec.ID == "" {
		t.Errorf("ID = %q, want a store-assigned id", rec.ID)
	}
	if rec.Status != model.TaskStatusPending || rec.UserID != "u1" {
		t.Errorf("rec = %+v", rec)
	}

	_, err := svc.CreateTask(context.Background(), "u1", model.Task{Name: "bad", Duration: -1, Importance: 3})
	if !errors.Is(err, model.ErrKindInvalidTask) {
		t.Errorf("err = %v, want InvalidTask", err)
	}
}

func TestGetTaskOtherUser(t *testing.T) {
	svc := testStoreService(t)
	rec := mustCreateTask(t, svc, "u1", task("", 3, 30, time.Hour))

	if _, err := svc.GetTask(context.Background(), "u2", rec.ID); !isNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if err := svc.DeleteTask(context.Background(), "u2", rec.ID); !isNotFound(err) {
		t.Errorf("delete err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateTask(t *testing.T) {
	svc := testStoreService(t)
	ctx := context.Background()
	rec := mustCreateTask(t, svc, "u1", task("", 3, 30, time.Hour))

	name := "renamed"
	status := model.TaskStatusInProgress
	got, err := svc.UpdateTask(ctx, "u1", rec.ID, model.TaskPatch{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Name != "renamed" || got.Status != model.TaskStatusInProgress || got.Duration != 30 {
		t.Errorf("got %+v", got)
	}

	bad := model.TaskStatus("archived")
	if _, err := svc.UpdateTask(ctx, "u1", rec.ID, model.TaskPatch{Status: &bad}); !errors.Is(err, model.ErrKindInvalidTask) {
		t.Errorf("unknown status: err = %v, want InvalidTask", err)
	}

	done := model.TaskStatusCompleted
	if _, err := svc.UpdateTask(ctx, "u1", rec.ID, model.TaskPatch{Status: &done}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	back := model.TaskStatusInProgress
	var te *model.InvalidTransitionError
	if _, err := svc.UpdateTask(ctx, "u1", rec.ID, model.TaskPatch{Status: &back}); !errors.As(err, &te) {
		t.Errorf("reopen completed: err = %v, want InvalidTransitionError", err)
	}
}

func TestAddDependencyRefusesCycle(t *testing.T) {
	svc := testStoreService(t)
	ctx := context.Background()

	a := mustCreateTask(t, svc, "u1", task("", 3, 10, time.Hour))
	b := mustCreateTask(t, svc, "u1", task("", 3, 10, time.Hour))
	c := mustCreateTask(t, svc, "u1", task("", 3, 10, time.Hour))

	if err := svc.AddDependency(ctx, "u1", b.ID, a.ID); err != nil {
		t.Fatalf("b->a: %v", err)
	}
	if err := svc.AddDependency(ctx, "u1", c.ID, b.ID); err != nil {
		t.Fatalf("c->b: %v", err)
	}
	if err := svc.AddDependency(ctx, "u1", a.ID, c.ID); !errors.Is(err, model.ErrKindCyclicDependency) {
		t.Errorf("a->c: err = %v, want CyclicDependency", err)
	}
	if err := svc.AddDependency(ctx, "u1", a.ID, a.ID); !errors.Is(err, model.ErrKindCyclicDependency) {
		t.Errorf("a->a: err = %v, want CyclicDependency", err)
	}

	got, _ := svc.GetTask(ctx, "u1", a.ID)
	if len(got.Dependencies) != 0 {
		t.Errorf("a deps = %v, want none", got.Dependencies)
	}

	if err := svc.RemoveDependency(ctx, "u1", c.ID, b.ID); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	if err := svc.AddDependency(ctx, "u1", a.ID, c.ID); err != nil {
		t.Errorf("a->c after removing c->b: %v", err)
	}
}

func TestAddDependencyOtherUser(t *testing.T) {
	svc := testStoreService(t)
	ctx := context.Background()

	mine := mustCreateTask(t, svc, "u1", task("", 3, 10, time.Hour))
	theirs := mustCreateTask(t, svc, "u2", task("", 3, 10, time.Hour))

	if err := svc.AddDependency(ctx, "u1", mine.ID, theirs.ID); !isNotFound(err) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestScheduleUser(t *testing.T) {
	svc := testStoreService(t)
	ctx := context.Background()

	done := mustCreateTask(t, svc, "u1", task("", 5, 20, time.Hour))
	first := mustCreateTask(t, svc, "u1", task("", 2, 30, 4*time.Hour))
	next := mustCreateTask(t, svc, "u1", task("", 4, 60, 5*time.Hour))
	dropped := mustCreateTask(t, svc, "u1", task("", 5, 10, time.Hour))
	mustCreateTask(t, svc, "u2", task("", 5, 10, time.Hour))

	for _, edge := range [][2]string{{next.ID, first.ID}, {next.ID, done.ID}} {
		if err := svc.AddDependency(ctx, "u1", edge[0], edge[1]); err != nil {
			t.Fatalf("AddDependency: %v", err)
		}
	}
	completed := model.TaskStatusCompleted
	if _, err := svc.UpdateTask(ctx, "u1", done.ID, model.TaskPatch{Status: &completed}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	cancelled := model.TaskStatusCancelled
	if _, err := svc.UpdateTask(ctx, "u1", dropped.ID, model.TaskPatch{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	resp, err := svc.ScheduleUser(ctx, "u1", model.StrategyTopological)
	if err != nil {
		t.Fatalf("ScheduleUser: %v", err)
	}
	if got := scheduledIDs(resp); !reflect.DeepEqual(got, []string{first.ID, next.ID}) {
		t.Errorf("order = %v, want [%s %s]", got, first.ID, next.ID)
	}
	if deps := resp.ScheduledTasks[1].Dependencies; !reflect.DeepEqual(deps, []string{first.ID}) {
		t.Errorf("next deps = %v, want only the open dependency", deps)
	}
	if resp.TotalDuration != 90 {
		t.Errorf("TotalDuration = %d, want 90", resp.TotalDuration)
	}
}

func TestAnalyzeUser(t *testing.T) {
	svc := testStoreService(t)
	ctx := context.Background()

	mustCreateTask(t, svc, "u1", task("", 4, 120, time.Hour))
	got, err := svc.AnalyzeUser(ctx, "u1")
	if err != nil {
		t.Fatalf("AnalyzeUser: %v", err)
	}
	if len(got) != 1 || got[0].Status != model.FeasibilityImpossible || len(got[0].Subtasks) != 2 {
		t.Errorf("got %+v", got)
	}

	empty, err := svc.AnalyzeUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("AnalyzeUser: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %+v, want empty", empty)
	}
}
