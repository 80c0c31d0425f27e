package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/me/taskflow/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRecord(userID, name string, deps ...string) *model.TaskRecord {
	deadline := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	return &model.TaskRecord{
		Task: model.Task{
			Name:         name,
			Description:  "write it down",
			Importance:   4,
			EnergyLevel:  model.LevelMedium,
			Duration:     45,
			TimeEstimate: 40,
			Dependencies: deps,
			Deadline:     &deadline,
		},
		UserID: userID,
	}
}

func mustCreate(t *testing.T, st *SQLiteStore, rec *model.TaskRecord) *model.TaskRecord {
	t.Helper()
	if err := st.CreateTask(context.Background(), rec); err != nil {
		t.Fatalf("CreateTask(%s): %v", rec.Name, err)
	}
	return rec
}

func TestMigrateIdempotent(t *testing.T) {
	st := testStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestCreateAndGetTask(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := mustCreate(t, st, sampleRecord("u1", "report"))
	if len(rec.ID) < len("task_") || rec.ID[:5] != "task_" {
		t.Errorf("ID = %q, want task_ prefix", rec.ID)
	}
	if rec.Status != model.TaskStatusPending {
		t.Errorf("Status = %q, want pending", rec.Status)
	}

	got, err := st.GetTask(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got == nil {
		t.Fatal("GetTask returned nil")
	}
	if got.Name != "report" || got.Description != "write it down" || got.UserID != "u1" {
		t.Errorf("got %+v", got)
	}
	if got.Importance != 4 || got.EnergyLevel != model.LevelMedium || got.Duration != 45 || got.TimeEstimate != 40 {
		t.Errorf("numeric fields = %d/%q/%d/%d", got.Importance, got.EnergyLevel, got.Duration, got.TimeEstimate)
	}
	if got.Deadline == nil || !got.Deadline.Equal(*rec.Deadline) {
		t.Errorf("Deadline = %v, want %v", got.Deadline, rec.Deadline)
	}
	if got.Dependencies == nil || len(got.Dependencies) != 0 {
		t.Errorf("Dependencies = %#v, want empty non-nil", got.Dependencies)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestGetTaskNotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetTask(context.Background(), "task_missing")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestCreateTaskWithoutDeadline(t *testing.T) {
	st := testStore(t)
	rec := sampleRecord("u1", "whenever")
	rec.Deadline = nil
	mustCreate(t, st, rec)

	got, err := st.GetTask(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Deadline != nil {
		t.Errorf("Deadline = %v, want nil", got.Deadline)
	}
}

func TestCreateTaskWithDependencies(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, st, sampleRecord("u1", "a"))
	b := mustCreate(t, st, sampleRecord("u1", "b"))
	c := mustCreate(t, st, sampleRecord("u1", "c", b.ID, a.ID))

	got, err := st.GetTask(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if want := []string{b.ID, a.ID}; !reflect.DeepEqual(got.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", got.Dependencies, want)
	}
}

func TestCreateTaskUnknownDependencyRollsBack(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("u1", "orphan", "task_nope")
	err := st.CreateTask(ctx, rec)
	if !errors.Is(err, model.ErrKindMissingDependency) {
		t.Fatalf("err = %v, want MissingDependency", err)
	}

	got, err := st.GetTask(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Error("task should not be stored when a dependency is missing")
	}
}

func TestListTasksByUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, st, sampleRecord("u1", "a"))
	b := mustCreate(t, st, sampleRecord("u1", "b", a.ID))
	mustCreate(t, st, sampleRecord("u2", "other"))

	recs, total, err := st.ListTasksByUser(ctx, "u1", model.DefaultListOptions())
	if err != nil {
		t.Fatalf("ListTasksByUser: %v", err)
	}
	if total != 2 || len(recs) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(recs))
	}
	if recs[0].ID != a.ID || recs[1].ID != b.ID {
		t.Errorf("order = %s, %s; want %s, %s", recs[0].ID, recs[1].ID, a.ID, b.ID)
	}
	if !reflect.DeepEqual(recs[1].Dependencies, []string{a.ID}) {
		t.Errorf("b deps = %v", recs[1].Dependencies)
	}
	if len(recs[0].Dependencies) != 0 {
		t.Errorf("a deps = %v", recs[0].Dependencies)
	}
}

func TestListTasksByUserPagination(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreate(t, st, sampleRecord("u1", fmt.Sprintf("t%d", i)))
	}

	recs, total, err := st.ListTasksByUser(ctx, "u1", model.ListOptions{Limit: 2, Offset: 3})
	if err != nil {
		t.Fatalf("ListTasksByUser: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(recs) != 2 || recs[0].Name != "t3" || recs[1].Name != "t4" {
		t.Errorf("page = %+v", recs)
	}
}

func TestListTasksByUserStatusFilter(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, sampleRecord("u1", "open"))
	done := mustCreate(t, st, sampleRecord("u1", "done"))
	done.Status = model.TaskStatusCompleted
	if err := st.UpdateTask(ctx, done); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	recs, total, err := st.ListTasksByUser(ctx, "u1", model.ListOptions{Status: model.TaskStatusCompleted})
	if err != nil {
		t.Fatalf("ListTasksByUser: %v", err)
	}
	if total != 1 || len(recs) != 1 || recs[0].ID != done.ID {
		t.Errorf("filtered = %d %+v", total, recs)
	}
}

func TestUpdateTask(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := mustCreate(t, st, sampleRecord("u1", "draft"))
	rec.Name = "final"
	rec.Duration = 90
	rec.Status = model.TaskStatusInProgress
	if err := st.UpdateTask(ctx, rec); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, _ := st.GetTask(ctx, rec.ID)
	if got.Name != "final" || got.Duration != 90 || got.Status != model.TaskStatusInProgress {
		t.Errorf("got %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestUpdateTaskInvalidTransition(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := mustCreate(t, st, sampleRecord("u1", "t"))
	rec.Status = model.TaskStatusCompleted
	if err := st.UpdateTask(ctx, rec); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	rec.Status = model.TaskStatusPending
	err := st.UpdateTask(ctx, rec)
	var te *model.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
	if te.From != "completed" || te.To != "pending" {
		t.Errorf("transition = %s -> %s", te.From, te.To)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	st := testStore(t)
	rec := sampleRecord("u1", "ghost")
	rec.ID = "task_ghost"
	rec.Status = model.TaskStatusPending

	err := st.UpdateTask(context.Background(), rec)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeleteTaskCascadesDependencies(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, st, sampleRecord("u1", "a"))
	b := mustCreate(t, st, sampleRecord("u1", "b", a.ID))

	if err := st.DeleteTask(ctx, a.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	got, _ := st.GetTask(ctx, b.ID)
	if len(got.Dependencies) != 0 {
		t.Errorf("b deps = %v, want none after deleting a", got.Dependencies)
	}

	err := st.DeleteTask(ctx, a.ID)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Errorf("second delete err = %v, want NOT_FOUND", err)
	}
}

func TestAddRemoveDependency(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, st, sampleRecord("u1", "a"))
	b := mustCreate(t, st, sampleRecord("u1", "b"))

	if err := st.AddDependency(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if err := st.AddDependency(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("repeat AddDependency: %v", err)
	}
	got, _ := st.GetTask(ctx, b.ID)
	if !reflect.DeepEqual(got.Dependencies, []string{a.ID}) {
		t.Errorf("deps = %v", got.Dependencies)
	}

	if err := st.RemoveDependency(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	got, _ = st.GetTask(ctx, b.ID)
	if len(got.Dependencies) != 0 {
		t.Errorf("deps after remove = %v", got.Dependencies)
	}

	var apiErr *model.APIError
	if err := st.RemoveDependency(ctx, b.ID, a.ID); !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Errorf("removing a missing edge: err = %v, want NOT_FOUND", err)
	}
}

func TestAddDependencyRejected(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, st, sampleRecord("u1", "a"))
	foreign := mustCreate(t, st, sampleRecord("u2", "foreign"))

	if err := st.AddDependency(ctx, a.ID, a.ID); !errors.Is(err, model.ErrKindCyclicDependency) {
		t.Errorf("self edge: err = %v, want CyclicDependency", err)
	}
	if err := st.AddDependency(ctx, a.ID, foreign.ID); !errors.Is(err, model.ErrKindMissingDependency) {
		t.Errorf("cross-user edge: err = %v, want MissingDependency", err)
	}
	var apiErr *model.APIError
	if err := st.AddDependency(ctx, "task_nope", a.ID); !errors.As(err, &apiErr) || apiErr.Code != model.ErrNotFound {
		t.Errorf("unknown task: err = %v, want NOT_FOUND", err)
	}
}
