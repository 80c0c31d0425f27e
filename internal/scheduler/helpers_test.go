package scheduler

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/me/taskflow/internal/graph"
	"github.com/me/taskflow/pkg/model"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mk builds a task due `due` after now; due == 0 leaves the deadline unset.
func mk(id string, importance, duration int, due time.Duration, deps ...string) model.Task {
	t := model.Task{
		ID:           id,
		Name:         "task " + id,
		Importance:   importance,
		Duration:     duration,
		Dependencies: deps,
	}
	if due != 0 {
		dl := now.Add(due)
		t.Deadline = &dl
	}
	return t
}

func run(t *testing.T, s Strategy, tasks []model.Task) ([]model.ScheduledTask, error) {
	t.Helper()
	return runCtx(context.Background(), t, s, tasks)
}

func runCtx(ctx context.Context, t *testing.T, s Strategy, tasks []model.Task) ([]model.ScheduledTask, error) {
	t.Helper()
	req := Request{Tasks: tasks, Now: now}
	if s.UsesDependencies() {
		g, err := graph.Build(tasks)
		if err != nil {
			t.Fatalf("graph.Build: %v", err)
		}
		req.Graph = g
	}
	return s.Schedule(ctx, req)
}

func ids(scheduled []model.ScheduledTask) []string {
	out := make([]string, len(scheduled))
	for i, st := range scheduled {
		out[i] = st.ID
	}
	return out
}

func assertOrder(t *testing.T, scheduled []model.ScheduledTask, want ...string) {
	t.Helper()
	if got := ids(scheduled); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func assertBackToBack(t *testing.T, scheduled []model.ScheduledTask) {
	t.Helper()
	cursor := now
	for _, st := range scheduled {
		if !st.ScheduledStart.Equal(cursor) {
			t.Errorf("%s starts at %v, want %v", st.ID, st.ScheduledStart, cursor)
		}
		if want := st.ScheduledStart.Add(time.Duration(st.Duration) * time.Minute); !st.ScheduledEnd.Equal(want) {
			t.Errorf("%s ends at %v, want %v", st.ID, st.ScheduledEnd, want)
		}
		if st.CompletionStatus != model.CompletionPending {
			t.Errorf("%s status = %q, want pending", st.ID, st.CompletionStatus)
		}
		cursor = st.ScheduledEnd
	}
}
