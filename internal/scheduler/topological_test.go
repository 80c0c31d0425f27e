package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/me/taskflow/pkg/model"
)

func TestTopological_ArrivalOrderIgnoresImportance(t *testing.T) {
	tasks := []model.Task{
		mk("c", 5, 10, time.Hour, "a"),
		mk("a", 1, 10, time.Hour),
		mk("b", 1, 10, time.Hour),
	}
	scheduled, err := run(t, Topological{}, tasks)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	assertOrder(t, scheduled, "a", "b", "c")
	assertBackToBack(t, scheduled)
}

func TestTopological_Diamond(t *testing.T) {
	tasks := []model.Task{
		mk("a", 3, 10, time.Hour),
		mk("b", 3, 10, time.Hour, "a"),
		mk("c", 3, 10, time.Hour, "a"),
		mk("d", 3, 10, time.Hour, "b", "c"),
	}
	scheduled, err := run(t, Topological{}, tasks)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	assertOrder(t, scheduled, "a", "b", "c", "d")
}

func TestTopological_ThreeCycle(t *testing.T) {
	tasks := []model.Task{
		mk("a", 3, 10, time.Hour, "c"),
		mk("b", 3, 10, time.Hour, "a"),
		mk("c", 3, 10, time.Hour, "b"),
	}
	_, err := run(t, Topological{}, tasks)
	if !errors.Is(err, model.ErrKindCyclicDependency) {
		t.Fatalf("err = %v, want CyclicDependency", err)
	}
}

func TestTopological_Empty(t *testing.T) {
	scheduled, err := run(t, Topological{}, nil)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(scheduled) != 0 {
		t.Errorf("scheduled = %v, want empty", ids(scheduled))
	}
}
