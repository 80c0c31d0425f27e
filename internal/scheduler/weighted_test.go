package scheduler

import (
	"context"
	"testing"

	"github.com/me/taskflow/pkg/model"
)

func TestWeightedScore(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want int
	}{
		{"high/low/30", model.Task{Priority: model.LevelHigh, EnergyLevel: model.LevelLow, Duration: 30}, 9 + 2 - 30},
		{"low/high/10", model.Task{Priority: model.LevelLow, EnergyLevel: model.LevelHigh, Duration: 10}, 3 + 6 - 10},
		{"unknown levels", model.Task{Priority: "urgent", EnergyLevel: "", Duration: 5}, 3 + 2 - 5},
		{"estimate wins", model.Task{Priority: model.LevelMedium, EnergyLevel: model.LevelMedium, Duration: 90, TimeEstimate: 20}, 6 + 4 - 20},
		{"importance derived", model.Task{Importance: 5, Duration: 1}, 9 + 2 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedScore(&tt.task); got != tt.want {
				t.Errorf("WeightedScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeightedGreedy_OrdersByScore(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Priority: model.LevelHigh, EnergyLevel: model.LevelLow, Duration: 30},
		{ID: "t2", Priority: model.LevelLow, EnergyLevel: model.LevelHigh, Duration: 10},
		{ID: "t3", Priority: model.LevelMedium, EnergyLevel: model.LevelMedium, Duration: 20},
	}
	scheduled, err := run(t, WeightedGreedy{}, tasks)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	assertOrder(t, scheduled, "t2", "t3", "t1")
	assertBackToBack(t, scheduled)
}

func TestWeightedGreedy_IgnoresDependencies(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: model.LevelHigh, Duration: 10, Dependencies: []string{"not-in-batch"}},
		{ID: "b", Priority: model.LevelHigh, Duration: 10, Dependencies: []string{"a"}},
	}
	// No graph: the strategy must not need one.
	scheduled, err := WeightedGreedy{}.Schedule(context.Background(), Request{Tasks: tasks, Now: now})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	assertOrder(t, scheduled, "a", "b")
}

func TestWeightedGreedy_EmptyGivesZeroMetrics(t *testing.T) {
	scheduled, err := run(t, WeightedGreedy{}, []model.Task{})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	m := CalculateMetrics(scheduled)
	if m != (model.Metrics{}) {
		t.Errorf("metrics = %+v, want zeros", m)
	}
}
