package scheduler

import (
	"testing"
	"time"

	"github.com/me/taskflow/pkg/model"
)

func TestCalculateMetrics_Empty(t *testing.T) {
	if got := CalculateMetrics(nil); got != (model.Metrics{}) {
		t.Errorf("metrics = %+v, want zero", got)
	}
}

func TestCalculateMetrics(t *testing.T) {
	tasks := []model.Task{
		mk("a", 5, 30, time.Hour),
		mk("b", 2, 45, 2*time.Hour),
		mk("c", 2, 15, 3*time.Hour),
	}
	scheduled, err := run(t, Greedy{}, tasks)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	m := CalculateMetrics(scheduled)
	if m.TotalDuration != 90 {
		t.Errorf("TotalDuration = %d, want 90", m.TotalDuration)
	}
	if m.Makespan != 90 {
		t.Errorf("Makespan = %d, want 90", m.Makespan)
	}
	if m.EfficiencyScore != 3 {
		t.Errorf("EfficiencyScore = %v, want 3", m.EfficiencyScore)
	}
}

func TestCalculateMetrics_PriorityShape(t *testing.T) {
	scheduled := []model.ScheduledTask{
		{
			Task:           model.Task{ID: "p", Priority: model.LevelHigh, Duration: 20},
			ScheduledStart: now,
			ScheduledEnd:   now.Add(20 * time.Minute),
		},
		{
			Task:           model.Task{ID: "q", Priority: model.LevelMedium, Duration: 10},
			ScheduledStart: now.Add(20 * time.Minute),
			ScheduledEnd:   now.Add(30 * time.Minute),
		},
	}
	m := CalculateMetrics(scheduled)
	if m.TotalDuration != 30 || m.Makespan != 30 {
		t.Errorf("durations = %d/%d, want 30/30", m.TotalDuration, m.Makespan)
	}
	if m.EfficiencyScore != 2.5 {
		t.Errorf("EfficiencyScore = %v, want 2.5", m.EfficiencyScore)
	}
}
