package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLevel_Weight(t *testing.T) {
	tests := []struct {
		level Level
		want  int
	}{
		{LevelHigh, 3},
		{LevelMedium, 2},
		{LevelLow, 1},
		{"", 1},
		{"urgent", 1},
	}
	for _, tt := range tests {
		if got := tt.level.Weight(); got != tt.want {
			t.Errorf("Level(%q).Weight() = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestTask_EffectiveImportance(t *testing.T) {
	if got := (&Task{Importance: 4, Priority: LevelLow}).EffectiveImportance(); got != 4 {
		t.Errorf("explicit importance = %d, want 4", got)
	}
	if got := (&Task{Priority: LevelHigh}).EffectiveImportance(); got != 3 {
		t.Errorf("priority fallback = %d, want 3", got)
	}
	if got := (&Task{}).EffectiveImportance(); got != 1 {
		t.Errorf("empty = %d, want 1", got)
	}
}

func TestTask_PriorityLevel(t *testing.T) {
	tests := []struct {
		task Task
		want Level
	}{
		{Task{Priority: LevelMedium, Importance: 5}, LevelMedium},
		{Task{Importance: 5}, LevelHigh},
		{Task{Importance: 4}, LevelHigh},
		{Task{Importance: 3}, LevelMedium},
		{Task{Importance: 1}, LevelLow},
		{Task{}, ""},
	}
	for _, tt := range tests {
		if got := tt.task.PriorityLevel(); got != tt.want {
			t.Errorf("PriorityLevel(%+v) = %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestTask_EstimateAndDeadline(t *testing.T) {
	task := Task{Duration: 30}
	if task.Estimate() != 30 {
		t.Errorf("Estimate = %d, want 30", task.Estimate())
	}
	task.TimeEstimate = 45
	if task.Estimate() != 45 {
		t.Errorf("Estimate = %d, want 45", task.Estimate())
	}

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if !task.DeadlineOr(now).Equal(now) {
		t.Error("DeadlineOr should fall back when no deadline is set")
	}
	dl := now.Add(time.Hour)
	task.Deadline = &dl
	if !task.DeadlineOr(now).Equal(dl) {
		t.Error("DeadlineOr should return the deadline")
	}
}

func TestScheduledTask_JSONFlattensTask(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	st := ScheduledTask{
		Task:             Task{ID: "a", Name: "Write report", Importance: 5, Duration: 60, Dependencies: []string{}},
		ScheduledStart:   start,
		ScheduledEnd:     start.Add(time.Hour),
		CompletionStatus: CompletionPending,
	}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["id"] != "a" {
		t.Errorf("id = %v, want a", m["id"])
	}
	if m["completion_status"] != "pending" {
		t.Errorf("completion_status = %v, want pending", m["completion_status"])
	}
	if _, ok := m["deadline"]; ok {
		t.Error("deadline should be omitted when nil")
	}
}
