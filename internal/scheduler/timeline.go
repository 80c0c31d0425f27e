package scheduler

import (
	"time"

	"github.com/me/taskflow/pkg/model"
)

// timeline places tasks back to back starting at a fixed anchor.
type timeline struct {
	cursor time.Time
	placed []model.ScheduledTask
}

func newTimeline(now time.Time, capacity int) *timeline {
	return &timeline{cursor: now, placed: make([]model.ScheduledTask, 0, capacity)}
}

// place schedules t at the cursor and advances the cursor by its duration.
func (tl *timeline) place(t model.Task) {
	start := tl.cursor
	end := start.Add(t.DurationTime())
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	tl.placed = append(tl.placed, model.ScheduledTask{
		Task:             t,
		ScheduledStart:   start,
		ScheduledEnd:     end,
		CompletionStatus: model.CompletionPending,
	})
	tl.cursor = end
}

func (tl *timeline) schedule() []model.ScheduledTask {
	return tl.placed
}
