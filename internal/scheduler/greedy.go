package scheduler

import (
	"context"
	"sort"

	"github.com/me/taskflow/pkg/model"
)

// Greedy orders tasks once by importance (descending) then deadline
// (ascending) and walks that order a single time. A task whose dependencies
// have not all been placed earlier in the walk is skipped for good, so the
// result may be partial.
type Greedy struct{}

func (Greedy) Name() model.StrategyID { return model.StrategyGreedy }

func (Greedy) Description() string {
	return "Static importance/deadline order; tasks with unmet dependencies are skipped"
}

func (Greedy) UsesDependencies() bool { return true }

func (Greedy) Schedule(_ context.Context, req Request) ([]model.ScheduledTask, error) {
	order := make([]model.Task, len(req.Tasks))
	copy(order, req.Tasks)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &order[i], &order[j]
		if ia, ib := a.EffectiveImportance(), b.EffectiveImportance(); ia != ib {
			return ia > ib
		}
		return a.DeadlineOr(req.Now).Before(b.DeadlineOr(req.Now))
	})

	done := make(map[string]bool, len(order))
	tl := newTimeline(req.Now, len(order))
	for _, t := range order {
		if !allDone(t.Dependencies, done) {
			continue
		}
		tl.place(t)
		done[t.ID] = true
	}
	return tl.schedule(), nil
}

func allDone(deps []string, done map[string]bool) bool {
	for _, d := range deps {
		if !done[d] {
			return false
		}
	}
	return true
}
