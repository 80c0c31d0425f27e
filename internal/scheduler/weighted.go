package scheduler

import (
	"context"
	"sort"

	"github.com/me/taskflow/pkg/model"
)

// Score weights used by WeightedGreedy.
const (
	priorityFactor = 3
	energyFactor   = 2
	estimateFactor = 1
)

// WeightedGreedy ranks tasks by a linear score over priority, energy level
// and time estimate, then schedules every task in that order. It has no
// notion of dependencies.
type WeightedGreedy struct{}

func (WeightedGreedy) Name() model.StrategyID { return model.StrategyWeightedGreedy }

func (WeightedGreedy) Description() string {
	return "Score = 3*priority + 2*energy - estimate; dependencies ignored"
}

func (WeightedGreedy) UsesDependencies() bool { return false }

func (WeightedGreedy) Schedule(_ context.Context, req Request) ([]model.ScheduledTask, error) {
	type scored struct {
		task  model.Task
		score int
	}
	ranked := make([]scored, len(req.Tasks))
	for i, t := range req.Tasks {
		ranked[i] = scored{task: t, score: WeightedScore(&t)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	tl := newTimeline(req.Now, len(ranked))
	for _, r := range ranked {
		tl.place(r.task)
	}
	return tl.schedule(), nil
}

// WeightedScore is 3*w(priority) + 2*w(energy) - estimate, with
// w(high)=3, w(medium)=2, w(low)=1 and unknown levels weighing 1.
func WeightedScore(t *model.Task) int {
	return priorityFactor*t.PriorityLevel().Weight() +
		energyFactor*t.EnergyLevel.Weight() -
		estimateFactor*t.Estimate()
}
