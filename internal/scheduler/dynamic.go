package scheduler

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/me/taskflow/pkg/model"
)

// DynamicProgramming searches all dependency-respecting orders for the one
// with the highest total value, memoizing on the set of tasks still to place.
//
// Placing task t at cursor c is worth importance / (minutes_left - duration)
// and is infeasible when the task would finish after its deadline. The cursor
// is fully determined by which tasks were already placed, so the memo key is
// the remaining set alone. Tasks that can no longer be placed feasibly are
// dropped from the branch.
//
// Cost is O(2^n * n) time and O(2^n) memo entries, hence MaxTasks.
type DynamicProgramming struct {
	MaxTasks int
}

func (DynamicProgramming) Name() model.StrategyID { return model.StrategyDynamicProgramming }

func (DynamicProgramming) Description() string {
	return "Memoized search over task subsets maximizing importance per minute of deadline slack"
}

func (DynamicProgramming) UsesDependencies() bool { return true }

// cancelCheckInterval is how many solve calls pass between context checks.
const cancelCheckInterval = 1024

func (d DynamicProgramming) Schedule(ctx context.Context, req Request) ([]model.ScheduledTask, error) {
	n := len(req.Tasks)
	if d.MaxTasks > 0 && n > d.MaxTasks {
		return nil, model.NewSchedulingError(model.KindTaskLimitExceeded,
			fmt.Sprintf("dynamic programming accepts at most %d tasks, got %d", d.MaxTasks, n))
	}
	if n == 0 {
		return []model.ScheduledTask{}, nil
	}

	s := &dpSolver{
		ctx:   ctx,
		tasks: req.Tasks,
		memo:  make(map[subsetKey]dpResult),
	}
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	best, err := s.solve(remaining, req.Now)
	if err != nil {
		return nil, err
	}
	if len(best.order) == 0 {
		return nil, model.NewSchedulingError(model.KindNoFeasibleSchedule,
			"no valid schedule found for the given tasks")
	}

	tl := newTimeline(req.Now, len(best.order))
	for _, idx := range best.order {
		tl.place(req.Tasks[idx])
	}
	return tl.schedule(), nil
}

// subsetKey is the canonical form of a set of task ids: sorted, NUL-joined.
type subsetKey string

type dpResult struct {
	order []int // indexes into the task batch
	value float64
}

type dpSolver struct {
	ctx   context.Context
	tasks []model.Task
	memo  map[subsetKey]dpResult
	calls int
}

func (s *dpSolver) key(remaining []int) subsetKey {
	ids := make([]string, len(remaining))
	for i, idx := range remaining {
		ids[i] = s.tasks[idx].ID
	}
	sort.Strings(ids)
	return subsetKey(strings.Join(ids, "\x00"))
}

func (s *dpSolver) solve(remaining []int, cursor time.Time) (dpResult, error) {
	if len(remaining) == 0 {
		return dpResult{}, nil
	}
	key := s.key(remaining)
	if r, ok := s.memo[key]; ok {
		return r, nil
	}

	s.calls++
	if s.calls%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return dpResult{}, err
		}
	}

	pending := make(map[string]bool, len(remaining))
	for _, idx := range remaining {
		pending[s.tasks[idx].ID] = true
	}

	var best dpResult
	found := false
	for i, idx := range remaining {
		t := &s.tasks[idx]
		if dependsOnAny(t, pending) {
			continue
		}
		value, ok := placementValue(t, cursor)
		if !ok {
			continue
		}

		rest := make([]int, 0, len(remaining)-1)
		rest = append(rest, remaining[:i]...)
		rest = append(rest, remaining[i+1:]...)
		sub, err := s.solve(rest, cursor.Add(t.DurationTime()))
		if err != nil {
			return dpResult{}, err
		}

		if total := value + sub.value; !found || total > best.value {
			found = true
			best = dpResult{
				order: append([]int{idx}, sub.order...),
				value: total,
			}
		}
	}

	s.memo[key] = best
	return best, nil
}

func dependsOnAny(t *model.Task, pending map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if pending[dep] {
			return true
		}
	}
	return false
}

// placementValue returns importance / slack for running t at cursor, where
// slack is the minutes left after t would finish. Slack under one minute is
// counted as one minute. ok is false when t would miss its deadline. A task
// without a deadline is due "now".
func placementValue(t *model.Task, cursor time.Time) (float64, bool) {
	minutesLeft := t.DeadlineOr(cursor).Sub(cursor).Minutes()
	if minutesLeft < float64(t.Duration) {
		return math.Inf(-1), false
	}
	slack := math.Max(minutesLeft-float64(t.Duration), 1)
	return float64(t.EffectiveImportance()) / slack, true
}
