package scheduler

import (
	"fmt"
	"time"

	"github.com/me/taskflow/pkg/model"
)

// subtaskMinutes is the slice size suggested for tasks that cannot fit.
const subtaskMinutes = 60

// Analyze judges each task on its own against the time left until its
// deadline: impossible when it cannot finish in time, skip when it is low
// priority or low energy, feasible otherwise. Tasks are not ordered.
func Analyze(tasks []model.Task, now time.Time) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		left := t.DeadlineOr(now).Sub(now).Minutes()
		s := model.Suggestion{TaskID: t.ID, Task: t.Name, MinutesLeft: left}

		switch {
		case float64(t.Duration) > left:
			s.Status = model.FeasibilityImpossible
			s.Reason = fmt.Sprintf("Duration (%dm) > time left (%.0fm)", t.Duration, left)
			s.Actions = []string{"skip", "reschedule"}
			if t.Duration > subtaskMinutes {
				s.Subtasks = splitTask(t)
			}
		case t.PriorityLevel() == model.LevelLow || t.EnergyLevel == model.LevelLow:
			s.Status = model.FeasibilitySkip
			s.Reason = "Low priority or low energy"
		default:
			s.Status = model.FeasibilityFeasible
			s.Reason = fmt.Sprintf("Can be completed in time (%.0fm left)", left)
		}
		out = append(out, s)
	}
	return out
}

func splitTask(t *model.Task) []model.Subtask {
	var parts []model.Subtask
	for remaining, n := t.Duration, 1; remaining > 0; n++ {
		d := min(remaining, subtaskMinutes)
		parts = append(parts, model.Subtask{
			Name:     fmt.Sprintf("%s - Part %d", t.Name, n),
			Duration: d,
		})
		remaining -= d
	}
	return parts
}
