package scheduler

import (
	"time"

	"github.com/me/taskflow/pkg/model"
)

// CalculateMetrics summarizes a schedule.
//
// An empty schedule yields all-zero metrics for every strategy. For the
// back-to-back schedules the strategies produce, Makespan equals
// TotalDuration.
func CalculateMetrics(scheduled []model.ScheduledTask) model.Metrics {
	if len(scheduled) == 0 {
		return model.Metrics{}
	}

	var total, importance int
	for i := range scheduled {
		total += scheduled[i].Duration
		importance += scheduled[i].EffectiveImportance()
	}

	first, last := scheduled[0], scheduled[len(scheduled)-1]
	return model.Metrics{
		TotalDuration:   total,
		Makespan:        int(last.ScheduledEnd.Sub(first.ScheduledStart) / time.Minute),
		EfficiencyScore: float64(importance) / float64(len(scheduled)),
	}
}
