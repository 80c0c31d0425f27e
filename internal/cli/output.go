package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/me/taskflow/pkg/model"
)

// minutes renders a minute count as "1h30m" or "45m".
func minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// slack describes how far ahead of its deadline a task finishes.
func slack(end time.Time, deadline *time.Time) string {
	if deadline == nil {
		return "-"
	}
	if end.Equal(*deadline) {
		return "on time"
	}
	return humanize.RelTime(end, *deadline, "early", "late")
}

func printSchedule(w io.Writer, resp *model.ScheduleResponse) {
	if len(resp.ScheduledTasks) == 0 {
		fmt.Fprintf(w, "Strategy %s scheduled no tasks.\n", resp.Strategy)
	} else {
		fmt.Fprintf(w, "%-3s  %-20s  %-28s  %-5s  %-5s  %-8s  %s\n", "#", "ID", "NAME", "START", "END", "DURATION", "DEADLINE")
		fmt.Fprintf(w, "%-3s  %-20s  %-28s  %-5s  %-5s  %-8s  %s\n", "-", "--", "----", "-----", "---", "--------", "--------")
		for i, st := range resp.ScheduledTasks {
			fmt.Fprintf(w, "%-3d  %-20s  %-28s  %-5s  %-5s  %-8s  %s\n",
				i+1, st.ID, truncate(st.Name, 28),
				st.ScheduledStart.Format("15:04"), st.ScheduledEnd.Format("15:04"),
				minutes(st.Duration), slack(st.ScheduledEnd, st.Deadline))
		}
	}

	fmt.Fprintf(w, "\nStrategy:   %s\n", resp.Strategy)
	fmt.Fprintf(w, "Total:      %s\n", minutes(resp.TotalDuration))
	fmt.Fprintf(w, "Makespan:   %s\n", minutes(resp.Makespan))
	fmt.Fprintf(w, "Efficiency: %s\n", humanize.FtoaWithDigits(resp.EfficiencyScore, 2))
	if len(resp.Unscheduled) > 0 {
		fmt.Fprintf(w, "Skipped:    %s\n", strings.Join(resp.Unscheduled, ", "))
	}
}

func printStrategies(w io.Writer, infos []model.StrategyInfo) {
	fmt.Fprintf(w, "%-20s  %-5s  %s\n", "STRATEGY", "DEPS", "DESCRIPTION")
	fmt.Fprintf(w, "%-20s  %-5s  %s\n", "--------", "----", "-----------")
	for _, info := range infos {
		deps := "no"
		if info.UsesDependencies {
			deps = "yes"
		}
		fmt.Fprintf(w, "%-20s  %-5s  %s\n", info.ID, deps, info.Description)
	}
}

func printSuggestions(w io.Writer, suggestions []model.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No tasks to analyze.")
		return
	}
	for _, s := range suggestions {
		fmt.Fprintf(w, "%-10s  %s: %s\n", strings.ToUpper(string(s.Status)), s.Task, s.Reason)
		if len(s.Actions) > 0 {
			fmt.Fprintf(w, "            actions: %s\n", strings.Join(s.Actions, ", "))
		}
		for _, sub := range s.Subtasks {
			fmt.Fprintf(w, "            - %s (%s)\n", sub.Name, minutes(sub.Duration))
		}
	}
}

func printTasks(w io.Writer, recs []model.TaskRecord, pg *model.Pagination) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprintf(w, "%-42s  %-11s  %-24s  %-3s  %-8s  %-16s  %s\n", "ID", "STATUS", "NAME", "IMP", "DURATION", "DUE", "DEPENDS ON")
	fmt.Fprintf(w, "%-42s  %-11s  %-24s  %-3s  %-8s  %-16s  %s\n", "--", "------", "----", "---", "--------", "---", "----------")
	for _, rec := range recs {
		due := "-"
		if rec.Deadline != nil {
			due = humanize.Time(*rec.Deadline)
		}
		fmt.Fprintf(w, "%-42s  %-11s  %-24s  %-3d  %-8s  %-16s  %s\n",
			rec.ID, rec.Status, truncate(rec.Name, 24), rec.EffectiveImportance(),
			minutes(rec.Duration), due, strings.Join(rec.Dependencies, ","))
	}
	if pg != nil && pg.HasMore {
		fmt.Fprintf(w, "\n(%s of %s shown)\n", humanize.Comma(int64(len(recs))), humanize.Comma(int64(pg.Total)))
	}
}

func printTask(w io.Writer, rec *model.TaskRecord) {
	fmt.Fprintf(w, "Task: %s\n", rec.ID)
	fmt.Fprintf(w, "  Name:       %s\n", rec.Name)
	fmt.Fprintf(w, "  Status:     %s\n", rec.Status)
	fmt.Fprintf(w, "  Importance: %d\n", rec.EffectiveImportance())
	fmt.Fprintf(w, "  Duration:   %s\n", minutes(rec.Duration))
	if rec.Deadline != nil {
		fmt.Fprintf(w, "  Deadline:   %s (%s)\n", rec.Deadline.Format(time.RFC3339), humanize.Time(*rec.Deadline))
	}
	if len(rec.Dependencies) > 0 {
		fmt.Fprintf(w, "  Depends on: %s\n", strings.Join(rec.Dependencies, ", "))
	}
	fmt.Fprintf(w, "  Updated:    %s\n", humanize.Time(rec.UpdatedAt))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
