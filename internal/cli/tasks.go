package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/me/taskflow/pkg/model"
	"github.com/spf13/cobra"
)

// parseDeadline accepts an RFC 3339 timestamp or a duration from now, like "90m".
func parseDeadline(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q: want RFC 3339 time or duration", s)
	}
	return now.Add(d).UTC(), nil
}

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the stored tasks of --user",
	}
	cmd.AddCommand(
		newTasksListCmd(),
		newTasksShowCmd(),
		newTasksAddCmd(),
		newTasksUpdateCmd(),
		newTasksDeleteCmd(),
		newTasksDependCmd(),
		newTasksUndependCmd(),
	)
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var (
		status string
		limit  int
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if status != "" {
				q.Set("status", status)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}
			path := userPath("tasks")
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			resp, err := client.Get(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			var recs []model.TaskRecord
			if err := json.Unmarshal(resp.Data, &recs); err != nil {
				return fmt.Errorf("parse tasks: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			printTasks(cmd.OutOrStdout(), recs, resp.Pagination)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, in_progress, completed, cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of tasks")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of tasks to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw tasks as JSON")
	return cmd
}

func newTasksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one stored task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get(cmd.Context(), userPath("tasks", args[0]))
			if err != nil {
				return fmt.Errorf("get task: %w", err)
			}
			var rec model.TaskRecord
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return fmt.Errorf("parse task: %w", err)
			}
			printTask(cmd.OutOrStdout(), &rec)
			return nil
		},
	}
}

func newTasksAddCmd() *cobra.Command {
	var (
		task     model.Task
		priority string
		energy   string
		deadline string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Store a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Name = args[0]
			task.Priority = model.Level(priority)
			task.EnergyLevel = model.Level(energy)
			if deadline != "" {
				dl, err := parseDeadline(deadline, time.Now())
				if err != nil {
					return err
				}
				task.Deadline = &dl
			}

			resp, err := client.Post(cmd.Context(), userPath("tasks"), task)
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			var rec model.TaskRecord
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return fmt.Errorf("parse task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task created: %s\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&task.Description, "description", "", "Task description")
	cmd.Flags().IntVarP(&task.Importance, "importance", "i", 0, "Importance, 1 (low) to 5 (high)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority level (low, medium, high)")
	cmd.Flags().StringVar(&energy, "energy", "", "Energy level (low, medium, high)")
	cmd.Flags().IntVarP(&task.Duration, "duration", "d", 0, "Duration in minutes")
	cmd.Flags().IntVar(&task.TimeEstimate, "estimate", 0, "Time estimate in minutes")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline as RFC 3339 time or duration from now (e.g. 2h)")
	cmd.Flags().StringSliceVar(&task.Dependencies, "depends-on", nil, "Ids of tasks this one waits on")
	return cmd
}

func newTasksUpdateCmd() *cobra.Command {
	var (
		name       string
		importance int
		priority   string
		duration   int
		deadline   string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change fields or the status of a stored task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("importance") {
				patch.Importance = &importance
			}
			if flags.Changed("priority") {
				lvl := model.Level(priority)
				patch.Priority = &lvl
			}
			if flags.Changed("duration") {
				patch.Duration = &duration
			}
			if flags.Changed("deadline") {
				dl, err := parseDeadline(deadline, time.Now())
				if err != nil {
					return err
				}
				patch.Deadline = &dl
			}
			if flags.Changed("status") {
				st := model.TaskStatus(status)
				patch.Status = &st
			}

			resp, err := client.Patch(cmd.Context(), userPath("tasks", args[0]), patch)
			if err != nil {
				return fmt.Errorf("update task: %w", err)
			}
			var rec model.TaskRecord
			if err := json.Unmarshal(resp.Data, &rec); err != nil {
				return fmt.Errorf("parse task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s updated (status: %s)\n", rec.ID, rec.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVarP(&importance, "importance", "i", 0, "New importance")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority level")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "New duration in minutes")
	cmd.Flags().StringVar(&deadline, "deadline", "", "New deadline")
	cmd.Flags().StringVar(&status, "status", "", "New status (in_progress, completed, cancelled)")
	return cmd
}

func newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a stored task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete(cmd.Context(), userPath("tasks", args[0])); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s deleted\n", args[0])
			return nil
		},
	}
}

func newTasksDependCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "depend <task-id> <dependency-id>",
		Short: "Make a task wait on another task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := model.Dependency{DependencyID: args[1]}
			if _, err := client.Post(cmd.Context(), userPath("tasks", args[0], "dependencies"), body); err != nil {
				return fmt.Errorf("add dependency: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", args[0], args[1])
			return nil
		},
	}
}

func newTasksUndependCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undepend <task-id> <dependency-id>",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.Delete(cmd.Context(), userPath("tasks", args[0], "dependencies", args[1])); err != nil {
				return fmt.Errorf("remove dependency: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s no longer depends on %s\n", args[0], args[1])
			return nil
		},
	}
}
