package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/me/taskflow/internal/scheduler"
	"github.com/me/taskflow/internal/service"
	"github.com/me/taskflow/pkg/model"
	"github.com/spf13/cobra"
)

// localService builds an in-process scheduling service for --local runs.
func localService() *service.Service {
	return service.New(scheduler.NewDefaultRegistry(scheduler.DefaultConfig(), logger), logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newScheduleCmd() *cobra.Command {
	var (
		strategy string
		local    bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "schedule <tasks.yaml>",
		Short: "Order a batch of tasks with a scheduling strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := LoadTaskFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded tasks", "path", args[0], "count", len(tasks))

			var resp *model.ScheduleResponse
			if local {
				resp, err = localService().Schedule(cmd.Context(), model.StrategyID(strategy), tasks)
				if err != nil {
					return err
				}
			} else {
				apiResp, err := client.Post(cmd.Context(), "/api/v1/schedule/"+strategy, model.ScheduleRequest{Tasks: tasks})
				if err != nil {
					return fmt.Errorf("schedule: %w", err)
				}
				resp = new(model.ScheduleResponse)
				if err := json.Unmarshal(apiResp.Data, resp); err != nil {
					return fmt.Errorf("parse schedule: %w", err)
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printSchedule(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(model.StrategyGreedy), "Strategy ("+strategyNames()+")")
	cmd.Flags().BoolVar(&local, "local", false, "Schedule in-process instead of calling the server")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw schedule as JSON")
	return cmd
}

func strategyNames() string {
	names := make([]string, len(model.Strategies))
	for i, id := range model.Strategies {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

func newStrategiesCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the available scheduling strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []model.StrategyInfo
			if local {
				infos = localService().Strategies()
			} else {
				resp, err := client.Get(cmd.Context(), "/api/v1/strategies")
				if err != nil {
					return fmt.Errorf("list strategies: %w", err)
				}
				if err := json.Unmarshal(resp.Data, &infos); err != nil {
					return fmt.Errorf("parse strategies: %w", err)
				}
			}
			printStrategies(cmd.OutOrStdout(), infos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "List in-process strategies instead of calling the server")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "validate <tasks.yaml>",
		Short: "Check a task batch for field errors, unknown dependencies and cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := LoadTaskFile(args[0])
			if err != nil {
				return err
			}

			var order []string
			if local {
				order, err = localService().Validate(tasks)
				if err != nil {
					return err
				}
			} else {
				resp, err := client.Post(cmd.Context(), "/api/v1/validate", model.ScheduleRequest{Tasks: tasks})
				if err != nil {
					return fmt.Errorf("validate: %w", err)
				}
				var result struct {
					Order []string `json:"order"`
				}
				if err := json.Unmarshal(resp.Data, &result); err != nil {
					return fmt.Errorf("parse validation: %w", err)
				}
				order = result.Order
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %d tasks\n", len(tasks))
			if len(order) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Order: %s\n", strings.Join(order, " -> "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Validate in-process instead of calling the server")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "analyze [tasks.yaml]",
		Short: "Report which tasks can still finish before their deadlines",
		Long:  "With a file, analyzes that batch. Without one, analyzes the stored open tasks of --user.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var suggestions []model.Suggestion
			switch {
			case len(args) == 1:
				tasks, err := LoadTaskFile(args[0])
				if err != nil {
					return err
				}
				if local {
					suggestions, err = localService().Analyze(tasks)
					if err != nil {
						return err
					}
					break
				}
				resp, err := client.Post(cmd.Context(), "/api/v1/analysis", model.ScheduleRequest{Tasks: tasks})
				if err != nil {
					return fmt.Errorf("analyze: %w", err)
				}
				if err := json.Unmarshal(resp.Data, &suggestions); err != nil {
					return fmt.Errorf("parse analysis: %w", err)
				}
			case local:
				return fmt.Errorf("--local needs a task file")
			default:
				resp, err := client.Get(cmd.Context(), userPath("analysis"))
				if err != nil {
					return fmt.Errorf("analyze: %w", err)
				}
				if err := json.Unmarshal(resp.Data, &suggestions); err != nil {
					return fmt.Errorf("parse analysis: %w", err)
				}
			}

			printSuggestions(cmd.OutOrStdout(), suggestions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Analyze in-process instead of calling the server")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var (
		strategy string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule the stored open tasks of --user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiResp, err := client.Post(cmd.Context(), userPath("schedule", strategy), nil)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			var resp model.ScheduleResponse
			if err := json.Unmarshal(apiResp.Data, &resp); err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), &resp)
			}
			printSchedule(cmd.OutOrStdout(), &resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(model.StrategyGreedy), "Strategy ("+strategyNames()+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw schedule as JSON")
	return cmd
}

// userPath joins parts under the API path of the --user account.
func userPath(parts ...string) string {
	return "/api/v1/users/" + flagUser + "/" + strings.Join(parts, "/")
}
