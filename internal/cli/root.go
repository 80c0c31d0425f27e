package cli

import (
	"log/slog"
	"os"

	"github.com/me/taskflow/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagServer    string
	flagUser      string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *Client
)

// defaultServer returns the default server URL, checking TASKFLOW_SERVER env var first.
func defaultServer() string {
	if s := os.Getenv("TASKFLOW_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// defaultUser returns the user whose stored tasks the task commands act on.
func defaultUser() string {
	if u := os.Getenv("TASKFLOW_USER"); u != "" {
		return u
	}
	return "me"
}

// NewRootCmd creates the root cobra command for the taskflow CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Deadline- and dependency-aware task scheduling",
		Long:  "taskflow orders tasks with one of several scheduling strategies, locally or through a taskflow server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.Options{Level: flagLogLevel, Format: flagLogFormat})
			client = NewClient(flagServer, logger)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaultServer(), "taskflow server URL (or TASKFLOW_SERVER env)")
	root.PersistentFlags().StringVar(&flagUser, "user", defaultUser(), "User id for stored tasks (or TASKFLOW_USER env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newScheduleCmd(),
		newStrategiesCmd(),
		newValidateCmd(),
		newAnalyzeCmd(),
		newTasksCmd(),
		newPlanCmd(),
	)

	return root
}
