package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/goal-qlearner/cmd/common"
)

var (
	flags       *common.Flags = common.DefaultFlags()
	environment string
	savePath    string
	journalPath string
	charts      bool
	logLevel    string

	seed        uint64
	stepTimeout int
	maxSteps    int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&environment, "env", flags.Environment, "Environment descriptor")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().StringVar(&journalPath, "journal", envOr("QLEARNER_JOURNAL", flags.Journal), "SQLite training journal (empty disables)")
	cmd.PersistentFlags().BoolVar(&charts, "charts", flags.Charts, "Render HTML charts under the save path")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")

	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Random seed (0 seeds from the clock)")
	cmd.PersistentFlags().IntVar(&stepTimeout, "step-timeout", int(flags.StepTimeout.Seconds()), "Timeout in seconds for each environment call (0 disables)")
	cmd.PersistentFlags().IntVar(&maxSteps, "max-steps", flags.MaxSteps, "Steps per episode (0 uses the number of states)")
}

func UpdateFlags() {
	flags.Environment = environment
	flags.SavePath = savePath
	flags.Journal = journalPath
	flags.Charts = charts
	flags.LogLevel = logLevel

	flags.Seed = seed
	flags.StepTimeout = time.Duration(stepTimeout) * time.Second
	flags.MaxSteps = maxSteps
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
