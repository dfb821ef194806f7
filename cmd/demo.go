package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/zeu5/goal-qlearner/analysis"
	"github.com/zeu5/goal-qlearner/cmd/common"
	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/envstub"
	"github.com/zeu5/goal-qlearner/journal"
	"github.com/zeu5/goal-qlearner/learner"
	"github.com/zeu5/goal-qlearner/policies"
	"github.com/zeu5/goal-qlearner/util"
)

func DemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the learner against a scripted grid lab",
	}

	cmd.AddCommand(
		demoTrainCommand(),
		demoStateCommand(),
	)

	return cmd
}

func demoTrainCommand() *cobra.Command {
	var goals common.GoalList
	var from common.StateList
	var allGoals bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train one Q table per goal and print greedy actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			// files are only written when asked for
			save := flags.Charts || cmd.Flags().Changed("save-path")
			if save {
				if err := flags.Record(); err != nil {
					logger.Warn("could not record config", "err", err)
				}
			}
			logger.Info("configuration", "fingerprint", flags.Fingerprint())

			ctx, doneCh := interruptContext()
			defer close(doneCh)

			out := cmd.OutOrStdout()
			tty := isTerminal(out)
			opts := []learner.Option{
				learner.WithLogger(logger),
				learner.WithRunConfig(flags.RunConfig()),
				learner.WithDump(out, tty),
			}

			policy, err := policies.ByName(flags.Policy)
			if err != nil {
				return err
			}
			opts = append(opts, learner.WithPolicy(policy))

			coverage := analysis.NewCoverageAnalyzer()
			tracePath := ""
			if save {
				tracePath = flags.SavePath
			}
			goalStats := analysis.NewGoalAnalyzer(tracePath)
			goalStats.SetLogger(logger)
			opts = append(opts,
				learner.WithAnalyzer("coverage", coverage),
				learner.WithAnalyzer("goals", goalStats),
			)

			if flags.Journal != "" {
				store, err := journal.NewStore(flags.Journal)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, learner.WithJournal(store))
			}

			var printer *util.TerminalPrinter
			if tty {
				printer = util.NewTerminalPrinter(out, 100*time.Millisecond)
				opts = append(opts, learner.WithProgress(printer.NewLine()))
				printer.Start(ctx)
			}

			l, err := learner.Init(&envstub.Constructor{}, flags.Environment, opts...)
			if err != nil {
				if printer != nil {
					printer.Stop()
				}
				return err
			}
			switch {
			case allGoals:
				goals = l.StateSpace().Goals()
			case len(goals) == 0:
				goals = append(goals, learner.DefaultGoal)
			}

			for _, goal := range goals {
				result, err := l.CalculateQ(ctx, flags.TrainParams(goal))
				if err != nil {
					if printer != nil {
						printer.Stop()
					}
					return err
				}
				fmt.Fprintf(out, "Goal %s: run %s, episodes %d, steps %d, reached %v\n",
					goal.Key(), result.RunID, result.EpisodesRun, result.TotalSteps, result.GoalReached)
			}
			if printer != nil {
				printer.Stop()
			}

			for _, goal := range goals {
				for _, state := range from {
					rec, err := l.GetActionFromState(goal, state)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Goal %s from %s: %s %v=%v (q=%.2f)\n",
						goal.Key(), state, rec.ActionTag, rec.PayloadTags, rec.Payload, rec.Value)
				}
			}

			stats, _ := goalStats.DataSet().(map[string]*analysis.GoalStats)
			for key, s := range stats {
				fmt.Fprintf(out, "Goal %s: reached %d/%d runs, mean steps %.1f\n", key, s.Reached, s.Runs, s.MeanSteps)
			}
			fmt.Fprintf(out, "Unique states visited: %d/%d\n", coverage.UniqueStates(), l.StateSpace().Size())

			return compare(l, coverage)
		},
	}

	cmd.Flags().Var(&goals, "goal", "Goal to train, e.g. 2,3 (repeatable)")
	cmd.Flags().BoolVar(&allGoals, "all-goals", false, "Train every goal some state of the lab projects onto")
	cmd.Flags().Var(&from, "from", "State to query the greedy action for, e.g. 2,2 (repeatable)")
	cmd.Flags().IntVar(&flags.Episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.Flags().Float64Var(&flags.Alpha, "alpha", flags.Alpha, "Learning rate in [0,1]")
	cmd.Flags().Float64Var(&flags.Gamma, "gamma", flags.Gamma, "Discount factor in [0,1]")
	cmd.Flags().Float64Var(&flags.Epsilon, "epsilon", flags.Epsilon, "Exploration probability in [0,1]")
	cmd.Flags().Float64Var(&flags.Reward, "reward", flags.Reward, "Reward for reaching the goal")
	cmd.Flags().Float64Var(&flags.Temperature, "temperature", flags.Temperature, "Temperature of softmax exploration")
	cmd.Flags().StringVar(&flags.Policy, "policy", flags.Policy, "Exploration policy (egreedy, softmax, random)")

	return cmd
}

func demoStateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the lab's current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			l, err := learner.Init(&envstub.Constructor{}, flags.Environment,
				learner.WithLogger(logger),
				learner.WithRunConfig(flags.RunConfig()),
			)
			if err != nil {
				return err
			}
			state, err := l.GetCurrentLabState(ctx)
			if err != nil {
				return err
			}
			z1, z2, err := l.GetRelevantElementsFromState(state)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State: %s\n", state)
			fmt.Fprintf(out, "Relevant: (%d, %d)\n", z1, z2)
			fmt.Fprintf(out, "Goal %s achieved: %v\n", l.DefaultGoal().Key(), l.IsGoalStateAchieved(state))
			return nil
		},
	}
	return cmd
}

// compare hands the analyzers' datasets to the configured comparators.
func compare(l *learner.Learner, coverage *analysis.CoverageAnalyzer) error {
	comparators := []core.Comparator{analysis.NewNoOpComparator()}
	if flags.Charts {
		chart := analysis.NewChartComparator(flags.SavePath)
		states := make([]string, l.StateSpace().Size())
		for i := range states {
			s, _ := l.StateSpace().Describe(i)
			states[i] = s.String()
		}
		for _, key := range l.Registry().Goals() {
			goal, err := core.ParseGoal(key)
			if err != nil {
				return err
			}
			q, err := l.Registry().Lookup(goal)
			if err != nil {
				return err
			}
			chart.AddQTable(key, q, states, l.Catalog().Tags())
		}
		comparators = append(comparators, chart, analysis.NewCoverageComparator(flags.SavePath))
	}

	names := []string{flags.Environment}
	datasets := []core.DataSet{coverage.DataSet()}
	for _, c := range comparators {
		if err := c.Compare(names, datasets); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
