package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/goal-qlearner/core"
	"github.com/zeu5/goal-qlearner/journal"
)

func JournalCommand() *cobra.Command {
	var limit int
	var goal string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List journaled training runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.Journal == "" {
				return errors.New("no journal configured, set --journal or QLEARNER_JOURNAL")
			}
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			store, err := journal.NewStore(flags.Journal)
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []journal.Entry
			if goal != "" {
				g, err := core.ParseGoal(goal)
				if err != nil {
					return err
				}
				entries, err = store.ForGoal(ctx, g)
				if err != nil {
					return err
				}
			} else {
				entries, err = store.Recent(ctx, limit)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				status := "ok"
				if e.Error != "" {
					status = "error: " + e.Error
				}
				fmt.Fprintf(out, "%s %s goal=%s episodes=%d/%d steps=%d reached=%v %s\n",
					e.StartedAt.Format("2006-01-02T15:04:05Z07:00"), e.RunID, e.GoalKey,
					e.EpisodesRun, e.Episodes, e.TotalSteps, e.GoalReached, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to list")
	cmd.Flags().StringVar(&goal, "goal", "", "Only list runs for this goal")
	return cmd
}
