package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var logger = slog.Default()

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "qlearner",
		Short:         "Train goal-directed Q tables and query greedy actions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			var level slog.Level
			if err := level.UnmarshalText([]byte(flags.LogLevel)); err != nil {
				return err
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		DemoCommand(),
		JournalCommand(),
	)

	return cmd
}

// interruptContext is cancelled on SIGINT or when done is closed.
func interruptContext() (context.Context, chan struct{}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, doneCh
}
