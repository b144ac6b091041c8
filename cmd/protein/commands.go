// Package main is the entry point for the protein tracker.
// This file contains the day-tracking subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"protein/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether today is done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printDay(out, a.store)
			fmt.Fprintln(out, a.store.DailyQuote())
			fmt.Fprintf(out, "Streak: %s\n", days(a.store.Streak()))
			if last, ok := a.store.LastCompletion(); ok {
				fmt.Fprintf(out, "Last drink: %s at %s\n", last.Date, last.Time)
			}
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Flip today's completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			done := a.store.Toggle()
			a.tracked(done)
			printDay(cmd.OutOrStdout(), a.store)
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "done",
		Aliases: []string{"drink"},
		Short:   "Mark today as done",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.IsCompletedToday() {
				a.store.SetCompleted(true)
				a.tracked(true)
			}
			printDay(cmd.OutOrStdout(), a.store)
			return nil
		},
	}
}

func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Mark today as not done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.SetCompleted(false)
			printDay(cmd.OutOrStdout(), a.store)
			return nil
		},
	}
}

func newStreakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the current and longest streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current: %s\n", days(a.store.Streak()))
			fmt.Fprintf(out, "Longest: %s\n", days(storage.LongestStreak(a.store.ViewHistory())))
			return nil
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	var (
		n      int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show completion for the last few days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				n = a.cfg.LogDays
			}
			if n <= 0 {
				return fmt.Errorf("--days must be positive, got %d", n)
			}
			entries := a.store.RecentLog(n)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}
			for _, e := range entries {
				mark := "○"
				if e.Completed {
					mark = "●"
				}
				fmt.Fprintf(out, "%s %s %s\n", e.Day, e.Day.Weekday().String()[:3], mark)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "days", "n", storage.DefaultLogDays, "Number of days to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List every completed day on record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history := a.store.History()
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, history)
			}
			if len(history) == 0 {
				fmt.Fprintln(out, "No completed days yet.")
				return nil
			}
			for _, k := range history {
				fmt.Fprintln(out, k)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newReconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Fold today's flag into history and save it",
		Long: `Reconcile makes history agree with today's completion flag and writes
the result back. It runs at every startup unless --no-reconcile is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Reconcile(); err != nil {
				return fmt.Errorf("reconcile failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History holds %s.\n", days(len(a.store.ViewHistory())))
			return nil
		},
	}
}

func newLastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent drink time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			last, ok := a.store.LastCompletion()
			if !ok {
				fmt.Fprintln(out, "No drinks logged yet.")
				return nil
			}
			fmt.Fprintf(out, "%s at %s\n", last.Date, last.Time)
			return nil
		},
	}
}

// tracked sends the completion notification; failures are only logged.
func (a *app) tracked(done bool) {
	if !done {
		return
	}
	if err := a.alerts.Tracked(a.store.Streak()); err != nil {
		a.logger.Warn("notification failed", zap.Error(err))
	}
}

func printDay(out io.Writer, store *storage.Storage) {
	state := "not yet"
	if store.IsCompletedToday() {
		state = "done"
	}
	fmt.Fprintf(out, "Today (%s): %s\n", store.Today(), state)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
