// Package main is the entry point for the protein tracker.
// It loads configuration, opens the record store, and either runs a
// subcommand or starts the TUI.
package main

import (
	"fmt"
	"os"

	"protein/internal/config"
	"protein/internal/daykey"
	"protein/internal/kv"
	"protein/internal/notify"
	"protein/internal/storage"
	"protein/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by every subcommand once the root pre-run finished.
type app struct {
	verbose     bool
	configPath  string
	noReconcile bool

	logger *zap.Logger
	cfg    *config.Config
	handle kv.Handle
	store  *storage.Storage
	alerts *notify.Alerts
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "protein",
		Short: "Track one daily protein drink",
		Long: `protein tracks whether you had your protein drink today.

A day starts at the configured reset hour (02:00 by default), so a drink
logged shortly after midnight still counts for the previous day.

Run without arguments to start the interactive tracker.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(a.store, ui.NewStylesFromTheme(&a.cfg.Theme), &ui.AppConfig{
				Keys:    &a.cfg.Keys,
				LogDays: a.cfg.LogDays,
				Alerts:  a.alerts,
			})
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: "+config.Path()+")")
	root.PersistentFlags().BoolVar(&a.noReconcile, "no-reconcile", false, "Skip reconciling today's flag into history at startup")

	root.AddCommand(
		newStatusCmd(a),
		newToggleCmd(a),
		newDoneCmd(a),
		newUndoCmd(a),
		newStreakCmd(a),
		newLogCmd(a),
		newHistoryCmd(a),
		newReconcileCmd(a),
		newLastCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newExportCmd(a),
	)
	return root
}

// setup builds the logger, loads config and opens the store.
func (a *app) setup() error {
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		// Validate already fell back to defaults for the bad fields.
		a.logger.Warn("invalid config values replaced with defaults", zap.Error(err))
	}

	dataDir := a.cfg.GetDataDir()
	a.handle, err = kv.Open(a.cfg.Backend, dataDir)
	if err != nil {
		return fmt.Errorf("failed to open %s store in %s: %w", a.cfg.Backend, dataDir, err)
	}
	a.logger.Debug("store opened",
		zap.String("backend", a.cfg.Backend),
		zap.String("data_dir", dataDir))

	a.store = storage.New(a.handle, a.logger.Named("storage"))
	if err := a.store.SetResetHour(a.cfg.ResetHour); err != nil {
		return err
	}
	if err := a.store.SetHistoryLimit(a.cfg.HistoryMaxDays); err != nil {
		return err
	}
	a.store.SetOnChange(func(day daykey.Key, completed bool) {
		a.logger.Debug("day updated", zap.Stringer("day", day), zap.Bool("completed", completed))
	})

	a.alerts = &notify.Alerts{
		Notifier: notify.New(),
		Enabled:  a.cfg.Notifications.Enabled,
		Sound:    a.cfg.Notifications.Sound,
		Reminder: a.cfg.Notifications.Reminder,
	}

	if !a.noReconcile {
		if err := a.store.Reconcile(); err != nil {
			a.logger.Warn("startup reconcile failed", zap.Error(err))
		}
	}
	return nil
}

func (a *app) teardown() {
	if a.handle != nil {
		if err := a.handle.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
