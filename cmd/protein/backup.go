// Package main is the entry point for the protein tracker.
// This file contains the backup and restore subcommands.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"protein/internal/backup"
	"protein/internal/storage"

	"github.com/spf13/cobra"
)

func (a *app) backupManager() *backup.Manager {
	m := backup.NewManager(a.handle, a.cfg.GetDataDir(), version, storage.StorageKey)
	m.SetRestorer(storage.StorageKey, a.store.Import)
	return m
}

func newBackupCmd(a *app) *cobra.Command {
	var list, prune bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups",
		Long: `Creates a timestamped snapshot of the tracker record.
Backups are stored in <data_dir>/backups/ and can be restored later.`,
		Example: `  protein backup
  protein backup --list
  protein backup --prune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := a.backupManager()
			out := cmd.OutOrStdout()
			if list {
				return listBackups(out, manager)
			}
			if err := createBackup(out, manager); err != nil {
				return err
			}
			if prune {
				n, err := manager.Prune(a.cfg.Backup.Keep)
				if err != nil {
					return fmt.Errorf("failed to prune backups: %w", err)
				}
				if n > 0 {
					fmt.Fprintf(out, "  Pruned %d old backup(s), keeping %d\n", n, a.cfg.Backup.Keep)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available backups")
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete old backups beyond backup.keep")
	return cmd
}

// createBackup creates a new backup and displays the result.
func createBackup(out io.Writer, manager *backup.Manager) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("failed to read backup info: %w", err)
	}

	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  %s\n", formatStats(info.Stats))
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

// listBackups lists all available backups.
func listBackups(out io.Writer, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'protein backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   %s\n", b.Name, formatAge(b.CreatedAt), formatStats(b.Stats))
	}
	return nil
}

func formatStats(stats map[string]int) string {
	return fmt.Sprintf("Days: %d, Drinks logged: %d",
		stats[storage.StorageKey+".history"], stats[storage.StorageKey+".drinkTimestamps"])
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return ago(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return ago(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return ago(int(d.Hours()/24), "day")
	default:
		return ago(int(d.Hours()/24/7), "week")
	}
}

func ago(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func newRestoreCmd(a *app) *cobra.Command {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the record from a backup",
		Long: `Restores the tracker record from a backup. A safety backup of the
current data is taken first.`,
		Example: `  protein restore 2025-12-15_143022_000
  protein restore --latest
  protein restore --force --latest`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := a.backupManager()
			out := cmd.OutOrStdout()

			var name string
			switch {
			case latest:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("failed to list backups: %w", err)
				}
				if len(backups) == 0 {
					return fmt.Errorf("no backups available")
				}
				name = backups[0].Name
			case len(args) == 1:
				name = args[0]
			default:
				return fmt.Errorf("no backup specified; use 'protein restore NAME' or 'protein restore --latest'")
			}

			info, err := manager.GetBackup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  %s\n\n", formatStats(info.Stats))

			if !force {
				ok, err := confirm(cmd.InOrStdin(), out, "⚠ This will overwrite your current data.\nContinue? [y/N] ")
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				if !ok {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			fmt.Fprintln(out, "✓ Creating safety backup first...")
			if err := manager.Restore(name); err != nil {
				return fmt.Errorf("failed to restore backup: %w", err)
			}
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "Restore from the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
