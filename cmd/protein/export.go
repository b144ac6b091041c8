// Package main is the entry point for the protein tracker.
// This file contains the export subcommand.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"protein/internal/fsutil"
	"protein/internal/reports"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		n      int
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a report",
		Long: `Generates a report of the current streak and the last few days.
Reports can be output as Markdown (human-readable) or JSON (machine-readable).`,
		Example: `  protein export
  protein export --days 30 --format json
  protein export --output report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "markdown", "md", "json":
			default:
				return fmt.Errorf("invalid format %q; use 'markdown' or 'json'", format)
			}
			if !cmd.Flags().Changed("days") {
				n = a.cfg.LogDays
			}

			summary, err := reports.NewGenerator(a.store).Generate(n)
			if err != nil {
				return err
			}

			var data []byte
			if format == "json" {
				data, err = reports.FormatJSON(summary)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
			} else {
				data = []byte(reports.FormatMarkdown(summary))
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0700); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := fsutil.WriteFileAtomic(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json")
	cmd.Flags().IntVarP(&n, "days", "n", 7, "Number of days covered")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
