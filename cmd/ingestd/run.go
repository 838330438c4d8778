package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/ingest"
)

func runCommand() *cobra.Command {
	var dryRun bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Perform a single ingestion run and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), dryRun, asJSON)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"use in-memory stores and skip event publishing")
	cmd.Flags().BoolVar(&asJSON, "json", false,
		"print the run report as JSON instead of a table")
	return cmd
}

func runOnce(ctx context.Context, dryRun, asJSON bool) error {
	a, err := newApp(ctx, dryRun)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.ingester.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	}

	fmt.Printf("run %s finished in %s\n", report.RunID, report.Duration)
	renderReport(os.Stdout, report)
	return nil
}

// renderReport writes the per-source outcome as a formatted table.
func renderReport(out io.Writer, report *ingest.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Fetched", "Accepted", "Rejected", "Published", "Errors"})

	var fetched, accepted, rejected, published, errs int
	for _, s := range report.Sources {
		t.AppendRow(table.Row{s.Source, s.Fetched, s.Accepted, s.Rejected, s.Published, s.Errors})
		fetched += s.Fetched
		accepted += s.Accepted
		rejected += s.Rejected
		published += s.Published
		errs += s.Errors
	}
	if len(report.Sources) > 1 {
		t.AppendFooter(table.Row{"Total", fetched, accepted, rejected, published, errs})
	}
	t.Render()
}
