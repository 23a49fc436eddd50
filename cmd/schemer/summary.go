// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vishnuvardhanreddythornala/scheme-research/internal/engine"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate the four-section scheme summary",
		Long:  "Ask the fixed benefit, process, eligibility, and document questions against the ingested corpus and print each section.",
		RunE:  runSummary,
	}

	cmd.Flags().String("model", "", "override model as provider/model")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	modelRef, _ := cmd.Flags().GetString("model")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := wireApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	summary, err := app.Engine.Summarize(cmd.Context(), modelRef)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model: %s\n\n", summary.Model)
	for _, section := range summary.Sections {
		fmt.Fprintf(out, "## %s\n\n%s\n\n", section.Title, section.Content)
	}
	printSources(out, summary.Sources)
	return nil
}

func printSources(out io.Writer, sources engine.Sources) {
	if len(sources.URLs) == 0 && len(sources.PDFs) == 0 {
		return
	}

	fmt.Fprintln(out, "sources:")
	for _, s := range sources.URLs {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	for _, s := range sources.PDFs {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}
