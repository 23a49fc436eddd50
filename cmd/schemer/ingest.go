// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperr "github.com/vishnuvardhanreddythornala/scheme-research/pkg/errors"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [url ...]",
		Short: "Ingest scheme URLs and PDF files into the corpus",
		Long:  "Fetch each URL (or read each --pdf file), chunk and embed the text, and store it in the vector index.",
		RunE:  runIngest,
	}

	cmd.Flags().StringSlice("pdf", nil, "path to a PDF file to ingest (repeatable)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	pdfPaths, _ := cmd.Flags().GetStringSlice("pdf")
	if len(args) == 0 && len(pdfPaths) == 0 {
		return apperr.New(apperr.CodeCLIInputInvalid, "provide at least one URL or --pdf file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := wireApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	total := 0

	for _, url := range args {
		res, err := app.Engine.IngestURL(ctx, url)
		if err != nil {
			return err
		}
		total += res.Chunks
		fmt.Fprintf(out, "ingested %s (%d chunks)\n", res.Document.Source, res.Chunks)
	}

	for _, path := range pdfPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return apperr.Errorf(apperr.CodeCLIInputInvalid, "reading %s: %w", path, err)
		}
		res, err := app.Engine.IngestPDF(ctx, filepath.Base(path), data)
		if err != nil {
			return err
		}
		total += res.Chunks
		fmt.Fprintf(out, "ingested %s (%d chunks)\n", res.Document.Source, res.Chunks)
	}

	fmt.Fprintf(out, "done: %d chunks indexed\n", total)
	return nil
}
