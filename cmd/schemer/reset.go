// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Schemer Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the corpus and uploaded files",
		Long:  "Remove all documents, chunks, and vectors from the store and delete saved PDF uploads.",
		RunE:  runReset,
	}
}

func runReset(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := wireApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := app.Engine.Reset(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "corpus cleared")
	return nil
}
