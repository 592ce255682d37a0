// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/triplemine/internal/export"
	"github.com/pdiddy/triplemine/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Serialize the assertion set to a triple format",
	Long: `Export writes the full assertion set in canonical order to one file
per invocation. Identical assertion sets always produce byte-identical
output, so exports are safe to diff and commit.

Supported formats: turtle (reified RDF), json, yaml, nanopub.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	namespace, _ := cmd.Flags().GetString("namespace")
	outputDir := stringSetting(cmd, "output", "export.output_dir", "export")
	storePath := stringSetting(cmd, "store", "store_path", ".triplemine/assertions.db")

	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	assertions, err := db.All(context.Background())
	if err != nil {
		return err
	}

	data, err := export.Export(assertions, export.Format(format), namespace)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(outputDir, "assertions"+export.Extensions[export.Format(format)])
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d assertions to %s\n", len(assertions), path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "turtle", "export format: turtle, json, yaml, or nanopub")
	exportCmd.Flags().String("output", "", "output directory (default: export)")
	exportCmd.Flags().String("store", "", "assertion database path (default: .triplemine/assertions.db)")
	exportCmd.Flags().String("namespace", "", "prefix for unmapped terms in Turtle output (default: tm)")

	rootCmd.AddCommand(exportCmd)
}
