// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/triplemine/internal/ground"
	"github.com/pdiddy/triplemine/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report document counts and grounding coverage",
	Long: `Stats summarizes the assertion database: how many documents were
processed or failed, how many assertions were extracted, and what fraction
of subjects, predicates, and objects carry ontology mappings.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	storePath := stringSetting(cmd, "store", "store_path", ".triplemine/assertions.db")

	db, err := store.Open(storePath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	summary, err := db.Summarize(ctx)
	if err != nil {
		return err
	}
	assertions, err := db.All(ctx)
	if err != nil {
		return err
	}
	stats := ground.MappingStats(assertions)

	w := os.Stdout
	fmt.Fprintf(w, "Documents:  %d (%d processed, %d failed)\n",
		summary.Documents, summary.Processed, summary.Failed)
	fmt.Fprintf(w, "Assertions: %d\n", summary.Assertions)
	fmt.Fprintf(w, "Grounding coverage:\n")
	fmt.Fprintf(w, "  subjects:   %5.1f%%\n", stats.SubjectRate()*100)
	fmt.Fprintf(w, "  predicates: %5.1f%%\n", stats.PredicateRate()*100)
	fmt.Fprintf(w, "  objects:    %5.1f%%\n", stats.ObjectRate()*100)
	return nil
}

func init() {
	statsCmd.Flags().String("store", "", "assertion database path (default: .triplemine/assertions.db)")

	rootCmd.AddCommand(statsCmd)
}
