// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/triplemine/internal/cache"
	"github.com/pdiddy/triplemine/internal/docstore"
	"github.com/pdiddy/triplemine/pkg/types"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Remove cached extraction results",
	Long: `Clear-cache removes persisted extraction entries so the affected
documents are re-extracted on the next process run. By default every entry
is removed; --document limits the removal to one paper, named by its
document ID (the filename without extension).`,
	RunE: runClearCache,
}

func runClearCache(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("document")
	cacheDir := stringSetting(cmd, "cache-dir", "cache.cache_dir", ".triplemine/cache")

	mgr, err := cache.NewManager(types.CacheConfig{CacheDir: cacheDir}, nil)
	if err != nil {
		return err
	}

	fingerprint := ""
	if docID != "" {
		fp, err := fingerprintForDocument(cmd, docID)
		if err != nil {
			return err
		}
		fingerprint = fp
	}

	removed, err := mgr.Clear(fingerprint)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cache entr%s\n", removed, pluralY(removed))
	return nil
}

// fingerprintForDocument maps a document ID back to its cache key by
// re-fingerprinting the file in the paper directory.
func fingerprintForDocument(cmd *cobra.Command, docID string) (string, error) {
	pdfDir := stringSetting(cmd, "pdf-dir", "documents.pdf_dir", "papers")
	docs, err := docstore.New(types.DocumentStoreConfig{PDFDir: pdfDir}, nil)
	if err != nil {
		return "", err
	}
	list, err := docs.List()
	if err != nil {
		return "", err
	}
	for _, doc := range list {
		if doc.ID == docID {
			return doc.Fingerprint, nil
		}
	}
	return "", fmt.Errorf("document %q not found in %s", docID, pdfDir)
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func init() {
	clearCacheCmd.Flags().String("document", "", "limit removal to one document ID")
	clearCacheCmd.Flags().String("cache-dir", "", "extraction cache directory (default: .triplemine/cache)")
	clearCacheCmd.Flags().String("pdf-dir", "", "directory of source papers (default: papers)")

	rootCmd.AddCommand(clearCacheCmd)
}
