// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/pdiddy/triplemine/internal/cache"
	"github.com/pdiddy/triplemine/internal/docstore"
	"github.com/pdiddy/triplemine/internal/extract"
	"github.com/pdiddy/triplemine/internal/ground"
	"github.com/pdiddy/triplemine/internal/pipeline"
	"github.com/pdiddy/triplemine/internal/provenance"
	"github.com/pdiddy/triplemine/internal/store"
	"github.com/pdiddy/triplemine/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract, ground, and store assertions from a paper directory",
	Long: `Process scans the paper directory, extracts assertions from every
document without a cached result, grounds the terms against the configured
ontology lexicon, resolves paper metadata, and stores everything in the
assertion database.

Cached documents are replayed from the cache without re-extraction; use
--force to bypass the cache and reprocess everything. Interrupting the run
stops new documents from starting while in-flight documents finish cleanly.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	docs, err := docstore.New(cfg.Documents, nil)
	if err != nil {
		return err
	}

	cacheMgr, err := cache.NewManager(cfg.Cache, os.Stderr)
	if err != nil {
		return err
	}

	backend, err := extract.NewOpenAIExtractor(cfg.Extraction)
	if err != nil {
		return err
	}
	engine := extract.NewEngine(backend, cfg.Extraction, os.Stderr)

	lookup, err := ground.LoadLexicon(cfg.Grounding.LexiconPath)
	if err != nil {
		return err
	}
	grounder, err := ground.New(lookup, cfg.Grounding, os.Stderr)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	rps := cfg.Extraction.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Extraction.Burst
	if burst <= 0 {
		burst = 2
	}

	p := pipeline.New(pipeline.Deps{
		Docs:     docs,
		Cache:    cacheMgr,
		Engine:   engine,
		Grounder: grounder,
		Recorder: provenance.NewRecorder(pipeline.MethodVersion),
		Resolver: provenance.NewCrossrefResolver(cfg.Provenance),
		Store:    db,
		Limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		Log:      os.Stdout,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	force, _ := cmd.Flags().GetBool("force")

	summary, err := p.Run(ctx, pipeline.Options{Force: force, Workers: cfg.Workers})
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed processing", summary.Failed)
	}
	return nil
}

// pipelineConfig assembles the full pipeline configuration from flags, the
// config file, secrets, and built-in defaults.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	maxDocs, _ := cmd.Flags().GetInt("max-documents")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	rps, _ := cmd.Flags().GetFloat64("requests-per-second")

	apiKey, _ := cmd.Flags().GetString("api-key")
	mailto, _ := cmd.Flags().GetString("crossref-mailto")

	return types.PipelineConfig{
		Documents: types.DocumentStoreConfig{
			PDFDir:       stringSetting(cmd, "pdf-dir", "documents.pdf_dir", "papers"),
			MaxDocuments: maxDocs,
		},
		Cache: types.CacheConfig{
			CacheDir: stringSetting(cmd, "cache-dir", "cache.cache_dir", ".triplemine/cache"),
		},
		Extraction: types.ExtractionConfig{
			AIConfig: types.AIConfig{
				Model:      stringSetting(cmd, "model", "extraction.model", ""),
				APIKey:     secretDefault("openai-api-key", apiKey),
				BaseURL:    stringSetting(cmd, "base-url", "extraction.base_url", ""),
				MaxRetries: intSetting(cmd, "max-retries", "extraction.max_retries"),
			},
			RequestsPerSecond: rps,
			Burst:             intSetting(cmd, "burst", "extraction.burst"),
		},
		Grounding: types.GroundingConfig{
			Vocabularies: viper.GetStringSlice("grounding.vocabularies"),
			MinScore:     minScore,
			LexiconPath:  stringSetting(cmd, "lexicon", "grounding.lexicon_path", "lexicon.yaml"),
		},
		Provenance: types.ProvenanceConfig{
			CrossrefMailto: secretDefault("crossref-mailto", mailto),
		},
		StorePath: stringSetting(cmd, "store", "store_path", ".triplemine/assertions.db"),
		Workers:   intSetting(cmd, "workers", "workers"),
	}
}

func init() {
	processCmd.Flags().String("pdf-dir", "", "directory of source papers (default: papers)")
	processCmd.Flags().String("cache-dir", "", "extraction cache directory (default: .triplemine/cache)")
	processCmd.Flags().String("store", "", "assertion database path (default: .triplemine/assertions.db)")
	processCmd.Flags().String("lexicon", "", "ontology lexicon YAML path (default: lexicon.yaml)")
	processCmd.Flags().String("model", "", "extraction model identifier")
	processCmd.Flags().String("api-key", "", "extraction API key (default: .secrets/openai-api-key)")
	processCmd.Flags().String("base-url", "", "extraction API base URL override")
	processCmd.Flags().String("crossref-mailto", "", "contact email for the Crossref polite pool")
	processCmd.Flags().Bool("force", false, "bypass the cache and reprocess every document")
	processCmd.Flags().Int("workers", 0, "worker pool size (0 = default)")
	processCmd.Flags().Int("max-documents", 0, "cap on documents per run (0 = no limit)")
	processCmd.Flags().Float64("min-score", 0, "grounding similarity threshold (0 = default)")
	processCmd.Flags().Float64("requests-per-second", 0, "extraction rate limit (0 = default)")
	processCmd.Flags().Int("burst", 0, "extraction rate limiter burst size (0 = default)")
	processCmd.Flags().Int("max-retries", 0, "extraction retry attempts (0 = default)")

	rootCmd.AddCommand(processCmd)
}
