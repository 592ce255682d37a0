// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives documents through extraction, grounding,
// provenance, and persistence with a bounded worker pool. Documents are
// independent units of work: one document's failure never aborts the
// batch, and a document's results become visible only after all stages
// succeed and the cache entry is written atomically.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/time/rate"

	"github.com/pdiddy/triplemine/internal/cache"
	"github.com/pdiddy/triplemine/internal/docstore"
	"github.com/pdiddy/triplemine/internal/extract"
	"github.com/pdiddy/triplemine/internal/ground"
	"github.com/pdiddy/triplemine/internal/provenance"
	"github.com/pdiddy/triplemine/internal/store"
	"github.com/pdiddy/triplemine/pkg/types"
)

// MethodVersion identifies the extraction contract this build produces.
// Bumping it invalidates every cache entry (treated as a miss, never an
// error) and shows up in each assertion's extraction_method.
const MethodVersion = "triplemine/v1"

const defaultWorkers = 4

// Deps wires the pipeline's components. All fields except Resolver are
// required.
type Deps struct {
	Docs     *docstore.Store
	Cache    *cache.Manager
	Engine   *extract.Engine
	Grounder *ground.Grounder
	Recorder *provenance.Recorder
	Resolver provenance.Resolver
	Store    *store.Store

	// Limiter throttles extraction calls across workers. Nil means
	// unlimited.
	Limiter *rate.Limiter

	// Log receives per-document progress lines. Nil discards them.
	Log io.Writer
}

// Options controls one batch run.
type Options struct {
	// Force bypasses cache reads so every document is re-extracted. The
	// single-flight lock still applies, and fresh results overwrite the
	// old entries.
	Force bool

	// Workers bounds the worker pool (default 4).
	Workers int
}

// Summary holds the aggregate outcome of a batch run.
type Summary struct {
	Extracted  int
	Cached     int
	Failed     int
	Assertions int
	Stats      ground.Stats
}

// Total returns the number of documents handled.
func (s Summary) Total() int {
	return s.Extracted + s.Cached + s.Failed
}

// HasFailures reports whether any documents failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Pipeline owns a batch run over one document directory.
type Pipeline struct {
	deps    Deps
	version string
	logw    io.Writer

	mu      sync.Mutex // guards summary counters and store writes
	summary Summary
}

// New builds a Pipeline from its wired dependencies.
func New(deps Deps) *Pipeline {
	logw := deps.Log
	if logw == nil {
		logw = io.Discard
	}
	return &Pipeline{deps: deps, version: MethodVersion, logw: logw}
}

// Pending reports how many documents have no valid cache result, without
// processing anything.
func (p *Pipeline) Pending() (int, error) {
	n := 0
	for _, err := range p.deps.Docs.Unprocessed(p.hasResult) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// hasResult reports whether the cache already holds a success or failure
// entry for the document under the current method version.
func (p *Pipeline) hasResult(doc types.Document) bool {
	if _, ok := p.deps.Cache.Get(doc.Fingerprint, p.version); ok {
		return true
	}
	_, failed := p.deps.Cache.Failure(doc.Fingerprint, p.version)
	return failed
}

// Run processes every document in the store. Cancelling ctx stops the
// dispatch of new documents; in-flight documents finish so no partial
// cache entries are written. The batch always completes with aggregate
// counts; only configuration errors are returned.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	docs, err := p.deps.Docs.List()
	if err != nil {
		return Summary{}, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	p.mu.Lock()
	p.summary = Summary{}
	p.mu.Unlock()

	jobs := make(chan types.Document)
	var wg sync.WaitGroup

	// In-flight documents run to completion even after cancellation, so
	// the cache never sees partial entries.
	workCtx := context.WithoutCancel(ctx)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				p.processDocument(workCtx, doc, opts.Force)
			}
		}()
	}

dispatch:
	for _, doc := range docs {
		// Valid cached results short-circuit before reaching a worker.
		if !opts.Force && doc.Status != types.DocFailed && p.replayCached(workCtx, doc) {
			continue
		}
		select {
		case <-ctx.Done():
			fmt.Fprintf(p.logw, "stopping: %v\n", ctx.Err())
			break dispatch
		case jobs <- doc:
		}
	}
	close(jobs)
	wg.Wait()

	p.mu.Lock()
	summary := p.summary
	p.mu.Unlock()

	// The final read must survive a cancelled caller context so an
	// interrupted batch still reports aggregate counts.
	all, err := p.deps.Store.All(workCtx)
	if err != nil {
		return summary, fmt.Errorf("reading assertion store: %w", err)
	}
	summary.Assertions = len(all)
	summary.Stats = ground.MappingStats(all)

	fmt.Fprintf(p.logw, "\nextracted: %d, cached: %d, failed: %d, assertions: %d\n",
		summary.Extracted, summary.Cached, summary.Failed, summary.Assertions)

	return summary, nil
}

// replayCached copies a valid cache entry into the assertion store without
// re-extracting. It reports whether the document was handled.
func (p *Pipeline) replayCached(ctx context.Context, doc types.Document) bool {
	if cached, ok := p.deps.Cache.Get(doc.Fingerprint, p.version); ok {
		doc.Status = types.DocProcessed
		p.commit(ctx, doc, cached, &p.summary.Cached, "cached")
		return true
	}
	if reason, ok := p.deps.Cache.Failure(doc.Fingerprint, p.version); ok {
		doc.Status = types.DocFailed
		doc.Reason = reason
		p.commit(ctx, doc, nil, &p.summary.Failed, "failed (recorded)")
		return true
	}
	return false
}

// processDocument runs one document through every stage. All errors are
// isolated: the document is marked failed and the batch moves on.
func (p *Pipeline) processDocument(ctx context.Context, doc types.Document, force bool) {
	// Scan-time read failures are recorded so later runs skip the file.
	if doc.Status == types.DocFailed {
		p.markFailed(ctx, doc, doc.Reason)
		return
	}

	// At most one extraction in flight per fingerprint.
	if err := p.deps.Cache.Acquire(ctx, doc.Fingerprint); err != nil {
		p.markFailed(ctx, doc, err.Error())
		return
	}
	defer p.deps.Cache.Release(doc.Fingerprint)

	// Another worker may have filled the cache while we waited.
	if !force && p.replayCached(ctx, doc) {
		return
	}

	text, err := p.deps.Docs.Text(doc)
	if err != nil {
		p.markFailed(ctx, doc, err.Error())
		return
	}

	meta := p.resolveMeta(ctx, doc, text)

	if p.deps.Limiter != nil {
		if err := p.deps.Limiter.Wait(ctx); err != nil {
			p.markFailed(ctx, doc, err.Error())
			return
		}
	}

	assertions, err := p.deps.Engine.Extract(ctx, text)
	if err != nil {
		extErr := &types.ExtractionError{DocumentID: doc.ID, Err: err}
		p.markFailed(ctx, doc, extErr.Error())
		return
	}

	for i := range assertions {
		p.deps.Grounder.Ground(ctx, &assertions[i])
	}
	p.deps.Recorder.Attach(assertions, meta)

	if err := p.deps.Cache.Put(doc.Fingerprint, p.version, assertions); err != nil {
		p.markFailed(ctx, doc, err.Error())
		return
	}

	doc.Status = types.DocProcessed
	p.commit(ctx, doc, assertions, &p.summary.Extracted,
		fmt.Sprintf("extracted (%d assertions)", len(assertions)))
}

// resolveMeta resolves paper metadata once per document. Resolution
// failures are logged and degrade to the inline identifiers.
func (p *Pipeline) resolveMeta(ctx context.Context, doc types.Document, text string) types.PaperMeta {
	doi := provenance.ExtractDOI(text)
	pmid := provenance.ExtractPMID(text)
	meta := types.PaperMeta{DOI: doi, PMID: pmid}

	if p.deps.Resolver == nil || doi == "" {
		return meta
	}
	resolved, err := p.deps.Resolver.Resolve(ctx, doi, pmid)
	if err != nil {
		fmt.Fprintf(p.logw, "warning: metadata for %s: %v\n", doc.ID, err)
		return meta
	}
	return resolved
}

// markFailed records a document failure in the cache and the store.
func (p *Pipeline) markFailed(ctx context.Context, doc types.Document, reason string) {
	if err := p.deps.Cache.PutFailure(doc.Fingerprint, p.version, reason); err != nil {
		fmt.Fprintf(p.logw, "warning: recording failure for %s: %v\n", doc.ID, err)
	}
	doc.Status = types.DocFailed
	doc.Reason = reason
	p.commit(ctx, doc, nil, &p.summary.Failed, "failed")
}

// commit writes the document outcome to the store and bumps a counter.
// The store write and counters share one lock; SQLite serializes writers
// anyway, and the counters ride along.
func (p *Pipeline) commit(ctx context.Context, doc types.Document, assertions []types.Assertion, counter *int, verb string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.deps.Store.PutDocument(ctx, doc, assertions); err != nil {
		fmt.Fprintf(p.logw, "warning: storing %s: %v\n", doc.ID, err)
	}
	*counter++

	if doc.Reason != "" && doc.Status == types.DocFailed {
		fmt.Fprintf(p.logw, "%s %s: %s\n", verb, doc.ID, doc.Reason)
	} else {
		fmt.Fprintf(p.logw, "%s %s\n", verb, doc.ID)
	}
}
