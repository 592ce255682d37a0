// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provenance resolves paper metadata and attaches immutable
// provenance records to assertions. Metadata is resolved once per document
// and applied identically to every assertion from that document.
package provenance

import (
	"context"
	"regexp"
	"time"

	"github.com/pdiddy/triplemine/pkg/types"
)

// doiPatterns match the common inline DOI forms found in paper text.
var doiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:doi|DOI):\s*(10\.\d+/[^\s\]\)]+)`),
	regexp.MustCompile(`(?:https?://)?(?:dx\.)?doi\.org/(10\.\d+/[^\s\]\)]+)`),
}

// pmidPattern matches an inline PubMed identifier.
var pmidPattern = regexp.MustCompile(`(?:PMID|pmid):?\s*(\d{4,9})`)

// ExtractDOI returns the first DOI found in the text, or "".
func ExtractDOI(text string) string {
	for _, pattern := range doiPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractPMID returns the first PubMed identifier found in the text, or "".
func ExtractPMID(text string) string {
	if m := pmidPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Resolver turns an inline DOI or PMID into full paper metadata. The
// production implementation queries Crossref; tests supply a fake.
type Resolver interface {
	Resolve(ctx context.Context, doi, pmid string) (types.PaperMeta, error)
}

// Recorder stamps assertions with a ProvenanceRecord.
type Recorder struct {
	method string
	now    func() time.Time
}

// NewRecorder creates a Recorder. The method string identifies the pipeline
// and contract version (e.g. "triplemine/v1") and feeds cache invalidation.
func NewRecorder(method string) *Recorder {
	return &Recorder{method: method, now: time.Now}
}

// Attach sets the provenance record on every assertion in the slice.
// Assertions that already carry provenance are left untouched: once
// attached, provenance is immutable.
func (r *Recorder) Attach(assertions []types.Assertion, meta types.PaperMeta) {
	date := r.now().UTC()
	for i := range assertions {
		if assertions[i].Provenance != nil {
			continue
		}
		assertions[i].Provenance = &types.ProvenanceRecord{
			PaperDOI:         meta.DOI,
			PaperTitle:       meta.Title,
			PaperAuthors:     meta.Authors,
			PaperYear:        meta.Year,
			PaperPMID:        meta.PMID,
			ExtractionDate:   date,
			ExtractionMethod: r.method,
		}
	}
}
