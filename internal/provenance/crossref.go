// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provenance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/triplemine/internal/httputil"
	"github.com/pdiddy/triplemine/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works/"

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Title  []string         `json:"title"`
	Author []crossrefAuthor `json:"author"`
	Issued crossrefDate     `json:"issued"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

// CrossrefResolver resolves DOIs to paper metadata via the Crossref API.
type CrossrefResolver struct {
	client    *http.Client
	userAgent string
	mailto    string
}

// NewCrossrefResolver builds the production resolver. Supplying a mailto
// address routes requests through Crossref's polite pool.
func NewCrossrefResolver(cfg types.ProvenanceConfig) *CrossrefResolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "triplemine/0.1"
	}
	return &CrossrefResolver{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		mailto:    cfg.CrossrefMailto,
	}
}

// Resolve fetches metadata for the DOI. When the document carries no DOI,
// the returned metadata holds just the PMID; resolution is best-effort and
// the caller treats failures as non-fatal.
func (r *CrossrefResolver) Resolve(ctx context.Context, doi, pmid string) (types.PaperMeta, error) {
	meta := types.PaperMeta{DOI: doi, PMID: pmid}
	if doi == "" {
		return meta, nil
	}

	apiURL := crossrefAPIBase + url.PathEscape(doi)
	if r.mailto != "" {
		apiURL += "?mailto=" + url.QueryEscape(r.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return meta, fmt.Errorf("creating Crossref request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return meta, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return meta, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return meta, fmt.Errorf("parsing Crossref response: %w", err)
	}

	if len(cr.Message.Title) > 0 {
		meta.Title = cr.Message.Title[0]
	}
	for _, a := range cr.Message.Author {
		name := strings.TrimSpace(a.Family + ", " + a.Given)
		name = strings.Trim(name, ", ")
		if name != "" {
			meta.Authors = append(meta.Authors, name)
		}
	}
	if len(cr.Message.Issued.DateParts) > 0 && len(cr.Message.Issued.DateParts[0]) >= 1 {
		meta.Year = cr.Message.Issued.DateParts[0][0]
	}

	return meta, nil
}
