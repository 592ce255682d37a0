// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract orchestrates calls to the external extraction capability
// and validates the returned triples against the assertion schema.
package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/triplemine/pkg/types"
)

// Request is one section of document text submitted to the extraction
// capability. The request/response contract is fixed: text in,
// triples-with-evidence out.
type Request struct {
	// Section is the heading of the section being processed, if any.
	Section string `json:"section,omitempty"`

	// Text is the section body.
	Text string `json:"text"`
}

// Candidate is a single triple as returned by the capability, before
// validation.
type Candidate struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Evidence   string  `json:"evidence"`
	Confidence float64 `json:"confidence"`
}

// Response is the structured capability output for one request.
type Response struct {
	Triples []Candidate `json:"triples"`
}

// Extractor abstracts the external extraction capability so tests can
// supply a fake that returns canned triples.
type Extractor interface {
	Extract(ctx context.Context, req Request) (Response, error)
}

// Engine drives the capability section by section, validates candidates,
// and retries transient failures with exponential backoff.
type Engine struct {
	backend    Extractor
	maxRetries int
	logw       io.Writer
}

// NewEngine wires an Engine around the given capability.
func NewEngine(backend Extractor, cfg types.ExtractionConfig, logw io.Writer) *Engine {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if logw == nil {
		logw = io.Discard
	}
	return &Engine{backend: backend, maxRetries: maxRetries, logw: logw}
}

// Extract segments the document text into sections, submits each non-empty
// section to the capability, and returns the validated assertions in
// capability output order. Invalid candidates are dropped and logged, not
// fatal; a section whose call fails after all retries aborts the document.
func (e *Engine) Extract(ctx context.Context, text string) ([]types.Assertion, error) {
	sections := SplitSections(text)

	var out []types.Assertion
	for _, sec := range sections {
		if strings.TrimSpace(sec.Body) == "" {
			continue
		}

		resp, err := e.callWithRetry(ctx, Request{Section: sec.Heading, Text: sec.Body})
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.Heading, err)
		}

		for i, c := range resp.Triples {
			if reason := validate(c); reason != "" {
				fmt.Fprintf(e.logw, "warning: dropping candidate %d in section %q: %s\n", i, sec.Heading, reason)
				continue
			}
			out = append(out, types.Assertion{
				Subject:          strings.TrimSpace(c.Subject),
				Predicate:        strings.TrimSpace(c.Predicate),
				Object:           strings.TrimSpace(c.Object),
				Evidence:         c.Evidence,
				Confidence:       c.Confidence,
				Section:          sec.Heading,
				SentenceLocation: locateSentence(text, c.Evidence),
			})
		}
	}
	return out, nil
}

// validate checks a candidate against the assertion schema. It returns an
// empty string when the candidate is acceptable.
func validate(c Candidate) string {
	if strings.TrimSpace(c.Subject) == "" {
		return "empty subject"
	}
	if strings.TrimSpace(c.Predicate) == "" {
		return "empty predicate"
	}
	if strings.TrimSpace(c.Object) == "" {
		return "empty object"
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Sprintf("confidence %f out of range [0,1]", c.Confidence)
	}
	return ""
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the capability with exponential backoff on failure.
func (e *Engine) callWithRetry(ctx context.Context, req Request) (Response, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := e.backend.Extract(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return Response{}, fmt.Errorf("after %d retries: %w", e.maxRetries, lastErr)
}
