// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section is a chunk of document text under one heading. A document that
// opens with body text before any heading yields a leading section with an
// empty heading.
type Section struct {
	Heading string
	Body    string
}

// knownHeadings are the section names recognized case-insensitively, with
// or without a numeric prefix like "3." or "3.1".
var knownHeadings = map[string]bool{
	"abstract":               true,
	"introduction":           true,
	"background":             true,
	"methods":                true,
	"materials and methods":  true,
	"results":                true,
	"results and discussion": true,
	"discussion":             true,
	"conclusion":             true,
	"conclusions":            true,
	"acknowledgments":        true,
	"acknowledgements":       true,
	"references":             true,
	"bibliography":           true,
}

// skipHeadings are sections excluded from extraction: they carry no
// assertable content and their citation text confuses evidence matching.
var skipHeadings = map[string]bool{
	"references":       true,
	"bibliography":     true,
	"acknowledgments":  true,
	"acknowledgements": true,
}

// SplitSections segments plain document text into heading-delimited
// sections. Heading detection is deliberately shallow: a short line that is
// either a known section name or fully upper-case. Reference and
// acknowledgment sections are dropped.
func SplitSections(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	heading := ""
	var bodyLines []string

	flush := func() {
		body := strings.Join(bodyLines, "\n")
		if skipHeadings[normalizeHeading(heading)] {
			bodyLines = nil
			return
		}
		if heading != "" || strings.TrimSpace(body) != "" {
			sections = append(sections, Section{Heading: heading, Body: body})
		}
		bodyLines = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeading(trimmed) {
			flush()
			heading = trimmed
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	flush()

	return sections
}

// isHeading reports whether a line looks like a section heading.
func isHeading(line string) bool {
	if line == "" || len(line) > 60 || strings.HasSuffix(line, ".") {
		return false
	}
	if knownHeadings[normalizeHeading(line)] {
		return true
	}
	return isAllCaps(line)
}

// normalizeHeading lowercases a heading and strips a numeric prefix.
func normalizeHeading(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimLeft(s, "0123456789. ")
	return s
}

// isAllCaps reports whether the line contains letters and none lowercase.
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// locateSentence returns the zero-based sentence index at which evidence
// appears in text, or -1 when the evidence cannot be located. The count is
// approximate: sentences are delimited by '.', '!', or '?'.
func locateSentence(text, evidence string) int {
	evidence = strings.TrimSpace(evidence)
	if evidence == "" {
		return -1
	}

	// Match on a prefix so trailing punctuation differences do not matter.
	// The cut must land on a rune boundary or the prefix is not a
	// substring of the text at all.
	needle := evidence
	if len(needle) > 80 {
		cut := 80
		for cut > 0 && !utf8.RuneStart(needle[cut]) {
			cut--
		}
		needle = needle[:cut]
	}
	offset := strings.Index(text, needle)
	if offset < 0 {
		return -1
	}

	count := 0
	for _, r := range text[:offset] {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	return count
}
