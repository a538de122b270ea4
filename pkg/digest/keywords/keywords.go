// Package keywords picks the most important terms of a single document.
package keywords

import (
	"strings"
	"unicode/utf8"

	"github.com/cognicore/pdfdigest/pkg/digest/ingest"
	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/stoplist"
	"github.com/cognicore/pdfdigest/pkg/digest/tfidf"
)

const (
	DefaultMax       = 5
	DefaultMinLength = 4
)

// Extractor ranks document terms with the shared TF-IDF scorer.
type Extractor struct {
	tok       tfidf.Tokenizer
	max       int
	minLength int
}

// Options configures an Extractor. Zero values fall back to the defaults
// and the built-in English stoplist.
type Options struct {
	Tokenizer tfidf.Tokenizer
	Max       int
	MinLength int
}

// New creates a keyword extractor
func New(opts Options) *Extractor {
	e := &Extractor{tok: opts.Tokenizer, max: opts.Max, minLength: opts.MinLength}
	if e.tok == nil {
		e.tok = ingest.NewTokenizer(stoplist.English())
	}
	if e.max <= 0 {
		e.max = DefaultMax
	}
	if e.minLength <= 0 {
		e.minLength = DefaultMinLength
	}
	return e
}

// Extract returns up to limit terms of text in descending importance. A
// non-positive limit uses the configured default.
//
// The length filter runs after the top terms are chosen and removed slots
// are not refilled, so fewer than limit keywords may come back.
func (e *Extractor) Extract(text string, limit int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &internalerr.InsufficientDataError{Op: "extract keywords"}
	}
	if limit <= 0 {
		limit = e.max
	}

	m, err := tfidf.Score([]string{text}, e.tok)
	if err != nil {
		return nil, err
	}

	ranked := m.Ranked(0)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	keywords := make([]string, 0, len(ranked))
	for _, term := range ranked {
		if utf8.RuneCountInString(term.Term) < e.minLength {
			continue
		}
		keywords = append(keywords, term.Term)
	}
	return keywords, nil
}
