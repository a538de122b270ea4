// Package summarize builds extractive summaries by picking the most
// important sentences of a document and emitting them in document order.
package summarize

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/cognicore/pdfdigest/pkg/digest/band"
	"github.com/cognicore/pdfdigest/pkg/digest/ingest"
	"github.com/cognicore/pdfdigest/pkg/digest/tfidf"
)

// Summarizer selects top-ranked sentences from document text.
type Summarizer struct {
	tok    tfidf.Tokenizer
	logger *slog.Logger
}

// New creates a summarizer. A nil tokenizer uses one without stopwords, a
// nil logger discards diagnostics.
func New(tok tfidf.Tokenizer, logger *slog.Logger) *Summarizer {
	if tok == nil {
		tok = ingest.NewTokenizer(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Summarizer{tok: tok, logger: logger}
}

type rankedUnit struct {
	pos   int
	score float64
}

// Summarize returns up to band.SummaryLength(pages) sentences of text,
// chosen by aggregate TF-IDF weight and joined in document order. Blank text
// yields "" without scoring.
func (s *Summarizer) Summarize(text string, pages int) string {
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("cannot summarize empty text", "pages", pages)
		return ""
	}

	units := slices.Collect(ingest.Sentences(text))
	k := min(band.SummaryLength(pages), len(units))
	if k == len(units) {
		return strings.Join(units, " ")
	}

	m, err := tfidf.Score(units, s.tok)
	if err != nil {
		s.logger.Error("score sentences", "error", err)
		return ""
	}

	ranked := make([]rankedUnit, len(units))
	for i := range units {
		ranked[i] = rankedUnit{pos: i, score: m.RowSum(i)}
	}
	// stable: the earlier sentence wins a tie
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	selected := make([]int, k)
	for i := range selected {
		selected[i] = ranked[i].pos
	}
	slices.Sort(selected)

	out := make([]string, k)
	for i, pos := range selected {
		out[i] = units[pos]
	}
	return strings.Join(out, " ")
}
