package ingest

import (
	"iter"
	"strings"
)

// SentenceDelimiter separates sentence units in extracted document text.
const SentenceDelimiter = ". "

// Sentences yields the sentence units of text in document order. Each unit
// keeps its terminating period, so joining consecutive units with a single
// space reproduces the original run of text. Blank fragments are skipped.
//
// The returned sequence is lazy and may be ranged over any number of times.
func Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for part := range strings.SplitAfterSeq(text, SentenceDelimiter) {
			unit := strings.TrimSpace(part)
			if unit == "" {
				continue
			}
			if !yield(unit) {
				return
			}
		}
	}
}
