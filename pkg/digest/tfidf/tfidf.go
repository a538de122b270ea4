// Package tfidf computes term-importance weights over a small collection of
// text units. The same scorer serves sentence ranking, where each sentence
// is a unit, and keyword extraction, where the whole document is one unit.
package tfidf

import (
	"math"
	"sort"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
)

// Tokenizer splits a unit into normalized terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Matrix holds one row per unit and one column per vocabulary term.
type Matrix struct {
	vocab   []string
	weights [][]float64
}

// Score builds the TF-IDF weight matrix for units.
//
// Term frequency is the raw count of a term within a unit. Inverse document
// frequency is smoothed, idf(t) = ln((1+n)/(1+df(t))) + 1, so a term present
// in every unit still carries weight 1. Rows are L2-normalised; a unit
// without terms keeps an all-zero row.
func Score(units []string, tok Tokenizer) (*Matrix, error) {
	if len(units) == 0 {
		return nil, &internalerr.InsufficientDataError{Op: "tfidf score"}
	}

	counts := make([]map[string]int, len(units))
	df := make(map[string]int)
	for i, unit := range units {
		tf := make(map[string]int)
		for _, term := range tok.Tokenize(unit) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(units))
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	weights := make([][]float64, len(units))
	for i, tf := range counts {
		row := make([]float64, len(vocab))
		var norm float64
		for j, term := range vocab {
			if c := tf[term]; c > 0 {
				row[j] = float64(c) * idf[j]
				norm += row[j] * row[j]
			}
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		weights[i] = row
	}

	return &Matrix{vocab: vocab, weights: weights}, nil
}

// Rows returns the number of units scored.
func (m *Matrix) Rows() int { return len(m.weights) }

// Vocabulary returns the sorted distinct terms; column j is Vocabulary()[j].
func (m *Matrix) Vocabulary() []string {
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}

// Weight returns the importance of term j within unit i.
func (m *Matrix) Weight(i, j int) float64 { return m.weights[i][j] }

// Row returns a copy of unit i's weights.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, len(m.weights[i]))
	copy(out, m.weights[i])
	return out
}

// RowSum returns the aggregate importance of unit i.
func (m *Matrix) RowSum(i int) float64 {
	var sum float64
	for _, w := range m.weights[i] {
		sum += w
	}
	return sum
}

// Term is a vocabulary entry with its weight in one unit.
type Term struct {
	Term   string
	Weight float64
}

// Ranked returns unit i's terms with a positive weight, heaviest first.
// Equal weights keep vocabulary (lexicographic) order.
func (m *Matrix) Ranked(i int) []Term {
	terms := make([]Term, 0, len(m.vocab))
	for j, w := range m.weights[i] {
		if w > 0 {
			terms = append(terms, Term{Term: m.vocab[j], Weight: w})
		}
	}
	sort.SliceStable(terms, func(a, b int) bool {
		return terms[a].Weight > terms[b].Weight
	})
	return terms
}
