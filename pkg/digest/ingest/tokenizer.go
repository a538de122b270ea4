package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/pdfdigest/pkg/digest/stoplist"
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stops *stoplist.Manager
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	return &Tokenizer{stops: stoplist.NewManager(stopwords)}
}

// NewTokenizerWithStoplist creates a tokenizer that filters through an
// existing stoplist manager. A nil manager filters nothing.
func NewTokenizerWithStoplist(mgr *stoplist.Manager) *Tokenizer {
	if mgr == nil {
		mgr = stoplist.NewManager(nil)
	}
	return &Tokenizer{stops: mgr}
}

// Tokenize splits text into lower-cased tokens, removing stopwords.
// Any rune other than a letter or digit separates tokens, so hyphenated
// compounds split into their parts and numbers stay as tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := current.String(); t.keep(word) {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// keep drops single-rune tokens and stopwords.
func (t *Tokenizer) keep(word string) bool {
	if utf8.RuneCountInString(word) <= 1 {
		return false
	}
	return !t.stops.IsStop(word)
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stops.Add(word)
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	t.stops.Remove(word)
}

// Stoplist returns the manager backing this tokenizer.
func (t *Tokenizer) Stoplist() *stoplist.Manager {
	return t.stops
}
