package config

import (
	"fmt"
	"log/slog"

	"github.com/cognicore/pdfdigest/pkg/digest/ingest"
	"github.com/cognicore/pdfdigest/pkg/digest/keywords"
	"github.com/cognicore/pdfdigest/pkg/digest/stoplist"
	"github.com/cognicore/pdfdigest/pkg/digest/summarize"
)

// Loader loads configuration files and constructs the analysis components
type Loader struct {
	StoplistPath     string // extra stopwords on top of the English list
	MaxKeywords      int
	MinKeywordLength int
	Logger           *slog.Logger
}

// Components holds the constructed analysis components
type Components struct {
	SentenceTokenizer *ingest.Tokenizer
	KeywordTokenizer  *ingest.Tokenizer
	Summarizer        *summarize.Summarizer
	Keywords          *keywords.Extractor
}

// Loader returns a Loader for this configuration.
func (c *Config) Loader(logger *slog.Logger) Loader {
	return Loader{
		StoplistPath:     c.StoplistPath,
		MaxKeywords:      c.Keywords.Max,
		MinKeywordLength: c.Keywords.MinLength,
		Logger:           logger,
	}
}

// Load reads the stoplist and returns initialized components. Sentence
// ranking keeps every term; keyword extraction drops stopwords.
func (l *Loader) Load() (*Components, error) {
	stops := stoplist.NewManager(stoplist.English())
	if l.StoplistPath != "" {
		extra, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		for _, term := range extra.Terms {
			stops.Add(term)
		}
	}

	comp := &Components{
		SentenceTokenizer: ingest.NewTokenizer(nil),
		KeywordTokenizer:  ingest.NewTokenizerWithStoplist(stops),
	}
	comp.Summarizer = summarize.New(comp.SentenceTokenizer, l.Logger)
	comp.Keywords = keywords.New(keywords.Options{
		Tokenizer: comp.KeywordTokenizer,
		Max:       l.MaxKeywords,
		MinLength: l.MinKeywordLength,
	})
	return comp, nil
}
