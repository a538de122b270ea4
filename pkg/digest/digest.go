// Package digest analyses PDF text into categorized, summarized and
// keyword-tagged document records.
package digest

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pdfdigest/pkg/digest/band"
	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/keywords"
	"github.com/cognicore/pdfdigest/pkg/digest/manifest"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
	"github.com/cognicore/pdfdigest/pkg/digest/summarize"
)

// Extractor fetches a document and returns its text and page count, or
// ("", 0) when it cannot.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, int)
}

// LanguageDetector returns an ISO 639-1 code for text, or "".
type LanguageDetector interface {
	Detect(text string) string
}

// Digest is the document analysis pipeline
type Digest struct {
	store       store.Store
	summarizer  *summarize.Summarizer
	keywords    *keywords.Extractor
	maxKeywords int
	lang        LanguageDetector
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures a Digest instance
type Options struct {
	Store       store.Store
	Summarizer  *summarize.Summarizer
	Keywords    *keywords.Extractor
	MaxKeywords int
	Language    LanguageDetector // optional
	Logger      *slog.Logger
	Now         func() time.Time
}

// New creates a Digest with the given dependencies
func New(opts Options) *Digest {
	d := &Digest{
		store:       opts.Store,
		summarizer:  opts.Summarizer,
		keywords:    opts.Keywords,
		maxKeywords: opts.MaxKeywords,
		lang:        opts.Language,
		logger:      opts.Logger,
		now:         opts.Now,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	if d.summarizer == nil {
		d.summarizer = summarize.New(nil, d.logger)
	}
	if d.keywords == nil {
		d.keywords = keywords.New(keywords.Options{})
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Close cleanly shuts down the underlying store
func (d *Digest) Close() error {
	return d.store.Close()
}

// Input is one extracted document handed to Process
type Input struct {
	URL     string
	Text    string
	Pages   int
	Elapsed time.Duration // time since the batch started
}

// Process analyses one document and stores the resulting record. It
// returns ok=false without storing anything when the text is blank. A
// storage failure comes back as *internalerr.StorageError.
func (d *Digest) Process(ctx context.Context, in Input) (store.Document, bool, error) {
	if strings.TrimSpace(in.Text) == "" {
		d.logger.Warn("no text extracted, skipping", "url", in.URL, "pages", in.Pages)
		return store.Document{}, false, nil
	}

	kws, err := d.keywords.Extract(in.Text, d.maxKeywords)
	if err != nil {
		if !internalerr.IsInsufficientData(err) {
			return store.Document{}, false, err
		}
		d.logger.Warn("no keywords", "url", in.URL, "error", err)
		kws = nil
	}

	created := d.now()
	doc := store.Document{
		ID:             d.newID(created),
		URL:            in.URL,
		NumPages:       in.Pages,
		Category:       string(band.Categorize(in.Pages)),
		Summary:        d.summarizer.Summarize(in.Text, in.Pages),
		Keywords:       kws,
		ProcessingTime: in.Elapsed.Seconds(),
		CreatedAt:      created,
	}
	if d.lang != nil {
		doc.Language = d.lang.Detect(in.Text)
		if doc.Language != "" && doc.Language != "en" {
			d.logger.Info("non-English document, stopwords are English only", "url", in.URL, "language", doc.Language)
		}
	}

	if err := d.store.SaveDoc(ctx, doc); err != nil {
		return store.Document{}, false, &internalerr.StorageError{Op: "save", URL: in.URL, Err: err}
	}

	d.logger.Info("processed document",
		"url", in.URL,
		"pages", doc.NumPages,
		"category", doc.Category,
		"keywords", len(doc.Keywords),
	)
	return doc, true, nil
}

func (d *Digest) newID(t time.Time) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), d.entropy).String()
}

// Report summarizes a batch run
type Report struct {
	Processed int
	Skipped   int
	Elapsed   time.Duration
	Docs      []store.Document
}

// Run extracts and processes every manifest entry in order. Extraction
// failures and blank documents are skipped; a storage failure stops the
// batch and is returned together with the partial report.
func (d *Digest) Run(ctx context.Context, m manifest.Manifest, ex Extractor) (Report, error) {
	var rep Report
	start := d.now()

	for i, entry := range m {
		if err := ctx.Err(); err != nil {
			rep.Elapsed = d.now().Sub(start)
			return rep, err
		}

		elapsed := d.now().Sub(start)
		text, pages := ex.Extract(ctx, entry.URL)

		doc, ok, err := d.Process(ctx, Input{URL: entry.URL, Text: text, Pages: pages, Elapsed: elapsed})
		if err != nil {
			var se *internalerr.StorageError
			if errors.As(err, &se) {
				d.logger.Error("store document", "url", entry.URL, "error", err)
				rep.Elapsed = d.now().Sub(start)
				return rep, err
			}
			d.logger.Error("process document", "name", entry.Name, "url", entry.URL, "error", err)
			rep.Skipped++
			continue
		}
		if !ok {
			rep.Skipped++
			continue
		}

		rep.Processed++
		rep.Docs = append(rep.Docs, doc)
		d.logger.Debug("batch progress", "done", i+1, "total", len(m))
	}

	rep.Elapsed = d.now().Sub(start)
	return rep, nil
}
