package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/pdfdigest/pkg/digest"
	"github.com/cognicore/pdfdigest/pkg/digest/extract"
	"github.com/cognicore/pdfdigest/pkg/digest/langdetect"
	"github.com/cognicore/pdfdigest/pkg/digest/manifest"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

// RunAction processes every PDF listed in --manifest and stores the results.
func RunAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	logger := NewLogger(c.App.ErrWriter, cfg.Log)

	m, err := manifest.Load(c.String("manifest"), c.String("base-url"))
	if err != nil {
		return err
	}
	if len(m) == 0 {
		return fmt.Errorf("manifest %s lists no documents", c.String("manifest"))
	}
	logger.Info("loaded manifest", "path", c.String("manifest"), "documents", len(m))

	loader := cfg.Loader(logger)
	comp, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ex, err := extract.New(extract.Options{
		Timeout:   cfg.Fetch.Timeout,
		MaxBytes:  cfg.Fetch.MaxBytes,
		CacheSize: cfg.Fetch.CacheSize,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	st, err := OpenStore(c.Context, cfg.Store)
	if err != nil {
		return err
	}

	opts := digest.Options{
		Store:       st,
		Summarizer:  comp.Summarizer,
		Keywords:    comp.Keywords,
		MaxKeywords: cfg.Keywords.Max,
		Logger:      logger,
	}
	if cfg.DetectLanguage {
		opts.Language = langdetect.New()
	}
	d := digest.New(opts)
	defer d.Close()

	rep, err := d.Run(c.Context, m, ex)
	logger.Info("batch finished",
		"processed", rep.Processed,
		"skipped", rep.Skipped,
		"elapsed_seconds", rep.Elapsed.Seconds(),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Processed %d of %d documents in %.2f seconds (%d skipped)\n",
		rep.Processed, len(m), rep.Elapsed.Seconds(), rep.Skipped)
	return nil
}

// ShowAction prints the newest record stored for --url.
func ShowAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	st, err := OpenStore(c.Context, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	url := c.String("url")
	doc, found, err := st.GetDocByURL(c.Context, url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	if !found {
		return fmt.Errorf("no document stored for %s", url)
	}
	return writeJSON(c.App.Writer, doc)
}

// ListAction prints the most recent records.
func ListAction(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	st, err := OpenStore(c.Context, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.ListDocs(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []store.Document{}
	}
	return writeJSON(c.App.Writer, docs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
