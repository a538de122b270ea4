// Package extract downloads PDF documents and decodes their text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxBytes  = 64 << 20
	DefaultUserAgent = "pdfdigest/1.0"

	// sniffLen is how far into a body the PDF header may start.
	sniffLen = 1024
)

// Result is the decoded content of one PDF.
type Result struct {
	Text  string
	Pages int
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	MaxBytes   int64
	CacheSize  int // successful results kept per URL; 0 disables caching
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches PDFs over HTTP and extracts their text.
type Client struct {
	http      *http.Client
	maxBytes  int64
	userAgent string
	cache     *lru.Cache[string, Result]
	logger    *slog.Logger
	decode    func(data []byte) (Result, error)
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		http:      opts.HTTPClient,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
		decode:    decodePDF,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, Result](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("extract cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Extract returns the text and page count of the PDF at url. Any failure is
// logged and reported as ("", 0).
func (c *Client) Extract(ctx context.Context, url string) (string, int) {
	res, err := c.ExtractErr(ctx, url)
	if err != nil {
		c.logger.Error("extract pdf", "url", url, "error", err)
		return "", 0
	}
	if strings.TrimSpace(res.Text) == "" {
		c.logger.Warn("no text extracted", "url", url, "pages", res.Pages)
	}
	return res.Text, res.Pages
}

// ExtractErr is Extract with the failure kept: *internalerr.FetchError for
// transport and HTTP problems, *internalerr.ExtractionError for bodies that
// are not decodable PDFs.
func (c *Client) ExtractErr(ctx context.Context, url string) (Result, error) {
	if c.cache != nil {
		if res, ok := c.cache.Get(url); ok {
			c.logger.Debug("extract cache hit", "url", url)
			return res, nil
		}
	}

	body, contentType, err := c.fetch(ctx, url)
	if err != nil {
		return Result{}, &internalerr.FetchError{URL: url, Err: err}
	}

	if isHTML(contentType, body) {
		err := fmt.Errorf("expected PDF, got HTML page %q", pageTitle(body))
		return Result{}, &internalerr.ExtractionError{URL: url, Err: err}
	}
	if !bytes.Contains(body[:min(len(body), sniffLen)], []byte("%PDF-")) {
		err := fmt.Errorf("missing PDF header (content type %q)", contentType)
		return Result{}, &internalerr.ExtractionError{URL: url, Err: err}
	}

	res, err := c.decode(body)
	if err != nil {
		return Result{}, &internalerr.ExtractionError{URL: url, Err: err}
	}

	if c.cache != nil {
		c.cache.Add(url, res)
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, "", fmt.Errorf("body exceeds %d bytes", c.maxBytes)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), sniffLen)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// pageTitle returns the <title> of an HTML document, or "" if it has none.
func pageTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var find func(*html.Node) bool
	find = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if find(c) {
				return true
			}
		}
		return false
	}
	find(doc)
	return title
}

var errNoPages = errors.New("document has no pages")

// decodePDF concatenates the plain text of every page. The decoder panics
// on some malformed inputs; those surface as errors.
func decodePDF(data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("decode pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	pages := r.NumPage()
	if pages == 0 {
		return Result{}, errNoPages
	}

	var text strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return Result{}, fmt.Errorf("page %d: %w", i, err)
		}
		text.WriteString(pageText)
	}
	return Result{Text: text.String(), Pages: pages}, nil
}
