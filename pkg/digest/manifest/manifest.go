// Package manifest loads the ordered list of documents to process.
//
// A manifest maps a document name to the URL of its PDF. Entry order is the
// processing order, so every format keeps the order found in the file.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
)

// Entry is one named document URL.
type Entry struct {
	Name string
	URL  string
}

// Manifest is an ordered list of entries.
type Manifest []Entry

// URLs returns the entry URLs in order.
func (m Manifest) URLs() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.URL
	}
	return out
}

// Load reads a manifest file, choosing the format from its extension:
// .json and .yaml/.yml hold a name -> URL mapping, .html/.htm is an index
// page whose PDF links become entries. baseURL resolves relative links in
// HTML indexes and is ignored otherwise.
func Load(filename, baseURL string) (Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", filename, err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		m, err = ParseJSON(bytes.NewReader(data))
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	case ".html", ".htm":
		m, err = ParseHTML(bytes.NewReader(data), baseURL)
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension %q: %w", filename, ext, internalerr.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", filename, err)
	}
	return m, nil
}

// builder collects entries. A repeated name keeps its first position and
// takes the last URL, matching how a JSON object with duplicate keys decodes.
type builder struct {
	entries Manifest
	index   map[string]int
}

func (b *builder) add(name, u string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[name]; ok {
		b.entries[i].URL = u
		return
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, Entry{Name: name, URL: u})
}

// ParseJSON decodes a JSON object of name -> URL pairs in document order.
func ParseJSON(r io.Reader) (Manifest, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse json: expected object: %w", internalerr.ErrInvalidInput)
	}

	var b builder
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		name := keyTok.(string)

		var u string
		if err := dec.Decode(&u); err != nil {
			return nil, fmt.Errorf("parse json: value for %q: %w", name, err)
		}
		b.add(name, strings.TrimSpace(u))
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse json: trailing data after object: %w", internalerr.ErrInvalidInput)
	}
	return b.entries, nil
}

// ParseYAML decodes a YAML mapping of name -> URL pairs in document order.
func ParseYAML(data []byte) (Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse yaml: expected mapping at line %d: %w", root.Line, internalerr.ErrInvalidInput)
	}

	var b builder
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse yaml: %q at line %d is not a URL: %w", key.Value, val.Line, internalerr.ErrInvalidInput)
		}
		b.add(key.Value, strings.TrimSpace(val.Value))
	}
	return b.entries, nil
}

// ParseHTML collects every link to a .pdf file from an HTML index page.
// Link text names the entry, falling back to the file name. Relative links
// resolve against baseURL; duplicate URLs are listed once and a repeated
// link text is qualified with its URL.
func ParseHTML(r io.Reader, baseURL string) (Manifest, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := url.Parse(href); err == nil {
			if base != nil {
				b = base.ResolveReference(b)
			}
			base = b
		}
	}

	var b builder
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !strings.EqualFold(path.Ext(u.Path), ".pdf") {
			return
		}
		if base != nil {
			u = base.ResolveReference(u)
		}
		link := u.String()
		if seen[link] {
			return
		}
		seen[link] = true

		name := strings.Join(strings.Fields(s.Text()), " ")
		if name == "" {
			name = path.Base(u.Path)
		}
		if _, dup := b.index[name]; dup {
			name = fmt.Sprintf("%s (%s)", name, link)
		}
		b.add(name, link)
	})
	return b.entries, nil
}
