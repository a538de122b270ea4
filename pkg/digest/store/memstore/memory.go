package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	docs []store.Document
	err  error
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// FailWith makes every subsequent SaveDoc return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// SaveDoc appends a document.
func (s *Store) SaveDoc(ctx context.Context, d store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if d.URL == "" {
		return internalerr.ErrInvalidInput
	}
	s.docs = append(s.docs, copyDoc(d))
	return nil
}

// GetDocByURL returns the newest document saved for url.
func (s *Store) GetDocByURL(ctx context.Context, url string) (store.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  store.Document
		found bool
	)
	for _, d := range s.docs {
		if d.URL != url {
			continue
		}
		if !found || store.Newer(d, best) {
			best = d
			found = true
		}
	}
	if !found {
		return store.Document{}, false, nil
	}
	return copyDoc(best), true, nil
}

// ListDocs returns up to limit documents, newest first.
func (s *Store) ListDocs(ctx context.Context, limit int) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	out := make([]store.Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = copyDoc(d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return store.Newer(out[i], out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of saved documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func copyDoc(d store.Document) store.Document {
	if d.Keywords != nil {
		d.Keywords = append([]string(nil), d.Keywords...)
	}
	return d
}
