package store

import (
	"context"
	"time"
)

// Store persists analysed documents. Records are insert-only: saving a URL
// twice keeps both records and GetDocByURL returns the newest.
type Store interface {
	Close() error

	SaveDoc(ctx context.Context, d Document) error
	GetDocByURL(ctx context.Context, url string) (Document, bool, error)
	ListDocs(ctx context.Context, limit int) ([]Document, error)
}

// Document is the persisted result of analysing one PDF
type Document struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	NumPages       int       `json:"num_pages"`
	Category       string    `json:"category"`
	Summary        string    `json:"summary"`
	Keywords       []string  `json:"keywords"`
	ProcessingTime float64   `json:"processing_time"` // seconds since batch start
	Language       string    `json:"language,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultListLimit is used when ListDocs receives a non-positive limit.
const DefaultListLimit = 20

// Newer reports whether a was created after b; IDs break timestamp ties.
func Newer(a, b Document) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
