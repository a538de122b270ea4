package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

func TestSaveAndGetNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveDoc(ctx, store.Document{ID: "01A", URL: "https://x/a.pdf", Summary: "old", CreatedAt: base}))
	require.NoError(t, s.SaveDoc(ctx, store.Document{ID: "01B", URL: "https://x/a.pdf", Summary: "new", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.SaveDoc(ctx, store.Document{ID: "01C", URL: "https://x/b.pdf", CreatedAt: base}))

	got, found, err := s.GetDocByURL(ctx, "https://x/a.pdf")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", got.Summary)
	assert.Equal(t, 3, s.Len())

	_, found, err = s.GetDocByURL(ctx, "https://x/missing.pdf")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveCopiesKeywords(t *testing.T) {
	ctx := context.Background()
	s := New()

	kw := []string{"kernel", "memory"}
	require.NoError(t, s.SaveDoc(ctx, store.Document{URL: "https://x/a.pdf", Keywords: kw}))
	kw[0] = "mutated"

	got, _, err := s.GetDocByURL(ctx, "https://x/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"kernel", "memory"}, got.Keywords)
}

func TestListDocs(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, url := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveDoc(ctx, store.Document{URL: url, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	docs, err := s.ListDocs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].URL)
	assert.Equal(t, "b", docs[1].URL)

	docs, err = s.ListDocs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestFailWith(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")

	s.FailWith(boom)
	assert.ErrorIs(t, s.SaveDoc(ctx, store.Document{URL: "a"}), boom)

	s.FailWith(nil)
	assert.NoError(t, s.SaveDoc(ctx, store.Document{URL: "a"}))
	assert.ErrorIs(t, s.SaveDoc(ctx, store.Document{}), internalerr.ErrInvalidInput)
}
