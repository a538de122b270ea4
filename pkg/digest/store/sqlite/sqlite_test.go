package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 tables, got %d", count)
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	created := time.Date(2024, 3, 9, 10, 30, 0, 123, time.UTC)
	doc := store.Document{
		ID:             "01HV000000000000000000000A",
		URL:            "https://example.com/report.pdf",
		NumPages:       12,
		Category:       "medium",
		Summary:        "First sentence. Third sentence.",
		Keywords:       []string{"reactor", "pressure", "coolant"},
		ProcessingTime: 1.75,
		Language:       "en",
		CreatedAt:      created,
	}
	if err := st.SaveDoc(ctx, doc); err != nil {
		t.Fatalf("SaveDoc: %v", err)
	}

	got, found, err := st.GetDocByURL(ctx, doc.URL)
	if err != nil {
		t.Fatalf("GetDocByURL: %v", err)
	}
	if !found {
		t.Fatal("document should be found")
	}
	if got.ID != doc.ID || got.NumPages != 12 || got.Category != "medium" || got.Summary != doc.Summary {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.ProcessingTime != 1.75 || got.Language != "en" {
		t.Errorf("unexpected metadata: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if len(got.Keywords) != 3 || got.Keywords[0] != "reactor" || got.Keywords[2] != "coolant" {
		t.Errorf("Keywords = %v, order must be preserved", got.Keywords)
	}
}

func TestGetDocByURLNewest(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, summary := range []string{"first run", "second run"} {
		doc := store.Document{
			ID:        "01HV00000000000000000000R" + string(rune('0'+i)),
			URL:       "https://example.com/a.pdf",
			Category:  "short",
			Summary:   summary,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := st.SaveDoc(ctx, doc); err != nil {
			t.Fatalf("SaveDoc: %v", err)
		}
	}

	got, found, err := st.GetDocByURL(ctx, "https://example.com/a.pdf")
	if err != nil || !found {
		t.Fatalf("GetDocByURL: found=%v err=%v", found, err)
	}
	if got.Summary != "second run" {
		t.Errorf("Summary = %q, want newest record", got.Summary)
	}

	docs, err := st.ListDocs(ctx, 10)
	if err != nil {
		t.Fatalf("ListDocs: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("re-runs must not overwrite: got %d records", len(docs))
	}
}

func TestGetDocByURLMissing(t *testing.T) {
	st := openTestStore(t)

	_, found, err := st.GetDocByURL(context.Background(), "https://example.com/none.pdf")
	if err != nil {
		t.Fatalf("GetDocByURL: %v", err)
	}
	if found {
		t.Error("missing document reported as found")
	}
}

func TestListDocsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	urls := []string{"https://e.com/a.pdf", "https://e.com/b.pdf", "https://e.com/c.pdf"}
	for i, url := range urls {
		doc := store.Document{
			ID:        "01HV00000000000000000000L" + string(rune('0'+i)),
			URL:       url,
			Category:  "short",
			Keywords:  []string{"term"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.SaveDoc(ctx, doc); err != nil {
			t.Fatalf("SaveDoc: %v", err)
		}
	}

	docs, err := st.ListDocs(ctx, 2)
	if err != nil {
		t.Fatalf("ListDocs: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if docs[0].URL != urls[2] || docs[1].URL != urls[1] {
		t.Errorf("order = %s, %s; want newest first", docs[0].URL, docs[1].URL)
	}
	if len(docs[0].Keywords) != 1 {
		t.Errorf("keywords not loaded: %v", docs[0].Keywords)
	}
}

func TestSaveDocRejectsIncomplete(t *testing.T) {
	st := openTestStore(t)

	err := st.SaveDoc(context.Background(), store.Document{URL: "https://e.com/a.pdf"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveDocDuplicateIDFails(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	doc := store.Document{ID: "01HV0000000000000000000DUP", URL: "https://e.com/a.pdf", Category: "short", Keywords: []string{"one"}}
	if err := st.SaveDoc(ctx, doc); err != nil {
		t.Fatalf("SaveDoc: %v", err)
	}
	if err := st.SaveDoc(ctx, doc); err == nil {
		t.Error("expected primary key violation on duplicate ID")
	}

	// the failed insert must not leave stray keywords behind
	got, _, err := st.GetDocByURL(ctx, doc.URL)
	if err != nil {
		t.Fatalf("GetDocByURL: %v", err)
	}
	if len(got.Keywords) != 1 {
		t.Errorf("Keywords = %v, want one", got.Keywords)
	}
}
