package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	num_pages INTEGER NOT NULL DEFAULT 0,
	category TEXT NOT NULL,
	summary TEXT,
	processing_time REAL NOT NULL DEFAULT 0,
	language TEXT,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_url ON documents(url, created_at);

CREATE TABLE IF NOT EXISTS doc_keywords (
	doc_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	keyword TEXT NOT NULL,
	PRIMARY KEY(doc_id, position),
	FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveDoc inserts a document and its keywords
func (s *sqliteStore) SaveDoc(ctx context.Context, d store.Document) error {
	if d.ID == "" || d.URL == "" {
		return internalerr.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO documents (id, url, num_pages, category, summary, processing_time, language, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err = tx.ExecContext(
		ctx,
		stmt,
		d.ID,
		d.URL,
		d.NumPages,
		d.Category,
		d.Summary,
		d.ProcessingTime,
		d.Language,
		d.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return err
	}

	if err := insertKeywords(ctx, tx, d.ID, d.Keywords); err != nil {
		return err
	}

	return tx.Commit()
}

func insertKeywords(ctx context.Context, tx *sql.Tx, docID string, keywords []string) error {
	if len(keywords) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_keywords (doc_id, position, keyword) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, kw := range keywords {
		if _, err := stmt.ExecContext(ctx, docID, i, kw); err != nil {
			return err
		}
	}
	return nil
}

const selectDocument = `
SELECT id, url, num_pages, category, summary, processing_time, language, created_at
FROM documents
`

// GetDocByURL retrieves the newest document stored for url
func (s *sqliteStore) GetDocByURL(ctx context.Context, url string) (store.Document, bool, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+`WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT 1;`, url)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Document{}, false, nil
	}
	if err != nil {
		return store.Document{}, false, err
	}

	doc.Keywords, err = s.loadKeywords(ctx, doc.ID)
	if err != nil {
		return store.Document{}, false, err
	}
	return doc, true, nil
}

// ListDocs returns up to limit documents, newest first
func (s *sqliteStore) ListDocs(ctx context.Context, limit int) ([]store.Document, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectDocument+`ORDER BY created_at DESC, id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}

	var docs []store.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range docs {
		docs[i].Keywords, err = s.loadKeywords(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (store.Document, error) {
	var (
		doc      store.Document
		summary  sql.NullString
		language sql.NullString
		created  int64
	)
	err := row.Scan(&doc.ID, &doc.URL, &doc.NumPages, &doc.Category, &summary, &doc.ProcessingTime, &language, &created)
	if err != nil {
		return store.Document{}, err
	}
	doc.Summary = summary.String
	doc.Language = language.String
	doc.CreatedAt = time.Unix(0, created).UTC()
	return doc, nil
}

func (s *sqliteStore) loadKeywords(ctx context.Context, docID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword FROM doc_keywords WHERE doc_id=? ORDER BY position`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, rows.Err()
}
