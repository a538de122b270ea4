// Package mongostore persists documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cognicore/pdfdigest/pkg/digest/internalerr"
	"github.com/cognicore/pdfdigest/pkg/digest/store"
)

const (
	DefaultDatabase   = "pdf_database"
	DefaultCollection = "pdf_documents"
)

// record is the BSON shape of a stored document.
type record struct {
	ID             string    `bson:"_id"`
	URL            string    `bson:"url"`
	NumPages       int       `bson:"num_pages"`
	Category       string    `bson:"category"`
	Summary        string    `bson:"summary"`
	Keywords       []string  `bson:"keywords"`
	ProcessingTime float64   `bson:"processing_time"`
	Language       string    `bson:"language,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

func toRecord(d store.Document) record {
	kw := d.Keywords
	if kw == nil {
		kw = []string{}
	}
	return record{
		ID:             d.ID,
		URL:            d.URL,
		NumPages:       d.NumPages,
		Category:       d.Category,
		Summary:        d.Summary,
		Keywords:       kw,
		ProcessingTime: d.ProcessingTime,
		Language:       d.Language,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

func (r record) document() store.Document {
	return store.Document{
		ID:             r.ID,
		URL:            r.URL,
		NumPages:       r.NumPages,
		Category:       r.Category,
		Summary:        r.Summary,
		Keywords:       r.Keywords,
		ProcessingTime: r.ProcessingTime,
		Language:       r.Language,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

// Options configures the MongoDB connection.
type Options struct {
	URI        string
	Database   string
	Collection string
}

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB, pings the primary and ensures the url index.
func Open(ctx context.Context, opts Options) (store.Store, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri: %w", internalerr.ErrInvalidConfig)
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "url", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create url index: %w", err)
	}

	return &mongoStore{client: client, coll: coll}, nil
}

// Close disconnects the client.
func (s *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// SaveDoc inserts one document.
func (s *mongoStore) SaveDoc(ctx context.Context, d store.Document) error {
	if d.ID == "" || d.URL == "" {
		return internalerr.ErrInvalidInput
	}
	_, err := s.coll.InsertOne(ctx, toRecord(d))
	return err
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// GetDocByURL returns the newest document for url.
func (s *mongoStore) GetDocByURL(ctx context.Context, url string) (store.Document, bool, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"url": url}, options.FindOne().SetSort(newestFirst)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Document{}, false, nil
	}
	if err != nil {
		return store.Document{}, false, err
	}
	return rec.document(), true, nil
}

// ListDocs returns up to limit documents, newest first.
func (s *mongoStore) ListDocs(ctx context.Context, limit int) ([]store.Document, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}

	docs := make([]store.Document, len(recs))
	for i, rec := range recs {
		docs[i] = rec.document()
	}
	return docs, nil
}
