package sitecms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Remote collection names. They mirror the local dataset collections that
// are remote-synced; downloads and ppid stay local-only.
const (
	CollectionPosts  = "posts"
	CollectionEvents = "events"
	CollectionAlbums = "albums"
)

// SyncedCollections lists the collections kept in the remote store, in
// seed/import order.
var SyncedCollections = []string{CollectionPosts, CollectionEvents, CollectionAlbums}

// Document is one schemaless record in a remote collection. Data is the
// JSON object without the id.
type Document struct {
	ID   string
	Data json.RawMessage
}

// DocumentStore is the remote persistence contract: schemaless collections
// of JSON documents. Implementations assign opaque ids on Add.
type DocumentStore interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	Add(ctx context.Context, collection string, doc json.RawMessage) (string, error)
	UpdateByID(ctx context.Context, collection, id string, doc json.RawMessage) error
	DeleteByID(ctx context.Context, collection, id string) error
	// FindByField returns documents whose top-level field equals value.
	// Used only for posts, keyed on slug.
	FindByField(ctx context.Context, collection, field, value string) ([]Document, error)
	DeleteAll(ctx context.Context, collection string) error
	Count(ctx context.Context, collection string) (int, error)
}

// PostgresDocStore implements DocumentStore over a single jsonb table.
type PostgresDocStore struct {
	db *sql.DB
}

// NewPostgresDocStore opens the remote store and ensures its schema.
func NewPostgresDocStore(dsn string) (*PostgresDocStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("remote store open: %w", err)
	}
	s := &PostgresDocStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("remote store schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection pool.
func (s *PostgresDocStore) Close() error {
	return s.db.Close()
}

func (s *PostgresDocStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS documents (
    id uuid PRIMARY KEY,
    collection text NOT NULL,
    doc jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
`)
	return err
}

// Ping verifies connectivity; used at startup to decide whether the remote
// store is reachable.
func (s *PostgresDocStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListAll returns every document in the collection.
func (s *PostgresDocStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(raw)})
	}
	return docs, rows.Err()
}

// Add inserts a document under a freshly generated id and returns the id.
func (s *PostgresDocStore) Add(ctx context.Context, collection string, doc json.RawMessage) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3)`,
		id, collection, string(doc))
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateByID replaces the document body for the given id.
func (s *PostgresDocStore) UpdateByID(ctx context.Context, collection, id string, doc json.RawMessage) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET doc = $1 WHERE collection = $2 AND id = $3`,
		string(doc), collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeleteByID removes the document with the given id.
func (s *PostgresDocStore) DeleteByID(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return err
}

// FindByField returns documents whose top-level field equals value.
func (s *PostgresDocStore) FindByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3`,
		collection, field, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(raw)})
	}
	return docs, rows.Err()
}

// DeleteAll wipes a collection. Part of snapshot import; not atomic with
// the reinsert that follows.
func (s *PostgresDocStore) DeleteAll(ctx context.Context, collection string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1`, collection)
	return err
}

// Count returns the number of documents in the collection.
func (s *PostgresDocStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1`, collection).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
