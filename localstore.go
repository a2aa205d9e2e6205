package sitecms

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/kwarda-kaltara/sitecms/content"
)

// Local store keys. One JSON document per key; the dataset key mirrors the
// whole in-memory Dataset and is the durability fallback of record.
const (
	keyData        = "cms_data"
	keyCredentials = "admin_credentials"
	keyAuth        = "admin_auth"
)

// LocalStore is the always-available key-value store backed by SQLite.
// Every value is a JSON document that must round-trip through text.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema setup.
func NewLocalStore(path string) (*LocalStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait instead
	// of failing with SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &LocalStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

func (s *LocalStore) get(key string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *LocalStore) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, string(raw))
	return err
}

func (s *LocalStore) delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// LoadDataset reads the mirrored dataset. Returns ErrNotFound when the
// store has never been written.
func (s *LocalStore) LoadDataset() (content.Dataset, error) {
	var d content.Dataset
	if err := s.get(keyData, &d); err != nil {
		return content.Dataset{}, err
	}
	return d, nil
}

// SaveDataset mirrors the full dataset into the store.
func (s *LocalStore) SaveDataset(d content.Dataset) error {
	return s.put(keyData, d)
}

// ClearDataset removes the mirrored dataset, leaving credentials and the
// session flag untouched.
func (s *LocalStore) ClearDataset() error {
	return s.delete(keyData)
}

// Credentials returns the stored credential record, or ErrNotFound when
// the defaults should apply.
func (s *LocalStore) Credentials() (content.Credentials, error) {
	var c content.Credentials
	if err := s.get(keyCredentials, &c); err != nil {
		return content.Credentials{}, err
	}
	return c, nil
}

// SetCredentials overwrites the stored credential record.
func (s *LocalStore) SetCredentials(c content.Credentials) error {
	return s.put(keyCredentials, c)
}

// Authenticated reports the stored authenticated flag.
func (s *LocalStore) Authenticated() bool {
	var flag bool
	if err := s.get(keyAuth, &flag); err != nil {
		return false
	}
	return flag
}

// SetAuthenticated stores or clears the authenticated flag.
func (s *LocalStore) SetAuthenticated(v bool) error {
	if !v {
		return s.delete(keyAuth)
	}
	return s.put(keyAuth, true)
}
