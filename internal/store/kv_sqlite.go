package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"

	"whisperlink/internal/domain"
)

const (
	// DefaultSQLiteFile is the database file name used under the home directory.
	DefaultSQLiteFile = "whisperlink.db"
	maxBusyTimeoutMs  = 5000
)

// SQLiteKV persists keys in a single SQLite table.
type SQLiteKV struct {
	mu   sync.RWMutex
	db   *sql.DB
	file string
}

// NewSQLiteKV opens (or creates) the database at filePath.
func NewSQLiteKV(filePath string) (*SQLiteKV, error) {
	if filePath == "" {
		filePath = DefaultSQLiteFile
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "resolve db path")
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o700); err != nil {
		return nil, errors.Wrap(err, "create db directory")
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(absPath)))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", maxBusyTimeoutMs)); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set busy timeout")
	}

	s := &SQLiteKV{db: db, file: absPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteKV) ensureSchema() error {
	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(err, "create kv table")
	}
	return nil
}

// Get returns the value stored under key.
func (s *SQLiteKV) Get(key string) ([]byte, bool, error) {
	if !validKey(key) {
		return nil, false, errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, false, ErrClosed
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "select %s", key)
	}
	return value, true, nil
}

// Set replaces the value stored under key.
func (s *SQLiteKV) Set(key string, value []byte) error {
	if !validKey(key) {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	return errors.Wrapf(err, "upsert %s", key)
}

// Delete removes key; deleting a missing key is not an error.
func (s *SQLiteKV) Delete(key string) error {
	if !validKey(key) {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return errors.Wrapf(err, "delete %s", key)
}

// Close releases the underlying database connection.
func (s *SQLiteKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Compile-time assertion that SQLiteKV implements domain.KeyValueStore.
var _ domain.KeyValueStore = (*SQLiteKV)(nil)
