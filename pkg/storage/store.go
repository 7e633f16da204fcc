// Package storage persists the application state as three independently
// keyed JSON blobs in a local sqlite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Blob keys
const (
	KeyFiles     = "files"
	KeyNotebooks = "notebooks"
	KeyDarkMode  = "darkMode"
)

// Supported database/sql driver names
const (
	DriverCGo    = "sqlite3" // mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DBFile is the database file name inside the data directory
const DBFile = "cellbook.db"

// ErrNotFound is returned by Get for keys that were never written
var ErrNotFound = errors.New("blob not found")

// Store is an opaque key/value blob store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// SQLStore keeps blobs in a sqlite table
type SQLStore struct {
	db *sql.DB
}

// Open opens or creates the database in dataDir with the given driver
func Open(dataDir, driver string) (*SQLStore, error) {
	switch driver {
	case "":
		driver = DriverCGo
	case DriverCGo, DriverPureGo:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open(driver, filepath.Join(dataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

// DB exposes the underlying handle so the search index can share the file
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// init creates the database schema
func (s *SQLStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get implements Store
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// Put implements Store
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT OR REPLACE INTO blobs (key, value, updated_at)
	VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Close implements Store
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// MemoryStore keeps blobs in memory
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements Store
func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Close implements Store
func (m *MemoryStore) Close() error {
	return nil
}
