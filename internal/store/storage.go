package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Storage is a synchronous string-keyed store that outlives a single screen.
type Storage interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool)
	// Set writes value under key.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*SQLiteStorage)(nil)
)

// MemoryStorage is a process-local [Storage].
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage creates an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Keys returns the number of stored keys.
func (m *MemoryStorage) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// SQLiteStorage is a [Storage] backed by the kv_items table.
//
// Read errors are logged and reported as a missing key.
type SQLiteStorage struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStorage wraps a migrated database.
func NewSQLiteStorage(db *sql.DB, logger *log.Logger) *SQLiteStorage {
	if logger == nil {
		logger = log.Default()
	}
	return &SQLiteStorage{db: db, logger: logger}
}

func (s *SQLiteStorage) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_items WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("failed to read storage key", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *SQLiteStorage) Set(key, value string) error {
	query := `
		INSERT INTO kv_items (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_items WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
