package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a BlobStore backed by a single-table SQLite database. It is
// the default persistent store for installed deployments; FileStore remains
// for environments where a database file is unwanted.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initialize creates the blob table.
func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_blobs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create session_blobs table: %w", err)
	}
	return nil
}

// Read implements BlobStore.
func (s *SQLiteStore) Read(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write implements BlobStore.
func (s *SQLiteStore) Write(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO session_blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
