package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"justdoit/internal/models"
)

// SQLiteStore implements the Store interface using a key-value table in SQLite.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

// NewSQLiteStore creates a new SQLite store with the given database path.
// The collection lives under key; an empty key means DefaultKey.
func NewSQLiteStore(dbPath, key string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}

	return &SQLiteStore{db: db, key: key}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadAll reads the stored collection.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Task, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Task{}, nil
		}
		return nil, unavailable("failed to load tasks", err)
	}

	return decodeTasks([]byte(value), "sqlite"), nil
}

// SaveAll replaces the stored collection in a single upsert.
func (s *SQLiteStore) SaveAll(ctx context.Context, tasks []models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().UTC())
	if err != nil {
		return unavailable("failed to save tasks", err)
	}

	return nil
}

// Exists reports whether a row for the key is present.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv WHERE key = ?`, s.key).Scan(&n)
	if err != nil {
		return false, unavailable("failed to check tasks", err)
	}
	return n > 0, nil
}

// UpdatedAt returns when the collection was last written, or the zero time
// if it has never been written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updatedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, s.key).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, unavailable("failed to read update time", err)
	}
	if !updatedAt.Valid {
		return time.Time{}, nil
	}
	return updatedAt.Time, nil
}
