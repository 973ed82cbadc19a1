package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"justdoit/internal/models"
)

// FileStore keeps the collection as a JSON array in a single file. A lock
// file next to it serialises access between the server and the CLI.
type FileStore struct {
	path string
	flk  *flock.Flock
}

// NewFileStore creates a file-backed store, creating the parent directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("data file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &FileStore{
		path: path,
		flk:  flock.New(path + ".lock"),
	}, nil
}

// LoadAll reads the stored collection. A missing file is an empty collection.
func (s *FileStore) LoadAll(ctx context.Context) ([]models.Task, error) {
	if _, err := s.flk.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, unavailable("failed to lock data file", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Task{}, nil
		}
		return nil, unavailable("failed to read data file", err)
	}
	return decodeTasks(data, s.path), nil
}

// SaveAll writes the collection to a temp file and renames it into place.
func (s *FileStore) SaveAll(ctx context.Context, tasks []models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}

	if _, err := s.flk.TryLockContext(ctx, lockRetryDelay); err != nil {
		return unavailable("failed to lock data file", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return unavailable("failed to create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable("failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("failed to close temp file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return unavailable("failed to replace data file", err)
	}
	return nil
}

// Exists reports whether the data file is present.
func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, unavailable("failed to stat data file", err)
}

// Close releases the lock file handle.
func (s *FileStore) Close() error {
	return s.flk.Close()
}
