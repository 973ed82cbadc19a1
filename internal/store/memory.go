package store

import (
	"context"
	"sync"

	"justdoit/internal/models"
)

// MemoryStore keeps the serialized collection in memory. It is used by tests
// and by the "memory" backend for throwaway sessions.
type MemoryStore struct {
	mu      sync.Mutex
	data    []byte
	writes  int
	failErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadAll decodes the current blob.
func (s *MemoryStore) LoadAll(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return nil, unavailable("failed to load tasks", s.failErr)
	}
	return decodeTasks(s.data, "memory"), nil
}

// SaveAll replaces the blob.
func (s *MemoryStore) SaveAll(ctx context.Context, tasks []models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return unavailable("failed to save tasks", s.failErr)
	}
	s.data = data
	s.writes++
	return nil
}

// Exists reports whether a blob has been stored.
func (s *MemoryStore) Exists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return false, unavailable("failed to check tasks", s.failErr)
	}
	return s.data != nil, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Writes returns how many successful SaveAll calls were made.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// SetRaw replaces the stored blob without counting a write.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Raw returns a copy of the stored blob.
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// FailWith makes every following call fail with err until cleared with nil.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
