package store

import (
	"context"
	"errors"

	"justdoit/internal/models"
)

// DefaultKey is the key the task collection is stored under.
const DefaultKey = "myData"

// ErrUnavailable is returned when the backing storage cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Store persists the whole task collection as a single value.
// Every write replaces the previous collection.
type Store interface {
	// LoadAll returns the stored collection, or an empty slice if nothing is stored.
	LoadAll(ctx context.Context) ([]models.Task, error)
	// SaveAll overwrites the stored collection.
	SaveAll(ctx context.Context, tasks []models.Task) error
	// Exists reports whether the collection has ever been written. An
	// emptied collection still exists.
	Exists(ctx context.Context) (bool, error)

	// Lifecycle
	Close() error
}
