package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"justdoit/internal/models"
)

// decodeTasks parses a stored collection. Malformed data is treated as an
// empty collection so a corrupted value never blocks the UI.
func decodeTasks(data []byte, source string) []models.Task {
	tasks := []models.Task{}
	if len(bytes.TrimSpace(data)) == 0 {
		return tasks
	}
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.WithFields(log.Fields{
			"source": source,
			"bytes":  len(data),
		}).WithError(err).Warn("stored task collection is malformed, treating as empty")
		return []models.Task{}
	}
	return tasks
}

func encodeTasks(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
