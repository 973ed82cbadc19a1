package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"justdoit/internal/models"
)

// ID schemes accepted by NewIDGenerator.
const (
	SchemeLegacy = "legacy"
	SchemeUUID   = "uuid"
)

// IDGenerator assigns ids to new tasks.
type IDGenerator interface {
	NewID(existing []models.Task, now time.Time) models.TaskID
}

// firstIDer is implemented by generators that give the very first task of a
// never-written collection a fixed id.
type firstIDer interface {
	FirstID() models.TaskID
}

// LegacyIDs produces "T" + unix milliseconds + (collection length + 1).
// The first task ever stored gets the numeric id 1.
type LegacyIDs struct{}

func (LegacyIDs) NewID(existing []models.Task, now time.Time) models.TaskID {
	return models.TaskID(fmt.Sprintf("T%d%d", now.UnixMilli(), len(existing)+1))
}

func (LegacyIDs) FirstID() models.TaskID {
	return "1"
}

// UUIDIDs produces random v4 UUIDs.
type UUIDIDs struct{}

func (UUIDIDs) NewID(_ []models.Task, _ time.Time) models.TaskID {
	return models.TaskID(uuid.NewString())
}

// NewIDGenerator returns the generator for scheme.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemeLegacy:
		return LegacyIDs{}, nil
	case SchemeUUID:
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}

// uniqueID asks gen for an id and falls back to a UUID if it collides with
// an existing task.
func uniqueID(gen IDGenerator, existing []models.Task, now time.Time) models.TaskID {
	id := gen.NewID(existing, now)
	for hasID(existing, id) {
		id = models.TaskID(uuid.NewString())
	}
	return id
}

func hasID(tasks []models.Task, id models.TaskID) bool {
	for i := range tasks {
		if tasks[i].ID == id {
			return true
		}
	}
	return false
}
