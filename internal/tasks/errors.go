package tasks

import (
	"errors"

	"justdoit/internal/models"
)

// Business rule violations. None of them mutate state.
var (
	ErrStatusMismatch   = errors.New("selected tasks must have the same status to update them together")
	ErrAlreadyCompleted = errors.New("completed tasks cannot be updated")
	ErrNoChanges        = errors.New("no changes were made")
	ErrEmptySelection   = errors.New("no tasks selected")
	ErrNotFound         = errors.New("task not found")
	ErrSelectionActive  = errors.New("clear the selection to open a task")
	ErrNoPendingAction  = errors.New("nothing is awaiting confirmation")
	ErrActionPending    = errors.New("another action is awaiting confirmation")
	ErrNoForm           = errors.New("no task form is open")
	ErrInvalidState     = errors.New("action not allowed in the current form state")
)

// ValidationError carries per-field messages for a rejected create or edit.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

// IsBusinessRule reports whether err is a rule violation that should be
// shown to the user as a blocking notice.
func IsBusinessRule(err error) bool {
	for _, target := range []error{
		ErrStatusMismatch,
		ErrAlreadyCompleted,
		ErrNoChanges,
		ErrEmptySelection,
		ErrSelectionActive,
		ErrNoPendingAction,
		ErrActionPending,
		ErrNoForm,
		ErrInvalidState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
