package tasks

import "justdoit/internal/models"

// ActionKind names a change that waits for explicit confirmation.
type ActionKind string

const (
	ActionDelete        ActionKind = "delete"
	ActionAdvanceStatus ActionKind = "advance_status"
	ActionUpdate        ActionKind = "update"
	ActionDiscard       ActionKind = "discard"
)

// PendingAction is a proposed change that only takes effect once confirmed.
type PendingAction struct {
	Kind  ActionKind      `json:"kind"`
	IDs   []models.TaskID `json:"ids,omitempty"`
	Draft Draft           `json:"draft"`
}

// Prompt is the confirmation question shown to the user.
func (a *PendingAction) Prompt() string {
	switch a.Kind {
	case ActionDelete:
		return "Are you sure you want to delete the selected task(s)?"
	case ActionAdvanceStatus:
		return "Update the status of selected task(s)?"
	case ActionUpdate:
		return "Are you sure you want to update this task?"
	case ActionDiscard:
		return "You have unsaved changes. Discard them?"
	default:
		return "Are you sure?"
	}
}
