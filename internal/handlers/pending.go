package handlers

import (
	"net/http"

	"justdoit/internal/models"
	"justdoit/internal/tasks"
)

// pendingResponse describes an action awaiting confirmation.
type pendingResponse struct {
	Kind   tasks.ActionKind `json:"kind"`
	IDs    []models.TaskID  `json:"ids,omitempty"`
	Draft  *tasks.Draft     `json:"draft,omitempty"`
	Prompt string           `json:"prompt"`
}

func newPendingResponse(a *tasks.PendingAction) *pendingResponse {
	if a == nil {
		return nil
	}
	resp := &pendingResponse{
		Kind:   a.Kind,
		IDs:    a.IDs,
		Prompt: a.Prompt(),
	}
	if a.Kind == tasks.ActionUpdate {
		d := a.Draft
		resp.Draft = &d
	}
	return resp
}

// GetPending returns the action awaiting confirmation, if any.
func (h *Handlers) GetPending(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending": newPendingResponse(h.session.Pending()),
	})
}

// ConfirmPending applies the pending action. On failure the action stays
// pending unless it can never succeed.
func (h *Handlers) ConfirmPending(w http.ResponseWriter, r *http.Request) {
	a, err := h.session.Confirm(r.Context())
	if err != nil {
		respondTaskError(w, err, map[string]interface{}{
			"pending": newPendingResponse(h.session.Pending()),
		})
		return
	}

	view := h.session.Snapshot(models.FilterAll)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"confirmed": a.Kind,
		"summary":   view.Summary,
		"form":      view.Form,
	})
}

// CancelPending drops the pending action.
func (h *Handlers) CancelPending(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Cancel(); err != nil {
		respondTaskError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending": nil,
		"form":    h.session.Form(),
	})
}
