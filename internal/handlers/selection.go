package handlers

import (
	"net/http"

	"justdoit/internal/models"
)

type selectionResponse struct {
	Selected        []models.TaskID `json:"selected"`
	AllSelected     bool            `json:"all_selected"`
	SelectionActive bool            `json:"selection_active"`
}

func (h *Handlers) respondSelection(w http.ResponseWriter) {
	view := h.session.Snapshot(models.FilterAll)
	respondJSON(w, http.StatusOK, selectionResponse{
		Selected:        view.Selected,
		AllSelected:     view.AllSelected,
		SelectionActive: view.SelectionActive,
	})
}

// ToggleSelection adds a task to the selection or removes it.
func (h *Handlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if _, err := h.session.Toggle(id); err != nil {
		respondTaskError(w, err, nil)
		return
	}

	h.respondSelection(w)
}

// SelectAll selects every task, or clears the selection when all are selected.
func (h *Handlers) SelectAll(w http.ResponseWriter, r *http.Request) {
	h.session.SelectAll()
	h.respondSelection(w)
}

// ClearSelection empties the selection.
func (h *Handlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.session.ClearSelection()
	h.respondSelection(w)
}

// StageDelete asks for confirmation before deleting the selected tasks.
func (h *Handlers) StageDelete(w http.ResponseWriter, r *http.Request) {
	a, err := h.session.StageDelete()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusAccepted, newPendingResponse(a))
}

// StageComplete checks the selected tasks can be completed and asks for
// confirmation.
func (h *Handlers) StageComplete(w http.ResponseWriter, r *http.Request) {
	a, err := h.session.StageAdvance()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusAccepted, newPendingResponse(a))
}
