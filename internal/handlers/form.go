package handlers

import (
	"net/http"

	"justdoit/internal/tasks"
)

type formResponse struct {
	Form    *tasks.Form      `json:"form"`
	Pending *pendingResponse `json:"pending,omitempty"`
}

// respondForm writes f with any pending confirmation. A closed form is sent
// as null so the page reloads.
func (h *Handlers) respondForm(w http.ResponseWriter, code int, f *tasks.Form) {
	if f != nil && f.Closed() {
		f = nil
	}
	respondJSON(w, code, formResponse{
		Form:    f,
		Pending: newPendingResponse(h.session.Pending()),
	})
}

// GetForm returns the open form, or null.
func (h *Handlers) GetForm(w http.ResponseWriter, r *http.Request) {
	h.respondForm(w, http.StatusOK, h.session.Form())
}

// NewForm opens the add form.
func (h *Handlers) NewForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.NewForm()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}

// OpenForm opens the read-only view of a task (row click).
func (h *Handlers) OpenForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	f, err := h.session.OpenForm(id)
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}

// UnlockForm switches the view form to editing.
func (h *Handlers) UnlockForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.UnlockForm()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}

// SetFormFields stores the values typed so far.
func (h *Handlers) SetFormFields(w http.ResponseWriter, r *http.Request) {
	d, err := parseDraft(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	f, err := h.session.SetFormFields(d)
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}

// SubmitForm saves the add form, or stages the edit form's update.
func (h *Handlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.SubmitForm(r.Context())
	if err != nil {
		respondTaskError(w, err, map[string]interface{}{"form": f})
		return
	}

	code := http.StatusOK
	if f != nil && f.Mode == tasks.ModeConfirmingUpdate {
		code = http.StatusAccepted
	}
	h.respondForm(w, code, f)
}

// CloseForm closes the form, asking first if there are unsaved edits.
func (h *Handlers) CloseForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.CloseForm()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}

// CancelFormEdit leaves edit mode, asking first if there are unsaved edits.
func (h *Handlers) CancelFormEdit(w http.ResponseWriter, r *http.Request) {
	f, err := h.session.CancelFormEdit()
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}
	h.respondForm(w, http.StatusOK, f)
}
