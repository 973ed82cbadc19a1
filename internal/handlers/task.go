package handlers

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"justdoit/internal/models"
)

// summaryResponse is the body of GET /api/summary.
type summaryResponse struct {
	Total            int        `json:"total"`
	Pending          int        `json:"pending"`
	Completed        int        `json:"completed"`
	CompletedPercent float64    `json:"completed_percent"`
	LastSaved        *time.Time `json:"last_saved,omitempty"`
}

// ListTasks returns the tasks matching the status filter, in stored order.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	h.refresh(r.Context())

	filter := models.ParseFilter(r.URL.Query().Get("status"))
	view := h.session.Snapshot(filter)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"filter": view.Filter,
		"tasks":  view.Tasks,
	})
}

// Summary returns the status counts.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.refresh(ctx)

	s := h.session.Summary()
	resp := summaryResponse{
		Total:            s.Total,
		Pending:          s.Pending,
		Completed:        s.Completed,
		CompletedPercent: s.CompletedPercent(),
	}

	if rep, ok := h.store.(savedAtReporter); ok {
		at, err := rep.UpdatedAt(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to read last save time")
		} else if !at.IsZero() {
			resp.LastSaved = &at
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// CreateTask validates and saves a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	d, err := parseDraft(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	task, err := h.session.Create(r.Context(), d)
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask returns a single task for the detail view.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.session.Open(id)
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask stages an edit. Nothing is saved until the pending update is
// confirmed.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	d, err := parseDraft(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	a, err := h.session.ProposeUpdate(r.Context(), id, d)
	if err != nil {
		respondTaskError(w, err, nil)
		return
	}

	respondJSON(w, http.StatusAccepted, newPendingResponse(a))
}
