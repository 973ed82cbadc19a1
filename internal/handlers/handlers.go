package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"justdoit/internal/models"
	"justdoit/internal/store"
	"justdoit/internal/tasks"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	session   *tasks.Session
	store     store.Store
	templates *template.Template
}

// New creates a new Handlers instance.
func New(sess *tasks.Session, s store.Store, tmpl *template.Template) *Handlers {
	return &Handlers{
		session:   sess,
		store:     s,
		templates: tmpl,
	}
}

// savedAtReporter is implemented by stores that track their last write.
type savedAtReporter interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}

// notices are the blocking messages shown for rule violations.
var notices = map[error]string{
	tasks.ErrStatusMismatch:   "Selected tasks must have the same status to update them together.",
	tasks.ErrAlreadyCompleted: "Completed Tasks cannot be updated.",
	tasks.ErrNoChanges:        "No changes were made",
	tasks.ErrSelectionActive:  "Clear the selection to open a task.",
	tasks.ErrEmptySelection:   "Select at least one task first.",
}

// parseID extracts a task id from URL parameters.
func parseID(r *http.Request, param string) (models.TaskID, error) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		return "", errors.New("missing task id")
	}
	return models.TaskID(id), nil
}

// parseDraft reads the task fields from a submitted form.
func parseDraft(r *http.Request) (tasks.Draft, error) {
	if err := r.ParseForm(); err != nil {
		return tasks.Draft{}, err
	}
	return tasks.Draft{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Deadline:    r.FormValue("deadline"),
	}, nil
}

func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

func respondServerError(w http.ResponseWriter, err error) {
	log.WithError(err).Error("internal server error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondTaskError maps task and storage errors to status codes. extra, when
// set, is merged into the body.
func respondTaskError(w http.ResponseWriter, err error, extra map[string]interface{}) {
	body := map[string]interface{}{}
	for k, v := range extra {
		body[k] = v
	}

	var verr *tasks.ValidationError
	switch {
	case errors.As(err, &verr):
		body["errors"] = verr.Fields
		respondJSON(w, http.StatusUnprocessableEntity, body)
	case errors.Is(err, tasks.ErrNotFound):
		body["error"] = "task not found"
		respondJSON(w, http.StatusNotFound, body)
	case tasks.IsBusinessRule(err):
		body["error"] = noticeFor(err)
		respondJSON(w, http.StatusConflict, body)
	case errors.Is(err, store.ErrUnavailable):
		log.WithError(err).Warn("storage unavailable")
		body["error"] = "storage is unavailable, please try again"
		respondJSON(w, http.StatusServiceUnavailable, body)
	default:
		respondServerError(w, err)
	}
}

func noticeFor(err error) string {
	for target, msg := range notices {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		respondServerError(w, err)
	}
}

// refresh rereads storage so writes from other processes show up. Failures
// keep the previous view.
func (h *Handlers) refresh(ctx context.Context) {
	if err := h.session.Refresh(ctx); err != nil {
		log.WithError(err).Warn("failed to refresh tasks")
	}
}
