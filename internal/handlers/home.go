package handlers

import (
	"net/http"
	"time"

	"justdoit/internal/models"
	"justdoit/internal/tasks"
)

// TaskRow is one line of the task table.
type TaskRow struct {
	models.Task
	Added    string
	Selected bool
	Overdue  bool
}

// HomeData holds data for the home page template.
type HomeData struct {
	Title           string
	Filter          models.Filter
	Rows            []TaskRow
	Summary         tasks.Summary
	AllSelected     bool
	SelectionActive bool
	Pending         *pendingResponse
	Form            *tasks.Form
	MinDeadline     string
	Notice          string
}

// Home renders the task table filtered by the status query parameter.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.refresh(r.Context())
	h.render(w, "home.html", h.homeData(r, time.Now()))
}

func (h *Handlers) homeData(r *http.Request, now time.Time) HomeData {
	filter := models.ParseFilter(r.URL.Query().Get("status"))
	view := h.session.Snapshot(filter)

	selected := make(map[models.TaskID]bool, len(view.Selected))
	for _, id := range view.Selected {
		selected[id] = true
	}

	rows := make([]TaskRow, 0, len(view.Tasks))
	for i := range view.Tasks {
		row := TaskRow{
			Task:     view.Tasks[i],
			Selected: selected[view.Tasks[i].ID],
			Overdue:  view.Tasks[i].IsOverdue(now),
		}
		if !row.DateAdded.IsZero() {
			row.Added = row.DateAdded.In(now.Location()).Format(models.StoredDateLayout)
		}
		rows = append(rows, row)
	}

	// Deadlines must be after today.
	minDeadline := now.AddDate(0, 0, 1).Format(models.InputDateLayout)

	return HomeData{
		Title:           "Just Do It",
		Filter:          filter,
		Rows:            rows,
		Summary:         view.Summary,
		AllSelected:     view.AllSelected,
		SelectionActive: view.SelectionActive,
		Pending:         newPendingResponse(view.Pending),
		Form:            view.Form,
		MinDeadline:     minDeadline,
		Notice:          r.URL.Query().Get("notice"),
	}
}
