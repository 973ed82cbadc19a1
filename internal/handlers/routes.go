package handlers

import "github.com/go-chi/chi/v5"

// Routes registers the page and API routes on r.
func (h *Handlers) Routes(r chi.Router) {
	// Page routes
	r.Get("/", h.Home)

	// Task API routes
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/{id}", h.GetTask)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Get("/api/summary", h.Summary)

	// Selection routes
	r.Post("/api/selection/all", h.SelectAll)
	r.Post("/api/selection/delete", h.StageDelete)
	r.Post("/api/selection/complete", h.StageComplete)
	r.Post("/api/selection/{id}/toggle", h.ToggleSelection)
	r.Delete("/api/selection", h.ClearSelection)

	// Confirmation routes
	r.Get("/api/pending", h.GetPending)
	r.Post("/api/pending/confirm", h.ConfirmPending)
	r.Post("/api/pending/cancel", h.CancelPending)

	// Form routes
	r.Get("/api/form", h.GetForm)
	r.Post("/api/form/new", h.NewForm)
	r.Post("/api/form/open/{id}", h.OpenForm)
	r.Post("/api/form/unlock", h.UnlockForm)
	r.Post("/api/form/fields", h.SetFormFields)
	r.Post("/api/form/submit", h.SubmitForm)
	r.Post("/api/form/close", h.CloseForm)
	r.Post("/api/form/cancel", h.CancelFormEdit)
}
