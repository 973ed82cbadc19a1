package tasks

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"justdoit/internal/models"
	"justdoit/internal/store"
)

// Draft holds the user-editable fields of a task as entered in a form.
// Deadline uses the date-picker layout YYYY-MM-DD.
type Draft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// DraftFromTask returns the form values for an existing task.
func DraftFromTask(t models.Task) Draft {
	return Draft{
		Name:        t.Name,
		Description: t.Desc,
		Deadline:    t.DeadlineInput(),
	}
}

// Controller validates and applies task mutations. Every mutation loads the
// full collection, changes it and writes it back.
type Controller struct {
	store store.Store
	ids   IDGenerator

	// Now is the clock used for validation and timestamps.
	Now func() time.Time
}

// NewController creates a controller writing through s.
func NewController(s store.Store, ids IDGenerator) *Controller {
	if ids == nil {
		ids = LegacyIDs{}
	}
	return &Controller{
		store: s,
		ids:   ids,
		Now:   time.Now,
	}
}

func (c *Controller) validate(d Draft) error {
	if fe := models.Validate(d.Name, d.Description, d.Deadline, c.Now()); !fe.Valid() {
		return &ValidationError{Fields: fe}
	}
	return nil
}

// Create validates d and appends a new pending task.
func (c *Controller) Create(ctx context.Context, d Draft) (models.Task, error) {
	if err := c.validate(d); err != nil {
		return models.Task{}, err
	}

	deadline, err := models.ToStoredDeadline(d.Deadline)
	if err != nil {
		return models.Task{}, err
	}

	tasks, err := c.store.LoadAll(ctx)
	if err != nil {
		return models.Task{}, err
	}

	now := c.Now()
	task := models.Task{
		ID:        uniqueID(c.ids, tasks, now),
		Name:      d.Name,
		Desc:      d.Description,
		DateAdded: now.UTC(),
		Deadline:  deadline,
		Status:    models.StatusPending,
	}
	if first, ok := c.ids.(firstIDer); ok && len(tasks) == 0 {
		exists, err := c.store.Exists(ctx)
		if err != nil {
			return models.Task{}, err
		}
		if !exists {
			task.ID = first.FirstID()
			task.NumericID = true
		}
	}

	if err := c.store.SaveAll(ctx, append(tasks, task)); err != nil {
		return models.Task{}, err
	}

	log.WithField("task_id", task.ID).Info("task created")
	return task, nil
}

// ProposeUpdate validates an edit and returns the update awaiting
// confirmation. Nothing is written.
func (c *Controller) ProposeUpdate(ctx context.Context, id models.TaskID, d Draft) (*PendingAction, error) {
	if err := c.validate(d); err != nil {
		return nil, err
	}

	tasks, err := c.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(tasks, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	if !differs(tasks[i], d) {
		return nil, ErrNoChanges
	}

	return &PendingAction{Kind: ActionUpdate, IDs: []models.TaskID{id}, Draft: d}, nil
}

// Update replaces the mutable fields of the task with the given id.
func (c *Controller) Update(ctx context.Context, id models.TaskID, d Draft) (models.Task, error) {
	if err := c.validate(d); err != nil {
		return models.Task{}, err
	}

	deadline, err := models.ToStoredDeadline(d.Deadline)
	if err != nil {
		return models.Task{}, err
	}

	tasks, err := c.store.LoadAll(ctx)
	if err != nil {
		return models.Task{}, err
	}

	i := indexOf(tasks, id)
	if i < 0 {
		return models.Task{}, ErrNotFound
	}

	if !differs(tasks[i], d) {
		return models.Task{}, ErrNoChanges
	}

	tasks[i].Name = d.Name
	tasks[i].Desc = d.Description
	tasks[i].Deadline = deadline

	if err := c.store.SaveAll(ctx, tasks); err != nil {
		return models.Task{}, err
	}

	log.WithField("task_id", id).Info("task updated")
	return tasks[i], nil
}

// Delete removes every task whose id is in ids and returns how many were
// removed. Unknown ids are ignored.
func (c *Controller) Delete(ctx context.Context, ids []models.TaskID) (int, error) {
	tasks, err := c.store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	remove := idSet(ids)
	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := remove[t.ID]; !ok {
			kept = append(kept, t)
		}
	}

	if err := c.store.SaveAll(ctx, kept); err != nil {
		return 0, err
	}

	removed := len(tasks) - len(kept)
	log.WithFields(log.Fields{
		"requested": len(ids),
		"removed":   removed,
	}).Info("tasks deleted")
	return removed, nil
}

// AdvanceStatus marks every selected task Completed and returns how many
// changed. All selected tasks must currently share the Pending status.
func (c *Controller) AdvanceStatus(ctx context.Context, ids []models.TaskID) (int, error) {
	tasks, err := c.store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}

	if err := CheckAdvance(tasks, ids); err != nil {
		return 0, err
	}

	selected := idSet(ids)
	changed := 0
	for i := range tasks {
		if _, ok := selected[tasks[i].ID]; ok {
			tasks[i].Status = models.StatusCompleted
			changed++
		}
	}

	if err := c.store.SaveAll(ctx, tasks); err != nil {
		return 0, err
	}

	log.WithField("count", changed).Info("tasks completed")
	return changed, nil
}

// CheckAdvance reports whether the selected tasks may be marked Completed.
// Ids missing from tasks are ignored.
func CheckAdvance(tasks []models.Task, ids []models.TaskID) error {
	selected := idSet(ids)

	var (
		first models.Status
		found int
	)
	for i := range tasks {
		if _, ok := selected[tasks[i].ID]; !ok {
			continue
		}
		if found == 0 {
			first = tasks[i].Status
		} else if tasks[i].Status != first {
			return ErrStatusMismatch
		}
		found++
	}

	if found == 0 {
		return ErrEmptySelection
	}
	if first == models.StatusCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}

// differs compares in the input layout so hand-written stored dates without
// zero padding are not reported as changes.
func differs(t models.Task, d Draft) bool {
	return t.Name != d.Name || t.Desc != d.Description || t.DeadlineInput() != strings.TrimSpace(d.Deadline)
}

func indexOf(tasks []models.Task, id models.TaskID) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func idSet(ids []models.TaskID) map[models.TaskID]struct{} {
	set := make(map[models.TaskID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
