package tasks

import (
	"context"

	"justdoit/internal/models"
	"justdoit/internal/store"
)

// Summary counts tasks by status.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// CompletedPercent returns the completed share of all tasks, 0 when empty.
func (s Summary) CompletedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) * 100 / float64(s.Total)
}

// Board is the in-memory view of the stored collection plus the user's
// selection. It is refreshed by a full reload after every mutation.
type Board struct {
	store    store.Store
	tasks    []models.Task
	selected map[models.TaskID]struct{}
}

// NewBoard creates an empty board reading from s. Call Reload to populate it.
func NewBoard(s store.Store) *Board {
	return &Board{
		store:    s,
		tasks:    []models.Task{},
		selected: make(map[models.TaskID]struct{}),
	}
}

// Reload replaces the in-memory collection with the stored one. On error the
// board keeps its previous contents. Selected ids that no longer exist are dropped.
func (b *Board) Reload(ctx context.Context) error {
	tasks, err := b.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	b.tasks = tasks

	for id := range b.selected {
		if indexOf(b.tasks, id) < 0 {
			delete(b.selected, id)
		}
	}
	return nil
}

// Tasks returns a copy of the collection in stored order.
func (b *Board) Tasks() []models.Task {
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Get returns the task with the given id.
func (b *Board) Get(id models.TaskID) (models.Task, bool) {
	i := indexOf(b.tasks, id)
	if i < 0 {
		return models.Task{}, false
	}
	return b.tasks[i], true
}

// Filtered returns the tasks matching f, preserving order.
func (b *Board) Filtered(f models.Filter) []models.Task {
	out := make([]models.Task, 0, len(b.tasks))
	for i := range b.tasks {
		if f.Matches(&b.tasks[i]) {
			out = append(out, b.tasks[i])
		}
	}
	return out
}

// Summary recomputes the status counts.
func (b *Board) Summary() Summary {
	s := Summary{Total: len(b.tasks)}
	for i := range b.tasks {
		switch b.tasks[i].Status {
		case models.StatusCompleted:
			s.Completed++
		case models.StatusPending:
			s.Pending++
		}
	}
	return s
}

// Toggle adds id to the selection or removes it. It returns whether the
// task is selected afterwards.
func (b *Board) Toggle(id models.TaskID) (bool, error) {
	if _, ok := b.selected[id]; ok {
		delete(b.selected, id)
		return false, nil
	}
	if indexOf(b.tasks, id) < 0 {
		return false, ErrNotFound
	}
	b.selected[id] = struct{}{}
	return true, nil
}

// SelectAll selects every loaded task, or clears the selection if every
// task is already selected.
func (b *Board) SelectAll() {
	if len(b.tasks) > 0 && len(b.selected) == len(b.tasks) {
		b.ClearSelection()
		return
	}
	for i := range b.tasks {
		b.selected[b.tasks[i].ID] = struct{}{}
	}
}

// ClearSelection empties the selection.
func (b *Board) ClearSelection() {
	b.selected = make(map[models.TaskID]struct{})
}

// IsSelected reports whether id is in the selection.
func (b *Board) IsSelected(id models.TaskID) bool {
	_, ok := b.selected[id]
	return ok
}

// AllSelected reports whether every loaded task is selected.
func (b *Board) AllSelected() bool {
	return len(b.tasks) > 0 && len(b.selected) == len(b.tasks)
}

// Selected returns the selected ids in collection order.
func (b *Board) Selected() []models.TaskID {
	out := make([]models.TaskID, 0, len(b.selected))
	for i := range b.tasks {
		if _, ok := b.selected[b.tasks[i].ID]; ok {
			out = append(out, b.tasks[i].ID)
		}
	}
	return out
}

// SelectionActive is true while any task is selected. Opening a task's
// detail view is disabled in this mode.
func (b *Board) SelectionActive() bool {
	return len(b.selected) > 0
}

// Open returns the task for the detail view.
func (b *Board) Open(id models.TaskID) (models.Task, error) {
	if b.SelectionActive() {
		return models.Task{}, ErrSelectionActive
	}
	t, ok := b.Get(id)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return t, nil
}
