package tasks

import (
	"context"
	"errors"
	"testing"

	"justdoit/internal/models"
	"justdoit/internal/store"
)

func setupTestBoard(t *testing.T, tasks ...models.Task) (*Board, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	seed(t, s, tasks...)
	b := NewBoard(s)
	if err := b.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return b, s
}

func taskIDs(tasks []models.Task) []models.TaskID {
	out := make([]models.TaskID, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].ID
	}
	return out
}

func equalIDs(a, b []models.TaskID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBoard_FilteredPreservesOrder(t *testing.T) {
	b, _ := setupTestBoard(t,
		pendingTask("1", "a"),
		completedTask("2", "b"),
		pendingTask("3", "c"),
		completedTask("4", "d"),
	)

	tests := []struct {
		filter models.Filter
		want   []models.TaskID
	}{
		{models.FilterAll, []models.TaskID{"1", "2", "3", "4"}},
		{models.FilterPending, []models.TaskID{"1", "3"}},
		{models.FilterCompleted, []models.TaskID{"2", "4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := taskIDs(b.Filtered(tt.filter))
			if !equalIDs(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBoard_Summary(t *testing.T) {
	b, _ := setupTestBoard(t, pendingTask("1", "a"), completedTask("2", "b"), pendingTask("3", "c"))

	got := b.Summary()
	want := Summary{Total: 3, Pending: 2, Completed: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got.Total != got.Pending+got.Completed {
		t.Error("expected total to equal pending plus completed")
	}
}

func TestSummary_CompletedPercent(t *testing.T) {
	if p := (Summary{}).CompletedPercent(); p != 0 {
		t.Errorf("expected 0 for empty summary, got %v", p)
	}
	if p := (Summary{Total: 4, Completed: 1, Pending: 3}).CompletedPercent(); p != 25 {
		t.Errorf("expected 25, got %v", p)
	}
}

func TestBoard_EmptyStore(t *testing.T) {
	b, _ := setupTestBoard(t)

	if len(b.Tasks()) != 0 {
		t.Errorf("expected no tasks, got %d", len(b.Tasks()))
	}
	if b.AllSelected() {
		t.Error("expected AllSelected to be false for an empty board")
	}
	if (b.Summary() != Summary{}) {
		t.Errorf("expected zero summary, got %+v", b.Summary())
	}
}

func TestBoard_Toggle(t *testing.T) {
	b, _ := setupTestBoard(t, pendingTask("1", "a"), pendingTask("2", "b"))

	on, err := b.Toggle("2")
	if err != nil || !on {
		t.Fatalf("expected task 2 selected, got %v, %v", on, err)
	}
	if !b.SelectionActive() {
		t.Error("expected selection to be active")
	}

	on, err = b.Toggle("2")
	if err != nil || on {
		t.Fatalf("expected task 2 deselected, got %v, %v", on, err)
	}
	if b.SelectionActive() {
		t.Error("expected selection to be inactive")
	}

	if _, err := b.Toggle("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoard_SelectedInCollectionOrder(t *testing.T) {
	b, _ := setupTestBoard(t, pendingTask("1", "a"), pendingTask("2", "b"), pendingTask("3", "c"))

	b.Toggle("3")
	b.Toggle("1")

	want := []models.TaskID{"1", "3"}
	if got := b.Selected(); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBoard_SelectAllToggles(t *testing.T) {
	b, _ := setupTestBoard(t, pendingTask("1", "a"), completedTask("2", "b"))

	b.SelectAll()
	if !b.AllSelected() {
		t.Fatal("expected every task selected")
	}
	if !b.IsSelected("1") || !b.IsSelected("2") {
		t.Error("expected both tasks selected")
	}

	b.SelectAll()
	if b.SelectionActive() {
		t.Error("expected second SelectAll to clear the selection")
	}

	b.Toggle("1")
	b.SelectAll()
	if !b.AllSelected() {
		t.Error("expected SelectAll from a partial selection to select everything")
	}
}

func TestBoard_ReloadPrunesSelection(t *testing.T) {
	b, s := setupTestBoard(t, pendingTask("1", "a"), pendingTask("2", "b"))
	b.Toggle("1")
	b.Toggle("2")

	seed(t, s, pendingTask("2", "b"))
	if err := b.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	want := []models.TaskID{"2"}
	if got := b.Selected(); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBoard_ReloadFailureKeepsContents(t *testing.T) {
	b, s := setupTestBoard(t, pendingTask("1", "a"))
	s.FailWith(errors.New("disk gone"))

	if err := b.Reload(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(b.Tasks()) != 1 {
		t.Error("expected previous tasks to be kept")
	}
}

func TestBoard_Open(t *testing.T) {
	b, _ := setupTestBoard(t, pendingTask("1", "a"), pendingTask("2", "b"))

	got, err := b.Open("2")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got.Name != "b" {
		t.Errorf("expected task b, got %q", got.Name)
	}

	if _, err := b.Open("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	b.Toggle("1")
	if _, err := b.Open("2"); !errors.Is(err, ErrSelectionActive) {
		t.Errorf("expected ErrSelectionActive, got %v", err)
	}
}
