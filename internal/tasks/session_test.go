package tasks

import (
	"context"
	"errors"
	"testing"

	"justdoit/internal/models"
	"justdoit/internal/store"
)

func setupTestSession(t *testing.T, tasks ...models.Task) (*Session, *store.MemoryStore) {
	t.Helper()
	c, s := setupTestController(t)
	seed(t, s, tasks...)
	sess, err := NewSession(context.Background(), NewBoard(s), c)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return sess, s
}

func TestSession_BulkAdvanceStatus(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"), pendingTask("2", "b"))
	ctx := context.Background()

	sess.Toggle("1")
	sess.Toggle("2")

	a, err := sess.StageAdvance()
	if err != nil {
		t.Fatalf("StageAdvance failed: %v", err)
	}
	if a.Kind != ActionAdvanceStatus || len(a.IDs) != 2 {
		t.Fatalf("unexpected pending action %+v", a)
	}
	writes := s.Writes()

	if _, err := sess.Confirm(ctx); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	for _, task := range loadAll(t, s) {
		if task.Status != models.StatusCompleted {
			t.Errorf("expected task %s completed, got %q", task.ID, task.Status)
		}
	}
	if s.Writes() != writes+1 {
		t.Errorf("expected exactly one write, got %d", s.Writes()-writes)
	}

	v := sess.Snapshot(models.FilterAll)
	if v.SelectionActive || len(v.Selected) != 0 {
		t.Error("expected selection cleared")
	}
	if v.Pending != nil {
		t.Error("expected no pending action")
	}
	if v.Summary.Completed != 2 {
		t.Errorf("expected summary to show 2 completed, got %+v", v.Summary)
	}
}

func TestSession_StageAdvanceRejections(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []models.Task
		selected []models.TaskID
		want     error
	}{
		{"mixed statuses", []models.Task{pendingTask("1", "a"), completedTask("2", "b")}, []models.TaskID{"1", "2"}, ErrStatusMismatch},
		{"already completed", []models.Task{completedTask("1", "a")}, []models.TaskID{"1"}, ErrAlreadyCompleted},
		{"nothing selected", []models.Task{pendingTask("1", "a")}, nil, ErrEmptySelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, s := setupTestSession(t, tt.tasks...)
			for _, id := range tt.selected {
				sess.Toggle(id)
			}
			writes := s.Writes()

			if _, err := sess.StageAdvance(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if sess.Pending() != nil {
				t.Error("expected nothing pending")
			}
			if s.Writes() != writes {
				t.Error("expected no write")
			}
			if got := sess.Snapshot(models.FilterAll).Selected; len(got) != len(tt.selected) {
				t.Errorf("expected selection kept, got %v", got)
			}
		})
	}
}

func TestSession_DeleteSelected(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"), completedTask("2", "b"), pendingTask("3", "c"))
	ctx := context.Background()

	sess.Toggle("1")
	sess.Toggle("2")
	if _, err := sess.StageDelete(); err != nil {
		t.Fatalf("StageDelete failed: %v", err)
	}
	if _, err := sess.StageDelete(); !errors.Is(err, ErrActionPending) {
		t.Errorf("expected ErrActionPending, got %v", err)
	}

	if _, err := sess.Confirm(ctx); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	got := loadAll(t, s)
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("expected only task 3 left, got %v", taskIDs(got))
	}
	if sess.Snapshot(models.FilterAll).SelectionActive {
		t.Error("expected selection cleared")
	}
}

func TestSession_CancelLeavesEverything(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"))
	sess.Toggle("1")
	sess.StageDelete()
	writes := s.Writes()

	if err := sess.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := sess.Cancel(); !errors.Is(err, ErrNoPendingAction) {
		t.Errorf("expected ErrNoPendingAction, got %v", err)
	}
	if s.Writes() != writes || len(loadAll(t, s)) != 1 {
		t.Error("expected collection untouched")
	}
	if !sess.Snapshot(models.FilterAll).SelectionActive {
		t.Error("expected selection kept after cancel")
	}
}

func TestSession_ConfirmFailureKeepsPending(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"))
	sess.Toggle("1")
	sess.StageAdvance()
	s.FailWith(errors.New("quota exceeded"))

	if _, err := sess.Confirm(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if sess.Pending() == nil {
		t.Fatal("expected action to stay pending")
	}
	v := sess.Snapshot(models.FilterAll)
	if v.Tasks[0].Status != models.StatusPending {
		t.Error("expected board unchanged")
	}

	s.FailWith(nil)
	if _, err := sess.Confirm(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if loadAll(t, s)[0].Status != models.StatusCompleted {
		t.Error("expected task completed after retry")
	}
}

func TestSession_ConfirmWithoutPending(t *testing.T) {
	sess, _ := setupTestSession(t)
	if _, err := sess.Confirm(context.Background()); !errors.Is(err, ErrNoPendingAction) {
		t.Errorf("expected ErrNoPendingAction, got %v", err)
	}
}

func TestSession_OpenRefusedWhileSelecting(t *testing.T) {
	sess, _ := setupTestSession(t, pendingTask("1", "a"), pendingTask("2", "b"))
	sess.Toggle("1")

	if _, err := sess.OpenForm("2"); !errors.Is(err, ErrSelectionActive) {
		t.Errorf("expected ErrSelectionActive, got %v", err)
	}
	if sess.Form() != nil {
		t.Error("expected no form opened")
	}
}

func TestSession_CreateForm(t *testing.T) {
	sess, s := setupTestSession(t)
	ctx := context.Background()

	if _, err := sess.NewForm(); err != nil {
		t.Fatalf("NewForm failed: %v", err)
	}
	if _, err := sess.NewForm(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected a second form to be refused, got %v", err)
	}

	sess.SetFormFields(Draft{Name: "Write spec"})
	f, err := sess.SubmitForm(ctx)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := f.Errors[models.FieldDescription]; !ok {
		t.Error("expected description error on the form")
	}
	if len(loadAll(t, s)) != 0 {
		t.Fatal("expected nothing saved")
	}

	sess.SetFormFields(Draft{Name: "Write spec", Description: "Draft v1", Deadline: tomorrow})
	f, err = sess.SubmitForm(ctx)
	if err != nil {
		t.Fatalf("SubmitForm failed: %v", err)
	}
	if !f.Closed() {
		t.Errorf("expected form closed, got %q", f.Mode)
	}
	if sess.Form() != nil {
		t.Error("expected session to drop the form")
	}
	if v := sess.Snapshot(models.FilterPending); len(v.Tasks) != 1 {
		t.Errorf("expected new task on the board, got %d", len(v.Tasks))
	}
}

func TestSession_CloseCreateFormWithInput(t *testing.T) {
	sess, s := setupTestSession(t)
	ctx := context.Background()

	writes := s.Writes()
	sess.NewForm()
	sess.SetFormFields(Draft{Description: "something"})

	f, err := sess.CloseForm()
	if err != nil {
		t.Fatalf("CloseForm failed: %v", err)
	}
	if f.Mode != ModeConfirmingDiscard {
		t.Fatalf("expected discard confirmation, got %q", f.Mode)
	}
	if p := sess.Pending(); p == nil || p.Kind != ActionDiscard {
		t.Fatalf("expected pending discard, got %+v", p)
	}

	if _, err := sess.Confirm(ctx); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if sess.Form() != nil {
		t.Error("expected form closed after discard")
	}
	if s.Writes() != writes {
		t.Error("expected discard not to write")
	}
}

func TestSession_EditNoChangesIsNoOp(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"))
	ctx := context.Background()
	writes := s.Writes()

	sess.OpenForm("1")
	sess.UnlockForm()

	f, err := sess.SubmitForm(ctx)
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
	if f.Mode != ModeEditing {
		t.Errorf("expected form to stay editing, got %q", f.Mode)
	}
	if sess.Pending() != nil {
		t.Error("expected no confirmation prompt")
	}
	if s.Writes() != writes {
		t.Error("expected no write")
	}
}

func TestSession_EditAndConfirmUpdate(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"))
	ctx := context.Background()

	sess.OpenForm("1")
	sess.UnlockForm()
	f := sess.Form()
	d := f.Current
	d.Name = "renamed"
	sess.SetFormFields(d)

	f, err := sess.SubmitForm(ctx)
	if err != nil {
		t.Fatalf("SubmitForm failed: %v", err)
	}
	if f.Mode != ModeConfirmingUpdate {
		t.Fatalf("expected update confirmation, got %q", f.Mode)
	}
	if loadAll(t, s)[0].Name != "a" {
		t.Fatal("expected nothing written before confirmation")
	}

	if _, err := sess.CloseForm(); !errors.Is(err, ErrActionPending) {
		t.Errorf("expected close to be refused, got %v", err)
	}

	if _, err := sess.Confirm(ctx); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	got := loadAll(t, s)[0]
	if got.Name != "renamed" || got.Desc != "a desc" || got.Deadline != "11/01/2026" {
		t.Errorf("unexpected stored task %+v", got)
	}
	if sess.Form() != nil {
		t.Error("expected form closed after update")
	}
}

func TestSession_CancelUpdateReturnsToEditing(t *testing.T) {
	sess, s := setupTestSession(t, pendingTask("1", "a"))
	ctx := context.Background()

	sess.OpenForm("1")
	sess.UnlockForm()
	d := sess.Form().Current
	d.Description = "changed"
	sess.SetFormFields(d)
	sess.SubmitForm(ctx)
	writes := s.Writes()

	if err := sess.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	f := sess.Form()
	if f.Mode != ModeEditing || f.Current.Description != "changed" {
		t.Errorf("expected editing with changes kept, got %q %+v", f.Mode, f.Current)
	}
	if s.Writes() != writes {
		t.Error("expected no write")
	}
}

func TestSession_CancelFormEditDiscardsToView(t *testing.T) {
	sess, _ := setupTestSession(t, pendingTask("1", "a"))
	ctx := context.Background()

	sess.OpenForm("1")
	sess.UnlockForm()
	d := sess.Form().Current
	d.Name = "renamed"
	sess.SetFormFields(d)

	f, err := sess.CancelFormEdit()
	if err != nil {
		t.Fatalf("CancelFormEdit failed: %v", err)
	}
	if f.Mode != ModeConfirmingDiscard {
		t.Fatalf("expected discard confirmation, got %q", f.Mode)
	}

	if _, err := sess.Confirm(ctx); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	f = sess.Form()
	if f == nil || f.Mode != ModeViewing {
		t.Fatalf("expected form back in view mode, got %+v", f)
	}
	if f.Current.Name != "a" {
		t.Errorf("expected original values, got %+v", f.Current)
	}
}

func TestSession_ProposeUpdateDirect(t *testing.T) {
	sess, _ := setupTestSession(t, pendingTask("1", "a"))
	ctx := context.Background()

	if _, err := sess.ProposeUpdate(ctx, "1", Draft{Name: "a", Description: "a desc", Deadline: "2026-11-01"}); !errors.Is(err, ErrNoChanges) {
		t.Errorf("expected ErrNoChanges, got %v", err)
	}

	a, err := sess.ProposeUpdate(ctx, "1", Draft{Name: "b", Description: "a desc", Deadline: "2026-11-01"})
	if err != nil {
		t.Fatalf("ProposeUpdate failed: %v", err)
	}
	if a.Kind != ActionUpdate {
		t.Errorf("expected update action, got %q", a.Kind)
	}
	if _, err := sess.ProposeUpdate(ctx, "1", Draft{Name: "c", Description: "a desc", Deadline: "2026-11-01"}); !errors.Is(err, ErrActionPending) {
		t.Errorf("expected ErrActionPending, got %v", err)
	}
}
