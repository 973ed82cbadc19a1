package tasks

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"justdoit/internal/models"
)

// View is a snapshot of everything the page needs to render.
type View struct {
	Filter          models.Filter   `json:"filter"`
	Tasks           []models.Task   `json:"tasks"`
	Summary         Summary         `json:"summary"`
	Selected        []models.TaskID `json:"selected"`
	AllSelected     bool            `json:"all_selected"`
	SelectionActive bool            `json:"selection_active"`
	Pending         *PendingAction  `json:"pending,omitempty"`
	Form            *Form           `json:"form,omitempty"`
}

// Session is the single user's working state: the board, the open form and
// the action awaiting confirmation. All methods are serialised.
type Session struct {
	mu      sync.Mutex
	board   *Board
	ctrl    *Controller
	form    *Form
	pending *PendingAction
}

// NewSession loads the board and returns a ready session.
func NewSession(ctx context.Context, board *Board, ctrl *Controller) (*Session, error) {
	if err := board.Reload(ctx); err != nil {
		return nil, err
	}
	return &Session{board: board, ctrl: ctrl}, nil
}

// Snapshot returns the current view with tasks filtered by f.
func (s *Session) Snapshot(f models.Filter) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(f)
}

func (s *Session) snapshot(f models.Filter) View {
	v := View{
		Filter:          f,
		Tasks:           s.board.Filtered(f),
		Summary:         s.board.Summary(),
		Selected:        s.board.Selected(),
		AllSelected:     s.board.AllSelected(),
		SelectionActive: s.board.SelectionActive(),
	}
	if s.pending != nil {
		p := *s.pending
		v.Pending = &p
	}
	if s.form != nil {
		v.Form = s.form.clone()
	}
	return v
}

// Refresh reloads the board from storage.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Reload(ctx)
}

// Summary returns the current status counts.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Summary()
}

// Create adds a task directly, without going through a form.
func (s *Session) Create(ctx context.Context, d Draft) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.ctrl.Create(ctx, d)
	if err != nil {
		return models.Task{}, err
	}
	s.reload(ctx)
	return t, nil
}

// ProposeUpdate stages an edit of task id for confirmation.
func (s *Session) ProposeUpdate(ctx context.Context, id models.TaskID, d Draft) (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, ErrActionPending
	}
	a, err := s.ctrl.ProposeUpdate(ctx, id, d)
	if err != nil {
		return nil, err
	}
	s.pending = a
	return a, nil
}

// Toggle flips the selection of one task.
func (s *Session) Toggle(id models.TaskID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Toggle(id)
}

// SelectAll selects every task, or clears the selection if all are selected.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.SelectAll()
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.ClearSelection()
}

// StageDelete asks for confirmation before deleting the selected tasks.
func (s *Session) StageDelete() (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, ErrActionPending
	}
	ids := s.board.Selected()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}
	s.pending = &PendingAction{Kind: ActionDelete, IDs: ids}
	return s.pending, nil
}

// StageAdvance checks that the selected tasks can be completed and asks
// for confirmation.
func (s *Session) StageAdvance() (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, ErrActionPending
	}
	ids := s.board.Selected()
	if err := CheckAdvance(s.board.tasks, ids); err != nil {
		return nil, err
	}
	s.pending = &PendingAction{Kind: ActionAdvanceStatus, IDs: ids}
	return s.pending, nil
}

// Pending returns the action awaiting confirmation, if any.
func (s *Session) Pending() *PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

// Confirm executes the pending action. If execution fails the action stays
// pending so the user can retry or cancel.
func (s *Session) Confirm(ctx context.Context) (*PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.pending
	if a == nil {
		return nil, ErrNoPendingAction
	}

	switch a.Kind {
	case ActionDelete:
		if _, err := s.ctrl.Delete(ctx, a.IDs); err != nil {
			return nil, err
		}
		s.board.ClearSelection()
	case ActionAdvanceStatus:
		if _, err := s.ctrl.AdvanceStatus(ctx, a.IDs); err != nil {
			if IsBusinessRule(err) {
				// The stored collection changed under us; the action can never succeed.
				s.pending = nil
			}
			return nil, err
		}
		s.board.ClearSelection()
	case ActionUpdate:
		if len(a.IDs) != 1 {
			s.pending = nil
			return nil, ErrInvalidState
		}
		if _, err := s.ctrl.Update(ctx, a.IDs[0], a.Draft); err != nil {
			if errors.Is(err, ErrNoChanges) || errors.Is(err, ErrNotFound) {
				s.pending = nil
				s.revertFormUpdate()
			}
			return nil, err
		}
		if s.form != nil && s.form.TaskID == a.IDs[0] {
			s.form = nil
		}
	case ActionDiscard:
		if s.form != nil {
			if err := s.form.ConfirmDiscard(); err != nil {
				return nil, err
			}
			if s.form.Closed() {
				s.form = nil
			}
		}
	}

	s.pending = nil
	s.reload(ctx)
	return a, nil
}

// Cancel drops the pending action without applying it.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ErrNoPendingAction
	}
	switch s.pending.Kind {
	case ActionDiscard:
		if s.form != nil {
			_ = s.form.CancelDiscard()
		}
	case ActionUpdate:
		s.revertFormUpdate()
	}
	s.pending = nil
	return nil
}

// Open returns a task for the detail view. Refused while tasks are selected.
func (s *Session) Open(id models.TaskID) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Open(id)
}

// Form returns a copy of the open form, or nil.
func (s *Session) Form() *Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return nil
	}
	return s.form.clone()
}

// NewForm opens an empty add form.
func (s *Session) NewForm() (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form != nil {
		return nil, ErrInvalidState
	}
	s.form = NewCreateForm()
	return s.formCopy(), nil
}

// OpenForm opens the view form of a task (row click).
func (s *Session) OpenForm(id models.TaskID) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form != nil {
		return nil, ErrInvalidState
	}
	t, err := s.board.Open(id)
	if err != nil {
		return nil, err
	}
	s.form = NewEditForm(t)
	return s.formCopy(), nil
}

// UnlockForm makes the view form editable.
func (s *Session) UnlockForm() (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return nil, ErrNoForm
	}
	if err := s.form.Unlock(); err != nil {
		return nil, err
	}
	return s.formCopy(), nil
}

// SetFormFields updates the values of the open form.
func (s *Session) SetFormFields(d Draft) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return nil, ErrNoForm
	}
	if err := s.form.Set(d); err != nil {
		return nil, err
	}
	return s.formCopy(), nil
}

// SubmitForm saves an add form, or stages an edit form's update for
// confirmation. Validation errors are kept on the form.
func (s *Session) SubmitForm(ctx context.Context) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.form
	if f == nil {
		return nil, ErrNoForm
	}
	if f.Mode != ModeEditing {
		return nil, ErrInvalidState
	}

	switch f.Kind {
	case FormCreate:
		if _, err := s.ctrl.Create(ctx, f.Current); err != nil {
			s.keepFieldErrors(err)
			return s.formCopy(), err
		}
		f.Finish()
		s.form = nil
		s.reload(ctx)
		return f.clone(), nil
	default:
		if s.pending != nil {
			return nil, ErrActionPending
		}
		a, err := s.ctrl.ProposeUpdate(ctx, f.TaskID, f.Current)
		if err != nil {
			s.keepFieldErrors(err)
			return s.formCopy(), err
		}
		if err := f.BeginUpdate(); err != nil {
			return nil, err
		}
		s.pending = a
		return s.formCopy(), nil
	}
}

// CloseForm closes the open form, staging a discard confirmation when it
// holds unsaved edits.
func (s *Session) CloseForm() (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return nil, ErrNoForm
	}
	switch s.form.Mode {
	case ModeConfirmingDiscard:
		return s.formCopy(), nil
	case ModeConfirmingUpdate:
		return nil, ErrActionPending
	case ModeEditing:
		if s.form.HasChanges() && s.pending != nil {
			return nil, ErrActionPending
		}
	}
	if s.form.RequestClose() == ModeConfirmingDiscard {
		s.pending = &PendingAction{Kind: ActionDiscard}
		return s.formCopy(), nil
	}
	closed := s.formCopy()
	s.form = nil
	return closed, nil
}

// CancelFormEdit returns an edit form to read-only, staging a discard
// confirmation when it holds unsaved edits.
func (s *Session) CancelFormEdit() (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return nil, ErrNoForm
	}
	if s.form.HasChanges() && s.pending != nil {
		return nil, ErrActionPending
	}
	if err := s.form.CancelEdit(); err != nil {
		return nil, err
	}
	if s.form.Mode == ModeConfirmingDiscard {
		s.pending = &PendingAction{Kind: ActionDiscard}
	}
	return s.formCopy(), nil
}

func (s *Session) formCopy() *Form {
	return s.form.clone()
}

func (s *Session) keepFieldErrors(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.form.SetErrors(verr.Fields)
	}
}

func (s *Session) revertFormUpdate() {
	if s.form != nil && s.form.Mode == ModeConfirmingUpdate {
		_ = s.form.CancelUpdate()
	}
}

// reload refreshes the board after a successful write. A failed reload
// leaves the previous view in place; the write itself already succeeded.
func (s *Session) reload(ctx context.Context) {
	if err := s.board.Reload(ctx); err != nil {
		log.WithError(err).Warn("failed to reload tasks after write")
	}
}
