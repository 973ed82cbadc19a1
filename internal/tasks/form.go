package tasks

import "justdoit/internal/models"

// FormKind distinguishes the add form from the view/edit form.
type FormKind string

const (
	FormCreate FormKind = "create"
	FormEdit   FormKind = "edit"
)

// FormMode is the state of a task form.
//
//	Viewing -> Editing -> {ConfirmingDiscard, ConfirmingUpdate} -> Viewing | Closed
type FormMode string

const (
	ModeViewing           FormMode = "viewing"
	ModeEditing           FormMode = "editing"
	ModeConfirmingDiscard FormMode = "confirming_discard"
	ModeConfirmingUpdate  FormMode = "confirming_update"
	ModeClosed            FormMode = "closed"
)

// Form tracks the values and state of an open create or edit form.
type Form struct {
	Kind    FormKind           `json:"kind"`
	Mode    FormMode           `json:"mode"`
	TaskID  models.TaskID      `json:"task_id,omitempty"`
	Initial Draft              `json:"initial"`
	Current Draft              `json:"current"`
	Errors  models.FieldErrors `json:"errors,omitempty"`

	// mode to enter once a discard is confirmed
	afterDiscard FormMode
}

// NewCreateForm opens an empty add form, editable right away.
func NewCreateForm() *Form {
	return &Form{
		Kind:   FormCreate,
		Mode:   ModeEditing,
		Errors: models.FieldErrors{},
	}
}

// NewEditForm opens a read-only view of t. Call Unlock to edit.
func NewEditForm(t models.Task) *Form {
	d := DraftFromTask(t)
	return &Form{
		Kind:    FormEdit,
		Mode:    ModeViewing,
		TaskID:  t.ID,
		Initial: d,
		Current: d,
		Errors:  models.FieldErrors{},
	}
}

// HasChanges reports whether the current values differ from the initial ones.
func (f *Form) HasChanges() bool {
	return f.Current != f.Initial
}

// Unlock makes a view form editable.
func (f *Form) Unlock() error {
	if f.Mode != ModeViewing {
		return ErrInvalidState
	}
	f.Mode = ModeEditing
	return nil
}

// Set replaces the field values. Errors on fields that changed are cleared.
func (f *Form) Set(d Draft) error {
	if f.Mode != ModeEditing {
		return ErrInvalidState
	}
	if d.Name != f.Current.Name {
		delete(f.Errors, models.FieldTitle)
	}
	if d.Description != f.Current.Description {
		delete(f.Errors, models.FieldDescription)
	}
	if d.Deadline != f.Current.Deadline {
		delete(f.Errors, models.FieldDeadline)
	}
	f.Current = d
	return nil
}

// SetErrors records validation messages for display next to the fields.
func (f *Form) SetErrors(fe models.FieldErrors) {
	f.Errors = models.FieldErrors{}
	for k, v := range fe {
		f.Errors[k] = v
	}
}

// RequestClose closes the form, or asks for discard confirmation when there
// are unsaved edits. It returns the resulting mode.
func (f *Form) RequestClose() FormMode {
	switch f.Mode {
	case ModeEditing:
		if f.HasChanges() {
			f.Mode = ModeConfirmingDiscard
			f.afterDiscard = ModeClosed
			return f.Mode
		}
	case ModeConfirmingDiscard, ModeConfirmingUpdate:
		return f.Mode
	}
	f.close()
	return f.Mode
}

// CancelEdit leaves editing on an edit form, asking for discard
// confirmation when there are unsaved edits.
func (f *Form) CancelEdit() error {
	if f.Kind != FormEdit || f.Mode != ModeEditing {
		return ErrInvalidState
	}
	if f.HasChanges() {
		f.Mode = ModeConfirmingDiscard
		f.afterDiscard = ModeViewing
		return nil
	}
	f.reset()
	f.Mode = ModeViewing
	return nil
}

// ConfirmDiscard drops the unsaved edits.
func (f *Form) ConfirmDiscard() error {
	if f.Mode != ModeConfirmingDiscard {
		return ErrInvalidState
	}
	if f.afterDiscard == ModeViewing && f.Kind == FormEdit {
		f.reset()
		f.Mode = ModeViewing
		return nil
	}
	f.close()
	return nil
}

// CancelDiscard returns to editing with the edits intact.
func (f *Form) CancelDiscard() error {
	if f.Mode != ModeConfirmingDiscard {
		return ErrInvalidState
	}
	f.Mode = ModeEditing
	return nil
}

// BeginUpdate moves an edit form to update confirmation.
func (f *Form) BeginUpdate() error {
	if f.Kind != FormEdit || f.Mode != ModeEditing {
		return ErrInvalidState
	}
	f.Mode = ModeConfirmingUpdate
	return nil
}

// CancelUpdate returns to editing.
func (f *Form) CancelUpdate() error {
	if f.Mode != ModeConfirmingUpdate {
		return ErrInvalidState
	}
	f.Mode = ModeEditing
	return nil
}

// Finish closes the form after a successful save.
func (f *Form) Finish() {
	f.close()
}

// Closed reports whether the form has been closed.
func (f *Form) Closed() bool {
	return f.Mode == ModeClosed
}

func (f *Form) clone() *Form {
	c := *f
	c.Errors = models.FieldErrors{}
	for k, v := range f.Errors {
		c.Errors[k] = v
	}
	return &c
}

func (f *Form) reset() {
	f.Current = f.Initial
	f.Errors = models.FieldErrors{}
}

func (f *Form) close() {
	f.reset()
	f.Mode = ModeClosed
}
