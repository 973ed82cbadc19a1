package models

import (
	"sort"
	"strings"
	"time"
)

// Form field keys used in FieldErrors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDeadline    = "deadline"
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// Valid returns true when no field has an error.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Error joins the messages in field order so the value can be used as an error string.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fe[k])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the user-editable fields of a task. Every rule is evaluated
// so all applicable errors are reported together. An empty deadline only
// reports "required"; the past-date rule applies once a date is present.
func Validate(name, description, deadline string, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(name) == "" {
		errs[FieldTitle] = "Title is required"
	}

	if strings.TrimSpace(description) == "" {
		errs[FieldDescription] = "Description is required"
	}

	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		errs[FieldDeadline] = "Deadline is required"
		return errs
	}

	d, err := time.ParseInLocation(InputDateLayout, deadline, now.Location())
	if err != nil {
		errs[FieldDeadline] = "Deadline must be a valid date"
		return errs
	}

	if d.Before(now) {
		errs[FieldDeadline] = "Deadline cannot be set on past dates"
	}

	return errs
}
