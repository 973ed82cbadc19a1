package models

import (
	"testing"
	"time"
)

func TestValidate_RequiredFields(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		title       string
		description string
		deadline    string
		expected    FieldErrors
	}{
		{
			name:        "all fields empty",
			title:       "",
			description: "",
			deadline:    "",
			expected: FieldErrors{
				FieldTitle:       "Title is required",
				FieldDescription: "Description is required",
				FieldDeadline:    "Deadline is required",
			},
		},
		{
			name:        "whitespace title",
			title:       "   ",
			description: "Draft v1",
			deadline:    "2026-10-20",
			expected:    FieldErrors{FieldTitle: "Title is required"},
		},
		{
			name:        "whitespace description",
			title:       "Write spec",
			description: "\t\n",
			deadline:    "2026-10-20",
			expected:    FieldErrors{FieldDescription: "Description is required"},
		},
		{
			name:        "valid",
			title:       "Write spec",
			description: "Draft v1",
			deadline:    "2026-10-20",
			expected:    FieldErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.title, tt.description, tt.deadline, now)
			assertFieldErrors(t, got, tt.expected)
		})
	}
}

func TestValidate_Deadline(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		expected string
	}{
		{name: "yesterday is past", deadline: "2026-10-18", expected: "Deadline cannot be set on past dates"},
		{name: "today before now is past", deadline: "2026-10-19", expected: "Deadline cannot be set on past dates"},
		{name: "tomorrow is fine", deadline: "2026-10-20", expected: ""},
		{name: "garbage is invalid", deadline: "next week", expected: "Deadline must be a valid date"},
		{name: "stored layout is invalid input", deadline: "10/20/2026", expected: "Deadline must be a valid date"},
		{name: "empty reports required, not past", deadline: "", expected: "Deadline is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate("Write spec", "Draft v1", tt.deadline, now)
			if got[FieldDeadline] != tt.expected {
				t.Errorf("expected deadline error %q, got %q", tt.expected, got[FieldDeadline])
			}
		})
	}
}

func TestValidate_CollectsEveryError(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	got := Validate("", "", "2020-01-01", now)
	if got.Valid() {
		t.Fatal("expected invalid result")
	}
	if len(got) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(got), got)
	}
	if got.Error() != "Deadline cannot be set on past dates; Description is required; Title is required" {
		t.Errorf("unexpected joined message: %q", got.Error())
	}
}

func assertFieldErrors(t *testing.T, got, expected FieldErrors) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("expected %d errors, got %d: %v", len(expected), len(got), got)
	}
	for field, msg := range expected {
		if got[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
		}
	}
	if got.Valid() != (len(expected) == 0) {
		t.Errorf("Valid() = %v with %d errors", got.Valid(), len(got))
	}
}
