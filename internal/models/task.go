package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Date layouts used at the persistence and input boundaries.
const (
	InputDateLayout  = "2006-01-02"
	StoredDateLayout = "01/02/2006"
)

// TaskID identifies a task. Stored collections may carry either JSON numbers
// or strings; Task keeps track of which one it read.
type TaskID string

// UnmarshalJSON accepts both `1` and `"T17000000000002"`.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// IsNumeric reports whether the id is a plain decimal integer.
func (id TaskID) IsNumeric() bool {
	if id == "" || len(id) > 18 {
		return false
	}
	if len(id) > 1 && id[0] == '0' {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (id TaskID) String() string {
	return string(id)
}

// Task is the sole persisted entity. The JSON layout matches the stored
// collection format.
type Task struct {
	ID        TaskID    `json:"task_id"`
	Name      string    `json:"task_name"`
	Desc      string    `json:"task_desc"`
	DateAdded time.Time `json:"date_added"`
	Deadline  string    `json:"task_dl"` // MM/DD/YYYY
	Status    Status    `json:"status"`

	// NumericID records that the stored id is a JSON number rather than a
	// string, so it is written back the same way.
	NumericID bool `json:"-"`
}

// MarshalJSON writes the task in the stored layout, keeping the JSON type
// of the id.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	var id interface{} = string(t.ID)
	if t.NumericID && t.ID.IsNumeric() {
		id = json.RawMessage(t.ID)
	}
	return json.Marshal(struct {
		ID interface{} `json:"task_id"`
		plain
	}{ID: id, plain: plain(t)})
}

// UnmarshalJSON reads the stored layout and notes whether task_id was a
// number.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		ID json.RawMessage `json:"task_id"`
		*plain
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if err := t.ID.UnmarshalJSON(aux.ID); err != nil {
		return err
	}
	raw := bytes.TrimSpace(aux.ID)
	t.NumericID = len(raw) > 0 && raw[0] != '"' && !bytes.Equal(raw, []byte("null"))
	return nil
}

// IsCompleted returns true if the task has reached its final status.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// DeadlineInput returns the deadline in the date-picker format, or the raw
// stored value if it cannot be converted.
func (t *Task) DeadlineInput() string {
	s, err := ToInputDeadline(t.Deadline)
	if err != nil {
		return t.Deadline
	}
	return s
}

// IsOverdue returns true if the task is pending and its deadline has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted() {
		return false
	}
	d, err := time.ParseInLocation(StoredDateLayout, t.Deadline, now.Location())
	if err != nil {
		// Hand-edited values without zero padding.
		in, err := ToInputDeadline(t.Deadline)
		if err != nil {
			return false
		}
		d, _ = time.ParseInLocation(InputDateLayout, in, now.Location())
	}
	return d.AddDate(0, 0, 1).Before(now)
}

// ToStoredDeadline converts YYYY-MM-DD to MM/DD/YYYY.
func ToStoredDeadline(input string) (string, error) {
	d, err := time.Parse(InputDateLayout, strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("invalid deadline %q: %w", input, err)
	}
	return d.Format(StoredDateLayout), nil
}

// ToInputDeadline converts MM/DD/YYYY to YYYY-MM-DD, padding month and day.
func ToInputDeadline(stored string) (string, error) {
	parts := strings.Split(strings.TrimSpace(stored), "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid stored deadline %q", stored)
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return "", fmt.Errorf("invalid stored deadline %q", stored)
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return "", fmt.Errorf("invalid stored deadline %q", stored)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// Filter selects a subset of tasks by status.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterPending   Filter = "Pending"
	FilterCompleted Filter = "Completed"
)

// ParseFilter maps user input to a Filter. Unknown values mean All.
func ParseFilter(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return FilterPending
	case "completed":
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches returns true if the task passes the filter.
func (f Filter) Matches(t *Task) bool {
	switch f {
	case FilterPending:
		return t.Status == StatusPending
	case FilterCompleted:
		return t.Status == StatusCompleted
	default:
		return true
	}
}
