package taskscasebridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrazmi/tasktracker/sdk/validation"
)

// Task is the wire representation of a task.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"isCompleted"`
	CompletedAt *string `json:"completedAt"`
	DueDate     *string `json:"dueDate"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

// Encode implements the encoder interface.
func (t Task) Encode() ([]byte, string, error) {
	data, err := json.Marshal(t)
	return data, "application/json", err
}

// Stats is the per-owner task summary.
type Stats struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Done    int `json:"done"`
	Overdue int `json:"overdue"`
}

// Encode implements the encoder interface.
func (s Stats) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

// RestoreResult reports whether a restore changed anything.
type RestoreResult struct {
	Restored bool `json:"restored"`
}

// Encode implements the encoder interface.
func (rr RestoreResult) Encode() ([]byte, string, error) {
	data, err := json.Marshal(rr)
	return data, "application/json", err
}

// flexTime accepts any of the date layouts understood by validation.ParseFlexibleDate.
type flexTime struct {
	time.Time
}

func (ft *flexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	t, err := validation.ParseFlexibleDate(s)
	if err != nil {
		return err
	}
	ft.Time = t.UTC()
	return nil
}

func (ft *flexTime) ptr() *time.Time {
	if ft == nil || ft.IsZero() {
		return nil
	}
	t := ft.Time
	return &t
}

// CreateTaskInput is the body of POST /tasks.
type CreateTaskInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *flexTime `json:"dueDate"`
	DueDateUTC  *flexTime `json:"dueDateUtc"`
}

// UpdateTaskInput is the body of PUT /tasks/{task_id}. Absent and null fields
// are left unchanged.
type UpdateTaskInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	IsCompleted *bool     `json:"isCompleted"`
	DueDate     *flexTime `json:"dueDate"`
	DueDateUTC  *flexTime `json:"dueDateUtc"`
}

// dueDate prefers dueDate over the dueDateUtc alias.
func dueDate(primary, alias *flexTime) *time.Time {
	if t := primary.ptr(); t != nil {
		return t
	}
	return alias.ptr()
}
