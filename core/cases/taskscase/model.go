package taskscase

import "time"

// NewTask is the caller supplied data for a task. Strings are trimmed during
// validation.
type NewTask struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// Patch is a partial update. Nil fields are left unchanged, so a due date
// cannot be cleared through Update.
type Patch struct {
	Title       *string
	Description *string
	IsCompleted *bool
	DueDate     *time.Time
}
