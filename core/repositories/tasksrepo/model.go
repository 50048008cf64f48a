package tasksrepo

import "time"

// Task is a single to-do item owned by one user.
//
// IsCompleted is true exactly when CompletedAt is set, and IsDeleted exactly
// when DeletedAt is set. Version is replaced by the store on every write.
type Task struct {
	TaskID      string     `db:"task_id"`
	OwnerID     string     `db:"owner_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	IsCompleted bool       `db:"is_completed"`
	CompletedAt *time.Time `db:"completed_at"`
	DueDate     *time.Time `db:"due_date"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	IsDeleted   bool       `db:"is_deleted"`
	DeletedAt   *time.Time `db:"deleted_at"`
	Version     int64      `db:"version"`
}

// CreateTask contains the fields for inserting a new task. Values are
// expected to be validated and trimmed already.
type CreateTask struct {
	TaskID      string
	OwnerID     string
	Title       string
	Description *string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// Changes is the set of columns a conditional write assigns. Nil fields are
// left untouched. CompletedAt is written whenever IsCompleted is, and
// DeletedAt whenever IsDeleted is, so a nil timestamp next to a set flag
// clears the column.
type Changes struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsCompleted *bool
	CompletedAt *time.Time
	IsDeleted   *bool
	DeletedAt   *time.Time
}

// Apply returns t with c merged in. Stores that cannot return the written row
// use it to build their result.
func (c Changes) Apply(t Task) Task {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = c.Description
	}
	if c.DueDate != nil {
		t.DueDate = c.DueDate
	}
	if c.IsCompleted != nil {
		t.IsCompleted = *c.IsCompleted
		t.CompletedAt = c.CompletedAt
	}
	if c.IsDeleted != nil {
		t.IsDeleted = *c.IsDeleted
		t.DeletedAt = c.DeletedAt
	}
	return t
}

// Stats summarizes an owner's non-deleted tasks.
type Stats struct {
	Total   int `db:"total"`
	Open    int `db:"open"`
	Done    int `db:"done"`
	Overdue int `db:"overdue"`
}
