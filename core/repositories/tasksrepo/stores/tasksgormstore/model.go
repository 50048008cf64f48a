package tasksgormstore

import (
	"time"

	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
)

// taskRow is the gorm mapping of the tasks table.
type taskRow struct {
	TaskID      string     `gorm:"column:task_id;primaryKey;size:64"`
	OwnerID     string     `gorm:"column:owner_id;size:128;not null;index:idx_tasks_owner_created,priority:1;index:idx_tasks_owner_due,priority:1"`
	Title       string     `gorm:"column:title;size:200;not null"`
	Description *string    `gorm:"column:description;size:2000"`
	IsCompleted bool       `gorm:"column:is_completed;not null;default:false"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	DueDate     *time.Time `gorm:"column:due_date;index:idx_tasks_owner_due,priority:2"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_tasks_owner_created,priority:2"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	IsDeleted   bool       `gorm:"column:is_deleted;not null;default:false"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	Version     int64      `gorm:"column:version;not null;uniqueIndex"`
}

// TableName returns the table name for taskRow.
func (taskRow) TableName() string {
	return "tasks"
}

func (r taskRow) toTask() tasksrepo.Task {
	return tasksrepo.Task{
		TaskID:      r.TaskID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		IsCompleted: r.IsCompleted,
		CompletedAt: utcPtr(r.CompletedAt),
		DueDate:     utcPtr(r.DueDate),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		IsDeleted:   r.IsDeleted,
		DeletedAt:   utcPtr(r.DeletedAt),
		Version:     r.Version,
	}
}

func toTasks(rows []taskRow) []tasksrepo.Task {
	tasks := make([]tasksrepo.Task, len(rows))
	for i, r := range rows {
		tasks[i] = r.toTask()
	}
	return tasks
}

// SQLite compares timestamps as text, so every stored and compared value is
// normalized to UTC.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
