// Package tasksrepo provides access to persisted tasks. Every read and write
// is scoped to a single owner.
package tasksrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

// Set of error values for operations on the task resource.
var (
	ErrNotFound        = errors.New("task not found")
	ErrVersionConflict = errors.New("task version conflict")
	ErrDuplicate       = errors.New("task already exists")
)

// Storer is the persistence contract a task store implements.
type Storer interface {
	// Create inserts the task and returns the stored row with its first
	// version.
	Create(ctx context.Context, input CreateTask) (Task, error)

	// Get returns ErrNotFound when the task does not exist for the owner, or
	// is deleted and includeDeleted is false.
	Get(ctx context.Context, taskID, ownerID string, includeDeleted bool) (Task, error)

	// List returns one page of matching tasks and the total number of matches.
	List(ctx context.Context, ownerID string, filter QueryFilter, orderBy []OrderTerm, page fop.PageOffset) ([]Task, int, error)

	// UpdateIfVersion writes changes, a fresh version and updated_at only if
	// the stored version equals expectedVersion. It returns ErrNotFound when
	// the row is missing and ErrVersionConflict when the version moved.
	UpdateIfVersion(ctx context.Context, taskID, ownerID string, expectedVersion int64, changes Changes) (Task, error)

	// Stats counts the owner's non-deleted tasks. Overdue tasks are open and
	// due strictly before now.
	Stats(ctx context.Context, ownerID string, now time.Time) (Stats, error)
}

// Repository manages the set of APIs for task access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a task repository over the given store.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create persists a new task.
func (r *Repository) Create(ctx context.Context, input CreateTask) (Task, error) {
	task, err := r.storer.Create(ctx, input)
	if err != nil {
		return Task{}, fmt.Errorf("task repository create: %w", err)
	}

	r.log.DebugContext(ctx, "task created", "task_id", task.TaskID, "version", task.Version)
	return task, nil
}

// Get returns a single task of the owner.
func (r *Repository) Get(ctx context.Context, taskID, ownerID string, includeDeleted bool) (Task, error) {
	task, err := r.storer.Get(ctx, taskID, ownerID, includeDeleted)
	if err != nil {
		return Task{}, fmt.Errorf("task repository get: %w", err)
	}
	return task, nil
}

// List returns the requested page of the owner's tasks.
func (r *Repository) List(ctx context.Context, ownerID string, q ListQuery) (fop.Result[Task], error) {
	items, total, err := r.storer.List(ctx, ownerID, q.Filter, OrderTerms(q.Sort), q.Page)
	if err != nil {
		return fop.Result[Task]{}, fmt.Errorf("task repository list: %w", err)
	}
	return fop.NewResult(items, q.Page, total), nil
}

// Stats returns the owner's task counters as of now.
func (r *Repository) Stats(ctx context.Context, ownerID string, now time.Time) (Stats, error) {
	stats, err := r.storer.Stats(ctx, ownerID, now)
	if err != nil {
		return Stats{}, fmt.Errorf("task repository stats: %w", err)
	}
	return stats, nil
}
