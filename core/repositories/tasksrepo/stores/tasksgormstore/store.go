// Package tasksgormstore implements tasksrepo.Storer with gorm on SQLite.
package tasksgormstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/infrastructure/databases/sqlitedb"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"gorm.io/gorm"
)

// nextVersion is evaluated inside the write that uses it. The store runs on a
// single connection, so no two writes can observe the same maximum.
const nextVersion = "(SELECT COALESCE(MAX(version), 0) + 1 FROM tasks)"

var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// searchClause matches a folded pattern against the folded title and description.
var searchClause = fmt.Sprintf(`(%[1]s(title) LIKE ? ESCAPE '\' OR %[1]s(COALESCE(description, '')) LIKE ? ESCAPE '\')`, sqlitedb.FoldFunc)

func init() {
	for key, col := range tasksrepo.SortColumns {
		if !columnPattern.MatchString(col.Column) {
			panic(fmt.Sprintf("tasksgormstore: sort key %q maps to invalid column %q", key, col.Column))
		}
	}
}

// Store manages the set of APIs for task access through gorm.
type Store struct {
	log *logger.Logger
	db  *gorm.DB
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *gorm.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Migrate creates or updates the tasks table and its indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&taskRow{}); err != nil {
		return fmt.Errorf("auto migrate tasks: %w", err)
	}
	return nil
}

// Create inserts a new task with the next version.
func (s *Store) Create(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error) {
	created := input.CreatedAt.UTC()
	row := taskRow{
		TaskID:      input.TaskID,
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     utcPtr(input.DueDate),
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw("SELECT " + nextVersion).Scan(&row.Version).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return tasksrepo.Task{}, fmt.Errorf("create task %s: %w", input.TaskID, tasksrepo.ErrDuplicate)
		}
		return tasksrepo.Task{}, fmt.Errorf("create task: %w", err)
	}

	return row.toTask(), nil
}

// Get retrieves a single task of the owner.
func (s *Store) Get(ctx context.Context, taskID, ownerID string, includeDeleted bool) (tasksrepo.Task, error) {
	q := s.db.WithContext(ctx).Where("task_id = ? AND owner_id = ?", taskID, ownerID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var row taskRow
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tasksrepo.Task{}, fmt.Errorf("task %s: %w", taskID, tasksrepo.ErrNotFound)
		}
		return tasksrepo.Task{}, fmt.Errorf("get task: %w", err)
	}
	return row.toTask(), nil
}

// List returns one page of matching tasks and the total match count.
func (s *Store) List(ctx context.Context, ownerID string, filter tasksrepo.QueryFilter, orderBy []tasksrepo.OrderTerm, page fop.PageOffset) ([]tasksrepo.Task, int, error) {
	scope := filterScope(ownerID, filter)

	var total int64
	if err := s.db.WithContext(ctx).Model(&taskRow{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	q := s.db.WithContext(ctx).Scopes(scope)
	for _, o := range orderBy {
		q = q.Order(orderClause(o))
	}

	var rows []taskRow
	if err := q.Limit(page.Limit()).Offset(page.Offset()).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return toTasks(rows), int(total), nil
}

// UpdateIfVersion performs the compare-and-set write inside a transaction and
// reads the written row back.
func (s *Store) UpdateIfVersion(ctx context.Context, taskID, ownerID string, expectedVersion int64, changes tasksrepo.Changes) (tasksrepo.Task, error) {
	var row taskRow

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&taskRow{}).
			Where("task_id = ? AND owner_id = ? AND version = ?", taskID, ownerID, expectedVersion).
			Updates(updateColumns(changes))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&taskRow{}).Where("task_id = ? AND owner_id = ?", taskID, ownerID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("task %s: %w", taskID, tasksrepo.ErrNotFound)
			}
			return fmt.Errorf("task %s at version %d: %w", taskID, expectedVersion, tasksrepo.ErrVersionConflict)
		}

		return tx.Where("task_id = ? AND owner_id = ?", taskID, ownerID).First(&row).Error
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("conditional update: %w", err)
	}

	return row.toTask(), nil
}

// Stats counts the owner's non-deleted tasks.
func (s *Store) Stats(ctx context.Context, ownerID string, now time.Time) (tasksrepo.Stats, error) {
	var stats tasksrepo.Stats

	err := s.db.WithContext(ctx).Model(&taskRow{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_completed THEN 0 ELSE 1 END), 0) AS open,
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS done,
			COALESCE(SUM(CASE WHEN NOT is_completed AND due_date < ? THEN 1 ELSE 0 END), 0) AS overdue`, now.UTC()).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Scan(&stats).Error
	if err != nil {
		return tasksrepo.Stats{}, fmt.Errorf("stats: %w", err)
	}

	return stats, nil
}

func filterScope(ownerID string, filter tasksrepo.QueryFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)

		if !filter.IncludeDeleted {
			db = db.Where("is_deleted = ?", false)
		}
		if filter.IsCompleted != nil {
			db = db.Where("is_completed = ?", *filter.IsCompleted)
		}
		if filter.DueBefore != nil {
			db = db.Where("due_date < ?", filter.DueBefore.UTC())
		}
		if filter.DueAfter != nil {
			db = db.Where("due_date > ?", filter.DueAfter.UTC())
		}
		if filter.CreatedBefore != nil {
			db = db.Where("created_at < ?", filter.CreatedBefore.UTC())
		}
		if filter.CreatedAfter != nil {
			db = db.Where("created_at > ?", filter.CreatedAfter.UTC())
		}
		if term, ok := filter.SearchTerm(); ok {
			pattern := "%" + sqlitedb.EscapeLike(strings.ToLower(term)) + "%"
			db = db.Where(searchClause, pattern, pattern)
		}

		return db
	}
}

func orderClause(o tasksrepo.OrderTerm) string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}

	col := o.Column
	if col == tasksrepo.ColumnTitle {
		col = sqlitedb.FoldFunc + "(" + col + ")"
	}

	clause := col + " " + dir
	if o.Nullable {
		if o.Desc {
			clause += " NULLS FIRST"
		} else {
			clause += " NULLS LAST"
		}
	}
	return clause
}

func updateColumns(c tasksrepo.Changes) map[string]any {
	cols := map[string]any{
		"version":    gorm.Expr(nextVersion),
		"updated_at": time.Now().UTC(),
	}

	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.DueDate != nil {
		cols["due_date"] = c.DueDate.UTC()
	}
	if c.IsCompleted != nil {
		cols["is_completed"] = *c.IsCompleted
		cols["completed_at"] = nullableTime(c.CompletedAt)
	}
	if c.IsDeleted != nil {
		cols["is_deleted"] = *c.IsDeleted
		cols["deleted_at"] = nullableTime(c.DeletedAt)
	}

	return cols
}
