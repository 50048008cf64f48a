// Package taskspgxstore implements tasksrepo.Storer on PostgreSQL.
package taskspgxstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/infrastructure/databases/postgresdb"
	"github.com/jrazmi/tasktracker/sdk/logger"
	"golang.org/x/sync/errgroup"
)

const taskColumns = `task_id, owner_id, title, description, is_completed, completed_at, due_date,
	created_at, updated_at, is_deleted, deleted_at, version`

func init() {
	for key, col := range tasksrepo.SortColumns {
		if _, err := postgresdb.QuoteIdentifier(col.Column); err != nil {
			panic(fmt.Sprintf("taskspgxstore: sort key %q: %v", key, err))
		}
	}
}

// Store manages the set of APIs for task database access.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// Create inserts a new task. The version column defaults to the next value
// of task_version_seq.
func (s *Store) Create(ctx context.Context, input tasksrepo.CreateTask) (tasksrepo.Task, error) {
	query := `INSERT INTO tasks (task_id, owner_id, title, description, due_date, created_at, updated_at)
		VALUES (@task_id, @owner_id, @title, @description, @due_date, @created_at, @created_at)
		RETURNING ` + taskColumns

	args := pgx.NamedArgs{
		"task_id":     input.TaskID,
		"owner_id":    input.OwnerID,
		"title":       input.Title,
		"description": input.Description,
		"due_date":    input.DueDate,
		"created_at":  input.CreatedAt,
	}

	task, err := s.queryOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return tasksrepo.Task{}, fmt.Errorf("create task %s: %w", input.TaskID, tasksrepo.ErrDuplicate)
		}
		return tasksrepo.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Get retrieves a single task of the owner.
func (s *Store) Get(ctx context.Context, taskID, ownerID string, includeDeleted bool) (tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = @task_id AND owner_id = @owner_id`
	if !includeDeleted {
		query += ` AND is_deleted = false`
	}

	args := pgx.NamedArgs{
		"task_id":  taskID,
		"owner_id": ownerID,
	}

	task, err := s.queryOne(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, notFound(taskID, err)
	}
	return task, nil
}

// List runs the page query and the count query concurrently. The two may
// observe different snapshots under concurrent writes.
func (s *Store) List(ctx context.Context, ownerID string, filter tasksrepo.QueryFilter, orderBy []tasksrepo.OrderTerm, page fop.PageOffset) ([]tasksrepo.Task, int, error) {
	lq, err := buildListQuery(ownerID, filter, orderBy, page)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	var (
		items []tasksrepo.Task
		total int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.pool.Query(gctx, lq.page, lq.pageArgs)
		if err != nil {
			return postgresdb.HandlePgError(err)
		}
		defer rows.Close()

		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
		return postgresdb.HandlePgError(err)
	})

	g.Go(func() error {
		return postgresdb.HandlePgError(s.pool.QueryRow(gctx, lq.count, lq.countArgs).Scan(&total))
	})

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return items, total, nil
}

// UpdateIfVersion performs the compare-and-set write. When no row matches it
// probes for the task to tell a missing task from a lost race.
func (s *Store) UpdateIfVersion(ctx context.Context, taskID, ownerID string, expectedVersion int64, changes tasksrepo.Changes) (tasksrepo.Task, error) {
	query, args := buildConditionalUpdate(taskID, ownerID, expectedVersion, changes)

	task, err := s.queryOne(ctx, query, args)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, postgresdb.ErrDBNotFound) {
		return tasksrepo.Task{}, fmt.Errorf("conditional update: %w", err)
	}

	var exists bool
	probe := `SELECT EXISTS (SELECT 1 FROM tasks WHERE task_id = @task_id AND owner_id = @owner_id)`
	if err := s.pool.QueryRow(ctx, probe, pgx.NamedArgs{"task_id": taskID, "owner_id": ownerID}).Scan(&exists); err != nil {
		return tasksrepo.Task{}, fmt.Errorf("probe task: %w", postgresdb.HandlePgError(err))
	}
	if !exists {
		return tasksrepo.Task{}, fmt.Errorf("task %s: %w", taskID, tasksrepo.ErrNotFound)
	}

	s.log.DebugContext(ctx, "version moved", "task_id", taskID, "expected_version", expectedVersion)
	return tasksrepo.Task{}, fmt.Errorf("task %s at version %d: %w", taskID, expectedVersion, tasksrepo.ErrVersionConflict)
}

// Stats counts the owner's non-deleted tasks in a single pass.
func (s *Store) Stats(ctx context.Context, ownerID string, now time.Time) (tasksrepo.Stats, error) {
	query := `SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE NOT is_completed) AS open,
			COUNT(*) FILTER (WHERE is_completed) AS done,
			COUNT(*) FILTER (WHERE NOT is_completed AND due_date < @now) AS overdue
		FROM tasks
		WHERE owner_id = @owner_id AND is_deleted = false`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"owner_id": ownerID, "now": now})
	if err != nil {
		return tasksrepo.Stats{}, fmt.Errorf("stats: %w", postgresdb.HandlePgError(err))
	}
	defer rows.Close()

	stats, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Stats])
	if err != nil {
		return tasksrepo.Stats{}, fmt.Errorf("stats: %w", postgresdb.HandlePgError(err))
	}
	return stats, nil
}

func (s *Store) queryOne(ctx context.Context, query string, args pgx.NamedArgs) (tasksrepo.Task, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return task, nil
}

func notFound(taskID string, err error) error {
	if errors.Is(err, postgresdb.ErrDBNotFound) {
		return fmt.Errorf("task %s: %w", taskID, tasksrepo.ErrNotFound)
	}
	return err
}

// =============================================================================
// Query building

type listQuery struct {
	page      string
	pageArgs  pgx.NamedArgs
	count     string
	countArgs pgx.NamedArgs
}

func buildListQuery(ownerID string, filter tasksrepo.QueryFilter, orderBy []tasksrepo.OrderTerm, page fop.PageOffset) (listQuery, error) {
	args := pgx.NamedArgs{"owner_id": ownerID}

	var where postgresdb.WhereBuilder
	applyFilter(filter, args, &where)

	countArgs := make(pgx.NamedArgs, len(args))
	for k, v := range args {
		countArgs[k] = v
	}

	var cbuf bytes.Buffer
	cbuf.WriteString("SELECT COUNT(*) FROM tasks")
	where.WriteTo(&cbuf)

	var buf bytes.Buffer
	buf.WriteString("SELECT " + taskColumns + " FROM tasks")
	where.WriteTo(&buf)

	fields := make([]postgresdb.OrderField, 0, len(orderBy))
	for _, o := range orderBy {
		dir := postgresdb.ASC
		if o.Desc {
			dir = postgresdb.DESC
		}
		fields = append(fields, postgresdb.OrderField{Column: o.Column, Direction: dir, Nullable: o.Nullable})
	}
	if err := postgresdb.AddOrderByClause(&buf, fields); err != nil {
		return listQuery{}, err
	}

	postgresdb.AddLimitOffsetClause(page.Limit(), page.Offset(), args, &buf)

	return listQuery{
		page:      buf.String(),
		pageArgs:  args,
		count:     cbuf.String(),
		countArgs: countArgs,
	}, nil
}

func applyFilter(filter tasksrepo.QueryFilter, args pgx.NamedArgs, where *postgresdb.WhereBuilder) {
	where.And("owner_id = @owner_id")

	if !filter.IncludeDeleted {
		where.And("is_deleted = false")
	}

	if filter.IsCompleted != nil {
		args["is_completed"] = *filter.IsCompleted
		where.And("is_completed = @is_completed")
	}

	if filter.DueBefore != nil {
		args["due_before"] = *filter.DueBefore
		where.And("due_date < @due_before")
	}

	if filter.DueAfter != nil {
		args["due_after"] = *filter.DueAfter
		where.And("due_date > @due_after")
	}

	if filter.CreatedBefore != nil {
		args["created_before"] = *filter.CreatedBefore
		where.And("created_at < @created_before")
	}

	if filter.CreatedAfter != nil {
		args["created_after"] = *filter.CreatedAfter
		where.And("created_at > @created_after")
	}

	if term, ok := filter.SearchTerm(); ok {
		args["search"] = "%" + postgresdb.EscapeLike(term) + "%"
		where.And(`(title ILIKE @search ESCAPE '\' OR description ILIKE @search ESCAPE '\')`)
	}
}

func buildConditionalUpdate(taskID, ownerID string, expectedVersion int64, c tasksrepo.Changes) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{
		"task_id":          taskID,
		"owner_id":         ownerID,
		"expected_version": expectedVersion,
	}

	var buf bytes.Buffer
	buf.WriteString("UPDATE tasks SET version = nextval('task_version_seq'), updated_at = NOW()")

	if c.Title != nil {
		buf.WriteString(", title = @title")
		args["title"] = *c.Title
	}
	if c.Description != nil {
		buf.WriteString(", description = @description")
		args["description"] = *c.Description
	}
	if c.DueDate != nil {
		buf.WriteString(", due_date = @due_date")
		args["due_date"] = *c.DueDate
	}
	if c.IsCompleted != nil {
		buf.WriteString(", is_completed = @is_completed, completed_at = @completed_at")
		args["is_completed"] = *c.IsCompleted
		args["completed_at"] = c.CompletedAt
	}
	if c.IsDeleted != nil {
		buf.WriteString(", is_deleted = @is_deleted, deleted_at = @deleted_at")
		args["is_deleted"] = *c.IsDeleted
		args["deleted_at"] = c.DeletedAt
	}

	buf.WriteString(" WHERE task_id = @task_id AND owner_id = @owner_id AND version = @expected_version")
	buf.WriteString(" RETURNING " + taskColumns)

	return buf.String(), args
}
