// Package taskscase implements the task use cases: creation, reads and the
// guarded state transitions.
package taskscase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/core/scaffolding/fop"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

// Service runs task use cases for one owner at a time. Every call takes the
// owner explicitly; nothing is read from the request context.
type Service struct {
	log   *logger.Logger
	repo  *tasksrepo.Repository
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides how task ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService constructs the task use cases over repo.
func NewService(log *logger.Logger, repo *tasksrepo.Repository, opts ...Option) *Service {
	s := &Service{
		log:   log,
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates nt and stores it as a new open task.
func (s *Service) Create(ctx context.Context, ownerID string, nt NewTask) (tasksrepo.Task, error) {
	nt, err := nt.normalize()
	if err != nil {
		return tasksrepo.Task{}, err
	}

	task, err := s.repo.Create(ctx, tasksrepo.CreateTask{
		TaskID:      s.newID(),
		OwnerID:     ownerID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("create: %w", err)
	}

	s.log.InfoContext(ctx, "task created", "task_id", task.TaskID)
	return task, nil
}

// Get returns a non-deleted task of the owner.
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (tasksrepo.Task, error) {
	task, err := s.repo.Get(ctx, taskID, ownerID, false)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("get: %w", err)
	}
	return task, nil
}

// List returns one page of the owner's tasks.
func (s *Service) List(ctx context.Context, ownerID string, q tasksrepo.ListQuery) (fop.Result[tasksrepo.Task], error) {
	res, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		return fop.Result[tasksrepo.Task]{}, fmt.Errorf("list: %w", err)
	}
	return res, nil
}

// Stats returns the owner's task counters.
func (s *Service) Stats(ctx context.Context, ownerID string) (tasksrepo.Stats, error) {
	stats, err := s.repo.Stats(ctx, ownerID, s.now())
	if err != nil {
		return tasksrepo.Stats{}, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

// Update merges p into a non-deleted task under the version guard.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, p Patch) (tasksrepo.Task, error) {
	p, err := p.normalize()
	if err != nil {
		return tasksrepo.Task{}, err
	}

	current, err := s.repo.Get(ctx, taskID, ownerID, false)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("update: %w", err)
	}

	task, err := s.commit(ctx, current, Update(current, p, s.now()))
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("update: %w", err)
	}
	return task, nil
}

// Complete marks a non-deleted task completed. Completing a completed task
// succeeds without a write.
func (s *Service) Complete(ctx context.Context, ownerID, taskID string) (tasksrepo.Task, error) {
	current, err := s.repo.Get(ctx, taskID, ownerID, false)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("complete: %w", err)
	}

	task, err := s.commit(ctx, current, Complete(current, s.now()))
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("complete: %w", err)
	}
	return task, nil
}

// Delete soft-deletes a task. Deleting a deleted task succeeds without a
// write.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	current, err := s.repo.Get(ctx, taskID, ownerID, true)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if _, err := s.commit(ctx, current, Delete(current, s.now())); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Restore undeletes a task and reports whether anything was restored.
func (s *Service) Restore(ctx context.Context, ownerID, taskID string) (bool, error) {
	current, err := s.repo.Get(ctx, taskID, ownerID, true)
	if err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}

	tr := Restore(current)
	if !tr.Write {
		s.log.WarnContext(ctx, "restore requested for task that is not deleted", "task_id", taskID)
		return false, nil
	}

	if _, err := s.commit(ctx, current, tr); err != nil {
		return false, fmt.Errorf("restore: %w", err)
	}
	return true, nil
}

// commit writes tr against the version current was read at.
func (s *Service) commit(ctx context.Context, current tasksrepo.Task, tr Transition) (tasksrepo.Task, error) {
	if !tr.Write {
		return tr.Next, nil
	}
	return s.repo.ApplyConditional(ctx, current.TaskID, current.OwnerID, current.Version, tr.Changes)
}
