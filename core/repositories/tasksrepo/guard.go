package tasksrepo

import (
	"context"
	"errors"
	"fmt"
)

// ApplyConditional commits changes to the task only if its stored version
// still equals expectedVersion. Exactly one of any number of concurrent
// callers holding the same version wins; the rest get ErrVersionConflict.
// Nothing is retried here.
func (r *Repository) ApplyConditional(ctx context.Context, taskID, ownerID string, expectedVersion int64, changes Changes) (Task, error) {
	task, err := r.storer.UpdateIfVersion(ctx, taskID, ownerID, expectedVersion, changes)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			r.log.InfoContext(ctx, "conditional write lost", "task_id", taskID, "expected_version", expectedVersion)
		}
		return Task{}, fmt.Errorf("task repository apply conditional: %w", err)
	}

	r.log.DebugContext(ctx, "conditional write committed", "task_id", taskID, "version", task.Version)
	return task, nil
}
