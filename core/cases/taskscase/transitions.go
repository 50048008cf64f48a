package taskscase

import (
	"time"

	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
)

// Transition is the result of applying a state change to a task: the record
// it would become and the columns that must be written to get there. Write is
// false when the task is already in the target state.
type Transition struct {
	Next    tasksrepo.Task
	Changes tasksrepo.Changes
	Write   bool
}

func noop(t tasksrepo.Task) Transition {
	return Transition{Next: t}
}

func changed(t tasksrepo.Task, c tasksrepo.Changes) Transition {
	return Transition{Next: c.Apply(t), Changes: c, Write: true}
}

// Complete marks an open task completed at now.
func Complete(t tasksrepo.Task, now time.Time) Transition {
	if t.IsCompleted {
		return noop(t)
	}
	done := true
	return changed(t, tasksrepo.Changes{IsCompleted: &done, CompletedAt: &now})
}

// Delete soft-deletes the task at now. Completion is not touched.
func Delete(t tasksrepo.Task, now time.Time) Transition {
	if t.IsDeleted {
		return noop(t)
	}
	deleted := true
	return changed(t, tasksrepo.Changes{IsDeleted: &deleted, DeletedAt: &now})
}

// Restore clears the deleted overlay. Completion is left as it was before the
// delete.
func Restore(t tasksrepo.Task) Transition {
	if !t.IsDeleted {
		return noop(t)
	}
	deleted := false
	return changed(t, tasksrepo.Changes{IsDeleted: &deleted})
}

// Update merges p into the task. It always writes. Flipping IsCompleted sets
// or clears CompletedAt; repeating the current value leaves CompletedAt alone.
func Update(t tasksrepo.Task, p Patch, now time.Time) Transition {
	c := tasksrepo.Changes{
		Title:       p.Title,
		Description: p.Description,
		DueDate:     p.DueDate,
	}

	if p.IsCompleted != nil && *p.IsCompleted != t.IsCompleted {
		c.IsCompleted = p.IsCompleted
		if *p.IsCompleted {
			c.CompletedAt = &now
		}
	}

	return changed(t, c)
}
