package taskscasebridge

import (
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/sdk/validation"
)

// MarshalToBridge converts a stored task to its wire form.
func MarshalToBridge(task tasksrepo.Task) Task {
	return Task{
		ID:          task.TaskID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		CompletedAt: validation.FormatTimePtr(task.CompletedAt),
		DueDate:     validation.FormatTimePtr(task.DueDate),
		CreatedAt:   validation.FormatTimePtr(&task.CreatedAt),
		UpdatedAt:   validation.FormatTimePtr(&task.UpdatedAt),
	}
}

// MarshalStatsToBridge converts the stored summary to its wire form.
func MarshalStatsToBridge(s tasksrepo.Stats) Stats {
	return Stats{
		Total:   s.Total,
		Open:    s.Open,
		Done:    s.Done,
		Overdue: s.Overdue,
	}
}

// MarshalCreateToCase converts the create body to use case input.
func MarshalCreateToCase(input CreateTaskInput) taskscase.NewTask {
	return taskscase.NewTask{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     dueDate(input.DueDate, input.DueDateUTC),
	}
}

// MarshalUpdateToCase converts the update body to a patch.
func MarshalUpdateToCase(input UpdateTaskInput) taskscase.Patch {
	return taskscase.Patch{
		Title:       input.Title,
		Description: input.Description,
		IsCompleted: input.IsCompleted,
		DueDate:     dueDate(input.DueDate, input.DueDateUTC),
	}
}
