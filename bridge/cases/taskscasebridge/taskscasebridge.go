// Package taskscasebridge exposes the task use cases over HTTP.
package taskscasebridge

import (
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

type bridge struct {
	log          *logger.Logger
	tasksService *taskscase.Service
}

func newBridge(log *logger.Logger, tasksService *taskscase.Service) *bridge {
	return &bridge{
		log:          log,
		tasksService: tasksService,
	}
}
