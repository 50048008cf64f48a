package taskscasebridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/infrastructure/web"
	"github.com/jrazmi/tasktracker/sdk/logger"
)

// Config holds configuration for the task routes.
type Config struct {
	Log        *logger.Logger
	Service    *taskscase.Service
	Middleware []web.Middleware
}

// AddHttpRoutes registers the task routes on group. The group is expected
// to carry mid.Authenticate.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Service)
	mw := cfg.Middleware

	group.GET("/tasks", b.httpList, mw...)
	group.POST("/tasks", b.httpCreate, mw...)
	group.GET("/tasks/_stats", b.httpStats, mw...)
	group.GET("/tasks/{task_id}", b.httpGetByID, mw...)
	group.PUT("/tasks/{task_id}", b.httpUpdate, mw...)
	group.DELETE("/tasks/{task_id}", b.httpDelete, mw...)
	group.POST("/tasks/{task_id}/complete", b.httpComplete, mw...)
	group.POST("/tasks/{task_id}/restore", b.httpRestore, mw...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	res, err := b.tasksService.List(ctx, owner, parseListQuery(r))
	if err != nil {
		return toAppError(err)
	}

	return fopbridge.NewPageResponse(res, MarshalToBridge)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	var input CreateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return decodeError(err)
	}

	task, err := b.tasksService.Create(ctx, owner, MarshalCreateToCase(input))
	if err != nil {
		return toAppError(err)
	}

	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

func (b *bridge) httpStats(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	stats, err := b.tasksService.Stats(ctx, owner)
	if err != nil {
		return toAppError(err)
	}

	return MarshalStatsToBridge(stats)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	task, err := b.tasksService.Get(ctx, owner, web.Param(r, "task_id"))
	if err != nil {
		return toAppError(err)
	}

	return MarshalToBridge(task)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	var input UpdateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return decodeError(err)
	}

	task, err := b.tasksService.Update(ctx, owner, web.Param(r, "task_id"), MarshalUpdateToCase(input))
	if err != nil {
		return toAppError(err)
	}

	return MarshalToBridge(task)
}

func (b *bridge) httpComplete(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	if _, err := b.tasksService.Complete(ctx, owner, web.Param(r, "task_id")); err != nil {
		return toAppError(err)
	}

	return fopbridge.NewCodeResponse("completed", "task completed")
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	if err := b.tasksService.Delete(ctx, owner, web.Param(r, "task_id")); err != nil {
		return toAppError(err)
	}

	return nil
}

func (b *bridge) httpRestore(ctx context.Context, r *http.Request) web.Encoder {
	owner, appErr := ownerID(ctx)
	if appErr != nil {
		return appErr
	}

	restored, err := b.tasksService.Restore(ctx, owner, web.Param(r, "task_id"))
	if err != nil {
		return toAppError(err)
	}

	return RestoreResult{Restored: restored}
}
