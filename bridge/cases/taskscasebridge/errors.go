package taskscasebridge

import (
	"context"
	"errors"

	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/mid"
	"github.com/jrazmi/tasktracker/core/cases/taskscase"
	"github.com/jrazmi/tasktracker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasktracker/infrastructure/web"
)

// toAppError maps a use case error onto the error returned to the client.
func toAppError(err error) *errs.Error {
	var fe taskscase.FieldErrors
	switch {
	case errors.As(err, &fe):
		return errs.NewFieldErrors(fe)
	case errors.Is(err, tasksrepo.ErrNotFound):
		return errs.New(errs.NotFound, tasksrepo.ErrNotFound)
	case errors.Is(err, tasksrepo.ErrVersionConflict):
		return errs.Newf(errs.Aborted, "task was modified concurrently, reload and retry")
	default:
		return errs.New(errs.InternalOnlyLog, err)
	}
}

func decodeError(err error) *errs.Error {
	if errors.Is(err, web.ErrEmptyBody) {
		return errs.New(errs.InvalidArgument, err)
	}
	return errs.Newf(errs.InvalidArgument, "decode: %s", err)
}

// ownerID reads the authenticated owner set by mid.Authenticate.
func ownerID(ctx context.Context) (string, *errs.Error) {
	id, err := mid.GetOwnerID(ctx)
	if err != nil {
		return "", errs.New(errs.Unauthenticated, err)
	}
	return id, nil
}
