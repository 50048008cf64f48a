// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/jrazmi/tasktracker/infrastructure/web"
)

type ctxKey int

const (
	ownerIDKey ctxKey = iota + 1
)

func setOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerID returns the authenticated owner id from the context.
func GetOwnerID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(ownerIDKey).(string)
	if !ok || v == "" {
		return "", errors.New("owner id not found in context")
	}

	return v, nil
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
