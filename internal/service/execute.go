package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
)

// Execute runs one storage or auth operation and normalizes its
// outcome to a Result. Errors already carrying the taxonomy's shape
// pass through unchanged; storage uniqueness violations become
// Conflicts; anything else becomes an unclassified failure labeled
// with the action. Execute is the mandatory boundary between the
// storage layer and every controller: no fault escapes it.
func Execute[T any](ctx context.Context, l *logger.Logger, action string, op func(ctx context.Context) (T, error)) model.Result[T] {
	value, err := op(ctx)
	if err == nil {
		l.Debug("operation completed", "action", action)
		return model.Ok(value)
	}

	var appErr *model.Error
	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, model.ErrDuplicate):
		appErr = model.NewConflict("No se pudo " + action + ": registro duplicado")
	default:
		appErr = &model.Error{
			Message:    "No se pudo " + action,
			StatusCode: http.StatusInternalServerError,
			Details:    err.Error(),
		}
	}

	l.Error("operation failed", "action", action, "status", appErr.StatusCode, "error", err)
	return model.Fail[T](appErr)
}
