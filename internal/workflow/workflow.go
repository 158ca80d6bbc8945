// Package workflow holds the controllers that create, attach, persist and
// delete records, and move the user between locations afterwards.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/store"
)

const (
	RouteExercises    = "exercises"
	RouteExerciseNew  = "exercises.new"
	RouteExerciseShow = "exercises.show"
	RouteExerciseEdit = "exercises.edit"
	RouteRoutines     = "routines"
	RouteRoutineNew   = "routines.new"
	RouteRoutineShow  = "routines.show"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrNoHandler   = errors.New("no add-exercise handler")
	ErrInFlight    = model.ErrInFlight
	ErrTimeout     = store.ErrTimeout
)

type Repository interface {
	Save(ctx context.Context, e model.Entity) error
	Destroy(ctx context.Context, e model.Entity) error
}

// Navigator moves to a named location; id is zero for list locations.
type Navigator interface {
	TransitionTo(route string, id int64)
}

type NavigatorFunc func(route string, id int64)

func (f NavigatorFunc) TransitionTo(route string, id int64) { f(route, id) }

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func persistError(op, noun string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, noun, ErrPersistence, err)
}

func failureMessage(op, noun string, err error) string {
	switch {
	case errors.Is(err, model.ErrInFlight):
		return fmt.Sprintf("The %s is already being saved.", noun)
	case errors.Is(err, store.ErrTimeout):
		return fmt.Sprintf("Could not %s the %s: the server did not respond in time.", op, noun)
	default:
		return fmt.Sprintf("Could not %s the %s: %v", op, noun, err)
	}
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
