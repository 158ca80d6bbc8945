package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/model"
)

var NewExerciseDefaults = model.ExerciseAttrs{}

// VisibleExercises drops records that have never been saved.
func VisibleExercises(all []*model.Exercise) []*model.Exercise {
	out := make([]*model.Exercise, 0, len(all))
	for _, e := range all {
		if !e.IsNew() {
			out = append(out, e)
		}
	}
	return out
}

type ExerciseController struct {
	Model        *model.Exercise
	ErrorMessage string

	repo          Repository
	nav           Navigator
	logger        *zap.Logger
	editingToggle bool
}

func NewExerciseController(repo Repository, nav Navigator, logger *zap.Logger, e *model.Exercise) *ExerciseController {
	return &ExerciseController{Model: e, repo: repo, nav: nav, logger: nopLogger(logger)}
}

func (c *ExerciseController) IsEditing() bool {
	return c.Model.IsNew() || c.editingToggle
}

func (c *ExerciseController) ToggleEditing() {
	c.editingToggle = !c.editingToggle
}

func (c *ExerciseController) Save(ctx context.Context) error {
	if err := c.repo.Save(ctx, c.Model); err != nil {
		c.ErrorMessage = failureMessage("save", "Exercise", err)
		c.logger.Warn("exercise save failed", zap.Int64("id", c.Model.Key()), zap.Error(err))
		return persistError("save", "exercise", err)
	}
	c.ErrorMessage = ""
	c.editingToggle = false
	c.nav.TransitionTo(RouteExerciseShow, c.Model.Key())
	return nil
}

// Cancel discards unsaved edits and returns to the show view.
func (c *ExerciseController) Cancel() error {
	if err := c.Model.Rollback(); err != nil {
		return err
	}
	c.ErrorMessage = ""
	c.editingToggle = false
	c.nav.TransitionTo(RouteExerciseShow, c.Model.Key())
	return nil
}

func (c *ExerciseController) Delete(ctx context.Context) error {
	if err := c.repo.Destroy(ctx, c.Model); err != nil {
		c.ErrorMessage = failureMessage("delete", "Exercise", err)
		c.logger.Warn("exercise delete failed", zap.Int64("id", c.Model.Key()), zap.Error(err))
		return persistError("delete", "exercise", err)
	}
	c.ErrorMessage = ""
	c.nav.TransitionTo(RouteExercises, 0)
	return nil
}
