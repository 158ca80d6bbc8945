package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/model"
)

const routineNameRequired = "You must first enter a name for the Routine."

type RoutineController struct {
	Model        *model.Routine
	ErrorMessage string

	repo   Repository
	nav    Navigator
	logger *zap.Logger
}

func NewRoutineController(repo Repository, nav Navigator, logger *zap.Logger, r *model.Routine) *RoutineController {
	return &RoutineController{Model: r, repo: repo, nav: nav, logger: nopLogger(logger)}
}

// NewSection adds an empty section to the routine. An unsaved routine is
// validated and saved first; the section is only attached once that save
// succeeds.
func (c *RoutineController) NewSection(ctx context.Context) (*model.Section, error) {
	r := c.Model
	if r.IsNew() {
		if strings.TrimSpace(r.Attrs.Name) == "" {
			c.ErrorMessage = routineNameRequired
			return nil, &ValidationError{Message: routineNameRequired}
		}
		c.ErrorMessage = ""
		if err := c.repo.Save(ctx, r); err != nil {
			c.ErrorMessage = failureMessage("save", "Routine", err)
			c.logger.Warn("routine save before adding section failed", zap.Error(err))
			return nil, persistError("save", "routine", err)
		}
	}
	return c.addSection()
}

func (c *RoutineController) addSection() (*model.Section, error) {
	section := model.NewSection(model.SectionAttrs{Name: ""})
	if err := c.Model.AttachSection(section); err != nil {
		return nil, err
	}
	c.logger.Debug("attached section", zap.Int64("routine_id", c.Model.Key()), zap.Int("sections", len(c.Model.Sections)))
	return section, nil
}

func (c *RoutineController) SaveRoutine(ctx context.Context) error {
	if err := c.repo.Save(ctx, c.Model); err != nil {
		c.ErrorMessage = failureMessage("save", "Routine", err)
		c.logger.Warn("routine save failed", zap.Int64("id", c.Model.Key()), zap.Error(err))
		return persistError("save", "routine", err)
	}
	c.ErrorMessage = ""
	c.nav.TransitionTo(RouteRoutineShow, c.Model.Key())
	return nil
}

// AddExercise attaches a new bundle to an already saved section. The bundle's
// order is its position in the section.
func (c *RoutineController) AddExercise(ctx context.Context, section *model.Section) (*model.SectionExercise, error) {
	bundle := model.NewSectionExercise(model.SectionExerciseAttrs{Order: len(section.SectionExercises) + 1})
	if err := section.AttachSectionExercise(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// DeleteRoutine removes every section of the routine, then the routine, and
// returns to the routine list. Exercises are left alone.
func (c *RoutineController) DeleteRoutine(ctx context.Context) error {
	sections := append([]*model.Section(nil), c.Model.Sections...)
	for _, s := range sections {
		if err := c.repo.Destroy(ctx, s); err != nil {
			c.ErrorMessage = failureMessage("delete", "Section", err)
			return persistError("delete", "section", err)
		}
	}
	if err := c.repo.Destroy(ctx, c.Model); err != nil {
		c.ErrorMessage = failureMessage("delete", "Routine", err)
		c.logger.Warn("routine delete failed", zap.Int64("id", c.Model.Key()), zap.Error(err))
		return persistError("delete", "routine", err)
	}
	c.ErrorMessage = ""
	c.nav.TransitionTo(RouteRoutines, 0)
	return nil
}
