package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/model"
)

const sectionNameRequired = "You must first enter a name for the Section."

type AddExerciseFunc func(ctx context.Context, section *model.Section) (*model.SectionExercise, error)

type SectionComponent struct {
	Model        *model.Section
	ErrorMessage string

	repo          Repository
	addExercise   AddExerciseFunc
	logger        *zap.Logger
	editingToggle bool
}

func NewSectionComponent(repo Repository, addExercise AddExerciseFunc, logger *zap.Logger, s *model.Section) *SectionComponent {
	if addExercise == nil {
		addExercise = func(context.Context, *model.Section) (*model.SectionExercise, error) {
			return nil, ErrNoHandler
		}
	}
	return &SectionComponent{Model: s, repo: repo, addExercise: addExercise, logger: nopLogger(logger)}
}

func (c *SectionComponent) IsEditing() bool {
	return c.Model.IsNew() || c.editingToggle
}

func (c *SectionComponent) ToggleEditing() {
	c.editingToggle = !c.editingToggle
}

func (c *SectionComponent) Cancel() error {
	return c.Model.Rollback()
}

// NewExercise adds a bundle to the section, saving an unsaved section first
// when it has a name.
func (c *SectionComponent) NewExercise(ctx context.Context) (*model.SectionExercise, error) {
	s := c.Model
	if s.IsNew() {
		if strings.TrimSpace(s.Attrs.Name) == "" {
			c.ErrorMessage = sectionNameRequired
			return nil, &ValidationError{Message: sectionNameRequired}
		}
		c.ErrorMessage = ""
		if err := c.repo.Save(ctx, s); err != nil {
			c.ErrorMessage = failureMessage("save", "Section", err)
			c.logger.Warn("section save before adding exercise failed", zap.Error(err))
			return nil, persistError("save", "section", err)
		}
		c.editingToggle = true
	}
	return c.addExercise(ctx, s)
}

// Delete destroys every exercise bundled in the section, one after another,
// and then the section. The first failure stops the cascade and the section
// is kept.
func (c *SectionComponent) Delete(ctx context.Context) error {
	exercises := c.Model.Exercises()
	for _, e := range exercises {
		if err := c.repo.Destroy(ctx, e); err != nil {
			c.ErrorMessage = failureMessage("delete", "Section", err)
			c.logger.Warn("section cascade stopped",
				zap.Int64("section_id", c.Model.Key()),
				zap.Int64("exercise_id", e.Key()),
				zap.Error(err))
			return persistError("delete", "section exercise", err)
		}
	}
	if err := c.repo.Destroy(ctx, c.Model); err != nil {
		c.ErrorMessage = failureMessage("delete", "Section", err)
		return persistError("delete", "section", err)
	}
	c.ErrorMessage = ""
	c.logger.Debug("deleted section", zap.Int64("section_id", c.Model.Key()), zap.Int("exercises", len(exercises)))
	return nil
}
