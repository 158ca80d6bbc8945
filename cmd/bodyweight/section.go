package bodyweight

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/store"
	"github.com/prikhi/bodyweight-client/internal/workflow"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage the sections of a routine",
}

var (
	sectionRoutineID int64
	sectionID        int64
	sectionName      string
	bundleExercises  []int64
	bundleSets       int
	bundleReps       int
	bundleRestAfter  bool
)

var sectionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a section to a routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRoutine(cmd, func(ctx context.Context, st *store.Store, rc *workflow.RoutineController) error {
			section, err := rc.NewSection(ctx)
			if err != nil {
				return controllerError(rc.ErrorMessage, err)
			}
			section.Attrs.Name = sectionName
			if err := st.Save(ctx, section); err != nil {
				rc.Model.DetachSection(section)
				return fmt.Errorf("save section: %w", err)
			}
			return nil
		})
	},
}

var sectionAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise",
	Short: "Bundle exercises into a section",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(bundleExercises) == 0 {
			return fmt.Errorf("at least one --exercise is required")
		}
		return withRoutine(cmd, func(ctx context.Context, st *store.Store, rc *workflow.RoutineController) error {
			section, err := findSection(rc.Model, sectionID)
			if err != nil {
				return err
			}
			exercises := make([]*model.Exercise, 0, len(bundleExercises))
			for _, id := range bundleExercises {
				e, err := st.FindExercise(ctx, id)
				if err != nil {
					return err
				}
				exercises = append(exercises, e)
			}
			sc := workflow.NewSectionComponent(st, rc.AddExercise, logger, section)
			bundle, err := sc.NewExercise(ctx)
			if err != nil {
				return controllerError(sc.ErrorMessage, err)
			}
			bundle.Attrs.SetCount = bundleSets
			bundle.Attrs.RepCount = bundleReps
			bundle.Attrs.RestAfter = bundleRestAfter
			for _, e := range exercises {
				bundle.AddExercise(e)
			}
			if err := st.Save(ctx, bundle); err != nil {
				section.DetachSectionExercise(bundle)
				return fmt.Errorf("save section exercise: %w", err)
			}
			return nil
		})
	},
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a section and every exercise bundled in it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRoutine(cmd, func(ctx context.Context, st *store.Store, rc *workflow.RoutineController) error {
			section, err := findSection(rc.Model, sectionID)
			if err != nil {
				return err
			}
			sc := workflow.NewSectionComponent(st, rc.AddExercise, logger, section)
			if err := sc.Delete(ctx); err != nil {
				return controllerError(sc.ErrorMessage, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %d\n", sectionID)
			return nil
		})
	},
}

func withRoutine(cmd *cobra.Command, fn func(context.Context, *store.Store, *workflow.RoutineController) error) error {
	if sectionRoutineID <= 0 {
		return fmt.Errorf("--routine must be > 0")
	}
	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		r, err := st.FindRoutine(ctx, sectionRoutineID)
		if err != nil {
			return err
		}
		nav := &cliNavigator{}
		rc := workflow.NewRoutineController(st, nav, logger, r)
		if err := fn(ctx, st, rc); err != nil {
			return err
		}
		nav.TransitionTo(workflow.RouteRoutineShow, r.Key())
		return nav.render(ctx, cmd.OutOrStdout(), st)
	})
}

func findSection(r *model.Routine, id int64) (*model.Section, error) {
	for _, s := range r.Sections {
		if s.Key() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("section %d is not part of routine %d", id, r.Key())
}

func init() {
	rootCmd.AddCommand(sectionCmd)
	sectionCmd.AddCommand(sectionAddCmd, sectionAddExerciseCmd, sectionDeleteCmd)

	for _, c := range []*cobra.Command{sectionAddCmd, sectionAddExerciseCmd, sectionDeleteCmd} {
		c.Flags().Int64Var(&sectionRoutineID, "routine", 0, "Routine id")
	}
	for _, c := range []*cobra.Command{sectionAddExerciseCmd, sectionDeleteCmd} {
		c.Flags().Int64Var(&sectionID, "section", 0, "Section id")
	}
	sectionAddCmd.Flags().StringVar(&sectionName, "name", "", "Section name")
	sectionAddExerciseCmd.Flags().Int64SliceVar(&bundleExercises, "exercise", nil, "Exercise id (repeatable)")
	sectionAddExerciseCmd.Flags().IntVar(&bundleSets, "sets", 0, "Number of sets")
	sectionAddExerciseCmd.Flags().IntVar(&bundleReps, "reps", 0, "Reps (or seconds for holds) per set")
	sectionAddExerciseCmd.Flags().BoolVar(&bundleRestAfter, "rest-after", false, "Rest after this exercise")
}
