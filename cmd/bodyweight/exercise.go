package bodyweight

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/store"
	"github.com/prikhi/bodyweight-client/internal/workflow"
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Manage exercises",
}

var (
	exerciseName        string
	exerciseDescription string
	exerciseHold        bool
	exerciseYoutube     string
	exerciseAmazon      string
	exerciseCopyright   string
)

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{route: workflow.RouteExercises}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("exercise id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{route: workflow.RouteExerciseShow, id: id}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs := workflow.NewExerciseDefaults
		applyExerciseFlags(cmd, &attrs)
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{}
			c := workflow.NewExerciseController(st, nav, logger, st.CreateExercise(attrs))
			if err := c.Save(ctx); err != nil {
				return controllerError(c.ErrorMessage, err)
			}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("exercise id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			e, err := st.FindExercise(ctx, id)
			if err != nil {
				return err
			}
			nav := &cliNavigator{}
			c := workflow.NewExerciseController(st, nav, logger, e)
			c.ToggleEditing()
			applyExerciseFlags(cmd, &e.Attrs)
			if e.Attrs == e.Persisted() {
				fmt.Fprintf(cmd.OutOrStdout(), "No changes to exercise %d\n", e.Key())
				printExercise(cmd.OutOrStdout(), e)
				return nil
			}
			if err := c.Save(ctx); err != nil {
				msg := c.ErrorMessage
				_ = c.Cancel()
				return controllerError(msg, err)
			}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("exercise id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			e, err := st.FindExercise(ctx, id)
			if err != nil {
				return err
			}
			nav := &cliNavigator{}
			c := workflow.NewExerciseController(st, nav, logger, e)
			if err := c.Delete(ctx); err != nil {
				return controllerError(c.ErrorMessage, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted exercise %d\n", id)
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

func applyExerciseFlags(cmd *cobra.Command, attrs *model.ExerciseAttrs) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		attrs.Name = exerciseName
	}
	if flags.Changed("description") {
		attrs.Description = exerciseDescription
	}
	if flags.Changed("hold") {
		attrs.IsHold = exerciseHold
	}
	if flags.Changed("youtube") {
		attrs.YoutubeIDs = exerciseYoutube
	}
	if flags.Changed("amazon") {
		attrs.AmazonIDs = exerciseAmazon
	}
	if flags.Changed("copyright") {
		attrs.Copyright = exerciseCopyright
	}
}

func init() {
	rootCmd.AddCommand(exerciseCmd)
	exerciseCmd.AddCommand(exerciseListCmd, exerciseShowCmd, exerciseAddCmd, exerciseUpdateCmd, exerciseDeleteCmd)

	for _, c := range []*cobra.Command{exerciseAddCmd, exerciseUpdateCmd} {
		c.Flags().StringVar(&exerciseName, "name", "", "Exercise name")
		c.Flags().StringVar(&exerciseDescription, "description", "", "Description")
		c.Flags().BoolVar(&exerciseHold, "hold", false, "Timed hold instead of reps")
		c.Flags().StringVar(&exerciseYoutube, "youtube", "", "YouTube video ids (comma separated)")
		c.Flags().StringVar(&exerciseAmazon, "amazon", "", "Amazon product ids (comma separated)")
		c.Flags().StringVar(&exerciseCopyright, "copyright", "", "Copyright notice")
	}
	_ = exerciseAddCmd.MarkFlagRequired("name")
}
