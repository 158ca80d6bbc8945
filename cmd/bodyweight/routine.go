package bodyweight

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/store"
	"github.com/prikhi/bodyweight-client/internal/workflow"
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"routines"},
	Short:   "Manage routines",
}

var (
	routineName      string
	routinePublic    bool
	routineCopyright string
	routineSections  []string
)

var routineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{route: workflow.RouteRoutines}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a routine with its sections and exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("routine id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{route: workflow.RouteRoutineShow, id: id}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var routineNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a routine, optionally with empty named sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs := model.RoutineAttrs{Name: routineName, IsPublic: routinePublic, Copyright: routineCopyright}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			nav := &cliNavigator{}
			rc := workflow.NewRoutineController(st, nav, logger, model.NewRoutine(attrs))
			for _, name := range routineSections {
				section, err := rc.NewSection(ctx)
				if err != nil {
					return controllerError(rc.ErrorMessage, err)
				}
				section.Attrs.Name = name
				if err := st.Save(ctx, section); err != nil {
					return fmt.Errorf("save section %q: %w", name, err)
				}
			}
			if err := rc.SaveRoutine(ctx); err != nil {
				return controllerError(rc.ErrorMessage, err)
			}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var routineUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("routine id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			r, err := st.FindRoutine(ctx, id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				r.Attrs.Name = routineName
			}
			if cmd.Flags().Changed("public") {
				r.Attrs.IsPublic = routinePublic
			}
			if cmd.Flags().Changed("copyright") {
				r.Attrs.Copyright = routineCopyright
			}
			nav := &cliNavigator{}
			rc := workflow.NewRoutineController(st, nav, logger, r)
			if err := rc.SaveRoutine(ctx); err != nil {
				return controllerError(rc.ErrorMessage, err)
			}
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a routine and its sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseInt64Arg("routine id", args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			r, err := st.FindRoutine(ctx, id)
			if err != nil {
				return err
			}
			nav := &cliNavigator{}
			rc := workflow.NewRoutineController(st, nav, logger, r)
			if err := rc.DeleteRoutine(ctx); err != nil {
				return controllerError(rc.ErrorMessage, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted routine %d\n", id)
			return nav.render(ctx, cmd.OutOrStdout(), st)
		})
	},
}

func init() {
	rootCmd.AddCommand(routineCmd)
	routineCmd.AddCommand(routineListCmd, routineShowCmd, routineNewCmd, routineUpdateCmd, routineDeleteCmd)

	for _, c := range []*cobra.Command{routineNewCmd, routineUpdateCmd} {
		c.Flags().StringVar(&routineName, "name", "", "Routine name")
		c.Flags().BoolVar(&routinePublic, "public", false, "Share the routine publicly")
		c.Flags().StringVar(&routineCopyright, "copyright", "", "Copyright notice")
	}
	routineNewCmd.Flags().StringArrayVar(&routineSections, "section", nil, "Add an empty section with this name (repeatable)")
}
