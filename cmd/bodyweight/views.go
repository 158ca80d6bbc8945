package bodyweight

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prikhi/bodyweight-client/internal/model"
	"github.com/prikhi/bodyweight-client/internal/store"
	"github.com/prikhi/bodyweight-client/internal/workflow"
)

type cliNavigator struct {
	route string
	id    int64
}

func (n *cliNavigator) TransitionTo(route string, id int64) {
	n.route = route
	n.id = id
}

func (n *cliNavigator) render(ctx context.Context, w io.Writer, st *store.Store) error {
	switch n.route {
	case "":
		return nil
	case workflow.RouteExercises:
		items, err := st.FindAllExercises(ctx)
		if err != nil {
			return err
		}
		printExerciseList(w, workflow.VisibleExercises(items))
	case workflow.RouteExerciseShow:
		e, err := st.FindExercise(ctx, n.id)
		if err != nil {
			return err
		}
		printExercise(w, e)
	case workflow.RouteRoutines:
		items, err := st.FindAllRoutines(ctx)
		if err != nil {
			return err
		}
		printRoutineList(w, items)
	case workflow.RouteRoutineShow:
		r, err := st.FindRoutine(ctx, n.id)
		if err != nil {
			return err
		}
		printRoutine(w, r)
	default:
		fmt.Fprintf(w, "%s %d\n", n.route, n.id)
	}
	return nil
}

func printExerciseList(w io.Writer, items []*model.Exercise) {
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, e := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Key(), e.Attrs.Name, e.Type())
	}
}

func printExercise(w io.Writer, e *model.Exercise) {
	fmt.Fprintf(w, "Exercise %d: %s (%s)\n", e.Key(), e.Attrs.Name, e.Type())
	if e.Attrs.Description != "" {
		fmt.Fprintf(w, "  %s\n", e.Attrs.Description)
	}
	if ids := e.YoutubeList(); len(ids) > 0 {
		fmt.Fprintf(w, "  Videos: %s\n", strings.Join(ids, ", "))
	}
	if ids := e.AmazonList(); len(ids) > 0 {
		fmt.Fprintf(w, "  Products: %s\n", strings.Join(ids, ", "))
	}
	if e.Attrs.Copyright != "" {
		fmt.Fprintf(w, "  (c) %s\n", e.Attrs.Copyright)
	}
}

func printRoutineList(w io.Writer, items []*model.Routine) {
	fmt.Fprintln(w, "ID\tNAME\tPUBLIC\tSECTIONS")
	for _, r := range items {
		fmt.Fprintf(w, "%d\t%s\t%t\t%d\n", r.Key(), r.Attrs.Name, r.Attrs.IsPublic, len(r.Sections))
	}
}

func printRoutine(w io.Writer, r *model.Routine) {
	visibility := "private"
	if r.Attrs.IsPublic {
		visibility = "public"
	}
	fmt.Fprintf(w, "Routine %d: %s (%s)\n", r.Key(), r.Attrs.Name, visibility)
	for _, s := range r.Sections {
		fmt.Fprintf(w, "  Section %d: %s\n", s.Key(), s.Attrs.Name)
		for _, se := range s.SectionExercises {
			names := make([]string, 0, len(se.Exercises))
			for _, e := range se.Exercises {
				names = append(names, e.Attrs.Name)
			}
			rest := ""
			if se.Attrs.RestAfter {
				rest = ", rest after"
			}
			fmt.Fprintf(w, "    %d. %s  %dx%d%s\n", se.Attrs.Order, strings.Join(names, " / "), se.Attrs.SetCount, se.Attrs.RepCount, rest)
		}
	}
	if r.Attrs.Copyright != "" {
		fmt.Fprintf(w, "  (c) %s\n", r.Attrs.Copyright)
	}
}
