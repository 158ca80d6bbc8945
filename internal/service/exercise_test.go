package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prikhi/bodyweight-client/internal/service"
)

func TestExerciseCRUD(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id, err := service.CreateExercise(db, service.ExerciseInput{
		Name:        "  Plank ",
		Description: "Hold a straight line",
		IsHold:      true,
		YoutubeIDs:  "abc, def",
	})
	if err != nil {
		t.Fatalf("create exercise: %v", err)
	}

	got, err := service.GetExercise(db, id)
	if err != nil {
		t.Fatalf("get exercise: %v", err)
	}
	if got.Name != "Plank" || !got.IsHold || got.YoutubeIDs != "abc, def" {
		t.Fatalf("unexpected exercise row: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be parsed")
	}

	if err := service.UpdateExercise(db, service.UpdateExerciseInput{
		ID:            id,
		ExerciseInput: service.ExerciseInput{Name: "Side Plank", IsHold: true},
	}); err != nil {
		t.Fatalf("update exercise: %v", err)
	}
	mustCreateExercise(t, db, "air squat")

	items, err := service.ListExercises(db)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(items) != 2 || items[0].Name != "air squat" || items[1].Name != "Side Plank" {
		t.Fatalf("unexpected exercise order: %+v", items)
	}

	if err := service.DeleteExercise(db, id); err != nil {
		t.Fatalf("delete exercise: %v", err)
	}
	if _, err := service.GetExercise(db, id); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := service.DeleteExercise(db, id); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestExerciseValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.CreateExercise(db, service.ExerciseInput{Name: "   "})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected name message, got %v", err)
	}

	_, err = service.CreateExercise(db, service.ExerciseInput{Name: strings.Repeat("x", 201)})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected length validation, got %v", err)
	}

	err = service.UpdateExercise(db, service.UpdateExerciseInput{ID: 99, ExerciseInput: service.ExerciseInput{Name: "ghost"}})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected not found on update of missing row, got %v", err)
	}
}
