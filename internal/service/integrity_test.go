package service_test

import (
	"testing"

	"github.com/prikhi/bodyweight-client/internal/service"
)

func TestDoctorFindsAndFixesOrphans(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	exerciseID := mustCreateExercise(t, sqldb, "Pull Up")
	routineID, err := service.CreateRoutine(sqldb, service.RoutineInput{Name: "Pull day"})
	if err != nil {
		t.Fatalf("create routine: %v", err)
	}
	sectionID, err := service.CreateSection(sqldb, service.SectionInput{Name: "Main", RoutineID: &routineID})
	if err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := service.CreateSectionExercise(sqldb, service.SectionExerciseInput{SectionID: &sectionID, ExerciseIDs: []int64{exerciseID}}); err != nil {
		t.Fatalf("create bundle: %v", err)
	}
	if _, err := service.CreateSectionExercise(sqldb, service.SectionExerciseInput{Order: 1}); err != nil {
		t.Fatalf("create loose bundle: %v", err)
	}
	if err := service.DeleteRoutine(sqldb, routineID); err != nil {
		t.Fatalf("delete routine: %v", err)
	}

	report, err := service.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if report.OrphanSections != 1 || report.OrphanBundles != 1 || report.EmptyBundles != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	report, err = service.RunDoctor(sqldb, true)
	if err != nil {
		t.Fatalf("doctor fix: %v", err)
	}
	if report.RemovedSections != 1 || report.RemovedBundles != 2 {
		t.Fatalf("unexpected fix counts: %+v", report)
	}
	report, err = service.RunDoctor(sqldb, false)
	if err != nil {
		t.Fatalf("doctor after fix: %v", err)
	}
	if report.OrphanSections != 0 || report.OrphanBundles != 0 {
		t.Fatalf("expected clean report, got %+v", report)
	}
	if _, err := service.GetExercise(sqldb, exerciseID); err != nil {
		t.Fatalf("exercises must survive doctor fix: %v", err)
	}
}
