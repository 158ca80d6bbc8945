package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/prikhi/bodyweight-client/internal/db"
	"github.com/prikhi/bodyweight-client/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bodyweight.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func mustCreateExercise(t *testing.T, sqldb *sql.DB, name string) int64 {
	t.Helper()
	id, err := service.CreateExercise(sqldb, service.ExerciseInput{Name: name})
	if err != nil {
		t.Fatalf("create exercise %q: %v", name, err)
	}
	return id
}
