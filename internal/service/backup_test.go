package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prikhi/bodyweight-client/internal/db"
	"github.com/prikhi/bodyweight-client/internal/service"
)

func TestBackupRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "bodyweight.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	mustCreateExercise(t, sqldb, "Squat")
	if _, err := service.CreateRoutine(sqldb, service.RoutineInput{Name: "Legs"}); err != nil {
		t.Fatalf("create routine: %v", err)
	}

	// The database stays open in WAL mode; the snapshot still holds the rows.
	backupDir := filepath.Join(dir, "backups")
	info, err := service.CreateBackup(sqldb, filepath.Join(backupDir, "one.db"))
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if info.Checksum == "" || info.SizeBytes == 0 || !info.Verified {
		t.Fatalf("unexpected backup info: %+v", info)
	}
	if info.Routines != 1 || info.Exercises != 1 {
		t.Fatalf("unexpected backup counts: %+v", info)
	}
	if _, err := service.CreateBackup(sqldb, info.Path); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected existing backup to be refused, got %v", err)
	}
	_ = sqldb.Close()

	list, err := service.ListBackups(backupDir)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(list) != 1 || list[0].Checksum != info.Checksum || !list[0].Verified {
		t.Fatalf("unexpected backup list: %+v", list)
	}

	restored := filepath.Join(dir, "restored.db")
	if err := service.RestoreBackup(info.Path, restored, false); err != nil {
		t.Fatalf("restore backup: %v", err)
	}
	if err := service.RestoreBackup(info.Path, restored, false); err == nil {
		t.Fatalf("expected restore without force to refuse an existing db")
	}

	rdb, err := db.Open(restored)
	if err != nil {
		t.Fatalf("open restored: %v", err)
	}
	defer rdb.Close()
	items, err := service.ListExercises(rdb)
	if err != nil {
		t.Fatalf("list restored exercises: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Squat" {
		t.Fatalf("unexpected restored rows: %+v", items)
	}
}

func TestRestoreRejectsTamperedBackup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	info, err := service.CreateBackup(sqldb, filepath.Join(dir, "one.db"))
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if err := os.WriteFile(info.Path+".sha256", []byte("deadbeef\n"), 0o644); err != nil {
		t.Fatalf("corrupt checksum: %v", err)
	}
	target := filepath.Join(dir, "target.db")
	if err := service.RestoreBackup(info.Path, target, true); !errors.Is(err, service.ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("target must not be written on mismatch: %v", err)
	}

	list, err := service.ListBackups(dir)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(list) != 1 || list[0].Verified {
		t.Fatalf("tampered backup must not be verified: %+v", list)
	}

	if err := os.Remove(info.Path + ".sha256"); err != nil {
		t.Fatalf("remove checksum: %v", err)
	}
	if err := service.RestoreBackup(info.Path, target, true); err == nil {
		t.Fatalf("expected restore without checksum file to fail")
	}
}

func TestListBackupsMissingDir(t *testing.T) {
	t.Parallel()
	list, err := service.ListBackups(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no backups, got %+v", list)
	}
}
