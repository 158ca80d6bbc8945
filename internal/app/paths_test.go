package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPathsShareAppDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dbPath, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("db path: %v", err)
	}
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if filepath.Dir(dbPath) != filepath.Dir(cfgPath) {
		t.Fatalf("expected shared dir, got %s and %s", dbPath, cfgPath)
	}
	if filepath.Base(filepath.Dir(dbPath)) != "bodyweight" {
		t.Fatalf("unexpected app dir: %s", dbPath)
	}
	if got := BackupDir(dbPath); got != filepath.Join(filepath.Dir(dbPath), "backups") {
		t.Fatalf("unexpected backup dir: %s", got)
	}
}

func TestEnsureDBDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "bodyweight.db")
	if err := EnsureDBDir(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if st, err := os.Stat(filepath.Dir(path)); err != nil || !st.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}
