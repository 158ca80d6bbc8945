package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var ErrChecksumMismatch = errors.New("backup checksum mismatch")

const checksumSuffix = ".sha256"

// BackupInfo describes one snapshot file. Routines and Exercises are only
// known for a backup that was just created.
type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
	Verified  bool      `json:"verified"`
	Routines  int       `json:"routines,omitempty"`
	Exercises int       `json:"exercises,omitempty"`
}

// CreateBackup snapshots the open database into outPath with VACUUM INTO, so
// pages still sitting in the WAL are part of the copy, and writes the
// checksum next to it.
func CreateBackup(db *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("%w: backup output path is required", ErrInvalidInput)
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("%w: backup %s already exists", ErrInvalidInput, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}

	info := BackupInfo{Path: outPath}
	if err := db.QueryRow(`SELECT (SELECT COUNT(1) FROM routines), (SELECT COUNT(1) FROM exercises)`).
		Scan(&info.Routines, &info.Exercises); err != nil {
		return BackupInfo{}, fmt.Errorf("count backup rows: %w", err)
	}
	if _, err := db.Exec(`VACUUM INTO ?`, outPath); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}

	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+checksumSuffix, []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	info.Checksum = checksum
	info.CreatedAt = st.ModTime()
	info.SizeBytes = st.Size()
	info.Verified = true
	return info, nil
}

// RestoreBackup replaces the database at dbPath with a verified backup. The
// database must not be open. Stale WAL and shared-memory files of the old
// database are removed so they cannot be replayed over the restored pages.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("%w: backup path and db path are required", ErrInvalidInput)
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	expected, err := readChecksum(backupPath)
	if err != nil {
		return err
	}
	actual, err := fileSHA256(backupPath)
	if err != nil {
		return err
	}
	if expected != actual {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	tmp := dbPath + ".restore"
	if err := copyFile(backupPath, tmp); err != nil {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			_ = os.Remove(tmp)
			return fmt.Errorf("remove stale %s file: %w", suffix, err)
		}
	}
	if err := os.Rename(tmp, dbPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

// ListBackups returns the backups in dir, newest first. A missing directory
// holds no backups.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".db" {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := f.Info()
		if err != nil {
			continue
		}
		item := BackupInfo{Path: full, CreatedAt: st.ModTime(), SizeBytes: st.Size()}
		if sum, err := readChecksum(full); err == nil {
			item.Checksum = sum
			actual, err := fileSHA256(full)
			item.Verified = err == nil && actual == sum
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func readChecksum(backupPath string) (string, error) {
	b, err := os.ReadFile(backupPath + checksumSuffix)
	if err != nil {
		return "", fmt.Errorf("read checksum for %s: %w", backupPath, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync destination file: %w", err)
	}
	return out.Close()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
