package bodyweight

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prikhi/bodyweight-client/internal/app"
	"github.com/prikhi/bodyweight-client/internal/service"
)

var (
	backupOut    string
	backupDir    string
	restoreFile  string
	restoreForce bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot and restore the server database",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			out := backupOut
			if out == "" {
				path, err := resolveDBPath()
				if err != nil {
					return err
				}
				out = filepath.Join(backupDirFor(path), "bodyweight-"+time.Now().Format("20060102-150405")+".db")
			}
			info, err := service.CreateBackup(sqldb, out)
			if err != nil {
				return err
			}
			logger.Debug("backup created", zap.String("path", info.Path), zap.Int64("bytes", info.SizeBytes))
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created backup: %s\n", info.Path)
			fmt.Fprintf(w, "Checksum: %s\n", info.Checksum)
			fmt.Fprintf(w, "Contains %d routines and %d exercises\n", info.Routines, info.Exercises)
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		items, err := service.ListBackups(backupDirFor(path))
		if err != nil {
			return err
		}
		printBackups(cmd.OutOrStdout(), items)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the database with a verified snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if restoreFile == "" {
			return fmt.Errorf("--file is required")
		}
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		if err := service.RestoreBackup(restoreFile, path, restoreForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", path, restoreFile)
		return nil
	},
}

func printBackups(w io.Writer, items []service.BackupInfo) {
	fmt.Fprintln(w, "FILE\tSIZE\tCREATED\tVERIFIED")
	for _, it := range items {
		verified := "no"
		if it.Verified {
			verified = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", it.Path, it.SizeBytes, it.CreatedAt.Format(time.RFC3339), verified)
	}
}

func backupDirFor(dbPath string) string {
	if backupDir != "" {
		return backupDir
	}
	return app.BackupDir(dbPath)
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)

	backupCmd.PersistentFlags().StringVar(&backupDir, "dir", "", "Backup directory (default: backups/ next to the database)")
	backupCreateCmd.Flags().StringVar(&backupOut, "out", "", "Snapshot file path (overrides --dir)")
	backupRestoreCmd.Flags().StringVar(&restoreFile, "file", "", "Snapshot .db file to restore")
	backupRestoreCmd.Flags().BoolVar(&restoreForce, "force", false, "Overwrite an existing database")
}
