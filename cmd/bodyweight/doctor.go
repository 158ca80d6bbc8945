package bodyweight

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prikhi/bodyweight-client/internal/db"
	"github.com/prikhi/bodyweight-client/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the server database for records left behind by partial deletes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			version, err := db.SchemaVersion(sqldb)
			if err != nil {
				return err
			}
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Orphan sections: %d\n", report.OrphanSections)
			fmt.Fprintf(cmd.OutOrStdout(), "Orphan section exercises: %d\n", report.OrphanBundles)
			fmt.Fprintf(cmd.OutOrStdout(), "Section exercises without exercises: %d\n", report.EmptyBundles)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed sections: %d\n", report.RemovedSections)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed section exercises: %d\n", report.RemovedBundles)
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if report.OrphanSections > 0 || report.OrphanBundles > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove orphaned sections and section exercises")
}
