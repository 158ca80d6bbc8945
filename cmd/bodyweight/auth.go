package bodyweight

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prikhi/bodyweight-client/internal/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored API session",
}

var (
	authToken  string
	authUserID int64
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token and user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := session.NewBridge(session.SQLiteKV{DB: sqldb}, logger).Login(authToken, authUserID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %d\n", authUserID)
			return nil
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := session.NewBridge(session.SQLiteKV{DB: sqldb}, logger).Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			flags, err := session.NewBridge(session.SQLiteKV{DB: sqldb}, logger).Load()
			if err != nil {
				return err
			}
			if !flags.Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as user %d\n", flags.AuthUserID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)

	authLoginCmd.Flags().StringVar(&authToken, "token", "", "API token")
	authLoginCmd.Flags().Int64Var(&authUserID, "user-id", 0, "User id the token belongs to")
	_ = authLoginCmd.MarkFlagRequired("token")
	_ = authLoginCmd.MarkFlagRequired("user-id")
}
