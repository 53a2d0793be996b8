package users

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/storyshare/cmd/cli/config"
	"github.com/crucial707/storyshare/cmd/cli/output"
	"github.com/crucial707/storyshare/internal/repo"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect users who have signed in with Google",
	}
	usersCmd.AddCommand(listUsersCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			database, err := config.OpenDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			list, err := repo.NewUserRepo(database).List(ctx)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}

			rows := make([][]interface{}, 0, len(list))
			for _, u := range list {
				rows = append(rows, []interface{}{u.ID, u.DisplayName, u.GoogleID, u.CreatedAt.Format("2006-01-02")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Google ID", "Joined"}, rows)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	return cmd
}
