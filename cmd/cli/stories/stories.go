package stories

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/storyshare/cmd/cli/config"
	"github.com/crucial707/storyshare/cmd/cli/output"
	"github.com/crucial707/storyshare/internal/models"
	"github.com/crucial707/storyshare/internal/repo"
)

const commandTimeout = 30 * time.Second

// ==========================
// Init Stories
// ==========================
func InitStories(rootCmd *cobra.Command) {
	storiesCmd := &cobra.Command{
		Use:   "stories",
		Short: "Inspect stories",
	}
	storiesCmd.AddCommand(listStoriesCmd(), countStoriesCmd())
	rootCmd.AddCommand(storiesCmd)
}

// ==========================
// LIST
// ==========================
func listStoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public stories, or every story of one user with --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			database, err := config.OpenDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			storyRepo := repo.NewStoryRepo(database)
			userID, _ := cmd.Flags().GetString("user")

			var list []models.Story
			if userID != "" {
				list, err = storyRepo.ListByUser(ctx, userID)
			} else {
				list, err = storyRepo.ListPublic(ctx)
			}
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), list)
			}

			rows := make([][]interface{}, 0, len(list))
			for _, s := range list {
				author := ""
				if s.User != nil {
					author = s.User.DisplayName
				}
				rows = append(rows, []interface{}{s.ID, s.Title, s.Status, author, s.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Status", "Author", "Created"}, rows)
			return nil
		},
	}
	cmd.Flags().String("user", "", "list all stories (any status) owned by this user id")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// COUNT
// ==========================
func countStoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count stories by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			database, err := config.OpenDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			counts, err := repo.NewStoryRepo(database).CountByStatus(ctx)
			if err != nil {
				return err
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Status", "Stories"}, [][]interface{}{
				{models.StatusPublic, counts[models.StatusPublic]},
				{models.StatusPrivate, counts[models.StatusPrivate]},
			})
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", counts[models.StatusPublic]+counts[models.StatusPrivate])
			return nil
		},
	}
}
