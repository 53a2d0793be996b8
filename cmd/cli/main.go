package main

import (
	"os"

	"github.com/crucial707/storyshare/cmd/cli/migrate"
	"github.com/crucial707/storyshare/cmd/cli/root"
	"github.com/crucial707/storyshare/cmd/cli/stories"
	"github.com/crucial707/storyshare/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	migrate.InitMigrate(rootCmd)
	stories.InitStories(rootCmd)
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
