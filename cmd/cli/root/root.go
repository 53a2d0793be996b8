package root

import (
	"github.com/spf13/cobra"

	"github.com/crucial707/storyshare/cmd/cli/config"
)

// RootCmd is the storyctl entry point.
var RootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "StoryShare admin CLI",
	Long:  "Command line tools for the StoryShare database: migrations, stories and users.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnv(envFile)
	},
	SilenceUsage: true,
}

var envFile string

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "KEY=VALUE file to load before reading the environment (default config/config.env)")
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
