package cmd

import (
	"log"

	"github.com/josephlewis42/myshell/core/config"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default shell configuration to the config path.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		return config.Initialize(configFs, cfgPath, logger)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
