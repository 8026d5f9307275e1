package cmd

import (
	"github.com/JobThompson/Navidrome-OBS-Plugin/config"
	"github.com/JobThompson/Navidrome-OBS-Plugin/wizard"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the guided setup to create or update the .env file",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile == "" {
			envFile = config.DefaultEnvFile
		}
		return wizard.Run(envFile)
	},
}

func init() {
	setupCmd.Flags().String("env-file", "", "path to the .env file to create or update")
	rootCmd.AddCommand(setupCmd)
}
