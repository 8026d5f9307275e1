package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navidrome-obs-overlay",
	Short: "Serve an OBS-friendly now-playing overlay for Navidrome",
	Long: `navidrome-obs-overlay polls a Navidrome (Subsonic-compatible) server for
now-playing state and serves a small web page suitable for an OBS browser
source, plus JSON and cover-art endpoints.

Running without a subcommand starts the overlay server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	registerServeFlags(rootCmd)
}
