package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plankhq/plank/internal/api"
)

// Build can be set via ldflags at compile time
var Build = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			outputJSON(map[string]string{
				"version": api.ClientVersion,
				"build":   Build,
			})
		} else {
			fmt.Printf("plank version %s (%s)\n", api.ClientVersion, Build)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
