package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildVersion = "dev"
var buildCommitID = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sq version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func versionString() string {
	return fmt.Sprintf("version %s\ncommit_id %s", buildVersion, buildCommitID)
}
