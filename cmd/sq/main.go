// Package main implements the sq CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:           "sq",
	Short:         "Sidequest - recurring quests, streaks and reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootStateDir   string
	rootConfigPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootStateDir, "state-dir", "", "State directory (default $SIDEQUEST_STATE_DIR or ~/.local/state/sidequest)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file overriding ~/.config/sidequest/config.toml (default $SIDEQUEST_CONFIG)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})
	cobra.OnFinalize(closeEngine)
}
