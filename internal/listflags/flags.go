// Package listflags holds flags shared by list commands.
package listflags

import "github.com/spf13/cobra"

// AddAllFlag adds a shared --all flag to list commands that hide
// inactive entries by default.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Include inactive entries")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Include inactive entries")
}
