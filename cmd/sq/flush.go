package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Roll quests over, sync state to disk and write today's backup",
	Args:  cobra.NoArgs,
	RunE:  runFlush,
}

func init() {
	rootCmd.AddCommand(flushCmd)
}

func runFlush(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	if err := eng.FlushAll(); err != nil {
		return err
	}
	fmt.Println("Flushed")
	return nil
}
