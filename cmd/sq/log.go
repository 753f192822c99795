package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/internal/markdown"
	"github.com/amonks/sidequest/internal/ui"
	"github.com/amonks/sidequest/quest"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review daily energy check-ins",
}

// log checkin
var logCheckinCmd = &cobra.Command{
	Use:   "checkin <energy>",
	Short: "Record today's energy level",
	Long: `Record today's energy level and optional notes.

Checking in again the same day replaces the energy level; notes are only
replaced when given.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogCheckin,
}

var (
	logCheckinNotes string
	logCheckinJSON  bool
)

// log list
var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List daily logs",
	Args:  cobra.NoArgs,
	RunE:  runLogList,
}

var (
	logListFrom string
	logListTo   string
	logListJSON bool
)

// log show
var logShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the log for a date (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogShow,
}

var logShowJSON bool

// log delete
var logDeleteCmd = &cobra.Command{
	Use:   "delete <date>...",
	Short: "Delete daily logs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLogDelete,
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logCheckinCmd, logListCmd, logShowCmd, logDeleteCmd)

	logCheckinCmd.Flags().StringVarP(&logCheckinNotes, "notes", "n", "", "Markdown notes (use '-' to read from stdin)")
	logCheckinCmd.Flags().BoolVar(&logCheckinJSON, "json", false, "Output as JSON")

	logListCmd.Flags().StringVar(&logListFrom, "from", "", "First date (YYYY-MM-DD)")
	logListCmd.Flags().StringVar(&logListTo, "to", "", "Last date (YYYY-MM-DD)")
	logListCmd.Flags().BoolVar(&logListJSON, "json", false, "Output as JSON")

	logShowCmd.Flags().BoolVar(&logShowJSON, "json", false, "Output as JSON")
}

func runLogCheckin(cmd *cobra.Command, args []string) error {
	notes, err := resolveTextFromStdin(logCheckinNotes, cmd.InOrStdin())
	if err != nil {
		return err
	}
	eng, err := openEngine()
	if err != nil {
		return err
	}
	log, err := eng.LogMoodEntry(args[0], notes)
	if err != nil {
		return err
	}
	if logCheckinJSON {
		return printJSON(log)
	}
	fmt.Printf("Checked in for %s: %s (%d/%d quests done)\n", log.Date(), log.Energy, log.Completed, log.Assigned)
	return nil
}

func runLogList(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	logs, err := eng.ListLogs(logListFrom, logListTo)
	if err != nil {
		return err
	}
	if logListJSON {
		return printJSONList(logs)
	}
	if len(logs) == 0 {
		fmt.Println("No logs yet. Check in with `sq log checkin <energy>`.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"DATE", "ENERGY", "DONE", "NOTES"}, len(logs))
	for _, log := range logs {
		builder.AddRow([]string{
			log.Date(),
			log.Energy,
			fmt.Sprintf("%d/%d", log.Completed, log.Assigned),
			ui.TruncateTableCell(valueOrDash(log.Notes)),
		})
	}
	fmt.Print(builder.String())
	return nil
}

func runLogShow(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	date := quest.DayKey(eng.Now())
	if len(args) == 1 {
		date = args[0]
	}
	log, err := eng.GetLog(date)
	if err != nil {
		return err
	}
	if logShowJSON {
		return printJSON(log)
	}

	fmt.Printf("Date:       %s\n", log.Date())
	fmt.Printf("Energy:     %s\n", log.Energy)
	fmt.Printf("Quests:     %d of %d done\n", log.Completed, log.Assigned)
	if rendered := markdown.SafeRender(ui.TerminalWidth(80), 2, []byte(log.Notes)); rendered != nil {
		fmt.Println()
		fmt.Println(ui.Header("Notes:"))
		fmt.Println(string(rendered))
	}
	return nil
}

func runLogDelete(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	for _, date := range args {
		if err := eng.DeleteLog(date); err != nil {
			return err
		}
		fmt.Printf("Deleted log %s\n", date)
	}
	return nil
}
