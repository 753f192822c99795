package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/internal/ids"
	"github.com/amonks/sidequest/internal/listflags"
	"github.com/amonks/sidequest/internal/ui"
	"github.com/amonks/sidequest/reminder"
)

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"r"},
	Short:   "Manage time-of-day reminders",
}

// reminder create
var reminderCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a reminder",
	Long: `Create a reminder that fires at --at on the given --days.

Without --days the reminder fires once, at the next occurrence of its
time, and then deactivates. Days accept mon..sun, full names, or the
shorthands daily, weekdays and weekends.`,
	Args: cobra.ExactArgs(1),
	RunE: runReminderCreate,
}

var (
	reminderCreateAt   string
	reminderCreateDays weekdayFlag
	reminderCreateJSON bool
)

// reminder list
var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Args:  cobra.NoArgs,
	RunE:  runReminderList,
}

var (
	reminderListJSON bool
	reminderListAll  bool
)

// reminder toggle
var reminderToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Turn a reminder on or off",
	Args:  cobra.ExactArgs(1),
	RunE:  runReminderToggle,
}

var (
	reminderToggleOn  bool
	reminderToggleOff bool
)

// reminder delete
var reminderDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete reminders",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReminderDelete,
}

// reminder due
var reminderDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Fire reminders that are due now",
	Long: `Fire reminders that are due now and print them.

Each reminder fires at most once per day, so running this repeatedly is
safe. sq watch runs the same check every tick.`,
	Args: cobra.NoArgs,
	RunE: runReminderDue,
}

var reminderDueJSON bool

func init() {
	rootCmd.AddCommand(reminderCmd)
	reminderCmd.AddCommand(reminderCreateCmd, reminderListCmd, reminderToggleCmd, reminderDeleteCmd, reminderDueCmd)

	reminderCreateCmd.Flags().StringVar(&reminderCreateAt, "at", "", "Time of day (HH:MM)")
	reminderCreateCmd.Flags().Var(&reminderCreateDays, "days", "Repeat days (e.g. mon,wed,fri); omit for a one-time reminder")
	reminderCreateCmd.Flags().BoolVar(&reminderCreateJSON, "json", false, "Output as JSON")
	reminderCreateCmd.MarkFlagRequired("at")

	reminderListCmd.Flags().BoolVar(&reminderListJSON, "json", false, "Output as JSON")
	listflags.AddAllFlag(reminderListCmd, &reminderListAll)

	reminderToggleCmd.Flags().BoolVar(&reminderToggleOn, "on", false, "Activate the reminder")
	reminderToggleCmd.Flags().BoolVar(&reminderToggleOff, "off", false, "Deactivate the reminder")
	reminderToggleCmd.MarkFlagsMutuallyExclusive("on", "off")

	reminderDueCmd.Flags().BoolVar(&reminderDueJSON, "json", false, "Output as JSON")
}

func runReminderCreate(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	created, err := eng.CreateReminder(reminder.CreateOptions{
		Title:      args[0],
		TimeOfDay:  reminderCreateAt,
		RepeatDays: reminderCreateDays.Values(),
	})
	if err != nil {
		return err
	}
	if reminderCreateJSON {
		return printJSON(created)
	}
	fmt.Printf("Created reminder %s: %s at %s (%s)\n", created.ID, created.Title, created.TimeOfDay, formatRepeat(*created))
	return nil
}

func runReminderList(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	all, err := eng.ListReminders()
	if err != nil {
		return err
	}
	reminders := all
	if !reminderListAll {
		reminders = activeReminders(all)
	}
	if reminderListJSON {
		return printJSONList(reminders)
	}
	if len(reminders) == 0 {
		fmt.Println(emptyListMessage(len(all), "reminders", "sq reminder create"))
		return nil
	}
	fmt.Print(formatReminderTable(reminders))
	return nil
}

func runReminderToggle(cmd *cobra.Command, args []string) error {
	var active *bool
	switch {
	case reminderToggleOn:
		active = &reminderToggleOn
	case reminderToggleOff:
		off := false
		active = &off
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	r, err := eng.ToggleReminder(args[0], active)
	if err != nil {
		return err
	}
	state := "off"
	if r.Active {
		state = "on"
	}
	fmt.Printf("Reminder %s: %s is %s\n", r.ID, r.Title, state)
	return nil
}

func runReminderDelete(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	for _, id := range args {
		r, err := eng.DeleteReminder(id)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted reminder %s: %s\n", r.ID, r.Title)
	}
	return nil
}

func runReminderDue(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	fired, err := eng.CheckDueReminders(eng.Now())
	if err != nil {
		return err
	}
	if reminderDueJSON {
		return printJSONList(fired)
	}
	if len(fired) == 0 {
		fmt.Println("No reminders due.")
		return nil
	}
	for _, r := range fired {
		fmt.Printf("Reminder %s: %s\n", r.TimeOfDay, r.Title)
	}
	return nil
}

func formatReminderTable(reminders []reminder.Reminder) string {
	allIDs := make([]string, 0, len(reminders))
	for _, r := range reminders {
		allIDs = append(allIDs, r.ID)
	}
	prefixLengths := ids.UniquePrefixLengths(allIDs)

	builder := ui.NewTableBuilder([]string{"ID", "TIME", "REPEAT", "ACTIVE", "LAST FIRED", "TITLE"}, len(reminders))
	for _, r := range reminders {
		active := ui.Badge("yes", ui.ColorGreen)
		if !r.Active {
			active = ui.Badge("no", ui.ColorGray)
		}
		builder.AddRow([]string{
			ui.HighlightID(r.ID, ui.PrefixLength(prefixLengths, r.ID)),
			r.TimeOfDay,
			formatRepeat(r),
			active,
			valueOrDash(r.LastFiredKey),
			ui.TruncateTableCell(r.Title),
		})
	}
	return builder.String()
}

func formatRepeat(r reminder.Reminder) string {
	if r.OneTime() {
		return "once"
	}
	if len(r.RepeatDays) == len(reminder.ValidDays()) {
		return "daily"
	}
	names := make([]string, 0, len(r.RepeatDays))
	for _, day := range r.RepeatDays {
		names = append(names, string(day))
	}
	return strings.Join(names, ",")
}

func activeReminders(reminders []reminder.Reminder) []reminder.Reminder {
	var out []reminder.Reminder
	for _, r := range reminders {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
