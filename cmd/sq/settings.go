package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/engine"
	"github.com/amonks/sidequest/internal/errs"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change time slots and energy tags",
}

// settings show
var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsShowJSON bool

// settings set
var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the time slot or energy tag lists",
	Long: `Replace the time slot or energy tag lists.

Quests keep their current values even when they are no longer listed.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var (
	settingsSetSlots  []string
	settingsSetEnergy []string
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	settingsShowCmd.Flags().BoolVar(&settingsShowJSON, "json", false, "Output as JSON")

	settingsSetCmd.Flags().StringSliceVar(&settingsSetSlots, "slots", nil, "Time slots in display order (comma-separated)")
	settingsSetCmd.Flags().StringSliceVar(&settingsSetEnergy, "energy", nil, "Energy tags (comma-separated)")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	prefs, err := eng.Settings()
	if err != nil {
		return err
	}
	if settingsShowJSON {
		return printJSON(prefs)
	}
	fmt.Printf("Time slots:   %s\n", strings.Join(prefs.TimeSlots, ", "))
	fmt.Printf("Energy tags:  %s\n", strings.Join(prefs.EnergyTags, ", "))
	fmt.Printf("Best streak:  %d\n", prefs.BestStreak)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	var update engine.SettingsUpdate
	if cmd.Flags().Changed("slots") {
		update.TimeSlots = append([]string{}, settingsSetSlots...)
	}
	if cmd.Flags().Changed("energy") {
		update.EnergyTags = append([]string{}, settingsSetEnergy...)
	}
	if update.TimeSlots == nil && update.EnergyTags == nil {
		return fmt.Errorf("%w: nothing to update (use --slots or --energy)", errs.ErrValidation)
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	prefs, err := eng.UpdateSettings(update)
	if err != nil {
		return err
	}
	fmt.Printf("Time slots:   %s\n", strings.Join(prefs.TimeSlots, ", "))
	fmt.Printf("Energy tags:  %s\n", strings.Join(prefs.EnergyTags, ", "))
	return nil
}
