package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/engine"
	"github.com/amonks/sidequest/internal/editor"
	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/validation"
	"github.com/amonks/sidequest/quest"
)

var errInvalidStateFilter = fmt.Errorf("%w: invalid state", errs.ErrValidation)

var questCmd = &cobra.Command{
	Use:     "quest",
	Aliases: []string{"q"},
	Short:   "Manage recurring quests",
}

// quest create
var questCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new quest",
	Long: `Create a new quest.

Binary quests are completed in one step. Passing --target makes the quest
progressive: it completes once its progress reaches the target.

Without a title, or with --edit, the quest is written in $EDITOR.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuestCreate,
}

var (
	questCreatePeriod string
	questCreateSlot   string
	questCreateEnergy string
	questCreateKind   string
	questCreateTarget int
	questCreateNotes  string
	questCreateJSON   bool
	questCreateEdit   bool
)

// quest list
var questListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quests for the current periods",
	Args:  cobra.NoArgs,
	RunE:  runQuestList,
}

var (
	questListPeriod string
	questListSlot   string
	questListEnergy string
	questListState  string
	questListReview bool
	questListJSON   bool
)

// quest show
var questShowCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about quests",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuestShow,
}

var questShowJSON bool

// quest complete
var questCompleteCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "Complete quests for the current period",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuestComplete,
}

// quest advance
var questAdvanceCmd = &cobra.Command{
	Use:   "advance <id> [amount]",
	Short: "Add progress to a progressive quest",
	Long: `Add progress to a progressive quest. The amount defaults to 1.

A negative amount lowers progress, e.g. sq quest advance <id> -1.
Dropping below the target reopens a completed period.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQuestAdvance,
}

// quest skip
var questSkipCmd = &cobra.Command{
	Use:   "skip <id>...",
	Short: "Skip quests for the current period without breaking their streaks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuestSkip,
}

// quest undo
var questUndoCmd = &cobra.Command{
	Use:   "undo <id>...",
	Short: "Undo the last complete or skip in the current period",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuestUndo,
}

// quest update
var questUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a quest",
	Long: `Update a quest.

Without any field flags, or with --edit, the quest is edited in $EDITOR.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestUpdate,
}

var (
	questUpdateTitle  string
	questUpdateSlot   string
	questUpdateEnergy string
	questUpdateNotes  string
	questUpdateTarget int
	questUpdateEdit   bool
)

// quest delete
var questDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete quests",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuestDelete,
}

func init() {
	rootCmd.AddCommand(questCmd)
	questCmd.AddCommand(questCreateCmd, questListCmd, questShowCmd, questCompleteCmd, questAdvanceCmd,
		questSkipCmd, questUndoCmd, questUpdateCmd, questDeleteCmd)

	// Negative amounts follow the id and must not parse as shorthand flags.
	questAdvanceCmd.Flags().SetInterspersed(false)

	questCreateCmd.Flags().StringVarP(&questCreatePeriod, "period", "p", string(quest.PeriodDaily), "Period (daily, weekly, monthly)")
	questCreateCmd.Flags().StringVarP(&questCreateSlot, "slot", "s", "", "Time slot")
	questCreateCmd.Flags().StringVarP(&questCreateEnergy, "energy", "e", "", "Energy tag")
	questCreateCmd.Flags().StringVar(&questCreateKind, "kind", "", "Kind (binary, progressive); inferred from --target")
	questCreateCmd.Flags().IntVarP(&questCreateTarget, "target", "t", 0, "Target for progressive quests")
	questCreateCmd.Flags().StringVar(&questCreateNotes, "notes", "", "Markdown notes (use '-' to read from stdin)")
	questCreateCmd.Flags().BoolVar(&questCreateJSON, "json", false, "Output as JSON")
	questCreateCmd.Flags().BoolVar(&questCreateEdit, "edit", false, "Open $EDITOR")

	questListCmd.Flags().StringVarP(&questListPeriod, "period", "p", "", "Filter by period")
	questListCmd.Flags().StringVarP(&questListSlot, "slot", "s", "", "Filter by time slot")
	questListCmd.Flags().StringVarP(&questListEnergy, "energy", "e", "", "Filter by energy tag")
	questListCmd.Flags().StringVar(&questListState, "state", "", "Filter by state (pending, completed, skipped)")
	questListCmd.Flags().BoolVar(&questListReview, "review", false, "Only quests flagged for review")
	questListCmd.Flags().BoolVar(&questListJSON, "json", false, "Output as JSON")

	questShowCmd.Flags().BoolVar(&questShowJSON, "json", false, "Output as JSON")

	questUpdateCmd.Flags().StringVar(&questUpdateTitle, "title", "", "New title")
	questUpdateCmd.Flags().StringVarP(&questUpdateSlot, "slot", "s", "", "New time slot (empty to clear)")
	questUpdateCmd.Flags().StringVarP(&questUpdateEnergy, "energy", "e", "", "New energy tag (empty to clear)")
	questUpdateCmd.Flags().StringVar(&questUpdateNotes, "notes", "", "New notes (use '-' to read from stdin)")
	questUpdateCmd.Flags().IntVarP(&questUpdateTarget, "target", "t", 0, "New target for a progressive quest")
	questUpdateCmd.Flags().BoolVar(&questUpdateEdit, "edit", false, "Open $EDITOR")
}

func runQuestCreate(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	notes, err := resolveTextFromStdin(questCreateNotes, cmd.InOrStdin())
	if err != nil {
		return err
	}

	kind := quest.Kind(questCreateKind)
	if kind == "" && questCreateTarget > 0 {
		kind = quest.KindProgressive
	}

	opts := quest.CreateOptions{
		Period:    quest.Period(questCreatePeriod),
		TimeSlot:  questCreateSlot,
		EnergyTag: questCreateEnergy,
		Kind:      kind,
		Target:    questCreateTarget,
		Notes:     notes,
	}
	if len(args) > 0 {
		opts.Title = args[0]
	}

	if questCreateEdit || (len(args) == 0 && editor.IsInteractive()) {
		opts, err = editQuestCreate(eng, opts)
		if err != nil {
			return err
		}
	} else if len(args) == 0 {
		return fmt.Errorf("%w: title is required (or use --edit)", errs.ErrValidation)
	}

	created, err := eng.CreateQuest(opts)
	if err != nil {
		return err
	}

	if questCreateJSON {
		return printJSON(created)
	}
	fmt.Printf("Created quest %s: %s\n", created.ID, created.Title)
	return nil
}

func runQuestList(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	filter := quest.Filter{
		Period:      quest.Period(questListPeriod),
		TimeSlot:    questListSlot,
		EnergyTag:   questListEnergy,
		State:       quest.State(questListState),
		NeedsReview: questListReview,
	}
	if filter.Period != "" {
		if err := quest.ValidatePeriod(filter.Period); err != nil {
			return err
		}
	}
	if filter.State != "" && !filter.State.IsValid() {
		return validation.FormatInvalidValueError(errInvalidStateFilter, filter.State, quest.ValidStates())
	}

	// Prefixes are computed over every quest so that a highlighted prefix
	// always resolves.
	all, err := eng.ListQuests(quest.Filter{})
	if err != nil {
		return err
	}
	quests := filter.Apply(all)

	if questListJSON {
		return printJSON(dereferenceQuests(quests))
	}
	if len(quests) == 0 {
		fmt.Println(emptyListMessage(len(all), "quests", "sq quest create"))
		return nil
	}
	fmt.Print(formatQuestTable(quests, quest.PrefixLengths(all), eng.Now()))
	return nil
}

func runQuestShow(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}

	quests := make([]*quest.Quest, 0, len(args))
	for _, id := range args {
		q, err := eng.GetQuest(id)
		if err != nil {
			return err
		}
		quests = append(quests, q)
	}

	if questShowJSON {
		if len(quests) == 1 {
			return printJSON(quests[0])
		}
		return printJSON(dereferenceQuests(quests))
	}

	for i, q := range quests {
		if i > 0 {
			fmt.Println()
			fmt.Println("---")
			fmt.Println()
		}
		printQuestDetail(q, eng.Now())
	}
	return nil
}

func runQuestComplete(cmd *cobra.Command, args []string) error {
	return mutateQuests(args, "Completed", (*engine.Engine).CompleteQuest)
}

func runQuestSkip(cmd *cobra.Command, args []string) error {
	return mutateQuests(args, "Skipped", (*engine.Engine).SkipQuest)
}

func runQuestUndo(cmd *cobra.Command, args []string) error {
	return mutateQuests(args, "Undid", (*engine.Engine).UndoQuest)
}

func runQuestDelete(cmd *cobra.Command, args []string) error {
	return mutateQuests(args, "Deleted", (*engine.Engine).DeleteQuest)
}

func mutateQuests(args []string, verb string, fn func(*engine.Engine, string) (*quest.Quest, error)) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	for _, id := range args {
		q, err := fn(eng, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s quest %s: %s%s\n", verb, q.ID, q.Title, questStatusSuffix(q))
	}
	return nil
}

func runQuestAdvance(cmd *cobra.Command, args []string) error {
	amount := 1
	if len(args) == 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: amount must be an integer: %q", errs.ErrValidation, args[1])
		}
		amount = parsed
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	q, err := eng.AdvanceQuest(args[0], amount)
	if err != nil {
		return err
	}
	fmt.Printf("Advanced quest %s: %s%s\n", q.ID, q.Title, questStatusSuffix(q))
	return nil
}

func runQuestUpdate(cmd *cobra.Command, args []string) error {
	var opts quest.UpdateOptions
	flags := cmd.Flags()
	if flags.Changed("title") {
		opts.Title = &questUpdateTitle
	}
	if flags.Changed("slot") {
		opts.TimeSlot = &questUpdateSlot
	}
	if flags.Changed("energy") {
		opts.EnergyTag = &questUpdateEnergy
	}
	if flags.Changed("notes") {
		notes, err := resolveTextFromStdin(questUpdateNotes, cmd.InOrStdin())
		if err != nil {
			return err
		}
		opts.Notes = &notes
	}
	if flags.Changed("target") {
		opts.Target = &questUpdateTarget
	}
	interactive := questUpdateEdit || (opts == (quest.UpdateOptions{}) && editor.IsInteractive())
	if opts == (quest.UpdateOptions{}) && !interactive {
		return fmt.Errorf("%w: nothing to update (use --title, --slot, --energy, --notes, --target or --edit)", errs.ErrValidation)
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	if interactive {
		opts, err = editQuestUpdate(eng, args[0])
		if err != nil {
			return err
		}
	}
	q, err := eng.UpdateQuest(args[0], opts)
	if err != nil {
		return err
	}
	fmt.Printf("Updated quest %s: %s%s\n", q.ID, q.Title, questStatusSuffix(q))
	return nil
}

func dereferenceQuests(quests []*quest.Quest) []quest.Quest {
	out := make([]quest.Quest, 0, len(quests))
	for _, q := range quests {
		out = append(out, *q)
	}
	return out
}

func editQuestCreate(eng *engine.Engine, opts quest.CreateOptions) (quest.CreateOptions, error) {
	prefs, err := eng.Settings()
	if err != nil {
		return opts, err
	}
	data := editor.DefaultCreateData(prefs.TimeSlots, prefs.EnergyTags)
	data.Title = opts.Title
	if opts.Period != "" {
		data.Period = string(opts.Period)
	}
	data.Slot = opts.TimeSlot
	data.Energy = opts.EnergyTag
	data.Target = opts.Target
	data.Notes = opts.Notes

	parsed, err := editor.EditQuest(data)
	if err != nil {
		return opts, err
	}
	return parsed.ToCreateOptions(), nil
}

func editQuestUpdate(eng *engine.Engine, id string) (quest.UpdateOptions, error) {
	q, err := eng.GetQuest(id)
	if err != nil {
		return quest.UpdateOptions{}, err
	}
	prefs, err := eng.Settings()
	if err != nil {
		return quest.UpdateOptions{}, err
	}
	parsed, err := editor.EditQuest(editor.DataFromQuest(q, prefs.TimeSlots, prefs.EnergyTags))
	if err != nil {
		return quest.UpdateOptions{}, err
	}
	return parsed.ToUpdateOptions(), nil
}
