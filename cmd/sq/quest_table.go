package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/sidequest/internal/markdown"
	"github.com/amonks/sidequest/internal/ui"
	"github.com/amonks/sidequest/quest"
)

const detailTimeLayout = "2006-01-02 15:04"

// historyLimit is how many recent periods `quest show` prints.
const historyLimit = 10

func formatQuestTable(quests []*quest.Quest, prefixLengths map[string]int, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PERIOD", "SLOT", "ENERGY", "STATE", "STREAK", "TITLE"}, len(quests))
	for _, q := range quests {
		builder.AddRow([]string{
			ui.HighlightID(q.ID, ui.PrefixLength(prefixLengths, q.ID)),
			string(q.Period),
			valueOrDash(q.TimeSlot),
			valueOrDash(q.EnergyTag),
			questStateCell(q),
			formatStreak(q),
			ui.TruncateTableCell(q.Title),
		})
	}
	return builder.String()
}

func questStateCell(q *quest.Quest) string {
	label := questStateLabel(q)
	switch q.State {
	case quest.StateCompleted:
		label = ui.Badge(label, ui.ColorGreen)
	case quest.StateSkipped:
		label = ui.Badge(label, ui.ColorGray)
	}
	if q.NeedsReview() {
		label += " " + ui.Badge("review", ui.ColorRed)
	}
	return label
}

func questStateLabel(q *quest.Quest) string {
	if q.Kind == quest.KindProgressive && q.State == quest.StatePending {
		return fmt.Sprintf("%d/%d", q.Current, q.Target)
	}
	return string(q.State)
}

func formatStreak(q *quest.Quest) string {
	if q.LongestStreak > q.Streak {
		return fmt.Sprintf("%d (best %d)", q.Streak, q.LongestStreak)
	}
	return fmt.Sprintf("%d", q.Streak)
}

// questStatusSuffix summarizes a quest after a mutation.
func questStatusSuffix(q *quest.Quest) string {
	return fmt.Sprintf(" [%s, streak %d]", questStateLabel(q), q.Streak)
}

func printQuestDetail(q *quest.Quest, now time.Time) {
	fmt.Printf("ID:         %s\n", q.ID)
	fmt.Printf("Title:      %s\n", q.Title)
	fmt.Printf("Period:     %s (%s)\n", q.Period, q.Period.Key(now))
	fmt.Printf("Kind:       %s\n", q.Kind)
	if q.Kind == quest.KindProgressive {
		fmt.Printf("Progress:   %d/%d\n", q.Current, q.Target)
	}
	fmt.Printf("State:      %s\n", questStateCell(q))
	fmt.Printf("Time slot:  %s\n", valueOrDash(q.TimeSlot))
	fmt.Printf("Energy:     %s\n", valueOrDash(q.EnergyTag))
	fmt.Printf("Streak:     %d (longest %d)\n", q.Streak, q.LongestStreak)
	fmt.Printf("Missed:     %d in a row\n", q.DeferCount)
	if q.NeedsReview() {
		fmt.Println("Review:     this quest keeps being missed; consider changing or deleting it")
	}
	fmt.Printf("Created:    %s (%s)\n", q.CreatedAt.In(now.Location()).Format(detailTimeLayout), ui.FormatTimeAgo(q.CreatedAt, now))
	fmt.Printf("Updated:    %s (%s)\n", q.UpdatedAt.In(now.Location()).Format(detailTimeLayout), ui.FormatTimeAgo(q.UpdatedAt, now))

	if len(q.History) > 0 {
		fmt.Println()
		fmt.Println(ui.Header("History:"))
		start := max(len(q.History)-historyLimit, 0)
		for i := len(q.History) - 1; i >= start; i-- {
			entry := q.History[i]
			fmt.Printf("  %-10s  %s\n", entry.PeriodKey, entry.Outcome)
		}
	}

	if rendered := markdown.SafeRender(ui.TerminalWidth(80), 2, []byte(q.Notes)); rendered != nil {
		fmt.Println()
		fmt.Println(ui.Header("Notes:"))
		fmt.Println(string(rendered))
	}
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func emptyListMessage(total int, noun, createHint string) string {
	if total == 0 {
		return fmt.Sprintf("No %s yet. Create one with `%s`.", noun, createHint)
	}
	return fmt.Sprintf("No %s match the filters.", noun)
}
