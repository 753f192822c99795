package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/amonks/sidequest/engine"
	"github.com/amonks/sidequest/insight"
	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/ui"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize completions, streaks and energy over a range of days",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var (
	insightsFrom string
	insightsTo   string
	insightsDays int
	insightsJSON bool
)

// heatmapLevels shade a day by its share of the busiest day.
var heatmapLevels = []string{".", "░", "▒", "▓", "█"}

func init() {
	rootCmd.AddCommand(insightsCmd)

	insightsCmd.Flags().StringVar(&insightsFrom, "from", "", "First date (YYYY-MM-DD)")
	insightsCmd.Flags().StringVar(&insightsTo, "to", "", "Last date (YYYY-MM-DD, default today)")
	insightsCmd.Flags().IntVar(&insightsDays, "days", engine.DefaultInsightDays, "Days to cover when --from is not set")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Output as JSON")
}

func runInsights(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	r, err := insightsRange(eng.Now(), eng.Location())
	if err != nil {
		return err
	}
	result, err := eng.GetInsights(r)
	if err != nil {
		return err
	}
	if insightsJSON {
		return printJSON(result)
	}
	fmt.Print(formatInsights(result, ui.TerminalWidth(80)))
	return nil
}

func insightsRange(now time.Time, loc *time.Location) (insight.Range, error) {
	if insightsDays < 1 {
		return insight.Range{}, fmt.Errorf("%w: --days must be positive", errs.ErrValidation)
	}
	r := insight.LastDays(now, insightsDays)
	if insightsTo != "" {
		to, err := parseDateFlag("to", insightsTo, loc)
		if err != nil {
			return insight.Range{}, err
		}
		r = insight.LastDays(to, insightsDays)
	}
	if insightsFrom != "" {
		from, err := parseDateFlag("from", insightsFrom, loc)
		if err != nil {
			return insight.Range{}, err
		}
		r.From = from
	}
	return r, nil
}

func parseDateFlag(name, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must be YYYY-MM-DD, got %q", errs.ErrValidation, name, value)
	}
	return t, nil
}

func formatInsights(in insight.Insights, width int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s .. %s\n\n", ui.Header("Insights"), in.From, in.To)
	fmt.Fprintf(&b, "Completion rate: %s (%d done, %d missed, %d skipped)\n",
		formatPercent(in.Overall), in.Overall.Completed, in.Overall.Missed, in.Overall.Skipped)
	fmt.Fprintf(&b, "Best streak ever: %d\n", in.BestStreak)

	b.WriteString("\n" + ui.Header("Activity") + "\n")
	b.WriteString(wordwrap.String(formatHeatmap(in.Heatmap), width))
	b.WriteString("\n")

	if len(in.Weekly) > 0 {
		b.WriteString("\n")
		builder := ui.NewTableBuilder([]string{"WEEK", "RATE", "DONE", "MISSED", "SKIPPED"}, len(in.Weekly))
		for _, week := range in.Weekly {
			builder.AddRow(rateRow(week.Week, week.Rate))
		}
		b.WriteString(builder.String())
	}

	for _, group := range []struct {
		title string
		rates []insight.CategoryRate
	}{
		{"ENERGY", in.Categories.ByEnergy},
		{"TIME SLOT", in.Categories.ByTimeSlot},
	} {
		if len(group.rates) == 0 {
			continue
		}
		b.WriteString("\n")
		builder := ui.NewTableBuilder([]string{group.title, "RATE", "DONE", "MISSED", "SKIPPED"}, len(group.rates))
		for _, rate := range group.rates {
			builder.AddRow(rateRow(rate.Name, rate.Rate))
		}
		b.WriteString(builder.String())
	}

	if len(in.Mood) > 0 {
		b.WriteString("\n" + ui.Header("Energy check-ins") + "\n")
		for _, mood := range in.Mood {
			fmt.Fprintf(&b, "  %-10s %d\n", mood.Energy, mood.Days)
		}
	}

	if len(in.StreakLeaders) > 0 {
		b.WriteString("\n" + ui.Header("Streak leaders") + "\n")
		for _, leader := range in.StreakLeaders {
			fmt.Fprintf(&b, "  %3d  %s\n", leader.Streak, leader.Title)
		}
	}

	if len(in.NeedsReview) > 0 {
		b.WriteString("\n" + ui.Header("Needs review") + "\n")
		for _, q := range in.NeedsReview {
			fmt.Fprintf(&b, "  %s (missed %d in a row)\n", q.Title, q.DeferCount)
		}
	}
	return b.String()
}

func formatHeatmap(h insight.Heatmap) string {
	cells := make([]string, 0, len(h.Days))
	for _, day := range h.Days {
		level := 0
		if h.Max > 0 && day.Count > 0 {
			level = 1 + (day.Count*(len(heatmapLevels)-2))/h.Max
		}
		cells = append(cells, heatmapLevels[level])
	}
	return strings.Join(cells, " ")
}

func rateRow(name string, rate insight.Rate) []string {
	return []string{
		name,
		formatPercent(rate),
		fmt.Sprintf("%d", rate.Completed),
		fmt.Sprintf("%d", rate.Missed),
		fmt.Sprintf("%d", rate.Skipped),
	}
}

func formatPercent(rate insight.Rate) string {
	if rate.Completed+rate.Missed == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", rate.Rate*100)
}
