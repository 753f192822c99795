// Package insight derives read-only summaries from quest history and the
// journal: day-bucketed completion counts for a heatmap, weekly completion
// rates, per-category performance, mood counts and streak leaders.
package insight

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/journal"
	"github.com/amonks/sidequest/quest"
	"github.com/amonks/sidequest/settings"
)

// MaxLeaders is the number of quests reported as streak leaders.
const MaxLeaders = 5

// NoCategory names the bucket for quests without a time slot or energy tag.
const NoCategory = "(none)"

const dayKeyLayout = "2006-01-02"

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = fmt.Errorf("%w: range ends before it starts", errs.ErrValidation)

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

// LastDays returns the n-day range ending on the day containing now.
func LastDays(now time.Time, n int) Range {
	to := startOfDay(now)
	return Range{From: to.AddDate(0, 0, -(n - 1)), To: to}
}

// Validate checks that the range is not inverted.
func (r Range) Validate() error {
	if startOfDay(r.To).Before(startOfDay(r.From)) {
		return fmt.Errorf("%w: %s..%s", ErrInvalidRange, r.From.Format(dayKeyLayout), r.To.Format(dayKeyLayout))
	}
	return nil
}

func (r Range) contains(t time.Time) bool {
	day := startOfDay(t.In(r.From.Location()))
	return !day.Before(startOfDay(r.From)) && !day.After(startOfDay(r.To))
}

// DayBucket is the number of completions recorded on one day.
type DayBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Heatmap holds one bucket for every day in the range.
type Heatmap struct {
	Days []DayBucket `json:"days"`
	Max  int         `json:"max"`
}

// Rate counts period outcomes. Skips do not count against the rate.
type Rate struct {
	Completed int     `json:"completed"`
	Missed    int     `json:"missed"`
	Skipped   int     `json:"skipped"`
	Rate      float64 `json:"rate"`
}

func (r *Rate) add(outcome quest.Outcome) {
	switch outcome {
	case quest.OutcomeCompleted:
		r.Completed++
	case quest.OutcomeMissed:
		r.Missed++
	case quest.OutcomeSkipped:
		r.Skipped++
	}
	if total := r.Completed + r.Missed; total > 0 {
		r.Rate = float64(r.Completed) / float64(total)
	}
}

// WeekRate is the completion rate of one ISO week.
type WeekRate struct {
	Week string `json:"week"`
	Rate
}

// CategoryRate is the completion rate of one time slot or energy tag.
type CategoryRate struct {
	Name string `json:"name"`
	Rate
}

// Categories groups completion rates by energy tag and by time slot.
type Categories struct {
	ByEnergy   []CategoryRate `json:"by_energy"`
	ByTimeSlot []CategoryRate `json:"by_time_slot"`
}

// MoodCount is the number of logged days with one energy level.
type MoodCount struct {
	Energy string `json:"energy"`
	Days   int    `json:"days"`
}

// QuestSummary identifies a quest in a leaderboard or review list.
type QuestSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longest_streak"`
	DeferCount    int    `json:"defer_count"`
}

// Insights is the full summary for a range.
type Insights struct {
	From          string         `json:"from"`
	To            string         `json:"to"`
	Heatmap       Heatmap        `json:"heatmap"`
	Weekly        []WeekRate     `json:"weekly"`
	Overall       Rate           `json:"overall"`
	Categories    Categories     `json:"categories"`
	Mood          []MoodCount    `json:"mood"`
	StreakLeaders []QuestSummary `json:"streak_leaders"`
	NeedsReview   []QuestSummary `json:"needs_review"`
	BestStreak    int            `json:"best_streak"`
}

// Compute builds insights for r. Completions are bucketed into the heatmap
// by the local day they were recorded; rates attribute each outcome to the
// first day of its period. Both use r.From's location.
func Compute(quests []*quest.Quest, logs []journal.DailyLog, prefs settings.Settings, r Range) (Insights, error) {
	if err := r.Validate(); err != nil {
		return Insights{}, err
	}
	loc := r.From.Location()

	out := Insights{
		From:       r.From.Format(dayKeyLayout),
		To:         r.To.Format(dayKeyLayout),
		Heatmap:    newHeatmap(r),
		Weekly:     newWeeks(r),
		BestStreak: prefs.BestStreak,
	}

	dayIndex := make(map[string]int, len(out.Heatmap.Days))
	for i, bucket := range out.Heatmap.Days {
		dayIndex[bucket.Date] = i
	}
	weekIndex := make(map[string]int, len(out.Weekly))
	for i, week := range out.Weekly {
		weekIndex[week.Week] = i
	}
	byEnergy := newGroups(prefs.EnergyTags)
	bySlot := newGroups(prefs.TimeSlots)

	for _, q := range quests {
		for _, entry := range q.History {
			if entry.Outcome == quest.OutcomeCompleted && r.contains(entry.At) {
				i := dayIndex[entry.At.In(loc).Format(dayKeyLayout)]
				out.Heatmap.Days[i].Count++
			}

			start, err := q.Period.Start(entry.PeriodKey, loc)
			if err != nil || !r.contains(start) {
				continue
			}
			if i, ok := weekIndex[quest.PeriodWeekly.Key(start)]; ok {
				out.Weekly[i].add(entry.Outcome)
			}
			out.Overall.add(entry.Outcome)
			byEnergy.add(q.EnergyTag, entry.Outcome)
			bySlot.add(q.TimeSlot, entry.Outcome)
		}
		if q.NeedsReview() {
			out.NeedsReview = append(out.NeedsReview, summarize(q))
		}
	}

	for _, bucket := range out.Heatmap.Days {
		out.Heatmap.Max = max(out.Heatmap.Max, bucket.Count)
	}
	out.Categories = Categories{ByEnergy: byEnergy.categoryRates(), ByTimeSlot: bySlot.categoryRates()}
	out.Mood = moodCounts(logs, prefs.EnergyTags, r)
	out.StreakLeaders = leaders(quests)
	sort.SliceStable(out.NeedsReview, func(i, j int) bool {
		return out.NeedsReview[i].DeferCount > out.NeedsReview[j].DeferCount
	})
	return out, nil
}

func newHeatmap(r Range) Heatmap {
	var days []DayBucket
	for day := startOfDay(r.From); !day.After(startOfDay(r.To)); day = day.AddDate(0, 0, 1) {
		days = append(days, DayBucket{Date: day.Format(dayKeyLayout)})
	}
	return Heatmap{Days: days}
}

func newWeeks(r Range) []WeekRate {
	var weeks []WeekRate
	seen := make(map[string]bool)
	for day := startOfDay(r.From); !day.After(startOfDay(r.To)); day = day.AddDate(0, 0, 1) {
		key := quest.PeriodWeekly.Key(day)
		if !seen[key] {
			seen[key] = true
			weeks = append(weeks, WeekRate{Week: key})
		}
	}
	return weeks
}

// groups accumulates rates per category, keeping configured categories in
// their configured order.
type groups struct {
	order []string
	rates map[string]*Rate
}

func newGroups(configured []string) *groups {
	g := &groups{rates: make(map[string]*Rate)}
	for _, name := range configured {
		g.order = append(g.order, name)
		g.rates[name] = &Rate{}
	}
	return g
}

func (g *groups) add(name string, outcome quest.Outcome) {
	if name == "" {
		name = NoCategory
	}
	rate, ok := g.rates[name]
	if !ok {
		rate = &Rate{}
		g.rates[name] = rate
		g.order = append(g.order, name)
	}
	rate.add(outcome)
}

func (g *groups) categoryRates() []CategoryRate {
	out := make([]CategoryRate, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, CategoryRate{Name: name, Rate: *g.rates[name]})
	}
	return out
}

func moodCounts(logs []journal.DailyLog, energyTags []string, r Range) []MoodCount {
	counts := make(map[string]int)
	order := append([]string(nil), energyTags...)
	for _, log := range logs {
		day, err := time.ParseInLocation(dayKeyLayout, log.ID, r.From.Location())
		if err != nil || !r.contains(day) || log.Energy == "" {
			continue
		}
		if _, ok := counts[log.Energy]; !ok && !slices.Contains(order, log.Energy) {
			order = append(order, log.Energy)
		}
		counts[log.Energy]++
	}

	out := make([]MoodCount, 0, len(order))
	for _, energy := range order {
		out = append(out, MoodCount{Energy: energy, Days: counts[energy]})
	}
	return out
}

func leaders(quests []*quest.Quest) []QuestSummary {
	var out []QuestSummary
	for _, q := range quests {
		if q.Streak > 0 {
			out = append(out, summarize(q))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Streak != out[j].Streak {
			return out[i].Streak > out[j].Streak
		}
		if out[i].LongestStreak != out[j].LongestStreak {
			return out[i].LongestStreak > out[j].LongestStreak
		}
		return out[i].Title < out[j].Title
	})
	if len(out) > MaxLeaders {
		out = out[:MaxLeaders]
	}
	return out
}

func summarize(q *quest.Quest) QuestSummary {
	return QuestSummary{
		ID:            q.ID,
		Title:         q.Title,
		Streak:        q.Streak,
		LongestStreak: q.LongestStreak,
		DeferCount:    q.DeferCount,
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
