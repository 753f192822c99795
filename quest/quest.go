package quest

import (
	"fmt"
	"sort"
	"time"

	"github.com/amonks/sidequest/internal/ids"
	internalstrings "github.com/amonks/sidequest/internal/strings"
)

// CreateOptions configures a new quest.
type CreateOptions struct {
	Title string

	// Period defaults to PeriodDaily.
	Period Period

	TimeSlot  string
	EnergyTag string

	// Kind defaults to KindBinary.
	Kind Kind

	// Target is required for progressive quests and forbidden for binary ones.
	Target int

	Notes string
}

// New validates opts and returns a fresh pending quest whose first period
// is the one containing now.
func New(opts CreateOptions, now time.Time) (*Quest, error) {
	title := internalstrings.NormalizeWhitespace(opts.Title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	if opts.Period == "" {
		opts.Period = PeriodDaily
	}
	if err := ValidatePeriod(opts.Period); err != nil {
		return nil, err
	}

	if opts.Kind == "" {
		opts.Kind = KindBinary
	}
	if err := ValidateKind(opts.Kind); err != nil {
		return nil, err
	}
	if err := ValidateTarget(opts.Kind, opts.Target); err != nil {
		return nil, err
	}

	return &Quest{
		ID:                     ids.New(),
		Title:                  title,
		Period:                 opts.Period,
		TimeSlot:               opts.TimeSlot,
		EnergyTag:              opts.EnergyTag,
		Kind:                   opts.Kind,
		State:                  StatePending,
		Target:                 opts.Target,
		LastEvaluatedPeriodKey: opts.Period.Key(now),
		History:                []HistoryEntry{},
		Notes:                  internalstrings.NormalizeNewlines(opts.Notes),
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// UpdateOptions configures a quest update. Nil fields are left unchanged.
type UpdateOptions struct {
	Title     *string
	TimeSlot  *string
	EnergyTag *string
	Notes     *string
	Target    *int
}

// Update applies opts. Changing the target of a progressive quest may
// complete or reopen the current period.
func (q *Quest) Update(opts UpdateOptions, now time.Time) error {
	q.Rollover(now)

	if opts.Title != nil {
		title := internalstrings.NormalizeWhitespace(*opts.Title)
		if err := ValidateTitle(title); err != nil {
			return err
		}
		q.Title = title
	}
	if opts.Target != nil {
		if err := ValidateTarget(q.Kind, *opts.Target); err != nil {
			return err
		}
		q.Target = *opts.Target
	}
	if opts.TimeSlot != nil {
		q.TimeSlot = *opts.TimeSlot
	}
	if opts.EnergyTag != nil {
		q.EnergyTag = *opts.EnergyTag
	}
	if opts.Notes != nil {
		q.Notes = internalstrings.NormalizeNewlines(*opts.Notes)
	}

	if q.Kind == KindProgressive {
		q.settleProgress(q.Current, now)
	}
	q.UpdatedAt = now
	return nil
}

// Rollover closes every period between the last evaluated one and the
// period containing now. Periods that ended without an outcome are recorded
// as missed. It reports whether the quest changed.
//
// A clock that moved backwards leaves the quest untouched.
func (q *Quest) Rollover(now time.Time) bool {
	current := q.Period.Key(now)
	last := q.LastEvaluatedPeriodKey
	if last == current {
		return false
	}
	if last == "" {
		q.LastEvaluatedPeriodKey = current
		return true
	}
	if last > current {
		return false
	}

	for key := last; key < current; {
		if _, ok := q.Entry(key); !ok {
			q.History = append(q.History, HistoryEntry{
				PeriodKey: key,
				Outcome:   OutcomeMissed,
				At:        now,
			})
			q.DeferCount++
		}
		next, err := q.Period.Next(key)
		if err != nil {
			break
		}
		key = next
	}
	q.sortHistory()

	q.State = StatePending
	if q.Kind == KindProgressive {
		q.Current = 0
	}
	q.recomputeStreak()
	q.LastEvaluatedPeriodKey = current
	return true
}

// Complete marks the current period completed. Completing twice in one
// period has no further effect. Progressive quests can only be completed
// by advancing them to their target.
func (q *Quest) Complete(now time.Time) error {
	q.Rollover(now)

	if q.Kind == KindProgressive && q.Current < q.Target {
		return fmt.Errorf("%w: %d/%d", ErrProgressIncomplete, q.Current, q.Target)
	}
	if q.State == StateCompleted {
		return nil
	}
	q.markCompleted(now, q.Current)
	q.UpdatedAt = now
	return nil
}

// Advance adds delta to a progressive quest's progress, clamped to
// [0, Target]. Reaching the target completes the period; dropping below it
// again retracts the completion.
func (q *Quest) Advance(delta int, now time.Time) error {
	if q.Kind != KindProgressive {
		return ErrNotProgressive
	}
	q.Rollover(now)

	previous := q.Current
	switch {
	case delta > q.Target-q.Current:
		q.Current = q.Target
	case delta < -q.Current:
		q.Current = 0
	default:
		q.Current += delta
	}
	q.settleProgress(previous, now)
	q.UpdatedAt = now
	return nil
}

// Skip marks the current period skipped. A skip keeps the streak as it is.
func (q *Quest) Skip(now time.Time) error {
	q.Rollover(now)

	switch q.State {
	case StateCompleted:
		return ErrAlreadyCompleted
	case StateSkipped:
		return nil
	}

	key := q.LastEvaluatedPeriodKey
	q.rememberUndo(key, q.Current)
	q.setEntry(HistoryEntry{PeriodKey: key, Outcome: OutcomeSkipped, At: now})
	q.State = StateSkipped
	q.DeferCount = 0
	q.recomputeStreak()
	q.UpdatedAt = now
	return nil
}

// Undo reverts the most recent complete or skip, provided its period is
// still open.
func (q *Quest) Undo(now time.Time) error {
	q.Rollover(now)

	marker := q.LastOutcome
	if marker == nil {
		return ErrNothingToUndo
	}
	if marker.PeriodKey != q.LastEvaluatedPeriodKey {
		return fmt.Errorf("%w: %s", ErrPeriodClosed, marker.PeriodKey)
	}

	q.removeEntry(marker.PeriodKey)
	if marker.Entry != nil {
		q.setEntry(*marker.Entry)
	}
	q.State = marker.State
	q.Current = marker.Current
	q.DeferCount = marker.DeferCount
	q.LastOutcome = nil
	q.refreshLastCompleted()
	q.recomputeStreak()
	q.UpdatedAt = now
	return nil
}

// settleProgress brings State in line with Current and Target. Retracting
// a completion restores whatever the period held before it, keeping the
// lowered progress.
func (q *Quest) settleProgress(previous int, now time.Time) {
	if q.Current > q.Target {
		q.Current = q.Target
	}
	switch {
	case q.Current >= q.Target && q.State != StateCompleted:
		q.markCompleted(now, previous)
	case q.Current < q.Target && q.State == StateCompleted:
		key := q.LastEvaluatedPeriodKey
		q.removeEntry(key)
		q.State = StatePending
		if marker := q.LastOutcome; marker != nil && marker.PeriodKey == key {
			if marker.Entry != nil {
				q.setEntry(*marker.Entry)
			}
			q.State = marker.State
			q.DeferCount = marker.DeferCount
		}
		q.LastOutcome = nil
		q.refreshLastCompleted()
		q.recomputeStreak()
	}
}

func (q *Quest) markCompleted(now time.Time, previousCurrent int) {
	key := q.LastEvaluatedPeriodKey
	q.rememberUndo(key, previousCurrent)
	q.setEntry(HistoryEntry{PeriodKey: key, Outcome: OutcomeCompleted, At: now})
	q.State = StateCompleted
	q.DeferCount = 0
	q.LastCompletedPeriodKey = key
	q.recomputeStreak()
}

func (q *Quest) rememberUndo(key string, previousCurrent int) {
	marker := &UndoMarker{
		PeriodKey:  key,
		State:      q.State,
		Current:    previousCurrent,
		DeferCount: q.DeferCount,
	}
	if entry, ok := q.Entry(key); ok {
		marker.Entry = &entry
	}
	q.LastOutcome = marker
}

// setEntry records entry, replacing any entry for the same period.
func (q *Quest) setEntry(entry HistoryEntry) {
	for i := range q.History {
		if q.History[i].PeriodKey == entry.PeriodKey {
			q.History[i] = entry
			return
		}
	}
	q.History = append(q.History, entry)
	q.sortHistory()
}

func (q *Quest) removeEntry(periodKey string) {
	kept := q.History[:0]
	for _, entry := range q.History {
		if entry.PeriodKey != periodKey {
			kept = append(kept, entry)
		}
	}
	q.History = kept
}

func (q *Quest) sortHistory() {
	sort.SliceStable(q.History, func(i, j int) bool {
		return q.History[i].PeriodKey < q.History[j].PeriodKey
	})
}

func (q *Quest) refreshLastCompleted() {
	q.LastCompletedPeriodKey = ""
	for i := len(q.History) - 1; i >= 0; i-- {
		if q.History[i].Outcome == OutcomeCompleted {
			q.LastCompletedPeriodKey = q.History[i].PeriodKey
			return
		}
	}
}

// recomputeStreak counts completed periods walking back from the most
// recent entry. Skips continue the run without extending it; a miss or a
// gap between consecutive periods ends it.
func (q *Quest) recomputeStreak() {
	streak := 0
	expected := ""
	for i := len(q.History) - 1; i >= 0; i-- {
		entry := q.History[i]
		if expected != "" && entry.PeriodKey != expected {
			break
		}
		if entry.Outcome == OutcomeMissed {
			break
		}
		if entry.Outcome == OutcomeCompleted {
			streak++
		}
		prev, err := q.Period.Prev(entry.PeriodKey)
		if err != nil {
			break
		}
		expected = prev
	}

	q.Streak = streak
	if streak > q.LongestStreak {
		q.LongestStreak = streak
	}
}
