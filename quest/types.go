// Package quest implements recurring goals and their streaks.
//
// A quest belongs to a period cadence (daily, weekly or monthly). Each
// period instance ends completed, skipped or missed. Periods are closed
// lazily: whenever a quest is read or mutated, Rollover records every
// period that passed without an outcome as missed, then recomputes the
// streak from history.
//
// The public API mirrors the CLI commands:
//   - New, Update for quest lifecycle
//   - Complete, Advance, Skip, Undo for period outcomes
//   - Get, All, Resolve, Filter for querying
package quest

import (
	"encoding/json"
	"time"
)

// Period is the cadence at which a quest repeats.
type Period string

const (
	// PeriodDaily repeats every calendar day.
	PeriodDaily Period = "daily"

	// PeriodWeekly repeats every ISO-8601 week, starting on Monday.
	PeriodWeekly Period = "weekly"

	// PeriodMonthly repeats every calendar month.
	PeriodMonthly Period = "monthly"
)

// ValidPeriods returns all valid period values.
func ValidPeriods() []Period {
	return []Period{PeriodDaily, PeriodWeekly, PeriodMonthly}
}

// IsValid returns true if the period is a known valid value.
func (p Period) IsValid() bool {
	for _, valid := range ValidPeriods() {
		if p == valid {
			return true
		}
	}
	return false
}

// Kind distinguishes done/not-done quests from quests with a numeric target.
type Kind string

const (
	// KindBinary quests are either done or not done.
	KindBinary Kind = "binary"

	// KindProgressive quests count up to a target.
	KindProgressive Kind = "progressive"
)

// ValidKinds returns all valid kind values.
func ValidKinds() []Kind {
	return []Kind{KindBinary, KindProgressive}
}

// IsValid returns true if the kind is a known valid value.
func (k Kind) IsValid() bool {
	for _, valid := range ValidKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// State is the status of the current period instance.
type State string

const (
	// StatePending means the current period has no outcome yet.
	StatePending State = "pending"

	// StateCompleted means the current period was completed.
	StateCompleted State = "completed"

	// StateSkipped means the current period was skipped.
	StateSkipped State = "skipped"
)

// ValidStates returns all valid state values.
func ValidStates() []State {
	return []State{StatePending, StateCompleted, StateSkipped}
}

// IsValid returns true if the state is a known valid value.
func (s State) IsValid() bool {
	for _, valid := range ValidStates() {
		if s == valid {
			return true
		}
	}
	return false
}

// Outcome is how a period ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeMissed    Outcome = "missed"
)

// ReviewThreshold is the number of consecutive missed periods after which
// a quest is flagged for migration review.
const ReviewThreshold = 3

// MaxTitleLength is the maximum allowed length for a quest title.
const MaxTitleLength = 200

// HistoryEntry records the outcome of one period.
type HistoryEntry struct {
	PeriodKey string    `json:"period_key"`
	Outcome   Outcome   `json:"outcome"`
	At        time.Time `json:"at"`
}

// UndoMarker remembers what the most recent complete or skip replaced, so
// that it can be reverted while its period is still open.
type UndoMarker struct {
	PeriodKey  string        `json:"period_key"`
	State      State         `json:"state"`
	Current    int           `json:"current"`
	DeferCount int           `json:"defer_count"`
	Entry      *HistoryEntry `json:"entry,omitempty"`
}

// Quest is a recurring goal.
type Quest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Period    Period `json:"period"`
	TimeSlot  string `json:"time_slot,omitempty"`
	EnergyTag string `json:"energy_tag,omitempty"`
	Kind      Kind   `json:"kind"`
	State     State  `json:"state"`

	// Current and Target are only used by progressive quests.
	Current int `json:"current,omitempty"`
	Target  int `json:"target,omitempty"`

	Streak                 int    `json:"streak"`
	LongestStreak          int    `json:"longest_streak"`
	LastCompletedPeriodKey string `json:"last_completed_period_key,omitempty"`
	LastEvaluatedPeriodKey string `json:"last_evaluated_period_key"`

	// DeferCount is the number of consecutive periods that closed as missed.
	DeferCount int `json:"defer_count"`

	History []HistoryEntry `json:"history"`
	Notes   string         `json:"notes,omitempty"`

	// LastOutcome is what Undo reverts; nil when there is nothing to undo.
	LastOutcome *UndoMarker `json:"undo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NeedsReview reports whether the quest has been deferred often enough
// to be reconsidered.
func (q Quest) NeedsReview() bool {
	return q.DeferCount >= ReviewThreshold
}

// MarshalJSON adds the derived needs_review field.
func (q Quest) MarshalJSON() ([]byte, error) {
	type alias Quest
	return json.Marshal(struct {
		alias
		NeedsReview bool `json:"needs_review"`
	}{
		alias:       alias(q),
		NeedsReview: q.NeedsReview(),
	})
}

// Entry returns the history entry for periodKey, if any.
func (q Quest) Entry(periodKey string) (HistoryEntry, bool) {
	for _, entry := range q.History {
		if entry.PeriodKey == periodKey {
			return entry, true
		}
	}
	return HistoryEntry{}, false
}
