// Package journal records one mood entry per calendar day together with
// the number of quests assigned and completed that day.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/store"
	internalstrings "github.com/amonks/sidequest/internal/strings"
	"github.com/amonks/sidequest/quest"
)

const dayKeyLayout = "2006-01-02"

var (
	// ErrLogNotFound is returned when no log exists for a date.
	ErrLogNotFound = fmt.Errorf("%w: daily log", errs.ErrNotFound)

	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = fmt.Errorf("%w: date must be YYYY-MM-DD", errs.ErrValidation)

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = fmt.Errorf("%w: range ends before it starts", errs.ErrValidation)
)

// DailyLog is the journal record for one day. Its ID is the date.
type DailyLog struct {
	ID        string    `json:"id"`
	Energy    string    `json:"energy"`
	Assigned  int       `json:"assigned"`
	Completed int       `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Date returns the day the log belongs to.
func (l DailyLog) Date() string {
	return l.ID
}

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(value string) (string, error) {
	if _, err := time.Parse(dayKeyLayout, value); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return value, nil
}

// CheckIn creates today's log or amends it. Energy is replaced; notes are
// replaced only when non-empty. The quest counts are refreshed.
// energy must already be normalized against the configured energy tags.
func CheckIn(tx *store.Tx, energy, notes string, now time.Time) (*DailyLog, error) {
	today := now.Format(dayKeyLayout)

	log, err := Get(tx, today)
	if err != nil && !errors.Is(err, ErrLogNotFound) {
		return nil, err
	}
	if log == nil {
		log = &DailyLog{ID: today, CreatedAt: now}
	}

	log.Energy = energy
	if notes = internalstrings.NormalizeNewlines(notes); notes != "" {
		log.Notes = notes
	}
	log.UpdatedAt = now

	if err := count(tx, log, now); err != nil {
		return nil, err
	}
	if err := tx.Put(store.NamespaceLogs, log.ID, log); err != nil {
		return nil, err
	}
	return log, nil
}

// Recount refreshes today's quest counts if today's log exists.
func Recount(tx *store.Tx, now time.Time) error {
	today := now.Format(dayKeyLayout)
	var log DailyLog
	ok, err := tx.Get(store.NamespaceLogs, today, &log)
	if err != nil || !ok {
		return err
	}
	if err := count(tx, &log, now); err != nil {
		return err
	}
	return tx.Put(store.NamespaceLogs, log.ID, log)
}

// count sets Assigned to the number of quests that exist at now and
// Completed to those whose period containing now is completed.
func count(tx *store.Tx, log *DailyLog, now time.Time) error {
	quests, err := quest.All(tx)
	if err != nil {
		return err
	}
	log.Assigned, log.Completed = 0, 0
	for _, q := range quests {
		if q.CreatedAt.After(now) {
			continue
		}
		log.Assigned++
		if entry, ok := q.Entry(q.Period.Key(now)); ok && entry.Outcome == quest.OutcomeCompleted {
			log.Completed++
		}
	}
	return nil
}

// Get loads the log for date.
func Get(tx *store.Tx, date string) (*DailyLog, error) {
	var log DailyLog
	ok, err := tx.Get(store.NamespaceLogs, date, &log)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLogNotFound, date)
	}
	return &log, nil
}

// Delete removes the log for date.
func Delete(tx *store.Tx, date string) error {
	removed, err := tx.Delete(store.NamespaceLogs, date)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrLogNotFound, date)
	}
	return nil
}

// List returns the logs dated within [from, to] in date order. Empty bounds
// are open.
func List(tx *store.Tx, from, to string) ([]DailyLog, error) {
	if from != "" && to != "" && to < from {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidRange, from, to)
	}
	logs, err := store.List[DailyLog](tx, store.NamespaceLogs)
	if err != nil {
		return nil, err
	}
	var out []DailyLog
	for _, log := range logs {
		if from != "" && log.ID < from {
			continue
		}
		if to != "" && log.ID > to {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}
