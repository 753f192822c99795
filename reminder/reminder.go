// Package reminder implements time-of-day reminders and the due-check
// that fires each of them at most once per calendar day.
package reminder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/ids"
	"github.com/amonks/sidequest/internal/store"
	internalstrings "github.com/amonks/sidequest/internal/strings"
	"github.com/amonks/sidequest/internal/validation"
)

const dayKeyLayout = "2006-01-02"

var (
	// ErrEmptyTitle is returned when a reminder title is empty.
	ErrEmptyTitle = fmt.Errorf("%w: title cannot be empty", errs.ErrValidation)

	// ErrInvalidTimeOfDay is returned when a time of day is not HH:MM.
	ErrInvalidTimeOfDay = fmt.Errorf("%w: time of day must be HH:MM", errs.ErrValidation)

	// ErrInvalidDay is returned when a repeat day is not a weekday name.
	ErrInvalidDay = fmt.Errorf("%w: invalid weekday", errs.ErrValidation)

	// ErrReminderNotFound is returned when a reminder with the given ID doesn't exist.
	ErrReminderNotFound = fmt.Errorf("%w: reminder", errs.ErrNotFound)

	// ErrAmbiguousReminderIDPrefix is returned when an ID prefix matches multiple reminders.
	ErrAmbiguousReminderIDPrefix = fmt.Errorf("%w: ambiguous reminder ID prefix", errs.ErrValidation)
)

// Day is a weekday a reminder repeats on.
type Day string

const (
	Monday    Day = "mon"
	Tuesday   Day = "tue"
	Wednesday Day = "wed"
	Thursday  Day = "thu"
	Friday    Day = "fri"
	Saturday  Day = "sat"
	Sunday    Day = "sun"
)

// ValidDays returns the weekdays in calendar order, starting on Monday.
func ValidDays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// DayOf returns the Day for a time.Weekday.
func DayOf(w time.Weekday) Day {
	return ValidDays()[(int(w)+6)%7]
}

// ParseDay accepts short or full English weekday names in any case.
func ParseDay(value string) (Day, error) {
	normalized := internalstrings.NormalizeLowerTrimSpace(value)
	if len(normalized) >= 3 {
		for i, day := range ValidDays() {
			full := strings.ToLower(time.Weekday((i + 1) % 7).String())
			if normalized == string(day) || normalized == full {
				return day, nil
			}
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidDay, Day(value), ValidDays())
}

// NormalizeDays parses, deduplicates and sorts weekdays.
func NormalizeDays(values []string) ([]Day, error) {
	seen := make(map[Day]bool)
	for _, value := range values {
		day, err := ParseDay(value)
		if err != nil {
			return nil, err
		}
		seen[day] = true
	}
	days := make([]Day, 0, len(seen))
	for _, day := range ValidDays() {
		if seen[day] {
			days = append(days, day)
		}
	}
	return days, nil
}

// ParseTimeOfDay validates an H:MM or HH:MM value and returns it as HH:MM.
func ParseTimeOfDay(value string) (string, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(minutes) != 2 || len(hours) == 0 || len(hours) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// Reminder is a notification scheduled for a time of day.
type Reminder struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TimeOfDay string `json:"time_of_day"`

	// RepeatDays is empty for one-time reminders.
	RepeatDays []Day `json:"repeat_days"`

	Active bool `json:"active"`

	// LastFiredKey is the day key of the last fire, empty if never fired.
	LastFiredKey string `json:"last_fired_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OneTime reports whether the reminder fires only once.
func (r Reminder) OneTime() bool {
	return len(r.RepeatDays) == 0
}

// RepeatsOn reports whether the reminder may fire on day.
func (r Reminder) RepeatsOn(day Day) bool {
	if r.OneTime() {
		return true
	}
	for _, candidate := range r.RepeatDays {
		if candidate == day {
			return true
		}
	}
	return false
}

// minuteOfDay returns minutes since midnight for the reminder's time.
func (r Reminder) minuteOfDay() int {
	var h, m int
	fmt.Sscanf(r.TimeOfDay, "%d:%d", &h, &m)
	return h*60 + m
}

// CreateOptions configures a new reminder.
type CreateOptions struct {
	Title      string
	TimeOfDay  string
	RepeatDays []string
}

// New validates opts and returns an active reminder.
func New(opts CreateOptions, now time.Time) (*Reminder, error) {
	title := internalstrings.NormalizeWhitespace(opts.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	timeOfDay, err := ParseTimeOfDay(opts.TimeOfDay)
	if err != nil {
		return nil, err
	}
	days, err := NormalizeDays(opts.RepeatDays)
	if err != nil {
		return nil, err
	}
	return &Reminder{
		ID:         ids.New(),
		Title:      title,
		TimeOfDay:  timeOfDay,
		RepeatDays: days,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetActive activates or deactivates the reminder. Re-activating a one-time
// reminder that already fired lets it fire again.
func (r *Reminder) SetActive(active bool, now time.Time) {
	if active && !r.Active && r.OneTime() {
		r.LastFiredKey = ""
	}
	r.Active = active
	r.UpdatedAt = now
}

// Due reports whether the reminder should fire at now.
func (r Reminder) Due(now time.Time) bool {
	if !r.Active {
		return false
	}
	// Day keys sort chronologically; a clock set back to an earlier day
	// must not fire again.
	if r.LastFiredKey >= now.Format(dayKeyLayout) {
		return false
	}
	if !r.RepeatsOn(DayOf(now.Weekday())) {
		return false
	}
	return now.Hour()*60+now.Minute() >= r.minuteOfDay()
}

// Fire stamps the reminder as fired today and deactivates one-time reminders.
func (r *Reminder) Fire(now time.Time) {
	r.LastFiredKey = now.Format(dayKeyLayout)
	if r.OneTime() {
		r.Active = false
	}
	r.UpdatedAt = now
}

// CheckDue fires every due reminder inside tx and returns them ordered by
// time of day. The caller must commit tx before delivering notifications.
func CheckDue(tx *store.Tx, now time.Time) ([]Reminder, error) {
	reminders, err := All(tx)
	if err != nil {
		return nil, err
	}

	var due []Reminder
	for _, r := range reminders {
		if !r.Due(now) {
			continue
		}
		r.Fire(now)
		if err := Put(tx, r); err != nil {
			return nil, err
		}
		due = append(due, *r)
	}

	Sort(due)
	return due, nil
}

// Sort orders reminders by time of day, then title.
func Sort(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].TimeOfDay != reminders[j].TimeOfDay {
			return reminders[i].TimeOfDay < reminders[j].TimeOfDay
		}
		return reminders[i].Title < reminders[j].Title
	})
}

// Get loads the reminder with the given id.
func Get(tx *store.Tx, id string) (*Reminder, error) {
	var r Reminder
	ok, err := tx.Get(store.NamespaceReminders, id, &r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	return &r, nil
}

// Put stores r.
func Put(tx *store.Tx, r *Reminder) error {
	return tx.Put(store.NamespaceReminders, r.ID, r)
}

// Delete removes the reminder with the given id.
func Delete(tx *store.Tx, id string) error {
	removed, err := tx.Delete(store.NamespaceReminders, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrReminderNotFound, id)
	}
	return nil
}

// All loads every reminder, ordered by id.
func All(tx *store.Tx) ([]*Reminder, error) {
	return store.List[*Reminder](tx, store.NamespaceReminders)
}

// Resolve returns the full reminder ID for a unique prefix.
func Resolve(tx *store.Tx, prefix string) (string, error) {
	match, found, ambiguous := ids.MatchPrefix(tx.IDs(store.NamespaceReminders), prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrReminderNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousReminderIDPrefix, prefix)
	}
	return match, nil
}
