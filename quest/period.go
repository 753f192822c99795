package quest

import (
	"fmt"
	"time"

	"github.com/amonks/sidequest/internal/errs"
)

const (
	dayKeyLayout   = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// ErrInvalidPeriodKey is returned when a period key cannot be parsed.
var ErrInvalidPeriodKey = fmt.Errorf("%w: invalid period key", errs.ErrValidation)

// DayKey returns the calendar-day key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// Key returns the key of the period instance containing t, computed in
// t's location. Keys of one cadence sort lexicographically in time order.
func (p Period) Key(t time.Time) string {
	switch p {
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return t.Format(monthKeyLayout)
	default:
		return t.Format(dayKeyLayout)
	}
}

// Start returns midnight of the first day of the period instance named by
// key, in loc.
func (p Period) Start(key string, loc *time.Location) (time.Time, error) {
	switch p {
	case PeriodWeekly:
		var year, week int
		if _, err := fmt.Sscanf(key, "%04d-W%02d", &year, &week); err != nil || week < 1 || week > 53 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		start := firstDayOfISOWeek(year, week, loc)
		if y, w := start.ISOWeek(); y != year || w != week {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		return start, nil
	case PeriodMonthly:
		t, err := time.ParseInLocation(monthKeyLayout, key, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		return t, nil
	default:
		t, err := time.ParseInLocation(dayKeyLayout, key, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
		}
		return t, nil
	}
}

// Next returns the key of the period instance following key.
func (p Period) Next(key string) (string, error) {
	return p.shift(key, 1)
}

// Prev returns the key of the period instance preceding key.
func (p Period) Prev(key string) (string, error) {
	return p.shift(key, -1)
}

func (p Period) shift(key string, n int) (string, error) {
	// Key arithmetic happens in UTC so that DST never shortens a day.
	start, err := p.Start(key, time.UTC)
	if err != nil {
		return "", err
	}
	switch p {
	case PeriodWeekly:
		return p.Key(start.AddDate(0, 0, 7*n)), nil
	case PeriodMonthly:
		return p.Key(start.AddDate(0, n, 0)), nil
	default:
		return p.Key(start.AddDate(0, 0, n)), nil
	}
}

// firstDayOfISOWeek returns the Monday of the given ISO week.
func firstDayOfISOWeek(year, week int, loc *time.Location) time.Time {
	// January 4th is always in week 1.
	date := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := int(date.Weekday()+6) % 7
	date = date.AddDate(0, 0, -offset)
	return date.AddDate(0, 0, (week-1)*7)
}
