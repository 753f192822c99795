package quest

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/sidequest/internal/errs"
)

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		period Period
		at     time.Time
		want   string
	}{
		{PeriodDaily, time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC), "2026-03-02"},
		{PeriodWeekly, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "2026-W10"},
		{PeriodWeekly, time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC), "2026-W10"},
		{PeriodWeekly, time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC), "2026-W53"},
		{PeriodMonthly, time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC), "2026-12"},
	}

	for _, tt := range tests {
		if got := tt.period.Key(tt.at); got != tt.want {
			t.Errorf("%s.Key(%s) = %q, want %q", tt.period, tt.at, got, tt.want)
		}
	}
}

func TestPeriodKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC).In(loc)
	if got := PeriodDaily.Key(at); got != "2026-03-02" {
		t.Errorf("expected local date 2026-03-02, got %q", got)
	}
}

func TestPeriodStart(t *testing.T) {
	start, err := PeriodWeekly.Start("2026-W01", time.UTC)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if want := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("expected %s, got %s", want, start)
	}
	if start.Weekday() != time.Monday {
		t.Errorf("expected weeks to start on Monday, got %s", start.Weekday())
	}

	for _, bad := range []string{"2026-W00", "2026-W54", "2025-W53", "nope"} {
		if _, err := PeriodWeekly.Start(bad, time.UTC); !errors.Is(err, errs.ErrValidation) {
			t.Errorf("Start(%q) expected validation error, got %v", bad, err)
		}
	}
}

func TestPeriodNextPrev(t *testing.T) {
	tests := []struct {
		period Period
		key    string
		next   string
	}{
		{PeriodDaily, "2026-02-28", "2026-03-01"},
		{PeriodDaily, "2026-12-31", "2027-01-01"},
		{PeriodWeekly, "2026-W52", "2026-W53"},
		{PeriodWeekly, "2026-W53", "2027-W01"},
		{PeriodMonthly, "2026-12", "2027-01"},
	}

	for _, tt := range tests {
		next, err := tt.period.Next(tt.key)
		if err != nil || next != tt.next {
			t.Errorf("%s.Next(%q) = %q, %v; want %q", tt.period, tt.key, next, err, tt.next)
		}
		prev, err := tt.period.Prev(tt.next)
		if err != nil || prev != tt.key {
			t.Errorf("%s.Prev(%q) = %q, %v; want %q", tt.period, tt.next, prev, err, tt.key)
		}
	}
}
