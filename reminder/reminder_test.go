package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/store"
)

// 2026-03-02 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func seed(t *testing.T, st *store.Store, reminders ...*Reminder) {
	t.Helper()
	err := st.Update(func(tx *store.Tx) error {
		for _, r := range reminders {
			if err := Put(tx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func checkDue(t *testing.T, st *store.Store, now time.Time) []Reminder {
	t.Helper()
	var due []Reminder
	err := st.Update(func(tx *store.Tx) error {
		var err error
		due, err = CheckDue(tx, now)
		return err
	})
	if err != nil {
		t.Fatalf("check due at %s: %v", now, err)
	}
	return due
}

func newReminder(t *testing.T, opts CreateOptions) *Reminder {
	t.Helper()
	r, err := New(opts, monday(0, 0))
	if err != nil {
		t.Fatalf("new reminder: %v", err)
	}
	return r
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"08:00", "08:00", true},
		{"8:05", "08:05", true},
		{" 23:59 ", "23:59", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"noon", "", false},
		{"12:5", "", false},
		{"-1:00", "", false},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseTimeOfDay(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Errorf("ParseTimeOfDay(%q) expected ErrInvalidTimeOfDay, got %v", tt.input, err)
		}
	}
}

func TestNormalizeDays(t *testing.T) {
	days, err := NormalizeDays([]string{"Friday", "mon", "FRI", " sunday "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	want := []Day{Monday, Friday, Sunday}
	if len(days) != len(want) {
		t.Fatalf("expected %v, got %v", want, days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, days)
		}
	}

	if _, err := NormalizeDays([]string{"someday"}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := NormalizeDays([]string{"mo"}); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay for too-short name, got %v", err)
	}
}

func TestDayOf(t *testing.T) {
	if got := DayOf(time.Sunday); got != Sunday {
		t.Errorf("expected sun, got %s", got)
	}
	if got := DayOf(monday(9, 0).Weekday()); got != Monday {
		t.Errorf("expected mon, got %s", got)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(CreateOptions{Title: " ", TimeOfDay: "08:00"}, monday(0, 0)); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := New(CreateOptions{Title: "x", TimeOfDay: "8am"}, monday(0, 0)); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Errorf("expected ErrInvalidTimeOfDay, got %v", err)
	}
}

func TestCheckDue_AtMostOncePerDay(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	r := newReminder(t, CreateOptions{Title: "Stretch", TimeOfDay: "08:00", RepeatDays: []string{"mon"}})
	seed(t, st, r)

	if due := checkDue(t, st, monday(7, 59)); len(due) != 0 {
		t.Fatalf("expected nothing due before 08:00, got %v", due)
	}

	fired := 0
	for minute := 0; minute < 5; minute++ {
		fired += len(checkDue(t, st, monday(8, minute)))
	}
	if fired != 1 {
		t.Fatalf("expected exactly one fire between 08:00 and 08:05, got %d", fired)
	}

	// Tuesday is not a repeat day; the following Monday is.
	if due := checkDue(t, st, monday(9, 0).AddDate(0, 0, 1)); len(due) != 0 {
		t.Errorf("expected nothing due on tuesday, got %v", due)
	}
	if due := checkDue(t, st, monday(9, 0).AddDate(0, 0, 7)); len(due) != 1 {
		t.Errorf("expected reminder due next monday, got %v", due)
	}
}

func TestCheckDue_OneTimeDeactivates(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	r := newReminder(t, CreateOptions{Title: "Call back", TimeOfDay: "10:30"})
	seed(t, st, r)

	due := checkDue(t, st, monday(11, 0))
	if len(due) != 1 || due[0].Active {
		t.Fatalf("expected one fired, inactive reminder, got %+v", due)
	}

	for d := 0; d < 3; d++ {
		if due := checkDue(t, st, monday(12, 0).AddDate(0, 0, d)); len(due) != 0 {
			t.Fatalf("expected one-time reminder never to fire again, got %+v", due)
		}
	}

	st.View(func(tx *store.Tx) error {
		got, err := Get(tx, r.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Active || got.LastFiredKey != "2026-03-02" {
			t.Errorf("expected persisted inactive reminder, got %+v", got)
		}
		return nil
	})
}

func TestCheckDue_CatchesUpAfterSuspend(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	r := newReminder(t, CreateOptions{Title: "Water", TimeOfDay: "09:00", RepeatDays: []string{"mon", "tue"}})
	seed(t, st, r)

	// The device slept through 09:00 and resumed at 13:17.
	due := checkDue(t, st, monday(13, 17))
	if len(due) != 1 {
		t.Fatalf("expected missed reminder to fire on resume, got %v", due)
	}
	if due := checkDue(t, st, monday(13, 18)); len(due) != 0 {
		t.Fatalf("expected no second fire, got %v", due)
	}
}

func TestCheckDue_IgnoresBackwardsClock(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	r := newReminder(t, CreateOptions{Title: "Water", TimeOfDay: "09:00", RepeatDays: []string{"mon", "tue"}})
	seed(t, st, r)

	if due := checkDue(t, st, monday(9, 30).AddDate(0, 0, 1)); len(due) != 1 {
		t.Fatalf("expected reminder to fire on tuesday, got %v", due)
	}
	if due := checkDue(t, st, monday(9, 30)); len(due) != 0 {
		t.Fatalf("expected no fire after the clock moved back a day, got %v", due)
	}
}

func TestCheckDue_SkipsInactiveAndOrdersByTime(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	late := newReminder(t, CreateOptions{Title: "Late", TimeOfDay: "09:00"})
	early := newReminder(t, CreateOptions{Title: "Early", TimeOfDay: "06:00"})
	off := newReminder(t, CreateOptions{Title: "Off", TimeOfDay: "05:00"})
	off.SetActive(false, monday(0, 0))
	seed(t, st, late, early, off)

	due := checkDue(t, st, monday(10, 0))
	if len(due) != 2 || due[0].Title != "Early" || due[1].Title != "Late" {
		t.Fatalf("expected [Early Late], got %+v", due)
	}
}

func TestSetActive_RearmsOneTime(t *testing.T) {
	r := newReminder(t, CreateOptions{Title: "Once", TimeOfDay: "08:00"})
	r.Fire(monday(8, 0))
	if r.Active {
		t.Fatal("expected fire to deactivate one-time reminder")
	}

	r.SetActive(true, monday(8, 30))
	if !r.Active || r.LastFiredKey != "" {
		t.Fatalf("expected re-armed reminder, got %+v", r)
	}
	if !r.Due(monday(9, 0)) {
		t.Error("expected re-armed reminder to be due again")
	}

	repeating := newReminder(t, CreateOptions{Title: "Daily", TimeOfDay: "08:00", RepeatDays: []string{"mon"}})
	repeating.Fire(monday(8, 0))
	repeating.SetActive(false, monday(8, 1))
	repeating.SetActive(true, monday(8, 2))
	if repeating.LastFiredKey != "2026-03-02" {
		t.Errorf("expected repeating reminder to keep today's fire, got %q", repeating.LastFiredKey)
	}
}

func TestResolveAndDelete(t *testing.T) {
	st := store.New(t.TempDir(), store.Options{})
	r := newReminder(t, CreateOptions{Title: "Water", TimeOfDay: "09:00"})
	seed(t, st, r)

	err := st.Update(func(tx *store.Tx) error {
		id, err := Resolve(tx, r.ID[:6])
		if err != nil {
			return err
		}
		return Delete(tx, id)
	})
	if err != nil {
		t.Fatalf("resolve and delete: %v", err)
	}

	st.View(func(tx *store.Tx) error {
		if _, err := Get(tx, r.ID); !errors.Is(err, ErrReminderNotFound) {
			t.Errorf("expected ErrReminderNotFound, got %v", err)
		}
		return nil
	})
}
