package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/amonks/sidequest/insight"
	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/quest"
	"github.com/amonks/sidequest/reminder"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "sq" {
		t.Fatalf("expected root command name sq, got %q", rootCmd.Use)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: exitGeneric},
		{name: "validation", err: quest.ErrEmptyTitle, want: exitValidation},
		{name: "not found", err: fmt.Errorf("%w: abc", quest.ErrQuestNotFound), want: exitNotFound},
		{name: "invalid state", err: quest.ErrNothingToUndo, want: exitInvalidState},
		{name: "schema", err: fmt.Errorf("%w: bad", errs.ErrSchema), want: exitSchema},
		{name: "storage", err: fmt.Errorf("%w: disk", errs.ErrStorage), want: exitStorage},
		{name: "usage", err: usageError{errors.New("unknown flag")}, want: exitValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekdayFlag(t *testing.T) {
	var f weekdayFlag
	for _, value := range []string{"mon, Wednesday", "weekends"} {
		if err := f.Set(value); err != nil {
			t.Fatalf("set %q: %v", value, err)
		}
	}
	if got := f.String(); got != "mon,wed,sat,sun" {
		t.Fatalf("unexpected days %q", got)
	}
	if f.Type() != "days" {
		t.Fatalf("unexpected type %q", f.Type())
	}

	var daily weekdayFlag
	if err := daily.Set("daily"); err != nil {
		t.Fatalf("set daily: %v", err)
	}
	if len(daily.Values()) != 7 {
		t.Fatalf("expected 7 days, got %v", daily.Values())
	}

	var bad weekdayFlag
	if err := bad.Set("mon,funday"); !errors.Is(err, reminder.ErrInvalidDay) {
		t.Fatalf("expected invalid day error, got %v", err)
	}
}

func TestFormatRepeat(t *testing.T) {
	tests := []struct {
		days []reminder.Day
		want string
	}{
		{days: nil, want: "once"},
		{days: reminder.ValidDays(), want: "daily"},
		{days: []reminder.Day{reminder.Monday, reminder.Friday}, want: "mon,fri"},
	}
	for _, tt := range tests {
		if got := formatRepeat(reminder.Reminder{RepeatDays: tt.days}); got != tt.want {
			t.Errorf("formatRepeat(%v) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestFormatHeatmap(t *testing.T) {
	h := insight.Heatmap{
		Days: []insight.DayBucket{{Count: 0}, {Count: 1}, {Count: 2}, {Count: 4}},
		Max:  4,
	}
	if got := formatHeatmap(h); got != ". ░ ▒ █" {
		t.Fatalf("unexpected heatmap %q", got)
	}
}

func TestQuestStateLabel(t *testing.T) {
	progressive := &quest.Quest{Kind: quest.KindProgressive, State: quest.StatePending, Current: 2, Target: 5}
	if got := questStateLabel(progressive); got != "2/5" {
		t.Fatalf("expected 2/5, got %q", got)
	}
	progressive.State = quest.StateCompleted
	if got := questStateLabel(progressive); got != "completed" {
		t.Fatalf("expected completed, got %q", got)
	}
}

func TestResolveTextFromStdin(t *testing.T) {
	got, err := resolveTextFromStdin("-", strings.NewReader("line one\nline two\n"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "line one\nline two" {
		t.Fatalf("unexpected text %q", got)
	}

	got, _ = resolveTextFromStdin("inline", strings.NewReader("ignored"))
	if got != "inline" {
		t.Fatalf("expected inline value, got %q", got)
	}
}

func TestListFlags_All(t *testing.T) {
	flag := reminderListCmd.Flags().Lookup("all")
	if flag == nil {
		t.Fatal("expected reminder list to have --all")
	}
	if flag.DefValue != "false" {
		t.Errorf("expected --all to default to false, got %q", flag.DefValue)
	}

	got := activeReminders([]reminder.Reminder{
		{ID: "a", Active: true},
		{ID: "b"},
		{ID: "c", Active: true},
	})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("expected active reminders a and c, got %+v", got)
	}
}
