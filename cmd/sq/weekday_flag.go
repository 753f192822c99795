package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/amonks/sidequest/reminder"
)

// weekdayFlag collects repeat days from comma-separated or repeated flags,
// e.g. --days mon,wed --days fri. "daily" and "weekdays" expand.
type weekdayFlag struct {
	days []reminder.Day
}

var _ pflag.Value = (*weekdayFlag)(nil)

func (f *weekdayFlag) String() string {
	names := make([]string, 0, len(f.days))
	for _, day := range f.days {
		names = append(names, string(day))
	}
	return strings.Join(names, ",")
}

func (f *weekdayFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "":
			continue
		case "daily":
			f.days = append(f.days, reminder.ValidDays()...)
			continue
		case "weekdays":
			f.days = append(f.days, reminder.ValidDays()[:5]...)
			continue
		case "weekends":
			f.days = append(f.days, reminder.ValidDays()[5:]...)
			continue
		}
		day, err := reminder.ParseDay(part)
		if err != nil {
			return err
		}
		f.days = append(f.days, day)
	}
	return nil
}

func (f *weekdayFlag) Type() string {
	return "days"
}

// Values returns the collected days as strings for reminder.CreateOptions.
func (f *weekdayFlag) Values() []string {
	out := make([]string, 0, len(f.days))
	for _, day := range f.days {
		out = append(out, string(day))
	}
	return out
}
