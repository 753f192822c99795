// Package notify delivers fired reminders to the user.
package notify

import (
	"context"
	"errors"

	"github.com/amonks/sidequest/reminder"
)

// Notifier delivers one fired reminder.
type Notifier interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	Notify(ctx context.Context, r reminder.Reminder) error
}

// Result is the outcome of delivering to one sink.
type Result struct {
	Sink string
	Err  error
}

// Deliver sends r to every notifier and reports each outcome. A failing
// sink does not stop delivery to the others.
func Deliver(ctx context.Context, notifiers []Notifier, r reminder.Reminder) []Result {
	results := make([]Result, 0, len(notifiers))
	for _, n := range notifiers {
		results = append(results, Result{Sink: n.Name(), Err: n.Notify(ctx, r)})
	}
	return results
}

// Err joins the errors of results.
func Err(results []Result) error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errors.Join(errs...)
}
