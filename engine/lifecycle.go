package engine

import (
	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/reminder"
)

// FlushAll rolls every quest over, forces the state to stable storage and
// makes sure today's backup exists. Storage errors are returned so the
// caller's flush cycle can retry.
func (e *Engine) FlushAll() error {
	now := e.Now()
	if err := e.store.Update(func(tx *store.Tx) error {
		_, _, err := e.rolloverAll(tx, now)
		return err
	}); err != nil {
		return err
	}
	return e.store.Flush()
}

// Suspend flushes everything before the host goes to sleep.
func (e *Engine) Suspend() error {
	e.logger.Info("suspending")
	return e.FlushAll()
}

// Resume runs an immediate due-check so reminders missed while suspended
// are caught up. Each still fires at most once per day.
func (e *Engine) Resume() ([]reminder.Reminder, error) {
	e.logger.Info("resuming")
	return e.CheckDueReminders(e.Now())
}
