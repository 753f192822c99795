package engine

import (
	"time"

	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/reminder"
	"go.uber.org/zap"
)

// CreateReminder stores a new active reminder.
func (e *Engine) CreateReminder(opts reminder.CreateOptions) (*reminder.Reminder, error) {
	r, err := reminder.New(opts, e.Now())
	if err != nil {
		return nil, err
	}
	if err := e.store.Update(func(tx *store.Tx) error {
		return reminder.Put(tx, r)
	}); err != nil {
		return nil, err
	}
	e.logger.Info("reminder created", zap.String("id", r.ID), zap.String("time", r.TimeOfDay))
	return r, nil
}

// ToggleReminder sets a reminder's active flag, or flips it when active is nil.
func (e *Engine) ToggleReminder(id string, active *bool) (*reminder.Reminder, error) {
	now := e.Now()
	var out *reminder.Reminder
	err := e.store.Update(func(tx *store.Tx) error {
		fullID, err := reminder.Resolve(tx, id)
		if err != nil {
			return err
		}
		r, err := reminder.Get(tx, fullID)
		if err != nil {
			return err
		}
		next := !r.Active
		if active != nil {
			next = *active
		}
		r.SetActive(next, now)
		out = r
		return reminder.Put(tx, r)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("reminder toggled", zap.String("id", out.ID), zap.Bool("active", out.Active))
	return out, nil
}

// ListReminders returns every reminder ordered by time of day.
func (e *Engine) ListReminders() ([]reminder.Reminder, error) {
	var out []reminder.Reminder
	err := e.store.View(func(tx *store.Tx) error {
		all, err := reminder.All(tx)
		if err != nil {
			return err
		}
		for _, r := range all {
			out = append(out, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	reminder.Sort(out)
	return out, nil
}

// DeleteReminder removes a reminder.
func (e *Engine) DeleteReminder(id string) (*reminder.Reminder, error) {
	var deleted *reminder.Reminder
	err := e.store.Update(func(tx *store.Tx) error {
		fullID, err := reminder.Resolve(tx, id)
		if err != nil {
			return err
		}
		if deleted, err = reminder.Get(tx, fullID); err != nil {
			return err
		}
		return reminder.Delete(tx, fullID)
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("reminder deleted", zap.String("id", deleted.ID))
	return deleted, nil
}

// CheckDueReminders fires every reminder due at now. The fired state is
// durable before this returns; delivering the returned reminders is up to
// the caller, and a failed delivery does not un-fire them.
func (e *Engine) CheckDueReminders(now time.Time) ([]reminder.Reminder, error) {
	now = now.In(e.loc)
	var due []reminder.Reminder
	err := e.store.Update(func(tx *store.Tx) error {
		var err error
		due, err = reminder.CheckDue(tx, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, r := range due {
		e.logger.Info("reminder fired", zap.String("id", r.ID), zap.String("title", r.Title))
	}
	return due, nil
}
