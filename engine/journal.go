package engine

import (
	"fmt"

	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/internal/validation"
	"github.com/amonks/sidequest/journal"
	"go.uber.org/zap"
)

// LogMoodEntry records today's energy and notes, creating today's log on
// the first check-in.
func (e *Engine) LogMoodEntry(energy, notes string) (*journal.DailyLog, error) {
	now := e.Now()
	var log *journal.DailyLog
	err := e.store.Update(func(tx *store.Tx) error {
		prefs, err := e.settings(tx)
		if err != nil {
			return err
		}
		if energy, err = prefs.NormalizeEnergyTag(energy); err != nil {
			return err
		}
		if energy == "" {
			return fmt.Errorf("%w: energy is required (valid: %s)", ErrValidation, validation.FormatValidValues(prefs.EnergyTags))
		}
		if _, _, err := e.rolloverAll(tx, now); err != nil {
			return err
		}
		log, err = journal.CheckIn(tx, energy, notes, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("mood logged", zap.String("date", log.ID), zap.String("energy", log.Energy))
	return log, nil
}

// GetLog returns the log for a YYYY-MM-DD date.
func (e *Engine) GetLog(date string) (*journal.DailyLog, error) {
	date, err := journal.ParseDate(date)
	if err != nil {
		return nil, err
	}
	var log *journal.DailyLog
	err = e.store.View(func(tx *store.Tx) error {
		log, err = journal.Get(tx, date)
		return err
	})
	return log, err
}

// ListLogs returns the logs within [from, to]. Empty bounds are open.
func (e *Engine) ListLogs(from, to string) ([]journal.DailyLog, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := journal.ParseDate(bound); err != nil {
			return nil, err
		}
	}
	var logs []journal.DailyLog
	err := e.store.View(func(tx *store.Tx) error {
		var err error
		logs, err = journal.List(tx, from, to)
		return err
	})
	return logs, err
}

// DeleteLog removes the log for a YYYY-MM-DD date.
func (e *Engine) DeleteLog(date string) error {
	date, err := journal.ParseDate(date)
	if err != nil {
		return err
	}
	if err := e.store.Update(func(tx *store.Tx) error {
		return journal.Delete(tx, date)
	}); err != nil {
		return err
	}
	e.logger.Info("log deleted", zap.String("date", date))
	return nil
}
