package engine

import (
	"github.com/amonks/sidequest/internal/store"
	"github.com/amonks/sidequest/settings"
	"go.uber.org/zap"
)

// SettingsUpdate changes the configured lists. Nil fields are left unchanged.
type SettingsUpdate struct {
	TimeSlots  []string
	EnergyTags []string
}

// Settings returns the stored settings, or the defaults.
func (e *Engine) Settings() (settings.Settings, error) {
	var out settings.Settings
	err := e.store.View(func(tx *store.Tx) error {
		var err error
		out, err = e.settings(tx)
		return err
	})
	return out, err
}

// UpdateSettings replaces the time slots and/or energy tags. Existing
// quests keep their values even if they are no longer listed.
func (e *Engine) UpdateSettings(update SettingsUpdate) (settings.Settings, error) {
	var out settings.Settings
	err := e.store.Update(func(tx *store.Tx) error {
		prefs, err := e.settings(tx)
		if err != nil {
			return err
		}
		if update.TimeSlots != nil {
			prefs.TimeSlots = update.TimeSlots
		}
		if update.EnergyTags != nil {
			prefs.EnergyTags = update.EnergyTags
		}
		if err := prefs.Validate(); err != nil {
			return err
		}
		out = prefs
		return settings.Save(tx, prefs)
	})
	if err != nil {
		return settings.Settings{}, err
	}
	e.logger.Info("settings updated", zap.Strings("time_slots", out.TimeSlots), zap.Strings("energy_tags", out.EnergyTags))
	return out, nil
}
