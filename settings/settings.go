// Package settings holds the user preferences shared by the quest, journal
// and insight packages: the ordered time slots, the energy tags and the
// best streak ever observed.
package settings

import (
	"errors"
	"fmt"
	"slices"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/store"
	internalstrings "github.com/amonks/sidequest/internal/strings"
	"github.com/amonks/sidequest/internal/validation"
)

// RecordID is the id of the single settings record.
const RecordID = "preferences"

var (
	// ErrUnknownTimeSlot is returned when a time slot is not configured.
	ErrUnknownTimeSlot = fmt.Errorf("%w: unknown time slot", errs.ErrValidation)

	// ErrUnknownEnergyTag is returned when an energy tag is not configured.
	ErrUnknownEnergyTag = fmt.Errorf("%w: unknown energy tag", errs.ErrValidation)

	// ErrEmptyList is returned when settings would leave no time slots or energy tags.
	ErrEmptyList = fmt.Errorf("%w: list cannot be empty", errs.ErrValidation)

	// ErrDuplicateEntry is returned when a list names the same value twice.
	ErrDuplicateEntry = fmt.Errorf("%w: duplicate entry", errs.ErrValidation)
)

// Settings is the preferences record.
type Settings struct {
	ID         string   `json:"id"`
	TimeSlots  []string `json:"time_slots"`
	EnergyTags []string `json:"energy_tags"`

	// BestStreak is the largest longest-streak observed across all quests,
	// including quests that have since been deleted.
	BestStreak int `json:"best_streak"`
}

// DefaultTimeSlots are used until the user configures their own.
func DefaultTimeSlots() []string {
	return []string{"Morning", "Afternoon", "Evening", "Night"}
}

// DefaultEnergyTags are used until the user configures their own.
func DefaultEnergyTags() []string {
	return []string{"High", "Medium", "Low"}
}

// Default returns settings with the given lists, falling back to the
// built-in defaults for empty lists.
func Default(timeSlots, energyTags []string) Settings {
	if len(timeSlots) == 0 {
		timeSlots = DefaultTimeSlots()
	}
	if len(energyTags) == 0 {
		energyTags = DefaultEnergyTags()
	}
	return Settings{
		ID:         RecordID,
		TimeSlots:  slices.Clone(timeSlots),
		EnergyTags: slices.Clone(energyTags),
	}
}

// Load reads the settings record, returning fallback when none is stored.
func Load(tx *store.Tx, fallback Settings) (Settings, error) {
	var s Settings
	ok, err := tx.Get(store.NamespaceSettings, RecordID, &s)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return fallback, nil
	}
	if len(s.TimeSlots) == 0 {
		s.TimeSlots = fallback.TimeSlots
	}
	if len(s.EnergyTags) == 0 {
		s.EnergyTags = fallback.EnergyTags
	}
	return s, nil
}

// Save writes the settings record.
func Save(tx *store.Tx, s Settings) error {
	s.ID = RecordID
	return tx.Put(store.NamespaceSettings, RecordID, s)
}

// Validate checks that both lists are non-empty and free of duplicates.
func (s Settings) Validate() error {
	if err := validateList("time slots", s.TimeSlots); err != nil {
		return err
	}
	return validateList("energy tags", s.EnergyTags)
}

func validateList(name string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyList, name)
	}
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		key := internalstrings.NormalizeLowerTrimSpace(value)
		if key == "" {
			return fmt.Errorf("%w: %s contain an empty entry", errs.ErrValidation, name)
		}
		if seen[key] {
			return fmt.Errorf("%w: %s %q", ErrDuplicateEntry, name, value)
		}
		seen[key] = true
	}
	return nil
}

// NormalizeTimeSlot returns the configured spelling of slot.
// An empty slot is allowed and means "no slot".
func (s Settings) NormalizeTimeSlot(slot string) (string, error) {
	value, err := match(s.TimeSlots, slot)
	if errors.Is(err, errs.ErrValidation) {
		return "", validation.FormatInvalidValueError(ErrUnknownTimeSlot, slot, s.TimeSlots)
	}
	return value, err
}

// NormalizeEnergyTag returns the configured spelling of tag.
// An empty tag is allowed and means "no tag".
func (s Settings) NormalizeEnergyTag(tag string) (string, error) {
	value, err := match(s.EnergyTags, tag)
	if errors.Is(err, errs.ErrValidation) {
		return "", validation.FormatInvalidValueError(ErrUnknownEnergyTag, tag, s.EnergyTags)
	}
	return value, err
}

// TimeSlotRank returns the position of slot in the configured order.
// Unknown and empty slots sort last.
func (s Settings) TimeSlotRank(slot string) int {
	for i, candidate := range s.TimeSlots {
		if internalstrings.NormalizeLowerTrimSpace(candidate) == internalstrings.NormalizeLowerTrimSpace(slot) {
			return i
		}
	}
	return len(s.TimeSlots)
}

// ObserveStreak raises BestStreak to streak if it is larger.
// It reports whether the record changed.
func (s *Settings) ObserveStreak(streak int) bool {
	if streak <= s.BestStreak {
		return false
	}
	s.BestStreak = streak
	return true
}

func match(values []string, input string) (string, error) {
	key := internalstrings.NormalizeLowerTrimSpace(input)
	if key == "" {
		return "", nil
	}
	for _, value := range values {
		if internalstrings.NormalizeLowerTrimSpace(value) == key {
			return value, nil
		}
	}
	return "", errs.ErrValidation
}
