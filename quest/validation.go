package quest

import (
	"fmt"

	"github.com/amonks/sidequest/internal/errs"
	"github.com/amonks/sidequest/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a quest title is empty.
	ErrEmptyTitle = fmt.Errorf("%w: title cannot be empty", errs.ErrValidation)

	// ErrTitleTooLong is returned when a quest title exceeds MaxTitleLength.
	ErrTitleTooLong = fmt.Errorf("%w: title exceeds maximum length", errs.ErrValidation)

	// ErrInvalidPeriod is returned when an unknown period is provided.
	ErrInvalidPeriod = fmt.Errorf("%w: invalid period", errs.ErrValidation)

	// ErrInvalidKind is returned when an unknown kind is provided.
	ErrInvalidKind = fmt.Errorf("%w: invalid kind", errs.ErrValidation)

	// ErrInvalidTarget is returned when a progressive quest has a target <= 0.
	ErrInvalidTarget = fmt.Errorf("%w: target must be greater than zero", errs.ErrValidation)

	// ErrTargetOnBinary is returned when a binary quest is given a target.
	ErrTargetOnBinary = fmt.Errorf("%w: binary quests have no target", errs.ErrValidation)

	// ErrQuestNotFound is returned when a quest with the given ID doesn't exist.
	ErrQuestNotFound = fmt.Errorf("%w: quest", errs.ErrNotFound)

	// ErrAmbiguousQuestIDPrefix is returned when an ID prefix matches multiple quests.
	ErrAmbiguousQuestIDPrefix = fmt.Errorf("%w: ambiguous quest ID prefix", errs.ErrValidation)

	// ErrNotProgressive is returned when advance is called on a binary quest.
	ErrNotProgressive = fmt.Errorf("%w: quest is not progressive", errs.ErrInvalidState)

	// ErrProgressIncomplete is returned when a progressive quest is completed
	// before reaching its target.
	ErrProgressIncomplete = fmt.Errorf("%w: progress has not reached the target", errs.ErrInvalidState)

	// ErrAlreadyCompleted is returned when skipping a completed period.
	ErrAlreadyCompleted = fmt.Errorf("%w: period is already completed", errs.ErrInvalidState)

	// ErrNothingToUndo is returned when the open period has no complete or skip to revert.
	ErrNothingToUndo = fmt.Errorf("%w: nothing to undo", errs.ErrInvalidState)

	// ErrPeriodClosed is returned when undoing an outcome whose period already rolled over.
	ErrPeriodClosed = fmt.Errorf("%w: period has already closed", errs.ErrInvalidState)
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidatePeriod checks if the period is valid.
func ValidatePeriod(p Period) error {
	if !p.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidPeriod, p, ValidPeriods())
	}
	return nil
}

// ValidateKind checks if the kind is valid.
func ValidateKind(k Kind) error {
	if !k.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidKind, k, ValidKinds())
	}
	return nil
}

// ValidateTarget checks that target fits kind.
func ValidateTarget(k Kind, target int) error {
	switch k {
	case KindProgressive:
		if target <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
		}
	case KindBinary:
		if target != 0 {
			return ErrTargetOnBinary
		}
	}
	return nil
}
