package main

import (
	"errors"

	"github.com/amonks/sidequest/internal/errs"
)

// Exit codes by error kind.
const (
	exitGeneric      = 1
	exitValidation   = 2
	exitNotFound     = 3
	exitInvalidState = 4
	exitSchema       = 5
	exitStorage      = 6
)

// usageError marks bad flags, which exit like validation errors.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func (e usageError) ExitCode() int { return exitValidation }

func exitCode(err error) int {
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	switch errs.Kind(err) {
	case errs.ErrValidation:
		return exitValidation
	case errs.ErrNotFound:
		return exitNotFound
	case errs.ErrInvalidState:
		return exitInvalidState
	case errs.ErrSchema:
		return exitSchema
	case errs.ErrStorage:
		return exitStorage
	default:
		return exitGeneric
	}
}
