// Package errs defines the error kinds shared by every sidequest package.
//
// Specific errors wrap one of these kinds with fmt.Errorf("%w: ...") so that
// callers can classify any returned error with errors.Is.
package errs

import "errors"

var (
	// ErrValidation marks malformed input: empty titles, unknown enum values,
	// non-positive targets.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a reference to an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation that is not legal for the entity's
	// current kind or state.
	ErrInvalidState = errors.New("invalid state")

	// ErrSchema marks an import document or state file the engine cannot read.
	ErrSchema = errors.New("schema error")

	// ErrStorage marks a failed write or flush of durable state.
	ErrStorage = errors.New("storage error")
)

// Kinds returns every error kind in a stable order.
func Kinds() []error {
	return []error{ErrValidation, ErrNotFound, ErrInvalidState, ErrSchema, ErrStorage}
}

// Kind returns the kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range Kinds() {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
