// Package ids generates record ids and resolves the short prefixes the CLI
// displays for them.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh random id. Ids are never reused.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsWellFormed reports whether id looks like an id produced by New.
func IsWellFormed(id string) bool {
	if len(id) != 32 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
