package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirEnv overrides the default state directory.
const StateDirEnv = "SIDEQUEST_STATE_DIR"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns $SIDEQUEST_STATE_DIR, or the default sidequest
// state directory under the home directory.
func DefaultStateDir() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir, nil
	}

	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", "sidequest"), nil
}

// ResolveWithDefault returns override when set, otherwise the result of defaultFn.
func ResolveWithDefault(override string, defaultFn func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultFn()
}
