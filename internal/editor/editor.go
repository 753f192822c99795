// Package editor opens quests in the user's editor as TOML frontmatter
// documents and reads them back.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

const fallbackEditor = "vi"

// IsInteractive reports whether stdin is a terminal, i.e. whether sq can
// hand the terminal to an editor.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// command returns the editor argv from $VISUAL or $EDITOR. Values like
// "code --wait" are split on whitespace.
func command() []string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(name)); len(fields) > 0 {
			return fields
		}
	}
	return []string{fallbackEditor}
}

// Edit opens path in the user's editor and blocks until it exits.
func Edit(path string) error {
	argv := command()
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor %s exited with status %d; quest not saved", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run editor %s: %w", argv[0], err)
	}
	return nil
}
