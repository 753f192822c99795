package main

import (
	"fmt"
	"io"

	internalstrings "github.com/amonks/sidequest/internal/strings"
)

// resolveTextFromStdin returns value, or the contents of reader when value
// is "-".
func resolveTextFromStdin(value string, reader io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return internalstrings.TrimTrailingNewlines(string(input)), nil
}
