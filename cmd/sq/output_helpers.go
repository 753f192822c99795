package main

import (
	"encoding/json"
	"os"
)

// printJSON writes value to stdout as indented JSON, the format every
// --json flag emits.
func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// printJSONList prints items, writing an empty list as [] rather than null.
func printJSONList[T any](items []T) error {
	if items == nil {
		items = []T{}
	}
	return printJSON(items)
}
