package ui

import (
	"os"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."
const tableColumnGap = 2

// tableViewportWidth reports the terminal width, or 0 when stdout is not
// a terminal.
var tableViewportWidth = func() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. When the table
// is wider than the terminal, the last column is truncated to fit.
func FormatTable(headers []string, rows [][]string) string {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeTableCell(header)
	}

	normalizedRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalizedRow := make([]string, len(row))
		for i, cell := range row {
			normalizedRow[i] = normalizeTableCell(cell)
		}
		normalizedRows = append(normalizedRows, normalizedRow)
	}

	widths := make([]int, len(normalizedHeaders))
	for i, header := range normalizedHeaders {
		widths[i] = displayWidth(header)
	}
	for _, row := range normalizedRows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if displayLen := displayWidth(cell); displayLen > widths[i] {
				widths[i] = displayLen
			}
		}
	}

	lastLimit := -1
	if viewport := tableViewportWidth(); viewport > 0 && len(widths) > 0 {
		used := 0
		for _, width := range widths[:len(widths)-1] {
			used += width + tableColumnGap
		}
		if used+widths[len(widths)-1] > viewport {
			lastLimit = max(viewport-used, len(tableCellEllipsis))
		}
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			if i == len(row)-1 {
				if lastLimit >= 0 && displayWidth(cell) > lastLimit {
					cell = truncate.StringWithTail(cell, uint(lastLimit), tableCellEllipsis)
				}
				builder.WriteString(cell)
				builder.WriteByte('\n')
				continue
			}
			builder.WriteString(cell)
			padding := widths[i] - displayWidth(cell)
			builder.WriteString(strings.Repeat(" ", padding+tableColumnGap))
		}
	}

	writeRow(normalizedHeaders)
	for _, row := range normalizedRows {
		writeRow(row)
	}

	return builder.String()
}

// TruncateTableCell limits cell width while preserving visible characters.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, tableCellMaxWidth, tableCellEllipsis)
}

func displayWidth(value string) int {
	return ansi.PrintableRuneWidth(value)
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

// TerminalWidth returns the terminal width, or fallback when stdout is
// not a terminal.
func TerminalWidth(fallback int) int {
	if width := tableViewportWidth(); width > 0 {
		return width
	}
	return fallback
}
