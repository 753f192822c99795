package ui

import (
	"strings"
	"testing"
)

func withViewport(t *testing.T, width int) {
	t.Helper()
	original := tableViewportWidth
	tableViewportWidth = func() int { return width }
	t.Cleanup(func() { tableViewportWidth = original })
}

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth+10)

	got := TruncateTableCell(value)

	if displayWidth(got) != tableCellMaxWidth || !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected %d wide cell ending in ellipsis, got %q", tableCellMaxWidth, got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	withViewport(t, 0)

	builder := NewTableBuilder([]string{"ID", "TITLE"}, 2)
	builder.AddRow([]string{"a1", "Stretch\nfor ten minutes"})
	builder.AddRow([]string{"b22", "Read"})

	want := "ID   TITLE\n" +
		"a1   Stretch for ten minutes\n" +
		"b22  Read\n"
	if got := builder.String(); got != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatTableTruncatesToViewport(t *testing.T) {
	withViewport(t, 16)

	got := FormatTable([]string{"ID", "TITLE"}, [][]string{{"a1", "Stretch for ten minutes"}})

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if width := displayWidth(line); width > 16 {
			t.Fatalf("expected at most 16 columns, got %d in %q", width, line)
		}
	}
	if !strings.Contains(got, tableCellEllipsis) {
		t.Fatalf("expected truncated title, got %q", got)
	}
}

func TestTerminalWidth(t *testing.T) {
	withViewport(t, 0)
	if got := TerminalWidth(80); got != 80 {
		t.Fatalf("expected fallback 80, got %d", got)
	}

	withViewport(t, 120)
	if got := TerminalWidth(80); got != 120 {
		t.Fatalf("expected viewport 120, got %d", got)
	}
}
