package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/amonks/sidequest/reminder"
	"github.com/charmbracelet/lipgloss"
)

// Console writes reminders as styled lines.
type Console struct {
	writer     io.Writer
	timeStyle  lipgloss.Style
	titleStyle lipgloss.Style
}

// NewConsole builds a console notifier writing to writer.
func NewConsole(writer io.Writer) *Console {
	if writer == nil {
		writer = io.Discard
	}
	return &Console{
		writer:     writer,
		timeStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		titleStyle: lipgloss.NewStyle().Bold(true),
	}
}

// Name implements Notifier.
func (c *Console) Name() string {
	return "console"
}

// Notify implements Notifier.
func (c *Console) Notify(_ context.Context, r reminder.Reminder) error {
	_, err := fmt.Fprintf(c.writer, "reminder %s %s\n", c.timeStyle.Render(r.TimeOfDay), c.titleStyle.Render(r.Title))
	return err
}
