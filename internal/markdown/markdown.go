// Package markdown renders quest notes for the terminal.
package markdown

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/indent"

	internalstrings "github.com/amonks/sidequest/internal/strings"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown text for terminal output, wrapped to width and
// indented by indent spaces. Blank input renders to nil.
func Render(width, indent int, input []byte) []byte {
	value, ok := prepare(input)
	if !ok {
		return nil
	}
	renderWidth := clampWidth(width, indent)

	rendered := value
	if r := markdownRenderer(renderWidth); r != nil {
		if formatted, err := r.Render(value); err == nil {
			rendered = formatted
		}
	}
	return finish(rendered, indent)
}

// SafeRender is Render, falling back to the plain text when the renderer
// panics on unusual input.
func SafeRender(width, indent int, input []byte) (out []byte) {
	defer func() {
		if recover() != nil {
			value, ok := prepare(input)
			if !ok {
				out = nil
				return
			}
			out = finish(value, indent)
		}
	}()
	return Render(width, indent, input)
}

func prepare(input []byte) (string, bool) {
	if len(input) == 0 {
		return "", false
	}
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	return value, !internalstrings.IsBlank(value)
}

func finish(rendered string, spaces int) []byte {
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if internalstrings.IsBlank(rendered) {
		return nil
	}
	if spaces <= 0 {
		return []byte(rendered)
	}
	return []byte(indent.String(rendered, uint(spaces)))
}

func clampWidth(width, indent int) int {
	if width < 1 {
		width = 1
	}
	if indent < 0 {
		indent = 0
	}
	if width-indent < 1 {
		return 1
	}
	return width - indent
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	style.Document.Margin = nil
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
