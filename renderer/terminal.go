package renderer

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal, using the named glamour style
// ("dark", "light", "notty", ...).
func Terminal(md, style string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("cannot create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("cannot render markdown: %w", err)
	}
	return out, nil
}
