package devproxy

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner writes the startup banner of the proxy to w.
func PrintBanner(w io.Writer, cfg Config) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 56
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintf(w, "\n%s\n", hr)
	fmt.Fprintf(w, "%s  MANEY. Development proxy%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	kvPad := 10
	kvLines := [][2]string{
		{"Listen", cfg.Listen},
		{"Target", cfg.Target},
		{"Prefixes", strings.Join(cfg.Prefixes, ", ")},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)
}
