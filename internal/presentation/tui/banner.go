package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the zonecheck banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Cool gradient, teal to indigo
	lines := []struct{ text, color string }{
		{"                             _               _   ", "#2dd4bf"},
		{"  _______  _ __   ___    ___| |__   ___  ___| | __", "#22d3ee"},
		{" |_  / _ \\| '_ \\ / _ \\  / __| '_ \\ / _ \\/ __| |/ /", "#38bdf8"},
		{"  / / (_) | | | |  __/ | (__| | | |  __/ (__|   < ", "#60a5fa"},
		{" /___\\___/|_| |_|\\___|  \\___|_| |_|\\___|\\___|_|\\_\\", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
