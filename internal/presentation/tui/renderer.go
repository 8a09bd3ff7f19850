package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// Printer writes reports to a terminal with styling, or as plain markdown
// when the output is redirected.
type Printer struct {
	out     io.Writer
	render  func(string) (string, error)
	profile termenv.Profile
}

// NewPrinter inspects out to pick styled or plain output.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{out: out, profile: termenv.Ascii}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.render = NewRenderer()
		p.profile = termenv.ColorProfile()
	}
	return p
}

// Styled reports whether the printer renders for a terminal.
func (p *Printer) Styled() bool { return p.render != nil }

// Markdown renders and prints a markdown document.
func (p *Printer) Markdown(md string) error {
	if p.render != nil {
		out, err := p.render(md)
		if err == nil {
			md = out
		}
	}
	_, err := fmt.Fprint(p.out, md)
	return err
}

// Status prints a one-line outcome in green or red.
func (p *Printer) Status(ok bool, text string) {
	mark, color := "✓", "#22c55e"
	if !ok {
		mark, color = "✗", "#ef4444"
	}
	fmt.Fprintln(p.out, p.profile.String(mark+" "+text).Foreground(p.profile.Color(color)))
}
