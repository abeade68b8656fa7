package cli

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// stdoutIsTTY reports whether stdout is an interactive terminal. Piped
// output gets plain text with no styling or width games.
func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// termWidth returns the terminal width, or 0 when stdout is not a terminal
// so renderers fall back to their default.
func termWidth() int {
	if !stdoutIsTTY() {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// renderMarkdown renders a Markdown document for the terminal. Outside a
// TTY (or if the renderer fails) the raw Markdown comes back unchanged.
func renderMarkdown(doc string) string {
	if !stdoutIsTTY() {
		return doc
	}
	width := termWidth()
	if width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc
	}
	return out
}
