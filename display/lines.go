// Package display prints note events for the player.
package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"keyaccordion/accordion"
	"keyaccordion/debug"
	"keyaccordion/layout"
	"keyaccordion/theme"
)

// Lines writes one line per note event: "Playing C#" or "Releasing C#".
// Lines end in \r\n because the terminal is in raw mode.
type Lines struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	theme    *theme.Theme
}

// NewLines colors the pitch name by th when w is a color terminal.
func NewLines(w io.Writer, th *theme.Theme) *Lines {
	if th == nil {
		th = theme.New(nil)
	}
	return &Lines{w: w, renderer: lipgloss.NewRenderer(w), theme: th}
}

func (l *Lines) Show(ev accordion.NoteEvent) {
	verb := "Releasing"
	if ev.Pressed {
		verb = "Playing"
	}
	name := l.renderer.NewStyle().
		Foreground(l.theme.PitchColor(ev.Note)).
		Bold(ev.Pressed).
		Render(layout.PitchClass(ev.Note))

	if _, err := fmt.Fprintf(l.w, "%s %s\r\n", verb, name); err != nil {
		debug.Log("display", "write: %v", err)
	}
}
