package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keyaccordion/accordion"
	"keyaccordion/debug"
	"keyaccordion/layout"
	"keyaccordion/theme"
)

const historyLen = 8

type Model struct {
	Theme       *theme.Theme
	PortName    string
	ReleaseHint bool

	sounding map[layout.Note]bool
	history  []accordion.NoteEvent
	quitting bool
}

// NoteMsg carries one note event into the program.
type NoteMsg accordion.NoteEvent

// QuitMsg ends the program.
type QuitMsg struct{}

// ReleaseReportMsg says whether the input reports key releases. The hint
// is shown only while it does not.
type ReleaseReportMsg bool

// NewModel builds the view. releaseHint shows the note about terminals that
// cannot report key releases.
func NewModel(th *theme.Theme, portName string, releaseHint bool) Model {
	if th == nil {
		th = theme.New(nil)
	}
	return Model{
		Theme:       th,
		PortName:    portName,
		ReleaseHint: releaseHint,
		sounding:    make(map[layout.Note]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NoteMsg:
		ev := accordion.NoteEvent(msg)
		// copy so earlier models stay untouched
		sounding := make(map[layout.Note]bool, len(m.sounding)+1)
		for n := range m.sounding {
			sounding[n] = true
		}
		if ev.Pressed {
			sounding[ev.Note] = true
		} else {
			delete(sounding, ev.Note)
		}
		m.sounding = sounding

		history := append([]accordion.NoteEvent{ev}, m.history...)
		if len(history) > historyLen {
			history = history[:historyLen]
		}
		m.history = history

	case ReleaseReportMsg:
		m.ReleaseHint = !bool(msg)

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// Sounding returns the notes the view shows as on.
func (m Model) Sounding() []layout.Note {
	notes := make([]layout.Note, 0, len(m.sounding))
	for n := range m.sounding {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	header := headerStyle.Render(fmt.Sprintf("keyaccordion  → %s  %d sounding", m.PortName, len(m.sounding)))

	// one cell per pitch class, lit when any octave of it sounds
	var classes [12]bool
	for n := range m.sounding {
		classes[n%12] = true
	}
	var keys strings.Builder
	for pc := 0; pc < 12; pc++ {
		n := layout.Note(pc)
		sym := m.Theme.Symbols.Silent
		style := dimStyle
		if classes[pc] {
			sym = m.Theme.Symbols.Sounding
			style = lipgloss.NewStyle().Foreground(m.Theme.PitchColor(n)).Bold(true)
		}
		keys.WriteString(style.Render(fmt.Sprintf("%c %-2s", sym, layout.PitchClass(n))))
		keys.WriteString(" ")
	}

	var names []string
	for _, n := range m.Sounding() {
		names = append(names, layout.Name(n))
	}
	notes := dimStyle.Render("-")
	if len(names) > 0 {
		notes = strings.Join(names, " ")
	}

	var hist []string
	for _, ev := range m.history {
		verb := "Releasing"
		if ev.Pressed {
			verb = "Playing"
		}
		hist = append(hist, dimStyle.Render(verb+" ")+
			lipgloss.NewStyle().Foreground(m.Theme.PitchColor(ev.Note)).Render(layout.PitchClass(ev.Note)))
	}

	help := dimStyle.Render("Press ESC to quit.")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(keys.String())
	out.WriteString("\n")
	out.WriteString(notes)
	out.WriteString("\n\n")
	if len(hist) > 0 {
		out.WriteString(strings.Join(hist, "\n"))
		out.WriteString("\n\n")
	}
	if m.ReleaseHint {
		out.WriteString(warnStyle.Render("Releasing keys only works in some terminals, like kitty."))
		out.WriteString("\n")
	}
	out.WriteString(help)

	return out.String()
}

// Display runs a bubbletea program that only renders; the session keeps
// reading keys itself.
type Display struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// Start launches the program on w.
func Start(m Model, w io.Writer) *Display {
	p := tea.NewProgram(m,
		tea.WithInput(nil),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)
	d := &Display{program: p, done: make(chan struct{})}
	go func() {
		defer close(d.done)
		if _, err := p.Run(); err != nil {
			debug.Log("tui", "program: %v", err)
		}
	}()
	return d
}

func (d *Display) Show(ev accordion.NoteEvent) {
	d.program.Send(NoteMsg(ev))
}

// SetReportsRelease updates the release hint once the input's capability is
// known.
func (d *Display) SetReportsRelease(ok bool) {
	d.program.Send(ReleaseReportMsg(ok))
}

// Stop ends the program and waits for it to restore the screen.
func (d *Display) Stop() {
	d.once.Do(func() {
		d.program.Send(QuitMsg{})
		<-d.done
	})
}
