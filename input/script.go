package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"keyaccordion/accordion"
	"keyaccordion/layout"
)

// Script replays a fixed list of events, then reports io.EOF.
type Script struct {
	events []accordion.KeyEvent
}

func NewScript(events ...accordion.KeyEvent) *Script {
	return &Script{events: events}
}

// ParseScript reads one event per line: "press q", "release q", "repeat q",
// optionally with a "ctrl+" prefix on the key ("press ctrl+c"). Blank lines and
// lines starting with # are skipped. Keys are written as they appear in the
// layout, "esc" for Escape and "space" for the space bar.
func ParseScript(r io.Reader) (*Script, error) {
	var events []accordion.KeyEvent
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"<press|release|repeat> <key>\", got %q", lineNo, line)
		}

		var ev accordion.KeyEvent
		switch fields[0] {
		case "press":
			ev.Kind = accordion.Press
		case "release":
			ev.Kind = accordion.Release
		case "repeat":
			ev.Kind = accordion.Repeat
		default:
			return nil, fmt.Errorf("line %d: unknown event kind %q", lineNo, fields[0])
		}

		key := fields[1]
		if rest, ok := strings.CutPrefix(key, "ctrl+"); ok && rest != "" {
			ev.Ctrl = true
			key = rest
		}
		if key == "space" {
			key = " "
		}
		ev.ID = layout.KeyID(key)
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Script{events: events}, nil
}

func (s *Script) Next() (accordion.KeyEvent, error) {
	if len(s.events) == 0 {
		return accordion.KeyEvent{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *Script) ReportsRelease() bool { return true }

func (s *Script) Close() error {
	s.events = nil
	return nil
}
