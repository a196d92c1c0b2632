package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"keyaccordion/accordion"
	"keyaccordion/config"
	"keyaccordion/debug"
	"keyaccordion/display"
	"keyaccordion/input"
	"keyaccordion/layout"
	"keyaccordion/midi"
	"keyaccordion/theme"
	"keyaccordion/tui"
)

const banner = "Use your keyboard as an accordion!\r\n" +
	"Releasing keys only works in some terminals, like kitty.\r\n" +
	"Press ESC to quit.\r\n"

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred cleanup, the terminal restore in
// particular, happens before the process exits.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 1
	}

	list := flag.Bool("list", false, "list MIDI output ports and exit")
	showLayout := flag.Bool("layout", false, "print the key layout and exit")
	dryRun := flag.Bool("dry-run", false, "do not open a MIDI port, only show notes")
	replay := flag.String("replay", "", "read key events from `file` instead of the keyboard")
	saveCfg := flag.Bool("save", false, "write the effective settings to the config file")
	flag.StringVar(&cfg.PortName, "port", cfg.PortName, "name of the virtual MIDI output port")
	flag.StringVar(&cfg.ConnectTo, "connect", cfg.ConnectTo, "send to an existing MIDI output port instead")
	inputFlag := flag.String("input", string(cfg.Input), "input backend: terminal or evdev")
	flag.StringVar(&cfg.EvdevPath, "device", cfg.EvdevPath, "evdev keyboard device (default: first keyboard found)")
	flag.BoolVar(&cfg.Grab, "grab", cfg.Grab, "grab the evdev keyboard exclusively")
	displayMode := flag.String("display", string(cfg.Display), "display: lines, tui or off")
	flag.StringVar(&cfg.Palette, "palette", cfg.Palette, "GIMP .gpl palette for pitch colors")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write a debug log to "+debug.DefaultPath())
	flag.Parse()

	cfg.Input = config.InputBackend(*inputFlag)
	cfg.Display = config.DisplayMode(*displayMode)

	switch {
	case *list:
		return listPorts()
	case *showLayout:
		printLayout(os.Stdout)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *saveCfg {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: save config: %v\n", err)
			return 1
		}
	}

	if cfg.Debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	th := theme.New(nil)
	if cfg.Palette != "" {
		palette, err := theme.LoadGPL(cfg.Palette)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		th = theme.New(palette)
	}

	sink, portName, closeSink, err := openSink(cfg, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeSink()

	src, err := openSource(cfg, *replay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer src.Close()

	// evdev reads the device directly; raw mode keeps the keys it sees from
	// echoing, and they are dropped before the shell gets the terminal back.
	if cfg.Input == config.InputEvdev && term.IsTerminal(int(os.Stdin.Fd())) {
		restore, err := input.RawModeDiscard(int(os.Stdin.Fd()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer restore()
	}

	var displays []accordion.Display
	var stopTUI func()
	switch cfg.Display {
	case config.DisplayLines:
		fmt.Print(banner)
		displays = append(displays, display.NewLines(os.Stdout, th))
	case config.DisplayTUI:
		d := tui.Start(tui.NewModel(th, portName, !src.ReportsRelease()), os.Stdout)
		stopTUI = d.Stop
		displays = append(displays, d)
		if !src.ReportsRelease() {
			displays = append(displays, &releaseWatch{src: src, report: d.SetReportsRelease})
		}
	case config.DisplayOff:
		fmt.Print(banner)
	}
	if rec, ok := sink.(*midi.Recorder); ok {
		defer func() {
			fmt.Printf("%d MIDI messages recorded\r\n", len(rec.Messages()))
		}()
	}

	debug.Log("main", "session start: port=%q input=%s display=%s", portName, cfg.Input, cfg.Display)
	stats, err := accordion.Run(context.Background(), src, sink, displays...)
	if stopTUI != nil {
		stopTUI()
	}
	debug.Log("main", "session end: keys=%d on=%d off=%d sink failures=%d",
		stats.Keys, stats.NotesOn, stats.NotesOff, stats.SinkFailures)

	if stats.SinkFailures > 0 {
		fmt.Printf("%d MIDI messages could not be sent\r\n", stats.SinkFailures)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\r\n", err)
		return 1
	}
	return 0
}

// releaseWatch reports to the view once the source turns out to deliver key
// releases. Terminals confirm it ahead of the first key, so the first note
// is late enough to look.
type releaseWatch struct {
	src    interface{ ReportsRelease() bool }
	report func(bool)
	done   bool
}

func (w *releaseWatch) Show(accordion.NoteEvent) {
	if w.done || !w.src.ReportsRelease() {
		return
	}
	w.done = true
	debug.Log("main", "input reports key releases")
	w.report(true)
}

func openSink(cfg *config.Config, dryRun bool) (accordion.Sink, string, func(), error) {
	if dryRun {
		return &midi.Recorder{}, "dry run", func() {}, nil
	}

	var (
		out *midi.Out
		err error
	)
	if cfg.ConnectTo != "" {
		out, err = midi.OpenNamed(cfg.ConnectTo)
	} else {
		out, err = midi.OpenVirtual(cfg.PortName)
	}
	if err != nil {
		return nil, "", nil, err
	}
	return out, out.Name(), func() { out.Close() }, nil
}

func openSource(cfg *config.Config, replay string) (input.Source, error) {
	if replay != "" {
		f, err := os.Open(replay)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return input.ParseScript(f)
	}

	switch cfg.Input {
	case config.InputEvdev:
		path := cfg.EvdevPath
		if path == "" {
			keyboards, err := input.FindKeyboards()
			if err != nil {
				return nil, err
			}
			if len(keyboards) == 0 {
				return nil, errors.New("no evdev keyboard found (is your user in the input group?)")
			}
			path = keyboards[0].Path
			debug.Log("main", "using keyboard %s (%s)", keyboards[0].Path, keyboards[0].Name)
		}
		return input.OpenEvdev(path, cfg.Grab)
	default:
		return input.OpenTerminal(os.Stdin, os.Stdout)
	}
}

func listPorts() int {
	names, err := midi.OutPorts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, midi.ErrPortsTimeout) {
			fmt.Fprintln(os.Stderr, "Fix: sudo killall coreaudiod midiserver")
		}
		return 1
	}
	if len(names) == 0 {
		fmt.Println("No MIDI output ports")
		return 0
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return 0
}

func printLayout(w io.Writer) {
	m := layout.Default()
	var last layout.Note
	for i, e := range m.Entries() {
		if i > 0 && e.Note == last {
			continue
		}
		last = e.Note
		fmt.Fprintf(w, "%-4s %3d  ", layout.Name(e.Note), e.Note)
		for j, k := range m.KeysFor(e.Note) {
			if j > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, string(k))
		}
		fmt.Fprintln(w)
	}
}
