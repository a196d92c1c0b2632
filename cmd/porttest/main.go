package main

import (
	"fmt"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"keyaccordion/accordion"
	"keyaccordion/input"
	"keyaccordion/layout"
	kamidi "keyaccordion/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "layout":
		printLayout()
	case "scale":
		err = playScale()
	case "keys":
		err = echoKeys()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("keyaccordion port tests")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list    - List all MIDI ports")
	fmt.Println("  layout  - Print the key layout with MIDI bytes")
	fmt.Println("  scale   - Play every layout note on the virtual port")
	fmt.Println("  keys    - Echo decoded key events (ESC to stop)")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func printLayout() {
	for _, e := range layout.Default().Entries() {
		on := kamidi.Encode(accordion.NoteEvent{Pressed: true, Note: e.Note, Velocity: accordion.Velocity})
		off := kamidi.Encode(accordion.NoteEvent{Note: e.Note, Velocity: accordion.Velocity})
		fmt.Printf("  %-2s -> %-4s on % X  off % X\n", e.Key, layout.Name(e.Note), on, off)
	}
}

func playScale() error {
	out, err := kamidi.OpenVirtual(kamidi.DefaultPortName)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Opened %q, connect a synth now...\n", out.Name())
	time.Sleep(2 * time.Second)

	var last layout.Note
	for i, e := range layout.Default().Entries() {
		if i > 0 && e.Note == last {
			continue
		}
		last = e.Note
		fmt.Printf("  %s\n", layout.Name(e.Note))
		on := accordion.NoteEvent{Pressed: true, Note: e.Note, Velocity: accordion.Velocity}
		if err := out.Send(on); err != nil {
			return err
		}
		time.Sleep(150 * time.Millisecond)
		on.Pressed = false
		if err := out.Send(on); err != nil {
			return err
		}
	}
	fmt.Println("Done")
	return nil
}

func echoKeys() error {
	t, err := input.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer t.Close()

	fmt.Print("Press keys, ESC to stop\r\n")
	for {
		ev, err := t.Next()
		if err != nil {
			return err
		}
		fmt.Printf("  %-16s release reporting: %v\r\n", ev, t.ReportsRelease())
		if ev.Terminates() {
			return nil
		}
	}
}
