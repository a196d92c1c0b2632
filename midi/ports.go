package midi

import (
	"errors"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"keyaccordion/debug"
)

// ErrPortsTimeout is returned when the MIDI backend does not answer in time.
var ErrPortsTimeout = errors.New("midi: listing ports timed out")

const portsTimeout = 3 * time.Second

// OutPorts lists the output port names. CoreMIDI can hang, so the query runs
// in a goroutine and gives up after a few seconds.
func OutPorts() ([]string, error) {
	ch := make(chan []string, 1)
	go func() {
		var names []string
		for _, p := range gomidi.GetOutPorts() {
			names = append(names, p.String())
		}
		ch <- names
	}()

	select {
	case names := <-ch:
		debug.Log("midi", "%d output ports", len(names))
		return names, nil
	case <-time.After(portsTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrPortsTimeout
	}
}
