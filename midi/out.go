package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"keyaccordion/accordion"
	"keyaccordion/debug"
)

// DefaultPortName is the name other applications see for the virtual port.
const DefaultPortName = "Software defined accordion"

// Out sends note events to a MIDI output port.
type Out struct {
	port drivers.Out
	drv  *rtmididrv.Driver // set when Out owns the driver
	send func(msg gomidi.Message) error
	once sync.Once
}

// OpenVirtual creates a virtual output port other applications can connect to.
func OpenVirtual(name string) (*Out, error) {
	if name == "" {
		name = DefaultPortName
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	port, err := drv.OpenVirtualOut(name)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("open virtual port %q: %w", name, err)
	}
	o, err := NewOut(port)
	if err != nil {
		port.Close()
		drv.Close()
		return nil, err
	}
	o.drv = drv
	debug.Log("midi", "virtual port %q open", name)
	return o, nil
}

// OpenNamed connects to an existing output port by name instead of creating
// a virtual one.
func OpenNamed(name string) (*Out, error) {
	port, err := gomidi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("find output %q: %w", name, err)
	}
	o, err := NewOut(port)
	if err != nil {
		return nil, err
	}
	debug.Log("midi", "output %q open", port.String())
	return o, nil
}

// NewOut wraps an already created port.
func NewOut(port drivers.Out) (*Out, error) {
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &Out{port: port, send: send}, nil
}

// Send writes ev as a three-byte channel voice message.
func (o *Out) Send(ev accordion.NoteEvent) error {
	msg := Message(ev)
	debug.Log("midi", "send % x", msg.Bytes())
	if err := o.send(msg); err != nil {
		return fmt.Errorf("send %s: %w", ev, err)
	}
	return nil
}

func (o *Out) Name() string {
	return o.port.String()
}

// Close closes the port, and the driver when Out created it.
func (o *Out) Close() error {
	var err error
	o.once.Do(func() {
		err = o.port.Close()
		if o.drv != nil {
			if derr := o.drv.Close(); err == nil {
				err = derr
			}
		}
		debug.Log("midi", "output closed")
	})
	return err
}
