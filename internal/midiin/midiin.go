// Package midiin turns MIDI note messages into note events for the synth.
// It is input-side glue: the core never depends on a MIDI port existing.
package midiin

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Handler receives decoded note events on the MIDI driver's thread.
// A note-on with velocity 0 arrives as on == false.
type Handler func(note int, on bool)

type Context struct {
	driver  *rtmididrv.Driver
	in      drivers.In
	stop    func()
	handler Handler
}

// NewContext opens the MIDI driver. A machine without one is not an error;
// Ports just comes back empty and Open fails.
func NewContext(h Handler) *Context {
	c := &Context{handler: h}
	// driver == nil means no MIDI available, which is fine
	c.driver, _ = rtmididrv.New()
	return c
}

// Ports lists the names of the available MIDI input ports.
func (c *Context) Ports() []string {
	if c.driver == nil {
		return nil
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

// Open starts listening on the input port at the given index.
func (c *Context) Open(index int) error {
	ins, err := c.inputs()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(ins) {
		return fmt.Errorf("MIDI port %d out of range (%d available)", index, len(ins))
	}
	return c.listen(ins[index])
}

// OpenByName starts listening on the first input port whose name starts with
// prefix. An empty prefix matches the first port.
func (c *Context) OpenByName(prefix string) error {
	ins, err := c.inputs()
	if err != nil {
		return err
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), prefix) {
			return c.listen(in)
		}
	}
	return fmt.Errorf("no MIDI input port starting with %q", prefix)
}

func (c *Context) inputs() ([]drivers.In, error) {
	if c.driver == nil {
		return nil, errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		return nil, errors.New("no MIDI input ports")
	}
	return ins, nil
}

func (c *Context) listen(in drivers.In) error {
	if c.in != nil {
		c.closeInput()
	}
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(in, c.handleMessage)
	if err != nil {
		in.Close()
		return err
	}
	c.in = in
	c.stop = stop
	return nil
}

func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		c.handler(int(key), true)
	case msg.GetNoteEnd(&channel, &key):
		c.handler(int(key), false)
	}
}

func (c *Context) closeInput() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.in != nil {
		c.in.Close()
		c.in = nil
	}
}

func (c *Context) Close() {
	c.closeInput()
	if c.driver != nil {
		c.driver.Close()
	}
}
