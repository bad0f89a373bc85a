// Package system assembles the full board: a host-side serial endpoint,
// the bridge controller, and the memory device, all sharing one clock.
package system

import (
	"github.com/chiplab/mrambridge/bridge"
	"github.com/chiplab/mrambridge/memctrl"
	"github.com/chiplab/mrambridge/mram"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/uart"
	"github.com/chiplab/mrambridge/wiring"
)

// Comp is the whole simulated board as one ticking component. Every
// clocked element inside it advances once per tick, in a fixed order that
// models signal propagation through the board within one clock period.
type Comp struct {
	*sim.TickingComponent

	hostToCtrl *wiring.Line
	ctrlToHost *wiring.Line
	pins       *mram.Pins

	hostTX     *uart.Transmitter
	hostRX     *uart.Receiver
	ctrlRX     *uart.Receiver
	ctrlTX     *uart.Transmitter
	dispatcher *bridge.Dispatcher
	ctrl       *memctrl.Comp
	device     *mram.Device

	// Bytes the host wants to send, drained into hostTX as it frees up.
	cmdQueue sim.Buffer
	// Bytes recovered by the host-side receiver.
	replies sim.Buffer

	cycle uint64
}

// Tick advances the whole board by one clock cycle.
//
// The order matters. The transmitters drive their lines before the
// receivers sample them, the dispatcher consumes a decoded byte on the
// cycle it appears, and the device reacts to control lines one cycle after
// the controller changed them, which is how the strobe-width and
// output-valid timing of the profile is observed on the pins.
func (c *Comp) Tick() bool {
	c.cycle++

	progress := c.feedHostTX()

	if c.hostTX.Tick() {
		progress = true
	}
	if c.ctrlRX.Tick() {
		progress = true
	}
	if c.dispatcher.Tick() {
		progress = true
	}
	if c.device.Tick() {
		progress = true
	}
	if c.ctrl.Tick() {
		progress = true
	}
	if c.ctrlTX.Tick() {
		progress = true
	}
	if c.hostRX.Tick() {
		progress = true
	}

	if c.hostRX.ByteValid() {
		c.replies.Push(c.hostRX.Byte())
		progress = true
	}

	return progress
}

func (c *Comp) feedHostTX() bool {
	if c.hostTX.Busy() || c.cmdQueue.Size() == 0 {
		return false
	}

	c.hostTX.Send(c.cmdQueue.Pop().(byte))

	return true
}

// EnqueueByte queues one byte for transmission from the host side and
// makes sure the board is scheduled to run. TickLater restarts the
// clock even when the board went idle at the current time.
func (c *Comp) EnqueueByte(b byte) {
	c.cmdQueue.Push(b)
	c.TickLater()
}

// TakeReply pops the next byte the host received, if any.
func (c *Comp) TakeReply() (byte, bool) {
	if c.replies.Size() == 0 {
		return 0, false
	}

	return c.replies.Pop().(byte), true
}

// PendingReplies returns the number of received bytes the host has not
// taken yet.
func (c *Comp) PendingReplies() int {
	return c.replies.Size()
}

// Cycle returns the number of clock cycles the board has run.
func (c *Comp) Cycle() uint64 {
	return c.cycle
}

// Device returns the simulated memory chip.
func (c *Comp) Device() *mram.Device {
	return c.device
}

// Controller returns the memory timing engine.
func (c *Comp) Controller() *memctrl.Comp {
	return c.ctrl
}

// Dispatcher returns the command decoder.
func (c *Comp) Dispatcher() *bridge.Dispatcher {
	return c.dispatcher
}

// Pins returns the wires between the controller and the memory chip.
func (c *Comp) Pins() *mram.Pins {
	return c.pins
}
