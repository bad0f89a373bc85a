package bridge

import (
	"github.com/chiplab/mrambridge/memctrl"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/uart"
)

// HookPosCommandStart is triggered when an opcode byte is accepted.
var HookPosCommandStart = &sim.HookPos{Name: "CommandStart"}

// HookPosCommandDone is triggered when a command finishes, after the write
// completes or the last reply byte has been handed to the transmitter.
var HookPosCommandDone = &sim.HookPos{Name: "CommandDone"}

// Command is the item carried by the dispatcher hooks.
type Command struct {
	Opcode byte
	Addr   uint32
	Data   uint16
}

type dispatcherState int

const (
	dsIdle dispatcherState = iota
	dsAddrHigh
	dsAddrMid
	dsAddrLow
	dsWriteDataHigh
	dsWriteDataLow
	dsWriteExec
	dsReadExec
	dsReadSendHigh
	dsReadSendLow
)

// Dispatcher decodes command frames from the receiver, drives the memory
// controller, and queues read replies on the transmitter. It is a pure
// clocked element advanced by the owning component.
type Dispatcher struct {
	sim.HookableBase

	rx   *uart.Receiver
	tx   *uart.Transmitter
	ctrl *memctrl.Comp

	state   dispatcherState
	opcode  byte
	addr    uint32
	data    uint16
	issued  bool
	replyHi byte
	replyLo byte

	// Cycles allowed between consecutive bytes of a frame before the
	// partial frame is abandoned. 0 disables the timeout.
	timeoutCycles int
	gapCycles     int

	unknownOpcodes uint64
	timeouts       uint64
}

// NewDispatcher creates a dispatcher connected to the given receiver,
// transmitter, and memory controller. timeoutCycles bounds the inter-byte
// gap within a frame; pass 0 to wait forever.
func NewDispatcher(
	rx *uart.Receiver,
	tx *uart.Transmitter,
	ctrl *memctrl.Comp,
	timeoutCycles int,
) *Dispatcher {
	return &Dispatcher{
		rx:            rx,
		tx:            tx,
		ctrl:          ctrl,
		timeoutCycles: timeoutCycles,
	}
}

// UnknownOpcodes returns the number of bytes discarded in the idle state
// because they matched no command opcode.
func (d *Dispatcher) UnknownOpcodes() uint64 {
	return d.unknownOpcodes
}

// Timeouts returns the number of partial frames abandoned because the next
// byte did not arrive in time.
func (d *Dispatcher) Timeouts() uint64 {
	return d.timeouts
}

// Tick advances the dispatcher by one clock cycle and reports whether any
// state changed.
func (d *Dispatcher) Tick() bool {
	progress := false

	b, valid := d.rx.Byte(), d.rx.ByteValid()
	if valid {
		d.gapCycles = 0
	}

	switch d.state {
	case dsIdle:
		progress = d.tickIdle(b, valid)
	case dsAddrHigh:
		if valid {
			d.addr = uint32(b&0x03) << 16
			d.state = dsAddrMid
			progress = true
		}
	case dsAddrMid:
		if valid {
			d.addr |= uint32(b) << 8
			d.state = dsAddrLow
			progress = true
		}
	case dsAddrLow:
		if valid {
			d.addr |= uint32(b)
			if d.opcode == OpWrite || d.opcode == OpWriteLower {
				d.state = dsWriteDataHigh
			} else {
				d.state = dsReadExec
				d.issued = false
			}
			progress = true
		}
	case dsWriteDataHigh:
		if valid {
			d.data = uint16(b) << 8
			d.state = dsWriteDataLow
			progress = true
		}
	case dsWriteDataLow:
		if valid {
			d.data |= uint16(b)
			d.state = dsWriteExec
			d.issued = false
			progress = true
		}
	case dsWriteExec:
		progress = d.tickWriteExec()
	case dsReadExec:
		progress = d.tickReadExec()
	case dsReadSendHigh:
		if !d.tx.Busy() {
			d.tx.Send(d.replyHi)
			d.state = dsReadSendLow
			progress = true
		}
	case dsReadSendLow:
		if !d.tx.Busy() {
			d.tx.Send(d.replyLo)
			d.state = dsIdle
			d.commandDone()
			progress = true
		}
	}

	if d.tickTimeout() {
		progress = true
	}

	return progress
}

func (d *Dispatcher) tickIdle(b byte, valid bool) bool {
	if !valid {
		return false
	}

	switch b {
	case OpWrite, OpWriteLower, OpRead, OpReadLower:
		d.opcode = b
		d.addr = 0
		d.data = 0
		d.state = dsAddrHigh
		d.invokeHook(HookPosCommandStart)
	default:
		// Not a known opcode. Stay idle so the stream resynchronizes
		// on the next opcode byte.
		d.unknownOpcodes++
	}

	return true
}

func (d *Dispatcher) tickWriteExec() bool {
	if !d.issued {
		d.ctrl.WriteRequest(d.addr, d.data)
		d.issued = true
		return true
	}

	if d.ctrl.WriteDone() {
		d.state = dsIdle
		d.commandDone()
		return true
	}

	return false
}

func (d *Dispatcher) tickReadExec() bool {
	if !d.issued {
		d.ctrl.ReadRequest(d.addr)
		d.issued = true
		return true
	}

	if d.ctrl.ReadDone() {
		d.data = d.ctrl.ReadData()
		d.replyHi = byte(d.data >> 8)
		d.replyLo = byte(d.data)
		d.state = dsReadSendHigh
		return true
	}

	return false
}

// tickTimeout runs the inter-byte watchdog. It only arms while the
// dispatcher is waiting for more bytes of a partial frame, not while a
// transaction or reply is in flight.
func (d *Dispatcher) tickTimeout() bool {
	if d.timeoutCycles == 0 {
		return false
	}

	switch d.state {
	case dsAddrHigh, dsAddrMid, dsAddrLow, dsWriteDataHigh, dsWriteDataLow:
	default:
		d.gapCycles = 0
		return false
	}

	d.gapCycles++
	if d.gapCycles >= d.timeoutCycles {
		d.state = dsIdle
		d.gapCycles = 0
		d.timeouts++
	}

	return true
}

func (d *Dispatcher) commandDone() {
	d.invokeHook(HookPosCommandDone)
}

func (d *Dispatcher) invokeHook(pos *sim.HookPos) {
	if d.NumHooks() == 0 {
		return
	}

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    pos,
		Item:   Command{Opcode: d.opcode, Addr: d.addr, Data: d.data},
	})
}
