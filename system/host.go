package system

import (
	"fmt"

	"github.com/chiplab/mrambridge/bridge"
	"github.com/chiplab/mrambridge/sim"
)

// Host is the test-equipment view of the board: it talks to the bridge
// over the serial line and blocks, in simulated time, until the board goes
// quiet again. It is the programmatic equivalent of a terminal attached to
// the serial port.
type Host struct {
	engine sim.Engine
	board  *Comp
}

// NewHost creates a host attached to a board.
func NewHost(engine sim.Engine, board *Comp) *Host {
	return &Host{engine: engine, board: board}
}

// Board returns the attached board.
func (h *Host) Board() *Comp {
	return h.board
}

// SendBytes queues raw bytes on the serial line and runs the simulation
// until no component has work left.
func (h *Host) SendBytes(data []byte) error {
	for _, b := range data {
		h.board.EnqueueByte(b)
	}

	return h.engine.Run()
}

// WriteWord writes one 16-bit word through the bridge.
func (h *Host) WriteWord(addr uint32, data uint16) error {
	return h.SendBytes(bridge.WriteFrame(addr, data))
}

// ReadWord reads one 16-bit word through the bridge. The reply arrives
// high byte first.
func (h *Host) ReadWord(addr uint32) (uint16, error) {
	if err := h.SendBytes(bridge.ReadFrame(addr)); err != nil {
		return 0, err
	}

	hi, ok := h.board.TakeReply()
	if !ok {
		return 0, fmt.Errorf("no reply to read of 0x%05X", addr)
	}

	lo, ok := h.board.TakeReply()
	if !ok {
		return 0, fmt.Errorf("truncated reply to read of 0x%05X", addr)
	}

	return uint16(hi)<<8 | uint16(lo), nil
}
