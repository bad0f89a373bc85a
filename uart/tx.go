package uart

import (
	"log"

	"github.com/chiplab/mrambridge/wiring"
)

type txState int

const (
	txIdle txState = iota
	txStart
	txData
	txStop
)

// A Transmitter emits one byte per Send call onto a serial line. The
// caller must check Busy before sending; Send while busy is a contract
// violation, not a queueing request.
type Transmitter struct {
	cfg  Config
	line *wiring.Line

	state    txState
	cycles   int
	bitIndex int
	shift    byte

	busy    bool
	pending bool
}

// NewTransmitter creates a transmitter that drives the given line. The
// line is driven to the idle (high) level immediately.
func NewTransmitter(cfg Config, line *wiring.Line) *Transmitter {
	line.Set(true)

	return &Transmitter{
		cfg:  cfg,
		line: line,
	}
}

// Busy reports whether a frame is in flight. It is asserted from the
// moment Send accepts a byte through the end of the stop bit.
func (t *Transmitter) Busy() bool {
	return t.busy
}

// Send accepts one byte for transmission. The frame starts on the next
// clock cycle.
func (t *Transmitter) Send(b byte) {
	if t.busy {
		log.Panic("uart: Send while transmitter is busy")
	}

	t.shift = b
	t.busy = true
	t.pending = true
}

// Tick advances the transmitter by one clock cycle. It reports true while
// a frame is in flight.
func (t *Transmitter) Tick() bool {
	switch t.state {
	case txIdle:
		if !t.pending {
			t.line.Set(true)
			return false
		}

		t.pending = false
		t.state = txStart
		t.cycles = 0
		t.line.Set(false)
	case txStart:
		t.cycles++
		if t.cycles < t.cfg.BitCycles() {
			break
		}

		t.state = txData
		t.cycles = 0
		t.bitIndex = 0
		t.line.Set(t.shift&1 != 0)
	case txData:
		t.cycles++
		if t.cycles < t.cfg.BitCycles() {
			break
		}
		t.cycles = 0

		t.bitIndex++
		if t.bitIndex == 8 {
			t.state = txStop
			t.line.Set(true)
			break
		}

		t.line.Set(t.shift&(1<<t.bitIndex) != 0)
	case txStop:
		t.cycles++
		if t.cycles < t.cfg.BitCycles() {
			break
		}

		t.state = txIdle
		t.busy = false
		t.line.Set(true)
	}

	return true
}
