package uart

import (
	"github.com/chiplab/mrambridge/wiring"
)

type rxState int

const (
	rxIdle rxState = iota
	rxStart
	rxData
	rxStop
	rxValid
	rxError
)

// A Receiver recovers bytes from an asynchronous serial line. It samples
// the filtered line at bit centers, so it tolerates modest deviation
// between the sender's and its own notion of the bit period. A corrupted
// byte is dropped silently; the receiver re-arms once the line returns to
// idle.
type Receiver struct {
	cfg    Config
	line   *wiring.Line
	filter *LineFilter

	state    rxState
	cycles   int
	bitIndex int
	shift    byte

	byte_     byte
	byteValid bool
}

// NewReceiver creates a receiver that listens on the given line.
func NewReceiver(cfg Config, line *wiring.Line) *Receiver {
	return &Receiver{
		cfg:    cfg,
		line:   line,
		filter: NewLineFilter(true),
	}
}

// Byte returns the most recently recovered byte. It is meaningful only
// while ByteValid is true.
func (r *Receiver) Byte() byte {
	return r.byte_
}

// ByteValid is true for exactly one cycle per recovered byte. The consumer
// must capture the byte on that cycle; it is not held.
func (r *Receiver) ByteValid() bool {
	return r.byteValid
}

// Tick advances the receiver by one clock cycle. It reports true while the
// receiver is mid-frame or the line is active.
func (r *Receiver) Tick() bool {
	level := r.filter.Step(r.line.Get())
	r.byteValid = false

	switch r.state {
	case rxIdle:
		if !level {
			// Candidate start bit.
			r.state = rxStart
			r.cycles = 0
		}
	case rxStart:
		if r.cycles < r.cfg.HalfBitCycles() {
			r.cycles++
			break
		}

		if level {
			// The start edge was a glitch.
			r.state = rxError
			break
		}

		r.state = rxData
		r.cycles = 0
		r.bitIndex = 0
		r.shift = 0
	case rxData:
		r.cycles++
		if r.cycles < r.cfg.BitCycles() {
			break
		}
		r.cycles = 0

		// LSB first.
		if level {
			r.shift |= 1 << r.bitIndex
		}

		r.bitIndex++
		if r.bitIndex == 8 {
			r.state = rxStop
		}
	case rxStop:
		r.cycles++
		if r.cycles < r.cfg.BitCycles() {
			break
		}

		if level {
			r.state = rxValid
		} else {
			r.state = rxError
		}
	case rxValid:
		r.byte_ = r.shift
		r.byteValid = true
		r.state = rxIdle
	case rxError:
		// Park until the line returns to idle. The partial byte is
		// discarded.
		if level {
			r.state = rxIdle
		}
	}

	return r.state != rxIdle || !level
}
