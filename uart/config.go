// Package uart implements the serial framing layer of the bridge: a
// receiver that recovers bytes from an asynchronous serial line and a
// transmitter that emits them, both advanced one step per clock cycle.
package uart

import (
	"log"

	"github.com/chiplab/mrambridge/sim"
)

// DefaultBaudRate is the line rate the bridge runs at.
const DefaultBaudRate = 115200

// Config carries the serial line parameters. The frame format is fixed:
// 1 start bit, 8 data bits LSB first, 1 stop bit, no parity.
type Config struct {
	Freq     sim.Freq
	BaudRate int
}

// BitCycles returns the number of clock cycles one serial bit occupies.
func (c Config) BitCycles() int {
	cycles := c.Freq.CyclesPerBit(c.BaudRate)
	if cycles < 8 {
		log.Panicf(
			"clock too slow for baud rate: %d cycles per bit", cycles)
	}

	return cycles
}

// HalfBitCycles returns the number of cycles to wait after a start edge
// before re-sampling at the center of the start bit.
func (c Config) HalfBitCycles() int {
	return (c.BitCycles()+1)/2 - 1
}
