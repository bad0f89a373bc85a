// Package mram models the attached parallel-bus MRAM chip: its pinout, its
// word-granular non-volatile storage, and a behavioral device that honors
// and checks the datasheet timing contract on every access cycle.
package mram

import "time"

// AddrBits is the width of the address bus.
const AddrBits = 18

// DataBits is the width of the data bus.
const DataBits = 16

// NumWords is the number of 16-bit words the chip holds (256K x 16).
const NumWords = 1 << AddrBits

// AddrMask masks a value to the valid address range.
const AddrMask = NumWords - 1

// Timing carries the datasheet timing constants of the chip. All values
// are real-time bounds; the controller converts them to cycle counts at
// configuration time.
type Timing struct {
	// WritePulse is the minimum duration the write strobe must stay low.
	WritePulse time.Duration

	// WriteCycle is the minimum duration of a complete write cycle,
	// including recovery after the strobe rises.
	WriteCycle time.Duration

	// OutputEnableToValid is the maximum delay from output-enable falling
	// to the chip driving valid data on the bus.
	OutputEnableToValid time.Duration

	// ReadCycle is the minimum duration of a complete read cycle.
	ReadCycle time.Duration
}

// AS3004316 returns the timing of the 4Mbit AS3004316 class of parts.
func AS3004316() Timing {
	return Timing{
		WritePulse:          18 * time.Nanosecond,
		WriteCycle:          35 * time.Nanosecond,
		OutputEnableToValid: 15 * time.Nanosecond,
		ReadCycle:           35 * time.Nanosecond,
	}
}
