// Package memctrl implements the memory timing engine: it turns one
// accepted read or write request into a precisely timed sequence of
// control-line assertions and bus-drive windows that satisfies the chip's
// datasheet contract at any clock frequency.
package memctrl

import (
	"fmt"
	"time"

	"github.com/chiplab/mrambridge/mram"
	"github.com/chiplab/mrambridge/sim"
)

// A TimingProfile is the cycle-count rendition of the chip's real-time
// timing contract at one clock frequency. It is computed once at
// configuration time and immutable afterwards.
type TimingProfile struct {
	WritePulseCycles int
	WriteTotalCycles int
	ReadAssertCycles int
	ReadTotalCycles  int
}

// NewTimingProfile derives a profile by rounding each real-time bound up
// to the next whole clock cycle.
func NewTimingProfile(freq sim.Freq, t mram.Timing) TimingProfile {
	p := TimingProfile{}

	p.WritePulseCycles = freq.CyclesAtLeast(t.WritePulse)

	// At least one recovery cycle after the strobe rises.
	p.WriteTotalCycles = freq.CyclesAtLeast(t.WriteCycle)
	if p.WriteTotalCycles < p.WritePulseCycles+1 {
		p.WriteTotalCycles = p.WritePulseCycles + 1
	}

	// The bus is sampled at the last assert cycle, which must fall
	// strictly after the chip's output delay has elapsed.
	p.ReadAssertCycles = freq.CyclesAtLeast(t.OutputEnableToValid) + 1

	p.ReadTotalCycles = freq.CyclesAtLeast(t.ReadCycle)
	if p.ReadTotalCycles < p.ReadAssertCycles+1 {
		p.ReadTotalCycles = p.ReadAssertCycles + 1
	}

	return p
}

// Validate proves at configuration time that the profile meets the
// real-time contract at the given frequency. This is the configuration
// side of the proof obligation; nothing is re-checked at run time.
func (p TimingProfile) Validate(freq sim.Freq, t mram.Timing) error {
	period := time.Duration(float64(time.Second) / float64(freq))

	if d := time.Duration(p.WritePulseCycles) * period; d < t.WritePulse {
		return fmt.Errorf(
			"write strobe %v is shorter than the required %v", d, t.WritePulse)
	}

	if d := time.Duration(p.WriteTotalCycles) * period; d < t.WriteCycle {
		return fmt.Errorf(
			"write cycle %v is shorter than the required %v", d, t.WriteCycle)
	}

	if p.WriteTotalCycles < p.WritePulseCycles+1 {
		return fmt.Errorf("write cycle leaves no recovery after the strobe")
	}

	sample := time.Duration(p.ReadAssertCycles-1) * period
	if sample < t.OutputEnableToValid {
		return fmt.Errorf(
			"read sample point %v is before the chip's output delay %v",
			sample, t.OutputEnableToValid)
	}

	if d := time.Duration(p.ReadTotalCycles) * period; d < t.ReadCycle {
		return fmt.Errorf(
			"read cycle %v is shorter than the required %v", d, t.ReadCycle)
	}

	if p.ReadTotalCycles < p.ReadAssertCycles+1 {
		return fmt.Errorf("read cycle leaves no recovery after the assert phase")
	}

	return nil
}
