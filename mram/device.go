package mram

import (
	"log"
	"time"

	"github.com/chiplab/mrambridge/sim"
)

// A TimingViolation records a controller access that broke the datasheet
// contract. The device keeps serving such accesses; tests assert that no
// violation was recorded.
type TimingViolation struct {
	Cycle  uint64
	Op     string
	Reason string
}

// A Device is a behavioral model of the MRAM chip. It samples its pins
// once per clock cycle, commits writes on the rising edge of the write
// strobe, and drives the shared data bus during reads once the
// output-enable-to-valid delay has elapsed.
//
// The device never drives the bus while the write strobe is low; together
// with the controller never driving during reads, this is the structural
// guarantee that the two bus drivers cannot overlap.
type Device struct {
	name    string
	freq    sim.Freq
	timing  Timing
	pins    *Pins
	storage *Storage

	cycle uint64

	// Write strobe tracking.
	strobeActive bool
	strobeCycles int
	strobeAddr   uint32
	addrStable   bool
	latchedData  uint16
	dataSeen     bool

	// Read tracking.
	oeElapsed int
	readAddr  uint32
	driving   bool

	lastAccessStart uint64
	haveAccessed    bool

	violations []TimingViolation
}

// NewDevice creates a device on the given pins, backed by the given
// storage. A nil storage allocates a full-capacity one.
func NewDevice(
	name string,
	freq sim.Freq,
	timing Timing,
	pins *Pins,
	storage *Storage,
) *Device {
	if storage == nil {
		storage = NewStorage(NumWords)
	}

	return &Device{
		name:    name,
		freq:    freq,
		timing:  timing,
		pins:    pins,
		storage: storage,
	}
}

// Storage returns the backing storage of the device.
func (d *Device) Storage() *Storage {
	return d.storage
}

// Violations returns every timing-contract violation observed so far.
func (d *Device) Violations() []TimingViolation {
	return d.violations
}

// PowerCycle drops all in-flight latch and bus state, as if the board was
// power cycled. The storage content persists: the array is magnetic, not
// charge based.
func (d *Device) PowerCycle() {
	if d.driving {
		d.pins.Data.Release(d.name)
	}

	d.strobeActive = false
	d.oeElapsed = 0
	d.driving = false
	d.haveAccessed = false
}

// Tick advances the device by one clock cycle. It reports true while the
// chip is selected or still driving the bus.
func (d *Device) Tick() bool {
	d.cycle++

	selected := !d.pins.ChipEnable.Get()
	writeStrobe := !d.pins.WriteEnable.Get()
	outputEnable := !d.pins.OutputEnable.Get()
	addr := d.pins.Addr.Get()

	d.tickWrite(selected, writeStrobe, addr)
	d.tickRead(selected, writeStrobe, outputEnable, addr)

	return selected || d.strobeActive || d.driving
}

func (d *Device) tickWrite(selected, writeStrobe bool, addr uint32) {
	if selected && writeStrobe {
		if !d.strobeActive {
			d.beginStrobe(addr)
		}

		d.strobeCycles++

		if addr != d.strobeAddr {
			d.addrStable = false
		}

		if v, ok := d.pins.Data.Sample(); ok {
			d.latchedData = uint16(v)
			d.dataSeen = true
		}

		return
	}

	if d.strobeActive {
		d.strobeActive = false
		d.commitWrite()
	}
}

func (d *Device) beginStrobe(addr uint32) {
	d.checkAccessInterval("write", d.timing.WriteCycle)

	d.strobeActive = true
	d.strobeCycles = 0
	d.strobeAddr = addr
	d.addrStable = true
	d.dataSeen = false
}

func (d *Device) commitWrite() {
	minCycles := d.freq.CyclesAtLeast(d.timing.WritePulse)

	switch {
	case d.strobeCycles < minCycles:
		d.violate("write", "write strobe shorter than datasheet minimum")
	case !d.addrStable:
		d.violate("write", "address changed while the write strobe was low")
	case !d.dataSeen:
		d.violate("write", "data bus never driven during the write strobe")
	default:
		err := d.storage.Write(d.strobeAddr, d.latchedData)
		if err != nil {
			log.Panic(err)
		}
	}
}

func (d *Device) tickRead(selected, writeStrobe, outputEnable bool, addr uint32) {
	reading := selected && !writeStrobe && outputEnable

	if !reading {
		if d.driving {
			d.pins.Data.Release(d.name)
			d.driving = false
		}
		d.oeElapsed = 0

		return
	}

	if d.oeElapsed == 0 {
		d.checkAccessInterval("read", d.timing.ReadCycle)
		d.readAddr = addr
	}

	if addr != d.readAddr {
		// A new address restarts the output delay.
		if d.driving {
			d.pins.Data.Release(d.name)
			d.driving = false
		}
		d.readAddr = addr
		d.oeElapsed = 0
	}

	d.oeElapsed++

	if d.oeElapsed >= d.freq.CyclesAtLeast(d.timing.OutputEnableToValid) {
		word, err := d.storage.Read(d.readAddr)
		if err != nil {
			log.Panic(err)
		}

		d.pins.Data.Drive(d.name, uint32(word))
		d.driving = true
	}
}

// checkAccessInterval verifies the minimum cycle time between the starts
// of two consecutive accesses.
func (d *Device) checkAccessInterval(op string, minCycleTime time.Duration) {
	defer func() {
		d.lastAccessStart = d.cycle
		d.haveAccessed = true
	}()

	if !d.haveAccessed {
		return
	}

	elapsed := int(d.cycle - d.lastAccessStart)
	if elapsed < d.freq.CyclesAtLeast(minCycleTime) {
		d.violate(op, "access started before the minimum cycle time elapsed")
	}
}

func (d *Device) violate(op, reason string) {
	d.violations = append(d.violations, TimingViolation{
		Cycle:  d.cycle,
		Op:     op,
		Reason: reason,
	})
}
