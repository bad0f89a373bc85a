package memctrl

import (
	"github.com/chiplab/mrambridge/mram"
	"github.com/chiplab/mrambridge/sim"
)

// CompletionPolicy selects how the engine reports a finished cycle. The
// hardware iterations used both conventions; they are unified here behind
// one configuration-time choice instead of two state machines.
type CompletionPolicy int

const (
	// CompletionPulse asserts the done flag for exactly one cycle after
	// the final cycle of the operation.
	CompletionPulse CompletionPolicy = iota

	// CompletionLevel holds the done flag of the last finished operation
	// high while the engine is idle.
	CompletionLevel
)

// HookPosWriteComplete marks a finished write cycle. The hook item is a
// Transaction.
var HookPosWriteComplete = &sim.HookPos{Name: "MemCtrl Write Complete"}

// HookPosReadComplete marks a finished read cycle. The hook item is a
// Transaction.
var HookPosReadComplete = &sim.HookPos{Name: "MemCtrl Read Complete"}

// A Transaction is the hook item describing one completed memory cycle.
type Transaction struct {
	Addr uint32
	Data uint16
}

type engineState int

const (
	stateIdle engineState = iota
	stateWrite
	stateRead
)

// Comp drives the chip's control lines and the shared data bus through
// read and write cycles whose length comes from the timing profile. It is
// the exclusive owner of every pin except the data bus, which it only
// drives during write cycles.
//
// A request pulse is accepted only while the engine is idle; pulses that
// arrive mid-cycle are dropped. If a write and a read request arrive on
// the same cycle, the write wins.
type Comp struct {
	sim.HookableBase

	name    string
	profile TimingProfile
	policy  CompletionPolicy
	pins    *mram.Pins

	state engineState
	cycle int
	addr  uint32
	data  uint16

	writeReq  bool
	writeAddr uint32
	writeData uint16
	readReq   bool
	readAddr  uint32

	readData  uint16
	writeDone bool
	readDone  bool
}

// NewComp creates a timing engine on the given pins. The profile must
// already be validated.
func NewComp(
	name string,
	profile TimingProfile,
	policy CompletionPolicy,
	pins *mram.Pins,
) *Comp {
	return &Comp{
		name:    name,
		profile: profile,
		policy:  policy,
		pins:    pins,
	}
}

// Name returns the name of the engine.
func (c *Comp) Name() string {
	return c.name
}

// WriteRequest pulses a write request for the current cycle.
func (c *Comp) WriteRequest(addr uint32, data uint16) {
	c.writeReq = true
	c.writeAddr = addr & mram.AddrMask
	c.writeData = data
}

// ReadRequest pulses a read request for the current cycle.
func (c *Comp) ReadRequest(addr uint32) {
	c.readReq = true
	c.readAddr = addr & mram.AddrMask
}

// WriteDone reports completion of a write cycle, per the completion
// policy.
func (c *Comp) WriteDone() bool {
	return c.writeDone
}

// ReadDone reports completion of a read cycle, per the completion policy.
func (c *Comp) ReadDone() bool {
	return c.readDone
}

// ReadData returns the word sampled during the last read cycle. It is
// only meaningful together with ReadDone.
func (c *Comp) ReadData() uint16 {
	return c.readData
}

// Busy reports whether a cycle is in flight.
func (c *Comp) Busy() bool {
	return c.state != stateIdle
}

// Tick advances the engine by one clock cycle. It reports true while a
// cycle is in flight or a request is pending.
func (c *Comp) Tick() bool {
	if c.policy == CompletionPulse {
		c.writeDone = false
		c.readDone = false
	}

	switch c.state {
	case stateIdle:
		c.tickIdle()
	case stateWrite:
		c.tickWrite()
	case stateRead:
		c.tickRead()
	}

	active := c.state != stateIdle
	c.writeReq = false
	c.readReq = false

	return active
}

func (c *Comp) tickIdle() {
	switch {
	case c.writeReq:
		// Write priority when both requests land on the same cycle.
		c.state = stateWrite
		c.cycle = 1
		c.writeDone = false
		c.addr = c.writeAddr
		c.data = c.writeData

		c.pins.Addr.Set(c.addr)
		c.pins.Data.Drive(c.name, uint32(c.data))
		c.pins.ChipEnable.Set(false)
		c.pins.WriteEnable.Set(false)
		c.pins.OutputEnable.Set(true)
		c.pins.LowerByte.Set(false)
		c.pins.UpperByte.Set(false)
	case c.readReq:
		c.state = stateRead
		c.cycle = 1
		c.readDone = false
		c.addr = c.readAddr

		c.pins.Addr.Set(c.addr)
		c.pins.ChipEnable.Set(false)
		c.pins.WriteEnable.Set(true)
		c.pins.OutputEnable.Set(false)
		c.pins.LowerByte.Set(false)
		c.pins.UpperByte.Set(false)
	}
}

func (c *Comp) tickWrite() {
	if c.cycle >= c.profile.WritePulseCycles {
		// Recovery phase: strobe high, data and address held.
		c.pins.WriteEnable.Set(true)
	}

	if c.cycle == c.profile.WriteTotalCycles-1 {
		c.finishWrite()
		return
	}

	c.cycle++
}

func (c *Comp) finishWrite() {
	c.deassert()
	c.pins.Data.Release(c.name)

	c.state = stateIdle
	c.writeDone = true

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosWriteComplete,
			Item:   Transaction{Addr: c.addr, Data: c.data},
		})
	}
}

func (c *Comp) tickRead() {
	if c.cycle == c.profile.ReadAssertCycles-1 {
		// Last assert cycle: the chip's output delay has elapsed by
		// construction, sample the bus.
		if v, ok := c.pins.Data.Sample(); ok {
			c.readData = uint16(v)
		}
	}

	if c.cycle >= c.profile.ReadAssertCycles {
		// Release phase: output-enable high, chip lets go of the bus.
		c.pins.OutputEnable.Set(true)
	}

	if c.cycle == c.profile.ReadTotalCycles-1 {
		c.finishRead()
		return
	}

	c.cycle++
}

func (c *Comp) finishRead() {
	c.deassert()

	c.state = stateIdle
	c.readDone = true

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosReadComplete,
			Item:   Transaction{Addr: c.addr, Data: c.readData},
		})
	}
}

func (c *Comp) deassert() {
	c.pins.ChipEnable.Set(true)
	c.pins.WriteEnable.Set(true)
	c.pins.OutputEnable.Set(true)
	c.pins.LowerByte.Set(true)
	c.pins.UpperByte.Set(true)
}
