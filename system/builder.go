package system

import (
	"log"

	"github.com/chiplab/mrambridge/bridge"
	"github.com/chiplab/mrambridge/memctrl"
	"github.com/chiplab/mrambridge/mram"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/uart"
	"github.com/chiplab/mrambridge/wiring"
)

// Builder builds a board.
type Builder struct {
	engine           sim.Engine
	freq             sim.Freq
	baudRate         int
	timing           mram.Timing
	policy           memctrl.CompletionPolicy
	frameTimeoutBits int
	storage          *mram.Storage
}

// MakeBuilder creates a builder with the default configuration: a 50 MHz
// clock, 115200 baud, AS3004316 timing, pulse completion, and a frame
// timeout of 4096 bit periods.
func MakeBuilder() Builder {
	return Builder{
		freq:             50 * sim.MHz,
		baudRate:         uart.DefaultBaudRate,
		timing:           mram.AS3004316(),
		policy:           memctrl.CompletionPulse,
		frameTimeoutBits: 4096,
	}
}

// WithEngine sets the engine that drives the board.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBaudRate sets the serial baud rate on both directions.
func (b Builder) WithBaudRate(rate int) Builder {
	b.baudRate = rate
	return b
}

// WithTiming sets the memory chip's datasheet timing.
func (b Builder) WithTiming(t mram.Timing) Builder {
	b.timing = t
	return b
}

// WithCompletionPolicy sets how the timing engine signals a finished
// cycle.
func (b Builder) WithCompletionPolicy(p memctrl.CompletionPolicy) Builder {
	b.policy = p
	return b
}

// WithFrameTimeoutBits sets the inter-byte timeout of the command decoder
// in bit periods. 0 disables the timeout.
func (b Builder) WithFrameTimeoutBits(bits int) Builder {
	b.frameTimeoutBits = bits
	return b
}

// WithStorage provides a pre-populated word array to the memory chip.
func (b Builder) WithStorage(s *mram.Storage) Builder {
	b.storage = s
	return b
}

// Build creates the board. It panics if the configuration cannot meet the
// chip's timing at the chosen clock frequency.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}

	profile := memctrl.NewTimingProfile(b.freq, b.timing)
	if err := profile.Validate(b.freq, b.timing); err != nil {
		log.Panicf("%s: %v", name, err)
	}

	cfg := uart.Config{Freq: b.freq, BaudRate: b.baudRate}

	c.hostToCtrl = wiring.NewLine(name+".HostToCtrl", true)
	c.ctrlToHost = wiring.NewLine(name+".CtrlToHost", true)
	c.pins = mram.NewPins(name + ".Mem")

	c.hostTX = uart.NewTransmitter(cfg, c.hostToCtrl)
	c.hostRX = uart.NewReceiver(cfg, c.ctrlToHost)
	c.ctrlRX = uart.NewReceiver(cfg, c.hostToCtrl)
	c.ctrlTX = uart.NewTransmitter(cfg, c.ctrlToHost)

	c.ctrl = memctrl.NewComp(name+".Ctrl", profile, b.policy, c.pins)
	c.device = mram.NewDevice(
		name+".Mem", b.freq, b.timing, c.pins, b.storage)
	c.dispatcher = bridge.NewDispatcher(
		c.ctrlRX, c.ctrlTX, c.ctrl,
		b.frameTimeoutBits*cfg.BitCycles())

	c.cmdQueue = sim.NewBuffer(name+".CmdQueue", 1024)
	c.replies = sim.NewBuffer(name+".Replies", 1024)

	c.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.freq, c)

	return c
}
