package mram

import "github.com/chiplab/mrambridge/wiring"

// Pins is the chip-facing interface: the address bus, the shared data bus,
// and the active-low control lines. The controller owns every line except
// the data bus, which it shares with the chip under the tri-state
// discipline.
type Pins struct {
	Addr *wiring.Bus
	Data *wiring.TriState

	// Active low.
	ChipEnable   *wiring.Line
	WriteEnable  *wiring.Line
	OutputEnable *wiring.Line

	// Byte lane enables, active low. The bridge only does full-width
	// accesses, so both are asserted together during any cycle.
	LowerByte *wiring.Line
	UpperByte *wiring.Line
}

// NewPins creates a pin set with every control line deasserted (high) and
// the data bus released.
func NewPins(prefix string) *Pins {
	return &Pins{
		Addr:         wiring.NewBus(prefix+".Addr", AddrBits),
		Data:         wiring.NewTriState(prefix+".Data", DataBits),
		ChipEnable:   wiring.NewLine(prefix+".CE", true),
		WriteEnable:  wiring.NewLine(prefix+".WE", true),
		OutputEnable: wiring.NewLine(prefix+".OE", true),
		LowerByte:    wiring.NewLine(prefix+".LB", true),
		UpperByte:    wiring.NewLine(prefix+".UB", true),
	}
}
