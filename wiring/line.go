// Package wiring models board-level signals at the level of logic values.
//
// A Line carries a single-bit level, a Bus carries a multi-bit word, and a
// TriState models a shared bidirectional bus that at most one driver may own
// at any instant. All of them hold their last written value until the next
// write, the way a wire holds its level between clock edges.
package wiring

// A Line is a single-bit signal.
type Line struct {
	name  string
	level bool
}

// NewLine creates a line that starts at the given level.
func NewLine(name string, level bool) *Line {
	return &Line{name: name, level: level}
}

// Name returns the name of the line.
func (l *Line) Name() string {
	return l.name
}

// Set drives the line to the given level.
func (l *Line) Set(level bool) {
	l.level = level
}

// Get returns the current level of the line.
func (l *Line) Get() bool {
	return l.level
}

// A Bus is a multi-bit signal. Values written to the bus are masked to the
// bus width.
type Bus struct {
	name  string
	width int
	mask  uint32
	value uint32
}

// NewBus creates a bus that is width bits wide.
func NewBus(name string, width int) *Bus {
	if width <= 0 || width > 32 {
		panic("bus width must be between 1 and 32")
	}

	return &Bus{
		name:  name,
		width: width,
		mask:  uint32(1)<<width - 1,
	}
}

// Name returns the name of the bus.
func (b *Bus) Name() string {
	return b.name
}

// Width returns the number of bits the bus carries.
func (b *Bus) Width() int {
	return b.width
}

// Set drives the bus with a value, masked to the bus width.
func (b *Bus) Set(value uint32) {
	b.value = value & b.mask
}

// Get returns the current value of the bus.
func (b *Bus) Get() uint32 {
	return b.value
}
