package wiring

import (
	"fmt"

	"github.com/chiplab/mrambridge/sim"
)

// HookPosTriStateDrive marks a driver taking ownership of a tri-state bus.
var HookPosTriStateDrive = &sim.HookPos{Name: "TriState Drive"}

// HookPosTriStateRelease marks a driver releasing a tri-state bus.
var HookPosTriStateRelease = &sim.HookPos{Name: "TriState Release"}

// TriStateUpdate is the hook item delivered on drive and release.
type TriStateUpdate struct {
	Driver string
	Value  uint32
}

// A TriState is a shared bidirectional bus. Its state is either released
// (no driver, sampling returns no value) or driven by exactly one named
// driver. Two simultaneous drivers on a physical bus short their output
// stages, so a second driver is a panic, not a recoverable condition.
type TriState struct {
	sim.HookableBase

	name   string
	width  int
	mask   uint32
	driver string
	value  uint32
}

// NewTriState creates a released tri-state bus that is width bits wide.
func NewTriState(name string, width int) *TriState {
	if width <= 0 || width > 32 {
		panic("bus width must be between 1 and 32")
	}

	return &TriState{
		name:  name,
		width: width,
		mask:  uint32(1)<<width - 1,
	}
}

// Name returns the name of the bus.
func (t *TriState) Name() string {
	return t.name
}

// Drive asserts the bus with a value on behalf of the named driver. The
// same driver may update the value freely; a different driver while the
// bus is still owned is bus contention and panics.
func (t *TriState) Drive(driver string, value uint32) {
	if driver == "" {
		panic("driver name must not be empty")
	}

	if t.driver != "" && t.driver != driver {
		panic(fmt.Sprintf(
			"bus contention on %s: %s drives while %s still owns the bus",
			t.name, driver, t.driver))
	}

	t.driver = driver
	t.value = value & t.mask

	if t.NumHooks() > 0 {
		t.InvokeHook(sim.HookCtx{
			Domain: t,
			Pos:    HookPosTriStateDrive,
			Item:   TriStateUpdate{Driver: driver, Value: t.value},
		})
	}
}

// Release lets go of the bus on behalf of the named driver. Releases from
// a driver that does not own the bus are ignored, which lets every driver
// unconditionally release its side during reset.
func (t *TriState) Release(driver string) {
	if t.driver != driver {
		return
	}

	t.driver = ""

	if t.NumHooks() > 0 {
		t.InvokeHook(sim.HookCtx{
			Domain: t,
			Pos:    HookPosTriStateRelease,
			Item:   TriStateUpdate{Driver: driver},
		})
	}
}

// Sample returns the value on the bus and whether any driver is currently
// driving it. Sampling a released bus returns ok == false; the caller sees
// a floating bus, not a value.
func (t *TriState) Sample() (value uint32, ok bool) {
	if t.driver == "" {
		return 0, false
	}

	return t.value, true
}

// Driver returns the name of the current owner, or an empty string when the
// bus is released.
func (t *TriState) Driver() string {
	return t.driver
}
