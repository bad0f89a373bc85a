package uart

// A LineFilter conditions the raw serial input before the receiver sees it.
// Two register stages guard against metastability when the line crosses
// into the clock domain, and a majority vote over the last four
// synchronized samples absorbs single-cycle glitches: the filtered level
// only flips when all four samples agree on the new level, and holds
// otherwise.
type LineFilter struct {
	sync0, sync1 bool

	history [4]bool
	out     bool
}

// NewLineFilter creates a filter whose pipeline is preloaded with the idle
// level, so a quiet line produces no spurious edges at startup.
func NewLineFilter(idle bool) *LineFilter {
	f := &LineFilter{
		sync0: idle,
		sync1: idle,
		out:   idle,
	}

	for i := range f.history {
		f.history[i] = idle
	}

	return f
}

// Step advances the filter by one clock cycle with the raw line level and
// returns the filtered level.
func (f *LineFilter) Step(raw bool) bool {
	sample := f.sync1
	f.sync1 = f.sync0
	f.sync0 = raw

	copy(f.history[:], f.history[1:])
	f.history[3] = sample

	agree := true
	for _, s := range f.history {
		if s != f.history[0] {
			agree = false
			break
		}
	}

	if agree {
		f.out = f.history[0]
	}

	return f.out
}

// Out returns the current filtered level without advancing the filter.
func (f *LineFilter) Out() bool {
	return f.out
}
