package memtest

// MarchC runs the March C- algorithm over the first words of the memory:
//
//	up   (w0)
//	up   (r0, w1)
//	up   (r1, w0)
//	down (r0, w1)
//	down (r1, w0)
//	up   (r0)
//
// It detects stuck-at, transition, and coupling faults.
func MarchC(mem Memory, words uint32) (Report, error) {
	r := Report{Test: "march-c", Words: words}

	for a := uint32(0); a < words; a++ {
		if err := mem.WriteWord(a, 0x0000); err != nil {
			return r, err
		}
	}

	for a := uint32(0); a < words; a++ {
		if err := r.verify(mem, a, 0x0000); err != nil {
			return r, err
		}
		if err := mem.WriteWord(a, 0xFFFF); err != nil {
			return r, err
		}
	}

	for a := uint32(0); a < words; a++ {
		if err := r.verify(mem, a, 0xFFFF); err != nil {
			return r, err
		}
		if err := mem.WriteWord(a, 0x0000); err != nil {
			return r, err
		}
	}

	for a := words; a > 0; a-- {
		if err := r.verify(mem, a-1, 0x0000); err != nil {
			return r, err
		}
		if err := mem.WriteWord(a-1, 0xFFFF); err != nil {
			return r, err
		}
	}

	for a := words; a > 0; a-- {
		if err := r.verify(mem, a-1, 0xFFFF); err != nil {
			return r, err
		}
		if err := mem.WriteWord(a-1, 0x0000); err != nil {
			return r, err
		}
	}

	for a := uint32(0); a < words; a++ {
		if err := r.verify(mem, a, 0x0000); err != nil {
			return r, err
		}
	}

	return r, nil
}
