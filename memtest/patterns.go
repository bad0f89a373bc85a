package memtest

// WalkingOnes walks a single one bit through every data bit of every word:
// write, read back, advance. It exposes shorted or stuck data lines.
func WalkingOnes(mem Memory, words uint32) (Report, error) {
	return walkingBit(mem, words, "walking-ones", false)
}

// WalkingZeros walks a single zero bit through a background of ones.
func WalkingZeros(mem Memory, words uint32) (Report, error) {
	return walkingBit(mem, words, "walking-zeros", true)
}

func walkingBit(
	mem Memory,
	words uint32,
	name string,
	invert bool,
) (Report, error) {
	r := Report{Test: name, Words: words}

	for a := uint32(0); a < words; a++ {
		for bit := 0; bit < 16; bit++ {
			pattern := uint16(1) << bit
			if invert {
				pattern = ^pattern
			}

			if err := mem.WriteWord(a, pattern); err != nil {
				return r, err
			}
			if err := r.verify(mem, a, pattern); err != nil {
				return r, err
			}
		}
	}

	return r, nil
}

// Checkerboard fills the region with alternating 0xAAAA/0x5555 words,
// verifies, then repeats with the inverse fill. Adjacent cells always hold
// complementary bits, which exposes coupling between neighbors.
func Checkerboard(mem Memory, words uint32) (Report, error) {
	r := Report{Test: "checkerboard", Words: words}

	for _, base := range []uint16{0xAAAA, 0x5555} {
		for a := uint32(0); a < words; a++ {
			pattern := base
			if a&1 == 1 {
				pattern = ^base
			}

			if err := mem.WriteWord(a, pattern); err != nil {
				return r, err
			}
		}

		for a := uint32(0); a < words; a++ {
			pattern := base
			if a&1 == 1 {
				pattern = ^base
			}

			if err := r.verify(mem, a, pattern); err != nil {
				return r, err
			}
		}
	}

	return r, nil
}

// AddressUniqueness writes an address-derived value to every word, then
// reads the whole region back. A decoding fault aliases two addresses onto
// one cell, so the second write destroys the first and the readback
// mismatches.
func AddressUniqueness(mem Memory, words uint32) (Report, error) {
	r := Report{Test: "address-uniqueness", Words: words}

	for a := uint32(0); a < words; a++ {
		if err := mem.WriteWord(a, addressPattern(a)); err != nil {
			return r, err
		}
	}

	for a := uint32(0); a < words; a++ {
		if err := r.verify(mem, a, addressPattern(a)); err != nil {
			return r, err
		}
	}

	return r, nil
}

// addressPattern mixes the high address bits into the low ones so that
// words sharing low address bits still get distinct values.
func addressPattern(addr uint32) uint16 {
	return uint16(addr) ^ uint16(addr>>7)<<5 ^ 0xA53C
}
