package memtest

// A Pattern produces the word to store at an address during a
// fill-and-verify pass.
type Pattern func(addr uint32) uint16

// Sequential stores the low 16 address bits at every word.
func Sequential() Pattern {
	return func(addr uint32) uint16 {
		return uint16(addr)
	}
}

// AA55 alternates 0xAA55 and 0x55AA between even and odd addresses.
func AA55() Pattern {
	return func(addr uint32) uint16 {
		if addr&1 == 0 {
			return 0xAA55
		}

		return 0x55AA
	}
}

// Increment counts up from a seed by address offset.
func Increment(seed uint16) Pattern {
	return func(addr uint32) uint16 {
		return seed + uint16(addr)
	}
}

// Patterns maps the generator names accepted on the command line.
var Patterns = map[string]Pattern{
	"sequential": Sequential(),
	"aa55":       AA55(),
	"increment":  Increment(1),
}

// FillVerify writes the pattern over [start, start+count) and reads the
// whole region back.
func FillVerify(
	mem Memory,
	start, count uint32,
	name string,
	pattern Pattern,
) (Report, error) {
	r := Report{Test: name, Words: count}

	for a := start; a < start+count; a++ {
		if err := mem.WriteWord(a, pattern(a)); err != nil {
			return r, err
		}
	}

	for a := start; a < start+count; a++ {
		if err := r.verify(mem, a, pattern(a)); err != nil {
			return r, err
		}
	}

	return r, nil
}
