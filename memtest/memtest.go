// Package memtest implements classic memory test algorithms on top of any
// word-addressable memory, such as a bridge host. The tests report cell
// faults; transport errors abort the run.
package memtest

import "fmt"

// Memory is a 16-bit word-addressable memory.
type Memory interface {
	WriteWord(addr uint32, data uint16) error
	ReadWord(addr uint32) (uint16, error)
}

// A Fault is one mismatched read.
type Fault struct {
	Test     string
	Addr     uint32
	Expected uint16
	Actual   uint16
}

func (f Fault) String() string {
	return fmt.Sprintf("%s: 0x%05X read 0x%04X, want 0x%04X",
		f.Test, f.Addr, f.Actual, f.Expected)
}

// A Report summarizes one test run over a region of memory.
type Report struct {
	Test   string
	Words  uint32
	Faults []Fault
}

// Passed reports whether the run found no faults.
func (r Report) Passed() bool {
	return len(r.Faults) == 0
}

func (r *Report) verify(mem Memory, addr uint32, want uint16) error {
	got, err := mem.ReadWord(addr)
	if err != nil {
		return err
	}

	if got != want {
		r.Faults = append(r.Faults, Fault{
			Test:     r.Test,
			Addr:     addr,
			Expected: want,
			Actual:   got,
		})
	}

	return nil
}
