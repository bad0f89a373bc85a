package sim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).To(
			BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.0000000011)).To(
			BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, 102.000000001)).To(
			BeNumerically("~", 102.000000013, 1e-12))
	})

	It("should round real-time bounds up to whole cycles", func() {
		var f = 50 * MHz // 20 ns period

		Expect(f.CyclesAtLeast(35 * time.Nanosecond)).To(Equal(2))
		Expect(f.CyclesAtLeast(40 * time.Nanosecond)).To(Equal(2))
		Expect(f.CyclesAtLeast(41 * time.Nanosecond)).To(Equal(3))
		Expect(f.CyclesAtLeast(0)).To(Equal(0))
	})

	It("should round real-time bounds up at high frequencies", func() {
		var f = 143 * MHz

		// 6.993 ns period; 15 ns needs 3 cycles
		Expect(f.CyclesAtLeast(15 * time.Nanosecond)).To(Equal(3))
	})

	It("should compute cycles per serial bit", func() {
		var f = 12 * MHz

		// 12e6 / 115200 = 104.17
		Expect(f.CyclesPerBit(115200)).To(Equal(104))
	})
})
