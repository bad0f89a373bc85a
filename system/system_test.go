package system_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chiplab/mrambridge/bridge"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/system"
	"github.com/chiplab/mrambridge/wiring"
)

// busWatcher records every driver that takes the shared data bus. Two
// overlapping drivers would panic inside the bus itself, so the watcher
// only needs to confirm who drove.
type busWatcher struct {
	drivers map[string]int
}

func (w *busWatcher) Func(ctx sim.HookCtx) {
	if ctx.Pos != wiring.HookPosTriStateDrive {
		return
	}

	if w.drivers == nil {
		w.drivers = make(map[string]int)
	}

	w.drivers[ctx.Item.(wiring.TriStateUpdate).Driver]++
}

var _ = Describe("Bridge system", func() {
	var (
		engine sim.Engine
		board  *system.Comp
		host   *system.Host
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		board = system.MakeBuilder().
			WithEngine(engine).
			Build("Board")
		host = system.NewHost(engine, board)
	})

	It("should execute a raw write frame", func() {
		err := host.SendBytes([]byte{0x57, 0x00, 0x01, 0x23, 0xAB, 0xCD})
		Expect(err).ToNot(HaveOccurred())

		word, err := board.Device().Storage().Read(0x00123)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint16(0xABCD)))

		Expect(board.PendingReplies()).To(Equal(0))
		Expect(board.Device().Violations()).To(BeEmpty())
	})

	It("should answer a raw read frame high byte first", func() {
		Expect(board.Device().Storage().Write(0x00123, 0xABCD)).To(Succeed())

		err := host.SendBytes([]byte{0x52, 0x00, 0x01, 0x23})
		Expect(err).ToNot(HaveOccurred())

		hi, ok := board.TakeReply()
		Expect(ok).To(BeTrue())
		Expect(hi).To(Equal(byte(0xAB)))

		lo, ok := board.TakeReply()
		Expect(ok).To(BeTrue())
		Expect(lo).To(Equal(byte(0xCD)))
	})

	It("should round-trip a word through WriteWord and ReadWord", func() {
		Expect(host.WriteWord(0x3FFFF, 0x5A5A)).To(Succeed())

		word, err := host.ReadWord(0x3FFFF)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint16(0x5A5A)))
	})

	It("should keep serving commands after the clock has run down", func() {
		// Each host call drains the event queue before returning, so
		// the second and third commands start from an idle board.
		Expect(host.WriteWord(0x00042, 0xBEEF)).To(Succeed())
		Expect(host.WriteWord(0x00043, 0xF00D)).To(Succeed())

		word, err := host.ReadWord(0x00042)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint16(0xBEEF)))

		word, err = host.ReadWord(0x00043)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint16(0xF00D)))
	})

	It("should accept lowercase opcodes", func() {
		err := host.SendBytes(append(
			[]byte{0x77, 0x00, 0x00, 0x10, 0x12, 0x34},
			0x72, 0x00, 0x00, 0x10))
		Expect(err).ToNot(HaveOccurred())

		hi, _ := board.TakeReply()
		lo, _ := board.TakeReply()
		Expect(hi).To(Equal(byte(0x12)))
		Expect(lo).To(Equal(byte(0x34)))
	})

	It("should return the same value for two reads in a row", func() {
		Expect(host.WriteWord(0x00200, 0x1234)).To(Succeed())

		first, err := host.ReadWord(0x00200)
		Expect(err).ToNot(HaveOccurred())

		second, err := host.ReadWord(0x00200)
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("should execute back-to-back write frames without cross-talk", func() {
		frames := append(
			bridge.WriteFrame(0x00001, 0x1111),
			bridge.WriteFrame(0x00002, 0x2222)...)
		frames = append(frames, bridge.WriteFrame(0x00003, 0x3333)...)

		Expect(host.SendBytes(frames)).To(Succeed())

		for i, want := range []uint16{0x1111, 0x2222, 0x3333} {
			word, err := host.ReadWord(uint32(i) + 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(want))
		}

		Expect(board.Device().Violations()).To(BeEmpty())
	})

	It("should skip unknown opcode bytes and resynchronize", func() {
		data := append([]byte{0x00, 0xFF, 0x41},
			bridge.WriteFrame(0x00020, 0xD00D)...)

		Expect(host.SendBytes(data)).To(Succeed())

		word, _ := board.Device().Storage().Read(0x00020)
		Expect(word).To(Equal(uint16(0xD00D)))
		Expect(board.Dispatcher().UnknownOpcodes()).To(Equal(uint64(3)))
	})

	It("should keep written data across a device power cycle", func() {
		Expect(host.WriteWord(0x00042, 0xBEEF)).To(Succeed())

		board.Device().PowerCycle()

		word, err := host.ReadWord(0x00042)
		Expect(err).ToNot(HaveOccurred())
		Expect(word).To(Equal(uint16(0xBEEF)))
	})

	It("should never see two drivers on the data bus", func() {
		watcher := &busWatcher{}
		board.Pins().Data.AcceptHook(watcher)

		for i := 0; i < 8; i++ {
			addr := uint32(i) * 3
			Expect(host.WriteWord(addr, uint16(i)*0x101)).To(Succeed())

			word, err := host.ReadWord(addr)
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint16(i) * 0x101))
		}

		Expect(watcher.drivers).To(HaveKey("Board.Ctrl"))
		Expect(watcher.drivers).To(HaveKey("Board.Mem"))
		Expect(watcher.drivers).To(HaveLen(2))
		Expect(board.Device().Violations()).To(BeEmpty())
	})

	It("should report an error when a read gets no reply", func() {
		// An empty board produces no reply bytes to take.
		_, ok := board.TakeReply()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Frame timeout", func() {
	It("should abandon a stalled partial frame", func() {
		engine := sim.NewSerialEngine()
		board := system.MakeBuilder().
			WithEngine(engine).
			WithFrameTimeoutBits(16).
			Build("Board")
		host := system.NewHost(engine, board)

		// Opcode and one address byte, then silence.
		Expect(host.SendBytes([]byte{0x57, 0x00})).To(Succeed())
		Expect(board.Dispatcher().Timeouts()).To(Equal(uint64(1)))

		// The next complete frame goes through untouched.
		Expect(host.WriteWord(0x00030, 0x7777)).To(Succeed())

		word, _ := board.Device().Storage().Read(0x00030)
		Expect(word).To(Equal(uint16(0x7777)))
	})

	It("should wait forever when the timeout is disabled", func() {
		engine := sim.NewSerialEngine()
		board := system.MakeBuilder().
			WithEngine(engine).
			WithFrameTimeoutBits(0).
			Build("Board")
		host := system.NewHost(engine, board)

		Expect(host.SendBytes([]byte{0x57, 0x00})).To(Succeed())
		Expect(board.Dispatcher().Timeouts()).To(Equal(uint64(0)))

		// The remaining bytes complete the original frame.
		Expect(host.SendBytes([]byte{0x01, 0x23, 0xAB, 0xCD})).To(Succeed())

		word, _ := board.Device().Storage().Read(0x00123)
		Expect(word).To(Equal(uint16(0xABCD)))
	})
})

var _ = Describe("Bridge system at other clock rates", func() {
	for _, freq := range []sim.Freq{12 * sim.MHz, 143 * sim.MHz} {
		freq := freq

		It(fmt.Sprintf("should round-trip a word at %.0f MHz",
			float64(freq)/1e6), func() {
			engine := sim.NewSerialEngine()
			board := system.MakeBuilder().
				WithEngine(engine).
				WithFreq(freq).
				Build("Board")
			host := system.NewHost(engine, board)

			Expect(host.WriteWord(0x00123, 0xA55A)).To(Succeed())

			word, err := host.ReadWord(0x00123)
			Expect(err).ToNot(HaveOccurred())
			Expect(word).To(Equal(uint16(0xA55A)))
			Expect(board.Device().Violations()).To(BeEmpty())
		})
	}
})

var _ = Describe("Builder", func() {
	It("should panic when the clock cannot meet the baud rate", func() {
		Expect(func() {
			system.MakeBuilder().
				WithEngine(sim.NewSerialEngine()).
				WithFreq(100 * sim.KHz).
				Build("Board")
		}).To(Panic())
	})
})
