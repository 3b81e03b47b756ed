package dram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/mem/storage"
)

var _ = Describe("Dram", func() {
	var (
		d     *Comp
		delay int
	)

	BeforeEach(func() {
		delay = 3
		d = MakeBuilder().
			WithAddressSpace(storage.AddressSpace{WordBits: 10, LineBits: 2}).
			WithDelay(delay).
			Build("Dram")
	})

	It("should implement Storage", func() {
		var s storage.Storage = d
		Expect(s.Name()).To(Equal("Dram"))
	})

	It("should cover the whole address space", func() {
		Expect(d.rows).To(HaveLen(256))
		Expect(d.View(0, 1)).To(Equal([]storage.Line{{0, 0, 0, 0}}))
	})

	It("should write a word after delay polls", func() {
		for i := 0; i < delay; i++ {
			Expect(d.WriteWord("a", 0x11223344, 5)).To(BeFalse())
			Expect(d.View(4, 1)[0]).To(Equal(storage.Line{0, 0, 0, 0}))
		}

		Expect(d.WriteWord("a", 0x11223344, 5)).To(BeTrue())
		Expect(d.View(4, 1)[0]).To(Equal(storage.Line{0, 0x11223344, 0, 0}))
	})

	It("should read back a line", func() {
		d.Load([]storage.Word{1, 2, 3, 4, 5, 6, 7, 8})

		var (
			completed bool
			line      storage.Line
		)

		polls := 0
		for !completed {
			completed, line = d.ReadLine("a", 6)
			polls++
		}

		Expect(polls).To(Equal(delay + 1))
		Expect(line).To(Equal(storage.Line{5, 6, 7, 8}))
	})

	It("should write a line", func() {
		for !d.WriteLine("a", storage.Line{9, 8, 7, 6}, 13) {
		}

		Expect(d.View(12, 1)[0]).To(Equal(storage.Line{9, 8, 7, 6}))
	})

	It("should read a word", func() {
		d.Load([]storage.Word{1, 2, 3})

		var (
			completed bool
			value     storage.Word
		)

		for !completed {
			completed, value = d.ReadWord("a", 2)
		}

		Expect(value).To(Equal(storage.Word(3)))
	})

	It("should serve one accessor at a time", func() {
		Expect(d.WriteWord("a", 1, 0)).To(BeFalse())

		for i := 0; i < 10; i++ {
			Expect(d.WriteWord("b", 2, 0)).To(BeFalse())
		}

		Expect(d.Gate().Countdown()).To(Equal(delay - 1))

		for !d.WriteWord("a", 1, 0) {
		}

		Expect(d.View(0, 1)[0][0]).To(Equal(storage.Word(1)))
		Expect(d.Gate().Holder()).To(Equal(storage.NullAccessor))
	})

	It("should wrap addresses", func() {
		for !d.WriteWord("a", 7, 1024) {
		}

		Expect(d.View(0, 1)[0][0]).To(Equal(storage.Word(7)))

		for !d.WriteWord("a", 9, -1) {
		}

		Expect(d.View(1023, 1)[0][3]).To(Equal(storage.Word(9)))
	})

	It("should panic on the null accessor", func() {
		Expect(func() { d.WriteWord(storage.NullAccessor, 1, 0) }).To(Panic())
	})

	It("should load an image from address 0 without timing", func() {
		d.Load([]storage.Word{1, 2, 3, 4, 5})

		Expect(d.View(0, 2)).To(Equal([]storage.Line{
			{1, 2, 3, 4},
			{5, 0, 0, 0},
		}))
		Expect(d.Gate().Holder()).To(Equal(storage.NullAccessor))
	})

	It("should count completed accesses", func() {
		for !d.WriteWord("a", 1, 0) {
		}

		for completed := false; !completed; {
			completed, _ = d.ReadWord("a", 0)
		}

		Expect(d.Stats()).To(Equal(Stats{Reads: 1, Writes: 1}))
	})

	It("should not be usable after close", func() {
		d.Close()

		Expect(func() { d.ReadWord("a", 0) }).To(Panic())
	})
})
