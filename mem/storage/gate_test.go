package storage

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Gate", func() {
	var gate Gate

	BeforeEach(func() {
		gate = NewGate(2)
	})

	It("should panic on the null accessor", func() {
		Expect(func() { gate.Admit(NullAccessor) }).To(Panic())
	})

	It("should admit the first accessor", func() {
		admitted, isNew := gate.Admit("a")

		Expect(admitted).To(BeTrue())
		Expect(isNew).To(BeTrue())
		Expect(gate.Holder()).To(Equal(AccessorID("a")))
	})

	It("should keep admitting the holder", func() {
		gate.Admit("a")

		admitted, isNew := gate.Admit("a")

		Expect(admitted).To(BeTrue())
		Expect(isNew).To(BeFalse())
	})

	It("should reject other accessors without side effects", func() {
		gate.Admit("a")
		gate.Tick()

		admitted, _ := gate.Admit("b")

		Expect(admitted).To(BeFalse())
		Expect(gate.Holder()).To(Equal(AccessorID("a")))
		Expect(gate.Countdown()).To(Equal(1))
	})

	It("should complete after delay ticks and release the holder", func() {
		gate.Admit("a")

		Expect(gate.Tick()).To(BeFalse())
		Expect(gate.Tick()).To(BeFalse())
		Expect(gate.Tick()).To(BeTrue())

		Expect(gate.Holder()).To(Equal(NullAccessor))
		Expect(gate.Countdown()).To(Equal(2))
	})

	It("should complete on the first tick with no delay", func() {
		gate = NewGate(0)
		gate.Admit("a")

		Expect(gate.Tick()).To(BeTrue())
	})

	It("should panic on negative delay", func() {
		Expect(func() { NewGate(-1) }).To(Panic())
	})
})
