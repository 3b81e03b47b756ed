package memaccessagent

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/mem/storage"
)

var _ = Describe("ParseRequest", func() {
	It("should parse a word read", func() {
		req, err := ParseRequest("r:0x40")
		Expect(err).ToNot(HaveOccurred())
		Expect(req).To(Equal(ReadWord(0x40)))
	})

	It("should parse a negative address", func() {
		req, err := ParseRequest("r:-1")
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Address).To(Equal(int64(-1)))
	})

	It("should parse a word write", func() {
		req, err := ParseRequest("w:128=-7")
		Expect(err).ToNot(HaveOccurred())
		Expect(req).To(Equal(WriteWord(128, -7)))
	})

	It("should parse a line read", func() {
		req, err := ParseRequest("rl:12")
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Kind).To(Equal(storage.OpReadLine))
		Expect(req.Address).To(Equal(int64(12)))
	})

	It("should parse a line write", func() {
		req, err := ParseRequest("wl:4=1,2,3,4")
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Kind).To(Equal(storage.OpWriteLine))
		Expect(req.Line).To(Equal(storage.Line{1, 2, 3, 4}))
	})

	It("should print requests back in the same form", func() {
		Expect(WriteWord(3, 9).String()).To(Equal("w:3=9"))
		Expect(ReadLine(8).String()).To(Equal("rl:8"))
		Expect(ReadWord(-2).String()).To(Equal("r:-2"))
	})

	DescribeTable("should reject malformed requests",
		func(s string) {
			_, err := ParseRequest(s)
			Expect(err).To(HaveOccurred())
		},
		Entry("no kind", "40"),
		Entry("unknown kind", "x:40"),
		Entry("bad address", "r:zz"),
		Entry("write without value", "w:40"),
		Entry("bad value", "w:40=abc"),
		Entry("value out of range", "w:40=0x1ffffffff"),
	)
})
