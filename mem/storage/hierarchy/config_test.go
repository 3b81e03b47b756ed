package hierarchy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memhier/mem/storage/cache"
)

var _ = Describe("Config", func() {
	It("should have a valid default", func() {
		c := DefaultConfig()

		Expect(c.Validate()).To(Succeed())
		Expect(c.Levels).To(HaveLen(1))
		Expect(c.Levels[0].Name).To(Equal("L1"))
	})

	It("should load a dotenv file", func() {
		c, err := LoadConfig("testdata/two_levels.env")

		Expect(err).ToNot(HaveOccurred())
		Expect(c.WordBits).To(Equal(uint(10)))
		Expect(c.MemDelay).To(Equal(4))
		Expect(c.Levels).To(HaveLen(2))
		Expect(c.Levels[0]).To(Equal(LevelConfig{
			Name:         "L1",
			Log2NumSlots: 5,
			Delay:        2,
			Replace:      cache.ReplaceLRU,
			Seed:         1,
		}))
		Expect(c.Levels[1]).To(Equal(LevelConfig{
			Name:         "L2",
			Log2NumSlots: 7,
			Log2Ways:     1,
			Delay:        2,
			Replace:      cache.ReplaceRandom,
			Seed:         42,
		}))
	})

	It("should fail on a missing file", func() {
		_, err := LoadConfig("testdata/missing.env")

		Expect(err).To(HaveOccurred())
	})

	It("should allow a hierarchy without caches", func() {
		c, err := ParseConfig(map[string]string{"MEMHIER_LEVELS": ""})

		Expect(err).ToNot(HaveOccurred())
		Expect(c.Levels).To(BeEmpty())
	})

	It("should parse the ID generator choice", func() {
		c, err := ParseConfig(map[string]string{"MEMHIER_PARALLEL_IDS": "true"})

		Expect(err).ToNot(HaveOccurred())
		Expect(c.ParallelIDs).To(BeTrue())

		_, err = ParseConfig(map[string]string{"MEMHIER_PARALLEL_IDS": "maybe"})
		Expect(err).To(MatchError(ContainSubstring("MEMHIER_PARALLEL_IDS")))
	})

	It("should report unparsable values", func() {
		_, err := ParseConfig(map[string]string{"MEMHIER_MEM_DELAY": "slow"})

		Expect(err).To(MatchError(ContainSubstring("MEMHIER_MEM_DELAY")))
	})

	DescribeTable("should reject invalid configurations",
		func(env map[string]string) {
			_, err := ParseConfig(env)
			Expect(err).To(HaveOccurred())
		},
		Entry("no word bits", map[string]string{"MEMHIER_WORD_BITS": "0"}),
		Entry("space too large to allocate", map[string]string{
			"MEMHIER_WORD_BITS": "29",
		}),
		Entry("lines wider than the space", map[string]string{
			"MEMHIER_WORD_BITS": "4",
			"MEMHIER_LINE_BITS": "5",
		}),
		Entry("negative memory delay", map[string]string{
			"MEMHIER_MEM_DELAY": "-1",
		}),
		Entry("more ways than slots", map[string]string{
			"MEMHIER_L1_WAYS": "6",
		}),
		Entry("too many sets", map[string]string{
			"MEMHIER_L1_SIZE": "9",
		}),
		Entry("unknown replacement", map[string]string{
			"MEMHIER_L1_REPLACE": "fifo",
		}),
		Entry("duplicated level", map[string]string{
			"MEMHIER_LEVELS": "L1,L1",
		}),
		Entry("level named after the terminal store", map[string]string{
			"MEMHIER_LEVELS": "DRAM",
		}),
	)
})
