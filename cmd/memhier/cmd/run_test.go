package cmd

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func execute(args ...string) (string, error) {
	out, _, err := executeWithStderr(args...)

	return out, err
}

func executeWithStderr(args ...string) (string, string, error) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)

	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), errOut.String(), err
}

var _ = Describe("run", func() {
	It("should run accesses and report latencies", func() {
		out, err := execute("run",
			"--image", "1,2,3,4",
			"--access", "r:2",
			"--access", "w:2=9",
			"--access", "r:2",
			"--view-level", "DRAM",
			"--view-count", "1",
		)

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("r:2 -> 3 (8 cycles, done at cycle 7)"))
		Expect(out).To(ContainSubstring("w:2=9 (3 cycles, done at cycle 10)"))
		Expect(out).To(ContainSubstring("r:2 -> 9 (3 cycles, done at cycle 13)"))
		Expect(out).To(ContainSubstring("DRAM:\n  0: [1 2 3 4]"))
		Expect(out).To(MatchRegexp(`L1\s+2\s+1\s+2\s+1\s+0\s+1`))
		Expect(out).To(ContainSubstring("L1 steps: miss 1, fill 1\n"))
		Expect(out).ToNot(ContainSubstring("DRAM steps"))
	})

	It("should name transactions with xids when asked", func() {
		_, sequential, err := executeWithStderr("run", "--log-trace", "--access", "r:0")
		Expect(err).ToNot(HaveOccurred())
		Expect(sequential).ToNot(MatchRegexp(`start, 0, L1, [0-9a-v]{20}, cpu`))

		_, parallel, err := executeWithStderr("run",
			"--parallel-ids", "--log-trace", "--access", "r:0")
		Expect(err).ToNot(HaveOccurred())
		Expect(parallel).To(MatchRegexp(`start, 0, L1, [0-9a-v]{20}, cpu`))
	})

	It("should let flags override the configuration", func() {
		out, err := execute("run", "--mem-delay", "0", "--access", "r:-1")

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("r:-1 -> 0 (4 cycles"))
	})

	It("should read the hierarchy from a dotenv file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "hier.env")
		err := os.WriteFile(path, []byte("MEMHIER_LEVELS=\nMEMHIER_MEM_DELAY=1\n"), 0o600)
		Expect(err).ToNot(HaveOccurred())

		out, err := execute("run", "--config", path, "--access", "w:0=5")

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("w:0=5 (2 cycles"))
		Expect(out).ToNot(ContainSubstring("L1"))
	})

	It("should stop at the cycle limit", func() {
		out, err := execute("run", "--max-cycles", "3", "--access", "r:0")

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("stopped after 3 cycles"))
	})

	It("should record a trace database", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")

		_, err := execute("run", "--trace-db", path, "--access", "r:0")

		Expect(err).ToNot(HaveOccurred())
		Expect(path + ".sqlite3").To(BeAnExistingFile())
	})

	DescribeTable("should reject bad input",
		func(args ...string) {
			_, err := execute(append([]string{"run"}, args...)...)
			Expect(err).To(HaveOccurred())
		},
		Entry("bad access", "--access", "x:1"),
		Entry("bad image", "--image", "1,two"),
		Entry("missing config", "--config", "/nonexistent/hier.env"),
		Entry("invalid space", "--word-bits", "0"),
		Entry("unknown view level", "--view-count", "1", "--view-level", "L7"),
	)
})
