package loader_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DarionT/cvw/loader"
)

var _ = Describe("Trace Loader", func() {
	Describe("Parse", func() {
		It("should parse one word per line", func() {
			prog, err := loader.Parse(strings.NewReader(
				"00208053\n022081D3\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00208053, 0x022081D3}))
		})

		It("should accept 0x prefixes and mixed case", func() {
			prog, err := loader.Parse(strings.NewReader(
				"0x00208053\n0X022081d3\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00208053, 0x022081D3}))
		})

		It("should skip blank lines and comments", func() {
			prog, err := loader.Parse(strings.NewReader(
				"# add then multiply\n" +
					"\n" +
					"022081D3  # FADD.D F3, F1, F2\n" +
					"12118253\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x022081D3, 0x12118253}))
		})

		It("should default the entry point", func() {
			prog, err := loader.Parse(strings.NewReader("00208053\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint64(loader.DefaultEntryPoint)))
		})

		It("should honor an @addr entry point line", func() {
			prog, err := loader.Parse(strings.NewReader(
				"@0x2000\n00208053\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.EntryPoint).To(Equal(uint64(0x2000)))
		})

		It("should reject an entry point after the first word", func() {
			_, err := loader.Parse(strings.NewReader(
				"00208053\n@2000\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		It("should reject malformed words with the line number", func() {
			_, err := loader.Parse(strings.NewReader(
				"00208053\nnot-hex\n"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("line 2"))
		})

		It("should reject words wider than 32 bits", func() {
			_, err := loader.Parse(strings.NewReader("100000000\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should handle an empty trace", func() {
			prog, err := loader.Parse(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(BeEmpty())
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "trace-loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load a trace file", func() {
			path := filepath.Join(tempDir, "prog.hex")
			err := os.WriteFile(path, []byte(
				"# FADD.S F0, F1, F2\n00208053\n"), 0644)
			Expect(err).NotTo(HaveOccurred())

			prog, err := loader.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]uint32{0x00208053}))
		})

		It("should report a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "nope.hex"))
			Expect(err).To(HaveOccurred())
		})

		It("should include the path in parse errors", func() {
			path := filepath.Join(tempDir, "bad.hex")
			err := os.WriteFile(path, []byte("garbage\n"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = loader.Load(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("bad.hex"))
		})
	})
})
