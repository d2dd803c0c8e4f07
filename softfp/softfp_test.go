package softfp_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DarionT/cvw/softfp"
)

func d(v float64) uint64 { return math.Float64bits(v) }
func s(v float32) uint64 { return uint64(math.Float32bits(v)) }

var _ = Describe("NaN Boxing", func() {
	It("should round-trip a single through the boxed representation", func() {
		bits := math.Float32bits(1.5)
		Expect(softfp.UnboxSingle(softfp.BoxSingle(bits))).To(Equal(bits))
	})

	It("should box with all-ones upper bits", func() {
		Expect(softfp.BoxSingle(0x3F800000)).To(Equal(uint64(0xFFFFFFFF3F800000)))
	})

	It("should read an improperly boxed single as the canonical quiet NaN", func() {
		Expect(softfp.UnboxSingle(0x123456783F800000)).To(Equal(uint32(0x7FC00000)))
	})

	It("should pass doubles through Box unchanged", func() {
		Expect(softfp.Box(d(2.5), softfp.Double)).To(Equal(d(2.5)))
		Expect(softfp.Unbox(d(2.5), softfp.Double)).To(Equal(d(2.5)))
	})
})

var _ = Describe("Classify", func() {
	classify := func(bits uint64, f softfp.Format) uint64 {
		return softfp.Classify(softfp.Unpack(bits, f))
	}

	It("should classify negative normals", func() {
		Expect(classify(d(-1.5), softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskNegNormal)))
	})

	It("should classify zeros by sign", func() {
		Expect(classify(0, softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskPosZero)))
		Expect(classify(0x8000000000000000, softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskNegZero)))
	})

	It("should classify subnormals", func() {
		Expect(classify(0x00000001, softfp.Single)).
			To(Equal(uint64(softfp.ClassMaskPosSubnormal)))
	})

	It("should classify infinities", func() {
		Expect(classify(softfp.Inf(softfp.Double, true), softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskNegInf)))
	})

	It("should distinguish quiet and signaling NaNs", func() {
		Expect(classify(0x7FF8000000000000, softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskQNaN)))
		Expect(classify(0x7FF0000000000001, softfp.Double)).
			To(Equal(uint64(softfp.ClassMaskSNaN)))
	})
})

var _ = Describe("Sign Injection", func() {
	It("should copy the second operand's sign", func() {
		res := softfp.SignInject(d(-1.5), d(2.0), softfp.Double, softfp.SignCopy)
		Expect(res).To(Equal(d(1.5)))
	})

	It("should inject the negated sign", func() {
		res := softfp.SignInject(d(1.5), d(2.0), softfp.Double, softfp.SignNeg)
		Expect(res).To(Equal(d(-1.5)))
	})

	It("should xor the signs", func() {
		res := softfp.SignInject(d(-1.5), d(-2.0), softfp.Double, softfp.SignXor)
		Expect(res).To(Equal(d(1.5)))
	})

	It("should preserve NaN payloads untouched", func() {
		res := softfp.SignInject(0x7FF0000000000001, d(-1.0), softfp.Double, softfp.SignCopy)
		Expect(res).To(Equal(uint64(0xFFF0000000000001)))
	})
})

var _ = Describe("Flags", func() {
	It("should render set flags in NV/DZ/OF/UF/NX order", func() {
		fl := softfp.FlagInvalid | softfp.FlagInexact
		Expect(fl.String()).To(Equal("NVNX"))
	})

	It("should render the empty set as a dash", func() {
		Expect(softfp.Flags(0).String()).To(Equal("-"))
	})
})
