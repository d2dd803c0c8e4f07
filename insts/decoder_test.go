package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Loads and Stores", func() {
		// FLW F1, 8(X2)      -> 0x00812087
		// Encoding: imm12=8, rs1=2, width=010, rd=1, 0000111
		It("should decode FLW F1, 8(X2)", func() {
			inst := decoder.Decode(0x00812087)

			Expect(inst.Op).To(Equal(insts.OpFLW))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Imm).To(Equal(int32(8)))
		})

		// FLD F3, -16(X4)    -> 0xFF023187
		// Encoding: imm12=-16, rs1=4, width=011, rd=3, 0000111
		It("should decode FLD F3, -16(X4)", func() {
			inst := decoder.Decode(0xFF023187)

			Expect(inst.Op).To(Equal(insts.OpFLD))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(4)))
			Expect(inst.Imm).To(Equal(int32(-16)))
		})

		// FSW F5, 12(X6)     -> 0x00532627
		// Encoding: imm[11:5]=0, rs2=5, rs1=6, width=010, imm[4:0]=12, 0100111
		It("should decode FSW F5, 12(X6)", func() {
			inst := decoder.Decode(0x00532627)

			Expect(inst.Op).To(Equal(insts.OpFSW))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rs1).To(Equal(uint8(6)))
			Expect(inst.Rs2).To(Equal(uint8(5)))
			Expect(inst.Imm).To(Equal(int32(12)))
		})

		// FSD F7, -8(X8)     -> 0xFE743C27
		// Encoding: imm[11:5]=0x7F, rs2=7, rs1=8, width=011, imm[4:0]=0x18, 0100111
		It("should decode FSD F7, -8(X8)", func() {
			inst := decoder.Decode(0xFE743C27)

			Expect(inst.Op).To(Equal(insts.OpFSD))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rs1).To(Equal(uint8(8)))
			Expect(inst.Rs2).To(Equal(uint8(7)))
			Expect(inst.Imm).To(Equal(int32(-8)))
		})
	})

	Describe("Fused Multiply-Add", func() {
		// FMADD.S F1, F2, F3, F4 -> 0x203100C3
		// Encoding: rs3=4, fmt=00, rs2=3, rs1=2, rm=000, rd=1, 1000011
		It("should decode FMADD.S F1, F2, F3, F4", func() {
			inst := decoder.Decode(0x203100C3)

			Expect(inst.Op).To(Equal(insts.OpFMADD))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Rs2).To(Equal(uint8(3)))
			Expect(inst.Rs3).To(Equal(uint8(4)))
			Expect(inst.RM).To(Equal(softfp.RNE))
		})

		// FNMADD.D F5, F6, F7, F8 -> 0x427302CF
		// Encoding: rs3=8, fmt=01, rs2=7, rs1=6, rm=000, rd=5, 1001111
		It("should decode FNMADD.D F5, F6, F7, F8", func() {
			inst := decoder.Decode(0x427302CF)

			Expect(inst.Op).To(Equal(insts.OpFNMADD))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rs1).To(Equal(uint8(6)))
			Expect(inst.Rs2).To(Equal(uint8(7)))
			Expect(inst.Rs3).To(Equal(uint8(8)))
		})
	})

	Describe("Arithmetic", func() {
		// FADD.S F0, F1, F2  -> 0x00208053
		// Encoding: funct7=0000000, rs2=2, rs1=1, rm=000, rd=0, 1010011
		It("should decode FADD.S F0, F1, F2", func() {
			inst := decoder.Decode(0x00208053)

			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(0)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(2)))
			Expect(inst.RM).To(Equal(softfp.RNE))
		})

		// FSUB.D F3, F4, F5, RTZ -> 0x0A5211D3
		// Encoding: funct7=0000101, rs2=5, rs1=4, rm=001, rd=3, 1010011
		It("should decode FSUB.D F3, F4, F5 with RTZ", func() {
			inst := decoder.Decode(0x0A5211D3)

			Expect(inst.Op).To(Equal(insts.OpFSUB))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Rs1).To(Equal(uint8(4)))
			Expect(inst.Rs2).To(Equal(uint8(5)))
			Expect(inst.RM).To(Equal(softfp.RTZ))
		})

		// FMUL.S F10, F11, F12, DYN -> 0x10C5F553
		// Encoding: funct7=0001000, rs2=12, rs1=11, rm=111, rd=10, 1010011
		It("should decode FMUL.S F10, F11, F12 with dynamic rounding", func() {
			inst := decoder.Decode(0x10C5F553)

			Expect(inst.Op).To(Equal(insts.OpFMUL))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(10)))
			Expect(inst.Rs1).To(Equal(uint8(11)))
			Expect(inst.Rs2).To(Equal(uint8(12)))
			Expect(inst.RM).To(Equal(softfp.RMDyn))
		})

		// FDIV.D F1, F2, F3  -> 0x1A3100D3
		// Encoding: funct7=0001101, rs2=3, rs1=2, rm=000, rd=1, 1010011
		It("should decode FDIV.D F1, F2, F3", func() {
			inst := decoder.Decode(0x1A3100D3)

			Expect(inst.Op).To(Equal(insts.OpFDIV))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Rs2).To(Equal(uint8(3)))
		})

		// FSQRT.S F5, F6     -> 0x580302D3
		// Encoding: funct7=0101100, rs2=0, rs1=6, rm=000, rd=5, 1010011
		It("should decode FSQRT.S F5, F6", func() {
			inst := decoder.Decode(0x580302D3)

			Expect(inst.Op).To(Equal(insts.OpFSQRT))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rs1).To(Equal(uint8(6)))
		})
	})

	Describe("Sign Injection and Min/Max", func() {
		// FSGNJN.D F7, F8, F9 -> 0x229413D3
		// Encoding: funct7=0010001, rs2=9, rs1=8, rm=001, rd=7, 1010011
		It("should decode FSGNJN.D F7, F8, F9", func() {
			inst := decoder.Decode(0x229413D3)

			Expect(inst.Op).To(Equal(insts.OpFSGNJN))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(7)))
			Expect(inst.Rs1).To(Equal(uint8(8)))
			Expect(inst.Rs2).To(Equal(uint8(9)))
		})

		// FMIN.S F1, F2, F3  -> 0x283100D3
		// Encoding: funct7=0010100, rs2=3, rs1=2, rm=000, rd=1, 1010011
		It("should decode FMIN.S F1, F2, F3", func() {
			inst := decoder.Decode(0x283100D3)

			Expect(inst.Op).To(Equal(insts.OpFMIN))
			Expect(inst.Fmt).To(Equal(softfp.Single))
		})

		// FMAX.D F4, F5, F6  -> 0x2A629253
		// Encoding: funct7=0010101, rs2=6, rs1=5, rm=001, rd=4, 1010011
		It("should decode FMAX.D F4, F5, F6", func() {
			inst := decoder.Decode(0x2A629253)

			Expect(inst.Op).To(Equal(insts.OpFMAX))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(4)))
		})
	})

	Describe("Comparisons and Classification", func() {
		// FEQ.S X5, F1, F2   -> 0xA020A2D3
		// Encoding: funct7=1010000, rs2=2, rs1=1, rm=010, rd=5, 1010011
		It("should decode FEQ.S X5, F1, F2", func() {
			inst := decoder.Decode(0xA020A2D3)

			Expect(inst.Op).To(Equal(insts.OpFEQ))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.WritesInt()).To(BeTrue())
			Expect(inst.WritesFP()).To(BeFalse())
		})

		// FLT.D X6, F3, F4   -> 0xA2419353
		// Encoding: funct7=1010001, rs2=4, rs1=3, rm=001, rd=6, 1010011
		It("should decode FLT.D X6, F3, F4", func() {
			inst := decoder.Decode(0xA2419353)

			Expect(inst.Op).To(Equal(insts.OpFLT))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(6)))
		})

		// FLE.S X7, F5, F6   -> 0xA06283D3
		// Encoding: funct7=1010000, rs2=6, rs1=5, rm=000, rd=7, 1010011
		It("should decode FLE.S X7, F5, F6", func() {
			inst := decoder.Decode(0xA06283D3)

			Expect(inst.Op).To(Equal(insts.OpFLE))
			Expect(inst.Fmt).To(Equal(softfp.Single))
		})

		// FCLASS.D X7, F8    -> 0xE20413D3
		// Encoding: funct7=1110001, rs2=0, rs1=8, rm=001, rd=7, 1010011
		It("should decode FCLASS.D X7, F8", func() {
			inst := decoder.Decode(0xE20413D3)

			Expect(inst.Op).To(Equal(insts.OpFCLASS))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(7)))
			Expect(inst.Rs1).To(Equal(uint8(8)))
		})
	})

	Describe("Conversions and Moves", func() {
		// FCVT.S.D F1, F2    -> 0x401100D3
		// Encoding: funct7=0100000, rs2=00001, rs1=2, rm=000, rd=1, 1010011
		It("should decode FCVT.S.D F1, F2", func() {
			inst := decoder.Decode(0x401100D3)

			Expect(inst.Op).To(Equal(insts.OpFCVTFmt))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.SrcFmt).To(Equal(softfp.Double))
		})

		// FCVT.D.S F3, F4    -> 0x420201D3
		// Encoding: funct7=0100001, rs2=00000, rs1=4, rm=000, rd=3, 1010011
		It("should decode FCVT.D.S F3, F4", func() {
			inst := decoder.Decode(0x420201D3)

			Expect(inst.Op).To(Equal(insts.OpFCVTFmt))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.SrcFmt).To(Equal(softfp.Single))
		})

		// FCVT.W.S X1, F2, RTZ -> 0xC00110D3
		// Encoding: funct7=1100000, rs2=00000, rs1=2, rm=001, rd=1, 1010011
		It("should decode FCVT.W.S X1, F2 with RTZ", func() {
			inst := decoder.Decode(0xC00110D3)

			Expect(inst.Op).To(Equal(insts.OpFCVTToInt))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Signed).To(BeTrue())
			Expect(inst.Width).To(Equal(softfp.Word))
			Expect(inst.RM).To(Equal(softfp.RTZ))
		})

		// FCVT.LU.D X3, F4   -> 0xC23201D3
		// Encoding: funct7=1100001, rs2=00011, rs1=4, rm=000, rd=3, 1010011
		It("should decode FCVT.LU.D X3, F4", func() {
			inst := decoder.Decode(0xC23201D3)

			Expect(inst.Op).To(Equal(insts.OpFCVTToInt))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Signed).To(BeFalse())
			Expect(inst.Width).To(Equal(softfp.Long))
		})

		// FCVT.D.WU F1, X2   -> 0xD21100D3
		// Encoding: funct7=1101001, rs2=00001, rs1=2, rm=000, rd=1, 1010011
		It("should decode FCVT.D.WU F1, X2", func() {
			inst := decoder.Decode(0xD21100D3)

			Expect(inst.Op).To(Equal(insts.OpFCVTFromInt))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Signed).To(BeFalse())
			Expect(inst.Width).To(Equal(softfp.Word))
			Expect(inst.UsesRs1FP()).To(BeFalse())
		})

		// FMV.X.W X5, F6     -> 0xE00302D3
		// Encoding: funct7=1110000, rs2=00000, rs1=6, rm=000, rd=5, 1010011
		It("should decode FMV.X.W X5, F6", func() {
			inst := decoder.Decode(0xE00302D3)

			Expect(inst.Op).To(Equal(insts.OpFMVToInt))
			Expect(inst.Fmt).To(Equal(softfp.Single))
			Expect(inst.Rd).To(Equal(uint8(5)))
			Expect(inst.Rs1).To(Equal(uint8(6)))
		})

		// FMV.D.X F9, X10    -> 0xF20504D3
		// Encoding: funct7=1111001, rs2=00000, rs1=10, rm=000, rd=9, 1010011
		It("should decode FMV.D.X F9, X10", func() {
			inst := decoder.Decode(0xF20504D3)

			Expect(inst.Op).To(Equal(insts.OpFMVFromInt))
			Expect(inst.Fmt).To(Equal(softfp.Double))
			Expect(inst.Rd).To(Equal(uint8(9)))
			Expect(inst.Rs1).To(Equal(uint8(10)))
		})
	})

	Describe("Reserved Encodings", func() {
		It("should mark non-FP encodings as unknown", func() {
			inst := decoder.Decode(0x00000000)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})

		// FADD.S with rm=101 (reserved rounding mode)
		It("should reject reserved rounding modes", func() {
			inst := decoder.Decode(0x0020D053)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})

		// FSQRT.S with rs2 != 0
		It("should reject FSQRT with a nonzero rs2 field", func() {
			inst := decoder.Decode(0x581302D3)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})

		// FCVT.S with rs2 selecting the single source (same-format conversion)
		It("should reject same-format FCVT", func() {
			inst := decoder.Decode(0x400100D3)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})

		// FADD with fmt=10 (half precision, not implemented)
		It("should reject unimplemented formats", func() {
			inst := decoder.Decode(0x04208053)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
		})
	})
})
