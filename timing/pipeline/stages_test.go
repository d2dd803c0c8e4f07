package pipeline_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/DarionT/cvw/emu"
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
	"github.com/DarionT/cvw/timing/pipeline"
)

var _ = Describe("DecodeStage", func() {
	var (
		regFile *emu.RegFile
		stage   *pipeline.DecodeStage
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		stage = pipeline.NewDecodeStage(regFile)
	})

	It("should route an addition to the staged rounding path", func() {
		regFile.WriteF(1, math.Float64bits(1.5))
		regFile.WriteF(2, math.Float64bits(2.5))

		// FADD.D F0, F1, F2 -> 0x02208053
		dec := stage.Decode(0x02208053, softfp.RNE, 0, 0)

		Expect(dec.Ctrl.Illegal).To(BeFalse())
		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemRound))
		Expect(dec.Ctrl.WBSel).To(Equal(pipeline.WBFP))
		Expect(dec.Ctrl.DivStart).To(BeFalse())
		Expect(dec.AValue).To(Equal(math.Float64bits(1.5)))
		Expect(dec.BValue).To(Equal(math.Float64bits(2.5)))
	})

	It("should capture load data as the operand of a load", func() {
		// FLW F1, 8(X2) -> 0x00812087
		dec := stage.Decode(0x00812087, softfp.RNE, 0, 0x3F800000)

		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemLoad))
		Expect(dec.Ctrl.WBSel).To(Equal(pipeline.WBFP))
		Expect(dec.AValue).To(Equal(uint64(0x3F800000)))
	})

	It("should capture the store value from the FP register file", func() {
		regFile.WriteF(5, 0xFFFFFFFF40200000)

		// FSW F5, 12(X6) -> 0x00532627
		dec := stage.Decode(0x00532627, softfp.RNE, 0, 0)

		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemStore))
		Expect(dec.Ctrl.WBSel).To(Equal(pipeline.WBNone))
		Expect(dec.BValue).To(Equal(uint64(0xFFFFFFFF40200000)))
	})

	It("should capture the integer operand for an int-to-FP conversion", func() {
		// FCVT.S.W F1, X2 -> 0xD00100D3
		dec := stage.Decode(0xD00100D3, softfp.RNE, 42, 0)

		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemPass))
		Expect(dec.AValue).To(Equal(uint64(42)))
	})

	It("should mark divides for the iterative unit", func() {
		// FDIV.D F1, F2, F3 -> 0x1A3100D3
		dec := stage.Decode(0x1A3100D3, softfp.RNE, 0, 0)

		Expect(dec.Ctrl.DivStart).To(BeTrue())
		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemPass))
	})

	It("should route comparisons to the integer writeback", func() {
		// FEQ.S X5, F1, F2 -> 0xA020A2D3
		dec := stage.Decode(0xA020A2D3, softfp.RNE, 0, 0)

		Expect(dec.Ctrl.MemSel).To(Equal(pipeline.MemPass))
		Expect(dec.Ctrl.WBSel).To(Equal(pipeline.WBInt))
	})

	It("should resolve the dynamic rounding mode against frm", func() {
		// FADD.D F0, F1, F2 rm=DYN -> 0x0220F053
		dec := stage.Decode(0x0220F053, softfp.RTZ, 0, 0)

		Expect(dec.Ctrl.Illegal).To(BeFalse())
		Expect(dec.Ctrl.RM).To(Equal(softfp.RTZ))
	})

	It("should flag DYN with an invalid frm as illegal", func() {
		dec := stage.Decode(0x0220F053, softfp.RoundingMode(5), 0, 0)

		Expect(dec.Ctrl.Illegal).To(BeTrue())
		Expect(dec.Ctrl.WBSel).To(Equal(pipeline.WBNone))
	})

	It("should flag an undecodable word as illegal", func() {
		dec := stage.Decode(0xFFFFFFFF, softfp.RNE, 0, 0)

		Expect(dec.Ctrl.Illegal).To(BeTrue())
		Expect(dec.Inst.Op).To(Equal(insts.OpUnknown))
	})
})

var _ = Describe("Execute and Memory stages", func() {
	var (
		decoder *insts.Decoder
		exec    *pipeline.ExecuteStage
		mem     *pipeline.MemoryStage
	)

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		exec = pipeline.NewExecuteStage()
		mem = pipeline.NewMemoryStage()
	})

	runStaged := func(word uint32, a, b, c uint64) (uint64, softfp.Flags) {
		inst := decoder.Decode(word)
		Expect(inst.Op).NotTo(Equal(insts.OpUnknown))

		idex := &pipeline.IDEXRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{Inst: inst, RM: inst.RM, MemSel: pipeline.MemRound},
			AValue: a,
			BValue: b,
			CValue: c,
		}
		execResult := exec.Execute(idex)

		exmem := &pipeline.EXMEMRegister{
			Valid: true,
			Ctrl:  idex.Ctrl,
			Sum:   execResult.Sum,
		}
		memResult := mem.Access(exmem)
		return memResult.Result, memResult.Flags
	}

	It("should complete an addition across the two stages", func() {
		// FADD.D F0, F1, F2 -> 0x02208053
		res, fl := runStaged(0x02208053,
			math.Float64bits(1.5), math.Float64bits(2.25), 0)

		Expect(res).To(Equal(math.Float64bits(3.75)))
		Expect(fl).To(Equal(softfp.Flags(0)))
	})

	It("should complete a subtraction across the two stages", func() {
		// FSUB.D F0, F1, F2 -> 0x0A208053
		res, fl := runStaged(0x0A208053,
			math.Float64bits(5.0), math.Float64bits(1.5), 0)

		Expect(res).To(Equal(math.Float64bits(3.5)))
		Expect(fl).To(Equal(softfp.Flags(0)))
	})

	It("should match the single-rounding fused multiply-add", func() {
		// FMADD.D F1, F2, F3, F4 -> 0x223100C3
		a := math.Float64bits(1.0 / 3.0)
		b := math.Float64bits(3.0)
		c := math.Float64bits(-1.0)
		res, _ := runStaged(0x223100C3, a, b, c)

		want, _ := softfp.MulAdd(a, b, c, softfp.Double, softfp.RNE)
		Expect(res).To(Equal(want))
	})

	It("should preserve the signed-zero product of a multiply", func() {
		// FMUL.D F0, F1, F2 -> 0x12208053
		res, fl := runStaged(0x12208053,
			math.Float64bits(-2.0), math.Float64bits(0.0), 0)

		Expect(res).To(Equal(math.Float64bits(math.Copysign(0, -1))))
		Expect(fl).To(Equal(softfp.Flags(0)))
	})

	It("should widen a single to a double exactly", func() {
		// FCVT.D.S F1, F2 -> 0x420100D3
		res, fl := runStaged(0x420100D3, softfp.BoxSingle(0x3FC00000), 0, 0)

		Expect(res).To(Equal(math.Float64bits(1.5)))
		Expect(fl).To(Equal(softfp.Flags(0)))
	})

	It("should round when narrowing a double to a single", func() {
		// FCVT.S.D F1, F2 -> 0x401170D3 (rm=DYN resolved to RNE here)
		inst := decoder.Decode(0x401170D3)
		idex := &pipeline.IDEXRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{Inst: inst, RM: softfp.RNE, MemSel: pipeline.MemRound},
			AValue: math.Float64bits(0.1),
		}
		exmem := &pipeline.EXMEMRegister{
			Valid: true,
			Ctrl:  idex.Ctrl,
			Sum:   exec.Execute(idex).Sum,
		}
		memResult := mem.Access(exmem)

		want, wantFl := softfp.CvtFormat(
			math.Float64bits(0.1), softfp.Double, softfp.Single, softfp.RNE)
		Expect(memResult.Result).To(Equal(softfp.Box(want, softfp.Single)))
		Expect(memResult.Flags).To(Equal(wantFl))
	})

	It("should box single-precision load data", func() {
		// FLW F1, 8(X2) -> 0x00812087
		inst := decoder.Decode(0x00812087)
		exmem := &pipeline.EXMEMRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{Inst: inst, MemSel: pipeline.MemLoad},
			Result: 0x3F800000,
		}

		memResult := mem.Access(exmem)

		Expect(memResult.Result).To(Equal(uint64(0xFFFFFFFF3F800000)))
	})

	It("should drive the store-data output", func() {
		// FSD F5, 0(X6) -> 0x00533027
		inst := decoder.Decode(0x00533027)
		exmem := &pipeline.EXMEMRegister{
			Valid:      true,
			Ctrl:       pipeline.CtrlBundle{Inst: inst, MemSel: pipeline.MemStore},
			StoreValue: math.Float64bits(2.5),
		}

		memResult := mem.Access(exmem)

		Expect(memResult.StoreValid).To(BeTrue())
		Expect(memResult.StoreData).To(Equal(math.Float64bits(2.5)))
	})
})

var _ = Describe("WritebackStage", func() {
	var (
		regFile *emu.RegFile
		stage   *pipeline.WritebackStage
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		stage = pipeline.NewWritebackStage(regFile)
	})

	It("should write an FP result and accrue its flags", func() {
		memwb := &pipeline.MEMWBRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{WBSel: pipeline.WBFP},
			Result: math.Float64bits(3.75),
			Flags:  softfp.FlagInexact,
			Rd:     7,
		}

		intWrite, _ := stage.Writeback(memwb)

		Expect(intWrite).To(BeFalse())
		Expect(regFile.ReadF(7)).To(Equal(math.Float64bits(3.75)))
		Expect(regFile.FCSR.Fflags).To(Equal(softfp.FlagInexact))
	})

	It("should return integer results to the caller", func() {
		memwb := &pipeline.MEMWBRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{WBSel: pipeline.WBInt},
			Result: 1,
			Rd:     5,
		}

		intWrite, intResult := stage.Writeback(memwb)

		Expect(intWrite).To(BeTrue())
		Expect(intResult).To(Equal(uint64(1)))
	})

	It("should commit nothing for an illegal slot", func() {
		memwb := &pipeline.MEMWBRegister{
			Valid:  true,
			Ctrl:   pipeline.CtrlBundle{WBSel: pipeline.WBFP, Illegal: true},
			Result: math.Float64bits(1.0),
			Flags:  softfp.FlagInvalid,
			Rd:     7,
		}

		intWrite, _ := stage.Writeback(memwb)

		Expect(intWrite).To(BeFalse())
		Expect(regFile.ReadF(7)).To(Equal(uint64(0)))
		Expect(regFile.FCSR.Fflags).To(Equal(softfp.Flags(0)))
	})

	It("should commit nothing for an empty slot", func() {
		memwb := &pipeline.MEMWBRegister{}

		intWrite, _ := stage.Writeback(memwb)

		Expect(intWrite).To(BeFalse())
	})
})
