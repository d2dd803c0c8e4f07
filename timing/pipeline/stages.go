package pipeline

import (
	"github.com/DarionT/cvw/emu"
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// DecodeStage handles instruction decode, rounding-mode resolution and
// register read.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// DecodeResult holds the result of the decode stage.
type DecodeResult struct {
	Inst *insts.Instruction
	Ctrl CtrlBundle

	// Operand values. AValue carries the first FP operand, the integer
	// operand, or the raw load data; BValue the second FP operand (the
	// store value for stores); CValue the fused multiply-add addend.
	AValue uint64
	BValue uint64
	CValue uint64
}

// Decode decodes the instruction word, resolves the rounding mode against
// frm, derives the control bundle, and reads the register file. intData is
// the integer operand supplied by the outside pipeline; loadData is the raw
// memory data for loads.
func (s *DecodeStage) Decode(word uint32, frm softfp.RoundingMode, intData, loadData uint64) DecodeResult {
	inst := s.decoder.Decode(word)
	result := DecodeResult{
		Inst: inst,
		Ctrl: CtrlBundle{Inst: inst, RM: inst.RM},
	}

	if inst.Op == insts.OpUnknown {
		result.Ctrl.Illegal = true
		return result
	}

	if inst.Rounded() {
		rm, ok := emu.ResolveRM(inst.RM, frm)
		if !ok {
			result.Ctrl.Illegal = true
			return result
		}
		result.Ctrl.RM = rm
	}

	switch inst.Op {
	case insts.OpFLW, insts.OpFLD:
		result.Ctrl.MemSel = MemLoad
	case insts.OpFSW, insts.OpFSD:
		result.Ctrl.MemSel = MemStore
	case insts.OpFADD, insts.OpFSUB, insts.OpFMUL, insts.OpFCVTFmt,
		insts.OpFMADD, insts.OpFMSUB, insts.OpFNMSUB, insts.OpFNMADD:
		result.Ctrl.MemSel = MemRound
	default:
		result.Ctrl.MemSel = MemPass
	}

	switch {
	case inst.WritesFP():
		result.Ctrl.WBSel = WBFP
	case inst.WritesInt():
		result.Ctrl.WBSel = WBInt
	}

	result.Ctrl.DivStart = inst.Op == insts.OpFDIV || inst.Op == insts.OpFSQRT

	switch {
	case result.Ctrl.MemSel == MemLoad:
		result.AValue = loadData
	case inst.UsesRs1FP():
		result.AValue = s.regFile.ReadF(inst.Rs1)
	default:
		result.AValue = intData
	}
	if inst.UsesRs2FP() {
		result.BValue = s.regFile.ReadF(inst.Rs2)
	}
	if inst.UsesRs3() {
		result.CValue = s.regFile.ReadF(inst.Rs3)
	}

	return result
}

// ExecuteStage dispatches an instruction to its functional unit. Staged
// operations produce an aligned intermediate here and round in the Memory
// stage; single-pass operations complete here.
type ExecuteStage struct {
	fma    *FMAUnit
	addCvt *AddCvtUnit
	fpu    *emu.FPU
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{
		fma:    NewFMAUnit(),
		addCvt: NewAddCvtUnit(),
		fpu:    emu.NewFPU(),
	}
}

// ExecuteResult holds the result of the execute stage.
type ExecuteResult struct {
	// Sum is the aligned intermediate of a staged operation.
	Sum softfp.AlignedSum

	// Result and Flags hold the completed value of a single-pass
	// operation, or the raw load data for loads.
	Result uint64
	Flags  softfp.Flags
}

// Execute processes the instruction in the ID/EX register. Iterative
// operations are handled by the DivSqrtUnit, not here.
func (s *ExecuteStage) Execute(idex *IDEXRegister) ExecuteResult {
	result := ExecuteResult{}
	ctrl := idex.Ctrl
	inst := ctrl.Inst

	if ctrl.Illegal {
		return result
	}

	switch ctrl.MemSel {
	case MemRound:
		switch inst.Op {
		case insts.OpFADD, insts.OpFSUB, insts.OpFCVTFmt:
			result.Sum = s.addCvt.Align(inst, idex.AValue, idex.BValue)
		default:
			result.Sum = s.fma.Multiply(inst, idex.AValue, idex.BValue, idex.CValue)
		}

	case MemLoad:
		result.Result = idex.AValue

	case MemStore:
		// The store value rides EXMEM.StoreValue; nothing to compute.

	default:
		result.Result, result.Flags = s.fpu.Execute(
			inst, idex.AValue, idex.BValue, idex.CValue, ctrl.RM)
	}

	return result
}

// MemoryStage completes staged operations, commits load data and drives
// the store-data output.
type MemoryStage struct {
	fma    *FMAUnit
	addCvt *AddCvtUnit
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage() *MemoryStage {
	return &MemoryStage{
		fma:    NewFMAUnit(),
		addCvt: NewAddCvtUnit(),
	}
}

// MemoryResult holds the result of the memory stage.
type MemoryResult struct {
	Result uint64
	Flags  softfp.Flags

	// StoreValid and StoreData drive the store-data output.
	StoreValid bool
	StoreData  uint64
}

// Access runs the Memory-stage mux for the instruction in EX/MEM.
func (s *MemoryStage) Access(exmem *EXMEMRegister) MemoryResult {
	result := MemoryResult{}
	ctrl := exmem.Ctrl

	if ctrl.Illegal {
		return result
	}

	switch ctrl.MemSel {
	case MemRound:
		inst := ctrl.Inst
		switch inst.Op {
		case insts.OpFADD, insts.OpFSUB, insts.OpFCVTFmt:
			result.Result, result.Flags = s.addCvt.Round(exmem.Sum, inst.Fmt, ctrl.RM)
		default:
			result.Result, result.Flags = s.fma.Round(exmem.Sum, inst.Fmt, ctrl.RM)
		}

	case MemLoad:
		result.Result = softfp.Box(exmem.Result, ctrl.Inst.Fmt)

	case MemStore:
		result.StoreValid = true
		result.StoreData = exmem.StoreValue

	default:
		result.Result = exmem.Result
		result.Flags = exmem.Flags
	}

	return result
}

// WritebackStage commits results to the FP register file and accrues
// exception flags into fcsr.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{
		regFile: regFile,
	}
}

// Writeback commits the instruction in MEM/WB. Integer results are
// returned to the caller, which drives them onto the output interface.
func (s *WritebackStage) Writeback(memwb *MEMWBRegister) (intWrite bool, intResult uint64) {
	if !memwb.Valid || memwb.Ctrl.Illegal {
		return false, 0
	}

	s.regFile.FCSR.Accrue(memwb.Flags)

	switch memwb.Ctrl.WBSel {
	case WBFP:
		s.regFile.WriteF(memwb.Rd, memwb.Result)
	case WBInt:
		return true, memwb.Result
	}

	return false, 0
}
