// Package pipeline provides the 4-stage floating-point pipeline model.
package pipeline

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// MemSel selects what the Memory stage does with an instruction.
type MemSel uint8

const (
	// MemPass carries the Execute-stage result through unchanged.
	MemPass MemSel = iota
	// MemRound performs the second half of a staged operation: the
	// magnitude sum and the single rounding step.
	MemRound
	// MemLoad commits externally supplied load data, boxing singles.
	MemLoad
	// MemStore drives the captured source register onto the store-data
	// output.
	MemStore
)

// WBSel selects the destination register file in Writeback.
type WBSel uint8

const (
	// WBNone commits no register result (stores, illegal encodings).
	WBNone WBSel = iota
	// WBFP writes the FP register file.
	WBFP
	// WBInt drives the integer-result output.
	WBInt
)

// CtrlBundle is the control word produced by the Decode stage. It travels
// down the pipeline unchanged; stalls hold it in place and flushes clear
// the slot that carries it.
type CtrlBundle struct {
	// Inst is the decoded instruction.
	Inst *insts.Instruction

	// RM is the rounding mode with DYN already resolved against frm.
	RM softfp.RoundingMode

	// MemSel and WBSel steer the Memory and Writeback result muxes.
	MemSel MemSel
	WBSel  WBSel

	// DivStart marks an instruction that occupies the iterative
	// divide/square-root unit.
	DivStart bool

	// Illegal marks an encoding that decodes but must not commit any
	// register state. WBSel is WBNone whenever Illegal is set.
	Illegal bool
}

// IDEXRegister holds state between the Decode and Execute stages.
type IDEXRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Ctrl is the control bundle created in Decode.
	Ctrl CtrlBundle

	// Operand values captured in Decode. AValue holds the first FP
	// operand (boxed), the integer operand for transfers from the
	// integer side, or the raw load data for loads. BValue holds the
	// second FP operand, which for stores is the value to store.
	AValue uint64
	BValue uint64
	CValue uint64

	// Destination and source register numbers for hazard detection.
	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Rs3 uint8

	// DivIssued marks that the iterative unit has already accepted this
	// instruction, so a stalled Execute stage does not start it twice.
	DivIssued bool
}

// Clear resets the ID/EX register to empty state.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between the Execute and Memory stages.
type EXMEMRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Ctrl is the control bundle, propagated from ID/EX.
	Ctrl CtrlBundle

	// Sum is the aligned intermediate of a staged operation. Only
	// meaningful when Ctrl.MemSel is MemRound.
	Sum softfp.AlignedSum

	// Result holds the completed value of a single-pass operation, the
	// raw load data for loads, or the finished iterative-unit result.
	Result uint64

	// Flags are the exception flags raised so far.
	Flags softfp.Flags

	// StoreValue is the register value to store, for stores.
	StoreValue uint64

	// Rd is the destination register number.
	Rd uint8
}

// Clear resets the EX/MEM register to empty state.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between the Memory and Writeback stages.
type MEMWBRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Ctrl is the control bundle, propagated from EX/MEM.
	Ctrl CtrlBundle

	// Result is the final value selected by the Memory-stage mux.
	Result uint64

	// Flags are the exception flags to accrue at commit.
	Flags softfp.Flags

	// Rd is the destination register number.
	Rd uint8
}

// Clear resets the MEM/WB register to empty state.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
