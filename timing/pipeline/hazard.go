package pipeline

import "github.com/DarionT/cvw/insts"

// ForwardSource indicates where a forwarded operand value should come from.
type ForwardSource int

const (
	// ForwardNone means no forwarding needed - use register file value.
	ForwardNone ForwardSource = iota
	// ForwardFromMEM means forward the result the Memory stage completes
	// this tick.
	ForwardFromMEM
	// ForwardFromWB means forward from the MEM/WB pipeline register.
	ForwardFromWB
)

// ForwardingResult contains forwarding decisions for the three FP operand
// positions.
type ForwardingResult struct {
	// ForwardA specifies the forwarding source for the first operand.
	ForwardA ForwardSource
	// ForwardB specifies the forwarding source for the second operand,
	// which for stores is the store-data register.
	ForwardB ForwardSource
	// ForwardC specifies the forwarding source for the addend operand of
	// the fused multiply-add group.
	ForwardC ForwardSource
}

// HazardUnit detects FP data hazards and determines forwarding and stall
// signals for the Decode stage.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// writesFPReg reports whether the slot's instruction commits an FP register.
func writesFPReg(ctrl CtrlBundle) bool {
	return ctrl.WBSel == WBFP && !ctrl.Illegal
}

// DetectForwarding determines forwarding for an instruction entering the
// pipeline. It checks the decoded FP source registers against the
// destinations of the instructions in the Execute-result and Writeback
// slots. Unlike an integer pipeline there is no hardwired-zero register:
// every FP register number can carry a dependence.
func (h *HazardUnit) DetectForwarding(
	inst *insts.Instruction,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) ForwardingResult {
	result := ForwardingResult{
		ForwardA: ForwardNone,
		ForwardB: ForwardNone,
		ForwardC: ForwardNone,
	}

	if inst == nil || inst.Op == insts.OpUnknown {
		return result
	}

	if inst.UsesRs1FP() {
		result.ForwardA = h.detectForwardForReg(inst.Rs1, exmem, memwb)
	}
	if inst.UsesRs2FP() {
		result.ForwardB = h.detectForwardForReg(inst.Rs2, exmem, memwb)
	}
	if inst.UsesRs3() {
		result.ForwardC = h.detectForwardForReg(inst.Rs3, exmem, memwb)
	}

	return result
}

// detectForwardForReg checks if a specific FP register needs forwarding.
func (h *HazardUnit) detectForwardForReg(
	reg uint8,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) ForwardSource {
	// Priority: the Memory stage holds the more recent value.
	if exmem.Valid && writesFPReg(exmem.Ctrl) && exmem.Rd == reg {
		return ForwardFromMEM
	}

	if memwb.Valid && writesFPReg(memwb.Ctrl) && memwb.Rd == reg {
		return ForwardFromWB
	}

	return ForwardNone
}

// DetectUseHazard reports whether the instruction about to enter the
// pipeline reads a register whose producer sits in the Execute slot. The
// producer's value does not exist until its Memory stage completes, one
// tick too late to forward, so Decode must stall one cycle.
func (h *HazardUnit) DetectUseHazard(inst *insts.Instruction, idex *IDEXRegister) bool {
	if inst == nil || inst.Op == insts.OpUnknown {
		return false
	}
	if !idex.Valid || !writesFPReg(idex.Ctrl) {
		return false
	}

	rd := idex.Rd
	if inst.UsesRs1FP() && inst.Rs1 == rd {
		return true
	}
	if inst.UsesRs2FP() && inst.Rs2 == rd {
		return true
	}
	if inst.UsesRs3() && inst.Rs3 == rd {
		return true
	}
	return false
}

// GetForwardedValue returns the operand value to use based on the
// forwarding decision. memResult is the result the Memory stage produced
// this tick.
func (h *HazardUnit) GetForwardedValue(
	forward ForwardSource,
	originalValue uint64,
	memResult uint64,
	memwb *MEMWBRegister,
) uint64 {
	switch forward {
	case ForwardFromMEM:
		return memResult
	case ForwardFromWB:
		return memwb.Result
	default:
		return originalValue
	}
}
