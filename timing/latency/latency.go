// Package latency provides cycle timing models for the floating-point
// pipeline. The divide and square-root cycle counts are derived from the
// recurrence width, so changing the radix in the configuration changes
// every dependent latency consistently.
package latency

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing
// configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// DivCycles returns the number of busy cycles a divide occupies the
// iterative unit: setup, one iteration per DivBitsPerCycle quotient bits,
// and the rounding step. The quotient carries the precision plus three
// guard bits.
func (t *Table) DivCycles(f softfp.Format) uint64 {
	bits := uint64(f.Precision()) + 3
	return t.config.DivSetupCycles + ceilDiv(bits, t.config.DivBitsPerCycle) +
		t.config.DivRoundCycles
}

// SqrtCycles returns the number of busy cycles a square root occupies the
// iterative unit. The root carries the precision plus two guard bits.
func (t *Table) SqrtCycles(f softfp.Format) uint64 {
	bits := uint64(f.Precision()) + 2
	return t.config.DivSetupCycles + ceilDiv(bits, t.config.SqrtBitsPerCycle) +
		t.config.DivRoundCycles
}

// GetLatency returns the occupancy in cycles of the instruction's longest
// stage. Single-pass operations flow at one cycle per stage; divides and
// square roots return their full iterative occupancy.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpFDIV:
		return t.DivCycles(inst.Fmt)

	case insts.OpFSQRT:
		return t.SqrtCycles(inst.Fmt)

	case insts.OpFLW, insts.OpFLD:
		return t.config.LoadLatency

	case insts.OpFSW, insts.OpFSD:
		return t.config.StoreLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpFLW, insts.OpFLD, insts.OpFSW, insts.OpFSD:
		return true
	default:
		return false
	}
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpFLW || inst.Op == insts.OpFLD
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpFSW || inst.Op == insts.OpFSD
}

// IsIterativeOp returns true if the instruction occupies the iterative
// divide/square-root unit.
func (t *Table) IsIterativeOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpFDIV || inst.Op == insts.OpFSQRT
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
