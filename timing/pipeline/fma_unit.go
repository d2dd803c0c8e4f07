package pipeline

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// FMAUnit is the two-stage fused multiply-add datapath. The first stage
// screens specials, multiplies the significands and aligns the addend; the
// second stage sums and rounds. Plain multiplies ride the same path with a
// zero addend carrying the product's sign.
type FMAUnit struct{}

// NewFMAUnit creates a new fused multiply-add unit.
func NewFMAUnit() *FMAUnit {
	return &FMAUnit{}
}

// Multiply performs the Execute-stage half. a, b and c are the boxed
// register values in operand order.
func (u *FMAUnit) Multiply(inst *insts.Instruction, a, b, c uint64) softfp.AlignedSum {
	f := inst.Fmt
	x := softfp.UnpackReg(a, f)
	y := softfp.UnpackReg(b, f)

	var z softfp.Unpacked
	if inst.Op == insts.OpFMUL {
		z = softfp.Unpacked{Sign: x.Sign != y.Sign, Class: softfp.ClassZero}
	} else {
		z = softfp.UnpackReg(c, f)
	}

	// The negated variants flip the product sign, the addend sign, or
	// both, before the fused operation.
	switch inst.Op {
	case insts.OpFMSUB:
		z.Sign = !z.Sign
	case insts.OpFNMSUB:
		x.Sign = !x.Sign
	case insts.OpFNMADD:
		x.Sign = !x.Sign
		z.Sign = !z.Sign
	}

	return softfp.MulAddAlign(x, y, z, f)
}

// Round performs the Memory-stage half: the single rounding of the aligned
// sum.
func (u *FMAUnit) Round(
	sum softfp.AlignedSum,
	f softfp.Format,
	rm softfp.RoundingMode,
) (uint64, softfp.Flags) {
	res, fl := softfp.RoundSum(sum, f, rm)
	return softfp.Box(res, f), fl
}
