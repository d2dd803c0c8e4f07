// Package emu provides functional RISC-V floating-point emulation.
package emu

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// FPU executes decoded floating-point operations against register values.
// It is purely combinational: it neither reads the register file nor
// accumulates flags, so both the functional emulator and the timing
// pipeline can drive it.
type FPU struct{}

// NewFPU creates a new floating-point execution unit.
func NewFPU() *FPU {
	return &FPU{}
}

// ResolveRM resolves an instruction's rm field against the dynamic frm
// register. The second return value is false when the resolved mode is not
// a valid IEEE mode, which makes the instruction illegal.
func ResolveRM(rm, frm softfp.RoundingMode) (softfp.RoundingMode, bool) {
	if rm == softfp.RMDyn {
		rm = frm
	}
	return rm, rm.Valid()
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Execute computes one operation. a, b and c carry the source register
// values in operand order: FP register contents for FP sources (boxed), the
// integer register value in a for transfers from the integer side. The
// result is the boxed FP value or the integer value depending on the
// operation's destination file. The rounding mode must already be resolved.
//
// Loads and stores are memory traffic, not FPU work, and are not handled
// here.
func (u *FPU) Execute(inst *insts.Instruction, a, b, c uint64, rm softfp.RoundingMode) (uint64, softfp.Flags) {
	fmt := inst.Fmt
	ua := softfp.Unbox(a, fmt)
	ub := softfp.Unbox(b, fmt)

	switch inst.Op {
	case insts.OpFADD, insts.OpFSUB:
		res, fl := softfp.Add(ua, ub, inst.Op == insts.OpFSUB, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFMUL:
		res, fl := softfp.Mul(ua, ub, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFDIV:
		res, fl := softfp.Div(ua, ub, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFSQRT:
		res, fl := softfp.Sqrt(ua, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFMADD, insts.OpFMSUB, insts.OpFNMSUB, insts.OpFNMADD:
		x := softfp.UnpackReg(a, fmt)
		y := softfp.UnpackReg(b, fmt)
		z := softfp.UnpackReg(c, fmt)
		// The negated variants flip the product sign, the addend sign,
		// or both, before the fused operation.
		switch inst.Op {
		case insts.OpFMSUB:
			z.Sign = !z.Sign
		case insts.OpFNMSUB:
			x.Sign = !x.Sign
		case insts.OpFNMADD:
			x.Sign = !x.Sign
			z.Sign = !z.Sign
		}
		res, fl := softfp.RoundSum(softfp.MulAddAlign(x, y, z, fmt), fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFSGNJ:
		return softfp.Box(softfp.SignInject(ua, ub, fmt, softfp.SignCopy), fmt), 0
	case insts.OpFSGNJN:
		return softfp.Box(softfp.SignInject(ua, ub, fmt, softfp.SignNeg), fmt), 0
	case insts.OpFSGNJX:
		return softfp.Box(softfp.SignInject(ua, ub, fmt, softfp.SignXor), fmt), 0

	case insts.OpFMIN:
		res, fl := softfp.MinMax(ua, ub, fmt, false)
		return softfp.Box(res, fmt), fl
	case insts.OpFMAX:
		res, fl := softfp.MinMax(ua, ub, fmt, true)
		return softfp.Box(res, fmt), fl

	case insts.OpFEQ:
		res, fl := softfp.CompareEQ(ua, ub, fmt)
		return boolBit(res), fl
	case insts.OpFLT:
		res, fl := softfp.CompareLT(ua, ub, fmt)
		return boolBit(res), fl
	case insts.OpFLE:
		res, fl := softfp.CompareLE(ua, ub, fmt)
		return boolBit(res), fl

	case insts.OpFCLASS:
		return softfp.Classify(softfp.UnpackReg(a, fmt)), 0

	case insts.OpFCVTFmt:
		res, fl := softfp.CvtFormat(softfp.Unbox(a, inst.SrcFmt), inst.SrcFmt, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFCVTToInt:
		return softfp.CvtToInt(ua, fmt, rm, inst.Signed, inst.Width)

	case insts.OpFCVTFromInt:
		res, fl := softfp.CvtFromInt(a, inst.Signed, inst.Width, fmt, rm)
		return softfp.Box(res, fmt), fl

	case insts.OpFMVToInt:
		// FMV.X.W moves the raw low word, sign-extended, boxing ignored.
		if fmt == softfp.Single {
			return uint64(int64(int32(uint32(a)))), 0
		}
		return a, 0

	case insts.OpFMVFromInt:
		if fmt == softfp.Single {
			return softfp.BoxSingle(uint32(a)), 0
		}
		return a, 0
	}

	return 0, 0
}
