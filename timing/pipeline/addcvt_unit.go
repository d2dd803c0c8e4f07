package pipeline

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// AddCvtUnit is the two-stage add/convert datapath. It serves addition,
// subtraction and FP-to-FP precision conversion: the first stage screens
// specials and aligns, the second stage sums and rounds.
type AddCvtUnit struct{}

// NewAddCvtUnit creates a new add/convert unit.
func NewAddCvtUnit() *AddCvtUnit {
	return &AddCvtUnit{}
}

// Align performs the Execute-stage half. a and b are the boxed register
// values; b is ignored for conversions.
func (u *AddCvtUnit) Align(inst *insts.Instruction, a, b uint64) softfp.AlignedSum {
	if inst.Op == insts.OpFCVTFmt {
		return u.alignConvert(inst, a)
	}

	f := inst.Fmt
	x := softfp.UnpackReg(a, f)
	y := softfp.UnpackReg(b, f)
	if inst.Op == insts.OpFSUB {
		y.Sign = !y.Sign
	}
	return softfp.AddAlign(x, y, f)
}

// alignConvert frames the source operand for rounding in the destination
// format. Widening is exact; narrowing rounds in the second stage.
func (u *AddCvtUnit) alignConvert(inst *insts.Instruction, a uint64) softfp.AlignedSum {
	from, to := inst.SrcFmt, inst.Fmt
	x := softfp.UnpackReg(a, from)

	switch {
	case x.Class == softfp.ClassSNaN:
		return softfp.AlignedSum{
			Resolved: true,
			Bits:     softfp.QuietNaN(to),
			Flags:    softfp.FlagInvalid,
		}
	case x.Class == softfp.ClassQNaN:
		return softfp.AlignedSum{Resolved: true, Bits: softfp.QuietNaN(to)}
	case x.IsInf():
		return softfp.AlignedSum{Resolved: true, Bits: softfp.Inf(to, x.Sign)}
	case x.IsZero():
		return softfp.AlignedSum{Resolved: true, Bits: softfp.Zero(to, x.Sign)}
	}

	// The source significand enters the frame low, with the exponent
	// adjusted so the framed value is unchanged.
	return softfp.AlignedSum{
		XSign: x.Sign,
		YSign: x.Sign,
		XLo:   x.Sig,
		Exp:   x.Exp - int32(from.Precision()-1),
	}
}

// Round performs the Memory-stage half: the single rounding of the aligned
// sum in the destination format.
func (u *AddCvtUnit) Round(
	sum softfp.AlignedSum,
	f softfp.Format,
	rm softfp.RoundingMode,
) (uint64, softfp.Flags) {
	res, fl := softfp.RoundSum(sum, f, rm)
	return softfp.Box(res, f), fl
}
