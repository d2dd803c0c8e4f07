package softfp

import "math/bits"

// AlignedSum is the intermediate state of an addition-family operation after
// the alignment step and before the sum/normalize/round step. The two
// magnitudes share the frame exponent Exp: the represented value is
// (-1)^XSign * {XHi,XLo} * 2^Exp + (-1)^YSign * {YHi,YLo} * 2^Exp.
//
// When a special-case input (NaN, infinity) fully determines the result, the
// state is Resolved and carries the final bits and flags instead.
//
// Alignment shifts use jamming: every shifted-out bit is folded into the
// lowest bit of the shifted magnitude. Deep cancellation and jammed shifts
// are mutually exclusive (a jam implies the exponents differ by more than
// the frame's slack), so a single rounding of the jammed sum is exact.
type AlignedSum struct {
	Resolved bool
	Bits     uint64
	Flags    Flags

	XSign, YSign bool
	XHi, XLo     uint64
	YHi, YLo     uint64
	Exp          int32
}

func resolved(bits uint64, flags Flags) AlignedSum {
	return AlignedSum{Resolved: true, Bits: bits, Flags: flags}
}

// shiftRightJam128 shifts right by n and ORs every lost bit into bit 0.
func shiftRightJam128(hi, lo uint64, n uint) (uint64, uint64) {
	h, l, sticky := shr128Sticky(hi, lo, n)
	if sticky {
		l |= 1
	}
	return h, l
}

// frameTop places a normalized P-bit significand at the top of the 128-bit
// frame. The returned exponent keeps value = sig128 * 2^exp.
func frameTop(u Unpacked, f Format) (uint64, uint64, int32) {
	hi, lo := shl128(0, u.Sig, 128-f.Precision())
	return hi, lo, u.Exp - 127
}

// AddAlign performs the first stage of an addition: special-case screening
// and operand alignment by exponent difference. Subtraction is expressed by
// the caller flipping y's sign beforehand.
func AddAlign(x, y Unpacked, f Format) AlignedSum {
	anySNaN := x.Class == ClassSNaN || y.Class == ClassSNaN
	if x.IsNaN() || y.IsNaN() {
		fl := Flags(0)
		if anySNaN {
			fl = FlagInvalid
		}
		return resolved(QuietNaN(f), fl)
	}
	if x.IsInf() {
		if y.IsInf() && x.Sign != y.Sign {
			return resolved(QuietNaN(f), FlagInvalid)
		}
		return resolved(Inf(f, x.Sign), 0)
	}
	if y.IsInf() {
		return resolved(Inf(f, y.Sign), 0)
	}

	s := AlignedSum{XSign: x.Sign, YSign: y.Sign}
	if x.IsZero() && y.IsZero() {
		return s
	}
	if x.IsZero() {
		s.YHi, s.YLo, s.Exp = frameTop(y, f)
		return s
	}
	if y.IsZero() {
		s.XHi, s.XLo, s.Exp = frameTop(x, f)
		return s
	}

	var xe, ye int32
	s.XHi, s.XLo, xe = frameTop(x, f)
	s.YHi, s.YLo, ye = frameTop(y, f)
	if xe >= ye {
		s.Exp = xe
		s.YHi, s.YLo = shiftRightJam128(s.YHi, s.YLo, uint(xe-ye))
	} else {
		s.Exp = ye
		s.XHi, s.XLo = shiftRightJam128(s.XHi, s.XLo, uint(ye-xe))
	}
	return s
}

// RoundSum performs the second stage of an addition-family operation: the
// magnitude add or subtract, the exact-zero sign rule, and the single
// rounding step.
func RoundSum(s AlignedSum, f Format, rm RoundingMode) (uint64, Flags) {
	if s.Resolved {
		return s.Bits, s.Flags
	}

	if s.XSign == s.YSign {
		lo, carry := bits.Add64(s.XLo, s.YLo, 0)
		hi, carry := bits.Add64(s.XHi, s.YHi, carry)
		exp := s.Exp
		if carry != 0 {
			hi2, lo2 := shiftRightJam128(hi, lo, 1)
			hi, lo = hi2|uint64(1)<<63, lo2
			exp++
		}
		if hi == 0 && lo == 0 {
			return Zero(f, s.XSign), 0
		}
		return RoundPack(s.XSign, exp, hi, lo, false, f, rm)
	}

	switch cmp128(s.XHi, s.XLo, s.YHi, s.YLo) {
	case 0:
		// Exact cancellation: the sign of zero follows the rounding mode.
		return Zero(f, rm == RDN), 0
	case 1:
		hi, lo := sub128(s.XHi, s.XLo, s.YHi, s.YLo)
		return RoundPack(s.XSign, s.Exp, hi, lo, false, f, rm)
	default:
		hi, lo := sub128(s.YHi, s.YLo, s.XHi, s.XLo)
		return RoundPack(s.YSign, s.Exp, hi, lo, false, f, rm)
	}
}

// Add computes a+b (or a-b when sub is set) on raw unboxed bit patterns.
func Add(a, b uint64, sub bool, f Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	if sub {
		y.Sign = !y.Sign
	}
	return RoundSum(AddAlign(x, y, f), f, rm)
}
