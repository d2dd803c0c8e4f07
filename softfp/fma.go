package softfp

import "math/bits"

// MulAddAlign performs the first stage of a fused multiply-add: it screens
// the IEEE special-case combinations, multiplies the two significands, and
// aligns the addend against the product by exponent difference. No rounding
// happens here; the result feeds RoundSum.
//
// Negated variants (multiply-subtract and so on) are expressed by the caller
// flipping x's sign (product negation) or z's sign (addend negation) before
// the call. A plain multiply passes z as a zero whose sign matches the
// product so the signed-zero product survives the addition.
func MulAddAlign(x, y, z Unpacked, f Format) AlignedSum {
	anySNaN := x.Class == ClassSNaN || y.Class == ClassSNaN || z.Class == ClassSNaN

	// 0 x inf is invalid regardless of the addend, NaN included.
	if (x.IsZero() && y.IsInf()) || (x.IsInf() && y.IsZero()) {
		return resolved(QuietNaN(f), FlagInvalid)
	}
	if x.IsNaN() || y.IsNaN() || z.IsNaN() {
		fl := Flags(0)
		if anySNaN {
			fl = FlagInvalid
		}
		return resolved(QuietNaN(f), fl)
	}

	prodSign := x.Sign != y.Sign
	if x.IsInf() || y.IsInf() {
		if z.IsInf() && z.Sign != prodSign {
			return resolved(QuietNaN(f), FlagInvalid)
		}
		return resolved(Inf(f, prodSign), 0)
	}
	if z.IsInf() {
		return resolved(Inf(f, z.Sign), 0)
	}

	s := AlignedSum{XSign: prodSign, YSign: z.Sign}
	prodZero := x.IsZero() || y.IsZero()
	if prodZero && z.IsZero() {
		return s
	}

	var pe int32
	var pHi, pLo uint64
	if !prodZero {
		pHi, pLo = bits.Mul64(x.Sig, y.Sig)
		pe = x.Exp + y.Exp - 2*int32(f.Precision()-1)
		n := 128 - len128(pHi, pLo)
		pHi, pLo = shl128(pHi, pLo, n)
		pe -= int32(n)
	}

	if z.IsZero() {
		s.XHi, s.XLo, s.Exp = pHi, pLo, pe
		return s
	}
	zHi, zLo, ze := frameTop(z, f)
	if prodZero {
		s.YHi, s.YLo, s.Exp = zHi, zLo, ze
		return s
	}

	if pe >= ze {
		s.Exp = pe
		s.XHi, s.XLo = pHi, pLo
		s.YHi, s.YLo = shiftRightJam128(zHi, zLo, uint(pe-ze))
	} else {
		s.Exp = ze
		s.XHi, s.XLo = shiftRightJam128(pHi, pLo, uint(ze-pe))
		s.YHi, s.YLo = zHi, zLo
	}
	return s
}

// MulAdd computes x*y+z with a single rounding on raw unboxed bit patterns.
func MulAdd(a, b, c uint64, f Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	z := Unpack(c, f)
	return RoundSum(MulAddAlign(x, y, z, f), f, rm)
}

// Mul computes x*y by feeding the multiply-add path a zero addend carrying
// the product's sign, which preserves signed-zero results.
func Mul(a, b uint64, f Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	z := Unpacked{Sign: x.Sign != y.Sign, Class: ClassZero}
	return RoundSum(MulAddAlign(x, y, z, f), f, rm)
}
