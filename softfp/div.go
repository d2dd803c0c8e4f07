package softfp

import "math/bits"

// DivSpecial resolves the non-iterative divide cases: NaNs, infinities and
// zeros. The second return value reports whether the case applied; when it
// does not, both operands are finite and non-zero and the quotient must be
// computed iteratively.
func DivSpecial(x, y Unpacked, f Format) (uint64, Flags, bool) {
	anySNaN := x.Class == ClassSNaN || y.Class == ClassSNaN
	if x.IsNaN() || y.IsNaN() {
		fl := Flags(0)
		if anySNaN {
			fl = FlagInvalid
		}
		return QuietNaN(f), fl, true
	}
	sign := x.Sign != y.Sign
	switch {
	case x.IsInf() && y.IsInf():
		return QuietNaN(f), FlagInvalid, true
	case x.IsInf():
		return Inf(f, sign), 0, true
	case y.IsInf():
		return Zero(f, sign), 0, true
	case x.IsZero() && y.IsZero():
		return QuietNaN(f), FlagInvalid, true
	case y.IsZero():
		// Finite, non-zero dividend over zero: divide-by-zero, not invalid.
		return Inf(f, sign), FlagDivByZero, true
	case x.IsZero():
		return Zero(f, sign), 0, true
	}
	return 0, 0, false
}

// divQuotient computes q = floor(sigX * 2^(P+2) / sigY) together with a
// remainder-non-zero indicator. Both significands are normalized P-bit
// values, so q carries the precision plus guard bits a single rounding needs.
func divQuotient(sigX, sigY uint64, f Format) (q uint64, rem bool) {
	hi, lo := shl128(0, sigX, f.Precision()+2)
	q, r := bits.Div64(hi, lo, sigY)
	return q, r != 0
}

// Div computes x/y on raw unboxed bit patterns.
func Div(a, b uint64, f Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	if res, fl, ok := DivSpecial(x, y, f); ok {
		return res, fl
	}
	q, rem := divQuotient(x.Sig, y.Sig, f)
	exp := x.Exp - y.Exp - int32(f.Precision()+2)
	return RoundPack(x.Sign != y.Sign, exp, 0, q, rem, f, rm)
}
