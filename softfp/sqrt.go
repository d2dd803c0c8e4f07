package softfp

// SqrtSpecial resolves the non-iterative square-root cases. Square roots of
// both zeros return the operand unchanged; negative non-zero operands are
// invalid.
func SqrtSpecial(x Unpacked, f Format) (uint64, Flags, bool) {
	switch {
	case x.Class == ClassSNaN:
		return QuietNaN(f), FlagInvalid, true
	case x.Class == ClassQNaN:
		return QuietNaN(f), 0, true
	case x.IsZero():
		return Zero(f, x.Sign), 0, true
	case x.Sign:
		return QuietNaN(f), FlagInvalid, true
	case x.IsInf():
		return Inf(f, false), 0, true
	}
	return 0, 0, false
}

// SqrtSetup prepares the radicand for the digit recurrence: the significand
// is shifted so its exponent is even and then widened by 64 bits, making the
// integer square root carry the precision plus guard bits a single rounding
// needs. The returned exponent satisfies sqrt(value) = isqrt({hi,lo}) * 2^exp
// when the remainder is folded into sticky.
func SqrtSetup(x Unpacked, f Format) (hi, lo uint64, exp int32) {
	e := x.Exp - int32(f.Precision()-1)
	sig := x.Sig
	if e&1 != 0 {
		sig <<= 1
		e--
	}
	return sig, 0, e/2 - 32
}

// Isqrt128 computes the integer square root of a 128-bit value with a
// two-bits-per-step restoring recurrence, reporting whether a non-zero
// remainder was left behind.
func Isqrt128(hi, lo uint64) (root uint64, rem bool) {
	var r, root64 uint64
	for i := 0; i < 64; i++ {
		r = r<<2 | hi>>62
		hi, lo = shl128(hi, lo, 2)
		t := root64<<2 | 1
		root64 <<= 1
		if r >= t {
			r -= t
			root64 |= 1
		}
	}
	return root64, r != 0
}

// Sqrt computes the square root of a raw unboxed bit pattern.
func Sqrt(a uint64, f Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, f)
	if res, fl, ok := SqrtSpecial(x, f); ok {
		return res, fl
	}
	hi, lo, exp := SqrtSetup(x, f)
	root, rem := Isqrt128(hi, lo)
	return RoundPack(false, exp, 0, root, rem, f, rm)
}
