package softfp

// Class is the six-way classification of an unpacked operand.
type Class uint8

// Operand classes.
const (
	ClassZero Class = iota
	ClassSubnormal
	ClassNormal
	ClassInf
	ClassQNaN
	ClassSNaN
)

// IsNaN reports whether the class is either NaN kind.
func (c Class) IsNaN() bool {
	return c == ClassQNaN || c == ClassSNaN
}

// Unpacked is a floating-point operand decomposed into its fields.
//
// For finite non-zero values the significand is normalized: Sig holds the
// explicit significand with the hidden bit set at position Precision-1, and
// Exp is the true unbiased exponent, so the value is
// (-1)^Sign * Sig * 2^(Exp-(Precision-1)). Subnormal inputs are normalized
// during unpacking; Class still records that they were subnormal. For zeros,
// infinities and NaNs, Sig and Exp are zero.
type Unpacked struct {
	Sign  bool
	Exp   int32
	Sig   uint64
	Class Class
}

// IsZero reports whether the operand is a signed zero.
func (u Unpacked) IsZero() bool { return u.Class == ClassZero }

// IsInf reports whether the operand is an infinity.
func (u Unpacked) IsInf() bool { return u.Class == ClassInf }

// IsNaN reports whether the operand is any NaN.
func (u Unpacked) IsNaN() bool { return u.Class.IsNaN() }

// IsFinite reports whether the operand is zero, subnormal or normal.
func (u Unpacked) IsFinite() bool { return u.Class <= ClassNormal }

// Unpack decomposes a raw (unboxed) bit pattern of the given format.
// Signaling NaNs are detected by a clear top significand-field bit, at the
// active format's field width.
func Unpack(bits uint64, f Format) Unpacked {
	sigBits := f.SigBits()
	expField := int32(bits>>sigBits) & (int32(1)<<f.ExpBits() - 1)
	sig := bits & (uint64(1)<<sigBits - 1)
	u := Unpacked{Sign: bits>>(f.ExpBits()+sigBits)&1 != 0}

	switch {
	case expField == f.MaxBiasedExp()+1:
		if sig == 0 {
			u.Class = ClassInf
		} else if sig>>(sigBits-1)&1 != 0 {
			u.Class = ClassQNaN
		} else {
			u.Class = ClassSNaN
		}
	case expField == 0 && sig == 0:
		u.Class = ClassZero
	case expField == 0:
		// Subnormal: minimum exponent, no hidden bit. Normalize so the
		// arithmetic paths see a uniform representation.
		u.Class = ClassSubnormal
		u.Exp = 1 - f.Bias()
		u.Sig = sig
		for u.Sig>>(sigBits)&1 == 0 {
			u.Sig <<= 1
			u.Exp--
		}
	default:
		u.Class = ClassNormal
		u.Exp = expField - f.Bias()
		u.Sig = sig | uint64(1)<<sigBits
	}
	return u
}

// UnpackReg unpacks directly from the 64-bit register representation,
// unboxing single-precision values first.
func UnpackReg(reg uint64, f Format) Unpacked {
	return Unpack(Unbox(reg, f), f)
}

// Class mask bits produced by Classify, matching the RISC-V FCLASS result.
const (
	ClassMaskNegInf       = 1 << 0
	ClassMaskNegNormal    = 1 << 1
	ClassMaskNegSubnormal = 1 << 2
	ClassMaskNegZero      = 1 << 3
	ClassMaskPosZero      = 1 << 4
	ClassMaskPosSubnormal = 1 << 5
	ClassMaskPosNormal    = 1 << 6
	ClassMaskPosInf       = 1 << 7
	ClassMaskSNaN         = 1 << 8
	ClassMaskQNaN         = 1 << 9
)

// Classify maps an unpacked operand to the one-hot 10-bit class mask.
// It is a pure function of the class and sign and raises no flags.
func Classify(u Unpacked) uint64 {
	switch u.Class {
	case ClassSNaN:
		return ClassMaskSNaN
	case ClassQNaN:
		return ClassMaskQNaN
	case ClassInf:
		if u.Sign {
			return ClassMaskNegInf
		}
		return ClassMaskPosInf
	case ClassZero:
		if u.Sign {
			return ClassMaskNegZero
		}
		return ClassMaskPosZero
	case ClassSubnormal:
		if u.Sign {
			return ClassMaskNegSubnormal
		}
		return ClassMaskPosSubnormal
	default:
		if u.Sign {
			return ClassMaskNegNormal
		}
		return ClassMaskPosNormal
	}
}
