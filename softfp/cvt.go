package softfp

// IntWidth selects the integer width of a conversion.
type IntWidth uint8

// Integer conversion widths.
const (
	// Word is a 32-bit conversion; results are sign-extended to 64 bits
	// regardless of signedness, following the RISC-V convention.
	Word IntWidth = iota
	// Long is a 64-bit conversion.
	Long
)

// CvtFormat converts between the two floating-point formats, rounding when
// narrowing. NaN inputs produce the canonical quiet NaN of the target format
// and signaling NaNs raise Invalid.
func CvtFormat(a uint64, from, to Format, rm RoundingMode) (uint64, Flags) {
	x := Unpack(a, from)
	switch {
	case x.Class == ClassSNaN:
		return QuietNaN(to), FlagInvalid
	case x.Class == ClassQNaN:
		return QuietNaN(to), 0
	case x.IsInf():
		return Inf(to, x.Sign), 0
	case x.IsZero():
		return Zero(to, x.Sign), 0
	}
	return RoundPack(x.Sign, x.Exp-int32(from.Precision()-1), 0, x.Sig, false, to, rm)
}

// CvtToInt converts a floating-point value to an integer, rounding by the
// selected mode. Out-of-range results, infinities and NaNs saturate to the
// representable extreme and raise Invalid (never Overflow); NaN converts to
// the most positive value. In-range inexact conversions raise only Inexact.
func CvtToInt(a uint64, f Format, rm RoundingMode, signed bool, w IntWidth) (uint64, Flags) {
	x := Unpack(a, f)
	if x.IsNaN() {
		return intMax(signed, w), FlagInvalid
	}
	if x.IsInf() {
		if x.Sign {
			return intMin(signed, w), FlagInvalid
		}
		return intMax(signed, w), FlagInvalid
	}
	if x.IsZero() {
		return 0, 0
	}

	// Magnitudes at or above 2^64 are out of range for every target.
	if x.Exp >= 64 {
		if x.Sign {
			return intMin(signed, w), FlagInvalid
		}
		return intMax(signed, w), FlagInvalid
	}

	p := int32(f.Precision())
	var mag uint64
	var guard, rest bool
	if sh := x.Exp - (p - 1); sh >= 0 {
		mag = x.Sig << uint(sh)
	} else {
		mag, guard, rest = shr128Round(0, x.Sig, uint(-sh))
	}
	overflowed := false
	if roundUp(rm, x.Sign, mag&1, guard, rest) {
		mag++
		overflowed = mag == 0
	}

	if overflowed || outOfIntRange(mag, x.Sign, signed, w) {
		if x.Sign {
			return intMin(signed, w), FlagInvalid
		}
		return intMax(signed, w), FlagInvalid
	}

	var flags Flags
	if guard || rest {
		flags = FlagInexact
	}
	val := mag
	if x.Sign {
		val = -mag
	}
	if w == Word {
		val = uint64(int64(int32(val)))
	}
	return val, flags
}

// outOfIntRange reports whether a rounded magnitude with the given sign
// exceeds the target integer range.
func outOfIntRange(mag uint64, neg, signed bool, w IntWidth) bool {
	switch {
	case !signed && neg:
		return mag != 0
	case !signed:
		if w == Word {
			return mag>>32 != 0
		}
		return false
	case neg:
		if w == Word {
			return mag > 1<<31
		}
		return mag > 1<<63
	default:
		if w == Word {
			return mag >= 1<<31
		}
		return mag >= 1<<63
	}
}

func intMax(signed bool, w IntWidth) uint64 {
	switch {
	case signed && w == Word:
		return uint64(int64(int32(0x7fffffff)))
	case signed:
		return 0x7fffffffffffffff
	case w == Word:
		// WU results are sign-extended, so the all-ones word fills the register.
		return 0xffffffffffffffff
	default:
		return 0xffffffffffffffff
	}
}

func intMin(signed bool, w IntWidth) uint64 {
	switch {
	case signed && w == Word:
		// Sign-extended int32 minimum.
		return 0xffffffff80000000
	case signed:
		return 0x8000000000000000
	default:
		return 0
	}
}

// CvtFromInt converts an integer operand to a floating-point value, raising
// Inexact when the significand cannot hold every bit.
func CvtFromInt(val uint64, signed bool, w IntWidth, f Format, rm RoundingMode) (uint64, Flags) {
	if w == Word {
		if signed {
			val = uint64(int64(int32(val)))
		} else {
			val = uint64(uint32(val))
		}
	}
	neg := false
	if signed && int64(val) < 0 {
		neg = true
		val = -val
	}
	if val == 0 {
		return Zero(f, false), 0
	}
	return RoundPack(neg, 0, 0, val, false, f, rm)
}
