// Package softfp implements IEEE-754 binary32 and binary64 arithmetic in
// software, with explicit rounding-mode control and exception-flag reporting.
//
// All operations work on raw bit patterns (uint64). Single-precision values
// are NaN-boxed: they occupy the low 32 bits of the 64-bit container and the
// upper 32 bits must be all ones. Every operation returns the result bits
// together with the set of IEEE exception flags it raised; nothing in this
// package is sticky — accumulation is the caller's concern.
//
// NaN results follow the RISC-V convention: they are always the canonical
// quiet NaN of the result format, payloads are never propagated.
package softfp

// Format selects one of the two supported floating-point formats.
type Format uint8

// Supported formats.
const (
	// Single is IEEE-754 binary32, stored NaN-boxed in 64 bits.
	Single Format = iota
	// Double is IEEE-754 binary64.
	Double
)

// Width returns the storage width of the format in bits.
func (f Format) Width() uint {
	if f == Single {
		return 32
	}
	return 64
}

// ExpBits returns the width of the biased exponent field.
func (f Format) ExpBits() uint {
	if f == Single {
		return 8
	}
	return 11
}

// SigBits returns the width of the stored significand field, excluding the
// hidden bit.
func (f Format) SigBits() uint {
	if f == Single {
		return 23
	}
	return 52
}

// Precision returns the significand precision including the hidden bit
// (24 for Single, 53 for Double).
func (f Format) Precision() uint {
	return f.SigBits() + 1
}

// Bias returns the exponent bias (127 for Single, 1023 for Double).
func (f Format) Bias() int32 {
	return int32(1)<<(f.ExpBits()-1) - 1
}

// MaxBiasedExp returns the largest biased exponent of a finite value.
func (f Format) MaxBiasedExp() int32 {
	return int32(1)<<f.ExpBits() - 2
}

// String returns the conventional RISC-V format suffix.
func (f Format) String() string {
	if f == Single {
		return "s"
	}
	return "d"
}

// RoundingMode selects an IEEE-754 rounding direction. The numeric values
// match the RISC-V frm/rm field encoding.
type RoundingMode uint8

// Rounding modes.
const (
	// RNE rounds to nearest, ties to even.
	RNE RoundingMode = 0
	// RTZ rounds toward zero.
	RTZ RoundingMode = 1
	// RDN rounds toward negative infinity.
	RDN RoundingMode = 2
	// RUP rounds toward positive infinity.
	RUP RoundingMode = 3
	// RMM rounds to nearest, ties away from zero.
	RMM RoundingMode = 4
	// RMDyn selects the global frm register. It is only legal in an
	// instruction rm field, never as a resolved rounding mode.
	RMDyn RoundingMode = 7
)

// Valid reports whether the mode is one of the five resolved IEEE modes.
func (rm RoundingMode) Valid() bool {
	return rm <= RMM
}

// Flags is the 5-bit IEEE exception flag set, in RISC-V fflags bit order.
type Flags uint8

// Exception flags.
const (
	// FlagInexact (NX) indicates the rounded result differs from the exact one.
	FlagInexact Flags = 1 << 0
	// FlagUnderflow (UF) indicates a tiny, inexact result.
	FlagUnderflow Flags = 1 << 1
	// FlagOverflow (OF) indicates the rounded result exceeded the finite range.
	FlagOverflow Flags = 1 << 2
	// FlagDivByZero (DZ) indicates division of a finite value by zero.
	FlagDivByZero Flags = 1 << 3
	// FlagInvalid (NV) indicates an invalid operation.
	FlagInvalid Flags = 1 << 4
)

// String renders the flags in the conventional NV/DZ/OF/UF/NX order.
func (fl Flags) String() string {
	if fl == 0 {
		return "-"
	}
	s := ""
	if fl&FlagInvalid != 0 {
		s += "NV"
	}
	if fl&FlagDivByZero != 0 {
		s += "DZ"
	}
	if fl&FlagOverflow != 0 {
		s += "OF"
	}
	if fl&FlagUnderflow != 0 {
		s += "UF"
	}
	if fl&FlagInexact != 0 {
		s += "NX"
	}
	return s
}

// BoxSingle places a binary32 bit pattern into 64-bit storage with the
// upper 32 bits set to all ones.
func BoxSingle(bits32 uint32) uint64 {
	return 0xffffffff00000000 | uint64(bits32)
}

// UnboxSingle extracts a binary32 bit pattern from 64-bit storage. An
// improperly boxed value reads as the canonical quiet NaN.
func UnboxSingle(bits uint64) uint32 {
	if bits>>32 != 0xffffffff {
		return uint32(QuietNaN(Single))
	}
	return uint32(bits)
}

// QuietNaN returns the canonical quiet NaN of the format (unboxed).
func QuietNaN(f Format) uint64 {
	if f == Single {
		return 0x7fc00000
	}
	return 0x7ff8000000000000
}

// Inf returns the infinity of the given sign (unboxed).
func Inf(f Format, negative bool) uint64 {
	v := uint64(f.MaxBiasedExp()+1) << f.SigBits()
	if negative {
		v |= uint64(1) << (f.ExpBits() + f.SigBits())
	}
	return v
}

// Zero returns the zero of the given sign (unboxed).
func Zero(f Format, negative bool) uint64 {
	if negative {
		return uint64(1) << (f.ExpBits() + f.SigBits())
	}
	return 0
}

// MaxFinite returns the largest finite magnitude of the given sign (unboxed).
func MaxFinite(f Format, negative bool) uint64 {
	v := uint64(f.MaxBiasedExp())<<f.SigBits() | (uint64(1)<<f.SigBits() - 1)
	if negative {
		v |= uint64(1) << (f.ExpBits() + f.SigBits())
	}
	return v
}

// Box stores a raw result of the format into the 64-bit register
// representation, NaN-boxing singles and passing doubles through.
func Box(bits uint64, f Format) uint64 {
	if f == Single {
		return BoxSingle(uint32(bits))
	}
	return bits
}

// Unbox extracts the format's raw bit pattern from the 64-bit register
// representation.
func Unbox(bits uint64, f Format) uint64 {
	if f == Single {
		return uint64(UnboxSingle(bits))
	}
	return bits
}
