package softfp

import "math/bits"

// 128-bit significand helpers. Intermediate results are carried as a
// (hi, lo) pair so that products, aligned addends and recurrence remainders
// never lose bits before the single rounding step.

func len128(hi, lo uint64) uint {
	if hi != 0 {
		return 64 + uint(bits.Len64(hi))
	}
	return uint(bits.Len64(lo))
}

func shl128(hi, lo uint64, n uint) (uint64, uint64) {
	switch {
	case n == 0:
		return hi, lo
	case n < 64:
		return hi<<n | lo>>(64-n), lo << n
	case n < 128:
		return lo << (n - 64), 0
	default:
		return 0, 0
	}
}

func add128(aHi, aLo, bHi, bLo uint64) (uint64, uint64) {
	lo, carry := bits.Add64(aLo, bLo, 0)
	hi, _ := bits.Add64(aHi, bHi, carry)
	return hi, lo
}

func sub128(aHi, aLo, bHi, bLo uint64) (uint64, uint64) {
	lo, borrow := bits.Sub64(aLo, bLo, 0)
	hi, _ := bits.Sub64(aHi, bHi, borrow)
	return hi, lo
}

func cmp128(aHi, aLo, bHi, bLo uint64) int {
	switch {
	case aHi != bHi:
		if aHi < bHi {
			return -1
		}
		return 1
	case aLo != bLo:
		if aLo < bLo {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// shr128Sticky shifts right by n, folding every shifted-out bit into a
// sticky indicator.
func shr128Sticky(hi, lo uint64, n uint) (uint64, uint64, bool) {
	switch {
	case n == 0:
		return hi, lo, false
	case n < 64:
		sticky := lo&(uint64(1)<<n-1) != 0
		return hi >> n, hi<<(64-n) | lo>>n, sticky
	case n == 64:
		return 0, hi, lo != 0
	case n < 128:
		m := n - 64
		sticky := lo != 0 || hi&(uint64(1)<<m-1) != 0
		return 0, hi >> m, sticky
	default:
		return 0, 0, hi != 0 || lo != 0
	}
}

// shr128Round extracts the bits of {hi,lo} above position n, together with
// the guard bit at position n-1 and a sticky indicator for everything below.
// The caller guarantees the extracted value fits in 64 bits.
func shr128Round(hi, lo uint64, n uint) (kept uint64, guard, rest bool) {
	switch {
	case n < 64:
		kept = lo >> n
		if n > 0 {
			kept |= hi << (64 - n)
		}
		guard = n > 0 && lo>>(n-1)&1 != 0
		rest = n > 1 && lo&(uint64(1)<<(n-1)-1) != 0
		if n == 0 {
			guard, rest = false, false
		}
		return kept, guard, rest
	case n == 64:
		return hi, lo>>63 != 0, lo&(uint64(1)<<63-1) != 0
	case n < 128:
		m := n - 64
		kept = hi >> m
		guard = hi>>(m-1)&1 != 0
		rest = lo != 0 || hi&(uint64(1)<<(m-1)-1) != 0
		return kept, guard, rest
	case n == 128:
		return 0, hi>>63 != 0, lo != 0 || hi&(uint64(1)<<63-1) != 0
	default:
		return 0, false, hi != 0 || lo != 0
	}
}

// roundUp decides whether the discarded bits round the magnitude up under
// the given mode.
func roundUp(rm RoundingMode, sign bool, lsb uint64, guard, sticky bool) bool {
	switch rm {
	case RNE:
		return guard && (sticky || lsb != 0)
	case RTZ:
		return false
	case RDN:
		return sign && (guard || sticky)
	case RUP:
		return !sign && (guard || sticky)
	case RMM:
		return guard
	default:
		return false
	}
}

// overflowResult produces the post-overflow value mandated by the rounding
// mode: infinity when rounding can reach it, the largest finite magnitude
// otherwise.
func overflowResult(f Format, rm RoundingMode, sign bool) uint64 {
	switch rm {
	case RTZ:
		return MaxFinite(f, sign)
	case RDN:
		if sign {
			return Inf(f, true)
		}
		return MaxFinite(f, false)
	case RUP:
		if sign {
			return MaxFinite(f, true)
		}
		return Inf(f, false)
	default:
		return Inf(f, sign)
	}
}

// RoundPack rounds the exact value (-1)^sign * {hi,lo} * 2^exp once and
// packs it into the format's raw bit pattern, raising OF, UF and NX as
// required. sticky accumulates discarded low-order bits the caller already
// shifted out. Underflow uses after-rounding tininess: it is raised only
// when the delivered result is both subnormal (or zero) and inexact.
func RoundPack(sign bool, exp int32, hi, lo uint64, sticky bool, f Format, rm RoundingMode) (uint64, Flags) {
	if hi == 0 && lo == 0 {
		if !sticky {
			return Zero(f, sign), 0
		}
		// Everything was shifted out: the exact value is tiny but non-zero.
		if roundUp(rm, sign, 0, false, true) {
			return Zero(f, sign) | 1, FlagUnderflow | FlagInexact
		}
		return Zero(f, sign), FlagUnderflow | FlagInexact
	}

	n := 128 - len128(hi, lo)
	hi, lo = shl128(hi, lo, n)
	exp -= int32(n)

	p := f.Precision()
	biased := exp + 127 + f.Bias()

	if biased >= 1 {
		kept, guard, rest := shr128Round(hi, lo, 128-p)
		rest = rest || sticky
		var flags Flags
		if guard || rest {
			flags |= FlagInexact
		}
		if roundUp(rm, sign, kept&1, guard, rest) {
			kept++
			if kept>>p != 0 {
				kept >>= 1
				biased++
			}
		}
		if biased > f.MaxBiasedExp() {
			return overflowResult(f, rm, sign), FlagOverflow | FlagInexact
		}
		return pack(f, sign, biased, kept), flags
	}

	// Subnormal range: shift further so the result aligns with the minimum
	// exponent, then round.
	shift := 128 - p + uint(1-biased)
	kept, guard, rest := shr128Round(hi, lo, shift)
	rest = rest || sticky
	var flags Flags
	if guard || rest {
		flags |= FlagInexact
	}
	if roundUp(rm, sign, kept&1, guard, rest) {
		kept++
	}
	if kept>>(p-1) != 0 {
		// Rounded all the way up to the smallest normal: not tiny after
		// rounding, so no underflow.
		return pack(f, sign, 1, kept), flags
	}
	if flags&FlagInexact != 0 {
		flags |= FlagUnderflow
	}
	bits64 := kept
	if sign {
		bits64 |= uint64(1) << (f.ExpBits() + f.SigBits())
	}
	return bits64, flags
}

func pack(f Format, sign bool, biased int32, sig uint64) uint64 {
	v := uint64(biased)<<f.SigBits() | sig&(uint64(1)<<f.SigBits()-1)
	if sign {
		v |= uint64(1) << (f.ExpBits() + f.SigBits())
	}
	return v
}
