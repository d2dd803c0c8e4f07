package softfp

// lt reports strict ordering of two non-NaN unpacked operands, working on
// the decomposed fields rather than subtraction so no spurious flags can
// arise. Zeros of either sign compare equal; -0 is ordered below +0 only by
// ltMinMax.
func lt(x, y Unpacked) bool {
	if x.IsZero() && y.IsZero() {
		return false
	}
	if x.Sign != y.Sign {
		return x.Sign
	}
	magLess, magEq := magCompare(x, y)
	if x.Sign {
		return !magLess && !magEq
	}
	return magLess
}

// magCompare orders two non-NaN operands by magnitude.
func magCompare(x, y Unpacked) (less, eq bool) {
	switch {
	case x.IsInf():
		return false, y.IsInf()
	case y.IsInf():
		return true, false
	case x.IsZero():
		return !y.IsZero(), y.IsZero()
	case y.IsZero():
		return false, false
	case x.Exp != y.Exp:
		return x.Exp < y.Exp, false
	default:
		return x.Sig < y.Sig, x.Sig == y.Sig
	}
}

func eqValue(x, y Unpacked) bool {
	if x.IsZero() && y.IsZero() {
		return true
	}
	if x.IsInf() || y.IsInf() {
		return x.IsInf() && y.IsInf() && x.Sign == y.Sign
	}
	return !x.IsZero() && !y.IsZero() &&
		x.Sign == y.Sign && x.Exp == y.Exp && x.Sig == y.Sig
}

// CompareEQ is the quiet equality predicate: NaN operands compare unequal
// and only a signaling NaN raises Invalid.
func CompareEQ(a, b uint64, f Format) (bool, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	if x.IsNaN() || y.IsNaN() {
		if x.Class == ClassSNaN || y.Class == ClassSNaN {
			return false, FlagInvalid
		}
		return false, 0
	}
	return eqValue(x, y), 0
}

// CompareLT is the signaling less-than predicate: any NaN operand raises
// Invalid and yields false.
func CompareLT(a, b uint64, f Format) (bool, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	if x.IsNaN() || y.IsNaN() {
		return false, FlagInvalid
	}
	return lt(x, y), 0
}

// CompareLE is the signaling less-or-equal predicate.
func CompareLE(a, b uint64, f Format) (bool, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	if x.IsNaN() || y.IsNaN() {
		return false, FlagInvalid
	}
	return lt(x, y) || eqValue(x, y), 0
}

// MinMax selects the minimum (or maximum) of two raw unboxed values with the
// IEEE-2019 minimumNumber/maximumNumber NaN rule: a single NaN operand loses
// to the number, two NaN operands produce the canonical quiet NaN. A
// signaling NaN raises Invalid either way, and -0 orders below +0.
func MinMax(a, b uint64, f Format, max bool) (uint64, Flags) {
	x := Unpack(a, f)
	y := Unpack(b, f)
	var fl Flags
	if x.Class == ClassSNaN || y.Class == ClassSNaN {
		fl = FlagInvalid
	}
	switch {
	case x.IsNaN() && y.IsNaN():
		return QuietNaN(f), fl
	case x.IsNaN():
		return b, fl
	case y.IsNaN():
		return a, fl
	}
	aLess := ltMinMax(x, y)
	if aLess != max {
		return a, fl
	}
	return b, fl
}

// ltMinMax orders operands for min/max selection, where -0 < +0.
func ltMinMax(x, y Unpacked) bool {
	if x.IsZero() && y.IsZero() {
		return x.Sign && !y.Sign
	}
	return lt(x, y)
}
