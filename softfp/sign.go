package softfp

// SignOp selects a sign-injection operation.
type SignOp uint8

// Sign-injection operations.
const (
	// SignCopy takes the second operand's sign as-is.
	SignCopy SignOp = iota
	// SignNeg takes the second operand's sign negated.
	SignNeg
	// SignXor takes the exclusive-or of both signs.
	SignXor
)

// SignInject applies a sign-injection operation to raw unboxed bit patterns.
// It is pure bit manipulation and never raises a flag, NaN operands included.
func SignInject(a, b uint64, f Format, op SignOp) uint64 {
	signBit := uint64(1) << (f.ExpBits() + f.SigBits())
	body := a &^ signBit
	switch op {
	case SignNeg:
		return body | (b&signBit ^ signBit)
	case SignXor:
		return body | (a^b)&signBit
	default:
		return body | b&signBit
	}
}
