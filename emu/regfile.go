// Package emu provides functional RISC-V floating-point emulation.
package emu

import "github.com/DarionT/cvw/softfp"

// RegFile represents the architectural register state the floating-point
// unit touches: the 32 FP registers, the 32 integer registers, the program
// counter and the floating-point control and status register.
type RegFile struct {
	// F holds the floating-point registers f0-f31. Each entry is 64 bits
	// wide; single-precision values are stored NaN-boxed.
	F [32]uint64

	// X holds the integer registers x0-x31. X[0] always reads as 0.
	X [32]uint64

	// PC is the program counter.
	PC uint64

	// FCSR holds the rounding mode and the sticky exception flags.
	FCSR FCSR
}

// FCSR represents the floating-point control and status register.
type FCSR struct {
	// FRM is the dynamic rounding mode instructions with rm=DYN resolve to.
	FRM softfp.RoundingMode

	// Fflags accumulates the exception flags of every executed operation.
	// Flags only ever set; clearing is an explicit CSR write.
	Fflags softfp.Flags
}

// Accrue ORs an operation's exception flags into the sticky flag set.
func (c *FCSR) Accrue(fl softfp.Flags) {
	c.Fflags |= fl
}

// Bits returns the fcsr CSR encoding: frm in bits [7:5], fflags in [4:0].
func (c *FCSR) Bits() uint32 {
	return uint32(c.FRM)<<5 | uint32(c.Fflags)
}

// SetBits writes the fcsr CSR encoding.
func (c *FCSR) SetBits(v uint32) {
	c.FRM = softfp.RoundingMode(v >> 5 & 0x7)
	c.Fflags = softfp.Flags(v & 0x1F)
}

// ReadF reads a floating-point register.
func (r *RegFile) ReadF(reg uint8) uint64 {
	return r.F[reg&0x1F]
}

// WriteF writes a floating-point register.
func (r *RegFile) WriteF(reg uint8, value uint64) {
	r.F[reg&0x1F] = value
}

// ReadX reads an integer register. Register 0 always returns 0.
func (r *RegFile) ReadX(reg uint8) uint64 {
	if reg&0x1F == 0 {
		return 0
	}
	return r.X[reg&0x1F]
}

// WriteX writes an integer register. Writes to register 0 are ignored.
func (r *RegFile) WriteX(reg uint8, value uint64) {
	if reg&0x1F == 0 {
		return
	}
	r.X[reg&0x1F] = value
}
