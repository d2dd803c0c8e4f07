// Package insts provides RISC-V F/D extension instruction definitions and
// decoding.
package insts

import "github.com/DarionT/cvw/softfp"

// Op represents a floating-point opcode.
type Op uint16

// Floating-point opcodes.
const (
	OpUnknown Op = iota
	OpFLW
	OpFLD
	OpFSW
	OpFSD
	OpFMADD
	OpFMSUB
	OpFNMSUB
	OpFNMADD
	OpFADD
	OpFSUB
	OpFMUL
	OpFDIV
	OpFSQRT
	OpFSGNJ
	OpFSGNJN
	OpFSGNJX
	OpFMIN
	OpFMAX
	OpFEQ
	OpFLT
	OpFLE
	OpFCVTFmt     // precision conversion between FP formats
	OpFCVTToInt   // FP to integer conversion
	OpFCVTFromInt // integer to FP conversion
	OpFMVToInt    // FMV.X.W / FMV.X.D
	OpFMVFromInt  // FMV.W.X / FMV.D.X
	OpFCLASS
)

// String returns the opcode mnemonic stem.
func (op Op) String() string {
	switch op {
	case OpFLW:
		return "flw"
	case OpFLD:
		return "fld"
	case OpFSW:
		return "fsw"
	case OpFSD:
		return "fsd"
	case OpFMADD:
		return "fmadd"
	case OpFMSUB:
		return "fmsub"
	case OpFNMSUB:
		return "fnmsub"
	case OpFNMADD:
		return "fnmadd"
	case OpFADD:
		return "fadd"
	case OpFSUB:
		return "fsub"
	case OpFMUL:
		return "fmul"
	case OpFDIV:
		return "fdiv"
	case OpFSQRT:
		return "fsqrt"
	case OpFSGNJ:
		return "fsgnj"
	case OpFSGNJN:
		return "fsgnjn"
	case OpFSGNJX:
		return "fsgnjx"
	case OpFMIN:
		return "fmin"
	case OpFMAX:
		return "fmax"
	case OpFEQ:
		return "feq"
	case OpFLT:
		return "flt"
	case OpFLE:
		return "fle"
	case OpFCVTFmt, OpFCVTToInt, OpFCVTFromInt:
		return "fcvt"
	case OpFMVToInt, OpFMVFromInt:
		return "fmv"
	case OpFCLASS:
		return "fclass"
	default:
		return "unknown"
	}
}

// Instruction represents a decoded floating-point instruction.
type Instruction struct {
	Op  Op
	Fmt softfp.Format // operation format; destination format for conversions

	// SrcFmt is the source format for FP-to-FP precision conversion.
	SrcFmt softfp.Format

	// Register numbers. Rs3 only applies to the fused multiply-add group.
	// For loads and stores Rs1 names an integer base register; for
	// conversions from the integer side Rs1 names an integer register.
	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Rs3 uint8

	// RM is the instruction's raw rounding-mode field. RMDyn defers to
	// the frm register; that selection happens later, in the pipeline's
	// decode stage.
	RM softfp.RoundingMode

	// Integer conversion parameters.
	Signed bool
	Width  softfp.IntWidth

	// Imm is the sign-extended load/store offset.
	Imm int32
}

// UsesRs1FP reports whether Rs1 is read from the FP register file rather
// than the integer register file.
func (i *Instruction) UsesRs1FP() bool {
	switch i.Op {
	case OpFLW, OpFLD, OpFSW, OpFSD, OpFCVTFromInt, OpFMVFromInt, OpUnknown:
		return false
	}
	return true
}

// UsesRs2FP reports whether the instruction reads a second FP operand.
func (i *Instruction) UsesRs2FP() bool {
	switch i.Op {
	case OpFADD, OpFSUB, OpFMUL, OpFDIV,
		OpFMADD, OpFMSUB, OpFNMSUB, OpFNMADD,
		OpFSGNJ, OpFSGNJN, OpFSGNJX,
		OpFMIN, OpFMAX, OpFEQ, OpFLT, OpFLE,
		OpFSW, OpFSD:
		return true
	}
	return false
}

// UsesRs3 reports whether the instruction reads a third FP operand.
func (i *Instruction) UsesRs3() bool {
	switch i.Op {
	case OpFMADD, OpFMSUB, OpFNMSUB, OpFNMADD:
		return true
	}
	return false
}

// WritesFP reports whether the result targets the FP register file.
func (i *Instruction) WritesFP() bool {
	switch i.Op {
	case OpFSW, OpFSD, OpFEQ, OpFLT, OpFLE, OpFCLASS,
		OpFCVTToInt, OpFMVToInt, OpUnknown:
		return false
	}
	return true
}

// WritesInt reports whether the result targets the integer register file.
func (i *Instruction) WritesInt() bool {
	switch i.Op {
	case OpFEQ, OpFLT, OpFLE, OpFCLASS, OpFCVTToInt, OpFMVToInt:
		return true
	}
	return false
}

// Rounded reports whether the operation consumes a rounding mode, which
// makes the rm field part of the encoding's legality.
func (i *Instruction) Rounded() bool {
	switch i.Op {
	case OpFMADD, OpFMSUB, OpFNMSUB, OpFNMADD,
		OpFADD, OpFSUB, OpFMUL, OpFDIV, OpFSQRT,
		OpFCVTFmt, OpFCVTToInt, OpFCVTFromInt:
		return true
	}
	return false
}

// Decoder decodes RISC-V floating-point machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new floating-point instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Major opcodes (bits [6:0]).
const (
	opcodeLoadFP  = 0x07
	opcodeStoreFP = 0x27
	opcodeFMADD   = 0x43
	opcodeFMSUB   = 0x47
	opcodeFNMSUB  = 0x4B
	opcodeFNMADD  = 0x4F
	opcodeOpFP    = 0x53
)

// Decode decodes a 32-bit RISC-V instruction word. Encodings outside the
// F/D extension, and reserved encodings within it, decode to OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown}

	switch word & 0x7F {
	case opcodeLoadFP:
		d.decodeLoad(word, inst)
	case opcodeStoreFP:
		d.decodeStore(word, inst)
	case opcodeFMADD, opcodeFMSUB, opcodeFNMSUB, opcodeFNMADD:
		d.decodeFMA(word, inst)
	case opcodeOpFP:
		d.decodeOpFP(word, inst)
	}

	// rm=5 and rm=6 are reserved. DYN stays legal here; it resolves
	// against frm at execution, where an illegal frm is caught.
	if inst.Op != OpUnknown && inst.Rounded() &&
		!inst.RM.Valid() && inst.RM != softfp.RMDyn {
		inst.Op = OpUnknown
	}

	return inst
}

// decodeLoad decodes FLW and FLD.
// Format: imm[11:0] | rs1 | width | rd | 0000111
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	width := (word >> 12) & 0x7 // bits [14:12]

	switch width {
	case 0b010:
		inst.Op = OpFLW
		inst.Fmt = softfp.Single
	case 0b011:
		inst.Op = OpFLD
		inst.Fmt = softfp.Double
	default:
		return
	}

	inst.Rd = uint8(word >> 7 & 0x1F)
	inst.Rs1 = uint8(word >> 15 & 0x1F)
	inst.Imm = int32(word) >> 20 // sign-extends imm[11:0]
}

// decodeStore decodes FSW and FSD.
// Format: imm[11:5] | rs2 | rs1 | width | imm[4:0] | 0100111
func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	width := (word >> 12) & 0x7 // bits [14:12]

	switch width {
	case 0b010:
		inst.Op = OpFSW
		inst.Fmt = softfp.Single
	case 0b011:
		inst.Op = OpFSD
		inst.Fmt = softfp.Double
	default:
		return
	}

	inst.Rs1 = uint8(word >> 15 & 0x1F)
	inst.Rs2 = uint8(word >> 20 & 0x1F)

	hi := int32(word) >> 25     // sign-extends imm[11:5]
	lo := int32(word >> 7 & 0x1F)
	inst.Imm = hi<<5 | lo
}

// decodeFMA decodes the R4-type fused multiply-add group.
// Format: rs3 | fmt | rs2 | rs1 | rm | rd | opcode
func (d *Decoder) decodeFMA(word uint32, inst *Instruction) {
	fmt, ok := fpFormat(word >> 25 & 0x3)
	if !ok {
		return
	}

	switch word & 0x7F {
	case opcodeFMADD:
		inst.Op = OpFMADD
	case opcodeFMSUB:
		inst.Op = OpFMSUB
	case opcodeFNMSUB:
		inst.Op = OpFNMSUB
	case opcodeFNMADD:
		inst.Op = OpFNMADD
	}

	inst.Fmt = fmt
	inst.Rd = uint8(word >> 7 & 0x1F)
	inst.RM = softfp.RoundingMode(word >> 12 & 0x7)
	inst.Rs1 = uint8(word >> 15 & 0x1F)
	inst.Rs2 = uint8(word >> 20 & 0x1F)
	inst.Rs3 = uint8(word >> 27 & 0x1F)
}

// decodeOpFP decodes the OP-FP major opcode, discriminated by funct7.
// Format: funct7 | rs2 | rs1 | rm | rd | 1010011
func (d *Decoder) decodeOpFP(word uint32, inst *Instruction) {
	funct7 := word >> 25 & 0x7F
	rm := word >> 12 & 0x7
	rs2 := uint8(word >> 20 & 0x1F)

	fmt, ok := fpFormat(funct7 & 0x3)
	if !ok {
		return
	}

	inst.Fmt = fmt
	inst.Rd = uint8(word >> 7 & 0x1F)
	inst.Rs1 = uint8(word >> 15 & 0x1F)
	inst.Rs2 = rs2

	switch funct7 >> 2 {
	case 0x00: // FADD
		inst.Op = OpFADD
		inst.RM = softfp.RoundingMode(rm)
	case 0x01: // FSUB
		inst.Op = OpFSUB
		inst.RM = softfp.RoundingMode(rm)
	case 0x02: // FMUL
		inst.Op = OpFMUL
		inst.RM = softfp.RoundingMode(rm)
	case 0x03: // FDIV
		inst.Op = OpFDIV
		inst.RM = softfp.RoundingMode(rm)
	case 0x0B: // FSQRT, rs2 must be zero
		if rs2 != 0 {
			return
		}
		inst.Op = OpFSQRT
		inst.RM = softfp.RoundingMode(rm)
	case 0x04: // sign injection, selected by rm
		switch rm {
		case 0b000:
			inst.Op = OpFSGNJ
		case 0b001:
			inst.Op = OpFSGNJN
		case 0b010:
			inst.Op = OpFSGNJX
		}
	case 0x05: // min/max, selected by rm
		switch rm {
		case 0b000:
			inst.Op = OpFMIN
		case 0b001:
			inst.Op = OpFMAX
		}
	case 0x08: // FCVT between FP formats; rs2 encodes the source format
		src, ok := fpFormat(uint32(rs2) & 0x3)
		if !ok || rs2 > 1 || src == fmt {
			return
		}
		inst.Op = OpFCVTFmt
		inst.SrcFmt = src
		inst.RM = softfp.RoundingMode(rm)
	case 0x14: // comparisons, selected by rm
		switch rm {
		case 0b010:
			inst.Op = OpFEQ
		case 0b001:
			inst.Op = OpFLT
		case 0b000:
			inst.Op = OpFLE
		}
	case 0x18: // FCVT to integer; rs2 encodes width and signedness
		if rs2 > 3 {
			return
		}
		inst.Op = OpFCVTToInt
		inst.Signed = rs2&0x1 == 0
		inst.Width = intWidth(rs2)
		inst.RM = softfp.RoundingMode(rm)
	case 0x1A: // FCVT from integer
		if rs2 > 3 {
			return
		}
		inst.Op = OpFCVTFromInt
		inst.Signed = rs2&0x1 == 0
		inst.Width = intWidth(rs2)
		inst.RM = softfp.RoundingMode(rm)
	case 0x1C: // FMV.X / FCLASS, selected by rm; rs2 must be zero
		if rs2 != 0 {
			return
		}
		switch rm {
		case 0b000:
			inst.Op = OpFMVToInt
		case 0b001:
			inst.Op = OpFCLASS
		}
	case 0x1E: // FMV from integer
		if rs2 != 0 || rm != 0 {
			return
		}
		inst.Op = OpFMVFromInt
	}
}

// fpFormat maps the 2-bit fmt field to a format. Values 2 (half) and
// 3 (quad) are not implemented and decode as unknown.
func fpFormat(bits uint32) (softfp.Format, bool) {
	switch bits {
	case 0b00:
		return softfp.Single, true
	case 0b01:
		return softfp.Double, true
	}
	return softfp.Single, false
}

// intWidth maps the rs2 conversion selector to an integer width.
func intWidth(rs2 uint8) softfp.IntWidth {
	if rs2 >= 2 {
		return softfp.Long
	}
	return softfp.Word
}
