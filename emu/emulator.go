// Package emu provides functional RISC-V floating-point emulation.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the program terminated (zero word fetched).
	Exited bool

	// Err is set if an error occurred during execution.
	Err error
}

// Emulator executes floating-point instruction streams functionally: one
// instruction per step, no pipeline timing. It serves as the reference the
// timing model is validated against.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	fpu     *FPU

	stderr io.Writer

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) {
		e.stderr = w
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithRoundingMode sets the initial dynamic rounding mode (frm).
func WithRoundingMode(rm softfp.RoundingMode) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.FCSR.FRM = rm
	}
}

// NewEmulator creates a new floating-point emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		fpu:     NewFPU(),
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram loads a program into memory and sets the entry point.
// The program can be either a []byte or a *Memory.
func (e *Emulator) LoadProgram(entry uint64, program interface{}) {
	switch p := program.(type) {
	case []byte:
		e.memory.LoadProgram(entry, p)
	case *Memory:
		e.memory = p
	}
	e.regFile.PC = entry
}

// Reset resets the emulator to its initial state.
func (e *Emulator) Reset() {
	e.regFile = &RegFile{}
	e.memory = NewMemory()
	e.instructionCount = 0
}

// Step executes a single instruction.
// Returns a StepResult indicating whether execution should continue.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: fmt.Errorf("max instructions reached"),
		}
	}

	// 1. Fetch: read 4 bytes at PC. A zero word marks the end of the
	// instruction stream.
	word := e.memory.Read32(e.regFile.PC)
	if word == 0 {
		return StepResult{Exited: true}
	}

	// 2. Decode
	inst := e.decoder.Decode(word)

	// 3. Execute
	result := e.execute(inst)

	e.instructionCount++

	return result
}

// Run executes instructions until the program ends or an error occurs.
// Returns 0 for a clean end of stream, -1 on error.
func (e *Emulator) Run() int64 {
	for {
		result := e.Step()
		if result.Exited {
			return 0
		}
		if result.Err != nil {
			_, _ = fmt.Fprintf(e.stderr, "Emulation error: %v\n", result.Err)
			return -1
		}
	}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) StepResult {
	if inst.Op == insts.OpUnknown {
		return StepResult{
			Err: fmt.Errorf("illegal instruction at PC=0x%X", e.regFile.PC),
		}
	}

	switch inst.Op {
	case insts.OpFLW, insts.OpFLD, insts.OpFSW, insts.OpFSD:
		e.executeLoadStore(inst)
	default:
		if result := e.executeFP(inst); result.Err != nil {
			return result
		}
	}

	e.regFile.PC += 4
	return StepResult{}
}

// executeLoadStore moves values between memory and the FP register file.
// Loaded singles are NaN-boxed; stored singles take the raw low word.
func (e *Emulator) executeLoadStore(inst *insts.Instruction) {
	addr := e.regFile.ReadX(inst.Rs1) + uint64(int64(inst.Imm))

	switch inst.Op {
	case insts.OpFLW:
		e.regFile.WriteF(inst.Rd, softfp.BoxSingle(e.memory.Read32(addr)))
	case insts.OpFLD:
		e.regFile.WriteF(inst.Rd, e.memory.Read64(addr))
	case insts.OpFSW:
		e.memory.Write32(addr, uint32(e.regFile.ReadF(inst.Rs2)))
	case insts.OpFSD:
		e.memory.Write64(addr, e.regFile.ReadF(inst.Rs2))
	}
}

// executeFP runs a computational operation through the FPU and retires the
// result, accruing exception flags into fcsr.
func (e *Emulator) executeFP(inst *insts.Instruction) StepResult {
	rm := inst.RM
	if inst.Rounded() {
		var ok bool
		rm, ok = ResolveRM(inst.RM, e.regFile.FCSR.FRM)
		if !ok {
			return StepResult{
				Err: fmt.Errorf("illegal rounding mode at PC=0x%X", e.regFile.PC),
			}
		}
	}

	var a uint64
	if inst.UsesRs1FP() {
		a = e.regFile.ReadF(inst.Rs1)
	} else {
		a = e.regFile.ReadX(inst.Rs1)
	}
	b := e.regFile.ReadF(inst.Rs2)
	c := e.regFile.ReadF(inst.Rs3)

	res, fl := e.fpu.Execute(inst, a, b, c, rm)
	e.regFile.FCSR.Accrue(fl)

	if inst.WritesInt() {
		e.regFile.WriteX(inst.Rd, res)
	} else {
		e.regFile.WriteF(inst.Rd, res)
	}
	return StepResult{}
}
