package pipeline

import (
	"github.com/DarionT/cvw/emu"
	"github.com/DarionT/cvw/softfp"
	"github.com/DarionT/cvw/timing/latency"
)

// Input carries the per-tick signals from the outside pipeline: the
// instruction word presented to Decode, the dynamic rounding mode, the
// integer operand for transfers from the integer side, the raw data for
// loads, and external per-stage stall and flush controls.
type Input struct {
	// InstValid indicates a new instruction word is being presented.
	InstValid bool
	// InstWord is the raw 32-bit instruction word.
	InstWord uint32

	// FRM is the dynamic rounding mode from fcsr.
	FRM softfp.RoundingMode

	// IntData is the integer register value for int-to-FP conversions
	// and moves from the integer side.
	IntData uint64

	// LoadData is the raw 64-bit memory data for a load being presented.
	LoadData uint64

	// External per-stage stall controls.
	StallD bool
	StallE bool
	StallM bool
	StallW bool

	// External per-stage flush controls.
	FlushD bool
	FlushE bool
	FlushM bool
	FlushW bool
}

// Output carries the per-tick signals back to the outside pipeline.
type Output struct {
	// StallRequest asks the outside pipeline to re-present the current
	// instruction word next tick.
	StallRequest bool

	// Illegal reports that the word presented this tick does not decode
	// to a legal operation.
	Illegal bool

	// IntWrite and IntResult drive the integer register writeback port.
	IntWrite  bool
	IntResult uint64

	// StoreValid and StoreData drive the store-data port.
	StoreValid bool
	StoreData  uint64

	// DivBusy reports that the iterative unit is occupied.
	DivBusy bool

	// Flags are the exception flags committed this tick.
	Flags softfp.Flags
}

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions completed (retired).
	Instructions uint64
	// Stalls is the number of cycles Decode was stalled.
	Stalls uint64
	// Flushes is the number of external pipeline flushes.
	Flushes uint64
	// DivCycles is the number of cycles the iterative unit was stepping.
	DivCycles uint64
	// MemStalls is the number of stalls due to memory latency.
	MemStalls uint64
	// DataHazards is the number of RAW data hazards resolved by
	// forwarding.
	DataHazards uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a custom latency table for instruction timing.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// Pipeline implements the 4-stage floating-point pipeline.
// Stages: Decode (D) -> Execute (E) -> Memory (M) -> Writeback (W).
// Instruction fetch and data-memory plumbing belong to the outside
// pipeline; they reach this model only through Input and Output.
type Pipeline struct {
	// Pipeline registers
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	// Pipeline stages
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	// Hazard detection
	hazardUnit *HazardUnit

	// Iterative divide/square-root unit
	divSqrt *DivSqrtUnit

	// Instruction timing
	latencyTable *latency.Table

	// Memory latency countdown for the instruction in the Memory stage.
	memCountdown uint64

	// Shared register file (FP registers + fcsr)
	regFile *emu.RegFile

	// Statistics
	stats Statistics
}

// NewPipeline creates a new 4-stage floating-point pipeline around the
// given register file.
func NewPipeline(regFile *emu.RegFile, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		regFile:        regFile,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.latencyTable == nil {
		p.latencyTable = latency.NewTable()
	}
	p.divSqrt = NewDivSqrtUnit(p.latencyTable)

	return p
}

// RegFile returns the shared register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// GetIDEX returns the ID/EX pipeline register.
func (p *Pipeline) GetIDEX() *IDEXRegister {
	return &p.idex
}

// GetEXMEM returns the EX/MEM pipeline register.
func (p *Pipeline) GetEXMEM() *EXMEMRegister {
	return &p.exmem
}

// GetMEMWB returns the MEM/WB pipeline register.
func (p *Pipeline) GetMEMWB() *MEMWBRegister {
	return &p.memwb
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Tick executes one pipeline cycle.
//
// Stages are evaluated in reverse order (W->M->E->D) so that an
// instruction entering Decode can forward the result the Memory stage
// completes this same tick. Hazard handling:
//   - RAW hazards against the Memory and Writeback slots are resolved by
//     forwarding at operand capture.
//   - A producer in the Execute slot is one tick too early to forward, so
//     Decode stalls one cycle.
//   - A busy divide stalls Execute and Decode but lets Memory and
//     Writeback drain.
//   - An external flush of the Execute slot marks an in-flight divide
//     discarded; the recurrence runs to completion in the background.
func (p *Pipeline) Tick(in Input) Output {
	p.stats.Cycles++
	out := Output{}

	// External flushes clear slots before the stages run.
	if in.FlushW {
		p.memwb.Clear()
	}
	if in.FlushM {
		p.exmem.Clear()
	}
	if in.FlushE {
		if p.idex.Valid {
			p.stats.Flushes++
		}
		p.idex.Clear()
		p.divSqrt.Flush()
	}

	// Stage 4: Writeback
	if !in.StallW && p.memwb.Valid {
		out.IntWrite, out.IntResult = p.writebackStage.Writeback(&p.memwb)
		if !p.memwb.Ctrl.Illegal {
			out.Flags = p.memwb.Flags
			p.stats.Instructions++
		}
	}

	// Stage 3: Memory
	var nextMEMWB MEMWBRegister
	memStall := in.StallW || in.StallM
	if p.exmem.Valid && !memStall {
		if p.exmem.Ctrl.MemSel == MemLoad || p.exmem.Ctrl.MemSel == MemStore {
			if p.memCountdown == 0 {
				p.memCountdown = p.latencyTable.GetLatency(p.exmem.Ctrl.Inst)
			}
			p.memCountdown--
			if p.memCountdown > 0 {
				memStall = true
				p.stats.MemStalls++
			}
		}

		if !memStall {
			memResult := p.memoryStage.Access(&p.exmem)
			out.StoreValid = memResult.StoreValid
			out.StoreData = memResult.StoreData
			nextMEMWB = MEMWBRegister{
				Valid:  true,
				Ctrl:   p.exmem.Ctrl,
				Result: memResult.Result,
				Flags:  p.exmem.Flags | memResult.Flags,
				Rd:     p.exmem.Rd,
			}
		}
	}

	// A flushed divide drains in the background; its result is dropped
	// on completion.
	if p.divSqrt.Busy() && p.divSqrt.Discarded() {
		p.divSqrt.Step()
		p.stats.DivCycles++
	}

	// Stage 2: Execute
	var nextEXMEM EXMEMRegister
	execStall := in.StallE && !memStall
	if p.idex.Valid && !memStall && !in.StallE {
		ctrl := p.idex.Ctrl
		if ctrl.DivStart && !ctrl.Illegal {
			if !p.idex.DivIssued {
				if p.divSqrt.Busy() {
					execStall = true
				} else {
					p.divSqrt.Start(ctrl.Inst, p.idex.AValue, p.idex.BValue, ctrl.RM)
					p.idex.DivIssued = true
				}
			}
			if p.idex.DivIssued {
				done := p.divSqrt.Step()
				p.stats.DivCycles++
				if done {
					res, fl := p.divSqrt.Result()
					nextEXMEM = EXMEMRegister{
						Valid:  true,
						Ctrl:   ctrl,
						Result: res,
						Flags:  fl,
						Rd:     ctrl.Inst.Rd,
					}
				} else {
					execStall = true
				}
			}
		} else {
			execResult := p.executeStage.Execute(&p.idex)
			nextEXMEM = EXMEMRegister{
				Valid:      true,
				Ctrl:       ctrl,
				Sum:        execResult.Sum,
				Result:     execResult.Result,
				Flags:      execResult.Flags,
				StoreValue: p.idex.BValue,
				Rd:         p.idex.Rd,
			}
		}
	}

	// Stage 1: Decode
	var nextIDEX IDEXRegister
	decodeStall := false
	if in.InstValid && !in.StallD && !in.FlushD && !execStall && !memStall {
		dec := p.decodeStage.Decode(in.InstWord, in.FRM, in.IntData, in.LoadData)
		out.Illegal = dec.Ctrl.Illegal

		if p.hazardUnit.DetectUseHazard(dec.Inst, &p.idex) {
			decodeStall = true
			p.stats.Stalls++
		} else {
			forwarding := p.hazardUnit.DetectForwarding(dec.Inst, &p.exmem, &p.memwb)
			if forwarding.ForwardA != ForwardNone ||
				forwarding.ForwardB != ForwardNone ||
				forwarding.ForwardC != ForwardNone {
				p.stats.DataHazards++
			}

			inst := dec.Inst
			nextIDEX = IDEXRegister{
				Valid: true,
				Ctrl:  dec.Ctrl,
				AValue: p.hazardUnit.GetForwardedValue(
					forwarding.ForwardA, dec.AValue, nextMEMWB.Result, &p.memwb),
				BValue: p.hazardUnit.GetForwardedValue(
					forwarding.ForwardB, dec.BValue, nextMEMWB.Result, &p.memwb),
				CValue: p.hazardUnit.GetForwardedValue(
					forwarding.ForwardC, dec.CValue, nextMEMWB.Result, &p.memwb),
				Rd:  inst.Rd,
				Rs1: inst.Rs1,
				Rs2: inst.Rs2,
				Rs3: inst.Rs3,
			}
		}
	}

	// Latch pipeline registers. A held stage leaves its register alone;
	// a drained stage receives a bubble.
	if !in.StallW {
		if !memStall {
			p.memwb = nextMEMWB
		} else {
			p.memwb.Clear()
		}
	}
	if !memStall {
		p.exmem = nextEXMEM
		if !execStall {
			p.idex = nextIDEX
		}
	}

	out.StallRequest = in.InstValid && (decodeStall || execStall || memStall)
	out.DivBusy = p.divSqrt.Busy()
	return out
}
