// Package core provides the cycle-accurate floating-point core model.
// It drives the pipeline from program memory as an Akita ticking
// component, supplying the fetch, operand and data-memory traffic the
// pipeline itself leaves to the outside.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/DarionT/cvw/emu"
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/timing/latency"
	"github.com/DarionT/cvw/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of stall cycles.
	Stalls uint64
	// Flushes is the number of pipeline flushes.
	Flushes uint64
	// DivCycles is the number of cycles the iterative unit was stepping.
	DivCycles uint64
	// MemStalls is the number of stalls due to memory latency.
	MemStalls uint64
	// DataHazards is the number of RAW hazards resolved by forwarding.
	DataHazards uint64
	// Illegal is the number of illegal instruction words encountered.
	Illegal uint64
}

// CPI returns the cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// storeSlot remembers the address and width of a store that has issued
// but whose data has not yet reached the store port.
type storeSlot struct {
	addr uint64
	wide bool
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLatencyTable sets a custom latency table for the pipeline.
func WithLatencyTable(table *latency.Table) Option {
	return func(c *Core) {
		c.table = table
	}
}

// WithEngine attaches the core to an existing event engine instead of
// a private serial one.
func WithEngine(engine sim.Engine) Option {
	return func(c *Core) {
		c.engine = engine
	}
}

// Core represents a cycle-accurate floating-point core.
// It fetches instruction words from memory at the PC, presents them to
// the pipeline, resolves load data and integer operands at issue time,
// and commits store data and integer results as the pipeline produces
// them. A zero instruction word ends the program; the core then drains
// the pipeline and halts.
type Core struct {
	*sim.TickingComponent

	// Pipeline is the underlying 4-stage floating-point pipeline.
	Pipeline *pipeline.Pipeline

	engine sim.Engine
	table  *latency.Table

	regFile *emu.RegFile
	memory  *emu.Memory
	decoder *insts.Decoder

	// In-flight bookkeeping, in program order.
	intDests []uint8
	stores   []storeSlot

	illegal  uint64
	draining bool
	halted   bool
}

// NewCore creates a core over the given register file and memory.
func NewCore(name string, regFile *emu.RegFile, memory *emu.Memory, opts ...Option) *Core {
	c := &Core{
		regFile: regFile,
		memory:  memory,
		decoder: insts.NewDecoder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = sim.NewSerialEngine()
	}

	var pipeOpts []pipeline.PipelineOption
	if c.table != nil {
		pipeOpts = append(pipeOpts, pipeline.WithLatencyTable(c.table))
	}
	c.Pipeline = pipeline.NewPipeline(regFile, pipeOpts...)

	c.TickingComponent = sim.NewTickingComponent(name, c.engine, 1*sim.GHz, c)

	return c
}

// SetPC sets the program counter.
func (c *Core) SetPC(pc uint64) {
	c.regFile.PC = pc
}

// PC returns the program counter.
func (c *Core) PC() uint64 {
	return c.regFile.PC
}

// Halted returns true if the core has fetched the end-of-program word
// and the pipeline has drained.
func (c *Core) Halted() bool {
	return c.halted
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		Stalls:       pipeStats.Stalls,
		Flushes:      pipeStats.Flushes,
		DivCycles:    pipeStats.DivCycles,
		MemStalls:    pipeStats.MemStalls,
		DataHazards:  pipeStats.DataHazards,
		Illegal:      c.illegal,
	}
}

// Run schedules the first tick and runs the event engine until the
// core halts.
func (c *Core) Run() error {
	c.TickLater()
	return c.engine.Run()
}

// RunCycles ticks the core for the specified number of cycles.
// Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles; i++ {
		if !c.Tick() {
			return false
		}
	}
	return !c.halted
}

// Tick advances the core by one cycle. It implements sim.Ticker;
// returning false stops the tick chain once the core has halted.
func (c *Core) Tick() bool {
	if c.halted {
		return false
	}

	var in pipeline.Input
	var inst *insts.Instruction
	in.FRM = c.regFile.FCSR.FRM

	if !c.draining {
		word := c.memory.Read32(c.regFile.PC)
		if word == 0 {
			c.draining = true
		} else {
			inst = c.decoder.Decode(word)
			if c.loadBlocked(inst) {
				// An older store to this address has not reached the
				// store port yet; hold the load until it drains.
				inst = nil
			} else {
				in.InstValid = true
				in.InstWord = word
				c.gatherOperands(inst, &in)
			}
		}
	}

	out := c.Pipeline.Tick(in)

	if in.InstValid && !out.StallRequest {
		c.issue(inst, out.Illegal)
	}
	if out.StoreValid {
		c.commitStore(out.StoreData)
	}
	if out.IntWrite {
		c.commitIntWrite(out.IntResult)
	}

	if c.draining && c.pipelineEmpty(out) {
		c.halted = true
	}

	return true
}

// gatherOperands fills in the memory and integer operand signals an
// instruction word needs at its issue tick.
func (c *Core) gatherOperands(inst *insts.Instruction, in *pipeline.Input) {
	switch inst.Op {
	case insts.OpFLW:
		in.LoadData = uint64(c.memory.Read32(c.effectiveAddr(inst)))
	case insts.OpFLD:
		in.LoadData = c.memory.Read64(c.effectiveAddr(inst))
	case insts.OpFCVTFromInt, insts.OpFMVFromInt:
		in.IntData = c.regFile.ReadX(inst.Rs1)
	}
}

func (c *Core) effectiveAddr(inst *insts.Instruction) uint64 {
	return c.regFile.ReadX(inst.Rs1) + uint64(int64(inst.Imm))
}

// loadBlocked reports whether a load overlaps a store that has issued
// but not yet written memory. Load data is read at issue time, so such
// a load must wait for the store to reach the store port.
func (c *Core) loadBlocked(inst *insts.Instruction) bool {
	var size uint64
	switch inst.Op {
	case insts.OpFLW:
		size = 4
	case insts.OpFLD:
		size = 8
	default:
		return false
	}
	addr := c.effectiveAddr(inst)
	for _, s := range c.stores {
		width := uint64(4)
		if s.wide {
			width = 8
		}
		if addr < s.addr+width && s.addr < addr+size {
			return true
		}
	}
	return false
}

// issue records the bookkeeping for a word that entered the pipeline
// this tick and advances the PC past it.
func (c *Core) issue(inst *insts.Instruction, illegal bool) {
	c.regFile.PC += 4
	if illegal {
		c.illegal++
		return
	}
	if inst.WritesInt() {
		c.intDests = append(c.intDests, inst.Rd)
	}
	switch inst.Op {
	case insts.OpFSW:
		c.stores = append(c.stores, storeSlot{addr: c.effectiveAddr(inst)})
	case insts.OpFSD:
		c.stores = append(c.stores, storeSlot{addr: c.effectiveAddr(inst), wide: true})
	}
}

// commitStore writes the data the store port produced this tick to the
// oldest pending store address.
func (c *Core) commitStore(data uint64) {
	s := c.stores[0]
	c.stores = c.stores[1:]
	if s.wide {
		c.memory.Write64(s.addr, data)
	} else {
		c.memory.Write32(s.addr, uint32(data))
	}
}

// commitIntWrite writes an integer result to the oldest pending
// integer destination.
func (c *Core) commitIntWrite(result uint64) {
	rd := c.intDests[0]
	c.intDests = c.intDests[1:]
	c.regFile.WriteX(rd, result)
}

func (c *Core) pipelineEmpty(out pipeline.Output) bool {
	return !c.Pipeline.GetIDEX().Valid &&
		!c.Pipeline.GetEXMEM().Valid &&
		!c.Pipeline.GetMEMWB().Valid &&
		!out.DivBusy
}
