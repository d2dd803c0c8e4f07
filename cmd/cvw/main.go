// Package main provides the entry point for the cvw floating-point
// unit simulator. It runs hex instruction traces either functionally
// or through the cycle-accurate pipeline model.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/DarionT/cvw/emu"
	"github.com/DarionT/cvw/loader"
	"github.com/DarionT/cvw/timing/core"
	"github.com/DarionT/cvw/timing/latency"
)

var (
	timingMode = flag.Bool("timing", false, "Enable timing simulation mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: cvw [options] <program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Instruction words: %d\n", len(prog.Words))
	}

	if *timingMode {
		os.Exit(runTiming(prog, programPath))
	} else {
		os.Exit(runEmulation(prog, programPath))
	}
}

// placeWords writes the trace's instruction words into memory starting
// at its entry point.
func placeWords(memory *emu.Memory, prog *loader.Program) {
	for i, word := range prog.Words {
		memory.Write32(prog.EntryPoint+uint64(4*i), word)
	}
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program, programPath string) int {
	emulator := emu.NewEmulator()
	placeWords(emulator.Memory(), prog)
	emulator.LoadProgram(prog.EntryPoint, emulator.Memory())

	exitCode := emulator.Run()

	regFile := emulator.RegFile()
	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
	fmt.Printf("fflags: %v\n", regFile.FCSR.Fflags)
	if *verbose {
		dumpRegisters(regFile)
	}

	return int(exitCode)
}

// runTiming runs the program through the cycle-accurate pipeline model.
func runTiming(prog *loader.Program, programPath string) int {
	var timingConfig *latency.TimingConfig
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			return 1
		}
	} else {
		timingConfig = latency.DefaultTimingConfig()
	}

	table := latency.NewTableWithConfig(timingConfig)

	memory := emu.NewMemory()
	regFile := &emu.RegFile{}
	placeWords(memory, prog)

	c := core.NewCore("FPU", regFile, memory, core.WithLatencyTable(table))
	c.SetPC(prog.EntryPoint)

	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		return 1
	}

	stats := c.Stats()
	totalCycles := stats.Cycles
	if totalCycles == 0 {
		totalCycles = 1
	}

	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Total Instructions: %d\n", stats.Instructions)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI())
	fmt.Printf("\n")
	fmt.Printf("Breakdown:\n")
	fmt.Printf("  Hazard stalls:  %4d cycles (%5.1f%%)\n",
		stats.Stalls, 100.0*float64(stats.Stalls)/float64(totalCycles))
	fmt.Printf("  Divide cycles:  %4d cycles (%5.1f%%)\n",
		stats.DivCycles, 100.0*float64(stats.DivCycles)/float64(totalCycles))
	fmt.Printf("  Memory stalls:  %4d cycles (%5.1f%%)\n",
		stats.MemStalls, 100.0*float64(stats.MemStalls)/float64(totalCycles))
	fmt.Printf("\n")
	fmt.Printf("Pipeline Events:\n")
	fmt.Printf("  Data hazards: %d\n", stats.DataHazards)
	fmt.Printf("  Flushes:      %d\n", stats.Flushes)
	fmt.Printf("  Illegal:      %d\n", stats.Illegal)
	fmt.Printf("\n")
	fmt.Printf("fflags: %v\n", regFile.FCSR.Fflags)
	if *verbose {
		dumpRegisters(regFile)
	}

	return 0
}

// dumpRegisters prints the FP register file, skipping registers that
// were never written.
func dumpRegisters(regFile *emu.RegFile) {
	fmt.Printf("\nRegisters:\n")
	for i := 0; i < 32; i++ {
		v := regFile.ReadF(uint8(i))
		if v == 0 {
			continue
		}
		fmt.Printf("  f%-2d = 0x%016X\n", i, v)
	}
}
