// Package main provides the entry point for cvw.
// cvw is a cycle-accurate RISC-V floating-point unit simulator built
// on Akita.
//
// For the full CLI, use: go run ./cmd/cvw
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cvw - RISC-V Floating-Point Unit Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: cvw [options] <program.hex>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable timing simulation mode")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cvw' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cvw' instead.")
	}
}
