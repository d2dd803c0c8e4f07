// Package insts provides RISC-V F/D extension instruction definitions and
// decoding.
//
// This package implements decoding of the floating-point subset of the
// RISC-V instruction set into structured instruction representations. It
// supports:
//   - FP loads and stores: FLW, FLD, FSW, FSD
//   - Fused multiply-add: FMADD, FMSUB, FNMSUB, FNMADD
//   - Arithmetic: FADD, FSUB, FMUL, FDIV, FSQRT
//   - Sign injection, min/max, comparisons, classification
//   - Conversions between formats and to/from integers, and FMV moves
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00208053) // fadd.s f0, f1, f2
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Rs2: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
package insts
