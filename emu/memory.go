// Package emu provides functional RISC-V floating-point emulation.
package emu

import "encoding/binary"

const pageSize = 4096

// Memory is a sparse, page-granular byte-addressable memory. Pages are
// allocated on first touch; reads from untouched pages return zero.
// All multi-byte accesses are little-endian.
type Memory struct {
	pages map[uint64][]byte
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint64][]byte)}
}

func (m *Memory) page(addr uint64, alloc bool) []byte {
	base := addr &^ uint64(pageSize-1)
	p, ok := m.pages[base]
	if !ok && alloc {
		p = make([]byte, pageSize)
		m.pages[base] = p
	}
	return p
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint64) uint8 {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr%pageSize]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint64, value uint8) {
	m.page(addr, true)[addr%pageSize] = value
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint64) uint16 {
	var b [2]byte
	m.readBytes(addr, b[:])
	return binary.LittleEndian.Uint16(b[:])
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint64, value uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], value)
	m.writeBytes(addr, b[:])
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint64) uint32 {
	var b [4]byte
	m.readBytes(addr, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint64, value uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	m.writeBytes(addr, b[:])
}

// Read64 reads a little-endian doubleword.
func (m *Memory) Read64(addr uint64) uint64 {
	var b [8]byte
	m.readBytes(addr, b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Write64 writes a little-endian doubleword.
func (m *Memory) Write64(addr uint64, value uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	m.writeBytes(addr, b[:])
}

func (m *Memory) readBytes(addr uint64, dst []byte) {
	for i := range dst {
		dst[i] = m.Read8(addr + uint64(i))
	}
}

func (m *Memory) writeBytes(addr uint64, src []byte) {
	for i, v := range src {
		m.Write8(addr+uint64(i), v)
	}
}

// LoadProgram copies a byte image into memory starting at addr.
func (m *Memory) LoadProgram(addr uint64, data []byte) {
	m.writeBytes(addr, data)
}
