// Package loader provides loading of floating-point instruction traces.
// A trace is a text file with one hex instruction word per line; blank
// lines and # comments are ignored.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultEntryPoint is the address a trace is placed at when the file
// does not say otherwise.
const DefaultEntryPoint = 0x1000

// Program represents a loaded instruction trace ready for execution.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint64
	// Words contains the instruction words in program order.
	Words []uint32
}

// Load reads a hex instruction trace from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// Parse reads a hex instruction trace. Each non-empty line carries one
// 32-bit word in hex, with or without a 0x prefix. An @addr line before
// the first word overrides the entry point.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{EntryPoint: DefaultEntryPoint}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "@") {
			if len(prog.Words) > 0 {
				return nil, fmt.Errorf("line %d: entry point after first word", lineNo)
			}
			addr, err := parseHex(line[1:], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid entry point %q", lineNo, line)
			}
			prog.EntryPoint = addr
			continue
		}

		word, err := parseHex(line, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid instruction word %q", lineNo, line)
		}
		prog.Words = append(prog.Words, uint32(word))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return prog, nil
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, bits)
}
