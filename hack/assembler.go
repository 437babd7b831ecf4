package hack

import (
	"bufio"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/hackvm/errors"
)

const (
	// ROMSize is the number of instruction words the machine can address.
	ROMSize = 32768

	// VariableBase is the first RAM address allocated to variables.
	VariableBase = 16
)

// Program is assembled machine code.
type Program struct {
	// Words holds one encoded instruction per ROM address.
	Words []uint16

	// Lines maps each ROM address to the 0-based index of its source line.
	Lines []int

	// Symbols holds every label and variable, plus the predefined symbols.
	Symbols map[string]int
}

// Assemble translates assembly lines into machine words. Labels are bound to
// ROM addresses in a first pass; the second pass allocates any remaining
// symbols as variables from RAM[16] and encodes every instruction.
func Assemble(lines []string) (*Program, error) {
	instrs, err := Parse(lines)
	if err != nil {
		return nil, err
	}

	symbols := PredefinedSymbols()
	address := 0
	for _, in := range instrs {
		if in.Kind != Label {
			address++
			continue
		}
		if _, exists := symbols[in.Symbol]; exists {
			return nil, errors.New(errors.E4005, location(lines, in.Line),
				"label %q already defined", in.Symbol)
		}
		symbols[in.Symbol] = address
	}
	if address > ROMSize {
		return nil, errors.New(errors.E4006, errors.SourceLocation{},
			"program has %d instructions (max %d)", address, ROMSize)
	}

	program := &Program{
		Words:   make([]uint16, 0, address),
		Lines:   make([]int, 0, address),
		Symbols: symbols,
	}
	nextVariable := VariableBase
	for _, in := range instrs {
		switch in.Kind {
		case Label:
			continue
		case AInstruction:
			value := in.Value
			if in.Symbol != "" {
				v, ok := symbols[in.Symbol]
				if !ok {
					v = nextVariable
					symbols[in.Symbol] = v
					nextVariable++
				}
				value = v
			}
			program.Words = append(program.Words, uint16(value))
		case CInstruction:
			program.Words = append(program.Words, Encode(in))
		}
		program.Lines = append(program.Lines, in.Line)
	}
	return program, nil
}

// Encode returns the machine word for a C-instruction. The instruction must
// have been produced by Parse.
func Encode(in Instruction) uint16 {
	dest, _ := destBits(in.Dest)
	return 0b111<<13 | compBits[in.Comp]<<6 | dest<<3 | jumpBits[in.Jump]
}

// Binary returns the program in the textual .hack format: one word per line
// written as 16 binary digits.
func (p *Program) Binary() string {
	b := make([]byte, 0, len(p.Words)*17)
	for _, w := range p.Words {
		b = fmt.Appendf(b, "%016b\n", w)
	}
	return string(b)
}

// WriteBinary writes the textual .hack format to w.
func (p *Program) WriteBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, word := range p.Words {
		if _, err := fmt.Fprintf(bw, "%016b\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func location(lines []string, index int) errors.SourceLocation {
	return errors.SourceLocation{Line: index + 1, Column: 1, Source: lines[index]}
}
