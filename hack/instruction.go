// Package hack parses and assembles Hack machine assembly into 16-bit words.
package hack

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/hackvm/errors"
)

// Kind distinguishes the three forms of assembly line.
type Kind uint8

const (
	// AInstruction loads a literal or symbol into A: "@value".
	AInstruction Kind = iota + 1
	// CInstruction computes and optionally stores and jumps: "dest=comp;jump".
	CInstruction
	// Label binds a symbol to the next instruction address: "(NAME)".
	Label
)

// MaxLiteral is the largest value an A-instruction can hold.
const MaxLiteral = 32767

// Instruction is one parsed line of assembly.
type Instruction struct {
	Kind Kind
	Line int // 0-based index of the source line

	// A-instructions and labels
	Symbol string // empty when the A-instruction holds a literal
	Value  int

	// C-instructions
	Dest string
	Comp string
	Jump string
}

// String returns the canonical text of the instruction.
func (in Instruction) String() string {
	switch in.Kind {
	case AInstruction:
		if in.Symbol != "" {
			return "@" + in.Symbol
		}
		return "@" + strconv.Itoa(in.Value)
	case Label:
		return "(" + in.Symbol + ")"
	case CInstruction:
		s := in.Comp
		if in.Dest != "" {
			s = in.Dest + "=" + s
		}
		if in.Jump != "" {
			s += ";" + in.Jump
		}
		return s
	}
	return ""
}

// Parse parses every line of assembly, skipping blank lines and comments.
func Parse(lines []string) ([]Instruction, error) {
	var out []Instruction
	for i, raw := range lines {
		in, ok, err := ParseLine(raw, i)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, in)
		}
	}
	return out, nil
}

// ParseLine parses one line. It returns false if the line holds no
// instruction.
func ParseLine(raw string, index int) (Instruction, bool, error) {
	text := raw
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	text = strings.Join(strings.Fields(text), "")
	if text == "" {
		return Instruction{}, false, nil
	}
	loc := errors.SourceLocation{Line: index + 1, Column: 1, Source: raw}

	switch {
	case text[0] == '@':
		return parseA(text[1:], index, loc)
	case text[0] == '(':
		if len(text) < 3 || text[len(text)-1] != ')' || !isSymbol(text[1:len(text)-1]) {
			return Instruction{}, false, errors.New(errors.E4005, loc, "invalid label %q", text)
		}
		return Instruction{Kind: Label, Line: index, Symbol: text[1 : len(text)-1]}, true, nil
	}
	return parseC(text, index, loc)
}

func parseA(value string, index int, loc errors.SourceLocation) (Instruction, bool, error) {
	if value == "" {
		return Instruction{}, false, errors.New(errors.E4004, loc, "missing value after @")
	}
	if value[0] >= '0' && value[0] <= '9' {
		n, err := strconv.Atoi(value)
		if err != nil || n > MaxLiteral {
			return Instruction{}, false, errors.New(errors.E4004, loc,
				"literal %q out of range (max %d)", value, MaxLiteral)
		}
		return Instruction{Kind: AInstruction, Line: index, Value: n}, true, nil
	}
	if !isSymbol(value) {
		return Instruction{}, false, errors.New(errors.E4004, loc, "invalid symbol %q", value)
	}
	return Instruction{Kind: AInstruction, Line: index, Symbol: value}, true, nil
}

func parseC(text string, index int, loc errors.SourceLocation) (Instruction, bool, error) {
	in := Instruction{Kind: CInstruction, Line: index}
	rest := text
	if dest, after, found := strings.Cut(rest, "="); found {
		in.Dest = dest
		rest = after
	}
	if comp, jump, found := strings.Cut(rest, ";"); found {
		in.Jump = jump
		rest = comp
	}
	in.Comp = rest

	if _, ok := compBits[in.Comp]; !ok {
		return in, false, errors.New(errors.E4001, loc, "invalid computation %q", in.Comp)
	}
	if _, ok := destBits(in.Dest); !ok {
		return in, false, errors.New(errors.E4002, loc, "invalid destination %q", in.Dest)
	}
	if _, ok := jumpBits[in.Jump]; !ok {
		return in, false, errors.New(errors.E4003, loc, "invalid jump %q", in.Jump)
	}
	return in, true, nil
}

func isSymbol(s string) bool {
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '$', c == ':':
		default:
			return false
		}
	}
	return true
}
