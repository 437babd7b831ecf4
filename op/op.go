// Package op defines the arithmetic/logical commands and the memory segments
// of the stack VM instruction set.
package op

import "sort"

// Code identifies an arithmetic or logical command.
type Code uint8

const (
	Invalid Code = 0

	// Binary numeric
	Add Code = 1
	Sub Code = 2

	// Unary
	Neg Code = 10
	Not Code = 11

	// Comparison
	Eq Code = 20
	Gt Code = 21
	Lt Code = 22

	// Binary logical
	And Code = 30
	Or  Code = 31
)

// Class groups commands that share a translation template.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassBinary
	ClassUnary
	ClassCompare
)

// Info contains information about a command.
type Info struct {
	Code  Code
	Name  string
	Class Class

	// Arity is the number of stack cells consumed. Every command pushes
	// exactly one result.
	Arity int

	// Comp is the target-machine computation that produces the result, with
	// D holding the top of the stack and M the cell beneath it (or the only
	// operand, for unary commands).
	Comp string

	// Jump is the condition under which a comparison holds. Empty for
	// commands that are not comparisons.
	Jump string
}

var (
	infos  = make([]Info, 256)
	byName = map[string]Code{}
)

func init() {
	ops := []Info{
		{Add, "add", ClassBinary, 2, "D+M", ""},
		{Sub, "sub", ClassBinary, 2, "M-D", ""},
		{And, "and", ClassBinary, 2, "D&M", ""},
		{Or, "or", ClassBinary, 2, "D|M", ""},
		{Neg, "neg", ClassUnary, 1, "-M", ""},
		{Not, "not", ClassUnary, 1, "!M", ""},
		{Eq, "eq", ClassCompare, 2, "M-D", "JEQ"},
		{Gt, "gt", ClassCompare, 2, "M-D", "JGT"},
		{Lt, "lt", ClassCompare, 2, "M-D", "JLT"},
	}
	for _, o := range ops {
		infos[o.Code] = o
		byName[o.Name] = o.Code
	}
}

// GetInfo returns information about the given command.
func GetInfo(code Code) Info {
	return infos[code]
}

// Lookup returns the command with the given mnemonic.
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// Names returns all command mnemonics, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the mnemonic, for example "add".
func (c Code) String() string {
	return infos[c].Name
}

// IsComparison reports whether the command produces a boolean through a
// conditional jump.
func (c Code) IsComparison() bool {
	return infos[c].Class == ClassCompare
}
