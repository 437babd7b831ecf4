// Package ast defines the typed representation of a VM program.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/hackvm/internal/token"
)

// Node represents a portion of the program. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns the canonical VM source text for the node.
	String() string
}

// Instruction is one VM command. The set of implementations is closed:
// *Push, *Pop and *Arithmetic. Consumers should switch over these types.
type Instruction interface {
	Node
	instructionNode()
}

// Program is a sequence of instructions read from one translation unit.
type Program struct {
	Filename     string
	Instructions []Instruction
}

// String returns the program as canonical VM source, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for _, instr := range p.Instructions {
		b.WriteString(instr.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.Instructions)
}
