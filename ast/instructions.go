package ast

import (
	"strconv"

	"github.com/deepnoodle-ai/hackvm/internal/token"
	"github.com/deepnoodle-ai/hackvm/op"
)

// Push copies a segment cell, or a constant, onto the top of the stack.
type Push struct {
	Token   token.Position // position of the "push" keyword
	Segment op.Segment
	Index   int
}

func (x *Push) instructionNode() {}

func (x *Push) Pos() token.Position { return x.Token }

func (x *Push) String() string {
	return "push " + x.Segment.String() + " " + strconv.Itoa(x.Index)
}

// Pop removes the top of the stack and stores it in a segment cell.
type Pop struct {
	Token   token.Position // position of the "pop" keyword
	Segment op.Segment
	Index   int
}

func (x *Pop) instructionNode() {}

func (x *Pop) Pos() token.Position { return x.Token }

func (x *Pop) String() string {
	return "pop " + x.Segment.String() + " " + strconv.Itoa(x.Index)
}

// Arithmetic is an arithmetic, logical or comparison command operating on
// the top of the stack.
type Arithmetic struct {
	Token token.Position
	Op    op.Code
}

func (x *Arithmetic) instructionNode() {}

func (x *Arithmetic) Pos() token.Position { return x.Token }

func (x *Arithmetic) String() string { return x.Op.String() }
