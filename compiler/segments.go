package compiler

import "github.com/deepnoodle-ai/hackvm/op"

// Reserved target-machine symbols and addresses.
const (
	StackPointer = "SP"
	Scratch      = "R13"
	HaltLabel    = "HALT"

	// MaxConstant is the largest value an A-instruction can load directly.
	MaxConstant = 32767
)

// Binding maps a segment onto target memory. A dynamic binding names the
// base-pointer cell whose value is added to the index at run time. A fixed
// binding adds the index to a constant base address and never indirects.
type Binding struct {
	Segment op.Segment
	Symbol  string // base-pointer cell, dynamic segments only
	Base    int    // base address, fixed segments only
	Size    int    // number of addressable cells, 0 if unbounded
}

// IsDynamic reports whether the segment is addressed through a base pointer.
func (b Binding) IsDynamic() bool {
	return b.Symbol != ""
}

// Address returns the absolute address of a fixed segment cell.
func (b Binding) Address(index int) int {
	return b.Base + index
}

// Contains reports whether index is addressable in the segment.
func (b Binding) Contains(index int) bool {
	if index < 0 {
		return false
	}
	if b.Size > 0 {
		return index < b.Size
	}
	return index <= MaxConstant
}

var bindings = map[op.Segment]Binding{
	op.Local:    {Segment: op.Local, Symbol: "LCL"},
	op.Argument: {Segment: op.Argument, Symbol: "ARG"},
	op.This:     {Segment: op.This, Symbol: "THIS"},
	op.That:     {Segment: op.That, Symbol: "THAT"},
	op.Pointer:  {Segment: op.Pointer, Base: 3, Size: 2},
	op.Temp:     {Segment: op.Temp, Base: 5, Size: 8},
	op.Static:   {Segment: op.Static, Base: 16, Size: 240},
}

// LookupBinding returns the memory binding of a segment. The constant
// segment has no binding since it is not addressable.
func LookupBinding(seg op.Segment) (Binding, bool) {
	b, ok := bindings[seg]
	return b, ok
}
