// Package compiler lowers VM instructions into assembly for the Hack
// machine, which has a data register D, an address register A, and memory
// M = RAM[A].
//
// # Memory Layout
//
// The virtual stack and segments are kept in RAM, using reserved cells as
// pointers:
//
//	RAM[0]       SP    address of the next free stack slot
//	RAM[1..4]    LCL, ARG, THIS, THAT base pointers
//	RAM[5..12]   temp segment
//	RAM[13]      scratch cell used while popping
//	RAM[16..255] static segment
//	RAM[256..]   stack
//
// local, argument, this and that are dynamic segments: a cell's address is
// the value of the base pointer plus the index. temp, pointer and static are
// fixed segments: the address is a constant known at translation time.
//
// # Booleans
//
// True is -1 (all bits set) and false is 0. Comparisons use a conditional
// jump to select between the two, so each one needs a pair of labels. The
// labels share a numeric suffix taken from a counter owned by the Compiler,
// which advances once per comparison. The logical commands and, or and not
// are bitwise; applied to canonical booleans they yield canonical booleans.
package compiler

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/hackvm/ast"
	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/op"
)

// Compiler translates instructions one at a time. The label counter is
// mutated on every comparison, so a Compiler is not safe for concurrent use.
// Separate Compilers share no state.
type Compiler struct {
	// Suffix for the next pair of comparison labels
	labels int

	// Source filename, used when instructions carry no position
	filename string

	// Emit a comment line with the VM source before each block
	comments bool

	logger zerolog.Logger
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Compile translates a whole program and appends the halt loop.
func Compile(ctx context.Context, program *ast.Program, options ...Option) (*Code, error) {
	if program.Filename != "" {
		options = append([]Option{WithFilename(program.Filename)}, options...)
	}
	return New(options...).CompileProgram(ctx, program)
}

// LabelCount returns how many comparison label pairs have been generated.
func (c *Compiler) LabelCount() int {
	return c.labels
}

// CompileProgram translates every instruction of the program followed by the
// halt loop. Nothing is returned if any instruction fails.
func (c *Compiler) CompileProgram(ctx context.Context, program *ast.Program) (*Code, error) {
	code := &Code{filename: c.filename}
	for _, instr := range program.Instructions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := c.Emit(instr)
		if err != nil {
			return nil, err
		}
		code.append(instr, lines)
	}
	code.append(nil, c.Halt())
	code.labels = c.labels
	return code, nil
}

// Emit returns the assembly implementing one instruction.
func (c *Compiler) Emit(instr ast.Instruction) ([]string, error) {
	var lines []string
	var err error
	switch instr := instr.(type) {
	case *ast.Push:
		lines, err = c.emitPush(instr)
	case *ast.Pop:
		lines, err = c.emitPop(instr)
	case *ast.Arithmetic:
		lines, err = c.emitArithmetic(instr)
	default:
		return nil, errors.New(errors.E2001, errors.SourceLocation{Filename: c.filename},
			"unsupported instruction type %T", instr)
	}
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("instruction", instr.String()).
		Int("lines", len(lines)).
		Int("labels", c.labels).
		Msg("emit")
	if c.comments {
		lines = append([]string{"// " + instr.String()}, lines...)
	}
	return lines, nil
}

// Halt returns the terminal loop appended after the last instruction, which
// keeps the machine from running into uninitialized memory.
func (c *Compiler) Halt() []string {
	return []string{
		"(" + HaltLabel + ")",
		"@" + HaltLabel,
		"0;JMP",
	}
}

func (c *Compiler) emitArithmetic(instr *ast.Arithmetic) ([]string, error) {
	info := op.GetInfo(instr.Op)
	switch info.Class {
	case op.ClassBinary:
		return binary(info.Comp), nil
	case op.ClassUnary:
		return unary(info.Comp), nil
	case op.ClassCompare:
		return c.compare(info), nil
	}
	return nil, c.errorf(errors.E2001, instr, "unknown command %q", instr.Op.String())
}

func (c *Compiler) emitPush(instr *ast.Push) ([]string, error) {
	if instr.Segment == op.Constant {
		if instr.Index > MaxConstant {
			return nil, c.errorf(errors.E2002, instr,
				"constant %d out of range (max %d)", instr.Index, MaxConstant)
		}
		return append([]string{at(instr.Index), "D=A"}, pushD...), nil
	}
	b, err := c.binding(instr, instr.Segment, instr.Index)
	if err != nil {
		return nil, err
	}
	var lines []string
	if b.IsDynamic() {
		lines = []string{"@" + b.Symbol, "D=M", at(instr.Index), "A=D+A", "D=M"}
	} else {
		lines = []string{at(b.Address(instr.Index)), "D=M"}
	}
	return append(lines, pushD...), nil
}

func (c *Compiler) emitPop(instr *ast.Pop) ([]string, error) {
	if instr.Segment == op.Constant {
		return nil, c.errorf(errors.E2001, instr, "cannot pop into the constant segment").
			WithNote("constant is a push-only segment")
	}
	b, err := c.binding(instr, instr.Segment, instr.Index)
	if err != nil {
		return nil, err
	}
	var lines []string
	if b.IsDynamic() {
		lines = []string{"@" + b.Symbol, "D=M", at(instr.Index), "D=D+A"}
	} else {
		lines = []string{at(b.Address(instr.Index)), "D=A"}
	}
	lines = append(lines, "@"+Scratch, "M=D")
	return append(lines, popToScratch...), nil
}

func (c *Compiler) binding(instr ast.Instruction, seg op.Segment, index int) (Binding, error) {
	b, ok := LookupBinding(seg)
	if !ok {
		return Binding{}, c.errorf(errors.E2001, instr, "segment %q is not addressable", seg.String())
	}
	if !b.Contains(index) {
		limit := MaxConstant
		if b.Size > 0 {
			limit = b.Size - 1
		}
		return Binding{}, c.errorf(errors.E2002, instr,
			"index %d out of range for segment %s (max %d)", index, seg.String(), limit)
	}
	return b, nil
}

// compare emits a comparison. The difference second-top is tested with the
// relation's jump; the result cell receives -1 if it holds, otherwise 0.
func (c *Compiler) compare(info op.Info) []string {
	suffix := strconv.Itoa(c.labels)
	c.labels++
	trueLabel := strings.ToUpper(info.Name) + suffix
	pushLabel := "PUSH" + suffix
	return []string{
		"@" + StackPointer,
		"M=M-1",
		"A=M",
		"D=M",
		"A=A-1",
		"D=" + info.Comp,
		"@" + trueLabel,
		"D;" + info.Jump,
		"D=0",
		"@" + pushLabel,
		"0;JMP",
		"(" + trueLabel + ")",
		"D=-1",
		"(" + pushLabel + ")",
		"@" + StackPointer,
		"A=M-1",
		"M=D",
	}
}

// binary pops the top of the stack into D and combines it with the cell
// beneath, which receives the result.
func binary(comp string) []string {
	return []string{
		"@" + StackPointer,
		"M=M-1",
		"A=M",
		"D=M",
		"A=A-1",
		"M=" + comp,
	}
}

// unary rewrites the top of the stack in place.
func unary(comp string) []string {
	return []string{
		"@" + StackPointer,
		"A=M-1",
		"M=" + comp,
	}
}

// pushD stores D at the top of the stack and advances SP.
var pushD = []string{
	"@" + StackPointer,
	"A=M",
	"M=D",
	"@" + StackPointer,
	"M=M+1",
}

// popToScratch pops the top of the stack into the address held in the
// scratch cell.
var popToScratch = []string{
	"@" + StackPointer,
	"M=M-1",
	"A=M",
	"D=M",
	"@" + Scratch,
	"A=M",
	"M=D",
}

func at(n int) string {
	return "@" + strconv.Itoa(n)
}

func (c *Compiler) errorf(code errors.ErrorCode, instr ast.Instruction, format string, args ...any) *errors.TranslateError {
	pos := instr.Pos()
	loc := errors.SourceLocation{Filename: c.filename}
	if pos.IsValid() {
		if pos.File != "" {
			loc.Filename = pos.File
		}
		loc.Line = pos.LineNumber()
		loc.Column = pos.ColumnNumber()
	}
	return errors.New(code, loc, format, args...)
}
