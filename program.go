package hackvm

import (
	"context"

	"github.com/deepnoodle-ai/hackvm/compiler"
	"github.com/deepnoodle-ai/hackvm/dis"
	"github.com/deepnoodle-ai/hackvm/hack"
	"github.com/deepnoodle-ai/hackvm/parser"
	"github.com/deepnoodle-ai/hackvm/vm"
)

// Program is a translated and assembled VM program. It is immutable after
// creation, and Run may be called on it from several goroutines.
type Program struct {
	code     *compiler.Code
	binary   *hack.Program
	source   string
	filename string
}

// Source returns the VM source the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with the program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Assembly returns the translated assembly text.
func (p *Program) Assembly() string {
	return p.code.String()
}

// Code returns the translated code with its source map.
func (p *Program) Code() *compiler.Code {
	return p.code
}

// Binary returns the assembled machine program.
func (p *Program) Binary() *hack.Program {
	return p.binary
}

// Listing pairs each VM instruction with its assembly and ROM addresses.
func (p *Program) Listing() []dis.Entry {
	return dis.Disassemble(p.code)
}

// Compile parses, translates and assembles VM source.
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	ast, err := parser.ParseString(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	code, err := compiler.Compile(ctx, ast, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	binary, err := hack.Assemble(code.Lines())
	if err != nil {
		return nil, err
	}
	return &Program{
		code:     code,
		binary:   binary,
		source:   source,
		filename: o.filename,
	}, nil
}

// Result is the machine state after a run.
type Result struct {
	SP    int     `json:"sp"`
	Stack []int16 `json:"stack"`
	Steps int     `json:"steps"`
}

// Run executes the program on a fresh emulator and returns the final stack.
// Each call uses its own machine.
func Run(ctx context.Context, program *Program, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	m := vm.New(program.binary, o.vmOpts()...)
	if err := m.Run(ctx); err != nil {
		return nil, err
	}
	o.logger.Debug().
		Str("filename", program.filename).
		Int("steps", m.Steps()).
		Int("sp", m.SP()).
		Msg("halted")
	return &Result{SP: m.SP(), Stack: m.Stack(), Steps: m.Steps()}, nil
}

// Eval compiles and runs source. It is equivalent to Compile followed by Run.
func Eval(ctx context.Context, source string, opts ...Option) (*Result, error) {
	program, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, program, opts...)
}
