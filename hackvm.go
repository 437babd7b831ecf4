// Package hackvm translates stack-machine VM code into assembly for the Hack
// computer, and can assemble and run the result on an emulator.
//
// Translate streams assembly to a writer as instructions are read. Compile
// produces a Program holding the assembly, the assembled binary and a source
// map, which Run executes:
//
//	program, err := hackvm.Compile(ctx, "push constant 2\npush constant 3\nadd")
//	if err != nil {
//		return err
//	}
//	result, err := hackvm.Run(ctx, program)
//	fmt.Println(result.Stack) // [5]
package hackvm

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/hackvm/compiler"
	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/internal/lexer"
	"github.com/deepnoodle-ai/hackvm/parser"
	"github.com/deepnoodle-ai/hackvm/vm"
)

// Option configures a translation or execution.
type Option func(*options)

type options struct {
	filename string
	comments bool
	logger   zerolog.Logger
	maxSteps int
	observer vm.Observer
	ram      map[int]int16
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop(), ram: map[int]int16{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{
		compiler.WithComments(o.comments),
		compiler.WithLogger(o.logger),
	}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.maxSteps > 0 {
		opts = append(opts, vm.WithMaxSteps(o.maxSteps))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	for addr, value := range o.ram {
		opts = append(opts, vm.WithRAM(addr, value))
	}
	return opts
}

// WithFilename sets the source filename used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithComments emits a comment line with the VM source before the assembly
// of each instruction.
func WithComments(enabled bool) Option {
	return func(o *options) {
		o.comments = enabled
	}
}

// WithLogger sets the logger used for debug events during translation.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxSteps limits the number of instructions Run executes.
func WithMaxSteps(steps int) Option {
	return func(o *options) {
		o.maxSteps = steps
	}
}

// WithRAM sets a RAM cell before Run starts. This option is additive.
func WithRAM(addr int, value int16) Option {
	return func(o *options) {
		o.ram[addr] = value
	}
}

// WithObserver sets an observer for emulator execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Translate reads VM source from r and writes the assembly to w, followed by
// the halt loop. Instructions are read and translated one at a time; the
// first error stops translation. Output is buffered, so w may have received
// part of the assembly when an error is returned. Callers that need an
// all-or-nothing result should write to a temporary destination.
func Translate(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	o := collectOptions(opts...)
	p := parser.New(lexer.New(r), o.parserOpts()...)
	c := compiler.New(o.compilerOpts()...)
	out := bufio.NewWriter(w)

	count := 0
	for p.HasMore() {
		if err := ctx.Err(); err != nil {
			return err
		}
		instr, err := p.Next()
		if err != nil {
			return err
		}
		lines, err := c.Emit(instr)
		if err != nil {
			return err
		}
		if err := writeLines(out, lines); err != nil {
			return errors.Wrap(errors.E3001, errors.SourceLocation{Filename: o.filename}, err)
		}
		count++
	}
	if err := writeLines(out, c.Halt()); err != nil {
		return errors.Wrap(errors.E3001, errors.SourceLocation{Filename: o.filename}, err)
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(errors.E3001, errors.SourceLocation{Filename: o.filename}, err)
	}
	o.logger.Debug().
		Str("filename", o.filename).
		Int("instructions", count).
		Int("labels", c.LabelCount()).
		Msg("translated")
	return nil
}

func writeLines(w *bufio.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// TranslateString translates source and returns the assembly text.
func TranslateString(ctx context.Context, source string, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Translate(ctx, strings.NewReader(source), &b, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Check reads all of r and reports every problem that would stop
// translation, including those the parser accepts but the code generator
// rejects, such as pop constant. The errors are combined into a
// *multierror.Error. Nothing is written.
func Check(ctx context.Context, r io.Reader, opts ...Option) error {
	o := collectOptions(opts...)
	p := parser.New(lexer.New(r), o.parserOpts()...)
	c := compiler.New(o.compilerOpts()...)
	var result *multierror.Error
	for p.HasMore() {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err)
		}
		instr, err := p.Next()
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, err := c.Emit(instr); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Format reads VM source from r and writes it back in canonical form: one
// instruction per line, single spaces between words, comments and blank
// lines removed.
func Format(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	o := collectOptions(opts...)
	program, err := parser.Parse(ctx, r, o.parserOpts()...)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, program.String()); err != nil {
		return errors.Wrap(errors.E3001, errors.SourceLocation{Filename: o.filename}, err)
	}
	return nil
}
