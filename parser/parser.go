// Package parser reads VM source and produces typed instructions.
//
// A Parser wraps a lexer and yields one ast.Instruction per cleaned source
// line. Use HasMore and Next to pull instructions one at a time, or Parse to
// read a whole program. Parsing stops at the first error; Check instead keeps
// going and reports every diagnostic.
package parser

import (
	"context"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/hackvm/ast"
	"github.com/deepnoodle-ai/hackvm/internal/lexer"
)

// Parse reads the provided input as VM source and returns the program. This
// is shorthand for creating a Lexer and Parser and then calling Parse.
func Parse(ctx context.Context, r io.Reader, options ...Option) (*ast.Program, error) {
	return New(lexer.New(r), options...).Parse(ctx)
}

// ParseString is like Parse but reads from a string.
func ParseString(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	return Parse(ctx, strings.NewReader(input), options...)
}

// Check reads all of the input and returns every error found, combined into
// a *multierror.Error, or nil if the input is valid. Reading stops early only
// if the input itself cannot be read or ctx is cancelled.
func Check(ctx context.Context, r io.Reader, options ...Option) error {
	p := New(lexer.New(r), options...)
	var result *multierror.Error
	for p.HasMore() {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err)
		}
		if _, err := p.Next(); err != nil {
			result = multierror.Append(result, err)
			if p.broken {
				break
			}
		}
	}
	return result.ErrorOrNil()
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in positions and error messages.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// Parser reads instructions from a lexer. It is not safe for concurrent use.
type Parser struct {
	l        *lexer.Lexer
	filename string

	// set once the underlying input fails; no more lines can be read
	broken bool
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{l: l}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	} else {
		p.filename = l.Filename()
	}
	return p
}

// HasMore reports whether another instruction (or an error) remains. It does
// not consume input, so repeated calls return the same answer.
func (p *Parser) HasMore() bool {
	if p.broken {
		return false
	}
	_, err := p.l.Peek()
	return err != io.EOF
}

// Next reads and returns the next instruction. It returns io.EOF once the
// input is exhausted.
func (p *Parser) Next() (ast.Instruction, error) {
	if p.broken {
		return nil, io.EOF
	}
	line, err := p.l.Next()
	if err != nil {
		if err != io.EOF {
			p.broken = true
		}
		return nil, err
	}
	return p.parseLine(line)
}

// Parse reads every remaining instruction. It returns the first error
// encountered, in which case the program is nil.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	program := &ast.Program{Filename: p.filename}
	for p.HasMore() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instr, err := p.Next()
		if err != nil {
			return nil, err
		}
		program.Instructions = append(program.Instructions, instr)
	}
	return program, nil
}
