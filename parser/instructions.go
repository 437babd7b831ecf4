package parser

import (
	"strconv"

	"github.com/deepnoodle-ai/hackvm/ast"
	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/internal/lexer"
	"github.com/deepnoodle-ai/hackvm/internal/token"
	"github.com/deepnoodle-ai/hackvm/op"
)

// Commands that belong to the full VM language but are not translated.
var unsupportedCommands = map[string]bool{
	"label":    true,
	"goto":     true,
	"if-goto":  true,
	"function": true,
	"call":     true,
	"return":   true,
}

func (p *Parser) parseLine(line lexer.Line) (ast.Instruction, error) {
	switch line.Tokens[0].Type {
	case token.PUSH, token.POP:
		return p.parseMemoryAccess(line)
	default:
		return p.parseArithmetic(line)
	}
}

func (p *Parser) parseMemoryAccess(line lexer.Line) (ast.Instruction, error) {
	keyword := line.Tokens[0]
	if len(line.Tokens) < 2 {
		return nil, p.errorAfter(errors.E1001, line, keyword,
			"expected a segment after %q", keyword.Literal)
	}
	segTok := line.Tokens[1]
	segment, ok := op.LookupSegment(segTok.Literal)
	if !ok {
		return nil, p.errorAt(errors.E1002, line, segTok,
			"unknown segment %q", segTok.Literal).
			WithSuggestions(segTok.Literal, op.SegmentNames())
	}
	if len(line.Tokens) < 3 {
		return nil, p.errorAfter(errors.E1001, line, segTok,
			"expected an index after %q", keyword.Literal+" "+segTok.Literal)
	}
	indexTok := line.Tokens[2]
	if indexTok.Type != token.INT {
		return nil, p.errorAt(errors.E1001, line, indexTok,
			"invalid index %q: expected a non-negative integer", indexTok.Literal)
	}
	index, err := strconv.Atoi(indexTok.Literal)
	if err != nil {
		return nil, p.errorAt(errors.E1001, line, indexTok,
			"invalid index %q: value out of range", indexTok.Literal)
	}
	if len(line.Tokens) > 3 {
		return nil, p.errorAt(errors.E1001, line, line.Tokens[3],
			"unexpected %q after index", line.Tokens[3].Literal)
	}
	if keyword.Type == token.PUSH {
		return &ast.Push{Token: keyword.StartPosition, Segment: segment, Index: index}, nil
	}
	return &ast.Pop{Token: keyword.StartPosition, Segment: segment, Index: index}, nil
}

func (p *Parser) parseArithmetic(line lexer.Line) (ast.Instruction, error) {
	cmd := line.Tokens[0]
	code, ok := op.Lookup(cmd.Literal)
	if !ok {
		err := p.errorAt(errors.E1003, line, cmd, "unknown command %q", cmd.Literal)
		if unsupportedCommands[cmd.Literal] {
			return nil, err.WithNote("control flow and function commands are not supported")
		}
		return nil, err.WithSuggestions(cmd.Literal, op.Names())
	}
	if len(line.Tokens) > 1 {
		return nil, p.errorAt(errors.E1003, line, line.Tokens[1],
			"unexpected %q after %q", line.Tokens[1].Literal, cmd.Literal).
			WithNote(cmd.Literal + " takes no operands")
	}
	return &ast.Arithmetic{Token: cmd.StartPosition, Op: code}, nil
}

func (p *Parser) location(line lexer.Line, column int) errors.SourceLocation {
	return errors.SourceLocation{
		Filename: p.filename,
		Line:     line.Number,
		Column:   column,
		Source:   line.Raw,
	}
}

// errorAt reports an error underlining the given token.
func (p *Parser) errorAt(code errors.ErrorCode, line lexer.Line, tok token.Token, format string, args ...any) *errors.TranslateError {
	col := tok.StartPosition.ColumnNumber()
	return errors.New(code, p.location(line, col), format, args...).
		WithEndColumn(col + len(tok.Literal) - 1)
}

// errorAfter reports an error pointing just past the given token, where a
// missing operand was expected.
func (p *Parser) errorAfter(code errors.ErrorCode, line lexer.Line, tok token.Token, format string, args ...any) *errors.TranslateError {
	col := tok.EndPosition.ColumnNumber() + 1
	return errors.New(code, p.location(line, col), format, args...)
}
