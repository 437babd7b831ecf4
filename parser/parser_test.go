package parser

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/hackvm/ast"
	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/internal/lexer"
	"github.com/deepnoodle-ai/hackvm/op"
)

func TestPushPop(t *testing.T) {
	tests := []struct {
		input   string
		push    bool
		segment op.Segment
		index   int
	}{
		{"push constant 7", true, op.Constant, 7},
		{"push local 0", true, op.Local, 0},
		{"push argument 2", true, op.Argument, 2},
		{"push this 6", true, op.This, 6},
		{"push that 5", true, op.That, 5},
		{"push static 3", true, op.Static, 3},
		{"push temp 7", true, op.Temp, 7},
		{"push pointer 1", true, op.Pointer, 1},
		{"pop local 1", false, op.Local, 1},
		{"pop temp 6", false, op.Temp, 6},
		{"pop constant 0", false, op.Constant, 0},
		{"  pop   that\t12  // comment", false, op.That, 12},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program, err := ParseString(context.Background(), tt.input)
			require.Nil(t, err)
			require.Len(t, program.Instructions, 1)
			switch instr := program.Instructions[0].(type) {
			case *ast.Push:
				require.True(t, tt.push)
				require.Equal(t, tt.segment, instr.Segment)
				require.Equal(t, tt.index, instr.Index)
			case *ast.Pop:
				require.False(t, tt.push)
				require.Equal(t, tt.segment, instr.Segment)
				require.Equal(t, tt.index, instr.Index)
			default:
				t.Fatalf("unexpected instruction type %T", instr)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	for _, name := range op.Names() {
		t.Run(name, func(t *testing.T) {
			program, err := ParseString(context.Background(), name+"\n")
			require.Nil(t, err)
			require.Len(t, program.Instructions, 1)
			instr, ok := program.Instructions[0].(*ast.Arithmetic)
			require.True(t, ok)
			require.Equal(t, name, instr.Op.String())
		})
	}
}

func TestProgram(t *testing.T) {
	input := `// Computes 5 - 3 == 2
push constant 5
push constant 3
sub

push constant 2 // expected
eq
`
	program, err := ParseString(context.Background(), input, WithFilename("SubEq.vm"))
	require.Nil(t, err)
	require.Equal(t, "SubEq.vm", program.Filename)
	require.Equal(t, "push constant 5\npush constant 3\nsub\npush constant 2\neq\n", program.String())

	last := program.Instructions[4]
	require.Equal(t, 7, last.Pos().LineNumber())
	require.Equal(t, "SubEq.vm", last.Pos().File)
}

func TestHasMoreAndNext(t *testing.T) {
	p := New(lexer.New(strings.NewReader("push constant 1\n\n// done\nneg\n")))
	require.True(t, p.HasMore())
	require.True(t, p.HasMore())

	instr, err := p.Next()
	require.Nil(t, err)
	require.Equal(t, "push constant 1", instr.String())

	require.True(t, p.HasMore())
	instr, err = p.Next()
	require.Nil(t, err)
	require.Equal(t, "neg", instr.String())

	require.False(t, p.HasMore())
	require.False(t, p.HasMore())
	_, err = p.Next()
	require.Equal(t, io.EOF, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  errors.Kind
		code  errors.ErrorCode
		msg   string
	}{
		{"push", errors.MalformedOperand, errors.E1001, `parse error: expected a segment after "push" (t.vm:1:6)`},
		{"push local", errors.MalformedOperand, errors.E1001, `parse error: expected an index after "push local" (t.vm:1:12)`},
		{"pop local x", errors.MalformedOperand, errors.E1001, `parse error: invalid index "x": expected a non-negative integer (t.vm:1:11)`},
		{"push constant -1", errors.MalformedOperand, errors.E1001, `parse error: invalid index "-1": expected a non-negative integer (t.vm:1:15)`},
		{"push constant 99999999999999999999999", errors.MalformedOperand, errors.E1001, `parse error: invalid index "99999999999999999999999": value out of range (t.vm:1:15)`},
		{"push constant 1 2", errors.MalformedOperand, errors.E1001, `parse error: unexpected "2" after index (t.vm:1:17)`},
		{"push lcoal 0", errors.UnknownSegment, errors.E1002, `parse error: unknown segment "lcoal" (t.vm:1:6)`},
		{"pop Local 0", errors.UnknownSegment, errors.E1002, `parse error: unknown segment "Local" (t.vm:1:5)`},
		{"ad", errors.UnknownCommand, errors.E1003, `parse error: unknown command "ad" (t.vm:1:1)`},
		{"label LOOP", errors.UnknownCommand, errors.E1003, `parse error: unknown command "label" (t.vm:1:1)`},
		{"call Main.main 0", errors.UnknownCommand, errors.E1003, `parse error: unknown command "call" (t.vm:1:1)`},
		{"add 1", errors.UnknownCommand, errors.E1003, `parse error: unexpected "1" after "add" (t.vm:1:5)`},
		{"7", errors.UnknownCommand, errors.E1003, `parse error: unknown command "7" (t.vm:1:1)`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseString(context.Background(), tt.input, WithFilename("t.vm"))
			require.NotNil(t, err)
			require.True(t, stderrors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
			var te *errors.TranslateError
			require.True(t, stderrors.As(err, &te))
			require.Equal(t, tt.code, te.Code)
			require.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestErrorStopsAtFirstFailure(t *testing.T) {
	input := "push constant 1\nbogus\npush nowhere 3\n"
	_, err := ParseString(context.Background(), input)
	require.True(t, stderrors.Is(err, errors.UnknownCommand))
}

func TestErrorSuggestions(t *testing.T) {
	_, err := ParseString(context.Background(), "push constant 1\npush lcoal 0\n", WithFilename("t.vm"))
	var te *errors.TranslateError
	require.True(t, stderrors.As(err, &te))
	require.Equal(t, "push lcoal 0", te.Location.Source)
	require.Equal(t, 2, te.Location.Line)
	require.Equal(t, 10, te.EndColumn)
	require.Contains(t, te.FriendlyErrorMessage(), "Did you mean 'local'?")

	_, err = ParseString(context.Background(), "nott\n")
	require.True(t, stderrors.As(err, &te))
	require.Contains(t, te.FriendlyErrorMessage(), "'not'")

	_, err = ParseString(context.Background(), "goto END\n")
	require.True(t, stderrors.As(err, &te))
	require.Contains(t, te.FriendlyErrorMessage(), "note: control flow and function commands are not supported")
}

func TestCheckCollectsAllErrors(t *testing.T) {
	input := "push constant 1\nbogus\npush nowhere 3\npop local\nadd\n"
	err := Check(context.Background(), strings.NewReader(input), WithFilename("t.vm"))
	require.NotNil(t, err)

	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 3)
	require.True(t, stderrors.Is(merr.Errors[0], errors.UnknownCommand))
	require.True(t, stderrors.Is(merr.Errors[1], errors.UnknownSegment))
	require.True(t, stderrors.Is(merr.Errors[2], errors.MalformedOperand))
}

func TestCheckValid(t *testing.T) {
	err := Check(context.Background(), strings.NewReader("push constant 1\nneg\n"))
	require.Nil(t, err)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseString(ctx, "push constant 1\n")
	require.True(t, stderrors.Is(err, context.Canceled))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestReadFailure(t *testing.T) {
	r := io.MultiReader(strings.NewReader("add\n"), failingReader{})
	_, err := Parse(context.Background(), r)
	require.True(t, stderrors.Is(err, errors.IOFailure))

	r = io.MultiReader(strings.NewReader("bogus\n"), failingReader{})
	err = Check(context.Background(), r)
	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 2)
	require.True(t, stderrors.Is(merr.Errors[1], errors.IOFailure))
}
