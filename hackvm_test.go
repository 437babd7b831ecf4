package hackvm

import (
	"bytes"
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/vm"
)

func TestBasicUsage(t *testing.T) {
	result, err := Eval(context.Background(), "push constant 2\npush constant 3\nadd")
	require.Nil(t, err)
	require.Equal(t, []int16{5}, result.Stack)
	require.Equal(t, 257, result.SP)
}

func TestTranslate(t *testing.T) {
	out, err := TranslateString(context.Background(), "push constant 7\npush constant 8\nadd\n")
	require.Nil(t, err)
	expected := `
@7
D=A
@SP
A=M
M=D
@SP
M=M+1
@8
D=A
@SP
A=M
M=D
@SP
M=M+1
@SP
M=M-1
A=M
D=M
A=A-1
M=D+M
(HALT)
@HALT
0;JMP
`
	require.Equal(t, strings.TrimPrefix(expected, "\n"), out)
}

func TestTranslateEmpty(t *testing.T) {
	out, err := TranslateString(context.Background(), "// nothing here\n\n   \n")
	require.Nil(t, err)
	require.Equal(t, "(HALT)\n@HALT\n0;JMP\n", out)
}

func TestTranslateMatchesCompile(t *testing.T) {
	source := "push constant 1\npush constant 2\nlt\npush constant 3\ngt\nnot\npop temp 0"
	out, err := TranslateString(context.Background(), source, WithComments(true))
	require.Nil(t, err)
	program, err := Compile(context.Background(), source, WithComments(true))
	require.Nil(t, err)
	require.Equal(t, program.Assembly(), out)
}

func TestPushConstantExecution(t *testing.T) {
	result, err := Eval(context.Background(), "push constant 7")
	require.Nil(t, err)
	require.Equal(t, 257, result.SP)
	require.Equal(t, []int16{7}, result.Stack)
}

func TestPushPopIsNoOp(t *testing.T) {
	segments := map[string][]int{
		"local":    {0, 3},
		"argument": {0, 2},
		"this":     {0, 5},
		"that":     {1, 7},
		"temp":     {0, 7},
		"pointer":  {0, 1},
		"static":   {0, 239},
	}
	for seg, indexes := range segments {
		for _, i := range indexes {
			name := seg + " " + strconv.Itoa(i)
			t.Run(name, func(t *testing.T) {
				// Seed the cell, then push and pop it back.
				source := "push constant 1234\npop " + name +
					"\npush constant 99\npush " + name + "\npop " + name + "\npush " + name
				result, err := Eval(context.Background(), source)
				require.Nil(t, err)
				require.Equal(t, []int16{99, 1234}, result.Stack)
			})
		}
	}
}

func TestAdd(t *testing.T) {
	pairs := [][2]int{{0, 0}, {1, 2}, {100, 250}, {32767, 0}, {16384, 16383}, {12345, 6789}}
	for _, pair := range pairs {
		source := "push constant " + strconv.Itoa(pair[0]) +
			"\npush constant " + strconv.Itoa(pair[1]) + "\nadd"
		result, err := Eval(context.Background(), source)
		require.Nil(t, err, source)
		require.Equal(t, []int16{int16(pair[0] + pair[1])}, result.Stack, source)
	}
}

func TestEq(t *testing.T) {
	result, err := Eval(context.Background(), "push constant 17\npush constant 17\neq")
	require.Nil(t, err)
	require.Equal(t, []int16{-1}, result.Stack)

	result, err = Eval(context.Background(), "push constant 17\npush constant 16\neq")
	require.Nil(t, err)
	require.Equal(t, []int16{0}, result.Stack)
}

func TestManyComparisons(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("push constant " + strconv.Itoa(i) + "\npush constant 25\n")
		switch i % 3 {
		case 0:
			b.WriteString("eq\n")
		case 1:
			b.WriteString("lt\n")
		default:
			b.WriteString("gt\n")
		}
	}
	program, err := Compile(context.Background(), b.String())
	require.Nil(t, err)
	require.Equal(t, 50, program.Code().LabelCount())

	result, err := Run(context.Background(), program)
	require.Nil(t, err)
	require.Len(t, result.Stack, 50)
	for i, v := range result.Stack {
		var want bool
		switch i % 3 {
		case 0:
			want = i == 25
		case 1:
			want = i < 25
		default:
			want = i > 25
		}
		if want {
			require.Equal(t, int16(-1), v, "comparison %d", i)
		} else {
			require.Equal(t, int16(0), v, "comparison %d", i)
		}
	}
}

func TestSubEqScenario(t *testing.T) {
	result, err := Eval(context.Background(),
		"push constant 5\npush constant 3\nsub\npush constant 2\neq")
	require.Nil(t, err)
	require.Equal(t, []int16{-1}, result.Stack)
}

func TestPopConstant(t *testing.T) {
	var buf bytes.Buffer
	err := Translate(context.Background(), strings.NewReader("pop constant 0"), &buf)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.InvalidOperation))
	require.Empty(t, buf.String())
}

func TestTranslateStopsAtFirstError(t *testing.T) {
	_, err := TranslateString(context.Background(),
		"push constant 1\npush segment 1\npop constant 0", WithFilename("Bad.vm"))
	require.Error(t, err)
	require.True(t, stderrors.Is(err, errors.UnknownSegment))
	var terr *errors.TranslateError
	require.True(t, stderrors.As(err, &terr))
	require.Equal(t, "Bad.vm", terr.Location.Filename)
	require.Equal(t, 2, terr.Location.Line)
}

func TestUnsupportedCommands(t *testing.T) {
	for _, cmd := range []string{"label LOOP", "goto LOOP", "if-goto LOOP", "function f 0", "call f 0", "return"} {
		_, err := TranslateString(context.Background(), cmd)
		require.True(t, stderrors.Is(err, errors.UnknownCommand), cmd)
	}
}

func TestCheck(t *testing.T) {
	err := Check(context.Background(), strings.NewReader(`
push constant 1
push lcl 0
pop constant 2
nope
push temp 9
add
`))
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 4)
	require.True(t, stderrors.Is(merr.Errors[0], errors.UnknownSegment))
	require.True(t, stderrors.Is(merr.Errors[1], errors.InvalidOperation))
	require.True(t, stderrors.Is(merr.Errors[2], errors.UnknownCommand))
	require.True(t, stderrors.Is(merr.Errors[3], errors.InvalidOperation))

	require.Nil(t, Check(context.Background(), strings.NewReader("push constant 1")))
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Format(context.Background(), strings.NewReader(`
// header
   push   constant 7 // seven
	pop local 0

neg
`), &buf)
	require.Nil(t, err)
	require.Equal(t, "push constant 7\npop local 0\nneg\n", buf.String())
}

func TestStepLimit(t *testing.T) {
	_, err := Eval(context.Background(), "push constant 1\npush constant 2\nadd", WithMaxSteps(5))
	require.ErrorIs(t, err, vm.ErrStepLimit)
}

func TestWithRAM(t *testing.T) {
	result, err := Eval(context.Background(), "push local 0\npush argument 1\nadd",
		WithRAM(300, 40), WithRAM(401, 2))
	require.Nil(t, err)
	require.Equal(t, []int16{42}, result.Stack)
}

func TestWithObserver(t *testing.T) {
	steps := 0
	observer := vm.ObserverFunc(func(vm.StepEvent) bool {
		steps++
		return true
	})
	result, err := Eval(context.Background(), "push constant 1", WithObserver(observer))
	require.Nil(t, err)
	require.Equal(t, result.Steps, steps)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	_, err := TranslateString(context.Background(), "push constant 1\nlt",
		WithLogger(logger), WithFilename("Log.vm"))
	require.Nil(t, err)
	require.Contains(t, buf.String(), `"message":"translated"`)
	require.Contains(t, buf.String(), `"instructions":2`)
	require.Contains(t, buf.String(), `"filename":"Log.vm"`)
}

func TestProgram(t *testing.T) {
	program, err := Compile(context.Background(), "push constant 3\nneg", WithFilename("Neg.vm"))
	require.Nil(t, err)
	require.Equal(t, "Neg.vm", program.Filename())
	require.Equal(t, "push constant 3\nneg", program.Source())
	require.Len(t, program.Listing(), 2)
	require.Len(t, program.Binary().Words, 7+3+2)
}

func TestConcurrentRuns(t *testing.T) {
	program, err := Compile(context.Background(), "push constant 9\npush constant 4\ngt")
	require.Nil(t, err)
	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Run(context.Background(), program)
		}()
	}
	wg.Wait()
	for _, r := range results {
		require.NotNil(t, r)
		require.Equal(t, []int16{-1}, r.Stack)
	}
}

func TestIndependentTranslations(t *testing.T) {
	a, err := TranslateString(context.Background(), "push constant 1\npush constant 1\neq")
	require.Nil(t, err)
	b, err := TranslateString(context.Background(), "push constant 1\npush constant 1\neq")
	require.Nil(t, err)
	require.Equal(t, a, b)
	require.Contains(t, a, "(EQ0)")
}
