package vm

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/hack"
)

func assemble(t *testing.T, lines ...string) *hack.Program {
	t.Helper()
	program, err := hack.Assemble(lines)
	require.Nil(t, err)
	return program
}

func TestAdd(t *testing.T) {
	program := assemble(t,
		"@2", "D=A", "@3", "D=D+A", "@0", "M=D",
	)
	m := New(program)
	require.Nil(t, m.Run(context.Background()))
	require.True(t, m.Halted())
	require.Equal(t, int16(5), m.Peek(0))
	require.Equal(t, 6, m.Steps())
}

func TestDefaultRegisters(t *testing.T) {
	m := New(assemble(t))
	require.Equal(t, 256, m.SP())
	require.Equal(t, int16(300), m.Peek(1))
	require.Equal(t, int16(400), m.Peek(2))
	require.Equal(t, int16(3000), m.Peek(3))
	require.Equal(t, int16(3010), m.Peek(4))
	require.Equal(t, []int16{}, m.Stack())
}

func TestHaltLoop(t *testing.T) {
	program := assemble(t,
		"@7", "D=A", "@R1", "M=D",
		"(HALT)", "@HALT", "0;JMP",
	)
	m := New(program)
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, int16(7), m.Peek(1))
	require.Equal(t, 4, m.PC())
	require.Equal(t, 6, m.Steps())
}

func TestLoopIsNotHalt(t *testing.T) {
	// Counts R0 down to zero; the backward jump targets a label, not itself.
	program := assemble(t,
		"@5", "D=A", "@R0", "M=D",
		"(LOOP)",
		"@R0", "MD=M-1",
		"@LOOP", "D;JGT",
		"(END)", "@END", "0;JMP",
	)
	m := New(program)
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, int16(0), m.Peek(0))
}

func TestALU(t *testing.T) {
	tests := []struct {
		comp     string
		expected int16
	}{
		{"0", 0},
		{"1", 1},
		{"-1", -1},
		{"D", 12},
		{"A", 5},
		{"!D", ^int16(12)},
		{"-D", -12},
		{"D+1", 13},
		{"A-1", 4},
		{"D+A", 17},
		{"D-A", 7},
		{"A-D", -7},
		{"D&A", 4},
		{"D|A", 13},
	}
	for _, tt := range tests {
		t.Run(tt.comp, func(t *testing.T) {
			program := assemble(t, "@12", "D=A", "@5", "D="+tt.comp)
			m := New(program)
			require.Nil(t, m.Run(context.Background()))
			require.Equal(t, tt.expected, m.D())
		})
	}
}

func TestMemoryComp(t *testing.T) {
	program := assemble(t, "@9", "D=A", "@100", "M=D", "M=M+1", "D=M-D")
	m := New(program)
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, int16(10), m.Peek(100))
	require.Equal(t, int16(1), m.D())
}

func TestJumps(t *testing.T) {
	tests := []struct {
		value int
		jump  string
		taken bool
	}{
		{0, "JEQ", true},
		{1, "JEQ", false},
		{1, "JGT", true},
		{0, "JGT", false},
		{0, "JGE", true},
		{1, "JNE", true},
		{0, "JNE", false},
		{0, "JLE", true},
	}
	for _, tt := range tests {
		t.Run(tt.jump, func(t *testing.T) {
			// R0 = 1 when the jump is taken, 2 otherwise.
			program := assemble(t,
				"@"+strconv.Itoa(tt.value), "D=A",
				"@TAKEN", "D;"+tt.jump,
				"@2", "D=A", "@R0", "M=D", "@END", "0;JMP",
				"(TAKEN)", "@R0", "M=1",
				"(END)", "@END", "0;JMP",
			)
			m := New(program)
			require.Nil(t, m.Run(context.Background()))
			if tt.taken {
				require.Equal(t, int16(1), m.Peek(0))
			} else {
				require.Equal(t, int16(2), m.Peek(0))
			}
		})
	}
}

func TestNegativeJumps(t *testing.T) {
	program := assemble(t,
		"D=-1", "@NEG", "D;JLT", "@R0", "M=0", "@END", "0;JMP",
		"(NEG)", "@R0", "M=-1",
		"(END)", "@END", "0;JMP",
	)
	m := New(program)
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, int16(-1), m.Peek(0))
}

func TestStepLimit(t *testing.T) {
	program := assemble(t, "(LOOP)", "@LOOP", "D=D+1", "0;JMP")
	m := New(program, WithMaxSteps(100))
	err := m.Run(context.Background())
	require.Error(t, err)
	require.True(t, stderrors.Is(err, ErrStepLimit))
	require.True(t, stderrors.Is(err, errors.RuntimeFailure))
	require.Equal(t, 100, m.Steps())
}

func TestContextCancelled(t *testing.T) {
	program := assemble(t, "(LOOP)", "@LOOP", "D=D+1", "0;JMP")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(program, WithContextCheckInterval(10))
	err := m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestJumpOutsideROM(t *testing.T) {
	program := assemble(t, "@1000", "0;JMP")
	m := New(program)
	err := m.Run(context.Background())
	require.Error(t, err)
	var terr *errors.TranslateError
	require.True(t, stderrors.As(err, &terr))
	require.Equal(t, errors.E5002, terr.Code)
}

func TestWithRAMAndStackBase(t *testing.T) {
	program := assemble(t, "@SP", "A=M-1", "M=-M")
	m := New(program,
		WithStackBase(500),
		WithRAM(500, 4),
		WithRAM(501, 9),
		WithRAM(0, 502),
	)
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, []int16{4, -9}, m.Stack())

	m.Reset()
	require.Equal(t, []int16{4, 9}, m.Stack())
	require.Equal(t, 0, m.Steps())
}

func TestObserver(t *testing.T) {
	program := assemble(t, "@1", "@2", "@3", "@4")
	var seen []int
	m := New(program, WithObserver(ObserverFunc(func(ev StepEvent) bool {
		seen = append(seen, ev.PC)
		return ev.PC < 2
	})))
	require.Nil(t, m.Run(context.Background()))
	require.Equal(t, []int{0, 1, 2}, seen)
	require.Equal(t, int16(2), m.A())
}

func TestPoke(t *testing.T) {
	m := New(assemble(t))
	m.Poke(RAMSize+7, 3)
	require.Equal(t, int16(3), m.Peek(7))
}
