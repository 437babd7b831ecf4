// Package vm provides an emulator for the Hack machine. It executes
// assembled programs so translated VM code can be checked by running it.
package vm

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/hack"
)

const (
	// RAMSize is the number of addressable data words (15-bit address bus).
	RAMSize = 32768

	// StackBase is the address of the first stack cell.
	StackBase = 256

	// DefaultMaxSteps bounds execution of programs that never halt.
	DefaultMaxSteps = 10_000_000

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// Default initial values of the pointer cells.
var defaultRegisters = map[int]int16{
	0: StackBase, // SP
	1: 300,       // LCL
	2: 400,       // ARG
	3: 3000,      // THIS
	4: 3010,      // THAT
}

// ErrStepLimit is returned by Run when the step limit is reached before the
// program halts.
var ErrStepLimit = stderrors.New("step limit exceeded")

// Machine is a Hack CPU with its ROM and RAM. It is not safe for concurrent
// use.
type Machine struct {
	rom     []uint16
	ram     [RAMSize]int16
	a       int16
	d       int16
	pc      int
	steps   int
	halted  bool
	initial map[int]int16
	base    int

	maxSteps             int
	contextCheckInterval int
	observer             Observer
}

// New creates a Machine loaded with the given program and reset to its
// initial state.
func New(program *hack.Program, options ...Option) *Machine {
	m := &Machine{
		rom:                  program.Words,
		initial:              map[int]int16{},
		base:                 StackBase,
		maxSteps:             DefaultMaxSteps,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for addr, value := range defaultRegisters {
		m.initial[addr] = value
	}
	for _, opt := range options {
		opt(m)
	}
	m.Reset()
	return m
}

// Reset clears registers and RAM, then applies the initial RAM values.
func (m *Machine) Reset() {
	m.ram = [RAMSize]int16{}
	m.a, m.d, m.pc, m.steps = 0, 0, 0, 0
	m.halted = false
	for addr, value := range m.initial {
		m.ram[addr] = value
	}
}

// Run executes until the program halts, the step limit is reached or ctx is
// cancelled. A program halts when it enters the self-jump loop emitted at
// the end of every translation, or when it runs past the end of ROM.
func (m *Machine) Run(ctx context.Context) error {
	for !m.halted {
		if m.steps >= m.maxSteps {
			return errors.Wrap(errors.E5001, errors.SourceLocation{}, ErrStepLimit)
		}
		if m.contextCheckInterval > 0 && m.steps%m.contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}
	if m.pc == len(m.rom) {
		m.halted = true
		return nil
	}
	if m.pc < 0 || m.pc > len(m.rom) {
		return errors.New(errors.E5002, errors.SourceLocation{},
			"program counter %d outside ROM (size %d)", m.pc, len(m.rom))
	}
	pc := m.pc
	word := m.rom[pc]
	if m.observer != nil && !m.observer.OnStep(StepEvent{PC: pc, Word: word, A: m.a, D: m.d, Step: m.steps}) {
		m.halted = true
		return nil
	}
	m.steps++

	if word&0x8000 == 0 {
		m.a = int16(word)
		m.pc++
		return nil
	}

	addr := int(uint16(m.a)) & (RAMSize - 1)
	y := m.a
	if word&0x1000 != 0 {
		y = m.ram[addr]
	}
	out := alu(m.d, y, (word>>6)&0x3f)

	dest := (word >> 3) & 0x7
	if dest&hack.DestM != 0 {
		m.ram[addr] = out
	}
	target := int(uint16(m.a))
	if dest&hack.DestA != 0 {
		m.a = out
	}
	if dest&hack.DestD != 0 {
		m.d = out
	}

	if jumps(word&0x7, out) {
		if word&0x7 == 0x7 && target == pc-1 && pc > 0 && m.rom[pc-1] == uint16(pc-1) {
			// @self followed by an unconditional jump: the halt loop.
			m.halted = true
		}
		m.pc = target
		return nil
	}
	m.pc++
	return nil
}

// alu computes the Hack ALU function selected by the six control bits
// zx nx zy ny f no.
func alu(x, y int16, ctrl uint16) int16 {
	if ctrl&0x20 != 0 {
		x = 0
	}
	if ctrl&0x10 != 0 {
		x = ^x
	}
	if ctrl&0x08 != 0 {
		y = 0
	}
	if ctrl&0x04 != 0 {
		y = ^y
	}
	var out int16
	if ctrl&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if ctrl&0x01 != 0 {
		out = ^out
	}
	return out
}

func jumps(bits uint16, out int16) bool {
	switch {
	case out < 0:
		return bits&0x4 != 0
	case out == 0:
		return bits&0x2 != 0
	default:
		return bits&0x1 != 0
	}
}

// Halted reports whether the machine has stopped.
func (m *Machine) Halted() bool {
	return m.halted
}

// Steps returns the number of instructions executed since the last reset.
func (m *Machine) Steps() int {
	return m.steps
}

// PC returns the program counter.
func (m *Machine) PC() int {
	return m.pc
}

// A returns the address register.
func (m *Machine) A() int16 {
	return m.a
}

// D returns the data register.
func (m *Machine) D() int16 {
	return m.d
}

// Peek returns the RAM word at addr.
func (m *Machine) Peek(addr int) int16 {
	return m.ram[addr&(RAMSize-1)]
}

// Poke sets the RAM word at addr.
func (m *Machine) Poke(addr int, value int16) {
	m.ram[addr&(RAMSize-1)] = value
}

// SP returns the stack pointer, RAM[0].
func (m *Machine) SP() int {
	return int(m.ram[0])
}

// Stack returns a copy of the stack cells from the stack base up to SP.
func (m *Machine) Stack() []int16 {
	sp := m.SP()
	if sp <= m.base || sp > RAMSize {
		return []int16{}
	}
	out := make([]int16, sp-m.base)
	copy(out, m.ram[m.base:sp])
	return out
}
