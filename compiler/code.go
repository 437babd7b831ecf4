package compiler

import (
	"bufio"
	"io"
	"strings"

	"github.com/deepnoodle-ai/hackvm/ast"
)

// Span records the output lines produced for one VM instruction, as the
// half-open range [Start, End) of line indexes.
type Span struct {
	Instruction ast.Instruction
	Start       int
	End         int
}

// Code is the translated output of a program.
type Code struct {
	filename string
	lines    []string
	spans    []Span
	labels   int
}

// Filename returns the name of the source the code was translated from.
func (c *Code) Filename() string {
	return c.filename
}

// Lines returns the emitted assembly, one operation per entry.
func (c *Code) Lines() []string {
	return c.lines
}

// LineCount returns the number of emitted lines.
func (c *Code) LineCount() int {
	return len(c.lines)
}

// Spans returns the source map from instructions to emitted lines.
func (c *Code) Spans() []Span {
	return c.spans
}

// LabelCount returns the label counter value after translation.
func (c *Code) LabelCount() int {
	return c.labels
}

// String returns the assembly text with a trailing newline.
func (c *Code) String() string {
	var b strings.Builder
	for _, line := range c.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTo writes the assembly text to w.
func (c *Code) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range c.lines {
		written, err := bw.WriteString(line)
		n += int64(written)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

func (c *Code) append(instr ast.Instruction, lines []string) {
	start := len(c.lines)
	c.lines = append(c.lines, lines...)
	if instr != nil {
		c.spans = append(c.spans, Span{Instruction: instr, Start: start, End: len(c.lines)})
	}
}
