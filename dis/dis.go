// Package dis produces a listing of translated code, pairing each VM
// instruction with the assembly emitted for it and its ROM addresses.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/hackvm/compiler"
	"github.com/deepnoodle-ai/hackvm/internal/table"
)

// Entry describes the code emitted for one VM instruction.
type Entry struct {
	Line        int      `json:"line"`
	Instruction string   `json:"instruction"`
	Offset      int      `json:"offset"`
	Size        int      `json:"size"`
	Assembly    []string `json:"assembly"`
}

// Disassemble returns one entry per VM instruction of the code. Offset is the
// ROM address of the first word emitted for the instruction and Size the
// number of words; labels and comments occupy no ROM.
func Disassemble(code *compiler.Code) []Entry {
	lines := code.Lines()
	addresses := make([]int, len(lines)+1)
	rom := 0
	for i, line := range lines {
		addresses[i] = rom
		if occupiesROM(line) {
			rom++
		}
	}
	addresses[len(lines)] = rom

	entries := make([]Entry, 0, len(code.Spans()))
	for _, span := range code.Spans() {
		var asm []string
		for _, line := range lines[span.Start:span.End] {
			if !isComment(line) {
				asm = append(asm, line)
			}
		}
		entries = append(entries, Entry{
			Line:        span.Instruction.Pos().LineNumber(),
			Instruction: span.Instruction.String(),
			Offset:      addresses[span.Start],
			Size:        addresses[span.End] - addresses[span.Start],
			Assembly:    asm,
		})
	}
	return entries
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "//")
}

func occupiesROM(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !isComment(line) && !strings.HasPrefix(line, "(")
}

var (
	bold    = color.New(color.Bold)
	cyan    = color.New(color.FgHiCyan)
	yellow  = color.New(color.FgYellow)
	magenta = color.New(color.FgMagenta)
)

// Print writes the entries as a table, one row per assembly line.
func Print(entries []Entry, writer io.Writer) error {
	var rows [][]string
	for _, entry := range entries {
		addr := entry.Offset
		for i, line := range entry.Assembly {
			var row []string
			if i == 0 {
				row = append(row, fmt.Sprintf("%d", entry.Line), bold.Sprint(entry.Instruction))
			} else {
				row = append(row, "", "")
			}
			if strings.HasPrefix(line, "(") {
				row = append(row, "", magenta.Sprint(line))
			} else {
				row = append(row, fmt.Sprintf("%d", addr), formatAssembly(line))
				addr++
			}
			rows = append(rows, row)
		}
	}

	return table.NewTable(writer).
		WithHeader([]string{"LINE", "VM", "ROM", "ASM"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(rows).
		Render()
}

func formatAssembly(line string) string {
	if strings.HasPrefix(line, "@") {
		return yellow.Sprint(line)
	}
	return cyan.Sprint(line)
}
