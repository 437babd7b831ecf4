// Package errors defines the error taxonomy shared by the translator, the
// assembler and the emulator. Every error carries an ErrorCode and unwraps to
// one of the Kind sentinels, so callers can match with the standard library's
// errors.Is.
package errors

import (
	"fmt"
	"strings"
)

// Kind identifies a class of failure. Kinds are comparable sentinel errors.
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	MalformedOperand Kind = "malformed operand"
	UnknownSegment   Kind = "unknown segment"
	UnknownCommand   Kind = "unknown command"
	InvalidOperation Kind = "invalid operation"
	IOFailure        Kind = "i/o failure"
	AssemblyFailure  Kind = "assembly failure"
	RuntimeFailure   Kind = "runtime failure"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// TranslateError is a located error raised while reading, translating,
// assembling or executing a program.
type TranslateError struct {
	Code        ErrorCode
	Message     string
	Location    SourceLocation
	EndColumn   int
	Suggestions []Suggestion
	Note        string
	Err         error
}

// New returns a TranslateError with the given code and message.
func New(code ErrorCode, loc SourceLocation, format string, args ...any) *TranslateError {
	return &TranslateError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// Wrap returns a TranslateError that carries the given cause.
func Wrap(code ErrorCode, loc SourceLocation, err error) *TranslateError {
	return &TranslateError{
		Code:     code,
		Message:  err.Error(),
		Location: loc,
		Err:      err,
	}
}

// Error implements the error interface.
func (e *TranslateError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.Category())
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	if !e.Location.IsZero() {
		b.WriteString(" (")
		b.WriteString(e.Location.String())
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns both the error kind and any wrapped cause.
func (e *TranslateError) Unwrap() []error {
	errs := []error{}
	if kind := e.Code.Kind(); kind != "" {
		errs = append(errs, kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// WithSuggestions attaches "did you mean" candidates for the given word.
func (e *TranslateError) WithSuggestions(word string, candidates []string) *TranslateError {
	e.Suggestions = SuggestSimilar(word, candidates)
	return e
}

// WithNote attaches additional context shown under the error.
func (e *TranslateError) WithNote(note string) *TranslateError {
	e.Note = note
	return e
}

// WithEndColumn sets the last column (1-based) to underline.
func (e *TranslateError) WithEndColumn(col int) *TranslateError {
	e.EndColumn = col
	return e
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *TranslateError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *TranslateError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      e.Code.Category() + " error",
		Message:   e.Message,
		Filename:  e.Location.Filename,
		Line:      e.Location.Line,
		Column:    e.Location.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.Location.Source != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Location.Line, Text: e.Location.Source, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}
