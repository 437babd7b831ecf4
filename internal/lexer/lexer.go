// Package lexer is the preprocessing pass for VM source. It lazily pulls lines
// from a reader, strips "//" comments and blank lines, and splits what remains
// into tokens with source positions.
package lexer

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/deepnoodle-ai/hackvm/errors"
	"github.com/deepnoodle-ai/hackvm/internal/token"
)

// MaxLineLength is the longest source line the lexer accepts.
const MaxLineLength = 1024 * 1024

const commentPrefix = "//"

// Line is one cleaned, non-blank source line.
type Line struct {
	Number int    // 1-based line number in the original input
	Raw    string // the line as read, including any comment
	Text   string // the line with comment and surrounding whitespace removed
	Tokens []token.Token
}

// Words returns the literal text of each token.
func (l Line) Words() []string {
	words := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		words[i] = tok.Literal
	}
	return words
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFilename sets the filename recorded in token positions.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.filename = filename
	}
}

// Lexer produces cleaned lines on demand. It is single-pass and not safe for
// concurrent use.
type Lexer struct {
	scanner  *bufio.Scanner
	filename string
	lineNum  int // number of raw lines consumed
	offset   int // byte offset of the next raw line
	peeked   *Line
	peekErr  error
}

// New returns a Lexer reading from r.
func New(r io.Reader, options ...Option) *Lexer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	l := &Lexer{scanner: scanner}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the configured filename.
func (l *Lexer) Filename() string {
	return l.filename
}

// Next returns the next non-blank line, or io.EOF when the input is exhausted.
func (l *Lexer) Next() (Line, error) {
	if l.peeked != nil || l.peekErr != nil {
		line, err := l.peeked, l.peekErr
		l.peeked, l.peekErr = nil, nil
		if err != nil {
			return Line{}, err
		}
		return *line, nil
	}
	return l.scan()
}

// Peek returns the next non-blank line without consuming it. Repeated calls
// return the same result until Next is called.
func (l *Lexer) Peek() (Line, error) {
	if l.peeked == nil && l.peekErr == nil {
		line, err := l.scan()
		if err != nil {
			l.peekErr = err
		} else {
			l.peeked = &line
		}
	}
	if l.peekErr != nil {
		return Line{}, l.peekErr
	}
	return *l.peeked, nil
}

// All returns an iterator over the remaining lines. Iteration stops after
// the first error, which is yielded; io.EOF is not.
func (l *Lexer) All() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for {
			line, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

func (l *Lexer) scan() (Line, error) {
	for l.scanner.Scan() {
		raw := l.scanner.Text()
		lineStart := l.offset
		l.offset += len(raw) + 1
		l.lineNum++
		if l.lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		tokens := l.tokenize(raw, lineStart)
		if len(tokens) == 0 {
			continue
		}
		return Line{
			Number: l.lineNum,
			Raw:    raw,
			Text:   strings.TrimSpace(StripComment(raw)),
			Tokens: tokens,
		}, nil
	}
	if err := l.scanner.Err(); err != nil {
		return Line{}, errors.Wrap(errors.E3001, errors.SourceLocation{
			Filename: l.filename,
			Line:     l.lineNum + 1,
		}, err)
	}
	return Line{}, io.EOF
}

func (l *Lexer) tokenize(raw string, lineStart int) []token.Token {
	code := StripComment(raw)
	var tokens []token.Token
	i := 0
	for i < len(code) {
		if isSpace(code[i]) {
			i++
			continue
		}
		start := i
		for i < len(code) && !isSpace(code[i]) {
			i++
		}
		word := code[start:i]
		pos := token.Position{
			Char:      lineStart + start,
			LineStart: lineStart,
			Line:      l.lineNum - 1,
			Column:    start,
			File:      l.filename,
		}
		tokens = append(tokens, token.Token{
			Type:          classify(word),
			Literal:       word,
			StartPosition: pos,
			EndPosition:   pos.Advance(len(word)),
		})
	}
	return tokens
}

func classify(word string) token.Type {
	if token.IsDigits(word) {
		return token.INT
	}
	return token.LookupIdentifier(word)
}

// StripComment removes a trailing "//" comment from a line.
func StripComment(line string) string {
	if idx := strings.Index(line, commentPrefix); idx >= 0 {
		return line[:idx]
	}
	return line
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}
