package compiler

import "github.com/rs/zerolog"

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the source filename used in error messages.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithComments enables a "// <instruction>" comment line before the code
// emitted for each instruction.
func WithComments(enabled bool) Option {
	return func(c *Compiler) {
		c.comments = enabled
	}
}

// WithLogger sets the logger that receives a debug event per instruction.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}
