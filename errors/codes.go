package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Translation errors
//   - E3xxx: I/O errors
//   - E4xxx: Assembly errors
//   - E5xxx: Emulator errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Malformed operand
	E1002 ErrorCode = "E1002" // Unknown segment
	E1003 ErrorCode = "E1003" // Unknown command

	// Translation errors (E2xxx)
	E2001 ErrorCode = "E2001" // Pop into constant
	E2002 ErrorCode = "E2002" // Segment index out of range

	// I/O errors (E3xxx)
	E3001 ErrorCode = "E3001" // Read or write failure

	// Assembly errors (E4xxx)
	E4001 ErrorCode = "E4001" // Invalid computation
	E4002 ErrorCode = "E4002" // Invalid destination
	E4003 ErrorCode = "E4003" // Invalid jump
	E4004 ErrorCode = "E4004" // Literal out of range
	E4005 ErrorCode = "E4005" // Duplicate label
	E4006 ErrorCode = "E4006" // Program too large

	// Emulator errors (E5xxx)
	E5001 ErrorCode = "E5001" // Step limit exceeded
	E5002 ErrorCode = "E5002" // Program counter out of range
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "malformed operand",
	E1002: "unknown segment",
	E1003: "unknown command",

	E2001: "invalid operation",
	E2002: "index out of range",

	E3001: "i/o failure",

	E4001: "invalid computation",
	E4002: "invalid destination",
	E4003: "invalid jump",
	E4004: "literal out of range",
	E4005: "duplicate label",
	E4006: "program too large",

	E5001: "step limit exceeded",
	E5002: "program counter out of range",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "translate"
	case '3':
		return "io"
	case '4':
		return "assemble"
	case '5':
		return "runtime"
	default:
		return "unknown"
	}
}

// Kind returns the error kind a code belongs to.
func (c ErrorCode) Kind() Kind {
	switch c {
	case E1001:
		return MalformedOperand
	case E1002:
		return UnknownSegment
	case E1003:
		return UnknownCommand
	case E2001, E2002:
		return InvalidOperation
	case E3001:
		return IOFailure
	case E5001, E5002:
		return RuntimeFailure
	}
	if c.Category() == "assemble" {
		return AssemblyFailure
	}
	return ""
}
