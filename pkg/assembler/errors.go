package assembler

import "fmt"

// ErrorKind names one of the assemble-time failure kinds raised by this package (§7).
type ErrorKind string

const (
	ParseError       ErrorKind = "ParseError"
	InvalidOperation ErrorKind = "InvalidOperation"
	InvalidReference ErrorKind = "InvalidReference"
)

// AssembleError is the structured payload every assembler failure surfaces (§7): the
// offending step index (-1 when the failure is not tied to a step index, e.g. a parse
// failure or a packing failure), the
// module identifier, and a human-readable message.
type AssembleError struct {
	Kind    ErrorKind
	Module  string
	Step    int
	Message string
}

func (e *AssembleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Module, e.Message)
}

func newError(kind ErrorKind, step int, format string, args ...any) error {
	return &AssembleError{
		Kind:    kind,
		Module:  "/assembler",
		Step:    step,
		Message: fmt.Sprintf(format, args...),
	}
}
