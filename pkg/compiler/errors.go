package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/tree"
)

// ErrorKind names one of the compile-time failure kinds raised by this package (§7).
type ErrorKind string

const (
	NoEnclosingLoop  ErrorKind = "NoEnclosingLoop"
	TooManyArguments ErrorKind = "TooManyArguments"
)

// CompileError is the structured payload every compiler failure surfaces (§7): the
// offending source node, the module identifier, and a human-readable message.
type CompileError struct {
	Kind    ErrorKind
	Module  string
	Node    tree.Node
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Module, e.Message)
}

func newError(kind ErrorKind, node tree.Node, format string, args ...any) error {
	return &CompileError{
		Kind:    kind,
		Module:  "/compiler/walker",
		Node:    node,
		Message: fmt.Sprintf(format, args...),
	}
}
