// Package compiler implements the tree-directed compiler (§3, §4.C, §4.D): it walks a
// procedure syntax tree (pkg/tree) and emits the symbolic instruction list and symbol
// tables that pkg/assembly formats to canonical text and pkg/assembler later re-parses
// into bytecode.
package compiler

import (
	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/symtab"
	"bali.dev/procedure-compiler/pkg/tree"
)

// ProcedureContext is the compilation output for one procedure (§3).
type ProcedureContext struct {
	Parameters []string

	// Variables is the set of variable symbols referenced (local, temporary, or
	// parameter passthrough), in first-mention order.
	Variables *symtab.OrderedSet[string]
	// Procedures is the set of sub-procedure symbols invoked via EXECUTE.
	Procedures *symtab.OrderedSet[string]
	// Addresses maps label text to the 1-based instruction address of the
	// instruction the label is attached to.
	Addresses map[string]int

	// Instructions is the emitted symbolic instruction list.
	Instructions []Instruction
}

// NewProcedureContext returns a ProcedureContext ready for a fresh compile.
func NewProcedureContext(parameters []string) *ProcedureContext {
	return &ProcedureContext{
		Parameters: parameters,
		Variables:  symtab.NewOrderedSet[string](),
		Procedures: symtab.NewOrderedSet[string](),
		Addresses:  map[string]int{},
	}
}

// TypeContext is shared across every procedure compiled for one type (§3).
type TypeContext struct {
	// Literals is the ordered set of literal values; order defines the index used
	// in encoding. Keyed by (Kind, Text) with Text as written; different spellings of
	// the same value are not collapsed.
	Literals *symtab.OrderedSet[tree.Literal]
	// Constants maps symbol to value; insertion (key) order defines the index.
	Constants *symtab.OrderedMap[string, tree.Literal]
}

// NewTypeContext returns an empty TypeContext.
func NewTypeContext() *TypeContext {
	return &TypeContext{
		Literals:  symtab.NewOrderedSet[tree.Literal](),
		Constants: &symtab.OrderedMap[string, tree.Literal]{},
	}
}

// Instruction is one symbolic instruction emitted by the Builder: a label optionally
// bound to it, an opcode/modifier pair, and a symbolic operand (a label name, variable
// name, literal text, intrinsic name, sub-procedure name, or constant/parameter name —
// "" when the opcode takes no operand).
type Instruction struct {
	Label    string
	Op       instr.Opcode
	Modifier instr.Modifier
	Symbol   string
}
