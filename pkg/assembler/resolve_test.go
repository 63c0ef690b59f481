package assembler_test

import (
	"errors"
	"testing"

	"bali.dev/procedure-compiler/pkg/assembler"
	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/tree"
)

// fakeIntrinsics is a minimal IntrinsicIndex stand-in, grounded on the fixed-name-table
// shape described by §4.G without depending on pkg/intrinsics.
type fakeIntrinsics map[string]int

func (f fakeIntrinsics) IndexOf(name string) (int, bool) {
	i, ok := f[name]
	return i, ok
}

func newContexts() (*compiler.ProcedureContext, *compiler.TypeContext) {
	ctx := compiler.NewProcedureContext([]string{"$x"})
	types := compiler.NewTypeContext()
	return ctx, types
}

// TestResolveSingleReturn covers S1 — `PUSH LITERAL` then `HANDLE RESULT` resolve to
// their literal index and modifier respectively.
func TestResolveSingleReturn(t *testing.T) {
	ctx, types := newContexts()
	types.Literals.Intern(tree.Literal{Kind: tree.Symbol, Text: "true"})
	ctx.Addresses["1.ReturnStatement"] = 0

	program := assembler.Program{
		{Label: "1.ReturnStatement", Op: "PUSH", Modifier: "LITERAL", Operand: "true"},
		{Op: "HANDLE", Modifier: "RESULT"},
	}

	words, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != (instr.Word{Op: instr.PUSH, Modifier: instr.LITERAL, Operand: 1}) {
		t.Errorf("word 0 = %+v, want PUSH LITERAL operand 1", words[0])
	}
	if words[1] != (instr.Word{Op: instr.HANDLE, Modifier: instr.RESULT}) {
		t.Errorf("word 1 = %+v, want HANDLE RESULT", words[1])
	}
}

// TestResolveJumpUndefinedLabel covers the InvalidReference error path for a JUMP whose
// target label was never recorded in the address table.
func TestResolveJumpUndefinedLabel(t *testing.T) {
	ctx, types := newContexts()
	program := assembler.Program{
		{Op: "JUMP", Operand: "nowhere"},
	}

	_, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var assembleErr *assembler.AssembleError
	if !errors.As(err, &assembleErr) {
		t.Fatalf("expected *assembler.AssembleError, got %T: %v", err, err)
	}
	if assembleErr.Kind != assembler.InvalidReference {
		t.Errorf("error kind = %v, want %v", assembleErr.Kind, assembler.InvalidReference)
	}
}

// TestResolveInvokeUnknownIntrinsic covers the InvalidReference error path for an
// INVOKE naming an intrinsic absent from the registry.
func TestResolveInvokeUnknownIntrinsic(t *testing.T) {
	ctx, types := newContexts()
	program := assembler.Program{
		{Op: "INVOKE", Modifier: "2", Operand: "$bogus"},
	}

	_, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var assembleErr *assembler.AssembleError
	if !errors.As(err, &assembleErr) {
		t.Fatalf("expected *assembler.AssembleError, got %T: %v", err, err)
	}
	if assembleErr.Kind != assembler.InvalidReference {
		t.Errorf("error kind = %v, want %v", assembleErr.Kind, assembler.InvalidReference)
	}
}

// TestResolveUnrecognizedOpcode covers the InvalidOperation error path.
func TestResolveUnrecognizedOpcode(t *testing.T) {
	ctx, types := newContexts()
	program := assembler.Program{{Op: "NOPE"}}

	_, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var assembleErr *assembler.AssembleError
	if !errors.As(err, &assembleErr) {
		t.Fatalf("expected *assembler.AssembleError, got %T: %v", err, err)
	}
	if assembleErr.Kind != assembler.InvalidOperation {
		t.Errorf("error kind = %v, want %v", assembleErr.Kind, assembler.InvalidOperation)
	}
}

// TestResolveLoadStoreVariableIndex checks that LOAD/STORE operands resolve against
// the variables table by first-mention index.
func TestResolveLoadStoreVariableIndex(t *testing.T) {
	ctx, types := newContexts()
	ctx.Variables.Intern("$$result")

	program := assembler.Program{
		{Op: "LOAD", Modifier: "VARIABLE", Operand: "$$result"},
	}

	words, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if words[0] != (instr.Word{Op: instr.LOAD, Modifier: instr.VARIABLE, Operand: 1}) {
		t.Errorf("word = %+v, want LOAD VARIABLE operand 1", words[0])
	}
}

// TestResolvePushParameter resolves a PARAMETER operand to its declared position.
func TestResolvePushParameter(t *testing.T) {
	ctx, types := newContexts()
	program := assembler.Program{
		{Op: "PUSH", Modifier: "PARAMETER", Operand: "$x"},
	}

	words, err := assembler.NewResolver(ctx, types, fakeIntrinsics{}).Resolve(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if words[0] != (instr.Word{Op: instr.PUSH, Modifier: instr.PARAMETER, Operand: 1}) {
		t.Errorf("word = %+v, want PUSH PARAMETER operand 1", words[0])
	}
}
