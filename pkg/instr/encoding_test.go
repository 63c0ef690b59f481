package instr_test

import (
	"testing"

	"bali.dev/procedure-compiler/pkg/instr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []instr.Word{
		{Op: instr.SKIP, Modifier: instr.ANY, Operand: 0},
		{Op: instr.JUMP, Modifier: instr.ON_FALSE, Operand: 42},
		{Op: instr.PUSH, Modifier: instr.LITERAL, Operand: 1},
		{Op: instr.POP, Modifier: instr.COMPONENT, Operand: 0},
		{Op: instr.LOAD, Modifier: instr.DOCUMENT, Operand: 7},
		{Op: instr.STORE, Modifier: instr.VARIABLE, Operand: 511},
		{Op: instr.INVOKE, Modifier: instr.Modifier(3), Operand: 5},
		{Op: instr.EXECUTE, Modifier: instr.ON_TARGET_WITH_ARGUMENTS, Operand: 9},
		{Op: instr.HANDLE, Modifier: instr.RESULT, Operand: 0},
	}

	t.Run("round trip", func(t *testing.T) {
		for _, want := range cases {
			command, err := instr.Encode(want)
			if err != nil {
				t.Fatalf("Encode(%+v): unexpected error %v", want, err)
			}
			got := instr.Decode(command)
			if got != want {
				t.Fatalf("Decode(Encode(%+v)) = %+v, want %+v", want, got, want)
			}
		}
	})

	t.Run("operand out of range", func(t *testing.T) {
		if _, err := instr.Encode(instr.Word{Op: instr.JUMP, Operand: instr.MaxOperand + 1}); err == nil {
			t.Fatal("expected error for out-of-range operand, got nil")
		}
	})

	t.Run("negative operand", func(t *testing.T) {
		if _, err := instr.Encode(instr.Word{Op: instr.JUMP, Operand: -1}); err == nil {
			t.Fatal("expected error for negative operand, got nil")
		}
	})
}

func TestPack(t *testing.T) {
	words := []instr.Word{
		{Op: instr.PUSH, Modifier: instr.LITERAL, Operand: 1},
		{Op: instr.HANDLE, Modifier: instr.RESULT, Operand: 0},
	}

	bytecode, err := instr.Pack(words)
	if err != nil {
		t.Fatalf("Pack: unexpected error %v", err)
	}
	if len(bytecode) != len(words)*2 {
		t.Fatalf("Pack produced %d bytes, want %d", len(bytecode), len(words)*2)
	}

	for i, w := range words {
		command, _ := instr.Encode(w)
		got := uint16(bytecode[i*2])<<8 | uint16(bytecode[i*2+1])
		if got != command {
			t.Fatalf("byte pair %d decoded to %016b, want %016b", i, got, command)
		}
	}
}

func TestPackPropagatesEncodeError(t *testing.T) {
	words := []instr.Word{{Op: instr.JUMP, Operand: instr.MaxOperand + 1}}
	if _, err := instr.Pack(words); err == nil {
		t.Fatal("expected Pack to propagate the encode error, got nil")
	}
}
