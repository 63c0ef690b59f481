package assembly_test

import (
	"strings"
	"testing"

	"bali.dev/procedure-compiler/pkg/assembly"
	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/instr"
)

// TestFormatSingleReturn covers S1 — `return true` formats to two lines under the
// statement's start label.
func TestFormatSingleReturn(t *testing.T) {
	program := []compiler.Instruction{
		{Label: "1.ReturnStatement", Op: instr.PUSH, Modifier: instr.LITERAL, Symbol: "true"},
		{Op: instr.HANDLE, Modifier: instr.RESULT},
	}

	got, err := assembly.NewFormatter(0).Format(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1.ReturnStatement:\n" +
		"PUSH LITERAL `true`\n" +
		"HANDLE RESULT\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

// TestFormatEmptyProcedure covers S2.
func TestFormatEmptyProcedure(t *testing.T) {
	program := []compiler.Instruction{
		{Op: instr.LOAD, Modifier: instr.VARIABLE, Symbol: "$$result"},
		{Op: instr.HANDLE, Modifier: instr.RESULT},
	}
	got, err := assembly.NewFormatter(0).Format(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "LOAD VARIABLE $$result\nHANDLE RESULT\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestFormatLabelBlankLineSeparation checks that a blank line precedes every label
// after the first, and none precedes the first.
func TestFormatLabelBlankLineSeparation(t *testing.T) {
	program := []compiler.Instruction{
		{Label: "1.1.ConditionClause", Op: instr.PUSH, Modifier: instr.LITERAL, Symbol: "true"},
		{Op: instr.JUMP, Modifier: instr.ON_FALSE, Symbol: "1.ElseClause"},
		{Label: "1.ElseClause", Op: instr.SKIP},
	}
	got, err := assembly.NewFormatter(0).Format(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(got, "\n")
	if lines[0] != "1.1.ConditionClause:" {
		t.Fatalf("line 0 = %q, want label with no leading blank", lines[0])
	}
	blankIdx := -1
	for i, l := range lines {
		if l == "" && i != len(lines)-1 {
			blankIdx = i
			break
		}
	}
	if blankIdx == -1 || lines[blankIdx+1] != "1.ElseClause:" {
		t.Errorf("expected a blank line immediately before the second label, got:\n%s", got)
	}
}

// TestFormatIndent checks that every line (label and instruction) is prefixed with
// Indent*4 spaces.
func TestFormatIndent(t *testing.T) {
	program := []compiler.Instruction{
		{Label: "1.EvaluateStatement", Op: instr.PUSH, Modifier: instr.LITERAL, Symbol: "1"},
		{Op: instr.STORE, Modifier: instr.VARIABLE, Symbol: "$$result"},
	}
	got, err := assembly.NewFormatter(1).Format(program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("line %q missing one level of indentation", line)
		}
	}
}

// TestFormatModifierOmission covers the zero-modifier omission rules across every
// opcode family that has one.
func TestFormatModifierOmission(t *testing.T) {
	cases := []struct {
		name string
		inst compiler.Instruction
		want string
	}{
		{"jump any", compiler.Instruction{Op: instr.JUMP, Modifier: instr.ANY, Symbol: "L"}, "JUMP TO L\n"},
		{"jump on false", compiler.Instruction{Op: instr.JUMP, Modifier: instr.ON_FALSE, Symbol: "L"}, "JUMP TO L ON FALSE\n"},
		{"invoke zero args", compiler.Instruction{Op: instr.INVOKE, Modifier: 0, Symbol: "$f"}, "INVOKE $f\n"},
		{"invoke one arg", compiler.Instruction{Op: instr.INVOKE, Modifier: 1, Symbol: "$f"}, "INVOKE $f WITH PARAMETER\n"},
		{"invoke two args", compiler.Instruction{Op: instr.INVOKE, Modifier: 2, Symbol: "$f"}, "INVOKE $f WITH 2 PARAMETERS\n"},
		{"execute with nothing", compiler.Instruction{Op: instr.EXECUTE, Modifier: instr.WITH_NOTHING, Symbol: "$m"}, "EXECUTE $m\n"},
		{"execute on target", compiler.Instruction{Op: instr.EXECUTE, Modifier: instr.ON_TARGET, Symbol: "$m"}, "EXECUTE $m ON TARGET\n"},
		{"execute on target with args", compiler.Instruction{Op: instr.EXECUTE, Modifier: instr.ON_TARGET_WITH_ARGUMENTS, Symbol: "$m"}, "EXECUTE $m ON TARGET WITH PARAMETERS\n"},
		{"skip", compiler.Instruction{Op: instr.SKIP}, "SKIP INSTRUCTION\n"},
		{"pop handler", compiler.Instruction{Op: instr.POP, Modifier: instr.POP_HANDLER}, "POP HANDLER\n"},
		{"handle exception", compiler.Instruction{Op: instr.HANDLE, Modifier: instr.EXCEPTION}, "HANDLE EXCEPTION\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := assembly.NewFormatter(0).Format([]compiler.Instruction{c.inst})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

// TestFormatUnrecognizedOpcode checks the error path.
func TestFormatUnrecognizedOpcode(t *testing.T) {
	program := []compiler.Instruction{{Op: instr.Opcode(99)}}
	if _, err := assembly.NewFormatter(0).Format(program); err == nil {
		t.Fatal("expected an error for an unrecognized opcode")
	}
}
