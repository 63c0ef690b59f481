// Package assembly pretty-prints a compiled procedure's symbolic instruction list to
// the canonical assembly text grammar (§6), the same way the teacher's asm/vm packages
// turn a statement list into Hack/VM textual form (pkg/asm/codegen.go,
// pkg/vm/codegen.go: a per-kind Generate<Kind> switch driven off a shared Generate()
// loop, fmt.Sprintf-built lines, no templating library).
package assembly

import (
	"errors"
	"fmt"
	"strings"

	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/instr"
)

// Formatter pretty-prints a symbolic instruction list to canonical text (§4.E).
type Formatter struct {
	// Indent is the number of four-space units every emitted line is prefixed with.
	Indent int
}

// NewFormatter returns a Formatter indenting every line by indent*4 spaces.
func NewFormatter(indent int) Formatter {
	return Formatter{Indent: indent}
}

// Format renders program to canonical assembly text: one instruction per line, labels
// on their own line terminated with ':', a blank line before each label except the
// first (§4.E).
func (f Formatter) Format(program []compiler.Instruction) (string, error) {
	var b strings.Builder
	prefix := strings.Repeat("    ", f.Indent)
	firstLabel := true

	for _, inst := range program {
		if inst.Label != "" {
			if !firstLabel {
				b.WriteByte('\n')
			}
			firstLabel = false
			fmt.Fprintf(&b, "%s%s:\n", prefix, inst.Label)
		}

		line, err := f.generateInstruction(inst)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s%s\n", prefix, line)
	}

	return b.String(), nil
}

// generateInstruction renders a single instruction's text, applying the §4.E/§6
// modifier-omission rules.
func (f Formatter) generateInstruction(inst compiler.Instruction) (string, error) {
	switch inst.Op {
	case instr.SKIP:
		return "SKIP INSTRUCTION", nil
	case instr.JUMP:
		return f.generateJump(inst)
	case instr.PUSH:
		return f.generatePush(inst)
	case instr.POP:
		return f.generatePop(inst)
	case instr.LOAD:
		return f.generateLoadStore("LOAD", inst)
	case instr.STORE:
		return f.generateLoadStore("STORE", inst)
	case instr.INVOKE:
		return f.generateInvoke(inst)
	case instr.EXECUTE:
		return f.generateExecute(inst)
	case instr.HANDLE:
		return f.generateHandle(inst)
	default:
		return "", fmt.Errorf("/assembly/formatter: unrecognized opcode: %v", inst.Op)
	}
}

func (f Formatter) generateJump(inst compiler.Instruction) (string, error) {
	if inst.Symbol == "" {
		return "", errors.New("/assembly/formatter: JUMP requires a label operand")
	}
	switch inst.Modifier {
	case instr.ANY:
		return fmt.Sprintf("JUMP TO %s", inst.Symbol), nil
	case instr.ON_NONE:
		return fmt.Sprintf("JUMP TO %s ON NONE", inst.Symbol), nil
	case instr.ON_TRUE:
		return fmt.Sprintf("JUMP TO %s ON TRUE", inst.Symbol), nil
	case instr.ON_FALSE:
		return fmt.Sprintf("JUMP TO %s ON FALSE", inst.Symbol), nil
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid JUMP modifier: %v", inst.Modifier)
	}
}

func (f Formatter) generatePush(inst compiler.Instruction) (string, error) {
	switch inst.Modifier {
	case instr.HANDLER:
		return fmt.Sprintf("PUSH HANDLER %s", inst.Symbol), nil
	case instr.LITERAL:
		return fmt.Sprintf("PUSH LITERAL `%s`", inst.Symbol), nil
	case instr.CONSTANT:
		return fmt.Sprintf("PUSH CONSTANT %s", inst.Symbol), nil
	case instr.PARAMETER:
		return fmt.Sprintf("PUSH PARAMETER %s", inst.Symbol), nil
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid PUSH modifier: %v", inst.Modifier)
	}
}

func (f Formatter) generatePop(inst compiler.Instruction) (string, error) {
	switch inst.Modifier {
	case instr.POP_HANDLER:
		return "POP HANDLER", nil
	case instr.COMPONENT:
		return "POP COMPONENT", nil
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid POP modifier: %v", inst.Modifier)
	}
}

func (f Formatter) generateLoadStore(op string, inst compiler.Instruction) (string, error) {
	var namespace string
	switch inst.Modifier {
	case instr.VARIABLE:
		namespace = "VARIABLE"
	case instr.MESSAGE:
		namespace = "MESSAGE"
	case instr.DRAFT:
		namespace = "DRAFT"
	case instr.DOCUMENT:
		namespace = "DOCUMENT"
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid %s modifier: %v", op, inst.Modifier)
	}
	return fmt.Sprintf("%s %s %s", op, namespace, inst.Symbol), nil
}

// generateInvoke renders INVOKE; the modifier carries the literal argument count
// (0..3), worded as PARAMETER/PARAMETERS per the PARAMETERS-spelling decision (§9).
func (f Formatter) generateInvoke(inst compiler.Instruction) (string, error) {
	switch inst.Modifier {
	case 0:
		return fmt.Sprintf("INVOKE %s", inst.Symbol), nil
	case 1:
		return fmt.Sprintf("INVOKE %s WITH PARAMETER", inst.Symbol), nil
	default:
		return fmt.Sprintf("INVOKE %s WITH %d PARAMETERS", inst.Symbol, inst.Modifier), nil
	}
}

func (f Formatter) generateExecute(inst compiler.Instruction) (string, error) {
	switch inst.Modifier {
	case instr.WITH_NOTHING:
		return fmt.Sprintf("EXECUTE %s", inst.Symbol), nil
	case instr.WITH_ARGUMENTS:
		return fmt.Sprintf("EXECUTE %s WITH PARAMETERS", inst.Symbol), nil
	case instr.ON_TARGET:
		return fmt.Sprintf("EXECUTE %s ON TARGET", inst.Symbol), nil
	case instr.ON_TARGET_WITH_ARGUMENTS:
		return fmt.Sprintf("EXECUTE %s ON TARGET WITH PARAMETERS", inst.Symbol), nil
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid EXECUTE modifier: %v", inst.Modifier)
	}
}

func (f Formatter) generateHandle(inst compiler.Instruction) (string, error) {
	switch inst.Modifier {
	case instr.EXCEPTION:
		return "HANDLE EXCEPTION", nil
	case instr.RESULT:
		return "HANDLE RESULT", nil
	default:
		return "", fmt.Errorf("/assembly/formatter: invalid HANDLE modifier: %v", inst.Modifier)
	}
}
