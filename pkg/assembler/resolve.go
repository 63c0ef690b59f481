package assembler

import (
	"bytes"
	"strconv"

	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/symtab"
	"bali.dev/procedure-compiler/pkg/tree"
)

// IntrinsicIndex resolves an intrinsic name to its 1-based table position (§4.G). The
// intrinsics table itself lives in pkg/intrinsics; this package only needs the lookup.
type IntrinsicIndex interface {
	IndexOf(name string) (int, bool)
}

// Resolver turns a re-parsed Program into a list of instr.Word, resolving every
// symbolic operand against the procedure's symbol tables (§4.F).
type Resolver struct {
	ctx        *compiler.ProcedureContext
	types      *compiler.TypeContext
	intrinsics IntrinsicIndex
}

// NewResolver returns a Resolver for the given procedure/type contexts and intrinsic
// registry.
func NewResolver(ctx *compiler.ProcedureContext, types *compiler.TypeContext, intrinsics IntrinsicIndex) *Resolver {
	return &Resolver{ctx: ctx, types: types, intrinsics: intrinsics}
}

// Resolve encodes program into a sequence of machine words, step by step (§4.F).
func (r *Resolver) Resolve(program Program) ([]instr.Word, error) {
	words := make([]instr.Word, len(program))
	for i, step := range program {
		word, err := r.resolveStep(i, step)
		if err != nil {
			return nil, err
		}
		words[i] = word
	}
	return words, nil
}

func (r *Resolver) resolveStep(i int, step Step) (instr.Word, error) {
	switch step.Op {
	case "SKIP":
		return instr.Word{Op: instr.SKIP}, nil
	case "JUMP":
		return r.resolveJump(i, step)
	case "PUSH":
		return r.resolvePush(i, step)
	case "POP":
		return r.resolvePop(i, step)
	case "LOAD":
		return r.resolveLoadStore(i, instr.LOAD, step)
	case "STORE":
		return r.resolveLoadStore(i, instr.STORE, step)
	case "INVOKE":
		return r.resolveInvoke(i, step)
	case "EXECUTE":
		return r.resolveExecute(i, step)
	case "HANDLE":
		return r.resolveHandle(i, step)
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized opcode %q", step.Op)
	}
}

func (r *Resolver) resolveJump(i int, step Step) (instr.Word, error) {
	var modifier instr.Modifier
	switch step.Modifier {
	case "":
		modifier = instr.ANY
	case "NONE":
		modifier = instr.ON_NONE
	case "TRUE":
		modifier = instr.ON_TRUE
	case "FALSE":
		modifier = instr.ON_FALSE
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized JUMP modifier %q", step.Modifier)
	}
	address, ok := r.ctx.Addresses[step.Operand]
	if !ok {
		return instr.Word{}, newError(InvalidReference, i, "undefined label %q", step.Operand)
	}
	return instr.Word{Op: instr.JUMP, Modifier: modifier, Operand: address}, nil
}

func (r *Resolver) resolvePush(i int, step Step) (instr.Word, error) {
	switch step.Modifier {
	case "HANDLER":
		address, ok := r.ctx.Addresses[step.Operand]
		if !ok {
			return instr.Word{}, newError(InvalidReference, i, "undefined label %q", step.Operand)
		}
		return instr.Word{Op: instr.PUSH, Modifier: instr.HANDLER, Operand: address}, nil
	case "LITERAL":
		index, ok := indexOfLiteralText(r.types.Literals, step.Operand)
		if !ok {
			return instr.Word{}, newError(InvalidReference, i, "literal %q was never interned", step.Operand)
		}
		return instr.Word{Op: instr.PUSH, Modifier: instr.LITERAL, Operand: index}, nil
	case "CONSTANT":
		index, ok := r.types.Constants.IndexOf(step.Operand)
		if !ok {
			return instr.Word{}, newError(InvalidReference, i, "unresolved constant %q", step.Operand)
		}
		return instr.Word{Op: instr.PUSH, Modifier: instr.CONSTANT, Operand: index}, nil
	case "PARAMETER":
		index, ok := indexOfParameter(r.ctx.Parameters, step.Operand)
		if !ok {
			return instr.Word{}, newError(InvalidReference, i, "unresolved parameter %q", step.Operand)
		}
		return instr.Word{Op: instr.PUSH, Modifier: instr.PARAMETER, Operand: index}, nil
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized PUSH modifier %q", step.Modifier)
	}
}

func (r *Resolver) resolvePop(i int, step Step) (instr.Word, error) {
	switch step.Modifier {
	case "HANDLER":
		return instr.Word{Op: instr.POP, Modifier: instr.POP_HANDLER}, nil
	case "COMPONENT":
		return instr.Word{Op: instr.POP, Modifier: instr.COMPONENT}, nil
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized POP modifier %q", step.Modifier)
	}
}

func (r *Resolver) resolveLoadStore(i int, op instr.Opcode, step Step) (instr.Word, error) {
	var modifier instr.Modifier
	switch step.Modifier {
	case "VARIABLE":
		modifier = instr.VARIABLE
	case "MESSAGE":
		modifier = instr.MESSAGE
	case "DRAFT":
		modifier = instr.DRAFT
	case "DOCUMENT":
		modifier = instr.DOCUMENT
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized namespace %q", step.Modifier)
	}
	index, ok := r.ctx.Variables.IndexOf(step.Operand)
	if !ok {
		return instr.Word{}, newError(InvalidReference, i, "unresolved variable %q", step.Operand)
	}
	return instr.Word{Op: op, Modifier: modifier, Operand: index}, nil
}

func (r *Resolver) resolveInvoke(i int, step Step) (instr.Word, error) {
	argc, err := strconv.Atoi(step.Modifier)
	if err != nil {
		return instr.Word{}, newError(InvalidOperation, i, "invalid INVOKE argument count %q", step.Modifier)
	}
	index, ok := r.intrinsics.IndexOf(step.Operand)
	if !ok {
		return instr.Word{}, newError(InvalidReference, i, "unknown intrinsic %q", step.Operand)
	}
	return instr.Word{Op: instr.INVOKE, Modifier: instr.Modifier(argc), Operand: index}, nil
}

func (r *Resolver) resolveExecute(i int, step Step) (instr.Word, error) {
	var modifier instr.Modifier
	switch step.Modifier {
	case "WITH_NOTHING":
		modifier = instr.WITH_NOTHING
	case "WITH_ARGUMENTS":
		modifier = instr.WITH_ARGUMENTS
	case "ON_TARGET":
		modifier = instr.ON_TARGET
	case "ON_TARGET_WITH_ARGUMENTS":
		modifier = instr.ON_TARGET_WITH_ARGUMENTS
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized EXECUTE modifier %q", step.Modifier)
	}
	index, ok := r.ctx.Procedures.IndexOf(step.Operand)
	if !ok {
		return instr.Word{}, newError(InvalidReference, i, "unresolved sub-procedure %q", step.Operand)
	}
	return instr.Word{Op: instr.EXECUTE, Modifier: modifier, Operand: index}, nil
}

func (r *Resolver) resolveHandle(i int, step Step) (instr.Word, error) {
	switch step.Modifier {
	case "EXCEPTION":
		return instr.Word{Op: instr.HANDLE, Modifier: instr.EXCEPTION}, nil
	case "RESULT":
		return instr.Word{Op: instr.HANDLE, Modifier: instr.RESULT}, nil
	default:
		return instr.Word{}, newError(InvalidOperation, i, "unrecognized HANDLE modifier %q", step.Modifier)
	}
}

// indexOfLiteralText finds the 1-based index of the first interned literal whose Text
// matches raw (§4.F: the canonical grammar only carries literal text, not kind, so
// literals are resolved by text alone).
func indexOfLiteralText(literals *symtab.OrderedSet[tree.Literal], raw string) (int, bool) {
	for i, lit := range literals.Values() {
		if lit.Text == raw {
			return i + 1, true
		}
	}
	return 0, false
}

// indexOfParameter finds the 1-based position of name in the procedure's declared
// parameter list.
func indexOfParameter(parameters []string, name string) (int, bool) {
	for i, p := range parameters {
		if p == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Assemble re-parses source (canonical assembly text) and resolves it into a packed
// bytecode image, the end-to-end §4.F entry point used by cmd/baliasm and cmd/balic.
func Assemble(source []byte, ctx *compiler.ProcedureContext, types *compiler.TypeContext, intrinsics IntrinsicIndex) ([]byte, error) {
	parser := NewParser(bytes.NewReader(source))
	program, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	words, err := NewResolver(ctx, types, intrinsics).Resolve(program)
	if err != nil {
		return nil, err
	}

	packed, err := instr.Pack(words)
	if err != nil {
		return nil, newError(InvalidOperation, -1, "packing resolved words: %s", err)
	}
	return packed, nil
}
