package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/symtab"
	"bali.dev/procedure-compiler/pkg/tree"
)

// Builder is the Instruction Builder (§4.C): it owns the frame stack, the pending-label
// discipline, the address counter, and the helpers that format symbolic instructions
// while interning referenced symbols into the procedure/type context tables.
type Builder struct {
	ctx   *ProcedureContext
	types *TypeContext

	frames symtab.Stack[*Frame]

	pendingLabel *string
	address      int
	tempCounter  int

	requiresFinalization bool
}

// NewBuilder returns a Builder that will emit into ctx/types, with the root frame for
// the procedure body already pushed.
func NewBuilder(ctx *ProcedureContext, types *TypeContext) *Builder {
	// requiresFinalization starts true so an empty procedure (no statements at all)
	// still finalizes; pushStatementContext re-asserts it on every subsequent
	// statement and return/throw clear it, matching the source's "set on every
	// statement, cleared by return/throw" description.
	b := &Builder{ctx: ctx, types: types, address: 1, requiresFinalization: true}
	b.frames.Push(&Frame{Prefix: "", StatementNumber: 1})
	return b
}

// ----------------------------------------------------------------------------
// Frame / statement context

// pushProcedureContext pushes a new frame for a nested block of statements (a
// then/else block, a loop body, a handler block, ...), deriving its prefix from the
// currently active statement of the parent frame.
func (b *Builder) pushProcedureContext() error {
	parent, err := b.frames.Top()
	if err != nil {
		return fmt.Errorf("/compiler/builder: pushProcedureContext: %w", err)
	}
	if parent.Current == nil {
		return fmt.Errorf("/compiler/builder: pushProcedureContext: no active statement in parent frame")
	}
	b.frames.Push(&Frame{Prefix: parent.childPrefix(), StatementNumber: 1})
	return nil
}

// popProcedureContext pops the current frame, returning to the parent.
func (b *Builder) popProcedureContext() error {
	_, err := b.frames.Pop()
	if err != nil {
		return fmt.Errorf("/compiler/builder: popProcedureContext: %w", err)
	}
	return nil
}

// currentFrame returns the frame currently being compiled into.
func (b *Builder) currentFrame() (*Frame, error) {
	return b.frames.Top()
}

// pushStatementContext computes the labels for a statement of the given kind at its
// position within the current frame, and records it as that frame's active statement.
func (b *Builder) pushStatementContext(kind string, hasHandlers, hasSubclauses bool) (*StatementRecord, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return nil, fmt.Errorf("/compiler/builder: pushStatementContext: %w", err)
	}
	rec := newStatementRecord(frame, kind, hasHandlers, hasSubclauses)
	frame.Current = rec
	b.requiresFinalization = true
	return rec, nil
}

// popStatementContext clears the frame's active statement and advances its statement
// counter for the next sibling statement.
func (b *Builder) popStatementContext() error {
	frame, err := b.currentFrame()
	if err != nil {
		return fmt.Errorf("/compiler/builder: popStatementContext: %w", err)
	}
	frame.Current = nil
	frame.StatementNumber++
	return nil
}

// subclauseLabelAt derives the label for the n-th (1-based) sub-clause of the current
// statement (e.g. "1.1.ConditionClause"); n is supplied by the caller's own loop index.
func (b *Builder) subclauseLabelAt(kind string, n int) (string, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return "", err
	}
	return frame.subclauseLabelAt(kind, n), nil
}

// elseLabel derives the current statement's else-branch label.
func (b *Builder) elseLabel() (string, error) {
	frame, err := b.currentFrame()
	if err != nil {
		return "", err
	}
	return frame.elseLabel(), nil
}

// enclosingLoop walks the frame stack outward looking for the nearest statement with a
// LoopLabel set (§4.D break/continue). Iterator is called directly rather than via a
// range clause so this package stays buildable on Go 1.21 (no range-over-func).
func (b *Builder) enclosingLoop() (loopLabel, doneLabel string, ok bool) {
	b.frames.Iterator()(func(_ int, frame *Frame) bool {
		if frame.Current != nil && frame.Current.LoopLabel != "" {
			loopLabel, doneLabel, ok = frame.Current.LoopLabel, frame.Current.DoneLabel, true
			return false
		}
		return true
	})
	return
}

// ----------------------------------------------------------------------------
// Label / instruction emission

// insertLabel binds label to the next emitted instruction. If a label is already
// pending, a SKIP is emitted first so both labels resolve (§4.C).
func (b *Builder) insertLabel(label string) {
	if b.pendingLabel != nil {
		b.insertInstruction(instr.SKIP, instr.ANY, "")
	}
	pending := label
	b.pendingLabel = &pending
}

// insertInstruction appends one symbolic instruction, resolving any pending label to
// the address about to be emitted.
func (b *Builder) insertInstruction(op instr.Opcode, modifier instr.Modifier, symbol string) {
	inst := Instruction{Op: op, Modifier: modifier, Symbol: symbol}
	if b.pendingLabel != nil {
		inst.Label = *b.pendingLabel
		b.ctx.Addresses[*b.pendingLabel] = b.address
		b.pendingLabel = nil
	}
	b.ctx.Instructions = append(b.ctx.Instructions, inst)
	b.address++
}

// ----------------------------------------------------------------------------
// Helpers (§4.C)

func (b *Builder) insertJump(modifier instr.Modifier, label string) {
	b.insertInstruction(instr.JUMP, modifier, label)
}

func (b *Builder) insertPushHandler(label string) {
	b.insertInstruction(instr.PUSH, instr.HANDLER, label)
}

func (b *Builder) insertPushLiteral(lit tree.Literal) {
	b.types.Literals.Intern(lit)
	b.insertInstruction(instr.PUSH, instr.LITERAL, lit.Text)
}

func (b *Builder) insertPushConstant(name string) {
	b.insertInstruction(instr.PUSH, instr.CONSTANT, name)
}

func (b *Builder) insertPushParameter(name string) {
	b.insertInstruction(instr.PUSH, instr.PARAMETER, name)
}

func (b *Builder) insertPop(modifier instr.Modifier) {
	b.insertInstruction(instr.POP, modifier, "")
}

func (b *Builder) insertLoad(modifier instr.Modifier, variable string) {
	b.ctx.Variables.Intern(variable)
	b.insertInstruction(instr.LOAD, modifier, variable)
}

func (b *Builder) insertStore(modifier instr.Modifier, variable string) {
	b.ctx.Variables.Intern(variable)
	b.insertInstruction(instr.STORE, modifier, variable)
}

// insertInvoke emits INVOKE with the literal argument count (0-3) as the modifier, per
// the instruction table's "modifier = argument count" convention.
func (b *Builder) insertInvoke(argCount int, intrinsicName string) {
	b.insertInstruction(instr.INVOKE, instr.Modifier(argCount), intrinsicName)
}

func (b *Builder) insertExecute(modifier instr.Modifier, subProcedure string) {
	b.ctx.Procedures.Intern(subProcedure)
	b.insertInstruction(instr.EXECUTE, modifier, subProcedure)
}

func (b *Builder) insertHandle(modifier instr.Modifier) {
	b.insertInstruction(instr.HANDLE, modifier, "")
	b.requiresFinalization = false
}

// insertHandleExceptionInternal emits the statement wrapper's automatically-generated
// re-throw at the handler chain's failure label (§4.D). Unlike insertHandle, it leaves
// requiresFinalization untouched: this HANDLE is builder-generated machinery present on
// every handled statement, not a user-level return/throw, so it must not be mistaken for
// one when deciding whether the procedure still needs its closing finalizer.
func (b *Builder) insertHandleExceptionInternal() {
	b.insertInstruction(instr.HANDLE, instr.EXCEPTION, "")
}

// finalize emits the closing `LOAD VARIABLE $$result` / `HANDLE RESULT` pair appended
// when the last statement did not already terminate the procedure (§4.C).
func (b *Builder) finalize() {
	b.insertLoad(instr.VARIABLE, "$$result")
	b.insertHandle(instr.RESULT)
}

// newTemp returns a fresh temporary variable name of the given kind, unique within the
// procedure (§4.D "temporary variables are named $$<kind>-<n>").
func (b *Builder) newTemp(kind string) string {
	b.tempCounter++
	return fmt.Sprintf("$$%s-%d", kind, b.tempCounter)
}
