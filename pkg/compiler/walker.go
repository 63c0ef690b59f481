package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/tree"
)

// Walker is the Compiling Walker (§4.D): it dispatches on tree-node kind and drives the
// Builder, implementing the compile semantics of every statement and expression kind.
type Walker struct {
	builder *Builder
	types   *TypeContext
}

// Compile walks procedure and returns its ProcedureContext. types is shared across
// every procedure compiled for the enclosing type (§3).
func Compile(procedure tree.Procedure, types *TypeContext) (*ProcedureContext, error) {
	ctx := NewProcedureContext(procedure.Parameters)
	w := &Walker{builder: NewBuilder(ctx, types), types: types}

	if err := w.compileBlock(procedure.Statements); err != nil {
		return nil, err
	}
	if w.builder.requiresFinalization {
		w.builder.finalize()
	}
	return ctx, nil
}

func (w *Walker) compileBlock(statements []tree.Statement) error {
	for _, stmt := range statements {
		if err := w.compileStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// compileBlockInChildFrame compiles a nested block (a then/else block, a loop body, a
// handler block, ...) inside its own pushed frame, so its statements derive labels
// relative to the enclosing statement's position (§4.C pushProcedureContext).
func (w *Walker) compileBlockInChildFrame(block []tree.Statement) error {
	if err := w.builder.pushProcedureContext(); err != nil {
		return err
	}
	defer w.builder.popProcedureContext()
	return w.compileBlock(block)
}

// statementKind returns the label-text kind and whether the clause has internal
// branching/looping structure that needs a join (done) label regardless of handlers
// (§4.D statement wrapper step 4).
func statementKind(clause tree.StatementClause) (kind string, hasSubclauses bool, err error) {
	switch clause.(type) {
	case tree.EvaluateClause:
		return "EvaluateStatement", false, nil
	case tree.IfClause:
		return "IfStatement", true, nil
	case tree.SelectClause:
		return "SelectStatement", true, nil
	case tree.WhileClause:
		return "WhileStatement", true, nil
	case tree.WithEachClause:
		return "WithEachStatement", true, nil
	case tree.BreakClause:
		return "BreakStatement", false, nil
	case tree.ContinueClause:
		return "ContinueStatement", false, nil
	case tree.ReturnClause:
		return "ReturnStatement", false, nil
	case tree.ThrowClause:
		return "ThrowStatement", false, nil
	case tree.PublishClause:
		return "PublishStatement", false, nil
	case tree.PostClause:
		return "PostStatement", false, nil
	case tree.SaveClause:
		return "SaveStatement", false, nil
	case tree.CommitClause:
		return "CommitStatement", false, nil
	case tree.DiscardClause:
		return "DiscardStatement", false, nil
	case tree.CheckoutClause:
		return "CheckoutStatement", false, nil
	case tree.WaitClause:
		return "WaitStatement", false, nil
	default:
		return "", false, fmt.Errorf("unrecognized statement clause: %T", clause)
	}
}

// compileStatement implements the §4.D statement wrapper shared by every clause kind.
func (w *Walker) compileStatement(stmt tree.Statement) error {
	kind, hasSubclauses, err := statementKind(stmt.Clause)
	if err != nil {
		return fmt.Errorf("/compiler/walker: %w", err)
	}
	hasHandlers := len(stmt.Handlers) > 0

	rec, err := w.builder.pushStatementContext(kind, hasHandlers, hasSubclauses)
	if err != nil {
		return err
	}

	// Step 1: insert the statement's start label.
	w.builder.insertLabel(rec.StartLabel)

	// Step 2: if the statement has handlers, push the handler scope.
	if hasHandlers {
		w.builder.insertPushHandler(rec.HandlerLabel)
	}

	// Step 3: compile the main clause.
	if err := w.compileClause(stmt.Clause, rec); err != nil {
		return err
	}

	// Step 4: insert the done label if the statement has subclauses or handlers.
	if hasSubclauses || hasHandlers {
		w.builder.insertLabel(rec.DoneLabel)
	}

	// Step 5: compile the handler chain, if any.
	if hasHandlers {
		if err := w.compileHandlerChain(stmt.Handlers, rec); err != nil {
			return err
		}
	}

	return w.builder.popStatementContext()
}

// compileHandlerChain implements §4.D's handler-chain wrapper: the POP HANDLER closing
// the scope opened by compileStatement's PUSH HANDLER, plus the chain of handle clauses
// itself.
func (w *Walker) compileHandlerChain(handlers []tree.HandleClause, rec *StatementRecord) error {
	w.builder.insertPop(instr.POP_HANDLER)
	w.builder.insertJump(instr.ANY, rec.SuccessLabel)

	labels := make([]string, len(handlers))
	for i := range handlers {
		if i == 0 {
			labels[i] = rec.HandlerLabel
			continue
		}
		label, err := w.builder.subclauseLabelAt("HandlerClause", i)
		if err != nil {
			return err
		}
		labels[i] = label
	}

	for i, h := range handlers {
		w.builder.insertLabel(labels[i])
		nextLabel := rec.FailureLabel
		if i+1 < len(labels) {
			nextLabel = labels[i+1]
		}
		if err := w.compileHandleClause(h, nextLabel, rec.SuccessLabel); err != nil {
			return err
		}
	}

	w.builder.insertLabel(rec.FailureLabel)
	w.builder.insertHandleExceptionInternal()
	w.builder.insertLabel(rec.SuccessLabel)
	return nil
}

func (w *Walker) compileHandleClause(h tree.HandleClause, nextLabel, successLabel string) error {
	w.builder.insertStore(instr.VARIABLE, h.Symbol)
	w.builder.insertLoad(instr.VARIABLE, h.Symbol)
	w.builder.insertLoad(instr.VARIABLE, h.Symbol)
	if err := w.compileExpression(h.Template); err != nil {
		return err
	}
	w.builder.insertInvoke(2, "$isMatchedBy")
	w.builder.insertJump(instr.ON_FALSE, nextLabel)
	w.builder.insertPop(instr.COMPONENT)
	if err := w.compileBlockInChildFrame(h.Block); err != nil {
		return err
	}
	w.builder.insertJump(instr.ANY, successLabel)
	return nil
}
