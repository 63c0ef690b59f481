package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/tree"
)

// compileClause dispatches to the handler for one statement's main clause (§4.D
// "Clauses"), grounded on the teacher's HandleStatement type-switch idiom
// (pkg/jack/lowering.go) — generalized here to drive a live Builder instead of
// returning composed operation slices, since labels must resolve against a running
// address counter.
func (w *Walker) compileClause(clause tree.StatementClause, rec *StatementRecord) error {
	switch c := clause.(type) {
	case tree.EvaluateClause:
		return w.compileEvaluate(c)
	case tree.IfClause:
		return w.compileIf(c, rec)
	case tree.SelectClause:
		return w.compileSelect(c, rec)
	case tree.WhileClause:
		return w.compileWhile(c, rec)
	case tree.WithEachClause:
		return w.compileWithEach(c, rec)
	case tree.BreakClause:
		return w.compileBreak()
	case tree.ContinueClause:
		return w.compileContinue()
	case tree.ReturnClause:
		return w.compileReturn(c)
	case tree.ThrowClause:
		return w.compileThrow(c)
	case tree.PublishClause:
		return w.compilePublish(c)
	case tree.PostClause:
		return w.compilePost(c)
	case tree.SaveClause:
		return w.compileSave(c)
	case tree.CommitClause:
		return w.compileCommit(c)
	case tree.DiscardClause:
		return w.compileDiscard(c)
	case tree.CheckoutClause:
		return w.compileCheckout(c)
	case tree.WaitClause:
		return w.compileWait(c)
	default:
		return fmt.Errorf("/compiler/walker: unrecognized statement clause: %T", clause)
	}
}

// compileEvaluate implements `r := e` or a bare `e` (§4.D).
func (w *Walker) compileEvaluate(c tree.EvaluateClause) error {
	if c.Recipient == nil {
		if err := w.compileExpression(c.Expr); err != nil {
			return err
		}
		w.builder.insertStore(instr.VARIABLE, "$$result")
		return nil
	}

	prep, err := w.prepareRecipient(c.Recipient)
	if err != nil {
		return err
	}
	if err := w.compileExpression(c.Expr); err != nil {
		return err
	}
	return w.assignRecipient(c.Recipient, prep)
}

// compileIf implements if/else-if/else chains (§4.D, S3).
func (w *Walker) compileIf(c tree.IfClause, rec *StatementRecord) error {
	for i, cond := range c.Conditions {
		last := i == len(c.Conditions)-1
		hasElse := len(c.Else) > 0

		label, err := w.builder.subclauseLabelAt("ConditionClause", i+1)
		if err != nil {
			return err
		}
		w.builder.insertLabel(label)

		if err := w.compileExpression(cond.Condition); err != nil {
			return err
		}

		nextLabel := rec.DoneLabel
		switch {
		case !last:
			nextLabel, err = w.builder.subclauseLabelAt("ConditionClause", i+2)
			if err != nil {
				return err
			}
		case hasElse:
			nextLabel, err = w.builder.elseLabel()
			if err != nil {
				return err
			}
		}
		w.builder.insertJump(instr.ON_FALSE, nextLabel)

		if err := w.compileBlockInChildFrame(cond.Block); err != nil {
			return err
		}

		if !last || hasElse {
			w.builder.insertJump(instr.ANY, rec.DoneLabel)
		}
	}

	if len(c.Else) > 0 {
		label, err := w.builder.elseLabel()
		if err != nil {
			return err
		}
		w.builder.insertLabel(label)
		if err := w.compileBlockInChildFrame(c.Else); err != nil {
			return err
		}
	}

	return nil
}

// compileSelect implements `select from option do ...` (§4.D).
func (w *Walker) compileSelect(c tree.SelectClause, rec *StatementRecord) error {
	selector := w.builder.newTemp("selector")
	if err := w.compileExpression(c.Selector); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, selector)

	for i, opt := range c.Options {
		last := i == len(c.Options)-1
		hasElse := len(c.Else) > 0

		label, err := w.builder.subclauseLabelAt("OptionClause", i+1)
		if err != nil {
			return err
		}
		w.builder.insertLabel(label)

		w.builder.insertLoad(instr.VARIABLE, selector)
		if err := w.compileExpression(opt.Option); err != nil {
			return err
		}
		w.builder.insertInvoke(2, "$isMatchedBy")

		nextLabel := rec.DoneLabel
		switch {
		case !last:
			nextLabel, err = w.builder.subclauseLabelAt("OptionClause", i+2)
			if err != nil {
				return err
			}
		case hasElse:
			nextLabel, err = w.builder.elseLabel()
			if err != nil {
				return err
			}
		}
		w.builder.insertJump(instr.ON_FALSE, nextLabel)

		if err := w.compileBlockInChildFrame(opt.Block); err != nil {
			return err
		}

		if !last || hasElse {
			w.builder.insertJump(instr.ANY, rec.DoneLabel)
		}
	}

	if len(c.Else) > 0 {
		label, err := w.builder.elseLabel()
		if err != nil {
			return err
		}
		w.builder.insertLabel(label)
		if err := w.compileBlockInChildFrame(c.Else); err != nil {
			return err
		}
	}

	return nil
}

// compileWhile implements `while condition do ...` (§4.D, S6-adjacent pattern).
func (w *Walker) compileWhile(c tree.WhileClause, rec *StatementRecord) error {
	rec.LoopLabel = rec.StartLabel

	if err := w.compileExpression(c.Condition); err != nil {
		return err
	}
	w.builder.insertJump(instr.ON_FALSE, rec.DoneLabel)

	if err := w.compileBlockInChildFrame(c.Block); err != nil {
		return err
	}

	w.builder.insertJump(instr.ANY, rec.LoopLabel)
	return nil
}

// compileWithEach implements `with each x in sequence do ...` (§4.D, S6).
func (w *Walker) compileWithEach(c tree.WithEachClause, rec *StatementRecord) error {
	rec.LoopLabel = rec.StartLabel
	iterator := w.builder.newTemp("iterator")

	if err := w.compileExpression(c.Sequence); err != nil {
		return err
	}
	w.builder.insertExecute(instr.ON_TARGET, "$getIterator")
	w.builder.insertStore(instr.VARIABLE, iterator)

	w.builder.insertLabel(rec.LoopLabel)
	w.builder.insertLoad(instr.VARIABLE, iterator)
	w.builder.insertExecute(instr.ON_TARGET, "$hasNext")
	w.builder.insertJump(instr.ON_FALSE, rec.DoneLabel)

	w.builder.insertLoad(instr.VARIABLE, iterator)
	w.builder.insertExecute(instr.ON_TARGET, "$getNext")
	w.builder.insertStore(instr.VARIABLE, c.ItemVar)

	if err := w.compileBlockInChildFrame(c.Block); err != nil {
		return err
	}

	w.builder.insertJump(instr.ANY, rec.LoopLabel)
	return nil
}

// compileBreak/compileContinue implement `break loop`/`continue loop` (§4.D).
func (w *Walker) compileBreak() error {
	_, doneLabel, ok := w.builder.enclosingLoop()
	if !ok {
		return newError(NoEnclosingLoop, nil, "break outside any while/with-each statement")
	}
	w.builder.insertJump(instr.ANY, doneLabel)
	return nil
}

func (w *Walker) compileContinue() error {
	loopLabel, _, ok := w.builder.enclosingLoop()
	if !ok {
		return newError(NoEnclosingLoop, nil, "continue outside any while/with-each statement")
	}
	w.builder.insertJump(instr.ANY, loopLabel)
	return nil
}

// compileReturn/compileThrow implement `return e?`/`throw e` (§4.D).
func (w *Walker) compileReturn(c tree.ReturnClause) error {
	if c.Expr == nil {
		w.builder.insertPushLiteral(tree.Literal{Kind: tree.NoneKind, Text: "none"})
	} else if err := w.compileExpression(c.Expr); err != nil {
		return err
	}
	w.builder.insertHandle(instr.RESULT)
	return nil
}

func (w *Walker) compileThrow(c tree.ThrowClause) error {
	if err := w.compileExpression(c.Expr); err != nil {
		return err
	}
	w.builder.insertHandle(instr.EXCEPTION)
	return nil
}

// compilePublish implements `publish e` (§4.D).
func (w *Walker) compilePublish(c tree.PublishClause) error {
	if err := w.compileExpression(c.Expr); err != nil {
		return err
	}
	w.builder.insertStore(instr.MESSAGE, "$$eventQueue")
	return nil
}

// compilePost implements `post e on q` (§4.D).
func (w *Walker) compilePost(c tree.PostClause) error {
	queue := w.builder.newTemp("queue")
	if err := w.compileExpression(c.Queue); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, queue)
	if err := w.compileExpression(c.Expr); err != nil {
		return err
	}
	w.builder.insertStore(instr.MESSAGE, queue)
	return nil
}

// compileSave/compileCommit implement `save e to r`/`commit e to r` (§4.D).
func (w *Walker) compileSave(c tree.SaveClause) error {
	location := w.builder.newTemp("location")
	if err := w.compileExpression(c.Location); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, location)
	if err := w.compileExpression(c.Value); err != nil {
		return err
	}
	w.builder.insertStore(instr.DRAFT, location)
	return nil
}

func (w *Walker) compileCommit(c tree.CommitClause) error {
	location := w.builder.newTemp("location")
	if err := w.compileExpression(c.Location); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, location)
	if err := w.compileExpression(c.Value); err != nil {
		return err
	}
	w.builder.insertStore(instr.DOCUMENT, location)
	return nil
}

// compileDiscard implements `discard r` (§4.D).
func (w *Walker) compileDiscard(c tree.DiscardClause) error {
	location := w.builder.newTemp("location")
	if err := w.compileExpression(c.Location); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, location)
	w.builder.insertPushLiteral(tree.Literal{Kind: tree.NoneKind, Text: "none"})
	w.builder.insertStore(instr.DRAFT, location)
	return nil
}

// compileCheckout implements `checkout r from l` (§4.D).
func (w *Walker) compileCheckout(c tree.CheckoutClause) error {
	location := w.builder.newTemp("location")
	if err := w.compileExpression(c.Location); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, location)

	prep, err := w.prepareRecipient(c.Recipient)
	if err != nil {
		return err
	}
	w.builder.insertLoad(instr.DOCUMENT, location)
	return w.assignRecipient(c.Recipient, prep)
}

// compileWait implements `wait for r from q` (§4.D).
func (w *Walker) compileWait(c tree.WaitClause) error {
	queue := w.builder.newTemp("queue")
	if err := w.compileExpression(c.Queue); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, queue)

	prep, err := w.prepareRecipient(c.Recipient)
	if err != nil {
		return err
	}
	w.builder.insertLoad(instr.MESSAGE, queue)
	return w.assignRecipient(c.Recipient, prep)
}
