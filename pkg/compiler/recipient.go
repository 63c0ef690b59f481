package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/tree"
)

// recipientPrep is an opaque marker threaded from prepareRecipient to assignRecipient;
// it carries no data of its own since every preparatory instruction a recipient needs is
// already emitted by the time prepareRecipient returns.
type recipientPrep struct{}

// prepareRecipient processes a recipient ahead of compiling the value to assign it
// (§4.D "Recipients"): a bare variable needs no preparatory instructions, a
// subcomponent expression compiles its base and drills through all but the last index,
// leaving {parent, lastIndex} so assignRecipient can combine it with the value once
// compiled.
func (w *Walker) prepareRecipient(r tree.Recipient) (recipientPrep, error) {
	switch rec := r.(type) {
	case tree.VariableRecipient:
		return recipientPrep{}, nil
	case tree.SubcomponentRecipient:
		return recipientPrep{}, w.compileIndicesPrefix(rec.Base, rec.Indices)
	default:
		return recipientPrep{}, fmt.Errorf("/compiler/walker: unrecognized recipient: %T", r)
	}
}

// assignRecipient emits the instructions that store the value currently on top of the
// stack into the recipient prepared by prepareRecipient.
func (w *Walker) assignRecipient(r tree.Recipient, _ recipientPrep) error {
	switch rec := r.(type) {
	case tree.VariableRecipient:
		w.builder.insertStore(instr.VARIABLE, rec.Name)
		return nil
	case tree.SubcomponentRecipient:
		w.builder.insertInvoke(2, "$parameters")
		w.builder.insertExecute(instr.ON_TARGET_WITH_ARGUMENTS, "$setSubcomponent")
		return nil
	default:
		return fmt.Errorf("/compiler/walker: unrecognized recipient: %T", r)
	}
}

// compileIndicesPrefix compiles base then, for a chain of N index expressions, drills
// through the first N-1 via $getSubcomponent, leaving {parent, lastIndex} on the stack
// (§4.D "Indices"). Callers decide whether the remaining lastIndex is used to get or
// set the addressed child.
func (w *Walker) compileIndicesPrefix(base tree.Expression, indices []tree.Expression) error {
	if err := w.compileExpression(base); err != nil {
		return err
	}
	for _, idx := range indices[:len(indices)-1] {
		if err := w.compileExpression(idx); err != nil {
			return err
		}
		w.builder.insertInvoke(1, "$parameters")
		w.builder.insertExecute(instr.ON_TARGET_WITH_ARGUMENTS, "$getSubcomponent")
	}
	return w.compileExpression(indices[len(indices)-1])
}

// compileSubcomponentRead compiles a subcomponent expression used as a value (§4.D).
func (w *Walker) compileSubcomponentRead(base tree.Expression, indices []tree.Expression) error {
	if err := w.compileIndicesPrefix(base, indices); err != nil {
		return err
	}
	w.builder.insertInvoke(1, "$parameters")
	w.builder.insertExecute(instr.ON_TARGET_WITH_ARGUMENTS, "$getSubcomponent")
	return nil
}
