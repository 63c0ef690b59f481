package compiler

import (
	"fmt"

	"bali.dev/procedure-compiler/pkg/instr"
	"bali.dev/procedure-compiler/pkg/tree"
)

// operatorIntrinsics maps every OperatorExpr.Op spelling to the fixed intrinsic name
// invoked once its operands are compiled (§4.D "Expressions").
var operatorIntrinsics = map[string]string{
	"sum":        "$sum",
	"difference": "$difference",
	"product":    "$product",
	"quotient":   "$quotient",
	"remainder":  "$remainder",

	"isLessThan": "$isLessThan",
	"isEqualTo":  "$isEqualTo",
	"isMoreThan": "$isMoreThan",
	"isSameAs":   "$isSameAs",
	"isMatchedBy": "$isMatchedBy",

	"and": "$and",
	"sans": "$sans",
	"xor": "$xor",
	"or":  "$or",

	"concatenation": "$concatenation",
	"exponential":   "$exponential",
	"factorial":     "$factorial",
	"complement":    "$complement",
	"inverse":       "$inverse",
	"reciprocal":    "$reciprocal",
	"conjugate":     "$conjugate",
	"magnitude":     "$magnitude",
	"default":       "$default",
}

// compileExpression dispatches on expression kind and emits the instructions that leave
// its value on top of the stack (§4.D "Expressions").
func (w *Walker) compileExpression(expr tree.Expression) error {
	switch e := expr.(type) {
	case tree.LiteralExpr:
		return w.compileLiteral(e)
	case tree.VariableExpr:
		return w.compileVariable(e)
	case tree.OperatorExpr:
		return w.compileOperator(e)
	case tree.DereferenceExpr:
		return w.compileDereference(e)
	case tree.FunctionCallExpr:
		return w.compileFunctionCall(e)
	case tree.MessageCallExpr:
		return w.compileMessageCall(e)
	case tree.CollectionExpr:
		return w.compileCollection(e)
	case tree.RangeExpr:
		return w.compileRange(e)
	case tree.SubcomponentExpr:
		return w.compileSubcomponentRead(e.Base, e.Indices)
	case tree.SourceBlockExpr:
		return w.compileSourceBlock(e)
	default:
		return fmt.Errorf("/compiler/walker: unrecognized expression: %T", expr)
	}
}

// compileLiteral implements a literal element, including its optional parameters
// (§4.D).
func (w *Walker) compileLiteral(e tree.LiteralExpr) error {
	w.builder.insertPushLiteral(tree.Literal{Kind: e.Kind, Text: e.Text})
	if e.Parameters == nil {
		return nil
	}
	if err := w.compileExpression(e.Parameters); err != nil {
		return err
	}
	w.builder.insertInvoke(2, "$setParameters")
	return nil
}

// compileVariable resolves a bare name reference against the procedure's parameters,
// then the type's constants, falling back to a plain variable load (§4.D).
func (w *Walker) compileVariable(e tree.VariableExpr) error {
	for _, p := range w.builder.ctx.Parameters {
		if p == e.Name {
			w.builder.insertPushParameter(e.Name)
			return nil
		}
	}
	if _, ok := w.types.Constants.Get(e.Name); ok {
		w.builder.insertPushConstant(e.Name)
		return nil
	}
	w.builder.insertLoad(instr.VARIABLE, e.Name)
	return nil
}

// compileOperator recurses operands left-to-right, then invokes the fixed intrinsic
// named by e.Op (§4.D).
func (w *Walker) compileOperator(e tree.OperatorExpr) error {
	name, ok := operatorIntrinsics[e.Op]
	if !ok {
		return fmt.Errorf("/compiler/walker: unrecognized operator: %q", e.Op)
	}
	for _, operand := range e.Operands {
		if err := w.compileExpression(operand); err != nil {
			return err
		}
	}
	w.builder.insertInvoke(len(e.Operands), name)
	return nil
}

// compileDereference implements reference dereferencing (§4.D): compile the reference,
// STORE it to a fresh location temporary, LOAD DOCUMENT from it.
func (w *Walker) compileDereference(e tree.DereferenceExpr) error {
	location := w.builder.newTemp("location")
	if err := w.compileExpression(e.Reference); err != nil {
		return err
	}
	w.builder.insertStore(instr.VARIABLE, location)
	w.builder.insertLoad(instr.DOCUMENT, location)
	return nil
}

// compileFunctionCall implements a bare `name(args...)` call (§4.D): at most 3
// positional arguments, named arguments contribute only their value.
func (w *Walker) compileFunctionCall(e tree.FunctionCallExpr) error {
	if len(e.Args) > 3 {
		return newError(TooManyArguments, e, "function call to %q takes at most 3 arguments, got %d", e.Name, len(e.Args))
	}
	for _, arg := range e.Args {
		if err := w.compileExpression(arg.Value); err != nil {
			return err
		}
	}
	w.builder.insertInvoke(len(e.Args), "$"+e.Name)
	return nil
}

// compileMessageCall implements `target.message(args...)` (§4.D): the target is
// compiled first, the argument list is wrapped into a parameters container, and the
// message is dispatched via EXECUTE ON TARGET.
func (w *Walker) compileMessageCall(e tree.MessageCallExpr) error {
	if err := w.compileExpression(e.Target); err != nil {
		return err
	}
	if len(e.Args) == 0 {
		w.builder.insertExecute(instr.ON_TARGET, "$"+e.Message)
		return nil
	}
	for _, arg := range e.Args {
		if err := w.compileExpression(arg.Value); err != nil {
			return err
		}
	}
	w.builder.insertInvoke(len(e.Args), "$parameters")
	w.builder.insertExecute(instr.ON_TARGET_WITH_ARGUMENTS, "$"+e.Message)
	return nil
}

// collectionIntrinsics names the constructor intrinsic for each collection kind.
var collectionIntrinsics = map[tree.CollectionKind]string{
	tree.ListKind:    "$list",
	tree.SetKind:     "$set",
	tree.StackKind:   "$stack",
	tree.QueueKind:   "$queue",
	tree.CatalogKind: "$catalog",
}

// compileCollection implements list/set/stack/queue/catalog literals (§4.D).
func (w *Walker) compileCollection(e tree.CollectionExpr) error {
	name, ok := collectionIntrinsics[e.Kind]
	if !ok {
		return fmt.Errorf("/compiler/walker: unrecognized collection kind: %q", e.Kind)
	}

	argc := 0
	if e.Parameters != nil {
		if err := w.compileExpression(e.Parameters); err != nil {
			return err
		}
		argc = 1
	}
	w.builder.insertInvoke(argc, name)

	for _, item := range e.Items {
		if assoc, ok := item.(tree.AssociationExpr); ok {
			if err := w.compileExpression(assoc.Key); err != nil {
				return err
			}
			if err := w.compileExpression(assoc.Value); err != nil {
				return err
			}
			w.builder.insertInvoke(2, "$association")
		} else if err := w.compileExpression(item); err != nil {
			return err
		}
		w.builder.insertInvoke(2, "$addItem")
	}
	return nil
}

// compileRange implements `first..last` (with optional parameters) (§4.D).
func (w *Walker) compileRange(e tree.RangeExpr) error {
	if err := w.compileExpression(e.First); err != nil {
		return err
	}
	if err := w.compileExpression(e.Last); err != nil {
		return err
	}
	argc := 2
	if e.Parameters != nil {
		if err := w.compileExpression(e.Parameters); err != nil {
			return err
		}
		argc = 3
	}
	w.builder.insertInvoke(argc, "$range")
	return nil
}

// compileSourceBlock pushes a procedure block used as a first-class value, as a literal
// source-text token carrying its optional parameters (§4.D).
func (w *Walker) compileSourceBlock(e tree.SourceBlockExpr) error {
	w.builder.insertPushLiteral(tree.Literal{Kind: tree.Symbol, Text: e.Source})
	if e.Parameters == nil {
		return nil
	}
	if err := w.compileExpression(e.Parameters); err != nil {
		return err
	}
	w.builder.insertInvoke(2, "$setParameters")
	return nil
}
