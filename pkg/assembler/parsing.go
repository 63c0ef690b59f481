package assembler

import (
	"fmt"
	"io"
	"os"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Parser Combinator(s)

// This section defines the Parser Combinator for every token & instruction of the
// canonical assembly grammar (§6).

// Top level object, will generate the traversable AST based on the input plus the PCs below.
var ast = pc.NewAST("assembler", 0)

var (
	// Parser combinator for an entire assembly document (a sequence of steps).
	pDocument = ast.ManyUntil("document", nil, pStep, pc.End())

	// Parser combinator for one step: an optional label declaration, then one instruction.
	pStep = ast.And("step", nil, ast.Maybe("maybe-label", nil, pLabelDecl), pInstruction)
	// Parser combinator for a label declaration line prefix ("L:").
	pLabelDecl = ast.And("label-decl", nil, pLabel, pc.Atom(":", ":"))

	// Parser combinator for a generic instruction (one of the nine opcodes).
	pInstruction = ast.OrdChoice("instruction", nil,
		pSkip, pJump, pPushHandler, pPushLiteral, pPushCC, pPop, pLoadStore, pInvoke, pExecute, pHandle,
	)

	pSkip = ast.And("skip", nil, pc.Atom("SKIP", "SKIP"), pc.Atom("INSTRUCTION", "INSTRUCTION"))

	pJump = ast.And("jump", nil,
		pc.Atom("JUMP", "JUMP"), pc.Atom("TO", "TO"), pLabel,
		ast.Maybe("maybe-on", nil, ast.And("on-clause", nil, pc.Atom("ON", "ON"), pJumpModifier)),
	)
	pJumpModifier = ast.OrdChoice("jump-mod", nil,
		pc.Atom("NONE", "NONE"), pc.Atom("TRUE", "TRUE"), pc.Atom("FALSE", "FALSE"),
	)

	pPushHandler = ast.And("push-handler", nil, pc.Atom("PUSH", "PUSH"), pc.Atom("HANDLER", "HANDLER"), pLabel)
	pPushLiteral = ast.And("push-literal", nil, pc.Atom("PUSH", "PUSH"), pc.Atom("LITERAL", "LITERAL"), pLiteralText)
	pPushCC      = ast.And("push-cc", nil, pc.Atom("PUSH", "PUSH"), pPushNamespace, pSymbol)
	pPushNamespace = ast.OrdChoice("push-ns", nil, pc.Atom("CONSTANT", "CONSTANT"), pc.Atom("PARAMETER", "PARAMETER"))

	pPop       = ast.And("pop", nil, pc.Atom("POP", "POP"), pPopTarget)
	pPopTarget = ast.OrdChoice("pop-target", nil, pc.Atom("HANDLER", "HANDLER"), pc.Atom("COMPONENT", "COMPONENT"))

	pLoadStore   = ast.And("load-store", nil, pLoadStoreOp, pNamespace, pSymbol)
	pLoadStoreOp = ast.OrdChoice("load-store-op", nil, pc.Atom("LOAD", "LOAD"), pc.Atom("STORE", "STORE"))
	pNamespace   = ast.OrdChoice("namespace", nil,
		pc.Atom("VARIABLE", "VARIABLE"), pc.Atom("MESSAGE", "MESSAGE"),
		pc.Atom("DRAFT", "DRAFT"), pc.Atom("DOCUMENT", "DOCUMENT"),
	)

	pInvoke = ast.And("invoke", nil, pc.Atom("INVOKE", "INVOKE"), pSymbol,
		ast.Maybe("maybe-invoke-args", nil, ast.OrdChoice("invoke-args", nil,
			ast.And("invoke-one", nil, pc.Atom("WITH", "WITH"), pc.Atom("PARAMETER", "PARAMETER")),
			ast.And("invoke-n", nil, pc.Atom("WITH", "WITH"), pc.Int(), pc.Atom("PARAMETERS", "PARAMETERS")),
		)),
	)

	pExecute = ast.And("execute", nil, pc.Atom("EXECUTE", "EXECUTE"), pSymbol,
		ast.Maybe("maybe-execute-args", nil, ast.OrdChoice("execute-args", nil,
			ast.And("execute-with", nil, pc.Atom("WITH", "WITH"), pc.Atom("PARAMETERS", "PARAMETERS")),
			ast.And("execute-on-target", nil, pc.Atom("ON", "ON"), pc.Atom("TARGET", "TARGET"),
				ast.Maybe("maybe-execute-on-target-with", nil,
					ast.And("execute-on-target-with", nil, pc.Atom("WITH", "WITH"), pc.Atom("PARAMETERS", "PARAMETERS"))),
			),
		)),
	)

	pHandle       = ast.And("handle", nil, pc.Atom("HANDLE", "HANDLE"), pHandleTarget)
	pHandleTarget = ast.OrdChoice("handle-target", nil, pc.Atom("EXCEPTION", "EXCEPTION"), pc.Atom("RESULT", "RESULT"))
)

var (
	// Generic label parser (used for both a standalone label declaration and a JUMP/
	// PUSH HANDLER label reference). Builder-derived labels are statement-numbered
	// ("1.ReturnStatement", "1.1.ConditionClause"), so a label may begin with a digit.
	pLabel = pc.Token(`[A-Za-z0-9][A-Za-z0-9_.$]*`, "LABEL")
	// Generic symbol parser: always starts with '$' (§6 "S = symbol starting $").
	// One or more leading '$' (the compiler's internal temporaries and implicit result
	// variable are double-dollar, e.g. "$$result", "$$location-1") followed by letters,
	// digits and hyphens.
	pSymbol = pc.Token(`\$+[A-Za-z][A-Za-z0-9-]*`, "SYMBOL")
	// Backtick-quoted literal text, as emitted by the formatter for PUSH LITERAL.
	pLiteralText = pc.Token("`[^`]*`", "LITERALTEXT")
)

// ----------------------------------------------------------------------------
// Assembler Parser

// Parser turns canonical assembly text into a Program of Step records.
//
// It uses parser combinators to obtain the AST from the source code, the library reads
// up the feature flags (as env vars):
// - PARSEC_DEBUG: Verbose logging to inspect which of the PCs gets triggered and match
// - EXPORT_AST:   Exports in the DEBUG_FOLDER a Graphviz representation of the AST
// - PRINT_AST:    Print on the stdout a textual representation of the AST
type Parser struct{ reader io.Reader }

// NewParser returns a Parser reading canonical assembly text from r.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parse divides the two phases of the parsing pipeline: text to AST via the parser
// combinators above, then AST to Program by walking the resulting tree.
func (p *Parser) Parse() (Program, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("/assembler/parser: cannot read input: %w", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return nil, newError(ParseError, -1, "failed to parse AST from input content")
	}

	return p.FromAST(root)
}

// FromSource scans source and returns the traversable AST produced by pDocument.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, _ := ast.Parsewith(pDocument, pc.NewScanner(source))

	if os.Getenv("EXPORT_AST") != "" {
		file, _ := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		defer file.Close()
		file.Write([]byte(ast.Dotstring("\"Assembler AST\"")))
	}
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}
	return root, root != nil
}

// FromAST walks the root "document" node and extracts one Step per "step" child.
func (p *Parser) FromAST(root pc.Queryable) (Program, error) {
	if root.GetName() != "document" {
		return nil, newError(ParseError, -1, "expected node 'document', found %s", root.GetName())
	}

	program := make(Program, 0, len(root.GetChildren()))
	for i, child := range root.GetChildren() {
		if child.GetName() != "step" {
			return nil, newError(ParseError, i, "expected node 'step', found %s", child.GetName())
		}
		step, err := p.HandleStep(child)
		if err != nil {
			return nil, err
		}
		program = append(program, step)
	}
	return program, nil
}

// HandleStep converts a "step" node into a Step, extracting the optional label and
// dispatching the instruction node by its matched-alternative name.
func (p *Parser) HandleStep(node pc.Queryable) (Step, error) {
	children := node.GetChildren()
	if len(children) != 2 {
		return Step{}, newError(ParseError, -1, "expected node 'step' with 2 children, got %d", len(children))
	}
	labelNode, instNode := children[0], children[1]

	step := Step{}
	if labelNode.GetName() == "label-decl" {
		lchildren := labelNode.GetChildren()
		if len(lchildren) != 2 {
			return Step{}, newError(ParseError, -1, "expected node 'label-decl' with 2 children, got %d", len(lchildren))
		}
		step.Label = lchildren[0].GetValue()
	}

	switch instNode.GetName() {
	case "skip":
		step.Op = "SKIP"
	case "jump":
		children := instNode.GetChildren()
		step.Op, step.Operand = "JUMP", children[2].GetValue()
		if onClause := children[3]; onClause.GetName() == "on-clause" {
			step.Modifier = onClause.GetChildren()[1].GetValue()
		}
	case "push-handler":
		children := instNode.GetChildren()
		step.Op, step.Modifier, step.Operand = "PUSH", "HANDLER", children[2].GetValue()
	case "push-literal":
		children := instNode.GetChildren()
		text := children[2].GetValue()
		step.Op, step.Modifier, step.Operand = "PUSH", "LITERAL", trimBackticks(text)
	case "push-cc":
		children := instNode.GetChildren()
		step.Op, step.Modifier, step.Operand = "PUSH", children[1].GetValue(), children[2].GetValue()
	case "pop":
		children := instNode.GetChildren()
		step.Op, step.Modifier = "POP", children[1].GetValue()
	case "load-store":
		children := instNode.GetChildren()
		step.Op, step.Modifier, step.Operand = children[0].GetValue(), children[1].GetValue(), children[2].GetValue()
	case "invoke":
		children := instNode.GetChildren()
		step.Op, step.Operand = "INVOKE", children[1].GetValue()
		if len(children) > 2 {
			step.Modifier = handleInvokeArgs(children[2])
		} else {
			step.Modifier = "0"
		}
	case "execute":
		children := instNode.GetChildren()
		step.Op, step.Operand = "EXECUTE", children[1].GetValue()
		if len(children) > 2 {
			step.Modifier = handleExecuteArgs(children[2])
		} else {
			step.Modifier = "WITH_NOTHING"
		}
	case "handle":
		children := instNode.GetChildren()
		step.Op, step.Modifier = "HANDLE", children[1].GetValue()
	default:
		return Step{}, newError(ParseError, -1, "unrecognized instruction node '%s'", instNode.GetName())
	}

	return step, nil
}

// handleInvokeArgs extracts the literal argument count from an INVOKE's optional
// "WITH PARAMETER"/"WITH n PARAMETERS" clause.
func handleInvokeArgs(node pc.Queryable) string {
	switch node.GetName() {
	case "invoke-one":
		return "1"
	case "invoke-n":
		return node.GetChildren()[1].GetValue()
	default:
		return "0"
	}
}

// handleExecuteArgs maps an EXECUTE's optional calling-convention clause to the
// instr.Modifier spelling used by the resolver.
func handleExecuteArgs(node pc.Queryable) string {
	switch node.GetName() {
	case "execute-with":
		return "WITH_ARGUMENTS"
	case "execute-on-target":
		children := node.GetChildren()
		if len(children) > 2 && children[2].GetName() == "execute-on-target-with" {
			return "ON_TARGET_WITH_ARGUMENTS"
		}
		return "ON_TARGET"
	default:
		return "WITH_NOTHING"
	}
}

func trimBackticks(s string) string {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return s[1 : len(s)-1]
	}
	return s
}
