package tree

import (
	"encoding/json"
	"fmt"
)

// DecodeProcedure decodes a Procedure from its JSON fixture representation. This is the
// stand-in for "wherever the tree comes from" (the actual source-document parser is an
// external collaborator, out of scope per spec.md §1), grounded on the teacher's
// `go:embed` + `json.Unmarshal` pattern (`pkg/jack/stdlib.go`), generalized here to a
// recursive, tagged-variant decode since our node family is polymorphic (interface
// fields) rather than the teacher's flat ABI table.
func DecodeProcedure(data []byte) (Procedure, error) {
	var raw struct {
		Parameters []string          `json:"parameters"`
		Statements []json.RawMessage `json:"statements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Procedure{}, fmt.Errorf("decoding procedure: %w", err)
	}

	statements, err := decodeStatements(raw.Statements)
	if err != nil {
		return Procedure{}, err
	}

	return Procedure{Parameters: raw.Parameters, Statements: statements}, nil
}

func decodeStatements(raws []json.RawMessage) ([]Statement, error) {
	out := make([]Statement, 0, len(raws))
	for _, raw := range raws {
		stmt, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

type nodeEnvelope struct {
	Kind string `json:"kind"`
}

func decodeStatement(raw json.RawMessage) (Statement, error) {
	var env struct {
		nodeEnvelope
		Handlers []json.RawMessage `json:"handlers"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Statement{}, fmt.Errorf("decoding statement envelope: %w", err)
	}

	clause, err := decodeStatementClause(env.Kind, raw)
	if err != nil {
		return Statement{}, err
	}

	handlers := make([]HandleClause, 0, len(env.Handlers))
	for _, hraw := range env.Handlers {
		h, err := decodeHandleClause(hraw)
		if err != nil {
			return Statement{}, err
		}
		handlers = append(handlers, h)
	}

	return Statement{Clause: clause, Handlers: handlers}, nil
}

func decodeHandleClause(raw json.RawMessage) (HandleClause, error) {
	var body struct {
		Symbol     string            `json:"symbol"`
		Template   json.RawMessage   `json:"template"`
		Statements []json.RawMessage `json:"statements"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return HandleClause{}, fmt.Errorf("decoding handle clause: %w", err)
	}

	template, err := decodeExpression(body.Template)
	if err != nil {
		return HandleClause{}, err
	}
	block, err := decodeStatements(body.Statements)
	if err != nil {
		return HandleClause{}, err
	}

	return HandleClause{Symbol: body.Symbol, Template: template, Block: block}, nil
}

func decodeStatementClause(kind string, raw json.RawMessage) (StatementClause, error) {
	switch kind {
	case "Evaluate":
		var body struct {
			Recipient json.RawMessage `json:"recipient"`
			Expr      json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		recipient, err := decodeRecipient(body.Recipient)
		if err != nil {
			return nil, err
		}
		expr, err := decodeExpression(body.Expr)
		if err != nil {
			return nil, err
		}
		return EvaluateClause{Recipient: recipient, Expr: expr}, nil

	case "If":
		var body struct {
			Conditions []struct {
				Condition  json.RawMessage   `json:"condition"`
				Statements []json.RawMessage `json:"statements"`
			} `json:"conditions"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		conditions := make([]ConditionClause, 0, len(body.Conditions))
		for _, c := range body.Conditions {
			cond, err := decodeExpression(c.Condition)
			if err != nil {
				return nil, err
			}
			block, err := decodeStatements(c.Statements)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, ConditionClause{Condition: cond, Block: block})
		}
		elseBlock, err := decodeStatements(body.Else)
		if err != nil {
			return nil, err
		}
		return IfClause{Conditions: conditions, Else: elseBlock}, nil

	case "Select":
		var body struct {
			Selector json.RawMessage `json:"selector"`
			Options  []struct {
				Option     json.RawMessage   `json:"option"`
				Statements []json.RawMessage `json:"statements"`
			} `json:"options"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		selector, err := decodeExpression(body.Selector)
		if err != nil {
			return nil, err
		}
		options := make([]OptionClause, 0, len(body.Options))
		for _, o := range body.Options {
			opt, err := decodeExpression(o.Option)
			if err != nil {
				return nil, err
			}
			block, err := decodeStatements(o.Statements)
			if err != nil {
				return nil, err
			}
			options = append(options, OptionClause{Option: opt, Block: block})
		}
		elseBlock, err := decodeStatements(body.Else)
		if err != nil {
			return nil, err
		}
		return SelectClause{Selector: selector, Options: options, Else: elseBlock}, nil

	case "While":
		var body struct {
			Condition  json.RawMessage   `json:"condition"`
			Statements []json.RawMessage `json:"statements"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(body.Condition)
		if err != nil {
			return nil, err
		}
		block, err := decodeStatements(body.Statements)
		if err != nil {
			return nil, err
		}
		return WhileClause{Condition: cond, Block: block}, nil

	case "WithEach":
		var body struct {
			ItemVar    string            `json:"itemVar"`
			Sequence   json.RawMessage   `json:"sequence"`
			Statements []json.RawMessage `json:"statements"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		seq, err := decodeExpression(body.Sequence)
		if err != nil {
			return nil, err
		}
		block, err := decodeStatements(body.Statements)
		if err != nil {
			return nil, err
		}
		return WithEachClause{ItemVar: body.ItemVar, Sequence: seq, Block: block}, nil

	case "Break":
		return BreakClause{}, nil

	case "Continue":
		return ContinueClause{}, nil

	case "Return":
		var body struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		expr, err := decodeOptionalExpression(body.Expr)
		if err != nil {
			return nil, err
		}
		return ReturnClause{Expr: expr}, nil

	case "Throw":
		var body struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		expr, err := decodeExpression(body.Expr)
		if err != nil {
			return nil, err
		}
		return ThrowClause{Expr: expr}, nil

	case "Publish":
		var body struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		expr, err := decodeExpression(body.Expr)
		if err != nil {
			return nil, err
		}
		return PublishClause{Expr: expr}, nil

	case "Post":
		var body struct {
			Expr  json.RawMessage `json:"expr"`
			Queue json.RawMessage `json:"queue"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		expr, err := decodeExpression(body.Expr)
		if err != nil {
			return nil, err
		}
		queue, err := decodeExpression(body.Queue)
		if err != nil {
			return nil, err
		}
		return PostClause{Expr: expr, Queue: queue}, nil

	case "Save", "Commit":
		var body struct {
			Value    json.RawMessage `json:"value"`
			Location json.RawMessage `json:"location"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		value, err := decodeExpression(body.Value)
		if err != nil {
			return nil, err
		}
		location, err := decodeExpression(body.Location)
		if err != nil {
			return nil, err
		}
		if kind == "Save" {
			return SaveClause{Value: value, Location: location}, nil
		}
		return CommitClause{Value: value, Location: location}, nil

	case "Discard":
		var body struct {
			Location json.RawMessage `json:"location"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		location, err := decodeExpression(body.Location)
		if err != nil {
			return nil, err
		}
		return DiscardClause{Location: location}, nil

	case "Checkout":
		var body struct {
			Recipient json.RawMessage `json:"recipient"`
			Location  json.RawMessage `json:"location"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		recipient, err := decodeRecipient(body.Recipient)
		if err != nil {
			return nil, err
		}
		location, err := decodeExpression(body.Location)
		if err != nil {
			return nil, err
		}
		return CheckoutClause{Recipient: recipient, Location: location}, nil

	case "Wait":
		var body struct {
			Recipient json.RawMessage `json:"recipient"`
			Queue     json.RawMessage `json:"queue"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		recipient, err := decodeRecipient(body.Recipient)
		if err != nil {
			return nil, err
		}
		queue, err := decodeExpression(body.Queue)
		if err != nil {
			return nil, err
		}
		return WaitClause{Recipient: recipient, Queue: queue}, nil

	default:
		return nil, fmt.Errorf("unrecognized statement kind %q", kind)
	}
}

func decodeOptionalExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeRecipient(raw json.RawMessage) (Recipient, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var env nodeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding recipient envelope: %w", err)
	}

	switch env.Kind {
	case "Variable":
		var body struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return VariableRecipient{Name: body.Name}, nil

	case "Subcomponent":
		var body struct {
			Base    json.RawMessage   `json:"base"`
			Indices []json.RawMessage `json:"indices"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		base, err := decodeExpression(body.Base)
		if err != nil {
			return nil, err
		}
		indices, err := decodeExpressions(body.Indices)
		if err != nil {
			return nil, err
		}
		return SubcomponentRecipient{Base: base, Indices: indices}, nil

	default:
		return nil, fmt.Errorf("unrecognized recipient kind %q", env.Kind)
	}
}

func decodeExpressions(raws []json.RawMessage) ([]Expression, error) {
	out := make([]Expression, 0, len(raws))
	for _, raw := range raws {
		expr, err := decodeExpression(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeExpression(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var env nodeEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding expression envelope: %w", err)
	}

	switch env.Kind {
	case "Literal":
		var body struct {
			Kind       string          `json:"literalKind"`
			Text       string          `json:"text"`
			Parameters json.RawMessage `json:"parameters"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		params, err := decodeOptionalExpression(body.Parameters)
		if err != nil {
			return nil, err
		}
		return LiteralExpr{Kind: LiteralKind(body.Kind), Text: body.Text, Parameters: params}, nil

	case "Variable":
		var body struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		return VariableExpr{Name: body.Name}, nil

	case "Operator":
		var body struct {
			Op       string            `json:"op"`
			Operands []json.RawMessage `json:"operands"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		operands, err := decodeExpressions(body.Operands)
		if err != nil {
			return nil, err
		}
		return OperatorExpr{Op: body.Op, Operands: operands}, nil

	case "Dereference":
		var body struct {
			Reference json.RawMessage `json:"reference"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		ref, err := decodeExpression(body.Reference)
		if err != nil {
			return nil, err
		}
		return DereferenceExpr{Reference: ref}, nil

	case "FunctionCall":
		var body struct {
			Name string        `json:"name"`
			Args []argJSON `json:"args"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		args, err := decodeArgs(body.Args)
		if err != nil {
			return nil, err
		}
		return FunctionCallExpr{Name: body.Name, Args: args}, nil

	case "MessageCall":
		var body struct {
			Target  json.RawMessage `json:"target"`
			Message string          `json:"message"`
			Args    []argJSON       `json:"args"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		target, err := decodeExpression(body.Target)
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(body.Args)
		if err != nil {
			return nil, err
		}
		return MessageCallExpr{Target: target, Message: body.Message, Args: args}, nil

	case "Collection":
		var body struct {
			CollectionKind string            `json:"collectionKind"`
			Parameters     json.RawMessage   `json:"parameters"`
			Items          []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		params, err := decodeOptionalExpression(body.Parameters)
		if err != nil {
			return nil, err
		}

		var items []Expression
		if CollectionKind(body.CollectionKind) == CatalogKind {
			for _, iraw := range body.Items {
				var assoc struct {
					Key   json.RawMessage `json:"key"`
					Value json.RawMessage `json:"value"`
				}
				if err := json.Unmarshal(iraw, &assoc); err != nil {
					return nil, err
				}
				key, err := decodeExpression(assoc.Key)
				if err != nil {
					return nil, err
				}
				value, err := decodeExpression(assoc.Value)
				if err != nil {
					return nil, err
				}
				items = append(items, AssociationExpr{Key: key, Value: value})
			}
		} else {
			items, err = decodeExpressions(body.Items)
			if err != nil {
				return nil, err
			}
		}

		return CollectionExpr{Kind: CollectionKind(body.CollectionKind), Parameters: params, Items: items}, nil

	case "Range":
		var body struct {
			First      json.RawMessage `json:"first"`
			Last       json.RawMessage `json:"last"`
			Parameters json.RawMessage `json:"parameters"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		first, err := decodeExpression(body.First)
		if err != nil {
			return nil, err
		}
		last, err := decodeExpression(body.Last)
		if err != nil {
			return nil, err
		}
		params, err := decodeOptionalExpression(body.Parameters)
		if err != nil {
			return nil, err
		}
		return RangeExpr{First: first, Last: last, Parameters: params}, nil

	case "Subcomponent":
		var body struct {
			Base    json.RawMessage   `json:"base"`
			Indices []json.RawMessage `json:"indices"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		base, err := decodeExpression(body.Base)
		if err != nil {
			return nil, err
		}
		indices, err := decodeExpressions(body.Indices)
		if err != nil {
			return nil, err
		}
		return SubcomponentExpr{Base: base, Indices: indices}, nil

	case "SourceBlock":
		var body struct {
			Source     string          `json:"source"`
			Parameters json.RawMessage `json:"parameters"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, err
		}
		params, err := decodeOptionalExpression(body.Parameters)
		if err != nil {
			return nil, err
		}
		return SourceBlockExpr{Source: body.Source, Parameters: params}, nil

	default:
		return nil, fmt.Errorf("unrecognized expression kind %q", env.Kind)
	}
}

type argJSON struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func decodeArgs(raws []argJSON) ([]Argument, error) {
	out := make([]Argument, 0, len(raws))
	for _, a := range raws {
		value, err := decodeExpression(a.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, Argument{Key: a.Key, Value: value})
	}
	return out, nil
}
