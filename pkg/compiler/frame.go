package compiler

import "strconv"

// Frame is one nested block of statements being compiled: the top-level procedure body
// and every nested block (a then/else block, a while body, a handler block, ...) each
// push their own Frame (§3 "stack of Procedure Frames", §4.C pushProcedureContext).
type Frame struct {
	// Prefix is this frame's dot-separated lineage string, already including the
	// trailing dot (e.g. "2.3."), used to derive every label inside it.
	Prefix string
	// StatementNumber is the 1-based index of the statement currently being
	// compiled within this frame.
	StatementNumber int
	// Current is the active statement record, nil between statements.
	Current *StatementRecord
}

// StatementRecord carries the derived labels and handler bookkeeping for the statement
// currently being compiled (§3).
type StatementRecord struct {
	Kind string // statement-kind label string, e.g. "IfStatement", "WhileStatement"

	StartLabel   string
	DoneLabel    string
	HandlerLabel string
	FailureLabel string
	SuccessLabel string
	LoopLabel    string // set only for while/with-each, used by break/continue

	HasHandlers   bool
	HasSubclauses bool

	// ClauseNumber is the next nested-block prefix component handed out by
	// childPrefix, advanced once per condition/option/handler block pushed; starts
	// at 1. Sub-clause label numbering is computed separately by the caller's own
	// loop index (subclauseLabelAt), not read from this field.
	ClauseNumber int
}

// childPrefix computes the prefix a nested block of the current statement should use,
// and advances ClauseNumber for the next sibling block (§4.C pushProcedureContext).
func (f *Frame) childPrefix() string {
	n := f.Current.ClauseNumber
	f.Current.ClauseNumber++
	return f.Prefix + strconv.Itoa(f.StatementNumber) + "." + strconv.Itoa(n) + "."
}

// newStatementRecord derives every label for a statement of the given kind, at its
// position in frame f (§4.C pushStatementContext).
func newStatementRecord(f *Frame, kind string, hasHandlers, hasSubclauses bool) *StatementRecord {
	base := f.Prefix + strconv.Itoa(f.StatementNumber) + "." + kind
	return &StatementRecord{
		Kind:          kind,
		StartLabel:    base,
		DoneLabel:     base + "Done",
		HandlerLabel:  base + "Handler",
		FailureLabel:  base + "Failure",
		SuccessLabel:  base + "Success",
		HasHandlers:   hasHandlers,
		HasSubclauses: hasSubclauses,
		ClauseNumber:  1,
	}
}

// subclauseLabelAt derives the label for the n-th (1-based) sub-clause of the current
// statement (e.g. "1.1.ConditionClause"). n is always supplied explicitly by the
// caller (the loop index over conditions/options/handlers) rather than read from
// ClauseNumber, which childPrefix advances independently for nested-block prefixes —
// keeping the two counters decoupled avoids a sub-clause label and its block's prefix
// drifting out of step when both are derived from the same mutable counter.
func (f *Frame) subclauseLabelAt(kind string, n int) string {
	return f.Prefix + strconv.Itoa(f.StatementNumber) + "." + strconv.Itoa(n) + "." + kind
}

// elseLabel derives the (unnumbered) else-branch label of the current statement.
func (f *Frame) elseLabel() string {
	return f.Prefix + strconv.Itoa(f.StatementNumber) + ".ElseClause"
}
