// Package intrinsics implements the §4.G intrinsic index: the fixed, ordered table
// mapping an intrinsic name to its bytecode index, plus a small runnable value model so
// every entry's implementation can be exercised by tests instead of sitting as a bare
// stub. The actual runtime processor that drives these implementations against live
// procedure state is out of scope; this package only stands in for its primitive
// operation set, the same way pkg/hack/codegen.go's BuiltInTable stands in for the Hack
// platform's fixed register set.
package intrinsics

import "fmt"

// Value is the runtime value model every intrinsic implementation operates on. It
// mirrors the handful of Bali primitive kinds §4.D's intrinsic names require an
// argument/return shape for.
type Value interface {
	Kind() string
}

// Number is a Bali numeric value. Bali supports a wider numeric tower (rationals,
// complex numbers, probabilities); this package only needs the real-valued subset to
// give the arithmetic intrinsics a body.
type Number struct{ Value float64 }

func (Number) Kind() string { return "number" }

// Text is a Bali text value.
type Text struct{ Value string }

func (Text) Kind() string { return "text" }

// Boolean is a Bali boolean value.
type Boolean struct{ Value bool }

func (Boolean) Kind() string { return "boolean" }

// Symbol is a Bali symbol value (a bare name, distinct from Text).
type Symbol struct{ Value string }

func (Symbol) Kind() string { return "symbol" }

// NoneValue is Bali's "none" value.
type NoneValue struct{}

func (NoneValue) Kind() string { return "none" }

// Association is a single key/value pairing, as produced by $association and consumed
// by a catalog's $addItem.
type Association struct {
	Key   Value
	Value Value
}

func (Association) Kind() string { return "association" }

// List is an ordered, indexable, duplicate-tolerant collection.
type List struct{ Items []Value }

func (List) Kind() string { return "list" }

// Set is an ordered, duplicate-free collection.
type Set struct{ Items []Value }

func (Set) Kind() string { return "set" }

// Stack is a LIFO collection.
type Stack struct{ Items []Value }

func (Stack) Kind() string { return "stack" }

// Queue is a FIFO collection.
type Queue struct{ Items []Value }

func (Queue) Kind() string { return "queue" }

// Catalog is an ordered collection of key/value associations.
type Catalog struct{ Entries []Association }

func (Catalog) Kind() string { return "catalog" }

// equal reports whether a and b carry the same kind and value. Collections compare
// element-wise; there is no deep structural-pattern matching here, that belongs to the
// out-of-scope runtime processor.
func equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Number:
		return av.Value == b.(Number).Value
	case Text:
		return av.Value == b.(Text).Value
	case Boolean:
		return av.Value == b.(Boolean).Value
	case Symbol:
		return av.Value == b.(Symbol).Value
	case NoneValue:
		return true
	case List:
		return equalItems(av.Items, b.(List).Items)
	case Set:
		return equalItems(av.Items, b.(Set).Items)
	case Stack:
		return equalItems(av.Items, b.(Stack).Items)
	case Queue:
		return equalItems(av.Items, b.(Queue).Items)
	case Catalog:
		bv := b.(Catalog)
		if len(av.Entries) != len(bv.Entries) {
			return false
		}
		for i, e := range av.Entries {
			if !equal(e.Key, bv.Entries[i].Key) || !equal(e.Value, bv.Entries[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalItems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// text renders a value's display form, used by $concatenation and $isMatchedBy.
func text(v Value) string {
	switch t := v.(type) {
	case Text:
		return t.Value
	case Symbol:
		return t.Value
	case Number:
		return fmt.Sprintf("%v", t.Value)
	case Boolean:
		return fmt.Sprintf("%v", t.Value)
	case NoneValue:
		return "none"
	default:
		return fmt.Sprintf("%v", v)
	}
}
