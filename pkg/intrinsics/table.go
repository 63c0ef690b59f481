package intrinsics

// Entry is one row of the intrinsic index (§4.G): its bytecode name, its arity (for the
// entries that take a variable number of arguments — the collection constructors,
// $range, $parameters — the fewest arguments the Impl accepts; informational only, the
// Impl itself validates what it's given), and the implementation INVOKE ultimately
// dispatches to.
type Entry struct {
	Name  string
	Arity int
	Impl  func(args []Value) (Value, error)
}

// Table is the fixed, ordered intrinsic index. Index 0 is reserved and unused; entry i
// (i >= 1) sits at Table[i]. The ordering is part of the binary contract: once assigned,
// an entry's position must never change, since compiled bytecode refers to intrinsics by
// index (§4.G).
type Table []Entry

// names is the authoritative, exhaustive intrinsic name list (§4.D, supplemented per
// SPEC_FULL.md's note that this list is treated as complete for pkg/intrinsics). Order
// here fixes each name's bytecode index and must never be reshuffled once published.
var names = []string{
	"$sum", "$difference", "$product", "$quotient", "$remainder",
	"$isLessThan", "$isEqualTo", "$isMoreThan", "$isSameAs", "$isMatchedBy",
	"$and", "$sans", "$xor", "$or",
	"$concatenation", "$exponential", "$factorial", "$complement",
	"$inverse", "$reciprocal", "$conjugate", "$magnitude", "$default",
	"$list", "$set", "$stack", "$queue", "$catalog",
	"$addItem", "$association", "$range", "$parameters", "$setParameters",
}

var impls = map[string]struct {
	arity int
	impl  func(args []Value) (Value, error)
}{
	"$sum":           {2, sum},
	"$difference":    {2, difference},
	"$product":       {2, product},
	"$quotient":      {2, quotient},
	"$remainder":     {2, remainder},
	"$isLessThan":    {2, isLessThan},
	"$isEqualTo":     {2, isEqualTo},
	"$isMoreThan":    {2, isMoreThan},
	"$isSameAs":      {2, isSameAs},
	"$isMatchedBy":   {2, isMatchedBy},
	"$and":           {2, and},
	"$sans":          {2, sans},
	"$xor":           {2, xor},
	"$or":            {2, or},
	"$concatenation": {2, concatenation},
	"$exponential":   {2, exponential},
	"$factorial":     {1, factorial},
	"$complement":    {1, complement},
	"$inverse":       {1, inverse},
	"$reciprocal":    {1, reciprocal},
	"$conjugate":     {1, conjugate},
	"$magnitude":     {1, magnitude},
	"$default":       {2, defaultValue},
	"$list":          {0, newList},
	"$set":           {0, newSet},
	"$stack":         {0, newStack},
	"$queue":         {0, newQueue},
	"$catalog":       {0, newCatalog},
	"$addItem":       {2, addItem},
	"$association":   {2, association},
	"$range":         {2, rangeOf},
	"$parameters":    {0, parameters},
	"$setParameters": {2, setParameters},
}

// NewTable builds the intrinsic index in its fixed, published order.
func NewTable() Table {
	table := make(Table, len(names)+1)
	for i, name := range names {
		entry := impls[name]
		table[i+1] = Entry{Name: name, Arity: entry.arity, Impl: entry.impl}
	}
	return table
}

// IndexOf returns name's 1-based position in the table, satisfying
// pkg/assembler.IntrinsicIndex.
func (t Table) IndexOf(name string) (int, bool) {
	for i := 1; i < len(t); i++ {
		if t[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// ByIndex returns the entry at the given 1-based index.
func (t Table) ByIndex(index int) (Entry, bool) {
	if index < 1 || index >= len(t) {
		return Entry{}, false
	}
	return t[index], true
}

// Invoke looks name up and calls its implementation with args.
func (t Table) Invoke(name string, args []Value) (Value, error) {
	index, ok := t.IndexOf(name)
	if !ok {
		return nil, newError(ArgumentValue, name, -1, "unknown intrinsic")
	}
	return t[index].Impl(args)
}
