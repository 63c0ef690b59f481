package intrinsics

// concatenation implements $concatenation over text and over the four sequential
// collection kinds (catalogs don't concatenate; there's no ordering to splice).
func concatenation(args []Value) (Value, error) {
	a, b := args[0], args[1]
	if a.Kind() != b.Kind() {
		return nil, newError(SameType, "$concatenation", -1, "expected matching kinds, got %s and %s", a.Kind(), b.Kind())
	}
	switch av := a.(type) {
	case Text:
		return Text{Value: av.Value + b.(Text).Value}, nil
	case List:
		return List{Items: append(append([]Value{}, av.Items...), b.(List).Items...)}, nil
	case Set:
		result := Set{Items: append([]Value{}, av.Items...)}
		for _, item := range b.(Set).Items {
			result = appendSet(result, item)
		}
		return result, nil
	case Stack:
		return Stack{Items: append(append([]Value{}, av.Items...), b.(Stack).Items...)}, nil
	case Queue:
		return Queue{Items: append(append([]Value{}, av.Items...), b.(Queue).Items...)}, nil
	default:
		return nil, newError(ArgumentType, "$concatenation", 0, "cannot concatenate %s values", a.Kind())
	}
}

// newList, newSet, newStack, newQueue, newCatalog implement the five collection
// constructor intrinsics (§4.D "Collections"): each accepts zero arguments, or one
// (the collection literal's parameters element, which this model does not interpret
// further), and returns an empty collection of its kind. Items are added afterward, one
// at a time, via $addItem.
func newList(args []Value) (Value, error) {
	if len(args) > 1 {
		return nil, wrongArity("$list", "0 or 1", len(args))
	}
	return List{}, nil
}

func newSet(args []Value) (Value, error) {
	if len(args) > 1 {
		return nil, wrongArity("$set", "0 or 1", len(args))
	}
	return Set{}, nil
}

func newStack(args []Value) (Value, error) {
	if len(args) > 1 {
		return nil, wrongArity("$stack", "0 or 1", len(args))
	}
	return Stack{}, nil
}

func newQueue(args []Value) (Value, error) {
	if len(args) > 1 {
		return nil, wrongArity("$queue", "0 or 1", len(args))
	}
	return Queue{}, nil
}

func newCatalog(args []Value) (Value, error) {
	if len(args) > 1 {
		return nil, wrongArity("$catalog", "0 or 1", len(args))
	}
	return Catalog{}, nil
}

// association implements $association: pairs a key and a value ahead of $addItem into
// a catalog.
func association(args []Value) (Value, error) {
	return Association{Key: args[0], Value: args[1]}, nil
}

// addItem implements $addItem: appends item to collection, returning the updated
// collection. Sets dedup on append; catalogs require the item to be an Association.
func addItem(args []Value) (Value, error) {
	collection, item := args[0], args[1]
	switch c := collection.(type) {
	case List:
		return List{Items: append(append([]Value{}, c.Items...), item)}, nil
	case Set:
		return appendSet(c, item), nil
	case Stack:
		return Stack{Items: append(append([]Value{}, c.Items...), item)}, nil
	case Queue:
		return Queue{Items: append(append([]Value{}, c.Items...), item)}, nil
	case Catalog:
		entry, ok := item.(Association)
		if !ok {
			return nil, newError(ArgumentType, "$addItem", 1, "catalog items must be associations, got %s", item.Kind())
		}
		return Catalog{Entries: append(append([]Association{}, c.Entries...), entry)}, nil
	default:
		return nil, newError(ArgumentType, "$addItem", 0, "expected a collection, got %s", collection.Kind())
	}
}

func appendSet(s Set, item Value) Set {
	for _, existing := range s.Items {
		if equal(existing, item) {
			return s
		}
	}
	return Set{Items: append(append([]Value{}, s.Items...), item)}
}

// rangeOf implements $range: first..last, optionally parameterized (the third argument,
// like the collection constructors' optional parameter, isn't interpreted further here).
// Both endpoints must be integer-valued numbers.
func rangeOf(args []Value) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, wrongArity("$range", "2 or 3", len(args))
	}
	first, err := asNumber("$range", 0, args[0])
	if err != nil {
		return nil, err
	}
	last, err := asNumber("$range", 1, args[1])
	if err != nil {
		return nil, err
	}
	if first.Value != float64(int(first.Value)) || last.Value != float64(int(last.Value)) {
		return nil, newError(ArgumentValue, "$range", -1, "range endpoints must be integers")
	}
	items := make([]Value, 0)
	for n := int(first.Value); n <= int(last.Value); n++ {
		items = append(items, Number{Value: float64(n)})
	}
	return List{Items: items}, nil
}

// parameters implements $parameters: wraps a message call's argument values into a
// single positional container, consumed by the target's EXECUTE ON TARGET WITH
// PARAMETERS dispatch.
func parameters(args []Value) (Value, error) {
	return List{Items: append([]Value{}, args...)}, nil
}

// setParameters implements $setParameters: attaches a parameters container to a value.
// This model has no parameterized-value representation beyond the literal/collection
// kinds already defined, so it returns the parameters container unchanged, in the same
// spirit as $conjugate standing in for a numeric tower this package doesn't model.
func setParameters(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArity("$setParameters", "2", len(args))
	}
	return args[1], nil
}

// itemsOf returns a collection's items in iteration order, used by GetIterator.
func itemsOf(v Value) ([]Value, error) {
	switch c := v.(type) {
	case List:
		return c.Items, nil
	case Set:
		return c.Items, nil
	case Stack:
		return c.Items, nil
	case Queue:
		return c.Items, nil
	case Catalog:
		items := make([]Value, len(c.Entries))
		for i, e := range c.Entries {
			items[i] = e
		}
		return items, nil
	default:
		return nil, newError(ArgumentType, "$getIterator", 0, "expected a collection, got %s", v.Kind())
	}
}

// Iterator is the value produced by GetIterator and consumed by HasNext/GetNext. These
// three back the $getIterator/$hasNext/$getNext message protocol (§4.D "iterate over"),
// which the compiler dispatches via EXECUTE ON TARGET rather than INVOKE, so they live
// outside the indexed Table — this package still gives them bodies so the protocol has
// something real to call into.
type Iterator struct {
	Items []Value
	Pos   int
}

func (Iterator) Kind() string { return "iterator" }

// GetIterator implements $getIterator: wraps a collection's items for sequential
// traversal.
func GetIterator(collection Value) (Value, error) {
	items, err := itemsOf(collection)
	if err != nil {
		return nil, err
	}
	return Iterator{Items: items}, nil
}

// HasNext implements $hasNext: whether the iterator has an unconsumed item.
func HasNext(iterator Value) (Value, error) {
	it, ok := iterator.(Iterator)
	if !ok {
		return nil, newError(ArgumentType, "$hasNext", 0, "expected an iterator, got %s", iterator.Kind())
	}
	return Boolean{Value: it.Pos < len(it.Items)}, nil
}

// GetNext implements $getNext: the item at the iterator's current position and the
// iterator advanced past it.
func GetNext(iterator Value) (Value, Value, error) {
	it, ok := iterator.(Iterator)
	if !ok {
		return nil, nil, newError(ArgumentType, "$getNext", 0, "expected an iterator, got %s", iterator.Kind())
	}
	if it.Pos >= len(it.Items) {
		return nil, nil, newError(ArgumentValue, "$getNext", 0, "iterator is exhausted")
	}
	return it.Items[it.Pos], Iterator{Items: it.Items, Pos: it.Pos + 1}, nil
}

// GetSubcomponent implements $getSubcomponent: 1-based index into a List, or key lookup
// into a Catalog.
func GetSubcomponent(base Value, index Value) (Value, error) {
	switch b := base.(type) {
	case List:
		n, err := asNumber("$getSubcomponent", 1, index)
		if err != nil {
			return nil, err
		}
		i := int(n.Value)
		if i < 1 || i > len(b.Items) {
			return nil, newError(ArgumentValue, "$getSubcomponent", 1, "index %d out of range", i)
		}
		return b.Items[i-1], nil
	case Catalog:
		for _, e := range b.Entries {
			if equal(e.Key, index) {
				return e.Value, nil
			}
		}
		return nil, newError(ArgumentValue, "$getSubcomponent", 1, "key %v not found", index)
	default:
		return nil, newError(ArgumentType, "$getSubcomponent", 0, "expected a list or catalog, got %s", base.Kind())
	}
}

// SetSubcomponent implements $setSubcomponent: returns base with index rebound to
// value.
func SetSubcomponent(base Value, index Value, value Value) (Value, error) {
	switch b := base.(type) {
	case List:
		n, err := asNumber("$setSubcomponent", 1, index)
		if err != nil {
			return nil, err
		}
		i := int(n.Value)
		if i < 1 || i > len(b.Items) {
			return nil, newError(ArgumentValue, "$setSubcomponent", 1, "index %d out of range", i)
		}
		items := append([]Value{}, b.Items...)
		items[i-1] = value
		return List{Items: items}, nil
	case Catalog:
		entries := append([]Association{}, b.Entries...)
		for i, e := range entries {
			if equal(e.Key, index) {
				entries[i] = Association{Key: index, Value: value}
				return Catalog{Entries: entries}, nil
			}
		}
		return Catalog{Entries: append(entries, Association{Key: index, Value: value})}, nil
	default:
		return nil, newError(ArgumentType, "$setSubcomponent", 0, "expected a list or catalog, got %s", base.Kind())
	}
}
