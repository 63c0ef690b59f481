package intrinsics

import "strings"

// isLessThan implements $isLessThan: a < b, over numbers.
func isLessThan(args []Value) (Value, error) {
	a, err := asNumber("$isLessThan", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asNumber("$isLessThan", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value < b.Value}, nil
}

// isMoreThan implements $isMoreThan: a > b, over numbers.
func isMoreThan(args []Value) (Value, error) {
	a, err := asNumber("$isMoreThan", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asNumber("$isMoreThan", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value > b.Value}, nil
}

// isEqualTo implements $isEqualTo: structural equality, any value kind.
func isEqualTo(args []Value) (Value, error) {
	return Boolean{Value: equal(args[0], args[1])}, nil
}

// isSameAs implements $isSameAs. Without a live runtime there is no object identity to
// track, so this falls back to structural equality of same-kind values and reports
// false across differing kinds.
func isSameAs(args []Value) (Value, error) {
	if args[0].Kind() != args[1].Kind() {
		return Boolean{Value: false}, nil
	}
	return Boolean{Value: equal(args[0], args[1])}, nil
}

// isMatchedBy implements $isMatchedBy: whether target's text form contains pattern's
// text form. Bali's real pattern language (regular-expression-like matching over
// structured values) belongs to the out-of-scope runtime processor; this is a
// best-effort stand-in sufficient to exercise the argument validators.
func isMatchedBy(args []Value) (Value, error) {
	pattern, err := asText("$isMatchedBy", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: strings.Contains(text(args[0]), pattern.Value)}, nil
}
