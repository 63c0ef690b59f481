package intrinsics

import "fmt"

// ErrorKind names one of the argument-validation failure kinds an intrinsic
// implementation raises (§7).
type ErrorKind string

const (
	// ArgumentType is raised when an argument's Value kind doesn't match what the
	// intrinsic requires (e.g. $sum given a Text operand).
	ArgumentType ErrorKind = "ArgumentType"
	// ArgumentValue is raised when an argument has the right kind but an out-of-range
	// or otherwise invalid value (e.g. $quotient given a zero divisor).
	ArgumentValue ErrorKind = "ArgumentValue"
	// SameType is raised when two arguments are required to share a kind but don't
	// (e.g. $concatenation given a Text and a List).
	SameType ErrorKind = "SameType"
)

// IntrinsicError is the structured payload an intrinsic implementation's failure
// carries: which entry raised it, which argument position (where applicable, -1
// otherwise), and a human-readable message.
type IntrinsicError struct {
	Kind     ErrorKind
	Name     string
	Position int
	Message  string
}

func (e *IntrinsicError) Error() string {
	return fmt.Sprintf("/intrinsics: %s: %s", e.Name, e.Message)
}

func newError(kind ErrorKind, name string, position int, format string, args ...any) error {
	return &IntrinsicError{
		Kind:     kind,
		Name:     name,
		Position: position,
		Message:  fmt.Sprintf(format, args...),
	}
}

// wrongArity reports a call with an unexpected argument count. Arity mismatches are an
// ArgumentValue failure: the call shape itself, not any one argument, is invalid.
func wrongArity(name string, want string, got int) error {
	return newError(ArgumentValue, name, -1, "expects %s argument(s), got %d", want, got)
}

func asNumber(name string, position int, v Value) (Number, error) {
	n, ok := v.(Number)
	if !ok {
		return Number{}, newError(ArgumentType, name, position, "expected a number, got %s", v.Kind())
	}
	return n, nil
}

func asBoolean(name string, position int, v Value) (Boolean, error) {
	b, ok := v.(Boolean)
	if !ok {
		return Boolean{}, newError(ArgumentType, name, position, "expected a boolean, got %s", v.Kind())
	}
	return b, nil
}

func asText(name string, position int, v Value) (Text, error) {
	t, ok := v.(Text)
	if !ok {
		return Text{}, newError(ArgumentType, name, position, "expected text, got %s", v.Kind())
	}
	return t, nil
}
