package intrinsics

// and implements $and: a AND b.
func and(args []Value) (Value, error) {
	a, err := asBoolean("$and", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asBoolean("$and", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value && b.Value}, nil
}

// or implements $or: a OR b.
func or(args []Value) (Value, error) {
	a, err := asBoolean("$or", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asBoolean("$or", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value || b.Value}, nil
}

// xor implements $xor: a XOR b.
func xor(args []Value) (Value, error) {
	a, err := asBoolean("$xor", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asBoolean("$xor", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value != b.Value}, nil
}

// sans implements $sans: a AND NOT b.
func sans(args []Value) (Value, error) {
	a, err := asBoolean("$sans", 0, args[0])
	if err != nil {
		return nil, err
	}
	b, err := asBoolean("$sans", 1, args[1])
	if err != nil {
		return nil, err
	}
	return Boolean{Value: a.Value && !b.Value}, nil
}
