package evaluator

// strictEquals implements the `===` comparison: no coercion, types must
// match. NaN is unequal to itself; object references compare by identity.
func strictEquals(a, b Object) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch aVal := a.(type) {
	case *Number:
		bVal := b.(*Number)
		return aVal.Value == bVal.Value
	case *String:
		bVal := b.(*String)
		return aVal.Value == bVal.Value
	case *Boolean:
		bVal := b.(*Boolean)
		return aVal.Value == bVal.Value
	case *Null, *Undefined:
		return true
	case *ObjectRef:
		return a == b
	default:
		return false
	}
}

// looseEquals implements the `==` comparison with the cross-type coercion
// rules of JavaScript: null and undefined are mutually equal, numbers and
// strings compare numerically, booleans convert to numbers first. Comparing
// an object reference against a primitive would need the object's
// ToPrimitive, which the evaluator does not have, so that case faults.
func looseEquals(a, b Object) (bool, *Error) {
	if a.Type() == b.Type() {
		return strictEquals(a, b), nil
	}

	aNullish := a.Type() == NULL_OBJ || a.Type() == UNDEFINED_OBJ
	bNullish := b.Type() == NULL_OBJ || b.Type() == UNDEFINED_OBJ
	if aNullish || bNullish {
		return aNullish && bNullish, nil
	}

	if a.Type() == OBJECT_REF_OBJ || b.Type() == OBJECT_REF_OBJ {
		return false, newError("cannot compare object reference with %s using ==",
			otherType(a, b, OBJECT_REF_OBJ))
	}

	// Remaining combinations are number/string/boolean cross pairs, which
	// all reduce to numeric comparison.
	aNum, fault := toNumber(a)
	if fault != nil {
		return false, fault
	}
	bNum, fault := toNumber(b)
	if fault != nil {
		return false, fault
	}
	return aNum == bNum, nil
}

// otherType returns the type of whichever operand is not tagged t.
func otherType(a, b Object, t ObjectType) ObjectType {
	if a.Type() == t {
		return b.Type()
	}
	return a.Type()
}
