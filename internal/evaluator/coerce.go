package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// toNumber applies the JavaScript ToNumber conversion. ObjectRef cannot be
// converted without the object's own valueOf/toString, which the evaluator
// does not have, so it faults instead of guessing.
func toNumber(obj Object) (float64, *Error) {
	switch v := obj.(type) {
	case *Number:
		return v.Value, nil
	case *String:
		return stringToNumber(v.Value), nil
	case *Boolean:
		if v.Value {
			return 1, nil
		}
		return 0, nil
	case *Null:
		return 0, nil
	case *Undefined:
		return math.NaN(), nil
	case *ObjectRef:
		return 0, newError("cannot coerce object reference to number")
	default:
		return 0, newError("cannot coerce %s to number", obj.Type())
	}
}

// stringToNumber mirrors the numeric-literal grammar JavaScript accepts for
// string conversion: optional whitespace, empty means 0, Infinity spellings,
// hex/octal/binary prefixes, otherwise a decimal literal. Anything else is NaN.
func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		var base int
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// toString applies the JavaScript ToString conversion for primitives.
func toString(obj Object) (string, *Error) {
	switch obj.(type) {
	case *ObjectRef:
		return "", newError("cannot coerce object reference to string")
	case nil:
		return "", newError("cannot coerce nil operand to string")
	default:
		return obj.Inspect(), nil
	}
}

// isTruthy applies the JavaScript ToBoolean conversion: false, 0, NaN, "",
// null and undefined are falsy, everything else (object references included)
// is truthy.
func isTruthy(obj Object) bool {
	switch v := obj.(type) {
	case *Boolean:
		return v.Value
	case *Number:
		return v.Value != 0 && !math.IsNaN(v.Value)
	case *String:
		return v.Value != ""
	case *Null, *Undefined:
		return false
	default:
		return true
	}
}
