package evaluator

import "math"

type binaryFn func(left, right Object) Object

type unaryFn func(operand Object) Object

// binaryOps and unaryOps form the operator registry: an exact-match,
// case-sensitive table built once at package initialization and never
// mutated, so every entry point is safe for concurrent callers.
//
// Compound-assignment spellings (`+=`, `-=`, ...) are bound to the same
// function as their bare counterpart: the evaluator computes the resulting
// value only, storage into a binding is the caller's job.
var (
	binaryOps map[string]binaryFn
	unaryOps  map[string]unaryFn
)

func init() {
	binaryOps = map[string]binaryFn{
		"+":   evalAdd,
		"-":   numericOp(func(a, b float64) float64 { return a - b }),
		"*":   numericOp(func(a, b float64) float64 { return a * b }),
		"/":   numericOp(func(a, b float64) float64 { return a / b }),
		"%":   numericOp(math.Mod),
		"**":  numericOp(math.Pow),
		"==":  evalLooseEquality(false),
		"!=":  evalLooseEquality(true),
		"===": evalStrictEquality(false),
		"!==": evalStrictEquality(true),
		"<":   evalRelational("<"),
		">":   evalRelational(">"),
		"<=":  evalRelational("<="),
		">=":  evalRelational(">="),
		"&&":  evalLogicalAnd,
		"||":  evalLogicalOr,
	}
	for _, op := range []string{"+", "-", "*", "/", "%", "**"} {
		binaryOps[op+"="] = binaryOps[op]
	}

	unaryOps = map[string]unaryFn{
		"!":  evalBang,
		"++": stepOp(1),
		"--": stepOp(-1),
	}
}

// EvaluateInfix applies a binary operator to two resolved operand values.
// An unregistered symbol yields the UNKNOWN sentinel; a computation fault
// yields an *Error value. The call never panics past this boundary.
func EvaluateInfix(operator string, left, right Object) (result Object) {
	fn, ok := binaryOps[operator]
	if !ok {
		return UNKNOWN
	}
	defer capture(operator, &result)
	return fn(left, right)
}

// EvaluatePrefix applies a prefix unary operator with the same lookup and
// fault-capture discipline as EvaluateInfix.
func EvaluatePrefix(operator string, operand Object) (result Object) {
	fn, ok := unaryOps[operator]
	if !ok {
		return UNKNOWN
	}
	defer capture(operator, &result)
	return fn(operand)
}

// EvaluatePostfix applies a postfix unary operator. For `++` and `--` both
// fixities return the post-operation value, i.e. the number the caller's
// binding holds after the update; a caller folding the postfix expression's
// own value should use the operand unchanged. Without a mutable binding the
// two fixities collapse to the same pure computation here.
func EvaluatePostfix(operator string, operand Object) (result Object) {
	return EvaluatePrefix(operator, operand)
}

// capture converts a runtime panic inside an operator function into a
// returned fault value.
func capture(operator string, result *Object) {
	if r := recover(); r != nil {
		*result = newError("operator %s: %v", operator, r)
	}
}

// evalAdd implements the overloaded `+`: string concatenation when either
// operand is a string, numeric addition otherwise.
func evalAdd(left, right Object) Object {
	if left.Type() == STRING_OBJ || right.Type() == STRING_OBJ {
		leftStr, fault := toString(left)
		if fault != nil {
			return fault
		}
		rightStr, fault := toString(right)
		if fault != nil {
			return fault
		}
		return &String{Value: leftStr + rightStr}
	}
	return numericOp(func(a, b float64) float64 { return a + b })(left, right)
}

// numericOp builds a binary operator that coerces both operands to numbers.
// Division by zero is not a fault: float64 yields signed infinity or NaN.
func numericOp(compute func(a, b float64) float64) binaryFn {
	return func(left, right Object) Object {
		leftVal, fault := toNumber(left)
		if fault != nil {
			return fault
		}
		rightVal, fault := toNumber(right)
		if fault != nil {
			return fault
		}
		return &Number{Value: compute(leftVal, rightVal)}
	}
}

func evalLooseEquality(negate bool) binaryFn {
	return func(left, right Object) Object {
		eq, fault := looseEquals(left, right)
		if fault != nil {
			return fault
		}
		return nativeBoolToBooleanObject(eq != negate)
	}
}

func evalStrictEquality(negate bool) binaryFn {
	return func(left, right Object) Object {
		return nativeBoolToBooleanObject(strictEquals(left, right) != negate)
	}
}

// evalRelational compares lexically when both operands are strings and
// numerically otherwise. Any NaN involved makes every relation false, like
// the source language.
func evalRelational(operator string) binaryFn {
	return func(left, right Object) Object {
		if left.Type() == STRING_OBJ && right.Type() == STRING_OBJ {
			leftVal := left.(*String).Value
			rightVal := right.(*String).Value
			switch operator {
			case "<":
				return nativeBoolToBooleanObject(leftVal < rightVal)
			case ">":
				return nativeBoolToBooleanObject(leftVal > rightVal)
			case "<=":
				return nativeBoolToBooleanObject(leftVal <= rightVal)
			default:
				return nativeBoolToBooleanObject(leftVal >= rightVal)
			}
		}

		leftVal, fault := toNumber(left)
		if fault != nil {
			return fault
		}
		rightVal, fault := toNumber(right)
		if fault != nil {
			return fault
		}
		if math.IsNaN(leftVal) || math.IsNaN(rightVal) {
			return FALSE
		}
		switch operator {
		case "<":
			return nativeBoolToBooleanObject(leftVal < rightVal)
		case ">":
			return nativeBoolToBooleanObject(leftVal > rightVal)
		case "<=":
			return nativeBoolToBooleanObject(leftVal <= rightVal)
		default:
			return nativeBoolToBooleanObject(leftVal >= rightVal)
		}
	}
}

// evalLogicalAnd returns the first operand if it is falsy, otherwise the
// second. Operand identity is preserved: no boolean cast is applied.
func evalLogicalAnd(left, right Object) Object {
	if !isTruthy(left) {
		return left
	}
	return right
}

// evalLogicalOr returns the first operand if it is truthy, otherwise the
// second.
func evalLogicalOr(left, right Object) Object {
	if isTruthy(left) {
		return left
	}
	return right
}

func evalBang(operand Object) Object {
	return nativeBoolToBooleanObject(!isTruthy(operand))
}

// stepOp builds the increment/decrement computation shared by `++` and `--`.
func stepOp(delta float64) unaryFn {
	return func(operand Object) Object {
		val, fault := toNumber(operand)
		if fault != nil {
			return fault
		}
		return &Number{Value: val + delta}
	}
}

// BinaryOperators returns the registered binary operator symbols. Used by
// callers that want to probe foldability before resolving operands.
func BinaryOperators() []string {
	ops := make([]string, 0, len(binaryOps))
	for op := range binaryOps {
		ops = append(ops, op)
	}
	return ops
}

// UnaryOperators returns the registered unary operator symbols.
func UnaryOperators() []string {
	ops := make([]string, 0, len(unaryOps))
	for op := range unaryOps {
		ops = append(ops, op)
	}
	return ops
}
