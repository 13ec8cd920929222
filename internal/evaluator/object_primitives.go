package evaluator

import (
	"fmt"
	"math"
	"strconv"
)

// Number
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	switch {
	case math.IsNaN(n.Value):
		return "NaN"
	case math.IsInf(n.Value, 1):
		return "Infinity"
	case math.IsInf(n.Value, -1):
		return "-Infinity"
	case n.Value == 0:
		return "0" // negative zero renders as "0"
	case n.Value == math.Trunc(n.Value) && math.Abs(n.Value) < 1e21:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	default:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	}
}

// String
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// Null is the JavaScript null value.
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Undefined is the JavaScript undefined value.
type Undefined struct{}

func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }
func (u *Undefined) Inspect() string  { return "undefined" }

// ObjectRef is an opaque reference to a non-primitive value (object, array,
// function) that the caller resolved but the evaluator cannot coerce.
// Identity is the identity of the *ObjectRef itself: the engine passes the
// same pointer for the same underlying object.
type ObjectRef struct {
	Ref interface{}
}

func (o *ObjectRef) Type() ObjectType { return OBJECT_REF_OBJ }
func (o *ObjectRef) Inspect() string  { return "[object]" }
