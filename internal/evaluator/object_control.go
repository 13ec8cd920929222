package evaluator

// Error is a captured evaluation fault, returned as a value so an operator
// lookup never aborts the caller's analysis pass.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// Unknown is the not-recognized sentinel. It is distinct from Null and
// Undefined so a legitimately computed null result stays unambiguous.
type Unknown struct{}

func (u *Unknown) Type() ObjectType { return UNKNOWN_OBJ }
func (u *Unknown) Inspect() string  { return "<unknown>" }
