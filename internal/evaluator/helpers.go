package evaluator

import "fmt"

var (
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
	NULL      = &Null{}
	UNDEFINED = &Undefined{}
	UNKNOWN   = &Unknown{}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// IsUnknown reports whether an outcome is the not-recognized sentinel.
func IsUnknown(obj Object) bool {
	return obj != nil && obj.Type() == UNKNOWN_OBJ
}

// IsFault reports whether an outcome is a captured evaluation fault.
func IsFault(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}
