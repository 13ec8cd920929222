package evaluator

type ObjectType string

const (
	NUMBER_OBJ     = "NUMBER"
	STRING_OBJ     = "STRING"
	BOOLEAN_OBJ    = "BOOLEAN"
	NULL_OBJ       = "NULL"
	UNDEFINED_OBJ  = "UNDEFINED"
	OBJECT_REF_OBJ = "OBJECT_REF"
	ERROR_OBJ      = "ERROR"
	UNKNOWN_OBJ    = "UNKNOWN"
)

// Object is a resolved JavaScript operand value. The dataflow engine hands
// these to the evaluator after resolving identifiers; the evaluator never
// sees raw AST nodes.
type Object interface {
	Type() ObjectType
	Inspect() string
}
