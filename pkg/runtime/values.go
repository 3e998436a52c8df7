package runtime

import (
	"time"

	"libinterpreter/interpreter-go/pkg/ast"
)

// DefaultDate is the value a Date variable takes when declared without one.
var DefaultDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Variable is a named, dynamically typed scalar slot. Lookups hand out
// pointers into the owning scope, so assignments mutate in place.
type Variable struct {
	Name  string
	typ   ast.ValueType
	value any
}

// NewVariable builds a variable; a nil value assigns the default for typ.
func NewVariable(name string, typ ast.ValueType, value any) *Variable {
	v := &Variable{Name: name, typ: typ}
	if value == nil {
		v.AssignDefault()
	} else {
		v.Set(value)
	}
	return v
}

// Type returns the variable type. An Unknown type holding a value is inferred
// from the value once and cached.
func (v *Variable) Type() ast.ValueType {
	if v.typ == ast.TypeUnknown && v.value != nil {
		v.typ = InferType(v.value)
	}
	return v.typ
}

// DeclaredType returns the cached type without inferring.
func (v *Variable) DeclaredType() ast.ValueType {
	return v.typ
}

func (v *Variable) Value() any {
	return v.value
}

// Set replaces the value in place. A non-null value of another scalar type
// retypes the variable so its type always describes its value; Unknown and
// Object variables keep their type.
func (v *Variable) Set(value any) {
	v.value = normalizeValue(value)
	if v.value == nil || v.typ == ast.TypeUnknown || v.typ == ast.TypeObject {
		return
	}
	if inferred := InferType(v.value); inferred != v.typ {
		v.typ = inferred
	}
}

func (v *Variable) IsNull() bool {
	return v.value == nil
}

// AssignDefault sets the zero value for the variable's type. Types without a
// default are left untouched.
func (v *Variable) AssignDefault() {
	switch v.typ {
	case ast.TypeBoolean:
		v.value = false
	case ast.TypeDate:
		v.value = DefaultDate
	case ast.TypeNumeric:
		v.value = float64(0)
	case ast.TypeString:
		v.value = ""
	}
}

// Copy returns an unaliased variable with the same type and value.
func (v *Variable) Copy(name string) *Variable {
	return &Variable{Name: name, typ: v.Type(), value: v.value}
}

// String renders the value for display; nil renders as "null".
func (v *Variable) String() string {
	if v == nil || v.value == nil {
		return "null"
	}
	return Format(v.value)
}

// InferType maps a native Go value to its script type.
func InferType(value any) ast.ValueType {
	switch value.(type) {
	case nil:
		return ast.TypeUnknown
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ast.TypeNumeric
	case string:
		return ast.TypeString
	case time.Time:
		return ast.TypeDate
	case bool:
		return ast.TypeBoolean
	default:
		return ast.TypeObject
	}
}

// normalizeValue stores every numeric kind as float64.
func normalizeValue(value any) any {
	switch n := value.(type) {
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return value
	}
}
