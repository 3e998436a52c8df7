package runtime

import (
	"fmt"

	"libinterpreter/interpreter-go/pkg/ast"
)

// CoercionError reports an operation that is not defined for its operand types.
type CoercionError struct {
	Op      string
	Left    ast.ValueType
	Right   ast.ValueType
	Message string
}

func (e *CoercionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cannot %s %s with %s", e.Op, e.Left, e.Right)
}

func newCoercionError(op string, left, right ast.ValueType) *CoercionError {
	return &CoercionError{Op: op, Left: left, Right: right}
}

type FaultKind string

const (
	FaultScopeUnderflow FaultKind = "ScopeUnderflow"
	FaultContract       FaultKind = "ContractViolation"
)

// Fault is a defect-level failure: the host or the evaluator broke a contract.
// Faults are raised with panic and recovered at the run boundary.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Raise panics with a fault of the given kind.
func Raise(kind FaultKind, format string, args ...any) {
	panic(&Fault{Kind: kind, Message: fmt.Sprintf(format, args...)})
}
