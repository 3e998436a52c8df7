package interpreter

import (
	"math"
	"time"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

func result(typ ast.ValueType, value any) *runtime.Variable {
	return runtime.NewVariable("Result", typ, value)
}

func computeUnary(op *ast.Operator, operand *runtime.Variable) (*runtime.Variable, error) {
	if op.Class() != ast.ClassMath || (op.Op != ast.OpAdd && op.Op != ast.OpSub && op.Op != ast.OpNeg) {
		return nil, newError(KindStackUnderflow, "operator %s needs two operands", op)
	}
	if operand.Type() != ast.TypeNumeric {
		return nil, newError(KindTypeMismatch, "cannot apply unary %s to a %s value", op, operand.Type())
	}
	n := numberOf(operand)
	if op.Op != ast.OpAdd {
		n = -n
	}
	return result(ast.TypeNumeric, n), nil
}

// computeBinary dispatches on the type of the left operand.
func computeBinary(op *ast.Operator, first, second *runtime.Variable) (*runtime.Variable, error) {
	switch first.Type() {
	case ast.TypeBoolean:
		return computeBoolean(op, first, second)
	case ast.TypeString:
		return computeString(op, first, second)
	case ast.TypeNumeric:
		return computeNumeric(op, first, second)
	case ast.TypeDate:
		return computeDate(op, first, second)
	default:
		return nil, newError(KindTypeMismatch, "cannot apply %s to a %s value", op, first.Type())
	}
}

func computeBoolean(op *ast.Operator, first, second *runtime.Variable) (*runtime.Variable, error) {
	left, _ := first.Value().(bool)
	var right bool
	switch v := second.Value().(type) {
	case nil:
	case bool:
		right = v
	default:
		return nil, newError(KindTypeMismatch, "cannot apply %s to boolean and %s values", op, second.Type())
	}
	switch op.Op {
	case ast.OpEq:
		return result(ast.TypeBoolean, left == right), nil
	case ast.OpNe:
		return result(ast.TypeBoolean, left != right), nil
	case ast.OpAnd:
		return result(ast.TypeBoolean, left && right), nil
	case ast.OpOr:
		return result(ast.TypeBoolean, left || right), nil
	default:
		return nil, newError(KindTypeMismatch, "cannot apply %s to boolean values", op)
	}
}

// computeString stringifies the right operand. Comparisons ignore case and
// surrounding whitespace.
func computeString(op *ast.Operator, first, second *runtime.Variable) (*runtime.Variable, error) {
	left := runtime.Format(first.Value())
	right := runtime.Format(second.Value())
	if op.Op == ast.OpAdd {
		return result(ast.TypeString, left+right), nil
	}
	if op.Class() != ast.ClassLogical {
		return nil, newError(KindTypeMismatch, "cannot apply %s to string values", op)
	}
	a := runtime.NormalizeString(left)
	b := runtime.NormalizeString(right)
	var cmp int
	switch {
	case a < b:
		cmp = -1
	case a > b:
		cmp = 1
	}
	return result(ast.TypeBoolean, compareResult(op.Op, cmp)), nil
}

func computeNumeric(op *ast.Operator, first, second *runtime.Variable) (*runtime.Variable, error) {
	switch second.Type() {
	case ast.TypeString:
		return computeString(op, result(ast.TypeString, runtime.Format(first.Value())), second)
	case ast.TypeDate:
		return computeDate(op, second, first)
	case ast.TypeNumeric:
	default:
		return nil, newError(KindTypeMismatch, "cannot apply %s to numeric and %s values", op, second.Type())
	}
	left := numberOf(first)
	right := numberOf(second)
	switch op.Op {
	case ast.OpAdd:
		return result(ast.TypeNumeric, left+right), nil
	case ast.OpSub:
		return result(ast.TypeNumeric, left-right), nil
	case ast.OpMul:
		return result(ast.TypeNumeric, left*right), nil
	case ast.OpDiv:
		if right == 0 {
			return nil, newError(KindDivideByZero, "cannot divide by zero")
		}
		return result(ast.TypeNumeric, left/right), nil
	case ast.OpMod:
		if right == 0 {
			return nil, newError(KindModulusByZero, "cannot compute a modulus by zero")
		}
		return result(ast.TypeNumeric, math.Mod(left, right)), nil
	}
	if op.Class() != ast.ClassLogical {
		return nil, newError(KindTypeMismatch, "cannot apply %s to numeric values", op)
	}
	var cmp int
	switch {
	case left < right:
		cmp = -1
	case left > right:
		cmp = 1
	}
	return result(ast.TypeBoolean, compareResult(op.Op, cmp)), nil
}

// computeDate shifts a date by a Numeric day count or a String interval, or
// compares two dates.
func computeDate(op *ast.Operator, first, second *runtime.Variable) (*runtime.Variable, error) {
	date, ok := first.Value().(time.Time)
	if !ok {
		return nil, newError(KindTypeMismatch, "date operand %s has no value", first.Name)
	}
	switch second.Type() {
	case ast.TypeNumeric, ast.TypeString:
		if op.Op != ast.OpAdd && op.Op != ast.OpSub {
			return nil, newError(KindTypeMismatch, "cannot apply %s to date and %s values", op, second.Type())
		}
		interval, err := runtime.IntervalOf(second)
		if err != nil {
			return nil, wrapError(KindTypeMismatch, err, "")
		}
		return result(ast.TypeDate, interval.AddTo(date, op.Op == ast.OpSub)), nil
	case ast.TypeDate:
		other, ok := second.Value().(time.Time)
		if !ok {
			return nil, newError(KindTypeMismatch, "date operand %s has no value", second.Name)
		}
		if op.Class() != ast.ClassLogical {
			return nil, newError(KindTypeMismatch, "cannot apply %s to date values", op)
		}
		return result(ast.TypeBoolean, compareResult(op.Op, date.Compare(other))), nil
	default:
		return nil, newError(KindTypeMismatch, "cannot apply %s to date and %s values", op, second.Type())
	}
}

func compareResult(op ast.Op, cmp int) bool {
	switch op {
	case ast.OpEq:
		return cmp == 0
	case ast.OpNe:
		return cmp != 0
	case ast.OpGt:
		return cmp > 0
	case ast.OpGe:
		return cmp >= 0
	case ast.OpLt:
		return cmp < 0
	case ast.OpLe:
		return cmp <= 0
	default:
		return false
	}
}

func numberOf(v *runtime.Variable) float64 {
	n, _ := v.Value().(float64)
	return n
}
