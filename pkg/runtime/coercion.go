package runtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"libinterpreter/interpreter-go/pkg/ast"
)

// DateLayout is the display format of Date values.
const DateLayout = "2006-01-02 15:04:05"

// Ordering is the result of Compare.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// FoldName returns the case-insensitive key used for variable and function names.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// NormalizeString trims and case-folds a string for relational operators.
func NormalizeString(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// Format renders a native value: dates as yyyy-MM-dd HH:mm:ss, numbers with
// culture-independent shortest decimal form, booleans as true/false.
func Format(value any) string {
	switch v := normalizeValue(value).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.Format(DateLayout)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Compare orders two variables. Nil sorts before every value; otherwise both
// operands must share a type.
func Compare(a, b *Variable) (Ordering, error) {
	switch {
	case a.IsNull() && b.IsNull():
		return Equal, nil
	case a.IsNull():
		return Less, nil
	case b.IsNull():
		return Greater, nil
	}
	if a.Type() != b.Type() {
		return Equal, newCoercionError("compare", a.Type(), b.Type())
	}
	switch a.Type() {
	case ast.TypeString:
		return order(strings.Compare(FoldName(Format(a.value)), FoldName(Format(b.value)))), nil
	case ast.TypeNumeric:
		x, okX := a.value.(float64)
		y, okY := b.value.(float64)
		if !okX || !okY {
			return Equal, newCoercionError("compare", a.Type(), b.Type())
		}
		switch {
		case x == y:
			return Equal, nil
		case x > y:
			return Greater, nil
		default:
			return Less, nil
		}
	case ast.TypeDate:
		x, okX := a.value.(time.Time)
		y, okY := b.value.(time.Time)
		if !okX || !okY {
			return Equal, newCoercionError("compare", a.Type(), b.Type())
		}
		return order(x.Compare(y)), nil
	case ast.TypeBoolean:
		x, okX := a.value.(bool)
		y, okY := b.value.(bool)
		if !okX || !okY {
			return Equal, newCoercionError("compare", a.Type(), b.Type())
		}
		switch {
		case x == y:
			return Equal, nil
		case x:
			return Greater, nil
		default:
			return Less, nil
		}
	default:
		return Equal, newCoercionError("compare", a.Type(), b.Type())
	}
}

func order(cmp int) Ordering {
	switch {
	case cmp < 0:
		return Less
	case cmp > 0:
		return Greater
	default:
		return Equal
	}
}

// Sum adds b into a in place, following a's type.
func Sum(a, b *Variable) error {
	switch a.Type() {
	case ast.TypeString:
		a.value = Format(a.value) + Format(b.value)
	case ast.TypeNumeric:
		x, err := toNumber(a, "add")
		if err != nil {
			return err
		}
		y, err := toNumber(b, "add")
		if err != nil {
			return err
		}
		a.value = x + y
	case ast.TypeBoolean:
		x, err := toBool(a, "add")
		if err != nil {
			return err
		}
		y, err := toBool(b, "add")
		if err != nil {
			return err
		}
		a.value = x || y
	case ast.TypeDate:
		return shiftDate(a, b, false)
	default:
		return newCoercionError("add", a.Type(), b.Type())
	}
	return nil
}

// Subtract removes b from a in place. Strings and booleans cannot be subtracted.
func Subtract(a, b *Variable) error {
	switch a.Type() {
	case ast.TypeNumeric:
		x, err := toNumber(a, "subtract")
		if err != nil {
			return err
		}
		y, err := toNumber(b, "subtract")
		if err != nil {
			return err
		}
		a.value = x - y
		return nil
	case ast.TypeDate:
		return shiftDate(a, b, true)
	default:
		return newCoercionError("subtract", a.Type(), b.Type())
	}
}

// IntervalOf reads a Date increment: a Numeric is whole days, a String uses
// the interval grammar.
// Malformed or out-of-range increments are coercion errors.
func IntervalOf(v *Variable) (Interval, error) {
	var (
		interval Interval
		err      error
	)
	switch value := v.value.(type) {
	case float64:
		interval, err = DaysInterval(value)
	case string:
		interval, err = ParseInterval(value)
	default:
		return Interval{}, newCoercionError("use as date interval", v.Type(), ast.TypeDate)
	}
	if err != nil {
		return Interval{}, &CoercionError{Op: "use as date interval", Left: v.Type(), Right: ast.TypeDate, Message: err.Error()}
	}
	return interval, nil
}

func shiftDate(a, b *Variable, negate bool) error {
	date, ok := a.value.(time.Time)
	if !ok {
		return &CoercionError{Op: "shift", Left: a.Type(), Right: b.Type(), Message: fmt.Sprintf("source date of %s has no value", a.Name)}
	}
	interval, err := IntervalOf(b)
	if err != nil {
		return err
	}
	a.value = interval.AddTo(date, negate)
	return nil
}

func toNumber(v *Variable, op string) (float64, error) {
	switch n := v.value.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	default:
		return 0, newCoercionError(op, ast.TypeNumeric, v.Type())
	}
}

func toBool(v *Variable, op string) (bool, error) {
	switch b := v.value.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	default:
		return false, newCoercionError(op, ast.TypeBoolean, v.Type())
	}
}
