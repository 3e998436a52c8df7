package host

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goodsign/monday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/interpreter"
	"libinterpreter/interpreter-go/pkg/runtime"
)

// BuiltinFunc implements a builtin. Arguments are read by parameter name.
type BuiltinFunc func(ctx context.Context, h *Host, args Args) (*runtime.Variable, error)

// Builtin is a host function exposed to scripts.
type Builtin struct {
	Name   string
	Params []ast.Symbol
	Fn     BuiltinFunc
}

func (b *Builtin) Call(ctx context.Context, h *Host, args Args) (*runtime.Variable, error) {
	return b.Fn(ctx, h, args)
}

// Args reads bound parameters of a builtin call.
type Args struct {
	scope runtime.Lookup
	fn    string
}

func (a Args) Value(name string) (*runtime.Variable, error) {
	v, ok := a.scope.Lookup(name)
	if !ok {
		return nil, a.mismatch("missing argument %s", name)
	}
	return v, nil
}

func (a Args) Number(name string) (float64, error) {
	v, err := a.Value(name)
	if err != nil {
		return 0, err
	}
	switch n := v.Value().(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	default:
		return 0, a.mismatch("argument %s must be numeric, got %s", name, v.Type())
	}
}

func (a Args) Text(name string) (string, error) {
	v, err := a.Value(name)
	if err != nil {
		return "", err
	}
	switch s := v.Value().(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", a.mismatch("argument %s must be a string, got %s", name, v.Type())
	}
}

func (a Args) Date(name string) (time.Time, error) {
	v, err := a.Value(name)
	if err != nil {
		return time.Time{}, err
	}
	switch d := v.Value().(type) {
	case nil:
		return runtime.DefaultDate, nil
	case time.Time:
		return d, nil
	default:
		return time.Time{}, a.mismatch("argument %s must be a date, got %s", name, v.Type())
	}
}

func (a Args) mismatch(format string, args ...any) error {
	return &interpreter.ScriptError{
		Kind:    interpreter.KindTypeMismatch,
		Message: a.fn + ": " + fmt.Sprintf(format, args...),
	}
}

func numberResult(n float64) *runtime.Variable {
	return runtime.NewVariable("Result", ast.TypeNumeric, n)
}

func textResult(s string) *runtime.Variable {
	return runtime.NewVariable("Result", ast.TypeString, s)
}

func dateResult(t time.Time) *runtime.Variable {
	return runtime.NewVariable("Result", ast.TypeDate, t)
}

func boolResult(b bool) *runtime.Variable {
	return runtime.NewVariable("Result", ast.TypeBoolean, b)
}

func text(name string) ast.Symbol { return ast.Sym(name, ast.TypeString) }
func num(name string) ast.Symbol  { return ast.Sym(name, ast.TypeNumeric) }
func date(name string) ast.Symbol { return ast.Sym(name, ast.TypeDate) }

func textFunc(name string, fn func(string) string) *Builtin {
	return &Builtin{
		Name:   name,
		Params: []ast.Symbol{text("text")},
		Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
			s, err := args.Text("text")
			if err != nil {
				return nil, err
			}
			return textResult(fn(s)), nil
		},
	}
}

func mathFunc(name string, fn func(float64) float64) *Builtin {
	return &Builtin{
		Name:   name,
		Params: []ast.Symbol{num("n")},
		Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
			n, err := args.Number("n")
			if err != nil {
				return nil, err
			}
			return numberResult(fn(n)), nil
		},
	}
}

func datePartFunc(name string, fn func(time.Time) int) *Builtin {
	return &Builtin{
		Name:   name,
		Params: []ast.Symbol{date("date")},
		Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
			d, err := args.Date("date")
			if err != nil {
				return nil, err
			}
			return numberResult(float64(fn(d))), nil
		},
	}
}

func standardBuiltins() []*Builtin {
	return []*Builtin{
		textFunc("upper", func(s string) string { return cases.Upper(language.Und).String(s) }),
		textFunc("lower", func(s string) string { return cases.Lower(language.Und).String(s) }),
		textFunc("title", func(s string) string { return cases.Title(language.Und).String(s) }),
		textFunc("trim", strings.TrimSpace),
		{
			Name:   "len",
			Params: []ast.Symbol{text("text")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				s, err := args.Text("text")
				if err != nil {
					return nil, err
				}
				return numberResult(float64(utf8.RuneCountInString(s))), nil
			},
		},
		{
			Name:   "contains",
			Params: []ast.Symbol{text("text"), text("part")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				s, err := args.Text("text")
				if err != nil {
					return nil, err
				}
				part, err := args.Text("part")
				if err != nil {
					return nil, err
				}
				return boolResult(strings.Contains(runtime.FoldName(s), runtime.FoldName(part))), nil
			},
		},
		mathFunc("abs", math.Abs),
		mathFunc("floor", math.Floor),
		mathFunc("ceil", math.Ceil),
		{
			Name:   "round",
			Params: []ast.Symbol{num("n"), num("digits")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				n, err := args.Number("n")
				if err != nil {
					return nil, err
				}
				digits, err := args.Number("digits")
				if err != nil {
					return nil, err
				}
				scale := math.Pow(10, math.Trunc(digits))
				return numberResult(math.Round(n*scale) / scale), nil
			},
		},
		{
			Name:   "min",
			Params: []ast.Symbol{num("a"), num("b")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				return pair(args, math.Min)
			},
		},
		{
			Name:   "max",
			Params: []ast.Symbol{num("a"), num("b")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				return pair(args, math.Max)
			},
		},
		{
			Name: "now",
			Fn: func(_ context.Context, h *Host, _ Args) (*runtime.Variable, error) {
				return dateResult(h.now()), nil
			},
		},
		{
			Name: "today",
			Fn: func(_ context.Context, h *Host, _ Args) (*runtime.Variable, error) {
				t := h.now()
				return dateResult(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())), nil
			},
		},
		{
			Name:   "date",
			Params: []ast.Symbol{num("year"), num("month"), num("day")},
			Fn:     makeDate,
		},
		datePartFunc("year", func(t time.Time) int { return t.Year() }),
		datePartFunc("month", func(t time.Time) int { return int(t.Month()) }),
		datePartFunc("day", func(t time.Time) int { return t.Day() }),
		{
			Name:   "days_between",
			Params: []ast.Symbol{date("from"), date("to")},
			Fn: func(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
				from, err := args.Date("from")
				if err != nil {
					return nil, err
				}
				to, err := args.Date("to")
				if err != nil {
					return nil, err
				}
				return numberResult(math.Trunc(to.Sub(from).Hours() / 24)), nil
			},
		},
		{
			Name:   "format_number",
			Params: []ast.Symbol{num("n")},
			Fn: func(_ context.Context, h *Host, args Args) (*runtime.Variable, error) {
				n, err := args.Number("n")
				if err != nil {
					return nil, err
				}
				p := message.NewPrinter(h.languageTag())
				return textResult(p.Sprintf("%v", number.Decimal(n))), nil
			},
		},
		{
			Name:   "format_date",
			Params: []ast.Symbol{date("date"), text("layout")},
			Fn: func(_ context.Context, h *Host, args Args) (*runtime.Variable, error) {
				d, err := args.Date("date")
				if err != nil {
					return nil, err
				}
				layout, err := args.Text("layout")
				if err != nil {
					return nil, err
				}
				if layout == "" {
					layout = runtime.DateLayout
				}
				return textResult(monday.Format(d, layout, h.mondayLocale())), nil
			},
		},
	}
}

func pair(args Args, fn func(a, b float64) float64) (*runtime.Variable, error) {
	a, err := args.Number("a")
	if err != nil {
		return nil, err
	}
	b, err := args.Number("b")
	if err != nil {
		return nil, err
	}
	return numberResult(fn(a, b)), nil
}

func makeDate(_ context.Context, _ *Host, args Args) (*runtime.Variable, error) {
	var parts [3]float64
	for idx, name := range []string{"year", "month", "day"} {
		n, err := args.Number(name)
		if err != nil {
			return nil, err
		}
		if n != math.Trunc(n) {
			return nil, args.mismatch("%s must be a whole number, got %v", name, n)
		}
		parts[idx] = n
	}
	year, month, day := int(parts[0]), time.Month(parts[1]), int(parts[2])
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return nil, args.mismatch("%04d-%02d-%02d is not a valid date", year, int(month), day)
	}
	return dateResult(t), nil
}

func (h *Host) languageTag() language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(h.locale, "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}

func (h *Host) mondayLocale() monday.Locale {
	want := strings.ReplaceAll(h.locale, "-", "_")
	for _, locale := range monday.ListLocales() {
		if strings.EqualFold(string(locale), want) {
			return locale
		}
	}
	return monday.LocaleEnUS
}
