package host

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/interpreter"
	"libinterpreter/interpreter-go/pkg/parser"
	"libinterpreter/interpreter-go/pkg/runtime"
)

func evalWith(t *testing.T, h *Host, source string) (*runtime.Variable, error) {
	t.Helper()
	interp := interpreter.New(h, nil)
	h.Install(interp)
	interp.Begin(nil)
	seq, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return interp.Evaluate(context.Background(), seq)
}

func mustEval(t *testing.T, h *Host, source string) any {
	t.Helper()
	v, err := evalWith(t, h, source)
	if err != nil {
		t.Fatalf("%s: %v", source, err)
	}
	return v.Value()
}

func TestBuiltins(t *testing.T) {
	h := New(WithClock(func() time.Time { return time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC) }))
	cases := []struct {
		source string
		want   any
	}{
		{`upper("straße")`, "STRASSE"},
		{`lower("ABC")`, "abc"},
		{`title("hello world")`, "Hello World"},
		{`trim("  x ")`, "x"},
		{`len("héllo")`, float64(5)},
		{`contains("Hello", "ELL")`, true},
		{`abs(-3) + floor(2.7) + ceil(0.2)`, float64(6)},
		{`round(3.14159, 2)`, 3.14},
		{`max(2, min(5, 9))`, float64(5)},
		{`year(date(2024, 2, 29)) * 100 + month(date(2024, 2, 29))`, float64(202402)},
		{`day(today())`, float64(1)},
		{`days_between(#2024-01-01#, #2024-03-01#)`, float64(60)},
		{`format_number(1234567.5)`, "1,234,567.5"},
		{`format_date(#2024-03-01#, "Monday, 2 January 2006")`, "Friday, 1 March 2024"},
		{`format_date(now(), "")`, "2024-03-01 15:04:05"},
		{`10 - -abs(-4)`, float64(14)},
	}
	for _, tc := range cases {
		if got := mustEval(t, h, tc.source); got != tc.want {
			t.Fatalf("%s: expected %#v, got %#v", tc.source, tc.want, got)
		}
	}
}

func TestLocaleBuiltins(t *testing.T) {
	h := New(WithLocale("de_DE"))
	if got := mustEval(t, h, `format_number(1234567.5)`); got != "1.234.567,5" {
		t.Fatalf("unexpected german number %q", got)
	}
	if got := mustEval(t, h, `format_date(#2024-03-01#, "Monday, 2 January 2006")`); got != "Freitag, 1 März 2024" {
		t.Fatalf("unexpected german date %q", got)
	}

	h = New(WithLocale("xx-nowhere"))
	if got := mustEval(t, h, `format_date(#2024-03-01#, "January")`); got != "March" {
		t.Fatalf("unknown locales fall back to english, got %q", got)
	}
}

func TestBuiltinErrors(t *testing.T) {
	h := New()
	cases := []struct {
		source string
		kind   interpreter.ErrorKind
	}{
		{`date(2023, 2, 29)`, interpreter.KindTypeMismatch},
		{`date(2023.5, 2, 1)`, interpreter.KindTypeMismatch},
		{`upper(1)`, interpreter.KindTypeMismatch},
		{`upper()`, interpreter.KindArgumentMismatch},
		{`missing(1)`, interpreter.KindUndefinedFunction},
		{`-today()`, interpreter.KindTypeMismatch},
		{`-upper("a")`, interpreter.KindTypeMismatch},
		{`#2024-01-01# + 1e19`, interpreter.KindTypeMismatch},
		{`#2024-01-01# + "3000000H"`, interpreter.KindTypeMismatch},
	}
	for _, tc := range cases {
		_, err := evalWith(t, h, tc.source)
		if !interpreter.IsKind(err, tc.kind) {
			t.Fatalf("%s: expected %s, got %v", tc.source, tc.kind, err)
		}
	}
}

func TestFormatString(t *testing.T) {
	h := New()
	stack := runtime.NewScopeStack()
	stack.Push().Variables.Add("Name", ast.TypeString, "Ada")
	stack.Push().Variables.Add("n", ast.TypeNumeric, 2.5)

	got, err := h.FormatString("{{x}} {name} has { N } }}", stack)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "{x} Ada has 2.5 }" {
		t.Fatalf("unexpected format %q", got)
	}

	_, err = h.FormatString("{ghost}", stack)
	if !interpreter.IsKind(err, interpreter.KindUndefinedVariable) {
		t.Fatalf("expected undefined variable, got %v", err)
	}
	if _, err := h.FormatString("{open", stack); err == nil {
		t.Fatalf("expected unterminated placeholder error")
	}
}

func TestExtensions(t *testing.T) {
	var seen []any
	h := New(WithExtension("Notify", func(_ context.Context, stmt *ast.Extension, _ runtime.Lookup) error {
		seen = append(seen, stmt.Payload)
		return nil
	}))
	interp := interpreter.New(h, nil)
	err := interp.Run(context.Background(), ast.Block(&ast.Extension{Kind: "notify", Payload: "ops"}), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(seen) != 1 || seen[0] != "ops" {
		t.Fatalf("unexpected payloads %v", seen)
	}

	err = interp.Run(context.Background(), ast.Block(&ast.Extension{Kind: "page"}), nil)
	if !interpreter.IsKind(err, interpreter.KindUnsupported) {
		t.Fatalf("expected unsupported statement, got %v", err)
	}
}

func TestReporter(t *testing.T) {
	var console, diagnostics bytes.Buffer
	r := NewReporter(&console, &diagnostics, slog.LevelDebug)
	interp := interpreter.New(New(), r)
	err := interp.Run(context.Background(), ast.Block(
		ast.Note("start"),
		ast.Say("hello"),
		ast.Dcl("x", ast.TypeNumeric, ast.Num(1), ast.Num(0), ast.O(ast.OpDiv)),
	), nil)
	if !interpreter.IsKind(err, interpreter.KindDivideByZero) {
		t.Fatalf("expected divide by zero, got %v", err)
	}
	if console.String() != "hello\n" {
		t.Fatalf("unexpected console output %q", console.String())
	}
	logs := diagnostics.String()
	for _, want := range []string{
		`level=DEBUG msg="Comment: start"`,
		`level=ERROR msg="cannot divide by zero" kind=DivideByZero`,
		`level=INFO msg="run finished with error cannot divide by zero"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %q in logs:\n%s", want, logs)
		}
	}

	diagnostics.Reset()
	quiet := NewReporter(&console, &diagnostics, slog.LevelError)
	quiet.Debug("hidden")
	quiet.Error("plain failure", errors.New("boom"))
	if strings.Contains(diagnostics.String(), "hidden") || !strings.Contains(diagnostics.String(), `msg="plain failure"`) {
		t.Fatalf("unexpected filtered logs %q", diagnostics.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Fatalf("%q: expected %v, got %v (%v)", name, want, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
