package interpreter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

func numericLoop(name string, from, to float64, step ast.Sequence, body ...ast.Statement) *ast.For {
	return ast.Loop(ast.Sym(name, ast.TypeNumeric), ast.Seq(ast.Num(from)), ast.Seq(ast.Num(to)), step, body...)
}

func TestLoopAccumulates(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	mustRun(t, interp,
		ast.Dcl("total", ast.TypeNumeric, ast.Num(0)),
		numericLoop("i", 1, 3, nil, ast.Assign("total", ast.ID("total"), ast.ID("i"), add())),
	)
	if got := rootValue(t, interp, "total"); got != float64(6) {
		t.Fatalf("expected total 6, got %v", got)
	}
	if len(reporter.errors) != 0 {
		t.Fatalf("unexpected errors %q", reporter.errors)
	}
	expectLines(t, reporter.debug, "Declare total = 0")
	expectLines(t, reporter.info, "run finished")
}

func TestDescendingLoop(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	mustRun(t, interp, numericLoop("i", 3, 1, ast.Seq(ast.Num(1), ast.O(ast.OpSub)), ast.Say("i={i}")))
	expectLines(t, reporter.console, "i=3", "i=2", "i=1")
	if interp.Scopes().Root().Variables.Exists("i") {
		t.Fatalf("loop variable must not leak into the enclosing scope")
	}
}

func TestLoopStepMovingAwayIsRejected(t *testing.T) {
	cases := []struct {
		name     string
		from, to float64
		step     ast.Sequence
	}{
		{"ascending with negative step", 1, 5, ast.Seq(ast.Num(-1))},
		{"descending with positive step", 5, 1, ast.Seq(ast.Num(2))},
		{"zero step", 1, 5, ast.Seq(ast.Num(0))},
		{"zero step on equal bounds", 1, 1, ast.Seq(ast.Num(0))},
	}
	for _, tc := range cases {
		interp, _, reporter := newTestInterpreter()
		err := run(t, interp, numericLoop("i", tc.from, tc.to, tc.step, ast.Say("body")))
		if !IsKind(err, KindInfiniteLoop) {
			t.Fatalf("%s: expected infinite loop error, got %v", tc.name, err)
		}
		if len(reporter.console) != 0 {
			t.Fatalf("%s: body must not run, got %q", tc.name, reporter.console)
		}
	}
}

func TestLoopBoundsFromText(t *testing.T) {
	interp, host, reporter := newTestInterpreter()
	loop := &ast.For{
		Variable:  ast.Sym("i", ast.TypeNumeric),
		StartText: "1",
		EndText:   "2",
		Body:      ast.Block(ast.Say("{i}")),
	}
	mustRun(t, interp, loop)
	expectLines(t, reporter.console, "1", "2")
	expectLines(t, host.parsed, "1", "2")
	if !loop.Start.Empty() {
		t.Fatalf("the statement must not be rewritten")
	}

	loop.EndText = "two"
	err := run(t, interp, loop)
	expectKind(t, err, KindParseFailure)
}

func TestLoopTypeChecks(t *testing.T) {
	interp, _, _ := newTestInterpreter()
	err := run(t, interp, ast.Loop(ast.Sym("i", ast.TypeDate), ast.Seq(ast.Num(1)), ast.Seq(ast.Num(2)), nil))
	expectKind(t, err, KindTypeMismatch)

	err = run(t, interp, ast.Loop(ast.Sym("i", ast.TypeNumeric), ast.Seq(ast.Num(1)), ast.Seq(ast.Str("2")), nil))
	expectKind(t, err, KindTypeMismatch)

	err = run(t, interp, numericLoop("i", 1, 2, ast.Seq(ast.Str("1D"))))
	expectKind(t, err, KindTypeMismatch)

	err = run(t, interp, &ast.For{Variable: ast.Sym("i", ast.TypeNumeric), Start: ast.Seq(ast.Num(1))})
	expectKind(t, err, KindInvalidStatement)
}

func TestDateLoop(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		step ast.Sequence
		want []string
	}{
		{nil, nil},
		{ast.Seq(ast.Str("1W")), []string{"2024-01-01 00:00:00", "2024-01-08 00:00:00", "2024-01-15 00:00:00"}},
		{ast.Seq(ast.Num(7)), []string{"2024-01-01 00:00:00", "2024-01-08 00:00:00", "2024-01-15 00:00:00"}},
	}
	for _, tc := range cases {
		interp, _, reporter := newTestInterpreter()
		mustRun(t, interp, ast.Loop(ast.Sym("d", ast.TypeDate), ast.Seq(ast.Date(start)), ast.Seq(ast.Date(end)), tc.step, ast.Say("{d}")))
		if tc.want == nil {
			if len(reporter.console) != 15 {
				t.Fatalf("expected 15 daily iterations, got %d", len(reporter.console))
			}
			continue
		}
		expectLines(t, reporter.console, tc.want...)
	}

	interp, _, _ := newTestInterpreter()
	err := run(t, interp, ast.Loop(ast.Sym("d", ast.TypeDate), ast.Seq(ast.Date(end)), ast.Seq(ast.Date(start)), ast.Seq(ast.Str("1M"))))
	expectKind(t, err, KindInfiniteLoop)
}

func TestSoftErrorStopsRun(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := run(t, interp,
		ast.Say("before"),
		ast.Dcl("x", ast.TypeNumeric, ast.Num(10), ast.Num(0), ast.O(ast.OpDiv)),
		ast.Say("after"),
	)
	expectKind(t, err, KindDivideByZero)
	expectLines(t, reporter.console, "before")
	expectLines(t, reporter.errors, "cannot divide by zero")
	expectLines(t, reporter.info, "run finished with error cannot divide by zero")
	if !interp.Stopped() || !errors.Is(interp.Err(), err) {
		t.Fatalf("expected stopped interpreter holding the error")
	}
}

func TestErrorInsideNestedBlocksIsReportedOnce(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := run(t, interp,
		ast.Func("broken", nil, ast.WhileLoop(ast.Seq(ast.Bool(true)), ast.Throw("boom {n}"))),
		ast.Dcl("n", ast.TypeNumeric, ast.Num(7)),
		numericLoop("i", 1, 3, nil, ast.CallStmt("broken")),
	)
	expectKind(t, err, KindRaisedException)
	expectLines(t, reporter.errors, "boom 7")
}

func TestReturnOutsideFunction(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := run(t, interp, ast.Say("printed"), ast.Ret(ast.Num(1)), ast.Say("skipped"))
	expectKind(t, err, KindReturnOutsideFunction)
	expectLines(t, reporter.console, "printed")
}

func TestCaseInsensitiveNames(t *testing.T) {
	interp, _, _ := newTestInterpreter()
	mustRun(t, interp,
		ast.Dcl("Total", ast.TypeNumeric, ast.Num(1)),
		ast.Assign("TOTAL", ast.ID("total"), ast.Num(1), add()),
		ast.Func("Twice", []ast.Symbol{ast.Sym("N", ast.TypeNumeric)}, ast.Ret(ast.ID("n"), ast.Num(2), ast.O(ast.OpMul))),
		ast.Assign("total", ast.Fn("TWICE", ast.Seq(ast.ID("tOtAl")))),
	)
	if got := rootValue(t, interp, "total"); got != float64(4) {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestDeclareAndLetRetypeVariables(t *testing.T) {
	interp, _, _ := newTestInterpreter()
	mustRun(t, interp,
		ast.Dcl("s", ast.TypeString, ast.Num(5)),
		ast.Dcl("n", ast.TypeNumeric, ast.Num(1)),
		ast.Assign("n", ast.Str("abc")),
		ast.Assign("n", ast.ID("n"), ast.Num(1), add()),
		ast.Dcl("later", ast.TypeDate),
		ast.Assign("later", ast.Bool(true)),
	)
	for name, want := range map[string]any{"s": float64(5), "n": "abc1", "later": true} {
		if got := rootValue(t, interp, name); got != want {
			t.Fatalf("%s: expected %#v, got %#v", name, want, got)
		}
	}
	n, _ := interp.Scopes().Root().Variables.Get("n")
	if n.Type() != ast.TypeString {
		t.Fatalf("n should follow its value, got %s", n.Type())
	}

	err := run(t, interp, ast.Dcl("x", ast.TypeUnknown))
	expectKind(t, err, KindTypeMismatch)

	err = run(t, interp, ast.Assign("ghost", ast.Num(1)))
	expectKind(t, err, KindUndefinedVariable)

	err = run(t, interp, ast.Dcl(" ", ast.TypeString))
	expectKind(t, err, KindInvalidStatement)

	mustRun(t, interp,
		ast.Dcl("o", ast.TypeObject, ast.Num(1)),
		ast.Dcl("s", ast.TypeString, ast.ID("missing")),
		ast.Dcl("d", ast.TypeDate),
	)
	if got := rootValue(t, interp, "s"); got != "" {
		t.Fatalf("null initializer should leave the default, got %#v", got)
	}
	if got := rootValue(t, interp, "d"); got != runtime.DefaultDate {
		t.Fatalf("expected default date, got %v", got)
	}
}

func TestRunArgumentsAcceptAnyValue(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := interp.Run(context.Background(), ast.Block(
		ast.Assign("a", ast.Str("x")),
		ast.Say("a={a}"),
	), map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	expectLines(t, reporter.console, "a=x")
}

func TestRequireDeclaration(t *testing.T) {
	interp, _, _ := newTestInterpreter(WithRequireDeclaration(true))
	err := run(t, interp, ast.Dcl("x", ast.TypeNumeric, ast.ID("y")))
	expectKind(t, err, KindUndefinedVariable)

	interp, _, _ = newTestInterpreter(WithOptions(Options{RequireDeclaration: false}))
	mustRun(t, interp, ast.Dcl("x", ast.TypeNumeric, ast.ID("y")))
}

func TestIfBranchesRunInChildScopes(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	mustRun(t, interp,
		ast.Dcl("n", ast.TypeNumeric, ast.Num(5)),
		ast.Cond(ast.Seq(ast.ID("n"), ast.Num(3), ast.O(ast.OpGt)),
			ast.Block(ast.Dcl("inner", ast.TypeString, ast.Str("x")), ast.Say("big")),
			ast.Block(ast.Say("small")),
		),
		ast.Cond(ast.Seq(ast.ID("n"), ast.Num(3), ast.O(ast.OpLt)), ast.Block(ast.Say("never")), nil),
	)
	expectLines(t, reporter.console, "big")
	if interp.Scopes().Root().Variables.Exists("inner") {
		t.Fatalf("branch locals must not leak")
	}

	err := run(t, interp, ast.Cond(ast.Seq(ast.Num(1)), nil, nil))
	expectKind(t, err, KindTypeMismatch)
	err = run(t, interp, ast.Cond(nil, nil, nil))
	expectKind(t, err, KindInvalidStatement)
}

func TestWhileAndDoWhile(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	mustRun(t, interp,
		ast.Dcl("n", ast.TypeNumeric, ast.Num(0)),
		ast.WhileLoop(ast.Seq(ast.ID("n"), ast.Num(3), ast.O(ast.OpLt)),
			ast.Assign("n", ast.ID("n"), ast.Num(1), add()),
		),
		ast.DoLoop(ast.Seq(ast.Bool(false)), ast.Say("once {n}")),
	)
	expectLines(t, reporter.console, "once 3")

	err := run(t, interp, ast.WhileLoop(ast.Seq(ast.Str("yes"))))
	expectKind(t, err, KindTypeMismatch)
	err = run(t, interp, ast.DoLoop(nil, ast.Say("x")))
	expectKind(t, err, KindInvalidStatement)
}

func TestPrintCommentAndRaise(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := run(t, interp,
		ast.Note("setup"),
		ast.Say(""),
		ast.Say("  "),
		ast.Throw(""),
	)
	expectKind(t, err, KindRaisedException)
	expectLines(t, reporter.debug, "Comment: setup")
	expectLines(t, reporter.console, "Print", "Print")
	expectLines(t, reporter.errors, "Exception")

	err = run(t, interp, ast.Say("{unknown}"))
	expectKind(t, err, KindHostFailure)
}

func TestExtensionStatements(t *testing.T) {
	interp, host, _ := newTestInterpreter()
	mustRun(t, interp, &ast.Extension{Kind: "audit"})
	expectLines(t, host.extensions, "audit")

	host.extension = func(stmt *ast.Extension) error { return fmt.Errorf("%s failed", stmt.Kind) }
	err := run(t, interp, &ast.Extension{Kind: "audit"})
	expectKind(t, err, KindHostFailure)

	host.extension = func(*ast.Extension) error { return newError(KindUnsupported, "nope") }
	err = run(t, interp, &ast.Extension{Kind: "audit"})
	expectKind(t, err, KindUnsupported)
}

func TestArgumentsBoundInRootScope(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	err := interp.Run(context.Background(), ast.Block(ast.Say("{name} is {age}")), map[string]any{"name": "Ada", "age": 36})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	expectLines(t, reporter.console, "Ada is 36")
}

func TestCancellation(t *testing.T) {
	interp, host, reporter := newTestInterpreter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := 0
	host.implicit["tick"] = func(context.Context, runtime.Lookup) (*runtime.Variable, error) {
		ticks++
		if ticks == 3 {
			cancel()
		}
		return nil, nil
	}
	interp.RegisterImplicit("tick")
	err := interp.Run(ctx, ast.Block(ast.WhileLoop(ast.Seq(ast.Bool(true)), ast.CallStmt("tick"), ast.Say("tock"))), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", ticks)
	}
	if len(reporter.console) != 2 {
		t.Fatalf("expected the statement after cancellation to be skipped, got %q", reporter.console)
	}
	if len(reporter.errors) != 0 || len(reporter.info) != 0 {
		t.Fatalf("cancellation must not be reported, got %q %q", reporter.errors, reporter.info)
	}
}

func TestCancelledBeforeRun(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := interp.Run(ctx, ast.Block(ast.Say("never")), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(reporter.console) != 0 {
		t.Fatalf("nothing should run, got %q", reporter.console)
	}
}

func TestExecuteWithoutBeginFaults(t *testing.T) {
	interp, _, _ := newTestInterpreter()
	err := interp.Execute(context.Background(), ast.Block(ast.Say("x")))
	var fault *runtime.Fault
	if !errors.As(err, &fault) || fault.Kind != runtime.FaultScopeUnderflow {
		t.Fatalf("expected scope underflow fault, got %v", err)
	}
}

func TestExecuteKeepsScopesBetweenCalls(t *testing.T) {
	interp, _, reporter := newTestInterpreter()
	interp.Begin(nil)
	if err := interp.Execute(context.Background(), ast.Block(ast.Dcl("x", ast.TypeNumeric, ast.Num(1)))); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	err := interp.Execute(context.Background(), ast.Block(ast.Assign("x", ast.Str("bad"))))
	expectKind(t, err, KindTypeMismatch)
	if err := interp.Execute(context.Background(), ast.Block(ast.Say("{x}"))); err != nil {
		t.Fatalf("third execute: %v", err)
	}
	expectLines(t, reporter.console, "1")
	if interp.Stopped() {
		t.Fatalf("a later execute clears the stop flag")
	}
}
