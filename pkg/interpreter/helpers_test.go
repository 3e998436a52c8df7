package interpreter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

type recordingReporter struct {
	debug   []string
	info    []string
	console []string
	errors  []string
}

func (r *recordingReporter) Debug(message string)   { r.debug = append(r.debug, message) }
func (r *recordingReporter) Info(message string)    { r.info = append(r.info, message) }
func (r *recordingReporter) Console(message string) { r.console = append(r.console, message) }
func (r *recordingReporter) Error(message string, _ error) {
	r.errors = append(r.errors, message)
}

// fakeHost formats "{name}" placeholders, parses plain numbers and dispatches
// implicit functions and extensions to per-test callbacks.
type fakeHost struct {
	implicit   map[string]func(ctx context.Context, args runtime.Lookup) (*runtime.Variable, error)
	extensions []string
	extension  func(stmt *ast.Extension) error
	parsed     []string
}

func (h *fakeHost) ExecuteStatement(_ context.Context, stmt ast.Statement, _ runtime.Lookup) error {
	ext, ok := stmt.(*ast.Extension)
	if !ok {
		return fmt.Errorf("unexpected statement %s", stmt.StatementType())
	}
	h.extensions = append(h.extensions, ext.Kind)
	if h.extension != nil {
		return h.extension(ext)
	}
	return nil
}

func (h *fakeHost) CallImplicit(ctx context.Context, fn *runtime.Function, args runtime.Lookup) (*runtime.Variable, error) {
	call, ok := h.implicit[strings.ToLower(fn.Name)]
	if !ok {
		return nil, fmt.Errorf("no implementation for %s", fn.Name)
	}
	return call(ctx, args)
}

func (h *fakeHost) ParseExpression(text string) (ast.Sequence, error) {
	h.parsed = append(h.parsed, text)
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil, err
	}
	return ast.Seq(ast.Num(n)), nil
}

func (h *fakeHost) FormatString(text string, scope runtime.Lookup) (string, error) {
	var out strings.Builder
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(text[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder in %q", text)
		}
		out.WriteString(text[:open])
		name := text[open+1 : open+end]
		v, ok := scope.Lookup(name)
		if !ok {
			return "", fmt.Errorf("unknown variable %s", name)
		}
		out.WriteString(runtime.Format(v.Value()))
		text = text[open+end+1:]
	}
	out.WriteString(text)
	return out.String(), nil
}

func newTestInterpreter(opts ...Option) (*Interpreter, *fakeHost, *recordingReporter) {
	host := &fakeHost{implicit: map[string]func(context.Context, runtime.Lookup) (*runtime.Variable, error){}}
	reporter := &recordingReporter{}
	return New(host, reporter, opts...), host, reporter
}

func run(t *testing.T, interp *Interpreter, program ...ast.Statement) error {
	t.Helper()
	return interp.Run(context.Background(), program, nil)
}

func mustRun(t *testing.T, interp *Interpreter, program ...ast.Statement) {
	t.Helper()
	if err := run(t, interp, program...); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if !IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v (%T)", kind, err, err)
	}
}

func rootValue(t *testing.T, interp *Interpreter, name string) any {
	t.Helper()
	v, ok := interp.Scopes().Root().Variables.Get(name)
	if !ok {
		t.Fatalf("variable %s not found in root scope", name)
	}
	return v.Value()
}

func expectLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("line %d: expected %q, got %q", idx, want[idx], got[idx])
		}
	}
}

func add() *ast.Operator { return ast.O(ast.OpAdd) }
