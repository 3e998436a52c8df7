// Package host provides the default interpreter.Host and interpreter.Reporter
// used by the command line: "{name}" message formatting, a library of builtin
// functions and slog based diagnostics.
package host

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/interpreter"
	"libinterpreter/interpreter-go/pkg/parser"
	"libinterpreter/interpreter-go/pkg/runtime"
)

// ExtensionFunc executes a host-defined statement kind.
type ExtensionFunc func(ctx context.Context, stmt *ast.Extension, scope runtime.Lookup) error

// Host resolves builtins and extension statements by case-insensitive name.
type Host struct {
	locale     string
	now        func() time.Time
	builtins   map[string]*Builtin
	extensions map[string]ExtensionFunc
}

type Option func(*Host)

// WithLocale sets the locale used by format_number and format_date.
func WithLocale(locale string) Option {
	return func(h *Host) {
		h.locale = strings.TrimSpace(locale)
	}
}

// WithClock replaces time.Now for the now and today builtins.
func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		h.now = now
	}
}

func WithExtension(kind string, fn ExtensionFunc) Option {
	return func(h *Host) {
		h.extensions[runtime.FoldName(kind)] = fn
	}
}

func New(opts ...Option) *Host {
	h := &Host{
		locale:     "en_US",
		now:        time.Now,
		builtins:   map[string]*Builtin{},
		extensions: map[string]ExtensionFunc{},
	}
	for _, b := range standardBuiltins() {
		h.AddBuiltin(b)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddBuiltin registers or replaces a builtin.
func (h *Host) AddBuiltin(b *Builtin) {
	h.builtins[runtime.FoldName(b.Name)] = b
}

// Builtins lists the registered builtins ordered by name.
func (h *Host) Builtins() []*Builtin {
	out := make([]*Builtin, 0, len(h.builtins))
	for _, b := range h.builtins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Install makes every builtin callable from scripts run by interp.
func (h *Host) Install(interp *interpreter.Interpreter) {
	for _, b := range h.Builtins() {
		interp.RegisterImplicit(b.Name, b.Params...)
	}
}

func (h *Host) ExecuteStatement(ctx context.Context, stmt ast.Statement, scope runtime.Lookup) error {
	ext, ok := stmt.(*ast.Extension)
	if !ok {
		return fmt.Errorf("host: cannot execute %s statement", stmt.StatementType())
	}
	fn, ok := h.extensions[runtime.FoldName(ext.Kind)]
	if !ok {
		return &interpreter.ScriptError{
			Kind:    interpreter.KindUnsupported,
			Message: fmt.Sprintf("statement %s is not supported", ext.Kind),
		}
	}
	return fn(ctx, ext, scope)
}

func (h *Host) CallImplicit(ctx context.Context, fn *runtime.Function, args runtime.Lookup) (*runtime.Variable, error) {
	b, ok := h.builtins[runtime.FoldName(fn.Name)]
	if !ok {
		return nil, &interpreter.ScriptError{
			Kind:    interpreter.KindUndefinedFunction,
			Message: fmt.Sprintf("function %s has no host implementation", fn.Name),
		}
	}
	return b.Call(ctx, h, Args{scope: args, fn: b.Name})
}

func (h *Host) ParseExpression(text string) (ast.Sequence, error) {
	return parser.Parse(text)
}

// FormatString replaces {name} with the formatted value of the variable name.
// "{{" and "}}" stand for literal braces.
func (h *Host) FormatString(text string, scope runtime.Lookup) (string, error) {
	if !strings.ContainsAny(text, "{}") {
		return text, nil
	}
	var out strings.Builder
	for idx := 0; idx < len(text); idx++ {
		ch := text[idx]
		switch {
		case ch == '{' && idx+1 < len(text) && text[idx+1] == '{':
			out.WriteByte('{')
			idx++
		case ch == '}' && idx+1 < len(text) && text[idx+1] == '}':
			out.WriteByte('}')
			idx++
		case ch == '{':
			end := strings.IndexByte(text[idx:], '}')
			if end < 0 {
				return "", fmt.Errorf("host: unterminated placeholder in %q", text)
			}
			name := strings.TrimSpace(text[idx+1 : idx+end])
			v, ok := scope.Lookup(name)
			if !ok {
				return "", &interpreter.ScriptError{
					Kind:    interpreter.KindUndefinedVariable,
					Message: fmt.Sprintf("variable %s is not declared", name),
				}
			}
			out.WriteString(runtime.Format(v.Value()))
			idx += end
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), nil
}
