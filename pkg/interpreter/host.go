package interpreter

import (
	"context"
	"fmt"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

// Host is everything the interpreter needs from the embedding application.
type Host interface {
	// ExecuteStatement runs a statement kind the interpreter does not know.
	ExecuteStatement(ctx context.Context, stmt ast.Statement, scope runtime.Lookup) error
	// CallImplicit runs a host function. Arguments are bound by parameter
	// name in the scope reachable through args.
	CallImplicit(ctx context.Context, fn *runtime.Function, args runtime.Lookup) (*runtime.Variable, error)
	// ParseExpression turns raw expression text into a postfix sequence.
	ParseExpression(text string) (ast.Sequence, error)
	// FormatString expands script variables referenced by text.
	FormatString(text string, scope runtime.Lookup) (string, error)
}

// Reporter receives the diagnostics of a run.
type Reporter interface {
	Debug(message string)
	Info(message string)
	Console(message string)
	Error(message string, err error)
}

type nopHost struct{}

func (nopHost) ExecuteStatement(_ context.Context, stmt ast.Statement, _ runtime.Lookup) error {
	return newError(KindUnsupported, "no host to execute %s statement", stmt.StatementType())
}

func (nopHost) CallImplicit(_ context.Context, fn *runtime.Function, _ runtime.Lookup) (*runtime.Variable, error) {
	return nil, newError(KindUnsupported, "no host to execute function %s", fn.Name)
}

func (nopHost) ParseExpression(text string) (ast.Sequence, error) {
	return nil, fmt.Errorf("no expression parser for %q", text)
}

func (nopHost) FormatString(text string, _ runtime.Lookup) (string, error) {
	return text, nil
}

type nopReporter struct{}

func (nopReporter) Debug(string)        {}
func (nopReporter) Info(string)         {}
func (nopReporter) Console(string)      {}
func (nopReporter) Error(string, error) {}
