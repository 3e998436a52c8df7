package interpreter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

// Options tunes a run.
type Options struct {
	// RequireDeclaration makes reads of unknown variables fail instead of
	// declaring them on the fly.
	RequireDeclaration bool
}

type Option func(*Interpreter)

func WithRequireDeclaration(require bool) Option {
	return func(i *Interpreter) {
		i.options.RequireDeclaration = require
	}
}

func WithOptions(options Options) Option {
	return func(i *Interpreter) {
		i.options = options
	}
}

// Interpreter runs one program at a time. It is not safe for concurrent use;
// cancellation goes through the context handed to Run.
type Interpreter struct {
	host     Host
	reporter Reporter
	options  Options
	scopes   *runtime.ScopeStack
	implicit []*runtime.Function

	stopped   bool
	returning bool
	err       error
}

func New(host Host, reporter Reporter, opts ...Option) *Interpreter {
	if host == nil {
		host = nopHost{}
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	i := &Interpreter{
		host:     host,
		reporter: reporter,
		scopes:   runtime.NewScopeStack(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RegisterImplicit makes a host function callable from scripts. It is added to
// the root scope whenever a run begins.
func (i *Interpreter) RegisterImplicit(name string, params ...ast.Symbol) {
	i.implicit = append(i.implicit, runtime.NewImplicitFunction(name, params...))
}

func (i *Interpreter) Options() Options { return i.options }

func (i *Interpreter) Scopes() *runtime.ScopeStack { return i.scopes }

// Stopped reports whether the last run ended on an error.
func (i *Interpreter) Stopped() bool { return i.stopped }

// Err returns the error that stopped the last run.
func (i *Interpreter) Err() error { return i.err }

// Run resets the scope stack, binds args as root variables and executes program.
func (i *Interpreter) Run(ctx context.Context, program []ast.Statement, args map[string]any) (err error) {
	defer i.recoverFault(&err)
	i.Begin(args)
	err = i.Execute(ctx, program)
	if err != nil && !isCancellation(err) {
		i.reporter.Info(fmt.Sprintf("run finished with error %s", err))
	} else if err == nil {
		i.reporter.Info("run finished")
	}
	return err
}

// Begin prepares a fresh root scope. Execute can then be called repeatedly
// against the same scopes.
func (i *Interpreter) Begin(args map[string]any) {
	i.scopes.Clear()
	root := i.scopes.Push()
	for _, fn := range i.implicit {
		root.Functions.Add(fn)
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := args[name]
		root.Variables.Add(name, ast.TypeUnknown, value)
	}
	i.resetState()
}

// Execute runs statements in the current scope.
func (i *Interpreter) Execute(ctx context.Context, statements []ast.Statement) (err error) {
	defer i.recoverFault(&err)
	if ctx == nil {
		ctx = context.Background()
	}
	i.resetState()
	i.scopes.Current()
	if err := i.executeBlock(ctx, statements); err != nil {
		return err
	}
	if i.err != nil {
		return i.err
	}
	return ctx.Err()
}

// Evaluate computes a postfix expression in the current scope. Errors are
// returned but not reported.
func (i *Interpreter) Evaluate(ctx context.Context, expression ast.Sequence) (result *runtime.Variable, err error) {
	defer i.recoverFault(&err)
	if ctx == nil {
		ctx = context.Background()
	}
	i.scopes.Current()
	return i.evaluate(ctx, expression)
}

func (i *Interpreter) resetState() {
	i.stopped = false
	i.returning = false
	i.err = nil
}

func (i *Interpreter) policy() runtime.DeclarePolicy {
	if i.options.RequireDeclaration {
		return runtime.RequireDeclaration
	}
	return runtime.AutoDeclare
}

func (i *Interpreter) halted(ctx context.Context) bool {
	return i.stopped || i.returning || ctx.Err() != nil
}

// fail records the first error of a run and reports it once. Cancellation is
// not an error of the script and is never reported.
func (i *Interpreter) fail(err error) error {
	if i.stopped || isCancellation(err) {
		return err
	}
	i.stopped = true
	i.err = err
	i.reporter.Error(err.Error(), err)
	return err
}

func (i *Interpreter) recoverFault(err *error) {
	r := recover()
	if r == nil {
		return
	}
	fault, ok := r.(*runtime.Fault)
	if !ok {
		panic(r)
	}
	i.stopped = true
	i.returning = false
	i.err = fault
	*err = fault
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
