package interpreter

import (
	"context"
	"fmt"
	"strings"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

// executeBlock runs statements in order until the list ends, the run stops, a
// Return unwinds the enclosing function or the context is cancelled.
func (i *Interpreter) executeBlock(ctx context.Context, statements []ast.Statement) error {
	for _, stmt := range statements {
		if i.halted(ctx) {
			return nil
		}
		if err := i.executeStatement(ctx, stmt); err != nil {
			return i.fail(err)
		}
	}
	return nil
}

// executeScoped runs statements inside a fresh child scope.
func (i *Interpreter) executeScoped(ctx context.Context, statements []ast.Statement) error {
	if len(statements) == 0 {
		return nil
	}
	i.scopes.Push()
	defer i.scopes.Pop()
	return i.executeBlock(ctx, statements)
}

func (i *Interpreter) executeStatement(ctx context.Context, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case nil:
		return newError(KindInvalidStatement, "missing statement")
	case *ast.Declare:
		return i.executeDeclare(ctx, s)
	case *ast.Let:
		return i.executeLet(ctx, s)
	case *ast.For:
		return i.executeFor(ctx, s)
	case *ast.If:
		return i.executeIf(ctx, s)
	case *ast.While:
		return i.executeWhile(ctx, s)
	case *ast.DoWhile:
		return i.executeDoWhile(ctx, s)
	case *ast.FunctionDecl:
		return i.executeFunctionDecl(s)
	case *ast.CallFunction:
		_, err := i.callFunction(ctx, s.Name, s.Args, false)
		return err
	case *ast.Return:
		return i.executeReturn(ctx, s)
	case *ast.Print:
		return i.executePrint(s)
	case *ast.Comment:
		i.reporter.Debug("Comment: " + s.Text)
		return nil
	case *ast.Raise:
		return i.executeRaise(s)
	default:
		err := i.host.ExecuteStatement(ctx, stmt, i.scopes)
		return wrapError(KindHostFailure, err, "%s statement", stmt.StatementType())
	}
}

func (i *Interpreter) executeDeclare(ctx context.Context, s *ast.Declare) error {
	name := strings.TrimSpace(s.Variable.Name)
	if name == "" {
		return newError(KindInvalidStatement, "declare without a variable name")
	}
	if s.Variable.Type == ast.TypeUnknown {
		return newError(KindTypeMismatch, "variable %s has no type", name)
	}
	variable := runtime.NewVariable(name, s.Variable.Type, nil)
	if !s.Init.Empty() {
		value, err := i.evaluate(ctx, s.Init)
		if err != nil {
			return err
		}
		if !value.IsNull() {
			variable.Set(value.Value())
		}
	}
	i.scopes.Current().Variables.Put(variable)
	i.reporter.Debug(fmt.Sprintf("Declare %s = %s", name, variable))
	return nil
}

func (i *Interpreter) executeLet(ctx context.Context, s *ast.Let) error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return newError(KindInvalidStatement, "let without a variable name")
	}
	target, ok := i.scopes.Find(name)
	if !ok {
		return newError(KindUndefinedVariable, "variable %s is not declared", name)
	}
	if s.Value.Empty() {
		return newError(KindInvalidStatement, "let %s without a value", name)
	}
	value, err := i.evaluate(ctx, s.Value)
	if err != nil {
		return err
	}
	target.Set(value.Value())
	return nil
}

func (i *Interpreter) executeIf(ctx context.Context, s *ast.If) error {
	ok, err := i.condition(ctx, s.Condition, "if")
	if err != nil {
		return err
	}
	if ok {
		return i.executeScoped(ctx, s.Then)
	}
	return i.executeScoped(ctx, s.Else)
}

// executePrint writes the formatted message; a blank message prints the
// statement name.
func (i *Interpreter) executePrint(s *ast.Print) error {
	if strings.TrimSpace(s.Message) == "" {
		i.reporter.Console("Print")
		return nil
	}
	message, err := i.host.FormatString(s.Message, i.scopes)
	if err != nil {
		return wrapError(KindHostFailure, err, "print")
	}
	i.reporter.Console(message)
	return nil
}

func (i *Interpreter) executeRaise(s *ast.Raise) error {
	if strings.TrimSpace(s.Message) == "" {
		return newError(KindRaisedException, "Exception")
	}
	message, err := i.host.FormatString(s.Message, i.scopes)
	if err != nil {
		return wrapError(KindHostFailure, err, "raise")
	}
	return newError(KindRaisedException, "%s", message)
}

// condition evaluates a guard that must produce a Boolean.
func (i *Interpreter) condition(ctx context.Context, expression ast.Sequence, statement string) (bool, error) {
	if expression.Empty() {
		return false, newError(KindInvalidStatement, "%s without a condition", statement)
	}
	value, err := i.evaluate(ctx, expression)
	if err != nil {
		return false, err
	}
	b, ok := value.Value().(bool)
	if !ok || value.Type() != ast.TypeBoolean {
		return false, newError(KindTypeMismatch, "%s condition must be boolean, got %s", statement, value.Type())
	}
	return b, nil
}
