package interpreter

import (
	"context"
	"strings"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeFunctionDecl(s *ast.FunctionDecl) error {
	if strings.TrimSpace(s.Name) == "" {
		return newError(KindInvalidStatement, "function without a name")
	}
	for _, param := range s.Params {
		if strings.TrimSpace(param.Name) == "" {
			return newError(KindInvalidStatement, "function %s has a parameter without a name", s.Name)
		}
	}
	i.scopes.Current().Functions.Add(runtime.NewUserFunction(s))
	return nil
}

// callFunction evaluates args in the caller's scope, binds them by position in
// a new scope and runs the function. Extra arguments are ignored. When
// wantResult is set a function that never returns is an error.
func (i *Interpreter) callFunction(ctx context.Context, name string, args []ast.Sequence, wantResult bool) (*runtime.Variable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindInvalidStatement, "call without a function name")
	}
	fn, ok := i.scopes.FindFunction(name)
	if !ok {
		return nil, newError(KindUndefinedFunction, "function %s is not declared", name)
	}
	values := make([]*runtime.Variable, 0, len(args))
	for _, arg := range args {
		value, err := i.evaluate(ctx, arg)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if len(values) < len(fn.Params) {
		return nil, newError(KindArgumentMismatch, "function %s expects %d arguments, got %d", fn.Name, len(fn.Params), len(values))
	}

	var scope *runtime.Scope
	if fn.Kind == runtime.FunctionUserDefined {
		scope = i.scopes.PushFrame()
	} else {
		scope = i.scopes.Push()
	}
	defer i.scopes.Pop()
	for idx, param := range fn.Params {
		scope.Variables.Put(runtime.NewVariable(param.Name, param.Type, values[idx].Value()))
	}

	if fn.Kind == runtime.FunctionImplicit {
		value, err := i.host.CallImplicit(ctx, fn, i.scopes)
		if err != nil {
			return nil, wrapError(KindHostFailure, err, "function %s", fn.Name)
		}
		if value == nil && wantResult {
			return nil, newError(KindMissingReturn, "function %s returned no value", fn.Name)
		}
		return value, nil
	}

	err := i.executeBlock(ctx, fn.Body)
	i.returning = false
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, returned := scope.ReturnSlot().Value()
	if wantResult && !returned {
		return nil, newError(KindMissingReturn, "function %s did not return a value", fn.Name)
	}
	return value, nil
}

// executeReturn stores the value in the nearest function frame and unwinds the
// rest of the function body.
func (i *Interpreter) executeReturn(ctx context.Context, s *ast.Return) error {
	slot, ok := i.scopes.Frame()
	if !ok {
		return newError(KindReturnOutsideFunction, "return outside of a function")
	}
	value := runtime.NewVariable("Return", ast.TypeVoid, nil)
	if !s.Value.Empty() {
		var err error
		if value, err = i.evaluate(ctx, s.Value); err != nil {
			return err
		}
	}
	slot.Store(value)
	i.returning = true
	return nil
}
