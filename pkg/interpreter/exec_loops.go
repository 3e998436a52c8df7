package interpreter

import (
	"context"
	"strings"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeFor(ctx context.Context, s *ast.For) error {
	name := strings.TrimSpace(s.Variable.Name)
	if name == "" {
		return newError(KindInvalidStatement, "for loop without a variable")
	}
	startExpr, err := i.loopBound(s.Start, s.StartText, name, "start")
	if err != nil {
		return err
	}
	endExpr, err := i.loopBound(s.End, s.EndText, name, "end")
	if err != nil {
		return err
	}
	stepExpr, err := i.loopBound(s.Step, s.StepText, name, "step")
	if err != nil {
		return err
	}
	if startExpr.Empty() || endExpr.Empty() {
		return newError(KindInvalidStatement, "for loop %s needs a start and an end", name)
	}

	start, err := i.evaluate(ctx, startExpr)
	if err != nil {
		return err
	}
	if start.Type() != s.Variable.Type {
		return newError(KindTypeMismatch, "start of loop %s is %s, expected %s", name, start.Type(), s.Variable.Type)
	}
	if start.Type() != ast.TypeNumeric && start.Type() != ast.TypeDate {
		return newError(KindTypeMismatch, "loop %s must count over numbers or dates, got %s", name, start.Type())
	}
	end, err := i.evaluate(ctx, endExpr)
	if err != nil {
		return err
	}
	if end.Type() != start.Type() {
		return newError(KindTypeMismatch, "end of loop %s is %s, expected %s", name, end.Type(), start.Type())
	}
	step := runtime.NewVariable("Step", ast.TypeNumeric, 1)
	if !stepExpr.Empty() {
		if step, err = i.evaluate(ctx, stepExpr); err != nil {
			return err
		}
	}
	direction, err := stepDirection(start, step)
	if err != nil {
		return err
	}
	order, err := runtime.Compare(end, start)
	if err != nil {
		return wrapError(KindTypeMismatch, err, "loop %s", name)
	}
	ascending := order != runtime.Less
	if direction == 0 || ascending != (direction > 0) {
		return newError(KindInfiniteLoop, "loop %s from %s to %s never ends with step %s", name, start, end, step)
	}

	i.scopes.Push()
	defer i.scopes.Pop()
	index := runtime.NewVariable(name, start.Type(), start.Value())
	for !i.halted(ctx) {
		i.scopes.Current().Variables.Put(index)
		order, err := runtime.Compare(index, end)
		if err != nil {
			return wrapError(KindTypeMismatch, err, "loop %s", name)
		}
		if (ascending && order == runtime.Greater) || (!ascending && order == runtime.Less) {
			return nil
		}
		if err := i.executeBlock(ctx, s.Body); err != nil {
			return err
		}
		if i.halted(ctx) {
			return nil
		}
		if err := runtime.Sum(index, step); err != nil {
			return wrapError(KindTypeMismatch, err, "step of loop %s", name)
		}
	}
	return nil
}

// loopBound returns the parsed bound, parsing raw text through the host when
// only text was supplied.
func (i *Interpreter) loopBound(expression ast.Sequence, text, name, bound string) (ast.Sequence, error) {
	if !expression.Empty() || strings.TrimSpace(text) == "" {
		return expression, nil
	}
	parsed, err := i.host.ParseExpression(text)
	if err != nil {
		return nil, wrapError(KindParseFailure, err, "%s of loop %s", bound, name)
	}
	return parsed, nil
}

// stepDirection returns the sign of the step, checking that it can advance the
// index: Numeric steps for Numeric indexes, day counts or intervals for Dates.
func stepDirection(start, step *runtime.Variable) (int, error) {
	if start.Type() == ast.TypeNumeric {
		if step.Type() != ast.TypeNumeric {
			return 0, newError(KindTypeMismatch, "step of loop %s must be numeric, got %s", start.Name, step.Type())
		}
		n := numberOf(step)
		switch {
		case n > 0:
			return 1, nil
		case n < 0:
			return -1, nil
		default:
			return 0, nil
		}
	}
	if step.Type() != ast.TypeNumeric && step.Type() != ast.TypeString {
		return 0, newError(KindTypeMismatch, "step of loop %s must be a day count or an interval, got %s", start.Name, step.Type())
	}
	interval, err := runtime.IntervalOf(step)
	if err != nil {
		return 0, wrapError(KindTypeMismatch, err, "step of loop %s", start.Name)
	}
	switch {
	case interval.Amount > 0:
		return 1, nil
	case interval.Amount < 0:
		return -1, nil
	default:
		return 0, nil
	}
}

func (i *Interpreter) executeWhile(ctx context.Context, s *ast.While) error {
	for !i.halted(ctx) {
		ok, err := i.condition(ctx, s.Condition, "while")
		if err != nil || !ok {
			return err
		}
		if err := i.executeScoped(ctx, s.Body); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeDoWhile(ctx context.Context, s *ast.DoWhile) error {
	if s.Condition.Empty() {
		return newError(KindInvalidStatement, "do loop without a condition")
	}
	for !i.halted(ctx) {
		if err := i.executeScoped(ctx, s.Body); err != nil {
			return err
		}
		if i.halted(ctx) {
			return nil
		}
		ok, err := i.condition(ctx, s.Condition, "do")
		if err != nil || !ok {
			return err
		}
	}
	return nil
}
