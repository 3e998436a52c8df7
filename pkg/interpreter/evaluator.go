package interpreter

import (
	"context"

	"libinterpreter/interpreter-go/pkg/ast"
	"libinterpreter/interpreter-go/pkg/runtime"
)

type operandStack struct {
	items []*runtime.Variable
}

func (s *operandStack) push(v *runtime.Variable) {
	s.items = append(s.items, v)
}

func (s *operandStack) pop() (*runtime.Variable, error) {
	if len(s.items) == 0 {
		return nil, newError(KindStackUnderflow, "there are no operands in the operand stack")
	}
	last := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return last, nil
}

func (s *operandStack) len() int { return len(s.items) }

// evaluate runs a postfix sequence and returns a detached copy of its single
// result.
func (i *Interpreter) evaluate(ctx context.Context, expression ast.Sequence) (*runtime.Variable, error) {
	var stack operandStack
	for _, node := range expression {
		switch n := node.(type) {
		case *ast.Constant:
			stack.push(runtime.NewVariable("Constant", n.Type, n.Value))
		case *ast.Identifier:
			v, err := i.resolveIdentifier(ctx, n)
			if err != nil {
				return nil, err
			}
			stack.push(v)
		case *ast.Call:
			v, err := i.callFunction(ctx, n.Name, n.Args, true)
			if err != nil {
				return nil, err
			}
			stack.push(v)
		case *ast.Operator:
			v, err := i.applyOperator(&stack, n)
			if err != nil {
				return nil, err
			}
			stack.push(v)
		case *ast.Paren:
			runtime.Raise(runtime.FaultContract, "parenthesis %s in postfix expression %s", n, expression)
		default:
			runtime.Raise(runtime.FaultContract, "unexpected node %v in expression %s", node, expression)
		}
	}
	switch stack.len() {
	case 0:
		return nil, newError(KindStackUnderflow, "there are no operands in the expression %s", expression)
	case 1:
		return stack.items[0].Copy("Result"), nil
	default:
		return nil, newError(KindStackOverflow, "there are too many operands in the expression %s", expression)
	}
}

func (i *Interpreter) applyOperator(stack *operandStack, op *ast.Operator) (*runtime.Variable, error) {
	if op.Op == ast.OpNot {
		return nil, newError(KindUnsupported, "operator not is not supported")
	}
	if op.Op == ast.OpNeg {
		operand, err := stack.pop()
		if err != nil {
			return nil, newError(KindStackUnderflow, "operator %s has no operands", op)
		}
		return computeUnary(op, operand)
	}
	if stack.len() >= 2 {
		second, _ := stack.pop()
		first, _ := stack.pop()
		return computeBinary(op, first, second)
	}
	operand, err := stack.pop()
	if err != nil {
		return nil, newError(KindStackUnderflow, "operator %s has no operands", op)
	}
	return computeUnary(op, operand)
}

func (i *Interpreter) resolveIdentifier(ctx context.Context, id *ast.Identifier) (*runtime.Variable, error) {
	if !id.Index.Empty() {
		index, err := i.evaluate(ctx, id.Index)
		if err != nil {
			return nil, err
		}
		if index.Type() != ast.TypeNumeric {
			return nil, newError(KindTypeMismatch, "index of %s must be numeric, got %s", id.Name, index.Type())
		}
		return nil, newError(KindUnsupported, "indexed access to %s is not supported", id.Name)
	}
	if id.Member != nil {
		return nil, newError(KindUnsupported, "member access %s is not supported", id)
	}
	v, ok := i.scopes.Resolve(id.Name, i.policy())
	if !ok {
		return nil, newError(KindUndefinedVariable, "variable %s is not declared", id.Name)
	}
	return v, nil
}
