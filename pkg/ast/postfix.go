package ast

import "fmt"

// ToPostfix converts an infix sequence to postfix order using operator
// precedence. Function arguments and index expressions are converted too.
// The input is not modified.
func ToPostfix(infix Sequence) (Sequence, error) {
	out := make(Sequence, 0, len(infix))
	var pending []Node
	for _, node := range infix {
		switch n := node.(type) {
		case *Constant:
			out = append(out, n)
		case *Identifier:
			converted, err := identifierToPostfix(n)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		case *Call:
			args := make([]Sequence, 0, len(n.Args))
			for idx, arg := range n.Args {
				converted, err := ToPostfix(arg)
				if err != nil {
					return nil, fmt.Errorf("argument %d of %s: %w", idx+1, n.Name, err)
				}
				args = append(args, converted)
			}
			out = append(out, NewCall(n.Name, args))
		case *Paren:
			if n.Open {
				pending = append(pending, n)
				continue
			}
			matched := false
			for len(pending) > 0 {
				top := pending[len(pending)-1]
				pending = pending[:len(pending)-1]
				if paren, ok := top.(*Paren); ok && paren.Open {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched {
				return nil, fmt.Errorf("unbalanced parenthesis: missing '('")
			}
		case *Operator:
			if !n.Prefix() {
				for len(pending) > 0 {
					top, ok := pending[len(pending)-1].(*Operator)
					if !ok || top.Precedence() < n.Precedence() {
						break
					}
					out = append(out, top)
					pending = pending[:len(pending)-1]
				}
			}
			pending = append(pending, n)
		case nil:
			return nil, fmt.Errorf("nil node in expression")
		default:
			return nil, fmt.Errorf("unsupported expression node %s", node.NodeType())
		}
	}
	for len(pending) > 0 {
		top := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := top.(*Paren); ok {
			return nil, fmt.Errorf("unbalanced parenthesis: missing ')'")
		}
		out = append(out, top)
	}
	return out, nil
}

func identifierToPostfix(id *Identifier) (*Identifier, error) {
	copied := &Identifier{Name: id.Name}
	if len(id.Index) > 0 {
		index, err := ToPostfix(id.Index)
		if err != nil {
			return nil, fmt.Errorf("index of %s: %w", id.Name, err)
		}
		copied.Index = index
	}
	if id.Member != nil {
		member, err := identifierToPostfix(id.Member)
		if err != nil {
			return nil, err
		}
		copied.Member = member
	}
	return copied, nil
}
