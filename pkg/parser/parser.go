// Package parser turns infix expression text into the postfix sequences the
// interpreter evaluates.
package parser

import (
	"fmt"
	"strings"

	"libinterpreter/interpreter-go/pkg/ast"
)

// Parse reads an infix expression and returns it in postfix order.
func Parse(text string) (ast.Sequence, error) {
	infix, err := ParseInfix(text)
	if err != nil {
		return nil, err
	}
	postfix, err := ast.ToPostfix(infix)
	if err != nil {
		return nil, fmt.Errorf("parser: %q: %w", text, err)
	}
	return postfix, nil
}

// ParseInfix reads an infix expression without reordering it. Unary minus is
// folded into numeric literals or rewritten as ( 0 - operand ).
func ParseInfix(text string) (ast.Sequence, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	seq, err := p.expression(TokenEOF)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, unexpected(tok, "expected "+kind.String())
	}
	return tok, nil
}

func unexpected(tok Token, detail string) error {
	what := tok.Kind.String()
	if tok.Text != "" {
		what = fmt.Sprintf("%s %q", what, tok.Text)
	}
	if detail != "" {
		what += ", " + detail
	}
	return &SyntaxError{Pos: tok.Pos, Msg: "unexpected " + what}
}

// expression reads operands separated by binary operators until one of the
// stop tokens, which is left unconsumed.
func (p *parser) expression(stops ...TokenKind) (ast.Sequence, error) {
	var seq ast.Sequence
	for {
		operand, err := p.operand()
		if err != nil {
			return nil, err
		}
		seq = append(seq, operand...)

		tok := p.peek()
		if isStop(tok.Kind, stops) {
			return seq, nil
		}
		if tok.Kind != TokenOperator {
			return nil, unexpected(tok, "expected an operator")
		}
		op, _ := ast.LookupOp(tok.Text)
		if op == ast.OpNot {
			return nil, unexpected(tok, "not is a prefix operator")
		}
		p.next()
		seq = append(seq, ast.O(op))
	}
}

func isStop(kind TokenKind, stops []TokenKind) bool {
	for _, stop := range stops {
		if kind == stop {
			return true
		}
	}
	return false
}

// operand reads prefix operators followed by a primary.
func (p *parser) operand() (ast.Sequence, error) {
	tok := p.peek()
	if tok.Kind != TokenOperator {
		return p.primary()
	}
	op, _ := ast.LookupOp(tok.Text)
	switch op {
	case ast.OpNot:
		p.next()
		rest, err := p.operand()
		if err != nil {
			return nil, err
		}
		return append(ast.Seq(ast.O(ast.OpNot)), rest...), nil
	case ast.OpSub, ast.OpAdd:
		p.next()
		if number := p.peek(); number.Kind == TokenNumber {
			p.next()
			value := number.Value.(float64)
			if op == ast.OpSub {
				value = -value
			}
			return ast.Seq(ast.Num(value)), nil
		}
		rest, err := p.operand()
		if err != nil {
			return nil, err
		}
		if op == ast.OpAdd {
			return rest, nil
		}
		return append(ast.Seq(ast.O(ast.OpNeg)), rest...), nil
	default:
		return nil, unexpected(tok, "expected an operand")
	}
}

func (p *parser) primary() (ast.Sequence, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNumber:
		return ast.Seq(ast.Num(tok.Value.(float64))), nil
	case TokenString:
		return ast.Seq(ast.Str(tok.Value.(string))), nil
	case TokenDate:
		return ast.Seq(ast.NewConstant(ast.TypeDate, tok.Value)), nil
	case TokenBool:
		return ast.Seq(ast.Bool(tok.Value.(bool))), nil
	case TokenNull:
		return ast.Seq(ast.Null()), nil
	case TokenLParen:
		inner, err := p.expression(TokenRParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		seq := ast.Seq(ast.Open())
		seq = append(seq, inner...)
		return append(seq, ast.Close()), nil
	case TokenIdent:
		name := tok.Value.(string)
		if p.peek().Kind == TokenLParen {
			call, err := p.call(name)
			if err != nil {
				return nil, err
			}
			return ast.Seq(call), nil
		}
		id, err := p.identifier(name)
		if err != nil {
			return nil, err
		}
		return ast.Seq(id), nil
	case TokenEOF:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: "missing operand"}
	default:
		return nil, unexpected(tok, "expected an operand")
	}
}

func (p *parser) call(name string) (*ast.Call, error) {
	p.next()
	var args []ast.Sequence
	if p.peek().Kind == TokenRParen {
		p.next()
		return ast.NewCall(name, args), nil
	}
	for {
		arg, err := p.expression(TokenComma, TokenRParen)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if tok := p.next(); tok.Kind == TokenRParen {
			return ast.NewCall(name, args), nil
		}
	}
}

func (p *parser) identifier(name string) (*ast.Identifier, error) {
	id := ast.NewIdentifier(name)
	if p.peek().Kind == TokenLBracket {
		p.next()
		index, err := p.expression(TokenRBracket)
		if err != nil {
			return nil, err
		}
		p.next()
		id.Index = index
	}
	if p.peek().Kind == TokenArrow {
		p.next()
		member, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if id.Member, err = p.identifier(member.Value.(string)); err != nil {
			return nil, err
		}
	}
	return id, nil
}

// SplitAssignment recognizes "name = expression" and "let name = expression",
// returning the target and the expression text.
func SplitAssignment(line string) (name, expression string, ok bool) {
	text := strings.TrimSpace(line)
	if len(text) > 4 && strings.EqualFold(text[:4], "let ") {
		text = strings.TrimSpace(text[4:])
	}
	tokens, err := Tokenize(text)
	if err != nil || len(tokens) < 3 {
		return "", "", false
	}
	if tokens[0].Kind != TokenIdent || tokens[1].Kind != TokenOperator || tokens[1].Text != "=" {
		return "", "", false
	}
	return tokens[0].Value.(string), strings.TrimSpace(text[tokens[2].Pos:]), true
}
