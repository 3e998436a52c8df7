package ast

import "strings"

// OperatorClass groups operators the way the evaluator dispatches them.
type OperatorClass int

const (
	// ClassMath covers + - * / %.
	ClassMath OperatorClass = iota
	// ClassLogical covers equality and ordering comparisons.
	ClassLogical
	// ClassRelational covers and / or / not.
	ClassRelational
)

func (c OperatorClass) String() string {
	switch c {
	case ClassMath:
		return "math"
	case ClassLogical:
		return "logical"
	case ClassRelational:
		return "relational"
	default:
		return "unknown"
	}
}

type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"

	OpEq Op = "=="
	OpNe Op = "!="
	OpGt Op = ">"
	OpGe Op = ">="
	OpLt Op = "<"
	OpLe Op = "<="

	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"

	// OpNeg is prefix minus on a non-literal operand. It has no spelling of
	// its own; the parser produces it from a leading "-".
	OpNeg Op = "neg"
)

// LookupOp resolves an operator spelling, accepting the usual aliases.
func LookupOp(text string) (Op, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%", "mod":
		return OpMod, true
	case "==", "=":
		return OpEq, true
	case "!=", "<>":
		return OpNe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case "and", "&&":
		return OpAnd, true
	case "or", "||":
		return OpOr, true
	case "not", "!":
		return OpNot, true
	default:
		return "", false
	}
}

// Operator is an operator node. Class and precedence derive from Op.
type Operator struct {
	nodeImpl
	Op Op
}

func NewOperator(op Op) *Operator {
	return &Operator{Op: op}
}

func (*Operator) NodeType() NodeType { return NodeOperator }

func (o *Operator) String() string { return string(o.Op) }

func (o *Operator) Class() OperatorClass {
	switch o.Op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpNeg:
		return ClassMath
	case OpEq, OpNe, OpGt, OpGe, OpLt, OpLe:
		return ClassLogical
	default:
		return ClassRelational
	}
}

// Precedence orders operators for infix conversion; higher binds tighter.
// Prefix operators bind tightest of all.
func (o *Operator) Precedence() int {
	switch o.Op {
	case OpNot, OpNeg:
		return 21
	case OpMul, OpDiv, OpMod:
		return 20
	case OpAdd, OpSub:
		return 19
	case OpGt, OpGe, OpLt, OpLe:
		return 18
	case OpEq, OpNe:
		return 17
	case OpAnd:
		return 16
	case OpOr:
		return 15
	default:
		return 0
	}
}

// Prefix reports whether the operator is written before its single operand.
func (o *Operator) Prefix() bool {
	return o.Op == OpNot || o.Op == OpNeg
}
