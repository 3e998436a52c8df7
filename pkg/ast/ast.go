package ast

import (
	"fmt"
	"strings"
	"time"
)

// ValueType is the closed set of script value categories.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeVoid
	TypeString
	TypeNumeric
	TypeBoolean
	TypeDate
	TypeObject
)

func (t ValueType) String() string {
	switch t {
	case TypeUnknown:
		return "unknown"
	case TypeVoid:
		return "void"
	case TypeString:
		return "string"
	case TypeNumeric:
		return "numeric"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "date"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("unknown_type_%d", int(t))
	}
}

// ParseValueType maps a type name (case-insensitive) to its ValueType.
func ParseValueType(name string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unknown":
		return TypeUnknown, nil
	case "void":
		return TypeVoid, nil
	case "string", "text":
		return TypeString, nil
	case "numeric", "number":
		return TypeNumeric, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "date", "datetime":
		return TypeDate, nil
	case "object":
		return TypeObject, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown value type '%s'", name)
	}
}

// Symbol is a declared name with its value type (variables, loop indexes, parameters).
type Symbol struct {
	Name string
	Type ValueType
}

func (s Symbol) String() string {
	return s.Name + ":" + s.Type.String()
}

type NodeType string

const (
	NodeConstant   NodeType = "Constant"
	NodeIdentifier NodeType = "Identifier"
	NodeCall       NodeType = "Call"
	NodeOperator   NodeType = "Operator"
	NodeParen      NodeType = "Paren"
)

// Node is an element of an expression sequence. The set of implementations is
// closed: Constant, Identifier, Call, Operator and Paren.
type Node interface {
	NodeType() NodeType
	String() string
	isNode()
}

type nodeImpl struct{}

func (nodeImpl) isNode() {}

// Sequence is an ordered list of expression nodes, either infix or postfix.
type Sequence []Node

func (s Sequence) Empty() bool { return len(s) == 0 }

func (s Sequence) String() string {
	parts := make([]string, 0, len(s))
	for _, node := range s {
		if node == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, node.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Constant is a literal value.
type Constant struct {
	nodeImpl
	Type  ValueType
	Value any
}

func NewConstant(typ ValueType, value any) *Constant {
	return &Constant{Type: typ, Value: value}
}

func (*Constant) NodeType() NodeType { return NodeConstant }

func (c *Constant) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case time.Time:
		return "#" + v.Format("2006-01-02 15:04:05") + "#"
	default:
		return fmt.Sprint(v)
	}
}

// Identifier references a variable, optionally indexed or followed by a member chain.
type Identifier struct {
	nodeImpl
	Name   string
	Index  Sequence
	Member *Identifier
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

func (*Identifier) NodeType() NodeType { return NodeIdentifier }

func (id *Identifier) String() string {
	var b strings.Builder
	b.WriteString(id.Name)
	if len(id.Index) > 0 {
		b.WriteString(id.Index.String())
	}
	if id.Member != nil {
		b.WriteString("->")
		b.WriteString(id.Member.String())
	}
	return b.String()
}

// Call invokes a function; every argument is its own expression sequence.
type Call struct {
	nodeImpl
	Name string
	Args []Sequence
}

func NewCall(name string, args []Sequence) *Call {
	return &Call{Name: name, Args: args}
}

func (*Call) NodeType() NodeType { return NodeCall }

func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		args = append(args, arg.String())
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Paren marks a parenthesis. It only appears in infix sequences.
type Paren struct {
	nodeImpl
	Open bool
}

func NewParen(open bool) *Paren {
	return &Paren{Open: open}
}

func (*Paren) NodeType() NodeType { return NodeParen }

func (p *Paren) String() string {
	if p.Open {
		return "("
	}
	return ")"
}
