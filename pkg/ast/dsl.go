package ast

import "time"

// Expression node helpers.

func Num(value float64) *Constant {
	return NewConstant(TypeNumeric, value)
}

func Str(value string) *Constant {
	return NewConstant(TypeString, value)
}

func Bool(value bool) *Constant {
	return NewConstant(TypeBoolean, value)
}

func Date(value time.Time) *Constant {
	return NewConstant(TypeDate, value)
}

func Null() *Constant {
	return NewConstant(TypeUnknown, nil)
}

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Fn(name string, args ...Sequence) *Call {
	return NewCall(name, args)
}

func O(op Op) *Operator {
	return NewOperator(op)
}

func Open() *Paren {
	return NewParen(true)
}

func Close() *Paren {
	return NewParen(false)
}

func Seq(nodes ...Node) Sequence {
	return Sequence(nodes)
}

// Statement helpers.

func Sym(name string, typ ValueType) Symbol {
	return Symbol{Name: name, Type: typ}
}

func Block(statements ...Statement) []Statement {
	return statements
}

func Dcl(name string, typ ValueType, init ...Node) *Declare {
	return &Declare{Variable: Sym(name, typ), Init: Seq(init...)}
}

func Assign(name string, value ...Node) *Let {
	return &Let{Name: name, Value: Seq(value...)}
}

func Loop(index Symbol, start, end, step Sequence, body ...Statement) *For {
	return &For{Variable: index, Start: start, End: end, Step: step, Body: body}
}

func Cond(condition Sequence, then []Statement, otherwise []Statement) *If {
	return &If{Condition: condition, Then: then, Else: otherwise}
}

func WhileLoop(condition Sequence, body ...Statement) *While {
	return &While{Condition: condition, Body: body}
}

func DoLoop(condition Sequence, body ...Statement) *DoWhile {
	return &DoWhile{Body: body, Condition: condition}
}

func Func(name string, params []Symbol, body ...Statement) *FunctionDecl {
	return &FunctionDecl{Name: name, Params: params, Body: body}
}

func CallStmt(name string, args ...Sequence) *CallFunction {
	return &CallFunction{Name: name, Args: args}
}

func Ret(value ...Node) *Return {
	return &Return{Value: Seq(value...)}
}

func Say(message string) *Print {
	return &Print{Message: message}
}

func Note(text string) *Comment {
	return &Comment{Text: text}
}

func Throw(message string) *Raise {
	return &Raise{Message: message}
}
