package ast

type StatementType string

const (
	StatementDeclare      StatementType = "Declare"
	StatementLet          StatementType = "Let"
	StatementFor          StatementType = "For"
	StatementIf           StatementType = "If"
	StatementWhile        StatementType = "While"
	StatementDoWhile      StatementType = "DoWhile"
	StatementFunctionDecl StatementType = "FunctionDecl"
	StatementCallFunction StatementType = "CallFunction"
	StatementReturn       StatementType = "Return"
	StatementPrint        StatementType = "Print"
	StatementComment      StatementType = "Comment"
	StatementRaise        StatementType = "Raise"
	StatementExtension    StatementType = "Extension"
)

// Statement is a node of a statement list. The set of implementations is closed;
// hosts add their own kinds through Extension.
type Statement interface {
	StatementType() StatementType
	isStatement()
}

type statementImpl struct{}

func (statementImpl) isStatement() {}

// Declare introduces a typed variable in the current scope.
type Declare struct {
	statementImpl
	Variable Symbol
	Init     Sequence
}

func (*Declare) StatementType() StatementType { return StatementDeclare }

// Let assigns to an existing variable.
type Let struct {
	statementImpl
	Name  string
	Value Sequence
}

func (*Let) StatementType() StatementType { return StatementLet }

// For is a counted loop over a Numeric or Date index. The *Text fields hold
// bounds that were left unparsed; they are parsed on first execution when the
// matching sequence is empty.
type For struct {
	statementImpl
	Variable  Symbol
	Start     Sequence
	End       Sequence
	Step      Sequence
	StartText string
	EndText   string
	StepText  string
	Body      []Statement
}

func (*For) StatementType() StatementType { return StatementFor }

type If struct {
	statementImpl
	Condition Sequence
	Then      []Statement
	Else      []Statement
}

func (*If) StatementType() StatementType { return StatementIf }

type While struct {
	statementImpl
	Condition Sequence
	Body      []Statement
}

func (*While) StatementType() StatementType { return StatementWhile }

// DoWhile runs its body at least once and then while the condition holds.
type DoWhile struct {
	statementImpl
	Body      []Statement
	Condition Sequence
}

func (*DoWhile) StatementType() StatementType { return StatementDoWhile }

// FunctionDecl registers a user-defined function in the current scope.
type FunctionDecl struct {
	statementImpl
	Name   string
	Params []Symbol
	Body   []Statement
}

func (*FunctionDecl) StatementType() StatementType { return StatementFunctionDecl }

// CallFunction invokes a function for its side effects.
type CallFunction struct {
	statementImpl
	Name string
	Args []Sequence
}

func (*CallFunction) StatementType() StatementType { return StatementCallFunction }

type Return struct {
	statementImpl
	Value Sequence
}

func (*Return) StatementType() StatementType { return StatementReturn }

type Print struct {
	statementImpl
	Message string
}

func (*Print) StatementType() StatementType { return StatementPrint }

type Comment struct {
	statementImpl
	Text string
}

func (*Comment) StatementType() StatementType { return StatementComment }

// Raise stops the run with a script-level exception.
type Raise struct {
	statementImpl
	Message string
}

func (*Raise) StatementType() StatementType { return StatementRaise }

// Extension carries a host-defined statement kind.
type Extension struct {
	statementImpl
	Kind    string
	Payload any
}

func (*Extension) StatementType() StatementType { return StatementExtension }
