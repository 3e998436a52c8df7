package runtime

import (
	"sort"

	"libinterpreter/interpreter-go/pkg/ast"
)

// VariableTable holds the variables of one scope, keyed case-insensitively.
type VariableTable struct {
	vars map[string]*Variable
}

func newVariableTable() *VariableTable {
	return &VariableTable{vars: make(map[string]*Variable)}
}

// Add overwrites the value of an existing variable in place or inserts a new one.
func (t *VariableTable) Add(name string, typ ast.ValueType, value any) *Variable {
	key := FoldName(name)
	if existing, ok := t.vars[key]; ok {
		existing.Set(value)
		return existing
	}
	variable := NewVariable(name, typ, value)
	t.vars[key] = variable
	return variable
}

// Put registers a variable as-is, replacing any local binding with the same name.
func (t *VariableTable) Put(variable *Variable) {
	t.vars[FoldName(variable.Name)] = variable
}

// Get looks the name up in this table only.
func (t *VariableTable) Get(name string) (*Variable, bool) {
	v, ok := t.vars[FoldName(name)]
	return v, ok
}

func (t *VariableTable) Exists(name string) bool {
	_, ok := t.vars[FoldName(name)]
	return ok
}

func (t *VariableTable) Remove(name string) {
	delete(t.vars, FoldName(name))
}

func (t *VariableTable) Len() int {
	return len(t.vars)
}

// Names returns the variable names in sorted order.
func (t *VariableTable) Names() []string {
	names := make([]string, 0, len(t.vars))
	for _, v := range t.vars {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	return names
}

type FunctionKind int

const (
	// FunctionImplicit bodies are run by the host.
	FunctionImplicit FunctionKind = iota
	// FunctionUserDefined bodies are statement lists run by the interpreter.
	FunctionUserDefined
)

func (k FunctionKind) String() string {
	if k == FunctionImplicit {
		return "implicit"
	}
	return "user_defined"
}

type Function struct {
	Kind   FunctionKind
	Name   string
	Params []ast.Symbol
	Body   []ast.Statement
}

func NewImplicitFunction(name string, params ...ast.Symbol) *Function {
	return &Function{Kind: FunctionImplicit, Name: name, Params: params}
}

func NewUserFunction(decl *ast.FunctionDecl) *Function {
	return &Function{Kind: FunctionUserDefined, Name: decl.Name, Params: decl.Params, Body: decl.Body}
}

// FunctionTable holds the functions declared in one scope.
type FunctionTable struct {
	funcs map[string]*Function
}

func newFunctionTable() *FunctionTable {
	return &FunctionTable{funcs: make(map[string]*Function)}
}

func (t *FunctionTable) Add(fn *Function) {
	t.funcs[FoldName(fn.Name)] = fn
}

func (t *FunctionTable) Get(name string) (*Function, bool) {
	fn, ok := t.funcs[FoldName(name)]
	return fn, ok
}

func (t *FunctionTable) Len() int {
	return len(t.funcs)
}

// ReturnSlot receives the value of a Return statement inside a function body.
type ReturnSlot struct {
	value    *Variable
	returned bool
}

func (r *ReturnSlot) Store(value *Variable) {
	r.value = value
	r.returned = true
}

func (r *ReturnSlot) Value() (*Variable, bool) {
	return r.value, r.returned
}

// Scope is one entry of the scope stack. Its parent is referenced by index.
type Scope struct {
	Variables *VariableTable
	Functions *FunctionTable
	parent    int
	slot      *ReturnSlot
}

func newScope(parent int) *Scope {
	return &Scope{
		Variables: newVariableTable(),
		Functions: newFunctionTable(),
		parent:    parent,
	}
}

// Parent returns the index of the enclosing scope, or -1 for the outermost one.
func (s *Scope) Parent() int { return s.parent }

// ReturnSlot is non-nil only for scopes opened by a user-defined function call.
func (s *Scope) ReturnSlot() *ReturnSlot { return s.slot }
