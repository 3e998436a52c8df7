package runtime

import "libinterpreter/interpreter-go/pkg/ast"

// DeclarePolicy decides what happens when a read misses every scope.
type DeclarePolicy int

const (
	// AutoDeclare materializes an Unknown, nil-valued variable in the current scope.
	AutoDeclare DeclarePolicy = iota
	// RequireDeclaration treats the miss as an undefined variable.
	RequireDeclaration
)

// Lookup is the read-only view of the scope chain handed to hosts.
type Lookup interface {
	Lookup(name string) (*Variable, bool)
}

// ScopeStack is an arena of scopes. Every entry stores the index of its parent;
// Push appends and Pop truncates.
type ScopeStack struct {
	entries []*Scope
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

// Push opens a child of the current scope (or a root scope on an empty stack).
func (s *ScopeStack) Push() *Scope {
	scope := newScope(len(s.entries) - 1)
	s.entries = append(s.entries, scope)
	return scope
}

// PushFrame opens a function scope carrying a return slot.
func (s *ScopeStack) PushFrame() *Scope {
	scope := s.Push()
	scope.slot = &ReturnSlot{}
	return scope
}

func (s *ScopeStack) Pop() {
	if len(s.entries) == 0 {
		Raise(FaultScopeUnderflow, "pop on an empty scope stack")
	}
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
}

// Current returns the active scope; an empty stack is a host defect.
func (s *ScopeStack) Current() *Scope {
	if len(s.entries) == 0 {
		Raise(FaultScopeUnderflow, "no active scope")
	}
	return s.entries[len(s.entries)-1]
}

func (s *ScopeStack) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

func (s *ScopeStack) Depth() int {
	return len(s.entries)
}

// Root returns the outermost scope.
func (s *ScopeStack) Root() *Scope {
	if len(s.entries) == 0 {
		Raise(FaultScopeUnderflow, "no active scope")
	}
	return s.entries[0]
}

// Find searches the current scope and then its ancestors.
func (s *ScopeStack) Find(name string) (*Variable, bool) {
	for idx := len(s.entries) - 1; idx >= 0; idx = s.entries[idx].parent {
		if v, ok := s.entries[idx].Variables.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Lookup implements the host view; it never declares anything.
func (s *ScopeStack) Lookup(name string) (*Variable, bool) {
	return s.Find(name)
}

// Resolve finds a variable for reading. On a miss, AutoDeclare creates it in the
// current scope; RequireDeclaration reports not found.
func (s *ScopeStack) Resolve(name string, policy DeclarePolicy) (*Variable, bool) {
	if v, ok := s.Find(name); ok {
		return v, true
	}
	if policy == RequireDeclaration {
		return nil, false
	}
	return s.Current().Variables.Add(name, ast.TypeUnknown, nil), true
}

// FindFunction searches function tables along the parent chain.
func (s *ScopeStack) FindFunction(name string) (*Function, bool) {
	for idx := len(s.entries) - 1; idx >= 0; idx = s.entries[idx].parent {
		if fn, ok := s.entries[idx].Functions.Get(name); ok {
			return fn, true
		}
	}
	return nil, false
}

// Frame returns the return slot of the nearest enclosing function scope.
func (s *ScopeStack) Frame() (*ReturnSlot, bool) {
	for idx := len(s.entries) - 1; idx >= 0; idx = s.entries[idx].parent {
		if slot := s.entries[idx].slot; slot != nil {
			return slot, true
		}
	}
	return nil, false
}
