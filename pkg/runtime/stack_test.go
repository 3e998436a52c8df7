package runtime

import (
	"errors"
	"testing"

	"libinterpreter/interpreter-go/pkg/ast"
)

func TestScopeStackParentResolution(t *testing.T) {
	stack := NewScopeStack()
	root := stack.Push()
	root.Variables.Add("Count", ast.TypeNumeric, 3)

	child := stack.Push()
	if child.Parent() != 0 {
		t.Fatalf("expected parent index 0, got %d", child.Parent())
	}
	v, ok := stack.Find("COUNT")
	if !ok || v.Value() != float64(3) {
		t.Fatalf("expected inherited Count=3, got %v (%v)", v, ok)
	}
	if child.Variables.Exists("count") {
		t.Fatalf("lookup must not copy into the child scope")
	}

	v.Set(float64(4))
	stack.Pop()
	got, _ := root.Variables.Get("count")
	if got.Value() != float64(4) {
		t.Fatalf("expected in-place mutation through lookup, got %v", got.Value())
	}
}

func TestScopeStackPopDiscardsLocals(t *testing.T) {
	stack := NewScopeStack()
	stack.Push()
	stack.Push().Variables.Add("tmp", ast.TypeString, "x")
	stack.Pop()
	if _, ok := stack.Find("tmp"); ok {
		t.Fatalf("expected tmp to disappear with its scope")
	}
	if stack.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", stack.Depth())
	}
}

func TestResolvePolicies(t *testing.T) {
	stack := NewScopeStack()
	stack.Push()
	stack.Push()

	if _, ok := stack.Resolve("ghost", RequireDeclaration); ok {
		t.Fatalf("expected miss under RequireDeclaration")
	}
	v, ok := stack.Resolve("ghost", AutoDeclare)
	if !ok || !v.IsNull() || v.Type() != ast.TypeUnknown {
		t.Fatalf("expected materialized null variable, got %v", v)
	}
	if !stack.Current().Variables.Exists("ghost") {
		t.Fatalf("expected auto-declared variable in the originating scope")
	}
	if stack.Root().Variables.Exists("ghost") {
		t.Fatalf("auto-declare must not touch the root scope")
	}
}

func TestVariableTableAddOverwritesInPlace(t *testing.T) {
	stack := NewScopeStack()
	table := stack.Push().Variables
	first := table.Add("total", ast.TypeNumeric, 1)
	second := table.Add("TOTAL", ast.TypeNumeric, 2)
	if first != second {
		t.Fatalf("expected the same variable instance")
	}
	if first.Value() != float64(2) {
		t.Fatalf("expected overwritten value 2, got %v", first.Value())
	}
	table.Remove("Total")
	if table.Exists("total") || table.Len() != 0 {
		t.Fatalf("expected variable removed")
	}
}

func TestFunctionsAndFrames(t *testing.T) {
	stack := NewScopeStack()
	stack.Push().Functions.Add(NewImplicitFunction("Upper", ast.Sym("text", ast.TypeString)))
	stack.Push()
	fn, ok := stack.FindFunction("upper")
	if !ok || fn.Kind != FunctionImplicit {
		t.Fatalf("expected inherited implicit function, got %v", fn)
	}
	if _, ok := stack.Frame(); ok {
		t.Fatalf("no frame expected outside a function")
	}
	stack.PushFrame()
	stack.Push()
	slot, ok := stack.Frame()
	if !ok {
		t.Fatalf("expected frame from nested block")
	}
	slot.Store(NewVariable("r", ast.TypeNumeric, 1))
	if _, returned := slot.Value(); !returned {
		t.Fatalf("expected stored return value")
	}
}

func TestEmptyStackFaults(t *testing.T) {
	stack := NewScopeStack()
	defer func() {
		r := recover()
		fault, ok := r.(*Fault)
		if !ok || fault.Kind != FaultScopeUnderflow {
			t.Fatalf("expected scope underflow fault, got %v", r)
		}
		var target *Fault
		if !errors.As(error(fault), &target) {
			t.Fatalf("fault should be an error")
		}
	}()
	stack.Current()
}
