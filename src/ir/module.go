package ir

import (
	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/intern"
)

// Module is one compiled source unit: its functions, classes, the set of
// reserved top-level names (spec.md §3's single-global-namespace
// invariant) and the AST it was lowered from.
//
// A Module is always accessed through its ModuleHandle so that FuncRef and
// ClassRef values taken before every declaration pass has run remain valid
// as the Functions/Classes slices grow.
type Module struct {
	Handle    *ModuleHandle
	Path      []intern.Name
	Functions []*Function
	Classes   []*Class
	Reserved  map[intern.Name]struct{}
	AST       *ast.Module
}

// ModuleHandle is the shared, non-owning reference to a Module used by
// FuncRef and ClassRef. Sibling modules hold a *ModuleHandle, never a
// *Module directly, so that cross-module references never embed an
// owning pointer (spec.md §9).
type ModuleHandle struct {
	m *Module
}

// NewModule creates an empty Module together with its handle.
func NewModule(path []intern.Name, tree *ast.Module) *Module {
	m := &Module{
		Path:     path,
		Reserved: make(map[intern.Name]struct{}),
		AST:      tree,
	}
	m.Handle = &ModuleHandle{m: m}
	return m
}

// Reserve records name as used at the top level of the module, returning
// false if it was already reserved (spec.md's "name already used" rule).
func (m *Module) Reserve(name intern.Name) bool {
	if _, dup := m.Reserved[name]; dup {
		return false
	}
	m.Reserved[name] = struct{}{}
	return true
}

// FuncRef is a cross-module reference to a function: a module handle plus
// its ordinal index within that module's Functions slice. Two FuncRefs are
// equal iff they name the same module and index.
type FuncRef struct {
	Module *ModuleHandle
	Index  int
}

// Function dereferences the FuncRef.
func (r FuncRef) Function() *Function {
	return r.Module.m.Functions[r.Index]
}

// ClassRef is a cross-module reference to a class.
type ClassRef struct {
	Module *ModuleHandle
	Index  int
}

// Class dereferences the ClassRef.
func (r ClassRef) Class() *Class {
	return r.Module.m.Classes[r.Index]
}
