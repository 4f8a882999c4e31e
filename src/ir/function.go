package ir

import (
	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/intern"
)

// VarStore is the uniform descriptor for a function parameter, local
// variable or class field (spec.md §3). Index is stable for the lifetime
// of the enclosing Function/Class: it is handed out once, when the
// VarStore is appended, and never revised.
type VarStore struct {
	Typ     Type
	Name    intern.Name
	Index   int
	Mutable bool
}

// Function is an IR function: its signature, locals, and translated body.
// Invariants (spec.md §3): Locals[i].Index == i; Params occupy indices
// 0..len(Params)-1 in Locals; Body starts as Poison and must be
// overwritten by the expression compiler before codegen runs.
type Function struct {
	Name    intern.Name
	Params  []*VarStore
	Locals  []*VarStore // Params, in order, followed by block-scoped locals
	Ret     Type
	Body    Expr
	Extern  bool
	AST     *ast.Function
	Backend interface{} // opaque handle set by the JIT backend once lowered
}

// NewLocal appends a fresh VarStore to f.Locals (parameter or
// block-scoped local) and returns it with a stable index.
func (f *Function) NewLocal(typ Type, name intern.Name, mutable bool) *VarStore {
	v := &VarStore{Typ: typ, Name: name, Index: len(f.Locals), Mutable: mutable}
	f.Locals = append(f.Locals, v)
	return v
}

// ClassContent is the payload of one entry in a Class's content map: a
// field (Member), an instance method (Method) or a static function
// (StaticFn).
type ClassContent struct {
	Member   *VarStore
	Method   *FuncRef
	StaticFn *FuncRef
}

// IsMember reports whether this entry is a data field.
func (c ClassContent) IsMember() bool { return c.Member != nil }

// Class is an IR class: an ordered name -> ClassContent map. Members
// come first in insertion order. The JIT does not flatten classes by this
// order: src/jit/lir lowers a class-typed value as a single integer slot.
type Class struct {
	Name    intern.Name
	Order   []intern.Name
	Content map[intern.Name]ClassContent
	AST     *ast.Class
}

// NewClass returns an empty Class ready to receive content in insertion
// order.
func NewClass(name intern.Name, tree *ast.Class) *Class {
	return &Class{Name: name, Content: make(map[intern.Name]ClassContent), AST: tree}
}

// Put inserts name -> content, appending to Order the first time name is
// seen. Put does not check for duplicates; spec.md's single-namespace
// uniqueness check happens earlier, in the semantic compiler's declare
// passes.
func (c *Class) Put(name intern.Name, content ClassContent) {
	if _, exists := c.Content[name]; !exists {
		c.Order = append(c.Order, name)
	}
	c.Content[name] = content
}

// Members returns the class's data fields in declared order.
func (c *Class) Members() []*VarStore {
	var out []*VarStore
	for _, name := range c.Order {
		if m := c.Content[name]; m.IsMember() {
			out = append(out, m.Member)
		}
	}
	return out
}
