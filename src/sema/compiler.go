package sema

import (
	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/ir"
)

// Compiler drives the four ordered passes of spec.md §4.3 over one or
// more ast.Modules, producing typed ir.Modules. Multi-module compiles
// share a flat, global function-name index: the surface grammar has no
// module-qualifier syntax, so an identifier that misses its own module's
// functions is resolved against every other compiled module's top-level
// functions next, before falling back to E503.
type Compiler struct {
	store   *intern.Store
	modules []*ir.Module
	diags   [][]Diagnostic // diags[i] belongs to modules[i]
}

// NewCompiler creates a Compiler that interns identifiers with st.
func NewCompiler(st *intern.Store) *Compiler {
	return &Compiler{store: st}
}

// Compile runs the four-pass pipeline over trees (one ast.Module per
// source file) in order, returning the resulting ir.Modules and, for each,
// its diagnostics (possibly empty). Diagnostics are in source order within
// a module but not ordered across modules, matching spec.md §5.
func Compile(st *intern.Store, trees []*ast.Module) ([]*ir.Module, [][]Diagnostic) {
	c := NewCompiler(st)
	for _, tree := range trees {
		m := ir.NewModule(tree.Path, tree)
		c.modules = append(c.modules, m)
		c.diags = append(c.diags, nil)
	}

	// Pass 1: declare classes.
	for i, tree := range trees {
		c.declareClasses(i, tree)
	}
	// Pass 2: declare free functions.
	for i, tree := range trees {
		c.declareFunctions(i, tree)
	}
	// Pass 3: synthesize class contents.
	for i, tree := range trees {
		c.synthesizeClasses(i, tree)
	}
	// Pass 4: compile function bodies.
	for i := range trees {
		c.compileBodies(i)
	}

	return c.modules, c.diags
}

func (c *Compiler) report(modIdx int, code Code, pos int, format string, args ...interface{}) {
	d := &diagnostics{items: c.diags[modIdx]}
	d.add(code, pos, format, args...)
	c.diags[modIdx] = d.items
}

// declareClasses is pass 1: register each class's name and allocate an
// empty IR class record.
func (c *Compiler) declareClasses(modIdx int, tree *ast.Module) {
	m := c.modules[modIdx]
	for _, astCls := range tree.Classes {
		if !m.Reserve(astCls.Name) {
			c.report(modIdx, E201, astCls.NamePos, "name %q already used in this module", astCls.Name.String())
			continue
		}
		m.Classes = append(m.Classes, ir.NewClass(astCls.Name, astCls))
	}
}

// declareFunctions is pass 2: for each non-class function, resolve
// parameter/return types, allocate VarStores for parameters, reserve the
// name and push an IR function with an uninitialized Poison body.
func (c *Compiler) declareFunctions(modIdx int, tree *ast.Module) {
	m := c.modules[modIdx]
	for _, astFn := range tree.Functions {
		if !m.Reserve(astFn.Name) {
			c.report(modIdx, E201, astFn.NamePos, "name %q already used in this module", astFn.Name.String())
			continue
		}
		c.declareFunction(modIdx, m, astFn)
	}
}

// declareFunction performs the declare-free-function step for one
// ast.Function, shared by pass 2 (module-level functions) and pass 3
// (methods/statics, which additionally insert into the class content
// map).
func (c *Compiler) declareFunction(modIdx int, m *ir.Module, astFn *ast.Function) *ir.Function {
	fn := &ir.Function{Name: astFn.Name, Extern: astFn.Extern, AST: astFn}
	for _, p := range astFn.Params {
		typ, ok := c.resolveType(m, p.Type.Name)
		if !ok {
			c.report(modIdx, E200, p.Type.Pos, "unknown type name %q", p.Type.Name.String())
			typ = ir.Poison
		}
		v := &ir.VarStore{Typ: typ, Name: p.Name, Index: len(fn.Params), Mutable: false}
		fn.Params = append(fn.Params, v)
		fn.Locals = append(fn.Locals, v)
	}
	if astFn.Ret != nil {
		typ, ok := c.resolveType(m, astFn.Ret.Name)
		if !ok {
			c.report(modIdx, E200, astFn.Ret.Pos, "unknown type name %q", astFn.Ret.Name.String())
			typ = ir.Poison
		}
		fn.Ret = typ
	} else {
		fn.Ret = ir.Void
	}
	fn.Body = ir.NewPoison(astFn.NamePos)
	m.Functions = append(m.Functions, fn)
	return fn
}

// synthesizeClasses is pass 3: for each class, append each member as a
// Member entry with a stable ordinal index, then drain methods and static
// functions, declaring each as an IR function under its original name.
func (c *Compiler) synthesizeClasses(modIdx int, tree *ast.Module) {
	m := c.modules[modIdx]
	for ci, astCls := range tree.Classes {
		cls := m.Classes[ci]
		for _, mem := range astCls.Members {
			typ, ok := c.resolveType(m, mem.Type.Name)
			if !ok {
				c.report(modIdx, E200, mem.Type.Pos, "unknown type name %q", mem.Type.Name.String())
				typ = ir.Poison
			}
			v := &ir.VarStore{Typ: typ, Name: mem.Name, Index: len(cls.Members()), Mutable: mem.Mutable}
			if _, dup := cls.Content[mem.Name]; dup {
				c.report(modIdx, E201, mem.Pos, "name %q already used in this module", mem.Name.String())
				continue
			}
			cls.Put(mem.Name, ir.ClassContent{Member: v})
		}
		for _, astFn := range astCls.Methods {
			if _, dup := cls.Content[astFn.Name]; dup {
				c.report(modIdx, E201, astFn.NamePos, "name %q already used in this module", astFn.Name.String())
				continue
			}
			fn := c.declareFunction(modIdx, m, astFn)
			ref := ir.FuncRef{Module: m.Handle, Index: len(m.Functions) - 1}
			cls.Put(astFn.Name, ir.ClassContent{Method: &ref})
			_ = fn
		}
		for _, astFn := range astCls.Statics {
			if _, dup := cls.Content[astFn.Name]; dup {
				c.report(modIdx, E201, astFn.NamePos, "name %q already used in this module", astFn.Name.String())
				continue
			}
			fn := c.declareFunction(modIdx, m, astFn)
			ref := ir.FuncRef{Module: m.Handle, Index: len(m.Functions) - 1}
			cls.Put(astFn.Name, ir.ClassContent{StaticFn: &ref})
			_ = fn
		}
	}
}

// compileBodies is pass 4: for every IR function that has an AST body,
// run the expression compiler to type-check and lower it.
func (c *Compiler) compileBodies(modIdx int) {
	m := c.modules[modIdx]
	for _, fn := range m.Functions {
		if fn.AST.Body == nil {
			continue // extern: no body to compile
		}
		ec := &exprCompiler{c: c, modIdx: modIdx, m: m, fn: fn}
		ec.env.push()
		for _, p := range fn.Params {
			ec.env.bind(p.Name, p)
		}
		fn.Body = ec.compile(fn.AST.Body)
		ec.env.pop()
	}
}
