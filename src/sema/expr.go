package sema

import (
	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/ir"
)

// exprCompiler lowers one function's ast.Expr tree into a typed ir.Expr
// tree, reporting E500-E508 diagnostics along the way. Every node it
// produces has its Typ() decided here, once, at construction (spec.md §9's
// eager-caching redesign) — nothing downstream ever recomputes a type.
type exprCompiler struct {
	c      *Compiler
	modIdx int
	m      *ir.Module
	fn     *ir.Function
	env    env
}

func (ec *exprCompiler) report(code Code, pos int, format string, args ...interface{}) {
	ec.c.report(ec.modIdx, code, pos, format, args...)
}

// compile dispatches on the concrete ast.Expr type and returns the
// corresponding typed ir.Expr. Any node that cannot be type-checked
// produces an ir.PoisonExpr instead of aborting the walk, so a single
// bad subexpression never prevents diagnostics in its siblings.
func (ec *exprCompiler) compile(e ast.Expr) ir.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return ec.compileLiteral(n)
	case *ast.Ident:
		return ec.compileIdent(n)
	case *ast.VarDecl:
		return ec.compileVarDecl(n)
	case *ast.Block:
		return ec.compileBlock(n)
	case *ast.If:
		return ec.compileIf(n)
	case *ast.While:
		return ec.compileWhile(n)
	case *ast.Binary:
		return ec.compileBinary(n)
	case *ast.Unary:
		return ec.compileUnary(n)
	case *ast.Call:
		return ec.compileCall(n)
	default:
		return ir.NewPoison(e.Pos())
	}
}

func (ec *exprCompiler) compileLiteral(n *ast.Literal) ir.Expr {
	switch n.Kind {
	case ast.LiteralBool:
		c := ir.NewConstant(n.At, ir.Bool, ir.ConstBool)
		c.Bool = n.Bool
		return c
	case ast.LiteralInt:
		c := ir.NewConstant(n.At, ir.I64, ir.ConstInt)
		c.Int = n.Int
		return c
	case ast.LiteralFloat:
		c := ir.NewConstant(n.At, ir.F64, ir.ConstFloat)
		c.Float = n.Float
		return c
	case ast.LiteralString:
		// Strings have no runtime type in this design (spec.md Non-goals);
		// the constant carries the interned text for the JIT to embed as
		// a data-section reference, typed as Poison so it cannot be
		// combined with arithmetic or logic operators.
		c := ir.NewConstant(n.At, ir.Poison, ir.ConstString)
		c.String = n.String
		return c
	default:
		return ir.NewPoison(n.At)
	}
}

// compileIdent resolves a bare name against, in order: the local scope
// stack, this module's free functions, this module's classes, and finally
// every other compiled module's free functions (the flat cross-module
// function index spec.md §8 scenario 7 requires, since the grammar has no
// import/qualifier syntax). An unresolved name is E503.
func (ec *exprCompiler) compileIdent(n *ast.Ident) ir.Expr {
	if v, ok := ec.env.lookup(n.Name); ok {
		return ir.NewVariable(n.At, v.Typ, v.Index)
	}
	for i, fn := range ec.m.Functions {
		if fn.Name == n.Name {
			ref := ir.FuncRef{Module: ec.m.Handle, Index: i}
			c := ir.NewConstant(n.At, ir.FunctionType{Ref: ref}, ir.ConstFunction)
			c.Func = ref
			return c
		}
	}
	for ci, cls := range ec.m.Classes {
		if cls.Name == n.Name {
			ref := ir.ClassRef{Module: ec.m.Handle, Index: ci}
			c := ir.NewConstant(n.At, ir.ClassType{Ref: ref}, ir.ConstClass)
			c.Class = ref
			return c
		}
	}
	for _, other := range ec.c.modules {
		if other == ec.m {
			continue
		}
		for i, fn := range other.Functions {
			if fn.Name == n.Name {
				ref := ir.FuncRef{Module: other.Handle, Index: i}
				c := ir.NewConstant(n.At, ir.FunctionType{Ref: ref}, ir.ConstFunction)
				c.Func = ref
				return c
			}
		}
	}
	ec.report(E503, n.At, "unknown variable %q", n.Name.String())
	return ir.NewPoison(n.At)
}

// compileVarDecl type-checks the initializer, rejects a Void-typed
// declaration (E504), allocates a new local slot and binds it in the
// current scope. The declaration's own value is the assignment it
// desugars to.
func (ec *exprCompiler) compileVarDecl(n *ast.VarDecl) ir.Expr {
	value := ec.compile(n.Value)
	typ := value.Typ()
	if typ.Kind() == ir.KindVoid {
		ec.report(E504, n.At, "variable %q must not have type void", n.Name.String())
		typ = ir.Poison
	}
	local := ec.fn.NewLocal(typ, n.Name, n.Mutable)
	ec.env.bind(n.Name, local)
	store := ir.NewVariable(n.At, typ, local.Index)
	return ir.NewAssign(n.At, typ, store, value)
}

// compileBlock pushes a fresh scope, compiles each child in order, pops
// the scope, and yields the last child's value (or Void if empty).
func (ec *exprCompiler) compileBlock(n *ast.Block) ir.Expr {
	ec.env.push()
	defer ec.env.pop()

	exprs := make([]ir.Expr, len(n.Exprs))
	var typ ir.Type = ir.Void
	for i, sub := range n.Exprs {
		exprs[i] = ec.compile(sub)
		typ = exprs[i].Typ()
	}
	return ir.NewBlock(n.At, typ, exprs)
}

// compileIf requires a Bool condition (E502). The result is a value
// (Phi=true) only when both branches exist and agree on a non-void type;
// otherwise the If's own type is Void.
func (ec *exprCompiler) compileIf(n *ast.If) ir.Expr {
	cond := ec.compile(n.Cond)
	if cond.Typ().Kind() != ir.KindBool && cond.Typ().Kind() != ir.KindPoison {
		ec.report(E502, n.Cond.Pos(), "condition must be bool, found %s", cond.Typ())
	}
	then := ec.compile(n.Then)
	var els ir.Expr
	phi := false
	typ := ir.Type(ir.Void)
	if n.Else != nil {
		els = ec.compile(n.Else)
		if typesAgree(then.Typ(), els.Typ()) && then.Typ().Kind() != ir.KindVoid {
			typ = then.Typ()
			phi = true
		}
	}
	return ir.NewIf(n.At, typ, cond, then, els, phi)
}

// compileWhile requires a Bool condition (E502); the loop's value is
// always Void.
func (ec *exprCompiler) compileWhile(n *ast.While) ir.Expr {
	cond := ec.compile(n.Cond)
	if cond.Typ().Kind() != ir.KindBool && cond.Typ().Kind() != ir.KindPoison {
		ec.report(E502, n.Cond.Pos(), "condition must be bool, found %s", cond.Typ())
	}
	body := ec.compile(n.Body)
	return ir.NewWhile(n.At, cond, body)
}

// compileBinary handles both assignment ("=") and ordinary binary
// operators. Assignment requires an assignable left-hand side (E505);
// every other operator requires AllowMath/AllowLogic on agreeing operand
// types (E500/E501).
func (ec *exprCompiler) compileBinary(n *ast.Binary) ir.Expr {
	op := n.Op.String()
	if op == "=" {
		store := ec.compile(n.Left)
		value := ec.compile(n.Right)
		if !typesAgree(store.Typ(), value.Typ()) {
			ec.report(E500, n.At, "operand types disagree: %s vs %s", store.Typ(), value.Typ())
			return ir.NewPoison(n.At)
		}
		if !store.Assignable() {
			ec.report(E505, n.Left.Pos(), "assignment target is not assignable")
			return ir.NewPoison(n.At)
		}
		return ir.NewAssign(n.At, value.Typ(), store, value)
	}

	left := ec.compile(n.Left)
	right := ec.compile(n.Right)
	typ := ec.binaryResultType(n, op, left, right)
	return ir.NewBinary(n.At, typ, op, left, right)
}

func (ec *exprCompiler) binaryResultType(n *ast.Binary, op string, left, right ir.Expr) ir.Type {
	lt, rt := left.Typ(), right.Typ()
	if !typesAgree(lt, rt) {
		ec.report(E500, n.At, "operand types disagree: %s vs %s", lt, rt)
		return ir.Poison
	}
	if lt.Kind() == ir.KindPoison {
		return ir.Poison
	}
	switch {
	case logicOps[op]:
		if !lt.AllowLogic() {
			ec.report(E501, n.At, "operator %q is not applicable to %s", op, lt)
			return ir.Poison
		}
		return ir.Bool
	case mathOps[op]:
		if !lt.AllowMath() {
			ec.report(E501, n.At, "operator %q is not applicable to %s", op, lt)
			return ir.Poison
		}
		return lt
	default:
		ec.report(E501, n.At, "unknown operator %q", op)
		return ir.Poison
	}
}

// compileUnary handles '-' (requires AllowMath) and '!' (requires Bool).
func (ec *exprCompiler) compileUnary(n *ast.Unary) ir.Expr {
	value := ec.compile(n.Value)
	typ := value.Typ()
	op := n.Op.String()
	switch {
	case typ.Kind() == ir.KindPoison:
		// propagate
	case op == "-" && !typ.AllowMath():
		ec.report(E501, n.At, "operator %q is not applicable to %s", op, typ)
		typ = ir.Poison
	case op == "!" && typ.Kind() != ir.KindBool:
		ec.report(E501, n.At, "operator %q is not applicable to %s", op, typ)
		typ = ir.Poison
	}
	return ir.NewUnary(n.At, typ, op, value)
}

// compileCall requires the callee to resolve to a function (E506), the
// argument count to match the declared parameter count (E507), and each
// argument's type to agree with its parameter's declared type (E508).
func (ec *exprCompiler) compileCall(n *ast.Call) ir.Expr {
	callee := ec.compile(n.Callee)
	args := make([]ir.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = ec.compile(a)
	}

	ft, ok := callee.Typ().(ir.FunctionType)
	if !ok {
		if callee.Typ().Kind() != ir.KindPoison {
			ec.report(E506, n.At, "callee is not a function")
		}
		return ir.NewPoison(n.At)
	}
	fn := ft.Ref.Function()

	if len(args) != len(fn.Params) {
		ec.report(E507, n.At, "expected %d argument(s), found %d", len(fn.Params), len(args))
		return ir.NewCall(n.At, fn.Ret, callee, args)
	}
	for i, a := range args {
		want := fn.Params[i].Typ
		if !typesAgree(a.Typ(), want) {
			ec.report(E508, a.Pos(), "argument %d: expected %s, found %s", i+1, want, a.Typ())
		}
	}
	return ir.NewCall(n.At, fn.Ret, callee, args)
}
