package ir

import "github.com/yacari-lang/yacari/src/intern"

// Expr is a typed IR expression node. Per the redesign in spec.md §9, the
// cached type is computed eagerly at construction time by the expression
// compiler (src/sema), not lazily behind a mutable cell: Typ() is
// always a pure field read.
type Expr interface {
	Pos() int
	Typ() Type
	Assignable() bool
}

type base struct {
	at  int
	typ Type
}

func (b base) Pos() int        { return b.at }
func (b base) Typ() Type       { return b.typ }
func (b base) Assignable() bool { return false }

// PoisonExpr is the error-recovery node; its type is always Poison.
type PoisonExpr struct {
	base
}

// NewPoison creates a PoisonExpr at source position at.
func NewPoison(at int) *PoisonExpr {
	return &PoisonExpr{base{at: at, typ: Poison}}
}

// ConstKind differentiates the payload a Constant node carries.
type ConstKind int

const (
	ConstBool ConstKind = iota
	ConstInt
	ConstFloat
	ConstString
	ConstFunction
	ConstClass
)

// Constant is a literal or a reference to a function/class value.
type Constant struct {
	base
	Kind   ConstKind
	Bool   bool
	Int    int64
	Float  float64
	String intern.Name
	Func   FuncRef
	Class  ClassRef
}

// NewConstant builds a Constant of the given kind; typ is resolved by the
// caller (src/sema).
func NewConstant(at int, typ Type, kind ConstKind) *Constant {
	return &Constant{base: base{at: at, typ: typ}, Kind: kind}
}

// Variable reads a local/parameter slot.
type Variable struct {
	base
	Index int
}

func (v *Variable) Assignable() bool { return true }

// NewVariable creates a Variable node referring to locals[index].
func NewVariable(at int, typ Type, index int) *Variable {
	return &Variable{base: base{at: at, typ: typ}, Index: index}
}

// Assign writes Value into Store, which must be Assignable().
type Assign struct {
	base
	Store Expr
	Value Expr
}

// NewAssign creates an Assign node. typ is the type of the assignment
// expression itself (the assigned value's type).
func NewAssign(at int, typ Type, store, value Expr) *Assign {
	return &Assign{base: base{at: at, typ: typ}, Store: store, Value: value}
}

// Binary is a binary operator application that is not an assignment.
type Binary struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

// NewBinary creates a Binary node.
func NewBinary(at int, typ Type, op string, left, right Expr) *Binary {
	return &Binary{base: base{at: at, typ: typ}, Op: op, Left: left, Right: right}
}

// Unary is a unary prefix operator application.
type Unary struct {
	base
	Op    string
	Value Expr
}

// NewUnary creates a Unary node.
func NewUnary(at int, typ Type, op string, value Expr) *Unary {
	return &Unary{base: base{at: at, typ: typ}, Op: op, Value: value}
}

// Block is a sequence of expressions; its type is that of its last child,
// or Void if empty.
type Block struct {
	base
	Exprs []Expr
}

// NewBlock creates a Block node.
func NewBlock(at int, typ Type, exprs []Expr) *Block {
	return &Block{base: base{at: at, typ: typ}, Exprs: exprs}
}

// If is a conditional. Phi is true iff both branches exist and agree on a
// non-void type, meaning the If yields a value via a merge-block
// parameter at codegen time.
type If struct {
	base
	Cond Expr
	Then Expr
	Else Expr
	Phi  bool
}

// NewIf creates an If node.
func NewIf(at int, typ Type, cond, then, els Expr, phi bool) *If {
	return &If{base: base{at: at, typ: typ}, Cond: cond, Then: then, Else: els, Phi: phi}
}

// While is a loop; its value is always Void (I64 zero at the codegen
// level, per spec.md §4.6).
type While struct {
	base
	Cond Expr
	Body Expr
}

// NewWhile creates a While node.
func NewWhile(at int, cond, body Expr) *While {
	return &While{base: base{at: at, typ: Void}, Cond: cond, Body: body}
}

// Call is a function-call expression.
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

// NewCall creates a Call node. typ is the resolved function's return type.
func NewCall(at int, typ Type, callee Expr, args []Expr) *Call {
	return &Call{base: base{at: at, typ: typ}, Callee: callee, Args: args}
}
