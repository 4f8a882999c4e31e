package ast

import "github.com/yacari-lang/yacari/src/intern"

// Expr is any expression-tree node. Every node carries the byte offset in
// the source it started at.
type Expr interface {
	Pos() int
}

// LiteralKind differentiates the constant-value kinds a Literal node can
// hold.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
)

// Literal is an integer, float, bool or string constant.
type Literal struct {
	At     int
	Kind   LiteralKind
	Int    int64
	Float  float64
	Bool   bool
	String intern.Name
}

func (l *Literal) Pos() int { return l.At }

// Ident is a bare identifier reference: a variable, function or class name.
type Ident struct {
	At   int
	Name intern.Name
}

func (i *Ident) Pos() int { return i.At }

// VarDecl is a `var`/`val` local declaration with an initializer.
type VarDecl struct {
	At      int
	Name    intern.Name
	Mutable bool // true for var, false for val
	Value   Expr
}

func (v *VarDecl) Pos() int { return v.At }

// Block is a `{ ... }` sequence of expressions; its value is that of its
// last child, or Void if empty.
type Block struct {
	At    int
	Exprs []Expr
}

func (b *Block) Pos() int { return b.At }

// If is an `if (cond) then [else else_]` expression.
type If struct {
	At   int
	Cond Expr
	Then Expr
	Else Expr // nil if no else branch
}

func (n *If) Pos() int { return n.At }

// While is a `while (cond) body` loop.
type While struct {
	At   int
	Cond Expr
	Body Expr
}

func (w *While) Pos() int { return w.At }

// Binary is a binary operator application, including assignment.
type Binary struct {
	At    int
	Op    intern.Name
	OpPos int
	Left  Expr
	Right Expr
}

func (b *Binary) Pos() int { return b.At }

// Unary is a unary prefix operator application ('-' or '!').
type Unary struct {
	At    int
	Op    intern.Name
	Value Expr
}

func (u *Unary) Pos() int { return u.At }

// Call is a function-call expression: callee(args...).
type Call struct {
	At     int
	Callee Expr
	Args   []Expr
}

func (c *Call) Pos() int { return c.At }
