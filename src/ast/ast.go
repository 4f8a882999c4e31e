// Package ast defines the syntax tree produced by the parser: modules,
// classes, functions and expressions, each tagged with the source byte
// offset it starts at.
package ast

import "github.com/yacari-lang/yacari/src/intern"

// TypeRef names a type in surface syntax: a primitive name (bool, i64, f64)
// or a class name, resolved later by the semantic compiler.
type TypeRef struct {
	Name intern.Name
	Pos  int
}

// Param is a single function parameter: a name and its declared type.
type Param struct {
	Name intern.Name
	Type TypeRef
	Pos  int
}

// Member is a class field: a name, declared type and mutability flag.
type Member struct {
	Name    intern.Name
	Type    TypeRef
	Mutable bool
	Pos     int
}

// Function is a top-level or class-member function declaration. Extern
// functions have a nil Body.
type Function struct {
	Name    intern.Name
	NamePos int
	Params  []Param
	Ret     *TypeRef // nil means inferred Void
	Body    Expr     // nil for extern functions
	Extern  bool
	Static  bool // true for class static functions
}

// Class is a class declaration: an ordered list of members, instance
// methods and static functions.
type Class struct {
	Name    intern.Name
	NamePos int
	Members []Member
	Methods []*Function
	Statics []*Function
}

// Module is the parse result of one source unit: a logical path plus its
// top-level functions and classes, in declaration order.
type Module struct {
	Path      []intern.Name
	Functions []*Function
	Classes   []*Class
}

// Diagnostic is a single parse-time error.
type Diagnostic struct {
	Code string // E1xx, see spec §7
	Pos  int
	Msg  string
}

func (d Diagnostic) Error() string {
	return d.Code + ": " + d.Msg
}
