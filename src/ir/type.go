// Package ir defines the canonical, typed intermediate representation: the
// program's Modules, Classes, Functions and the typed expression tree that
// is the input to the JIT backend.
package ir

import "github.com/yacari-lang/yacari/src/intern"

// Kind differentiates the variants of Type.
type Kind int

const (
	KindVoid Kind = iota
	KindPoison
	KindBool
	KindI64
	KindF64
	KindFunction
	KindClass
)

// Type is a tagged variant over the type system described in spec.md §3.
// Poison satisfies every predicate so that cascading diagnostics are
// suppressed after the first real type error.
type Type interface {
	Kind() Kind
	AllowMath() bool
	AllowLogic() bool
	IsInt() bool
	String() string
}

type voidType struct{}

func (voidType) Kind() Kind        { return KindVoid }
func (voidType) AllowMath() bool   { return false }
func (voidType) AllowLogic() bool  { return false }
func (voidType) IsInt() bool       { return false }
func (voidType) String() string    { return "void" }

type poisonType struct{}

func (poisonType) Kind() Kind       { return KindPoison }
func (poisonType) AllowMath() bool  { return true }
func (poisonType) AllowLogic() bool { return true }
func (poisonType) IsInt() bool      { return true }
func (poisonType) String() string   { return "poison" }

type boolType struct{}

func (boolType) Kind() Kind       { return KindBool }
func (boolType) AllowMath() bool  { return false }
func (boolType) AllowLogic() bool { return true }
func (boolType) IsInt() bool      { return false }
func (boolType) String() string   { return "bool" }

type i64Type struct{}

func (i64Type) Kind() Kind       { return KindI64 }
func (i64Type) AllowMath() bool  { return true }
func (i64Type) AllowLogic() bool { return true }
func (i64Type) IsInt() bool      { return true }
func (i64Type) String() string   { return "i64" }

type f64Type struct{}

func (f64Type) Kind() Kind       { return KindF64 }
func (f64Type) AllowMath() bool  { return true }
func (f64Type) AllowLogic() bool { return true }
func (f64Type) IsInt() bool      { return false }
func (f64Type) String() string   { return "f64" }

// Singletons: Type values carry no payload for the primitive kinds, so a
// single shared instance of each is used everywhere.
var (
	Void   Type = voidType{}
	Poison Type = poisonType{}
	Bool   Type = boolType{}
	I64    Type = i64Type{}
	F64    Type = f64Type{}
)

// FunctionType wraps a reference to the function a value of this type
// refers to.
type FunctionType struct {
	Ref FuncRef
}

func (FunctionType) Kind() Kind       { return KindFunction }
func (FunctionType) AllowMath() bool  { return false }
func (FunctionType) AllowLogic() bool { return false }
func (FunctionType) IsInt() bool      { return false }
func (t FunctionType) String() string {
	return "function(" + t.Ref.Function().Name.String() + ")"
}

// ClassType wraps a reference to the class a value of this type is an
// instance of.
type ClassType struct {
	Ref ClassRef
}

func (ClassType) Kind() Kind       { return KindClass }
func (ClassType) AllowMath() bool  { return false }
func (ClassType) AllowLogic() bool { return false }
func (ClassType) IsInt() bool      { return false }
func (t ClassType) String() string {
	return "class(" + t.Ref.Class().Name.String() + ")"
}

// ResolvePrimitive maps a primitive type name to its ir.Type, per spec.md
// §4.3's resolve_ty for bool/i64/f64.
func ResolvePrimitive(name intern.Name) (Type, bool) {
	switch name.String() {
	case "bool":
		return Bool, true
	case "i64":
		return I64, true
	case "f64":
		return F64, true
	}
	return nil, false
}
