package sema

import (
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/ir"
)

// resolveType implements spec.md §4.3's resolve_ty: primitive names map to
// their ir.Type directly; any other identifier is looked up by linear
// search through the module's classes. Unknown names are the caller's
// responsibility to report as E200.
func (c *Compiler) resolveType(m *ir.Module, name intern.Name) (ir.Type, bool) {
	if t, ok := ir.ResolvePrimitive(name); ok {
		return t, true
	}
	for i, cls := range m.Classes {
		if cls.Name == name {
			return ir.ClassType{Ref: ir.ClassRef{Module: m.Handle, Index: i}}, true
		}
	}
	return nil, false
}

// logicOps and mathOps classify the binary operators per spec.md §4.4:
// relational/equality/boolean operators require AllowLogic on both
// operands; arithmetic operators require AllowMath.
var logicOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true,
}

var mathOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
}

// typesAgree reports whether two operand types are compatible for a
// binary operation. Poison always agrees with anything, absorbing the
// error that already produced it (spec.md's Poison-cascade-suppression
// invariant).
func typesAgree(a, b ir.Type) bool {
	if a.Kind() == ir.KindPoison || b.Kind() == ir.KindPoison {
		return true
	}
	return a.Kind() == b.Kind()
}
