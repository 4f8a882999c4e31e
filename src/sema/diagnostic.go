// Package sema implements the semantic compiler: the four-pass
// declare/synthesize/compile pipeline that turns an ast.Module into a
// typed ir.Module, plus the per-function expression compiler described in
// spec.md §4.3/§4.4.
package sema

import "fmt"

// Code is one of the diagnostic codes from spec.md §7.
type Code string

const (
	E100 Code = "E100" // expected token X, found Y
	E101 Code = "E101" // expected expression
	E102 Code = "E102" // expected top-level declaration
	E200 Code = "E200" // unknown type name
	E201 Code = "E201" // name already used in this module
	E500 Code = "E500" // binary operand types disagree
	E501 Code = "E501" // operator not applicable to this type
	E502 Code = "E502" // condition is not Bool
	E503 Code = "E503" // unknown variable
	E504 Code = "E504" // variable type must not be Void
	E505 Code = "E505" // assignment target is not assignable
	E506 Code = "E506" // callee is not a function
	E507 Code = "E507" // call arity mismatch
	E508 Code = "E508" // call argument type mismatch
)

// Diagnostic is a single compile-time error, carrying the byte offset it
// was reported at.
type Diagnostic struct {
	Code Code
	Pos  int
	Msg  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s at %d: %s", d.Code, d.Pos, d.Msg)
}

// diagnostics accumulates Diagnostic values in source order, never
// aborting compilation on the first error (spec.md §7).
type diagnostics struct {
	items []Diagnostic
}

func (d *diagnostics) add(code Code, pos int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
