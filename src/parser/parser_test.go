package parser

import (
	"testing"

	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/intern"
)

func parseOK(t *testing.T, src string) {
	t.Helper()
	_, diags := Parse([]string{"test.yac"}, src, intern.NewStore())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
}

func TestParseWellFormedPrograms(t *testing.T) {
	cases := []string{
		`fun main() -> i64 { 5 + 37 }`,
		"fun main() -> i64 { 5 + 5 \n 2 - 2 \n 1 }",
		`fun main() -> bool { 5 < 7 }`,
		`fun main() -> i64 { if (true) 35 else 0 }`,
		"fun main() -> i64 { var a = 3 \n while (a < 10) { a = a + 1 } \n a }",
		`fun add(a: i64, b: i64) -> i64 { a + b } fun main() -> i64 { add(400, 22) }`,
		`extern fun hello() -> i64`,
		`class Point { val x: i64 val y: i64 fun sum() -> i64 { x } static fun origin() -> i64 { 0 } }`,
	}
	for _, c := range cases {
		parseOK(t, c)
	}
}

func TestParseModuleShape(t *testing.T) {
	m, diags := Parse([]string{"a.yac"}, `fun add(a: i64, b: i64) -> i64 { a + b }`, intern.NewStore())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	f := m.Functions[0]
	if len(f.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(f.Params))
	}
	if f.Ret == nil || f.Ret.Name.String() != "i64" {
		t.Fatalf("expected return type i64, got %#v", f.Ret)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `fun broken( -> i64 { } fun main() -> i64 { 1 }`
	m, diags := Parse([]string{"err.yac"}, src, intern.NewStore())
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for malformed function")
	}
	found := false
	for _, f := range m.Functions {
		if f.Name.String() == "main" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser did not recover to parse 'main' after malformed declaration")
	}
}

func TestParsePositionsMonotonic(t *testing.T) {
	m, diags := Parse([]string{"pos.yac"}, `fun main() -> i64 { 1 + 2 }`, intern.NewStore())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	f := m.Functions[0]
	if f.NamePos < 0 {
		t.Fatalf("negative NamePos")
	}
	block, ok := f.Body.(*ast.Block)
	if !ok {
		t.Fatalf("expected function body to be a Block, got %T", f.Body)
	}
	prev := block.Pos()
	for _, e := range block.Exprs {
		if e.Pos() < prev {
			t.Errorf("expression positions not monotonic: %d before %d", e.Pos(), prev)
		}
		prev = e.Pos()
	}
}
