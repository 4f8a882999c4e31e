package yacari

import "testing"

func TestExecuteModuleReturnsIntegerLiteral(t *testing.T) {
	got, err := ExecuteModule[int64]("fun main() -> i64 { 42 }", nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestExecuteModuleArithmetic(t *testing.T) {
	got, err := ExecuteModule[int64]("fun main() -> i64 { 6 * 7 - 1 + 1 }", nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestExecuteModuleIfElse(t *testing.T) {
	src := `fun main() -> i64 {
		val a = 1
		if (a == 1) { 10 } else { 20 }
	}`
	got, err := ExecuteModule[int64](src, nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

func TestExecuteModuleWhileLoop(t *testing.T) {
	src := `fun main() -> i64 {
		var i = 0
		var sum = 0
		while (i < 5) {
			sum = sum + i
			i = i + 1
		}
		sum
	}`
	got, err := ExecuteModule[int64](src, nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

func TestExecuteModuleFunctionCall(t *testing.T) {
	src := `
	fun add(a: i64, b: i64) -> i64 { a + b }
	fun main() -> i64 { add(19, 23) }
	`
	got, err := ExecuteModule[int64](src, nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestExecuteModuleFloatArithmetic(t *testing.T) {
	got, err := ExecuteModule[float64]("fun main() -> f64 { 1.5 + 1.5 }", nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != 3.0 {
		t.Errorf("expected 3.0, got %v", got)
	}
}

func TestExecuteModuleFloatComparison(t *testing.T) {
	got, err := ExecuteModule[bool]("fun main() -> bool { 1.5 < 2.5 }", nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if !got {
		t.Errorf("expected true")
	}
}

func TestExecuteModuleFloatUnaryNeg(t *testing.T) {
	got, err := ExecuteModule[float64]("fun main() -> f64 { -2.5 }", nil)
	if err != nil {
		t.Fatalf("ExecuteModule: %v", err)
	}
	if got != -2.5 {
		t.Errorf("expected -2.5, got %v", got)
	}
}

func TestExecuteModuleParseErrorSurfacesAsError(t *testing.T) {
	_, err := ExecuteModule[int64]("fun main( -> i64 { 1 }", nil)
	if err == nil {
		t.Fatalf("expected a parse error for malformed source")
	}
}

func TestExecuteModuleSemanticErrorSurfacesAsCompileError(t *testing.T) {
	_, err := ExecuteModule[int64]("fun main() -> i64 { undeclared_name }", nil)
	if err == nil {
		t.Fatalf("expected a compile error for an unresolved identifier")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Fatalf("expected a *CompileError, got %T", err)
	}
}

func TestExecuteModuleNoMainIsError(t *testing.T) {
	_, err := ExecuteModule[int64]("fun helper() -> i64 { 1 }", nil)
	if err == nil {
		t.Fatalf("expected an error when no main function is present")
	}
}
