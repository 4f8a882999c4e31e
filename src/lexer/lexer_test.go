package lexer

import (
	"testing"

	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, intern.NewStore())
	go l.Run()
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.Error {
			break
		}
	}
	return toks
}

func TestLexerTotalityEndsInError(t *testing.T) {
	inputs := []string{
		"",
		"fun main() -> i64 { 5 + 37 }",
		"// comment\nval a = 1",
		"/* block */ class Foo { val x: i64 }",
		"1 + ",
	}
	for _, in := range inputs {
		toks := scanAll(t, in)
		last := toks[len(toks)-1]
		if last.Kind != token.Error {
			t.Fatalf("stream for %q did not terminate with Error token", in)
		}
		if last.Start != len(in) {
			t.Errorf("EOF token for %q at Start=%d, want %d", in, last.Start, len(in))
		}
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "fun foo")
	if toks[0].Kind != token.Fun {
		t.Errorf("expected Fun, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.Identifier || toks[1].Lexeme.String() != "foo" {
		t.Errorf("expected identifier 'foo', got %v %q", toks[1].Kind, toks[1].Lexeme.String())
	}
}

func TestLexerNumericLiterals(t *testing.T) {
	toks := scanAll(t, "42 3.14 7i64 2u32")
	want := []token.Kind{token.Integer, token.Float, token.Integer, token.Integer}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	toks := scanAll(t, "== != <= >= -> = < > + - * /")
	want := []token.Kind{
		token.EqEq, token.NotEq, token.LtEq, token.GtEq, token.Arrow,
		token.Assign, token.Lt, token.Gt, token.Plus, token.Minus, token.Star, token.Slash,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexerStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	if toks[0].Kind != token.String {
		t.Fatalf("expected String token, got %v", toks[0].Kind)
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	toks := scanAll(t, `"unterminated`)
	if toks[0].Kind != token.Error {
		t.Fatalf("expected Error token for unterminated string, got %v", toks[0].Kind)
	}
}
