package token

import "testing"

func TestLookupKeywordRecognizesReservedWords(t *testing.T) {
	cases := map[string]Kind{
		"if": If, "is": Is, "or": Or,
		"fun": Fun, "var": Var, "val": Val, "and": And,
		"else": Else, "true": True,
		"class": Class, "while": While, "false": False,
		"return": Return, "static": Static, "extern": Extern,
	}
	for s, want := range cases {
		got, ok := LookupKeyword(s)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v, true", s, got, ok, want)
		}
	}
}

func TestLookupKeywordRejectsIdentifiers(t *testing.T) {
	for _, s := range []string{"foo", "classy", "x", "", "iffier"} {
		if _, ok := LookupKeyword(s); ok {
			t.Errorf("LookupKeyword(%q) unexpectedly matched a keyword", s)
		}
	}
}

func TestBindingPowersAreLeftAssociativeExceptAssign(t *testing.T) {
	if Plus.LBP() <= Plus.RBP() {
		t.Errorf("expected '+' to be left-associative (lbp > rbp), got lbp=%d rbp=%d", Plus.LBP(), Plus.RBP())
	}
	// '=' has the same lbp > rbp shape as the other operators; the parser
	// gives it right associativity by recursing at its RBP.
	if Assign.LBP() != 6 || Assign.RBP() != 5 {
		t.Errorf("expected '=' binding powers lbp=6 rbp=5, got lbp=%d rbp=%d", Assign.LBP(), Assign.RBP())
	}
}

func TestBindingPowerPrecedenceOrdering(t *testing.T) {
	if !(Or.LBP() < And.LBP() && And.LBP() < EqEq.LBP() && EqEq.LBP() < Plus.LBP() && Plus.LBP() < Star.LBP()) {
		t.Fatalf("expected or < and < == < + < * in precedence, got %d %d %d %d %d",
			Or.LBP(), And.LBP(), EqEq.LBP(), Plus.LBP(), Star.LBP())
	}
}

func TestIsInfixDistinguishesOperatorsFromPunctuation(t *testing.T) {
	if !Plus.IsInfix() {
		t.Errorf("expected '+' to be infix")
	}
	if LBrace.IsInfix() {
		t.Errorf("did not expect '{' to be infix")
	}
}

func TestKindStringIsHumanReadable(t *testing.T) {
	if Fun.String() != "fun" {
		t.Errorf("expected Fun.String() == %q, got %q", "fun", Fun.String())
	}
	if Kind(-1).String() != "unknown" {
		t.Errorf("expected an unregistered Kind to print %q, got %q", "unknown", Kind(-1).String())
	}
}
