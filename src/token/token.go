// Package token defines the lexeme kinds produced by the lexer and consumed
// by the parser, including the binding-power table that drives Pratt-style
// precedence climbing.
package token

import "github.com/yacari-lang/yacari/src/intern"

// Kind differentiates the tokens recognized by the lexer.
type Kind int

const (
	Error Kind = iota // syntax error, or end-of-input (distinguished by Start)

	// Literals and identifiers.
	Integer
	Float
	String
	Identifier

	// Keywords.
	Fun
	Class
	If
	Else
	While
	Var
	Val
	Return
	True
	False
	And
	Or
	Extern
	Static
	Is

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	Colon
	Comma
	Arrow // ->

	// Operators.
	Assign // =
	Plus
	Minus
	Star
	Slash
	EqEq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Bang
)

var names = map[Kind]string{
	Error:      "error",
	Integer:    "integer",
	Float:      "float",
	String:     "string",
	Identifier: "identifier",
	Fun:        "fun",
	Class:      "class",
	If:         "if",
	Else:       "else",
	While:      "while",
	Var:        "var",
	Val:        "val",
	Return:     "return",
	True:       "true",
	False:      "false",
	And:        "and",
	Or:         "or",
	Extern:     "extern",
	Static:     "static",
	Is:         "is",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	Colon:      ":",
	Comma:      ",",
	Arrow:      "->",
	Assign:     "=",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	EqEq:       "==",
	NotEq:      "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Bang:       "!",
}

// String returns a print-friendly name for k.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Token is a single lexeme scanned from source, carrying its kind, its
// interned text and the byte offset it starts at.
type Token struct {
	Kind   Kind
	Lexeme intern.Name
	Start  int
}

// bindingPower carries the left/right binding powers used for Pratt-style
// precedence climbing. A zero lbp means the token is not a valid infix
// operator.
type bindingPower struct {
	lbp, rbp int
}

// infix is the precedence table from the specification's §4.1, keyed by
// token kind. Binding powers increase with precedence, and every entry has
// lbp > rbp. The parser makes assignment right-associative by parsing its
// right operand at RBP; every other operator is left-associative because
// its right operand is parsed at its own LBP.
var infix = map[Kind]bindingPower{
	Assign: {6, 5},
	Or:     {10, 9},
	And:    {12, 11},
	EqEq:   {14, 13},
	NotEq:  {14, 13},
	Lt:     {16, 15},
	LtEq:   {16, 15},
	Gt:     {16, 15},
	GtEq:   {16, 15},
	Plus:   {16, 15},
	Minus:  {16, 15},
	Star:   {18, 17},
	Slash:  {18, 17},
	Is:     {20, 19},
}

// UnaryBindingPower is the binding power of the unary prefix operators '-'
// and '!'.
const UnaryBindingPower = 30

// LBP returns the left binding power of k, or 0 if k is not an infix
// operator.
func (k Kind) LBP() int {
	return infix[k].lbp
}

// RBP returns the right binding power of k, or 0 if k is not an infix
// operator.
func (k Kind) RBP() int {
	return infix[k].rbp
}

// IsInfix reports whether k can appear as an infix/binary operator.
func (k Kind) IsInfix() bool {
	_, ok := infix[k]
	return ok
}

// keyword bundles a reserved word and the Kind it lexes to.
type keyword struct {
	val string
	typ Kind
}

// reserved buckets keywords by length, the same lookup idiom the teacher's
// frontend/lang.go uses: indexing by word length before a linear scan beats
// a map for this small, short-word alphabet.
var reserved = [...][]keyword{
	{}, // length 1
	{ // length 2
		{"if", If},
		{"is", Is},
		{"or", Or},
	},
	{ // length 3
		{"fun", Fun},
		{"var", Var},
		{"val", Val},
		{"and", And},
	},
	{ // length 4
		{"else", Else},
		{"true", True},
	},
	{ // length 5
		{"class", Class},
		{"while", While},
		{"false", False},
	},
	{ // length 6
		{"return", Return},
		{"static", Static},
		{"extern", Extern},
	},
}

// LookupKeyword reports whether s is a reserved yacari keyword, and if so,
// which Kind it lexes to.
func LookupKeyword(s string) (Kind, bool) {
	if len(s) == 0 || len(s) > len(reserved) {
		return Identifier, false
	}
	for _, kw := range reserved[len(s)-1] {
		if kw.val == s {
			return kw.typ, true
		}
	}
	return Identifier, false
}
