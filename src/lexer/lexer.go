// Package lexer maps yacari source text into a stream of tokens using a
// longest-match regular-grammar scanner. The scanner itself is a
// state-function machine in the style of Rob Pike's "Lexical Scanning in
// Go" talk, the same design the teacher compiler's frontend package uses;
// here it is generalized from VSL's keyword set to yacari's.
package lexer

import (
	"unicode/utf8"

	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/token"
)

const eof = 0

// stateFunc defines one state of the scanner; it returns the next state,
// or nil when scanning is complete.
type stateFunc func(*Lexer) stateFunc

// Lexer scans a single source string into a stream of tokens. A Lexer is
// not safe for concurrent use; create one Lexer per goroutine.
type Lexer struct {
	input string
	start int
	pos   int
	width int
	items chan token.Token
	store *intern.Store
}

// New creates a Lexer over src, interning lexemes with st. Call Run in a
// goroutine, then drain Next until a Token with Kind == token.Error whose
// Start equals len(src) is returned (end of input).
func New(src string, st *intern.Store) *Lexer {
	return &Lexer{
		input: src,
		items: make(chan token.Token, 2),
		store: st,
	}
}

// Run drives the scanner to completion, emitting tokens on the Lexer's
// internal channel. Run must be started in its own goroutine; callers
// consume tokens with Next.
func (l *Lexer) Run() {
	defer close(l.items)
	for state := stateFunc(lexGlobal); state != nil; {
		state = state(l)
	}
}

// Next blocks until the next Token is available.
func (l *Lexer) Next() token.Token {
	t, ok := <-l.items
	if !ok {
		return token.Token{Kind: token.Error, Start: len(l.input)}
	}
	return t
}

// emit sends a token of kind typ for the pending lexeme l.input[l.start:l.pos].
func (l *Lexer) emit(typ token.Kind) {
	l.items <- token.Token{
		Kind:   typ,
		Lexeme: l.store.Intern(l.input[l.start:l.pos]),
		Start:  l.start,
	}
	l.start = l.pos
}

// errorf emits a syntax-error token at the current start position and
// terminates the scan.
func (l *Lexer) errorf(msg string) stateFunc {
	l.items <- token.Token{Kind: token.Error, Lexeme: l.store.Intern(msg), Start: l.start}
	return nil
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) ignore() {
	l.start = l.pos
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f'
}

// lexGlobal is the default scanner state.
func lexGlobal(l *Lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case r == eof:
			l.emit(token.Error) // synthetic EOF: Start == len(input)
			return nil
		case isSpace(r):
			l.ignore()
		case r == '/' && l.peek() == '/':
			l.next()
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.backup()
			l.ignore()
		case r == '/' && l.peek() == '*':
			l.next()
			return lexBlockComment
		case isAlpha(r):
			return lexWord
		case isDigit(r):
			return lexNumber
		case r == '"':
			return lexString
		case r == '-' && l.peek() == '>':
			l.next()
			l.emit(token.Arrow)
		case r == '=' && l.peek() == '=':
			l.next()
			l.emit(token.EqEq)
		case r == '!' && l.peek() == '=':
			l.next()
			l.emit(token.NotEq)
		case r == '<' && l.peek() == '=':
			l.next()
			l.emit(token.LtEq)
		case r == '>' && l.peek() == '=':
			l.next()
			l.emit(token.GtEq)
		case r == '(':
			l.emit(token.LParen)
		case r == ')':
			l.emit(token.RParen)
		case r == '{':
			l.emit(token.LBrace)
		case r == '}':
			l.emit(token.RBrace)
		case r == ':':
			l.emit(token.Colon)
		case r == ',':
			l.emit(token.Comma)
		case r == '=':
			l.emit(token.Assign)
		case r == '+':
			l.emit(token.Plus)
		case r == '-':
			l.emit(token.Minus)
		case r == '*':
			l.emit(token.Star)
		case r == '/':
			l.emit(token.Slash)
		case r == '<':
			l.emit(token.Lt)
		case r == '>':
			l.emit(token.Gt)
		case r == '!':
			l.emit(token.Bang)
		default:
			return l.errorf("unexpected character " + string(r))
		}
	}
}

// lexBlockComment skips a /* ... */ comment. Nesting is not tracked: the
// first "*/" closes the comment, matching spec.md's "nesting-unaware"
// block comments.
func lexBlockComment(l *Lexer) stateFunc {
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unterminated block comment")
		}
		if r == '*' && l.peek() == '/' {
			l.next()
			l.ignore()
			return lexGlobal
		}
	}
}

// lexWord scans an identifier or keyword.
func lexWord(l *Lexer) stateFunc {
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) {
			l.backup()
			break
		}
	}
	s := l.input[l.start:l.pos]
	if kind, ok := token.LookupKeyword(s); ok {
		l.emit(kind)
	} else {
		l.emit(token.Identifier)
	}
	return lexGlobal
}

// lexNumber scans an integer or float literal. A trailing type suffix
// (i|u + size|8|16|32|64) is recognized and consumed as part of the
// lexeme but is not otherwise interpreted; spec.md §6.1 only fully
// supports unsuffixed i64/f64.
func lexNumber(l *Lexer) stateFunc {
	isFloat := false
	for isDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' {
		isFloat = true
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}
	// Optional numeric-type suffix: i64, u32, isize, etc.
	if r := l.peek(); r == 'i' || r == 'u' {
		save := l.pos
		l.next()
		consumedSuffix := false
		for isAlpha(l.peek()) || isDigit(l.peek()) {
			l.next()
			consumedSuffix = true
		}
		if !consumedSuffix {
			l.pos = save
		}
	}
	if isFloat {
		l.emit(token.Float)
	} else {
		l.emit(token.Integer)
	}
	return lexGlobal
}

// lexString scans a double-quoted string literal. Escape processing is not
// performed, matching spec.md §6.1.
func lexString(l *Lexer) stateFunc {
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unterminated string literal")
		}
		if r == '"' {
			l.emit(token.String)
			return lexGlobal
		}
		if r == '\n' {
			return l.errorf("unterminated string literal")
		}
	}
}
