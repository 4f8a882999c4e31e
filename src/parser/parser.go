// Package parser implements a recursive-descent parser with Pratt-style
// operator-precedence climbing for expressions, producing an ast.Module
// from a token stream. Unlike the teacher compiler, which drives a
// goyacc-generated grammar, yacari's parser is hand-written per the
// specification's binding-power table (token.Kind.LBP/RBP).
package parser

import (
	"fmt"

	"github.com/yacari-lang/yacari/src/ast"
	"github.com/yacari-lang/yacari/src/intern"
	"github.com/yacari-lang/yacari/src/lexer"
	"github.com/yacari-lang/yacari/src/token"
)

// tokenSource is anything that yields a token stream; satisfied by
// *lexer.Lexer.
type tokenSource interface {
	Next() token.Token
}

// Parser drives a token source through the grammar in spec.md §4.2,
// accumulating ast.Diagnostic entries instead of aborting on the first
// error.
type Parser struct {
	src   tokenSource
	store *intern.Store
	cur   token.Token
	diags []ast.Diagnostic
}

// Parse parses a single source file's text into an ast.Module whose
// logical path is path, interned component by component. It returns the module and any
// diagnostics; the module is always non-nil, even with diagnostics, so
// that error recovery can report as many problems as possible in one
// pass.
func Parse(path []string, src string, st *intern.Store) (*ast.Module, []ast.Diagnostic) {
	l := lexer.New(src, st)
	go l.Run()
	p := &Parser{src: l, store: st}
	p.advance()

	pathNames := make([]intern.Name, len(path))
	for i, s := range path {
		pathNames[i] = st.Intern(s)
	}
	m := &ast.Module{Path: pathNames}

	for p.cur.Kind != token.Error {
		switch p.cur.Kind {
		case token.Class:
			if c := p.parseClass(); c != nil {
				m.Classes = append(m.Classes, c)
			}
		case token.Fun:
			if f := p.parseFunction(false); f != nil {
				m.Functions = append(m.Functions, f)
			}
		case token.Extern:
			p.advance()
			if p.at(token.Fun) {
				if f := p.parseFunction(true); f != nil {
					m.Functions = append(m.Functions, f)
				}
			} else {
				p.errorf("E100", p.cur.Start, "expected 'fun' after 'extern' (found %s)", p.cur.Kind)
				p.synchronize()
			}
		default:
			p.errorf("E102", p.cur.Start, "expected top-level declaration, found %s", p.cur.Kind)
			p.synchronize()
		}
	}
	return m, p.diags
}

func (p *Parser) advance() {
	p.cur = p.src.Next()
}

// at reports whether the current token has kind k.
func (p *Parser) at(k token.Kind) bool {
	return p.cur.Kind == k
}

// expect consumes the current token if it has kind k, else records a
// diagnostic and leaves the token stream positioned where it was.
func (p *Parser) expect(k token.Kind, msg string) bool {
	if p.cur.Kind == k {
		p.advance()
		return true
	}
	p.errorf("E100", p.cur.Start, "%s (found %s)", msg, p.cur.Kind)
	return false
}

func (p *Parser) errorf(code string, pos int, format string, args ...interface{}) {
	p.diags = append(p.diags, ast.Diagnostic{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// synchronize discards tokens until the next top-level declaration
// boundary ('fun', 'class' or 'extern'), bounding the number of cascaded
// parse errors per spec.md §4.2.
func (p *Parser) synchronize() {
	for p.cur.Kind != token.Error {
		switch p.cur.Kind {
		case token.Fun, token.Class, token.Extern:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseTypeRef() *ast.TypeRef {
	if !p.at(token.Identifier) {
		p.errorf("E100", p.cur.Start, "expected type name, found %s", p.cur.Kind)
		return nil
	}
	t := &ast.TypeRef{Name: p.cur.Lexeme, Pos: p.cur.Start}
	p.advance()
	return t
}

func (p *Parser) parseClass() *ast.Class {
	p.advance() // 'class'
	if !p.at(token.Identifier) {
		p.errorf("E100", p.cur.Start, "expected class name")
		p.synchronize()
		return nil
	}
	c := &ast.Class{Name: p.cur.Lexeme, NamePos: p.cur.Start}
	p.advance()
	if !p.expect(token.LBrace, "expected '{' to open class body") {
		p.synchronize()
		return c
	}
	for !p.at(token.RBrace) && p.cur.Kind != token.Error {
		switch p.cur.Kind {
		case token.Val, token.Var:
			if m := p.parseMember(); m != nil {
				c.Members = append(c.Members, *m)
			}
		case token.Static:
			p.advance()
			if p.at(token.Fun) {
				if f := p.parseFunction(false); f != nil {
					f.Static = true
					c.Statics = append(c.Statics, f)
				}
			} else {
				p.errorf("E100", p.cur.Start, "expected 'fun' after 'static' (found %s)", p.cur.Kind)
			}
		case token.Fun:
			if f := p.parseFunction(false); f != nil {
				c.Methods = append(c.Methods, f)
			}
		default:
			p.errorf("E102", p.cur.Start, "expected member or method declaration, found %s", p.cur.Kind)
			p.advance()
		}
	}
	p.expect(token.RBrace, "expected '}' to close class body")
	return c
}

func (p *Parser) parseMember() *ast.Member {
	mutable := p.at(token.Var)
	p.advance() // 'val' or 'var'
	if !p.at(token.Identifier) {
		p.errorf("E100", p.cur.Start, "expected member name")
		return nil
	}
	m := &ast.Member{Name: p.cur.Lexeme, Mutable: mutable, Pos: p.cur.Start}
	p.advance()
	if !p.expect(token.Colon, "expected ':' after member name") {
		return m
	}
	if t := p.parseTypeRef(); t != nil {
		m.Type = *t
	}
	return m
}

func (p *Parser) parseFunction(extern bool) *ast.Function {
	p.advance() // 'fun'
	if !p.at(token.Identifier) {
		p.errorf("E100", p.cur.Start, "expected function name")
		p.synchronize()
		return nil
	}
	f := &ast.Function{Name: p.cur.Lexeme, NamePos: p.cur.Start, Extern: extern}
	p.advance()
	if !p.expect(token.LParen, "expected '(' after function name") {
		p.synchronize()
		return f
	}
	if !p.at(token.RParen) {
		for {
			if !p.at(token.Identifier) {
				p.errorf("E100", p.cur.Start, "expected parameter name")
				break
			}
			name := p.cur.Lexeme
			pos := p.cur.Start
			p.advance()
			if !p.expect(token.Colon, "expected ':' after parameter name") {
				break
			}
			t := p.parseTypeRef()
			if t == nil {
				break
			}
			f.Params = append(f.Params, ast.Param{Name: name, Type: *t, Pos: pos})
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "expected ')' after parameter list")
	if p.at(token.Arrow) {
		p.advance()
		f.Ret = p.parseTypeRef()
	}
	if extern {
		return f
	}
	if p.at(token.LBrace) {
		f.Body = p.parseBlock()
	} else {
		p.errorf("E101", p.cur.Start, "expected function body")
		p.synchronize()
	}
	return f
}

// parseExpr dispatches structural expressions (blocks, if, while, var
// declarations) and otherwise falls through to the Pratt-driven binary
// expression parser, matching the Expr/HigherExpr split in spec.md §4.2.
func (p *Parser) parseExpr() ast.Expr {
	switch p.cur.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Var, token.Val:
		return p.parseVarDecl()
	default:
		return p.parseBinary(0)
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Start
	p.advance() // '{'
	b := &ast.Block{At: start}
	for !p.at(token.RBrace) && p.cur.Kind != token.Error {
		b.Exprs = append(b.Exprs, p.parseExpr())
	}
	p.expect(token.RBrace, "expected '}' to close block")
	return b
}

func (p *Parser) parseIf() *ast.If {
	start := p.cur.Start
	p.advance() // 'if'
	p.expect(token.LParen, "expected '(' after 'if'")
	cond := p.parseBinary(0)
	p.expect(token.RParen, "expected ')' after condition")
	then := p.parseExpr()
	n := &ast.If{At: start, Cond: cond, Then: then}
	if p.at(token.Else) {
		p.advance()
		n.Else = p.parseExpr()
	}
	return n
}

func (p *Parser) parseWhile() *ast.While {
	start := p.cur.Start
	p.advance() // 'while'
	p.expect(token.LParen, "expected '(' after 'while'")
	cond := p.parseBinary(0)
	p.expect(token.RParen, "expected ')' after condition")
	body := p.parseExpr()
	return &ast.While{At: start, Cond: cond, Body: body}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.cur.Start
	mutable := p.at(token.Var)
	p.advance() // 'var' or 'val'
	if !p.at(token.Identifier) {
		p.errorf("E100", p.cur.Start, "expected variable name")
		return &ast.VarDecl{At: start, Mutable: mutable}
	}
	name := p.cur.Lexeme
	p.advance()
	p.expect(token.Assign, "expected '=' in variable declaration")
	value := p.parseBinary(0)
	return &ast.VarDecl{At: start, Name: name, Mutable: mutable, Value: value}
}

// parseBinary implements Pratt-style precedence climbing using the
// binding-power table in token.Kind.LBP/RBP (spec.md §4.1). The right
// operand of an ordinary operator is parsed at the operator's own LBP, so
// an operator of the same level does not bind inside it (left
// associativity: a - b - c is (a - b) - c). Assignment parses its right
// operand at its lower RBP, so a = b = c is a = (b = c).
func (p *Parser) parseBinary(minBP int) ast.Expr {
	left := p.parseUnary()
	for p.cur.Kind.IsInfix() && p.cur.Kind.LBP() > minBP {
		op := p.cur
		p.advance()
		rightBP := op.Kind.LBP()
		if op.Kind == token.Assign {
			rightBP = op.Kind.RBP()
		}
		right := p.parseBinary(rightBP)
		left = &ast.Binary{At: left.Pos(), Op: op.Lexeme, OpPos: op.Start, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Minus) || p.at(token.Bang) {
		op := p.cur
		p.advance()
		val := p.parseUnaryOperand()
		return &ast.Unary{At: op.Start, Op: op.Lexeme, Value: val}
	}
	return p.parseCall()
}

// parseUnaryOperand parses the operand of a unary operator, which may
// itself be another unary application ('- -x') or fall through to a call.
func (p *Parser) parseUnaryOperand() ast.Expr {
	if p.at(token.Minus) || p.at(token.Bang) {
		return p.parseUnary()
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	e := p.parsePrimary()
	for p.at(token.LParen) {
		start := e.Pos()
		p.advance()
		var args []ast.Expr
		if !p.at(token.RParen) {
			for {
				args = append(args, p.parseBinary(0))
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		p.expect(token.RParen, "expected ')' after call arguments")
		e = &ast.Call{At: start, Callee: e, Args: args}
	}
	return e
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Kind {
	case token.Integer:
		p.advance()
		var v int64
		fmt.Sscanf(tok.Lexeme.String(), "%d", &v)
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralInt, Int: v}
	case token.Float:
		p.advance()
		var v float64
		fmt.Sscanf(tok.Lexeme.String(), "%g", &v)
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralFloat, Float: v}
	case token.String:
		p.advance()
		s := tok.Lexeme.String()
		if len(s) >= 2 {
			s = s[1 : len(s)-1]
		}
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralString, String: p.store.Intern(s)}
	case token.True:
		p.advance()
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralBool, Bool: true}
	case token.False:
		p.advance()
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralBool, Bool: false}
	case token.Identifier:
		p.advance()
		return &ast.Ident{At: tok.Start, Name: tok.Lexeme}
	case token.LParen:
		p.advance()
		e := p.parseBinary(0)
		p.expect(token.RParen, "expected ')' to close parenthesized expression")
		return e
	default:
		p.errorf("E101", tok.Start, "expected expression, found %s", tok.Kind)
		p.advance()
		return &ast.Literal{At: tok.Start, Kind: ast.LiteralInt, Int: 0}
	}
}
