package parser

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
)

// parseBracketLiteral parses [ ... ]: a list literal, a dict literal, or
// one of the empty forms [] (list) and [:] (dict). The mode is decided by
// the first element; mixing keyed and bare elements is an error.
func (p *Parser) parseBracketLiteral() ast.Expression {
	tok := p.cur()
	p.pushPipeCtx(false)
	defer p.popPipeCtx()
	p.skipPeekSeparators()

	switch {
	case p.peek().Type == lexer.RBRACK:
		p.next()
		return &ast.ListLiteral{Token: tok}
	case p.peek().Type == lexer.COLON && p.peekAhead(1).Type == lexer.RBRACK:
		p.next()
		p.next()
		return &ast.DictLiteral{Token: tok}
	}

	if p.startsDictEntry() {
		return p.parseDictLiteral(tok)
	}
	return p.parseListLiteral(tok)
}

// startsDictEntry reports whether the upcoming tokens form a dict key:
// ident:, "string":, $var:, or (expr):.
func (p *Parser) startsDictEntry() bool {
	switch p.peek().Type {
	case lexer.VARIABLE:
		return p.peekAhead(1).Type == lexer.COLON
	case lexer.LPAREN:
		// Scan for the matching close paren; a following colon marks a
		// computed key.
		depth := 0
		for n := 0; ; n++ {
			switch p.peekAhead(n).Type {
			case lexer.LPAREN:
				depth++
			case lexer.RPAREN:
				depth--
				if depth == 0 {
					return p.peekAhead(n+1).Type == lexer.COLON
				}
			case lexer.EOF:
				return false
			}
		}
	case lexer.STRING:
		return p.peekAhead(1).Type == lexer.COLON
	default:
		if p.peek().Type == lexer.IDENT || p.peek().Type.IsKeyword() {
			return p.peekAhead(1).Type == lexer.COLON
		}
	}
	return false
}

func (p *Parser) parseListLiteral(tok lexer.Token) ast.Expression {
	list := &ast.ListLiteral{Token: tok}
	for {
		p.advancePastSeparators()
		list.Elements = append(list.Elements, p.parseExpression(LOWEST))
		if !p.finishElement(tok) {
			return list
		}
	}
}

func (p *Parser) parseDictLiteral(tok lexer.Token) ast.Expression {
	dict := &ast.DictLiteral{Token: tok}
	for {
		p.advancePastSeparators()
		entry := p.parseDictEntry()
		dict.Entries = append(dict.Entries, entry)
		if !p.finishElement(tok) {
			return dict
		}
	}
}

// finishElement consumes the separator after a literal element. It
// returns true when another element follows, false at the closing
// bracket. A trailing comma before ] is permitted.
func (p *Parser) finishElement(open lexer.Token) bool {
	p.skipPeekSeparators()
	switch p.peek().Type {
	case lexer.COMMA:
		p.next()
		p.skipPeekSeparators()
		if p.peek().Type == lexer.RBRACK {
			p.next()
			return false
		}
		return true
	case lexer.RBRACK:
		p.next()
		return false
	case lexer.EOF:
		p.fail(rillerr.ParseEOF, open.Pos, "unexpected end of input, unclosed '['")
	}
	p.failUnexpected(p.peek(), "',' or ']'")
	return false
}

// parseDictEntry parses one key: value pair with the current token on
// the key.
func (p *Parser) parseDictEntry() ast.DictEntry {
	var entry ast.DictEntry
	switch {
	case p.cur().Type == lexer.VARIABLE:
		entry.Kind = ast.DictKeyVariable
		entry.VarName = p.cur().Literal
		entry.KeyPos = p.cur().Pos
		p.expectPeek(lexer.COLON)
	case p.cur().Type == lexer.LPAREN:
		entry.Kind = ast.DictKeyComputed
		entry.KeyPos = p.cur().Pos
		entry.KeyExpr = p.parseGrouped()
		p.expectPeek(lexer.COLON)
	case p.cur().Type == lexer.STRING:
		if p.cur().Interpolated() {
			p.fail(rillerr.ParseGeneric, p.cur().Pos, "dict keys cannot be interpolated strings; use a computed (expr): key")
		}
		entry.Kind = ast.DictKeyStatic
		entry.Static = p.cur().Literal
		entry.KeyPos = p.cur().Pos
		p.expectPeek(lexer.COLON)
	case p.cur().Type == lexer.IDENT || p.cur().Type.IsKeyword():
		entry.Kind = ast.DictKeyStatic
		entry.Static = p.cur().Literal
		entry.KeyPos = p.cur().Pos
		p.expectPeek(lexer.COLON)
	default:
		p.failUnexpected(p.cur(), "a dict key")
	}

	p.advancePastSeparators()
	entry.Value = p.parseExpression(LOWEST)

	// ||{ ... } directly in value position gets property-style
	// auto-invocation on field read.
	if closure, ok := entry.Value.(*ast.ClosureLiteral); ok && closure.ZeroArg {
		closure.PropertyStyle = true
	}
	return entry
}
