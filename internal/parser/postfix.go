package parser

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
)

// rejectPass raises the pass-misuse error when pass is used as a receiver
// or callee. pass is a value sentinel, not an ordinary expression.
func (p *Parser) rejectPass(expr ast.Expression, what string) {
	if pass, ok := expr.(*ast.PassExpression); ok {
		p.fail(rillerr.ParseReserved, pass.Pos(), "pass cannot be %s", what)
	}
}

// parseMember parses obj.name and obj.name(args), plus the computed-key
// form obj.(expr).
func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.rejectPass(left, "accessed")

	if p.peek().Type == lexer.LPAREN {
		p.next()
		key := p.parseGrouped()
		return &ast.ComputedMember{Token: tok, Object: left, Key: key}
	}

	if p.peek().Type != lexer.IDENT && !p.peek().Type.IsKeyword() {
		p.failUnexpected(p.peek(), "a field or method name")
	}
	p.next()
	access := &ast.MemberAccess{Token: tok, Object: left, Name: p.cur().Literal}
	if p.peek().Type == lexer.LPAREN {
		p.next()
		access.Args = p.parseArgs()
		access.Call = true
	}
	return access
}

// parseIndex parses obj[index].
func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.rejectPass(left, "indexed")
	p.advancePastSeparators()
	index := p.parseExpression(LOWEST)
	p.skipPeekSeparators()
	p.expectPeek(lexer.RBRACK)
	return &ast.IndexExpression{Token: tok, Object: left, Index: index}
}

// parseCall parses fn(args) with the current token on the open paren.
func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.rejectPass(left, "called")
	args := p.parseArgs()
	return &ast.CallExpression{Token: tok, Fn: left, Args: args}
}

// parseArgs parses a comma-separated argument list with the current token
// on the open paren; on return the current token is the close paren.
func (p *Parser) parseArgs() []ast.Expression {
	p.pushPipeCtx(false)
	defer p.popPipeCtx()

	var args []ast.Expression
	p.skipPeekSeparators()
	if p.peek().Type == lexer.RPAREN {
		p.next()
		return args
	}
	for {
		p.advancePastSeparators()
		args = append(args, p.parseExpression(LOWEST))
		p.skipPeekSeparators()
		switch p.peek().Type {
		case lexer.COMMA:
			p.next()
		case lexer.RPAREN:
			p.next()
			return args
		case lexer.EOF:
			p.fail(rillerr.ParseEOF, p.peek().Pos, "unexpected end of input, unclosed argument list")
		default:
			p.failUnexpected(p.peek(), "',' or ')'")
		}
	}
}

// existenceTypes are the kind names accepted by the typed existence check.
var existenceTypes = map[string]bool{
	"number":  true,
	"string":  true,
	"bool":    true,
	"list":    true,
	"dict":    true,
	"null":    true,
	"closure": true,
	"vector":  true,
}

// parseExistence parses X.?name, X.?$var, X.?(expr) and their &type
// suffixed forms.
func (p *Parser) parseExistence(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.rejectPass(left, "checked for a key")

	check := &ast.ExistenceCheck{Token: tok, Object: left}
	switch {
	case p.peek().Type == lexer.VARIABLE:
		p.next()
		check.Kind = ast.ExistenceVariable
		check.VarName = p.cur().Literal
	case p.peek().Type == lexer.LPAREN:
		p.next()
		check.Kind = ast.ExistenceComputed
		check.KeyExpr = p.parseGrouped()
	case p.peek().Type == lexer.IDENT || p.peek().Type.IsKeyword():
		p.next()
		check.Kind = ast.ExistenceStatic
		check.Name = p.cur().Literal
	default:
		p.failUnexpected(p.peek(), "a key after .?")
	}

	if p.peek().Type == lexer.AMP {
		p.next()
		if p.peek().Type == lexer.NULL {
			p.next()
		} else {
			p.expectPeek(lexer.IDENT)
		}
		tag := p.cur().Literal
		if !existenceTypes[tag] {
			p.fail(rillerr.ParseGeneric, p.cur().Pos, "unknown type tag %q in existence check", tag)
		}
		check.Type = tag
	}
	return check
}
