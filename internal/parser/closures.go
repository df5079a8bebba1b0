package parser

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
)

// parseBlockBody parses statements between { and } (the current token is
// the opening brace). On return the current token is the closing brace.
func (p *Parser) parseBlockBody() []ast.Expression {
	open := p.cur()
	var body []ast.Expression
	for {
		switch p.peek().Type {
		case lexer.NEWLINE, lexer.SEMICOLON:
			p.next()
			continue
		case lexer.RBRACE:
			p.next()
			return body
		case lexer.EOF:
			p.fail(rillerr.ParseEOF, open.Pos, "unexpected end of input, unclosed block")
		}
		p.next()
		body = append(body, p.parseExpression(LOWEST))
		switch p.peek().Type {
		case lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		default:
			p.failUnexpected(p.peek(), "end of statement")
		}
	}
}

// parseInlineBlock parses a { ... } block in inline pipe position.
func (p *Parser) parseInlineBlock() *ast.InlineBlock {
	tok := p.cur()
	p.pushPipeCtx(false)
	body := p.parseBlockBody()
	p.popPipeCtx()
	return &ast.InlineBlock{Token: tok, Body: body}
}

// parseBlockClosure parses a { ... } block-closure literal: a closure
// whose implicit parameter is $.
func (p *Parser) parseBlockClosure() ast.Expression {
	tok := p.cur()
	p.pushPipeCtx(false)
	depth := p.loopDepth
	p.loopDepth = 0
	body := p.parseBlockBody()
	p.loopDepth = depth
	p.popPipeCtx()
	return &ast.ClosureLiteral{Token: tok, Body: body, Block: true}
}

// parseClosure parses an explicit-parameter closure |x, y, acc=0| body.
// The body is a block or a single expression ending at the next pipe,
// loop or capture operator.
func (p *Parser) parseClosure() ast.Expression {
	tok := p.cur()
	var params []ast.Param
	for p.peek().Type != lexer.BAR {
		p.expectPeek(lexer.IDENT)
		param := ast.Param{Name: p.cur().Literal, Pos: p.cur().Pos}
		if p.peek().Type == lexer.ASSIGN {
			p.next()
			p.next()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if p.peek().Type == lexer.COMMA {
			p.next()
		} else if p.peek().Type != lexer.BAR {
			p.failUnexpected(p.peek(), "',' or '|'")
		}
	}
	p.next() // closing |

	body := p.parseClosureBody()
	return &ast.ClosureLiteral{Token: tok, Params: params, Body: body}
}

// parseZeroArgClosure parses ||{ body } and ||( expr ).
func (p *Parser) parseZeroArgClosure() ast.Expression {
	tok := p.cur()
	switch p.peek().Type {
	case lexer.LBRACE:
		p.next()
		p.pushPipeCtx(false)
		depth := p.loopDepth
		p.loopDepth = 0
		body := p.parseBlockBody()
		p.loopDepth = depth
		p.popPipeCtx()
		return &ast.ClosureLiteral{Token: tok, Body: body, ZeroArg: true}
	case lexer.LPAREN:
		p.next()
		expr := p.parseGrouped()
		return &ast.ClosureLiteral{Token: tok, Body: []ast.Expression{expr}, ZeroArg: true}
	}
	p.failUnexpected(p.peek(), "'{' or '(' after ||")
	return nil
}

// parseClosureBody parses the body of an explicit-parameter closure.
func (p *Parser) parseClosureBody() []ast.Expression {
	p.pushPipeCtx(false)
	defer p.popPipeCtx()
	depth := p.loopDepth
	p.loopDepth = 0
	defer func() { p.loopDepth = depth }()

	if p.peek().Type == lexer.LBRACE {
		p.next()
		return p.parseBlockBody()
	}
	p.advancePastSeparators()
	return []ast.Expression{p.parseExpression(CAPTURE)}
}
