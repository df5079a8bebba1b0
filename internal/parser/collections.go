package parser

import (
	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
)

// parseCollectionOp parses each / map / filter / fold with an optional
// seed and one of the body forms: { block }, |p| expr, ||{ ... },
// ( expr ), .method shorthand, bare $ (identity), a $var bound to a
// closure, or a bare function identifier.
func (p *Parser) parseCollectionOp() ast.Expression {
	tok := p.cur()
	op := tok.Literal
	node := &ast.CollectionOp{Token: tok, Op: op}

	if p.peek().Type == lexer.LPAREN {
		p.next()
		expr := p.parseGrouped()
		if op == "fold" || p.bodyFollows() {
			node.Seed = expr
			node.Body = p.parseCollectionBody(op)
			return node
		}
		// The parenthesized expression was the body itself.
		node.Body = &ast.InlineBlock{Token: tok, Body: []ast.Expression{expr}}
		return node
	}

	if op == "fold" {
		p.fail(rillerr.ParseMissingSeed, tok.Pos, "fold requires a seed: fold(seed) { body }")
	}
	node.Body = p.parseCollectionBody(op)
	return node
}

// bodyFollows reports whether the next token can start a collection
// operator body, which disambiguates each(seed) { ... } from each (expr).
func (p *Parser) bodyFollows() bool {
	switch p.peek().Type {
	case lexer.LBRACE, lexer.BAR, lexer.OR, lexer.DOT, lexer.VARIABLE, lexer.LPAREN, lexer.IDENT:
		return true
	}
	return false
}

// parseCollectionBody parses one body form. Only each bodies may use
// break and continue.
func (p *Parser) parseCollectionBody(op string) ast.Expression {
	tok := p.cur()
	switch p.peek().Type {
	case lexer.LBRACE:
		p.next()
		depth := p.loopDepth
		if op == "each" {
			p.loopDepth++
		} else {
			p.loopDepth = 0
		}
		block := p.parseInlineBlock()
		p.loopDepth = depth
		return block

	case lexer.BAR:
		p.next()
		return p.parseClosure()

	case lexer.OR:
		p.next()
		return p.parseZeroArgClosure()

	case lexer.LPAREN:
		p.next()
		expr := p.parseGrouped()
		return &ast.InlineBlock{Token: tok, Body: []ast.Expression{expr}}

	case lexer.DOT:
		p.next()
		return p.parseMethodShorthand()

	case lexer.VARIABLE:
		p.next()
		v := &ast.Variable{Token: p.cur(), Name: p.cur().Literal}
		if v.Name == "" {
			// Bare $: the identity body.
			return &ast.InlineBlock{Token: p.cur(), Body: []ast.Expression{v}}
		}
		return v

	case lexer.IDENT:
		p.next()
		return &ast.Identifier{Token: p.cur(), Value: p.cur().Literal}
	}

	p.failUnexpected(p.peek(), "a body for "+op)
	return nil
}

// parseMethodShorthand desugars the .method body form (and chains like
// .trim.upper) into a block applying the methods to $.
func (p *Parser) parseMethodShorthand() ast.Expression {
	dotTok := p.cur()
	var expr ast.Expression = &ast.Variable{Token: dotTok}
	for {
		if p.peek().Type != lexer.IDENT && !p.peek().Type.IsKeyword() {
			p.failUnexpected(p.peek(), "a method name")
		}
		p.next()
		access := &ast.MemberAccess{Token: dotTok, Object: expr, Name: p.cur().Literal}
		if p.peek().Type == lexer.LPAREN {
			p.next()
			access.Args = p.parseArgs()
			access.Call = true
		}
		expr = access
		if p.peek().Type != lexer.DOT {
			break
		}
		p.next()
	}
	return &ast.InlineBlock{Token: dotTok, Body: []ast.Expression{expr}}
}

// parseDoWhile parses the body-first loop forms:
//
//	@ { body }            run until break
//	@ { body } ? (cond)   do-while
//	@? { body } (cond)    do-while, attached-question spelling
func (p *Parser) parseDoWhile() ast.Expression {
	tok := p.cur()
	attached := tok.Type == lexer.AT_QUESTION
	p.expectPeek(lexer.LBRACE)
	body := p.parseLoopBody()

	node := &ast.LoopExpression{Token: tok, Kind: ast.LoopDoWhile, Body: body}
	switch {
	case attached:
		p.expectPeek(lexer.LPAREN)
		node.Cond = p.parseGrouped()
	case p.peek().Type == lexer.QUESTION && p.peekAhead(1).Type == lexer.LPAREN:
		p.next()
		p.next()
		node.Cond = p.parseGrouped()
	}
	return node
}

// parseWhilePrefix parses ?@ (cond) { body }.
func (p *Parser) parseWhilePrefix() ast.Expression {
	tok := p.cur()
	p.expectPeek(lexer.LPAREN)
	cond := p.parseGrouped()
	p.expectPeek(lexer.LBRACE)
	body := p.parseLoopBody()
	return &ast.LoopExpression{Token: tok, Kind: ast.LoopWhile, Cond: cond, Body: body}
}

// parseWhileInfix parses (cond) @ { body } with the condition already
// parsed as the left operand.
func (p *Parser) parseWhileInfix(cond ast.Expression) ast.Expression {
	tok := p.cur()
	p.expectPeek(lexer.LBRACE)
	body := p.parseLoopBody()
	return &ast.LoopExpression{Token: tok, Kind: ast.LoopWhile, Cond: cond, Body: body}
}

// parseLoopBody parses the loop body block with break/continue permitted.
func (p *Parser) parseLoopBody() *ast.InlineBlock {
	p.loopDepth++
	block := p.parseInlineBlock()
	p.loopDepth--
	return block
}
