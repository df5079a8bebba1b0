// Package parser implements the rill expression parser using Pratt
// parsing.
//
// Key behaviors:
//   - Newlines separate statements. Inside an expression, newlines after an
//     operator are skipped, and a newline followed by -> continues the
//     pipeline on the next line.
//   - A { ... } block directly in the right-hand position of a pipe (or as
//     a conditional branch there) parses as an InlineBlock; anywhere else
//     it parses as a block-closure literal.
//   - Parse failures raise structured errors with stable RILL-P### ids and
//     the offending token's source location.
package parser

import (
	"strconv"

	"github.com/rcrsr/rill/internal/ast"
	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/lexer"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	PIPELINE    // ->
	LOOP        // (cond) @ { body }
	CAPTURE     // :> => ?>
	TERNARY     // ? !
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	DEFAULT     // ??
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x, !x
	POSTFIX     // field/index/call/existence
)

// precedences maps token types to their infix precedence levels.
var precedences = map[lexer.TokenType]int{
	lexer.PIPE:          PIPELINE,
	lexer.AT:            LOOP,
	lexer.CAPTURE:       CAPTURE,
	lexer.CAPTURE_ARROW: CAPTURE,
	lexer.CAPTURE_COND:  CAPTURE,
	lexer.QUESTION:      TERNARY,
	lexer.OR:            OR,
	lexer.AND:           AND,
	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.LESS:          LESSGREATER,
	lexer.GREATER:       LESSGREATER,
	lexer.LESS_EQ:       LESSGREATER,
	lexer.GREATER_EQ:    LESSGREATER,
	lexer.COALESCE:      DEFAULT,
	lexer.PLUS:          SUM,
	lexer.MINUS:         SUM,
	lexer.ASTERISK:      PRODUCT,
	lexer.SLASH:         PRODUCT,
	lexer.PERCENT:       PRODUCT,
	lexer.DOT:           POSTFIX,
	lexer.DOT_QUESTION:  POSTFIX,
	lexer.LBRACK:        POSTFIX,
	lexer.LPAREN:        POSTFIX,
}

// Parser parses a pre-lexed token stream into an AST.
type Parser struct {
	tokens   []lexer.Token
	pos      int // index of the next unread token
	curToken lexer.Token

	pipeCtx   []bool // whether { ... } parses as an inline block here
	loopDepth int    // > 0 while inside a loop or each body
}

// Parse parses a complete rill program. It returns the AST, or a
// *errors.ScriptError with a RILL-P### id describing the first failure.
func Parse(source string) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*rillerr.ScriptError); ok {
				prog, err = nil, perr
				return
			}
			panic(r)
		}
	}()

	p := newParser(lexer.New(source))
	return p.parseProgram(), nil
}

// newParser reads the full token stream from l and positions the parser on
// the first token.
func newParser(l *lexer.Lexer) *Parser {
	var tokens []lexer.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	p := &Parser{tokens: tokens, pipeCtx: []bool{false}}
	p.next()
	return p
}

// next advances the parser by one token.
func (p *Parser) next() {
	p.curToken = p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// cur returns the current token.
func (p *Parser) cur() lexer.Token {
	return p.curToken
}

// peek returns the next unread token.
func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

// peekAhead returns the token n positions past the current one;
// peekAhead(0) is peek.
func (p *Parser) peekAhead(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	return p.tokens[idx]
}

// skipPeekSeparators drops newline tokens waiting in the stream so the
// next advance lands on a real token.
func (p *Parser) skipPeekSeparators() {
	for p.tokens[p.pos].Type == lexer.NEWLINE && p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// advancePastSeparators skips any pending newlines and advances.
func (p *Parser) advancePastSeparators() {
	p.skipPeekSeparators()
	p.next()
}

// expectPeek asserts the next token's type and advances onto it.
func (p *Parser) expectPeek(t lexer.TokenType) {
	if p.peek().Type != t {
		p.failUnexpected(p.peek(), t.String())
	}
	p.next()
}

// fail raises a structured parse error.
func (p *Parser) fail(id string, pos lexer.Position, format string, args ...any) {
	panic(rillerr.New(id, pos, format, args...))
}

// failUnexpected raises the standard unexpected-token error, using the EOF
// id when the stream ended early.
func (p *Parser) failUnexpected(tok lexer.Token, want string) {
	if tok.Type == lexer.EOF {
		p.fail(rillerr.ParseEOF, tok.Pos, "unexpected end of input, expected %s", want)
	}
	p.fail(rillerr.ParseGeneric, tok.Pos, "unexpected token %q, expected %s", tokenText(tok), want)
}

func tokenText(tok lexer.Token) string {
	switch tok.Type {
	case lexer.NEWLINE:
		return "newline"
	case lexer.STRING:
		return tok.Literal
	default:
		if tok.Literal != "" {
			return tok.Literal
		}
		return tok.Type.String()
	}
}

// pushPipeCtx sets whether braces open inline blocks in the region being
// parsed; popPipeCtx restores the previous setting.
func (p *Parser) pushPipeCtx(inline bool) {
	p.pipeCtx = append(p.pipeCtx, inline)
}

func (p *Parser) popPipeCtx() {
	p.pipeCtx = p.pipeCtx[:len(p.pipeCtx)-1]
}

func (p *Parser) inPipeCtx() bool {
	return p.pipeCtx[len(p.pipeCtx)-1]
}

// parseProgram parses statements separated by newlines or semicolons until
// EOF.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for {
		for p.cur().Type == lexer.NEWLINE || p.cur().Type == lexer.SEMICOLON {
			p.next()
		}
		if p.cur().Type == lexer.EOF {
			return prog
		}
		stmt := p.parseExpression(LOWEST)
		prog.Statements = append(prog.Statements, stmt)
		switch p.peek().Type {
		case lexer.NEWLINE, lexer.SEMICOLON, lexer.EOF:
			p.next()
		default:
			p.failUnexpected(p.peek(), "end of statement")
		}
	}
}

// parseExpression is the Pratt parsing core. The current token is the
// first token of the expression on entry and its last token on return.
func (p *Parser) parseExpression(prec int) ast.Expression {
	left := p.parsePrefix()

	for {
		pt := p.peek().Type
		if pt == lexer.NEWLINE {
			// A newline followed by -> continues the pipeline on the
			// next line; any other newline ends the expression.
			if prec < PIPELINE && p.pipeAfterSeparators() {
				p.skipPeekSeparators()
				pt = p.peek().Type
			} else {
				return left
			}
		}
		opPrec, ok := precedences[pt]
		if !ok || prec >= opPrec {
			return left
		}
		p.next()
		left = p.parseInfix(left)
	}
}

// pipeAfterSeparators reports whether the next non-newline token is ->.
func (p *Parser) pipeAfterSeparators() bool {
	for n := 0; ; n++ {
		tok := p.peekAhead(n)
		if tok.Type == lexer.NEWLINE {
			continue
		}
		return tok.Type == lexer.PIPE
	}
}

// parsePrefix dispatches on the current token to parse a primary or
// prefix expression.
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		return p.parseNumber()
	case lexer.STRING:
		return p.parseString()
	case lexer.TRUE:
		return &ast.BooleanLiteral{Token: tok, Value: true}
	case lexer.FALSE:
		return &ast.BooleanLiteral{Token: tok, Value: false}
	case lexer.NULL:
		return &ast.NullLiteral{Token: tok}
	case lexer.IDENT:
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case lexer.VARIABLE:
		return &ast.Variable{Token: tok, Name: tok.Literal}
	case lexer.ACCUM:
		return &ast.Accumulator{Token: tok}
	case lexer.LBRACK:
		return p.parseBracketLiteral()
	case lexer.LPAREN:
		return p.parseGrouped()
	case lexer.LBRACE:
		if p.inPipeCtx() {
			return p.parseInlineBlock()
		}
		return p.parseBlockClosure()
	case lexer.BAR:
		return p.parseClosure()
	case lexer.OR:
		return p.parseZeroArgClosure()
	case lexer.MINUS, lexer.BANG:
		return p.parseUnary()
	case lexer.PASS:
		return &ast.PassExpression{Token: tok}
	case lexer.BREAK:
		if p.loopDepth == 0 {
			p.fail(rillerr.ParseLoopControl, tok.Pos, "break outside of a loop or each")
		}
		return &ast.BreakExpression{Token: tok}
	case lexer.CONTINUE:
		if p.loopDepth == 0 {
			p.fail(rillerr.ParseLoopControl, tok.Pos, "continue outside of a loop or each")
		}
		return &ast.ContinueExpression{Token: tok}
	case lexer.ERROR:
		return p.parseError()
	case lexer.EACH, lexer.MAP, lexer.FILTER, lexer.FOLD:
		return p.parseCollectionOp()
	case lexer.AT, lexer.AT_QUESTION:
		return p.parseDoWhile()
	case lexer.QUESTION_AT:
		return p.parseWhilePrefix()
	case lexer.ILLEGAL:
		id := rillerr.ParseGeneric
		if tok.Literal == "unterminated string literal" || tok.Literal == "unterminated interpolation in string literal" {
			id = rillerr.ParseEOF
		}
		p.fail(id, tok.Pos, "%s", tok.Literal)
	case lexer.EOF:
		p.fail(rillerr.ParseEOF, tok.Pos, "unexpected end of input")
	}
	p.failUnexpected(tok, "an expression")
	return nil
}

// parseInfix dispatches on the current (operator) token.
func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case lexer.PIPE:
		return p.parsePipe(left)
	case lexer.AT:
		return p.parseWhileInfix(left)
	case lexer.CAPTURE, lexer.CAPTURE_ARROW, lexer.CAPTURE_COND:
		return p.parseCapture(left)
	case lexer.QUESTION:
		return p.parseConditional(left)
	case lexer.COALESCE:
		return p.parseCoalesce(left)
	case lexer.OR, lexer.AND, lexer.EQ, lexer.NOT_EQ, lexer.LESS, lexer.GREATER,
		lexer.LESS_EQ, lexer.GREATER_EQ, lexer.PLUS, lexer.MINUS, lexer.ASTERISK,
		lexer.SLASH, lexer.PERCENT:
		return p.parseBinary(left)
	case lexer.DOT:
		return p.parseMember(left)
	case lexer.DOT_QUESTION:
		return p.parseExistence(left)
	case lexer.LBRACK:
		return p.parseIndex(left)
	case lexer.LPAREN:
		return p.parseCall(left)
	}
	p.failUnexpected(tok, "an operator")
	return nil
}

func (p *Parser) parseNumber() ast.Expression {
	tok := p.cur()
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.fail(rillerr.ParseGeneric, tok.Pos, "invalid number literal %q", tok.Literal)
	}
	return &ast.NumberLiteral{Token: tok, Value: value}
}

// parseString builds a plain or interpolated string literal. Each {expr}
// segment is sub-parsed with the segment's source position as the lexer
// base, so positions inside interpolations line up with the original
// source.
func (p *Parser) parseString() ast.Expression {
	tok := p.cur()
	if !tok.Interpolated() {
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	}
	parts := make([]ast.Expression, 0, len(tok.Segments))
	for _, seg := range tok.Segments {
		if !seg.IsExpr {
			segTok := lexer.Token{Type: lexer.STRING, Literal: seg.Text, Pos: seg.Pos}
			parts = append(parts, &ast.StringLiteral{Token: segTok, Value: seg.Text})
			continue
		}
		sub := newParser(lexer.NewAt(seg.Text, seg.Pos))
		parts = append(parts, sub.parseStandalone(seg.Pos))
	}
	return &ast.InterpolatedString{Token: tok, Parts: parts}
}

// parseStandalone parses exactly one expression spanning the whole input.
// Used for interpolation segments.
func (p *Parser) parseStandalone(pos lexer.Position) ast.Expression {
	for p.cur().Type == lexer.NEWLINE {
		p.next()
	}
	if p.cur().Type == lexer.EOF {
		p.fail(rillerr.ParseGeneric, pos, "empty interpolation expression")
	}
	expr := p.parseExpression(LOWEST)
	p.skipPeekSeparators()
	if p.peek().Type != lexer.EOF {
		p.failUnexpected(p.peek(), "end of interpolation expression")
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.cur()
	p.next()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Token: tok, Op: tok.Literal, Operand: operand}
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.cur()
	prec := precedences[tok.Type]
	p.advancePastSeparators()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Op: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseCoalesce(left ast.Expression) ast.Expression {
	tok := p.cur()
	p.advancePastSeparators()
	// Right-associative: a ?? b ?? c falls through to c.
	right := p.parseExpression(DEFAULT - 1)
	return &ast.CoalesceExpression{Token: tok, Left: left, Right: right}
}

// parseGrouped parses ( expr ). Braces inside revert to closure literals.
func (p *Parser) parseGrouped() ast.Expression {
	p.pushPipeCtx(false)
	defer p.popPipeCtx()
	p.advancePastSeparators()
	expr := p.parseExpression(LOWEST)
	p.skipPeekSeparators()
	p.expectPeek(lexer.RPAREN)
	return expr
}

// parseCapture parses v :> $name (and the => / ?> spellings).
func (p *Parser) parseCapture(left ast.Expression) ast.Expression {
	tok := p.cur()
	if pass, ok := left.(*ast.PassExpression); ok {
		p.fail(rillerr.ParseReserved, pass.Pos(), "pass cannot be captured")
	}
	p.expectPeek(lexer.VARIABLE)
	target := p.cur()
	if target.Literal == "" {
		p.fail(rillerr.ParseGeneric, target.Pos, "cannot capture into the pipe value $")
	}
	return &ast.CaptureExpression{
		Token:  tok,
		Op:     tok.Literal,
		Value:  left,
		Target: &ast.Variable{Token: target, Name: target.Literal},
	}
}

// parsePipe parses A -> B. A { ... } directly in the right-hand position
// is an inline block, evaluated eagerly with $ bound; the error keyword is
// the piped error form.
func (p *Parser) parsePipe(left ast.Expression) ast.Expression {
	tok := p.cur()
	if pass, ok := left.(*ast.PassExpression); ok {
		p.fail(rillerr.ParseReserved, pass.Pos(), "pass cannot be the source of a pipe")
	}
	p.advancePastSeparators()

	var right ast.Expression
	if p.cur().Type == lexer.LBRACE {
		right = p.parseInlineBlock()
	} else {
		p.pushPipeCtx(true)
		right = p.parseExpression(PIPELINE)
		p.popPipeCtx()
	}
	return &ast.PipeExpression{Token: tok, Left: left, Right: right}
}

// parseConditional parses cond ? then ! else. Inside a pipe right-hand
// side the branches may be inline blocks.
func (p *Parser) parseConditional(cond ast.Expression) ast.Expression {
	tok := p.cur()
	then := p.parseBranch()
	var els ast.Expression
	if p.peek().Type == lexer.BANG {
		p.next()
		els = p.parseBranch()
	}
	return &ast.ConditionalExpression{Token: tok, Cond: cond, Then: then, Else: els}
}

// parseBranch parses one conditional branch, honoring the inline-block
// rule of the surrounding pipe context.
func (p *Parser) parseBranch() ast.Expression {
	p.advancePastSeparators()
	if p.cur().Type == lexer.LBRACE && p.inPipeCtx() {
		return p.parseInlineBlock()
	}
	return p.parseExpression(TERNARY)
}

// parseError parses the error construct: error "msg" raises a literal
// message, bare error (as a pipe target) raises the incoming value.
// Any other literal kind is rejected.
func (p *Parser) parseError() ast.Expression {
	tok := p.cur()
	switch p.peek().Type {
	case lexer.STRING:
		if p.peek().Interpolated() {
			p.fail(rillerr.ParseLiteralKind, p.peek().Pos, "error requires a literal string message")
		}
		p.next()
		return &ast.ErrorExpression{Token: tok, Message: p.cur().Literal}
	case lexer.NUMBER, lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.LBRACK, lexer.VARIABLE, lexer.ACCUM, lexer.IDENT:
		p.fail(rillerr.ParseLiteralKind, p.peek().Pos, "error requires a literal string message")
	}
	return &ast.ErrorExpression{Token: tok, Piped: true}
}
