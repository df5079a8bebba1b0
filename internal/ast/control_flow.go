package ast

import (
	"github.com/rcrsr/rill/internal/lexer"
)

// CollectionOp represents each / map / filter / fold applied to the
// current pipe value. Seed is the optional accumulator seed (required for
// fold). Body is one of: an InlineBlock, a ClosureLiteral, or an arbitrary
// expression. The .method shorthand and grouped (expr) bodies are parsed
// into InlineBlock form; a plain expression body must evaluate to a
// callable, which is invoked per element.
type CollectionOp struct {
	Token lexer.Token // the operator keyword token
	Op    string      // "each", "map", "filter", "fold"
	Seed  Expression
	Body  Expression
}

func (c *CollectionOp) expressionNode()      {}
func (c *CollectionOp) TokenLiteral() string { return c.Token.Literal }
func (c *CollectionOp) Pos() lexer.Position  { return c.Token.Pos }

func (c *CollectionOp) String() string {
	s := c.Op
	if c.Seed != nil {
		s += "(" + c.Seed.String() + ")"
	}
	return s + " " + c.Body.String()
}

// LoopKind distinguishes the two loop checks.
type LoopKind int

const (
	// LoopWhile checks the condition before each iteration:
	// (cond) @ { body } or ?@ (cond) { body }.
	LoopWhile LoopKind = iota
	// LoopDoWhile runs the body first and checks after:
	// @ { body } ? (cond) or @? { body } (cond).
	LoopDoWhile
)

// LoopExpression represents a loop over the evolving pipe value. Inside
// the body $ is the current value and the body's last expression becomes
// the next $. Cond may be nil for a bare @ { body } loop, which runs until
// break.
type LoopExpression struct {
	Token lexer.Token // the @ / @? / ?@ token
	Kind  LoopKind
	Cond  Expression
	Body  *InlineBlock
}

func (l *LoopExpression) expressionNode()      {}
func (l *LoopExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LoopExpression) Pos() lexer.Position  { return l.Token.Pos }

func (l *LoopExpression) String() string {
	if l.Kind == LoopWhile {
		return "(" + l.Cond.String() + ") @ " + l.Body.String()
	}
	s := "@ " + l.Body.String()
	if l.Cond != nil {
		s += " ? (" + l.Cond.String() + ")"
	}
	return s
}

// PassExpression represents the pass sentinel: the current $ unchanged.
// It is only meaningful in pipe-bearing contexts.
type PassExpression struct {
	Token lexer.Token
}

func (p *PassExpression) expressionNode()      {}
func (p *PassExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PassExpression) String() string       { return "pass" }
func (p *PassExpression) Pos() lexer.Position  { return p.Token.Pos }

// BreakExpression terminates the innermost loop or each.
type BreakExpression struct {
	Token lexer.Token
}

func (b *BreakExpression) expressionNode()      {}
func (b *BreakExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BreakExpression) String() string       { return "break" }
func (b *BreakExpression) Pos() lexer.Position  { return b.Token.Pos }

// ContinueExpression restarts the innermost loop or each with the current $.
type ContinueExpression struct {
	Token lexer.Token
}

func (c *ContinueExpression) expressionNode()      {}
func (c *ContinueExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueExpression) String() string       { return "continue" }
func (c *ContinueExpression) Pos() lexer.Position  { return c.Token.Pos }

// ErrorExpression represents the error construct. The literal form
// error "msg" raises with the given message; the piped form X -> error
// raises with the incoming string value (Piped true, Message empty).
type ErrorExpression struct {
	Token   lexer.Token
	Message string
	Piped   bool
}

func (e *ErrorExpression) expressionNode()      {}
func (e *ErrorExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ErrorExpression) Pos() lexer.Position  { return e.Token.Pos }

func (e *ErrorExpression) String() string {
	if e.Piped {
		return "error"
	}
	return `error "` + e.Message + `"`
}
