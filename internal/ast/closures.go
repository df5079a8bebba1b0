package ast

import (
	"strings"

	"github.com/rcrsr/rill/internal/lexer"
)

// Param is one declared closure parameter, with an optional default.
type Param struct {
	Name    string
	Default Expression
	Pos     lexer.Position
}

// ClosureLiteral represents the closure-producing forms:
//
//	{ body }        block closure — implicit $ parameter (Block)
//	|x, y=0| body   explicit-parameter closure (Params)
//	||{ body }      zero-argument closure (ZeroArg)
//	||( expr )      zero-argument closure (ZeroArg)
//
// A block closure in the right-hand position of a pipe is not a closure at
// all; the parser emits an InlineBlock there instead. PropertyStyle is set
// on zero-argument closures appearing directly as dict literal values:
// reading the dict field auto-invokes them.
type ClosureLiteral struct {
	Token         lexer.Token
	Params        []Param
	Body          []Expression
	Block         bool
	ZeroArg       bool
	PropertyStyle bool
}

func (c *ClosureLiteral) expressionNode()      {}
func (c *ClosureLiteral) TokenLiteral() string { return c.Token.Literal }
func (c *ClosureLiteral) Pos() lexer.Position  { return c.Token.Pos }

func (c *ClosureLiteral) String() string {
	body := make([]string, len(c.Body))
	for i, e := range c.Body {
		body[i] = e.String()
	}
	inner := strings.Join(body, "\n")
	switch {
	case c.ZeroArg:
		return "||{ " + inner + " }"
	case c.Block:
		return "{ " + inner + " }"
	default:
		params := make([]string, len(c.Params))
		for i, p := range c.Params {
			params[i] = p.Name
			if p.Default != nil {
				params[i] += "=" + p.Default.String()
			}
		}
		return "|" + strings.Join(params, ", ") + "| " + inner
	}
}

// InlineBlock represents a { ... } block in the right-hand position of a
// pipe (or as a loop / collection operator body). Unlike a block closure it
// is evaluated eagerly, in a child scope with $ already bound.
type InlineBlock struct {
	Token lexer.Token // the { token
	Body  []Expression
}

func (b *InlineBlock) expressionNode()      {}
func (b *InlineBlock) TokenLiteral() string { return b.Token.Literal }
func (b *InlineBlock) Pos() lexer.Position  { return b.Token.Pos }

func (b *InlineBlock) String() string {
	body := make([]string, len(b.Body))
	for i, e := range b.Body {
		body[i] = e.String()
	}
	return "{ " + strings.Join(body, "\n") + " }"
}
