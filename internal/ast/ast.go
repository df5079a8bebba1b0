// Package ast defines the Abstract Syntax Tree node types for rill.
package ast

import (
	"strings"

	"github.com/rcrsr/rill/internal/lexer"
)

// Node is the base interface for all AST nodes.
// Every node carries its source position for error reporting and can render
// a string representation of itself for debugging and testing.
type Node interface {
	// TokenLiteral returns the literal of the token the node starts at.
	TokenLiteral() string

	// String returns a source-like representation of the node.
	String() string

	// Pos returns the node's position in the source code.
	Pos() lexer.Position
}

// Expression represents any node that produces a value. rill is an
// expression language: every statement is an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of the AST. Statements are evaluated in order;
// the value of the last statement is the value of the program.
type Program struct {
	Statements []Expression
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	parts := make([]string, len(p.Statements))
	for i, stmt := range p.Statements {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, "\n")
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Identifier represents a bare name, which resolves to a registered
// runtime function (log, llm::complete, ...) at evaluation time.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// Variable represents $name, or the bare pipe value $ when Name is empty.
type Variable struct {
	Token lexer.Token
	Name  string
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Literal }
func (v *Variable) Pos() lexer.Position  { return v.Token.Pos }

func (v *Variable) String() string {
	return "$" + v.Name
}

// Accumulator represents $@, the accumulator binding available inside
// stateful collection operator bodies.
type Accumulator struct {
	Token lexer.Token
}

func (a *Accumulator) expressionNode()      {}
func (a *Accumulator) TokenLiteral() string { return a.Token.Literal }
func (a *Accumulator) String() string       { return "$@" }
func (a *Accumulator) Pos() lexer.Position  { return a.Token.Pos }

// NumberLiteral represents a number literal. All rill numbers are 64-bit
// floats.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }

// StringLiteral represents a plain (non-interpolated) string literal,
// or one literal segment of an interpolated string.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return `"` + s.Value + `"` }
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }

// InterpolatedString represents a string literal with embedded {expr}
// segments. Parts alternate between StringLiteral segments and arbitrary
// expressions; evaluation concatenates them in order.
type InterpolatedString struct {
	Token lexer.Token
	Parts []Expression
}

func (s *InterpolatedString) expressionNode()      {}
func (s *InterpolatedString) TokenLiteral() string { return s.Token.Literal }
func (s *InterpolatedString) Pos() lexer.Position  { return s.Token.Pos }

func (s *InterpolatedString) String() string {
	var sb strings.Builder
	sb.WriteString(`"`)
	for _, part := range s.Parts {
		if lit, ok := part.(*StringLiteral); ok {
			sb.WriteString(lit.Value)
		} else {
			sb.WriteString("{")
			sb.WriteString(part.String())
			sb.WriteString("}")
		}
	}
	sb.WriteString(`"`)
	return sb.String()
}

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() lexer.Position  { return b.Token.Pos }

// NullLiteral represents the null sentinel.
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }
