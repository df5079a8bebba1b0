package ast

import (
	"strings"

	"github.com/rcrsr/rill/internal/lexer"
)

// PipeExpression represents A -> B. The right side evaluates with $ bound
// to the value of the left side, and the result is dispatched according to
// its runtime kind.
type PipeExpression struct {
	Token lexer.Token // the -> token
	Left  Expression
	Right Expression
}

func (p *PipeExpression) expressionNode()      {}
func (p *PipeExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PipeExpression) Pos() lexer.Position  { return p.Left.Pos() }

func (p *PipeExpression) String() string {
	return "(" + p.Left.String() + " -> " + p.Right.String() + ")"
}

// CaptureExpression represents v :> $name, v => $name, and v ?> $name.
// Op distinguishes the spelling; ":>" and "=>" are identical in semantics
// and "?>" only assigns when the value is truthy.
type CaptureExpression struct {
	Token  lexer.Token // the operator token
	Op     string
	Value  Expression
	Target *Variable
}

func (c *CaptureExpression) expressionNode()      {}
func (c *CaptureExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CaptureExpression) Pos() lexer.Position  { return c.Value.Pos() }

func (c *CaptureExpression) String() string {
	return "(" + c.Value.String() + " " + c.Op + " " + c.Target.String() + ")"
}

// BinaryExpression represents an infix operation: arithmetic, comparison,
// equality, or short-circuit logic.
type BinaryExpression struct {
	Token lexer.Token // the operator token
	Op    string
	Left  Expression
	Right Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() lexer.Position  { return b.Left.Pos() }

func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// UnaryExpression represents a prefix operation: -x or !x.
type UnaryExpression struct {
	Token   lexer.Token
	Op      string
	Operand Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() lexer.Position  { return u.Token.Pos }

func (u *UnaryExpression) String() string {
	return "(" + u.Op + u.Operand.String() + ")"
}

// ConditionalExpression represents cond ? then ! else. Else may be nil, in
// which case a false condition yields null.
type ConditionalExpression struct {
	Token lexer.Token // the ? token
	Cond  Expression
	Then  Expression
	Else  Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) Pos() lexer.Position  { return c.Cond.Pos() }

func (c *ConditionalExpression) String() string {
	s := "(" + c.Cond.String() + " ? " + c.Then.String()
	if c.Else != nil {
		s += " ! " + c.Else.String()
	}
	return s + ")"
}

// CoalesceExpression represents a ?? b. The right side evaluates only when
// the left side yields null or raises a recoverable lookup error.
type CoalesceExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (c *CoalesceExpression) expressionNode()      {}
func (c *CoalesceExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CoalesceExpression) Pos() lexer.Position  { return c.Left.Pos() }

func (c *CoalesceExpression) String() string {
	return "(" + c.Left.String() + " ?? " + c.Right.String() + ")"
}

// MemberAccess represents obj.name field access and obj.name(args) method
// calls. Call distinguishes an explicit call (parens present) from a bare
// access; bare accesses to methods are zero-argument calls.
type MemberAccess struct {
	Token  lexer.Token // the . token
	Object Expression
	Name   string
	Args   []Expression
	Call   bool
}

func (m *MemberAccess) expressionNode()      {}
func (m *MemberAccess) TokenLiteral() string { return m.Token.Literal }
func (m *MemberAccess) Pos() lexer.Position  { return m.Object.Pos() }

func (m *MemberAccess) String() string {
	s := m.Object.String() + "." + m.Name
	if m.Call {
		args := make([]string, len(m.Args))
		for i, a := range m.Args {
			args[i] = a.String()
		}
		s += "(" + strings.Join(args, ", ") + ")"
	}
	return s
}

// ComputedMember represents obj.(expr) field access with a computed key.
type ComputedMember struct {
	Token  lexer.Token // the . token
	Object Expression
	Key    Expression
}

func (m *ComputedMember) expressionNode()      {}
func (m *ComputedMember) TokenLiteral() string { return m.Token.Literal }
func (m *ComputedMember) Pos() lexer.Position  { return m.Object.Pos() }

func (m *ComputedMember) String() string {
	return m.Object.String() + ".(" + m.Key.String() + ")"
}

// IndexExpression represents obj[index]. Lists accept integer indices
// (negative counts from the end); dicts accept string keys.
type IndexExpression struct {
	Token  lexer.Token // the [ token
	Object Expression
	Index  Expression
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpression) Pos() lexer.Position  { return ix.Object.Pos() }

func (ix *IndexExpression) String() string {
	return ix.Object.String() + "[" + ix.Index.String() + "]"
}

// ExistenceKeyKind describes how an existence check names its key.
type ExistenceKeyKind int

const (
	// ExistenceStatic is X.?name with a literal key.
	ExistenceStatic ExistenceKeyKind = iota
	// ExistenceVariable is X.?$var: the key is the referenced variable's value.
	ExistenceVariable
	// ExistenceComputed is X.?(expr): the key is the expression's value.
	ExistenceComputed
)

// ExistenceCheck represents X.?name, X.?$var, X.?(expr) and their typed
// forms with a &type suffix. It never raises on non-dict targets; the
// result is simply false.
type ExistenceCheck struct {
	Token   lexer.Token // the .? token
	Object  Expression
	Kind    ExistenceKeyKind
	Name    string     // static key name
	VarName string     // variable name for the $var form
	KeyExpr Expression // key expression for the computed form
	Type    string     // optional type tag, "" when untyped
}

func (e *ExistenceCheck) expressionNode()      {}
func (e *ExistenceCheck) TokenLiteral() string { return e.Token.Literal }
func (e *ExistenceCheck) Pos() lexer.Position  { return e.Object.Pos() }

func (e *ExistenceCheck) String() string {
	s := e.Object.String() + ".?"
	switch e.Kind {
	case ExistenceStatic:
		s += e.Name
	case ExistenceVariable:
		s += "$" + e.VarName
	case ExistenceComputed:
		s += "(" + e.KeyExpr.String() + ")"
	}
	if e.Type != "" {
		s += "&" + e.Type
	}
	return s
}

// CallExpression represents fn(args) on an arbitrary callable expression.
type CallExpression struct {
	Token lexer.Token // the ( token
	Fn    Expression
	Args  []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() lexer.Position  { return c.Fn.Pos() }

func (c *CallExpression) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Fn.String() + "(" + strings.Join(args, ", ") + ")"
}
