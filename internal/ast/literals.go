package ast

import (
	"strings"

	"github.com/rcrsr/rill/internal/lexer"
)

// ListLiteral represents [e1, e2, ...]. The empty literal [] is a list.
type ListLiteral struct {
	Token    lexer.Token // the [ token
	Elements []Expression
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) Pos() lexer.Position  { return l.Token.Pos }

func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictKeyKind describes the form of a dict literal key.
type DictKeyKind int

const (
	// DictKeyStatic is a literal identifier or string key.
	DictKeyStatic DictKeyKind = iota
	// DictKeyVariable is $var: — the key is the variable's value at literal
	// evaluation time.
	DictKeyVariable
	// DictKeyComputed is (expr): — the key is the expression's value at
	// literal evaluation time.
	DictKeyComputed
)

// DictEntry is one key: value pair of a dict literal.
type DictEntry struct {
	Kind    DictKeyKind
	Static  string     // static key text
	VarName string     // variable name for the $var: form
	KeyExpr Expression // key expression for the (expr): form
	KeyPos  lexer.Position
	Value   Expression
}

func (e DictEntry) keyString() string {
	switch e.Kind {
	case DictKeyVariable:
		return "$" + e.VarName
	case DictKeyComputed:
		return "(" + e.KeyExpr.String() + ")"
	default:
		return e.Static
	}
}

// DictLiteral represents [k1: v1, k2: v2, ...]. The empty dict is [:].
// Keys are strings; duplicate static keys are allowed and the later entry
// wins. Insertion order is preserved and observable.
type DictLiteral struct {
	Token   lexer.Token // the [ token
	Entries []DictEntry
}

func (d *DictLiteral) expressionNode()      {}
func (d *DictLiteral) TokenLiteral() string { return d.Token.Literal }
func (d *DictLiteral) Pos() lexer.Position  { return d.Token.Pos }

func (d *DictLiteral) String() string {
	if len(d.Entries) == 0 {
		return "[:]"
	}
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = e.keyString() + ": " + e.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
