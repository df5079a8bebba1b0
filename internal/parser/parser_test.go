package parser

import (
	"strings"
	"testing"

	rillerr "github.com/rcrsr/rill/internal/errors"

	"github.com/rcrsr/rill/internal/ast"
)

// parseOne parses a single-statement program and returns the statement.
func parseOne(t *testing.T, input string) ast.Expression {
	t.Helper()
	prog, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("Parse(%q) produced %d statements, want 1", input, len(prog.Statements))
	}
	return prog.Statements[0]
}

// TestExpressionGrouping checks operator precedence and associativity via
// the parenthesized String() rendering of the AST.
func TestExpressionGrouping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 + 2 == 3", "((1 + 2) == 3)"},
		{"1 < 2 && 3 < 4", "((1 < 2) && (3 < 4))"},
		{"$a || $b && $c", "($a || ($b && $c))"},
		{"-1 + 2", "((-1) + 2)"},
		{"!$ok || $fallback", "((!$ok) || $fallback)"},
		{"1 -> $f -> $g", "((1 -> $f) -> $g)"},
		{"$x ?? 1 + 2", "($x ?? (1 + 2))"},
		{"$a ?? $b ?? $c", "($a ?? ($b ?? $c))"},
		{"1 + 2 :> $x", "((1 + 2) :> $x)"},
		{"5 -> $ + 1 :> $x", "(5 -> (($ + 1) :> $x))"},
		{"$c ? 1 ! 2", "($c ? 1 ! 2)"},
		{"$c ? 1", "($c ? 1)"},
		{"$a == 1 ? \"y\" ! \"n\"", "(($a == 1) ? \"y\" ! \"n\")"},
		{"$d.name", "$d.name"},
		{"$d.a.b", "$d.a.b"},
		{"$s.trim.upper.len", "$s.trim.upper.len"},
		{"$l[0]", "$l[0]"},
		{"$l[0].name", "$l[0].name"},
		{"$f(1, 2)", "$f(1, 2)"},
		{"$d.?key", "$d.?key"},
		{"$d.?key&number", "$d.?key&number"},
		{"$d.?$k", "$d.?$k"},
		{"$d.?(\"a\" + \"b\")", "$d.?((\"a\" + \"b\"))"},
		{"$m.(\"k\" + \"1\")", "$m.((\"k\" + \"1\"))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt := parseOne(t, tt.input)
			if got := stmt.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestBlockVsClosure is the inline-block rule: a { ... } in pipe position
// is an InlineBlock, anywhere else a block-closure literal.
func TestBlockVsClosure(t *testing.T) {
	t.Run("pipe RHS is inline", func(t *testing.T) {
		stmt := parseOne(t, "5 -> { $ * 2 }")
		pipe, ok := stmt.(*ast.PipeExpression)
		if !ok {
			t.Fatalf("got %T, want *ast.PipeExpression", stmt)
		}
		if _, ok := pipe.Right.(*ast.InlineBlock); !ok {
			t.Errorf("pipe RHS is %T, want *ast.InlineBlock", pipe.Right)
		}
	})

	t.Run("grouped block in pipe is a closure", func(t *testing.T) {
		stmt := parseOne(t, "5 -> ({ $ })")
		pipe := stmt.(*ast.PipeExpression)
		closure, ok := pipe.Right.(*ast.ClosureLiteral)
		if !ok {
			t.Fatalf("pipe RHS is %T, want *ast.ClosureLiteral", pipe.Right)
		}
		if !closure.Block {
			t.Errorf("closure is not a block closure")
		}
	})

	t.Run("assignment RHS is a closure", func(t *testing.T) {
		stmt := parseOne(t, "{ $ + 1 } :> $f")
		capture := stmt.(*ast.CaptureExpression)
		if _, ok := capture.Value.(*ast.ClosureLiteral); !ok {
			t.Errorf("capture value is %T, want *ast.ClosureLiteral", capture.Value)
		}
	})

	t.Run("dict value is a closure", func(t *testing.T) {
		stmt := parseOne(t, `[fn: { $ }]`)
		dict := stmt.(*ast.DictLiteral)
		if _, ok := dict.Entries[0].Value.(*ast.ClosureLiteral); !ok {
			t.Errorf("dict value is %T, want *ast.ClosureLiteral", dict.Entries[0].Value)
		}
	})

	t.Run("conditional branches in pipe are inline", func(t *testing.T) {
		stmt := parseOne(t, "5 -> $ > 3 ? { $ } ! { 0 }")
		pipe := stmt.(*ast.PipeExpression)
		cond := pipe.Right.(*ast.ConditionalExpression)
		if _, ok := cond.Then.(*ast.InlineBlock); !ok {
			t.Errorf("then branch is %T, want *ast.InlineBlock", cond.Then)
		}
		if _, ok := cond.Else.(*ast.InlineBlock); !ok {
			t.Errorf("else branch is %T, want *ast.InlineBlock", cond.Else)
		}
	})
}

func TestClosures(t *testing.T) {
	t.Run("explicit params", func(t *testing.T) {
		stmt := parseOne(t, "|x, y, acc=0| $x + $y")
		closure := stmt.(*ast.ClosureLiteral)
		if len(closure.Params) != 3 {
			t.Fatalf("got %d params, want 3", len(closure.Params))
		}
		if closure.Params[0].Name != "x" || closure.Params[2].Name != "acc" {
			t.Errorf("unexpected param names: %v", closure.Params)
		}
		if closure.Params[2].Default == nil {
			t.Errorf("acc default missing")
		}
		if closure.Block || closure.ZeroArg {
			t.Errorf("explicit-param closure flagged as block/zero-arg")
		}
	})

	t.Run("zero-arg block", func(t *testing.T) {
		stmt := parseOne(t, "||{ 42 }")
		closure := stmt.(*ast.ClosureLiteral)
		if !closure.ZeroArg {
			t.Errorf("closure not flagged zero-arg")
		}
	})

	t.Run("zero-arg expr", func(t *testing.T) {
		stmt := parseOne(t, "||( 1 + 2 )")
		closure := stmt.(*ast.ClosureLiteral)
		if !closure.ZeroArg || len(closure.Body) != 1 {
			t.Errorf("unexpected zero-arg closure: %s", closure.String())
		}
	})

	t.Run("closure body stops at pipe", func(t *testing.T) {
		stmt := parseOne(t, "[1] -> map |x| $x * 2 -> $f")
		pipe := stmt.(*ast.PipeExpression)
		if _, ok := pipe.Left.(*ast.PipeExpression); !ok {
			t.Errorf("closure body swallowed the pipe: %s", stmt.String())
		}
	})

	t.Run("property style only in dict values", func(t *testing.T) {
		stmt := parseOne(t, "[k: ||{ 1 }]")
		dict := stmt.(*ast.DictLiteral)
		closure := dict.Entries[0].Value.(*ast.ClosureLiteral)
		if !closure.PropertyStyle {
			t.Errorf("dict-value zero-arg closure not property-style")
		}
		standalone := parseOne(t, "||{ 1 }").(*ast.ClosureLiteral)
		if standalone.PropertyStyle {
			t.Errorf("standalone zero-arg closure wrongly property-style")
		}
	})
}

func TestLiterals(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		if _, ok := parseOne(t, "[]").(*ast.ListLiteral); !ok {
			t.Errorf("[] did not parse as a list")
		}
	})
	t.Run("empty dict", func(t *testing.T) {
		if _, ok := parseOne(t, "[:]").(*ast.DictLiteral); !ok {
			t.Errorf("[:] did not parse as a dict")
		}
	})
	t.Run("list", func(t *testing.T) {
		list := parseOne(t, "[1, 2, 3]").(*ast.ListLiteral)
		if len(list.Elements) != 3 {
			t.Errorf("got %d elements, want 3", len(list.Elements))
		}
	})
	t.Run("dict key forms", func(t *testing.T) {
		dict := parseOne(t, `[a: 1, "b c": 2, $k: 3, ("x" + "y"): 4]`).(*ast.DictLiteral)
		if len(dict.Entries) != 4 {
			t.Fatalf("got %d entries, want 4", len(dict.Entries))
		}
		if dict.Entries[0].Kind != ast.DictKeyStatic || dict.Entries[0].Static != "a" {
			t.Errorf("entry 0: %+v", dict.Entries[0])
		}
		if dict.Entries[1].Kind != ast.DictKeyStatic || dict.Entries[1].Static != "b c" {
			t.Errorf("entry 1: %+v", dict.Entries[1])
		}
		if dict.Entries[2].Kind != ast.DictKeyVariable || dict.Entries[2].VarName != "k" {
			t.Errorf("entry 2: %+v", dict.Entries[2])
		}
		if dict.Entries[3].Kind != ast.DictKeyComputed || dict.Entries[3].KeyExpr == nil {
			t.Errorf("entry 3: %+v", dict.Entries[3])
		}
	})
	t.Run("multiline literals", func(t *testing.T) {
		list := parseOne(t, "[\n  1,\n  2,\n]").(*ast.ListLiteral)
		if len(list.Elements) != 2 {
			t.Errorf("got %d elements, want 2", len(list.Elements))
		}
	})
	t.Run("interpolated string", func(t *testing.T) {
		interp := parseOne(t, `"a {1 + 2} b"`).(*ast.InterpolatedString)
		if len(interp.Parts) != 3 {
			t.Fatalf("got %d parts, want 3", len(interp.Parts))
		}
		if _, ok := interp.Parts[1].(*ast.BinaryExpression); !ok {
			t.Errorf("middle part is %T, want *ast.BinaryExpression", interp.Parts[1])
		}
	})
}

func TestCollectionOps(t *testing.T) {
	t.Run("map block body", func(t *testing.T) {
		pipe := parseOne(t, "[1] -> map { $ * 2 }").(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		if op.Op != "map" || op.Seed != nil {
			t.Errorf("unexpected op: %+v", op)
		}
		if _, ok := op.Body.(*ast.InlineBlock); !ok {
			t.Errorf("body is %T, want *ast.InlineBlock", op.Body)
		}
	})

	t.Run("fold with seed", func(t *testing.T) {
		pipe := parseOne(t, "[1] -> fold(0) { $@ + $ }").(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		if op.Seed == nil {
			t.Fatalf("fold seed missing")
		}
	})

	t.Run("each with seed", func(t *testing.T) {
		pipe := parseOne(t, "[1] -> each(0) { $@ + $ }").(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		if op.Seed == nil {
			t.Fatalf("each seed missing")
		}
	})

	t.Run("grouped body is not a seed", func(t *testing.T) {
		pipe := parseOne(t, "[1] -> map ($ * 2)").(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		if op.Seed != nil {
			t.Errorf("grouped body misparsed as seed")
		}
	})

	t.Run("method shorthand", func(t *testing.T) {
		pipe := parseOne(t, `["a"] -> map .upper`).(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		block, ok := op.Body.(*ast.InlineBlock)
		if !ok {
			t.Fatalf("body is %T, want *ast.InlineBlock", op.Body)
		}
		if _, ok := block.Body[0].(*ast.MemberAccess); !ok {
			t.Errorf("shorthand body is %T, want *ast.MemberAccess", block.Body[0])
		}
	})

	t.Run("closure body", func(t *testing.T) {
		pipe := parseOne(t, "[1] -> map |x| $x * 2").(*ast.PipeExpression)
		op := pipe.Right.(*ast.CollectionOp)
		if _, ok := op.Body.(*ast.ClosureLiteral); !ok {
			t.Errorf("body is %T, want *ast.ClosureLiteral", op.Body)
		}
	})
}

func TestLoops(t *testing.T) {
	t.Run("do-while", func(t *testing.T) {
		pipe := parseOne(t, "0 -> @ { $ + 1 } ? ($ < 10)").(*ast.PipeExpression)
		loop := pipe.Right.(*ast.LoopExpression)
		if loop.Kind != ast.LoopDoWhile || loop.Cond == nil {
			t.Errorf("unexpected loop: %+v", loop)
		}
	})
	t.Run("do-while attached", func(t *testing.T) {
		pipe := parseOne(t, "0 -> @? { $ + 1 } ($ < 10)").(*ast.PipeExpression)
		loop := pipe.Right.(*ast.LoopExpression)
		if loop.Kind != ast.LoopDoWhile || loop.Cond == nil {
			t.Errorf("unexpected loop: %+v", loop)
		}
	})
	t.Run("while infix", func(t *testing.T) {
		pipe := parseOne(t, "0 -> ($ < 10) @ { $ + 1 }").(*ast.PipeExpression)
		loop := pipe.Right.(*ast.LoopExpression)
		if loop.Kind != ast.LoopWhile || loop.Cond == nil {
			t.Errorf("unexpected loop: %+v", loop)
		}
	})
	t.Run("while prefix", func(t *testing.T) {
		pipe := parseOne(t, "0 -> ?@ ($ < 10) { $ + 1 }").(*ast.PipeExpression)
		loop := pipe.Right.(*ast.LoopExpression)
		if loop.Kind != ast.LoopWhile || loop.Cond == nil {
			t.Errorf("unexpected loop: %+v", loop)
		}
	})
	t.Run("bare loop", func(t *testing.T) {
		pipe := parseOne(t, "0 -> @ { break }").(*ast.PipeExpression)
		loop := pipe.Right.(*ast.LoopExpression)
		if loop.Kind != ast.LoopDoWhile || loop.Cond != nil {
			t.Errorf("unexpected loop: %+v", loop)
		}
	})
}

func TestStatements(t *testing.T) {
	t.Run("newline separated", func(t *testing.T) {
		prog, err := Parse("1\n2\n3")
		if err != nil {
			t.Fatal(err)
		}
		if len(prog.Statements) != 3 {
			t.Errorf("got %d statements, want 3", len(prog.Statements))
		}
	})
	t.Run("semicolon separated", func(t *testing.T) {
		prog, err := Parse("1; 2; 3")
		if err != nil {
			t.Fatal(err)
		}
		if len(prog.Statements) != 3 {
			t.Errorf("got %d statements, want 3", len(prog.Statements))
		}
	})
	t.Run("leading pipe continues", func(t *testing.T) {
		prog, err := Parse("[1, 2]\n  -> map { $ }\n  -> $f")
		if err != nil {
			t.Fatal(err)
		}
		if len(prog.Statements) != 1 {
			t.Errorf("got %d statements, want 1", len(prog.Statements))
		}
	})
	t.Run("empty program", func(t *testing.T) {
		prog, err := Parse("\n\n")
		if err != nil {
			t.Fatal(err)
		}
		if len(prog.Statements) != 0 {
			t.Errorf("got %d statements, want 0", len(prog.Statements))
		}
	})
}

// TestParseErrors checks the stable error ids and locations.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		id      string
		message string
	}{
		{"unexpected eof", "1 +", rillerr.ParseEOF, "unexpected end of input"},
		{"unclosed block", "5 -> { $", rillerr.ParseEOF, "unclosed block"},
		{"unclosed list", "[1, 2", rillerr.ParseEOF, "unclosed '['"},
		{"unterminated string", `"abc`, rillerr.ParseEOF, "unterminated string"},
		{"error wants string", "error 42", rillerr.ParseLiteralKind, "literal string"},
		{"error rejects variable", "error $msg", rillerr.ParseLiteralKind, "literal string"},
		{"error rejects interpolation", `error "x {$y}"`, rillerr.ParseLiteralKind, "literal string"},
		{"fold without seed", "[1] -> fold { $@ + $ }", rillerr.ParseMissingSeed, "fold requires a seed"},
		{"break outside loop", "break", rillerr.ParseLoopControl, "break outside"},
		{"continue outside loop", "continue", rillerr.ParseLoopControl, "continue outside"},
		{"break in map body", "[1] -> map { break }", rillerr.ParseLoopControl, "break outside"},
		{"break in closure body", "[1] -> each { |x| break }", rillerr.ParseLoopControl, "break outside"},
		{"pass called", "5 -> pass()", rillerr.ParseReserved, "pass cannot be called"},
		{"pass accessed", "5 -> pass.field", rillerr.ParseReserved, "pass cannot be accessed"},
		{"pass piped out", "pass -> $f", rillerr.ParseReserved, "pass cannot be"},
		{"capture into pipe value", "5 :> $", rillerr.ParseGeneric, "cannot capture"},
		{"unknown type tag", "$d.?k&widget", rillerr.ParseGeneric, "unknown type tag"},
		{"stray token", "1 2", rillerr.ParseGeneric, "end of statement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.input)
			}
			serr, ok := err.(*rillerr.ScriptError)
			if !ok {
				t.Fatalf("error is %T, want *ScriptError", err)
			}
			if serr.ID != tt.id {
				t.Errorf("id = %s, want %s", serr.ID, tt.id)
			}
			if !strings.Contains(serr.Message, tt.message) {
				t.Errorf("message %q does not contain %q", serr.Message, tt.message)
			}
			if serr.Pos.Line == 0 {
				t.Errorf("error has no source location")
			}
		})
	}
}

func TestErrorPositionInsideInterpolation(t *testing.T) {
	_, err := Parse(`"head {1 +} tail"`)
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}
	serr := err.(*rillerr.ScriptError)
	if serr.Pos.Line != 1 || serr.Pos.Column < 8 {
		t.Errorf("error at %d:%d, want a column inside the interpolation", serr.Pos.Line, serr.Pos.Column)
	}
}
