package lexer

import (
	"testing"
)

// collect lexes the whole input and returns the token stream without the
// trailing EOF.
func collect(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		if len(tokens) > 10000 {
			t.Fatalf("lexer did not terminate on input %q", input)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `-> :> => ?> ?? ? ! || && == != < > <= >= + - * / % | @ @? ?@ . .? & = : , ; { } [ ] ( )`
	expected := []TokenType{
		PIPE, CAPTURE, CAPTURE_ARROW, CAPTURE_COND, COALESCE, QUESTION, BANG,
		OR, AND, EQ, NOT_EQ, LESS, GREATER, LESS_EQ, GREATER_EQ,
		PLUS, MINUS, ASTERISK, SLASH, PERCENT, BAR, AT, AT_QUESTION, QUESTION_AT,
		DOT, DOT_QUESTION, AMP, ASSIGN, COLON, COMMA, SEMICOLON,
		LBRACE, RBRACE, LBRACK, RBRACK, LPAREN, RPAREN,
	}
	tokens := collect(t, input)
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(expected))
	}
	for i, want := range expected {
		if tokens[i].Type != want {
			t.Errorf("token %d = %v, want %v", i, tokens[i].Type, want)
		}
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input   string
		tokType TokenType
		literal string
	}{
		{"count", IDENT, "count"},
		{"_private", IDENT, "_private"},
		{"llm::complete", IDENT, "llm::complete"},
		{"vec::store::query", IDENT, "vec::store::query"},
		{"true", TRUE, "true"},
		{"false", FALSE, "false"},
		{"null", NULL, "null"},
		{"pass", PASS, "pass"},
		{"break", BREAK, "break"},
		{"continue", CONTINUE, "continue"},
		{"error", ERROR, "error"},
		{"each", EACH, "each"},
		{"map", MAP, "map"},
		{"filter", FILTER, "filter"},
		{"fold", FOLD, "fold"},
		// Case matters: only the lowercase spelling is reserved.
		{"Map", IDENT, "Map"},
		{"BREAK", IDENT, "BREAK"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Type != tt.tokType || tokens[0].Literal != tt.literal {
				t.Errorf("got (%v, %q), want (%v, %q)", tokens[0].Type, tokens[0].Literal, tt.tokType, tt.literal)
			}
		})
	}
}

func TestVariables(t *testing.T) {
	tests := []struct {
		input   string
		tokType TokenType
		literal string
	}{
		{"$name", VARIABLE, "name"},
		{"$x1", VARIABLE, "x1"},
		{"$", VARIABLE, ""},
		{"$@", ACCUM, "$@"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Type != tt.tokType || tokens[0].Literal != tt.literal {
				t.Errorf("got (%v, %q), want (%v, %q)", tokens[0].Type, tokens[0].Literal, tt.tokType, tt.literal)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []string{"0", "42", "3.14", "10.5", "2e10", "1.5e-3", "7E+2"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := collect(t, input)
			if len(tokens) != 1 || tokens[0].Type != NUMBER {
				t.Fatalf("got %v, want one NUMBER token", tokens)
			}
			if tokens[0].Literal != input {
				t.Errorf("literal = %q, want %q", tokens[0].Literal, input)
			}
		})
	}
}

func TestNumberDotMethod(t *testing.T) {
	// A trailing dot is a method call, not a fraction.
	tokens := collect(t, "5.str")
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[0].Type != NUMBER || tokens[1].Type != DOT || tokens[2].Type != IDENT {
		t.Errorf("got %v %v %v, want NUMBER DOT IDENT", tokens[0].Type, tokens[1].Type, tokens[2].Type)
	}
}

func TestPlainStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"lit \{brace"`, "lit {brace"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := collect(t, tt.input)
			if len(tokens) != 1 || tokens[0].Type != STRING {
				t.Fatalf("got %v, want one STRING token", tokens)
			}
			if tokens[0].Interpolated() {
				t.Fatalf("token unexpectedly interpolated")
			}
			if tokens[0].Literal != tt.want {
				t.Errorf("literal = %q, want %q", tokens[0].Literal, tt.want)
			}
		})
	}
}

func TestTripleQuotedString(t *testing.T) {
	input := "\"\"\"line one\nsays \"hi\"\nline three\"\"\""
	tokens := collect(t, input)
	if len(tokens) != 1 || tokens[0].Type != STRING {
		t.Fatalf("got %v, want one STRING token", tokens)
	}
	want := "line one\nsays \"hi\"\nline three"
	if tokens[0].Literal != want {
		t.Errorf("literal = %q, want %q", tokens[0].Literal, want)
	}
}

func TestInterpolatedString(t *testing.T) {
	tokens := collect(t, `"a {$x + 1} b {$y} c"`)
	if len(tokens) != 1 || !tokens[0].Interpolated() {
		t.Fatalf("got %v, want one interpolated STRING token", tokens)
	}
	segs := tokens[0].Segments
	if len(segs) != 5 {
		t.Fatalf("got %d segments, want 5", len(segs))
	}
	wants := []struct {
		text   string
		isExpr bool
	}{
		{"a ", false},
		{"$x + 1", true},
		{" b ", false},
		{"$y", true},
		{" c", false},
	}
	for i, want := range wants {
		if segs[i].Text != want.text || segs[i].IsExpr != want.isExpr {
			t.Errorf("segment %d = (%q, %v), want (%q, %v)", i, segs[i].Text, segs[i].IsExpr, want.text, want.isExpr)
		}
	}
}

func TestInterpolationWithNestedBraces(t *testing.T) {
	tokens := collect(t, `"v: {[a: 1] -> { $ }}"`)
	if len(tokens) != 1 || !tokens[0].Interpolated() {
		t.Fatalf("got %v, want one interpolated STRING token", tokens)
	}
	if got := tokens[0].Segments[1].Text; got != "[a: 1] -> { $ }" {
		t.Errorf("expr segment = %q", got)
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens := collect(t, `"oops`)
	if len(tokens) != 1 || tokens[0].Type != ILLEGAL {
		t.Fatalf("got %v, want one ILLEGAL token", tokens)
	}
}

func TestNewlineCollapsing(t *testing.T) {
	tokens := collect(t, "1\n\n\n2")
	types := []TokenType{NUMBER, NEWLINE, NUMBER}
	if len(tokens) != len(types) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(types), tokens)
	}
	for i, want := range types {
		if tokens[i].Type != want {
			t.Errorf("token %d = %v, want %v", i, tokens[i].Type, want)
		}
	}
}

func TestComments(t *testing.T) {
	tokens := collect(t, "1 // ignored\n// whole line\n2")
	types := []TokenType{NUMBER, NEWLINE, NUMBER}
	if len(tokens) != len(types) {
		t.Fatalf("got %v, want NUMBER NEWLINE NUMBER", tokens)
	}
}

func TestPositions(t *testing.T) {
	tokens := collect(t, "ab + c\n  $x")
	wants := []struct {
		line, column int
	}{
		{1, 1}, // ab
		{1, 4}, // +
		{1, 6}, // c
		{1, 7}, // newline
		{2, 3}, // $x
	}
	if len(tokens) != len(wants) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wants))
	}
	for i, want := range wants {
		if tokens[i].Pos.Line != want.line || tokens[i].Pos.Column != want.column {
			t.Errorf("token %d at %d:%d, want %d:%d", i, tokens[i].Pos.Line, tokens[i].Pos.Column, want.line, want.column)
		}
	}
}

func TestUnicodeColumns(t *testing.T) {
	// Multi-byte runes count as one column each.
	tokens := collect(t, `"héllo" + $x`)
	if tokens[1].Pos.Column != 9 {
		t.Errorf("+ at column %d, want 9", tokens[1].Pos.Column)
	}
	if tokens[2].Pos.Column != 11 {
		t.Errorf("$x at column %d, want 11", tokens[2].Pos.Column)
	}
}
