package interp

import (
	"strings"
	"testing"

	rillerr "github.com/rcrsr/rill/internal/errors"
	"github.com/rcrsr/rill/internal/runtime"
)

func TestStringMethods(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"hello".upper`, "HELLO"},
		{`"HELLO".lower`, "hello"},
		{`"  x  ".trim`, "x"},
		{`"a-b-c".replace("-", "+")`, "a+b-c"}, // first occurrence only
		{`"7".pad_start(3, "0")`, "007"},
		{`"7".pad_end(3, ".")`, "7.."},
		{`"long".pad_start(2, "0")`, "long"},
		{`"a,b,c".split(",").join("|")`, "a|b|c"},
		{`"  shout  ".trim.upper`, "SHOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			wantString(t, run(t, tt.src), tt.want)
		})
	}

	t.Run("len and empty", func(t *testing.T) {
		wantNumber(t, run(t, `"héllo".len`), 5)
		wantBool(t, run(t, `"".empty`), true)
		wantBool(t, run(t, `"x".empty`), false)
	})
	t.Run("contains and affixes", func(t *testing.T) {
		wantBool(t, run(t, `"haystack".contains("stack")`), true)
		wantBool(t, run(t, `"haystack".starts_with("hay")`), true)
		wantBool(t, run(t, `"haystack".ends_with("hay")`), false)
	})
	t.Run("chain without parens", func(t *testing.T) {
		wantNumber(t, run(t, `"  ab  ".trim.upper.len`), 2)
	})
}

func TestNumberMethods(t *testing.T) {
	wantString(t, run(t, "5 .str"), "5")
	wantString(t, run(t, "2.5.str"), "2.5")
	wantNumber(t, run(t, "0 - 3 -> { $.abs }"), 3)
	wantNumber(t, run(t, "2.7.floor"), 2)
	wantNumber(t, run(t, "2.2.ceil"), 3)
	wantNumber(t, run(t, "2.5.round"), 3)
}

func TestListMethods(t *testing.T) {
	t.Run("has uses deep equality", func(t *testing.T) {
		tests := []struct {
			src  string
			want bool
		}{
			{`[1, 2, 3].has(2)`, true},
			{`[1, 2, 3].has("2")`, false},
			{`[1, 2, 3].has(true)`, false},
			{`[0].has(0)`, true},
			{`[""].has("")`, true},
			{`[false].has(false)`, true},
			{`[[1, 2]].has([1, 2])`, true},
			{`[[a: 1]].has([a: 1])`, true},
			{`[[a: 1]].has([a: 2])`, false},
		}
		for _, tt := range tests {
			t.Run(tt.src, func(t *testing.T) {
				wantBool(t, run(t, tt.src), tt.want)
			})
		}
	})

	t.Run("has_any has_all", func(t *testing.T) {
		wantBool(t, run(t, `[1, 2].has_any([3, 1])`), true)
		wantBool(t, run(t, `[1, 2].has_any([3, 4])`), false)
		wantBool(t, run(t, `[1, 2].has_any([])`), false)
		wantBool(t, run(t, `[1, 2].has_all([1, 2])`), true)
		wantBool(t, run(t, `[1, 2].has_all([1, 3])`), false)
		wantBool(t, run(t, `[1, 2].has_all([])`), true)
	})

	t.Run("shape helpers", func(t *testing.T) {
		wantNumber(t, run(t, "[1, 2, 3].len"), 3)
		wantBool(t, run(t, "[].empty"), true)
		wantNumber(t, run(t, "[1, 2].first"), 1)
		wantNumber(t, run(t, "[1, 2].last"), 2)
		wantString(t, run(t, `[3, 2, 1].reverse.join("")`), "123")
		wantNumberList(t, run(t, "[1].concat([2, 3])"), []float64{1, 2, 3})
	})

	t.Run("first on empty list is recoverable", func(t *testing.T) {
		wantNumber(t, run(t, "[].first ?? 9"), 9)
	})
}

func TestDictMethods(t *testing.T) {
	setup := `[b: 1, a: 2] :> $d` + "\n"
	wantString(t, run(t, setup+`$d.keys.join(",")`), "b,a")
	wantNumberList(t, run(t, setup+"$d.values"), []float64{1, 2})
	wantNumber(t, run(t, setup+"$d.len"), 2)
	wantBool(t, run(t, setup+"$d.empty"), false)

	t.Run("entries", func(t *testing.T) {
		v := run(t, setup+"$d.entries")
		l := v.(*runtime.ListValue)
		first := l.Elements[0].(*runtime.ListValue)
		wantString(t, first.Elements[0], "b")
		wantNumber(t, first.Elements[1], 1)
	})

	t.Run("merge later wins", func(t *testing.T) {
		wantNumber(t, run(t, setup+"$d.merge([a: 9]).a"), 9)
	})

	t.Run("entry shadows method lookup except reserved", func(t *testing.T) {
		// A data entry named "len" wins over the method...
		wantNumber(t, run(t, `[len: 99] :> $d`+"\n"+`$d.len`), 99)
		// ...but keys/values/entries always resolve to methods.
		wantString(t, run(t, `[keys: 99] :> $d`+"\n"+`$d.keys.join(",")`), "keys")
	})
}

func TestMethodErrors(t *testing.T) {
	t.Run("arity mismatch", func(t *testing.T) {
		serr := runErr(t, `"x".replace("a")`)
		if serr.ID != rillerr.RuntimeType {
			t.Errorf("id = %s, want %s", serr.ID, rillerr.RuntimeType)
		}
		if !strings.Contains(serr.Message, "replace() expects 2 argument(s), got 1") {
			t.Errorf("message = %q", serr.Message)
		}
	})
	t.Run("receiver mismatch", func(t *testing.T) {
		serr := runErr(t, "5 .upper")
		if !strings.Contains(serr.Message, "upper() requires string receiver, got number") {
			t.Errorf("message = %q", serr.Message)
		}
	})
	t.Run("unknown method with suggestion", func(t *testing.T) {
		serr := runErr(t, `"x".uppr`)
		if !strings.Contains(serr.Message, "unknown method 'uppr' for string") {
			t.Errorf("message = %q", serr.Message)
		}
		if !strings.Contains(serr.Message, "did you mean 'upper'?") {
			t.Errorf("message %q lacks suggestion", serr.Message)
		}
	})
	t.Run("argument type", func(t *testing.T) {
		serr := runErr(t, "[1].has_any(2)")
		if !strings.Contains(serr.Message, "has_any() requires list argument, got number") {
			t.Errorf("message = %q", serr.Message)
		}
	})
	t.Run("missing dict property with suggestion", func(t *testing.T) {
		serr := runErr(t, `[total: 1] :> $d`+"\n"+`$d.totl`)
		if serr.ID != rillerr.RuntimeLookup {
			t.Errorf("id = %s, want %s", serr.ID, rillerr.RuntimeLookup)
		}
		if !strings.Contains(serr.Message, "did you mean 'total'?") {
			t.Errorf("message %q lacks suggestion", serr.Message)
		}
	})
}

func TestPropertyClosures(t *testing.T) {
	t.Run("property style auto-invokes on read", func(t *testing.T) {
		wantNumber(t, run(t, "[version: ||( 1 + 2 )] :> $d\n$d.version"), 3)
	})
	t.Run("block closure does not auto-invoke on read", func(t *testing.T) {
		v := run(t, "[fn: { $ }] :> $d\n$d.fn")
		if v.Type() != runtime.KindClosure {
			t.Errorf("got %s, want closure", v.Type())
		}
	})
	t.Run("dict closure entry callable with args", func(t *testing.T) {
		wantNumber(t, run(t, "[double: |x| $x * 2] :> $d\n$d.double(21)"), 42)
	})
}

func TestVectorMethods(t *testing.T) {
	rc := &runtime.Context{
		Variables: map[string]runtime.Value{
			"vec": &runtime.VectorValue{Data: []float32{0.1, 0.2, 0.3}, Model: "embed-3"},
		},
	}
	wantNumber(t, runCtx(t, "$vec.len", rc), 3)
	wantString(t, runCtx(t, "$vec.model", rc), "embed-3")
	t.Run("existence type tag", func(t *testing.T) {
		wantBool(t, runCtx(t, "[v: $vec] :> $d\n$d.?v&vector", rc), true)
	})
}

func TestIndexing(t *testing.T) {
	wantNumber(t, run(t, "[10, 20][1]"), 20)
	wantNumber(t, run(t, "[10, 20][-1]"), 20)
	wantNumber(t, run(t, `[a: 5] :> $d`+"\n"+`$d["a"]`), 5)
	wantString(t, run(t, `"abc"[1]`), "b")
	wantString(t, run(t, `"abc"[-1]`), "c")

	t.Run("out of bounds carries context", func(t *testing.T) {
		serr := runErr(t, "[1, 2][5]")
		if serr.ID != rillerr.RuntimeLookup {
			t.Errorf("id = %s, want %s", serr.ID, rillerr.RuntimeLookup)
		}
		if serr.Context["size"] != 2 || serr.Context["max"] != 1 {
			t.Errorf("context = %+v", serr.Context)
		}
	})
}

func TestComputedField(t *testing.T) {
	wantNumber(t, run(t, `[ab: 7] :> $d`+"\n"+`$d.("a" + "b")`), 7)
	serr := runErr(t, `[ab: 7] :> $d`+"\n"+`$d.(1 + 2)`)
	if serr.ID != rillerr.RuntimeType {
		t.Errorf("id = %s, want %s", serr.ID, rillerr.RuntimeType)
	}
}
