package ort

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValueScalars(t *testing.T) {
	tests := []struct {
		in   string
		want *Value
	}{
		{"", Null()},
		{"  ", Null()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"True", Str("True")},
		{"0", Int(0)},
		{"007", Int(7)},
		{"-12", Int(-12)},
		{"3.14", Float(3.14)},
		{"-0.5", Float(-0.5)},
		{"1.", Str("1.")},
		{".5", Str(".5")},
		{"1e5", Str("1e5")},
		{"-", Str("-")},
		{"99999999999999999999", Str("99999999999999999999")},
		{"hello world", Str("hello world")},
		{"  padded  ", Str("padded")},
		{`\007`, Str("007")},
		{`tr\ue`, Str("true")},
		{`\(Hello\, World!\)`, Str("(Hello, World!)")},
		{`a\qb`, Str("aqb")},
		{`a\nb\tc\rd`, Str("a\nb\tc\rd")},
		{`back\\slash`, Str(`back\slash`)},
		{`trailing\`, Str(`trailing\`)},
		{`x\:y`, Str("x:y")},
		{`\ lead`, Str(" lead")},
		{`trail\ `, Str("trail ")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in, nil)
			if err != nil {
				t.Fatalf("ParseValue(%q) error: %v", tt.in, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseValue(%q) = %s (%s), want %s (%s)", tt.in, got, got.Type(), tt.want, tt.want.Type())
			}
		})
	}
}

func TestParseValueContainers(t *testing.T) {
	tests := []struct {
		in   string
		want *Value
	}{
		{"[]", Array()},
		{"()", Object()},
		{"[ ]", Array()},
		{"( )", Object()},
		{"[1,2]", Array(Int(1), Int(2))},
		{"[ 1 , two ]", Array(Int(1), Str("two"))},
		{"[a,[b,c]]", Array(Str("a"), Array(Str("b"), Str("c")))},
		{"[,]", Array(Null(), Null())},
		{"[[],()]", Array(Array(), Object())},
		{"(a:1,b:x)", Object(Pair("a", Int(1)), Pair("b", Str("x")))},
		{"( a : 1 )", Object(Pair("a", Int(1)))},
		{"(a:)", Object(Pair("a", Null()))},
		{"(:v)", Object(Pair("", Str("v")))},
		{"(a:(b:[1,2.5]))", Object(Pair("a", Object(Pair("b", Array(Int(1), Float(2.5))))))},
		{"(url:http://x)", Object(Pair("url", Str("http://x")))},
		{`(k\:ey:1)`, Object(Pair("k:ey", Int(1)))},
		{"[(a:1),(a:2)]", Array(Object(Pair("a", Int(1))), Object(Pair("a", Int(2))))},
		{`[a\,b,c]`, Array(Str("a,b"), Str("c"))},
		{`[\[x\]]`, Array(Str("[x]"))},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in, nil)
			if err != nil {
				t.Fatalf("ParseValue(%q) error: %v", tt.in, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseValue(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseValueKeyedOrder(t *testing.T) {
	v, err := ParseValue("(z:1,a:2,m:3)", nil)
	if err != nil {
		t.Fatalf("ParseValue error: %v", err)
	}
	if got := strings.Join(v.Keys(), ","); got != "z,a,m" {
		t.Errorf("keys = %s, want z,a,m", got)
	}
}

func TestParseValuePositional(t *testing.T) {
	schema := Schema{{Name: "name"}, {Name: "age"}}

	v, err := ParseValue("(John,30)", schema)
	if err != nil {
		t.Fatalf("ParseValue error: %v", err)
	}
	want := Object(Pair("name", Str("John")), Pair("age", Int(30)))
	if !Equal(v, want) {
		t.Errorf("got %s, want %s", v, want)
	}

	nested := Schema{{Name: "id"}, {Name: "geo", Children: Schema{{Name: "lat"}, {Name: "lng"}}}}
	v, err = ParseValue("(7,(1.5,-2.25))", nested)
	if err != nil {
		t.Fatalf("ParseValue nested error: %v", err)
	}
	want = Object(
		Pair("id", Int(7)),
		Pair("geo", Object(Pair("lat", Float(1.5)), Pair("lng", Float(-2.25)))),
	)
	if !Equal(v, want) {
		t.Errorf("got %s, want %s", v, want)
	}

	// A non-parenthesized token ignores the schema
	v, err = ParseValue("plain", schema)
	if err != nil {
		t.Fatalf("ParseValue plain error: %v", err)
	}
	if !Equal(v, Str("plain")) {
		t.Errorf("got %s, want plain", v)
	}
}

func TestParseValueErrors(t *testing.T) {
	t.Run("schema required", func(t *testing.T) {
		for _, in := range []string{"(a,b)", "(a:1,b)", "(x)"} {
			_, err := ParseValue(in, nil)
			var target *SchemaRequiredError
			if !errors.As(err, &target) {
				t.Errorf("ParseValue(%q) error = %v, want SchemaRequiredError", in, err)
			}
		}
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := ParseValue("(a:1,a:2)", nil)
		var target *DuplicateFieldError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want DuplicateFieldError", err)
		}
		if target.Field != "a" {
			t.Errorf("Field = %q, want a", target.Field)
		}
	})

	t.Run("arity", func(t *testing.T) {
		schema := Schema{{Name: "x"}, {Name: "y"}, {Name: "z"}}
		_, err := ParseValue("(1,2)", schema)
		var target *ArityMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want ArityMismatchError", err)
		}
		if target.Expected != 3 || target.Actual != 2 {
			t.Errorf("Expected/Actual = %d/%d, want 3/2", target.Expected, target.Actual)
		}
	})

	t.Run("blank group", func(t *testing.T) {
		_, err := ParseValue("( )", Schema{{Name: "name"}, {Name: "age"}})
		var target *ArityMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want ArityMismatchError", err)
		}
		if target.Expected != 2 || target.Actual != 1 {
			t.Errorf("Expected/Actual = %d/%d, want 2/1", target.Expected, target.Actual)
		}

		v, err := ParseValue("( )", Schema{{Name: "x"}})
		if err != nil {
			t.Fatalf("ParseValue error: %v", err)
		}
		if want := Object(Pair("x", Null())); !Equal(v, want) {
			t.Errorf("got %s, want %s", v, want)
		}

		v, err = ParseValue("()", Schema{{Name: "name"}, {Name: "age"}})
		if err != nil {
			t.Fatalf("ParseValue error: %v", err)
		}
		if !Equal(v, Object()) {
			t.Errorf("got %s, want ()", v)
		}
	})

	t.Run("unbalanced", func(t *testing.T) {
		for _, in := range []string{"[1,2", "(a:1", "a]", "([)]", "[)"} {
			_, err := ParseValue(in, nil)
			var target *UnbalancedDelimiterError
			if !errors.As(err, &target) {
				t.Errorf("ParseValue(%q) error = %v, want UnbalancedDelimiterError", in, err)
			}
		}
	})

	t.Run("escaped delimiters balance", func(t *testing.T) {
		if _, err := ParseValue(`[a\]`, nil); err == nil {
			t.Error(`ParseValue("[a\]") should fail: the bracket is escaped`)
		}
		if _, err := ParseValue(`\[a`, nil); err != nil {
			t.Errorf(`ParseValue("\[a") error: %v`, err)
		}
	})
}

func TestParseValueMaxDepth(t *testing.T) {
	deep := func(n int) string {
		return strings.Repeat("[", n) + strings.Repeat("]", n)
	}

	if _, err := ParseValue(deep(DefaultMaxDepth), nil); err != nil {
		t.Fatalf("depth %d should parse: %v", DefaultMaxDepth, err)
	}

	_, err := ParseValue(deep(DefaultMaxDepth+1), nil)
	var target *MaxDepthExceededError
	if !errors.As(err, &target) {
		t.Fatalf("error = %v, want MaxDepthExceededError", err)
	}
	if target.Limit != DefaultMaxDepth {
		t.Errorf("Limit = %d, want %d", target.Limit, DefaultMaxDepth)
	}
}

func TestNumericLaw(t *testing.T) {
	plain, err := ParseValue("007", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := plain.AsInt(); err != nil || n != 7 {
		t.Errorf(`ParseValue("007") = %s, want int 7`, plain)
	}

	escaped, err := ParseValue(`\007`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s, err := escaped.AsStr(); err != nil || s != "007" {
		t.Errorf(`ParseValue("\007") = %s, want string "007"`, escaped)
	}
}
