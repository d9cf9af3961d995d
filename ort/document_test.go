package ort

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func mustJSON(t *testing.T, s string) *Value {
	t.Helper()
	v, err := FromJSON([]byte(s))
	if err != nil {
		t.Fatalf("FromJSON(%s): %v", s, err)
	}
	return v
}

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return doc
}

func TestParseDocuments(t *testing.T) {
	tests := []struct {
		name string
		text string
		form RootForm
		want string // JSON
	}{
		{
			name: "table section",
			text: "users:id,name:\n1,Alice\n2,Bob\n",
			form: FormSections,
			want: `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`,
		},
		{
			name: "nested field",
			text: "users:id,profile(name,age):\n1,(John,30)\n",
			form: FormSections,
			want: `{"users":[{"id":1,"profile":{"name":"John","age":30}}]}`,
		},
		{
			name: "escaped standalone line",
			text: `\(Hello\, World!\)`,
			form: FormValue,
			want: `"(Hello, World!)"`,
		},
		{
			name: "single top-level record",
			text: ":id,name:\n1,Alice\n",
			form: FormRecord,
			want: `{"id":1,"name":"Alice"}`,
		},
		{
			name: "literal section",
			text: "colors:\n[red,green,blue]\n",
			form: FormSections,
			want: `{"colors":["red","green","blue"]}`,
		},
		{
			name: "top-level records",
			text: ":id,name:\n1,Alice\n2,Bob\n",
			form: FormRecords,
			want: `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`,
		},
		{
			name: "top-level header without lines",
			text: ":id,name:\n",
			form: FormRecords,
			want: `[]`,
		},
		{
			name: "keyed table without lines",
			text: "users:id,name:\n",
			form: FormSections,
			want: `{"users":[]}`,
		},
		{
			name: "keyed table with one line stays an array",
			text: "users:id:\n1\n",
			form: FormSections,
			want: `{"users":[{"id":1}]}`,
		},
		{
			name: "literal sections",
			text: "empty:\nnums:\n1\n2\none:\nx\n",
			form: FormSections,
			want: `{"empty":null,"nums":[1,2],"one":"x"}`,
		},
		{
			name: "standalone values",
			text: "1\n2.5\ntrue\n",
			form: FormValue,
			want: `[1,2.5,true]`,
		},
		{
			name: "empty document",
			text: "",
			form: FormSections,
			want: `{}`,
		},
		{
			name: "comments and blank lines",
			text: "# leading comment\n\n  # indented comment\nusers:id:\n\n1\n# between\n2\n",
			form: FormSections,
			want: `{"users":[{"id":1},{"id":2}]}`,
		},
		{
			name: "escaped hash is data",
			text: "tags:\n\\#notacomment\n",
			form: FormSections,
			want: `{"tags":"#notacomment"}`,
		},
		{
			name: "null fields",
			text: "t:a,b,c:\n,,\n1,,x\n",
			form: FormSections,
			want: `{"t":[{"a":null,"b":null,"c":null},{"a":1,"b":null,"c":"x"}]}`,
		},
		{
			name: "mixed field values",
			text: "items:id,tags,meta:\n1,[a,b],(k:v)\n2,[],()\n",
			form: FormSections,
			want: `{"items":[{"id":1,"tags":["a","b"],"meta":{"k":"v"}},{"id":2,"tags":[],"meta":{}}]}`,
		},
		{
			name: "whitespace around tokens",
			text: "  users : id , name :  \n  1 ,  Alice Smith  \n",
			form: FormSections,
			want: `{"users":[{"id":1,"name":"Alice Smith"}]}`,
		},
		{
			name: "deep nesting",
			text: "n:a(b(c(d))):\n(((1)))\n",
			form: FormSections,
			want: `{"n":[{"a":{"b":{"c":{"d":1}}}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.text)
			if doc.Form != tt.form {
				t.Errorf("Form = %s, want %s", doc.Form, tt.form)
			}
			want := mustJSON(t, tt.want)
			if !Equal(doc.Root, want) {
				got, _ := ToJSON(doc.Root)
				t.Errorf("Root = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseKeepsSectionOrder(t *testing.T) {
	doc := mustParse(t, "zeta:\n1\nalpha:\n2\nmid:\n3\n")
	if got := doc.Root.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("keys = %v", got)
	}
}

func TestParseLineEndings(t *testing.T) {
	want := mustJSON(t, `{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}`)

	inputs := map[string]string{
		"lf":       "users:id,name:\n1,Alice\n2,Bob\n",
		"crlf":     "users:id,name:\r\n1,Alice\r\n2,Bob\r\n",
		"cr":       "users:id,name:\r1,Alice\r2,Bob",
		"bom":      "\xEF\xBB\xBFusers:id,name:\n1,Alice\n2,Bob",
		"bom crlf": "\xEF\xBB\xBFusers:id,name:\r\n1,Alice\r\n2,Bob\r\n",
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			doc := mustParse(t, text)
			if !Equal(doc.Root, want) {
				t.Errorf("Root = %s", doc.Root)
			}
		})
	}
}

func TestParseEncodingError(t *testing.T) {
	_, err := Parse("a:\nok\nbad\xffbyte\n")
	var target *EncodingError
	if !errors.As(err, &target) {
		t.Fatalf("error = %v, want EncodingError", err)
	}
	if target.Line != 3 || target.Offset != 3 {
		t.Errorf("Line/Offset = %d/%d, want 3/3", target.Line, target.Offset)
	}
}

func TestFieldCountMismatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		line     int
		expected int
		actual   int
	}{
		{"too few", "users:id,name,age:\n1,Alice\n", 2, 3, 2},
		{"too many", "users:id:\n1\n2,extra\n", 3, 1, 2},
		{"after comments", "# c\n\nusers:id,name:\n1,Alice\n\n# c\n2\n", 7, 2, 1},
		{"top-level", ":id,name,age:\n1,Alice\n", 2, 3, 2},
		{"literal line", "colors:\nred,green\n", 2, 1, 2},
		{"standalone line", "a,b\n", 1, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var target *FieldCountMismatchError
			if !errors.As(err, &target) {
				t.Fatalf("error = %v, want FieldCountMismatchError", err)
			}
			if target.Line != tt.line {
				t.Errorf("Line = %d, want %d", target.Line, tt.line)
			}
			if target.Expected != tt.expected || target.Actual != tt.actual {
				t.Errorf("Expected/Actual = %d/%d, want %d/%d",
					target.Expected, target.Actual, tt.expected, tt.actual)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("message %q lacks a line number", err.Error())
			}
		})
	}
}

func TestParseErrorsCarryLine(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		line  int
		check func(error) bool
	}{
		{"arity", "users:id,profile(name,age):\n1,(John)\n", 2, func(err error) bool {
			var e *ArityMismatchError
			return errors.As(err, &e) && e.Line == 2
		}},
		{"unbalanced", "users:id,tags:\n1,[a,b\n", 2, func(err error) bool {
			var e *UnbalancedDelimiterError
			return errors.As(err, &e) && e.Line == 2
		}},
		{"schema required", "k:\n(a,b)\n", 2, func(err error) bool {
			var e *SchemaRequiredError
			return errors.As(err, &e) && e.Line == 2
		}},
		{"duplicate inline key", "k:\n(a:1,a:2)\n", 2, func(err error) bool {
			var e *DuplicateFieldError
			return errors.As(err, &e) && e.Line == 2
		}},
		{"duplicate header field", "ok:\n1\nusers:id,id:\n", 3, func(err error) bool {
			var e *DuplicateFieldError
			return errors.As(err, &e) && e.Line == 3
		}},
		{"malformed header", "users:id:\n1\n:\n", 3, func(err error) bool {
			var e *MalformedHeaderError
			return errors.As(err, &e) && e.Line == 3
		}},
		{"malformed field list", "users:id,(x):\n", 1, func(err error) bool {
			var e *MalformedHeaderError
			return errors.As(err, &e) && e.Line == 1
		}},
		{"unclosed field group", "users:id,profile(name,age:\n1,(a,2)\n", 1, func(err error) bool {
			var e *MalformedHeaderError
			return errors.As(err, &e) && e.Line == 1
		}},
		{"stray close in header", "ok:\n1\nusers:id)x:\n1\n", 3, func(err error) bool {
			var e *MalformedHeaderError
			return errors.As(err, &e) && e.Line == 3
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error %T: %v", err, err)
			}
		})
	}
}

func TestConflictingRoot(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"keyed after top-level", ":id:\n1\nusers:id:\n2\n", 3},
		{"top-level after keyed", "users:id:\n1\n:id:\n2\n", 3},
		{"two top-level sections", ":id:\n1\n:name:\nx\n", 3},
		{"keyed after standalone", "hello\nusers:id:\n1\n", 2},
		{"top-level after standalone", "hello\n:id:\n1\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var target *ConflictingRootError
			if !errors.As(err, &target) {
				t.Fatalf("error = %v, want ConflictingRootError", err)
			}
			if target.Line != tt.line {
				t.Errorf("Line = %d, want %d", target.Line, tt.line)
			}
		})
	}
}

func TestDuplicateSectionLastWins(t *testing.T) {
	doc := mustParse(t, "a:\n1\nb:\n2\na:\n3\n")

	if got := doc.Root.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("keys = %v, want [a b]", got)
	}
	if !Equal(doc.Root, mustJSON(t, `{"a":3,"b":2}`)) {
		t.Errorf("Root = %s", doc.Root)
	}
	if len(doc.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", doc.Warnings)
	}
	if doc.Warnings[0].Line != 5 {
		t.Errorf("warning line = %d, want 5", doc.Warnings[0].Line)
	}
}

func TestNonIdentifierWarning(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	opts := DefaultParseOptions()
	opts.Logger = logger
	doc, err := ParseWithOptions("users:id,first-name:\n1,Alice\n", opts)
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !Equal(doc.Root, mustJSON(t, `{"users":[{"id":1,"first-name":"Alice"}]}`)) {
		t.Errorf("Root = %s", doc.Root)
	}
	if len(doc.Warnings) != 1 || !strings.Contains(doc.Warnings[0].Message, "first-name") {
		t.Errorf("warnings = %v", doc.Warnings)
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("warning not logged:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "key=users") {
		t.Errorf("section not logged at debug:\n%s", logs.String())
	}
}

func TestParseMaxDepthOption(t *testing.T) {
	text := "k:\n[[[1]]]\n"

	opts := DefaultParseOptions()
	opts.MaxDepth = 2
	_, err := ParseWithOptions(text, opts)
	var target *MaxDepthExceededError
	if !errors.As(err, &target) {
		t.Fatalf("error = %v, want MaxDepthExceededError", err)
	}
	if target.Line != 2 {
		t.Errorf("Line = %d, want 2", target.Line)
	}

	opts.MaxDepth = 3
	if _, err := ParseWithOptions(text, opts); err != nil {
		t.Errorf("depth 3 should parse: %v", err)
	}
}

func TestDocumentSection(t *testing.T) {
	doc := mustParse(t, "users:id:\n1\ncount:\n1\n")
	if doc.Section("users").Len() != 1 {
		t.Errorf("Section(users) = %s", doc.Section("users"))
	}
	if doc.Section("missing") != nil {
		t.Error("Section(missing) should be nil")
	}

	rec := mustParse(t, ":id:\n1\n")
	if rec.Section("id") != nil {
		t.Error("Section on a record document should be nil")
	}
}
