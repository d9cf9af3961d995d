package ort

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ============================================================
// Section Header Parsing
// ============================================================
//
// Header forms:
//   users:id,name:                  keyed section with fields
//   users:id,profile(name,age):     nested field schema
//   :id,name:                       keyless (top-level) section
//   colors:                         keyed literal section, no fields

// Field is one node of a section schema. A field with Children binds a
// positional nested object.
type Field struct {
	Name     string
	Children Schema
}

// IsNested reports whether the field binds a positional nested object.
func (f *Field) IsNested() bool {
	return f != nil && len(f.Children) > 0
}

// Schema is an ordered list of sibling fields. A schema is built once per
// header and only read afterwards.
type Schema []*Field

// Names returns the field names at this level.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// String renders the schema in header field-list syntax.
func (s Schema) String() string {
	var b strings.Builder
	writeSchema(&b, s)
	return b.String()
}

func writeSchema(b *strings.Builder, s Schema) {
	for i, f := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		if len(f.Children) > 0 {
			b.WriteByte('(')
			writeSchema(b, f.Children)
			b.WriteByte(')')
		}
	}
}

// Header is a parsed section header line.
type Header struct {
	Key    string // section key, empty for a keyless section
	Keyed  bool   // false for the ":fields:" form
	Fields Schema // nil for a literal section ("key:")
	Raw    string // original header text
}

// IsLiteral reports whether the section holds literal value lines rather
// than records.
func (h *Header) IsLiteral() bool {
	return len(h.Fields) == 0
}

// String renders the header line.
func (h *Header) String() string {
	if h.IsLiteral() {
		return h.Key + ":"
	}
	return h.Key + ":" + h.Fields.String() + ":"
}

type headerGrammar struct {
	Key    string          `parser:"@Name? ':'"`
	Fields []*fieldGrammar `parser:"( @@ ( ',' @@ )* ':' )?"`
}

type fieldGrammar struct {
	Name     string          `parser:"@Name"`
	Children []*fieldGrammar `parser:"( '(' @@ ( ',' @@ )* ')' )?"`
}

var headerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Name", Pattern: `[^\s,():\[\]\\]+`},
	{Name: "Punct", Pattern: `[,():]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var headerParser = participle.MustBuild[headerGrammar](
	participle.Lexer(headerLexer),
	participle.Elide("Whitespace"),
)

// identPattern is the conventional field name form. Other names are
// accepted with a warning.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseHeader parses a section header line.
func ParseHeader(line string) (*Header, error) {
	line = trimToken(line)

	g, err := headerParser.ParseString("", line)
	if err != nil {
		return nil, &MalformedHeaderError{Location: Location{Text: line}, Reason: headerReason(err)}
	}

	h := &Header{
		Key:   g.Key,
		Keyed: g.Key != "",
		Raw:   line,
	}

	if !h.Keyed && len(g.Fields) == 0 {
		return nil, &MalformedHeaderError{Location: Location{Text: line}, Reason: "keyless header needs a field list"}
	}

	fields, err := buildSchema(g.Fields)
	if err != nil {
		return nil, withLine(err, 0, line)
	}
	h.Fields = fields

	return h, nil
}

func buildSchema(nodes []*fieldGrammar) (Schema, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	schema := make(Schema, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))

	for _, n := range nodes {
		if _, dup := seen[n.Name]; dup {
			return nil, &DuplicateFieldError{Field: n.Name}
		}
		seen[n.Name] = struct{}{}

		children, err := buildSchema(n.Children)
		if err != nil {
			return nil, err
		}
		schema = append(schema, &Field{Name: n.Name, Children: children})
	}

	return schema, nil
}

func headerReason(err error) string {
	if perr, ok := err.(participle.Error); ok {
		return perr.Message()
	}
	return err.Error()
}

// nonIdentifiers returns the dotted paths of field names that do not match
// the identifier pattern.
func nonIdentifiers(s Schema, prefix string) []string {
	var bad []string
	for _, f := range s {
		path := prefix + f.Name
		if !identPattern.MatchString(f.Name) {
			bad = append(bad, path)
		}
		bad = append(bad, nonIdentifiers(f.Children, path+".")...)
	}
	return bad
}

// isHeaderLine reports whether a preprocessed line has header shape: it
// ends with an unescaped ':' and the text before the first unescaped ':'
// is empty or a plain key, ignoring surrounding whitespace. Delimiter
// balance is left to ParseHeader so a broken field list reports as a
// malformed header.
func isHeaderLine(line string) bool {
	if line == "" || line[len(line)-1] != ':' || escapedAt(line, len(line)-1) {
		return false
	}

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ':':
			return isPlainKey(trimToken(line[:i]))
		}
	}
	return false
}

// isPlainKey reports whether s can appear as a section key or header field
// name without escaping.
func isPlainKey(s string) bool {
	return !strings.ContainsAny(s, " \t,()[]\\:")
}
