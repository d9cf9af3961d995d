package ort

import (
	"context"
	"fmt"
	"log/slog"
)

// ============================================================
// Document Assembly
// ============================================================
//
// Lines are grouped into sections: a header line opens a section and the
// following data lines belong to it until the next header. Lines before
// the first header form a keyless literal section.
//
//   users:id,name:     {users: [records...]}     keyed, many records
//   colors:            {colors: value}           keyed literal
//   :id,name:          record or [records...]    keyless, becomes the root

// RootForm records which document layout produced the root value.
type RootForm uint8

const (
	FormSections RootForm = iota // object of keyed sections
	FormRecord                   // one record from a keyless section
	FormRecords                  // array of records from a keyless section
	FormValue                    // standalone literal line(s)
)

// String returns the form name.
func (f RootForm) String() string {
	switch f {
	case FormSections:
		return "sections"
	case FormRecord:
		return "record"
	case FormRecords:
		return "records"
	case FormValue:
		return "value"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// Document is the result of parsing ORT text.
type Document struct {
	Form     RootForm
	Root     *Value
	Warnings []Warning
}

// NewDocument wraps a value for serialization. The layout is chosen from
// the value's shape.
func NewDocument(root *Value) *Document {
	return &Document{Form: detectForm(root), Root: root}
}

// Equal reports whether two documents hold equal root values.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return Equal(d.Root, other.Root)
}

// Section returns the value of a keyed section, or nil when the document
// is not in sections form or has no such key.
func (d *Document) Section(key string) *Value {
	if d == nil || d.Form != FormSections {
		return nil
	}
	return d.Root.Get(key)
}

// ParseOptions configures parsing.
type ParseOptions struct {
	MaxDepth int          // nesting limit, DefaultMaxDepth when zero
	Logger   *slog.Logger // nil disables logging
}

// DefaultParseOptions returns the default parse options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{MaxDepth: DefaultMaxDepth}
}

// Parse parses ORT text into a Document.
func Parse(text string) (*Document, error) {
	return ParseWithOptions(text, DefaultParseOptions())
}

// ParseWithOptions parses ORT text with explicit options.
func ParseWithOptions(text string, opts ParseOptions) (*Document, error) {
	lines, err := preprocess([]byte(text))
	if err != nil {
		return nil, err
	}

	p := newParser(opts)
	asm := &assembler{p: p}

	for _, sec := range p.group(lines) {
		if err := p.openSection(sec); err != nil {
			return nil, err
		}
		if err := asm.admit(sec); err != nil {
			return nil, err
		}
		v, err := p.contribution(sec)
		if err != nil {
			return nil, err
		}
		asm.add(sec, v)
	}

	return asm.document(), nil
}

// section is a header plus its raw data lines. It lives only while its
// contribution is assembled.
type section struct {
	headerLine Line    // zero Number for lines before any header
	header     *Header // nil for lines before any header
	lines      []Line
}

func (s *section) keyed() bool {
	return s.header != nil && s.header.Keyed
}

func (s *section) literal() bool {
	return s.header == nil || s.header.IsLiteral()
}

// parser holds per-call parse state.
type parser struct {
	values   valueParser
	logger   *slog.Logger
	warnings []Warning
}

func newParser(opts ParseOptions) *parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &parser{
		values: valueParser{maxDepth: opts.MaxDepth},
		logger: opts.Logger,
	}
}

func (p *parser) log(level slog.Level, msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Log(context.Background(), level, msg, args...)
}

func (p *parser) warn(line Line, msg string) {
	w := Warning{Location: Location{Line: line.Number, Text: line.Text}, Message: msg}
	p.warnings = append(p.warnings, w)
	p.log(slog.LevelWarn, msg, slog.Int("line", line.Number), slog.String("text", line.Text))
}

// group splits content lines into sections. Headers are only recognized
// here; they are parsed by openSection.
func (p *parser) group(lines []Line) []*section {
	var sections []*section
	var cur *section

	for _, line := range lines {
		if isHeaderLine(line.Text) {
			cur = &section{headerLine: line}
			sections = append(sections, cur)
			continue
		}
		if cur == nil {
			cur = &section{}
			sections = append(sections, cur)
		}
		cur.lines = append(cur.lines, line)
	}

	return sections
}

// openSection parses the section header, if any, and reports non-fatal
// naming issues.
func (p *parser) openSection(sec *section) error {
	if sec.headerLine.Number == 0 {
		return nil
	}

	h, err := ParseHeader(sec.headerLine.Text)
	if err != nil {
		return withLine(err, sec.headerLine.Number, sec.headerLine.Text)
	}
	sec.header = h

	for _, name := range nonIdentifiers(h.Fields, "") {
		p.warn(sec.headerLine, fmt.Sprintf("field name %q is not an identifier", name))
	}

	p.log(slog.LevelDebug, "section",
		slog.Int("line", sec.headerLine.Number),
		slog.String("key", h.Key),
		slog.Int("fields", len(h.Fields)))
	return nil
}

// contribution computes the value a section adds to the document.
func (p *parser) contribution(sec *section) (*Value, error) {
	if sec.literal() {
		switch len(sec.lines) {
		case 0:
			return Null(), nil
		case 1:
			return p.parseLiteral(sec.lines[0])
		}
		items := make([]*Value, 0, len(sec.lines))
		for _, line := range sec.lines {
			v, err := p.parseLiteral(line)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return Array(items...), nil
	}

	records := make([]*Value, 0, len(sec.lines))
	for _, line := range sec.lines {
		rec, err := p.bindRecord(line, sec.header.Fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	// A keyless section with a single line is the record itself
	if !sec.keyed() && len(records) == 1 {
		return records[0], nil
	}
	return Array(records...), nil
}

// rootGuard rejects sections that contradict the root form chosen so far.
type rootGuard struct {
	keyless bool
	keyed   bool
}

func (g *rootGuard) admit(sec *section) error {
	loc := Location{Line: sec.headerLine.Number, Text: sec.headerLine.Text}
	if loc.Line == 0 && len(sec.lines) > 0 {
		loc = Location{Line: sec.lines[0].Number, Text: sec.lines[0].Text}
	}

	if sec.keyed() {
		if g.keyless {
			return &ConflictingRootError{Location: loc, Reason: "keyed section after a top-level section"}
		}
		g.keyed = true
		return nil
	}

	switch {
	case g.keyed:
		return &ConflictingRootError{Location: loc, Reason: "top-level section after keyed sections"}
	case g.keyless:
		return &ConflictingRootError{Location: loc, Reason: "more than one top-level section"}
	}
	g.keyless = true
	return nil
}

// assembler merges section contributions into the root value.
type assembler struct {
	rootGuard
	p    *parser
	form RootForm
	root *Value
}

// add merges an admitted section's contribution.
func (a *assembler) add(sec *section, v *Value) {
	if !sec.keyed() {
		switch {
		case sec.header == nil:
			a.form = FormValue
		case len(sec.lines) == 1:
			a.form = FormRecord
		default:
			a.form = FormRecords
		}
		a.root = v
		return
	}

	if a.root == nil {
		a.form = FormSections
		a.root = Object()
	}
	if a.root.Has(sec.header.Key) {
		a.p.warn(sec.headerLine, fmt.Sprintf("section %q redefined; last definition wins", sec.header.Key))
	}
	a.root.Set(sec.header.Key, v)
}

func (a *assembler) document() *Document {
	if a.root == nil {
		a.form = FormSections
		a.root = Object()
	}
	return &Document{Form: a.form, Root: a.root, Warnings: a.p.warnings}
}
