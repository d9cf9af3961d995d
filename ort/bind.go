package ort

// ============================================================
// Data Line Binding
// ============================================================
//
// A data line is split into top-level tokens and bound positionally to
// the section schema:
//
//   users:id,profile(name,age):
//   1,(John,30)      -> (id:1,profile:(name:John,age:30))

// bindRecord binds one data line against a section schema and returns the
// record.
func (p *parser) bindRecord(line Line, schema Schema) (*Value, error) {
	tokens, err := splitTopLevel(line.Text, ",", p.values.maxDepth)
	if err != nil {
		return nil, withLine(err, line.Number, line.Text)
	}

	if len(tokens) != len(schema) {
		return nil, &FieldCountMismatchError{
			Location: Location{Line: line.Number, Text: line.Text},
			Expected: len(schema),
			Actual:   len(tokens),
		}
	}

	entries := make([]Entry, len(schema))
	for i, f := range schema {
		v, err := p.values.parse(trimToken(tokens[i]), f.Children, 0)
		if err != nil {
			return nil, withLine(err, line.Number, line.Text)
		}
		entries[i] = Entry{Key: f.Name, Value: v}
	}

	return Object(entries...), nil
}

// parseLiteral parses a line of a literal section: exactly one value token
// with no schema.
func (p *parser) parseLiteral(line Line) (*Value, error) {
	tokens, err := splitTopLevel(line.Text, ",", p.values.maxDepth)
	if err != nil {
		return nil, withLine(err, line.Number, line.Text)
	}

	if len(tokens) != 1 {
		return nil, &FieldCountMismatchError{
			Location: Location{Line: line.Number, Text: line.Text},
			Expected: 1,
			Actual:   len(tokens),
		}
	}

	v, err := p.values.parse(line.Text, nil, 0)
	if err != nil {
		return nil, withLine(err, line.Number, line.Text)
	}
	return v, nil
}
