package ort

import (
	"strconv"
)

// ============================================================
// Value Parsing
// ============================================================
//
// Priority order on a trimmed token:
//   1. ""                 null
//   2. [] / ()            empty array / empty object
//   3. [ ... ]            array, elements parsed without a schema
//   4. ( ... )            positional object (schema bound) or inline
//                         keyed object (k:v pairs)
//   5. scalar             int, float, bool, else string
//
// A scalar that contains any escape sequence is always a string, so
// "\007" stays the string "007" while "007" is the integer 7.

// valueParser carries the per-call nesting limit.
type valueParser struct {
	maxDepth int
}

// ParseValue parses a single value token. A non-nil schema binds a
// parenthesized token as a positional nested object.
func ParseValue(token string, schema Schema) (*Value, error) {
	p := valueParser{maxDepth: DefaultMaxDepth}
	return p.parseToken(token, schema)
}

// parseToken validates delimiter balance and depth once, then descends.
func (p valueParser) parseToken(token string, schema Schema) (*Value, error) {
	token = trimToken(token)
	if _, err := splitTopLevel(token, "", p.maxDepth); err != nil {
		return nil, withLine(err, 0, token)
	}
	return p.parse(token, schema, 0)
}

// parse expects a trimmed, balanced token.
func (p valueParser) parse(token string, schema Schema, depth int) (*Value, error) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		return nil, &MaxDepthExceededError{Limit: p.maxDepth}
	}

	switch {
	case token == "":
		return Null(), nil
	case token == "[]":
		return Array(), nil
	case token == "()":
		return Object(), nil
	}

	if token[0] == '[' && matchingClose(token) == len(token)-1 {
		return p.parseArray(token[1:len(token)-1], depth)
	}

	if token[0] == '(' && matchingClose(token) == len(token)-1 {
		inner := token[1 : len(token)-1]
		if len(schema) > 0 {
			return p.parsePositional(inner, schema, depth)
		}
		return p.parseKeyed(token, inner, depth)
	}

	return parseScalar(token), nil
}

func (p valueParser) parseArray(inner string, depth int) (*Value, error) {
	if trimToken(inner) == "" {
		return Array(), nil
	}

	elems, err := splitTopLevel(inner, ",", p.maxDepth)
	if err != nil {
		return nil, err
	}

	items := make([]*Value, 0, len(elems))
	for _, el := range elems {
		v, err := p.parse(trimToken(el), nil, depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return Array(items...), nil
}

// parsePositional binds element i of a parenthesized group to schema[i].
func (p valueParser) parsePositional(inner string, schema Schema, depth int) (*Value, error) {
	elems, err := splitTopLevel(inner, ",", p.maxDepth)
	if err != nil {
		return nil, err
	}
	if len(elems) != len(schema) {
		return nil, &ArityMismatchError{Expected: len(schema), Actual: len(elems)}
	}

	entries := make([]Entry, len(schema))
	for i, f := range schema {
		v, err := p.parse(trimToken(elems[i]), f.Children, depth+1)
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{Key: f.Name, Value: v}
	}
	return Object(entries...), nil
}

// parseKeyed handles a parenthesized group with no bound schema. It is an
// inline keyed object when any element has a top-level ':'.
func (p valueParser) parseKeyed(token, inner string, depth int) (*Value, error) {
	if trimToken(inner) == "" {
		return Object(), nil
	}

	elems, err := splitTopLevel(inner, ",", p.maxDepth)
	if err != nil {
		return nil, err
	}

	type pair struct {
		key, val string
		ok       bool
	}
	pairs := make([]pair, len(elems))
	keyed := false
	for i, el := range elems {
		k, v, ok, err := splitFirstTopLevel(el, ':', p.maxDepth)
		if err != nil {
			return nil, err
		}
		keyed = keyed || ok
		pairs[i] = pair{key: k, val: v, ok: ok}
	}

	if !keyed {
		return nil, &SchemaRequiredError{Token: token}
	}

	entries := make([]Entry, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pr := range pairs {
		if !pr.ok {
			return nil, &SchemaRequiredError{Token: token}
		}
		key, _ := Unescape(trimToken(pr.key))
		if _, dup := seen[key]; dup {
			return nil, &DuplicateFieldError{Field: key}
		}
		seen[key] = struct{}{}

		v, err := p.parse(trimToken(pr.val), nil, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: v})
	}
	return Object(entries...), nil
}

// parseScalar infers the type of an unstructured token.
func parseScalar(raw string) *Value {
	text, escaped := Unescape(raw)
	if escaped {
		return Str(text)
	}

	switch {
	case isIntLiteral(text):
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(n)
		}
		// Outside int64: keep the digits exactly
		return Str(text)
	case isFloatLiteral(text):
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Float(f)
		}
		return Str(text)
	case text == "true":
		return Bool(true)
	case text == "false":
		return Bool(false)
	}

	return Str(text)
}

// isIntLiteral matches -?[0-9]+
func isIntLiteral(s string) bool {
	if s != "" && s[0] == '-' {
		s = s[1:]
	}
	return s != "" && allDigits(s)
}

// isFloatLiteral matches -?[0-9]+\.[0-9]+
func isFloatLiteral(s string) bool {
	if s != "" && s[0] == '-' {
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i > 0 && i < len(s)-1 && allDigits(s[:i]) && allDigits(s[i+1:])
		}
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
