package ort

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON and Value. Object key order is kept in both
// directions, so JSON -> ORT -> JSON reproduces the input layout.
// Numbers without a fraction or exponent that fit int64 become Int;
// every other number becomes Float.

// FromJSON converts one JSON document to a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("ort: json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("ort: json: unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return fromJSONNumber(t)
	case string:
		return Str(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []*Value{}
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(items), err)
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Array(items...), nil
		case '{':
			obj := Object()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T", kt)
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, fmt.Errorf("%q: %w", key, err)
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func fromJSONNumber(n json.Number) (*Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}

// ToJSON converts a Value to compact JSON with object keys in insertion
// order.
func ToJSON(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToJSONIndent is like ToJSON but indents nested values.
func ToJSONIndent(v *Value, indent string) ([]byte, error) {
	compact, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	switch v.Type() {
	case TypeNull:
		buf.WriteString("null")
	case TypeBool:
		buf.WriteString(canonBool(v.boolVal))
	case TypeInt:
		buf.WriteString(canonInt(v.intVal))
	case TypeFloat:
		s, ok := canonFloat(v.floatVal)
		if !ok {
			return errors.New("ort: json: NaN and infinite floats have no JSON form")
		}
		buf.WriteString(s)
	case TypeStr:
		return writeJSONString(buf, v.strVal)
	case TypeArray:
		buf.WriteByte('[')
		for i, item := range v.arrayVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case TypeObject:
		buf.WriteByte('{')
		for i, e := range v.objectVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
