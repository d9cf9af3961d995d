package ort

import (
	"bytes"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================
//
// Works on yaml.Node trees rather than maps so mapping order survives
// the conversion. Aliases are expanded; tags other than the core scalar
// tags read as strings.

// FromYAML converts the first YAML document in data to a Value. An empty
// input reads as null.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("ort: yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null(), nil
	}
	v, err := fromYAMLNode(doc.Content[0], 0)
	if err != nil {
		return nil, fmt.Errorf("ort: yaml: %w", err)
	}
	return v, nil
}

// aliasDepth bounds alias expansion so self-referencing anchors fail
// instead of recursing forever.
const aliasDepth = 256

func fromYAMLNode(n *yaml.Node, depth int) (*Value, error) {
	if depth > aliasDepth {
		return nil, fmt.Errorf("line %d: nesting too deep", n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(n.Content[0], depth+1)

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromYAMLNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return Array(items...), nil

	case yaml.MappingNode:
		obj := Object()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind == yaml.AliasNode {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := fromYAMLNode(v, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// Out of int64 range: keep the digits
			return Str(n.Value), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	}
	return Str(n.Value), nil
}

// ToYAML converts a Value to a YAML document with mapping keys in
// insertion order.
func ToYAML(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return nil, fmt.Errorf("ort: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("ort: yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v *Value) *yaml.Node {
	switch v.Type() {
	case TypeBool:
		return yamlScalar("!!bool", canonBool(v.boolVal))
	case TypeInt:
		return yamlScalar("!!int", canonInt(v.intVal))
	case TypeFloat:
		return yamlScalar("!!float", yamlFloat(v.floatVal))
	case TypeStr:
		return yamlScalar("!!str", v.strVal)
	case TypeArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arrayVal {
			n.Content = append(n.Content, toYAMLNode(item))
		}
		return n
	case TypeObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.objectVal {
			n.Content = append(n.Content, yamlScalar("!!str", e.Key), toYAMLNode(e.Value))
		}
		return n
	}
	return yamlScalar("!!null", "null")
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s, _ := canonFloat(f)
	return s
}
