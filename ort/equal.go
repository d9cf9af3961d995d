package ort

import (
	"crypto/sha256"
	"encoding/hex"
)

// Equal reports whether two values are structurally equal. Int and Float
// never compare equal to each other. Objects compare by key set, so entry
// order does not matter; arrays compare element by element.
func Equal(a, b *Value) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case TypeNull:
		return true
	case TypeBool:
		return a.boolVal == b.boolVal
	case TypeInt:
		return a.intVal == b.intVal
	case TypeFloat:
		return a.floatVal == b.floatVal
	case TypeStr:
		return a.strVal == b.strVal
	case TypeArray:
		if len(a.arrayVal) != len(b.arrayVal) {
			return false
		}
		for i := range a.arrayVal {
			if !Equal(a.arrayVal[i], b.arrayVal[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(a.objectVal) != len(b.objectVal) {
			return false
		}
		for _, e := range a.objectVal {
			if !b.Has(e.Key) || !Equal(e.Value, b.Get(e.Key)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Fingerprint returns the hex SHA-256 of the document's canonical
// serialization. Documents with equal roots and equal key order share a
// fingerprint.
func Fingerprint(doc *Document) (string, error) {
	text, err := Serialize(doc, DefaultSerializeOptions())
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]), nil
}
