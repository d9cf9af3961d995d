package ort

import (
	"fmt"
)

// Type represents ORT value types.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeStr
	TypeArray
	TypeObject
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents an ORT value. The zero of *Value (nil) reads as null.
type Value struct {
	typ Type

	// Scalar values (only one valid based on typ)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	// Container values
	arrayVal  []*Value
	objectVal []Entry
}

// Entry is one key/value pair of an object. Objects keep entries in
// insertion order.
type Entry struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{typ: TypeNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{typ: TypeInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{typ: TypeStr, strVal: v}
}

// Array creates an array value.
func Array(values ...*Value) *Value {
	if values == nil {
		values = []*Value{}
	}
	return &Value{typ: TypeArray, arrayVal: values}
}

// Object creates an object value from entries, in the given order.
func Object(entries ...Entry) *Value {
	if entries == nil {
		entries = []Entry{}
	}
	return &Value{typ: TypeObject, objectVal: entries}
}

// Pair is shorthand for building an Entry.
func Pair(key string, value *Value) Entry {
	return Entry{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value type.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.typ
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.typ == TypeNull
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if err := v.expect(TypeBool); err != nil {
		return false, err
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if err := v.expect(TypeInt); err != nil {
		return 0, err
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if err := v.expect(TypeFloat); err != nil {
		return 0, err
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if err := v.expect(TypeStr); err != nil {
		return "", err
	}
	return v.strVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if err := v.expect(TypeArray); err != nil {
		return nil, err
	}
	return v.arrayVal, nil
}

// AsObject returns the object entries in insertion order.
func (v *Value) AsObject() ([]Entry, error) {
	if err := v.expect(TypeObject); err != nil {
		return nil, err
	}
	return v.objectVal, nil
}

func (v *Value) expect(t Type) error {
	if v == nil {
		return fmt.Errorf("ort: nil value")
	}
	if v.typ != t {
		return fmt.Errorf("ort: expected %s, got %s", t, v.typ)
	}
	return nil
}

// Len returns the length of an array or object.
func (v *Value) Len() int {
	switch v.Type() {
	case TypeArray:
		return len(v.arrayVal)
	case TypeObject:
		return len(v.objectVal)
	default:
		return 0
	}
}

// Get returns a field value by key from an object, or nil.
func (v *Value) Get(key string) *Value {
	if v.Type() != TypeObject {
		return nil
	}
	for _, e := range v.objectVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether an object holds key.
func (v *Value) Has(key string) bool {
	if v.Type() != TypeObject {
		return false
	}
	for _, e := range v.objectVal {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the keys of an object in insertion order, or nil for
// non-objects.
func (v *Value) Keys() []string {
	if v.Type() != TypeObject {
		return nil
	}
	keys := make([]string, len(v.objectVal))
	for i, e := range v.objectVal {
		keys[i] = e.Key
	}
	return keys
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v.Type() != TypeArray {
		return nil, fmt.Errorf("ort: not an array")
	}
	if i < 0 || i >= len(v.arrayVal) {
		return nil, fmt.Errorf("ort: index %d out of bounds (len=%d)", i, len(v.arrayVal))
	}
	return v.arrayVal[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets a key on an object. An existing key keeps its position.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.typ != TypeObject {
		panic("ort: cannot set on non-object")
	}
	for i := range v.objectVal {
		if v.objectVal[i].Key == key {
			v.objectVal[i].Value = val
			return
		}
	}
	v.objectVal = append(v.objectVal, Entry{Key: key, Value: val})
}

// Append adds a value to an array.
func (v *Value) Append(val *Value) {
	if v == nil || v.typ != TypeArray {
		panic("ort: cannot append to non-array")
	}
	v.arrayVal = append(v.arrayVal, val)
}

// String renders the value as a single ORT literal. Values that cannot be
// represented render as '!' followed by the serializer error.
func (v *Value) String() string {
	s, err := SerializeValue(v)
	if err != nil {
		return "!" + err.Error()
	}
	return s
}
