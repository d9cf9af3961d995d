package ort

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Serializer
// ============================================================
//
// The serializer picks a layout from the document form and the shape of
// the root value, then writes each value in canonical form:
//
//   users:id,name:        array of uniform records -> table section
//   1,Alice
//   count:                anything else -> literal section, one line
//   2
//   :id,name:             single root record or uniform record array
//   1,Alice
//   [1,2,3]               any other root -> standalone literal line
//
// Layouts that would read back differently fall back to inline literals.

// SerializeOptions configures serialization. Output never carries
// indentation or padding.
type SerializeOptions struct {
	// FieldOrder lists field names that lead every inferred schema level,
	// in this order. Other fields follow in first-seen order.
	FieldOrder []string
}

// DefaultSerializeOptions returns the default serialize options.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{}
}

// Serialize renders a document as ORT text. The document's Form is kept
// when the root still fits it; otherwise a layout is chosen from the
// root's shape.
func Serialize(doc *Document, opts SerializeOptions) (string, error) {
	if doc == nil || doc.Root.IsNull() {
		return "", &UnrepresentableError{Reason: "document root is null"}
	}

	e := newEmitter(opts)
	form := doc.Form
	if !e.fits(form, doc.Root) {
		form = e.detect(doc.Root)
	}

	if err := e.writeDocument(form, doc.Root); err != nil {
		return "", err
	}
	return e.b.String(), nil
}

// SerializeValue renders a single value as an inline ORT token, the
// inverse of ParseValue with no schema. Null renders as the empty string.
func SerializeValue(v *Value) (string, error) {
	e := newEmitter(DefaultSerializeOptions())
	if err := e.writeValue(v); err != nil {
		return "", err
	}
	return e.b.String(), nil
}

// detectForm chooses the layout for a root value with default options.
func detectForm(root *Value) RootForm {
	return newEmitter(DefaultSerializeOptions()).detect(root)
}

type emitter struct {
	rank map[string]int
	b    strings.Builder
}

func newEmitter(opts SerializeOptions) *emitter {
	rank := make(map[string]int, len(opts.FieldOrder))
	for i, name := range opts.FieldOrder {
		if _, dup := rank[name]; !dup {
			rank[name] = i
		}
	}
	return &emitter{rank: rank}
}

// ============================================================
// Layout Selection
// ============================================================

// fits reports whether root can be written in the given form and read
// back unchanged.
func (e *emitter) fits(form RootForm, root *Value) bool {
	switch form {
	case FormSections:
		if root.Type() != TypeObject {
			return false
		}
		for _, entry := range root.objectVal {
			if !isSectionKey(entry.Key) {
				return false
			}
		}
		return true
	case FormRecord:
		if root.Type() != TypeObject {
			return false
		}
		_, ok := e.inferSchema([]*Value{root})
		return ok
	case FormRecords:
		// One record would read back as FormRecord
		if root.Type() != TypeArray || len(root.arrayVal) < 2 {
			return false
		}
		_, ok := e.inferSchema(root.arrayVal)
		return ok
	case FormValue:
		return !root.IsNull()
	default:
		return false
	}
}

func (e *emitter) detect(root *Value) RootForm {
	switch root.Type() {
	case TypeObject:
		switch {
		case root.Len() == 0:
			return FormSections
		case e.hasTable(root) && e.fits(FormSections, root):
			return FormSections
		case e.fits(FormRecord, root):
			return FormRecord
		case e.fits(FormSections, root):
			return FormSections
		}
	case TypeArray:
		if e.fits(FormRecords, root) {
			return FormRecords
		}
	}
	return FormValue
}

// hasTable reports whether any entry of obj is an array that can be
// written as a table section.
func (e *emitter) hasTable(obj *Value) bool {
	for _, entry := range obj.objectVal {
		if entry.Value.Type() != TypeArray || entry.Value.Len() == 0 {
			continue
		}
		if _, ok := e.inferSchema(entry.Value.arrayVal); ok {
			return true
		}
	}
	return false
}

// ============================================================
// Schema Inference
// ============================================================

// inferSchema derives the schema shared by records. Every record must be
// a non-empty object with the same key set and header-safe keys. A field
// is nested when its values are themselves records with one schema.
func (e *emitter) inferSchema(records []*Value) (Schema, bool) {
	if len(records) == 0 {
		return nil, false
	}

	keys := commonKeys(records)
	if keys == nil {
		return nil, false
	}
	for _, k := range keys {
		if !isFieldName(k) {
			return nil, false
		}
	}
	e.order(keys)

	schema := make(Schema, len(keys))
	for i, k := range keys {
		column := make([]*Value, len(records))
		for j, rec := range records {
			column[j] = rec.Get(k)
		}
		f := &Field{Name: k}
		if children, ok := e.inferSchema(column); ok {
			f.Children = children
		}
		schema[i] = f
	}

	// A lone flat null renders as nothing: a blank line or "()"
	if len(schema) == 1 && !schema[0].IsNested() {
		for _, rec := range records {
			if rec.Get(keys[0]).IsNull() {
				return nil, false
			}
		}
	}

	return schema, true
}

// commonKeys returns the first record's keys when every record is a
// non-empty object with exactly that key set.
func commonKeys(records []*Value) []string {
	first := records[0]
	if first.Type() != TypeObject || first.Len() == 0 {
		return nil
	}

	keys := first.Keys()
	for _, rec := range records[1:] {
		if rec.Type() != TypeObject || rec.Len() != len(keys) {
			return nil
		}
		for _, k := range keys {
			if !rec.Has(k) {
				return nil
			}
		}
	}
	return keys
}

// order moves names listed in FieldOrder to the front, in that order.
func (e *emitter) order(keys []string) {
	if len(e.rank) == 0 {
		return
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := e.rank[keys[i]]
		rj, jok := e.rank[keys[j]]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
}

// isFieldName reports whether name can appear in a header field list.
func isFieldName(name string) bool {
	return name != "" && isPlainKey(name) && !strings.ContainsAny(name, "\n\f\r")
}

// isSectionKey reports whether key can open a header line.
func isSectionKey(key string) bool {
	return isFieldName(key) && key[0] != '#'
}

// ============================================================
// Writers
// ============================================================

func (e *emitter) writeDocument(form RootForm, root *Value) error {
	switch form {
	case FormSections:
		for _, entry := range root.objectVal {
			if err := e.writeSection(entry.Key, entry.Value); err != nil {
				return atKey(err, entry.Key)
			}
		}
		return nil
	case FormRecord, FormRecords:
		records := root.arrayVal
		if form == FormRecord {
			records = []*Value{root}
		}
		schema, _ := e.inferSchema(records)
		return e.writeTable("", schema, records, form == FormRecords)
	default:
		return e.writeLiteral(root)
	}
}

// writeSection writes one keyed section: a table when the value is an
// array of uniform records, else a literal section.
func (e *emitter) writeSection(key string, v *Value) error {
	if v.Type() == TypeArray && len(v.arrayVal) > 0 {
		if schema, ok := e.inferSchema(v.arrayVal); ok {
			return e.writeTable(key, schema, v.arrayVal, true)
		}
	}

	e.b.WriteString(key)
	e.b.WriteString(":\n")
	if v.IsNull() {
		return nil
	}
	return e.writeLiteral(v)
}

// writeTable writes a header line and one data line per record.
func (e *emitter) writeTable(key string, schema Schema, records []*Value, indexed bool) error {
	e.b.WriteString(key)
	e.b.WriteByte(':')
	writeSchema(&e.b, schema)
	e.b.WriteString(":\n")

	for i, rec := range records {
		if err := e.writeRecord(rec, schema); err != nil {
			if indexed {
				return atIndex(err, i)
			}
			return err
		}
		e.b.WriteByte('\n')
	}
	return nil
}

// writeRecord writes the positional values of rec, one per field.
func (e *emitter) writeRecord(rec *Value, schema Schema) error {
	for i, f := range schema {
		if i > 0 {
			e.b.WriteByte(',')
		}
		v := rec.Get(f.Name)
		if !f.IsNested() {
			if err := e.writeValue(v); err != nil {
				return atKey(err, f.Name)
			}
			continue
		}
		e.b.WriteByte('(')
		if err := e.writeRecord(v, f.Children); err != nil {
			return atKey(err, f.Name)
		}
		e.b.WriteByte(')')
	}
	return nil
}

func (e *emitter) writeLiteral(v *Value) error {
	if err := e.writeValue(v); err != nil {
		return err
	}
	e.b.WriteByte('\n')
	return nil
}

// writeValue writes v as an inline token.
func (e *emitter) writeValue(v *Value) error {
	switch v.Type() {
	case TypeNull:
		return nil
	case TypeBool:
		e.b.WriteString(canonBool(v.boolVal))
	case TypeInt:
		e.b.WriteString(canonInt(v.intVal))
	case TypeFloat:
		s, ok := canonFloat(v.floatVal)
		if !ok {
			return &UnrepresentableError{Reason: "float " + strconv.FormatFloat(v.floatVal, 'g', -1, 64) + " has no decimal form"}
		}
		e.b.WriteString(s)
	case TypeStr:
		s, ok := canonString(v.strVal)
		if !ok {
			return &UnrepresentableError{Reason: "empty string reads back as null"}
		}
		e.b.WriteString(s)
	case TypeArray:
		return e.writeArray(v.arrayVal)
	case TypeObject:
		return e.writeObject(v.objectVal)
	}
	return nil
}

func (e *emitter) writeArray(items []*Value) error {
	if len(items) == 1 && items[0].IsNull() {
		return &UnrepresentableError{Reason: "array holding one null reads back as an empty array"}
	}

	e.b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			e.b.WriteByte(',')
		}
		if err := e.writeValue(item); err != nil {
			return atIndex(err, i)
		}
	}
	e.b.WriteByte(']')
	return nil
}

// writeObject writes an inline keyed object: (k:v,k:v).
func (e *emitter) writeObject(entries []Entry) error {
	e.b.WriteByte('(')
	for i, entry := range entries {
		if i > 0 {
			e.b.WriteByte(',')
		}
		e.b.WriteString(Escape(entry.Key))
		e.b.WriteByte(':')
		if err := e.writeValue(entry.Value); err != nil {
			return atKey(err, entry.Key)
		}
	}
	e.b.WriteByte(')')
	return nil
}

// atKey and atIndex prefix the path of an UnrepresentableError as it
// propagates out of a container: users[2].name
func atKey(err error, key string) error {
	if ue, ok := err.(*UnrepresentableError); ok {
		switch {
		case ue.Path == "":
			ue.Path = key
		case ue.Path[0] == '[':
			ue.Path = key + ue.Path
		default:
			ue.Path = key + "." + ue.Path
		}
	}
	return err
}

func atIndex(err error, i int) error {
	if ue, ok := err.(*UnrepresentableError); ok {
		seg := "[" + strconv.Itoa(i) + "]"
		switch {
		case ue.Path == "":
			ue.Path = seg
		case ue.Path[0] == '[':
			ue.Path = seg + ue.Path
		default:
			ue.Path = seg + "." + ue.Path
		}
	}
	return err
}
