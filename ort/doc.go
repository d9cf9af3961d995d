// Package ort implements ORT (Object Record Table), a compact text format
// that combines CSV's positional rows with JSON's nested objects and
// arrays.
//
// ORT is designed to be:
//   - Token-cheap (field names appear once per section, not per record)
//   - Round-trippable (Parse(Serialize(d)) equals d)
//   - Convertible to and from JSON and YAML without losing key order
//
// # Syntax
//
// A header line ends with ':' and names a section and its fields. Data
// lines bind positionally to the fields:
//
//	users:id,name,profile(age,city):
//	1,Alice,(30,Paris)
//	2,Bob,(25,[Berlin,Munich])
//
//	colors:
//	[red,green,blue]
//
// A header without a key (":id,name:") makes the records the document
// root. Lines before any header are standalone values.
//
// # Values
//
//	null       (empty)
//	bool       true / false
//	int        -?[0-9]+
//	float      -?[0-9]+.[0-9]+
//	array      [a,b,c]
//	object     (key:value,key:value), or (a,b) against a nested field
//	string     anything else; \ escapes , ( ) [ ] : \ and \n \t \r
//
// A token containing an escape is always a string: 007 is the integer 7,
// \007 is the string "007".
//
// # Streaming
//
// SectionReader reads one section at a time from an io.Reader.
package ort
