package ort

import (
	"errors"
	"fmt"
)

// Location identifies the physical source line an error or warning refers
// to. Line is 1-based; zero means the position is unknown (for example
// when ParseValue is called directly).
type Location struct {
	Line int
	Text string
}

func (l Location) prefix() string {
	if l.Line > 0 {
		return fmt.Sprintf("ort: line %d: ", l.Line)
	}
	return "ort: "
}

func (l Location) suffix() string {
	if l.Text == "" {
		return ""
	}
	return fmt.Sprintf(" in %q", l.Text)
}

// locate fills in the line once; the innermost caller that knows the line
// wins.
func (l *Location) locate(line int, text string) {
	if l.Line == 0 {
		l.Line = line
		l.Text = text
	}
}

type locator interface {
	locate(line int, text string)
}

// withLine annotates err with a source line if it carries a Location.
func withLine(err error, line int, text string) error {
	var loc locator
	if errors.As(err, &loc) {
		loc.locate(line, text)
	}
	return err
}

// EncodingError reports input that is not valid UTF-8.
type EncodingError struct {
	Location
	Offset int // byte offset within the line
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%sinvalid UTF-8 at byte %d", e.prefix(), e.Offset)
}

// MalformedHeaderError reports a header line whose colon or field-list
// structure cannot be parsed.
type MalformedHeaderError struct {
	Location
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%smalformed header: %s%s", e.prefix(), e.Reason, e.suffix())
}

// DuplicateFieldError reports a repeated name among sibling fields of a
// header, or a repeated key inside an inline object.
type DuplicateFieldError struct {
	Location
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%sduplicate field %q%s", e.prefix(), e.Field, e.suffix())
}

// UnbalancedDelimiterError reports a '(' / '[' pair that does not close
// properly.
type UnbalancedDelimiterError struct {
	Location
	Offset int  // byte offset within the scanned token
	Delim  byte // the offending delimiter, 0 at end of input
}

func (e *UnbalancedDelimiterError) Error() string {
	if e.Delim == 0 {
		return fmt.Sprintf("%sunclosed delimiter at end of input%s", e.prefix(), e.suffix())
	}
	return fmt.Sprintf("%sunbalanced %q at offset %d%s", e.prefix(), e.Delim, e.Offset, e.suffix())
}

// FieldCountMismatchError reports a data line whose top-level token count
// differs from the section's field count.
type FieldCountMismatchError struct {
	Location
	Expected int
	Actual   int
}

func (e *FieldCountMismatchError) Error() string {
	return fmt.Sprintf("%sfield count mismatch: expected %d, got %d%s",
		e.prefix(), e.Expected, e.Actual, e.suffix())
}

// ArityMismatchError reports a positional nested object whose element
// count differs from the bound schema's child count.
type ArityMismatchError struct {
	Location
	Expected int
	Actual   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%snested object arity mismatch: expected %d, got %d%s",
		e.prefix(), e.Expected, e.Actual, e.suffix())
}

// SchemaRequiredError reports a parenthesized value that has neither a
// bound schema nor inline keys.
type SchemaRequiredError struct {
	Location
	Token string
}

func (e *SchemaRequiredError) Error() string {
	return fmt.Sprintf("%sobject %q needs a schema or inline keys%s", e.prefix(), e.Token, e.suffix())
}

// ConflictingRootError reports a document that mixes a keyless section
// with keyed sections, or has more than one keyless section.
type ConflictingRootError struct {
	Location
	Reason string
}

func (e *ConflictingRootError) Error() string {
	return fmt.Sprintf("%sconflicting root: %s%s", e.prefix(), e.Reason, e.suffix())
}

// MaxDepthExceededError reports nesting deeper than the configured limit.
type MaxDepthExceededError struct {
	Location
	Limit int
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf("%snesting exceeds maximum depth %d%s", e.prefix(), e.Limit, e.suffix())
}

// UnrepresentableError is returned by the serializer for values that have
// no ORT text form.
type UnrepresentableError struct {
	Path   string
	Reason string
}

func (e *UnrepresentableError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ort: cannot serialize %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("ort: cannot serialize: %s", e.Reason)
}

// Warning is a non-fatal diagnostic collected while parsing.
type Warning struct {
	Location
	Message string
}

func (w Warning) String() string {
	return w.prefix() + w.Message
}
