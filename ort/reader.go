package ort

import (
	"io"
	"strings"
)

// ============================================================
// Streaming Section Reader
// ============================================================
//
// SectionReader assembles one section at a time from an io.Reader, so
// memory is bounded by the largest section rather than the document.
// It applies the same preprocessing, binding and root-form checks as
// Parse.

// Section is one assembled section.
type Section struct {
	Key    string  // section key, empty for a keyless section
	Keyed  bool    // false for a top-level or headerless section
	Header *Header // nil for literal lines before any header
	Line   int     // header line, or first data line when headerless
	Value  *Value  // the section's contribution
	Rows   int     // number of data lines consumed
}

// SectionReader reads sections sequentially.
type SectionReader struct {
	src     *lineSource
	p       *parser
	guard   rootGuard
	pending *Line // header line read ahead of the next section
	done    bool
}

// NewSectionReader creates a streaming section reader.
func NewSectionReader(r io.Reader, opts ParseOptions) *SectionReader {
	return &SectionReader{
		src: newLineSource(r, MaxLineSize),
		p:   newParser(opts),
	}
}

// NewSectionReaderFromString creates a reader from a string.
func NewSectionReaderFromString(input string, opts ParseOptions) *SectionReader {
	return NewSectionReader(strings.NewReader(input), opts)
}

// Warnings returns the warnings collected so far.
func (sr *SectionReader) Warnings() []Warning {
	return sr.p.warnings
}

// Next reads and assembles the next section. Returns io.EOF after the
// last section.
func (sr *SectionReader) Next() (*Section, error) {
	sec, err := sr.readSection()
	if err != nil {
		return nil, err
	}

	if err := sr.p.openSection(sec); err != nil {
		return nil, err
	}
	if err := sr.guard.admit(sec); err != nil {
		return nil, err
	}

	v, err := sr.p.contribution(sec)
	if err != nil {
		return nil, err
	}

	out := &Section{
		Header: sec.header,
		Line:   sec.headerLine.Number,
		Value:  v,
		Rows:   len(sec.lines),
	}
	if sec.header != nil {
		out.Key = sec.header.Key
		out.Keyed = sec.header.Keyed
	}
	if out.Line == 0 && len(sec.lines) > 0 {
		out.Line = sec.lines[0].Number
	}
	return out, nil
}

// readSection collects the lines of the next section, keeping the
// following header line as lookahead.
func (sr *SectionReader) readSection() (*section, error) {
	if sr.done && sr.pending == nil {
		return nil, io.EOF
	}

	var sec *section
	if sr.pending != nil {
		sec = &section{headerLine: *sr.pending}
		sr.pending = nil
	}

	for !sr.done {
		line, err := sr.src.next()
		if err == io.EOF {
			sr.done = true
			break
		}
		if err != nil {
			return nil, err
		}

		if isHeaderLine(line.Text) {
			if sec != nil {
				sr.pending = &line
				return sec, nil
			}
			sec = &section{headerLine: line}
			continue
		}

		if sec == nil {
			sec = &section{}
		}
		sec.lines = append(sec.lines, line)
	}

	if sec == nil {
		return nil, io.EOF
	}
	return sec, nil
}

// ReadAll reads every remaining section into a Document.
func (sr *SectionReader) ReadAll() (*Document, error) {
	asm := &assembler{p: sr.p, rootGuard: sr.guard}

	for {
		sec, err := sr.readSection()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := sr.p.openSection(sec); err != nil {
			return nil, err
		}
		if err := asm.admit(sec); err != nil {
			return nil, err
		}
		v, err := sr.p.contribution(sec)
		if err != nil {
			return nil, err
		}
		asm.add(sec, v)
	}

	sr.guard = asm.rootGuard
	return asm.document(), nil
}
