package ort

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

// MaxLineSize bounds a single physical line read from a stream (64 MiB).
const MaxLineSize = 64 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Line is one preprocessed content line with its 1-based physical line
// number.
type Line struct {
	Number int
	Text   string
}

// lineSource yields content lines: BOM stripped, line endings
// normalized, whitespace trimmed, blank and comment lines dropped.
type lineSource struct {
	scanner *bufio.Scanner
	number  int
}

func newLineSource(r io.Reader, maxLine int) *lineSource {
	sc := bufio.NewScanner(r)
	initial := 64 * 1024
	if maxLine < initial {
		initial = maxLine
	}
	sc.Buffer(make([]byte, 0, initial), maxLine)
	sc.Split(scanLines)
	return &lineSource{scanner: sc}
}

// next returns the next content line, or io.EOF.
func (ls *lineSource) next() (Line, error) {
	for ls.scanner.Scan() {
		ls.number++
		raw := ls.scanner.Bytes()
		if ls.number == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}

		if !utf8.Valid(raw) {
			return Line{}, &EncodingError{
				Location: Location{Line: ls.number},
				Offset:   invalidUTF8Offset(raw),
			}
		}

		text := trimToken(string(raw))
		if text == "" || text[0] == '#' {
			continue
		}
		return Line{Number: ls.number, Text: text}, nil
	}

	if err := ls.scanner.Err(); err != nil {
		return Line{}, err
	}
	return Line{}, io.EOF
}

// preprocess materializes every content line of data.
func preprocess(data []byte) ([]Line, error) {
	ls := newLineSource(bytes.NewReader(data), len(data)+4096)

	var lines []Line
	for {
		line, err := ls.next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r\n" and a lone
// "\r" as line terminators.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': need one more byte to tell "\r\n" from a lone "\r"
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
