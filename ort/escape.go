package ort

import (
	"strings"
)

// ============================================================
// Escape Processing
// ============================================================
//
// A backslash always consumes the character after it. The tokenizer uses
// the same rule so that escaped punctuation never splits or nests:
//
//   \\ \, \( \) \[ \]   the character itself
//   \n \t \r            LF, TAB, CR
//   \x (anything else)  x
//   trailing \          a literal backslash

// unescapeTable maps the character after a backslash to its output for
// the sequences that do not simply pass the character through.
var unescapeTable = map[byte]byte{
	'n': '\n',
	't': '\t',
	'r': '\r',
}

// escapeTable maps characters that must be escaped on output to the
// character written after the backslash.
var escapeTable = map[byte]byte{
	'\\': '\\',
	',':  ',',
	'(':  '(',
	')':  ')',
	'[':  '[',
	']':  ']',
	':':  ':',
	'\n': 'n',
	'\t': 't',
	'\r': 'r',
}

// Unescape resolves backslash sequences in a raw scalar token. The second
// result reports whether any escape sequence was consumed.
func Unescape(raw string) (string, bool) {
	i := strings.IndexByte(raw, '\\')
	if i < 0 {
		return raw, false
	}

	var b strings.Builder
	b.Grow(len(raw))
	b.WriteString(raw[:i])

	escaped := false
	for ; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			// Trailing lone backslash is literal
			b.WriteByte('\\')
			break
		}
		i++
		escaped = true
		next := raw[i]
		if out, ok := unescapeTable[next]; ok {
			b.WriteByte(out)
		} else {
			b.WriteByte(next)
		}
	}

	return b.String(), escaped
}

// Escape returns s written so that Unescape reproduces it and no
// character in it acts as structure: separators, delimiters, colons,
// control characters, a leading '#' and leading or trailing whitespace
// are all escaped.
func Escape(s string) string {
	if !needsEscape(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	writeEscaped(&b, s)
	return b.String()
}

func needsEscape(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '#' || isSpace(s[0]) || isSpace(s[len(s)-1]) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if _, ok := escapeTable[s[i]]; ok {
			return true
		}
	}
	return false
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if out, ok := escapeTable[c]; ok {
			b.WriteByte('\\')
			b.WriteByte(out)
			continue
		}
		if (i == 0 && (c == '#' || isSpace(c))) || (i == len(s)-1 && isSpace(c)) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// trimToken trims horizontal whitespace from both ends of a token, keeping
// a trailing whitespace character that is escaped by an unpaired
// backslash.
func trimToken(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		if escapedAt(s[start:], end-1-start) {
			break
		}
		end--
	}
	return s[start:end]
}

// escapedAt reports whether the byte at index i is preceded by an odd run
// of backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
