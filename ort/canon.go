package ort

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Canonical Scalar Encoding
// ============================================================
//
//   null      (empty)
//   bool      true | false
//   int       decimal, no leading zeros: 7, -12
//   float     decimal with a fraction, never an exponent: 1.5, 3.0
//   string    escaped; a string that would read back as a number or
//             bool gets one escape so it stays a string: \007, tr\ue

// canonInt returns the canonical integer representation.
func canonInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// canonFloat returns the canonical float representation. The second
// result is false for NaN and the infinities.
func canonFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}

// canonBool returns the canonical boolean representation.
func canonBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// canonString returns s written as a token that reads back as the string
// s. The second result is false for the empty string, which reads back as
// null.
func canonString(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if needsEscape(s) {
		return Escape(s), true
	}
	if !looksTyped(s) {
		return s, true
	}
	return forceEscape(s), true
}

// looksTyped reports whether an unescaped token s would be inferred as
// something other than a string.
func looksTyped(s string) bool {
	return isIntLiteral(s) || isFloatLiteral(s) || s == "true" || s == "false"
}

// forceEscape inserts one backslash before the first byte that passes
// through unchanged when escaped. Bytes with a table meaning (n, t, r)
// are skipped so the escape does not change the text.
func forceEscape(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || c == '\\' {
			continue
		}
		if _, special := unescapeTable[c]; special {
			continue
		}
		return s[:i] + "\\" + s[i:]
	}
	return s
}
