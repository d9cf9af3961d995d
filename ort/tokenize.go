package ort

import (
	"strings"
)

// DefaultMaxDepth is the nesting limit applied when ParseOptions.MaxDepth
// is zero.
const DefaultMaxDepth = 64

// splitTopLevel splits s at every byte in seps that occurs while no '(' or
// '[' is open. Open delimiters are kept on an explicit stack so a closer
// must match the most recent opener. A backslash skips the byte after it.
//
// An empty input yields a single empty token. Tokens are returned
// untrimmed.
func splitTopLevel(s string, seps string, maxDepth int) ([]string, error) {
	var tokens []string
	var stack []byte
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			i++ // escape consumes the next byte
		case '(', '[':
			stack = append(stack, c)
			if maxDepth > 0 && len(stack) > maxDepth {
				return nil, &MaxDepthExceededError{Limit: maxDepth}
			}
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != opener(c) {
				return nil, &UnbalancedDelimiterError{Offset: i, Delim: c}
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) == 0 && strings.IndexByte(seps, c) >= 0 {
				tokens = append(tokens, s[start:i])
				start = i + 1
			}
		}
	}

	if len(stack) != 0 {
		return nil, &UnbalancedDelimiterError{Offset: len(s), Delim: 0}
	}

	return append(tokens, s[start:]), nil
}

// splitFirstTopLevel splits s at the first top-level occurrence of sep.
// The boolean is false when s holds no such separator.
func splitFirstTopLevel(s string, sep byte, maxDepth int) (string, string, bool, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(', '[':
			depth++
			if maxDepth > 0 && depth > maxDepth {
				return "", "", false, &MaxDepthExceededError{Limit: maxDepth}
			}
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true, nil
			}
		}
	}
	return s, "", false, nil
}

// matchingClose returns the index of the delimiter that closes the opener
// at s[0], or -1. s must already be known to be balanced.
func matchingClose(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func opener(closer byte) byte {
	if closer == ')' {
		return '('
	}
	return '['
}

// Tokenize splits s into its top-level comma-separated tokens, untrimmed.
// It is the depth-aware split used for data lines and array or object
// bodies.
func Tokenize(s string) ([]string, error) {
	return splitTopLevel(s, ",", DefaultMaxDepth)
}
