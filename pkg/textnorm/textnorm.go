// Package textnorm canonicalizes raw text before it touches the keyspace.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Encode normalizes s to NFC and lowercases it. Every key and value that
// crosses into the store goes through Encode first, so two different
// byte sequences for the same logical string never produce different
// trie nodes.
func Encode(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// IsBlank reports whether s is empty once surrounding whitespace is
// stripped. add/remove reject blank keywords per spec.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Trim strips surrounding whitespace without touching case or normalization.
func Trim(s string) string {
	return strings.TrimSpace(s)
}
