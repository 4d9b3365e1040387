// Package ident normalizes identifier text read from source files so that
// name resolution compares canonical forms: two spellings of the same
// identifier that differ only in Unicode composition (é as one code point
// vs e + combining accent) must resolve to the same declaration.
package ident

import "golang.org/x/text/unicode/norm"

// Normalize returns s in NFC form. ASCII input passes through untouched
// without allocating.
func Normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Equal reports whether two identifiers are the same after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
