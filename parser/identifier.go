package parser

import (
	"strconv"
	"strings"

	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/internal/ident"
)

// unquote strips a leading/trailing pair of matching quote characters and
// unescapes the result. Malformed input is returned unescaped rather than
// erroring — the parser never aborts; an invalid escape surfaces
// later as a plain string containing the literal escape text.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + strings.ReplaceAll(s[1:len(s)-1], `"`, `\"`) + `"`)
	if err != nil {
		return s[1 : len(s)-1]
	}
	return unquoted
}

// identifierPath splits a dotted identifier-path node (either one token
// whose text contains dots, or a composite of "identifier" named children)
// into its component names, each NFC-normalized so lookup compares
// canonical forms.
func identifierPath(ctx *Context, n grammar.Node) []string {
	if n == nil {
		return nil
	}
	named := grammar.NamedChildren(n)
	if len(named) == 0 {
		parts := strings.Split(ctx.text(n), ".")
		for i := range parts {
			parts[i] = ident.Normalize(parts[i])
		}
		return parts
	}
	out := make([]string, 0, len(named))
	for _, child := range named {
		out = append(out, ident.Normalize(ctx.text(child)))
	}
	return out
}
