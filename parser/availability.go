package parser

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/grammar"
)

// parseAvailability reads an `availability_flags` node's named identifier
// children into an ast.Availability mask. A nil node yields the zero mask
// (caller should then fall back to the current stack top).
func parseAvailability(ctx *Context, n grammar.Node) ast.Availability {
	if n == nil {
		return 0
	}
	var names []string
	for _, child := range grammar.NamedChildren(n) {
		names = append(names, ctx.text(child))
	}
	return ast.ParseAvailability(names...)
}

// declaredAvailability returns a's mask if it parsed any flag, otherwise
// the context's current stack top.
func declaredAvailability(ctx *Context, a ast.Availability) ast.Availability {
	if a.IsZero() {
		return ctx.currentAvailability()
	}
	return a
}
