package name

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
)

// Trails computes, for every declaration reachable through a Namespace's
// Members list, the namespace trail Lookup should start from when
// resolving an identifier written inside that declaration's body. A
// declaration absent from the result (including every Namespace's own
// top-level siblings) resolves from the empty trail — source root.
//
// This walks Namespace.Members rather than Path prefixes: Path encodes
// parse-tree nesting (every node, down to individual expressions, gets an
// element), not namespace membership, and a member flushed up by
// parser.Context.nested keeps its own top-level Source.Children path
// regardless of how deep its syntactic namespace nesting was (every
// node stays reachable by path from its source's flat child list).
func Trails(schema *assemble.Schema) map[ast.Path][]string {
	trails := map[ast.Path][]string{}
	for sourceID := range schema.Sources {
		src := schema.Sources[sourceID]
		for _, n := range src.Children {
			if ns, ok := n.(ast.Namespace); ok {
				walkNamespace(schema, ns, nil, trails)
			}
		}
	}
	return trails
}

func walkNamespace(schema *assemble.Schema, ns ast.Namespace, parentTrail []string, trails map[ast.Path][]string) {
	trail := append(append([]string(nil), parentTrail...), ns.Name)
	for _, memberPath := range ns.Members {
		trails[memberPath] = trail
		member, ok := schema.FindByPath(memberPath)
		if !ok {
			continue
		}
		if childNS, ok := member.(ast.Namespace); ok {
			walkNamespace(schema, childNS, trail, trails)
		}
	}
}
