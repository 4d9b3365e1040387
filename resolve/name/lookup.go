package name

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
)

// ImportResolver turns one source's raw `import "path"` text into the
// numeric id of the source it names. Path resolution (joining against the
// importing file's directory, built-in search roots, and so on) is a
// loader concern; Lookup only needs the answer.
type ImportResolver interface {
	ResolveImportSourceID(fromSource uint32, importPath string) (uint32, bool)
}

// builtinNamespace is prepended to the trail when the built-in fallback
// kicks in: built-ins declare everything under `namespace std`.
var builtinNamespace = []string{"std"}

// Lookup resolves a dotted identifierPath referenced from namespaceTrail
// (the enclosing namespace chain, outermost first) inside startSourceID.
//
// It walks the trail from its full length down to empty, trying
// trail[:i]++identifierPath against startSourceID's declarations at each
// step, then follows imports recursively guarded by an
// examined-sources set to make import cycles terminate
// rather than loop, then finally retries the whole search against every
// built-in source with "std" prepended to the trail (step 4).
func Lookup(
	schema *assemble.Schema,
	resolver ImportResolver,
	startSourceID uint32,
	namespaceTrail []string,
	identifierPath []string,
	filter Filter,
	availability ast.Availability,
) (ast.Node, bool) {
	examined := map[uint32]bool{}
	if n, ok := lookupFromSource(schema, resolver, startSourceID, namespaceTrail, identifierPath, filter, availability, examined); ok {
		return n, true
	}

	for _, builtinID := range schema.References.BuiltinSources {
		trail := append(append([]string(nil), builtinNamespace...), namespaceTrail...)
		builtinExamined := map[uint32]bool{}
		if n, ok := lookupFromSource(schema, resolver, builtinID, trail, identifierPath, filter, availability, builtinExamined); ok {
			return n, true
		}
	}

	return nil, false
}

func lookupFromSource(
	schema *assemble.Schema,
	resolver ImportResolver,
	sourceID uint32,
	trail []string,
	identifierPath []string,
	filter Filter,
	availability ast.Availability,
	examined map[uint32]bool,
) (ast.Node, bool) {
	if examined[sourceID] {
		return nil, false
	}
	examined[sourceID] = true

	src, ok := schema.Sources[sourceID]
	if !ok {
		return nil, false
	}

	for i := len(trail); i >= 0; i-- {
		candidate := append(append([]string(nil), trail[:i]...), identifierPath...)
		if n, ok := searchChildren(schema, src.Children, candidate, filter, availability); ok {
			return n, true
		}
	}

	// Imports are searched with the original trail intact: a reference
	// written inside `namespace app` keeps trying app-qualified names in
	// every imported source too, not just at their roots.
	for _, imp := range src.Imports {
		importedID, ok := resolver.ResolveImportSourceID(sourceID, imp.ImportPath)
		if !ok {
			continue
		}
		if n, ok := lookupFromSource(schema, resolver, importedID, trail, identifierPath, filter, availability, examined); ok {
			return n, true
		}
	}

	return nil, false
}

// searchChildren matches path against children, descending into Namespace
// members (resolved back to nodes via Schema.FindByPath) for every path
// segment but the last.
func searchChildren(schema *assemble.Schema, children []ast.Node, path []string, filter Filter, availability ast.Availability) (ast.Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	head, rest := path[0], path[1:]

	for _, n := range children {
		declared, ok := declaredName(n)
		if !ok || declared != head {
			continue
		}

		if len(rest) == 0 {
			if filter != nil && filter(n.Kind()) && isAvailable(n, availability) {
				return n, true
			}
			continue
		}

		ns, ok := n.(ast.Namespace)
		if !ok {
			continue
		}
		members := resolveMembers(schema, ns.Members)
		if found, ok := searchChildren(schema, members, rest, filter, availability); ok {
			return found, true
		}
	}

	return nil, false
}

func resolveMembers(schema *assemble.Schema, members []ast.Path) []ast.Node {
	nodes := make([]ast.Node, 0, len(members))
	for _, p := range members {
		if n, ok := schema.FindByPath(p); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
