// Package query is the read-only façade over a resolved schema:
// path, name, and position lookups plus per-kind enumerations. It
// contains no analysis logic of its own — go-to-definition and
// completion combine these span tests with the side tables the
// resolvers already wrote.
package query

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/resolve/name"
)

// FindTopByPath returns the node a Path identifies, forwarding to
// assemble.Schema.FindByPath (see that method's complexity note).
func FindTopByPath(s *assemble.Schema, p ast.Path) (ast.Node, bool) {
	return s.FindByPath(p)
}

// FindTopByName returns the first declaration named name, searching user
// sources in source order before built-ins — the same precedence the name
// resolver's lookup gives.
func FindTopByName(s *assemble.Schema, declName string) (ast.Node, bool) {
	for _, ids := range [][]uint32{s.References.UserSources, s.References.BuiltinSources} {
		for _, id := range ids {
			src, ok := s.Sources[id]
			if !ok {
				continue
			}
			for _, n := range src.Children {
				if declared, ok := name.DeclaredName(n); ok && declared == declName {
					return n, true
				}
			}
		}
	}
	return nil, false
}

// FindNodeByStringPath resolves a dotted declaration path ("app.User"),
// descending through namespaces by name. The search order matches
// FindTopByName's.
func FindNodeByStringPath(s *assemble.Schema, parts []string) (ast.Node, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	for _, ids := range [][]uint32{s.References.UserSources, s.References.BuiltinSources} {
		for _, id := range ids {
			src, ok := s.Sources[id]
			if !ok {
				continue
			}
			if n, ok := descend(s, src.Children, parts); ok {
				return n, true
			}
		}
	}
	return nil, false
}

func descend(s *assemble.Schema, children []ast.Node, parts []string) (ast.Node, bool) {
	head, rest := parts[0], parts[1:]
	for _, n := range children {
		declared, ok := name.DeclaredName(n)
		if !ok || declared != head {
			continue
		}
		if len(rest) == 0 {
			return n, true
		}
		ns, ok := n.(ast.Namespace)
		if !ok {
			continue
		}
		members := make([]ast.Node, 0, len(ns.Members))
		for _, p := range ns.Members {
			if member, ok := s.FindByPath(p); ok {
				members = append(members, member)
			}
		}
		if found, ok := descend(s, members, rest); ok {
			return found, true
		}
	}
	return nil, false
}

// SourceAtPath returns the source a path belongs to.
func SourceAtPath(s *assemble.Schema, p ast.Path) (*ast.Source, bool) {
	src, ok := s.Sources[p.SourceID()]
	return src, ok
}

// nodesAt resolves a path list back to its nodes, dropping any path the
// schema no longer answers for (which cannot happen for a schema the
// parser built; the drop is defensive, not load-bearing).
func nodesAt(s *assemble.Schema, paths []ast.Path) []ast.Node {
	out := make([]ast.Node, 0, len(paths))
	for _, p := range paths {
		if n, ok := s.FindByPath(p); ok {
			out = append(out, n)
		}
	}
	return out
}

// Per-kind enumerations over the schema-wide index.

func Configs(s *assemble.Schema) []ast.Node       { return nodesAt(s, s.References.Configs) }
func Constants(s *assemble.Schema) []ast.Node     { return nodesAt(s, s.References.Constants) }
func Enums(s *assemble.Schema) []ast.Node         { return nodesAt(s, s.References.Enums) }
func Models(s *assemble.Schema) []ast.Node        { return nodesAt(s, s.References.Models) }
func Interfaces(s *assemble.Schema) []ast.Node    { return nodesAt(s, s.References.Interfaces) }
func DataSets(s *assemble.Schema) []ast.Node      { return nodesAt(s, s.References.DataSets) }
func Namespaces(s *assemble.Schema) []ast.Node    { return nodesAt(s, s.References.Namespaces) }
func Middlewares(s *assemble.Schema) []ast.Node   { return nodesAt(s, s.References.Middlewares) }
func Handlers(s *assemble.Schema) []ast.Node      { return nodesAt(s, s.References.Handlers) }
func Decorators(s *assemble.Schema) []ast.Node    { return nodesAt(s, s.References.Decorators) }
func PipelineItems(s *assemble.Schema) []ast.Node { return nodesAt(s, s.References.PipelineItems) }
func Structs(s *assemble.Schema) []ast.Node       { return nodesAt(s, s.References.Structs) }

// Server, Debug, and Test return the unique lifecycle config of that kind,
// ok=false if the schema declares none.
func Server(s *assemble.Schema) (ast.Config, bool) { return configAt(s, s.References.Server) }
func Debug(s *assemble.Schema) (ast.Config, bool)  { return configAt(s, s.References.Debug) }
func Test(s *assemble.Schema) (ast.Config, bool)   { return configAt(s, s.References.Test) }

func configAt(s *assemble.Schema, p ast.Path) (ast.Config, bool) {
	if p.IsZero() {
		return ast.Config{}, false
	}
	n, ok := s.FindByPath(p)
	if !ok {
		return ast.Config{}, false
	}
	cfg, ok := n.(ast.Config)
	return cfg, ok
}
