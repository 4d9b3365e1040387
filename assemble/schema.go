// Package assemble walks the finished AST of every parsed source into the
// schema-wide index the rest of the analyzer queries: which paths are
// configs, enums, models, …, which sources are built-in vs user vs the
// main entry point, and which `server`/`debug`/`test` config is the one
// the schema actually uses.
package assemble

import "github.com/HeKe007/teo-parser/ast"

// SourceReferences indexes one source's top-level (and flushed-nested, per
// parser.Context.nested) declarations by kind, in source order.
type SourceReferences struct {
	Configs          []ast.Path
	Constants        []ast.Path
	Enums            []ast.Path
	Models           []ast.Path
	Interfaces       []ast.Path
	DataSets         []ast.Path
	Namespaces       []ast.Path
	Middlewares      []ast.Path
	HandlerGroups    []ast.Path
	Handlers         []ast.Path
	HandlerTemplates []ast.Path
	Decorators       []ast.Path
	PipelineItems    []ast.Path
	Structs          []ast.Path
}

func (r *SourceReferences) merge(other *SourceReferences) {
	r.Configs = append(r.Configs, other.Configs...)
	r.Constants = append(r.Constants, other.Constants...)
	r.Enums = append(r.Enums, other.Enums...)
	r.Models = append(r.Models, other.Models...)
	r.Interfaces = append(r.Interfaces, other.Interfaces...)
	r.DataSets = append(r.DataSets, other.DataSets...)
	r.Namespaces = append(r.Namespaces, other.Namespaces...)
	r.Middlewares = append(r.Middlewares, other.Middlewares...)
	r.HandlerGroups = append(r.HandlerGroups, other.HandlerGroups...)
	r.Handlers = append(r.Handlers, other.Handlers...)
	r.HandlerTemplates = append(r.HandlerTemplates, other.HandlerTemplates...)
	r.Decorators = append(r.Decorators, other.Decorators...)
	r.PipelineItems = append(r.PipelineItems, other.PipelineItems...)
	r.Structs = append(r.Structs, other.Structs...)
}

// SchemaReferences is the schema-wide index: the union of every source's
// SourceReferences, plus the config classification and the
// built-in/user/main source partition.
type SchemaReferences struct {
	SourceReferences

	// ConfigsByKeyword groups config paths by their declaring keyword
	// (server, debug, test, connector, client, entity).
	ConfigsByKeyword map[string][]ast.Path

	// Server, Debug, Test hold the first (by source order) config
	// declared with that keyword. Zero (ast.Path.IsZero()) if none.
	Server ast.Path
	Debug  ast.Path
	Test   ast.Path

	BuiltinSources []uint32
	UserSources    []uint32
	MainSource     uint32
}

// Schema is the assembled, read-only view over a set of parsed sources.
// Populated once by Build; resolution writes only into nodes' own
// ResolvedCells, never back into Schema itself.
type Schema struct {
	Sources    map[uint32]*ast.Source
	References SchemaReferences

	bySource map[uint32]*SourceReferences
}

// SourceReferencesFor returns the per-file index for sourceID, or nil if
// sourceID is not part of this schema.
func (s *Schema) SourceReferencesFor(sourceID uint32) *SourceReferences {
	return s.bySource[sourceID]
}

// FindByPath looks up the top-level node a Path identifies. O(n) in the
// children of path's source, matching query.FindTopByPath, which
// forwards here rather than keeping a second index.
func (s *Schema) FindByPath(path ast.Path) (ast.Node, bool) {
	src, ok := s.Sources[path.SourceID()]
	if !ok {
		return nil, false
	}
	for _, n := range src.Children {
		if n.Path() == path {
			return n, true
		}
	}
	return nil, false
}

const (
	configKeywordServer = "server"
	configKeywordDebug  = "debug"
	configKeywordTest   = "test"
)
