package assemble

import (
	"fmt"
	"sort"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
)

// Build indexes sources into a Schema. builtinSourceIDs marks which source
// ids were loaded from built-in paths rather than the user's own files;
// mainSourceID is the entry-point source. Sources are indexed in ascending
// source-id order, which is source-load order — "first by source
// order" is well-defined because of it.
func Build(sources []*ast.Source, mainSourceID uint32, builtinSourceIDs map[uint32]bool, collector *diag.Collector) *Schema {
	ordered := append([]*ast.Source(nil), sources...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	s := &Schema{
		Sources:  make(map[uint32]*ast.Source, len(ordered)),
		bySource: make(map[uint32]*SourceReferences, len(ordered)),
		References: SchemaReferences{
			ConfigsByKeyword: map[string][]ast.Path{},
			MainSource:       mainSourceID,
		},
	}

	for _, src := range ordered {
		s.Sources[src.ID] = src
		refs := indexSource(src)
		s.bySource[src.ID] = refs
		s.References.merge(refs)

		if builtinSourceIDs[src.ID] {
			s.References.BuiltinSources = append(s.References.BuiltinSources, src.ID)
		} else {
			s.References.UserSources = append(s.References.UserSources, src.ID)
		}
	}

	classifyConfigs(s, ordered, collector)
	return s
}

// indexSource walks one source's children, grouping paths by declaration
// kind. Declarations nested inside a Namespace or HandlerGroup appear here
// too (parser.Context.nested flushes them into Source.Children), so this
// switch must stay exhaustive over every ast.Kind a source's children can
// hold.
func indexSource(src *ast.Source) *SourceReferences {
	refs := &SourceReferences{}
	for _, n := range src.Children {
		switch n.Kind() {
		case ast.KindConfig:
			refs.Configs = append(refs.Configs, n.Path())
		case ast.KindConstant:
			refs.Constants = append(refs.Constants, n.Path())
		case ast.KindEnum:
			refs.Enums = append(refs.Enums, n.Path())
		case ast.KindModel:
			refs.Models = append(refs.Models, n.Path())
		case ast.KindInterface:
			refs.Interfaces = append(refs.Interfaces, n.Path())
		case ast.KindDataSet:
			refs.DataSets = append(refs.DataSets, n.Path())
		case ast.KindNamespace:
			refs.Namespaces = append(refs.Namespaces, n.Path())
		case ast.KindMiddleware:
			refs.Middlewares = append(refs.Middlewares, n.Path())
		case ast.KindHandlerGroup:
			refs.HandlerGroups = append(refs.HandlerGroups, n.Path())
		case ast.KindHandlerDeclaration:
			refs.Handlers = append(refs.Handlers, n.Path())
		case ast.KindHandlerTemplateDeclaration:
			refs.HandlerTemplates = append(refs.HandlerTemplates, n.Path())
		case ast.KindDecoratorDeclaration:
			refs.Decorators = append(refs.Decorators, n.Path())
		case ast.KindPipelineItemDeclaration:
			refs.PipelineItems = append(refs.PipelineItems, n.Path())
		case ast.KindStructDeclaration:
			refs.Structs = append(refs.Structs, n.Path())
		}
	}
	return refs
}

// classifyConfigs groups every Config node by keyword and enforces that at
// most one server/debug/test config exists schema-wide — duplicates
// produce a diagnostic and the first by source order is kept.
func classifyConfigs(s *Schema, ordered []*ast.Source, collector *diag.Collector) {
	var all []ast.Config
	for _, src := range ordered {
		for _, n := range src.Children {
			if cfg, ok := n.(ast.Config); ok {
				all = append(all, cfg)
			}
		}
	}

	for _, cfg := range all {
		s.References.ConfigsByKeyword[cfg.Keyword] = append(s.References.ConfigsByKeyword[cfg.Keyword], cfg.Path())
	}

	keepFirst := func(keyword string, dst *ast.Path) {
		var first *ast.Config
		for i := range all {
			if all[i].Keyword != keyword {
				continue
			}
			if first == nil {
				first = &all[i]
				*dst = first.Path()
				continue
			}
			collector.Collect(diag.NewIssue(diag.Error, diag.EMultipleLifecycleFlags,
				fmt.Sprintf("at most one %s config", keyword)).
				WithSpan(all[i].Span()).
				WithRelated(location.RelatedInfo{
					Span:    first.Span(),
					Message: fmt.Sprintf("first %s config declared here", keyword),
				}).Build())
		}
	}

	keepFirst(configKeywordServer, &s.References.Server)
	keepFirst(configKeywordDebug, &s.References.Debug)
	keepFirst(configKeywordTest, &s.References.Test)
}
