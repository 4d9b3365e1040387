package lsp

import (
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/loader"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/query"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := URIToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	path = filepath.Clean(path)

	analysis, ok := s.workspace.Analysis(path)
	if !ok {
		return nil, nil
	}
	sourceID, ok := analysis.SourceIDs[path]
	if !ok {
		return nil, nil
	}

	pos := fromLSPPosition(params.Position)
	targets := JumpToDefinition(analysis, sourceID, pos)

	locations := make([]protocol.Location, 0, len(targets))
	for _, target := range targets {
		if loc, ok := spanToLocation(target.Span()); ok {
			locations = append(locations, loc)
		}
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

// JumpToDefinition resolves the declaration(s) the position refers to:
// the innermost node chain at pos is walked outward, and the first node
// carrying a reference — a resolved type expression, an identifier path,
// a decorator application — is traced back to its declaration through the
// side tables the resolvers wrote.
func JumpToDefinition(analysis *loader.Analysis, sourceID uint32, pos location.Position) []ast.Node {
	chain := query.NodeChain(analysis.Schema, sourceID, pos)
	if len(chain) == 0 {
		return nil
	}
	trail := analysis.Resolver.TrailOf(chain[0].Path())

	for i := len(chain) - 1; i >= 0; i-- {
		switch v := chain[i].(type) {
		case ast.TypeExprNode:
			if target, ok := definitionOfType(analysis, v); ok {
				return []ast.Node{target}
			}
		case ast.Expression:
			if v.ExprKind == ast.ExprIdentifierPath {
				if target, ok := name.Lookup(analysis.Schema, analysis.Imports, sourceID, trail, v.IdentifierPath, anyDeclaration, ast.AvailabilityDefault); ok {
					return []ast.Node{target}
				}
			}
		case ast.Decorator:
			if target, ok := name.Lookup(analysis.Schema, analysis.Imports, sourceID, trail, []string{v.Name}, name.CallableReference, ast.AvailabilityDefault); ok {
				return []ast.Node{target}
			}
		}
	}
	return nil
}

// anyDeclaration accepts every kind: definition lookup is not restricted
// to a reference position's expected family the way resolution is.
var anyDeclaration = func(ast.Kind) bool { return true }

func definitionOfType(analysis *loader.Analysis, n ast.TypeExprNode) (ast.Node, bool) {
	if !n.Resolved.IsSet() {
		return nil, false
	}
	t, ok := n.Resolved.Get().Opaque.(typesys.Type)
	if !ok {
		return nil, false
	}
	ref, ok := t.Reference()
	if !ok {
		return nil, false
	}
	p, ok := ast.ParsePath(ref.Path)
	if !ok {
		return nil, false
	}
	return analysis.Schema.FindByPath(p)
}

// fromLSPPosition converts an LSP 0-based position to a 1-based
// location.Position. The character offset is treated as a column — exact
// for ASCII/BMP text, approximate otherwise, matching the renderer's
// ByteFallbackApproximate contract.
func fromLSPPosition(pos protocol.Position) location.Position {
	return location.Position{Line: int(pos.Line) + 1, Column: int(pos.Character) + 1, Byte: -1}
}

func spanToLocation(span location.Span) (protocol.Location, bool) {
	if span.IsZero() || !span.Start.IsKnown() {
		return protocol.Location{}, false
	}
	cp, ok := span.Source.CanonicalPath()
	if !ok {
		return protocol.Location{}, false
	}
	return protocol.Location{
		URI:   PathToURI(cp.String()),
		Range: spanToRange(span),
	}, true
}

func spanToRange(span location.Span) protocol.Range {
	start := protocol.Position{Line: uint32(span.Start.Line - 1), Character: uint32(span.Start.Column - 1)}
	end := start
	if span.End.IsKnown() {
		end = protocol.Position{Line: uint32(span.End.Line - 1), Character: uint32(span.End.Column - 1)}
	}
	return protocol.Range{Start: start, End: end}
}
