package lsp

import (
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/query"
	"github.com/HeKe007/teo-parser/resolve/name"
)

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := URIToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	analysis, ok := s.workspace.Analysis(filepath.Clean(path))
	if !ok {
		return nil, nil
	}
	return AutoCompleteItems(analysis.Schema), nil
}

// AutoCompleteItems enumerates the declarations referable at a schema
// position. The list is assembled purely from the schema index — one
// entry per addressable declaration, labeled by declared name and
// kind-classified for the client's icons.
func AutoCompleteItems(s *assemble.Schema) []protocol.CompletionItem {
	var items []protocol.CompletionItem

	appendKind := func(nodes []ast.Node, kind protocol.CompletionItemKind) {
		for _, n := range nodes {
			declared, ok := name.DeclaredName(n)
			if !ok {
				continue
			}
			k := kind
			items = append(items, protocol.CompletionItem{Label: declared, Kind: &k})
		}
	}

	appendKind(query.Models(s), protocol.CompletionItemKindClass)
	appendKind(query.Enums(s), protocol.CompletionItemKindEnum)
	appendKind(query.Interfaces(s), protocol.CompletionItemKindInterface)
	appendKind(query.Structs(s), protocol.CompletionItemKindStruct)
	appendKind(query.Constants(s), protocol.CompletionItemKindConstant)
	appendKind(query.Decorators(s), protocol.CompletionItemKindFunction)
	appendKind(query.PipelineItems(s), protocol.CompletionItemKindFunction)
	appendKind(query.Middlewares(s), protocol.CompletionItemKindFunction)
	appendKind(query.Namespaces(s), protocol.CompletionItemKindModule)

	return items
}
