package lsp

import (
	"path/filepath"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Formatter renders a document's canonical form. The schema formatter
// proper is an external collaborator of this module; hosts that have
// one plug it in through Config.Formatter.
type Formatter interface {
	Format(source string) (string, bool)
}

func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	if s.config.Formatter == nil {
		return nil, nil
	}
	path, err := URIToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	path = filepath.Clean(path)

	s.workspace.mu.Lock()
	doc, ok := s.workspace.docs[path]
	s.workspace.mu.Unlock()
	if !ok {
		return nil, nil
	}

	formatted, changed := s.config.Formatter.Format(doc.text)
	if !changed {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeDocumentRange(doc.text),
		NewText: formatted,
	}}, nil
}

func wholeDocumentRange(text string) protocol.Range {
	line := uint32(0)
	lastLineStart := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastLineStart = i + 1
		}
	}
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: line, Character: uint32(len(text) - lastLineStart)},
	}
}
