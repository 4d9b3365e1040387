package loader

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/grammar/treesitter"
)

// Syntax produces a grammar tree for one file's content. The concrete
// grammar rules are out of scope for this module; the host supplies
// them through this seam.
type Syntax interface {
	Parse(ctx context.Context, content []byte) (grammar.Source, error)
}

// SyntaxFunc adapts a plain function to Syntax.
type SyntaxFunc func(ctx context.Context, content []byte) (grammar.Source, error)

func (f SyntaxFunc) Parse(ctx context.Context, content []byte) (grammar.Source, error) {
	return f(ctx, content)
}

// TreeSitter builds a Syntax over a caller-supplied tree-sitter language —
// the grammar definition a host built with `tree-sitter generate` for the
// schema DSL.
func TreeSitter(lang *sitter.Language) Syntax {
	return SyntaxFunc(func(ctx context.Context, content []byte) (grammar.Source, error) {
		return treesitter.Parse(ctx, lang, content)
	})
}
