package diag

import "github.com/HeKe007/teo-parser/location"

// SourceProvider supplies source content for excerpt rendering and for
// precise LSP UTF-16 offset conversion. Implementations return (nil, false)
// when content for a span is unavailable.
type SourceProvider interface {
	Content(span location.Span) ([]byte, bool)
}

// LineIndexProvider is an optional SourceProvider extension for fast
// byte-offset-to-line lookups, avoiding a full content scan per diagnostic.
type LineIndexProvider interface {
	LineStartByte(source location.SourceID, line int) (int, bool)
}

// ByteFallback controls LSP position conversion when a span's byte offsets
// are unknown (common for spans built from a grammar that only tracks
// line/column).
type ByteFallback uint8

const (
	// ByteFallbackOmit drops diagnostics whose LSP position cannot be
	// computed precisely. This is the default.
	ByteFallbackOmit ByteFallback = iota

	// ByteFallbackApproximate uses Column-1 as the UTF-16 offset. Correct
	// for ASCII/BMP source text, approximate otherwise.
	ByteFallbackApproximate
)

type rendererConfig struct {
	provider     SourceProvider
	source       string
	byteFallback ByteFallback
}

// RendererOption configures a [Renderer].
type RendererOption func(*rendererConfig)

// WithSourceProvider attaches a source content provider, used for excerpts
// and exact LSP offset conversion. A nil provider degrades gracefully.
func WithSourceProvider(p SourceProvider) RendererOption {
	return func(c *rendererConfig) { c.provider = p }
}

// WithDiagnosticSource sets the LSP Diagnostic.source field (default
// "teo-parser").
func WithDiagnosticSource(name string) RendererOption {
	return func(c *rendererConfig) { c.source = name }
}

// WithByteFallback sets the LSP position fallback strategy.
func WithByteFallback(fb ByteFallback) RendererOption {
	return func(c *rendererConfig) { c.byteFallback = fb }
}

// Renderer formats [Result] and [Issue] values for external consumption:
// JSON (diag/json.go) and LSP (diag/lsp.go).
type Renderer struct {
	cfg rendererConfig
}

// NewRenderer builds a Renderer with the given options.
func NewRenderer(opts ...RendererOption) *Renderer {
	cfg := rendererConfig{source: "teo-parser", byteFallback: ByteFallbackOmit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Renderer{cfg: cfg}
}
