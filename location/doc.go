// Package location is the ambient foundation tier: every other package
// refers to source text through SourceID, Position, and Span rather than
// raw file paths and offsets, so the rest of the analyzer never has to care
// whether a source came from disk, an embedded builtin, or an LSP buffer.
package location
