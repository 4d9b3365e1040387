// Package loader is the top-level entry point: it reads the main
// source and everything it transitively imports, expands built-in source
// globs, parses each file, assembles the schema index, and runs both
// resolver sweeps. Schema problems come back as diagnostics; the error
// return is reserved for host faults — an unreadable entry file, a
// grammar adapter failure.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/internal/config"
	"github.com/HeKe007/teo-parser/internal/trace"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/parser"
	"github.com/HeKe007/teo-parser/resolve/argument"
	"github.com/HeKe007/teo-parser/resolve/decl"
	"github.com/HeKe007/teo-parser/resolve/name"
)

// schemaFileExt is appended to extension-less import paths before lookup.
const schemaFileExt = ".teo"

// FileReader abstracts file content access so hosts (tests, editors with
// unsaved buffers) can intercept reads. Glob expansion for built-in paths
// still walks the real filesystem — patterns describe installed built-in
// trees, not editor state.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Options configures one Parse run. Zero-valued fields fall back to the
// ambient defaults internal/config loads from the environment.
type Options struct {
	// Syntax produces the grammar tree for one file's content. Required:
	// the concrete grammar is the host's to supply.
	Syntax Syntax

	// BuiltinPaths are glob patterns (doublestar syntax, e.g.
	// "vendor/teo-std/**/*.teo") naming built-in sources. Defaults to
	// TEO_BUILTIN_ROOTS.
	BuiltinPaths []string

	// FileReader defaults to direct os.ReadFile access.
	FileReader FileReader

	// Logger receives structured progress logging; nil disables it.
	Logger *slog.Logger

	// IssueLimit caps collected diagnostics; 0 means the TEO_ISSUE_LIMIT
	// default, which itself defaults to unlimited.
	IssueLimit int
}

// Analysis is the product of one Parse run: the assembled schema with all
// side tables written, the resolver context (shared by the language
// server for further interface-shape materialization), and the import
// graph lookups resolve against.
type Analysis struct {
	// RunID correlates this run's log records; it has no semantic effect
	// on any resolution outcome.
	RunID uuid.UUID

	Schema   *assemble.Schema
	Resolver *decl.Context
	Imports  name.ImportResolver

	// SourceIDs maps each loaded file's canonical path string to its
	// numeric source id.
	SourceIDs map[string]uint32
}

// Parse runs the whole front end over mainPath and returns the analysis
// plus its diagnostics.
func Parse(ctx context.Context, mainPath string, opts Options) (*Analysis, diag.Result, error) {
	if opts.Syntax == nil {
		return nil, diag.OK(), fmt.Errorf("loader.Parse: Options.Syntax is required")
	}

	ambient := config.Load()
	reader := opts.FileReader
	if reader == nil {
		reader = osFileReader{}
	}
	builtinPatterns := opts.BuiltinPaths
	if builtinPatterns == nil {
		builtinPatterns = ambient.BuiltinRoots
	}
	issueLimit := opts.IssueLimit
	if issueLimit == 0 {
		issueLimit = ambient.IssueLimit
	}

	runID := uuid.New()
	logger := opts.Logger
	trace.Info(ctx, logger, "analysis started",
		slog.String("run_id", runID.String()),
		slog.String("main", mainPath))

	collector := diag.NewCollector(issueLimit)
	ld := &loadState{
		ctx:       ctx,
		syntax:    opts.Syntax,
		reader:    reader,
		logger:    logger,
		collector: collector,
		sourceIDs: map[string]uint32{},
		imports:   &importGraph{edges: map[uint32]map[string]uint32{}},
	}

	mainAbs, err := filepath.Abs(mainPath)
	if err != nil {
		return nil, collector.Result(), fmt.Errorf("resolve main path %q: %w", mainPath, err)
	}
	if _, err := ld.loadFile(mainAbs); err != nil {
		return nil, collector.Result(), err
	}

	builtinFiles, err := expandBuiltinPatterns(builtinPatterns)
	if err != nil {
		return nil, collector.Result(), err
	}
	builtinIDs := map[uint32]bool{}
	for _, builtinPath := range builtinFiles {
		id, err := ld.loadFile(builtinPath)
		if err != nil {
			trace.Warn(ctx, logger, "built-in source unreadable",
				slog.String("run_id", runID.String()),
				slog.String("path", builtinPath),
				slog.String("error", err.Error()))
			continue
		}
		builtinIDs[id] = true
	}

	schema := assemble.Build(ld.sources, 0, builtinIDs, collector)
	resolver := decl.Resolve(schema, ld.imports, collector)
	argument.Sweep(resolver)

	trace.Info(ctx, logger, "analysis finished",
		slog.String("run_id", runID.String()),
		slog.Int("sources", len(ld.sources)),
		slog.Int("issues", collector.Len()))

	return &Analysis{
		RunID:     runID,
		Schema:    schema,
		Resolver:  resolver,
		Imports:   ld.imports,
		SourceIDs: ld.sourceIDs,
	}, collector.Result(), nil
}

func expandBuiltinPatterns(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand builtin pattern %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

type loadState struct {
	ctx       context.Context
	syntax    Syntax
	reader    FileReader
	logger    *slog.Logger
	collector *diag.Collector

	sources   []*ast.Source
	sourceIDs map[string]uint32
	nextID    uint32
	imports   *importGraph
}

// loadFile reads, parses, and registers one file, then follows its
// imports depth-first. A file already loaded returns its existing id —
// that, plus the edge map written before recursion, is what makes import
// cycles terminate instead of loop.
func (l *loadState) loadFile(absPath string) (uint32, error) {
	key := filepath.Clean(absPath)
	if id, ok := l.sourceIDs[key]; ok {
		return id, nil
	}
	return l.loadNewFile(key)
}

func (l *loadState) loadNewFile(key string) (uint32, error) {
	content, err := l.reader.ReadFile(key)
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", key, err)
	}

	locID, err := location.SourceIDFromPath(key)
	if err != nil {
		return 0, fmt.Errorf("source id for %q: %w", key, err)
	}

	gsrc, err := l.syntax.Parse(l.ctx, content)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", key, err)
	}

	id := l.nextID
	l.nextID++
	l.sourceIDs[key] = id

	src := parser.NewParser(l.collector).Parse(id, locID, gsrc)
	l.sources = append(l.sources, src)

	trace.Debug(l.ctx, l.logger, "source parsed",
		slog.String("path", key),
		slog.Int("source_id", int(id)),
		slog.Int("declarations", len(src.Children)))

	for _, imp := range src.Imports {
		l.followImport(key, id, imp)
	}
	return id, nil
}

// followImport resolves one import against the importing file's directory
// (import paths are relative to the importing file). An extension-less
// path is tried with the schema extension first and then literally; a
// path with an extension is tried only as written. An
// already-loaded target just records the edge — the registration done in
// loadNewFile before imports are followed is what makes a cycle find its
// origin here instead of recursing forever.
func (l *loadState) followImport(fromPath string, fromID uint32, imp ast.Import) {
	base := filepath.Join(filepath.Dir(fromPath), imp.ImportPath)
	candidates := []string{base}
	if filepath.Ext(base) == "" {
		candidates = []string{base + schemaFileExt, base}
	}

	for _, candidate := range candidates {
		if id, ok := l.sourceIDs[filepath.Clean(candidate)]; ok {
			l.imports.record(fromID, imp.ImportPath, id)
			return
		}
	}

	var lastErr error
	for _, candidate := range candidates {
		id, err := l.loadNewFile(filepath.Clean(candidate))
		if err == nil {
			l.imports.record(fromID, imp.ImportPath, id)
			return
		}
		lastErr = err
	}
	l.collector.Collect(diag.NewIssue(diag.Error, diag.EImportNotFound,
		fmt.Sprintf("cannot resolve import %q: %v", imp.ImportPath, lastErr)).
		WithSpan(imp.Span()).Build())
}

// importGraph is the name.ImportResolver Parse builds as it follows
// imports: one edge per (importing source, import path text).
type importGraph struct {
	edges map[uint32]map[string]uint32
}

func (g *importGraph) record(from uint32, importPath string, to uint32) {
	if g.edges[from] == nil {
		g.edges[from] = map[string]uint32{}
	}
	g.edges[from][importPath] = to
}

func (g *importGraph) ResolveImportSourceID(fromSource uint32, importPath string) (uint32, bool) {
	id, ok := g.edges[fromSource][importPath]
	return id, ok
}
