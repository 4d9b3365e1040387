package lsp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/internal/trace"
	"github.com/HeKe007/teo-parser/loader"
)

// Notifier sends a server-to-client notification; the server wires it to
// the active glsp connection so the workspace never holds one itself.
type Notifier func(method string, params any)

// document is one open editor buffer.
type document struct {
	version int
	text    string
}

// Workspace tracks open documents and runs the analyzer over them. Each
// analysis is a fresh loader.Parse — the compiler core is stateless
// across runs; the workspace only caches the latest analysis per
// entry document for the read-only providers to query.
type Workspace struct {
	logger *slog.Logger
	cfg    Config

	mu       sync.Mutex
	docs     map[string]document        // keyed by filesystem path
	analyses map[string]*loader.Analysis // keyed by entry document path
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(logger *slog.Logger, cfg Config) *Workspace {
	return &Workspace{
		logger:   logger,
		cfg:      cfg,
		docs:     map[string]document{},
		analyses: map[string]*loader.Analysis{},
	}
}

// DocumentOpened registers a newly opened buffer.
func (w *Workspace) DocumentOpened(path string, version int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[path] = document{version: version, text: text}
}

// DocumentChanged replaces a buffer's content.
func (w *Workspace) DocumentChanged(path string, version int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[path] = document{version: version, text: text}
}

// DocumentClosed drops a buffer and its cached analysis, clearing its
// published diagnostics.
func (w *Workspace) DocumentClosed(notify Notifier, path string) {
	w.mu.Lock()
	delete(w.docs, path)
	delete(w.analyses, path)
	w.mu.Unlock()

	if notify != nil {
		notify("textDocument/publishDiagnostics", publishParams(PathToURI(path), nil))
	}
}

// Analysis returns the most recent analysis whose entry point is path.
func (w *Workspace) Analysis(path string) (*loader.Analysis, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.analyses[path]
	return a, ok
}

// overlayReader serves open-buffer content ahead of the filesystem, so an
// analysis sees unsaved edits.
type overlayReader struct {
	w *Workspace
}

func (r overlayReader) ReadFile(path string) ([]byte, error) {
	r.w.mu.Lock()
	doc, ok := r.w.docs[filepath.Clean(path)]
	r.w.mu.Unlock()
	if ok {
		return []byte(doc.text), nil
	}
	return os.ReadFile(path)
}

// AnalyzeAndPublish reanalyzes the document at path and publishes its
// diagnostics through notify.
func (w *Workspace) AnalyzeAndPublish(notify Notifier, ctx context.Context, path string) {
	analysis, result, err := loader.Parse(ctx, path, loader.Options{
		Syntax:       w.cfg.Syntax,
		BuiltinPaths: w.cfg.BuiltinPaths,
		FileReader:   overlayReader{w: w},
		Logger:       w.logger,
	})
	if err != nil {
		trace.Error(ctx, w.logger, "analysis failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	w.mu.Lock()
	w.analyses[path] = analysis
	w.mu.Unlock()

	if notify != nil {
		w.publishDiagnostics(notify, path, result)
	}
}

func (w *Workspace) publishDiagnostics(notify Notifier, path string, result diag.Result) {
	renderer := diag.NewRenderer(
		diag.WithDiagnosticSource("teo-lsp"),
		diag.WithByteFallback(diag.ByteFallbackApproximate),
	)
	notify("textDocument/publishDiagnostics", publishParams(PathToURI(path), renderer.LSPDiagnostics(result)))
}

func publishParams(uri string, diagnostics []diag.LSPDiagnostic) map[string]any {
	if diagnostics == nil {
		diagnostics = []diag.LSPDiagnostic{}
	}
	return map[string]any{"uri": uri, "diagnostics": diagnostics}
}
