// Package lsp implements a Language Server Protocol server over the
// analyzer: go-to-definition, completion, and formatting are thin
// providers combining span lookups from the query façade with the
// resolver-written side tables — no analysis logic of their own.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// commonlog is a required dependency of github.com/tliron/glsp. It is
	// silenced in NewServer via commonlog.Configure(0, nil) because this
	// server logs through slog; the blank import of the "simple" backend
	// is required by glsp at runtime.
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple" // required backend for glsp

	"github.com/HeKe007/teo-parser/loader"
)

const serverName = "teo-lsp"

// Config holds the server configuration.
type Config struct {
	// Syntax supplies the schema DSL grammar, passed through to
	// loader.Parse. Required.
	Syntax loader.Syntax

	// BuiltinPaths are glob patterns for built-in sources; empty falls
	// back to the loader's ambient defaults.
	BuiltinPaths []string

	// Formatter overrides document formatting; nil keeps documents
	// unchanged (the formatter proper is an external collaborator).
	Formatter Formatter
}

// Server is the schema language server.
type Server struct {
	logger    *slog.Logger
	config    Config
	handler   protocol.Handler
	server    *server.Server
	workspace *Workspace

	shutdownCalled bool

	closeOnce sync.Once
	closeErr  error
}

// NewServer creates a language server. A nil logger falls back to
// slog.Default().
func NewServer(logger *slog.Logger, cfg Config) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger.With(slog.String("component", "server")),
		config:    cfg,
		workspace: NewWorkspace(logger, cfg),
	}

	commonlog.Configure(0, nil)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentFormatting: s.textDocumentFormatting,
	}

	s.server = server.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio runs the server on the stdio transport.
func (s *Server) RunStdio() error {
	if err := s.server.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

// Close closes the JSON-RPC connection, causing RunStdio to return. Safe
// to call more than once, and before RunStdio has initialized the
// connection (returns nil so the caller can retry).
func (s *Server) Close() error {
	conn := s.server.GetStdio()
	if conn == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if err := conn.Close(); err != nil {
			s.closeErr = fmt.Errorf("close connection: %w", err)
		}
	})
	return s.closeErr
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Info("initialize request received")

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		syncOpts.Change = &syncKind
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "@"},
	}

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Info("server initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.logger.Info("shutdown request received")
	s.shutdownCalled = true
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// exit follows the LSP lifecycle: exit code 0 if shutdown came first.
func (s *Server) exit(_ *glsp.Context) error {
	exitCode := 0
	if !s.shutdownCalled {
		s.logger.Warn("exit called without shutdown")
		exitCode = 1
	}
	os.Exit(exitCode)
	return nil // unreachable
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func isSchemaURI(uri string) bool {
	path, err := URIToPath(uri)
	if err != nil {
		return false
	}
	return strings.ToLower(filepath.Ext(path)) == ".teo"
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !isSchemaURI(uri) {
		return nil
	}
	path, err := URIToPath(uri)
	if err != nil {
		return nil
	}
	s.workspace.DocumentOpened(filepath.Clean(path), int(params.TextDocument.Version), params.TextDocument.Text)
	s.workspace.AnalyzeAndPublish(s.notifier(ctx), context.Background(), filepath.Clean(path))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !isSchemaURI(uri) {
		return nil
	}
	path, err := URIToPath(uri)
	if err != nil {
		return nil
	}

	// Full sync only: keep the last whole-document change.
	for _, rawChange := range params.ContentChanges {
		if change, ok := rawChange.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.workspace.DocumentChanged(filepath.Clean(path), int(params.TextDocument.Version), change.Text)
		}
	}
	s.workspace.AnalyzeAndPublish(s.notifier(ctx), context.Background(), filepath.Clean(path))
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	if !isSchemaURI(uri) {
		return nil
	}
	path, err := URIToPath(uri)
	if err != nil {
		return nil
	}
	s.workspace.DocumentClosed(s.notifier(ctx), filepath.Clean(path))
	return nil
}

func (s *Server) notifier(ctx *glsp.Context) Notifier {
	if ctx == nil {
		return nil
	}
	return func(method string, params any) { ctx.Notify(method, params) }
}
