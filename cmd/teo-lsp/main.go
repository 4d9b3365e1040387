// Package main provides the entry point for the teo-lsp language server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/HeKe007/teo-parser/loader"
	"github.com/HeKe007/teo-parser/lsp"
)

var version = "dev"

// newSyntax returns the grammar the server parses schema files with. The
// tree-sitter grammar for the schema DSL is generated and linked by the
// distribution shipping this binary (see loader.TreeSitter); the plain
// build carries none and reports that at startup instead of serving
// requests it cannot answer.
var newSyntax = func() (loader.Syntax, error) {
	return nil, errors.New("no schema grammar linked into this build")
}

// isCleanShutdown checks whether an error is a normal client disconnect.
// LSP clients commonly close stdio on exit; that is not a failure.
func isCleanShutdown(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "EPIPE")
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "teo-lsp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("teo-lsp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		logLevel = fs.String("log-level", "info", "log level: error|warn|info|debug")
		logFile  = fs.String("log-file", "", "log file path (empty to log to stderr)")
		builtins = fs.String("builtins", "", "glob pattern for built-in schema sources")
		showVer  = fs.Bool("version", false, "print version and exit")
		_        = fs.Bool("stdio", false, "use stdio transport (default, accepted for client compatibility)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: teo-lsp [options]\n\nSchema language server.\n\nOptions:\n")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		fs.Usage()
		return fmt.Errorf("parse flags: %w", err)
	}

	if *showVer {
		fmt.Printf("teo-lsp %s\n", version)
		return nil
	}

	logger, cleanup, err := setupLogger(*logLevel, *logFile)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer cleanup()

	syntax, err := newSyntax()
	if err != nil {
		return fmt.Errorf("load grammar: %w", err)
	}

	cfg := lsp.Config{Syntax: syntax}
	if *builtins != "" {
		cfg.BuiltinPaths = []string{*builtins}
	}

	logger.Info("starting teo-lsp",
		slog.String("version", version),
		slog.String("log_level", *logLevel))

	srv := lsp.NewServer(logger, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.RunStdio() }()

	logger.Info("running on stdio")

	select {
	case err := <-errCh:
		if err != nil && !isCleanShutdown(err) {
			return fmt.Errorf("run server: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		if err := srv.Close(); err != nil {
			logger.Warn("error closing connection", slog.String("error", err.Error()))
		}
		if err := os.Stdin.Close(); err != nil {
			logger.Debug("error closing stdin", slog.String("error", err.Error()))
		}
		select {
		case <-errCh:
		case <-time.After(5 * time.Second):
			logger.Warn("shutdown timed out, forcing exit")
		}
		logger.Info("server shutdown complete")
		return nil
	}
}

func setupLogger(level, logFile string) (*slog.Logger, func(), error) {
	var slogLevel slog.Level
	switch level {
	case "error":
		slogLevel = slog.LevelError
	case "warn":
		slogLevel = slog.LevelWarn
	case "info":
		slogLevel = slog.LevelInfo
	case "debug":
		slogLevel = slog.LevelDebug
	default:
		return nil, nil, fmt.Errorf("invalid log level: %q", level)
	}

	w := io.Writer(os.Stderr)
	cleanup := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel, AddSource: true})
	return slog.New(handler), cleanup, nil
}
