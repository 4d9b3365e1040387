// Package config loads analyzer-wide ambient defaults from the process
// environment and an optional .env file. Nothing here carries schema
// semantics: every value is also settable explicitly through
// loader.Options, and Load is only consulted for the options a caller
// leaves zero.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognized by Load.
const (
	// EnvBuiltinRoots is a path-list (os.PathListSeparator) of glob
	// patterns for built-in schema sources, e.g.
	// "vendor/teo-std/**/*.teo".
	EnvBuiltinRoots = "TEO_BUILTIN_ROOTS"

	// EnvLogLevel is one of error|warn|info|debug.
	EnvLogLevel = "TEO_LOG_LEVEL"

	// EnvIssueLimit caps collected diagnostics per analysis; 0 or unset
	// means unlimited.
	EnvIssueLimit = "TEO_ISSUE_LIMIT"
)

// Config holds the ambient analyzer defaults.
type Config struct {
	BuiltinRoots []string
	LogLevel     slog.Level
	IssueLimit   int
}

// Load reads the environment, after best-effort loading a .env file from
// the working directory. A missing .env is not an error; a malformed one
// is ignored the same way — ambient configuration must never fail an
// analysis.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{LogLevel: slog.LevelInfo}

	if roots := os.Getenv(EnvBuiltinRoots); roots != "" {
		for _, root := range strings.Split(roots, string(os.PathListSeparator)) {
			if root = strings.TrimSpace(root); root != "" {
				cfg.BuiltinRoots = append(cfg.BuiltinRoots, root)
			}
		}
	}

	switch os.Getenv(EnvLogLevel) {
	case "error":
		cfg.LogLevel = slog.LevelError
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	}

	if raw := os.Getenv(EnvIssueLimit); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			cfg.IssueLimit = limit
		}
	}

	return cfg
}
