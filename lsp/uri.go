package lsp

import (
	"fmt"
	"net/url"
	"strings"
)

// URIToPath converts a file:// URI to a filesystem path.
func URIToPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", parsed.Scheme)
	}
	path := parsed.Path
	if path == "" {
		path = strings.TrimPrefix(uri, "file://")
	}
	return path, nil
}

// PathToURI converts a filesystem path to a file:// URI.
func PathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
