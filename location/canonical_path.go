package location

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalPath is an absolute, clean, NFC-normalized, forward-slash path.
// Symlinks are resolved on a best-effort basis: only when the path exists at
// canonicalization time. The zero value is invalid; check IsZero.
type CanonicalPath struct {
	path string
}

// NewCanonicalPath canonicalizes p: absolute, symlink-resolved (if it
// exists), NFC-normalized, forward-slashed.
func NewCanonicalPath(p string) (CanonicalPath, error) {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return CanonicalPath{}, fmt.Errorf("canonicalize path %q: %w", p, err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absPath // supports not-yet-created files
		} else {
			return CanonicalPath{}, fmt.Errorf("canonicalize path %q: %w", p, err)
		}
	}

	canonical := filepath.ToSlash(norm.NFC.String(resolved))
	if strings.HasPrefix(canonical, "//") {
		return CanonicalPath{}, fmt.Errorf("%w: %q; use a local mount point", ErrUNCPath, p)
	}
	return CanonicalPath{path: canonical}, nil
}

// MustCanonicalPath is NewCanonicalPath but panics on error; use only when
// the path is known-good (e.g. embedded builtin source roots).
func MustCanonicalPath(p string) CanonicalPath {
	cp, err := NewCanonicalPath(p)
	if err != nil {
		panic("location.MustCanonicalPath: " + err.Error())
	}
	return cp
}

func (c CanonicalPath) String() string { return c.path }

func (c CanonicalPath) IsZero() bool { return c.path == "" }

// Base returns the final path element.
func (c CanonicalPath) Base() string {
	if c.IsZero() {
		return ""
	}
	return path.Base(c.path)
}

// Dir returns the containing directory as a CanonicalPath.
func (c CanonicalPath) Dir() CanonicalPath {
	if c.IsZero() {
		return CanonicalPath{}
	}
	return CanonicalPath{path: norm.NFC.String(path.Dir(path.Clean(c.path)))}
}

// Join appends relative elements and re-cleans the result. Rejects elements
// that look like absolute paths — that is almost always a caller bug; use
// NewCanonicalPath directly instead.
func (c CanonicalPath) Join(elem ...string) (CanonicalPath, error) {
	if c.IsZero() {
		return CanonicalPath{}, nil
	}
	joined := c.path
	for _, e := range elem {
		if strings.HasPrefix(e, "/") {
			return CanonicalPath{}, fmt.Errorf("%w: %s", ErrAbsoluteJoinElement, e)
		}
		joined += "/" + strings.ReplaceAll(e, "\\", "/")
	}
	return CanonicalPath{path: norm.NFC.String(path.Clean(joined))}, nil
}
