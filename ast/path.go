// Package ast defines the heterogeneous AST produced by the parser: node
// paths, the availability bitset, the closed set of node kinds, the
// write-once resolved side tables resolution writes into, and the
// expression / syntactic type-expression sums.
//
// Nodes never hold parent pointers. A parent reaches its children through
// its own fields; a child reaches its parent only by truncating its own
// Path and looking the result up through the schema façade. This keeps the
// tree acyclic and lets every node be a plain, copyable, comparable value.
package ast

import (
	"fmt"
	"strings"
)

// Path is a node's stable numeric identity: an ordered sequence of
// unsigned integers. The first element identifies the owning source; each
// subsequent element identifies the node's position among its siblings at
// that nesting level. Paths are unique within a schema and immutable once
// minted. A Path is comparable and safe to use as a map key.
type Path struct {
	elems string // packed decimal-dot encoding; see packPath/unpackPath
}

func packPath(elems []uint32) string {
	var sb strings.Builder
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte('.')
		}
		fmt.Fprintf(&sb, "%d", e)
	}
	return sb.String()
}

// NewPath builds a Path from explicit elements. Mainly useful in tests;
// production code mints paths through an [Allocator].
func NewPath(elems ...uint32) Path {
	return Path{elems: packPath(elems)}
}

// ParsePath reverses Path.String: it rebuilds a Path from the dotted
// decimal form typesys.Reference carries, ok=false for malformed input.
// This is how a resolved nominal reference finds its way back to the
// declaration node it names without typesys ever importing ast.
func ParsePath(s string) (Path, bool) {
	if s == "" || s == "<no path>" {
		return Path{}, false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return Path{}, false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return Path{}, false
			}
		}
	}
	return Path{elems: s}, true
}

// IsZero reports whether p is the unset Path.
func (p Path) IsZero() bool { return p.elems == "" }

// SourceID returns the path's first element, identifying the owning source.
func (p Path) SourceID() uint32 {
	elems := p.Elements()
	if len(elems) == 0 {
		return 0
	}
	return elems[0]
}

// Last returns the path's final element, the node's local id within its
// parent's child ordering.
func (p Path) Last() uint32 {
	elems := p.Elements()
	if len(elems) == 0 {
		return 0
	}
	return elems[len(elems)-1]
}

// Elements returns the path's integer sequence. The returned slice is a
// fresh allocation safe to mutate.
func (p Path) Elements() []uint32 {
	if p.elems == "" {
		return nil
	}
	parts := strings.Split(p.elems, ".")
	out := make([]uint32, len(parts))
	for i, part := range parts {
		var v uint32
		fmt.Sscanf(part, "%d", &v)
		out[i] = v
	}
	return out
}

// Parent returns p with its last element truncated, and false if p has at
// most one element (the root of a source has no parent path).
func (p Path) Parent() (Path, bool) {
	elems := p.Elements()
	if len(elems) <= 1 {
		return Path{}, false
	}
	return Path{elems: packPath(elems[:len(elems)-1])}, true
}

// IsPrefixOf reports whether p is a strict prefix of other — the
// relationship every child path must have to its parent's.
func (p Path) IsPrefixOf(other Path) bool {
	if p.elems == "" || p.elems == other.elems {
		return false
	}
	return strings.HasPrefix(other.elems, p.elems+".")
}

func (p Path) String() string {
	if p.elems == "" {
		return "<no path>"
	}
	return p.elems
}

// Allocator mints Paths during parsing. It holds a stack of parent paths
// and, for each, a counter of children minted so far. One Allocator is
// created per source; NextPath/NextParentPath/PopParentID must be called in
// matching push/pop pairs that mirror the parser's recursive descent.
type Allocator struct {
	sourceID uint32
	stack    []uint32 // parent path elements, shared backing grows as we descend
	counters []uint32 // counters[i] = next child id to mint under stack[:i+1]
}

// NewAllocator creates an Allocator for the given source id. sourceID
// becomes the first element of every path it mints.
func NewAllocator(sourceID uint32) *Allocator {
	return &Allocator{sourceID: sourceID, stack: []uint32{sourceID}, counters: []uint32{0}}
}

// NextPath returns a fresh leaf path for a sibling at the current nesting
// level, scoped to the innermost open parent.
func (a *Allocator) NextPath() Path {
	top := len(a.counters) - 1
	id := a.counters[top]
	a.counters[top]++
	elems := append(append([]uint32(nil), a.stack...), id)
	return Path{elems: packPath(elems)}
}

// NextParentPath begins a new nesting level: it mints a fresh id at the
// current level (as NextPath would), then pushes that id as the new parent
// frame so subsequent NextPath calls mint children of it. Returns the full
// path of the new parent frame. Every call must be matched by a later
// PopParentID.
func (a *Allocator) NextParentPath() Path {
	p := a.NextPath()
	elems := p.Elements()
	a.stack = elems
	a.counters = append(a.counters, 0)
	return p
}

// PopParentID ends the current nesting level, restoring the allocator to
// minting siblings of the frame that was active before the matching
// NextParentPath call.
func (a *Allocator) PopParentID() {
	if len(a.counters) <= 1 {
		panic("ast.Allocator.PopParentID: no open parent frame")
	}
	a.counters = a.counters[:len(a.counters)-1]
	if parent, ok := (Path{elems: packPath(a.stack)}).Parent(); ok {
		a.stack = parent.Elements()
	} else {
		a.stack = []uint32{a.sourceID}
	}
}

// NextParentStringPath is the parallel allocator for human-readable string
// paths, used alongside NextParentPath for named declarations. It does not
// affect numeric path allocation.
func NextParentStringPath(parent string, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
