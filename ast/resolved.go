package ast

import "fmt"

// ResolvedCell is a write-once slot for the post-resolution data attached
// to a resolvable node (TypeExpr, Constant, Model, Enum, Interface,
// HandlerDeclaration, Config, DataSetGroup, DataSetRecord, Argument, …).
// Set is called at most once per node per resolution pass; Get panics if
// called before Set — reading an unresolved node is a resolver bug, not a
// recoverable condition.
type ResolvedCell[T any] struct {
	value T
	set   bool
}

// Set stores value. Panics if called a second time — side tables are
// additive, never overwritten.
func (c *ResolvedCell[T]) Set(value T) {
	if c.set {
		panic(fmt.Sprintf("ast.ResolvedCell.Set: already set to %v", c.value))
	}
	c.value = value
	c.set = true
}

// Get returns the stored value. Panics if Set has not been called.
func (c *ResolvedCell[T]) Get() T {
	if !c.set {
		panic("ast.ResolvedCell.Get: read before Set")
	}
	return c.value
}

// IsSet reports whether Set has been called.
func (c *ResolvedCell[T]) IsSet() bool { return c.set }

// GetOrZero returns the stored value, or the zero value of T if unset.
// Intended for diagnostics/formatting code that must not panic on a
// partially resolved schema.
func (c *ResolvedCell[T]) GetOrZero() T {
	if !c.set {
		var zero T
		return zero
	}
	return c.value
}
