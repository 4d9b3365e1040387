// Package decl implements the declaration resolver: two passes over an
// assembled schema that lower every syntactic TypeExpr into a typesys.Type
// and populate each declaration's resolved side table.
package decl

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

// Context carries the resolver's shared state: a diagnostics sink, a schema
// handle, a currently-resolving stack for cycle detection, and the
// keywords map substituted into a declaration's own body (`self` inside a
// struct's methods).
type Context struct {
	Schema    *assemble.Schema
	Resolver  name.ImportResolver
	Collector *diag.Collector

	trails map[ast.Path][]string

	onStack map[ast.Path]bool
	stack   []ast.Path

	keywords map[string]typesys.Type

	modelRef     map[ast.Path]typesys.Reference
	enumRef      map[ast.Path]typesys.Reference
	interfaceRef map[ast.Path]typesys.Reference
	structRef    map[ast.Path]typesys.Reference
}

// NewContext builds a Context over schema. resolver supplies import-path
// resolution for resolve/name.Lookup; the filesystem join it performs is a
// loader concern, not a resolver one.
func NewContext(schema *assemble.Schema, resolver name.ImportResolver, collector *diag.Collector) *Context {
	return &Context{
		Schema:       schema,
		Resolver:     resolver,
		Collector:    collector,
		trails:       name.Trails(schema),
		onStack:      map[ast.Path]bool{},
		keywords:     map[string]typesys.Type{},
		modelRef:     map[ast.Path]typesys.Reference{},
		enumRef:      map[ast.Path]typesys.Reference{},
		interfaceRef: map[ast.Path]typesys.Reference{},
		structRef:    map[ast.Path]typesys.Reference{},
	}
}

// trailOf returns the namespace trail in effect for p, or nil at source
// root if p isn't reached through any Namespace's Members.
func (c *Context) trailOf(p ast.Path) []string {
	return c.trails[p]
}

// enter pushes p onto the currently-resolving stack. It reports false
// without modifying the stack when p is already on it — the caller must
// treat that as "return Undetermined, record no error": the declaration
// already resolving upstream reports the real outcome.
func (c *Context) enter(p ast.Path) bool {
	if c.onStack[p] {
		return false
	}
	c.onStack[p] = true
	c.stack = append(c.stack, p)
	return true
}

func (c *Context) leave(p ast.Path) {
	delete(c.onStack, p)
	c.stack = c.stack[:len(c.stack)-1]
}

// TrailOf exposes trailOf to other resolver packages (resolve/argument
// runs its callable-variant matching as a second sweep over the same
// Context, after resolve/decl's two passes complete, and needs the same
// namespace trails).
func (c *Context) TrailOf(p ast.Path) []string { return c.trailOf(p) }

// Enter and Leave expose the cycle-detection stack to resolve/argument,
// so argument resolution (which can re-enter a struct method or
// callable variant while resolving one of its own arguments) shares one
// stack with declaration resolution instead of keeping a second one that
// cannot see the first's in-progress entries.
func (c *Context) Enter(p ast.Path) bool { return c.enter(p) }
func (c *Context) Leave(p ast.Path)      { c.leave(p) }

// Bind exposes bindKeyword outside the package. resolve/argument does not
// call it: it reads the current `self` binding through KeywordBinding.
func (c *Context) Bind(keyword string, t typesys.Type) func() { return c.bindKeyword(keyword, t) }

// bindKeyword substitutes name with t for the duration of the returned
// restore function's lifetime — used to bind `self` while resolving a
// struct method's signature.
func (c *Context) bindKeyword(keyword string, t typesys.Type) func() {
	previous, had := c.keywords[keyword]
	c.keywords[keyword] = t
	return func() {
		if had {
			c.keywords[keyword] = previous
		} else {
			delete(c.keywords, keyword)
		}
	}
}

// box and unbox cross the ast.TypeRef / typesys.Type boundary: ast cannot
// import typesys (typesys.Type is boxed as an opaque `any` specifically so
// ast doesn't have to), so every resolver that produces or consumes a
// typesys.Type does the crossing itself.
func box(t typesys.Type) ast.TypeRef { return ast.TypeRef{Opaque: t} }

func unbox(r ast.TypeRef) typesys.Type {
	t, ok := r.Opaque.(typesys.Type)
	if !ok {
		return typesys.Undetermined()
	}
	return t
}

// Box and Unbox are exported so other resolver packages cross the same
// ast.TypeRef / typesys.Type boundary through the one function that does
// it, rather than touching TypeRef.Opaque directly themselves.
func Box(t typesys.Type) ast.TypeRef { return box(t) }
func Unbox(r ast.TypeRef) typesys.Type { return unbox(r) }

// Reference builds the typesys.Reference identity for a declaration at p
// with the given dotted string path, exported for resolve/argument's own
// lookups.
func Reference(p ast.Path, stringPath string) typesys.Reference { return reference(p, stringPath) }

func reference(p ast.Path, stringPath string) typesys.Reference {
	return typesys.Reference{Path: p.String(), StringPath: stringPath}
}

// ModelRef, EnumRef, InterfaceRef, and StructRef look up a declaration's
// nominal identity seeded during seedIdentities, for callers (chiefly
// resolve/argument) that need a Model/Enum/Interface/Struct's Reference
// without re-deriving it from the schema node.
func (c *Context) ModelRef(p ast.Path) (typesys.Reference, bool)     { r, ok := c.modelRef[p]; return r, ok }
func (c *Context) EnumRef(p ast.Path) (typesys.Reference, bool)      { r, ok := c.enumRef[p]; return r, ok }
func (c *Context) InterfaceRef(p ast.Path) (typesys.Reference, bool) { r, ok := c.interfaceRef[p]; return r, ok }
func (c *Context) StructRef(p ast.Path) (typesys.Reference, bool)    { r, ok := c.structRef[p]; return r, ok }

// ResolveInterfaceShape re-materializes an interface's field shape for a
// concrete generics substitution, the entry point resolve/argument uses
// once it has guessed a generics_map and needs the interface's shape
// under that substitution rather than its bare declared identity.
func (c *Context) ResolveInterfaceShape(sourceID uint32, i ast.Interface, args []typesys.Type) ast.Interface {
	return c.resolveInterface(sourceID, i, args)
}

// KeywordBinding returns the type currently bound to keyword (`self` while
// a struct method resolves), if any.
func (c *Context) KeywordBinding(keyword string) (typesys.Type, bool) {
	t, ok := c.keywords[keyword]
	return t, ok
}

// ModelFieldTypes reads back a model's resolved field-name-to-type map from
// its schema node, for resolve/argument's field-type flattening.
// Valid only after resolveBodies' Models sub-pass has run.
func (c *Context) ModelFieldTypes(modelType typesys.Type) (map[string]typesys.Type, bool) {
	return modelFieldTypes(c.Schema, modelType)
}

// InterfaceFieldTypes materializes (or reads back) an interface's field map
// under the given generics arguments. args nil yields the declared-generics
// shape; concrete args each get their own cached instantiation, keyed by
// the substitution's canonical string (see resolveInterface).
func (c *Context) InterfaceFieldTypes(ref typesys.Reference, args []typesys.Type) (map[string]typesys.Type, bool) {
	for _, p := range c.Schema.References.Interfaces {
		if p.String() != ref.Path {
			continue
		}
		n, ok := c.Schema.FindByPath(p)
		if !ok {
			return nil, false
		}
		i, ok := n.(ast.Interface)
		if !ok {
			return nil, false
		}
		i = c.resolveInterface(p.SourceID(), i, args)
		cell, ok := i.Resolved[interfaceShapeKey(args)]
		if !ok || !cell.IsSet() {
			return nil, false
		}
		shape := unbox(cell.Get())
		if _, inner, ok := shape.DeclaredShapeParts(); ok {
			shape = inner
		}
		fields, ok := shape.ShapeFieldsMap()
		return fields, ok
	}
	return nil, false
}
