package ast

import "github.com/HeKe007/teo-parser/location"

// Import is a top-level `import "path" as alias;` declaration.
type Import struct {
	Base
	ImportPath string
	Alias      string
}

// Config is a top-level `server { … }` / `debug { … }` / `test { … }` /
// `client { … }` / `connector { … }` / `entity { … }` block. Keyword
// records which of those introduced it; assemble.Build enforces that at
// most one server/debug/test config exists schema-wide.
type Config struct {
	Base
	Keyword      string
	Declarations []ConfigDeclaration
	Availability Availability
	Resolved     ResolvedCell[ConfigResolved]
}

// ConfigResolved is Config's resolved side-table payload.
type ConfigResolved struct {
	Keyword string
}

// ConfigDeclaration is one `key: value` entry inside a Config block.
type ConfigDeclaration struct {
	Base
	Name  string
	Value Expression
}

// Constant is a top-level `const NAME = expr;` declaration.
type Constant struct {
	Base
	Name         string
	StringPath   StringPath
	Value        Expression
	Availability Availability
	Resolved     ResolvedCell[TypeRef]
}

// Enum is a top-level `enum Name { A, B, C }` declaration.
type Enum struct {
	Base
	Name         string
	StringPath   StringPath
	Members      []EnumMember
	Availability Availability
	Resolved     ResolvedCell[EnumResolved]
}

// EnumResolved is Enum's resolved side-table payload: its member set and
// the synthesized FieldName union representing "any member of this enum".
type EnumResolved struct {
	MemberUnion TypeRef
}

// EnumMember is one variant of an Enum.
type EnumMember struct {
	Base
	Name string
}

// Field is a property of a Model, Interface, or StructDeclaration.
type Field struct {
	Base
	Name       string
	TypeExpr   TypeExprNode
	Decorators []Decorator
	Resolved   ResolvedCell[TypeRef]
}

// Model is a top-level `model Name { … }` declaration.
type Model struct {
	Base
	Name         string
	StringPath   StringPath
	Generics     *GenericsDeclaration
	Fields       []Field
	Decorators   []Decorator
	Availability Availability
	Resolved     ResolvedCell[ModelResolved]
}

// ModelResolved is Model's resolved side-table payload, populated after all
// fields resolve: the model's own reference type plus its derived
// synthesized shapes (Args, WhereInput, Select, Include, …) keyed by role.
type ModelResolved struct {
	Self             TypeRef
	SynthesizedShapes map[string]TypeRef
}

// Interface is a top-level `interface Name<T> { … }` declaration.
type Interface struct {
	Base
	Name         string
	StringPath   StringPath
	Generics     *GenericsDeclaration
	Constraints  []GenericsConstraint
	Fields       []Field
	Availability Availability

	// Resolved is keyed by the generics-substitution's canonical string so
	// that shape_from_generics for `Interface<Int>` and `Interface<String>`
	// can coexist without clobbering each other.
	Resolved map[string]*ResolvedCell[TypeRef]
}

// DataSet is a top-level `dataset Name { … }` declaration seeding test or
// fixture data for a model.
type DataSet struct {
	Base
	Name         string
	Groups       []DataSetGroup
	Availability Availability
}

// DataSetGroup is one `group ModelName { record1, record2, … }` block
// inside a DataSet.
type DataSetGroup struct {
	Base
	ModelName StringPath
	Records   []DataSetRecord
	Resolved  ResolvedCell[TypeRef] // resolved model reference
}

// DataSetRecord is one record literal within a DataSetGroup. Exactly one
// of Fields or JSONCLiteral is populated — a record is written either as
// an inline schema-expression dictionary or as a JSONC blob (see
// dataset.Parse).
type DataSetRecord struct {
	Base
	Fields       map[string]Expression
	JSONCLiteral string
	Resolved     ResolvedCell[DataSetRecordResolved]
}

// DataSetRecordResolved is DataSetRecord's resolved side-table payload.
type DataSetRecordResolved struct {
	FieldTypes map[string]TypeRef
}

// Namespace is a top-level `namespace name { … }` declaration grouping
// nested declarations under a named scope used by the name resolver's
// trail walk.
type Namespace struct {
	Base
	Name       string
	StringPath StringPath
	Members    []Path
}

// Middleware is a top-level `middleware Name(args) { … }` declaration.
type Middleware struct {
	Base
	Name      string
	Arguments []ArgumentDeclaration
}

// UseMiddlewareBlock is a `use middleware Name(args);` directive attached
// to a handler group or handler.
type UseMiddlewareBlock struct {
	Base
	MiddlewareName string
	Arguments      []Argument
}

// HandlerGroup is a top-level `group "/path" { … }` declaration nesting
// handler declarations under a shared path/middleware prefix.
type HandlerGroup struct {
	Base
	PathPrefix  string
	Middlewares []UseMiddlewareBlock
	Handlers    []Path
}

// HandlerDeclaration is a concrete HTTP-style handler: method, path,
// input/output type expressions, and a body reference (out of scope —
// only the signature participates in resolution).
type HandlerDeclaration struct {
	Base
	Name       string
	Method     string
	Route      string
	Input      TypeExprNode
	Output     TypeExprNode
	Decorators []Decorator
	Resolved   ResolvedCell[HandlerResolved]
}

// HandlerResolved is HandlerDeclaration's resolved side-table payload.
type HandlerResolved struct {
	Input  TypeRef
	Output TypeRef
}

// HandlerTemplateDeclaration is a reusable handler signature template
// (`declare handler template Name(…): Out;`) invoked by name at handler
// declaration sites, resolved like any other callable variant.
type HandlerTemplateDeclaration struct {
	Base
	Name      string
	Generics  *GenericsDeclaration
	Arguments []ArgumentDeclaration
	Output    TypeExprNode
}

// DecoratorDeclaration declares a decorator's callable variants
// (`declare decorator unique<T>(): T;`).
type DecoratorDeclaration struct {
	Base
	Name     string
	Variants []CallableVariantDecl
}

// PipelineItemDeclaration declares a pipeline item's callable variants
// (`declare pipeline item identity<T>(): T -> T;`).
type PipelineItemDeclaration struct {
	Base
	Name     string
	Variants []CallableVariantDecl
}

// CallableVariantDecl is one signature of a decorator/pipeline-item
// declaration: generics, parameters, constraints, and an optional pipeline
// input/output pair — one overload of the callable.
type CallableVariantDecl struct {
	Generics    *GenericsDeclaration
	Arguments   []ArgumentDeclaration
	Constraints []GenericsConstraint
	PipeIn      TypeExprNode // zero value if this variant is not a pipeline item
	PipeOut     TypeExprNode
}

// StructDeclaration is a top-level `struct Name { fn … }` declaration:
// each FunctionDeclaration resolves with `self` bound to a StructObject
// keyword type.
type StructDeclaration struct {
	Base
	Name      string
	Functions []FunctionDeclaration
}

// FunctionDeclaration is one method on a StructDeclaration.
type FunctionDeclaration struct {
	Base
	Name      string
	Generics  *GenericsDeclaration
	Arguments []ArgumentDeclaration
	Output    TypeExprNode
}

// Source is the parsed form of one source file: its import list and its
// top-level declarations, held in source order.
type Source struct {
	ID       uint32
	Path     location.SourceID
	Span     location.Span
	Imports  []Import
	Children []Node // order of first appearance in source
}
