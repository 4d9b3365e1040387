package ast

import "github.com/HeKe007/teo-parser/location"

// Kind tags every concrete node type. It is a closed set: adding a node
// kind means adding a case everywhere Kind is switched on, by design —
// there is no open node interface
// hierarchy that code could extend from outside this package.
type Kind uint8

const (
	KindImport Kind = iota
	KindConfig
	KindConfigDeclaration
	KindConstant
	KindEnum
	KindModel
	KindInterface
	KindDataSet
	KindNamespace
	KindMiddleware
	KindHandlerGroup
	KindHandlerDeclaration
	KindHandlerTemplateDeclaration
	KindDecoratorDeclaration
	KindPipelineItemDeclaration
	KindStructDeclaration
	KindUseMiddlewareBlock
	KindEmptyDecorator
	KindDecorator

	// Nested kinds.
	KindField
	KindEnumMember
	KindArgumentDeclaration
	KindGenericsDeclaration
	KindGenericsConstraint
	KindDataSetGroup
	KindDataSetRecord
	KindArgument
	KindFunctionDeclaration
	KindExpression
	KindTypeExpr
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "Import"
	case KindConfig:
		return "Config"
	case KindConfigDeclaration:
		return "ConfigDeclaration"
	case KindConstant:
		return "Constant"
	case KindEnum:
		return "Enum"
	case KindModel:
		return "Model"
	case KindInterface:
		return "Interface"
	case KindDataSet:
		return "DataSet"
	case KindNamespace:
		return "Namespace"
	case KindMiddleware:
		return "Middleware"
	case KindHandlerGroup:
		return "HandlerGroup"
	case KindHandlerDeclaration:
		return "HandlerDeclaration"
	case KindHandlerTemplateDeclaration:
		return "HandlerTemplateDeclaration"
	case KindDecoratorDeclaration:
		return "DecoratorDeclaration"
	case KindPipelineItemDeclaration:
		return "PipelineItemDeclaration"
	case KindStructDeclaration:
		return "StructDeclaration"
	case KindUseMiddlewareBlock:
		return "UseMiddlewareBlock"
	case KindEmptyDecorator:
		return "EmptyDecorator"
	case KindDecorator:
		return "Decorator"
	case KindField:
		return "Field"
	case KindEnumMember:
		return "EnumMember"
	case KindArgumentDeclaration:
		return "ArgumentDeclaration"
	case KindGenericsDeclaration:
		return "GenericsDeclaration"
	case KindGenericsConstraint:
		return "GenericsConstraint"
	case KindDataSetGroup:
		return "DataSetGroup"
	case KindDataSetRecord:
		return "DataSetRecord"
	case KindArgument:
		return "Argument"
	case KindFunctionDeclaration:
		return "FunctionDeclaration"
	case KindExpression:
		return "Expression"
	case KindTypeExpr:
		return "TypeExpr"
	default:
		return "Unknown"
	}
}

// Node is implemented by every concrete AST node type. A Node never
// references its parent directly; callers reach a parent by truncating
// Path() and looking the result up through the schema façade.
type Node interface {
	Path() Path
	Span() location.Span
	Kind() Kind
}

// Base is embedded by every concrete node type to supply the Node
// interface's identity fields.
type Base struct {
	path Path
	span location.Span
	kind Kind
}

func (b Base) Path() Path           { return b.path }
func (b Base) Span() location.Span  { return b.span }
func (b Base) Kind() Kind           { return b.kind }

func NewBase(kind Kind, path Path, span location.Span) Base {
	return Base{path: path, span: span, kind: kind}
}

// StringPath is the parallel human-readable path mirroring Path, built
// from declaration names (e.g. "myapp.User.email"). Present only on named
// declarations.
type StringPath = string

// Decorator applies a decorator declaration at a call site, e.g.
// `@unique` or `@map(name: "user_id")` on a field.
type Decorator struct {
	Base
	Name      string
	Arguments []Argument
	Resolved  ResolvedCell[CallSiteResolved]
}

// EmptyDecorator is the bare `@` with no name, produced for an unparsed or
// partially-typed decorator site so downstream completion can still offer
// suggestions at that position.
type EmptyDecorator struct {
	Base
}

// CallSiteResolved is the resolved-side-table payload shared by any node
// that represents a call against a set of CallableVariants (decorators,
// pipeline items, struct methods, handler template invocations).
type CallSiteResolved struct {
	ResultType   TypeRef // filled in by the type algebra; see typesys.Type
	GenericsMap  map[string]TypeRef
	VariantIndex int // index into the matched declaration's variant list, -1 if none matched
}

// TypeRef is an opaque handle the ast package hands to typesys without
// importing it — typesys.Type values are boxed behind this so ast has no
// import-cycle back onto typesys. Concrete definition lives in typesys;
// ast only ever stores and forwards it.
type TypeRef struct {
	Opaque any
}

// Argument is a single supplied argument in an ArgumentList: either named
// (`name: expr`) or positional.
type Argument struct {
	Base
	Name       string // empty for positional arguments
	Value      Expression
	Resolved   ResolvedCell[ArgumentResolved]
}

// ArgumentResolved is Argument's resolved side-table payload.
type ArgumentResolved struct {
	Expect TypeRef
	Found  TypeRef
}

// ArgumentDeclaration is one parameter in a callable variant's declared
// argument list.
type ArgumentDeclaration struct {
	Base
	Name       string
	TypeExpr   TypeExprNode
	Optional   bool
	HasDefault bool
}

// GenericsDeclaration lists the generic parameter names a callable variant
// or declaration introduces, e.g. `<T, U>`.
type GenericsDeclaration struct {
	Base
	Names []string
}

// GenericsConstraint restricts one generic parameter to types matching
// TypeExpr, e.g. `where T: Comparable`.
type GenericsConstraint struct {
	Base
	Name     string
	TypeExpr TypeExprNode
}
