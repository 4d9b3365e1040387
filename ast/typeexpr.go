package ast

// TypeExprKind tags the closed set of syntactic type-expression variants —
// what the parser produces, before the declaration resolver lowers each
// into a typesys.Type.
type TypeExprKind uint8

const (
	// TypeExprNamed is a bare name reference: a primitive keyword
	// (`Int`, `String`, …), or a nominal reference to an Enum/Model/
	// Interface/Struct, possibly with generics arguments.
	TypeExprNamed TypeExprKind = iota

	// TypeExprArray is `T[]`.
	TypeExprArray

	// TypeExprDictionary is `{T}` / `Dictionary<T>` depending on surface
	// syntax.
	TypeExprDictionary

	// TypeExprOptional is `T?`.
	TypeExprOptional

	// TypeExprTuple is `(T, U, …)`.
	TypeExprTuple

	// TypeExprUnion is `T | U | …`.
	TypeExprUnion

	// TypeExprPipeline is `In -> Out`.
	TypeExprPipeline

	// TypeExprSubscript is `Container[.field]`, lowered to
	// typesys.FieldType(container, field).
	TypeExprSubscript

	// TypeExprShape is an inline `{ field: T, … }` shape literal, lowered
	// to typesys.SynthesizedShape.
	TypeExprShape

	// TypeExprEnumLiteral is a `.A | .B | .C` variant-literal union,
	// lowered to a Union of FieldName singletons.
	TypeExprEnumLiteral

	// TypeExprKeyword is a bare keyword type such as `self`, lowered to
	// typesys.Keyword and later substituted by replace_keywords.
	TypeExprKeyword
)

func (k TypeExprKind) String() string {
	names := [...]string{
		"Named", "Array", "Dictionary", "Optional", "Tuple", "Union",
		"Pipeline", "Subscript", "Shape", "EnumLiteral", "Keyword",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// TypeExprNode is one node of the syntactic type-expression sum. As with
// Expression, this is a single variant struct rather than N concrete
// types, with TypeExprKind selecting which fields are populated.
type TypeExprNode struct {
	Base
	TypeExprKind TypeExprKind

	// TypeExprNamed.
	Name      []string // dotted reference, e.g. ["std", "Uuid"]
	Generics  []TypeExprNode
	ItemOptional bool // trailing `?` directly on this name, e.g. `Int?`

	// TypeExprArray / TypeExprDictionary / TypeExprOptional.
	Elem *TypeExprNode

	// TypeExprTuple / TypeExprUnion / TypeExprEnumLiteral.
	Members []TypeExprNode

	// TypeExprPipeline.
	In  *TypeExprNode
	Out *TypeExprNode

	// TypeExprSubscript.
	Container *TypeExprNode
	Field     string

	// TypeExprShape.
	ShapeFields map[string]TypeExprNode

	// TypeExprKeyword.
	Keyword string

	Resolved ResolvedCell[TypeRef]
}

// IsZero reports whether n is the unset TypeExprNode (no node was parsed
// at this position — e.g. an omitted return type).
func (n TypeExprNode) IsZero() bool {
	return n.Path().IsZero() && n.Name == nil && n.Elem == nil && n.Members == nil
}
