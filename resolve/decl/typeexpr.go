package decl

import (
	"fmt"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

var primitiveKeywords = map[string]typesys.Primitive{
	"Int":      typesys.PrimitiveInt,
	"Int64":    typesys.PrimitiveInt64,
	"Float":    typesys.PrimitiveFloat,
	"Float32":  typesys.PrimitiveFloat32,
	"String":   typesys.PrimitiveString,
	"Bool":     typesys.PrimitiveBool,
	"Date":     typesys.PrimitiveDate,
	"DateTime": typesys.PrimitiveDateTime,
	"Decimal":  typesys.PrimitiveDecimal,
	"ObjectId": typesys.PrimitiveObjectID,
	"Null":     typesys.PrimitiveNull,
}

// LowerTypeExpr lowers the syntactic type node n into a typesys.Type,
// memoizing the result on n.Resolved so a re-entrant lowering of the same
// node (e.g. a field type referenced from two call sites) returns the
// first answer instead of panicking on ResolvedCell's write-once Set.
//
// sourceID/trail/availability describe the position n was written at: the
// source it lives in, its enclosing namespace trail (from name.Trails),
// and the Availability its enclosing declaration carries, used as the
// query availability when n names another declaration.
func (c *Context) LowerTypeExpr(sourceID uint32, trail []string, availability ast.Availability, n *ast.TypeExprNode) typesys.Type {
	if n == nil || n.IsZero() {
		return typesys.Undetermined()
	}
	if n.Resolved.IsSet() {
		return unbox(n.Resolved.Get())
	}

	t := c.lowerTypeExprKind(sourceID, trail, availability, n)
	n.Resolved.Set(box(t))
	return t
}

func (c *Context) lowerTypeExprKind(sourceID uint32, trail []string, availability ast.Availability, n *ast.TypeExprNode) typesys.Type {
	switch n.TypeExprKind {
	case ast.TypeExprNamed:
		return c.lowerNamedTypeExpr(sourceID, trail, availability, n)

	case ast.TypeExprArray:
		return typesys.Array(c.LowerTypeExpr(sourceID, trail, availability, n.Elem))

	case ast.TypeExprDictionary:
		return typesys.Dictionary(c.LowerTypeExpr(sourceID, trail, availability, n.Elem))

	case ast.TypeExprOptional:
		return typesys.Optional(c.LowerTypeExpr(sourceID, trail, availability, n.Elem))

	case ast.TypeExprTuple:
		members := make([]typesys.Type, len(n.Members))
		for i := range n.Members {
			members[i] = c.LowerTypeExpr(sourceID, trail, availability, &n.Members[i])
		}
		return typesys.Tuple(members...)

	case ast.TypeExprUnion:
		members := make([]typesys.Type, len(n.Members))
		for i := range n.Members {
			members[i] = c.LowerTypeExpr(sourceID, trail, availability, &n.Members[i])
		}
		return typesys.Union(members...)

	case ast.TypeExprPipeline:
		in := c.LowerTypeExpr(sourceID, trail, availability, n.In)
		out := c.LowerTypeExpr(sourceID, trail, availability, n.Out)
		return typesys.Pipeline(in, out)

	case ast.TypeExprSubscript:
		container := c.LowerTypeExpr(sourceID, trail, availability, n.Container)
		return typesys.FieldType(container, typesys.FieldName(n.Field))

	case ast.TypeExprShape:
		fields := make(map[string]typesys.Type, len(n.ShapeFields))
		for fieldName, fieldExpr := range n.ShapeFields {
			fields[fieldName] = c.LowerTypeExpr(sourceID, trail, availability, &fieldExpr)
			n.ShapeFields[fieldName] = fieldExpr // write the now-Resolved copy back into the map
		}
		return typesys.SynthesizedShape(fields)

	case ast.TypeExprEnumLiteral:
		members := make([]typesys.Type, 0, len(n.Members))
		for i := range n.Members {
			name := n.Members[i].Name
			if len(name) == 0 {
				continue
			}
			members = append(members, typesys.FieldName(name[len(name)-1]))
		}
		return typesys.Union(members...)

	case ast.TypeExprKeyword:
		if bound, ok := c.keywords[n.Keyword]; ok {
			return bound
		}
		return typesys.Keyword(n.Keyword)

	default:
		return typesys.Undetermined()
	}
}

func (c *Context) lowerNamedTypeExpr(sourceID uint32, trail []string, availability ast.Availability, n *ast.TypeExprNode) typesys.Type {
	base := c.resolveNamedBase(sourceID, trail, availability, n)
	if n.ItemOptional {
		return typesys.Optional(base)
	}
	return base
}

func (c *Context) resolveNamedBase(sourceID uint32, trail []string, availability ast.Availability, n *ast.TypeExprNode) typesys.Type {
	if len(n.Name) == 1 {
		if p, ok := primitiveKeywords[n.Name[0]]; ok {
			return typesys.Prim(p)
		}
	}

	generics := make([]typesys.Type, len(n.Generics))
	for i := range n.Generics {
		generics[i] = c.LowerTypeExpr(sourceID, trail, availability, &n.Generics[i])
	}

	target, ok := name.Lookup(c.Schema, c.Resolver, sourceID, trail, n.Name, name.TypeReference, availability)
	if !ok {
		c.Collector.Collect(diag.NewIssue(diag.Error, diag.EUnresolvedReference,
			fmt.Sprintf("cannot resolve type %q", joinDotted(n.Name))).
			WithSpan(n.Span()).Build())
		return typesys.Undetermined()
	}

	switch v := target.(type) {
	case ast.Enum:
		return typesys.EnumRef(reference(v.Path(), v.StringPath))
	case ast.Model:
		return typesys.ModelRef(reference(v.Path(), v.StringPath))
	case ast.Interface:
		return typesys.InterfaceRef(reference(v.Path(), v.StringPath), generics...)
	case ast.StructDeclaration:
		return typesys.StructRef(reference(v.Path(), v.Name))
	default:
		return typesys.Undetermined()
	}
}

func joinDotted(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
