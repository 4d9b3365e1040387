package argument

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/resolve/decl"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

var variantPrimitives = map[string]typesys.Primitive{
	"Int": typesys.PrimitiveInt, "Int64": typesys.PrimitiveInt64,
	"Float": typesys.PrimitiveFloat, "Float32": typesys.PrimitiveFloat32,
	"String": typesys.PrimitiveString, "Bool": typesys.PrimitiveBool,
	"Date": typesys.PrimitiveDate, "DateTime": typesys.PrimitiveDateTime,
	"Decimal": typesys.PrimitiveDecimal, "ObjectId": typesys.PrimitiveObjectID,
	"Null": typesys.PrimitiveNull,
}

// lowerVariantType lowers a TypeExprNode belonging to a CallableVariantDecl
// (an argument declaration's type, or PipeIn/PipeOut). It deliberately
// does NOT go through decl.Context.LowerTypeExpr: that memoizes on the
// node's write-once Resolved cell, which is correct for a declaration's
// own body (lowered exactly once) but wrong here — the same variant is
// re-instantiated at every call site with a different generics_map, so
// the lowering has to run fresh each time and cannot cache a type that
// depends on the caller's substitution.
//
// genericsNames is the variant's own declared generics parameter set
// (empty for a non-generic variant); a single-segment Named node matching
// one of those names lowers to a GenericItem instead of going through
// name.Lookup, since generics parameters are never schema declarations.
func lowerVariantType(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, n ast.TypeExprNode) typesys.Type {
	if n.IsZero() {
		return typesys.Undetermined()
	}

	switch n.TypeExprKind {
	case ast.TypeExprNamed:
		base := lowerVariantNamedBase(ctx, sourceID, trail, availability, genericsNames, n)
		if n.ItemOptional {
			return typesys.Optional(base)
		}
		return base

	case ast.TypeExprArray:
		return typesys.Array(lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.Elem))

	case ast.TypeExprDictionary:
		return typesys.Dictionary(lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.Elem))

	case ast.TypeExprOptional:
		return typesys.Optional(lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.Elem))

	case ast.TypeExprTuple:
		members := make([]typesys.Type, len(n.Members))
		for i := range n.Members {
			members[i] = lowerVariantType(ctx, sourceID, trail, availability, genericsNames, n.Members[i])
		}
		return typesys.Tuple(members...)

	case ast.TypeExprUnion:
		members := make([]typesys.Type, len(n.Members))
		for i := range n.Members {
			members[i] = lowerVariantType(ctx, sourceID, trail, availability, genericsNames, n.Members[i])
		}
		return typesys.Union(members...)

	case ast.TypeExprPipeline:
		in := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.In)
		out := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.Out)
		return typesys.Pipeline(in, out)

	case ast.TypeExprSubscript:
		container := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, *n.Container)
		return typesys.FieldType(container, typesys.FieldName(n.Field))

	case ast.TypeExprShape:
		fields := make(map[string]typesys.Type, len(n.ShapeFields))
		for fieldName, fieldExpr := range n.ShapeFields {
			fields[fieldName] = lowerVariantType(ctx, sourceID, trail, availability, genericsNames, fieldExpr)
		}
		return typesys.SynthesizedShape(fields)

	case ast.TypeExprEnumLiteral:
		members := make([]typesys.Type, 0, len(n.Members))
		for _, member := range n.Members {
			if len(member.Name) == 0 {
				continue
			}
			members = append(members, typesys.FieldName(member.Name[len(member.Name)-1]))
		}
		return typesys.Union(members...)

	case ast.TypeExprKeyword:
		if bound, ok := ctx.KeywordBinding(n.Keyword); ok {
			return bound
		}
		return typesys.Keyword(n.Keyword)

	default:
		return typesys.Undetermined()
	}
}

func lowerVariantNamedBase(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, n ast.TypeExprNode) typesys.Type {
	if len(n.Name) == 1 {
		if genericsNames[n.Name[0]] {
			return typesys.GenericItem(n.Name[0])
		}
		if p, ok := variantPrimitives[n.Name[0]]; ok {
			return typesys.Prim(p)
		}
	}

	target, ok := name.Lookup(ctx.Schema, ctx.Resolver, sourceID, trail, n.Name, name.TypeReference, availability)
	if !ok {
		return typesys.Undetermined()
	}
	switch v := target.(type) {
	case ast.Enum:
		return typesys.EnumRef(decl.Reference(v.Path(), v.StringPath))
	case ast.Model:
		return typesys.ModelRef(decl.Reference(v.Path(), v.StringPath))
	case ast.Interface:
		generics := make([]typesys.Type, len(n.Generics))
		for i := range n.Generics {
			generics[i] = lowerVariantType(ctx, sourceID, trail, availability, genericsNames, n.Generics[i])
		}
		return typesys.InterfaceRef(decl.Reference(v.Path(), v.StringPath), generics...)
	case ast.StructDeclaration:
		return typesys.StructRef(decl.Reference(v.Path(), v.Name))
	default:
		return typesys.Undetermined()
	}
}

func genericsNameSet(d *ast.GenericsDeclaration) map[string]bool {
	if d == nil {
		return nil
	}
	names := make(map[string]bool, len(d.Names))
	for _, n := range d.Names {
		names[n] = true
	}
	return names
}
