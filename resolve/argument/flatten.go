package argument

import (
	"github.com/HeKe007/teo-parser/resolve/decl"
	"github.com/HeKe007/teo-parser/typesys"
)

// FlattenFieldType resolves every FieldType(container, .field) node inside
// t: the container is looked up in the
// schema — a model, interface, synthesized shape, synthesized-shape
// reference, or declared synthesized shape — and the named field's
// resolved type substituted, recursing until no FieldType remains. A
// field the container does not declare becomes Undetermined.
func FlattenFieldType(ctx *decl.Context, t typesys.Type) typesys.Type {
	switch t.Variant() {
	case typesys.VariantFieldType:
		container, reference, _ := t.FieldTypeParts()
		container = FlattenFieldType(ctx, container)
		fieldName, ok := reference.FieldNameValue()
		if !ok {
			return typesys.Undetermined()
		}
		fields, ok := containerFields(ctx, container)
		if !ok {
			return typesys.Undetermined()
		}
		resolved, ok := fields[fieldName]
		if !ok {
			return typesys.Undetermined()
		}
		return FlattenFieldType(ctx, resolved)

	case typesys.VariantOptional:
		inner, _ := t.Unwrap()
		return typesys.Optional(FlattenFieldType(ctx, inner))

	case typesys.VariantArray:
		inner, _ := t.Unwrap()
		return typesys.Array(FlattenFieldType(ctx, inner))

	case typesys.VariantDictionary:
		inner, _ := t.Unwrap()
		return typesys.Dictionary(FlattenFieldType(ctx, inner))

	case typesys.VariantTuple:
		members, _ := t.TupleMembers()
		out := make([]typesys.Type, len(members))
		for i, m := range members {
			out[i] = FlattenFieldType(ctx, m)
		}
		return typesys.Tuple(out...)

	case typesys.VariantUnion:
		members, _ := t.UnionMembers()
		out := make([]typesys.Type, len(members))
		for i, m := range members {
			out[i] = FlattenFieldType(ctx, m)
		}
		return typesys.Union(out...)

	case typesys.VariantPipeline:
		in, out, _ := t.PipelineParts()
		return typesys.Pipeline(FlattenFieldType(ctx, in), FlattenFieldType(ctx, out))

	case typesys.VariantSynthesizedShape:
		fields, _ := t.ShapeFieldsMap()
		out := make(map[string]typesys.Type, len(fields))
		for fieldName, f := range fields {
			out[fieldName] = FlattenFieldType(ctx, f)
		}
		return typesys.SynthesizedShape(out)

	case typesys.VariantDeclaredSynthesizedShape:
		ref, inner, _ := t.DeclaredShapeParts()
		return typesys.DeclaredSynthesizedShape(ref, FlattenFieldType(ctx, inner))

	default:
		return t
	}
}

// containerFields projects a container type into its field-name-to-type
// map, so FlattenFieldType can look a field up regardless of whether the
// container is nominal or structural.
func containerFields(ctx *decl.Context, container typesys.Type) (map[string]typesys.Type, bool) {
	switch container.Variant() {
	case typesys.VariantModelReference, typesys.VariantModelObject:
		return ctx.ModelFieldTypes(container)

	case typesys.VariantInterfaceReference:
		ref, _ := container.Reference()
		generics, _ := container.InterfaceGenerics()
		return ctx.InterfaceFieldTypes(ref, generics)

	case typesys.VariantSynthesizedShape:
		return container.ShapeFieldsMap()

	case typesys.VariantDeclaredSynthesizedShape:
		_, inner, _ := container.DeclaredShapeParts()
		return inner.ShapeFieldsMap()

	case typesys.VariantSynthesizedShapeReference:
		kind, model, without, _ := container.ShapeReferenceParts()
		fields, ok := ctx.ModelFieldTypes(typesys.ModelRef(model))
		if !ok {
			return nil, false
		}
		return shapeFieldsFor(kind, fields, without), true

	default:
		return nil, false
	}
}

// shapeFieldsFor derives the field map of a model's synthesized shape for
// one role: filter/update roles loosen every field to optional, selection
// roles flatten every field to an optional flag, input roles keep the
// declared types. without names are excluded throughout.
func shapeFieldsFor(kind typesys.ShapeKind, modelFields map[string]typesys.Type, without []string) map[string]typesys.Type {
	excluded := make(map[string]bool, len(without))
	for _, w := range without {
		excluded[w] = true
	}
	out := make(map[string]typesys.Type, len(modelFields))
	for fieldName, ft := range modelFields {
		if excluded[fieldName] {
			continue
		}
		switch kind {
		case typesys.ShapeWhereInput, typesys.ShapeWhereUniqueInput, typesys.ShapeUpdateInput:
			out[fieldName] = typesys.Optional(ft)
		case typesys.ShapeSelect, typesys.ShapeInclude:
			out[fieldName] = typesys.Optional(typesys.Prim(typesys.PrimitiveBool))
		default:
			out[fieldName] = ft
		}
	}
	return out
}
