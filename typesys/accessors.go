package typesys

// Accessors. Type's fields are private so construction stays exclusively
// through the constructors in type.go; these are the read side resolve/decl
// and resolve/argument need to destructure a Type built elsewhere (unwrap
// an Optional before testing its payload, recurse into an Array's element
// during generics guessing, read back a nominal reference's identity, …).
// Each returns ok=false when called on the wrong variant rather than
// panicking — resolver code runs best-effort and keeps going on a
// mismatched shape.

// PrimitiveKind returns t's Primitive if t is a primitive.
func (t Type) PrimitiveKind() (Primitive, bool) {
	if t.variant != VariantPrimitive {
		return 0, false
	}
	return t.primitive, true
}

// Unwrap returns the single wrapped type of an Optional, Array, or
// Dictionary.
func (t Type) Unwrap() (Type, bool) {
	switch t.variant {
	case VariantOptional, VariantArray, VariantDictionary:
		return *t.inner, true
	default:
		return Type{}, false
	}
}

// TupleMembers returns a Tuple's element types in order.
func (t Type) TupleMembers() ([]Type, bool) {
	if t.variant != VariantTuple {
		return nil, false
	}
	return t.members, true
}

// UnionMembers returns a Union's flattened, de-duplicated member set.
func (t Type) UnionMembers() ([]Type, bool) {
	if t.variant != VariantUnion {
		return nil, false
	}
	return t.members, true
}

// PipelineParts returns a Pipeline's input and output types.
func (t Type) PipelineParts() (in, out Type, ok bool) {
	if t.variant != VariantPipeline {
		return Type{}, Type{}, false
	}
	return *t.in, *t.out, true
}

// Reference returns the nominal Reference identity of an EnumReference,
// ModelReference, ModelObject, InterfaceReference, or StructReference.
func (t Type) Reference() (Reference, bool) {
	switch t.variant {
	case VariantEnumReference, VariantModelReference, VariantModelObject,
		VariantStructReference, VariantInterfaceReference:
		return t.ref, true
	default:
		return Reference{}, false
	}
}

// InterfaceGenerics returns the generics arguments an InterfaceReference
// was materialized with.
func (t Type) InterfaceGenerics() ([]Type, bool) {
	if t.variant != VariantInterfaceReference {
		return nil, false
	}
	return t.generics, true
}

// GenericName returns a GenericItem's parameter name.
func (t Type) GenericName() (string, bool) {
	if t.variant != VariantGenericItem {
		return "", false
	}
	return t.genericName, true
}

// KeywordName returns a Keyword type's keyword text.
func (t Type) KeywordName() (string, bool) {
	if t.variant != VariantKeyword {
		return "", false
	}
	return t.keyword, true
}

// FieldNameValue returns a FieldName type's field name.
func (t Type) FieldNameValue() (string, bool) {
	if t.variant != VariantFieldName {
		return "", false
	}
	return t.fieldName, true
}

// ShapeFieldsMap returns a SynthesizedShape's field-name-to-type map.
func (t Type) ShapeFieldsMap() (map[string]Type, bool) {
	if t.variant != VariantSynthesizedShape {
		return nil, false
	}
	return t.shapeFields, true
}

// ShapeReferenceParts returns a SynthesizedShapeReference's role, the
// model it derives from, and any field names excluded from it.
func (t Type) ShapeReferenceParts() (kind ShapeKind, model Reference, without []string, ok bool) {
	if t.variant != VariantSynthesizedShapeReference {
		return 0, Reference{}, nil, false
	}
	return t.shapeKind, t.ref, t.shapeWithout, true
}

// DeclaredShapeParts returns a DeclaredSynthesizedShape's own reference and
// the inner shape it wraps.
func (t Type) DeclaredShapeParts() (ref Reference, inner Type, ok bool) {
	if t.variant != VariantDeclaredSynthesizedShape {
		return Reference{}, Type{}, false
	}
	return t.declaredRef, *t.declaredInner, true
}

// FieldTypeParts returns a FieldType's container and its FieldName
// reference.
func (t Type) FieldTypeParts() (container, reference Type, ok bool) {
	if t.variant != VariantFieldType {
		return Type{}, Type{}, false
	}
	return *t.container, *t.reference, true
}
