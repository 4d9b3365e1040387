package typesys

// Flatten normalizes t: double optionals collapse (`Int??` has no meaning
// distinct from `Int?`), unions flatten and de-duplicate recursively, and
// nested containers flatten their own element type. Flatten is idempotent:
// t.Flatten().Flatten() == t.Flatten().
func (t Type) Flatten() Type {
	switch t.variant {
	case VariantOptional:
		inner := t.inner.Flatten()
		if inner.variant == VariantOptional {
			return inner
		}
		return Optional(inner)
	case VariantArray:
		return Array(t.inner.Flatten())
	case VariantDictionary:
		return Dictionary(t.inner.Flatten())
	case VariantTuple:
		members := make([]Type, len(t.members))
		for i, m := range t.members {
			members[i] = m.Flatten()
		}
		return Type{variant: VariantTuple, members: members}
	case VariantUnion:
		return Union(t.members...)
	case VariantPipeline:
		in := t.in.Flatten()
		out := t.out.Flatten()
		return Pipeline(in, out)
	case VariantInterfaceReference:
		generics := make([]Type, len(t.generics))
		for i, g := range t.generics {
			generics[i] = g.Flatten()
		}
		return Type{variant: VariantInterfaceReference, ref: t.ref, generics: generics}
	default:
		return t
	}
}

// Test reports whether a value of type other may be used where t is
// expected — t.Test(other) holds when other is t itself, a member of a
// union t, the wrapped type of an Optional t or Null (an optional
// field accepts both its wrapped type and null), or recursively
// compatible through Array/Dictionary/Tuple/Pipeline structure.
// Undetermined is absorbing in both
// positions: it is compatible with everything, since it marks a type the
// resolver could not pin down rather than a type error already reported.
//
// Test is reflexive and transitive: t.Test(u) && u.Test(v) implies t.Test(v).
func (t Type) Test(other Type) bool {
	if t.variant == VariantUndetermined || other.variant == VariantUndetermined {
		return true
	}

	if other.variant == VariantUnion {
		for _, m := range other.members {
			if !t.Test(m) {
				return false
			}
		}
		return true
	}

	if t.variant == VariantOptional {
		// Null always satisfies an optional position, whatever the wrapped
		// type is.
		if other.variant == VariantPrimitive && other.primitive == PrimitiveNull {
			return true
		}
		if other.variant == VariantOptional {
			return t.inner.Test(*other.inner)
		}
		return t.inner.Test(other)
	}

	if t.variant == VariantUnion {
		for _, m := range t.members {
			if m.Test(other) {
				return true
			}
		}
		return false
	}

	if t.variant != other.variant {
		return false
	}

	switch t.variant {
	case VariantPrimitive:
		return t.primitive == other.primitive
	case VariantArray, VariantDictionary:
		return t.inner.Test(*other.inner)
	case VariantTuple:
		if len(t.members) != len(other.members) {
			return false
		}
		for i := range t.members {
			if !t.members[i].Test(other.members[i]) {
				return false
			}
		}
		return true
	case VariantEnumReference, VariantModelReference, VariantModelObject, VariantStructReference:
		return t.ref.Path == other.ref.Path
	case VariantInterfaceReference:
		if t.ref.Path != other.ref.Path || len(t.generics) != len(other.generics) {
			return false
		}
		for i := range t.generics {
			if !t.generics[i].Test(other.generics[i]) {
				return false
			}
		}
		return true
	case VariantPipeline:
		return t.in.Test(*other.in) && t.out.Test(*other.out)
	case VariantGenericItem:
		return t.genericName == other.genericName
	case VariantKeyword:
		return t.keyword == other.keyword
	case VariantFieldName:
		return t.fieldName == other.fieldName
	case VariantSynthesizedShapeReference:
		return t.ref.Path == other.ref.Path && t.shapeKind == other.shapeKind
	case VariantDeclaredSynthesizedShape:
		return t.declaredRef.Path == other.declaredRef.Path
	case VariantFieldType:
		return t.container.Test(*other.container) && t.reference.Test(*other.reference)
	case VariantSynthesizedShape:
		if len(t.shapeFields) != len(other.shapeFields) {
			return false
		}
		for name, want := range t.shapeFields {
			got, ok := other.shapeFields[name]
			if !ok || !want.Test(got) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ConstraintTest reports whether t satisfies a generics bound constraint —
// the direction a declared generic's argument must test against its
// declared constraint. Equivalent to constraint.Test(t) (Test with
// receiver and argument swapped), named separately so call sites read as "does this argument satisfy this
// constraint" rather than "is this a subtype of that".
func (t Type) ConstraintTest(constraint Type) bool {
	return constraint.Test(t)
}

// ReplaceGenerics substitutes every GenericItem(name) occurring in t with
// substitutions[name], leaving names absent from the map untouched. An
// empty map is the identity: t.ReplaceGenerics(nil) == t.
func (t Type) ReplaceGenerics(substitutions map[string]Type) Type {
	if len(substitutions) == 0 {
		return t
	}
	switch t.variant {
	case VariantGenericItem:
		if repl, ok := substitutions[t.genericName]; ok {
			return repl
		}
		return t
	case VariantOptional:
		inner := t.inner.ReplaceGenerics(substitutions)
		return Optional(inner)
	case VariantArray:
		return Array(t.inner.ReplaceGenerics(substitutions))
	case VariantDictionary:
		return Dictionary(t.inner.ReplaceGenerics(substitutions))
	case VariantTuple:
		members := make([]Type, len(t.members))
		for i, m := range t.members {
			members[i] = m.ReplaceGenerics(substitutions)
		}
		return Type{variant: VariantTuple, members: members}
	case VariantUnion:
		members := make([]Type, len(t.members))
		for i, m := range t.members {
			members[i] = m.ReplaceGenerics(substitutions)
		}
		return Union(members...)
	case VariantInterfaceReference:
		generics := make([]Type, len(t.generics))
		for i, g := range t.generics {
			generics[i] = g.ReplaceGenerics(substitutions)
		}
		return Type{variant: VariantInterfaceReference, ref: t.ref, generics: generics}
	case VariantPipeline:
		in := t.in.ReplaceGenerics(substitutions)
		out := t.out.ReplaceGenerics(substitutions)
		return Pipeline(in, out)
	case VariantFieldType:
		container := t.container.ReplaceGenerics(substitutions)
		reference := t.reference.ReplaceGenerics(substitutions)
		return FieldType(container, reference)
	case VariantSynthesizedShape:
		fields := make(map[string]Type, len(t.shapeFields))
		for name, f := range t.shapeFields {
			fields[name] = f.ReplaceGenerics(substitutions)
		}
		return SynthesizedShape(fields)
	case VariantDeclaredSynthesizedShape:
		inner := t.declaredInner.ReplaceGenerics(substitutions)
		return DeclaredSynthesizedShape(t.declaredRef, inner)
	default:
		return t
	}
}

// ReplaceKeywords substitutes every Keyword(name) in t with
// substitutions[name] — used to resolve `self` inside a struct's own
// method bodies to that struct's StructReference once it is known.
func (t Type) ReplaceKeywords(substitutions map[string]Type) Type {
	if len(substitutions) == 0 {
		return t
	}
	switch t.variant {
	case VariantKeyword:
		if repl, ok := substitutions[t.keyword]; ok {
			return repl
		}
		return t
	case VariantOptional:
		return Optional(t.inner.ReplaceKeywords(substitutions))
	case VariantArray:
		return Array(t.inner.ReplaceKeywords(substitutions))
	case VariantDictionary:
		return Dictionary(t.inner.ReplaceKeywords(substitutions))
	case VariantTuple:
		members := make([]Type, len(t.members))
		for i, m := range t.members {
			members[i] = m.ReplaceKeywords(substitutions)
		}
		return Type{variant: VariantTuple, members: members}
	case VariantUnion:
		members := make([]Type, len(t.members))
		for i, m := range t.members {
			members[i] = m.ReplaceKeywords(substitutions)
		}
		return Union(members...)
	case VariantInterfaceReference:
		generics := make([]Type, len(t.generics))
		for i, g := range t.generics {
			generics[i] = g.ReplaceKeywords(substitutions)
		}
		return Type{variant: VariantInterfaceReference, ref: t.ref, generics: generics}
	case VariantPipeline:
		return Pipeline(t.in.ReplaceKeywords(substitutions), t.out.ReplaceKeywords(substitutions))
	case VariantFieldType:
		return FieldType(t.container.ReplaceKeywords(substitutions), t.reference.ReplaceKeywords(substitutions))
	default:
		return t
	}
}

// ReplaceFieldType resolves a FieldType(container, .field) node by looking
// up .field in fields and substituting its declared type. It resolves one
// level only and does not recurse: a chain of subscripts
// (`Container[.a][.b]`) takes one call per level, each with that level's
// fields map. Nodes that are not FieldType, and fields absent from the
// map, pass through unchanged.
func (t Type) ReplaceFieldType(fields map[string]Type) Type {
	if t.variant != VariantFieldType {
		return t
	}
	if t.reference.variant != VariantFieldName {
		return t
	}
	resolved, ok := fields[t.reference.fieldName]
	if !ok {
		return t
	}
	return resolved
}
