// Package typesys implements the type algebra: the Type sum and the
// operations declaration and expression resolution run over it (subtype
// testing, generics substitution, keyword substitution, field-type
// flattening, union flattening, and the predicate set used throughout
// resolve/*).
package typesys

import (
	"sort"
	"strings"
)

// Variant tags the closed set of Type shapes. Operations switch over
// Variant with a default branch; the compiler does not check that every
// variant is handled, so a new variant falls into those defaults until
// each switch names it.
type Variant uint8

const (
	VariantPrimitive Variant = iota
	VariantOptional
	VariantArray
	VariantDictionary
	VariantTuple
	VariantUnion
	VariantEnumReference
	VariantModelReference
	VariantModelObject
	VariantInterfaceReference
	VariantStructReference
	VariantPipeline
	VariantGenericItem
	VariantKeyword
	VariantFieldName
	VariantSynthesizedShape
	VariantSynthesizedShapeReference
	VariantDeclaredSynthesizedShape
	VariantFieldType
	VariantUndetermined
)

// Primitive enumerates the scalar primitive types.
type Primitive uint8

const (
	PrimitiveInt Primitive = iota
	PrimitiveInt64
	PrimitiveFloat
	PrimitiveFloat32
	PrimitiveString
	PrimitiveBool
	PrimitiveDate
	PrimitiveDateTime
	PrimitiveDecimal
	PrimitiveObjectID
	PrimitiveNull
)

var primitiveNames = [...]string{
	"Int", "Int64", "Float", "Float32", "String", "Bool",
	"Date", "DateTime", "Decimal", "ObjectId", "Null",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "Unknown"
}

// ShapeKind distinguishes the synthesized-shape roles a model derives:
// Args, WhereInput, Select, Include, and so on.
type ShapeKind uint8

const (
	ShapeArgs ShapeKind = iota
	ShapeWhereInput
	ShapeWhereUniqueInput
	ShapeSelect
	ShapeInclude
	ShapeCreateInput
	ShapeUpdateInput
)

var shapeKindNames = [...]string{
	"Args", "WhereInput", "WhereUniqueInput", "Select", "Include",
	"CreateInput", "UpdateInput",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return "Unknown"
}

// Reference identifies a nominal declaration (enum/model/interface/struct)
// by its schema-assigned path and human-readable dotted name, mirroring
// ast.Path/ast.StringPath without importing the ast package (typesys sits
// below ast in the resolver's dependency order: ast.TypeRef boxes a Type,
// so Type cannot import ast back).
type Reference struct {
	Path       string // ast.Path.String()
	StringPath string
}

func (r Reference) String() string { return r.StringPath }

// Type is a tagged union over the variants enumerated by Variant. It is an
// immutable value type — all operations return a new Type rather than
// mutating the receiver.
type Type struct {
	variant Variant

	primitive Primitive

	// Optional / Array / Dictionary wrap exactly one inner type.
	inner *Type

	// Tuple / Union members.
	members []Type

	// EnumReference / ModelReference / ModelObject / InterfaceReference /
	// StructReference.
	ref Reference

	// InterfaceReference generics arguments.
	generics []Type

	// Pipeline.
	in, out *Type

	// GenericItem name.
	genericName string

	// Keyword.
	keyword string

	// FieldName.
	fieldName string

	// SynthesizedShape: field name -> Type.
	shapeFields map[string]Type

	// SynthesizedShapeReference.
	shapeKind    ShapeKind
	shapeWithout []string

	// DeclaredSynthesizedShape.
	declaredRef   Reference
	declaredInner *Type

	// FieldType.
	container *Type
	reference *Type // always a FieldName Type
}

// Constructors.

func Prim(p Primitive) Type { return Type{variant: VariantPrimitive, primitive: p} }

func Optional(t Type) Type {
	if t.variant == VariantOptional {
		return t // Optional never nests directly
	}
	return Type{variant: VariantOptional, inner: &t}
}

func Array(t Type) Type      { return Type{variant: VariantArray, inner: &t} }
func Dictionary(t Type) Type { return Type{variant: VariantDictionary, inner: &t} }
func Tuple(members ...Type) Type {
	return Type{variant: VariantTuple, members: members}
}

// Union builds a flattened, de-duplicated union. A single-member result
// collapses to that member.
func Union(members ...Type) Type {
	flat := flattenUnionMembers(members)
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{variant: VariantUnion, members: flat}
}

func EnumRef(ref Reference) Type         { return Type{variant: VariantEnumReference, ref: ref} }
func ModelRef(ref Reference) Type        { return Type{variant: VariantModelReference, ref: ref} }
func ModelObject(ref Reference) Type     { return Type{variant: VariantModelObject, ref: ref} }
func StructRef(ref Reference) Type       { return Type{variant: VariantStructReference, ref: ref} }
func InterfaceRef(ref Reference, generics ...Type) Type {
	return Type{variant: VariantInterfaceReference, ref: ref, generics: generics}
}

func Pipeline(in, out Type) Type {
	return Type{variant: VariantPipeline, in: &in, out: &out}
}

func GenericItem(name string) Type { return Type{variant: VariantGenericItem, genericName: name} }
func Keyword(kw string) Type       { return Type{variant: VariantKeyword, keyword: kw} }
func FieldName(name string) Type   { return Type{variant: VariantFieldName, fieldName: name} }

func SynthesizedShape(fields map[string]Type) Type {
	return Type{variant: VariantSynthesizedShape, shapeFields: fields}
}

func SynthesizedShapeReference(kind ShapeKind, model Reference, without ...string) Type {
	return Type{variant: VariantSynthesizedShapeReference, shapeKind: kind, ref: model, shapeWithout: without}
}

func DeclaredSynthesizedShape(ref Reference, inner Type) Type {
	return Type{variant: VariantDeclaredSynthesizedShape, declaredRef: ref, declaredInner: &inner}
}

func FieldType(container, reference Type) Type {
	return Type{variant: VariantFieldType, container: &container, reference: &reference}
}

// Undetermined is the absorbing element: it accepts and is accepted by any
// type under test, and is the result of a resolution step that failed
// without an error worth surfacing twice.
func Undetermined() Type { return Type{variant: VariantUndetermined} }

// Well-known keyword constants.
const (
	KeywordSelf = "self"
)

// SelfIdentifier is the distinguished keyword type substituted for `self`
// inside struct method bodies.
func SelfIdentifier() Type { return Keyword(KeywordSelf) }

func (t Type) Variant() Variant { return t.variant }

// Predicates.

func (t Type) IsOptional() bool  { return t.variant == VariantOptional }
func (t Type) IsArray() bool     { return t.variant == VariantArray }
func (t Type) IsDictionary() bool { return t.variant == VariantDictionary }
func (t Type) IsPipeline() bool  { return t.variant == VariantPipeline }
func (t Type) IsGenericItem() bool { return t.variant == VariantGenericItem }
func (t Type) IsFieldName() bool { return t.variant == VariantFieldName }
func (t Type) IsUndetermined() bool { return t.variant == VariantUndetermined }

// IsSynthesizedEnumReference reports whether t is an EnumReference or the
// FieldName-union an Enum synthesizes for its member set.
func (t Type) IsSynthesizedEnumReference() bool {
	if t.variant == VariantEnumReference {
		return true
	}
	if t.variant != VariantUnion {
		return false
	}
	for _, m := range t.members {
		if m.variant != VariantFieldName {
			return false
		}
	}
	return len(t.members) > 0
}

// IsShapeField reports whether t names a field inside a synthesized shape
// context — i.e. t is a FieldName used as a structural placeholder rather
// than a resolved scalar.
func (t Type) IsShapeField() bool {
	return t.variant == VariantFieldName
}

// ContainsGenerics reports whether t or any of its components mentions a
// GenericItem, recursively.
func (t Type) ContainsGenerics() bool {
	switch t.variant {
	case VariantGenericItem:
		return true
	case VariantOptional, VariantArray, VariantDictionary:
		return t.inner.ContainsGenerics()
	case VariantTuple, VariantUnion:
		for _, m := range t.members {
			if m.ContainsGenerics() {
				return true
			}
		}
		return false
	case VariantInterfaceReference:
		for _, g := range t.generics {
			if g.ContainsGenerics() {
				return true
			}
		}
		return false
	case VariantPipeline:
		return t.in.ContainsGenerics() || t.out.ContainsGenerics()
	case VariantFieldType:
		return t.container.ContainsGenerics() || t.reference.ContainsGenerics()
	case VariantDeclaredSynthesizedShape:
		return t.declaredInner.ContainsGenerics()
	case VariantSynthesizedShape:
		for _, f := range t.shapeFields {
			if f.ContainsGenerics() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func flattenUnionMembers(members []Type) []Type {
	var flat []Type
	for _, m := range members {
		m = m.Flatten()
		if m.variant == VariantUnion {
			flat = append(flat, m.members...)
		} else {
			flat = append(flat, m)
		}
	}
	return dedupeTypes(flat)
}

func dedupeTypes(members []Type) []Type {
	seen := make(map[string]bool, len(members))
	out := make([]Type, 0, len(members))
	for _, m := range members {
		key := m.canonicalKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].canonicalKey() < out[j].canonicalKey() })
	return out
}

// canonicalKey is an internal, order-independent identity string used for
// union de-duplication. It is not a display format.
func (t Type) canonicalKey() string {
	var sb strings.Builder
	t.writeCanonicalKey(&sb)
	return sb.String()
}

func (t Type) writeCanonicalKey(sb *strings.Builder) {
	switch t.variant {
	case VariantPrimitive:
		sb.WriteString("prim:")
		sb.WriteString(t.primitive.String())
	case VariantOptional:
		sb.WriteString("opt:")
		t.inner.writeCanonicalKey(sb)
	case VariantArray:
		sb.WriteString("arr:")
		t.inner.writeCanonicalKey(sb)
	case VariantDictionary:
		sb.WriteString("dict:")
		t.inner.writeCanonicalKey(sb)
	case VariantEnumReference:
		sb.WriteString("enum:")
		sb.WriteString(t.ref.Path)
	case VariantModelReference:
		sb.WriteString("model:")
		sb.WriteString(t.ref.Path)
	case VariantModelObject:
		sb.WriteString("modelobj:")
		sb.WriteString(t.ref.Path)
	case VariantStructReference:
		sb.WriteString("struct:")
		sb.WriteString(t.ref.Path)
	case VariantInterfaceReference:
		sb.WriteString("iface:")
		sb.WriteString(t.ref.Path)
		for _, g := range t.generics {
			sb.WriteByte(',')
			g.writeCanonicalKey(sb)
		}
	case VariantGenericItem:
		sb.WriteString("generic:")
		sb.WriteString(t.genericName)
	case VariantKeyword:
		sb.WriteString("kw:")
		sb.WriteString(t.keyword)
	case VariantFieldName:
		sb.WriteString("field:")
		sb.WriteString(t.fieldName)
	case VariantUndetermined:
		sb.WriteString("undetermined")
	case VariantPipeline:
		sb.WriteString("pipe:")
		t.in.writeCanonicalKey(sb)
		sb.WriteString("->")
		t.out.writeCanonicalKey(sb)
	case VariantFieldType:
		sb.WriteString("fieldtype:")
		t.container.writeCanonicalKey(sb)
		sb.WriteByte('.')
		t.reference.writeCanonicalKey(sb)
	default:
		sb.WriteString(t.Display())
	}
}

// Display renders t to its canonical surface syntax.
func (t Type) Display() string {
	switch t.variant {
	case VariantPrimitive:
		return t.primitive.String()
	case VariantOptional:
		return t.inner.Display() + "?"
	case VariantArray:
		return t.inner.Display() + "[]"
	case VariantDictionary:
		return "{" + t.inner.Display() + "}"
	case VariantTuple:
		parts := make([]string, len(t.members))
		for i, m := range t.members {
			parts[i] = m.Display()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case VariantUnion:
		parts := make([]string, len(t.members))
		for i, m := range t.members {
			parts[i] = m.Display()
		}
		return strings.Join(parts, " | ")
	case VariantEnumReference, VariantModelReference, VariantModelObject, VariantStructReference:
		return t.ref.StringPath
	case VariantInterfaceReference:
		if len(t.generics) == 0 {
			return t.ref.StringPath
		}
		parts := make([]string, len(t.generics))
		for i, g := range t.generics {
			parts[i] = g.Display()
		}
		return t.ref.StringPath + "<" + strings.Join(parts, ", ") + ">"
	case VariantPipeline:
		return t.in.Display() + " -> " + t.out.Display()
	case VariantGenericItem:
		return t.genericName
	case VariantKeyword:
		return t.keyword
	case VariantFieldName:
		return "." + t.fieldName
	case VariantSynthesizedShape:
		names := make([]string, 0, len(t.shapeFields))
		for name := range t.shapeFields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + ": " + t.shapeFields[name].Display()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case VariantSynthesizedShapeReference:
		return t.ref.StringPath + t.shapeKind.String()
	case VariantDeclaredSynthesizedShape:
		return t.declaredRef.StringPath
	case VariantFieldType:
		return t.container.Display() + "[." + t.reference.fieldName + "]"
	case VariantUndetermined:
		return "<undetermined>"
	default:
		return "<unknown>"
	}
}
