package decl

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

// Resolve runs both passes of the declaration resolver over schema and
// returns the Context it ran with (callers that need resolve/argument to
// run afterward reuse the same Context: same trails, same nominal
// identity maps).
func Resolve(schema *assemble.Schema, resolver name.ImportResolver, collector *diag.Collector) *Context {
	ctx := NewContext(schema, resolver, collector)
	ctx.seedIdentities()
	ctx.resolveBodies()
	return ctx
}

// seedIdentities is pass 1: every Model/Enum/Interface/Struct gets
// its nominal Reference before any body resolves, so a field referencing
// another declaration never has to resolve that declaration's body first
// — only its identity, which this pass makes available up front.
func (c *Context) seedIdentities() {
	for _, p := range c.Schema.References.Models {
		if n, ok := c.Schema.FindByPath(p); ok {
			m := n.(ast.Model)
			c.modelRef[p] = reference(p, m.StringPath)
		}
	}
	for _, p := range c.Schema.References.Enums {
		if n, ok := c.Schema.FindByPath(p); ok {
			e := n.(ast.Enum)
			c.enumRef[p] = reference(p, e.StringPath)
		}
	}
	for _, p := range c.Schema.References.Interfaces {
		if n, ok := c.Schema.FindByPath(p); ok {
			i := n.(ast.Interface)
			c.interfaceRef[p] = reference(p, i.StringPath)
		}
	}
	for _, p := range c.Schema.References.Structs {
		if n, ok := c.Schema.FindByPath(p); ok {
			s := n.(ast.StructDeclaration)
			c.structRef[p] = reference(p, s.Name)
		}
	}
}

// resolveBodies is pass 2: every source's children resolve in place.
// Source.Children holds ast.Node interface values (copies, not pointers),
// so each resolve* helper returns the updated value and this loop writes
// it back with src.Children[i] = ... to persist it.
//
// Models resolve in their own sub-pass first, ahead of everything else.
// modelFieldTypes (used by resolveDataSet to type-check a group's records
// against its model's fields) reads a Model's fields back off the schema
// node, which only holds resolved types once resolveModel has run — so
// that ordering is made explicit here rather than left to the luck of
// map iteration over allSourceIDs.
func (c *Context) resolveBodies() {
	sourceIDs := allSourceIDs(c.Schema)

	for _, sourceID := range sourceIDs {
		src := c.Schema.Sources[sourceID]
		for i, n := range src.Children {
			if m, ok := n.(ast.Model); ok {
				src.Children[i] = c.resolveModel(sourceID, m)
			}
		}
	}

	for _, sourceID := range sourceIDs {
		src := c.Schema.Sources[sourceID]
		for i, n := range src.Children {
			switch v := n.(type) {
			case ast.Constant:
				src.Children[i] = c.resolveConstantValue(sourceID, v)
			case ast.Enum:
				src.Children[i] = c.resolveEnum(sourceID, v)
			case ast.Interface:
				src.Children[i] = c.resolveInterface(sourceID, v, nil)
			case ast.Config:
				src.Children[i] = c.resolveConfig(sourceID, v)
			case ast.HandlerDeclaration:
				src.Children[i] = c.resolveHandler(sourceID, v)
			case ast.DataSet:
				src.Children[i] = c.resolveDataSet(sourceID, v)
			case ast.StructDeclaration:
				src.Children[i] = c.resolveStruct(sourceID, v)
			}
		}
	}
}

func allSourceIDs(schema *assemble.Schema) []uint32 {
	ids := make([]uint32, 0, len(schema.Sources))
	for id := range schema.Sources {
		ids = append(ids, id)
	}
	return ids
}

func (c *Context) resolveConstantValue(sourceID uint32, constant ast.Constant) ast.Constant {
	if constant.Resolved.IsSet() {
		return constant
	}
	trail := c.trailOf(constant.Path())
	t := c.ResolveExpression(sourceID, trail, constant.Availability, typesys.Undetermined(), &constant.Value)
	constant.Resolved.Set(box(t))
	return constant
}

func (c *Context) resolveEnum(sourceID uint32, e ast.Enum) ast.Enum {
	if e.Resolved.IsSet() {
		return e
	}
	members := make([]typesys.Type, len(e.Members))
	for i, m := range e.Members {
		members[i] = typesys.FieldName(m.Name)
	}
	e.Resolved.Set(ast.EnumResolved{MemberUnion: box(typesys.Union(members...))})
	return e
}

func (c *Context) resolveField(sourceID uint32, trail []string, availability ast.Availability, f ast.Field) ast.Field {
	if !f.Resolved.IsSet() {
		t := c.LowerTypeExpr(sourceID, trail, availability, &f.TypeExpr)
		f.Resolved.Set(box(t))
	}
	return f
}

func (c *Context) resolveModel(sourceID uint32, m ast.Model) ast.Model {
	if m.Resolved.IsSet() {
		return m
	}
	if !c.enter(m.Path()) {
		return m
	}
	defer c.leave(m.Path())

	trail := c.trailOf(m.Path())
	for i := range m.Fields {
		m.Fields[i] = c.resolveField(sourceID, trail, m.Availability, m.Fields[i])
	}

	self := c.modelRef[m.Path()]
	m.Resolved.Set(ast.ModelResolved{
		Self:              box(typesys.ModelRef(self)),
		SynthesizedShapes: deriveSynthesizedShapes(self),
	})
	return m
}

var allShapeKinds = []typesys.ShapeKind{
	typesys.ShapeArgs, typesys.ShapeWhereInput, typesys.ShapeWhereUniqueInput,
	typesys.ShapeSelect, typesys.ShapeInclude, typesys.ShapeCreateInput, typesys.ShapeUpdateInput,
}

func deriveSynthesizedShapes(model typesys.Reference) map[string]ast.TypeRef {
	shapes := make(map[string]ast.TypeRef, len(allShapeKinds))
	for _, kind := range allShapeKinds {
		shapes[kind.String()] = box(typesys.SynthesizedShapeReference(kind, model))
	}
	return shapes
}

// resolveInterface materializes the field shape for one generics
// substitution. args is nil for the interface's own declared-generics identity;
// resolve/argument calls this again with concrete arguments the first
// time a reference needs a materialized shape, keyed by the substitution's
// canonical string so distinct instantiations coexist.
func (c *Context) resolveInterface(sourceID uint32, i ast.Interface, args []typesys.Type) ast.Interface {
	key := interfaceShapeKey(args)
	if i.Resolved == nil {
		i.Resolved = map[string]*ast.ResolvedCell[ast.TypeRef]{}
	}
	if cell, ok := i.Resolved[key]; ok && cell.IsSet() {
		return i
	}
	if !c.enter(i.Path()) {
		return i
	}
	defer c.leave(i.Path())

	substitutions := genericsSubstitutions(i.Generics, args)
	trail := c.trailOf(i.Path())

	fields := make(map[string]typesys.Type, len(i.Fields))
	for idx := range i.Fields {
		i.Fields[idx] = c.resolveField(sourceID, trail, i.Availability, i.Fields[idx])
		ft := unbox(i.Fields[idx].Resolved.Get())
		if len(substitutions) > 0 {
			ft = ft.ReplaceGenerics(substitutions)
		}
		fields[i.Fields[idx].Name] = ft
	}

	self := c.interfaceRef[i.Path()]
	shape := typesys.DeclaredSynthesizedShape(self, typesys.SynthesizedShape(fields))
	cell := &ast.ResolvedCell[ast.TypeRef]{}
	cell.Set(box(shape))
	i.Resolved[key] = cell
	return i
}

func interfaceShapeKey(args []typesys.Type) string {
	if len(args) == 0 {
		return ""
	}
	key := ""
	for idx, a := range args {
		if idx > 0 {
			key += ","
		}
		key += a.Display()
	}
	return key
}

func genericsSubstitutions(decl *ast.GenericsDeclaration, args []typesys.Type) map[string]typesys.Type {
	if decl == nil || len(args) == 0 {
		return nil
	}
	substitutions := make(map[string]typesys.Type, len(decl.Names))
	for i, paramName := range decl.Names {
		if i >= len(args) {
			break
		}
		substitutions[paramName] = args[i]
	}
	return substitutions
}

func (c *Context) resolveConfig(sourceID uint32, cfg ast.Config) ast.Config {
	if cfg.Resolved.IsSet() {
		return cfg
	}
	trail := c.trailOf(cfg.Path())
	for i := range cfg.Declarations {
		entry := cfg.Declarations[i]
		c.ResolveExpression(sourceID, trail, cfg.Availability, typesys.Undetermined(), &entry.Value)
		cfg.Declarations[i] = entry
	}
	cfg.Resolved.Set(ast.ConfigResolved{Keyword: cfg.Keyword})
	return cfg
}

func (c *Context) resolveHandler(sourceID uint32, h ast.HandlerDeclaration) ast.HandlerDeclaration {
	if h.Resolved.IsSet() {
		return h
	}
	trail := c.trailOf(h.Path())
	in := c.LowerTypeExpr(sourceID, trail, ast.AvailabilityDefault, &h.Input)
	out := c.LowerTypeExpr(sourceID, trail, ast.AvailabilityDefault, &h.Output)
	h.Resolved.Set(ast.HandlerResolved{Input: box(in), Output: box(out)})
	return h
}

func (c *Context) resolveDataSet(sourceID uint32, ds ast.DataSet) ast.DataSet {
	trail := c.trailOf(ds.Path())
	for gi := range ds.Groups {
		group := ds.Groups[gi]
		if !group.Resolved.IsSet() {
			target, ok := name.Lookup(c.Schema, c.Resolver, sourceID, trail, []string{group.ModelName}, name.ModelReference, ds.Availability)
			modelType := typesys.Undetermined()
			if ok {
				if m, ok := target.(ast.Model); ok {
					modelType = typesys.ModelRef(c.modelRef[m.Path()])
				}
			} else {
				c.Collector.Collect(diag.NewIssue(diag.Error, diag.EUnresolvedReference,
					"cannot resolve dataset group model "+group.ModelName).
					WithSpan(group.Span()).Build())
			}
			group.Resolved.Set(box(modelType))
		}

		shapeFields, _ := modelFieldTypes(c.Schema, unbox(group.Resolved.Get()))
		for ri := range group.Records {
			group.Records[ri] = c.resolveDataSetRecord(sourceID, trail, ds.Availability, shapeFields, group.Records[ri])
		}
		ds.Groups[gi] = group
	}
	return ds
}

// modelFieldTypes reads back a Model's already-resolved field types from
// its own schema node. resolveBodies resolves every Model in its own
// sub-pass before any DataSet is processed, so the lookup below always
// finds Fields[i].Resolved already set.
func modelFieldTypes(schema *assemble.Schema, modelType typesys.Type) (map[string]typesys.Type, bool) {
	ref, ok := modelType.Reference()
	if !ok {
		return nil, false
	}
	for _, p := range schema.References.Models {
		if p.String() != ref.Path {
			continue
		}
		n, ok := schema.FindByPath(p)
		if !ok {
			return nil, false
		}
		m, ok := n.(ast.Model)
		if !ok {
			return nil, false
		}
		fields := make(map[string]typesys.Type, len(m.Fields))
		for _, f := range m.Fields {
			if f.Resolved.IsSet() {
				fields[f.Name] = unbox(f.Resolved.Get())
			}
		}
		return fields, true
	}
	return nil, false
}

func (c *Context) resolveDataSetRecord(sourceID uint32, trail []string, availability ast.Availability, shapeFields map[string]typesys.Type, r ast.DataSetRecord) ast.DataSetRecord {
	if r.Resolved.IsSet() {
		return r
	}
	if r.JSONCLiteral != "" && len(r.Fields) == 0 {
		return c.resolveJSONCRecord(shapeFields, r)
	}
	fieldTypes := make(map[string]ast.TypeRef, len(r.Fields))
	for fieldName, value := range r.Fields {
		expected := typesys.Undetermined()
		if shapeFields != nil {
			if ft, ok := shapeFields[fieldName]; ok {
				expected = ft
			}
		}
		value := value
		t := c.ResolveExpression(sourceID, trail, availability, expected, &value)
		r.Fields[fieldName] = value
		fieldTypes[fieldName] = box(t)
	}
	r.Resolved.Set(ast.DataSetRecordResolved{FieldTypes: fieldTypes})
	return r
}

func (c *Context) resolveStruct(sourceID uint32, s ast.StructDeclaration) ast.StructDeclaration {
	self := typesys.StructRef(c.structRef[s.Path()])
	restore := c.bindKeyword(typesys.KeywordSelf, self)
	defer restore()

	trail := c.trailOf(s.Path())
	for i := range s.Functions {
		fn := s.Functions[i]
		c.LowerTypeExpr(sourceID, trail, ast.AvailabilityDefault, &fn.Output)
		for ai := range fn.Arguments {
			c.LowerTypeExpr(sourceID, trail, ast.AvailabilityDefault, &fn.Arguments[ai].TypeExpr)
		}
		s.Functions[i] = fn
	}
	return s
}
