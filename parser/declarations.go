package parser

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/grammar"
)

func parseImport(ctx *Context, n grammar.Node) ast.Import {
	path := ctx.alloc.NextPath()
	pathLit := n.ChildByFieldName("path")
	alias := n.ChildByFieldName("alias")
	return ast.Import{
		Base:       ast.NewBase(ast.KindImport, path, spanOf(ctx.sourceID, n)),
		ImportPath: unquote(ctx.text(pathLit)),
		Alias:      ctx.text(alias),
	}
}

func parseConfig(ctx *Context, n grammar.Node) ast.Config {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	cfg := ast.Config{
		Base:         ast.NewBase(ast.KindConfig, path, spanOf(ctx.sourceID, n)),
		Keyword:      ctx.fieldText(n, "keyword"),
		Availability: declaredAvailability(ctx, 0),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "config_declaration" {
			continue
		}
		cfg.Declarations = append(cfg.Declarations, parseConfigDeclaration(ctx, child))
	}
	return cfg
}

func parseConfigDeclaration(ctx *Context, n grammar.Node) ast.ConfigDeclaration {
	path := ctx.alloc.NextPath()
	return ast.ConfigDeclaration{
		Base:  ast.NewBase(ast.KindConfigDeclaration, path, spanOf(ctx.sourceID, n)),
		Name:  ctx.fieldText(n, "name"),
		Value: parseExpression(ctx, n.ChildByFieldName("value")),
	}
}

func parseConstant(ctx *Context, n grammar.Node) ast.Constant {
	path := ctx.alloc.NextPath()
	name := ctx.fieldText(n, "name")
	return ast.Constant{
		Base:         ast.NewBase(ast.KindConstant, path, spanOf(ctx.sourceID, n)),
		Name:         name,
		StringPath:   name,
		Value:        parseExpression(ctx, n.ChildByFieldName("value")),
		Availability: declaredAvailability(ctx, 0),
	}
}

func parseEnum(ctx *Context, n grammar.Node) ast.Enum {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	name := ctx.fieldText(n, "name")
	e := ast.Enum{
		Base:         ast.NewBase(ast.KindEnum, path, spanOf(ctx.sourceID, n)),
		Name:         name,
		StringPath:   name,
		Availability: declaredAvailability(ctx, 0),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "enum_member" {
			continue
		}
		e.Members = append(e.Members, parseEnumMember(ctx, child))
	}
	return e
}

func parseEnumMember(ctx *Context, n grammar.Node) ast.EnumMember {
	path := ctx.alloc.NextPath()
	return ast.EnumMember{
		Base: ast.NewBase(ast.KindEnumMember, path, spanOf(ctx.sourceID, n)),
		Name: ctx.text(n),
	}
}

func parseField(ctx *Context, n grammar.Node) ast.Field {
	path := ctx.alloc.NextPath()
	f := ast.Field{
		Base:     ast.NewBase(ast.KindField, path, spanOf(ctx.sourceID, n)),
		Name:     ctx.fieldText(n, "name"),
		TypeExpr: parseTypeExpr(ctx, n.ChildByFieldName("type")),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() == "decorator" || child.Kind() == "empty_decorator" {
			f.Decorators = append(f.Decorators, parseDecorator(ctx, child))
		}
	}
	return f
}

func parseDecorator(ctx *Context, n grammar.Node) ast.Decorator {
	path := ctx.alloc.NextPath()
	d := ast.Decorator{
		Base: ast.NewBase(ast.KindDecorator, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		d.Arguments = parseArgumentList(ctx, args)
	}
	return d
}

func parseModel(ctx *Context, n grammar.Node) ast.Model {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	name := ctx.fieldText(n, "name")
	m := ast.Model{
		Base:         ast.NewBase(ast.KindModel, path, spanOf(ctx.sourceID, n)),
		Name:         name,
		StringPath:   name,
		Availability: declaredAvailability(ctx, 0),
	}
	if g := n.ChildByFieldName("generics"); g != nil {
		generics := parseGenericsDeclaration(ctx, g)
		m.Generics = &generics
	}
	for _, child := range grammar.NamedChildren(n) {
		switch child.Kind() {
		case "field":
			m.Fields = append(m.Fields, parseField(ctx, child))
		case "decorator", "empty_decorator":
			m.Decorators = append(m.Decorators, parseDecorator(ctx, child))
		}
	}
	return m
}

func parseGenericsDeclaration(ctx *Context, n grammar.Node) ast.GenericsDeclaration {
	path := ctx.alloc.NextPath()
	g := ast.GenericsDeclaration{Base: ast.NewBase(ast.KindGenericsDeclaration, path, spanOf(ctx.sourceID, n))}
	for _, child := range grammar.NamedChildren(n) {
		g.Names = append(g.Names, ctx.text(child))
	}
	return g
}

func parseGenericsConstraint(ctx *Context, n grammar.Node) ast.GenericsConstraint {
	path := ctx.alloc.NextPath()
	return ast.GenericsConstraint{
		Base:     ast.NewBase(ast.KindGenericsConstraint, path, spanOf(ctx.sourceID, n)),
		Name:     ctx.fieldText(n, "name"),
		TypeExpr: parseTypeExpr(ctx, n.ChildByFieldName("constraint")),
	}
}

func parseInterface(ctx *Context, n grammar.Node) ast.Interface {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	name := ctx.fieldText(n, "name")
	i := ast.Interface{
		Base:         ast.NewBase(ast.KindInterface, path, spanOf(ctx.sourceID, n)),
		Name:         name,
		StringPath:   name,
		Availability: declaredAvailability(ctx, 0),
		Resolved:     map[string]*ast.ResolvedCell[ast.TypeRef]{},
	}
	if g := n.ChildByFieldName("generics"); g != nil {
		generics := parseGenericsDeclaration(ctx, g)
		i.Generics = &generics
	}
	for _, child := range grammar.NamedChildren(n) {
		switch child.Kind() {
		case "field":
			i.Fields = append(i.Fields, parseField(ctx, child))
		case "generics_constraint":
			i.Constraints = append(i.Constraints, parseGenericsConstraint(ctx, child))
		}
	}
	return i
}

func parseDataSet(ctx *Context, n grammar.Node) ast.DataSet {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	ds := ast.DataSet{
		Base:         ast.NewBase(ast.KindDataSet, path, spanOf(ctx.sourceID, n)),
		Name:         ctx.fieldText(n, "name"),
		Availability: declaredAvailability(ctx, 0),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "dataset_group" {
			continue
		}
		ds.Groups = append(ds.Groups, parseDataSetGroup(ctx, child))
	}
	return ds
}

func parseDataSetGroup(ctx *Context, n grammar.Node) ast.DataSetGroup {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	g := ast.DataSetGroup{
		Base:      ast.NewBase(ast.KindDataSetGroup, path, spanOf(ctx.sourceID, n)),
		ModelName: ctx.fieldText(n, "model"),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "dataset_record" {
			continue
		}
		g.Records = append(g.Records, parseDataSetRecord(ctx, child))
	}
	return g
}

func parseDataSetRecord(ctx *Context, n grammar.Node) ast.DataSetRecord {
	path := ctx.alloc.NextPath()
	rec := ast.DataSetRecord{Base: ast.NewBase(ast.KindDataSetRecord, path, spanOf(ctx.sourceID, n))}

	if jsonc := n.ChildByFieldName("jsonc"); jsonc != nil {
		rec.JSONCLiteral = ctx.text(jsonc)
		return rec
	}

	fields := map[string]ast.Expression{}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "record_field" {
			continue
		}
		fields[ctx.fieldText(child, "name")] = parseExpression(ctx, child.ChildByFieldName("value"))
	}
	rec.Fields = fields
	return rec
}

func parseNamespace(ctx *Context, n grammar.Node) ast.Namespace {
	path := ctx.alloc.NextParentPath()
	name := ctx.fieldText(n, "name")
	ns := ast.Namespace{
		Base:       ast.NewBase(ast.KindNamespace, path, spanOf(ctx.sourceID, n)),
		Name:       name,
		StringPath: name,
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() == "name" {
			continue
		}
		member := parseDeclarationNode(ctx, child)
		if member == nil {
			continue
		}
		ns.Members = append(ns.Members, member.Path())
		ctx.addNested(member)
	}
	ctx.alloc.PopParentID()
	return ns
}

func parseMiddleware(ctx *Context, n grammar.Node) ast.Middleware {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	m := ast.Middleware{
		Base: ast.NewBase(ast.KindMiddleware, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for _, child := range grammar.NamedChildren(args) {
			m.Arguments = append(m.Arguments, parseArgumentDeclaration(ctx, child))
		}
	}
	return m
}

func parseArgumentDeclaration(ctx *Context, n grammar.Node) ast.ArgumentDeclaration {
	path := ctx.alloc.NextPath()
	return ast.ArgumentDeclaration{
		Base:       ast.NewBase(ast.KindArgumentDeclaration, path, spanOf(ctx.sourceID, n)),
		Name:       ctx.fieldText(n, "name"),
		TypeExpr:   parseTypeExpr(ctx, n.ChildByFieldName("type")),
		Optional:   n.ChildByFieldName("optional") != nil,
		HasDefault: n.ChildByFieldName("default") != nil,
	}
}

func parseUseMiddlewareBlock(ctx *Context, n grammar.Node) ast.UseMiddlewareBlock {
	path := ctx.alloc.NextPath()
	u := ast.UseMiddlewareBlock{
		Base:           ast.NewBase(ast.KindUseMiddlewareBlock, path, spanOf(ctx.sourceID, n)),
		MiddlewareName: ctx.fieldText(n, "name"),
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		u.Arguments = parseArgumentList(ctx, args)
	}
	return u
}

func parseHandlerGroup(ctx *Context, n grammar.Node) ast.HandlerGroup {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	hg := ast.HandlerGroup{
		Base:       ast.NewBase(ast.KindHandlerGroup, path, spanOf(ctx.sourceID, n)),
		PathPrefix: unquote(ctx.fieldText(n, "path")),
	}
	for _, child := range grammar.NamedChildren(n) {
		switch child.Kind() {
		case "use_middleware_block":
			hg.Middlewares = append(hg.Middlewares, parseUseMiddlewareBlock(ctx, child))
		case "handler_declaration":
			handler := parseHandlerDeclaration(ctx, child)
			hg.Handlers = append(hg.Handlers, handler.Path())
			ctx.addNested(handler)
		}
	}
	return hg
}

func parseHandlerDeclaration(ctx *Context, n grammar.Node) ast.HandlerDeclaration {
	path := ctx.alloc.NextPath()
	h := ast.HandlerDeclaration{
		Base:   ast.NewBase(ast.KindHandlerDeclaration, path, spanOf(ctx.sourceID, n)),
		Name:   ctx.fieldText(n, "name"),
		Method: ctx.fieldText(n, "method"),
		Route:  unquote(ctx.fieldText(n, "path")),
	}
	if in := n.ChildByFieldName("input"); in != nil {
		h.Input = parseTypeExpr(ctx, in)
	}
	if out := n.ChildByFieldName("output"); out != nil {
		h.Output = parseTypeExpr(ctx, out)
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() == "decorator" || child.Kind() == "empty_decorator" {
			h.Decorators = append(h.Decorators, parseDecorator(ctx, child))
		}
	}
	return h
}

func parseHandlerTemplate(ctx *Context, n grammar.Node) ast.HandlerTemplateDeclaration {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	h := ast.HandlerTemplateDeclaration{
		Base: ast.NewBase(ast.KindHandlerTemplateDeclaration, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	if g := n.ChildByFieldName("generics"); g != nil {
		generics := parseGenericsDeclaration(ctx, g)
		h.Generics = &generics
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for _, child := range grammar.NamedChildren(args) {
			h.Arguments = append(h.Arguments, parseArgumentDeclaration(ctx, child))
		}
	}
	if out := n.ChildByFieldName("output"); out != nil {
		h.Output = parseTypeExpr(ctx, out)
	}
	return h
}

func parseDecoratorDeclaration(ctx *Context, n grammar.Node) ast.DecoratorDeclaration {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	d := ast.DecoratorDeclaration{
		Base: ast.NewBase(ast.KindDecoratorDeclaration, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "callable_variant" {
			continue
		}
		d.Variants = append(d.Variants, parseCallableVariantDecl(ctx, child))
	}
	return d
}

func parsePipelineItemDeclaration(ctx *Context, n grammar.Node) ast.PipelineItemDeclaration {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	p := ast.PipelineItemDeclaration{
		Base: ast.NewBase(ast.KindPipelineItemDeclaration, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "callable_variant" {
			continue
		}
		p.Variants = append(p.Variants, parseCallableVariantDecl(ctx, child))
	}
	return p
}

func parseCallableVariantDecl(ctx *Context, n grammar.Node) ast.CallableVariantDecl {
	v := ast.CallableVariantDecl{}
	if g := n.ChildByFieldName("generics"); g != nil {
		generics := parseGenericsDeclaration(ctx, g)
		v.Generics = &generics
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for _, child := range grammar.NamedChildren(args) {
			v.Arguments = append(v.Arguments, parseArgumentDeclaration(ctx, child))
		}
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() == "generics_constraint" {
			v.Constraints = append(v.Constraints, parseGenericsConstraint(ctx, child))
		}
	}
	if in := n.ChildByFieldName("pipe_in"); in != nil {
		v.PipeIn = parseTypeExpr(ctx, in)
	}
	if out := n.ChildByFieldName("pipe_out"); out != nil {
		v.PipeOut = parseTypeExpr(ctx, out)
	}
	return v
}

func parseStructDeclaration(ctx *Context, n grammar.Node) ast.StructDeclaration {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	s := ast.StructDeclaration{
		Base: ast.NewBase(ast.KindStructDeclaration, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "function_declaration" {
			continue
		}
		s.Functions = append(s.Functions, parseFunctionDeclaration(ctx, child))
	}
	return s
}

func parseFunctionDeclaration(ctx *Context, n grammar.Node) ast.FunctionDeclaration {
	path := ctx.alloc.NextParentPath()
	defer ctx.alloc.PopParentID()

	f := ast.FunctionDeclaration{
		Base: ast.NewBase(ast.KindFunctionDeclaration, path, spanOf(ctx.sourceID, n)),
		Name: ctx.fieldText(n, "name"),
	}
	if g := n.ChildByFieldName("generics"); g != nil {
		generics := parseGenericsDeclaration(ctx, g)
		f.Generics = &generics
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for _, child := range grammar.NamedChildren(args) {
			f.Arguments = append(f.Arguments, parseArgumentDeclaration(ctx, child))
		}
	}
	if out := n.ChildByFieldName("output"); out != nil {
		f.Output = parseTypeExpr(ctx, out)
	}
	return f
}

func parseArgumentList(ctx *Context, n grammar.Node) []ast.Argument {
	var args []ast.Argument
	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() != "argument" {
			continue
		}
		args = append(args, parseArgument(ctx, child))
	}
	return args
}

func parseArgument(ctx *Context, n grammar.Node) ast.Argument {
	path := ctx.alloc.NextPath()
	return ast.Argument{
		Base:  ast.NewBase(ast.KindArgument, path, spanOf(ctx.sourceID, n)),
		Name:  ctx.fieldText(n, "name"),
		Value: parseExpression(ctx, n.ChildByFieldName("value")),
	}
}
