package parser

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/grammar"
)

// parseTypeExpr lowers one syntactic type-expression grammar node into an
// ast.TypeExprNode. A nil node (an omitted return type, say) yields the
// zero TypeExprNode.
func parseTypeExpr(ctx *Context, n grammar.Node) ast.TypeExprNode {
	if n == nil {
		return ast.TypeExprNode{}
	}
	if n.IsError() {
		ctx.insertUnparsed(spanOf(ctx.sourceID, n))
		return ast.TypeExprNode{}
	}

	path := ctx.alloc.NextPath()
	span := spanOf(ctx.sourceID, n)
	base := ast.NewBase(ast.KindTypeExpr, path, span)

	switch n.Kind() {
	case "array_type":
		elem := parseTypeExpr(ctx, n.ChildByFieldName("element"))
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprArray, Elem: &elem}

	case "dictionary_type":
		elem := parseTypeExpr(ctx, n.ChildByFieldName("element"))
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprDictionary, Elem: &elem}

	case "optional_type":
		elem := parseTypeExpr(ctx, n.ChildByFieldName("element"))
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprOptional, Elem: &elem}

	case "tuple_type":
		var members []ast.TypeExprNode
		for _, child := range grammar.NamedChildren(n) {
			members = append(members, parseTypeExpr(ctx, child))
		}
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprTuple, Members: members}

	case "union_type":
		var members []ast.TypeExprNode
		for _, child := range grammar.NamedChildren(n) {
			members = append(members, parseTypeExpr(ctx, child))
		}
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprUnion, Members: members}

	case "pipeline_type":
		in := parseTypeExpr(ctx, n.ChildByFieldName("input"))
		out := parseTypeExpr(ctx, n.ChildByFieldName("output"))
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprPipeline, In: &in, Out: &out}

	case "subscript_type":
		container := parseTypeExpr(ctx, n.ChildByFieldName("container"))
		return ast.TypeExprNode{
			Base:         base,
			TypeExprKind: ast.TypeExprSubscript,
			Container:    &container,
			Field:        ctx.fieldText(n, "field"),
		}

	case "shape_type":
		fields := map[string]ast.TypeExprNode{}
		for _, child := range grammar.NamedChildren(n) {
			if child.Kind() != "shape_field" {
				continue
			}
			fields[ctx.fieldText(child, "name")] = parseTypeExpr(ctx, child.ChildByFieldName("type"))
		}
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprShape, ShapeFields: fields}

	case "enum_literal_type":
		var members []ast.TypeExprNode
		for _, child := range grammar.NamedChildren(n) {
			memberPath := ctx.alloc.NextPath()
			members = append(members, ast.TypeExprNode{
				Base:         ast.NewBase(ast.KindTypeExpr, memberPath, spanOf(ctx.sourceID, child)),
				TypeExprKind: ast.TypeExprNamed,
				Name:         identifierPath(ctx, child),
			})
		}
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprEnumLiteral, Members: members}

	case "keyword_type":
		return ast.TypeExprNode{Base: base, TypeExprKind: ast.TypeExprKeyword, Keyword: ctx.text(n)}

	case "named_type":
		node := ast.TypeExprNode{
			Base:         base,
			TypeExprKind: ast.TypeExprNamed,
			Name:         identifierPath(ctx, n.ChildByFieldName("name")),
			ItemOptional: n.ChildByFieldName("optional") != nil,
		}
		if generics := n.ChildByFieldName("generics"); generics != nil {
			for _, child := range grammar.NamedChildren(generics) {
				node.Generics = append(node.Generics, parseTypeExpr(ctx, child))
			}
		}
		return node

	default:
		// Fall back to treating any other node as a bare name reference —
		// keeps single-token type expressions (primitives, plain nominal
		// references) working without a dedicated grammar rule per kind.
		return ast.TypeExprNode{
			Base:         base,
			TypeExprKind: ast.TypeExprNamed,
			Name:         identifierPath(ctx, n),
		}
	}
}
