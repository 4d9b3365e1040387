package parser

import (
	"strconv"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/grammar"
)

// parseExpression lowers one syntactic expression grammar node into an
// ast.Expression. A nil node yields the zero Expression.
func parseExpression(ctx *Context, n grammar.Node) ast.Expression {
	if n == nil {
		return ast.Expression{}
	}
	if n.IsError() {
		ctx.insertUnparsed(spanOf(ctx.sourceID, n))
		return ast.Expression{}
	}

	path := ctx.alloc.NextPath()
	span := spanOf(ctx.sourceID, n)
	base := ast.NewBase(ast.KindExpression, path, span)

	switch n.Kind() {
	case "int_literal":
		v, _ := strconv.ParseInt(ctx.text(n), 10, 64)
		return ast.Expression{Base: base, ExprKind: ast.ExprIntLiteral, IntValue: v}

	case "float_literal":
		v, _ := strconv.ParseFloat(ctx.text(n), 64)
		return ast.Expression{Base: base, ExprKind: ast.ExprFloatLiteral, FloatValue: v}

	case "string_literal":
		return ast.Expression{Base: base, ExprKind: ast.ExprStringLiteral, StringValue: unquote(ctx.text(n))}

	case "bool_literal":
		return ast.Expression{Base: base, ExprKind: ast.ExprBoolLiteral, BoolValue: ctx.text(n) == "true"}

	case "null_literal":
		return ast.Expression{Base: base, ExprKind: ast.ExprNullLiteral}

	case "identifier_path":
		return ast.Expression{Base: base, ExprKind: ast.ExprIdentifierPath, IdentifierPath: identifierPath(ctx, n)}

	case "field_name_literal":
		return ast.Expression{
			Base:           base,
			ExprKind:       ast.ExprFieldNameLiteral,
			IdentifierPath: []string{ctx.fieldText(n, "name")},
		}

	case "enum_variant_literal":
		return ast.Expression{
			Base:           base,
			ExprKind:       ast.ExprEnumVariantLiteral,
			IdentifierPath: identifierPath(ctx, n.ChildByFieldName("name")),
		}

	case "unit_application":
		e := ast.Expression{
			Base:       base,
			ExprKind:   ast.ExprUnitApplication,
			CalleeName: ctx.fieldText(n, "callee"),
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			e.Arguments = parseArgumentList(ctx, args)
		}
		if generics := n.ChildByFieldName("generics"); generics != nil {
			for _, child := range grammar.NamedChildren(generics) {
				e.Generics = append(e.Generics, parseTypeExpr(ctx, child))
			}
		}
		return e

	case "pipeline_expression":
		var steps []ast.Expression
		for _, child := range grammar.NamedChildren(n) {
			steps = append(steps, parseExpression(ctx, child))
		}
		return ast.Expression{Base: base, ExprKind: ast.ExprPipeline, PipelineSteps: steps}

	case "dictionary_literal":
		entries := map[string]ast.Expression{}
		for _, child := range grammar.NamedChildren(n) {
			if child.Kind() != "dictionary_entry" {
				continue
			}
			entries[ctx.fieldText(child, "key")] = parseExpression(ctx, child.ChildByFieldName("value"))
		}
		return ast.Expression{Base: base, ExprKind: ast.ExprDictionaryLiteral, DictEntries: entries}

	case "array_literal":
		var elems []ast.Expression
		for _, child := range grammar.NamedChildren(n) {
			elems = append(elems, parseExpression(ctx, child))
		}
		return ast.Expression{Base: base, ExprKind: ast.ExprArrayLiteral, Elements: elems}

	case "tuple_literal":
		var elems []ast.Expression
		for _, child := range grammar.NamedChildren(n) {
			elems = append(elems, parseExpression(ctx, child))
		}
		return ast.Expression{Base: base, ExprKind: ast.ExprTupleLiteral, Elements: elems}

	case "binary_expression":
		lhs := parseExpression(ctx, n.ChildByFieldName("left"))
		rhs := parseExpression(ctx, n.ChildByFieldName("right"))
		return ast.Expression{
			Base:     base,
			ExprKind: ast.ExprBinaryOp,
			Operator: ctx.fieldText(n, "operator"),
			Lhs:      &lhs,
			Rhs:      &rhs,
		}

	case "unary_expression":
		operand := parseExpression(ctx, n.ChildByFieldName("operand"))
		return ast.Expression{
			Base:     base,
			ExprKind: ast.ExprUnaryOp,
			Operator: ctx.fieldText(n, "operator"),
			Lhs:      &operand,
		}

	default:
		ctx.insertUnparsed(span)
		return ast.Expression{Base: base}
	}
}
