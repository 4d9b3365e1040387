// Package parser walks a grammar.Node tree into the ast package's typed,
// path-bearing forest. It never aborts: unrecognized regions become
// diag.Unparsed issues and parsing continues, so a source with syntax
// errors still yields a best-effort AST.
package parser

import (
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/grammar"
	"github.com/HeKe007/teo-parser/location"
)

// Parser parses one grammar.Source into an ast.Source.
type Parser struct {
	collector *diag.Collector
}

// NewParser creates a Parser that reports diagnostics into collector.
func NewParser(collector *diag.Collector) *Parser {
	return &Parser{collector: collector}
}

// Parse walks src's root node and builds an ast.Source. numericSourceID is
// the integer that seeds every path minted for this source; id is
// the source's location identity, carried on every span.
func (p *Parser) Parse(numericSourceID uint32, id location.SourceID, src grammar.Source) *ast.Source {
	ctx := newContext(numericSourceID, id, src.Content(), p.collector)
	root := src.RootNode()

	result := &ast.Source{ID: numericSourceID, Path: id}
	if root == nil {
		return result
	}
	result.Span = spanOf(id, root)

	for _, child := range grammar.NamedChildren(root) {
		dispatchTopLevel(ctx, child, result)
	}
	result.Children = append(result.Children, ctx.nested...)
	return result
}

// dispatchTopLevel routes one top-level grammar node: imports go straight
// onto result.Imports, availability_block wrappers recurse with the
// availability stack pushed, and everything else is handed to
// parseDeclarationNode.
func dispatchTopLevel(ctx *Context, n grammar.Node, out *ast.Source) {
	if n.IsError() {
		ctx.insertUnparsed(spanOf(ctx.sourceID, n))
		return
	}

	switch n.Kind() {
	case "import_declaration":
		out.Imports = append(out.Imports, parseImport(ctx, n))
	case "availability_block":
		dispatchAvailabilityBlock(ctx, n, out)
	case "comment", "doc_comment":
		// not represented in the AST
	default:
		if node := parseDeclarationNode(ctx, n); node != nil {
			out.Children = append(out.Children, node)
		}
	}
}

// dispatchAvailabilityBlock parses `@[availability …] { … }`, applying the
// parsed availability mask to every declaration nested inside it.
func dispatchAvailabilityBlock(ctx *Context, n grammar.Node, out *ast.Source) {
	flags := n.ChildByFieldName("flags")
	a := parseAvailability(ctx, flags)
	ctx.pushAvailability(declaredAvailability(ctx, a))
	defer ctx.popAvailability()

	for _, child := range grammar.NamedChildren(n) {
		if child.Kind() == "availability_flags" {
			continue
		}
		dispatchTopLevel(ctx, child, out)
	}
}

// parseDeclarationNode builds the declaration-shaped node a grammar.Node
// produces. Used both for source-level declarations, which dispatchTopLevel
// appends to Source.Children, and for Namespace members, which
// parseNamespace records via ctx.addNested so they are reachable by path
// from the source's flat child list (the query façade relies on every node being found by
// path, not on physical containment in a parent struct field). Handlers
// inside a HandlerGroup are parsed by parseHandlerDeclaration and recorded
// the same way.
func parseDeclarationNode(ctx *Context, n grammar.Node) ast.Node {
	if n.IsError() {
		ctx.insertUnparsed(spanOf(ctx.sourceID, n))
		return nil
	}

	switch n.Kind() {
	case "config_declaration":
		v := parseConfig(ctx, n)
		return v
	case "constant_declaration":
		v := parseConstant(ctx, n)
		return v
	case "enum_declaration":
		v := parseEnum(ctx, n)
		return v
	case "model_declaration":
		v := parseModel(ctx, n)
		return v
	case "interface_declaration":
		v := parseInterface(ctx, n)
		return v
	case "dataset_declaration":
		v := parseDataSet(ctx, n)
		return v
	case "namespace_declaration":
		v := parseNamespace(ctx, n)
		return v
	case "middleware_declaration":
		v := parseMiddleware(ctx, n)
		return v
	case "handler_group_declaration":
		v := parseHandlerGroup(ctx, n)
		return v
	case "handler_declaration":
		v := parseHandlerDeclaration(ctx, n)
		return v
	case "handler_template_declaration":
		v := parseHandlerTemplate(ctx, n)
		return v
	case "decorator_declaration":
		v := parseDecoratorDeclaration(ctx, n)
		return v
	case "pipeline_item_declaration":
		v := parsePipelineItemDeclaration(ctx, n)
		return v
	case "struct_declaration":
		v := parseStructDeclaration(ctx, n)
		return v
	default:
		ctx.insertUnparsed(spanOf(ctx.sourceID, n))
		return nil
	}
}
