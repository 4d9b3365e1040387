package query

import (
	"github.com/HeKe007/teo-parser/assemble"
	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/location"
)

// NodeChain returns the nodes of sourceID whose spans contain pos, from
// outermost to innermost. The language-server features are built entirely
// on this plus the nodes' resolved side tables.
func NodeChain(s *assemble.Schema, sourceID uint32, pos location.Position) []ast.Node {
	src, ok := s.Sources[sourceID]
	if !ok {
		return nil
	}

	// The flat child list holds nested declarations too (a namespace's
	// members appear both behind the namespace's Members paths and as
	// top-level children), so picking every flat node containing pos and
	// ordering by path depth already yields the declaration chain.
	var chain []ast.Node
	for _, n := range src.Children {
		if n.Span().ContainsOrEquals(pos) {
			chain = append(chain, n)
		}
	}
	orderByDepth(chain)

	if len(chain) == 0 {
		return nil
	}

	// Descend into the innermost declaration's own structure: fields,
	// type expressions, decorator arguments, expressions.
	cur := chain[len(chain)-1]
	for {
		next, ok := childAt(s, cur, pos)
		if !ok {
			break
		}
		chain = append(chain, next)
		cur = next
	}
	return chain
}

func orderByDepth(nodes []ast.Node) {
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && depth(nodes[j].Path()) < depth(nodes[j-1].Path()); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

func depth(p ast.Path) int { return len(p.Elements()) }

func childAt(s *assemble.Schema, n ast.Node, pos location.Position) (ast.Node, bool) {
	for _, child := range children(s, n) {
		if child == nil {
			continue
		}
		if child.Span().ContainsOrEquals(pos) {
			return child, true
		}
	}
	return nil, false
}

// children enumerates one node's structural children as Node values. The
// switch is exhaustive over every kind that has any; kinds without
// children fall through to nil.
func children(s *assemble.Schema, n ast.Node) []ast.Node {
	switch v := n.(type) {
	case ast.Config:
		out := make([]ast.Node, 0, len(v.Declarations))
		for _, d := range v.Declarations {
			out = append(out, d)
		}
		return out
	case ast.ConfigDeclaration:
		return []ast.Node{v.Value}
	case ast.Constant:
		return []ast.Node{v.Value}
	case ast.Enum:
		out := make([]ast.Node, 0, len(v.Members))
		for _, m := range v.Members {
			out = append(out, m)
		}
		return out
	case ast.Model:
		out := make([]ast.Node, 0, len(v.Fields)+len(v.Decorators))
		for _, f := range v.Fields {
			out = append(out, f)
		}
		for _, d := range v.Decorators {
			out = append(out, d)
		}
		return out
	case ast.Interface:
		out := make([]ast.Node, 0, len(v.Fields))
		for _, f := range v.Fields {
			out = append(out, f)
		}
		return out
	case ast.Field:
		out := []ast.Node{v.TypeExpr}
		for _, d := range v.Decorators {
			out = append(out, d)
		}
		return out
	case ast.Decorator:
		out := make([]ast.Node, 0, len(v.Arguments))
		for _, a := range v.Arguments {
			out = append(out, a)
		}
		return out
	case ast.Argument:
		return []ast.Node{v.Value}
	case ast.ArgumentDeclaration:
		return []ast.Node{v.TypeExpr}
	case ast.GenericsConstraint:
		return []ast.Node{v.TypeExpr}
	case ast.DataSet:
		out := make([]ast.Node, 0, len(v.Groups))
		for _, g := range v.Groups {
			out = append(out, g)
		}
		return out
	case ast.DataSetGroup:
		out := make([]ast.Node, 0, len(v.Records))
		for _, r := range v.Records {
			out = append(out, r)
		}
		return out
	case ast.DataSetRecord:
		out := make([]ast.Node, 0, len(v.Fields))
		for _, e := range v.Fields {
			out = append(out, e)
		}
		return out
	case ast.Middleware:
		out := make([]ast.Node, 0, len(v.Arguments))
		for _, a := range v.Arguments {
			out = append(out, a)
		}
		return out
	case ast.UseMiddlewareBlock:
		out := make([]ast.Node, 0, len(v.Arguments))
		for _, a := range v.Arguments {
			out = append(out, a)
		}
		return out
	case ast.HandlerGroup:
		out := make([]ast.Node, 0, len(v.Middlewares))
		for _, m := range v.Middlewares {
			out = append(out, m)
		}
		for _, p := range v.Handlers {
			if h, ok := s.FindByPath(p); ok {
				out = append(out, h)
			}
		}
		return out
	case ast.HandlerDeclaration:
		out := []ast.Node{v.Input, v.Output}
		for _, d := range v.Decorators {
			out = append(out, d)
		}
		return out
	case ast.HandlerTemplateDeclaration:
		out := make([]ast.Node, 0, len(v.Arguments)+1)
		for _, a := range v.Arguments {
			out = append(out, a)
		}
		out = append(out, v.Output)
		return out
	case ast.DecoratorDeclaration:
		return variantChildren(v.Variants)
	case ast.PipelineItemDeclaration:
		return variantChildren(v.Variants)
	case ast.StructDeclaration:
		out := make([]ast.Node, 0, len(v.Functions))
		for _, fn := range v.Functions {
			out = append(out, fn)
		}
		return out
	case ast.FunctionDeclaration:
		out := make([]ast.Node, 0, len(v.Arguments)+1)
		for _, a := range v.Arguments {
			out = append(out, a)
		}
		out = append(out, v.Output)
		return out
	case ast.Namespace:
		out := make([]ast.Node, 0, len(v.Members))
		for _, p := range v.Members {
			if member, ok := s.FindByPath(p); ok {
				out = append(out, member)
			}
		}
		return out
	case ast.Expression:
		return expressionChildren(v)
	case ast.TypeExprNode:
		return typeExprChildren(v)
	default:
		return nil
	}
}

func variantChildren(variants []ast.CallableVariantDecl) []ast.Node {
	var out []ast.Node
	for _, variant := range variants {
		for _, a := range variant.Arguments {
			out = append(out, a)
		}
		for _, c := range variant.Constraints {
			out = append(out, c)
		}
		if !variant.PipeIn.IsZero() {
			out = append(out, variant.PipeIn)
		}
		if !variant.PipeOut.IsZero() {
			out = append(out, variant.PipeOut)
		}
	}
	return out
}

func expressionChildren(e ast.Expression) []ast.Node {
	var out []ast.Node
	for _, a := range e.Arguments {
		out = append(out, a)
	}
	for _, g := range e.Generics {
		out = append(out, g)
	}
	for _, step := range e.PipelineSteps {
		out = append(out, step)
	}
	for _, entry := range e.DictEntries {
		out = append(out, entry)
	}
	for _, elem := range e.Elements {
		out = append(out, elem)
	}
	if e.Lhs != nil {
		out = append(out, *e.Lhs)
	}
	if e.Rhs != nil {
		out = append(out, *e.Rhs)
	}
	return out
}

func typeExprChildren(t ast.TypeExprNode) []ast.Node {
	var out []ast.Node
	for _, g := range t.Generics {
		out = append(out, g)
	}
	if t.Elem != nil {
		out = append(out, *t.Elem)
	}
	for _, m := range t.Members {
		out = append(out, m)
	}
	if t.In != nil {
		out = append(out, *t.In)
	}
	if t.Out != nil {
		out = append(out, *t.Out)
	}
	if t.Container != nil {
		out = append(out, *t.Container)
	}
	for _, f := range t.ShapeFields {
		out = append(out, f)
	}
	return out
}
