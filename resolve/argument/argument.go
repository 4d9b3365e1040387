// Package argument implements the expression & argument resolver's
// callable-variant matching: the second sweep run after
// resolve/decl's two passes finish, resolving every decorator
// application, unit-application, and pipeline expression resolve/decl
// left Undetermined once every declaration's own nominal type and
// resolved field shapes are known.
package argument

import (
	"fmt"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/resolve/decl"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

// VariantState names the callable-variant matching state machine's states
// Implemented as an explicit enum walked by
// plain Go control flow, not goroutines — matching the Non-goal on
// concurrent analysis of one schema.
type VariantState int

const (
	StateFiltering VariantState = iota
	StateCommitted
	StateMultiAttempt
	StateReturnedType
	StateNotFound
)

// ArgumentState names the per-argument state machine's states.
type ArgumentState int

const (
	ArgFresh ArgumentState = iota
	ArgNameLookedUp
	ArgUnified
	ArgValidated
	ArgRejected
)

// Sweep resolves every callable site reachable from an already
// decl-resolved schema: decorator applications on models, fields, and
// handlers, and the unit-application / pipeline expressions nested in
// constant values, config entries, and dataset records — exactly the
// expressions resolve/decl deliberately left unresolved for this pass.
func Sweep(ctx *decl.Context) {
	for sourceID, src := range ctx.Schema.Sources {
		for i, n := range src.Children {
			switch v := n.(type) {
			case ast.Constant:
				trail := ctx.TrailOf(v.Path())
				ResolveExpression(ctx, sourceID, trail, v.Availability, typesys.Undetermined(), &v.Value)
				src.Children[i] = v

			case ast.Config:
				trail := ctx.TrailOf(v.Path())
				for di := range v.Declarations {
					ResolveExpression(ctx, sourceID, trail, v.Availability, typesys.Undetermined(), &v.Declarations[di].Value)
				}
				src.Children[i] = v

			case ast.Model:
				trail := ctx.TrailOf(v.Path())
				self := modelSelfType(&v)
				for di := range v.Decorators {
					resolveDecorator(ctx, sourceID, trail, v.Availability, self, &v.Decorators[di])
				}
				for fi := range v.Fields {
					field := &v.Fields[fi]
					fieldType := decl.Unbox(field.Resolved.GetOrZero())
					for di := range field.Decorators {
						resolveDecorator(ctx, sourceID, trail, v.Availability, fieldType, &field.Decorators[di])
					}
				}
				src.Children[i] = v

			case ast.Interface:
				trail := ctx.TrailOf(v.Path())
				for fi := range v.Fields {
					field := &v.Fields[fi]
					fieldType := decl.Unbox(field.Resolved.GetOrZero())
					for di := range field.Decorators {
						resolveDecorator(ctx, sourceID, trail, v.Availability, fieldType, &field.Decorators[di])
					}
				}
				src.Children[i] = v

			case ast.HandlerDeclaration:
				trail := ctx.TrailOf(v.Path())
				for di := range v.Decorators {
					resolveDecorator(ctx, sourceID, trail, ast.AvailabilityDefault, typesys.Undetermined(), &v.Decorators[di])
				}
				src.Children[i] = v

			case ast.DataSet:
				trail := ctx.TrailOf(v.Path())
				for gi := range v.Groups {
					for ri := range v.Groups[gi].Records {
						record := v.Groups[gi].Records[ri]
						for fieldName, value := range record.Fields {
							value := value
							ResolveExpression(ctx, sourceID, trail, v.Availability, typesys.Undetermined(), &value)
							record.Fields[fieldName] = value
						}
					}
				}
				src.Children[i] = v
			}
		}
	}
}

func modelSelfType(m *ast.Model) typesys.Type {
	if !m.Resolved.IsSet() {
		return typesys.Undetermined()
	}
	return decl.Unbox(m.Resolved.Get().Self)
}

// resolveDecorator matches one decorator application against its declared
// variants. subject is the type the decorator is applied to — the field's
// resolved type for a field decorator, the model's own reference type for
// a model decorator — threaded in as the pipeline input so a generic
// decorator (`@default<T>(value: T)`) infers T from its subject.
func resolveDecorator(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, subject typesys.Type, d *ast.Decorator) {
	if d.Resolved.IsSet() {
		return
	}

	target, ok := name.Lookup(ctx.Schema, ctx.Resolver, sourceID, trail, []string{d.Name}, name.CallableReference, availability)
	if !ok {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.EUnresolvedReference,
			fmt.Sprintf("cannot resolve decorator %q", d.Name)).
			WithSpan(d.Span()).Build())
		d.Resolved.Set(ast.CallSiteResolved{ResultType: decl.Box(typesys.Undetermined()), VariantIndex: -1})
		return
	}

	variants := variantsOf(target)
	if len(variants) == 0 {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.ECallableVariantNotFound,
			fmt.Sprintf("%q declares no callable variants", d.Name)).
			WithSpan(d.Span()).Build())
		d.Resolved.Set(ast.CallSiteResolved{ResultType: decl.Box(typesys.Undetermined()), VariantIndex: -1})
		return
	}

	result := MatchCallable(ctx, sourceID, trail, availability, d.Span(), variants, d.Arguments, nil, subject)
	ctx.Collector.CollectAll(result.Diagnostics)
	if !result.Matched {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.ECallableVariantNotFound,
			fmt.Sprintf("no callable variant of %q matches the supplied arguments", d.Name)).
			WithSpan(d.Span()).Build())
		d.Resolved.Set(ast.CallSiteResolved{ResultType: decl.Box(typesys.Undetermined()), VariantIndex: -1})
		return
	}
	d.Resolved.Set(ast.CallSiteResolved{
		ResultType:   decl.Box(result.ReturnType),
		GenericsMap:  boxGenericsMap(result.GenericsMap),
		VariantIndex: result.VariantIndex,
	})
}

func boxGenericsMap(m map[string]typesys.Type) map[string]ast.TypeRef {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]ast.TypeRef, len(m))
	for k, v := range m {
		out[k] = decl.Box(v)
	}
	return out
}

// ResolveExpression recurses through e the same way resolve/decl's own
// ResolveExpression does for the aggregate kinds, but additionally
// resolves ExprUnitApplication / ExprPipeline via MatchCallable — the
// pieces resolve/decl defers. Aggregate nodes already carry a resolved
// cell from decl's pass; this still descends into them, because a
// deferred unit application can hide anywhere inside an already-typed
// dictionary or array literal.
func ResolveExpression(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) typesys.Type {
	if e == nil {
		return typesys.Undetermined()
	}

	switch e.ExprKind {
	case ast.ExprUnitApplication:
		if e.Resolved.IsSet() {
			return decl.Unbox(e.Resolved.Get().Type)
		}
		t := resolveUnitApplication(ctx, sourceID, trail, availability, typesys.Undetermined(), e)
		e.Resolved.Set(ast.ExpressionResolved{Type: decl.Box(t)})
		return t

	case ast.ExprPipeline:
		if e.Resolved.IsSet() {
			return decl.Unbox(e.Resolved.Get().Type)
		}
		t := resolvePipelineChain(ctx, sourceID, trail, availability, e)
		e.Resolved.Set(ast.ExpressionResolved{Type: decl.Box(t)})
		return t

	case ast.ExprDictionaryLiteral:
		for fieldName, entry := range e.DictEntries {
			entry := entry
			ResolveExpression(ctx, sourceID, trail, availability, typesys.Undetermined(), &entry)
			e.DictEntries[fieldName] = entry
		}

	case ast.ExprArrayLiteral, ast.ExprTupleLiteral:
		for i := range e.Elements {
			ResolveExpression(ctx, sourceID, trail, availability, typesys.Undetermined(), &e.Elements[i])
		}

	case ast.ExprBinaryOp, ast.ExprUnaryOp:
		ResolveExpression(ctx, sourceID, trail, availability, typesys.Undetermined(), e.Lhs)
		ResolveExpression(ctx, sourceID, trail, availability, typesys.Undetermined(), e.Rhs)
	}

	if e.Resolved.IsSet() {
		return decl.Unbox(e.Resolved.Get().Type)
	}
	return ctx.ResolveExpression(sourceID, trail, availability, expected, e)
}

// resolvePipelineChain threads a Pipeline expression's steps: each step's
// output type becomes the next step's pipeline input, which is what
// generics guessing unifies against.
func resolvePipelineChain(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, e *ast.Expression) typesys.Type {
	current := typesys.Undetermined()
	for i := range e.PipelineSteps {
		step := &e.PipelineSteps[i]
		current = resolveUnitApplication(ctx, sourceID, trail, availability, current, step)
		if !step.Resolved.IsSet() {
			step.Resolved.Set(ast.ExpressionResolved{Type: decl.Box(current)})
		}
	}
	return current
}

func resolveUnitApplication(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, pipelineIn typesys.Type, e *ast.Expression) typesys.Type {
	target, ok := name.Lookup(ctx.Schema, ctx.Resolver, sourceID, trail, []string{e.CalleeName}, name.CallableReference, availability)
	if !ok {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.EUnresolvedReference,
			fmt.Sprintf("cannot resolve callable %q", e.CalleeName)).
			WithSpan(e.Span()).Build())
		return typesys.Undetermined()
	}

	variants := variantsOf(target)
	if len(variants) == 0 {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.ECallableVariantNotFound,
			fmt.Sprintf("%q declares no callable variants", e.CalleeName)).
			WithSpan(e.Span()).Build())
		return typesys.Undetermined()
	}

	explicitGenerics := make([]typesys.Type, len(e.Generics))
	for i := range e.Generics {
		explicitGenerics[i] = ctx.LowerTypeExpr(sourceID, trail, availability, &e.Generics[i])
	}

	result := MatchCallable(ctx, sourceID, trail, availability, e.Span(), variants, e.Arguments, explicitGenerics, pipelineIn)
	ctx.Collector.CollectAll(result.Diagnostics)
	if !result.Matched {
		ctx.Collector.Collect(diag.NewIssue(diag.Error, diag.ECallableVariantNotFound,
			fmt.Sprintf("no callable variant of %q matches the supplied arguments", e.CalleeName)).
			WithSpan(e.Span()).Build())
		return typesys.Undetermined()
	}
	return result.ReturnType
}

func variantsOf(n ast.Node) []ast.CallableVariantDecl {
	switch v := n.(type) {
	case ast.DecoratorDeclaration:
		return v.Variants
	case ast.PipelineItemDeclaration:
		return v.Variants
	case ast.HandlerTemplateDeclaration:
		return []ast.CallableVariantDecl{{Generics: v.Generics, Arguments: v.Arguments, PipeOut: v.Output}}
	case ast.Middleware:
		return []ast.CallableVariantDecl{{Arguments: v.Arguments}}
	default:
		return nil
	}
}
