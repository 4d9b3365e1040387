package decl

import (
	"fmt"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/resolve/name"
	"github.com/HeKe007/teo-parser/typesys"
)

// ResolveExpression lowers e against expected (the type the surrounding
// position requires — a field's declared type, a constant with no
// annotation, …), recording ExpressionResolved on e and returning the type
// found. Unit-application and pipeline expressions resolve to Undetermined
// here: matching a callable's variants is resolve/argument's job,
// run as a second sweep once every declaration's own nominal type is
// known.
func (c *Context) ResolveExpression(sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) typesys.Type {
	if e == nil {
		return typesys.Undetermined()
	}
	if e.Resolved.IsSet() {
		return unbox(e.Resolved.Get().Type)
	}
	if e.ExprKind == ast.ExprUnitApplication || e.ExprKind == ast.ExprPipeline {
		// Left unmemoized: resolve/argument's callable-variant matching is
		// the one place that resolves these, as a second sweep once every
		// declaration's own nominal type is known. Setting Resolved here
		// would permanently lock it to Undetermined, since ResolvedCell is
		// write-once.
		return typesys.Undetermined()
	}

	t, value := c.resolveExpressionKind(sourceID, trail, availability, expected, e)
	e.Resolved.Set(ast.ExpressionResolved{Type: box(t), Value: value})
	return t
}

func (c *Context) resolveExpressionKind(sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) (typesys.Type, any) {
	switch e.ExprKind {
	case ast.ExprIntLiteral:
		if p, ok := expected.PrimitiveKind(); ok && p == typesys.PrimitiveInt64 {
			return typesys.Prim(typesys.PrimitiveInt64), e.IntValue
		}
		return typesys.Prim(typesys.PrimitiveInt), e.IntValue

	case ast.ExprFloatLiteral:
		if p, ok := expected.PrimitiveKind(); ok && p == typesys.PrimitiveFloat32 {
			return typesys.Prim(typesys.PrimitiveFloat32), e.FloatValue
		}
		return typesys.Prim(typesys.PrimitiveFloat), e.FloatValue

	case ast.ExprStringLiteral:
		return typesys.Prim(typesys.PrimitiveString), e.StringValue

	case ast.ExprBoolLiteral:
		return typesys.Prim(typesys.PrimitiveBool), e.BoolValue

	case ast.ExprNullLiteral:
		return typesys.Prim(typesys.PrimitiveNull), nil

	case ast.ExprFieldNameLiteral:
		if len(e.IdentifierPath) == 0 {
			return typesys.Undetermined(), nil
		}
		return typesys.FieldName(e.IdentifierPath[len(e.IdentifierPath)-1]), nil

	case ast.ExprEnumVariantLiteral:
		if len(e.IdentifierPath) == 0 {
			return typesys.Undetermined(), nil
		}
		variant := e.IdentifierPath[len(e.IdentifierPath)-1]
		if expected.IsSynthesizedEnumReference() {
			return expected, variant
		}
		return typesys.FieldName(variant), variant

	case ast.ExprIdentifierPath:
		return c.resolveIdentifierPath(sourceID, trail, availability, e)

	case ast.ExprDictionaryLiteral:
		return c.resolveDictionaryLiteral(sourceID, trail, availability, expected, e), nil

	case ast.ExprArrayLiteral:
		return c.resolveArrayLiteral(sourceID, trail, availability, expected, e), nil

	case ast.ExprTupleLiteral:
		return c.resolveTupleLiteral(sourceID, trail, availability, expected, e), nil

	case ast.ExprBinaryOp:
		return c.resolveBinaryOp(sourceID, trail, availability, e), nil

	case ast.ExprUnaryOp:
		return c.resolveUnaryOp(sourceID, trail, availability, e), nil

	default:
		return typesys.Undetermined(), nil
	}
}

func (c *Context) resolveIdentifierPath(sourceID uint32, trail []string, availability ast.Availability, e *ast.Expression) (typesys.Type, any) {
	target, ok := name.Lookup(c.Schema, c.Resolver, sourceID, trail, e.IdentifierPath, name.ValueReference, availability)
	if !ok {
		c.Collector.Collect(diag.NewIssue(diag.Error, diag.EUnresolvedReference,
			fmt.Sprintf("cannot resolve %q", joinDotted(e.IdentifierPath))).
			WithSpan(e.Span()).Build())
		return typesys.Undetermined(), nil
	}

	constant, ok := target.(ast.Constant)
	if !ok {
		return typesys.Undetermined(), nil
	}
	if constant.Resolved.IsSet() {
		return unbox(constant.Resolved.Get()), nil
	}
	if !c.enter(constant.Path()) {
		// Already resolving upstream: Undetermined now, no diagnostic —
		// the real type lands once the in-progress resolution finishes.
		return typesys.Undetermined(), nil
	}
	defer c.leave(constant.Path())

	resolvedConstant := c.resolveConstantValue(sourceID, constant)
	return unbox(resolvedConstant.Resolved.Get()), nil
}

func (c *Context) resolveDictionaryLiteral(sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) typesys.Type {
	if expected.Variant() == typesys.VariantSynthesizedShape {
		fields := make(map[string]typesys.Type, len(e.DictEntries))
		for fieldName, entry := range e.DictEntries {
			entry := entry
			fields[fieldName] = c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), &entry)
			e.DictEntries[fieldName] = entry
		}
		return typesys.SynthesizedShape(fields)
	}

	members := make([]typesys.Type, 0, len(e.DictEntries))
	for fieldName, entry := range e.DictEntries {
		entry := entry
		members = append(members, c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), &entry))
		e.DictEntries[fieldName] = entry
	}
	return typesys.Dictionary(typesys.Union(members...))
}

func (c *Context) resolveArrayLiteral(sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) typesys.Type {
	elemExpected := typesys.Undetermined()
	if inner, ok := expected.Unwrap(); ok && expected.IsArray() {
		elemExpected = inner
	}
	members := make([]typesys.Type, len(e.Elements))
	for i := range e.Elements {
		members[i] = c.ResolveExpression(sourceID, trail, availability, elemExpected, &e.Elements[i])
	}
	return typesys.Array(typesys.Union(members...))
}

func (c *Context) resolveTupleLiteral(sourceID uint32, trail []string, availability ast.Availability, expected typesys.Type, e *ast.Expression) typesys.Type {
	members := make([]typesys.Type, len(e.Elements))
	for i := range e.Elements {
		members[i] = c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), &e.Elements[i])
	}
	return typesys.Tuple(members...)
}

func (c *Context) resolveBinaryOp(sourceID uint32, trail []string, availability ast.Availability, e *ast.Expression) typesys.Type {
	lhs := c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), e.Lhs)
	rhs := c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), e.Rhs)

	switch e.Operator {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte, ast.OpAnd, ast.OpOr:
		return typesys.Prim(typesys.PrimitiveBool)
	default:
		if lhs.Test(rhs) {
			return lhs
		}
		if rhs.Test(lhs) {
			return rhs
		}
		c.Collector.Collect(diag.NewIssue(diag.Error, diag.ETypeMismatch,
			fmt.Sprintf("operator %q requires matching operand types, got %s and %s", e.Operator, lhs.Display(), rhs.Display())).
			WithSpan(e.Span()).Build())
		return typesys.Undetermined()
	}
}

func (c *Context) resolveUnaryOp(sourceID uint32, trail []string, availability ast.Availability, e *ast.Expression) typesys.Type {
	operand := c.ResolveExpression(sourceID, trail, availability, typesys.Undetermined(), e.Lhs)
	if e.Operator == "!" || e.Operator == "not" {
		return typesys.Prim(typesys.PrimitiveBool)
	}
	return operand
}
