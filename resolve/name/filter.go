// Package name implements identifier-path lookup: given a dotted path and
// a namespace trail, find the declaration it refers to.
package name

import "github.com/HeKe007/teo-parser/ast"

// Filter accepts or rejects a candidate declaration by kind. Lookup calls it
// only once a full dotted path has matched a declared name, so a Filter
// never needs to inspect anything but the kind.
type Filter func(ast.Kind) bool

// KindFilter builds a Filter that accepts exactly the given kinds.
func KindFilter(kinds ...ast.Kind) Filter {
	set := make(map[ast.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return func(k ast.Kind) bool { return set[k] }
}

// Preset filters for the reference kinds the resolvers need.
var (
	// TypeReference accepts anything usable in a type position.
	TypeReference = KindFilter(ast.KindEnum, ast.KindModel, ast.KindInterface, ast.KindStructDeclaration)

	// ValueReference accepts named constants.
	ValueReference = KindFilter(ast.KindConstant)

	// ModelReference accepts models only, e.g. a dataset group's `model` field.
	ModelReference = KindFilter(ast.KindModel)

	// CallableReference accepts the declarations a pipeline unit or
	// decorator application can call.
	CallableReference = KindFilter(
		ast.KindDecoratorDeclaration,
		ast.KindPipelineItemDeclaration,
		ast.KindHandlerTemplateDeclaration,
		ast.KindMiddleware,
	)

	// DataSetReference accepts named datasets.
	DataSetReference = KindFilter(ast.KindDataSet)

	// HandlerReference accepts handler declarations, e.g. a `group` use.
	HandlerReference = KindFilter(ast.KindHandlerDeclaration)
)

// availabilityGated reports whether kind carries its own Availability field.
// Kinds that don't (namespaces, middleware, handler groups, and the other
// structural declarations) are never modality-scoped and always pass.
func availabilityGated(k ast.Kind) bool {
	switch k {
	case ast.KindConfig, ast.KindConstant, ast.KindEnum, ast.KindModel, ast.KindInterface, ast.KindDataSet:
		return true
	default:
		return false
	}
}

func declaredAvailability(n ast.Node) ast.Availability {
	switch v := n.(type) {
	case ast.Config:
		return v.Availability
	case ast.Constant:
		return v.Availability
	case ast.Enum:
		return v.Availability
	case ast.Model:
		return v.Availability
	case ast.Interface:
		return v.Availability
	case ast.DataSet:
		return v.Availability
	default:
		return 0
	}
}

func isAvailable(n ast.Node, query ast.Availability) bool {
	if !availabilityGated(n.Kind()) {
		return true
	}
	return declaredAvailability(n).Contains(query)
}

// DeclaredName returns the name a top-level declaration is addressable by,
// ok=false for kinds that carry no name (imports, configs, handler
// groups). Lookup matches against it; the query façade reuses it for
// find-by-name so the two never disagree on what counts as a name.
func DeclaredName(n ast.Node) (string, bool) { return declaredName(n) }

func declaredName(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case ast.Constant:
		return v.Name, true
	case ast.Enum:
		return v.Name, true
	case ast.Model:
		return v.Name, true
	case ast.Interface:
		return v.Name, true
	case ast.DataSet:
		return v.Name, true
	case ast.Namespace:
		return v.Name, true
	case ast.Middleware:
		return v.Name, true
	case ast.HandlerDeclaration:
		return v.Name, true
	case ast.HandlerTemplateDeclaration:
		return v.Name, true
	case ast.DecoratorDeclaration:
		return v.Name, true
	case ast.PipelineItemDeclaration:
		return v.Name, true
	case ast.StructDeclaration:
		return v.Name, true
	case ast.FunctionDeclaration:
		return v.Name, true
	default:
		return "", false
	}
}
