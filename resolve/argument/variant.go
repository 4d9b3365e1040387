package argument

import (
	"fmt"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/location"
	"github.com/HeKe007/teo-parser/resolve/decl"
	"github.com/HeKe007/teo-parser/typesys"
)

// MatchResult is the outcome of MatchCallable: whether a variant matched,
// its return type, the generics_map it committed to, the index of the
// winning variant, and the diagnostics to promote into the real
// collector. Diagnostics always carries the argument-list-level issues
// (duplicated or partial arguments); per-variant issues join it on a
// match or on the single-candidate short-circuit, where errors from the
// commit attempt become real diagnostics. Callers promote Diagnostics on
// every outcome, matched or not.
type MatchResult struct {
	Matched      bool
	ReturnType   typesys.Type
	GenericsMap  map[string]typesys.Type
	VariantIndex int
	Diagnostics  []diag.Issue
}

// MatchCallable runs the callable-variant matching state machine:
// Filtering narrows candidates by arity/name, a single remaining
// candidate short-circuits into Committed (errors become real
// diagnostics regardless of outcome), and MultiAttempt tries each
// remaining candidate in turn, the first to report matched=true winning
// and landing in ReturnedType; exhausting every candidate without a
// match lands in NotFound.
func MatchCallable(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, span location.Span, variants []ast.CallableVariantDecl, arguments []ast.Argument, explicitGenerics []typesys.Type, pipelineIn typesys.Type) MatchResult {
	// Duplicated and partial arguments are a property of the supplied
	// list, not of any one variant: scanned once here, reported no matter
	// which variant (if any) ends up matching, and never re-run inside a
	// per-variant attempt where a failed candidate would discard them.
	listIssues := scanArgumentList(arguments)

	// Filtering.
	candidates := filterVariants(variants, arguments)

	if len(variants) == 1 {
		// Committed: a lone declared variant always wins.
		return commitResult(listIssues, attemptVariant(ctx, sourceID, trail, availability, span, variants[0], arguments, explicitGenerics, pipelineIn), 0)
	}
	if len(candidates) == 1 {
		// Committed: exactly one candidate survived filtering.
		return commitResult(listIssues, attemptVariant(ctx, sourceID, trail, availability, span, candidates[0].decl, arguments, explicitGenerics, pipelineIn), candidates[0].index)
	}

	// MultiAttempt.
	for _, candidate := range candidates {
		attempt := attemptVariant(ctx, sourceID, trail, availability, span, candidate.decl, arguments, explicitGenerics, pipelineIn)
		if attempt.matched {
			// ReturnedType.
			attempt.commitArgumentCells()
			return MatchResult{
				Matched:      true,
				ReturnType:   attempt.returnType,
				GenericsMap:  attempt.genericsMap,
				VariantIndex: candidate.index,
				Diagnostics:  append(listIssues, attempt.diagnostics...),
			}
		}
	}
	// NotFound.
	return MatchResult{Matched: false, VariantIndex: -1, Diagnostics: listIssues}
}

// scanArgumentList reports the argument-list defects that exist
// independently of any variant: the same name supplied twice, and a named
// argument written with no value.
func scanArgumentList(arguments []ast.Argument) []diag.Issue {
	var issues []diag.Issue
	seen := make(map[string]bool, len(arguments))
	for i := range arguments {
		arg := &arguments[i]
		if arg.Name == "" {
			continue
		}
		if seen[arg.Name] {
			issues = append(issues, diag.NewIssue(diag.Error, diag.EDuplicatedArgument,
				fmt.Sprintf("duplicated argument %q", arg.Name)).WithSpan(arg.Span()).Build())
			continue
		}
		seen[arg.Name] = true
		if arg.Value.Path().IsZero() && arg.Value.Span().IsZero() {
			issues = append(issues, diag.NewIssue(diag.Error, diag.EPartialArgument,
				fmt.Sprintf("partial argument %q", arg.Name)).WithSpan(arg.Span()).Build())
		}
	}
	return issues
}

func commitResult(listIssues []diag.Issue, a variantAttempt, index int) MatchResult {
	a.commitArgumentCells()
	return MatchResult{
		Matched:      true,
		ReturnType:   a.returnType,
		GenericsMap:  a.genericsMap,
		VariantIndex: index,
		Diagnostics:  append(listIssues, a.diagnostics...),
	}
}

type candidate struct {
	decl  ast.CallableVariantDecl
	index int
}

// filterVariants is the arity/name filter: with named arguments present, keep
// variants whose declared names cover every supplied name; with no
// arguments at all, keep variants where every parameter is optional.
func filterVariants(variants []ast.CallableVariantDecl, arguments []ast.Argument) []candidate {
	if len(arguments) == 0 {
		out := make([]candidate, 0, len(variants))
		for i, v := range variants {
			if allOptional(v.Arguments) {
				out = append(out, candidate{decl: v, index: i})
			}
		}
		return out
	}

	supplied := make(map[string]bool, len(arguments))
	for _, a := range arguments {
		if a.Name != "" {
			supplied[a.Name] = true
		}
	}
	out := make([]candidate, 0, len(variants))
	for i, v := range variants {
		if coversNames(v.Arguments, supplied) {
			out = append(out, candidate{decl: v, index: i})
		}
	}
	return out
}

func allOptional(decls []ast.ArgumentDeclaration) bool {
	for _, d := range decls {
		if !d.Optional && !d.HasDefault {
			return false
		}
	}
	return true
}

func coversNames(decls []ast.ArgumentDeclaration, names map[string]bool) bool {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Name] = true
	}
	for n := range names {
		if !declared[n] {
			return false
		}
	}
	return true
}

// pendingArgument defers an Argument's ArgumentResolved write until one
// variant actually wins: ResolvedCell is write-once, and a losing
// multi-attempt candidate must not lock in its expect/found pair.
type pendingArgument struct {
	arg    *ast.Argument
	expect typesys.Type
	found  typesys.Type
}

type variantAttempt struct {
	matched     bool
	returnType  typesys.Type
	genericsMap map[string]typesys.Type
	diagnostics []diag.Issue
	pending     []pendingArgument
}

func (a variantAttempt) commitArgumentCells() {
	for _, p := range a.pending {
		if p.arg.Resolved.IsSet() {
			continue
		}
		p.arg.Resolved.Set(ast.ArgumentResolved{Expect: decl.Box(p.expect), Found: decl.Box(p.found)})
	}
}

// attemptVariant runs one variant's per-argument state machine against
// a sandboxed diagnostics sink, so a
// failed multi-candidate attempt never pollutes the real collector.
func attemptVariant(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, span location.Span, v ast.CallableVariantDecl, arguments []ast.Argument, explicitGenerics []typesys.Type, pipelineIn typesys.Type) variantAttempt {
	sink := &sandbox{}
	attempt := &variantAttempt{}
	genericsNames := genericsNameSet(v.Generics)

	genericsMap := guessGenerics(ctx, sourceID, trail, availability, genericsNames, sink, span, v, explicitGenerics, pipelineIn)

	declared := make(map[string]ast.ArgumentDeclaration, len(v.Arguments))
	order := make([]string, len(v.Arguments))
	for i, d := range v.Arguments {
		declared[d.Name] = d
		order[i] = d.Name
	}

	seen := make(map[string]bool, len(arguments))
	anyRejected := false

	// Named arguments first. A repeated name was already reported by
	// scanArgumentList; only its first occurrence binds here.
	for i := range arguments {
		arg := &arguments[i]
		if arg.Name == "" || seen[arg.Name] {
			continue
		}
		seen[arg.Name] = true
		state := resolveArgument(ctx, sourceID, trail, availability, genericsNames, sink, attempt, declared, arg, arg.Name, genericsMap, pipelineIn)
		if state == ArgRejected {
			anyRejected = true
		}
	}

	// Positional arguments fill remaining declarations in order.
	pos := 0
	for i := range arguments {
		arg := &arguments[i]
		if arg.Name != "" {
			continue
		}
		for pos < len(order) && seen[order[pos]] {
			pos++
		}
		if pos >= len(order) {
			sink.collect(diag.Error, diag.ERedundantArgument, "redundant argument", arg.Span())
			anyRejected = true
			continue
		}
		matchedName := order[pos]
		seen[matchedName] = true
		pos++
		state := resolveArgument(ctx, sourceID, trail, availability, genericsNames, sink, attempt, declared, arg, matchedName, genericsMap, pipelineIn)
		if state == ArgRejected {
			anyRejected = true
		}
	}

	for _, d := range v.Arguments {
		if seen[d.Name] || d.Optional || d.HasDefault {
			continue
		}
		sink.collect(diag.Error, diag.EMissingArgument, fmt.Sprintf("missing argument %q", d.Name), span)
		anyRejected = true
	}

	matched := checkConstraints(ctx, sourceID, trail, availability, genericsNames, sink, span, v, genericsMap) && !anyRejected

	attempt.matched = matched
	attempt.returnType = callableReturnType(ctx, sourceID, trail, availability, genericsNames, v, genericsMap, pipelineIn)
	attempt.genericsMap = genericsMap
	attempt.diagnostics = sink.issues
	return *attempt
}

// guessGenerics computes the initial generics map by structural
// unification.
// Explicit generics arguments at the call site take priority; otherwise
// the variant's declared pipeline input unifies against the threaded-in
// pipeline type, and a unification failure is diagnosed against the
// callable span.
func guessGenerics(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, sink *sandbox, span location.Span, v ast.CallableVariantDecl, explicitGenerics []typesys.Type, pipelineIn typesys.Type) map[string]typesys.Type {
	m := map[string]typesys.Type{}
	if v.Generics == nil {
		return m
	}
	for i, paramName := range v.Generics.Names {
		if i < len(explicitGenerics) {
			m[paramName] = explicitGenerics[i]
		}
	}
	if !v.PipeIn.IsZero() && !pipelineIn.IsUndetermined() {
		declaredIn := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, v.PipeIn)
		if !unify(declaredIn, pipelineIn, m) {
			sink.collect(diag.Error, diag.ETypeMismatch,
				fmt.Sprintf("pipeline input %s does not fit declared input %s", pipelineIn.Display(), declaredIn.Display()), span)
		}
	}
	return m
}

// unify performs directional, first-fit structural unification: a
// GenericItem in declared unifies with whatever found is; Optionals
// unwrap together; Arrays/Dictionaries/Pipelines recurse on their
// components. Concrete declared types unify when found already fits them.
func unify(declared, found typesys.Type, m map[string]typesys.Type) bool {
	if genericName, ok := declared.GenericName(); ok {
		if existing, bound := m[genericName]; bound {
			return existing.Test(found) || found.Test(existing)
		}
		m[genericName] = found
		return true
	}
	if declared.IsOptional() && found.IsOptional() {
		di, _ := declared.Unwrap()
		fi, _ := found.Unwrap()
		return unify(di, fi, m)
	}
	if declared.IsArray() && found.IsArray() {
		di, _ := declared.Unwrap()
		fi, _ := found.Unwrap()
		return unify(di, fi, m)
	}
	if declared.IsDictionary() && found.IsDictionary() {
		di, _ := declared.Unwrap()
		fi, _ := found.Unwrap()
		return unify(di, fi, m)
	}
	if declared.IsPipeline() && found.IsPipeline() {
		dIn, dOut, _ := declared.PipelineParts()
		fIn, fOut, _ := found.PipelineParts()
		a := unify(dIn, fIn, m)
		b := unify(dOut, fOut, m)
		return a && b
	}
	return declared.Test(found)
}

// resolveArgument runs the per-argument state machine: Fresh →
// NameLookedUp → Unified(generics_map) → Validated | Rejected. matchedName
// is the declaration the argument binds to — the supplied name for a named
// argument, the positionally matched one otherwise.
func resolveArgument(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, sink *sandbox, attempt *variantAttempt, declared map[string]ast.ArgumentDeclaration, arg *ast.Argument, matchedName string, genericsMap map[string]typesys.Type, pipelineIn typesys.Type) ArgumentState {
	d, ok := declared[matchedName]
	if !ok {
		sink.collect(diag.Error, diag.ERedundantArgument, fmt.Sprintf("undefined argument %q", matchedName), arg.Span())
		return ArgRejected
	}
	// NameLookedUp.

	expected := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, d.TypeExpr)
	expected = expected.ReplaceKeywords(keywordSubstitutions(ctx))
	expected = expected.ReplaceGenerics(genericsMap)
	// Field-type flattening runs after keyword and generics
	// substitution, in that order.
	expected = FlattenFieldType(ctx, expected)

	found := ResolveExpression(ctx, sourceID, trail, availability, expected, &arg.Value)
	// Unified(generics_map).

	if generic, ok := expected.GenericName(); ok && found.IsFieldName() {
		genericsMap[generic] = found
		// A field-name argument names a field of whatever flows through the
		// pipeline; its expect is that field's resolved type, found by
		// flattening the field reference against the pipeline input.
		expected = found
		if fieldType := FlattenFieldType(ctx, typesys.FieldType(pipelineIn, found)); !fieldType.IsUndetermined() {
			expected = fieldType
		}
		attempt.pending = append(attempt.pending, pendingArgument{arg: arg, expect: expected, found: found})
		return ArgValidated
	}
	if expected.ContainsGenerics() {
		unify(expected, found, genericsMap)
		expected = expected.ReplaceGenerics(genericsMap)
	}

	attempt.pending = append(attempt.pending, pendingArgument{arg: arg, expect: expected, found: found})

	if expected.IsUndetermined() || found.IsUndetermined() {
		return ArgValidated
	}
	if expected.Test(found) {
		return ArgValidated
	}

	sink.collect(diag.Error, diag.ETypeMismatch,
		fmt.Sprintf("argument %q expects %s, found %s", matchedName, expected.Display(), found.Display()), arg.Span())
	return ArgRejected
}

// checkConstraints validates the generics map: for every (name, t)
// in genericsMap, every constraint whose identifier equals name evaluates
// its bound type with generics-without-this-name and keywords substituted,
// then runs t.ConstraintTest against it. A failing in-family argument
// yields a diagnostic but leaves the variant matched; an out-of-family
// argument makes the variant simply not a match, with no diagnostic.
func checkConstraints(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, sink *sandbox, span location.Span, v ast.CallableVariantDecl, genericsMap map[string]typesys.Type) bool {
	matched := true
	for _, constraint := range v.Constraints {
		t, ok := genericsMap[constraint.Name]
		if !ok {
			continue
		}
		without := make(map[string]typesys.Type, len(genericsMap))
		for k, mapped := range genericsMap {
			if k == constraint.Name {
				continue
			}
			without[k] = mapped
		}
		bound := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, constraint.TypeExpr)
		bound = bound.ReplaceKeywords(keywordSubstitutions(ctx))
		bound = bound.ReplaceGenerics(without)
		if bound.IsUndetermined() || t.ConstraintTest(bound) {
			continue
		}
		if sameFamily(t, bound) {
			sink.collect(diag.Error, diag.EGenericConstraintNotSatisfied,
				fmt.Sprintf("generic type %s does not satisfy constraint %s", t.Display(), bound.Display()), span)
			continue
		}
		matched = false
	}
	return matched
}

// sameFamily reports whether t and bound share a top-level type family —
// the "in the right ballpark but not exact" half of a constraint
// check's answer.
func sameFamily(t, bound typesys.Type) bool {
	if members, ok := bound.UnionMembers(); ok {
		for _, m := range members {
			if sameFamily(t, m) {
				return true
			}
		}
		return false
	}
	if bound.IsOptional() {
		inner, _ := bound.Unwrap()
		return sameFamily(t, inner)
	}
	if t.IsOptional() {
		inner, _ := t.Unwrap()
		return sameFamily(inner, bound)
	}
	return t.Variant() == bound.Variant()
}

// callableReturnType computes the type a matched variant produces: its
// declared pipeline output under the committed generics_map, or — for a
// variant without one — the unchanged pipeline input, so a bare decorator
// application passes its subject's type through.
func callableReturnType(ctx *decl.Context, sourceID uint32, trail []string, availability ast.Availability, genericsNames map[string]bool, v ast.CallableVariantDecl, genericsMap map[string]typesys.Type, pipelineIn typesys.Type) typesys.Type {
	if v.PipeOut.IsZero() {
		return pipelineIn
	}
	out := lowerVariantType(ctx, sourceID, trail, availability, genericsNames, v.PipeOut)
	out = out.ReplaceKeywords(keywordSubstitutions(ctx))
	out = out.ReplaceGenerics(genericsMap)
	return FlattenFieldType(ctx, out)
}

// keywordSubstitutions builds the replace_keywords map from the Context's
// current bindings — today only `self`, bound while a struct method's
// signature is in scope.
func keywordSubstitutions(ctx *decl.Context) map[string]typesys.Type {
	if bound, ok := ctx.KeywordBinding(typesys.KeywordSelf); ok {
		return map[string]typesys.Type{typesys.KeywordSelf: bound}
	}
	return nil
}

// sandbox is a throwaway diagnostics sink used while attempting one
// variant among several candidates: its contents are promoted to the
// real collector only if this variant ends up winning (or is the single
// remaining candidate).
type sandbox struct {
	issues []diag.Issue
}

func (s *sandbox) collect(severity diag.Severity, code diag.Code, message string, span location.Span) {
	issue := diag.NewIssue(severity, code, message).WithSpan(span).Build()
	s.issues = append(s.issues, issue)
}
