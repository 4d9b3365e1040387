package diag

// Category groups codes by the analysis stage that emits them. It is
// informational metadata for filtering, not an API-layer boundary — some
// categories are emitted from more than one package.
type Category uint8

const (
	// CategorySentinel covers internal-bug and limit-reached codes.
	CategorySentinel Category = iota

	// CategorySyntax covers lexical and grammar-level failures: unparsed
	// regions, duplicated identifiers at the same node path.
	CategorySyntax

	// CategoryImport covers import graph resolution.
	CategoryImport

	// CategoryName covers identifier lookup: unresolved and ambiguous
	// references.
	CategoryName

	// CategoryAvailability covers visibility-gated declaration lookup.
	CategoryAvailability

	// CategoryType covers type algebra and argument/overload resolution.
	CategoryType

	// CategorySemantic covers cross-declaration schema rules: config
	// uniqueness, built-in re-declaration.
	CategorySemantic
)

func (c Category) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategorySyntax:
		return "syntax"
	case CategoryImport:
		return "import"
	case CategoryName:
		return "name"
	case CategoryAvailability:
		return "availability"
	case CategoryType:
		return "type"
	case CategorySemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue. The fields are
// unexported so the only way to produce a Code is through the package-level
// vars below — callers can match on codes but never fabricate one.
type Code struct {
	value string
	cat   Category
}

func (c Code) String() string { return c.value }

// Category returns the code's category.
func (c Code) Category() Category { return c.cat }

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool { return c.value == "" }

func code(value string, cat Category) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// ELimitReached is an explicit marker callers may attach when a
	// collection limit truncates analysis. Collector tracks truncation
	// itself via LimitReached(); this code is for callers that want the
	// fact to also appear as a collected issue.
	ELimitReached = code("E_LIMIT_REACHED", CategorySentinel)

	// EInternal marks a condition that should never occur in correct
	// analyzer code — an invariant failure, not a schema error.
	EInternal = code("E_INTERNAL", CategorySentinel)
)

// Syntax codes: lexical and grammar-level failures.
var (
	// EUnparsedRegion marks a source region the grammar could not derive
	// a node from.
	EUnparsedRegion = code("E_UNPARSED_REGION", CategorySyntax)

	// EDuplicateAtPath indicates two declarations were parsed to the same
	// node path, which should be structurally impossible and indicates a
	// parser or allocator bug.
	EDuplicateAtPath = code("E_DUPLICATE_AT_PATH", CategorySyntax)

	// EDuplicateIdentifier indicates a duplicated identifier within one
	// declaration's scope (e.g. two fields of the same name on one model).
	EDuplicateIdentifier = code("E_DUPLICATE_IDENTIFIER", CategorySyntax)
)

// Import codes.
var (
	// EImportCycle indicates a cycle in the import dependency graph.
	EImportCycle = code("E_IMPORT_CYCLE", CategoryImport)

	// EImportNotFound indicates an import path could not be resolved to a
	// parsed source.
	EImportNotFound = code("E_IMPORT_NOT_FOUND", CategoryImport)

	// EImportAliasCollision indicates an import alias collides with a
	// locally declared name.
	EImportAliasCollision = code("E_IMPORT_ALIAS_COLLISION", CategoryImport)
)

// Name resolution codes.
var (
	// EUnresolvedReference indicates an identifier could not be found in
	// any namespace, import, or built-in scope.
	EUnresolvedReference = code("E_UNRESOLVED_REFERENCE", CategoryName)

	// EAmbiguousReference indicates more than one visible declaration
	// matched a lookup. The determinism rules in the name resolver should
	// make this unreachable; it is reported rather than silently picking
	// one so that a resolver bug widening scope is never silent.
	EAmbiguousReference = code("E_AMBIGUOUS_REFERENCE", CategoryName)
)

// Availability codes.
var (
	// EDeclarationNotAvailable indicates a reference resolved to a
	// declaration whose availability mask does not contain the
	// referencing context's availability.
	EDeclarationNotAvailable = code("E_DECLARATION_NOT_AVAILABLE", CategoryAvailability)
)

// Type checking codes.
var (
	// ETypeMismatch indicates "expect X, found Y".
	ETypeMismatch = code("E_TYPE_MISMATCH", CategoryType)

	// EMissingArgument indicates a required argument was not supplied.
	EMissingArgument = code("E_MISSING_ARGUMENT", CategoryType)

	// ERedundantArgument indicates an argument was supplied for no
	// matching parameter.
	ERedundantArgument = code("E_REDUNDANT_ARGUMENT", CategoryType)

	// EDuplicatedArgument indicates the same named argument was supplied
	// more than once.
	EDuplicatedArgument = code("E_DUPLICATED_ARGUMENT", CategoryType)

	// EPartialArgument indicates a composite argument (e.g. a tuple) was
	// only partially supplied.
	EPartialArgument = code("E_PARTIAL_ARGUMENT", CategoryType)

	// ECallableVariantNotFound indicates no overload of a callable
	// matched the supplied arguments.
	ECallableVariantNotFound = code("E_CALLABLE_VARIANT_NOT_FOUND", CategoryType)

	// EGenericConstraintNotSatisfied indicates an inferred or supplied
	// generic argument fails its declared constraint.
	EGenericConstraintNotSatisfied = code("E_GENERIC_CONSTRAINT_NOT_SATISFIED", CategoryType)
)

// Semantic codes: cross-declaration schema rules.
var (
	// EMultipleLifecycleFlags indicates a second server, debug or test
	// config was declared in the same schema; the first one is kept.
	EMultipleLifecycleFlags = code("E_MULTIPLE_LIFECYCLE_FLAGS", CategorySemantic)

	// EBuiltinRedeclared indicates a source attempted to re-declare a
	// built-in declaration.
	EBuiltinRedeclared = code("E_BUILTIN_REDECLARED", CategorySemantic)

	// EDatasetRecordParse indicates a DataSet record's JSONC literal body
	// could not be decoded.
	EDatasetRecordParse = code("E_DATASET_RECORD_PARSE", CategorySemantic)
)

var allCodes = []Code{
	ELimitReached,
	EInternal,
	EUnparsedRegion,
	EDuplicateAtPath,
	EDuplicateIdentifier,
	EImportCycle,
	EImportNotFound,
	EImportAliasCollision,
	EUnresolvedReference,
	EAmbiguousReference,
	EDeclarationNotAvailable,
	ETypeMismatch,
	EMissingArgument,
	ERedundantArgument,
	EDuplicatedArgument,
	EPartialArgument,
	ECallableVariantNotFound,
	EGenericConstraintNotSatisfied,
	EMultipleLifecycleFlags,
	EBuiltinRedeclared,
	EDatasetRecordParse,
}

// AllCodes returns all defined codes. The returned slice is a copy.
func AllCodes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// CodesByCategory returns the codes in the given category.
func CodesByCategory(cat Category) []Code {
	var out []Code
	for _, c := range allCodes {
		if c.cat == cat {
			out = append(out, c)
		}
	}
	return out
}
