package diag

// Detail is a structured key-value pair attached to an Issue for
// programmatic inspection, distinct from the free-text message.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys. Custom keys are permitted for one-off diagnostics;
// use lower_snake_case for those.
const (
	DetailKeyExpected   = "expected"
	DetailKeyGot        = "got"
	DetailKeyName       = "name"
	DetailKeyPath       = "path"
	DetailKeyKind       = "kind"
	DetailKeyImportPath = "import_path"
	DetailKeyAlias      = "alias"
	DetailKeyCycle      = "cycle"
	DetailKeyArgument   = "argument"
	DetailKeyGeneric    = "generic"
	DetailKeyConstraint = "constraint"
	DetailKeyFlag       = "flag"
)

// ExpectedGot builds the standard pair of details for "expect X found Y"
// diagnostics.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// NameAtPath builds the standard pair of details for identifier-at-path
// diagnostics (unresolved references, duplicate identifiers).
func NameAtPath(name, path string) []Detail {
	return []Detail{
		{Key: DetailKeyName, Value: name},
		{Key: DetailKeyPath, Value: path},
	}
}
