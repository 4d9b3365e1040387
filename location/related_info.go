package location

// Common RelatedInfo messages, kept as constants so wording stays uniform
// across the resolver and assembler.
const (
	MsgPreviousDefinition = "previous definition here"
	MsgImportedFrom       = "imported from here"
	MsgDeclaredHere       = "declared here"
	MsgReferencedFrom     = "referenced from here"
)

// RelatedInfo is a secondary location attached to a diagnostic, e.g. "first
// defined here" pointing at the earlier of two duplicate declarations.
type RelatedInfo struct {
	Span    Span
	Message string
}

func (r RelatedInfo) IsValid() bool {
	return r.Span.IsValid() || r.Message != ""
}

func (r RelatedInfo) String() string {
	if r.Span.IsZero() {
		return r.Message
	}
	if r.Message == "" {
		return r.Span.String()
	}
	return r.Span.String() + ": " + r.Message
}
