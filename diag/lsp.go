package diag

import (
	"net/url"
	"unicode/utf8"

	"github.com/HeKe007/teo-parser/location"
)

// LSP DiagnosticSeverity values per the Language Server Protocol spec.
const (
	LSPSeverityError   = 1
	LSPSeverityWarning = 2
	LSPSeverityHint    = 4
)

// LSPDiagnostic mirrors the LSP Diagnostic structure.
type LSPDiagnostic struct {
	Range              LSPRange         `json:"range"`
	Severity           int              `json:"severity"`
	Code               string           `json:"code,omitzero"`
	Source             string           `json:"source"`
	Message            string           `json:"message"`
	RelatedInformation []LSPRelatedInfo `json:"relatedInformation,omitzero"`
}

// LSPRange mirrors the LSP Range structure (0-based positions).
type LSPRange struct {
	Start LSPPosition `json:"start"`
	End   LSPPosition `json:"end"`
}

// LSPPosition mirrors the LSP Position structure. Line is 0-based;
// Character is a UTF-16 code unit offset, not a byte or rune offset.
type LSPPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// LSPRelatedInfo mirrors DiagnosticRelatedInformation.
type LSPRelatedInfo struct {
	Location LSPLocation `json:"location"`
	Message  string      `json:"message"`
}

// LSPLocation mirrors the LSP Location structure.
type LSPLocation struct {
	URI   string   `json:"uri"`
	Range LSPRange `json:"range"`
}

// SeverityToLSP maps the three-level internal severity onto LSP's
// DiagnosticSeverity scale. Unparsed maps to Error: an opaque region is not
// merely a warning.
func SeverityToLSP(sev Severity) int {
	switch sev {
	case Error, Unparsed:
		return LSPSeverityError
	case Warning:
		return LSPSeverityWarning
	default:
		return LSPSeverityError
	}
}

// LSPDiagnostic converts one issue to an LSP Diagnostic. Returns nil if the
// issue carries no usable span.
func (r *Renderer) LSPDiagnostic(issue Issue) *LSPDiagnostic {
	if !issue.HasSpan() {
		return nil
	}
	span := issue.Span()
	if !span.Start.IsKnown() {
		return nil
	}

	start, ok := r.toLSPPosition(span, span.Start)
	if !ok {
		return nil
	}
	end := start
	if span.End.IsKnown() {
		if e, ok := r.toLSPPosition(span, span.End); ok {
			end = e
		}
	}

	d := &LSPDiagnostic{
		Range:    LSPRange{Start: start, End: end},
		Severity: SeverityToLSP(issue.Severity()),
		Code:     issue.Code().String(),
		Source:   r.cfg.source,
		Message:  issue.Message(),
	}

	for _, rel := range issue.Related() {
		if lspRel := r.toLSPRelatedInfo(rel); lspRel != nil {
			d.RelatedInformation = append(d.RelatedInformation, *lspRel)
		}
	}
	return d
}

// LSPDiagnostics converts every issue in a result, skipping ones without a
// usable span. Always returns a non-nil slice.
func (r *Renderer) LSPDiagnostics(res Result) []LSPDiagnostic {
	out := make([]LSPDiagnostic, 0, res.Len())
	for issue := range res.Issues() {
		if d := r.LSPDiagnostic(issue); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func sourceIDToURI(source location.SourceID) string {
	if cp, ok := source.CanonicalPath(); ok {
		u := url.URL{Scheme: "file", Path: cp.String()}
		return u.String()
	}
	return source.String()
}

func (r *Renderer) toLSPPosition(span location.Span, pos location.Position) (LSPPosition, bool) {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	character, ok := r.computeUTF16Character(span, pos)
	if !ok {
		return LSPPosition{}, false
	}
	return LSPPosition{Line: line, Character: character}, true
}

// computeUTF16Character converts a byte- or column-based Position into a
// UTF-16 code unit offset as LSP requires. Prefers exact byte-based
// conversion via the configured SourceProvider; falls back to Column-1 (an
// ASCII/BMP approximation) only when ByteFallbackApproximate is set.
func (r *Renderer) computeUTF16Character(span location.Span, pos location.Position) (int, bool) {
	if pos.HasByte() && r.cfg.provider != nil {
		if lp, ok := r.cfg.provider.(LineIndexProvider); ok {
			if lineStart, ok := lp.LineStartByte(span.Source, pos.Line); ok {
				if content, ok := r.cfg.provider.Content(span); ok {
					return utf16OffsetFromByte(content, lineStart, pos.Byte), true
				}
			}
		}
		if content, ok := r.cfg.provider.Content(span); ok {
			if lineStart := findLineStartByte(content, pos.Line); lineStart >= 0 && pos.Byte >= lineStart {
				return utf16OffsetFromByte(content, lineStart, pos.Byte), true
			}
		}
	}

	switch r.cfg.byteFallback {
	case ByteFallbackApproximate:
		return pos.Column - 1, true
	default:
		return 0, false
	}
}

func findLineStartByte(content []byte, lineNum int) int {
	if lineNum < 1 {
		return -1
	}
	if lineNum == 1 {
		return 0
	}
	current := 1
	for i := range content {
		if content[i] == '\n' {
			current++
			if current == lineNum {
				return i + 1
			}
		}
	}
	return -1
}

// utf16OffsetFromByte counts UTF-16 code units between lineStart and
// targetByte. A rune whose byte range straddles targetByte is not counted
// (floor semantics): the offset points at the containing character, not
// past it.
func utf16OffsetFromByte(content []byte, lineStart, targetByte int) int {
	if targetByte <= lineStart {
		return 0
	}
	end := min(targetByte, len(content))

	offset := 0
	for pos := lineStart; pos < end; {
		r, size := utf8.DecodeRune(content[pos:])
		if r == utf8.RuneError && size <= 1 {
			offset++
			pos++
			continue
		}
		if pos+size > end {
			break
		}
		if r > 0xFFFF {
			offset += 2
		} else {
			offset++
		}
		pos += size
	}
	return offset
}

func (r *Renderer) toLSPRelatedInfo(rel location.RelatedInfo) *LSPRelatedInfo {
	if rel.Span.IsZero() || !rel.Span.Start.IsKnown() {
		return nil
	}
	start, ok := r.toLSPPosition(rel.Span, rel.Span.Start)
	if !ok {
		return nil
	}
	end := start
	if rel.Span.End.IsKnown() {
		if e, ok := r.toLSPPosition(rel.Span, rel.Span.End); ok {
			end = e
		}
	}
	return &LSPRelatedInfo{
		Location: LSPLocation{URI: sourceIDToURI(rel.Span.Source), Range: LSPRange{Start: start, End: end}},
		Message:  rel.Message,
	}
}
