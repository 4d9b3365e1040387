package diag

import (
	"encoding/json"

	"github.com/HeKe007/teo-parser/location"
)

// Wire format types for JSON serialization. Field names use camelCase; zero
// optional fields are omitted.

type issueWire struct {
	Span     *spanWire         `json:"span,omitzero"`
	Severity string            `json:"severity"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Hint     string            `json:"hint,omitzero"`
	Related  []relatedInfoWire `json:"related,omitzero"`
	Details  []detailWire      `json:"details,omitzero"`
}

type spanWire struct {
	Source string       `json:"source"`
	Start  positionWire `json:"start"`
	End    positionWire `json:"end"`
}

// positionWire encodes Position.Byte as a pointer so that -1 (unknown)
// omits the field entirely rather than emitting "byte": -1.
type positionWire struct {
	Line   int  `json:"line"`
	Column int  `json:"column"`
	Byte   *int `json:"byte,omitzero"`
}

type relatedInfoWire struct {
	Message string    `json:"message"`
	Span    *spanWire `json:"span,omitzero"`
}

type detailWire struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type resultWire struct {
	Issues       []issueWire `json:"issues"`
	Limit        int         `json:"limit,omitzero"`
	LimitReached bool        `json:"limitReached,omitzero"`
	DroppedCount int         `json:"droppedCount,omitzero"`
}

// FormatIssueJSON returns the JSON representation of a single issue.
func (r *Renderer) FormatIssueJSON(issue Issue) json.RawMessage {
	data, err := json.Marshal(toIssueWire(issue))
	if err != nil {
		panic("diag: unexpected marshal error: " + err.Error())
	}
	return data
}

// FormatResultJSON returns the JSON representation of a result.
func (r *Renderer) FormatResultJSON(res Result) json.RawMessage {
	data, err := json.Marshal(toResultWire(res))
	if err != nil {
		panic("diag: unexpected marshal error: " + err.Error())
	}
	return data
}

func toResultWire(res Result) resultWire {
	issues := make([]issueWire, 0, res.Len())
	for issue := range res.Issues() {
		issues = append(issues, toIssueWire(issue))
	}
	wire := resultWire{Issues: issues}
	if res.LimitReached() {
		wire.Limit = res.limit
		wire.LimitReached = true
		wire.DroppedCount = res.DroppedCount()
	}
	return wire
}

func toIssueWire(issue Issue) issueWire {
	wire := issueWire{
		Severity: issue.Severity().String(),
		Code:     issue.Code().String(),
		Message:  issue.Message(),
		Hint:     issue.Hint(),
	}
	if issue.HasSpan() {
		wire.Span = toSpanWire(issue.Span())
	}
	if related := issue.Related(); len(related) > 0 {
		wire.Related = make([]relatedInfoWire, len(related))
		for i, rel := range related {
			wire.Related[i] = toRelatedInfoWire(rel)
		}
	}
	if details := issue.Details(); len(details) > 0 {
		wire.Details = make([]detailWire, len(details))
		for i, d := range details {
			wire.Details[i] = detailWire(d)
		}
	}
	return wire
}

func toSpanWire(span location.Span) *spanWire {
	if span.IsZero() {
		return nil
	}
	return &spanWire{
		Source: span.Source.String(),
		Start:  toPositionWire(span.Start),
		End:    toPositionWire(span.End),
	}
}

func toPositionWire(pos location.Position) positionWire {
	wire := positionWire{Line: pos.Line, Column: pos.Column}
	if pos.HasByte() {
		b := pos.Byte
		wire.Byte = &b
	}
	return wire
}

func toRelatedInfoWire(rel location.RelatedInfo) relatedInfoWire {
	wire := relatedInfoWire{Message: rel.Message}
	if !rel.Span.IsZero() {
		wire.Span = toSpanWire(rel.Span)
	}
	return wire
}
