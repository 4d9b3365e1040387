// Package dataset decodes DataSet record bodies written as JSONC blobs —
// JSON with // and /* */ comments and tolerated trailing commas — into
// generic values the declaration resolver then checks against the owning
// model's shape. The package knows nothing about the type system;
// it is a pure decoding boundary, the same division the corpus draws
// between its JSONC adapter and its schema layer.
package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// Parse decodes one record literal. The top level must be a JSON object:
// a record is always a dictionary of field name to value.
func Parse(literal string) (map[string]any, error) {
	clean := jsonc.ToJSON([]byte(literal))
	var out map[string]any
	if err := json.Unmarshal(clean, &out); err != nil {
		return nil, fmt.Errorf("decode record literal: %w", err)
	}
	return out, nil
}
