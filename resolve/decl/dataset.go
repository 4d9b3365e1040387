package decl

import (
	"fmt"
	"math"

	"github.com/HeKe007/teo-parser/ast"
	"github.com/HeKe007/teo-parser/dataset"
	"github.com/HeKe007/teo-parser/diag"
	"github.com/HeKe007/teo-parser/typesys"
)

// resolveJSONCRecord handles a DataSetRecord whose body was written as a
// JSONC blob instead of inline schema-expression syntax: decode it via
// dataset.Parse, then type each field against the model's shape exactly
// as resolveDataSetRecord does for inline dictionaries — same
// diagnostics, same Undetermined-on-missing-field fallback.
func (c *Context) resolveJSONCRecord(shapeFields map[string]typesys.Type, r ast.DataSetRecord) ast.DataSetRecord {
	values, err := dataset.Parse(r.JSONCLiteral)
	if err != nil {
		c.Collector.Collect(diag.NewIssue(diag.Error, diag.EDatasetRecordParse,
			fmt.Sprintf("cannot decode record literal: %v", err)).
			WithSpan(r.Span()).Build())
		r.Resolved.Set(ast.DataSetRecordResolved{FieldTypes: map[string]ast.TypeRef{}})
		return r
	}

	fieldTypes := make(map[string]ast.TypeRef, len(values))
	for fieldName, value := range values {
		expected := typesys.Undetermined()
		if shapeFields != nil {
			if ft, ok := shapeFields[fieldName]; ok {
				expected = ft
			}
		}
		t := classifyRecordValue(value, expected)
		if !expected.IsUndetermined() && !expected.Test(t) {
			c.Collector.Collect(diag.NewIssue(diag.Error, diag.ETypeMismatch,
				fmt.Sprintf("record field %q expects %s, found %s", fieldName, expected.Display(), t.Display())).
				WithSpan(r.Span()).Build())
		}
		fieldTypes[fieldName] = box(t)
	}
	r.Resolved.Set(ast.DataSetRecordResolved{FieldTypes: fieldTypes})
	return r
}

// classifyRecordValue assigns a Type to one decoded JSON value. expected
// only disambiguates the numeric families JSON collapses: a whole number
// stays Int unless the position calls for Int64/Float/Float32.
func classifyRecordValue(v any, expected typesys.Type) typesys.Type {
	switch value := v.(type) {
	case nil:
		return typesys.Prim(typesys.PrimitiveNull)
	case bool:
		return typesys.Prim(typesys.PrimitiveBool)
	case string:
		return typesys.Prim(typesys.PrimitiveString)
	case float64:
		return classifyRecordNumber(value, expected)
	case []any:
		elemExpected := typesys.Undetermined()
		if inner, ok := expected.Unwrap(); ok && expected.IsArray() {
			elemExpected = inner
		}
		members := make([]typesys.Type, len(value))
		for i, elem := range value {
			members[i] = classifyRecordValue(elem, elemExpected)
		}
		return typesys.Array(typesys.Union(members...))
	case map[string]any:
		fields := make(map[string]typesys.Type, len(value))
		for fieldName, elem := range value {
			fields[fieldName] = classifyRecordValue(elem, typesys.Undetermined())
		}
		return typesys.SynthesizedShape(fields)
	default:
		return typesys.Undetermined()
	}
}

func classifyRecordNumber(value float64, expected typesys.Type) typesys.Type {
	if p, ok := expected.PrimitiveKind(); ok {
		switch p {
		case typesys.PrimitiveInt64:
			if value == math.Trunc(value) {
				return typesys.Prim(typesys.PrimitiveInt64)
			}
		case typesys.PrimitiveFloat, typesys.PrimitiveFloat32, typesys.PrimitiveDecimal:
			return typesys.Prim(p)
		}
	}
	if value == math.Trunc(value) {
		return typesys.Prim(typesys.PrimitiveInt)
	}
	return typesys.Prim(typesys.PrimitiveFloat)
}
