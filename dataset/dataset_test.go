package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsCommentsAndTrailingCommas(t *testing.T) {
	values, err := Parse(`{
		// seeded admin account
		"name": "admin",
		"age": 42, /* trailing comma next */
	}`)
	require.NoError(t, err)
	assert.Equal(t, "admin", values["name"])
	assert.Equal(t, float64(42), values["age"])
}

func TestParseRejectsNonObjectTopLevel(t *testing.T) {
	_, err := Parse(`[1, 2, 3]`)
	assert.Error(t, err)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse(`{"name": }`)
	assert.Error(t, err)
}
