package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURIRoundTrip(t *testing.T) {
	path, err := URIToPath("file:///schemas/app.teo")
	require.NoError(t, err)
	assert.Equal(t, "/schemas/app.teo", path)

	assert.Equal(t, "file:///schemas/app.teo", PathToURI("/schemas/app.teo"))
}

func TestURIToPathRejectsOtherSchemes(t *testing.T) {
	_, err := URIToPath("https://example.com/app.teo")
	assert.Error(t, err)
}

func TestURIToPathDecodesEscapes(t *testing.T) {
	path, err := URIToPath("file:///schemas/my%20app.teo")
	require.NoError(t, err)
	assert.Equal(t, "/schemas/my app.teo", path)
}
