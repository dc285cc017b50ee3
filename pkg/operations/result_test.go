package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm-tools/bitbucket-mcp/pkg/operations"
)

func TestJSONResult_StableIndentation(t *testing.T) {
	// Two spellings of the same payload render identically.
	compact := []byte(`{"name":"widget","is_private":true}`)
	spaced := []byte(`{ "name" : "widget", "is_private" : true }`)

	a, err := operations.JSONResult(compact)
	require.NoError(t, err)
	b, err := operations.JSONResult(spaced)
	require.NoError(t, err)

	assert.Equal(t, a.Text, b.Text)
	assert.Contains(t, a.Text, "  \"name\": \"widget\"")
}

func TestJSONResult_EmptyBody(t *testing.T) {
	result, err := operations.JSONResult(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", result.Text)
}

func TestJSONResult_MalformedBody(t *testing.T) {
	_, err := operations.JSONResult([]byte(`{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestTextResult_Passthrough(t *testing.T) {
	raw := "line with trailing space \r\nand a crlf\r\n\tindented\n"
	result := operations.TextResult([]byte(raw))
	assert.Equal(t, raw, result.Text)
}
