package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Text(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "staticmodel dataset", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "types")
	assert.NotContains(t, props, "Path")
	assert.Contains(t, schema["required"], "types")
}

func TestSchema_TypeSpecFields(t *testing.T) {
	schema := DatasetSchema()
	types, ok := schema.Properties.Get("types")
	require.True(t, ok)
	require.NotNil(t, types.Items)

	var names []string
	for pair := types.Items.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{"name", "primary_key", "extends", "records"}, names)
	assert.Contains(t, types.Items.Required, "name")
}

func TestSchema_JSONEnvelope(t *testing.T) {
	out, err := execute(t, "schema", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}
