//go:build !wasip1

package schema

import (
	"encoding/json"
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema_SimpleStruct(t *testing.T) {
	type SimpleConfig struct {
		Backend  string `json:"backend"`
		WasmPath string `json:"wasm_path,omitempty"`
	}

	schema, err := GenerateSchema(SimpleConfig{})
	require.NoError(t, err)
	assert.NotEmpty(t, schema)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Len(t, properties, 2)

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Equal(t, []interface{}{"backend"}, required)
}

func TestGenerateSchema_EmptyStruct(t *testing.T) {
	type EmptyConfig struct{}

	schema, err := GenerateSchema(EmptyConfig{})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))
	assert.NotEmpty(t, schema)
}

func TestRequestSchema(t *testing.T) {
	schema, err := RequestSchema()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &decoded))

	assert.NotContains(t, string(schema), "$ref", "request schema must be self-contained")
	assert.NotContains(t, decoded, "$id")

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, properties, "nargout")
	assert.Contains(t, properties, "inputs")

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"nargout", "inputs"}, required)

	// Every host class is enumerated on the argument.
	for _, class := range entities.Classes() {
		assert.Contains(t, string(schema), `"`+string(class)+`"`)
	}
}

func TestDescribe(t *testing.T) {
	sig := entities.Signature{
		Name: "get_atm_density",
		Inputs: []entities.Parameter{
			{Name: "altitude", Unit: "km", Kind: "real scalar"},
		},
	}

	doc, err := Describe(sig)
	require.NoError(t, err)
	assert.Equal(t, sig, doc.Signature)

	out, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "signature")
	assert.Contains(t, decoded, "request_schema")
}
