package util

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calcInput struct {
	Expression string `json:"expression" description:"Arithmetic expression to evaluate"`
	Precision  int    `json:"precision,omitempty" description:"Decimal places"`
	Verbose    *bool  `json:"verbose,omitempty"`
	Skipped    string `json:"-"`
}

func TestSchemaFromStruct(t *testing.T) {
	schema := SchemaFromStruct(calcInput{})

	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, properties, 3)

	expr, ok := properties["expression"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", expr["type"])
	assert.Equal(t, "Arithmetic expression to evaluate", expr["description"])

	precision, ok := properties["precision"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", precision["type"])

	assert.Equal(t, []string{"expression"}, schema["required"])
}

func TestSchemaFromStructPointer(t *testing.T) {
	direct := SchemaFromStruct(calcInput{})
	viaPointer := SchemaFromStruct(&calcInput{})
	assert.Equal(t, direct, viaPointer)
}

func TestSchemaFromStructNonStruct(t *testing.T) {
	schema := SchemaFromStruct(42)
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, properties)
	assert.NotContains(t, schema, "required")
}

func TestValidateParameters(t *testing.T) {
	schema := SchemaFromStruct(calcInput{})

	t.Run("valid", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"expression": "2 + 2"}, schema)
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"precision": 2}, schema)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "expression", verr.Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"expression": 7}, schema)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "expression", verr.Field)
	})

	t.Run("json numbers pass as integers", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"expression": "x", "precision": float64(2)}, schema)
		assert.NoError(t, err)

		err = ValidateParameters(map[string]any{"expression": "x", "precision": 2.5}, schema)
		assert.Error(t, err)
	})

	t.Run("extra fields allowed", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"expression": "x", "note": true}, schema)
		assert.NoError(t, err)
	})
}

func TestValidateParametersUnmarshaledSchema(t *testing.T) {
	raw := `{"type":"object","properties":{"command":{"type":"string"}},"required":["command"]}`

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &schema))

	assert.NoError(t, ValidateParameters(map[string]any{"command": "note -m \"x\""}, schema))
	assert.Error(t, ValidateParameters(map[string]any{}, schema))
}
