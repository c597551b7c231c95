package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "number", "minimum": 0},
    "status": {"enum": ["a", "b"]}
  },
  "additionalProperties": false
}`

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile([]byte(testSchema))

	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantValid bool
		wantCodes map[string]string
	}{
		{
			name:      "valid",
			doc:       map[string]interface{}{"name": "x", "age": float64(3), "status": "a"},
			wantValid: true,
		},
		{
			name:      "missing required",
			doc:       map[string]interface{}{"name": "x"},
			wantCodes: map[string]string{"age": "REQUIRED_FIELD_MISSING"},
		},
		{
			name:      "wrong type and negative",
			doc:       map[string]interface{}{"name": float64(1), "age": float64(-1)},
			wantCodes: map[string]string{"name": "INVALID_TYPE", "age": "MINIMUM_VIOLATION"},
		},
		{
			name:      "enum and extra field",
			doc:       map[string]interface{}{"name": "x", "age": float64(1), "status": "c", "extra": true},
			wantCodes: map[string]string{"status": "INVALID_ENUM_VALUE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)

			got := map[string]string{}
			for _, e := range result.Errors {
				got[e.Field] = e.Code
			}
			for field, code := range tt.wantCodes {
				assert.Equal(t, code, got[field], "field %s", field)
			}
			if !tt.wantValid {
				assert.NotEmpty(t, result.Summary())
			}
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile([]byte(`{"type": 12}`))
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile([]byte(`not json`)) })
}
