package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	schemaPath := "testdata/nonexistent_schema.json"
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := "testdata/nonexistent_json.json"

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	err := os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644)
	require.NoError(t, err)

	schemaPath := filepath.Join("testdata", "valid_schema.json")

	valErr := ValidateJSON(schemaPath, malformedJSON)
	require.Error(t, valErr)
	// The error might be from gojsonschema parsing, not our code
}

func TestValidateJSON_AssignmentResultsSchema(t *testing.T) {
	schemaPath := "../../schemas/assignment_results.schema.json"

	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name: "valid assignment list",
			document: `[
				{
					"role_id": "role-1",
					"role_name": "Backend Engineer",
					"employee_id": "emp-7",
					"employee_name": "Dana",
					"score": 0.91,
					"evaluations": 6
				}
			]`,
			wantError: false,
		},
		{
			name:      "missing required employee field",
			document:  `[{"role_id": "role-1", "role_name": "Backend Engineer", "score": 0.5, "evaluations": 3}]`,
			wantError: true,
		},
		{
			name:      "score out of range",
			document:  `[{"role_id": "role-1", "role_name": "x", "employee_id": "e", "employee_name": "y", "score": 1.5, "evaluations": 1}]`,
			wantError: true,
		},
	}

	schemaContent, err := os.ReadFile(schemaPath)
	require.NoError(t, err, "schema file should be readable")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(string(schemaContent), tt.document)
			if tt.wantError {
				require.Error(t, err)
				validationErr, ok := err.(*ValidationError)
				require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
				assert.Greater(t, len(validationErr.Errors), 0, "validation error should have at least one field error")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSON_PathOptimizationSchema(t *testing.T) {
	schemaPath := "../../schemas/path_optimization.schema.json"

	schemaContent, err := os.ReadFile(schemaPath)
	require.NoError(t, err, "schema file should be readable")

	valid := `{
		"path_id": "path-cloud",
		"path_name": "Cloud Architect",
		"levels": [
			{
				"number": 1,
				"name": "Level 1",
				"description": "Difficulty tier 1 of 5",
				"certificate_ids": ["cert-a", "cert-b"],
				"prerequisite_levels": []
			}
		],
		"score": 0.74,
		"evaluations": 120,
		"estimated_hours": 80,
		"estimated_cost": 600
	}`
	assert.NoError(t, ValidateJSONString(string(schemaContent), valid))

	missingLevels := `{"path_id": "path-cloud", "path_name": "Cloud Architect", "score": 0.74, "evaluations": 120}`
	err = ValidateJSONString(string(schemaContent), missingLevels)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateJSON_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	jsonContent := `{"person": {}}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
	// Check that the field path includes nested field
	found := false
	for _, fieldErr := range validationErr.Errors {
		if fieldErr.Field != "" {
			found = true
			break
		}
	}
	assert.True(t, found, "should include field path in error")
}

func TestResolveSchemaPath_FindsRelative(t *testing.T) {
	path := ResolveSchemaPath(filepath.Join("testdata", "valid_schema.json"))
	require.NotEmpty(t, path)
	assert.True(t, filepath.IsAbs(path))
}

func TestResolveSchemaPath_Missing(t *testing.T) {
	path := ResolveSchemaPath("no/such/schema.json")
	assert.Empty(t, path)
}
