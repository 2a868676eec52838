package handler

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/kaptinlin/jsonschema"

	dErrors "lendmatch/pkg/domain-errors"
)

//go:embed schema/policy_draft.json
var draftSchemaJSON []byte

// DraftSchema validates raw policy payloads before they are decoded.
type DraftSchema struct {
	schema *jsonschema.Schema
}

// NewDraftSchema compiles the embedded policy draft schema.
func NewDraftSchema() (*DraftSchema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(draftSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile policy draft schema: %w", err)
	}
	return &DraftSchema{schema: schema}, nil
}

// Validate returns a validation error listing every schema violation.
func (d *DraftSchema) Validate(body []byte) error {
	result := d.schema.ValidateJSON(body)
	if result.IsValid() {
		return nil
	}
	keys := make([]string, 0, len(result.Errors))
	for k := range result.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	details := make([]string, 0, len(keys))
	for _, k := range keys {
		details = append(details, fmt.Sprintf("%s: %v", k, result.Errors[k]))
	}
	return dErrors.New(dErrors.CodeValidation, "policy document does not match schema").WithDetails(details...)
}
