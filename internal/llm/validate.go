package llm

import (
	"encoding/json"
	"fmt"

	"github.com/emotiquest/emotiquest/internal/schemacheck"
)

// validateResponse checks raw against schema. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	if !json.Valid(raw) {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON")}
	}
	if err := schemacheck.Validate("llm-"+schema.Name, schema.Definition, raw); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
