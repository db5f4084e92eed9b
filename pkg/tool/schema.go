package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor derives a tool's Parameters map from a Go argument struct's
// json/jsonschema tags, so callers can define a tool's wire shape once as
// a struct instead of hand-writing the map.
//
// Kept as a generic helper with inline-everything, no-$ref reflector
// settings, since every consumer here wants one self-contained schema
// object, never a reference graph.
func SchemaFor[T any]() (map[string]interface{}, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(new(T))
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("tool: marshal schema: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("tool: unmarshal schema: %w", err)
	}
	delete(result, "$schema")
	delete(result, "$id")

	if result["type"] != "object" {
		return result, nil
	}

	out := map[string]interface{}{
		"type":       "object",
		"properties": result["properties"],
	}
	if required, ok := result["required"]; ok {
		out["required"] = required
	}
	if additional, ok := result["additionalProperties"]; ok {
		out["additionalProperties"] = additional
	}
	return out, nil
}
