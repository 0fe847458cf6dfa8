package session

import (
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"nutritionagent/tools"
)

// ValidateCall checks a call's arguments against the tool's input schema
// before dispatch. The reasoner is untrusted, so missing required fields,
// wrong types, and out-of-range numbers are all rejected here rather than
// inside the tools. Failures wrap ErrInvalidToolArguments.
func ValidateCall(tool tools.Tool, input map[string]any) error {
	schema := tool.InputSchema()
	if schema == nil {
		return nil
	}
	if err := validateValue(schema, input, tool.Name()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToolArguments, err)
	}
	return nil
}

func validateValue(schema *jsonschema.Schema, value any, path string) error {
	if schema == nil || value == nil {
		return nil
	}

	switch schema.Type {
	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, value)
		}
		for _, req := range schema.Required {
			if _, present := obj[req]; !present {
				return fmt.Errorf("%s: missing required field %q", path, req)
			}
		}
		for key, sub := range schema.Properties {
			v, present := obj[key]
			if !present {
				continue
			}
			if err := validateValue(sub, v, path+"."+key); err != nil {
				return err
			}
		}

	case "array":
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, value)
		}
		if schema.Items != nil {
			for i, v := range arr {
				if err := validateValue(schema.Items, v, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}

	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}

	case "integer":
		// JSON numbers arrive as float64; integers must be whole.
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%s: expected integer, got %T", path, value)
		}
		if n != math.Trunc(n) {
			return fmt.Errorf("%s: expected integer, got %v", path, n)
		}
		if schema.Minimum != nil && n < *schema.Minimum {
			return fmt.Errorf("%s: %v is below minimum %v", path, n, *schema.Minimum)
		}

	case "number":
		n, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%s: expected number, got %T", path, value)
		}
		if schema.Minimum != nil && n < *schema.Minimum {
			return fmt.Errorf("%s: %v is below minimum %v", path, n, *schema.Minimum)
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
	}

	return nil
}
