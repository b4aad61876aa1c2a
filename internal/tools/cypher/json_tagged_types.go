package cypher

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params is a map of Cypher query parameters with custom JSON unmarshaling
// that preserves numeric types for Neo4j.
//
// When unmarshaling from JSON:
//   - Whole numbers (e.g., 1, 42, -10) become int64
//   - Numbers with fractional parts (e.g., 1.5, 3.14) become float64
//   - Other types (strings, booleans, null, nested maps/lists) are preserved
type Params map[string]any

func (cp *Params) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var temp map[string]any
	if err := decoder.Decode(&temp); err != nil {
		return err
	}

	converted, ok := convertNumbers(temp).(map[string]any)
	if !ok {
		return fmt.Errorf("error during unmarshaling of Params")
	}
	*cp = converted
	return nil
}

// convertNumbers recursively replaces json.Number values with int64 where
// the number has no fractional part, falling back to float64.
func convertNumbers(input any) any {
	switch v := input.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()

	case map[string]any:
		for k, val := range v {
			v[k] = convertNumbers(val)
		}
		return v

	case []any:
		for i, val := range v {
			v[i] = convertNumbers(val)
		}
		return v
	}
	return input
}
