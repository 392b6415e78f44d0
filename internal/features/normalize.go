package features

import (
	"encoding/json"
	"strconv"
)

// Normalize coerces a raw field map into a Vector following Schema. For each
// schema field: a supplied value is coerced to float64 when it is a number or
// a string fully parseable as one, otherwise kept as a categorical string; an
// absent field defaults to 0. Fields outside the schema are dropped.
//
// Normalize is a pure function: identical input yields an identical vector.
func Normalize(raw map[string]any) Vector {
	values := make(map[string]any, len(Schema))
	for _, name := range Schema {
		v, ok := raw[name]
		if !ok || v == nil {
			values[name] = float64(0)
			continue
		}
		values[name] = coerce(v)
	}
	return Vector{values: values}
}

// coerce maps an arbitrary scalar to float64 when numeric, otherwise to its
// string form. Booleans become 1/0 since every boolean-shaped feature in the
// schema is numeric.
func coerce(v any) any {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f
		}
		return x
	default:
		// Non-scalar input has no place in a feature vector; treat as absent.
		return float64(0)
	}
}
