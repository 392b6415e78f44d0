package features

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Vector is an ordered feature mapping following Schema. Values are float64
// for numeric features and string for categoricals; the distinction is decided
// per value during normalization, not per field.
//
// The zero Vector is not usable; construct through Normalize or FromMap.
type Vector struct {
	values map[string]any
}

// FromMap builds a Vector from already-normalized values. Unknown fields are
// dropped. Intended for store adapters rehydrating persisted vectors.
func FromMap(m map[string]any) Vector {
	values := make(map[string]any, len(Schema))
	for _, name := range Schema {
		if v, ok := m[name]; ok {
			values[name] = coerce(v)
		} else {
			values[name] = float64(0)
		}
	}
	return Vector{values: values}
}

// Get returns the value for a schema field. Unknown fields return nil.
func (v Vector) Get(name string) any {
	return v.values[name]
}

// Map returns a copy of the underlying values keyed by field name.
func (v Vector) Map() map[string]any {
	out := make(map[string]any, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// MarshalJSON serializes the vector as a flat JSON object with fields in
// schema order. The scoring process and the display projection both rely on
// this stable ordering.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range Schema {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(v.values[name])
		if err != nil {
			return nil, fmt.Errorf("marshal feature %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON rehydrates a vector from a flat JSON object. Fields outside
// the schema are dropped, missing fields default to 0.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromMap(raw)
	return nil
}
