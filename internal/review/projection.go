package review

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
)

// displaySchema is the fixed leading field list for projected records. Feature
// fields follow in schema order, then the status history. This is purely a
// presentation transform: values pass through unmodified.
var displaySchema = []string{
	"id",
	"name",
	"email",
	"phone",
	"fraud_bool",
	"confirmed",
	"created_at",
}

// View projects a record into the fixed display field order for API output.
type View struct {
	record *registration.Record
}

// Project wraps a record for display serialization.
func Project(record *registration.Record) View {
	return View{record: record}
}

// ProjectAll wraps a record slice.
func ProjectAll(records []*registration.Record) []View {
	views := make([]View, len(records))
	for i, r := range records {
		views[i] = Project(r)
	}
	return views
}

// MarshalJSON writes the display fields first, the flattened feature fields in
// schema order next, and the status history last.
func (v View) MarshalJSON() ([]byte, error) {
	r := v.record

	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		val, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal field %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	fixed := map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"email":      r.Email,
		"phone":      r.Phone,
		"fraud_bool": r.FraudBool,
		"confirmed":  r.Confirmed,
		"created_at": r.CreatedAt,
	}
	for _, key := range displaySchema {
		if err := write(key, fixed[key]); err != nil {
			return nil, err
		}
	}
	for _, name := range features.Schema {
		if err := write(name, r.Features.Get(name)); err != nil {
			return nil, err
		}
	}
	if err := write("status_history", r.History); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
