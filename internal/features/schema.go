// Package features defines the fixed applicant feature schema and the
// normalization step that turns raw registration input into the ordered
// vector the scorer and the record store both consume.
package features

// Schema lists every feature field the scorer was trained on, in the order
// the scoring process expects. The numeric fields come first, then the
// categorical ones. Field identity is by name; the order exists so that
// serialized payloads stay stable for debugging and log comparison.
var Schema = []string{
	// numeric
	"income",
	"name_email_similarity",
	"prev_address_months_count",
	"current_address_months_count",
	"customer_age",
	"days_since_request",
	"intended_balcon_amount",
	"zip_count_4w",
	"velocity_6h",
	"velocity_24h",
	"velocity_4w",
	"bank_branch_count_8w",
	"date_of_birth_distinct_emails_4w",
	"credit_risk_score",
	"email_is_free",
	"phone_home_valid",
	"phone_mobile_valid",
	"bank_months_count",
	"has_other_cards",
	"proposed_credit_limit",
	"foreign_request",
	"session_length_in_minutes",
	"device_distinct_emails_8w",
	"device_fraud_count",
	"month",

	// categorical
	"payment_type",
	"employment_status",
	"housing_status",
	"source",
	"device_os",
}

var schemaIndex = func() map[string]int {
	idx := make(map[string]int, len(Schema))
	for i, name := range Schema {
		idx[name] = i
	}
	return idx
}()

// InSchema reports whether name is a known feature field.
func InSchema(name string) bool {
	_, ok := schemaIndex[name]
	return ok
}
