// Package registration owns the applicant record model and the store contract
// over the keyed record collection. The registration pipeline is the only
// writer of new records; the review workflow is the only mutator of existing
// ones.
package registration

import (
	"time"

	"github.com/tramcandoit/mlsecops-application/internal/features"
)

// Status labels for the append-only history. The system seeds the first entry
// at creation; reviewers append the rest.
const (
	StatusApproved       = "approved"
	StatusSuspectedFraud = "suspected_fraud"
	StatusConfirmedFraud = "confirmed_fraud"
	StatusConfirmedSafe  = "confirmed_safe"
)

// Actors recorded in history entries.
const (
	ActorSystem = "system"
	ActorAdmin  = "admin"
)

// InitialStatus returns the system-seeded status label for a verdict.
func InitialStatus(verdict int) string {
	if verdict == 1 {
		return StatusSuspectedFraud
	}
	return StatusApproved
}

// ReviewStatus returns the reviewer status label for a verdict.
func ReviewStatus(verdict int) string {
	if verdict == 1 {
		return StatusConfirmedFraud
	}
	return StatusConfirmedSafe
}

// StatusEntry is one event in a record's audit trail.
type StatusEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	FraudBool int       `json:"fraud_bool"`
	Actor     string    `json:"actor"`
}

// Record is one applicant registration attempt with its fraud decision and
// mutable audit trail.
//
// Invariants:
//   - StatusHistory is never empty, reordered, or truncated; it only grows.
//   - FraudBool always equals the FraudBool of the last history entry.
//   - Confirmed flips to true only through a reviewer update.
//   - Version increments on every successful update; conditional updates
//     require the expected version so concurrent overrides cannot silently
//     drop each other's history entries.
type Record struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Features  features.Vector `json:"feature_vector"`
	FraudBool int             `json:"fraud_bool"`
	Confirmed bool            `json:"confirmed"`
	CreatedAt time.Time       `json:"created_at"`
	History   []StatusEntry   `json:"status_history"`
	Version   int             `json:"version"`
}

// Clone returns a deep copy so store internals never alias caller slices.
func (r *Record) Clone() *Record {
	cp := *r
	cp.History = append([]StatusEntry(nil), r.History...)
	return &cp
}
