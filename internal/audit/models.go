// Package audit emits operational audit events for verdict-affecting actions.
// This trail is for operators and compliance review; the per-record
// status_history that reviewers see lives on the record itself.
package audit

import (
	"context"
	"time"
)

// Action identifies what happened.
type Action string

const (
	ActionRecordRegistered  Action = "record_registered"
	ActionVerdictOverridden Action = "verdict_overridden"
	ActionScoringFailed     Action = "scoring_failed"
)

// Event is emitted from domain logic to capture key actions. Kept
// transport-agnostic so sinks can fan out to memory, Kafka, or both.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	RecordID  string    `json:"record_id,omitempty"`
	FraudBool int       `json:"fraud_bool"`
	Actor     string    `json:"actor"`
	// Enrichment from request context for forensics.
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	DeviceOS  string `json:"device_os,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Sink persists or forwards audit events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
