// Package service orchestrates the registration pipeline: validate identity
// fields, normalize features, obtain a verdict from the scorer, and persist
// the initial record. This is the only path by which new records enter the
// system.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tramcandoit/mlsecops-application/internal/audit"
	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/internal/platform/metrics"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
	"github.com/tramcandoit/mlsecops-application/internal/scoring"
	dErrors "github.com/tramcandoit/mlsecops-application/pkg/domain-errors"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

// Identity carries the minimum applicant identity fields.
type Identity struct {
	Name  string
	Email string
	Phone string
}

// Result is what the caller gets back on success.
type Result struct {
	ID        string
	FraudBool int
}

// Service runs the registration pipeline.
type Service struct {
	store   registration.Store
	scorer  scoring.Scorer
	auditor *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store registration.Store, scorer scoring.Scorer, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		scorer:  scorer,
		auditor: auditor,
		logger:  logger,
		metrics: m,
	}
}

// Register validates, scores, and persists one registration attempt. Either
// the record is fully persisted or nothing is written at all: a scoring
// failure leaves no trace in the store.
func (s *Service) Register(ctx context.Context, identity Identity, rawFeatures map[string]any) (*Result, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	vector := features.Normalize(rawFeatures)

	verdict, err := s.scorer.Score(ctx, vector)
	if err != nil {
		s.auditor.Emit(ctx, audit.Event{
			Action: audit.ActionScoringFailed,
			Actor:  registration.ActorSystem,
			Reason: err.Error(),
		})
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scoring service unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scoring failed")
	}

	now := requestcontext.Now(ctx)
	record := &registration.Record{
		ID:        id,
		Name:      identity.Name,
		Email:     identity.Email,
		Phone:     identity.Phone,
		Features:  vector,
		FraudBool: verdict,
		Confirmed: false,
		CreatedAt: now,
		History: []registration.StatusEntry{{
			Timestamp: now,
			Status:    registration.InitialStatus(verdict),
			FraudBool: verdict,
			Actor:     registration.ActorSystem,
		}},
		Version: 1,
	}

	if err := s.store.Insert(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			// Generated ids do not collide; hitting this means the id
			// generator is broken, not that the caller raced anyone.
			s.logger.ErrorContext(ctx, "generated record id collided", "record_id", id)
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "record id collision")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist registration")
	}

	s.metrics.ObserveRegistration(strconv.Itoa(verdict))
	s.auditor.Emit(ctx, audit.Event{
		Action:    audit.ActionRecordRegistered,
		RecordID:  id,
		FraudBool: verdict,
		Actor:     registration.ActorSystem,
	})
	s.logger.InfoContext(ctx, "registration recorded",
		"request_id", requestcontext.RequestID(ctx),
		"record_id", id,
		"fraud_bool", verdict,
	)

	return &Result{ID: id, FraudBool: verdict}, nil
}

func validateIdentity(identity Identity) error {
	var missing []string
	if strings.TrimSpace(identity.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(identity.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(identity.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}
