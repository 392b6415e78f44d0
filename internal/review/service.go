// Package review reads, lists, and mutates existing records' verdicts while
// maintaining the append-only status history. It never creates records; that
// is the registration pipeline's job.
package review

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/tramcandoit/mlsecops-application/internal/audit"
	"github.com/tramcandoit/mlsecops-application/internal/platform/metrics"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
	dErrors "github.com/tramcandoit/mlsecops-application/pkg/domain-errors"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
)

// updateAttempts bounds how often UpdateVerdict re-reads after losing the
// version race to a concurrent reviewer.
const updateAttempts = 3

type Service struct {
	store   registration.Store
	auditor *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(store registration.Store, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		auditor: auditor,
		logger:  logger,
		metrics: m,
	}
}

// GetByID returns one record or a not-found error.
func (s *Service) GetByID(ctx context.Context, id string) (*registration.Record, error) {
	records, err := s.store.ListWhere(ctx, registration.Filter{ID: &id})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "Item not found")
	}
	return records[0], nil
}

// ListAll returns every record, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*registration.Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// ListByVerdict returns records with the given verdict in store order.
func (s *Service) ListByVerdict(ctx context.Context, verdict int) ([]*registration.Record, error) {
	if verdict != 0 && verdict != 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "verdict must be 0 or 1")
	}
	records, err := s.store.ListWhere(ctx, registration.Filter{FraudBool: &verdict})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return records, nil
}

// UpdateVerdict applies a reviewer override: append a history entry, set the
// verdict and the confirmed flag, all in one conditional update. A lost
// version race re-reads and retries a bounded number of times so concurrent
// overrides cannot drop each other's history entries.
func (s *Service) UpdateVerdict(ctx context.Context, id string, verdict int) error {
	if verdict != 0 && verdict != 1 {
		return dErrors.New(dErrors.CodeValidation, "verdict must be 0 or 1")
	}

	var lastErr error
	for attempt := 0; attempt < updateAttempts; attempt++ {
		record, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		entry := registration.StatusEntry{
			Timestamp: requestcontext.Now(ctx),
			Status:    registration.ReviewStatus(verdict),
			FraudBool: verdict,
			Actor:     registration.ActorAdmin,
		}
		patch := registration.Patch{
			FraudBool: verdict,
			Confirmed: true,
			History:   append(record.History, entry),
		}

		err = s.store.Update(ctx, id, record.Version, patch)
		if err == nil {
			s.metrics.ObserveOverride(strconv.Itoa(verdict))
			s.auditor.Emit(ctx, audit.Event{
				Action:    audit.ActionVerdictOverridden,
				RecordID:  id,
				FraudBool: verdict,
				Actor:     registration.ActorAdmin,
			})
			s.logger.InfoContext(ctx, "verdict overridden",
				"request_id", requestcontext.RequestID(ctx),
				"record_id", id,
				"fraud_bool", verdict,
				"attempt", attempt+1,
			)
			return nil
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Item not found")
		}
		if errors.Is(err, sentinel.ErrVersionMismatch) {
			s.metrics.IncrementUpdateConflict()
			lastErr = err
			continue
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update record")
	}
	return dErrors.Wrap(lastErr, dErrors.CodeConflict, "record update kept losing the version race")
}
