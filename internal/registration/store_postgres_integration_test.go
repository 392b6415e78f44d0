//go:build integration

package registration_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/tramcandoit/mlsecops-application/internal/features"
	"github.com/tramcandoit/mlsecops-application/internal/registration"
	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
	"github.com/tramcandoit/mlsecops-application/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *registration.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = registration.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(s.ctx))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "registrations"))
}

func (s *PostgresStoreSuite) newRecord(verdict int) *registration.Record {
	created := time.Now().UTC().Truncate(time.Microsecond)
	return &registration.Record{
		ID:        uuid.NewString(),
		Name:      "Alice",
		Email:     "a@x.com",
		Phone:     "555-1111",
		Features:  features.Normalize(map[string]any{"income": "50000", "payment_type": "AB"}),
		FraudBool: verdict,
		CreatedAt: created,
		History: []registration.StatusEntry{{
			Timestamp: created,
			Status:    registration.InitialStatus(verdict),
			FraudBool: verdict,
			Actor:     registration.ActorSystem,
		}},
		Version: 1,
	}
}

func (s *PostgresStoreSuite) TestInsertAndLookup() {
	record := s.newRecord(1)
	s.Require().NoError(s.store.Insert(s.ctx, record))

	got, err := s.store.ListWhere(s.ctx, registration.Filter{ID: &record.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 1)

	s.Equal(record.ID, got[0].ID)
	s.Equal(record.Name, got[0].Name)
	s.Equal(record.Email, got[0].Email)
	s.Equal(record.Phone, got[0].Phone)
	s.Equal(1, got[0].FraudBool)
	s.False(got[0].Confirmed)
	s.Equal(1, got[0].Version)
	s.WithinDuration(record.CreatedAt, got[0].CreatedAt, time.Second)

	s.Equal(float64(50000), got[0].Features.Get("income"))
	s.Equal("AB", got[0].Features.Get("payment_type"))

	s.Require().Len(got[0].History, 1)
	s.Equal(registration.StatusSuspectedFraud, got[0].History[0].Status)
	s.Equal(registration.ActorSystem, got[0].History[0].Actor)
}

func (s *PostgresStoreSuite) TestInsertDuplicateID() {
	record := s.newRecord(0)
	s.Require().NoError(s.store.Insert(s.ctx, record))

	err := s.store.Insert(s.ctx, record.Clone())
	s.Require().ErrorIs(err, sentinel.ErrDuplicate)
}

func (s *PostgresStoreSuite) TestListWhereByVerdict() {
	flagged := s.newRecord(1)
	clean := s.newRecord(0)
	s.Require().NoError(s.store.Insert(s.ctx, flagged))
	s.Require().NoError(s.store.Insert(s.ctx, clean))

	verdict := 1
	got, err := s.store.ListWhere(s.ctx, registration.Filter{FraudBool: &verdict})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(flagged.ID, got[0].ID)

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresStoreSuite) TestConditionalUpdate() {
	record := s.newRecord(1)
	s.Require().NoError(s.store.Insert(s.ctx, record))

	entry := registration.StatusEntry{
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
		Status:    registration.StatusConfirmedSafe,
		FraudBool: 0,
		Actor:     registration.ActorAdmin,
	}
	patch := registration.Patch{
		FraudBool: 0,
		Confirmed: true,
		History:   append(record.Clone().History, entry),
	}

	s.Require().NoError(s.store.Update(s.ctx, record.ID, 1, patch))

	got, err := s.store.ListWhere(s.ctx, registration.Filter{ID: &record.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(0, got[0].FraudBool)
	s.True(got[0].Confirmed)
	s.Equal(2, got[0].Version)
	s.Require().Len(got[0].History, 2)
	s.Equal(registration.StatusConfirmedSafe, got[0].History[1].Status)

	s.Run("stale version is rejected", func() {
		err := s.store.Update(s.ctx, record.ID, 1, patch)
		s.Require().ErrorIs(err, sentinel.ErrVersionMismatch)
	})

	s.Run("unknown id is rejected", func() {
		err := s.store.Update(s.ctx, uuid.NewString(), 1, patch)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// Concurrent reviewers racing on the same record: exactly one write per
// version, no lost history entries.
func (s *PostgresStoreSuite) TestConcurrentUpdates() {
	record := s.newRecord(1)
	s.Require().NoError(s.store.Insert(s.ctx, record))

	const writers = 10
	var wg sync.WaitGroup
	var succeeded atomic.Int32

	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			verdict := i % 2
			entry := registration.StatusEntry{
				Timestamp: time.Now().UTC(),
				Status:    registration.ReviewStatus(verdict),
				FraudBool: verdict,
				Actor:     registration.ActorAdmin,
			}
			patch := registration.Patch{
				FraudBool: verdict,
				Confirmed: true,
				History:   append(record.Clone().History, entry),
			}
			if err := s.store.Update(s.ctx, record.ID, 1, patch); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())

	got, err := s.store.ListWhere(s.ctx, registration.Filter{ID: &record.ID})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(2, got[0].Version)
	s.Len(got[0].History, 2)
}
