package registration

import (
	"context"
	"sync"

	"github.com/tramcandoit/mlsecops-application/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a mutex-guarded map. It backs local
// development and unit tests; production deployments use the Postgres store.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

func (s *InMemoryStore) Insert(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrDuplicate
	}
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *InMemoryStore) ListWhere(_ context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, r := range s.records {
		if matches(r, filter) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, id string, expectedVersion int, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.records[id]
	if !exists {
		return sentinel.ErrNotFound
	}
	if r.Version != expectedVersion {
		return sentinel.ErrVersionMismatch
	}
	r.FraudBool = patch.FraudBool
	r.Confirmed = patch.Confirmed
	r.History = append([]StatusEntry(nil), patch.History...)
	r.Version++
	return nil
}

// matches evaluates the equality predicate client-side, one record at a time.
func matches(r *Record, filter Filter) bool {
	if filter.ID != nil && r.ID != *filter.ID {
		return false
	}
	if filter.FraudBool != nil && r.FraudBool != *filter.FraudBool {
		return false
	}
	return true
}
