package registration

import "context"

// Filter is the equality predicate the store supports. At most one field is
// set; a zero Filter matches everything. Range queries are deliberately not
// part of this contract.
type Filter struct {
	ID        *string
	FraudBool *int
}

// Patch names the only fields the review workflow may replace on an existing
// record. The whole patch applies atomically together with a version bump.
type Patch struct {
	FraudBool int
	Confirmed bool
	History   []StatusEntry
}

// Store is the contract over the keyed record collection.
//
// Insert fails with sentinel.ErrDuplicate when the id already exists; it never
// overwrites. Update fails with sentinel.ErrNotFound for unknown ids and with
// sentinel.ErrVersionMismatch when expectedVersion no longer matches, so the
// caller can re-read and retry.
type Store interface {
	Insert(ctx context.Context, record *Record) error
	List(ctx context.Context) ([]*Record, error)
	ListWhere(ctx context.Context, filter Filter) ([]*Record, error)
	Update(ctx context.Context, id string, expectedVersion int, patch Patch) error
}
