package domain

import "context"

type BloomRepository interface {
	// Add puts the tweet id into the filter
	Add(ctx context.Context, id int64) error

	// Exists reports whether the id may be present.
	// true: may exist, the store has to be asked
	// false: definitely absent
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd adds many ids in a single round trip
	BulkAdd(ctx context.Context, ids []int64) error
}
