package cache

import "time"

// DataWithLogicalExpire wraps a cached value with its own expiry, so a value
// that outlives ExpireAt is treated as stale even if Redis still holds it.
type DataWithLogicalExpire[T any] struct {
	Data      T         `json:"data"`
	ExpireAt  time.Time `json:"expire_at"`
	CreatedAt time.Time `json:"created_at"` // for debugging
}

// IsLogicalExpired reports whether the value is stale at now.
func (d *DataWithLogicalExpire[T]) IsLogicalExpired(now time.Time) bool {
	return now.After(d.ExpireAt)
}

// NewDataWithLogicalExpire wraps data with an expiry ttl after now.
func NewDataWithLogicalExpire[T any](data T, now time.Time, ttl time.Duration) *DataWithLogicalExpire[T] {
	return &DataWithLogicalExpire[T]{
		Data:      data,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	}
}
