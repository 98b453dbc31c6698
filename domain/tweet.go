package domain

import (
	"context"
	"time"
)

// MaxUserIDLength is the longest user id, in characters, the store can hold.
const MaxUserIDLength = 255

// Tweet is representing the Tweet data struct
type Tweet struct {
	ID        int64     // Assigned by the store on creation
	UserID    string    // Author, opaque to this service
	Content   string    // Immutable once created
	Likers    []string  // Users currently liking the tweet, no duplicates
	CreatedAt time.Time // Creation timestamp
}

// TweetDBRepository defines the persistence contract of the tweet store.
type TweetDBRepository interface {
	// Fetch retrieves every tweet ordered by created_at desc, id desc.
	Fetch(ctx context.Context) ([]Tweet, error)

	// FetchContaining retrieves the tweets whose content contains substr,
	// in the same order as Fetch.
	FetchContaining(ctx context.Context, substr string) ([]Tweet, error)

	// Store creates a new tweet and backfills ID and CreatedAt.
	Store(ctx context.Context, t *Tweet) error

	// Delete removes a tweet together with its likers.
	// Returns ErrNotFound if the tweet doesn't exist.
	Delete(ctx context.Context, id int64) error

	// ToggleLiker atomically adds userID to the likers of the tweet when absent
	// and removes it when present. It returns the resulting likers and whether
	// userID is a liker afterwards.
	// Returns ErrNotFound if the tweet doesn't exist.
	ToggleLiker(ctx context.Context, id int64, userID string) (likers []string, liked bool, err error)

	// FetchIDs returns up to limit tweet ids greater than cursor, ascending.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// TweetCache holds derived views of the tweet store.
type TweetCache interface {
	// GetHashtagRank returns ErrCacheMiss when no valid ranking is cached.
	GetHashtagRank(ctx context.Context) ([]HashtagCount, error)
	SetHashtagRank(ctx context.Context, rank []HashtagCount) error
	DeleteHashtagRank(ctx context.Context) error
}

// TweetRepository coordinates the database and the cache.
type TweetRepository interface {
	Fetch(ctx context.Context) ([]Tweet, error)
	FetchContaining(ctx context.Context, substr string) ([]Tweet, error)
	Store(ctx context.Context, t *Tweet) error
	Delete(ctx context.Context, id int64) error
	ToggleLiker(ctx context.Context, id int64, userID string) ([]string, bool, error)
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)

	// FetchHashtagRank returns the cached ranking, computing it on a miss.
	FetchHashtagRank(ctx context.Context) ([]HashtagCount, error)
	// RebuildHashtagRank recomputes the ranking from the store and caches it.
	RebuildHashtagRank(ctx context.Context) ([]HashtagCount, error)
}

type TweetUsecase interface {
	Fetch(ctx context.Context) ([]Tweet, error)
	Store(ctx context.Context, t *Tweet) error
	Delete(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, id int64, userID string) ([]string, error)
	FetchHashtags(ctx context.Context) ([]HashtagCount, error)
	FetchByHashtag(ctx context.Context, tag string) ([]Tweet, error)
	InitBloomFilter(ctx context.Context) error
}
