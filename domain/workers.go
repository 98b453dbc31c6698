package domain

import "context"

// HashtagRankWorker rebuilds the cached hashtag ranking in the background
// after tweets are added or deleted.
type HashtagRankWorker interface {
	Start(ctx context.Context)

	// Notify schedules a rebuild. It never blocks the caller.
	Notify(tweetID int64)
}
