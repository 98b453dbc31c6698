package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/go-clean-tweets/domain"
	"github.com/Guyuepp/go-clean-tweets/internal/hashtag"
)

const (
	rankKey        = "hashtag_rank"
	rankRebuildKey = "hashtag_rank:rebuild"
)

// tweetRepository 协调层，协调缓存和数据库
type tweetRepository struct {
	db        domain.TweetDBRepository
	cache     domain.TweetCache
	rankGroup singleflight.Group

	// rankGen counts the writes that changed hashtag content. A ranking is
	// shared and cached only within the generation it was read in.
	rankMu  sync.RWMutex
	rankGen uint64
}

var _ domain.TweetRepository = (*tweetRepository)(nil)

// NewTweetRepository creates the layer coordinating cache and database
func NewTweetRepository(db domain.TweetDBRepository, cache domain.TweetCache) *tweetRepository {
	return &tweetRepository{
		db:    db,
		cache: cache,
	}
}

func (r *tweetRepository) Fetch(ctx context.Context) ([]domain.Tweet, error) {
	return r.db.Fetch(ctx)
}

func (r *tweetRepository) FetchContaining(ctx context.Context, substr string) ([]domain.Tweet, error) {
	return r.db.FetchContaining(ctx, substr)
}

// Store invalidates the hashtag ranking once the tweet is persisted.
func (r *tweetRepository) Store(ctx context.Context, t *domain.Tweet) error {
	if err := r.db.Store(ctx, t); err != nil {
		return err
	}
	r.invalidateRank(ctx)
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateRank(ctx)
	return nil
}

// ToggleLiker goes straight to the database, likes have no cached view.
func (r *tweetRepository) ToggleLiker(ctx context.Context, id int64, userID string) ([]string, bool, error) {
	return r.db.ToggleLiker(ctx, id, userID)
}

func (r *tweetRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// FetchHashtagRank serves the cached ranking. On a miss concurrent callers
// share one computation.
func (r *tweetRepository) FetchHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	rank, err := r.cache.GetHashtagRank(ctx)
	if err == nil {
		return rank, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("failed to get hashtag rank from cache: %v", err)
	}

	gen := r.generation()
	result, err, _ := r.rankGroup.Do(fmt.Sprintf("%s:%d", rankKey, gen), func() (any, error) {
		return r.buildHashtagRank(ctx, gen)
	})
	if err != nil {
		return nil, err
	}
	return asRank(result)
}

// RebuildHashtagRank recomputes the ranking for the current generation and
// never joins a computation started by FetchHashtagRank.
func (r *tweetRepository) RebuildHashtagRank(ctx context.Context) ([]domain.HashtagCount, error) {
	gen := r.generation()
	result, err, _ := r.rankGroup.Do(fmt.Sprintf("%s:%d", rankRebuildKey, gen), func() (any, error) {
		return r.buildHashtagRank(ctx, gen)
	})
	if err != nil {
		return nil, err
	}
	return asRank(result)
}

// buildHashtagRank reads the store and caches the ranking unless a write
// landed after gen was taken. The read lock orders the cache write before the
// invalidation of any later write.
func (r *tweetRepository) buildHashtagRank(ctx context.Context, gen uint64) ([]domain.HashtagCount, error) {
	tweets, err := r.db.FetchContaining(ctx, hashtag.Prefix)
	if err != nil {
		return nil, fmt.Errorf("fetch tweets with hashtags: %w", err)
	}

	contents := make([]string, len(tweets))
	for i := range tweets {
		contents[i] = tweets[i].Content
	}
	rank := hashtag.Count(contents)

	r.rankMu.RLock()
	defer r.rankMu.RUnlock()
	if r.rankGen != gen {
		return rank, nil
	}
	if err := r.cache.SetHashtagRank(ctx, rank); err != nil {
		logrus.Warnf("failed to set hashtag rank cache: %v", err)
	}
	return rank, nil
}

func (r *tweetRepository) generation() uint64 {
	r.rankMu.RLock()
	defer r.rankMu.RUnlock()
	return r.rankGen
}

func asRank(v any) ([]domain.HashtagCount, error) {
	rank, ok := v.([]domain.HashtagCount)
	if !ok {
		return nil, domain.ErrInternalServerError
	}
	return rank, nil
}

func (r *tweetRepository) invalidateRank(ctx context.Context) {
	r.rankMu.Lock()
	r.rankGen++
	r.rankMu.Unlock()

	if err := r.cache.DeleteHashtagRank(ctx); err != nil {
		logrus.Warnf("failed to invalidate hashtag rank cache: %v", err)
	}
}
